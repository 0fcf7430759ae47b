package foodsense_test

import (
	"strings"
	"testing"

	foodsense "github.com/foodsense/foodsense-go"
	"github.com/stretchr/testify/assert"
)

func TestLoginRequestValidate(t *testing.T) {
	assert.NoError(t, foodsense.LoginRequest{Email: "a@b.com", Password: "secret1"}.Validate())
	assert.Error(t, foodsense.LoginRequest{Email: "not-an-email", Password: "secret1"}.Validate())
	assert.Error(t, foodsense.LoginRequest{Email: "a@b.com"}.Validate())
	assert.Error(t, foodsense.LoginRequest{Password: "secret1"}.Validate())
}

func TestRegisterRequestValidate(t *testing.T) {
	valid := foodsense.RegisterRequest{
		Email:    "a@b.com",
		Password: "secret1",
		FullName: "An Binh",
	}
	assert.NoError(t, valid.Validate())

	short := valid
	short.Password = "12345"
	assert.Error(t, short.Validate())

	long := valid
	long.Password = strings.Repeat("x", 51)
	assert.Error(t, long.Validate())

	name := valid
	name.FullName = "A"
	assert.Error(t, name.Validate())
}

func TestChangePasswordRequestValidate(t *testing.T) {
	assert.NoError(t, foodsense.ChangePasswordRequest{
		CurrentPassword: "secret1",
		NewPassword:     "secret2",
	}.Validate())

	assert.Error(t, foodsense.ChangePasswordRequest{NewPassword: "secret2"}.Validate())
	assert.Error(t, foodsense.ChangePasswordRequest{
		CurrentPassword: "secret1",
		NewPassword:     "short",
	}.Validate())
}

func TestUserUpdateValidate(t *testing.T) {
	level := 3
	assert.NoError(t, foodsense.UserUpdate{SpicyLevel: &level}.Validate())

	tooHot := 6
	assert.Error(t, foodsense.UserUpdate{SpicyLevel: &tooHot}.Validate())
}
