package foodsense

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

// RegisterRequest is the body for POST /auth/register. Bounds match the
// service's schema so malformed input fails before the round-trip.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// Validate will run validation rules
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 50)),
		validation.Field(&r.FullName, validation.Required, validation.Length(2, 100)),
	)
}

// UserUpdate is the partial-profile body for PUT /auth/me. Nil fields are
// omitted and left untouched by the service.
type UserUpdate struct {
	FullName        *string  `json:"full_name,omitempty"`
	AvatarURL       *string  `json:"avatar_url,omitempty"`
	SpicyLevel      *int     `json:"spicy_level,omitempty"`
	PreferSoup      *bool    `json:"prefer_soup,omitempty"`
	IsVegetarian    *bool    `json:"is_vegetarian,omitempty"`
	Allergens       []string `json:"allergens,omitempty"`
	FavoriteRegions []string `json:"favorite_regions,omitempty"`
	Latitude        *string  `json:"latitude,omitempty"`
	Longitude       *string  `json:"longitude,omitempty"`
}

// Validate will run validation rules
func (r UserUpdate) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FullName, validation.Length(0, 100)),
		validation.Field(&r.SpicyLevel, validation.Min(0), validation.Max(5)),
	)
}

// ChangePasswordRequest is the body for POST /auth/change-password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// Validate will run validation rules
func (r ChangePasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CurrentPassword, validation.Required),
		validation.Field(&r.NewPassword, validation.Required, validation.Length(6, 50)),
	)
}

// TokenResponse is the service reply to login and register.
type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        *UserProfile `json:"user"`
}
