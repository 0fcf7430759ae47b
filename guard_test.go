package foodsense_test

import (
	"testing"

	foodsense "github.com/foodsense/foodsense-go"
	"github.com/stretchr/testify/assert"
)

func newGuard() *foodsense.RouteGuard {
	return foodsense.NewRouteGuard(foodsense.SimpleConfig{BaseURL: "http://svc"})
}

func authState(role foodsense.UserRole) foodsense.AuthState {
	user := testUser()
	user.Role = role
	return foodsense.AuthState{User: user, IsAuthenticated: true}
}

func TestGuardDecisions(t *testing.T) {
	guard := newGuard()

	tests := []struct {
		name  string
		level foodsense.AccessLevel
		state foodsense.AuthState
		path  string
		want  foodsense.Decision
	}{
		{
			name:  "public renders for anonymous",
			level: foodsense.AccessPublic,
			state: foodsense.AuthState{},
			path:  "/",
			want:  foodsense.Decision{Action: foodsense.ActionAllow},
		},
		{
			name:  "public renders while loading",
			level: foodsense.AccessPublic,
			state: foodsense.AuthState{Loading: true},
			path:  "/",
			want:  foodsense.Decision{Action: foodsense.ActionAllow},
		},
		{
			name:  "user route waits while loading",
			level: foodsense.AccessUser,
			state: foodsense.AuthState{Loading: true},
			path:  "/profile",
			want:  foodsense.Decision{Action: foodsense.ActionWait},
		},
		{
			name:  "admin route waits while loading",
			level: foodsense.AccessAdmin,
			state: foodsense.AuthState{Loading: true},
			path:  "/admin",
			want:  foodsense.Decision{Action: foodsense.ActionWait},
		},
		{
			name:  "anonymous user route redirects to login with resume",
			level: foodsense.AccessUser,
			state: foodsense.AuthState{},
			path:  "/profile",
			want: foodsense.Decision{
				Action:   foodsense.ActionRedirect,
				Target:   "/login",
				ResumeTo: "/profile",
			},
		},
		{
			name:  "anonymous admin route redirects to login with resume",
			level: foodsense.AccessAdmin,
			state: foodsense.AuthState{},
			path:  "/admin/foods",
			want: foodsense.Decision{
				Action:   foodsense.ActionRedirect,
				Target:   "/login",
				ResumeTo: "/admin/foods",
			},
		},
		{
			name:  "authenticated user allowed on user route",
			level: foodsense.AccessUser,
			state: authState(foodsense.RoleUser),
			path:  "/profile",
			want:  foodsense.Decision{Action: foodsense.ActionAllow},
		},
		{
			name:  "non-admin on admin route goes home, not to login",
			level: foodsense.AccessAdmin,
			state: authState(foodsense.RoleUser),
			path:  "/admin",
			want: foodsense.Decision{
				Action: foodsense.ActionRedirect,
				Target: "/",
			},
		},
		{
			name:  "admin allowed on admin route",
			level: foodsense.AccessAdmin,
			state: authState(foodsense.RoleAdmin),
			path:  "/admin",
			want:  foodsense.Decision{Action: foodsense.ActionAllow},
		},
		{
			name:  "admin allowed on user route",
			level: foodsense.AccessUser,
			state: authState(foodsense.RoleAdmin),
			path:  "/profile",
			want:  foodsense.Decision{Action: foodsense.ActionAllow},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, guard.Evaluate(tc.level, tc.state, tc.path))
		})
	}
}

func TestGuardNeverRedirectsWhileLoading(t *testing.T) {
	guard := newGuard()

	// regardless of the underlying IsAuthenticated value
	for _, state := range []foodsense.AuthState{
		{Loading: true, IsAuthenticated: false},
		{Loading: true, IsAuthenticated: true, User: testUser()},
	} {
		decision := guard.Evaluate(foodsense.AccessUser, state, "/profile")
		assert.Equal(t, foodsense.ActionWait, decision.Action)
	}
}

func TestGuardIsDeterministic(t *testing.T) {
	guard := newGuard()
	state := foodsense.AuthState{}

	first := guard.Evaluate(foodsense.AccessUser, state, "/profile")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, guard.Evaluate(foodsense.AccessUser, state, "/profile"))
	}
}
