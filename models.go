package foodsense

import "time"

// UserRole is the user's role
type UserRole = string

const (
	// RoleUser is a regular account (profile, preferences, history)
	RoleUser UserRole = "user"
	// RoleAdmin is an administrator (everything, plus the admin screens)
	RoleAdmin UserRole = "admin"
)

// UserProfile is the user object returned by the service. Preference fields
// mirror the profile form: taste, dietary restrictions and location.
type UserProfile struct {
	ID              int64      `json:"id"`
	Email           string     `json:"email"`
	FullName        string     `json:"full_name,omitempty"`
	AvatarURL       string     `json:"avatar_url,omitempty"`
	Role            UserRole   `json:"role"`
	SpicyLevel      int        `json:"spicy_level"`
	PreferSoup      bool       `json:"prefer_soup"`
	IsVegetarian    bool       `json:"is_vegetarian"`
	Allergens       []string   `json:"allergens,omitempty"`
	FavoriteRegions []string   `json:"favorite_regions,omitempty"`
	Latitude        string     `json:"latitude,omitempty"`
	Longitude       string     `json:"longitude,omitempty"`
	IsActive        bool       `json:"is_active"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
}

// Clone returns a deep copy so published snapshots cannot be mutated by
// consumers.
func (u *UserProfile) Clone() *UserProfile {
	if u == nil {
		return nil
	}
	cp := *u
	if u.Allergens != nil {
		cp.Allergens = append([]string(nil), u.Allergens...)
	}
	if u.FavoriteRegions != nil {
		cp.FavoriteRegions = append([]string(nil), u.FavoriteRegions...)
	}
	if u.CreatedAt != nil {
		t := *u.CreatedAt
		cp.CreatedAt = &t
	}
	return &cp
}

// Session pairs the bearer token with the user profile it authorizes.
// The two travel together: persistence never holds one without the other.
type Session struct {
	Token string       `json:"token"`
	User  *UserProfile `json:"user"`
}

// AuthState is the published snapshot consumed by the render layer and the
// route guard. It is never partially updated: User and IsAuthenticated flip
// together, and Loading is true only until the initial bootstrap settles.
type AuthState struct {
	User            *UserProfile
	IsAuthenticated bool
	Loading         bool
}
