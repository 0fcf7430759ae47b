package foodsense

// AccessLevel is the access required by a screen.
type AccessLevel string

const (
	// AccessPublic renders for everyone.
	AccessPublic AccessLevel = "public"
	// AccessUser requires an authenticated session.
	AccessUser AccessLevel = "user"
	// AccessAdmin requires an authenticated admin.
	AccessAdmin AccessLevel = "admin"
)

// GuardAction is the kind of decision a RouteGuard returns.
type GuardAction string

const (
	// ActionAllow renders the requested content.
	ActionAllow GuardAction = "allow"
	// ActionWait renders a neutral placeholder until the bootstrap settles;
	// no access decision is made yet.
	ActionWait GuardAction = "wait"
	// ActionRedirect navigates to Target instead of rendering.
	ActionRedirect GuardAction = "redirect"
)

// Decision is the explicit navigation command a guard evaluation yields.
// The caller executes it; the guard itself never navigates.
type Decision struct {
	Action GuardAction
	// Target is the redirect destination, set only for ActionRedirect.
	Target string
	// ResumeTo is the originally requested path, set when the redirect goes
	// to the login entry so the destination can be resumed after login.
	ResumeTo string
}

// RouteGuard decides whether a screen may render for the current auth
// state. It is a pure function of (required level, state, requested path):
// stateless, deterministic, and side-effect free.
type RouteGuard struct {
	loginPath string
	homePath  string
}

// NewRouteGuard builds a guard using the configured login and home paths.
func NewRouteGuard(cfg Config) *RouteGuard {
	return &RouteGuard{
		loginPath: cfg.GetLoginPath(),
		homePath:  cfg.GetHomePath(),
	}
}

// Evaluate returns the decision for a screen requiring level at path.
//
// While the bootstrap is unsettled the guard withholds judgement for
// protected screens instead of redirecting, so a restored session never
// flashes through the login page.
func (g *RouteGuard) Evaluate(level AccessLevel, state AuthState, path string) Decision {
	if level == AccessPublic {
		return Decision{Action: ActionAllow}
	}

	if state.Loading {
		return Decision{Action: ActionWait}
	}

	if !state.IsAuthenticated {
		return Decision{
			Action:   ActionRedirect,
			Target:   g.loginPath,
			ResumeTo: path,
		}
	}

	if level == AccessAdmin {
		if state.User == nil || state.User.Role != RoleAdmin {
			return Decision{
				Action: ActionRedirect,
				Target: g.homePath,
			}
		}
	}

	return Decision{Action: ActionAllow}
}
