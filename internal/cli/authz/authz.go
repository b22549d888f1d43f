// Package authz decides whether the current session may reach a route. It
// is the CLI rendition of the browser client's protected-route guard: a
// pure function over a session snapshot and a static route descriptor,
// re-evaluated on every command, with no memory of prior decisions.
package authz

import (
	"github.com/edusnap-dev/edusnap/internal/cli/session"
)

// Route pairs a backend route family with the role required to reach it.
// A route with no required role bypasses the guard entirely.
type Route struct {
	Path     string
	Requires session.Role
}

// Route descriptors, mirroring the application's navigation table.
var (
	RouteLanding      = Route{Path: "/"}
	RouteLogin        = Route{Path: "/login"}
	RouteUnauthorized = Route{Path: "/unauthorized"}

	RouteAdminDashboard = Route{Path: "/admin/dashboard", Requires: session.RoleAdmin}
	RouteAdminFaculty   = Route{Path: "/admin/faculty", Requires: session.RoleAdmin}
	RouteAdminReports   = Route{Path: "/admin/reports", Requires: session.RoleAdmin}

	RouteFacultyDashboard = Route{Path: "/faculty/dashboard", Requires: session.RoleFaculty}
	RouteFacultyStudents  = Route{Path: "/faculty/students", Requires: session.RoleFaculty}
	RouteFacultyUpload    = Route{Path: "/faculty/upload", Requires: session.RoleFaculty}
	RouteFacultyResults   = Route{Path: "/faculty/results", Requires: session.RoleFaculty}
	RouteFacultyReports   = Route{Path: "/faculty/reports", Requires: session.RoleFaculty}
)

// Decision is the outcome of guarding one navigation attempt.
type Decision int

const (
	// Allow renders the requested destination.
	Allow Decision = iota
	// RedirectLogin sends the unauthenticated user to the login route.
	RedirectLogin
	// RedirectUnauthorized sends an authenticated user whose role does not
	// match to the unauthorized route.
	RedirectUnauthorized
)

// Target returns the redirect destination for non-Allow decisions.
func (d Decision) Target() string {
	switch d {
	case RedirectLogin:
		return RouteLogin.Path
	case RedirectUnauthorized:
		return RouteUnauthorized.Path
	default:
		return ""
	}
}

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect:" + RouteLogin.Path
	case RedirectUnauthorized:
		return "redirect:" + RouteUnauthorized.Path
	default:
		return "unknown"
	}
}

// Authorize evaluates the route guard against a session snapshot.
func Authorize(sess session.Session, route Route) Decision {
	if route.Requires == "" {
		return Allow
	}
	if !sess.IsAuthenticated {
		return RedirectLogin
	}
	if sess.Role != route.Requires {
		return RedirectUnauthorized
	}
	return Allow
}
