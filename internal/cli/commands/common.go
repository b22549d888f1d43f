package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/edusnap-dev/edusnap/internal/cli/authz"
	"github.com/edusnap-dev/edusnap/internal/cli/client"
	"github.com/edusnap-dev/edusnap/internal/cli/config"
	"github.com/edusnap-dev/edusnap/internal/cli/session"
)

// env bundles the dependencies every command needs. Commands receive it
// explicitly so tests can swap in an httptest-backed client and a temp-dir
// session store.
type env struct {
	cfg      *config.Config
	sessions *session.Manager
	api      *client.Client
	out      io.Writer
}

// loadEnv wires the production dependencies: project config, the persisted
// session, and an API client that reads its bearer token from the session.
func loadEnv() (*env, error) {
	cfg, err := config.LoadFromCurrentDir()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	store, err := session.Open(cfg.SessionStorage)
	if err != nil {
		return nil, err
	}

	sessions := session.NewManager(store)

	return &env{
		cfg:      cfg,
		sessions: sessions,
		api:      client.New(cfg.ServerURL, sessions),
		out:      os.Stdout,
	}, nil
}

// guard evaluates the route guard for the current session and translates a
// redirect into the CLI's equivalent: an error telling the user where to
// go. It is checked before any network call so role mismatches fail fast
// and locally.
func guard(sess session.Session, route authz.Route) error {
	switch authz.Authorize(sess, route) {
	case authz.RedirectLogin:
		return fmt.Errorf("not logged in. Please run 'edusnap login' first")
	case authz.RedirectUnauthorized:
		return fmt.Errorf("this action requires the %s role (you are logged in as %s)", route.Requires, sess.Role)
	default:
		return nil
	}
}
