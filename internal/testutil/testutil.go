// Package testutil builds servers backed by a throwaway SQLite store and
// offers fakes for the background job dispatcher.
package testutil

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/neslihan-na/playlearnkids-admin/internal/config"
	"github.com/neslihan-na/playlearnkids-admin/internal/lib/job"
	"github.com/neslihan-na/playlearnkids-admin/internal/server"
	"github.com/neslihan-na/playlearnkids-admin/internal/store"
	"github.com/neslihan-na/playlearnkids-admin/internal/store/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// Config returns a valid configuration using SQLite at path and the
// test_users root.
func Config(path string) *config.Config {
	cfg := &config.Config{
		Primary: config.Primary{Env: "test"},
		Server: config.ServerConfig{
			Port:               "0",
			ReadTimeout:        5,
			WriteTimeout:       5,
			IdleTimeout:        5,
			CORSAllowedOrigins: []string{"*"},
		},
		Database: config.DatabaseConfig{
			Driver:     config.DriverSQLite,
			SQLitePath: path,
		},
		Auth: config.AuthConfig{SecretKey: "sk_test_dummy"},
		Integration: config.IntegrationConfig{
			PushURL:   "http://127.0.0.1:0/push",
			EmailFrom: "PlayLearnKids <admin@playlearnkids.com>",
		},
		Observability: config.DefaultObservabilityConfig(),
	}
	cfg.Observability.ServiceName = "playlearnkids-admin"
	cfg.Observability.Environment = cfg.Primary.Env
	return cfg
}

// Logger discards everything.
func Logger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// NewStore opens an empty SQLite store that is closed with the test.
func NewStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "documents.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

// NewServer returns a server without Redis or an HTTP listener whose
// store is a fresh SQLite database.
func NewServer(t *testing.T) *server.Server {
	t.Helper()

	path := filepath.Join(t.TempDir(), "documents.db")
	st, err := sqlite.Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	return &server.Server{
		Config: Config(path),
		Logger: Logger(),
		Store:  st,
	}
}

// Dispatcher records jobs instead of running them.
type Dispatcher struct {
	mu      sync.Mutex
	Pushes  []job.PushPayload
	Invites []job.AdminInvitePayload

	// Err is returned by every enqueue call when set.
	Err error
}

var _ job.Dispatcher = (*Dispatcher)(nil)

func (d *Dispatcher) EnqueuePush(_ context.Context, p job.PushPayload) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return d.Err
	}
	d.Pushes = append(d.Pushes, p)
	return nil
}

func (d *Dispatcher) EnqueueAdminInvite(_ context.Context, p job.AdminInvitePayload) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return d.Err
	}
	d.Invites = append(d.Invites, p)
	return nil
}

// PushCount returns how many pushes were queued.
func (d *Dispatcher) PushCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.Pushes)
}
