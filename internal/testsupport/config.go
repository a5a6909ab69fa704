// Package testsupport provides shared helpers for package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"inkdrop/internal/config"
	"inkdrop/internal/identity"
)

// ConfigOption allows callers to customize the generated test
// configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per
// test. The journal is disabled by default so tests opt in explicitly.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.QueueRoot = filepath.Join(base, "queue")
	cfg.Paths.ScratchDir = base
	cfg.Journal.Enabled = false
	cfg.Logging.Format = "text"

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithJournal enables the journal with a database under the test's
// temp space.
func WithJournal(t testing.TB) ConfigOption {
	path := filepath.Join(t.TempDir(), "journal.db")
	return func(cfg *config.Config) {
		cfg.Journal.Enabled = true
		cfg.Journal.Path = path
	}
}

// SelfResolver resolves every user name to the given identity. Tests
// use it so ownership normalization targets a uid the test process may
// actually chown to.
type SelfResolver struct {
	ID identity.Identity
}

func (r SelfResolver) Lookup(string) (identity.Identity, error) {
	return r.ID, nil
}

// FailingResolver rejects every lookup with the provided error.
type FailingResolver struct {
	Err error
}

func (r FailingResolver) Lookup(string) (identity.Identity, error) {
	return identity.Identity{}, r.Err
}
