// Package storage selects and opens the local persistence backend.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/cloudcast/internal/storage/postgres"
	"github.com/julianstephens/cloudcast/internal/storage/sqlite"
)

// IsPostgres reports whether config is a PostgreSQL connection URL.
func IsPostgres(config string) bool {
	return strings.HasPrefix(config, "postgres://") || strings.HasPrefix(config, "postgresql://")
}

// New returns the provider for config: a PostgreSQL connection URL or a SQLite file path.
// Connection strings must not embed a password.
func New(config string) (Provider, error) {
	if IsPostgres(config) {
		if _, err := postgres.ValidateConnString(config); err != nil {
			return nil, err
		}
		return postgres.New(config), nil
	}
	path, err := ExpandPath(config)
	if err != nil {
		return nil, err
	}
	return sqlite.NewStore(path), nil
}

// HasEmbeddedPassword reports whether config is a PostgreSQL URL carrying a password.
func HasEmbeddedPassword(config string) bool {
	if !IsPostgres(config) {
		return false
	}
	_, err := postgres.ValidateConnString(config)
	return errors.Is(err, postgres.ErrEmbeddedCredentials)
}

// NewFromKeyring returns the PostgreSQL provider for a connection string read
// from the OS keyring. Such strings may carry a password.
func NewFromKeyring(connStr string) (Provider, error) {
	if !IsPostgres(connStr) {
		return nil, fmt.Errorf("keyring entry is not a PostgreSQL connection URL")
	}
	if _, err := postgres.ValidateConnString(connStr); err != nil && !errors.Is(err, postgres.ErrEmbeddedCredentials) {
		return nil, err
	}
	return postgres.New(connStr), nil
}

// ExpandPath resolves a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
