package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/julianstephens/cloudcast/internal/backup"
	"github.com/julianstephens/cloudcast/internal/client"
	"github.com/julianstephens/cloudcast/internal/config"
	"github.com/julianstephens/cloudcast/internal/constants"
	"github.com/julianstephens/cloudcast/internal/errors"
	"github.com/julianstephens/cloudcast/internal/logger"
	"github.com/julianstephens/cloudcast/internal/storage"
)

type Context struct {
	Store     storage.Provider
	Config    *config.Config
	Station   *client.Client
	ConfigDir string
	Debug     bool

	// Out receives command output; nil means stdout.
	Out io.Writer
}

func (c *Context) Stdout() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// Timeout is the per-request station timeout.
func (c *Context) Timeout() time.Duration {
	if c.Config == nil {
		return constants.DefaultRequestTimeout
	}
	return c.Config.Timeout()
}

// RequestContext bounds a single station call.
func (c *Context) RequestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), c.Timeout())
}

// ServerURL is the station base URL the commands talk to.
func (c *Context) ServerURL() string {
	if c.Station != nil {
		return c.Station.BaseURL()
	}
	if c.Config != nil {
		return c.Config.Server.URL
	}
	return constants.DefaultServerURL
}

// StationError wraps a failed station call. Transport failures get a hint
// pointing at the server setting; HTTP errors are reported as-is.
func (c *Context) StationError(action string, err error) error {
	wrapped := fmt.Errorf("%s: %w", action, err)
	var statusErr *client.StatusError
	if stderrors.As(err, &statusErr) || stderrors.Is(err, client.ErrUnexpectedResponse) {
		return wrapped
	}
	return errors.WithHint(wrapped, fmt.Sprintf("is the station at %s reachable? Set --server or CLOUDCAST_SERVER_URL", c.ServerURL()))
}

// BackupManager returns the snapshot manager for SQLite storage.
func (c *Context) BackupManager() (*backup.Manager, error) {
	path := c.Store.GetConfigPath()
	if storage.IsPostgres(path) || path == "postgresql" {
		return nil, fmt.Errorf("backups are only supported for SQLite storage")
	}
	return backup.NewManager(path), nil
}

// PerformAutomaticBackup snapshots SQLite storage and only logs failures.
func (c *Context) PerformAutomaticBackup() {
	mgr, err := c.BackupManager()
	if err != nil {
		return
	}
	if _, err := mgr.Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}
