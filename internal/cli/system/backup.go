package system

import (
	"fmt"
	"path/filepath"

	"github.com/julianstephens/cloudcast/internal/cli"
)

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	mgr, err := ctx.BackupManager()
	if err != nil {
		return err
	}
	path, err := mgr.Create()
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.Stdout(), "✓ Backup created: %s\n", path)
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	mgr, err := ctx.BackupManager()
	if err != nil {
		return err
	}
	backups, err := mgr.List()
	if err != nil {
		return err
	}
	out := ctx.Stdout()
	if len(backups) == 0 {
		fmt.Fprintf(out, "No backups in %s\n", mgr.Dir())
		return nil
	}
	for _, b := range backups {
		fmt.Fprintf(out, "%s  %8d bytes  %s\n", b.Timestamp.Format("2006-01-02 15:04:05"), b.Size, filepath.Base(b.Path))
	}
	return nil
}

type BackupRestoreCmd struct {
	File string `arg:"" help:"Backup file name (from 'cloudcast backup list') or path."`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	mgr, err := ctx.BackupManager()
	if err != nil {
		return err
	}
	path := c.File
	if filepath.Base(path) == path {
		path = filepath.Join(mgr.Dir(), path)
	}

	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	previous, err := mgr.Restore(path)
	if err != nil {
		return err
	}
	if previous != "" {
		fmt.Fprintf(ctx.Stdout(), "Saved the replaced database as %s\n", filepath.Base(previous))
	}
	fmt.Fprintf(ctx.Stdout(), "✓ Restored %s\n", filepath.Base(path))
	return ctx.Store.Load()
}
