// Package instance keeps a single interactive console per storage location.
package instance

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/cloudcast/internal/constants"
	"github.com/julianstephens/cloudcast/internal/logger"
)

var (
	findProcessFunc = ps.FindProcess
	getpidFunc      = os.Getpid
)

// ErrAlreadyRunning is returned when another live console holds the lock.
var ErrAlreadyRunning = errors.New("another cloudcast console is already running")

// Lock is a held pid lockfile. The file holds "<pid>|<acquired unix seconds>".
type Lock struct {
	path string
	pid  int
}

// Acquire takes the lock in dir. A lockfile left behind by a dead process,
// or by a process that is not cloudcast, is taken over.
func Acquire(dir string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	path := filepath.Join(dir, constants.LockfileName)
	pid := getpidFunc()

	if holder, err := readHolder(path); err == nil && holder != pid && alive(holder) {
		return nil, fmt.Errorf("%w (pid %d)", ErrAlreadyRunning, holder)
	} else if err == nil && holder != pid {
		logger.Info("Taking over stale console lock", "pid", holder, "path", path)
	}

	content := fmt.Sprintf("%d|%d", pid, time.Now().Unix())
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write lockfile: %w", err)
	}
	return &Lock{path: path, pid: pid}, nil
}

// Release removes the lockfile if this process still owns it.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	holder, err := readHolder(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if holder != l.pid {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove lockfile: %w", err)
	}
	return nil
}

func (l *Lock) Path() string {
	return l.path
}

func readHolder(path string) (int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pidField, _, _ := strings.Cut(strings.TrimSpace(string(content)), "|")
	pid, err := strconv.Atoi(pidField)
	if err != nil {
		return 0, errors.New("invalid process ID in lockfile")
	}
	return pid, nil
}

func alive(pid int) bool {
	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return false
	}
	return strings.HasPrefix(process.Executable(), constants.AppName)
}
