package storage

import "github.com/julianstephens/cloudcast/internal/models"

// Provider persists operator preferences and the commit journal.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Commit journal
	AddCommitRecord(models.CommitRecord) error
	// GetCommitRecords returns the most recent records, newest first. A
	// non-positive limit returns every record.
	GetCommitRecords(limit int) ([]models.CommitRecord, error)

	// Utils
	SchemaVersion() (current, latest int, err error)
	GetConfigPath() string
}
