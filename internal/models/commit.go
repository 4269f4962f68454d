package models

import (
	"time"

	"github.com/julianstephens/cloudcast/internal/constants"
)

// CommitRecord is one journaled schedule save attempt.
type CommitRecord struct {
	ID         string               `json:"id" yaml:"id"`
	ScheduleID int64                `json:"schedule_id" yaml:"schedule_id"`
	FileIDs    []int64              `json:"file_ids" yaml:"file_ids"`
	Result     constants.SaveResult `json:"result" yaml:"result"`
	Message    string               `json:"message,omitempty" yaml:"message,omitempty"`
	ServerURL  string               `json:"server_url,omitempty" yaml:"server_url,omitempty"`
	CreatedAt  time.Time            `json:"created_at" yaml:"created_at"`
}

// Accepted reports whether the station accepted the save.
func (r CommitRecord) Accepted() bool {
	return r.Result == constants.SaveSuccess
}
