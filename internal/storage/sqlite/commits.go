package sqlite

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/julianstephens/cloudcast/internal/constants"
	"github.com/julianstephens/cloudcast/internal/models"
)

// timestampLayout is fixed width so created_at sorts lexically.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

func (s *Store) AddCommitRecord(record models.CommitRecord) error {
	fileIDs, err := json.Marshal(record.FileIDs)
	if err != nil {
		return fmt.Errorf("failed to encode file ids: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO commit_records (id, schedule_id, file_ids, result, message, server_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.ScheduleID, string(fileIDs), string(record.Result),
		record.Message, record.ServerURL, record.CreatedAt.UTC().Format(timestampLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to add commit record: %w", err)
	}
	return nil
}

func (s *Store) GetCommitRecords(limit int) ([]models.CommitRecord, error) {
	query := `
		SELECT id, schedule_id, file_ids, result, message, server_url, created_at
		FROM commit_records
		ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.CommitRecord
	for rows.Next() {
		var (
			r         models.CommitRecord
			fileIDs   string
			result    string
			createdAt string
		)
		if err := rows.Scan(&r.ID, &r.ScheduleID, &fileIDs, &result, &r.Message, &r.ServerURL, &createdAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(fileIDs), &r.FileIDs); err != nil {
			return nil, fmt.Errorf("failed to decode file ids of commit %s: %w", r.ID, err)
		}
		r.Result = constants.SaveResult(result)
		if r.CreatedAt, err = time.Parse(timestampLayout, createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse created_at of commit %s: %w", r.ID, err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
