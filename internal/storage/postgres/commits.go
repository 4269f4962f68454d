package postgres

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/cloudcast/internal/constants"
	"github.com/julianstephens/cloudcast/internal/models"
)

func (s *Store) AddCommitRecord(record models.CommitRecord) error {
	fileIDs, err := json.Marshal(record.FileIDs)
	if err != nil {
		return fmt.Errorf("failed to encode file ids: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO commit_records (id, schedule_id, file_ids, result, message, server_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		record.ID, record.ScheduleID, string(fileIDs), string(record.Result),
		record.Message, record.ServerURL, record.CreatedAt,
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
		query += " LIMIT $1"
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
			r       models.CommitRecord
			fileIDs []byte
			result  string
		)
		if err := rows.Scan(&r.ID, &r.ScheduleID, &fileIDs, &result, &r.Message, &r.ServerURL, &r.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(fileIDs, &r.FileIDs); err != nil {
			return nil, fmt.Errorf("failed to decode file ids of commit %s: %w", r.ID, err)
		}
		r.Result = constants.SaveResult(result)
		records = append(records, r)
	}
	return records, rows.Err()
}
