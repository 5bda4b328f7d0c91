package storage

import (
	"time"

	"RentalNegotiator/internal/models"
)

func CreateMeasurement(r models.MeasurementRecord) (int64, error) {
	if db == nil {
		return 0, ErrNotInitialized
	}
	stmt, err := db.Prepare("INSERT INTO measurements(session_id, kind, avg, min, max, detail, created_at) VALUES(?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	createdAt := r.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	res, err := stmt.Exec(r.SessionID, string(r.Kind), r.Average, r.Min, r.Max, r.Detail, createdAt.UnixMilli())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetMeasurements 는 최신순으로 limit 개까지 돌려준다. limit <= 0 이면 전부.
func GetMeasurements(limit int) ([]models.MeasurementRecord, error) {
	if db == nil {
		return nil, ErrNotInitialized
	}
	query := `
		SELECT id, session_id, kind, avg, min, max, detail, created_at
		FROM measurements
		ORDER BY created_at DESC, id DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.MeasurementRecord
	for rows.Next() {
		var r models.MeasurementRecord
		var kind string
		var detail *string
		var createdMS int64

		if err := rows.Scan(&r.ID, &r.SessionID, &kind, &r.Average, &r.Min, &r.Max, &detail, &createdMS); err != nil {
			return nil, err
		}
		r.Kind = models.MeasurementKind(kind)
		if detail != nil {
			r.Detail = *detail
		}
		r.CreatedAt = time.UnixMilli(createdMS)
		records = append(records, r)
	}
	return records, rows.Err()
}
