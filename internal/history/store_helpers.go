package history

import (
	"database/sql"
	"time"
)

// createdLayout keeps every created_at the same width so text comparison in
// SQL orders it by time.
const createdLayout = "2006-01-02T15:04:05.000000000Z07:00"

const recordColumns = "id, run_id, source_path, target_path, outcome, capture_time, capture_source, size_bytes, error_message, created_at"

func scanRecord(scanner interface{ Scan(dest ...any) error }) (Record, error) {
	var (
		rec           Record
		target        sql.NullString
		captureRaw    sql.NullString
		captureSource sql.NullString
		errorMessage  sql.NullString
		createdRaw    string
	)
	if err := scanner.Scan(
		&rec.ID,
		&rec.RunID,
		&rec.Source,
		&target,
		&rec.Outcome,
		&captureRaw,
		&captureSource,
		&rec.Bytes,
		&errorMessage,
		&createdRaw,
	); err != nil {
		return Record{}, err
	}
	rec.Target = target.String
	rec.CaptureSource = captureSource.String
	rec.Error = errorMessage.String
	if captureRaw.Valid {
		rec.CaptureTime = parseTime(captureRaw.String)
	}
	rec.CreatedAt = parseTime(createdRaw)
	return rec, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

// Capture times keep their zone offset so they read back as the camera clock
// showed them.
func nullableTime(value time.Time) any {
	if value.IsZero() {
		return nil
	}
	return value.Format(time.RFC3339Nano)
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}
