package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"podcaster/internal/podcast"
	"podcaster/internal/services"
)

const defaultListLimit = 50

// timeLayout is fixed-width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const selectColumns = `id, request_id, title, mode, provider, source_words, script_words,
    estimated_duration, audio_url, audio_degraded, origin, transcript, created_at`

// Record inserts rec and returns its id.
func (s *Store) Record(ctx context.Context, rec podcast.Record) (int64, error) {
	if strings.TrimSpace(rec.RequestID) == "" {
		return 0, errors.New("record podcast: request id required")
	}
	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	var id int64
	err := retryOnBusy(ctx, func() error {
		res, err := s.db.ExecContext(ctx,
			`INSERT INTO podcasts (
                request_id, title, mode, provider, source_words, script_words,
                estimated_duration, audio_url, audio_degraded, origin, transcript, created_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.RequestID,
			rec.Title,
			string(rec.Mode),
			rec.Provider,
			rec.SourceWords,
			rec.ScriptWords,
			rec.EstimatedDuration,
			nullableString(rec.AudioURL),
			boolToInt(rec.AudioDegraded),
			nullableString(rec.Origin),
			rec.Transcript,
			created.UTC().Format(timeLayout),
		)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("insert podcast: %w", err)
	}
	return id, nil
}

// Get returns the record with id.
func (s *Store) Get(ctx context.Context, id int64) (*podcast.Record, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+selectColumns+" FROM podcasts WHERE id = ?", id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "registry", "get", fmt.Sprintf("podcast %d", id), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("get podcast %d: %w", id, err)
	}
	return rec, nil
}

// List returns the newest records first. The transcript is omitted.
func (s *Store) List(ctx context.Context, limit int) ([]podcast.Record, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+selectColumns+" FROM podcasts ORDER BY created_at DESC, id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("list podcasts: %w", err)
	}
	defer rows.Close()

	var records []podcast.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan podcast: %w", err)
		}
		rec.Transcript = ""
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM podcasts").Scan(&n); err != nil {
		return 0, fmt.Errorf("count podcasts: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*podcast.Record, error) {
	var (
		rec       podcast.Record
		mode      string
		audioURL  sql.NullString
		origin    sql.NullString
		degraded  int
		createdAt string
	)
	if err := row.Scan(
		&rec.ID,
		&rec.RequestID,
		&rec.Title,
		&mode,
		&rec.Provider,
		&rec.SourceWords,
		&rec.ScriptWords,
		&rec.EstimatedDuration,
		&audioURL,
		&degraded,
		&origin,
		&rec.Transcript,
		&createdAt,
	); err != nil {
		return nil, err
	}
	rec.Mode = podcast.Mode(mode)
	rec.AudioURL = audioURL.String
	rec.Origin = origin.String
	rec.AudioDegraded = degraded != 0
	if ts, err := time.Parse(timeLayout, createdAt); err == nil {
		rec.CreatedAt = ts
	}
	return &rec, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
