package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "embed"

	_ "github.com/lib/pq"

	"seniorcare-bot/pkg"
)

//go:embed schema.sql
var schemaSQL string

// PGDoseLog keeps dose events in Postgres. It is an optional backend, enabled
// when DATABASE_URL is set, so adherence history survives host rebuilds; the
// medication record store itself stays file-backed regardless.
type PGDoseLog struct {
	db *sql.DB
}

// OpenPGDoseLog connects, verifies the connection and applies the schema.
func OpenPGDoseLog(ctx context.Context, databaseURL string) (*PGDoseLog, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &PGDoseLog{db: db}, nil
}

func (l *PGDoseLog) Append(ctx context.Context, ev pkg.DoseEvent) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO dose_events (id, user_id, med_key, med_name, action, created_at)
         VALUES ($1, $2, $3, $4, $5, $6)`,
		ev.ID, ev.UserID, ev.MedKey, ev.MedName, string(ev.Action), ev.At,
	)
	if err != nil {
		return fmt.Errorf("insert dose event: %w", err)
	}
	return nil
}

func (l *PGDoseLog) Since(ctx context.Context, userID string, since time.Time) ([]pkg.DoseEvent, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, user_id, med_key, med_name, action, created_at
         FROM dose_events
         WHERE user_id = $1 AND created_at >= $2
         ORDER BY created_at ASC`,
		userID, since,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []pkg.DoseEvent
	for rows.Next() {
		var ev pkg.DoseEvent
		var action string
		if err := rows.Scan(&ev.ID, &ev.UserID, &ev.MedKey, &ev.MedName, &action, &ev.At); err != nil {
			return nil, err
		}
		ev.Action = pkg.DoseAction(action)
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (l *PGDoseLog) Close() error { return l.db.Close() }
