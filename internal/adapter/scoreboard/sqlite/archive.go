// Package sqlite keeps finalized season scores in an embedded SQLite file.
package sqlite

import (
	"context"
	"fmt"
	"strings"

	_ "github.com/glebarez/go-sqlite"
	"github.com/jmoiron/sqlx"

	"terragrow/internal/app/ports"
)

const maxTop = 100

// Archive implements ports.ScoreArchive.
type Archive struct {
	conn *sqlx.DB
}

// Open opens or creates the archive at path; ":memory:" is accepted.
func Open(path string) (*Archive, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open scoreboard: %w", err)
	}
	conn.SetMaxOpenConns(1)

	a := &Archive{conn: conn}
	if err := a.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate scoreboard: %w", err)
	}
	return a, nil
}

func (a *Archive) Close() error {
	return a.conn.Close()
}

func (a *Archive) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS scores (
		session_id TEXT PRIMARY KEY,
		region_key TEXT NOT NULL,
		region_name TEXT NOT NULL,
		crop_key TEXT NOT NULL,
		soil_key TEXT NOT NULL,
		yield REAL NOT NULL,
		profit REAL NOT NULL,
		sustainability REAL NOT NULL,
		stars INTEGER NOT NULL,
		loan_taken INTEGER NOT NULL,
		finished_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_scores_region_profit ON scores(region_key, profit DESC);
	`
	_, err := a.conn.Exec(schema)
	return err
}

// Record upserts by session id, so a harvest read twice keeps one row.
func (a *Archive) Record(ctx context.Context, rec ports.ScoreRecord) error {
	if strings.TrimSpace(rec.SessionID) == "" {
		return fmt.Errorf("record score: session id is required")
	}
	rec.FinishedAt = rec.FinishedAt.UTC()
	_, err := a.conn.NamedExecContext(ctx, `
	INSERT INTO scores (session_id, region_key, region_name, crop_key, soil_key, yield, profit, sustainability, stars, loan_taken, finished_at)
	VALUES (:session_id, :region_key, :region_name, :crop_key, :soil_key, :yield, :profit, :sustainability, :stars, :loan_taken, :finished_at)
	ON CONFLICT(session_id) DO UPDATE SET
		yield = excluded.yield,
		profit = excluded.profit,
		sustainability = excluded.sustainability,
		stars = excluded.stars,
		loan_taken = excluded.loan_taken,
		finished_at = excluded.finished_at`, rec)
	if err != nil {
		return fmt.Errorf("record score %s: %w", rec.SessionID, err)
	}
	return nil
}

func (a *Archive) Top(ctx context.Context, regionKey string, limit int) ([]ports.ScoreRecord, error) {
	if limit <= 0 || limit > maxTop {
		limit = maxTop
	}
	out := []ports.ScoreRecord{}
	var err error
	if key := strings.ToLower(strings.TrimSpace(regionKey)); key != "" {
		err = a.conn.SelectContext(ctx, &out,
			`SELECT * FROM scores WHERE region_key = ? ORDER BY profit DESC, finished_at ASC LIMIT ?`, key, limit)
	} else {
		err = a.conn.SelectContext(ctx, &out,
			`SELECT * FROM scores ORDER BY profit DESC, finished_at ASC LIMIT ?`, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("top scores: %w", err)
	}
	return out, nil
}
