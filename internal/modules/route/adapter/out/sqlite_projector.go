package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"qrnav/internal/modules/route/domain"
	routeout "qrnav/internal/modules/route/port/out"
	"qrnav/internal/platform/clock"

	_ "modernc.org/sqlite"
)

type SQLiteTableProjector struct {
	db    *sql.DB
	clock clock.Clock
}

func NewSQLiteTableProjector(dbPath string, clk clock.Clock) (routeout.TableIndexProjector, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	projector := &SQLiteTableProjector{db: db, clock: clk}
	if err := projector.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return projector, nil
}

func (s *SQLiteTableProjector) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS instructions (
  checkpoint_id TEXT NOT NULL,
  destination_id TEXT NOT NULL,
  text TEXT NOT NULL,
  media_ref TEXT,
  position INTEGER NOT NULL,
  updated_at TEXT NOT NULL,
  PRIMARY KEY (checkpoint_id, destination_id)
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create instructions table: %w", err)
	}
	return nil
}

func (s *SQLiteTableProjector) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM instructions`); err != nil {
		return fmt.Errorf("reset instructions: %w", err)
	}
	return nil
}

func (s *SQLiteTableProjector) UpsertEntry(ctx context.Context, entry domain.Entry) error {
	const stmt = `
INSERT INTO instructions (checkpoint_id, destination_id, text, media_ref, position, updated_at)
VALUES (?, ?, ?, ?, (SELECT COUNT(*) FROM instructions), ?)
ON CONFLICT(checkpoint_id, destination_id) DO UPDATE SET
  text=excluded.text,
  media_ref=excluded.media_ref,
  updated_at=excluded.updated_at;
`
	_, err := s.db.ExecContext(ctx, stmt,
		entry.CheckpointID,
		entry.DestinationID,
		entry.Text,
		entry.MediaRef,
		s.clock.Now().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upsert instruction: %w", err)
	}
	return nil
}

func (s *SQLiteTableProjector) ListEntries(ctx context.Context) ([]domain.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT checkpoint_id, destination_id, text, COALESCE(media_ref, '') FROM instructions ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query instructions: %w", err)
	}
	defer rows.Close()
	var out []domain.Entry
	for rows.Next() {
		var e domain.Entry
		if err := rows.Scan(&e.CheckpointID, &e.DestinationID, &e.Text, &e.MediaRef); err != nil {
			return nil, fmt.Errorf("scan instruction: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate instructions: %w", err)
	}
	return out, nil
}
