// internal/persist/sqlite.go
//
// SQLite-backed Store. One row per player in the sessions table carries the
// snapshot JSON plus the two ledger scalars; the last writer wins, which is
// the whole conflict policy for a single-player-per-browser game.

package persist

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sagaleh/erayle/internal/score"
)

type sqliteStore struct {
	db *sql.DB
}

// NewSQLiteStore wraps an open database. The sessions table comes from the
// sql/ migrations.
func NewSQLiteStore(db *sql.DB) Store {
	return &sqliteStore{db: db}
}

func (s *sqliteStore) SaveSession(ctx context.Context, playerID string, raw []byte) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO sessions(player_id, snapshot, updated_at)
        VALUES (?, ?, ?)
        ON CONFLICT(player_id) DO UPDATE SET snapshot=excluded.snapshot, updated_at=excluded.updated_at`,
		playerID, string(raw), time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

func (s *sqliteStore) LoadSession(ctx context.Context, playerID string) ([]byte, bool, error) {
	var raw sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT snapshot FROM sessions WHERE player_id=?`, playerID,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if !raw.Valid || raw.String == "" {
		return nil, false, nil
	}
	return []byte(raw.String), true, nil
}

func (s *sqliteStore) DeleteSession(ctx context.Context, playerID string) error {
	// Clears the snapshot only; the ledger columns on the row survive.
	_, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET snapshot=NULL, updated_at=? WHERE player_id=?`,
		time.Now().UTC().Format(time.RFC3339), playerID,
	)
	return err
}

func (s *sqliteStore) SaveLedger(ctx context.Context, playerID string, l score.Ledger) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO sessions(player_id, score, last_scored_day, updated_at)
        VALUES (?, ?, ?, ?)
        ON CONFLICT(player_id) DO UPDATE SET score=excluded.score,
            last_scored_day=excluded.last_scored_day, updated_at=excluded.updated_at`,
		playerID, l.Score, l.LastScoredDay, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

func (s *sqliteStore) LoadLedger(ctx context.Context, playerID string) (score.Ledger, error) {
	var l score.Ledger
	var day sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT score, last_scored_day FROM sessions WHERE player_id=?`, playerID,
	).Scan(&l.Score, &day)
	if errors.Is(err, sql.ErrNoRows) {
		return score.Ledger{}, nil
	}
	if err != nil {
		return score.Ledger{}, err
	}
	l.LastScoredDay = day.String
	return l, nil
}
