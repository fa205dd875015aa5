// internal/persist/gateway.go
//
// Persistence gateway between the session core and durable storage.
// Responsibilities:
//   - Serialize the full session into a self-describing, versioned snapshot.
//   - Reconcile on load: purge legacy-format records (pre-UTC day markers),
//     discard stale records from earlier days, hydrate today's record.
//   - Never surface storage corruption to the player: every bad record
//     resolves to "fresh session".
//
// The gateway owns the record layout; stores only move opaque bytes plus the
// two ledger scalars.

package persist

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/sagaleh/erayle/internal/daily"
	"github.com/sagaleh/erayle/internal/game"
	"github.com/sagaleh/erayle/internal/score"
)

// snapshotVersion tags the record layout. Unknown or missing tags are
// treated like any other incompatible record: discard and reinitialize.
const snapshotVersion = 1

// Snapshot is the durable form of one day's session.
type Snapshot struct {
	Version  int                     `json:"v"`
	Grid     [][]string              `json:"grid"`
	Verdicts [][]game.Verdict        `json:"verdicts"`
	Row      int                     `json:"row"`
	Col      int                     `json:"col"`
	Statuses map[string]game.Verdict `json:"statuses"`
	Solution string                  `json:"solution"`
	Day      string                  `json:"day"` // YYYY-MM-DD UTC
	Done     bool                    `json:"done"`
	HintUsed bool                    `json:"hintUsed"`
}

// Store moves snapshots and ledgers in and out of durable storage, keyed by
// the per-browser player id. Implementations: sqlite (production), memory
// (tests).
type Store interface {
	SaveSession(ctx context.Context, playerID string, raw []byte) error
	// LoadSession returns (nil, false, nil) when no record exists.
	LoadSession(ctx context.Context, playerID string) ([]byte, bool, error)
	DeleteSession(ctx context.Context, playerID string) error

	SaveLedger(ctx context.Context, playerID string, l score.Ledger) error
	// LoadLedger returns the zero ledger when the player has none yet.
	LoadLedger(ctx context.Context, playerID string) (score.Ledger, error)
}

// Gateway applies the record layout and reconciliation policy on top of a
// Store.
type Gateway struct {
	store Store
}

func NewGateway(store Store) *Gateway {
	return &Gateway{store: store}
}

// Capture freezes a session into a snapshot taken for the given day.
func Capture(s *game.Session, day string) Snapshot {
	v := s.View()
	return Snapshot{
		Version:  snapshotVersion,
		Grid:     v.Grid,
		Verdicts: v.Verdicts,
		Row:      v.Row,
		Col:      v.Col,
		Statuses: v.Statuses,
		Solution: s.Solution,
		Day:      day,
		Done:     v.Done,
		HintUsed: v.HintUsed,
	}
}

// Save overwrites the player's stored snapshot. Called after every accepted
// transition, so storage never lags behind the session.
func (g *Gateway) Save(ctx context.Context, playerID string, s *game.Session, day string) error {
	raw, err := json.Marshal(Capture(s, day))
	if err != nil {
		return err
	}
	return g.store.SaveSession(ctx, playerID, raw)
}

// Load reads the player's snapshot and reconciles it against today.
// Returns (nil, false, nil) when the player starts fresh: no record, a
// discarded legacy/corrupt record, or a record from another day.
func (g *Gateway) Load(ctx context.Context, playerID, today string) (*game.Session, bool, error) {
	raw, ok, err := g.store.LoadSession(ctx, playerID)
	if err != nil || !ok {
		return nil, false, err
	}

	var sn Snapshot
	if err := json.Unmarshal(raw, &sn); err != nil || sn.Version != snapshotVersion {
		log.Warn().Str("player", playerID).Int("version", sn.Version).
			Msg("discarding unreadable session record")
		return nil, false, g.store.DeleteSession(ctx, playerID)
	}

	if !daily.IsDateKey(sn.Day) {
		// Pre-UTC legacy record: wipe it together with the last-scored-day
		// marker so the two can never disagree. One-time forward migration;
		// the score value itself survives.
		log.Warn().Str("player", playerID).Str("day", sn.Day).
			Msg("discarding legacy session record")
		if err := g.store.DeleteSession(ctx, playerID); err != nil {
			return nil, false, err
		}
		l, err := g.store.LoadLedger(ctx, playerID)
		if err != nil {
			return nil, false, err
		}
		l.LastScoredDay = ""
		return nil, false, g.store.SaveLedger(ctx, playerID, l)
	}

	if sn.Day != today {
		// Yesterday's game: gone for gameplay purposes. The ledger keeps its
		// own day marker and is untouched here.
		return nil, false, g.store.DeleteSession(ctx, playerID)
	}

	s, err := sn.restore()
	if err != nil {
		log.Warn().Str("player", playerID).Err(err).Msg("discarding corrupt session record")
		return nil, false, g.store.DeleteSession(ctx, playerID)
	}
	return s, true, nil
}

// Ledger loads the player's score ledger (zero value if none).
func (g *Gateway) Ledger(ctx context.Context, playerID string) (score.Ledger, error) {
	return g.store.LoadLedger(ctx, playerID)
}

// SaveLedger persists the ledger after a settlement.
func (g *Gateway) SaveLedger(ctx context.Context, playerID string, l score.Ledger) error {
	return g.store.SaveLedger(ctx, playerID, l)
}

var errBadShape = errors.New("snapshot shape mismatch")

// restore hydrates the snapshot verbatim into a session. A finished
// snapshot comes back locked; settlement is not re-run (the ledger's
// same-day guard would make it a no-op anyway, but hydration must not
// re-trigger terminal side effects at all).
func (sn Snapshot) restore() (*game.Session, error) {
	s, err := game.NewSession(sn.Solution)
	if err != nil {
		return nil, err
	}
	if len(sn.Grid) != game.Rows || len(sn.Verdicts) != game.Rows {
		return nil, errBadShape
	}
	for r := range sn.Grid {
		if len(sn.Grid[r]) != game.Cols {
			return nil, errBadShape
		}
		if sn.Verdicts[r] != nil && len(sn.Verdicts[r]) != game.Cols {
			return nil, errBadShape
		}
	}
	if sn.Row < 0 || sn.Row > game.Rows || sn.Col < 0 || sn.Col > game.Cols {
		return nil, errBadShape
	}

	s.Grid = sn.Grid
	s.Verdicts = sn.Verdicts
	s.Row = sn.Row
	s.Col = sn.Col
	s.Statuses = sn.Statuses
	if s.Statuses == nil {
		s.Statuses = make(map[string]game.Verdict)
	}
	s.HintUsed = sn.HintUsed
	s.Won = sn.Done && sn.Row < game.Rows
	if sn.Done {
		s.Lock()
	}
	return s, nil
}
