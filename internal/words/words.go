// internal/words/words.go
//
// The daily solution provider.
// Responsibilities:
//   - Pick one word per UTC day from the words table: cycle through unused
//     rows by day number, mark the pick used, reset the pool once every word
//     has been used.
//   - Cache the pick for the rest of the day so every session that day sees
//     the same Solution Record.
//   - Seed the table on first boot, from WORDS_SEED_FILE or the embedded
//     starter list.
//
// Each word carries its display metadata: definition and hint text in both
// supported locales. The game core only ever sees the solution string.

package words

import (
	"bufio"
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sagaleh/erayle/internal/daily"
	"github.com/sagaleh/erayle/internal/game"
)

//go:embed seed_words.txt
var embeddedSeed string

// ErrNoWords means the words table is empty: session initialization cannot
// proceed and the failure is surfaced upward as-is.
var ErrNoWords = errors.New("words: no words available")

// Record is one day's Solution Record: the target word plus its display
// metadata per locale.
type Record struct {
	ID        int64  `json:"-"`
	Word      string `json:"solution"`
	MeaningEN string `json:"meaning_en"`
	MeaningSO string `json:"meaning_so"`
	HintEN    string `json:"hint_en"`
	HintSO    string `json:"hint_so"`
}

// Provider selects and caches the word of the day.
type Provider struct {
	db *sql.DB

	mu     sync.Mutex
	day    string // DateKey of the cached pick
	cached *Record
}

func NewProvider(db *sql.DB) *Provider {
	return &Provider{db: db}
}

// WordOfDay returns today's Solution Record, selecting and marking one on
// the first call of the day. Marking a word used on selection, plus the
// reset-when-exhausted rule, cycles the whole table before any repeat.
func (p *Provider) WordOfDay(ctx context.Context, now time.Time) (*Record, error) {
	day := daily.DateKey(now)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cached != nil && p.day == day {
		return p.cached, nil
	}

	rec, err := p.selectForDay(ctx, now)
	if err != nil {
		return nil, err
	}
	p.day, p.cached = day, rec
	return rec, nil
}

func (p *Provider) selectForDay(ctx context.Context, now time.Time) (*Record, error) {
	var unused int
	if err := p.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM words WHERE used = 0`).Scan(&unused); err != nil {
		return nil, fmt.Errorf("count unused words: %w", err)
	}
	if unused == 0 {
		if _, err := p.db.ExecContext(ctx, `UPDATE words SET used = 0`); err != nil {
			return nil, fmt.Errorf("reset word pool: %w", err)
		}
		if err := p.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM words WHERE used = 0`).Scan(&unused); err != nil {
			return nil, err
		}
		if unused == 0 {
			return nil, ErrNoWords
		}
		log.Info().Int("words", unused).Msg("word pool exhausted, recycled")
	}

	offset := daily.DayNumber(now) % unused
	if offset < 0 {
		offset += unused
	}

	var rec Record
	err := p.db.QueryRowContext(ctx, `
        SELECT id, word, meaning_en, meaning_so, hint_en, hint_so
        FROM words WHERE used = 0 ORDER BY id LIMIT 1 OFFSET ?`, offset,
	).Scan(&rec.ID, &rec.Word, &rec.MeaningEN, &rec.MeaningSO, &rec.HintEN, &rec.HintSO)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoWords
	}
	if err != nil {
		return nil, fmt.Errorf("select word of day: %w", err)
	}

	rec.Word = strings.ToLower(rec.Word)
	if !game.ValidWord(rec.Word) {
		return nil, fmt.Errorf("words: %q is not %d lowercase letters", rec.Word, game.Cols)
	}

	if _, err := p.db.ExecContext(ctx, `UPDATE words SET used = 1 WHERE id = ?`, rec.ID); err != nil {
		return nil, fmt.Errorf("mark word used: %w", err)
	}
	return &rec, nil
}

// SeedIfEmpty fills an empty words table. WORDS_SEED_FILE takes priority;
// otherwise the embedded starter list is used. Lines look like
//
//	word|meaning_en|meaning_so|hint_en|hint_so
//
// with # comments and blank lines skipped.
func SeedIfEmpty(ctx context.Context, db *sql.DB) error {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM words`).Scan(&n); err != nil {
		return fmt.Errorf("count words: %w", err)
	}
	if n > 0 {
		return nil
	}

	src := embeddedSeed
	if path := os.Getenv("WORDS_SEED_FILE"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read seed file: %w", err)
		}
		src = string(b)
	}

	recs, err := parseSeed(src)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		return ErrNoWords
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	for _, r := range recs {
		if _, err := tx.ExecContext(ctx, `
            INSERT OR IGNORE INTO words(word, meaning_en, meaning_so, hint_en, hint_so)
            VALUES (?, ?, ?, ?, ?)`,
			r.Word, r.MeaningEN, r.MeaningSO, r.HintEN, r.HintSO); err != nil {
			return fmt.Errorf("seed word %q: %w", r.Word, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	log.Info().Int("words", len(recs)).Msg("seeded words table")
	return nil
}

func parseSeed(src string) ([]Record, error) {
	var out []Record
	sc := bufio.NewScanner(strings.NewReader(src))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, "|")
		if len(parts) != 5 {
			return nil, fmt.Errorf("words: bad seed line %q", line)
		}
		w := strings.ToLower(strings.TrimSpace(parts[0]))
		if !game.ValidWord(w) {
			continue
		}
		out = append(out, Record{
			Word:      w,
			MeaningEN: strings.TrimSpace(parts[1]),
			MeaningSO: strings.TrimSpace(parts[2]),
			HintEN:    strings.TrimSpace(parts[3]),
			HintSO:    strings.TrimSpace(parts[4]),
		})
	}
	return out, sc.Err()
}
