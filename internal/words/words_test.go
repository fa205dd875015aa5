package words

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`
        CREATE TABLE words (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            word TEXT NOT NULL UNIQUE,
            meaning_en TEXT NOT NULL,
            meaning_so TEXT NOT NULL,
            hint_en TEXT NOT NULL,
            hint_so TEXT NOT NULL,
            used INTEGER NOT NULL DEFAULT 0
        )`)
	require.NoError(t, err)
	return db
}

func insertWord(t *testing.T, db *sql.DB, w string) {
	t.Helper()
	_, err := db.Exec(
		`INSERT INTO words(word, meaning_en, meaning_so, hint_en, hint_so) VALUES (?,?,?,?,?)`,
		w, "meaning "+w, "macne "+w, "hint "+w, "tilmaan "+w)
	require.NoError(t, err)
}

func TestWordOfDay_CachedForTheDay(t *testing.T) {
	db := testDB(t)
	for _, w := range []string{"apple", "house", "water"} {
		insertWord(t, db, w)
	}
	p := NewProvider(db)
	now := time.Date(2025, 8, 21, 10, 0, 0, 0, time.UTC)

	first, err := p.WordOfDay(context.Background(), now)
	require.NoError(t, err)

	// Later the same day: same record, and no second word marked used.
	second, err := p.WordOfDay(context.Background(), now.Add(6*time.Hour))
	require.NoError(t, err)
	require.Equal(t, first, second)

	var used int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM words WHERE used = 1`).Scan(&used))
	require.Equal(t, 1, used)
}

func TestWordOfDay_MarksUsedAndAdvances(t *testing.T) {
	db := testDB(t)
	for _, w := range []string{"apple", "house"} {
		insertWord(t, db, w)
	}
	p := NewProvider(db)

	day1 := time.Date(2025, 8, 21, 0, 0, 0, 0, time.UTC)
	r1, err := p.WordOfDay(context.Background(), day1)
	require.NoError(t, err)

	r2, err := p.WordOfDay(context.Background(), day1.Add(24*time.Hour))
	require.NoError(t, err)
	require.NotEqual(t, r1.Word, r2.Word, "consecutive days must not reuse a word")
}

func TestWordOfDay_RecyclesExhaustedPool(t *testing.T) {
	db := testDB(t)
	insertWord(t, db, "apple")
	_, err := db.Exec(`UPDATE words SET used = 1`)
	require.NoError(t, err)

	p := NewProvider(db)
	rec, err := p.WordOfDay(context.Background(), time.Date(2025, 8, 21, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Equal(t, "apple", rec.Word)
}

func TestWordOfDay_RejectsNonAlphaRow(t *testing.T) {
	db := testDB(t)
	insertWord(t, db, "app1e")
	p := NewProvider(db)

	_, err := p.WordOfDay(context.Background(), time.Date(2025, 8, 21, 0, 0, 0, 0, time.UTC))
	require.Error(t, err, "a non-alphabetic row must never become the solution")
}

func TestWordOfDay_EmptyTable(t *testing.T) {
	db := testDB(t)
	p := NewProvider(db)
	_, err := p.WordOfDay(context.Background(), time.Now())
	require.ErrorIs(t, err, ErrNoWords)
}

func TestSeedIfEmpty_EmbeddedList(t *testing.T) {
	db := testDB(t)
	require.NoError(t, SeedIfEmpty(context.Background(), db))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM words`).Scan(&n))
	require.Greater(t, n, 0)

	// Seeding twice does not duplicate.
	require.NoError(t, SeedIfEmpty(context.Background(), db))
	var n2 int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM words`).Scan(&n2))
	require.Equal(t, n, n2)
}

func TestParseSeed(t *testing.T) {
	src := "# comment\n\napple|a fruit|midho|doctor|caan\nbadline\n"
	_, err := parseSeed(src)
	require.Error(t, err, "malformed line must be rejected")

	recs, err := parseSeed("# c\napple|a fruit|midho|doctor|caan\ntoolong|x|x|x|x\napp1e|x|x|x|x\n")
	require.NoError(t, err)
	require.Len(t, recs, 1, "wrong-length and non-alphabetic words are skipped")
	require.Equal(t, "apple", recs[0].Word)
}
