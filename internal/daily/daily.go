package daily

import (
	"regexp"
	"time"
)

// epoch anchors the day counter used to cycle through the words table.
var epoch = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

var dateKeyRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// IsDateKey reports whether s is a strict YYYY-MM-DD day string. Saved
// records carrying anything else predate the UTC cutover and are discarded.
func IsDateKey(s string) bool {
	return dateKeyRe.MatchString(s)
}

// DayNumber returns the number of whole UTC days since the word-cycle epoch.
// Negative before the epoch; callers only ever see it modulo a list length.
func DayNumber(t time.Time) int {
	y, m, d := t.UTC().Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return int(midnight.Sub(epoch).Hours() / 24)
}
