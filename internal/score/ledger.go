// internal/score/ledger.go
//
// The all-time score ledger: one settlement per UTC calendar day.
// A win adds a point, a loss resets to zero, and a consumed hint costs half
// a point after the win/loss adjustment. Losing with a hint therefore lands
// on -0.5; the score is deliberately not clamped at zero.

package score

// Ledger carries the cumulative score and the day it was last adjusted.
// The zero value is a fresh ledger.
type Ledger struct {
	Score         float64 `json:"score"`
	LastScoredDay string  `json:"lastScoredDay"` // "YYYY-MM-DD" UTC, "" if never
}

// Settle applies a session outcome to the ledger and returns the new score.
// If the ledger was already settled for today the call is a no-op: replaying
// a finished session after a reload must not score twice.
func (l *Ledger) Settle(won, hintUsed bool, today string) float64 {
	if l.LastScoredDay == today {
		return l.Score
	}
	if won {
		l.Score++
	} else {
		l.Score = 0
	}
	if hintUsed {
		l.Score -= 0.5
	}
	l.LastScoredDay = today
	return l.Score
}
