// internal/game/verdict.go
//
// Per-letter verdicts and the keyboard status aggregation rule.
// Defines:
//   - Verdict: result of scoring one letter of a guess (correct/present/absent).
//   - MergeRow: folds one scored row into the per-letter status map.
//   - ReplayStatuses: rebuilds the status map from a full verdict history.

package game

// Verdict classifies a single guess letter against the solution.
//   - "correct": right letter, right position.
//   - "present": letter occurs elsewhere in the solution (duplicates already
//     claimed by other positions do not count).
//   - "absent":  letter not usable at this position.
type Verdict string

const (
	VerdictCorrect Verdict = "correct"
	VerdictPresent Verdict = "present"
	VerdictAbsent  Verdict = "absent"
)

// rank orders verdicts for the keyboard merge. An unset letter ranks 0, so
// any verdict beats unset, present beats absent, correct beats everything.
func rank(v Verdict) int {
	switch v {
	case VerdictCorrect:
		return 3
	case VerdictPresent:
		return 2
	case VerdictAbsent:
		return 1
	}
	return 0
}

// MergeRow applies one submitted row (guess letters plus their verdicts) to
// the letter status map, keeping the best-known verdict per letter. A letter
// at "correct" is never downgraded. Each row must be merged exactly once;
// merging is per-letter and order-independent within the row.
func MergeRow(statuses map[string]Verdict, guess string, verdicts []Verdict) {
	for i, v := range verdicts {
		ch := string(guess[i])
		if rank(v) > rank(statuses[ch]) {
			statuses[ch] = v
		}
	}
}

// ReplayStatuses rebuilds a status map from scratch by merging every scored
// row in order. Resuming a saved session replays history through this and
// must land on the exact map that was persisted.
func ReplayStatuses(guesses []string, verdicts [][]Verdict) map[string]Verdict {
	statuses := make(map[string]Verdict)
	for i, g := range guesses {
		if i < len(verdicts) && verdicts[i] != nil {
			MergeRow(statuses, g, verdicts[i])
		}
	}
	return statuses
}
