// internal/game/evaluate.go
//
// Guess evaluation: the classic two-pass scoring algorithm.
//
// Pass 1:
//   - Mark exact matches as correct.
//   - Count remaining (non-correct) solution letters.
//
// Pass 2:
//   - For each non-correct guess letter: if remaining count for that letter
//     is positive, mark present and decrement; otherwise mark absent.
//
// Counting remaining letters is equivalent to consuming unconsumed solution
// positions left to right: only the multiset of leftover letters matters, so
// extra repeats in the guess resolve to absent once the counts run out.

package game

// Evaluate scores guess against solution and returns one verdict per
// position. Both strings must be the same length and lowercase a-z; the
// session state machine guarantees this, so a mismatch here is a caller bug.
func Evaluate(guess, solution string) []Verdict {
	n := len(solution)
	res := make([]Verdict, n)

	// Letter frequency for the non-correct solution positions (a-z).
	var counts [26]int

	for i := 0; i < n; i++ {
		if guess[i] == solution[i] {
			res[i] = VerdictCorrect
		} else {
			counts[solution[i]-'a']++
		}
	}

	for i := 0; i < n; i++ {
		if res[i] == VerdictCorrect {
			continue
		}
		j := int(guess[i] - 'a')
		if j >= 0 && j < 26 && counts[j] > 0 {
			res[i] = VerdictPresent
			counts[j]--
		} else {
			res[i] = VerdictAbsent
		}
	}
	return res
}
