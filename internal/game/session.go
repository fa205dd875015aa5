// internal/game/session.go
//
// Session state machine for one calendar day's puzzle.
// Responsibilities:
//   - Hold the attempt grid, verdict grid, cursor, letter statuses, and the
//     completion flag for a single session.
//   - Apply player input events (letter, delete, submit) with the progression
//     rules: fixed Rows attempts of Cols letters each.
//   - Report the side effects of each accepted transition (persist the
//     snapshot, settle the score) for the caller to execute; the session
//     itself does no I/O.
//
// Invariants maintained here:
//   - Cells right of the cursor in the active row, and all later rows, stay
//     empty.
//   - A verdict row is written once, on submit, and never changes.
//   - Once Done flips true no event mutates anything.

package game

import (
	"errors"
	"strings"
)

const (
	Rows = 6 // attempts per session
	Cols = 5 // letters per attempt
)

// ErrRowIncomplete signals a submit on a partially filled row. It is a
// user-correctable condition, not a failure: the caller surfaces a notice
// and no state changes.
var ErrRowIncomplete = errors.New("row incomplete")

// ErrBadSolution reports a solution that is not exactly Cols lowercase
// letters. The provider's contract is violated and no session is created.
var ErrBadSolution = errors.New("solution must be 5 lowercase letters")

// Session is the complete state of one day's game. It is exclusively owned
// by its caller; all mutation happens through the Press*/Submit methods.
type Session struct {
	Solution string             // the day's answer, lowercase
	Grid     [][]string         // Rows x Cols, "" for empty cells
	Verdicts [][]Verdict        // per row: nil until submitted, then immutable
	Row      int                // active row; Rows once the grid is exhausted
	Col      int                // cursor within the active row
	Statuses map[string]Verdict // best-known verdict per letter
	Done     bool               // terminal flag, monotonic false→true
	Won      bool
	HintUsed bool // a hint was consumed this session (affects settlement)
}

// Effects lists the side effects the caller must run after a transition.
// Persist is set on every accepted mutation; Settle only on the transition
// into the terminal state.
type Effects struct {
	Persist bool
	Settle  bool
}

// ValidWord reports whether w is exactly Cols lowercase ASCII letters: the
// only shape Evaluate and NewSession accept. The word pool is validated
// against the same rule at every entry point.
func ValidWord(w string) bool {
	if len(w) != Cols {
		return false
	}
	for i := 0; i < len(w); i++ {
		if w[i] < 'a' || w[i] > 'z' {
			return false
		}
	}
	return true
}

// NewSession creates a fresh session for the given solution.
func NewSession(solution string) (*Session, error) {
	solution = strings.ToLower(strings.TrimSpace(solution))
	if !ValidWord(solution) {
		return nil, ErrBadSolution
	}
	grid := make([][]string, Rows)
	for r := range grid {
		grid[r] = make([]string, Cols)
	}
	return &Session{
		Solution: solution,
		Grid:     grid,
		Verdicts: make([][]Verdict, Rows),
		Statuses: make(map[string]Verdict),
	}, nil
}

// PressLetter appends ch at the cursor and advances it. A no-op when the
// session is over, the row is full, or ch is not a-z.
func (s *Session) PressLetter(ch byte) Effects {
	if s.Done || s.Row >= Rows || s.Col >= Cols || ch < 'a' || ch > 'z' {
		return Effects{}
	}
	s.Grid[s.Row][s.Col] = string(ch)
	s.Col++
	return Effects{Persist: true}
}

// PressDelete clears the cell left of the cursor and retreats it. A no-op
// when the session is over or the row is empty.
func (s *Session) PressDelete() Effects {
	if s.Done || s.Row >= Rows || s.Col == 0 {
		return Effects{}
	}
	s.Col--
	s.Grid[s.Row][s.Col] = ""
	return Effects{Persist: true}
}

// Submit evaluates the active row. It returns ErrRowIncomplete (with no
// state change) unless all Cols cells are filled. On a full row it stores
// the verdicts, folds them into the letter statuses, and either finishes
// the session (exact match, or last row spent) or advances to the next row.
func (s *Session) Submit() (Effects, error) {
	if s.Done || s.Row >= Rows {
		return Effects{}, nil
	}
	if s.Col < Cols {
		return Effects{}, ErrRowIncomplete
	}

	guess := strings.Join(s.Grid[s.Row], "")
	verdicts := Evaluate(guess, s.Solution)
	s.Verdicts[s.Row] = verdicts
	MergeRow(s.Statuses, guess, verdicts)

	if guess == s.Solution {
		// Won: the cursor stays on the winning row.
		s.Done, s.Won = true, true
	} else {
		s.Row++
		s.Col = 0
		if s.Row >= Rows {
			s.Done = true
		}
	}
	return Effects{Persist: true, Settle: s.Done}, nil
}

// UseHint records that the player consumed a hint. The flag only ever goes
// one way and costs half a point at settlement.
func (s *Session) UseHint() Effects {
	if s.Done || s.HintUsed {
		return Effects{}
	}
	s.HintUsed = true
	return Effects{Persist: true}
}

// Lock forces the session into its terminal state without re-running any
// side effects. Used when hydrating a finished snapshot: input must re-lock
// but settlement already happened on the day the game finished.
func (s *Session) Lock() {
	s.Done = true
}
