package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func typeWord(t *testing.T, s *Session, word string) {
	t.Helper()
	for i := 0; i < len(word); i++ {
		eff := s.PressLetter(word[i])
		require.True(t, eff.Persist, "letter input must request a snapshot")
	}
}

func TestValidWord(t *testing.T) {
	for _, ok := range []string{"apple", "crane", "zzzzz"} {
		require.True(t, ValidWord(ok), "%q", ok)
	}
	for _, bad := range []string{"", "appl", "apples", "app1e", "app e", "APPLE", "éclat"} {
		require.False(t, ValidWord(bad), "%q", bad)
	}
}

func TestNewSession_ValidatesSolution(t *testing.T) {
	for _, bad := range []string{"", "appl", "apples", "appl3", "app e"} {
		if _, err := NewSession(bad); !errors.Is(err, ErrBadSolution) {
			t.Fatalf("NewSession(%q): expected ErrBadSolution, got %v", bad, err)
		}
	}
	s, err := NewSession("  APPLE ")
	require.NoError(t, err)
	require.Equal(t, "apple", s.Solution)
}

func TestSession_CursorRules(t *testing.T) {
	s, err := NewSession("apple")
	require.NoError(t, err)

	// Delete on an empty row is a no-op.
	require.Equal(t, Effects{}, s.PressDelete())

	typeWord(t, s, "eaten")
	require.Equal(t, Cols, s.Col)

	// Row full: further letters are rejected without effects.
	require.Equal(t, Effects{}, s.PressLetter('x'))
	require.Equal(t, "n", s.Grid[0][4])

	// Delete retreats and clears.
	require.Equal(t, Effects{Persist: true}, s.PressDelete())
	require.Equal(t, 4, s.Col)
	require.Equal(t, "", s.Grid[0][4])

	// Non-letter input is ignored.
	require.Equal(t, Effects{}, s.PressLetter('3'))
	require.Equal(t, Effects{}, s.PressLetter('E'))
}

func TestSession_SubmitIncompleteRow(t *testing.T) {
	s, _ := NewSession("apple")
	typeWord(t, s, "eat")

	before := s.View()
	eff, err := s.Submit()
	require.ErrorIs(t, err, ErrRowIncomplete)
	require.Equal(t, Effects{}, eff)
	require.Equal(t, before, s.View(), "rejected submit must not change state")
}

func TestSession_WinScenario(t *testing.T) {
	s, _ := NewSession("apple")

	typeWord(t, s, "eaten")
	eff, err := s.Submit()
	require.NoError(t, err)
	require.Equal(t, Effects{Persist: true}, eff)
	require.Equal(t, 1, s.Row)
	require.Equal(t, 0, s.Col)
	require.Equal(t,
		[]Verdict{VerdictPresent, VerdictPresent, VerdictAbsent, VerdictAbsent, VerdictAbsent},
		s.Verdicts[0])

	typeWord(t, s, "apple")
	eff, err = s.Submit()
	require.NoError(t, err)
	require.Equal(t, Effects{Persist: true, Settle: true}, eff)
	require.True(t, s.Done)
	require.True(t, s.Won)
	// The cursor stays on the winning row.
	require.Equal(t, 1, s.Row)
	for _, v := range s.Verdicts[1] {
		require.Equal(t, VerdictCorrect, v)
	}
}

func TestSession_LossScenario(t *testing.T) {
	s, _ := NewSession("apple")
	for i := 0; i < Rows; i++ {
		typeWord(t, s, "crane")
		eff, err := s.Submit()
		require.NoError(t, err)
		if i < Rows-1 {
			require.Equal(t, Effects{Persist: true}, eff)
			require.False(t, s.Done)
		} else {
			require.Equal(t, Effects{Persist: true, Settle: true}, eff)
		}
	}
	require.True(t, s.Done)
	require.False(t, s.Won)
	require.Equal(t, Rows, s.Row)
}

func TestSession_TerminalLock(t *testing.T) {
	s, _ := NewSession("apple")
	typeWord(t, s, "apple")
	_, err := s.Submit()
	require.NoError(t, err)
	require.True(t, s.Done)

	before := s.View()
	require.Equal(t, Effects{}, s.PressLetter('a'))
	require.Equal(t, Effects{}, s.PressDelete())
	eff, err := s.Submit()
	require.NoError(t, err)
	require.Equal(t, Effects{}, eff)
	require.Equal(t, Effects{}, s.UseHint())
	require.Equal(t, before, s.View(), "no event may mutate a completed session")
}

func TestSession_EmptyCellsBeyondCursor(t *testing.T) {
	s, _ := NewSession("apple")
	typeWord(t, s, "ea")
	for c := s.Col; c < Cols; c++ {
		require.Equal(t, "", s.Grid[0][c])
	}
	for r := 1; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			require.Equal(t, "", s.Grid[r][c])
		}
	}
}

func TestSession_UseHint(t *testing.T) {
	s, _ := NewSession("apple")
	require.Equal(t, Effects{Persist: true}, s.UseHint())
	require.True(t, s.HintUsed)
	// Second hint in the same session changes nothing.
	require.Equal(t, Effects{}, s.UseHint())
}

func TestView_IsDetached(t *testing.T) {
	s, _ := NewSession("apple")
	typeWord(t, s, "eaten")
	_, err := s.Submit()
	require.NoError(t, err)

	v := s.View()
	v.Grid[0][0] = "z"
	v.Verdicts[0][0] = VerdictCorrect
	v.Statuses["e"] = VerdictCorrect

	require.Equal(t, "e", s.Grid[0][0])
	require.Equal(t, VerdictPresent, s.Verdicts[0][0])
	require.Equal(t, VerdictPresent, s.Statuses["e"])
}
