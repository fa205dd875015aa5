// internal/game/view.go
//
// Read-only projection of a session for the presentation layer. Everything
// a renderer needs to paint tiles and keyboard, with no access to internals
// (in particular: no solution while the game is live).

package game

// View is a deep copy of the renderable session state. Mutating a View has
// no effect on the session it came from.
type View struct {
	Grid     [][]string         `json:"grid"`
	Verdicts [][]Verdict        `json:"verdicts"`
	Row      int                `json:"row"`
	Col      int                `json:"col"`
	Statuses map[string]Verdict `json:"statuses"`
	Done     bool               `json:"done"`
	Won      bool               `json:"won"`
	HintUsed bool               `json:"hintUsed"`
}

// View returns the current renderable state.
func (s *Session) View() View {
	grid := make([][]string, len(s.Grid))
	for r := range s.Grid {
		grid[r] = append([]string(nil), s.Grid[r]...)
	}
	verdicts := make([][]Verdict, len(s.Verdicts))
	for r := range s.Verdicts {
		if s.Verdicts[r] != nil {
			verdicts[r] = append([]Verdict(nil), s.Verdicts[r]...)
		}
	}
	statuses := make(map[string]Verdict, len(s.Statuses))
	for k, v := range s.Statuses {
		statuses[k] = v
	}
	return View{
		Grid:     grid,
		Verdicts: verdicts,
		Row:      s.Row,
		Col:      s.Col,
		Statuses: statuses,
		Done:     s.Done,
		Won:      s.Won,
		HintUsed: s.HintUsed,
	}
}
