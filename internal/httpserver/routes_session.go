// internal/httpserver/routes_session.go
//
// Session endpoints. Each request resolves the player's session for the
// current UTC day (live in memory, hydrated from storage, or fresh), applies
// at most one core transition, executes the effects the core returns, and
// responds with the read-only view.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/sagaleh/erayle/internal/daily"
	"github.com/sagaleh/erayle/internal/game"
	"github.com/sagaleh/erayle/internal/words"
)

// sessionRes is the view handed to the presentation layer after every
// transition. Solution and meanings appear only once the game is over.
type sessionRes struct {
	game.View
	Day       string  `json:"day"`
	Score     float64 `json:"score"`
	Notice    string  `json:"notice,omitempty"`
	Solution  string  `json:"solution,omitempty"`
	MeaningEN string  `json:"meaning_en,omitempty"`
	MeaningSO string  `json:"meaning_so,omitempty"`
}

// handleWord returns today's display metadata. The solution itself stays on
// the server while the session is live.
func (s *Server) handleWord(w http.ResponseWriter, r *http.Request) {
	rec, err := s.provider.WordOfDay(r.Context(), s.now())
	if err != nil {
		log.Error().Err(err).Msg("word of day")
		http.Error(w, `{"error":"no_word_available"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]string{
		"day":        daily.DateKey(s.now()),
		"meaning_en": rec.MeaningEN,
		"meaning_so": rec.MeaningSO,
		"hint_en":    rec.HintEN,
		"hint_so":    rec.HintSO,
	})
}

// resolveSession finds or builds the player's session for today.
// Order: live in-memory session, then a reconciled stored snapshot, then a
// fresh session seeded with the word of the day (persisted immediately so
// storage reflects it). A provider failure is fatal to initialization: no
// partial session is created.
func (s *Server) resolveSession(ctx context.Context, playerID string) (*game.Session, *words.Record, string, error) {
	day := daily.DateKey(s.now())
	rec, err := s.provider.WordOfDay(ctx, s.now())
	if err != nil {
		return nil, nil, day, err
	}

	key := playerID + "|" + day
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[key]; ok {
		return sess, rec, day, nil
	}

	sess, ok, err := s.gw.Load(ctx, playerID, day)
	if err != nil {
		return nil, nil, day, err
	}
	if !ok {
		sess, err = game.NewSession(rec.Word)
		if err != nil {
			return nil, nil, day, err
		}
		if err := s.gw.Save(ctx, playerID, sess, day); err != nil {
			return nil, nil, day, err
		}
	}
	s.sessions[key] = sess
	return sess, rec, day, nil
}

// runEffects executes what the core asked for: snapshot save and, on the
// terminal transition, the once-per-day settlement. The caller must hold
// s.mu: capturing the snapshot reads the same session another request for
// this player could be mutating.
func (s *Server) runEffects(ctx context.Context, playerID, day string, sess *game.Session, eff game.Effects) error {
	if eff.Persist {
		if err := s.gw.Save(ctx, playerID, sess, day); err != nil {
			return err
		}
	}
	if eff.Settle {
		ledger, err := s.gw.Ledger(ctx, playerID)
		if err != nil {
			return err
		}
		ledger.Settle(sess.Won, sess.HintUsed, day)
		if err := s.gw.SaveLedger(ctx, playerID, ledger); err != nil {
			return err
		}
	}
	return nil
}

// respondView writes the response for a view captured while s.mu was held.
// The solution string is immutable after session creation and safe to pass
// alongside.
func (s *Server) respondView(w http.ResponseWriter, r *http.Request, playerID, day, notice string, v game.View, solution string, rec *words.Record) {
	ledger, err := s.gw.Ledger(r.Context(), playerID)
	if err != nil {
		log.Error().Err(err).Msg("load ledger")
		http.Error(w, `{"error":"storage_failed"}`, http.StatusInternalServerError)
		return
	}
	res := sessionRes{
		View:   v,
		Day:    day,
		Score:  ledger.Score,
		Notice: notice,
	}
	if v.Done {
		res.Solution = solution
		res.MeaningEN = rec.MeaningEN
		res.MeaningSO = rec.MeaningSO
	}
	_ = json.NewEncoder(w).Encode(res)
}

// handleSessionStart loads or creates today's session and returns the view.
func (s *Server) handleSessionStart(w http.ResponseWriter, r *http.Request) {
	playerID := s.ensurePlayerID(w, r)
	sess, rec, day, err := s.resolveSession(r.Context(), playerID)
	if err != nil {
		log.Error().Err(err).Msg("session init")
		http.Error(w, `{"error":"init_failed"}`, http.StatusInternalServerError)
		return
	}
	s.mu.Lock()
	v := sess.View()
	s.mu.Unlock()
	s.respondView(w, r, playerID, day, "", v, sess.Solution, rec)
}

// handleSessionGet returns the current view without creating or persisting
// anything. A player with no session today gets a 404.
func (s *Server) handleSessionGet(w http.ResponseWriter, r *http.Request) {
	playerID := s.ensurePlayerID(w, r)
	day := daily.DateKey(s.now())
	rec, err := s.provider.WordOfDay(r.Context(), s.now())
	if err != nil {
		log.Error().Err(err).Msg("word of day")
		http.Error(w, `{"error":"init_failed"}`, http.StatusInternalServerError)
		return
	}

	key := playerID + "|" + day
	s.mu.Lock()
	sess, ok := s.sessions[key]
	s.mu.Unlock()
	if !ok {
		sess, ok, err = s.gw.Load(r.Context(), playerID, day)
		if err != nil {
			log.Error().Err(err).Msg("load session")
			http.Error(w, `{"error":"storage_failed"}`, http.StatusInternalServerError)
			return
		}
		if ok {
			s.mu.Lock()
			if live, exists := s.sessions[key]; exists {
				sess = live
			} else {
				s.sessions[key] = sess
			}
			s.mu.Unlock()
		}
	}
	if !ok {
		http.Error(w, `{"error":"no_session"}`, http.StatusNotFound)
		return
	}

	s.mu.Lock()
	v := sess.View()
	s.mu.Unlock()
	s.respondView(w, r, playerID, day, "", v, sess.Solution, rec)
}

// keyReq is one player input event.
type keyReq struct {
	Key string `json:"key"` // "a".."z", "enter", "backspace"
}

// handleSessionKey applies a single input event. A submit on a short row is
// answered with a notice, not an error; anything after completion is a no-op
// that still returns the (locked) view.
func (s *Server) handleSessionKey(w http.ResponseWriter, r *http.Request) {
	var req keyReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	playerID := s.ensurePlayerID(w, r)
	sess, rec, day, err := s.resolveSession(r.Context(), playerID)
	if err != nil {
		log.Error().Err(err).Msg("session init")
		http.Error(w, `{"error":"init_failed"}`, http.StatusInternalServerError)
		return
	}

	// The transition, its effects, and the response view all read and write
	// the same session; two tabs hitting this handler at once must serialize
	// through the whole sequence, not just the switch.
	var eff game.Effects
	notice := ""
	s.mu.Lock()
	switch key := strings.ToLower(strings.TrimSpace(req.Key)); {
	case key == "enter":
		eff, err = sess.Submit()
		if errors.Is(err, game.ErrRowIncomplete) {
			notice, err = "row_incomplete", nil
		}
	case key == "backspace":
		eff = sess.PressDelete()
	case len(key) == 1:
		eff = sess.PressLetter(key[0])
	default:
		s.mu.Unlock()
		http.Error(w, `{"error":"bad_key"}`, http.StatusBadRequest)
		return
	}
	if err == nil {
		err = s.runEffects(r.Context(), playerID, day, sess, eff)
	}
	v := sess.View()
	s.mu.Unlock()
	if err != nil {
		log.Error().Err(err).Msg("apply key")
		http.Error(w, `{"error":"apply_failed"}`, http.StatusInternalServerError)
		return
	}
	s.respondView(w, r, playerID, day, notice, v, sess.Solution, rec)
}

// handleSessionHint marks the hint used (half a point at settlement) and
// returns the hint text in both locales.
func (s *Server) handleSessionHint(w http.ResponseWriter, r *http.Request) {
	playerID := s.ensurePlayerID(w, r)
	sess, rec, day, err := s.resolveSession(r.Context(), playerID)
	if err != nil {
		log.Error().Err(err).Msg("session init")
		http.Error(w, `{"error":"init_failed"}`, http.StatusInternalServerError)
		return
	}

	s.mu.Lock()
	eff := sess.UseHint()
	err = s.runEffects(r.Context(), playerID, day, sess, eff)
	s.mu.Unlock()
	if err != nil {
		log.Error().Err(err).Msg("run effects")
		http.Error(w, `{"error":"storage_failed"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]string{
		"hint_en": rec.HintEN,
		"hint_so": rec.HintSO,
	})
}
