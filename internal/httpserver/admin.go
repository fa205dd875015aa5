// internal/httpserver/admin.go
//
// Admin surface: password login issuing a short-lived JWT cookie, then
// gated CRUD over the words table and a feedback listing. The password is
// checked against a bcrypt hash from ADMIN_PASS_HASH.

package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/sagaleh/erayle/internal/game"
)

const adminCookieName = "erayle_admin"

func (s *Server) mountAdmin() {
	s.r.Post("/api/admin/login", s.handleAdminLogin)
	s.r.Route("/api/admin", func(r chi.Router) {
		r.Use(s.requireAdmin)
		r.Get("/feedback", s.handleAdminFeedback)
		r.Post("/words", s.handleAdminAddWord)
		r.Patch("/words/{id}", s.handleAdminUpdateWord)
		r.Delete("/words/{id}", s.handleAdminDeleteWord)
	})
}

// handleAdminLogin checks the password and sets the admin JWT cookie.
func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, `{"error":"invalid_json"}`, http.StatusBadRequest)
		return
	}
	hash := getEnv("ADMIN_PASS_HASH", "")
	if hash == "" {
		log.Error().Msg("ADMIN_PASS_HASH not configured")
		http.Error(w, `{"error":"admin_disabled"}`, http.StatusServiceUnavailable)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(body.Password)) != nil {
		http.Error(w, `{"error":"invalid_password"}`, http.StatusUnauthorized)
		return
	}

	exp := time.Now().Add(12 * time.Hour)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": "admin",
		"exp":  exp.Unix(),
		"iat":  time.Now().Unix(),
	})
	ss, err := t.SignedString([]byte(getEnv("JWT_SECRET", "dev_secret_change_me")))
	if err != nil {
		http.Error(w, `{"error":"sign_failed"}`, http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     adminCookieName,
		Value:    ss,
		Path:     "/",
		HttpOnly: true,
		Secure:   getEnv("NODE_ENV", "") == "production",
		SameSite: http.SameSiteLaxMode,
		Expires:  exp,
	})
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// requireAdmin enforces a valid admin JWT from the cookie or bearer header.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := ""
		if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
			tokenStr = strings.TrimSpace(a[7:])
		} else if c, err := r.Cookie(adminCookieName); err == nil {
			tokenStr = c.Value
		}
		if tokenStr == "" {
			http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
			return
		}
		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(getEnv("JWT_SECRET", "dev_secret_change_me")), nil
		})
		if err != nil || !token.Valid {
			http.Error(w, `{"error":"invalid_token"}`, http.StatusUnauthorized)
			return
		}
		if role, _ := claims["role"].(string); role != "admin" {
			http.Error(w, `{"error":"invalid_token"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleAdminFeedback(w http.ResponseWriter, r *http.Request) {
	rows, err := s.db.QueryContext(r.Context(),
		`SELECT id, type, message, created_at FROM feedback ORDER BY created_at DESC LIMIT 50`)
	if err != nil {
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	type fbRow struct {
		ID        int64  `json:"id"`
		Type      string `json:"type"`
		Message   string `json:"message"`
		CreatedAt string `json:"createdAt"`
	}
	out := []fbRow{}
	for rows.Next() {
		var f fbRow
		if err := rows.Scan(&f.ID, &f.Type, &f.Message, &f.CreatedAt); err == nil {
			out = append(out, f)
		}
	}
	_ = json.NewEncoder(w).Encode(out)
}

type wordBody struct {
	Word      string `json:"word"`
	MeaningEN string `json:"meaning_en"`
	MeaningSO string `json:"meaning_so"`
	HintEN    string `json:"hint_en"`
	HintSO    string `json:"hint_so"`
}

func (s *Server) handleAdminAddWord(w http.ResponseWriter, r *http.Request) {
	var body wordBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, `{"error":"invalid_json"}`, http.StatusBadRequest)
		return
	}
	// Same rule the session applies to its solution; anything else in the
	// pool would make every session that day unplayable.
	body.Word = strings.ToLower(strings.TrimSpace(body.Word))
	if !game.ValidWord(body.Word) {
		http.Error(w, `{"error":"word_must_be_5_letters"}`, http.StatusBadRequest)
		return
	}
	if _, err := s.db.ExecContext(r.Context(), `
        INSERT INTO words(word, meaning_en, meaning_so, hint_en, hint_so)
        VALUES (?, ?, ?, ?, ?)`,
		body.Word, body.MeaningEN, body.MeaningSO, body.HintEN, body.HintSO); err != nil {
		http.Error(w, `{"error":"insert_failed"}`, http.StatusBadRequest)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

func (s *Server) handleAdminUpdateWord(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, `{"error":"bad_id"}`, http.StatusBadRequest)
		return
	}
	var body map[string]string
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, `{"error":"invalid_json"}`, http.StatusBadRequest)
		return
	}

	// Only the metadata columns are patchable; the word itself is fixed.
	sets := []string{}
	args := []any{}
	for _, col := range []string{"meaning_en", "meaning_so", "hint_en", "hint_so"} {
		if v, ok := body[col]; ok {
			sets = append(sets, col+" = ?")
			args = append(args, v)
		}
	}
	if len(sets) == 0 {
		http.Error(w, `{"error":"no_fields"}`, http.StatusBadRequest)
		return
	}
	args = append(args, id)
	if _, err := s.db.ExecContext(r.Context(),
		`UPDATE words SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...); err != nil {
		http.Error(w, `{"error":"update_failed"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

func (s *Server) handleAdminDeleteWord(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, `{"error":"bad_id"}`, http.StatusBadRequest)
		return
	}
	if _, err := s.db.ExecContext(r.Context(), `DELETE FROM words WHERE id = ?`, id); err != nil {
		http.Error(w, `{"error":"delete_failed"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]bool{"success": true})
}
