// internal/httpserver/feedback.go
//
// Feedback / bug-report channel. The browser sends free text plus an
// hCaptcha token; the token is verified server-side before the message is
// stored. Fail-closed: no secret configured means no submissions.

package httpserver

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const hcaptchaVerifyURL = "https://hcaptcha.com/siteverify"

var captchaClient = &http.Client{Timeout: 5 * time.Second}

type feedbackReq struct {
	Type    string `json:"type"` // "feedback" | "bug"
	Message string `json:"message"`
	Token   string `json:"hcaptcha_token"`
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"success":false,"error":"invalid_json"}`, http.StatusBadRequest)
		return
	}
	req.Type = strings.TrimSpace(req.Type)
	req.Message = strings.TrimSpace(req.Message)
	if req.Type == "" || req.Message == "" {
		http.Error(w, `{"success":false,"error":"missing_fields"}`, http.StatusBadRequest)
		return
	}
	if req.Token == "" {
		http.Error(w, `{"success":false,"error":"missing_captcha_token"}`, http.StatusBadRequest)
		return
	}

	secret := getEnv("HCAPTCHA_SECRET", "")
	if secret == "" {
		log.Error().Msg("HCAPTCHA_SECRET not configured")
		http.Error(w, `{"success":false,"error":"captcha_not_configured"}`, http.StatusInternalServerError)
		return
	}
	ok, err := verifyCaptcha(secret, req.Token)
	if err != nil {
		log.Warn().Err(err).Msg("captcha verification")
		http.Error(w, `{"success":false,"error":"captcha_verify_error"}`, http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, `{"success":false,"error":"captcha_failed"}`, http.StatusBadRequest)
		return
	}

	if _, err := s.db.ExecContext(r.Context(),
		`INSERT INTO feedback(type, message) VALUES (?, ?)`, req.Type, req.Message); err != nil {
		log.Error().Err(err).Msg("insert feedback")
		http.Error(w, `{"success":false,"error":"db_insert_failed"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// verifyCaptcha posts the token to the hCaptcha verify endpoint.
func verifyCaptcha(secret, token string) (bool, error) {
	resp, err := captchaClient.PostForm(hcaptchaVerifyURL, url.Values{
		"secret":   {secret},
		"response": {token},
	})
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	var out struct {
		Success bool `json:"success"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, err
	}
	return out.Success, nil
}
