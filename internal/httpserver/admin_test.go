package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sagaleh/erayle/internal/persist"
)

func adminLogin(t *testing.T, srv *Server, password string) *http.Cookie {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"password": password})
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == adminCookieName {
			return ck
		}
	}
	t.Fatal("no admin cookie set")
	return nil
}

func TestAdmin_LoginAndWordCRUD(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.DefaultCost)
	require.NoError(t, err)
	t.Setenv("ADMIN_PASS_HASH", string(hash))
	t.Setenv("JWT_SECRET", "test_secret")

	db := testDB(t)
	srv := newTestServer(t, persist.NewMemoryStore(), db, noon)

	// Wrong password is rejected.
	body, _ := json.Marshal(map[string]string{"password": "nope"})
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	cookie := adminLogin(t, srv, "s3cret-pass")

	// Add a word.
	body, _ = json.Marshal(wordBody{
		Word: "HOUSE", MeaningEN: "a building", MeaningSO: "dhisme",
		HintEN: "you live in it", HintSO: "waad ku nooshahay",
	})
	req = httptest.NewRequest(http.MethodPost, "/api/admin/words", bytes.NewReader(body))
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var word string
	require.NoError(t, db.QueryRow(`SELECT word FROM words WHERE word='house'`).Scan(&word))
	require.Equal(t, "house", word)

	// Patch its metadata.
	var id int64
	require.NoError(t, db.QueryRow(`SELECT id FROM words WHERE word='house'`).Scan(&id))
	body, _ = json.Marshal(map[string]string{"hint_en": "it has a roof"})
	req = httptest.NewRequest(http.MethodPatch, "/api/admin/words/"+itoa(id), bytes.NewReader(body))
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var hint string
	require.NoError(t, db.QueryRow(`SELECT hint_en FROM words WHERE id=?`, id).Scan(&hint))
	require.Equal(t, "it has a roof", hint)

	// Delete it.
	req = httptest.NewRequest(http.MethodDelete, "/api/admin/words/"+itoa(id), nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM words WHERE id=?`, id).Scan(&n))
	require.Equal(t, 0, n)
}

func TestAdmin_RejectsInvalidWord(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("pw-pw-pw"), bcrypt.DefaultCost)
	require.NoError(t, err)
	t.Setenv("ADMIN_PASS_HASH", string(hash))

	db := testDB(t)
	srv := newTestServer(t, persist.NewMemoryStore(), db, noon)
	cookie := adminLogin(t, srv, "pw-pw-pw")

	// Wrong length and right-length-but-not-letters both stay out of the
	// pool; a row like "app1e" would make its day unplayable.
	for _, word := range []string{"cat", "app1e", "ab cd", "éclat"} {
		body, _ := json.Marshal(wordBody{Word: word})
		req := httptest.NewRequest(http.MethodPost, "/api/admin/words", bytes.NewReader(body))
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code, "word %q must be rejected", word)
	}

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM words WHERE word != 'apple'`).Scan(&n))
	require.Equal(t, 0, n)
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
