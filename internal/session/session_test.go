package session

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joestump/prompt-generator/internal/prompt"
	"github.com/joestump/prompt-generator/internal/testutil"
)

// slotServer exposes Store on POST and Output on GET behind LoadAndSave.
func slotServer(sm *scs.SessionManager) http.Handler {
	slot := NewSlot(sm)
	return sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			req := prompt.Default()
			req.Topic = r.URL.Query().Get("topic")
			slot.Store(r.Context(), req, r.URL.Query().Get("out"))
			return
		}
		_, _ = io.WriteString(w, slot.Form(r.Context()).Topic+"|"+slot.Output(r.Context()))
	}))
}

func do(t *testing.T, h http.Handler, method, target string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func exerciseSlot(t *testing.T, sm *scs.SessionManager) {
	t.Helper()
	h := slotServer(sm)

	w := do(t, h, http.MethodGet, "/", nil)
	assert.Equal(t, "|", w.Body.String(), "fresh session is empty")

	w = do(t, h, http.MethodPost, "/?topic=bread&out=first", nil)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies, "storing must issue a session cookie")

	w = do(t, h, http.MethodGet, "/", cookies)
	assert.Equal(t, "bread|first", w.Body.String())

	// Survives repeated renders.
	w = do(t, h, http.MethodGet, "/", cookies)
	assert.Equal(t, "bread|first", w.Body.String())

	// A new generation overwrites rather than accumulates.
	do(t, h, http.MethodPost, "/?topic=cheese&out=second", cookies)
	w = do(t, h, http.MethodGet, "/", cookies)
	assert.Equal(t, "cheese|second", w.Body.String())

	// Other visitors never see it.
	w = do(t, h, http.MethodGet, "/", nil)
	assert.Equal(t, "|", w.Body.String())
}

func TestSlot_Memory(t *testing.T) {
	sm := NewSessionManager(Backend{}, time.Hour, false)
	assert.Equal(t, "pg_session", sm.Cookie.Name)
	exerciseSlot(t, sm)
}

func TestSlot_SQLite(t *testing.T) {
	db := testutil.NewTestDB(t)
	sm := NewSessionManager(Backend{Driver: "sqlite3", DB: db}, time.Hour, false)
	exerciseSlot(t, sm)
}

func TestSlot_FormDefaults(t *testing.T) {
	sm := NewSessionManager(Backend{}, time.Hour, false)
	slot := NewSlot(sm)
	var got prompt.Request
	h := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = slot.Form(r.Context())
	}))
	do(t, h, http.MethodGet, "/", nil)
	assert.Equal(t, prompt.Default(), got)
}
