// Package session owns the per-visitor state of the generator page: the last
// generated output and the form values that produced it.
package session

import (
	"context"
	"encoding/gob"
	"net/http"
	"time"

	"github.com/alexedwards/scs/goredisstore"
	"github.com/alexedwards/scs/mysqlstore"
	"github.com/alexedwards/scs/postgresstore"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/joestump/prompt-generator/internal/prompt"
)

const (
	OutputKey = "generated_prompt"
	FormKey   = "last_request"
)

func init() {
	gob.Register(prompt.Request{})
}

// Backend selects where session data lives. Driver is "memory" (default),
// "redis", "mysql", "postgres" or "sqlite3"; DB or Redis must be set to match.
type Backend struct {
	Driver string
	DB     *sqlx.DB
	Redis  *redis.Client
}

// NewSessionManager creates an SCS session manager on the given backend.
func NewSessionManager(b Backend, lifetime time.Duration, secure bool) *scs.SessionManager {
	sm := scs.New()
	switch b.Driver {
	case "mysql":
		sm.Store = mysqlstore.New(b.DB.DB)
	case "postgres":
		sm.Store = postgresstore.New(b.DB.DB)
	case "sqlite3":
		sm.Store = sqlite3store.New(b.DB.DB)
	case "redis":
		sm.Store = goredisstore.New(b.Redis)
	default:
		sm.Store = memstore.New()
	}
	sm.Lifetime = lifetime
	sm.Cookie.Name = "pg_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = secure
	sm.Cookie.SameSite = http.SameSiteLaxMode
	return sm
}

// Slot is the single output slot of a session. It is overwritten by every
// generate action and never cleared on its own.
type Slot struct {
	sm *scs.SessionManager
}

// NewSlot wraps sm.
func NewSlot(sm *scs.SessionManager) Slot { return Slot{sm: sm} }

// Output returns the last displayed result, or "" if nothing was generated yet.
func (s Slot) Output(ctx context.Context) string {
	return s.sm.GetString(ctx, OutputKey)
}

// Form returns the form values of the last generate action, or the defaults.
func (s Slot) Form(ctx context.Context) prompt.Request {
	if req, ok := s.sm.Get(ctx, FormKey).(prompt.Request); ok {
		return req
	}
	return prompt.Default()
}

// Store records the outcome of a generate action, replacing the previous one.
func (s Slot) Store(ctx context.Context, req prompt.Request, output string) {
	s.sm.Put(ctx, FormKey, req)
	s.sm.Put(ctx, OutputKey, output)
}

// RememberForm keeps the submitted values without touching the output.
func (s Slot) RememberForm(ctx context.Context, req prompt.Request) {
	s.sm.Put(ctx, FormKey, req)
}
