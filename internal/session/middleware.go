package session

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"Skyshop/pkg/kit"
)

const CookieName = "SKYSHOP_SESSION"

type ctxKey string

const sessionKey ctxKey = "session_id"

func IDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionKey).(string)
	return id, ok && id != ""
}

func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey, id)
}

func NewID() string {
	return "s_" + uuid.NewString()
}

type Manager struct {
	Signer *Signer
	Log    *zap.Logger
	// Secure marks the cookie as HTTPS-only.
	Secure bool
}

// Middleware attaches a session id to every request. A missing, tampered or
// expired cookie starts a new session; a cookie past half its lifetime is
// re-issued so active sessions don't expire mid-use.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, exp, ok := m.fromCookie(r)
		if !ok {
			id = NewID()
		}

		if !ok || m.needsRefresh(exp) {
			if err := m.setCookie(w, id); err != nil {
				kit.OrNop(m.Log).Error("issue session cookie failed", zap.Error(err))
				kit.WriteInternalError(w, r)
				return
			}
		}

		next.ServeHTTP(w, r.WithContext(WithID(r.Context(), id)))
	})
}

func (m *Manager) fromCookie(r *http.Request) (string, time.Time, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return "", time.Time{}, false
	}
	id, exp, err := m.Signer.Parse(c.Value)
	if err != nil {
		return "", time.Time{}, false
	}
	return id, exp, true
}

func (m *Manager) needsRefresh(exp time.Time) bool {
	return exp.Sub(m.Signer.now()) < m.Signer.ttl/2
}

func (m *Manager) setCookie(w http.ResponseWriter, id string) error {
	tok, exp, err := m.Signer.Issue(id)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    tok,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
