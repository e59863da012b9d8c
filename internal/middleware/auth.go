package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ipulkitg/Jobseek/internal/session"
	"github.com/ipulkitg/Jobseek/internal/user"
)

const (
	SessionCookie = "session"
	CSRFCookie    = "csrf"
	CSRFHeader    = "X-CSRF-Token"
)

// AuthContext is the single shape every handler reads the caller from.
// Profile is nil when the middleware ran in session-only mode.
type AuthContext struct {
	SubjectID string
	Profile   *user.Profile
}

type authContextKey struct{}

func WithAuthContext(ctx context.Context, ac AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey{}, ac)
}

func GetAuthContext(r *http.Request) (AuthContext, bool) {
	ac, ok := r.Context().Value(authContextKey{}).(AuthContext)
	return ac, ok
}

// SessionAuthenticatedMiddleware resolves the session cookie and exposes the
// subject id only. Used by endpoints that must work before a profile exists.
func SessionAuthenticatedMiddleware(sessions session.Store, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := resolveSession(w, r, sessions)
		if !ok {
			return
		}
		next(w, r.WithContext(WithAuthContext(r.Context(), AuthContext{SubjectID: sess.SubjectID})))
	}
}

// ProfileAuthenticatedMiddleware additionally loads the caller's profile.
// Used by every endpoint that checks a role.
func ProfileAuthenticatedMiddleware(sessions session.Store, users user.Store, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := resolveSession(w, r, sessions)
		if !ok {
			return
		}
		profile, err := users.GetBySubjectID(sess.SubjectID)
		if err == user.ErrNotFound {
			writeError(w, http.StatusNotFound, "user profile not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		ac := AuthContext{SubjectID: sess.SubjectID, Profile: &profile}
		next(w, r.WithContext(WithAuthContext(r.Context(), ac)))
	}
}

func resolveSession(w http.ResponseWriter, r *http.Request, sessions session.Store) (session.Session, bool) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return session.Session{}, false
	}
	sess, err := sessions.Get(cookie.Value)
	if err == session.ErrNotFound {
		writeError(w, http.StatusUnauthorized, "invalid session")
		return session.Session{}, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return session.Session{}, false
	}
	return sess, true
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
