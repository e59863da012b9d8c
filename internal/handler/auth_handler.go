package handler

import (
	"encoding/hex"
	"encoding/json"
	"net/http"

	"github.com/ipulkitg/Jobseek/internal/identity"
	"github.com/ipulkitg/Jobseek/internal/middleware"
	"github.com/ipulkitg/Jobseek/internal/server"
	"github.com/ipulkitg/Jobseek/internal/session"
	"github.com/ipulkitg/Jobseek/internal/user"

	"github.com/google/uuid"
)

type LoginRq struct {
	Token string `json:"clerk_token"`
}

type LoginRes struct {
	SessionToken string        `json:"session_token"`
	UserProfile  *user.Profile `json:"user_profile,omitempty"`
	NeedsProfile bool          `json:"needs_profile"`
}

// LoginHandler verifies an identity provider token, creates a server-side
// session and sets the session and csrf cookies.
func LoginHandler(svr server.Server, verifier *identity.Verifier, sessions session.Store, users user.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rq := &LoginRq{}
		if err := json.NewDecoder(r.Body).Decode(rq); err != nil || rq.Token == "" {
			svr.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
			return
		}
		claims, err := verifier.Verify(r.Context(), rq.Token)
		switch err {
		case nil:
		case identity.ErrKeyResolution:
			svr.Log(err, "unable to fetch identity provider key set")
			svr.JSON(w, http.StatusServiceUnavailable, map[string]string{"error": "identity provider unavailable"})
			return
		case identity.ErrExpiredToken:
			svr.JSON(w, http.StatusUnauthorized, map[string]string{"error": "token has expired"})
			return
		default:
			svr.JSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			return
		}

		res := LoginRes{}
		profile, err := users.GetBySubjectID(claims.Subject)
		switch err {
		case nil:
			res.UserProfile = &profile
		case user.ErrNotFound:
			res.NeedsProfile = true
		default:
			svr.Log(err, "unable to load user profile on login")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}

		sessionID, err := sessions.Create(claims.Subject)
		if err != nil {
			svr.Log(err, "unable to create session")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
		res.SessionToken = sessionID

		u := uuid.New()
		setAuthCookies(w, svr.GetConfig().Env, sessionID, hex.EncodeToString(u[:]))
		svr.JSON(w, http.StatusOK, res)
	}
}

// LogoutHandler deletes the session row and clears both cookies. A valid
// session is enough, no profile is required to log out.
func LogoutHandler(svr server.Server, sessions session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(middleware.SessionCookie); err == nil && cookie.Value != "" {
			if err := sessions.Delete(cookie.Value); err != nil {
				svr.Log(err, "unable to delete session on logout")
			}
		}
		clearAuthCookies(w, svr.GetConfig().Env)
		svr.JSON(w, http.StatusOK, map[string]string{"message": "logged out"})
	}
}

// CreateProfileHandler creates the caller's profile, or updates it when one
// already exists for the subject. At most one profile per subject, enforced
// by the storage layer.
func CreateProfileHandler(svr server.Server, users user.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ac, ok := middleware.GetAuthContext(r)
		if !ok {
			svr.JSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
			return
		}
		rq := &user.ProfileRq{}
		if err := json.NewDecoder(r.Body).Decode(rq); err != nil {
			svr.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
			return
		}
		if !user.Role(rq.Role).Valid() {
			svr.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid role"})
			return
		}
		if rq.Name == "" || rq.Email == "" {
			svr.JSON(w, http.StatusBadRequest, map[string]string{"error": "name and email are required"})
			return
		}
		rq.CompanyDescription = sanitizeUGC(rq.CompanyDescription)
		profile, err := users.Upsert(ac.SubjectID, *rq)
		if err != nil {
			svr.Log(err, "unable to save user profile")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
		svr.JSON(w, http.StatusOK, profile)
	}
}

func GetProfileHandler(svr server.Server, users user.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ac, ok := middleware.GetAuthContext(r)
		if !ok {
			svr.JSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
			return
		}
		profile, err := users.GetBySubjectID(ac.SubjectID)
		if err == user.ErrNotFound {
			svr.JSON(w, http.StatusNotFound, map[string]string{"error": "user profile not found"})
			return
		}
		if err != nil {
			svr.Log(err, "unable to load user profile")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
		svr.JSON(w, http.StatusOK, profile)
	}
}

func UpdateProfileHandler(svr server.Server, users user.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ac, ok := middleware.GetAuthContext(r)
		if !ok {
			svr.JSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
			return
		}
		rq := &user.ProfileRqUpdate{}
		if err := json.NewDecoder(r.Body).Decode(rq); err != nil {
			svr.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
			return
		}
		if rq.CompanyDescription != nil {
			clean := sanitizeUGC(*rq.CompanyDescription)
			rq.CompanyDescription = &clean
		}
		profile, err := users.Update(ac.SubjectID, *rq)
		if err == user.ErrNotFound {
			svr.JSON(w, http.StatusNotFound, map[string]string{"error": "user profile not found"})
			return
		}
		if err != nil {
			svr.Log(err, "unable to update user profile")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
		svr.JSON(w, http.StatusOK, profile)
	}
}

// HealthHandler is the liveness endpoint.
func HealthHandler(svr server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svr.JSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	}
}

func setAuthCookies(w http.ResponseWriter, env, sessionID, csrfToken string) {
	secure := env == "prod"
	sameSite := http.SameSiteLaxMode
	if secure {
		// the frontend is served from a different origin in prod
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CSRFCookie,
		Value:    csrfToken,
		Path:     "/",
		HttpOnly: false,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearAuthCookies(w http.ResponseWriter, env string) {
	secure := env == "prod"
	http.SetCookie(w, &http.Cookie{Name: middleware.SessionCookie, Value: "", Path: "/", HttpOnly: true, Secure: secure, MaxAge: -1})
	http.SetCookie(w, &http.Cookie{Name: middleware.CSRFCookie, Value: "", Path: "/", Secure: secure, MaxAge: -1})
}
