package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ipulkitg/Jobseek/internal/middleware"
	"github.com/ipulkitg/Jobseek/internal/server"

	"github.com/golang-jwt/jwt/v5"
)

const interviewTokenTTL = 5 * time.Minute

type InterviewTokenRq struct {
	Room string `json:"room"`
	Role string `json:"role,omitempty"`
}

type InterviewTokenRes struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// MintInterviewTokenHandler issues a short-lived HS256 token scoped to an
// interview room, consumed by the video call service.
func MintInterviewTokenHandler(svr server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ac, ok := middleware.GetAuthContext(r)
		if !ok || ac.Profile == nil {
			svr.JSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
			return
		}
		rq := &InterviewTokenRq{}
		if err := json.NewDecoder(r.Body).Decode(rq); err != nil || rq.Room == "" {
			svr.JSON(w, http.StatusBadRequest, map[string]string{"error": "room is required"})
			return
		}
		role := rq.Role
		if role == "" {
			role = "participant"
		}
		switch role {
		case "participant", "interviewer", "observer":
		default:
			svr.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid interview role"})
			return
		}
		now := time.Now()
		expiresAt := now.Add(interviewTokenTTL)
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub":  ac.Profile.ID,
			"room": rq.Room,
			"role": role,
			"iat":  now.Unix(),
			"exp":  expiresAt.Unix(),
		})
		signed, err := token.SignedString(svr.GetConfig().InterviewTokenSecret)
		if err != nil {
			svr.Log(err, "unable to sign interview token")
			svr.JSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
		svr.JSON(w, http.StatusOK, InterviewTokenRes{Token: signed, ExpiresAt: expiresAt})
	}
}
