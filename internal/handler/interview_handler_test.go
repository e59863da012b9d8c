package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMintInterviewTokenHandler(t *testing.T) {
	svr := newTestServer()
	h := MintInterviewTokenHandler(svr)

	t.Run("mints a scoped token", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/api/v1/interviews/token",
			strings.NewReader(`{"room":"interview-42","role":"interviewer"}`))
		rr := httptest.NewRecorder()
		h(rr, withAuth(r, "subj-emp-1", employerProfile("emp-1")))

		require.Equal(t, http.StatusOK, rr.Code)
		var res InterviewTokenRes
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		assert.WithinDuration(t, time.Now().Add(interviewTokenTTL), res.ExpiresAt, 5*time.Second)

		token, err := jwt.Parse(res.Token, func(token *jwt.Token) (interface{}, error) {
			return svr.GetConfig().InterviewTokenSecret, nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		require.NoError(t, err)
		claims := token.Claims.(jwt.MapClaims)
		assert.Equal(t, "emp-1", claims["sub"])
		assert.Equal(t, "interview-42", claims["room"])
		assert.Equal(t, "interviewer", claims["role"])
	})

	t.Run("role defaults to participant", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/api/v1/interviews/token",
			strings.NewReader(`{"room":"interview-42"}`))
		rr := httptest.NewRecorder()
		h(rr, withAuth(r, "subj-seek-1", seekerProfile("seek-1")))

		require.Equal(t, http.StatusOK, rr.Code)
		var res InterviewTokenRes
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		token, err := jwt.Parse(res.Token, func(token *jwt.Token) (interface{}, error) {
			return svr.GetConfig().InterviewTokenSecret, nil
		})
		require.NoError(t, err)
		assert.Equal(t, "participant", token.Claims.(jwt.MapClaims)["role"])
	})

	t.Run("unknown role is 400", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/api/v1/interviews/token",
			strings.NewReader(`{"room":"interview-42","role":"admin"}`))
		rr := httptest.NewRecorder()
		h(rr, withAuth(r, "subj-seek-1", seekerProfile("seek-1")))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("missing room is 400", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/api/v1/interviews/token", strings.NewReader(`{}`))
		rr := httptest.NewRecorder()
		h(rr, withAuth(r, "subj-seek-1", seekerProfile("seek-1")))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("no auth context is 401", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/api/v1/interviews/token",
			strings.NewReader(`{"room":"interview-42"}`))
		rr := httptest.NewRecorder()
		h(rr, r)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
