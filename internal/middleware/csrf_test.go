package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCSRFMiddleware(t *testing.T) {
	var called bool
	h := CSRFMiddleware(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		method     string
		header     string
		cookie     string
		wantStatus int
		wantCalled bool
	}{
		{"GET passes without token", http.MethodGet, "", "", http.StatusOK, true},
		{"HEAD passes without token", http.MethodHead, "", "", http.StatusOK, true},
		{"OPTIONS passes without token", http.MethodOptions, "", "", http.StatusOK, true},
		{"POST with matching tokens", http.MethodPost, "tok123", "tok123", http.StatusOK, true},
		{"PUT with matching tokens", http.MethodPut, "tok123", "tok123", http.StatusOK, true},
		{"POST with mismatched tokens", http.MethodPost, "tok123", "other", http.StatusForbidden, false},
		{"POST missing header", http.MethodPost, "", "tok123", http.StatusForbidden, false},
		{"POST missing cookie", http.MethodPost, "tok123", "", http.StatusForbidden, false},
		{"DELETE missing both", http.MethodDelete, "", "", http.StatusForbidden, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called = false
			rr := httptest.NewRecorder()
			r := httptest.NewRequest(tt.method, "/", nil)
			if tt.header != "" {
				r.Header.Set(CSRFHeader, tt.header)
			}
			if tt.cookie != "" {
				r.AddCookie(&http.Cookie{Name: CSRFCookie, Value: tt.cookie})
			}
			h(rr, r)
			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantCalled, called)
		})
	}
}
