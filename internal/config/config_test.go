package config

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PORT", "8080")
	t.Setenv("DATABASE_USER", "jobseek")
	t.Setenv("DATABASE_PASSWORD", "secret")
	t.Setenv("DATABASE_HOST", "localhost")
	t.Setenv("DATABASE_PORT", "5432")
	t.Setenv("DATABASE_NAME", "jobseek")
	t.Setenv("DATABASE_SSL_MODE", "disable")
	t.Setenv("ENV", "dev")
	t.Setenv("TOKEN_ISSUER", "https://clerk.example.com")
	t.Setenv("JWKS_URL", "https://clerk.example.com/.well-known/jwks.json")
	t.Setenv("INTERVIEW_TOKEN_SECRET", base64.StdEncoding.EncodeToString([]byte("interview-secret")))
}

func TestLoadConfig(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com, http://localhost:3000")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, []byte("interview-secret"), cfg.InterviewTokenSecret)
	assert.Equal(t, []string{"https://app.example.com", "http://localhost:3000"}, cfg.AllowedOrigins)
	assert.False(t, cfg.SkipTokenVerification)
}

func TestLoadConfigMissingVar(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWKS_URL", "")
	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigSkipVerification(t *testing.T) {
	t.Run("allowed in dev", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("SKIP_TOKEN_VERIFICATION", "true")
		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.True(t, cfg.SkipTokenVerification)
	})

	t.Run("refused in prod", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("ENV", "prod")
		t.Setenv("SKIP_TOKEN_VERIFICATION", "true")
		_, err := LoadConfig()
		assert.Error(t, err)
	})
}
