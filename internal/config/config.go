package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type Config struct {
	Port                  string
	DatabaseUser          string
	DatabasePassword      string
	DatabaseHost          string
	DatabasePort          string
	DatabaseName          string
	DatabaseSSLMode       string
	Env                   string // either prod or dev, toggles https redirect and cookie flags
	TokenIssuer           string // identity provider issuer url
	JWKSURL               string // identity provider published key set endpoint
	SkipTokenVerification bool   // decode identity tokens without signature check, dev only
	InterviewTokenSecret  []byte // HS256 key for short-lived interview room tokens
	SentryDSN             string
	AllowedOrigins        []string // origins allowed to call the API with credentials
}

func LoadConfig() (Config, error) {
	port := os.Getenv("PORT")
	if port == "" {
		return Config{}, fmt.Errorf("PORT cannot be empty")
	}
	databaseUser := os.Getenv("DATABASE_USER")
	if databaseUser == "" {
		return Config{}, fmt.Errorf("DATABASE_USER cannot be empty")
	}
	databasePassword := os.Getenv("DATABASE_PASSWORD")
	if databasePassword == "" {
		return Config{}, fmt.Errorf("DATABASE_PASSWORD cannot be empty")
	}
	databaseHost := os.Getenv("DATABASE_HOST")
	if databaseHost == "" {
		return Config{}, fmt.Errorf("DATABASE_HOST cannot be empty")
	}
	databasePort := os.Getenv("DATABASE_PORT")
	if databasePort == "" {
		return Config{}, fmt.Errorf("DATABASE_PORT cannot be empty")
	}
	databaseName := os.Getenv("DATABASE_NAME")
	if databaseName == "" {
		return Config{}, fmt.Errorf("DATABASE_NAME cannot be empty")
	}
	databaseSSLMode := os.Getenv("DATABASE_SSL_MODE")
	if databaseSSLMode == "" {
		return Config{}, fmt.Errorf("DATABASE_SSL_MODE cannot be empty")
	}
	env := strings.ToLower(os.Getenv("ENV"))
	if env == "" {
		return Config{}, fmt.Errorf("ENV cannot be empty")
	}
	tokenIssuer := os.Getenv("TOKEN_ISSUER")
	if tokenIssuer == "" {
		return Config{}, fmt.Errorf("TOKEN_ISSUER cannot be empty")
	}
	jwksURL := os.Getenv("JWKS_URL")
	if jwksURL == "" {
		return Config{}, fmt.Errorf("JWKS_URL cannot be empty")
	}
	skipTokenVerification := false
	if skipStr := os.Getenv("SKIP_TOKEN_VERIFICATION"); skipStr != "" {
		var err error
		skipTokenVerification, err = strconv.ParseBool(skipStr)
		if err != nil {
			return Config{}, errors.Wrap(err, "unable to parse SKIP_TOKEN_VERIFICATION")
		}
	}
	if skipTokenVerification && env == "prod" {
		return Config{}, fmt.Errorf("SKIP_TOKEN_VERIFICATION cannot be enabled in prod")
	}
	interviewTokenSecretStr := os.Getenv("INTERVIEW_TOKEN_SECRET")
	if interviewTokenSecretStr == "" {
		return Config{}, fmt.Errorf("INTERVIEW_TOKEN_SECRET cannot be empty")
	}
	interviewTokenSecret, err := base64.StdEncoding.DecodeString(interviewTokenSecretStr)
	if err != nil {
		return Config{}, errors.Wrapf(err, "unable to decode interview token secret to bytes")
	}
	sentryDSN := os.Getenv("SENTRY_DSN")
	allowedOrigins := []string{}
	for _, origin := range strings.Split(os.Getenv("ALLOWED_ORIGINS"), ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			allowedOrigins = append(allowedOrigins, origin)
		}
	}

	return Config{
		Port:                  port,
		DatabaseUser:          databaseUser,
		DatabasePassword:      databasePassword,
		DatabaseHost:          databaseHost,
		DatabasePort:          databasePort,
		DatabaseName:          databaseName,
		DatabaseSSLMode:       databaseSSLMode,
		Env:                   env,
		TokenIssuer:           tokenIssuer,
		JWKSURL:               jwksURL,
		SkipTokenVerification: skipTokenVerification,
		InterviewTokenSecret:  interviewTokenSecret,
		SentryDSN:             sentryDSN,
		AllowedOrigins:        allowedOrigins,
	}, nil
}
