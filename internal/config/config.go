package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// insecureJWTFallback signs tokens when JWT_SECRET is not configured. Tokens
// signed with it are trivially forgeable; main logs a warning when it is in use.
const insecureJWTFallback = "change-me"

// Config aggregates runtime configuration for the biblio API.
type Config struct {
	Environment    string
	HTTPPort       int
	MongoURL       string
	DatabaseName   string
	DataStore      string
	LogLevel       string
	AllowedOrigins []string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleCallbackURL  string

	JWTSecret  string
	TokenTTL   time.Duration
	SessionTTL time.Duration
}

// Load reads configuration from environment variables with sensible defaults for local development.
func Load() (Config, error) {
	mongoURL, err := getEnvOrFile("MONGODB_URL", "/run/secrets/biblio_mongodb_url")
	if err != nil {
		return Config{}, err
	}

	googleSecret, err := getEnvOrFile("GOOGLE_CLIENT_SECRET", "/run/secrets/biblio_google_client_secret")
	if err != nil {
		return Config{}, err
	}

	jwtSecret, err := getEnvOrFile("JWT_SECRET", "/run/secrets/biblio_jwt_secret")
	if err != nil {
		return Config{}, err
	}
	if strings.TrimSpace(jwtSecret) == "" {
		jwtSecret = insecureJWTFallback
	}

	cfg := Config{
		Environment:        getEnv("APP_ENV", "development"),
		MongoURL:           mongoURL,
		DatabaseName:       getEnv("MONGODB_DATABASE", "biblio"),
		DataStore:          strings.ToLower(getEnv("DATA_STORE", "memory")),
		LogLevel:           strings.ToLower(getEnv("LOG_LEVEL", "info")),
		AllowedOrigins:     parseCSV(getEnv("ALLOWED_ORIGINS", "http://localhost:4200,http://localhost:8080")),
		GoogleClientID:     strings.TrimSpace(os.Getenv("GOOGLE_CLIENT_ID")),
		GoogleClientSecret: strings.TrimSpace(googleSecret),
		GoogleCallbackURL:  getEnv("GOOGLE_CALLBACK_URL", "http://localhost:8080/auth/google/callback"),
		JWTSecret:          jwtSecret,
	}

	portValue := getEnv("PORT", getEnv("HTTP_PORT", "8080"))
	port, err := strconv.Atoi(portValue)
	if err != nil {
		return Config{}, fmt.Errorf("invalid port %q: %w", portValue, err)
	}
	cfg.HTTPPort = port

	tokenTTL, err := parseDuration("TOKEN_TTL", 2*time.Hour)
	if err != nil {
		return Config{}, err
	}
	cfg.TokenTTL = tokenTTL

	sessionTTL, err := parseDuration("SESSION_TTL", 12*time.Hour)
	if err != nil {
		return Config{}, err
	}
	cfg.SessionTTL = sessionTTL

	if cfg.DataStore == "mongo" && cfg.MongoURL == "" {
		return Config{}, fmt.Errorf("DATA_STORE is mongo but MONGODB_URL is not set")
	}

	return cfg, nil
}

// HTTPAddress returns the address the HTTP server should bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// UseInMemoryStore returns true if the in-memory repositories should be used.
func (c Config) UseInMemoryStore() bool {
	return c.DataStore == "memory"
}

// GoogleConfigured reports whether OAuth client credentials are present.
func (c Config) GoogleConfigured() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

// UsingInsecureJWTSecret reports whether the fallback signing secret is in use.
func (c Config) UsingInsecureJWTSecret() bool {
	return c.JWTSecret == insecureJWTFallback
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func parseCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}

func getEnvOrFile(key, defaultPath string) (string, error) {
	if value := os.Getenv(key); value != "" {
		return value, nil
	}

	fileKey := key + "_FILE"
	if path := os.Getenv(fileKey); path != "" {
		return readSecret(path, fileKey)
	}

	if defaultPath != "" {
		return readSecret(defaultPath, key)
	}

	return "", nil
}

func readSecret(path, name string) (string, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("config: reading %s (%s): %w", name, path, err)
	}

	value := strings.TrimSpace(string(contents))
	if value == "" {
		return "", fmt.Errorf("config: %s (%s) is empty", name, path)
	}
	return value, nil
}
