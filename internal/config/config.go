package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Backend selects where the canonical copy lives.
const (
	BackendPostgres = "postgres"
	BackendAPI      = "api"
)

type Config struct {
	DataDir   string
	BatchSize int

	Backend      string
	DatabaseURL  string // postgres backend
	APIBaseURL   string // api backend
	AuthTokenURL string
	AuthClientID string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		DataDir:      getenv("DATA_DIR", "data"),
		Backend:      getenv("BACKEND", BackendAPI),
		DatabaseURL:  getenv("DATABASE_URL", ""),
		APIBaseURL:   getenv("DATA_API_URL", ""),
		AuthTokenURL: getenv("AUTH_TOKEN_URL", ""),
		AuthClientID: getenv("AUTH_CLIENT_ID", "language-enforcer"),
	}

	batch := getenv("SESSION_BATCH_SIZE", "10")
	size, err := strconv.Atoi(batch)
	if err != nil || size <= 0 {
		return Config{}, fmt.Errorf("invalid SESSION_BATCH_SIZE %q", batch)
	}
	cfg.BatchSize = size

	switch cfg.Backend {
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL is required for BACKEND=postgres")
		}
	case BackendAPI:
		if cfg.APIBaseURL == "" {
			return Config{}, fmt.Errorf("DATA_API_URL is required for BACKEND=api")
		}
	default:
		return Config{}, fmt.Errorf("unknown BACKEND %q (postgres/api)", cfg.Backend)
	}

	return cfg, nil
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}
