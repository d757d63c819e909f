package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Store drivers understood by Load.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// DefaultWatchlistName is the singleton watchlist created at startup.
const DefaultWatchlistName = "Movie WatchList"

// Config captures all runtime configuration derived from environment variables.
type Config struct {
	Port               string
	StoreDriver        string
	WatchlistName      string
	DBURL              string
	MongoURI           string
	MongoDatabase      string
	TMDBURL            string
	TMDBAPIKey         string
	TMDBImageBase      string
	TMDBTimeoutSecs    int
	RedisAddr          string
	SearchCacheTTLSecs int
	ReadTimeoutSecs    int
	WriteTimeoutSecs   int
	IdleTimeoutSecs    int
	DBMaxConns         int
	DBMinConns         int
	DBMaxIdleSecs      int
	DBMaxLifeSecs      int
	DBConnTimeoutSecs  int
	DBStatementCache   int
	DBAutoMigrate      bool
}

// SearchEnabled reports whether the search proxy has an upstream key.
func (c Config) SearchEnabled() bool {
	return c.TMDBAPIKey != ""
}

// Load reads configuration from environment variables, applying defaults and validation.
func Load() (Config, error) {
	cfg := Config{
		Port:               getEnv("PORT", "3000"),
		StoreDriver:        strings.ToLower(getEnv("STORE_DRIVER", DriverMongo)),
		WatchlistName:      getEnv("WATCHLIST_NAME", DefaultWatchlistName),
		DBURL:              os.Getenv("DB_URL"),
		MongoURI:           getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:      getEnv("MONGO_DATABASE", "populate"),
		TMDBURL:            getEnv("TMDB_URL", "https://api.themoviedb.org/3"),
		TMDBAPIKey:         os.Getenv("TMDB_API_KEY"),
		TMDBImageBase:      getEnv("TMDB_IMAGE_BASE", "https://image.tmdb.org/t/p/w185"),
		TMDBTimeoutSecs:    getEnvInt("TMDB_TIMEOUT_SECS", 5),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		SearchCacheTTLSecs: getEnvInt("SEARCH_CACHE_TTL_SECS", 600),
		ReadTimeoutSecs:    getEnvInt("SERVER_READ_TIMEOUT", 15),
		WriteTimeoutSecs:   getEnvInt("SERVER_WRITE_TIMEOUT", 15),
		IdleTimeoutSecs:    getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		DBMaxConns:         getEnvInt("DB_MAX_CONNS", 20),
		DBMinConns:         getEnvInt("DB_MIN_CONNS", 2),
		DBMaxIdleSecs:      getEnvInt("DB_MAX_CONN_IDLE_SECS", 300),
		DBMaxLifeSecs:      getEnvInt("DB_MAX_CONN_LIFETIME_SECS", 3600),
		DBConnTimeoutSecs:  getEnvInt("DB_CONN_TIMEOUT_SECS", 10),
		DBStatementCache:   getEnvInt("DB_STATEMENT_CACHE_CAPACITY", 256),
		DBAutoMigrate:      getEnvBool("DB_AUTO_MIGRATE", true),
	}

	switch cfg.StoreDriver {
	case DriverMongo:
		if cfg.MongoURI == "" {
			return Config{}, fmt.Errorf("MONGO_URI is required")
		}
		if cfg.MongoDatabase == "" {
			return Config{}, fmt.Errorf("MONGO_DATABASE is required")
		}
	case DriverPostgres:
		if cfg.DBURL == "" {
			return Config{}, fmt.Errorf("DB_URL is required")
		}
	case DriverMemory:
	default:
		return Config{}, fmt.Errorf("STORE_DRIVER must be one of mongo, postgres, memory")
	}

	if strings.TrimSpace(cfg.WatchlistName) == "" {
		return Config{}, fmt.Errorf("WATCHLIST_NAME cannot be blank")
	}
	if cfg.TMDBTimeoutSecs <= 0 {
		return Config{}, fmt.Errorf("TMDB_TIMEOUT_SECS must be positive")
	}
	if cfg.SearchCacheTTLSecs <= 0 {
		return Config{}, fmt.Errorf("SEARCH_CACHE_TTL_SECS must be positive")
	}
	if cfg.DBMaxConns <= 0 {
		return Config{}, fmt.Errorf("DB_MAX_CONNS must be positive")
	}
	if cfg.DBMinConns < 0 {
		return Config{}, fmt.Errorf("DB_MIN_CONNS must be non-negative")
	}
	if cfg.DBMinConns > cfg.DBMaxConns {
		return Config{}, fmt.Errorf("DB_MIN_CONNS cannot exceed DB_MAX_CONNS")
	}
	if cfg.DBStatementCache < 0 {
		return Config{}, fmt.Errorf("DB_STATEMENT_CACHE_CAPACITY must be non-negative")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}
