package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv         string
	LogLevel       string
	HTTPAddr       string
	MetricsAddr    string
	DBDriver       string
	DatabaseURL    string
	RedisAddr      string
	RedisDB        int
	RedisPass      string
	CacheTTL       time.Duration
	SeedExamples   bool
	WriteRateLimit float64
	RequestTimeout time.Duration
	ImportWorkers  int
}

// Load reads the environment, after an optional .env in the working directory.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg(".env loaded")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		LogLevel:       env("LOG_LEVEL", ""),
		HTTPAddr:       env("HTTP_ADDR", ":5000"),
		MetricsAddr:    env("METRICS_ADDR", ""),
		DBDriver:       env("DB_DRIVER", "sqlite"),
		DatabaseURL:    env("DATABASE_URL", "file:turismo.db?_pragma=foreign_keys(1)"),
		RedisAddr:      env("REDIS_ADDR", ""),
		RedisPass:      env("REDIS_PASSWORD", ""),
		RedisDB:        atoi("REDIS_DB", 0),
		CacheTTL:       time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,
		SeedExamples:   boolEnv("SEED_EXAMPLES", true),
		WriteRateLimit: floatEnv("WRITE_RATE_LIMIT", 20),
		RequestTimeout: time.Duration(atoi("REQUEST_TIMEOUT_SECONDS", 15)) * time.Second,
		ImportWorkers:  atoi("IMPORT_WORKERS", 4),
	}
	if c.DBDriver == "mysql" && c.DatabaseURL == "file:turismo.db?_pragma=foreign_keys(1)" {
		log.Warn().Msg("DB_DRIVER=mysql without DATABASE_URL; using local default DSN")
		c.DatabaseURL = "root:root@tcp(localhost:3306)/turismo?parseTime=true&charset=utf8mb4&loc=UTC"
	}
	if c.ImportWorkers < 1 {
		c.ImportWorkers = 1
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func boolEnv(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func floatEnv(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
