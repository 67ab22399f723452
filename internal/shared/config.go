package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv       string
	HTTPAddr     string
	MetricsAddr  string
	MySQLDSN     string
	RedisAddr    string
	RedisDB      int
	RedisPass    string
	AmadeusBase  string
	AmadeusKey   string
	AmadeusRPS   int
	GeminiKey    string
	GeminiModel  string
	CacheTTL     time.Duration
	WarmCities   []string
	WarmWorkers  int
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ":9100"),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/tripchat?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),
		AmadeusBase: env("AMADEUS_BASE_URL", "https://api.amadeus.com/v1"),
		AmadeusKey:  env("AMADEUS_API_KEY", ""),
		AmadeusRPS:  atoi("AMADEUS_RPS", 5),
		GeminiKey:   env("GEMINI_API_KEY", ""),
		GeminiModel: env("GEMINI_MODEL", "gemini-1.5-flash"),
		CacheTTL:    time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		WarmCities:  split(env("WARM_CITIES", "")),
		WarmWorkers: atoi("WARM_WORKERS", 3),
	}
	if c.AmadeusKey == "" {
		log.Warn().Msg("AMADEUS_API_KEY is empty")
	}
	if c.GeminiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is empty; replies fall back to canned text")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func split(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
