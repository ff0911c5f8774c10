package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

type Config struct {
	DBUser     string
	DBAddr     string
	DBPassword string
	DBName     string

	RedisURL     string
	StateBackend string

	JWTSecret  string
	HTTPAddr   string
	SocketAddr string
	CORSOrigin string

	TradeTTL   time.Duration
	AuctionTTL time.Duration
	BoardDir   string
	LogLevel   string
}

// Load reads a .env file when one exists, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading .env: %w", err)
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		DBUser:       os.Getenv("DB_USER"),
		DBAddr:       getenv("DB_ADDR", "localhost:5432"),
		DBPassword:   os.Getenv("DB_PASSWORD"),
		DBName:       os.Getenv("DB_NAME"),
		RedisURL:     getenv("REDIS_URL", "redis://localhost:6379"),
		StateBackend: getenv("STATE_BACKEND", BackendMemory),
		JWTSecret:    getenv("JWT_SECRET", "secret"),
		HTTPAddr:     getenv("HTTP_ADDR", ":4101"),
		SocketAddr:   getenv("SOCKET_ADDR", ":8000"),
		CORSOrigin:   getenv("CORS_ORIGIN", "http://localhost:3000"),
		BoardDir:     os.Getenv("BOARD_DIR"),
		LogLevel:     getenv("LOG_LEVEL", "info"),
	}

	ttl, err := time.ParseDuration(getenv("TRADE_TTL", "5m"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("TRADE_TTL: invalid duration %q", os.Getenv("TRADE_TTL"))
	}
	cfg.TradeTTL = ttl

	ttl, err = time.ParseDuration(getenv("AUCTION_TTL", "30s"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("AUCTION_TTL: invalid duration %q", os.Getenv("AUCTION_TTL"))
	}
	cfg.AuctionTTL = ttl

	switch cfg.StateBackend {
	case BackendMemory, BackendRedis:
	default:
		return nil, fmt.Errorf("STATE_BACKEND: must be %s or %s, got %q", BackendMemory, BackendRedis, cfg.StateBackend)
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
