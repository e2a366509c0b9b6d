package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/bellapacxx/crupier/game"
)

// Config holds everything the dealer daemon reads from the environment.
type Config struct {
	Port           string
	DrawInterval   time.Duration
	AllowedOrigins []string
	LogLevel       string
	LogEncoding    string
	GinMode        string
}

// Load reads .env (if present) and then the process environment.
func Load() (Config, error) {
	// A missing .env is fine; the environment still applies.
	_ = godotenv.Load()

	c := Config{
		Port:           envOr("PORT", "4000"),
		DrawInterval:   game.DefaultSpeed,
		AllowedOrigins: splitList(envOr("ALLOWED_ORIGINS", "http://localhost:3000")),
		LogLevel:       strings.ToLower(envOr("LOG_LEVEL", "info")),
		LogEncoding:    envOr("LOG_ENCODING", "json"),
		GinMode:        os.Getenv("GIN_MODE"),
	}

	if v := os.Getenv("DRAW_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid DRAW_INTERVAL %q: %w", v, err)
		}
		if d < game.MinSpeed {
			return Config{}, fmt.Errorf("DRAW_INTERVAL %s is below %s", d, game.MinSpeed)
		}
		c.DrawInterval = d
	}

	if len(c.AllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("ALLOWED_ORIGINS %q lists no origin", os.Getenv("ALLOWED_ORIGINS"))
	}

	switch c.LogEncoding {
	case "json", "console":
	default:
		return Config{}, fmt.Errorf("invalid LOG_ENCODING %q", c.LogEncoding)
	}

	return c, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
