package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Load reads the process environment, after an optional .env file in dev.
func Load() (App, error) {
	if os.Getenv("APP_ENV") == "" || os.Getenv("APP_ENV") == "dev" {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			slog.Warn("could not read .env", "err", err)
		}
	}

	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return App{}, fmt.Errorf("load config: %w", err)
	}
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return App{}, errors.New("load config: DATABASE_URL must not be empty")
	}
	if cfg.MaxBookingDays <= 0 {
		return App{}, fmt.Errorf("load config: MAX_BOOKING_DAYS must be > 0, got %d", cfg.MaxBookingDays)
	}
	if cfg.FreeDaysPerMonth < 0 {
		return App{}, fmt.Errorf("load config: FREE_DAYS_PER_MONTH must be >= 0, got %d", cfg.FreeDaysPerMonth)
	}
	return cfg, nil
}
