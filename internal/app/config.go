package app

import (
	"github.com/listora/listora-backend/internal/platform/envutil"
	"github.com/listora/listora-backend/internal/platform/logger"
)

type Config struct {
	Env               string
	Port              string
	ScoringConfigPath string
	Version           string
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Env:               envutil.String("APP_ENV", "development"),
		Port:              envutil.String("PORT", "8080"),
		ScoringConfigPath: envutil.String("SCORING_CONFIG_PATH", ""),
		Version:           envutil.String("APP_VERSION", "dev"),
	}
	log.Info("Config loaded", "env", cfg.Env, "port", cfg.Port)
	return cfg
}
