package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port                 string
	Environment          string
	LogLevel             string
	TaplinkWebhookSecret string // TAPLINK_WEBHOOK_SECRET: verify incoming Taplink webhooks (taplink-signature)
	RetailCRM            RetailCRMConfig
}

// RetailCRMConfig is used to call the RetailCRM API v5
type RetailCRMConfig struct {
	URL    string // e.g. https://demo.retailcrm.ru
	APIKey string
	Site   string // CRM site code orders are created under
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("RETAILCRM_SITE", "taplink2")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Port:                 getEnvOrViper("PORT", "8080"),
		Environment:          getEnvOrViper("ENVIRONMENT", "development"),
		LogLevel:             getEnvOrViper("LOG_LEVEL", "info"),
		TaplinkWebhookSecret: strings.TrimSpace(getEnvOrViper("TAPLINK_WEBHOOK_SECRET", "")),
		RetailCRM: RetailCRMConfig{
			URL:    strings.TrimSpace(getEnvOrViper("RETAILCRM_URL", "")),
			APIKey: strings.TrimSpace(getEnvOrViper("RETAILCRM_API_KEY", "")),
			Site:   getEnvOrViper("RETAILCRM_SITE", "taplink2"),
		},
	}

	// Validate required fields
	if cfg.RetailCRM.URL == "" {
		return nil, fmt.Errorf("RETAILCRM_URL is required")
	}
	if cfg.RetailCRM.APIKey == "" {
		return nil, fmt.Errorf("RETAILCRM_API_KEY is required")
	}
	if cfg.TaplinkWebhookSecret == "" {
		return nil, fmt.Errorf("TAPLINK_WEBHOOK_SECRET is required")
	}

	return cfg, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}
