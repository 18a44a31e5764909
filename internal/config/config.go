package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DatabasePath        string
	PlanSeedPath        string
	RiskThresholdsPath  string
	ExplainerServiceURL string
	RegionalAvgKWh      float64
	CatalogRefreshCron  string
	CacheSweepCron      string
	LogLevel            string
	Port                int
	DevMode             bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:                getEnvAsInt("PORT", 8001),
		DevMode:             getEnvAsBool("DEV_MODE", false),
		DatabasePath:        getEnv("DATABASE_PATH", "./data/wattadvisor.db"),
		PlanSeedPath:        getEnv("PLAN_SEED_PATH", "./configs/plans.yaml"),
		RiskThresholdsPath:  getEnv("RISK_THRESHOLDS_PATH", ""),
		ExplainerServiceURL: getEnv("EXPLAINER_SERVICE_URL", ""), // empty disables explanations
		RegionalAvgKWh:      getEnvAsFloat("REGIONAL_AVG_KWH", 900),
		CatalogRefreshCron:  getEnv("CATALOG_REFRESH_CRON", "0 0 */6 * * *"),
		CacheSweepCron:      getEnv("CACHE_SWEEP_CRON", "0 */15 * * * *"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	if c.RegionalAvgKWh < 0 {
		return fmt.Errorf("REGIONAL_AVG_KWH must not be negative")
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
