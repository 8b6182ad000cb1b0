package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Ledger
	DecimalScale int32
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		// Server
		Port: getEnv("PORT", "8080"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "tally"),
		DBPassword: getEnv("DB_PASSWORD", "tally"),
		DBName:     getEnv("DB_NAME", "tally"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		DecimalScale: 2,
	}

	// Parse the ledger decimal scale. Two fractional digits is the floor
	// and four the ceiling, matching the numeric(20,4) amount columns.
	scaleStr := getEnv("LEDGER_SCALE", "2")
	scale, err := strconv.ParseInt(scaleStr, 10, 32)
	if err != nil || scale < 2 {
		log.Printf("Warning: invalid LEDGER_SCALE value '%s', falling back to 2\n", scaleStr)
		scale = 2
	}
	if scale > 4 {
		log.Printf("Warning: LEDGER_SCALE %d exceeds storage precision, capping at 4\n", scale)
		scale = 4
	}
	config.DecimalScale = int32(scale)

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
