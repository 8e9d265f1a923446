package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server ServerConfig

	// Redis configurations (ingestion status store + document cache)
	RedisURL      string
	RedisUsername string
	RedisPassword string

	// MongoDB configurations (document records)
	MongoURI string
	MongoDB  string

	// Ingestion backend configurations
	IngestionBackendURL string
	IngestionMockClient bool

	// Application configurations
	AppEnv      string
	LogLevel    string
	StoragePath string
}

// ServerConfig holds server-related configurations
type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	IdleTimeout  int // seconds
}

// Load loads configuration from environment variables
func Load() *Config {
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_READ_TIMEOUT", 15)
	viper.SetDefault("SERVER_WRITE_TIMEOUT", 15)
	viper.SetDefault("SERVER_IDLE_TIMEOUT", 60)
	viper.SetDefault("MONGO_DB", "ingestion")
	viper.SetDefault("INGESTION_MOCK_CLIENT", true)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("STORAGE_PATH", "uploads")
	viper.SetDefault("APP_ENV", "development")

	return &Config{
		Server: ServerConfig{
			Port:         viper.GetString("SERVER_PORT"),
			Host:         viper.GetString("SERVER_HOST"),
			ReadTimeout:  viper.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout: viper.GetInt("SERVER_WRITE_TIMEOUT"),
			IdleTimeout:  viper.GetInt("SERVER_IDLE_TIMEOUT"),
		},

		RedisURL:      viper.GetString("REDIS_URL"),
		RedisUsername: viper.GetString("REDIS_USERNAME"),
		RedisPassword: viper.GetString("REDIS_PASSWORD"),

		MongoURI: viper.GetString("MONGO_URI"),
		MongoDB:  viper.GetString("MONGO_DB"),

		IngestionBackendURL: viper.GetString("INGESTION_BACKEND_URL"),
		IngestionMockClient: viper.GetBool("INGESTION_MOCK_CLIENT"),

		AppEnv:      viper.GetString("APP_ENV"),
		LogLevel:    viper.GetString("LOG_LEVEL"),
		StoragePath: viper.GetString("STORAGE_PATH"),
	}
}
