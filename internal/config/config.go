package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment string
	Port        string
	AWS         AWSConfig
	Tables      TableConfig
	Jira        JiraConfig
	RateLimit   RateLimitConfig
}

// AWSConfig holds AWS client configuration
type AWSConfig struct {
	Region string
}

// TableConfig holds the DynamoDB table names backing the customer store
type TableConfig struct {
	CustomerTable    string
	InteractionTable string
}

// JiraConfig holds the secret names used to resolve Jira credentials
// and the HTTP timeout applied to tracker calls
type JiraConfig struct {
	URLSecretName      string
	APIKeyARNSecret    string
	UsernameSecretName string
	HTTPTimeout        time.Duration
}

// RateLimitConfig holds rate limiting settings for the local dev server
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Set up Viper
	viper.AutomaticEnv()
	viper.SetDefault("PORT", "8081")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("AWS_REGION", "us-east-1")
	viper.SetDefault("CUSTOMER_TABLE_NAME", "CUSTOMER_TABLE")
	viper.SetDefault("INTERACTION_TABLE_NAME", "INTERACTION_TABLE")
	viper.SetDefault("JIRA_URL_SECRET_NAME", "JIRA_URL")
	viper.SetDefault("JIRA_API_KEY_ARN_SECRET_NAME", "JIRA_API_KEY_ARN")
	viper.SetDefault("JIRA_USERNAME_SECRET_NAME", "JIRA_USER_NAME")
	viper.SetDefault("JIRA_HTTP_TIMEOUT_SECONDS", 10)
	viper.SetDefault("RATE_LIMIT_RPS", 10.0)
	viper.SetDefault("RATE_LIMIT_BURST", 20)

	config := &Config{
		Environment: viper.GetString("ENVIRONMENT"),
		Port:        viper.GetString("PORT"),
		AWS: AWSConfig{
			Region: viper.GetString("AWS_REGION"),
		},
		Tables: TableConfig{
			CustomerTable:    viper.GetString("CUSTOMER_TABLE_NAME"),
			InteractionTable: viper.GetString("INTERACTION_TABLE_NAME"),
		},
		Jira: JiraConfig{
			URLSecretName:      viper.GetString("JIRA_URL_SECRET_NAME"),
			APIKeyARNSecret:    viper.GetString("JIRA_API_KEY_ARN_SECRET_NAME"),
			UsernameSecretName: viper.GetString("JIRA_USERNAME_SECRET_NAME"),
			HTTPTimeout:        time.Duration(viper.GetInt("JIRA_HTTP_TIMEOUT_SECONDS")) * time.Second,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:             viper.GetInt("RATE_LIMIT_BURST"),
		},
	}

	return config, nil
}

// GetEnv gets an environment variable with a fallback value
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// GetEnvAsInt gets an environment variable as integer with a fallback value
func GetEnvAsInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}
