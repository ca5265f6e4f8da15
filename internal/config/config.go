package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application, sourced from
// environment variables.
type Config struct {
	Port                             string `mapstructure:"PORT"`
	GinMode                          string `mapstructure:"GIN_MODE"`
	FirebaseProjectID                string `mapstructure:"FIREBASE_PROJECT_ID"`
	GoogleApplicationCredentials     string `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`
	FirebaseServiceAccountJSONBase64 string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64"`
	BreweryDBAPIURL                  string `mapstructure:"BREWERYDB_API_URL"`
	BreweryDBAPIKey                  string `mapstructure:"BREWERYDB_API_KEY"`
	ClientURL                        string `mapstructure:"CLIENT_URL"`
}

// LoadConfig loads configuration from environment variables using Viper.
// Credentials may be omitted entirely, in which case the Firebase SDK falls
// back to Application Default Credentials.
func LoadConfig() (*Config, error) {
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("GIN_MODE", "debug")
	viper.SetDefault("BREWERYDB_API_URL", "https://api.brewerydb.com/v2")

	viper.BindEnv("PORT")
	viper.BindEnv("GIN_MODE")
	viper.BindEnv("FIREBASE_PROJECT_ID")
	viper.BindEnv("GOOGLE_APPLICATION_CREDENTIALS")
	viper.BindEnv("FIREBASE_SERVICE_ACCOUNT_JSON_BASE64")
	viper.BindEnv("BREWERYDB_API_URL")
	viper.BindEnv("BREWERYDB_API_KEY")
	viper.BindEnv("CLIENT_URL")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.New("failed to unmarshal config: " + err.Error())
	}

	if cfg.FirebaseProjectID == "" {
		return nil, errors.New("FIREBASE_PROJECT_ID is required")
	}
	if cfg.BreweryDBAPIURL == "" {
		return nil, errors.New("BREWERYDB_API_URL cannot be empty")
	}

	return &cfg, nil
}
