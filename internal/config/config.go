package config

import (
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	MongoDB  MongoDBConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Payment  PaymentConfig
	SMS      SMSConfig
	Wallet   WalletConfig
	LogLevel string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	AllowedHosts []string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// JWTConfig holds the settings for validating admin tokens
type JWTConfig struct {
	Secret    string
	ExpiresIn int
}

// RedisConfig holds the settings for the submission rate limiter
type RedisConfig struct {
	Enabled             bool
	Addr                string
	Password            string
	SubmitLimit         int
	SubmitWindowSeconds int
}

// PaymentConfig holds the boost payment policy. Threshold, prefixes and
// keywords are tunable here without touching the scoring function;
// TrustOnSubmit selects the experiment variant that skips scoring entirely.
type PaymentConfig struct {
	PendingThreshold     int
	TrustOnSubmit        bool
	FreePlan             bool
	MobilePrefixes       []string
	ConfirmationKeywords []string
	// Destinations maps operator id to the wallet number shown in the
	// payment instructions.
	Destinations map[string]string
}

// SMSConfig holds SMS gateway-specific configuration
type SMSConfig struct {
	Enabled bool
	BaseURL string
	APIKey  string
	Mock    bool
}

// WalletConfig holds the push-debit wallet API configuration, used only by
// the trust-on-submit variant
type WalletConfig struct {
	BaseURL string
	APIKey  string
	Mock    bool
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults() {
	viper.SetDefault("Server.Port", "4000")
	viper.SetDefault("Server.AllowedHosts", []string{"localhost:3000"})
	viper.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	viper.SetDefault("MongoDB.Database", "anunciosmz")
	viper.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	viper.SetDefault("LogLevel", "info")

	viper.SetDefault("Redis.Enabled", false)
	viper.SetDefault("Redis.Addr", "localhost:6379")
	viper.SetDefault("Redis.SubmitLimit", 5)
	viper.SetDefault("Redis.SubmitWindowSeconds", 300)

	viper.SetDefault("Payment.PendingThreshold", 50)
	viper.SetDefault("Payment.TrustOnSubmit", false)
	viper.SetDefault("Payment.FreePlan", false)
	viper.SetDefault("Payment.Destinations", map[string]string{
		"mpesa": "841234567",
		"emola": "861234567",
		"mkesh": "821234567",
	})

	viper.SetDefault("SMS.Enabled", false)
	viper.SetDefault("SMS.Mock", true)
	viper.SetDefault("Wallet.Mock", true)
}
