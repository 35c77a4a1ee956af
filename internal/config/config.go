package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Video    VideoConfig    `mapstructure:"video"`
	Redis    RedisConfig    `mapstructure:"redis"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Mail     MailConfig     `mapstructure:"mail"`
	Model    ModelConfig    `mapstructure:"model"`
}

type ServerConfig struct {
	Port           int `mapstructure:"port"`
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
	RateLimitRPS   int `mapstructure:"rate_limit_rps"`
	RateLimitBurst int `mapstructure:"rate_limit_burst"`
}

type DatabaseConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Name         string `mapstructure:"name"`
	SSLMode      string `mapstructure:"sslmode"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

// AuthMode selects the token verification strategy. The two modes are
// mutually exclusive per deployment.
type AuthMode string

const (
	AuthModeLocal    AuthMode = "local"
	AuthModeProvider AuthMode = "provider"
)

type AuthConfig struct {
	Mode           AuthMode `mapstructure:"mode"`
	Secret         string   `mapstructure:"secret"`
	Issuer         string   `mapstructure:"issuer"`
	ExpiryHours    int      `mapstructure:"expiry_hours"`
	ProviderSecret string   `mapstructure:"provider_secret"`
	ProviderIssuer string   `mapstructure:"provider_issuer"`
}

func (c AuthConfig) Expiry() time.Duration {
	if c.ExpiryHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.ExpiryHours) * time.Hour
}

type VideoConfig struct {
	AccountSID  string `mapstructure:"account_sid"`
	AuthToken   string `mapstructure:"auth_token"`
	APIKey      string `mapstructure:"api_key"`
	APISecret   string `mapstructure:"api_secret"`
	TokenTTLMin int    `mapstructure:"token_ttl_minutes"`
}

func (c VideoConfig) TokenTTL() time.Duration {
	if c.TokenTTLMin <= 0 {
		return time.Hour
	}
	return time.Duration(c.TokenTTLMin) * time.Minute
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type MailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

func (c MailConfig) Enabled() bool {
	return c.Host != "" && c.From != ""
}

type ModelConfig struct {
	Seed int64 `mapstructure:"seed"`
}

// Secrets are never read from the config file in deployment; they
// override whatever the file carries.
type secrets struct {
	DBPassword       string `envconfig:"DB_PASSWORD"`
	JWTSecret        string `envconfig:"JWT_SECRET"`
	ProviderSecret   string `envconfig:"IDENTITY_PROVIDER_SECRET"`
	TwilioAccountSID string `envconfig:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken  string `envconfig:"TWILIO_AUTH_TOKEN"`
	TwilioAPIKey     string `envconfig:"TWILIO_API_KEY"`
	TwilioAPISecret  string `envconfig:"TWILIO_API_SECRET"`
	RedisURL         string `envconfig:"REDIS_URL"`
	MailPassword     string `envconfig:"MAIL_PASSWORD"`
}

// LoadConfig reads config.yaml via viper, then applies environment
// overrides for secret-bearing fields.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	var sec secrets
	if err := envconfig.Process("", &sec); err != nil {
		return nil, fmt.Errorf("failed to process env secrets: %w", err)
	}
	applyOverride(&config.Database.Password, sec.DBPassword)
	applyOverride(&config.Auth.Secret, sec.JWTSecret)
	applyOverride(&config.Auth.ProviderSecret, sec.ProviderSecret)
	applyOverride(&config.Video.AccountSID, sec.TwilioAccountSID)
	applyOverride(&config.Video.AuthToken, sec.TwilioAuthToken)
	applyOverride(&config.Video.APIKey, sec.TwilioAPIKey)
	applyOverride(&config.Video.APISecret, sec.TwilioAPISecret)
	applyOverride(&config.Redis.URL, sec.RedisURL)
	applyOverride(&config.Mail.Password, sec.MailPassword)

	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.TimeoutSeconds <= 0 {
		config.Server.TimeoutSeconds = 30
	}
	if config.Server.RateLimitRPS <= 0 {
		config.Server.RateLimitRPS = 100
	}
	if config.Server.RateLimitBurst <= 0 {
		config.Server.RateLimitBurst = 200
	}
	if config.Auth.Mode == "" {
		config.Auth.Mode = AuthModeLocal
	}
	if config.Auth.Secret == "" {
		return nil, fmt.Errorf("auth secret is required")
	}

	return &config, nil
}

func applyOverride(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
