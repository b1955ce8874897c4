package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort string `mapstructure:"HTTP_PORT"`
	GRPCPort string `mapstructure:"GRPC_PORT"`

	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	RedisAddr  string `mapstructure:"REDIS_ADDR"`

	AllowedOrigins string        `mapstructure:"ALLOWED_ORIGINS"`
	SessionTTL     time.Duration `mapstructure:"SESSION_TTL"`
	SessionCookie  string        `mapstructure:"SESSION_COOKIE"`
	CookieSecure   bool          `mapstructure:"COOKIE_SECURE"`
	OTPTTL         time.Duration `mapstructure:"OTP_TTL"`

	IdentityTokenSecret string `mapstructure:"IDENTITY_TOKEN_SECRET"`
	IdentityTokenIssuer string `mapstructure:"IDENTITY_TOKEN_ISSUER"`

	GeneratorURL     string        `mapstructure:"GENERATOR_URL"`
	GeneratorAPIKey  string        `mapstructure:"GENERATOR_API_KEY"`
	GeneratorModel   string        `mapstructure:"GENERATOR_MODEL"`
	GeneratorTimeout time.Duration `mapstructure:"GENERATOR_TIMEOUT"`

	SMSWebhookURL string `mapstructure:"SMS_WEBHOOK_URL"`
	SMSAPIKey     string `mapstructure:"SMS_API_KEY"`

	LogLevel string `mapstructure:"LOG_LEVEL"`
}

var keys = []string{
	"HTTP_PORT", "GRPC_PORT",
	"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "REDIS_ADDR",
	"ALLOWED_ORIGINS", "SESSION_TTL", "SESSION_COOKIE", "COOKIE_SECURE", "OTP_TTL",
	"IDENTITY_TOKEN_SECRET", "IDENTITY_TOKEN_ISSUER",
	"GENERATOR_URL", "GENERATOR_API_KEY", "GENERATOR_MODEL", "GENERATOR_TIMEOUT",
	"SMS_WEBHOOK_URL", "SMS_API_KEY",
	"LOG_LEVEL",
}

func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	v.SetDefault("HTTP_PORT", ":8080")
	v.SetDefault("GRPC_PORT", ":9090")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("SESSION_COOKIE", "zm_session")
	v.SetDefault("OTP_TTL", "5m")
	v.SetDefault("GENERATOR_URL", "https://api.openai.com/v1")
	v.SetDefault("GENERATOR_MODEL", "gpt-4o-mini")
	v.SetDefault("GENERATOR_TIMEOUT", "8s")
	v.SetDefault("LOG_LEVEL", "info")

	v.AutomaticEnv()

	// Bind explicitly so keys resolve from the environment without a file.
	for _, k := range keys {
		if err = v.BindEnv(k); err != nil {
			return
		}
	}

	err = v.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
	}

	err = v.Unmarshal(&config)
	return
}

func (c Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

func (c Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
