package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Payment  PaymentConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port           int
	RateLimitRPS   float64
	RateLimitBurst int
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type PaymentConfig struct {
	BaseURL       string
	AccessToken   string
	WebhookSecret string
	Timeout       time.Duration
	SuccessURL    string
	FailureURL    string
	NotifyURL     string
}

type LogConfig struct {
	Level string
}

func Load() (*Config, error) {
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("SERVER_RATE_LIMIT_RPS", 20.0)
	viper.SetDefault("SERVER_RATE_LIMIT_BURST", 40)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", 3306)
	viper.SetDefault("DB_USER", "hornero")
	viper.SetDefault("DB_PASSWORD", "secret")
	viper.SetDefault("DB_NAME", "hornero")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	viper.SetDefault("PAYMENT_BASE_URL", "https://api.mercadopago.com")
	viper.SetDefault("PAYMENT_ACCESS_TOKEN", "")
	viper.SetDefault("PAYMENT_WEBHOOK_SECRET", "")
	viper.SetDefault("PAYMENT_TIMEOUT", "10s")
	viper.SetDefault("PAYMENT_SUCCESS_URL", "")
	viper.SetDefault("PAYMENT_FAILURE_URL", "")
	viper.SetDefault("PAYMENT_NOTIFY_URL", "")
	viper.SetDefault("LOG_LEVEL", "info")

	connMaxLifetime, err := time.ParseDuration(viper.GetString("DB_CONN_MAX_LIFETIME"))
	if err != nil {
		return nil, err
	}

	paymentTimeout, err := time.ParseDuration(viper.GetString("PAYMENT_TIMEOUT"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           viper.GetInt("SERVER_PORT"),
			RateLimitRPS:   viper.GetFloat64("SERVER_RATE_LIMIT_RPS"),
			RateLimitBurst: viper.GetInt("SERVER_RATE_LIMIT_BURST"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			Name:            viper.GetString("DB_NAME"),
			MaxOpenConns:    viper.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: connMaxLifetime,
		},
		Payment: PaymentConfig{
			BaseURL:       viper.GetString("PAYMENT_BASE_URL"),
			AccessToken:   viper.GetString("PAYMENT_ACCESS_TOKEN"),
			WebhookSecret: viper.GetString("PAYMENT_WEBHOOK_SECRET"),
			Timeout:       paymentTimeout,
			SuccessURL:    viper.GetString("PAYMENT_SUCCESS_URL"),
			FailureURL:    viper.GetString("PAYMENT_FAILURE_URL"),
			NotifyURL:     viper.GetString("PAYMENT_NOTIFY_URL"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
	}

	return cfg, nil
}
