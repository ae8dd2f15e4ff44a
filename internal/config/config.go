package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort        string        `mapstructure:"HTTP_PORT"`
	BaseURL         string        `mapstructure:"BASE_URL"`
	RequestTimeout  time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`

	MongoURI    string `mapstructure:"MONGO_URI"`
	MongoDBName string `mapstructure:"MONGO_DB_NAME"`

	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	CartCacheTTL  time.Duration `mapstructure:"CART_CACHE_TTL"`

	PostgresHost     string `mapstructure:"POSTGRES_HOST"`
	PostgresPort     int    `mapstructure:"POSTGRES_PORT"`
	PostgresUser     string `mapstructure:"POSTGRES_USER"`
	PostgresPassword string `mapstructure:"POSTGRES_PASSWORD"`
	PostgresDB       string `mapstructure:"POSTGRES_DB"`
	MigrationsDir    string `mapstructure:"MIGRATIONS_DIR"`

	PayUKey        string `mapstructure:"PAYU_KEY"`
	PayUSalt       string `mapstructure:"PAYU_SALT"`
	PayUPaymentURL string `mapstructure:"PAYU_PAYMENT_URL"`
	PayUVerifyURL  string `mapstructure:"PAYU_VERIFY_URL"`
	// VerifyCallback turns on response-hash checking of gateway callbacks.
	// Off by default: the receiver is a transparent relay unless the
	// deployment opts in.
	VerifyCallback bool   `mapstructure:"PAYU_VERIFY_CALLBACK"`
	Currency       string `mapstructure:"CURRENCY"`

	// SettleDelay defers the first result-page read so a late stash write
	// from the callback path can land first.
	SettleDelay time.Duration `mapstructure:"SETTLE_DELAY"`
}

// Load reads configuration from the environment, with an optional .env file
// in the working directory. Missing keys fall back to local-dev defaults.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("BASE_URL", "http://localhost:8080")
	v.SetDefault("REQUEST_TIMEOUT", 30*time.Second)
	v.SetDefault("SHUTDOWN_TIMEOUT", 10*time.Second)
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB_NAME", "storefront")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("CART_CACHE_TTL", 30*time.Minute)
	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", 5432)
	v.SetDefault("POSTGRES_USER", "postgres")
	v.SetDefault("POSTGRES_PASSWORD", "postgres")
	v.SetDefault("POSTGRES_DB", "storefront")
	v.SetDefault("MIGRATIONS_DIR", "internal/orders/migrations")
	v.SetDefault("PAYU_PAYMENT_URL", "https://test.payu.in/_payment")
	v.SetDefault("PAYU_VERIFY_URL", "https://test.payu.in/merchant/postservice?form=2")
	v.SetDefault("PAYU_VERIFY_CALLBACK", false)
	v.SetDefault("CURRENCY", "INR")
	v.SetDefault("SETTLE_DELAY", 150*time.Millisecond)

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	// The .env file is optional; environment variables alone are fine.
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
