package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/AlexZav1327/currency-converter/internal/rates"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Host           string
	Port           int
	DSN            string
	RatesURL       string
	RatesTimeout   time.Duration
	RatesPerSecond float64
	JWTSecret      []byte
	// SecretGenerated reports that JWT_SECRET was unset and tokens will not
	// survive a restart.
	SecretGenerated bool
	TokenTTL        time.Duration
	LogLevel        string
	LogFormat       string
	LogFile         string
	XRPort          int
}

// Load reads .env if present, then the environment, on top of defaults.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	return FromViper(v)
}

func FromViper(v *viper.Viper) (Config, error) {
	v.SetDefault("HOST", "")
	v.SetDefault("PORT", 8080)
	v.SetDefault("DSN", "")
	v.SetDefault("RATES_URL", rates.DefaultBaseURL)
	v.SetDefault("RATES_TIMEOUT", "10s")
	v.SetDefault("RATES_PER_SECOND", 5)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("XR_PORT", 8091)

	cfg := Config{
		Host:           v.GetString("HOST"),
		Port:           v.GetInt("PORT"),
		DSN:            v.GetString("DSN"),
		RatesURL:       v.GetString("RATES_URL"),
		RatesTimeout:   v.GetDuration("RATES_TIMEOUT"),
		RatesPerSecond: v.GetFloat64("RATES_PER_SECOND"),
		JWTSecret:      []byte(v.GetString("JWT_SECRET")),
		TokenTTL:       v.GetDuration("TOKEN_TTL"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		LogFormat:      v.GetString("LOG_FORMAT"),
		LogFile:        v.GetString("LOG_FILE"),
		XRPort:         v.GetInt("XR_PORT"),
	}

	if len(cfg.JWTSecret) == 0 {
		cfg.JWTSecret = []byte(uuid.NewString())
		cfg.SecretGenerated = true
	}

	if cfg.RatesTimeout <= 0 {
		return Config{}, fmt.Errorf("%w: RATES_TIMEOUT must be positive", ErrInvalidConfig)
	}

	if cfg.TokenTTL <= 0 {
		return Config{}, fmt.Errorf("%w: TOKEN_TTL must be positive", ErrInvalidConfig)
	}

	if cfg.RatesURL == "" {
		return Config{}, fmt.Errorf("%w: RATES_URL is empty", ErrInvalidConfig)
	}

	return cfg, nil
}
