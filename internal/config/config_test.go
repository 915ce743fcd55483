package config

import (
	"testing"
	"time"

	"github.com/AlexZav1327/currency-converter/internal/rates"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestFromViper(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := FromViper(viper.New())
		require.NoError(t, err)
		require.Equal(t, 8080, cfg.Port)
		require.Equal(t, 8091, cfg.XRPort)
		require.Empty(t, cfg.DSN)
		require.Equal(t, rates.DefaultBaseURL, cfg.RatesURL)
		require.Equal(t, 10*time.Second, cfg.RatesTimeout)
		require.Equal(t, 5.0, cfg.RatesPerSecond)
		require.Equal(t, 24*time.Hour, cfg.TokenTTL)
		require.True(t, cfg.SecretGenerated)
		require.NotEmpty(t, cfg.JWTSecret)
	})

	t.Run("overrides", func(t *testing.T) {
		v := viper.New()
		v.Set("PORT", "9000")
		v.Set("RATES_TIMEOUT", "250ms")
		v.Set("JWT_SECRET", "s3cret")
		v.Set("DSN", "postgres://localhost/converter")

		cfg, err := FromViper(v)
		require.NoError(t, err)
		require.Equal(t, 9000, cfg.Port)
		require.Equal(t, 250*time.Millisecond, cfg.RatesTimeout)
		require.Equal(t, []byte("s3cret"), cfg.JWTSecret)
		require.False(t, cfg.SecretGenerated)
		require.Equal(t, "postgres://localhost/converter", cfg.DSN)
	})

	t.Run("environment", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "debug")

		v := viper.New()
		v.AutomaticEnv()

		cfg, err := FromViper(v)
		require.NoError(t, err)
		require.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("invalid timeout", func(t *testing.T) {
		v := viper.New()
		v.Set("RATES_TIMEOUT", "0s")

		_, err := FromViper(v)
		require.ErrorIs(t, err, ErrInvalidConfig)
	})
}
