package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DB_NAME", "")
	t.Setenv("DEBT_SWEEP_SCHEDULE", "")
	t.Setenv("APP_TIMEZONE", "")

	cfg := LoadConfig()

	assert.Equal(t, "dormitory", cfg.Database.Database)
	assert.Equal(t, "5 0 * * *", cfg.Sweep.Schedule)
	assert.True(t, cfg.Sweep.OnStart)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiry)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_EXPIRY", "1h")
	t.Setenv("DEBT_SWEEP_ON_START", "false")
	t.Setenv("APP_TIMEZONE", "Asia/Tashkent")
	t.Setenv("ALLOWED_ORIGINS", " https://a.uz , ,https://b.uz")

	cfg := LoadConfig()

	assert.Equal(t, time.Hour, cfg.JWT.AccessTokenExpiry)
	assert.False(t, cfg.Sweep.OnStart)
	assert.Equal(t, "Asia/Tashkent", cfg.Location.String())
	assert.Equal(t, []string{"https://a.uz", "https://b.uz"}, cfg.CORS.AllowedOrigins)
}

func TestParseDurationFallback(t *testing.T) {
	assert.Equal(t, 3*time.Second, parseDuration("soon", 3*time.Second))
}

func TestParseHelpers(t *testing.T) {
	assert.Equal(t, 25, parseInt("25", 10))
	assert.Equal(t, 10, parseInt("0", 10))
	assert.Equal(t, 10, parseInt("many", 10))

	assert.True(t, parseBool("true"))
	assert.False(t, parseBool("perhaps"))

	assert.Equal(t, time.UTC, parseLocation("Nowhere/Atlantis"))
	assert.Equal(t, []string{"http://a.uz", "http://b.uz"}, parseOrigins(" http://a.uz, ,http://b.uz "))
	assert.Empty(t, parseOrigins(""))
}
