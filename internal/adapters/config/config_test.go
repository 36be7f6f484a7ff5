package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostgresDSN(t *testing.T) {
	cfg := PostgresConfig{
		Host:     "db.local",
		Port:     5433,
		User:     "pepuhub",
		Password: "secret",
		Database: "pepuhub",
		SSLMode:  "require",
	}

	assert.Equal(t,
		"host=db.local port=5433 user=pepuhub password=secret dbname=pepuhub sslmode=require",
		cfg.DSN())
}

func TestRedisAddr(t *testing.T) {
	cfg := RedisConfig{Host: "cache.local", Port: 6380}
	assert.Equal(t, "cache.local:6380", cfg.Addr())
}

func TestAdminAllowed(t *testing.T) {
	cfg := AdminConfig{AllowedWallets: []string{
		" 0xAAAA000000000000000000000000000000000001 ",
		"0xbbbb000000000000000000000000000000000002",
	}}

	assert.True(t, cfg.Allowed("0xaaaa000000000000000000000000000000000001"), "case and whitespace insensitive")
	assert.True(t, cfg.Allowed("0xBBBB000000000000000000000000000000000002"))
	assert.False(t, cfg.Allowed("0xcccc000000000000000000000000000000000003"))
	assert.False(t, AdminConfig{}.Allowed("0xaaaa000000000000000000000000000000000001"), "empty allowlist denies everyone")
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	cfg.MarketData.Network = "pepe-unchained"
	assert.NoError(t, cfg.Validate())

	cfg.MarketData.Network = ""
	assert.Error(t, cfg.Validate())

	cfg.MarketData.Network = "pepe-unchained"
	cfg.ErrorTracking.Enabled = true
	assert.Error(t, cfg.Validate(), "enabled tracking needs a DSN")

	cfg.ErrorTracking.SentryDSN = "https://key@sentry.example/1"
	assert.NoError(t, cfg.Validate())
}
