package config

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.True(t, cfg.Quotes.DefaultTaxRate.Equal(decimal.RequireFromString("0.20")))
	assert.Equal(t, 30, cfg.Quotes.ValidityDays)
	assert.Equal(t, "DEV", cfg.Quotes.NumberPrefix)
	assert.False(t, cfg.Documents.Enabled())
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("QUOTES_DEFAULT_TAX_RATE", "0.055")
	v.Set("STORAGE_DRIVER", "Memory")
	v.Set("HTTP_PORT", "9090")
	v.Set("DOCUMENTS_ENDPOINT", "localhost:9000")
	v.Set("DOCUMENTS_ACCESS_KEY", "minio")
	v.Set("DOCUMENTS_SECRET_KEY", "minio123")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.True(t, cfg.Quotes.DefaultTaxRate.Equal(decimal.RequireFromString("0.055")))
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.True(t, cfg.Documents.Enabled())
}

func TestFromViper_Invalid(t *testing.T) {
	v := viper.New()
	v.Set("QUOTES_DEFAULT_TAX_RATE", "veinte")
	_, err := fromViper(v)
	assert.Error(t, err)

	v = viper.New()
	v.Set("STORAGE_DRIVER", "mongo")
	_, err = fromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "crm", Password: "p@ss/word", DBName: "crm", SSLMode: "disable"}
	assert.Equal(t, "postgres://crm:p%40ss%2Fword@db:5432/crm?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://u:p@h/x"
	assert.Equal(t, "postgres://u:p@h/x", c.ConnectionString())
}
