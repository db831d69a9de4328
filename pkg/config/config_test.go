package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "voorraad-api", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, ";", cfg.CSV.Separator)
	assert.True(t, cfg.CSV.DecimalComma)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "voorraad", cfg.DB.DBName)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("CSV_SEPARATOR", ",")
	t.Setenv("CSV_DECIMAL_COMMA", "false")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.App.Env)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, ',', cfg.CSV.SeparatorRune())
	assert.False(t, cfg.CSV.DecimalComma)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestDBConnectionString(t *testing.T) {
	t.Run("DATABASE_URL wins", func(t *testing.T) {
		c := DBConfig{DatabaseURL: "postgres://u:p@db:5432/voorraad"}
		assert.Equal(t, "postgres://u:p@db:5432/voorraad", c.ConnectionString())
	})

	t.Run("built from parts with encoded credentials", func(t *testing.T) {
		c := DBConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "p@ss:word",
			DBName:   "voorraad",
			SSLMode:  "disable",
		}
		assert.Equal(t, "postgres://postgres:p%40ss:word@localhost:5432/voorraad?sslmode=disable", c.ConnectionString())
	})
}

func TestSeparatorRuneDefault(t *testing.T) {
	assert.Equal(t, ';', (CSVConfig{}).SeparatorRune())
}
