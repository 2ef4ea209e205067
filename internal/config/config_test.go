package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GO_ENV", "development")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("KAFKA_BROKERS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.CORSOrigins)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.True(t, cfg.RequireRejectionReason)
	assert.False(t, cfg.RestockOnReceive)
	assert.NotEmpty(t, cfg.JWTSecret)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("PORT", "9090")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("CORS_ORIGINS", "https://buildseason.example")
	t.Setenv("ORDER_RESTOCK_ON_RECEIVE", "true")
	t.Setenv("ORDER_REQUIRE_REJECTION_REASON", "false")
	t.Setenv("POSTGRES_PORT", "5433")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, []string{"https://buildseason.example"}, cfg.CORSOrigins)
	assert.True(t, cfg.RestockOnReceive)
	assert.False(t, cfg.RequireRejectionReason)
	assert.Contains(t, cfg.DSN(), "port=5433")
}

func TestLoad_ProductionRequiresSecrets(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.ErrorContains(t, err, "DATABASE_URL is required")

	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/buildseason")
	_, err = Load()
	assert.ErrorContains(t, err, "JWT_SECRET is required")
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("GO_ENV", "staging")
	_, err := Load()
	assert.Error(t, err)
}

func TestDSN_PrefersDatabaseURL(t *testing.T) {
	cfg := Config{DatabaseURL: "postgres://x"}
	assert.Equal(t, "postgres://x", cfg.DSN())
}

func TestMigrateURL(t *testing.T) {
	cfg := Config{
		PostgresUser:     "bs",
		PostgresPassword: "p@ss",
		PostgresHost:     "db",
		PostgresPort:     5432,
		PostgresDB:       "buildseason",
		PostgresSSLMode:  "disable",
	}
	assert.Equal(t, "postgres://bs:p%40ss@db:5432/buildseason?sslmode=disable", cfg.MigrateURL())

	cfg.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", cfg.MigrateURL())
}
