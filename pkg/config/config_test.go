package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────────────────────────────────────
// Load
// ─────────────────────────────────────────────────────────────────────────────

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 30, cfg.License.ExpiringDefaultDays)
	assert.Equal(t, int32(25), cfg.DB.MaxConns)
	assert.Equal(t, 3, cfg.DB.TxRetries)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.Equal(t, int32(2), cfg.DB.MinConns)
	assert.Equal(t, time.Hour, cfg.DB.MaxConnLifetime)
	assert.Equal(t, 10*time.Second, cfg.DB.ConnectTimeout)
	assert.False(t, cfg.DB.ForceIPv4)
	assert.Empty(t, cfg.DB.FallbackDNS)
}

func TestLoad_LeeVariablesDeEntorno(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DB_TX_MAX_RETRIES", "5")
	t.Setenv("DB_AUTO_MIGRATE", "false")
	t.Setenv("LICENSE_EXPIRING_DEFAULT_DAYS", "45")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 5, cfg.DB.TxRetries)
	assert.False(t, cfg.DB.AutoMigrate)
	assert.Equal(t, 45, cfg.License.ExpiringDefaultDays)
}

func TestLoad_ParametrosDelPool(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("DB_MIN_CONNS", "4")
	t.Setenv("DB_MAX_CONN_IDLE_MINUTES", "5")
	t.Setenv("DB_FORCE_IPV4", "true")
	t.Setenv("DB_FALLBACK_DNS", "1.1.1.1:53")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, int32(4), cfg.DB.MinConns)
	assert.Equal(t, 5*time.Minute, cfg.DB.MaxConnIdleTime)
	assert.True(t, cfg.DB.ForceIPv4)
	assert.Equal(t, "1.1.1.1:53", cfg.DB.FallbackDNS)
}

func TestLoad_ParametrosDelPoolInvalidos(t *testing.T) {
	t.Run("min mayor que max", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "memory")
		t.Setenv("DB_MAX_CONNS", "3")
		t.Setenv("DB_MIN_CONNS", "5")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DB_MIN_CONNS")
	})
	t.Run("dns sin forzar ipv4", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "memory")
		t.Setenv("DB_FALLBACK_DNS", "8.8.8.8:53")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DB_FALLBACK_DNS")
	})
}

func TestLoad_SemillaDelAlmacenEnMemoria(t *testing.T) {
	e1, e2 := "0b8a3c52-6a4e-4d8e-9a57-3f1f7b3e9c01", "5d2f6e1a-7c3b-4a9d-8e2f-1b4c6d8e0a12"
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("MEMORY_SEED_EQUIPOS", " "+e1+" , "+e2+",")
	t.Setenv("MEMORY_SEED_PROVEEDORES", e1)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{e1, e2}, cfg.Storage.Seed.Equipos)
	assert.Equal(t, []string{e1}, cfg.Storage.Seed.Proveedores)
	assert.Empty(t, cfg.Storage.Seed.Usuarios)
}

func TestLoad_SemillaConIDInvalido(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("MEMORY_SEED_USUARIOS", "no-es-uuid")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MEMORY_SEED_USUARIOS")
}

func TestLoad_DriverInvalido(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "mongo")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE_DRIVER")
}

func TestLoad_ProductionSinSecreto(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	require.Error(t, err)
}

// ─────────────────────────────────────────────────────────────────────────────
// DSN
// ─────────────────────────────────────────────────────────────────────────────

func TestDBConfig_DSNEscapaContrasena(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "ce", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/ce?sslmode=disable", c.DSN())
}

func TestDBConfig_ConnectionStringPrefiereURL(t *testing.T) {
	c := DBConfig{DatabaseURL: "postgres://u:p@h:1/d", Host: "otro"}
	assert.Equal(t, "postgres://u:p@h:1/d", c.ConnectionString())
}
