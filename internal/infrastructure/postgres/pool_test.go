package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/control-equipos-api/pkg/config"
)

// ─────────────────────────────────────────────────────────────────────────────
// newPoolConfig
// ─────────────────────────────────────────────────────────────────────────────

func TestNewPoolConfig_AplicaParametros(t *testing.T) {
	cfg := config.DBConfig{
		DatabaseURL:       "postgres://app:secreto@db:5432/ce?sslmode=disable",
		MaxConns:          8,
		MinConns:          20,
		MaxConnLifetime:   15 * time.Minute,
		MaxConnIdleTime:   time.Minute,
		HealthCheckPeriod: 10 * time.Second,
		ConnectTimeout:    3 * time.Second,
		ApplicationName:   "control-equipos-api",
	}

	pc, err := newPoolConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, int32(8), pc.MaxConns)
	assert.Equal(t, int32(8), pc.MinConns, "MinConns se limita a MaxConns")
	assert.Equal(t, 15*time.Minute, pc.MaxConnLifetime)
	assert.Equal(t, time.Minute, pc.MaxConnIdleTime)
	assert.Equal(t, 10*time.Second, pc.HealthCheckPeriod)
	assert.Equal(t, 3*time.Second, pc.ConnConfig.ConnectTimeout)
	assert.Equal(t, "control-equipos-api", pc.ConnConfig.RuntimeParams["application_name"])
	assert.Equal(t, "db", pc.ConnConfig.Host)
	assert.NotNil(t, pc.AfterConnect)
}

func TestNewPoolConfig_IPv4SoloSiSeConfigura(t *testing.T) {
	base := config.DBConfig{Host: "db", Port: 5432, User: "app", DBName: "ce", SSLMode: "disable", MaxConns: 4}

	pc, err := newPoolConfig(base)
	require.NoError(t, err)
	forced, err := newPoolConfig(config.DBConfig{
		Host: "db", Port: 5432, User: "app", DBName: "ce", SSLMode: "disable", MaxConns: 4,
		ForceIPv4: true, FallbackDNS: "1.1.1.1:53",
	})
	require.NoError(t, err)

	assert.NotNil(t, forced.ConnConfig.LookupFunc)
	// Con literales IP la búsqueda no consulta ningún DNS.
	addrs, err := forced.ConnConfig.LookupFunc(context.Background(), "10.0.0.7")
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.7"}, addrs)
	_, err = forced.ConnConfig.LookupFunc(context.Background(), "::1")
	assert.Error(t, err)

	// Sin ForceIPv4 la búsqueda por defecto de pgx no se reemplaza.
	_, err = pc.ConnConfig.LookupFunc(context.Background(), "::1")
	assert.NoError(t, err)
}

func TestNewPoolConfig_DSNInvalido(t *testing.T) {
	_, err := newPoolConfig(config.DBConfig{DatabaseURL: "postgres://u:p@h:1/d?sslmode=cualquiera"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse DSN")
}
