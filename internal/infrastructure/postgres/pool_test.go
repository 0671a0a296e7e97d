package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/pkg/config"
)

func TestPoolConfig_FromFields(t *testing.T) {
	cfg := config.DBConfig{
		Host: "db.interno", Port: 6543, User: "almacen", Password: "p@ss:word",
		DBName: "stock", SSLMode: "disable", MaxConns: 1,
	}

	poolCfg, err := poolConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "db.interno", poolCfg.ConnConfig.Host)
	assert.Equal(t, uint16(6543), poolCfg.ConnConfig.Port)
	assert.Equal(t, "p@ss:word", poolCfg.ConnConfig.Password)
	assert.Equal(t, "stock", poolCfg.ConnConfig.Database)
	assert.Equal(t, int32(1), poolCfg.MaxConns)
	assert.Equal(t, int32(1), poolCfg.MinConns, "MinConns no puede superar MaxConns")
}

func TestPoolConfig_DatabaseURLWins(t *testing.T) {
	cfg := config.DBConfig{
		DatabaseURL: "postgres://u:p@otra-db:5432/ledger?sslmode=disable",
		Host:        "ignorado",
		Port:        5432,
	}

	poolCfg, err := poolConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "otra-db", poolCfg.ConnConfig.Host)
	assert.Equal(t, "ledger", poolCfg.ConnConfig.Database)
	assert.Equal(t, int32(defaultMaxConns), poolCfg.MaxConns)
	assert.Equal(t, int32(defaultMinConns), poolCfg.MinConns)
}

func TestPoolConfig_InvalidDSN(t *testing.T) {
	_, err := poolConfig(config.DBConfig{DatabaseURL: "postgres://u:p@host:notaport/db"})
	assert.Error(t, err)
}
