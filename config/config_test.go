package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nvmanh/techshop-catalog-service/config"
)

func TestLoadEnvDefaults(t *testing.T) {
	cfg := config.LoadEnv()

	assert.Equal(t, "dev", cfg.Server.AppEnv)
	assert.Equal(t, ":8080", cfg.Server.HTTPPort)
	assert.Equal(t, "techshop_catalog", cfg.Postgres.DBName)
	assert.Equal(t, "5432", cfg.Postgres.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "orders.events", cfg.Kafka.OrdersTopic)
	assert.Equal(t, "warehouse.stock", cfg.Kafka.StockTopic)
	assert.Equal(t, []string{"http://localhost:9200"}, cfg.Elastic.Addresses)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", ":9090")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("POSTGRES_MAX_OPEN_CONNS", "25")
	t.Setenv("LOGGER_DISABLE_STACKTRACE", "false")

	cfg := config.LoadEnv()

	assert.Equal(t, ":9090", cfg.Server.HTTPPort)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 25, cfg.Postgres.MaxOpenConns)
	assert.False(t, cfg.Logger.DisableStacktrace)
}
