package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, 15*time.Second, cfg.Operations.ValidationTimeout)
	assert.False(t, cfg.Kafka.Enabled(), "sin KAFKA_BROKERS el publicador queda deshabilitado")
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("DB_PORT", "6543")
	v.Set("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	v.Set("VALIDATION_TIMEOUT_SECONDS", "3")
	v.Set("DB_MIGRATE", "true")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 6543, cfg.DB.Port)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 3*time.Second, cfg.Operations.ValidationTimeout)
	assert.True(t, cfg.DB.Migrate)
}

func TestFromViper_TimeoutInvalido(t *testing.T) {
	v := viper.New()
	v.Set("VALIDATION_TIMEOUT_SECONDS", "0")

	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "stock", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/stock?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
