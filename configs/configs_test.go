package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_DefaultsWithoutEnvFile(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, BackendPostgres, cfg.StorageBackend)
	assert.Equal(t, "read committed", cfg.DBIsolation)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr())
	assert.Equal(t, 32, cfg.TxMaxConflictRetries)
	assert.Equal(t, 2*time.Millisecond, cfg.TxRetryBaseWait)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "", cfg.EventBroker)
	assert.Equal(t, 1.0, cfg.TraceSampleRatio)
	assert.Equal(t, "50051", cfg.GRPCServerPort)
}

func TestLoadConfig_FileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	content := "STORAGE_BACKEND=redis\nREDIS_KEY_PREFIX=shop\nTX_RETRY_BASE_WAIT=5ms\nDB_NAME=fromfile\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600))
	t.Setenv("DB_NAME", "fromenv")
	t.Setenv("TX_MAX_CONFLICT_RETRIES", "7")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, BackendRedis, cfg.StorageBackend)
	assert.Equal(t, "shop", cfg.RedisKeyPrefix)
	assert.Equal(t, "fromenv", cfg.DBName)
	assert.Contains(t, cfg.PostgresDSN(), "dbname=fromenv")

	policy := cfg.RetryPolicy()
	assert.Equal(t, 7, policy.MaxRetries)
	assert.Equal(t, 5*time.Millisecond, policy.BaseWait)
}

func TestConf_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Conf)
		wantErr bool
	}{
		{"valid", func(c *Conf) {}, false},
		{"unknown backend", func(c *Conf) { c.StorageBackend = "mongo" }, true},
		{"unknown broker", func(c *Conf) { c.EventBroker = "nats" }, true},
		{"rabbitmq without url", func(c *Conf) { c.EventBroker = BrokerRabbitMQ }, true},
		{"kafka", func(c *Conf) { c.EventBroker = BrokerKafka }, false},
		{"negative retries", func(c *Conf) { c.TxMaxConflictRetries = -1 }, true},
		{"sample ratio above one", func(c *Conf) { c.TraceSampleRatio = 1.5 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Conf{StorageBackend: BackendPostgres}
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
