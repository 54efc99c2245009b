package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allKeys = []string{
	"ADDR", "STORE_DRIVER", "DATABASE_URL", "SQLITE_PATH", "HIGHSCORE_NAMESPACE",
	"ARCADE_GAMES", "MAX_SCORES", "SEED_DEMO", "KAFKA_BROKERS", "KAFKA_SCORES_TOPIC",
	"KAFKA_EVENTS_TOPIC", "KAFKA_GROUP_ID", "LOG_LEVEL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, "arcade_highscores", cfg.Namespace)
	assert.Nil(t, cfg.Games)
	assert.Equal(t, 5, cfg.MaxScores)
	assert.True(t, cfg.SeedDemo)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "arcade-score-update", cfg.KafkaScoresTopic)
	assert.Equal(t, "score_recorded", cfg.KafkaEventsTopic)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/scores.db")
	t.Setenv("ARCADE_GAMES", "tetris, frogger,,galaga")
	t.Setenv("MAX_SCORES", "10")
	t.Setenv("SEED_DEMO", "false")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, "/tmp/scores.db", cfg.SQLitePath)
	assert.Equal(t, []string{"tetris", "frogger", "galaga"}, cfg.Games)
	assert.Equal(t, 10, cfg.MaxScores)
	assert.False(t, cfg.SeedDemo)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown driver", env: map[string]string{"STORE_DRIVER": "redis"}},
		{name: "postgres without url", env: map[string]string{"STORE_DRIVER": "postgres"}},
		{name: "max scores not a number", env: map[string]string{"MAX_SCORES": "five"}},
		{name: "max scores zero", env: map[string]string{"MAX_SCORES": "0"}},
		{name: "seed demo not a bool", env: map[string]string{"SEED_DEMO": "sometimes"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}

	clearEnv(t)
	t.Setenv("STORE_DRIVER", "redis")
	_, err := Load()
	assert.ErrorIs(t, err, ErrUnknownDriver)
}

func TestInitConfig(t *testing.T) {
	clearEnv(t)

	// a missing file is fine
	require.NoError(t, InitConfig(filepath.Join(t.TempDir(), "missing.env")))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("ADDR=:9999\n"), 0o600))
	t.Setenv("ADDR", "")
	os.Unsetenv("ADDR")
	require.NoError(t, InitConfig(path))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Addr)
}
