package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessAPIDefaults(t *testing.T) {
	cfg, err := ProcessAPI()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, "phonebook.db", cfg.SQLitePath)
	assert.Equal(t, "https://pokeapi.co", cfg.AvatarBaseURL)
	assert.Equal(t, 8*time.Second, cfg.AvatarTimeout)
	assert.Empty(t, cfg.EventsQueueURL)
}

func TestProcessAPIPostgresNeedsDSN(t *testing.T) {
	t.Setenv("STORE_DRIVER", DriverPostgres)
	t.Setenv("DB_DSN", "")

	_, err := ProcessAPI()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DSN")

	t.Setenv("DB_DSN", "postgres://localhost/phonebook")
	cfg, err := ProcessAPI()
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.StoreDriver)
}

func TestProcessAPIUnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mongo")
	_, err := ProcessAPI()
	require.Error(t, err)
}

func TestLoadAPIPanicsOnInvalidEnv(t *testing.T) {
	t.Setenv("AVATAR_TIMEOUT", "not-a-duration")
	assert.Panics(t, func() { LoadAPI() })
}
