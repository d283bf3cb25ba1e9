package config

import (
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "STORE", "DICTIONARY", "DB_PATH", "DICTIONARY_LANGUAGE", "TOKEN_TTL", "RATE_LIMIT"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5175", cfg.Port)
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, DictionaryRemote, cfg.Dictionary)
	assert.Equal(t, "en", cfg.Language)
	assert.Equal(t, 72*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 3*time.Second, cfg.DictionaryTimeout)
	assert.EqualValues(t, 5, cfg.RateLimit)
	assert.True(t, cfg.NeedsDB())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("STORE", "sqlite")
	t.Setenv("DICTIONARY", "lexicon")
	t.Setenv("DICTIONARY_TIMEOUT", "750ms")
	t.Setenv("DICTIONARY_RETRIES", "5")
	t.Setenv("DICTIONARY_LANGUAGE", "en-GB")
	t.Setenv("RATE_LIMIT", "0.5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, StoreSQLite, cfg.Store)
	assert.Equal(t, DictionaryLexicon, cfg.Dictionary)
	assert.Equal(t, 750*time.Millisecond, cfg.DictionaryTimeout)
	assert.EqualValues(t, 5, cfg.DictionaryRetries)
	assert.Equal(t, "en-GB", cfg.Language)
	assert.InDelta(t, 0.5, cfg.RateLimit, 1e-9)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("TOKEN_TTL", "forever")
	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := Config{Dictionary: DictionaryLexicon, Store: StoreMemory, DBPath: "./data/x.db"}
	require.NoError(t, base.Validate())

	cases := map[string]func(c *Config){
		"unknown dictionary": func(c *Config) { c.Dictionary = "aspell" },
		"unknown store":      func(c *Config) { c.Store = "redis" },
		"sqlite store no db": func(c *Config) { c.Store = StoreSQLite; c.DBPath = NoDB },
		"sqlite dict no db":  func(c *Config) { c.Dictionary = DictionarySQLite; c.DBPath = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := base
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestNeedsDB(t *testing.T) {
	assert.True(t, Config{DBPath: "./data/x.db"}.NeedsDB())
	assert.False(t, Config{DBPath: NoDB}.NeedsDB())
	assert.False(t, Config{}.NeedsDB())
}

func TestSetupLogging(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	Config{LogLevel: "warn"}.SetupLogging()
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	Config{LogLevel: "chatty"}.SetupLogging()
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
}
