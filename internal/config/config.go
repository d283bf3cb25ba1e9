// Package config loads server settings from the environment (and an
// optional .env file).
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Dictionary backends.
const (
	DictionaryLexicon = "lexicon"
	DictionarySQLite  = "sqlite"
	DictionaryKWG     = "kwg"
	DictionaryRemote  = "remote"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// NoDB as DB_PATH runs the server without a database.
const NoDB = "none"

type Config struct {
	Port         string `env:"PORT" envDefault:"5175"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty    bool   `env:"LOG_PRETTY"`
	ClientOrigin string `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`

	DBPath string `env:"DB_PATH" envDefault:"./data/scramble.db"`
	Store  string `env:"STORE" envDefault:"memory"`

	WordsFile string `env:"WORDS_FILE"`
	Language  string `env:"DICTIONARY_LANGUAGE" envDefault:"en"`

	Dictionary        string        `env:"DICTIONARY" envDefault:"remote"`
	DictionaryFile    string        `env:"DICTIONARY_FILE"`
	DictionaryURL     string        `env:"DICTIONARY_URL"`
	DictionaryTimeout time.Duration `env:"DICTIONARY_TIMEOUT" envDefault:"3s"`
	DictionaryRetries uint          `env:"DICTIONARY_RETRIES" envDefault:"3"`
	DictionaryCache   int           `env:"DICTIONARY_CACHE" envDefault:"10000"`

	KWGDataPath     string `env:"KWG_DATA_PATH" envDefault:"./data"`
	KWGLexicon      string `env:"KWG_LEXICON" envDefault:"NWL20"`
	KWGDistribution string `env:"KWG_DISTRIBUTION" envDefault:"English"`

	JWTSecret string        `env:"JWT_SECRET" envDefault:"dev_secret_change_me"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"72h"`
	DailySalt string        `env:"DAILY_SALT" envDefault:"local_dev_salt"`

	RateLimit float64 `env:"RATE_LIMIT" envDefault:"5"`
	RateBurst int     `env:"RATE_BURST" envDefault:"10"`
}

// Load reads .env (if present) and parses the environment into a Config.
func Load() (Config, error) {
	_ = godotenv.Load()
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks enumerated settings.
func (c Config) Validate() error {
	switch c.Dictionary {
	case DictionaryLexicon, DictionarySQLite, DictionaryKWG, DictionaryRemote:
	default:
		return fmt.Errorf("config: unknown DICTIONARY %q", c.Dictionary)
	}
	switch c.Store {
	case StoreMemory, StoreSQLite:
	default:
		return fmt.Errorf("config: unknown STORE %q", c.Store)
	}
	if (c.Dictionary == DictionarySQLite || c.Store == StoreSQLite) && !c.NeedsDB() {
		return errors.New("config: sqlite backends need DB_PATH")
	}
	return nil
}

// NeedsDB reports whether the SQLite database should be opened. Without it
// the daily leaderboard is disabled.
func (c Config) NeedsDB() bool {
	return c.DBPath != "" && c.DBPath != NoDB
}

// SetupLogging applies LOG_LEVEL and LOG_PRETTY to the global zerolog logger.
func (c Config) SetupLogging() {
	if lvl, err := zerolog.ParseLevel(c.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	} else {
		log.Warn().Str("level", c.LogLevel).Msg("unknown LOG_LEVEL, keeping default")
	}
	if c.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}
