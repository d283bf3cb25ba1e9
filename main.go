package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/robalobadob/wordscramble/assets"
	"github.com/robalobadob/wordscramble/internal/config"
	"github.com/robalobadob/wordscramble/internal/daily"
	"github.com/robalobadob/wordscramble/internal/dictionary"
	"github.com/robalobadob/wordscramble/internal/game"
	"github.com/robalobadob/wordscramble/internal/httpserver"
	"github.com/robalobadob/wordscramble/internal/store"
	"github.com/robalobadob/wordscramble/internal/words"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	cfg.SetupLogging()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The game cannot run without root words.
	src, err := words.Load(cfg.WordsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load root word list")
	}
	log.Info().Str("source", src.Name()).Int("words", src.Len()).Msg("root words loaded")

	var db *sql.DB
	if cfg.NeedsDB() {
		db, err = store.OpenDB(cfg.DBPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
		}
		defer db.Close()
		if err := store.Migrate(db, assets.Migrations()); err != nil {
			log.Fatal().Err(err).Msg("migrate database")
		}
	}

	dict, err := dictionary.Open(ctx, dictionary.Options{
		Backend:  cfg.Dictionary,
		Language: cfg.Language,
		File:     cfg.DictionaryFile,
		DB:       db,
		URL:      cfg.DictionaryURL,
		Timeout:  cfg.DictionaryTimeout,
		Attempts: cfg.DictionaryRetries,
		KWG: dictionary.KWGConfig{
			DataPath:     cfg.KWGDataPath,
			Lexicon:      cfg.KWGLexicon,
			Distribution: cfg.KWGDistribution,
		},
		CacheSize: cfg.DictionaryCache,
	})
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Dictionary).Msg("open dictionary")
	}
	log.Info().Str("dictionary", dictionary.Describe(dict)).Msg("dictionary ready")

	var (
		games   store.Store
		results *daily.Store
	)
	switch {
	case cfg.Store == config.StoreSQLite:
		games = store.NewSQLiteStore(db)
	default:
		games = store.NewMemoryStore()
	}
	if db != nil {
		results = daily.NewStore(db)
	}

	ctrl := game.NewController(src, dict,
		game.WithLanguage(cfg.Language),
		game.WithDailySalt(cfg.DailySalt),
	)

	srv := httpserver.New(httpserver.Options{
		Store:        games,
		Controller:   ctrl,
		Daily:        results,
		Words:        src,
		Dictionary:   dictionary.Describe(dict),
		JWTSecret:    cfg.JWTSecret,
		TokenTTL:     cfg.TokenTTL,
		ClientOrigin: cfg.ClientOrigin,
		RateLimit:    rate.Limit(cfg.RateLimit),
		RateBurst:    cfg.RateBurst,
	})
	hs := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Str("dictionary", cfg.Dictionary).Str("store", cfg.Store).Msg("starting wordscramble server")
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return hs.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}
