// Command scramble plays word scramble in the terminal.
package main

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordscramble/internal/config"
	"github.com/robalobadob/wordscramble/internal/dictionary"
	"github.com/robalobadob/wordscramble/internal/game"
	"github.com/robalobadob/wordscramble/internal/shell"
	"github.com/robalobadob/wordscramble/internal/words"
)

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	cfg.SetupLogging()
	ctx := context.Background()

	src, err := words.Load(cfg.WordsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load root word list")
	}

	// The terminal client has no database; fall back to the bundled lexicon.
	backend := cfg.Dictionary
	if backend == config.DictionarySQLite {
		log.Warn().Msg("sqlite dictionary needs the server database, using the bundled lexicon")
		backend = config.DictionaryLexicon
	}
	dict, err := dictionary.Open(ctx, dictionary.Options{
		Backend:  backend,
		Language: cfg.Language,
		File:     cfg.DictionaryFile,
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
		log.Fatal().Err(err).Msg("open dictionary")
	}

	ctrl := game.NewController(src, dict, game.WithLanguage(cfg.Language))

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     "/tmp/scramble.readline.tmp",
		EOFPrompt:       ":quit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("readline")
	}
	defer rl.Close()

	sh, err := shell.New(ctx, ctrl, rl.Stdout())
	if err != nil {
		log.Fatal().Err(err).Msg("start game")
	}

	for {
		rl.SetPrompt(sh.Prompt())
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				line = ":quit"
			} else {
				continue
			}
		} else if errors.Is(err, io.EOF) {
			line = ":quit"
		} else if err != nil {
			log.Error().Err(err).Msg("read input")
			return
		}
		quit, err := sh.Handle(ctx, strings.TrimSpace(line))
		if err != nil {
			log.Error().Err(err).Msg("")
		}
		if quit {
			return
		}
	}
}
