// Package dictionary provides the real-word oracle used by the game engine.
//
// Every backend implements Provider:
//   - Lexicon: an in-memory word set (bundled or from a file).
//   - SQLite:  a lexicon table in the server database.
//   - KWG:     a word-golib KWG lexicon, as used by Scrabble engines.
//   - Remote:  an HTTP dictionary service.
//
// Cached wraps any Provider with memoisation.
package dictionary

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/text/language"
)

// Provider reports whether word is a recognised word of languageTag.
// A non-nil error means the oracle could not answer.
type Provider interface {
	IsRecognizedWord(ctx context.Context, word, languageTag string) (bool, error)
}

// ErrUnsupportedLanguage is returned for a language a provider has no words for.
var ErrUnsupportedLanguage = errors.New("dictionary: unsupported language")

// Base parses a BCP 47 tag and returns its base language ("en-GB" → "en").
func Base(tag string) (language.Base, error) {
	t, err := language.Parse(tag)
	if err != nil {
		return language.Base{}, fmt.Errorf("dictionary: bad language tag %q: %w", tag, err)
	}
	b, _ := t.Base()
	return b, nil
}

// checkLanguage fails unless tag's base language is want.
func checkLanguage(tag string, want language.Base) error {
	b, err := Base(tag)
	if err != nil {
		return err
	}
	if b != want {
		return fmt.Errorf("%w: %s", ErrUnsupportedLanguage, tag)
	}
	return nil
}

// Describe names p's backend for diagnostics, e.g. "kwg:NWL20" or
// "cached(remote:https://...)".
func Describe(p Provider) string {
	switch d := p.(type) {
	case *Cached:
		return "cached(" + Describe(d.next) + ")"
	case *Lexicon:
		return fmt.Sprintf("lexicon:%s(%d words)", d.lang, d.Len())
	case *KWG:
		return "kwg:" + d.Name()
	case *Remote:
		return "remote:" + d.BaseURL
	case *SQLite:
		return "sqlite"
	case nil:
		return "none"
	}
	return fmt.Sprintf("%T", p)
}
