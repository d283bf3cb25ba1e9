package dictionary

import (
	"context"
	"fmt"
	"os"

	"github.com/samber/lo"
	"golang.org/x/text/language"

	"github.com/robalobadob/wordscramble/assets"
	"github.com/robalobadob/wordscramble/internal/game"
)

// Lexicon is an in-memory word set for a single language.
type Lexicon struct {
	lang  language.Base
	words map[string]struct{}
}

// NewLexicon builds a Lexicon for languageTag from list. Entries are
// normalised with game.Normalize.
func NewLexicon(languageTag string, list []string) (*Lexicon, error) {
	b, err := Base(languageTag)
	if err != nil {
		return nil, err
	}
	set := lo.Associate(list, func(w string) (string, struct{}) {
		return game.Normalize(w), struct{}{}
	})
	delete(set, "")
	return &Lexicon{lang: b, words: set}, nil
}

// LoadLexicon reads a word-per-line file, or the embedded lexicon if path is empty.
func LoadLexicon(languageTag, path string) (*Lexicon, error) {
	list, err := readList(path)
	if err != nil {
		return nil, err
	}
	return NewLexicon(languageTag, list)
}

func readList(path string) ([]string, error) {
	if path == "" {
		list, err := assets.LexiconWords()
		if err != nil {
			return nil, fmt.Errorf("dictionary: embedded lexicon: %w", err)
		}
		return list, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dictionary: open %s: %w", path, err)
	}
	defer f.Close()
	list, err := assets.ReadLines(f)
	if err != nil {
		return nil, fmt.Errorf("dictionary: read %s: %w", path, err)
	}
	return list, nil
}

// IsRecognizedWord reports whether word is in the set.
func (l *Lexicon) IsRecognizedWord(_ context.Context, word, languageTag string) (bool, error) {
	if err := checkLanguage(languageTag, l.lang); err != nil {
		return false, err
	}
	_, ok := l.words[game.Normalize(word)]
	return ok, nil
}

// Len returns the number of words.
func (l *Lexicon) Len() int { return len(l.words) }

// Words returns the words in no particular order.
func (l *Lexicon) Words() []string { return lo.Keys(l.words) }
