// internal/words/words.go
//
// Root word list management for the game controller.
//
// Responsibilities:
//   - Load the root word list from a file or fall back to the embedded default.
//   - Normalise entries (trim, lowercase) and drop anything that cannot be a root.
//   - Supply the list to game.Controller via Words().
//
// Word list format:
//   One word per line, no header. Blank lines and lines starting with '#'
//   are skipped. Words shorter than MinRootLength or containing non-letters
//   are dropped.
//
// Environment variables (read by config, passed in as a path):
//   WORDS_FILE=/path/to/start.txt

package words

import (
	"fmt"
	"os"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/robalobadob/wordscramble/assets"
	"github.com/robalobadob/wordscramble/internal/game"
)

// MinRootLength is the shortest usable root word.
const MinRootLength = 3

// Source is an immutable list of root words.
type Source struct {
	name  string
	words []string
}

// New builds a Source from an in-memory list, normalising and filtering it.
func New(name string, list []string) *Source {
	return &Source{name: name, words: normalize(list)}
}

// Load reads the root word list from path, or the embedded list if path is
// empty. An unreadable file is an error; an empty one is not.
func Load(path string) (*Source, error) {
	if path == "" {
		list, err := assets.StartWords()
		if err != nil {
			return nil, fmt.Errorf("words: embedded list: %w", err)
		}
		return New("embedded:start.txt", list), nil
	}
	list, err := readWordFile(path)
	if err != nil {
		return nil, fmt.Errorf("words: read %s: %w", path, err)
	}
	s := New(path, list)
	if len(s.words) == 0 {
		log.Warn().Str("path", path).Msg("word list has no usable words")
	}
	return s, nil
}

// readWordFile loads one word per line from a file.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return assets.ReadLines(f)
}

// normalize lowercases, trims, de-duplicates and keeps only usable roots.
func normalize(list []string) []string {
	out := lo.FilterMap(list, func(w string, _ int) (string, bool) {
		w = game.Normalize(w)
		return w, isRoot(w)
	})
	return lo.Uniq(out)
}

// isRoot reports whether w is long enough and made only of letters.
func isRoot(w string) bool {
	if utf8.RuneCountInString(w) < MinRootLength {
		return false
	}
	for _, r := range w {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// Words returns the root word list. Callers must not modify it.
func (s *Source) Words() []string {
	if s == nil {
		return nil
	}
	return s.words
}

// Name describes where the list came from.
func (s *Source) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

// Len returns the number of root words.
func (s *Source) Len() int { return len(s.Words()) }
