// internal/game/validate.go
//
// The validation engine: decides whether a candidate word is admissible
// against a root word, the words already used, and a dictionary.
//
// Checks run in a fixed order and stop at the first failure:
//   1. length >= MinWordLength           → ReasonTooShort
//   2. not already used                  → ReasonAlreadyUsed
//   3. not the root word                 → ReasonIsRootWord
//   4. spellable from the root's letters → ReasonNotConstructible
//   5. recognised by the dictionary      → ReasonNotARealWord
//
// A dictionary error yields ReasonDictionaryUnavailable rather than
// ReasonNotARealWord. Nothing here mutates game state.

package game

import (
	"context"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MinWordLength is the shortest accepted word, in letters.
const MinWordLength = 3

// Dictionary is the recognition oracle. Implementations live in the
// dictionary package.
type Dictionary interface {
	IsRecognizedWord(ctx context.Context, word, languageTag string) (bool, error)
}

// Normalize lowercases s and strips surrounding whitespace.
func Normalize(s string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(s))
}

// Validate runs every check against candidate and returns the accepted word,
// or a *Rejection describing the first check that failed.
func Validate(ctx context.Context, candidate, rootWord string, usedWords []string, languageTag string, dict Dictionary) (Accepted, error) {
	word := Normalize(candidate)
	reject := func(reason Reason, cause error) (Accepted, error) {
		return Accepted{}, &Rejection{Reason: reason, Word: word, RootWord: rootWord, Cause: cause}
	}

	n := utf8.RuneCountInString(word)
	switch {
	case n < MinWordLength:
		return reject(ReasonTooShort, nil)
	case !IsOriginal(word, usedWords):
		return reject(ReasonAlreadyUsed, nil)
	case !IsNotRoot(word, rootWord):
		return reject(ReasonIsRootWord, nil)
	case !IsPossible(word, rootWord):
		return reject(ReasonNotConstructible, nil)
	}

	ok, err := IsReal(ctx, dict, word, languageTag)
	if err != nil {
		return reject(ReasonDictionaryUnavailable, err)
	}
	if !ok {
		return reject(ReasonNotARealWord, nil)
	}
	return Accepted{Word: word, Length: n}, nil
}

// IsOriginal reports whether word has not been used yet.
func IsOriginal(word string, usedWords []string) bool {
	return !slices.Contains(usedWords, word)
}

// IsNotRoot reports whether word differs from the root word.
func IsNotRoot(word, rootWord string) bool {
	return word != rootWord
}

// IsPossible reports whether word can be spelled from rootWord's letters,
// using each letter at most as many times as it occurs in rootWord.
// Letter order does not matter.
func IsPossible(word, rootWord string) bool {
	available := lo.CountValues([]rune(rootWord))
	for _, r := range word {
		if available[r] == 0 {
			return false
		}
		available[r]--
	}
	return true
}

// IsReal asks dict whether word is a recognised word of languageTag.
// A nil dictionary recognises nothing.
func IsReal(ctx context.Context, dict Dictionary, word, languageTag string) (bool, error) {
	if dict == nil {
		return false, nil
	}
	return dict.IsRecognizedWord(ctx, word, languageTag)
}
