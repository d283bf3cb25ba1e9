// internal/game/engine.go
//
// Game state controller for word scramble.
// Responsibilities:
//   - Start games by picking a root word (random, or per-day for daily mode).
//   - Apply submissions: run Validate, then grow the used-word list and score.
//   - Reset games, discarding history and re-rolling the root word.
//
// Notes:
//   - States are treated as values; every operation returns a fresh *State.
//   - Root-word choice goes through an injectable Rand so tests are deterministic.
//   - A missing word source is fatal (ErrNoWordSource); an empty one degrades
//     to DefaultRootWord.

package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/robalobadob/wordscramble/internal/daily"
)

const (
	// DefaultRootWord is used when the word source has no words.
	DefaultRootWord = "silkworm"
	// DefaultLanguage is the dictionary language of new games.
	DefaultLanguage = "en"
)

// ErrNoWordSource is returned when a controller has no word source at all.
var ErrNoWordSource = errors.New("game: no word source configured")

// WordSource supplies the candidate root words.
type WordSource interface {
	Words() []string
}

// Rand picks an index in [0, n).
type Rand interface {
	Intn(n int) int
}

// CryptoRand is the default Rand, backed by frand.
type CryptoRand struct{}

func (CryptoRand) Intn(n int) int { return frand.Intn(n) }

// Controller runs games against a word source and a dictionary.
// It holds no per-game state and is safe for concurrent use.
type Controller struct {
	words     WordSource
	dict      Dictionary
	rng       Rand
	now       func() time.Time
	language  string
	dailySalt string
}

// Option configures a Controller.
type Option func(*Controller)

// WithRand sets the random source used to pick root words.
func WithRand(r Rand) Option { return func(c *Controller) { c.rng = r } }

// WithClock sets the clock used for timestamps and daily dates.
func WithClock(now func() time.Time) Option { return func(c *Controller) { c.now = now } }

// WithLanguage sets the language tag handed to the dictionary.
func WithLanguage(tag string) Option { return func(c *Controller) { c.language = tag } }

// WithDailySalt sets the secret mixed into the daily word index.
func WithDailySalt(salt string) Option { return func(c *Controller) { c.dailySalt = salt } }

// NewController constructs a Controller.
func NewController(words WordSource, dict Dictionary, opts ...Option) *Controller {
	c := &Controller{
		words:    words,
		dict:     dict,
		rng:      CryptoRand{},
		now:      time.Now,
		language: DefaultLanguage,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Start begins a classic game with a random root word.
func (c *Controller) Start(ctx context.Context) (*State, error) {
	list, err := c.wordList(ctx)
	if err != nil {
		return nil, err
	}
	root := DefaultRootWord
	if len(list) > 0 {
		root = list[c.rng.Intn(len(list))]
	}
	return c.newState(ModeClassic, "", root), nil
}

// StartDaily begins a game whose root word is shared by everyone on date.
func (c *Controller) StartDaily(ctx context.Context, date time.Time) (*State, error) {
	list, err := c.wordList(ctx)
	if err != nil {
		return nil, err
	}
	root := DefaultRootWord
	if len(list) > 0 {
		root = list[daily.WordIndex(date, c.dailySalt, len(list))]
	}
	return c.newState(ModeDaily, daily.DateKey(date), root), nil
}

// Submit validates candidate against s and applies the verdict.
//
// On acceptance the returned state has the word prepended to UsedWords and
// its length added to Score. On rejection the returned state equals s.
// s itself is never modified. The error is non-nil only if ctx is done.
func (c *Controller) Submit(ctx context.Context, s *State, candidate string) (*State, Outcome, error) {
	if s == nil {
		return nil, Outcome{}, errors.New("game: submit to a game that was not started")
	}
	if err := ctx.Err(); err != nil {
		return s, Outcome{}, err
	}

	accepted, err := Validate(ctx, candidate, s.RootWord, s.UsedWords, s.Language, c.dict)
	if err != nil {
		var rej *Rejection
		if !errors.As(err, &rej) {
			return s, Outcome{}, err
		}
		if rej.Cause != nil && ctx.Err() != nil {
			return s, Outcome{}, ctx.Err()
		}
		if rej.Reason == ReasonDictionaryUnavailable {
			log.Warn().Err(rej.Cause).Str("gameId", s.ID).Str("word", rej.Word).Msg("dictionary lookup failed")
		}
		return s, rejectedOutcome(rej), nil
	}

	next := s.Clone()
	next.UsedWords = append([]string{accepted.Word}, next.UsedWords...)
	next.Score += accepted.Length
	next.UpdatedAt = c.now().UTC()
	return next, acceptedOutcome(accepted), nil
}

// Reset discards s's history and re-rolls its root word. The game keeps its
// ID and mode; a daily game gets the same day's word again.
func (c *Controller) Reset(ctx context.Context, s *State) (*State, error) {
	var (
		next *State
		err  error
	)
	if s != nil && s.Mode == ModeDaily {
		date, perr := time.Parse(time.DateOnly, s.Date)
		if perr != nil {
			return nil, fmt.Errorf("game: daily game has bad date %q: %w", s.Date, perr)
		}
		next, err = c.StartDaily(ctx, date)
	} else {
		next, err = c.Start(ctx)
	}
	if err != nil {
		return nil, err
	}
	if s != nil {
		next.ID = s.ID
		if s.Language != "" {
			next.Language = s.Language
		}
	}
	return next, nil
}

// wordList returns the root word candidates, checking ctx and the source.
func (c *Controller) wordList(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.words == nil {
		return nil, ErrNoWordSource
	}
	list := c.words.Words()
	if len(list) == 0 {
		log.Warn().Str("fallback", DefaultRootWord).Msg("word source is empty, using default root word")
	}
	return list, nil
}

func (c *Controller) newState(mode Mode, date, root string) *State {
	now := c.now().UTC()
	return &State{
		ID:        uuid.NewString(),
		Mode:      mode,
		Date:      date,
		RootWord:  root,
		UsedWords: []string{},
		Score:     0,
		Language:  c.language,
		StartedAt: now,
		UpdatedAt: now,
	}
}
