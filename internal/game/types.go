// internal/game/types.go
//
// Core type definitions for the word scramble engine.
// Defines:
//   - State: the serialisable state of a single game.
//   - Reason: why a candidate word was rejected, and its display text.
//   - Outcome: what a submission did (accepted or rejected).

package game

import (
	"fmt"
	"time"
)

// Mode selects how the root word of a game is chosen.
type Mode string

const (
	ModeClassic Mode = "classic" // random root word
	ModeDaily   Mode = "daily"   // same root word for everyone on a given date
)

// State holds everything about one game. Controller operations never mutate
// a State in place; they return a new value.
type State struct {
	ID        string    `json:"id"`             // Game identifier (UUID).
	Mode      Mode      `json:"mode"`           // classic | daily
	Date      string    `json:"date,omitempty"` // YYYY-MM-DD for daily games.
	RootWord  string    `json:"rootWord"`       // Lowercase, fixed until reset.
	UsedWords []string  `json:"usedWords"`      // Accepted words, most recent first.
	Score     int       `json:"score"`          // Sum of len(UsedWords[i]).
	Language  string    `json:"language"`       // BCP 47 tag passed to the dictionary.
	StartedAt time.Time `json:"startedAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Clone returns a deep copy of s.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	c := *s
	c.UsedWords = append(make([]string, 0, len(s.UsedWords)), s.UsedWords...)
	return &c
}

// Reason enumerates the ways a candidate can be rejected.
type Reason string

const (
	ReasonTooShort              Reason = "too_short"
	ReasonAlreadyUsed           Reason = "already_used"
	ReasonIsRootWord            Reason = "is_root_word"
	ReasonNotConstructible      Reason = "not_constructible"
	ReasonNotARealWord          Reason = "not_a_real_word"
	ReasonDictionaryUnavailable Reason = "dictionary_unavailable"
)

// Rejection is returned by Validate when a candidate fails a check.
// Cause is set only for ReasonDictionaryUnavailable.
type Rejection struct {
	Reason   Reason
	Word     string // normalised candidate
	RootWord string
	Cause    error
}

func (r *Rejection) Error() string {
	if r.Cause != nil {
		return fmt.Sprintf("%s: %q: %v", r.Reason, r.Word, r.Cause)
	}
	return fmt.Sprintf("%s: %q", r.Reason, r.Word)
}

func (r *Rejection) Unwrap() error { return r.Cause }

// Title and Message are the user-facing text for the rejection.
func (r *Rejection) Title() string {
	title, _ := r.Reason.Text(r.RootWord)
	return title
}

func (r *Rejection) Message() string {
	_, msg := r.Reason.Text(r.RootWord)
	return msg
}

// Text returns the (title, message) pair shown to a player for reason.
// rootWord is only used by ReasonNotConstructible.
func (reason Reason) Text(rootWord string) (title, message string) {
	switch reason {
	case ReasonTooShort:
		return "Short word", "The word must have at least 3 letters"
	case ReasonAlreadyUsed:
		return "Word used already", "Be more original"
	case ReasonIsRootWord:
		return "Word root", "You can't use the root word"
	case ReasonNotConstructible:
		return "Word not possible", fmt.Sprintf("You can't spell that word from '%s'!", rootWord)
	case ReasonNotARealWord:
		return "Word not recognized", "You can't just make them up, you know!"
	case ReasonDictionaryUnavailable:
		return "Dictionary unavailable", "Couldn't check that word right now, try again"
	}
	return "Word rejected", string(reason)
}

// Accepted is the result of a candidate passing every check.
type Accepted struct {
	Word   string `json:"word"`
	Length int    `json:"length"`
}

// OutcomeStatus is the coarse result of a submission.
type OutcomeStatus string

const (
	OutcomeAccepted OutcomeStatus = "accepted"
	OutcomeRejected OutcomeStatus = "rejected"
)

// Outcome describes what a submission did. For rejections Reason, Title and
// Message are set; for acceptances Word and Points are.
type Outcome struct {
	Status  OutcomeStatus `json:"status"`
	Word    string        `json:"word"`
	Points  int           `json:"points,omitempty"`
	Reason  Reason        `json:"reason,omitempty"`
	Title   string        `json:"title,omitempty"`
	Message string        `json:"message,omitempty"`
}

// Accepted reports whether the submission was accepted.
func (o Outcome) Accepted() bool { return o.Status == OutcomeAccepted }

func acceptedOutcome(a Accepted) Outcome {
	return Outcome{Status: OutcomeAccepted, Word: a.Word, Points: a.Length}
}

func rejectedOutcome(r *Rejection) Outcome {
	return Outcome{
		Status:  OutcomeRejected,
		Word:    r.Word,
		Reason:  r.Reason,
		Title:   r.Title(),
		Message: r.Message(),
	}
}
