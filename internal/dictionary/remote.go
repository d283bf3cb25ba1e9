package dictionary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordscramble/internal/game"
)

// DefaultRemoteURL is the free dictionary API.
const DefaultRemoteURL = "https://api.dictionaryapi.dev/api/v2/entries"

// Remote asks an HTTP dictionary service about words:
//
//	GET {BaseURL}/{language}/{word}
//
// 200 means the word exists, 404 that it does not. Anything else is an
// error and is retried.
type Remote struct {
	BaseURL  string
	Client   *http.Client
	Timeout  time.Duration // per attempt
	Attempts uint
	Delay    time.Duration // initial backoff
}

// NewRemote returns a Remote with sensible defaults for zero values.
func NewRemote(baseURL string, timeout time.Duration, attempts uint) *Remote {
	if baseURL == "" {
		baseURL = DefaultRemoteURL
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if attempts == 0 {
		attempts = 1
	}
	return &Remote{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Client:   &http.Client{},
		Timeout:  timeout,
		Attempts: attempts,
		Delay:    200 * time.Millisecond,
	}
}

// errUnexpectedStatus marks a response that is neither found nor not-found.
var errUnexpectedStatus = errors.New("dictionary: unexpected status")

// IsRecognizedWord queries the service, retrying transient failures.
func (r *Remote) IsRecognizedWord(ctx context.Context, word, languageTag string) (bool, error) {
	b, err := Base(languageTag)
	if err != nil {
		return false, err
	}
	endpoint := fmt.Sprintf("%s/%s/%s", r.BaseURL, url.PathEscape(b.String()), url.PathEscape(game.Normalize(word)))

	return retry.DoWithData(
		func() (bool, error) { return r.lookup(ctx, endpoint) },
		retry.Context(ctx),
		retry.Attempts(r.Attempts),
		retry.Delay(r.Delay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Debug().Err(err).Uint("attempt", n+1).Str("word", word).Msg("retrying dictionary lookup")
		}),
	)
}

func (r *Remote) lookup(ctx context.Context, endpoint string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, retry.Unrecoverable(err)
	}
	req.Header.Set("Accept", "application/json")

	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode == http.StatusOK:
		return true, nil
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests:
		return false, retry.Unrecoverable(fmt.Errorf("%w: %d", errUnexpectedStatus, resp.StatusCode))
	}
	return false, fmt.Errorf("%w: %d", errUnexpectedStatus, resp.StatusCode)
}
