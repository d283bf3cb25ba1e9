package dictionary

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Options selects and configures a backend for Open.
type Options struct {
	Backend  string // lexicon | sqlite | kwg | remote
	Language string // BCP 47 tag the dictionary serves

	File string  // word list for lexicon, and seed list for sqlite
	DB   *sql.DB // sqlite only

	URL      string // remote only
	Timeout  time.Duration
	Attempts uint

	KWG KWGConfig // kwg only

	CacheSize int // verdict cache for slow backends; <0 disables
}

// Open builds the configured Provider. Slow backends (remote, sqlite) are
// wrapped in Cached unless CacheSize < 0.
func Open(ctx context.Context, o Options) (Provider, error) {
	var (
		p    Provider
		slow bool
	)
	switch o.Backend {
	case "", "lexicon":
		lex, err := LoadLexicon(o.Language, o.File)
		if err != nil {
			return nil, err
		}
		if o.File == "" {
			log.Warn().Int("words", lex.Len()).
				Msg("using the bundled sample lexicon; set DICTIONARY_FILE to a full word list or DICTIONARY=remote")
		}
		p = lex
	case "sqlite":
		if o.DB == nil {
			return nil, errors.New("dictionary: sqlite backend needs a database")
		}
		sq := NewSQLite(o.DB)
		if err := sq.SeedIfEmpty(ctx, o.Language, o.File); err != nil {
			return nil, err
		}
		p, slow = sq, true
	case "kwg":
		kc := o.KWG
		if kc.Language == "" {
			kc.Language = o.Language
		}
		k, err := NewKWG(kc)
		if err != nil {
			return nil, err
		}
		p = k
	case "remote":
		p, slow = NewRemote(o.URL, o.Timeout, o.Attempts), true
	default:
		return nil, fmt.Errorf("dictionary: unknown backend %q", o.Backend)
	}
	if slow && o.CacheSize >= 0 {
		p = NewCached(p, o.CacheSize)
	}
	return p, nil
}
