package dictionary

import (
	"context"
	"fmt"
	"strings"

	wglconfig "github.com/domino14/word-golib/config"
	"github.com/domino14/word-golib/kwg"
	"github.com/domino14/word-golib/tilemapping"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
)

// KWG checks words against a word-golib KWG lexicon (e.g. NWL20, CSW21).
// KWG files are looked up under <dataPath>/lexica/.
type KWG struct {
	name string
	lang language.Base
	lex  kwg.Lexicon
	tm   *tilemapping.TileMapping
}

// KWGConfig names the lexicon and letter distribution to load.
type KWGConfig struct {
	DataPath     string // directory holding lexica/ and letterdistributions/
	Lexicon      string // e.g. "NWL20"
	Distribution string // e.g. "English"
	Language     string // BCP 47 tag the lexicon covers
}

// NewKWG loads the lexicon described by c.
func NewKWG(c KWGConfig) (*KWG, error) {
	b, err := Base(c.Language)
	if err != nil {
		return nil, err
	}
	cfg := &wglconfig.Config{DataPath: c.DataPath}
	dist, err := tilemapping.GetDistribution(cfg, c.Distribution)
	if err != nil {
		return nil, fmt.Errorf("dictionary: letter distribution %s: %w", c.Distribution, err)
	}
	k, err := kwg.Get(cfg, c.Lexicon)
	if err != nil {
		return nil, fmt.Errorf("dictionary: kwg %s: %w", c.Lexicon, err)
	}
	log.Info().Str("lexicon", c.Lexicon).Str("dataPath", c.DataPath).Msg("loaded kwg lexicon")
	return &KWG{name: c.Lexicon, lang: b, lex: kwg.Lexicon{KWG: *k}, tm: dist.TileMapping()}, nil
}

// IsRecognizedWord reports whether word is in the lexicon. Words with
// letters outside the distribution are not words.
func (d *KWG) IsRecognizedWord(_ context.Context, word, languageTag string) (bool, error) {
	if err := checkLanguage(languageTag, d.lang); err != nil {
		return false, err
	}
	mw, err := tilemapping.ToMachineWord(strings.ToUpper(word), d.tm)
	if err != nil {
		log.Debug().Err(err).Str("word", word).Msg("word has letters outside the distribution")
		return false, nil
	}
	return d.lex.HasWord(mw), nil
}

// Name returns the lexicon name.
func (d *KWG) Name() string { return d.name }
