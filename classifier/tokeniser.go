package classifier

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/neurlang/intent/datasets"
	"github.com/neurlang/intent/net/linear"
	"github.com/neurlang/intent/tokenise"
	"github.com/neurlang/intent/tokenise/bpe"
	"github.com/neurlang/intent/tokenise/hub"
	"github.com/neurlang/intent/tokenise/wordlevel"
)

// ErrUnknownTokeniser is returned for a saved model with an unsupported tokeniser type
var ErrUnknownTokeniser = errors.New("unknown tokeniser")

// isSavedModel reports whether path is a model directory written by the trainer
func isSavedModel(path string) bool {
	info, err := os.Stat(filepath.Join(path, linear.ConfigFile))
	return err == nil && !info.IsDir()
}

// newTokeniser creates the tokeniser of a model id. A word level vocabulary is fitted
// on the training split.
func newTokeniser(id string, train *datasets.Dataset, opts Options) (tokenise.Tokeniser, error) {
	switch {
	case id == WordLevel:
		if train == nil {
			return nil, errors.Errorf("%s tokeniser needs a %s split", WordLevel, datasets.Train)
		}
		texts := train.Text
		if opts.Uncased {
			lower := cases.Lower(language.Und)
			texts = make([]string, len(train.Text))
			for i, text := range train.Text {
				texts[i] = lower.String(text)
			}
		}
		return wordlevel.Fit(texts), nil
	case strings.HasPrefix(id, TiktokenPrefix):
		return bpe.New(strings.TrimPrefix(id, TiktokenPrefix))
	}
	return hub.New(id, opts.CacheDir, opts.HubToken)
}

// loadTokeniser reloads the tokeniser stored in a model directory
func loadTokeniser(dir string, opts Options) (tokenise.Tokeniser, error) {
	c, err := tokenise.ReadConfig(dir)
	if err != nil {
		return nil, err
	}
	switch c.Type {
	case tokenise.TypeWordLevel:
		return wordlevel.LoadDir(dir)
	case tokenise.TypeTiktoken:
		return bpe.New(c.Name)
	case tokenise.TypeHub:
		return hub.New(c.Name, opts.CacheDir, opts.HubToken)
	}
	return nil, errors.Wrapf(ErrUnknownTokeniser, "%s: %q", dir, c.Type)
}
