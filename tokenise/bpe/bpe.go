// Package bpe wraps a tiktoken byte pair encoding as a tokeniser.
package bpe

import (
	tiktoken "github.com/pkoukk/tiktoken-go"

	"github.com/neurlang/intent/tokenise"
)

// DefaultEncoding is used when no encoding name is given
const DefaultEncoding = "cl100k_base"

// Tokeniser encodes text with a named tiktoken encoding
type Tokeniser struct {
	name string
	enc  *tiktoken.Tiktoken
}

// New loads the named encoding, errors from tiktoken are returned unmodified
func New(name string) (*Tokeniser, error) {
	if name == "" {
		name = DefaultEncoding
	}
	enc, err := tiktoken.GetEncoding(name)
	if err != nil {
		return nil, err
	}
	return &Tokeniser{name: name, enc: enc}, nil
}

// Name reports the encoding name
func (t *Tokeniser) Name() string {
	return t.name
}

// Encode ignores special token text, every token is attended
func (t *Tokeniser) Encode(text string) (tokenise.Encoding, error) {
	ids := t.enc.EncodeOrdinary(text)
	mask := make([]int, len(ids))
	for i := range mask {
		mask[i] = 1
	}
	return tokenise.Encoding{InputIDs: ids, AttentionMask: mask}, nil
}

// Decode returns the text of ids; no special tokens are ever added so there is nothing to skip
func (t *Tokeniser) Decode(ids []int, skipSpecialTokens bool) string {
	return t.enc.Decode(ids)
}

// SaveDir records the encoding name in a model directory
func (t *Tokeniser) SaveDir(dir string) error {
	return tokenise.WriteConfig(dir, tokenise.Config{Type: tokenise.TypeTiktoken, Name: t.name})
}
