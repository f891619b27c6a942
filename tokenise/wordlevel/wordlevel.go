package wordlevel

import (
	"os"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/neurlang/intent/tokenise"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// VocabFile holds the word to id map inside a model directory
const VocabFile = "vocab.json"

// Special tokens, always ids 0 to 3
const (
	PadToken = "[PAD]"
	UnkToken = "[UNK]"
	ClsToken = "[CLS]"
	SepToken = "[SEP]"
)

// Special token ids
const (
	PadID = iota
	UnkID
	ClsID
	SepID
	numSpecial
)

// Tokeniser maps whitespace separated words to ids
type Tokeniser struct {
	words []string
	vocab map[string]int
}

func empty() *Tokeniser {
	t := &Tokeniser{vocab: make(map[string]int)}
	for _, w := range []string{PadToken, UnkToken, ClsToken, SepToken} {
		t.add(w)
	}
	return t
}

func (t *Tokeniser) add(word string) {
	if _, ok := t.vocab[word]; ok {
		return
	}
	t.vocab[word] = len(t.words)
	t.words = append(t.words, word)
}

// Fit builds the vocabulary from texts, ids follow first occurrence
func Fit(texts []string) *Tokeniser {
	t := empty()
	for _, text := range texts {
		for _, w := range strings.Fields(text) {
			t.add(w)
		}
	}
	return t
}

// Len reports the vocabulary size including special tokens
func (t *Tokeniser) Len() int {
	return len(t.words)
}

// Encode wraps the word ids in [CLS] and [SEP], unknown words map to [UNK]
func (t *Tokeniser) Encode(text string) (tokenise.Encoding, error) {
	fields := strings.Fields(text)
	ids := make([]int, 0, len(fields)+2)
	ids = append(ids, ClsID)
	for _, w := range fields {
		id, ok := t.vocab[w]
		if !ok {
			id = UnkID
		}
		ids = append(ids, id)
	}
	ids = append(ids, SepID)

	mask := make([]int, len(ids))
	for i := range mask {
		mask[i] = 1
	}
	return tokenise.Encoding{InputIDs: ids, AttentionMask: mask}, nil
}

// Decode joins the words with single spaces. Skipping special tokens drops [UNK] as well.
func (t *Tokeniser) Decode(ids []int, skipSpecialTokens bool) string {
	var out []string
	for _, id := range ids {
		if id < 0 || id >= len(t.words) {
			id = UnkID
		}
		if skipSpecialTokens && id < numSpecial {
			continue
		}
		out = append(out, t.words[id])
	}
	return strings.Join(out, " ")
}

// Save writes the vocabulary as a json object of word to id
func (t *Tokeniser) Save(path string) error {
	buf, err := json.Marshal(t.vocab)
	if err != nil {
		return err
	}
	return errors.Wrapf(os.WriteFile(path, buf, 0644), "write %s", path)
}

// SaveDir writes the vocabulary and the tokeniser config into a model directory
func (t *Tokeniser) SaveDir(dir string) error {
	if err := t.Save(filepath.Join(dir, VocabFile)); err != nil {
		return err
	}
	return tokenise.WriteConfig(dir, tokenise.Config{Type: tokenise.TypeWordLevel})
}

// Load reads a vocabulary written by Save
func Load(path string) (*Tokeniser, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	var vocab map[string]int
	if err := json.Unmarshal(buf, &vocab); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	words := make([]string, len(vocab))
	for w, id := range vocab {
		if id < 0 || id >= len(words) || words[id] != "" {
			return nil, errors.Errorf("%s: bad id %d for %q", path, id, w)
		}
		words[id] = w
	}
	if len(words) < numSpecial || words[PadID] != PadToken || words[UnkID] != UnkToken ||
		words[ClsID] != ClsToken || words[SepID] != SepToken {
		return nil, errors.Errorf("%s: special tokens missing", path)
	}
	return &Tokeniser{words: words, vocab: vocab}, nil
}

// LoadDir reads the vocabulary of a model directory
func LoadDir(dir string) (*Tokeniser, error) {
	return Load(filepath.Join(dir, VocabFile))
}
