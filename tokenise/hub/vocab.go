package hub

import (
	"os"
	"strings"

	"github.com/pkg/errors"
)

// Vocabulary files of repositories without a tokenizer.json
const (
	ConfigFile = "tokenizer_config.json"
	VocabText  = "vocab.txt"
	VocabJSON  = "vocab.json"
	MergesFile = "merges.txt"
)

// specialToken is written either as a string or as an added token object
type specialToken string

func (t *specialToken) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = specialToken(s)
		return nil
	}
	var obj struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	*t = specialToken(obj.Content)
	return nil
}

func (t specialToken) or(fallback ...string) []string {
	if t != "" {
		return []string{string(t)}
	}
	return fallback
}

// tokenizerConfig holds the tokenizer_config.json keys the vocabulary files need
type tokenizerConfig struct {
	DoLowerCase    *bool        `json:"do_lower_case"`
	AddPrefixSpace bool         `json:"add_prefix_space"`
	ClsToken       specialToken `json:"cls_token"`
	SepToken       specialToken `json:"sep_token"`
	BosToken       specialToken `json:"bos_token"`
	EosToken       specialToken `json:"eos_token"`
	UnkToken       specialToken `json:"unk_token"`
	PadToken       specialToken `json:"pad_token"`
	MaskToken      specialToken `json:"mask_token"`
}

func readTokenizerConfig(path string) (tokenizerConfig, error) {
	var c tokenizerConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return c, errors.Wrapf(err, "reading %s", path)
	}
	if err = json.Unmarshal(data, &c); err != nil {
		return c, errors.Wrapf(err, "decoding %s", path)
	}
	return c, nil
}

// lower follows the BERT default of lowercasing unless the config says otherwise
func (c tokenizerConfig) lower() bool {
	return c.DoLowerCase == nil || *c.DoLowerCase
}

// specials registers the first known candidate of each group as a special added token
// and returns the chosen ids in group order, -1 when none is known
func (p *Pipeline) specials(groups ...[]string) []int {
	vocab := p.model.vocabulary()
	ids := make([]int, len(groups))
	for i, names := range groups {
		ids[i] = -1
		for _, name := range names {
			if id, ok := vocab[name]; ok {
				p.added = append(p.added, addedToken{ID: id, Content: name, Special: true})
				ids[i] = id
				break
			}
		}
	}
	p.index()
	return ids
}

// wordPieceVocab builds a BERT tokenizer from a vocab.txt with one token per line
func wordPieceVocab(path string, c tokenizerConfig) (*Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	vocab := make(map[string]int)
	for i, line := range strings.Split(strings.TrimRight(string(data), "\r\n"), "\n") {
		vocab[strings.TrimRight(line, "\r")] = i
	}
	unk := c.UnkToken.or("[UNK]")[0]
	p := &Pipeline{
		normalizer: bertNormalizer{CleanText: true, HandleChineseChars: true, Lowercase: c.lower()},
		pre:        bertPre{},
		model:      &wordPiece{Vocab: vocab, UnkToken: unk, Prefix: "##", MaxChars: 100},
		decoder:    wordPieceDecoder{Prefix: "##", Cleanup: true},
	}
	ids := p.specials(c.ClsToken.or("[CLS]"), c.SepToken.or("[SEP]"),
		[]string{unk}, c.PadToken.or("[PAD]"), c.MaskToken.or("[MASK]"))
	p.cls, p.sep = ids[0], ids[1]
	return p, nil
}

// byteLevelVocab builds a byte level BPE tokenizer from vocab.json and merges.txt
func byteLevelVocab(vocabPath, mergesPath string, c tokenizerConfig) (*Pipeline, error) {
	data, err := os.ReadFile(vocabPath)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", vocabPath)
	}
	m := &bpe{}
	if err = json.Unmarshal(data, &m.Vocab); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", vocabPath)
	}
	if data, err = os.ReadFile(mergesPath); err != nil {
		return nil, errors.Wrapf(err, "reading %s", mergesPath)
	}
	m.ranks = make(map[[2]string]int)
	rank := 0
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" || strings.HasPrefix(line, "#version") {
			continue
		}
		a, b, ok := strings.Cut(line, " ")
		if !ok {
			return nil, errors.Errorf("%s: %q is not a pair", mergesPath, line)
		}
		m.ranks[[2]string{a, b}] = rank
		rank++
	}
	unk := c.UnkToken.or("<unk>")[0]
	if _, ok := m.Vocab[unk]; ok {
		m.UnkToken = &unk
	}
	re, err := compileRegex(gpt2Pattern)
	if err != nil {
		return nil, err
	}
	p := &Pipeline{
		pre:     byteLevel{AddPrefixSpace: c.AddPrefixSpace, UseRegex: true, re: re},
		model:   m,
		decoder: byteLevelDecoder{},
	}
	ids := p.specials(c.ClsToken.or(string(c.BosToken), "<s>"), c.SepToken.or(string(c.EosToken), "</s>"),
		[]string{unk}, c.PadToken.or("<pad>"), c.MaskToken.or("<mask>"))
	p.cls, p.sep = ids[0], ids[1]
	return p, nil
}
