package hub

import (
	"strings"
	"unicode"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

// preTokenizer cuts normalised text into words, the model never sees across a word boundary
type preTokenizer interface {
	split(words []string) []string
}

type preTokenizers []preTokenizer

func (ps preTokenizers) split(words []string) []string {
	for _, p := range ps {
		words = p.split(words)
	}
	return words
}

// each applies fn to every word and joins the results
func each(words []string, fn func(w []rune) []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		out = append(out, fn([]rune(w))...)
	}
	return out
}

// runSpans returns one span per rune satisfying pred, or one per run of them
func runSpans(s []rune, pred func(rune) bool, runs bool) (spans [][2]int) {
	for i := 0; i < len(s); i++ {
		if !pred(s[i]) {
			continue
		}
		j := i + 1
		if runs {
			for j < len(s) && pred(s[j]) {
				j++
			}
		}
		spans = append(spans, [2]int{i, j})
		i = j - 1
	}
	return spans
}

func isPunctuation(r rune) bool {
	if (r >= 33 && r <= 47) || (r >= 58 && r <= 64) || (r >= 91 && r <= 96) || (r >= 123 && r <= 126) {
		return true
	}
	return unicode.IsPunct(r)
}

type bertPre struct{}

func (bertPre) split(words []string) []string {
	return each(words, func(w []rune) []string {
		var out []string
		for _, part := range splitRunes(w, runSpans(w, unicode.IsSpace, true), Removed) {
			r := []rune(part)
			out = append(out, splitRunes(r, runSpans(r, isPunctuation, false), Isolated)...)
		}
		return out
	})
}

type whitespace struct {
	re regex
}

func (p whitespace) split(words []string) []string {
	return each(words, func(w []rune) []string {
		return splitRunes(w, invert(len(w), p.re.find(w)), Removed)
	})
}

type whitespaceSplit struct{}

func (whitespaceSplit) split(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		out = append(out, strings.Fields(w)...)
	}
	return out
}

type punctuation struct {
	Behavior string `json:"behavior"`
}

func (p punctuation) split(words []string) []string {
	return each(words, func(w []rune) []string {
		return splitRunes(w, runSpans(w, isPunctuation, false), p.Behavior)
	})
}

type digits struct {
	IndividualDigits bool `json:"individual_digits"`
}

func (p digits) split(words []string) []string {
	return each(words, func(w []rune) []string {
		return splitRunes(w, runSpans(w, unicode.IsDigit, !p.IndividualDigits), Isolated)
	})
}

type charDelimiter struct {
	Delimiter string `json:"delimiter"`
}

func (p charDelimiter) split(words []string) []string {
	d := []rune(p.Delimiter)
	return each(words, func(w []rune) []string {
		return splitRunes(w, literal(d).find(w), Removed)
	})
}

type byteLevel struct {
	AddPrefixSpace bool `json:"add_prefix_space"`
	UseRegex       bool `json:"use_regex"`
	re             regex
}

func (p byteLevel) split(words []string) []string {
	return each(words, func(w []rune) []string {
		if p.AddPrefixSpace && len(w) > 0 && w[0] != ' ' {
			w = append([]rune{' '}, w...)
		}
		parts := []string{string(w)}
		if p.UseRegex {
			parts = splitRunes(w, p.re.find(w), Isolated)
		}
		for i := range parts {
			parts[i] = toByteLevel(parts[i])
		}
		return parts
	})
}

// metaspace replaces spaces with a visible marker that starts each word
type metaspace struct {
	Replacement    string `json:"replacement"`
	AddPrefixSpace *bool  `json:"add_prefix_space"`
	PrependScheme  string `json:"prepend_scheme"`
	Split          bool   `json:"split"`
}

func (p metaspace) scheme() string {
	if p.PrependScheme != "" {
		return p.PrependScheme
	}
	if p.AddPrefixSpace != nil && !*p.AddPrefixSpace {
		return "never"
	}
	return "always"
}

func (p metaspace) split(words []string) []string {
	marker := []rune(p.Replacement)
	scheme := p.scheme()
	out := make([]string, 0, len(words))
	for i, w := range words {
		w = strings.ReplaceAll(w, " ", p.Replacement)
		if scheme == "always" || (scheme == "first" && i == 0) {
			if !strings.HasPrefix(w, p.Replacement) {
				w = p.Replacement + w
			}
		}
		if !p.Split {
			out = append(out, w)
			continue
		}
		r := []rune(w)
		out = append(out, splitRunes(r, literal(marker).find(r), MergedWithNext)...)
	}
	return out
}

type splitPre struct {
	m        matcher
	behavior string
	invert   bool
}

func (p splitPre) split(words []string) []string {
	return each(words, func(w []rune) []string {
		spans := p.m.find(w)
		if p.invert {
			spans = invert(len(w), spans)
		}
		return splitRunes(w, spans, p.behavior)
	})
}

func parsePreTokenizer(raw jsoniter.RawMessage) (preTokenizer, error) {
	if isNull(raw) {
		return nil, nil
	}
	var t typed
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, errors.Wrap(err, "pre_tokenizer")
	}
	switch t.Type {
	case "Sequence":
		var seq struct {
			PreTokenizers []jsoniter.RawMessage `json:"pretokenizers"`
		}
		if err := json.Unmarshal(raw, &seq); err != nil {
			return nil, errors.Wrap(err, "pre_tokenizer")
		}
		var ps preTokenizers
		for _, r := range seq.PreTokenizers {
			p, err := parsePreTokenizer(r)
			if err != nil {
				return nil, err
			}
			if p != nil {
				ps = append(ps, p)
			}
		}
		return ps, nil
	case "BertPreTokenizer":
		return bertPre{}, nil
	case "Whitespace":
		re, err := compileRegex(`\w+|[^\w\s]+`)
		return whitespace{re: re}, err
	case "WhitespaceSplit":
		return whitespaceSplit{}, nil
	case "Punctuation":
		return decodeAs(raw, "pre_tokenizer", punctuation{Behavior: Isolated})
	case "Digits":
		return decodeAs(raw, "pre_tokenizer", digits{})
	case "CharDelimiterSplit":
		return decodeAs(raw, "pre_tokenizer", charDelimiter{})
	case "ByteLevel":
		p, err := decodeAs(raw, "pre_tokenizer", byteLevel{UseRegex: true})
		if err != nil {
			return nil, err
		}
		p.re, err = compileRegex(gpt2Pattern)
		return p, err
	case "Metaspace":
		return decodeAs(raw, "pre_tokenizer", metaspace{Replacement: "▁", Split: true})
	case "Split":
		var s struct {
			Pattern  pattern `json:"pattern"`
			Behavior string  `json:"behavior"`
			Invert   bool    `json:"invert"`
		}
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, errors.Wrap(err, "pre_tokenizer")
		}
		m, err := s.Pattern.matcher()
		if err != nil {
			return nil, err
		}
		return splitPre{m: m, behavior: s.Behavior, invert: s.Invert}, nil
	}
	return nil, errors.Wrapf(ErrUnsupported, "pre_tokenizer %q", t.Type)
}
