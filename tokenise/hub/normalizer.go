package hub

import (
	"strings"
	"unicode"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"golang.org/x/text/unicode/norm"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type normalizer interface {
	normalize(s string) string
}

type typed struct {
	Type string `json:"type"`
}

type normalizers []normalizer

func (ns normalizers) normalize(s string) string {
	for _, n := range ns {
		s = n.normalize(s)
	}
	return s
}

type normalForm struct {
	form norm.Form
}

func (n normalForm) normalize(s string) string {
	return n.form.String(s)
}

type lowercase struct{}

func (lowercase) normalize(s string) string {
	return strings.ToLower(s)
}

type stripAccents struct{}

func (stripAccents) normalize(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Mn, r) {
			return -1
		}
		return r
	}, s)
}

type strip struct {
	Left  bool `json:"strip_left"`
	Right bool `json:"strip_right"`
}

func (n strip) normalize(s string) string {
	if n.Left {
		s = strings.TrimLeftFunc(s, unicode.IsSpace)
	}
	if n.Right {
		s = strings.TrimRightFunc(s, unicode.IsSpace)
	}
	return s
}

type prepend struct {
	Prepend string `json:"prepend"`
}

func (n prepend) normalize(s string) string {
	if s == "" {
		return s
	}
	return n.Prepend + s
}

type replace struct {
	m       matcher
	content string
}

func (n replace) normalize(s string) string {
	return replaceAll(s, n.m, n.content)
}

func replaceAll(s string, m matcher, content string) string {
	runes := []rune(s)
	spans := m.find(runes)
	if len(spans) == 0 {
		return s
	}
	var b strings.Builder
	prev := 0
	for _, sp := range spans {
		b.WriteString(string(runes[prev:sp[0]]))
		b.WriteString(content)
		prev = sp[1]
	}
	b.WriteString(string(runes[prev:]))
	return b.String()
}

// bertNormalizer cleans control characters, spaces out CJK ideographs and
// optionally strips accents and lowercases
type bertNormalizer struct {
	CleanText          bool  `json:"clean_text"`
	HandleChineseChars bool  `json:"handle_chinese_chars"`
	StripAccents       *bool `json:"strip_accents"`
	Lowercase          bool  `json:"lowercase"`
}

func (n bertNormalizer) normalize(s string) string {
	var b strings.Builder
	for _, r := range s {
		if n.CleanText {
			if r == 0 || r == unicode.ReplacementChar || isControl(r) {
				continue
			}
			if isWhitespace(r) {
				r = ' '
			}
		}
		if n.HandleChineseChars && isChinese(r) {
			b.WriteByte(' ')
			b.WriteRune(r)
			b.WriteByte(' ')
			continue
		}
		b.WriteRune(r)
	}
	s = b.String()
	accents := n.Lowercase
	if n.StripAccents != nil {
		accents = *n.StripAccents
	}
	if accents {
		s = stripAccents{}.normalize(norm.NFD.String(s))
	}
	if n.Lowercase {
		s = strings.ToLower(s)
	}
	return s
}

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return unicode.Is(unicode.Zs, r)
}

func isControl(r rune) bool {
	switch r {
	case '\t', '\n', '\r':
		return false
	}
	return unicode.In(r, unicode.Cc, unicode.Cf, unicode.Co, unicode.Cs)
}

func isChinese(r rune) bool {
	return (r >= 0x4E00 && r <= 0x9FFF) ||
		(r >= 0x3400 && r <= 0x4DBF) ||
		(r >= 0x20000 && r <= 0x2A6DF) ||
		(r >= 0x2A700 && r <= 0x2B73F) ||
		(r >= 0x2B740 && r <= 0x2B81F) ||
		(r >= 0x2B820 && r <= 0x2CEAF) ||
		(r >= 0xF900 && r <= 0xFAFF) ||
		(r >= 0x2F800 && r <= 0x2FA1F)
}

func parseNormalizer(raw jsoniter.RawMessage) (normalizer, error) {
	if isNull(raw) {
		return nil, nil
	}
	var t typed
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, errors.Wrap(err, "normalizer")
	}
	switch t.Type {
	case "Sequence":
		var seq struct {
			Normalizers []jsoniter.RawMessage `json:"normalizers"`
		}
		if err := json.Unmarshal(raw, &seq); err != nil {
			return nil, errors.Wrap(err, "normalizer")
		}
		var ns normalizers
		for _, r := range seq.Normalizers {
			n, err := parseNormalizer(r)
			if err != nil {
				return nil, err
			}
			if n != nil {
				ns = append(ns, n)
			}
		}
		return ns, nil
	case "BertNormalizer":
		return decodeAs(raw, "normalizer", bertNormalizer{CleanText: true, HandleChineseChars: true, Lowercase: true})
	case "Lowercase":
		return lowercase{}, nil
	case "StripAccents":
		return stripAccents{}, nil
	case "NFC":
		return normalForm{norm.NFC}, nil
	case "NFD":
		return normalForm{norm.NFD}, nil
	case "NFKC", "Precompiled":
		// the precompiled sentencepiece charsmap is close to NFKC
		return normalForm{norm.NFKC}, nil
	case "NFKD":
		return normalForm{norm.NFKD}, nil
	case "Strip":
		return decodeAs(raw, "normalizer", strip{})
	case "Prepend":
		return decodeAs(raw, "normalizer", prepend{})
	case "Replace":
		var r struct {
			Pattern pattern `json:"pattern"`
			Content string  `json:"content"`
		}
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, errors.Wrap(err, "normalizer")
		}
		m, err := r.Pattern.matcher()
		if err != nil {
			return nil, err
		}
		return replace{m: m, content: r.Content}, nil
	}
	return nil, errors.Wrapf(ErrUnsupported, "normalizer %q", t.Type)
}

// decodeAs fills v, which carries the defaults, from raw
func decodeAs[T any](raw jsoniter.RawMessage, what string, v T) (T, error) {
	err := json.Unmarshal(raw, &v)
	return v, errors.Wrap(err, what)
}

func isNull(raw jsoniter.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null"
}
