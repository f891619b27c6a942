package hub

import (
	"strconv"
	"strings"
	"unicode/utf8"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

// decoder rewrites token strings, the results are concatenated
type decoder interface {
	decode(tokens []string) []string
}

type decoders []decoder

func (ds decoders) decode(tokens []string) []string {
	for _, d := range ds {
		tokens = d.decode(tokens)
	}
	return tokens
}

// cleanup removes the spaces a word piece join leaves before punctuation and contractions
var cleanup = strings.NewReplacer(
	" .", ".",
	" ?", "?",
	" !", "!",
	" ,", ",",
	" ' ", "'",
	" n't", "n't",
	" 'm", "'m",
	" do not", " don't",
	" 's", "'s",
	" 've", "'ve",
	" 're", "'re",
)

type wordPieceDecoder struct {
	Prefix  string `json:"prefix"`
	Cleanup bool   `json:"cleanup"`
}

func (d wordPieceDecoder) decode(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		switch {
		case i == 0:
		case strings.HasPrefix(t, d.Prefix):
			t = strings.TrimPrefix(t, d.Prefix)
		default:
			t = " " + t
		}
		if d.Cleanup {
			t = cleanup.Replace(t)
		}
		out[i] = t
	}
	return out
}

type byteLevelDecoder struct{}

func (byteLevelDecoder) decode(tokens []string) []string {
	return []string{fromByteLevel(strings.Join(tokens, ""))}
}

type metaspaceDecoder struct {
	Replacement    string `json:"replacement"`
	AddPrefixSpace *bool  `json:"add_prefix_space"`
	PrependScheme  string `json:"prepend_scheme"`
}

func (d metaspaceDecoder) decode(tokens []string) []string {
	m := metaspace{Replacement: d.Replacement, AddPrefixSpace: d.AddPrefixSpace, PrependScheme: d.PrependScheme}
	out := make([]string, len(tokens))
	for i, t := range tokens {
		t = strings.ReplaceAll(t, d.Replacement, " ")
		if i == 0 && m.scheme() != "never" {
			t = strings.TrimPrefix(t, " ")
		}
		out[i] = t
	}
	return out
}

type bpeDecoder struct {
	Suffix string `json:"suffix"`
}

func (d bpeDecoder) decode(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		sep := " "
		if i == len(tokens)-1 {
			sep = ""
		}
		out[i] = strings.ReplaceAll(t, d.Suffix, sep)
	}
	return out
}

type replaceDecoder struct {
	m       matcher
	content string
}

func (d replaceDecoder) decode(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = replaceAll(t, d.m, d.content)
	}
	return out
}

type stripDecoder struct {
	Content string `json:"content"`
	Start   int    `json:"start"`
	Stop    int    `json:"stop"`
}

func (d stripDecoder) decode(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		for n := 0; n < d.Start && strings.HasPrefix(t, d.Content); n++ {
			t = strings.TrimPrefix(t, d.Content)
		}
		for n := 0; n < d.Stop && strings.HasSuffix(t, d.Content); n++ {
			t = strings.TrimSuffix(t, d.Content)
		}
		out[i] = t
	}
	return out
}

type fuse struct{}

func (fuse) decode(tokens []string) []string {
	return []string{strings.Join(tokens, "")}
}

// byteFallbackDecoder turns runs of <0xXX> tokens back into text
type byteFallbackDecoder struct{}

func (byteFallbackDecoder) decode(tokens []string) []string {
	var out []string
	var pending []byte
	var count int
	flush := func() {
		if count == 0 {
			return
		}
		if utf8.Valid(pending) {
			out = append(out, string(pending))
		} else {
			for i := 0; i < count; i++ {
				out = append(out, string(utf8.RuneError))
			}
		}
		pending, count = pending[:0], 0
	}
	for _, t := range tokens {
		if len(t) == 6 && strings.HasPrefix(t, "<0x") && strings.HasSuffix(t, ">") {
			if b, err := strconv.ParseUint(t[3:5], 16, 8); err == nil {
				pending = append(pending, byte(b))
				count++
				continue
			}
		}
		flush()
		out = append(out, t)
	}
	flush()
	return out
}

func parseDecoder(raw jsoniter.RawMessage) (decoder, error) {
	if isNull(raw) {
		return nil, nil
	}
	var t typed
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, errors.Wrap(err, "decoder")
	}
	switch t.Type {
	case "Sequence":
		var seq struct {
			Decoders []jsoniter.RawMessage `json:"decoders"`
		}
		if err := json.Unmarshal(raw, &seq); err != nil {
			return nil, errors.Wrap(err, "decoder")
		}
		var ds decoders
		for _, r := range seq.Decoders {
			d, err := parseDecoder(r)
			if err != nil {
				return nil, err
			}
			if d != nil {
				ds = append(ds, d)
			}
		}
		return ds, nil
	case "WordPiece":
		return decodeAs(raw, "decoder", wordPieceDecoder{Prefix: "##", Cleanup: true})
	case "ByteLevel":
		return byteLevelDecoder{}, nil
	case "Metaspace":
		return decodeAs(raw, "decoder", metaspaceDecoder{Replacement: "▁"})
	case "BPEDecoder":
		return decodeAs(raw, "decoder", bpeDecoder{Suffix: "</w>"})
	case "Strip":
		return decodeAs(raw, "decoder", stripDecoder{})
	case "Fuse":
		return fuse{}, nil
	case "ByteFallback":
		return byteFallbackDecoder{}, nil
	case "Replace":
		var r struct {
			Pattern pattern `json:"pattern"`
			Content string  `json:"content"`
		}
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, errors.Wrap(err, "decoder")
		}
		m, err := r.Pattern.matcher()
		if err != nil {
			return nil, err
		}
		return replaceDecoder{m: m, content: r.Content}, nil
	}
	return nil, errors.Wrapf(ErrUnsupported, "decoder %q", t.Type)
}
