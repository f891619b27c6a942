package hub

import (
	"github.com/dlclark/regexp2"
	"github.com/pkg/errors"
)

// Split behaviours of tokenizer.json
const (
	Removed            = "Removed"
	Isolated           = "Isolated"
	MergedWithPrevious = "MergedWithPrevious"
	MergedWithNext     = "MergedWithNext"
	Contiguous         = "Contiguous"
)

// pattern is a literal or a regular expression, as found in tokenizer.json
type pattern struct {
	String *string `json:"String"`
	Regex  *string `json:"Regex"`
}

// matcher finds the rune spans of a pattern
type matcher interface {
	find(s []rune) [][2]int
}

type literal []rune

func (l literal) find(s []rune) (spans [][2]int) {
	if len(l) == 0 {
		return nil
	}
	for i := 0; i+len(l) <= len(s); {
		if equalRunes(s[i:i+len(l)], l) {
			spans = append(spans, [2]int{i, i + len(l)})
			i += len(l)
			continue
		}
		i++
	}
	return spans
}

type regex struct {
	re *regexp2.Regexp
}

func (r regex) find(s []rune) (spans [][2]int) {
	m, _ := r.re.FindRunesMatch(s)
	for m != nil {
		if m.Length > 0 {
			spans = append(spans, [2]int{m.Index, m.Index + m.Length})
		}
		m, _ = r.re.FindNextMatch(m)
	}
	return spans
}

func compileRegex(expr string) (regex, error) {
	re, err := regexp2.Compile(expr, regexp2.None)
	if err != nil {
		return regex{}, errors.Wrapf(err, "pattern %q", expr)
	}
	return regex{re: re}, nil
}

func (p pattern) matcher() (matcher, error) {
	switch {
	case p.String != nil:
		return literal(*p.String), nil
	case p.Regex != nil:
		return compileRegex(*p.Regex)
	}
	return nil, errors.New("empty pattern")
}

func equalRunes(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

type piece struct {
	start, end int
	match      bool
}

// invert swaps the matched and unmatched spans of s
func invert(n int, spans [][2]int) (out [][2]int) {
	prev := 0
	for _, sp := range spans {
		if sp[0] > prev {
			out = append(out, [2]int{prev, sp[0]})
		}
		prev = sp[1]
	}
	if prev < n {
		out = append(out, [2]int{prev, n})
	}
	return out
}

// splitRunes cuts s at the spans, the behaviour decides where the spans go
func splitRunes(s []rune, spans [][2]int, behavior string) []string {
	var pieces []piece
	prev := 0
	for _, sp := range spans {
		if sp[0] > prev {
			pieces = append(pieces, piece{prev, sp[0], false})
		}
		pieces = append(pieces, piece{sp[0], sp[1], true})
		prev = sp[1]
	}
	if prev < len(s) {
		pieces = append(pieces, piece{prev, len(s), false})
	}

	var out []piece
	switch behavior {
	case Removed:
		for _, p := range pieces {
			if !p.match {
				out = append(out, p)
			}
		}
	case Contiguous:
		for _, p := range pieces {
			if n := len(out); n > 0 && p.match && out[n-1].match {
				out[n-1].end = p.end
				continue
			}
			out = append(out, p)
		}
	case MergedWithPrevious:
		previous := false
		for _, p := range pieces {
			if n := len(out); n > 0 && p.match && !previous {
				out[n-1].end = p.end
			} else {
				out = append(out, piece{p.start, p.end, false})
			}
			previous = p.match
		}
	case MergedWithNext:
		previous := false
		for i := len(pieces) - 1; i >= 0; i-- {
			p := pieces[i]
			if n := len(out); n > 0 && p.match && !previous {
				out[n-1].start = p.start
			} else {
				out = append(out, piece{p.start, p.end, false})
			}
			previous = p.match
		}
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	default:
		out = pieces
	}

	words := make([]string, 0, len(out))
	for _, p := range out {
		if p.end > p.start {
			words = append(words, string(s[p.start:p.end]))
		}
	}
	return words
}
