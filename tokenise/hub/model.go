package hub

import (
	"fmt"
	"math"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

// model turns one pre-tokenised word into token ids
type model interface {
	tokenize(word string) []int
	vocabulary() map[string]int
	unknown() (string, bool)
}

type wordPiece struct {
	Vocab    map[string]int `json:"vocab"`
	UnkToken string         `json:"unk_token"`
	Prefix   string         `json:"continuing_subword_prefix"`
	MaxChars int            `json:"max_input_chars_per_word"`
}

func (m *wordPiece) vocabulary() map[string]int {
	return m.Vocab
}

func (m *wordPiece) unknown() (string, bool) {
	_, ok := m.Vocab[m.UnkToken]
	return m.UnkToken, ok
}

func (m *wordPiece) unk() []int {
	if id, ok := m.Vocab[m.UnkToken]; ok {
		return []int{id}
	}
	return nil
}

// tokenize matches the longest known prefix first, a word with any unknown part is unknown
func (m *wordPiece) tokenize(word string) []int {
	r := []rune(word)
	if m.MaxChars > 0 && len(r) > m.MaxChars {
		return m.unk()
	}
	var ids []int
	for start := 0; start < len(r); {
		end, found := len(r), -1
		for ; end > start; end-- {
			sub := string(r[start:end])
			if start > 0 {
				sub = m.Prefix + sub
			}
			if id, ok := m.Vocab[sub]; ok {
				found = id
				break
			}
		}
		if found < 0 {
			return m.unk()
		}
		ids = append(ids, found)
		start = end
	}
	return ids
}

type bpe struct {
	Vocab        map[string]int        `json:"vocab"`
	Merges       []jsoniter.RawMessage `json:"merges"`
	UnkToken     *string               `json:"unk_token"`
	Prefix       string                `json:"continuing_subword_prefix"`
	Suffix       string                `json:"end_of_word_suffix"`
	FuseUnk      bool                  `json:"fuse_unk"`
	ByteFallback bool                  `json:"byte_fallback"`
	IgnoreMerges bool                  `json:"ignore_merges"`

	ranks map[[2]string]int
}

// setMerges ranks merges given as "a b" strings or as [a, b] pairs
func (m *bpe) setMerges(merges []jsoniter.RawMessage) error {
	m.ranks = make(map[[2]string]int, len(merges))
	for rank, raw := range merges {
		var pair []string
		var line string
		if err := json.Unmarshal(raw, &line); err == nil {
			pair = strings.SplitN(line, " ", 2)
		} else if err := json.Unmarshal(raw, &pair); err != nil {
			return errors.Wrapf(err, "merge %d", rank)
		}
		if len(pair) != 2 {
			return errors.Errorf("merge %d: %s is not a pair", rank, raw)
		}
		m.ranks[[2]string{pair[0], pair[1]}] = rank
	}
	m.Merges = nil
	return nil
}

func (m *bpe) vocabulary() map[string]int {
	return m.Vocab
}

func (m *bpe) unknown() (string, bool) {
	if m.UnkToken == nil {
		return "", false
	}
	_, ok := m.Vocab[*m.UnkToken]
	return *m.UnkToken, ok
}

func (m *bpe) tokenize(word string) []int {
	if m.IgnoreMerges {
		if id, ok := m.Vocab[word+m.Suffix]; ok {
			return []int{id}
		}
	}
	r := []rune(word)
	symbols := make([]string, len(r))
	for i, c := range r {
		symbols[i] = string(c)
		if i > 0 {
			symbols[i] = m.Prefix + symbols[i]
		}
		if i == len(r)-1 {
			symbols[i] += m.Suffix
		}
	}
	for len(symbols) > 1 {
		best, at := math.MaxInt, -1
		for i := 0; i+1 < len(symbols); i++ {
			if rank, ok := m.ranks[[2]string{symbols[i], symbols[i+1]}]; ok && rank < best {
				best, at = rank, i
			}
		}
		if at < 0 {
			break
		}
		merged := symbols[at] + strings.TrimPrefix(symbols[at+1], m.Prefix)
		symbols = append(symbols[:at+1], symbols[at+2:]...)
		symbols[at] = merged
	}

	unk, hasUnk := m.unknown()
	var ids []int
	lastUnk := false
	for _, s := range symbols {
		if id, ok := m.Vocab[s]; ok {
			ids = append(ids, id)
			lastUnk = false
			continue
		}
		if m.ByteFallback {
			if bs, ok := byteTokens(m.Vocab, s); ok {
				ids = append(ids, bs...)
				lastUnk = false
				continue
			}
		}
		if !hasUnk || (m.FuseUnk && lastUnk) {
			continue
		}
		ids = append(ids, m.Vocab[unk])
		lastUnk = true
	}
	return ids
}

// byteTokens spells s as <0xXX> tokens when every byte has one
func byteTokens(vocab map[string]int, s string) ([]int, bool) {
	ids := make([]int, 0, len(s))
	for i := 0; i < len(s); i++ {
		id, ok := vocab[fmt.Sprintf("<0x%02X>", s[i])]
		if !ok {
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

// unkPenalty is subtracted from the lowest piece score to score unknown characters
const unkPenalty = 10.0

type unigram struct {
	UnkID        *int    `json:"unk_id"`
	Vocab        [][]any `json:"vocab"`
	ByteFallback bool    `json:"byte_fallback"`

	ids      map[string]int
	scores   []float64
	maxLen   int
	unkScore float64
}

func (m *unigram) index() error {
	m.ids = make(map[string]int, len(m.Vocab))
	m.scores = make([]float64, len(m.Vocab))
	lowest := math.Inf(1)
	for id, entry := range m.Vocab {
		if len(entry) != 2 {
			return errors.Errorf("unigram piece %d: %v", id, entry)
		}
		p, ok := entry[0].(string)
		score, ok2 := entry[1].(float64)
		if !ok || !ok2 {
			return errors.Errorf("unigram piece %d: %v", id, entry)
		}
		m.ids[p] = id
		m.scores[id] = score
		lowest = math.Min(lowest, score)
		if n := len([]rune(p)); n > m.maxLen {
			m.maxLen = n
		}
	}
	if m.UnkID != nil && (*m.UnkID < 0 || *m.UnkID >= len(m.Vocab)) {
		return errors.Errorf("unigram unk_id %d out of range", *m.UnkID)
	}
	m.unkScore = lowest - unkPenalty
	m.Vocab = nil
	return nil
}

func (m *unigram) vocabulary() map[string]int {
	return m.ids
}

func (m *unigram) unknown() (string, bool) {
	if m.UnkID == nil {
		return "", false
	}
	for p, id := range m.ids {
		if id == *m.UnkID {
			return p, true
		}
	}
	return "", false
}

// tokenize picks the segmentation with the highest total score
func (m *unigram) tokenize(word string) []int {
	r := []rune(word)
	n := len(r)
	best := make([]float64, n+1)
	from := make([]int, n+1)
	tok := make([]int, n+1)
	for i := 1; i <= n; i++ {
		best[i] = math.Inf(-1)
	}
	for i := 0; i < n; i++ {
		if math.IsInf(best[i], -1) {
			continue
		}
		single := false
		for l := 1; l <= m.maxLen && i+l <= n; l++ {
			id, ok := m.ids[string(r[i:i+l])]
			if !ok {
				continue
			}
			if l == 1 {
				single = true
			}
			if s := best[i] + m.scores[id]; s > best[i+l] {
				best[i+l], from[i+l], tok[i+l] = s, i, id
			}
		}
		if !single {
			if s := best[i] + m.unkScore; s > best[i+1] {
				best[i+1], from[i+1], tok[i+1] = s, i, -1
			}
		}
	}

	type step struct{ start, end, id int }
	var path []step
	for end := n; end > 0; end = from[end] {
		path = append(path, step{from[end], end, tok[end]})
	}
	var ids []int
	lastUnk := false
	for i := len(path) - 1; i >= 0; i-- {
		s := path[i]
		if s.id >= 0 {
			ids = append(ids, s.id)
			lastUnk = false
			continue
		}
		if m.ByteFallback {
			if bs, ok := byteTokens(m.ids, string(r[s.start:s.end])); ok {
				ids = append(ids, bs...)
				lastUnk = false
				continue
			}
		}
		if m.UnkID == nil || lastUnk {
			continue
		}
		ids = append(ids, *m.UnkID)
		lastUnk = true
	}
	return ids
}

type wordLevel struct {
	Vocab    map[string]int `json:"vocab"`
	UnkToken string         `json:"unk_token"`
}

func (m *wordLevel) vocabulary() map[string]int {
	return m.Vocab
}

func (m *wordLevel) unknown() (string, bool) {
	_, ok := m.Vocab[m.UnkToken]
	return m.UnkToken, ok
}

func (m *wordLevel) tokenize(word string) []int {
	if id, ok := m.Vocab[word]; ok {
		return []int{id}
	}
	if id, ok := m.Vocab[m.UnkToken]; ok {
		return []int{id}
	}
	return nil
}

func parseModel(raw jsoniter.RawMessage) (model, error) {
	var t struct {
		Type     string  `json:"type"`
		Merges   present `json:"merges"`
		UnkID    present `json:"unk_id"`
		MaxChars present `json:"max_input_chars_per_word"`
	}
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, errors.Wrap(err, "model")
	}
	kind := t.Type
	if kind == "" {
		switch {
		case bool(t.Merges):
			kind = "BPE"
		case bool(t.UnkID):
			kind = "Unigram"
		case bool(t.MaxChars):
			kind = "WordPiece"
		default:
			kind = "WordLevel"
		}
	}
	switch kind {
	case "WordPiece":
		m := &wordPiece{UnkToken: "[UNK]", Prefix: "##", MaxChars: 100}
		if err := json.Unmarshal(raw, m); err != nil {
			return nil, errors.Wrap(err, "model")
		}
		return m, nil
	case "BPE":
		m := &bpe{}
		if err := json.Unmarshal(raw, m); err != nil {
			return nil, errors.Wrap(err, "model")
		}
		return m, m.setMerges(m.Merges)
	case "Unigram":
		m := &unigram{}
		if err := json.Unmarshal(raw, m); err != nil {
			return nil, errors.Wrap(err, "model")
		}
		return m, m.index()
	case "WordLevel":
		m := &wordLevel{}
		if err := json.Unmarshal(raw, m); err != nil {
			return nil, errors.Wrap(err, "model")
		}
		return m, nil
	}
	return nil, errors.Wrapf(ErrUnsupported, "model %q", kind)
}

// present records whether a key was set to anything but null
type present bool

func (p *present) UnmarshalJSON(b []byte) error {
	*p = string(b) != "null"
	return nil
}
