package hub

import (
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/gomlx/go-huggingface/tokenizers/api"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

// TokenizerFile is the serialised fast tokenizer of a hub repository
const TokenizerFile = "tokenizer.json"

// ErrUnsupported is returned for tokenizer.json components this package cannot run
var ErrUnsupported = errors.New("unsupported tokenizer component")

type addedToken struct {
	ID      int    `json:"id"`
	Content string `json:"content"`
	Special bool   `json:"special"`
}

// Pipeline runs a tokenizer.json: added tokens are cut out first, the rest is
// normalised, pre-tokenised and handed word by word to the model.
// Encode leaves out the tokens the post-processor would add, SpecialTokenID reports them.
type Pipeline struct {
	normalizer normalizer
	pre        preTokenizer
	model      model
	decoder    decoder

	added  []addedToken
	tokens map[int]string

	cls, sep int
}

var _ api.Tokenizer = (*Pipeline)(nil)

// LoadPipeline reads a tokenizer.json file
func LoadPipeline(path string) (*Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	p, err := ParsePipeline(data)
	if err != nil {
		return nil, errors.WithMessage(err, path)
	}
	return p, nil
}

// ParsePipeline decodes the content of a tokenizer.json file
func ParsePipeline(data []byte) (*Pipeline, error) {
	var file struct {
		AddedTokens   []addedToken        `json:"added_tokens"`
		Normalizer    jsoniter.RawMessage `json:"normalizer"`
		PreTokenizer  jsoniter.RawMessage `json:"pre_tokenizer"`
		PostProcessor jsoniter.RawMessage `json:"post_processor"`
		Decoder       jsoniter.RawMessage `json:"decoder"`
		Model         jsoniter.RawMessage `json:"model"`
	}
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(err, "decoding tokenizer")
	}
	if isNull(file.Model) {
		return nil, errors.New("tokenizer has no model")
	}
	p := &Pipeline{added: file.AddedTokens, cls: -1, sep: -1}
	var err error
	if p.normalizer, err = parseNormalizer(file.Normalizer); err != nil {
		return nil, err
	}
	if p.pre, err = parsePreTokenizer(file.PreTokenizer); err != nil {
		return nil, err
	}
	if p.model, err = parseModel(file.Model); err != nil {
		return nil, err
	}
	if p.decoder, err = parseDecoder(file.Decoder); err != nil {
		return nil, err
	}
	p.index()
	if err = p.parsePostProcessor(file.PostProcessor); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Pipeline) index() {
	vocab := p.model.vocabulary()
	p.tokens = make(map[int]string, len(vocab)+len(p.added))
	for tok, id := range vocab {
		p.tokens[id] = tok
	}
	for _, a := range p.added {
		p.tokens[a.ID] = a.Content
	}
	// longest first so that a token never shadows a longer one it prefixes
	sort.SliceStable(p.added, func(i, j int) bool {
		return len(p.added[i].Content) > len(p.added[j].Content)
	})
}

// id resolves a token string through the added tokens and the model vocabulary
func (p *Pipeline) id(tok string) (int, bool) {
	for _, a := range p.added {
		if a.Content == tok {
			return a.ID, true
		}
	}
	id, ok := p.model.vocabulary()[tok]
	return id, ok
}

type templatePiece struct {
	SpecialToken *struct {
		ID string `json:"id"`
	} `json:"SpecialToken"`
	Sequence *struct {
		ID string `json:"id"`
	} `json:"Sequence"`
}

type templateToken struct {
	IDs []int `json:"ids"`
}

func (p *Pipeline) parsePostProcessor(raw jsoniter.RawMessage) error {
	if isNull(raw) {
		return nil
	}
	var post struct {
		Type          string                   `json:"type"`
		Cls           []any                    `json:"cls"`
		Sep           []any                    `json:"sep"`
		Single        []templatePiece          `json:"single"`
		SpecialTokens map[string]templateToken `json:"special_tokens"`
		Processors    []jsoniter.RawMessage    `json:"processors"`
	}
	if err := json.Unmarshal(raw, &post); err != nil {
		return errors.Wrap(err, "post_processor")
	}
	switch post.Type {
	case "BertProcessing", "RobertaProcessing":
		p.cls = pairID(post.Cls)
		p.sep = pairID(post.Sep)
	case "TemplateProcessing":
		seen := false
		for _, piece := range post.Single {
			if piece.Sequence != nil {
				seen = true
				continue
			}
			if piece.SpecialToken == nil {
				continue
			}
			id := -1
			if st, ok := post.SpecialTokens[piece.SpecialToken.ID]; ok && len(st.IDs) > 0 {
				id = st.IDs[0]
			} else if n, ok := p.id(piece.SpecialToken.ID); ok {
				id = n
			}
			switch {
			case !seen && p.cls < 0:
				p.cls = id
			case seen && p.sep < 0:
				p.sep = id
			}
		}
	case "Sequence":
		for _, r := range post.Processors {
			if err := p.parsePostProcessor(r); err != nil {
				return err
			}
		}
	case "ByteLevel":
	default:
		return errors.Wrapf(ErrUnsupported, "post_processor %q", post.Type)
	}
	return nil
}

// pairID reads the id of a ["token", id] pair
func pairID(pair []any) int {
	if len(pair) != 2 {
		return -1
	}
	if f, ok := pair[1].(float64); ok {
		return int(f)
	}
	return -1
}

type segment struct {
	text string
	id   int
}

// segments cuts the added tokens out of text
func (p *Pipeline) segments(text string) []segment {
	var out []segment
	start := 0
	for i := 0; i < len(text); {
		matched := false
		for _, a := range p.added {
			if a.Content != "" && strings.HasPrefix(text[i:], a.Content) {
				if i > start {
					out = append(out, segment{text: text[start:i], id: -1})
				}
				out = append(out, segment{id: a.ID})
				i += len(a.Content)
				start = i
				matched = true
				break
			}
		}
		if !matched {
			_, size := utf8.DecodeRuneInString(text[i:])
			i += size
		}
	}
	if start < len(text) {
		out = append(out, segment{text: text[start:], id: -1})
	}
	return out
}

// Encode returns the ids of text without the post-processor's special tokens
func (p *Pipeline) Encode(text string) []int {
	var ids []int
	for _, seg := range p.segments(text) {
		if seg.id >= 0 {
			ids = append(ids, seg.id)
			continue
		}
		s := seg.text
		if p.normalizer != nil {
			s = p.normalizer.normalize(s)
		}
		words := []string{s}
		if p.pre != nil {
			words = p.pre.split(words)
		}
		for _, w := range words {
			if w != "" {
				ids = append(ids, p.model.tokenize(w)...)
			}
		}
	}
	return ids
}

// Decode maps ids back to text, unknown ids are dropped
func (p *Pipeline) Decode(ids []int) string {
	tokens := make([]string, 0, len(ids))
	for _, id := range ids {
		if tok, ok := p.tokens[id]; ok {
			tokens = append(tokens, tok)
		}
	}
	if p.decoder == nil {
		return strings.Join(tokens, " ")
	}
	return strings.Join(p.decoder.decode(tokens), "")
}

// SpecialTokenID reports the ids the post-processor adds and the usual added tokens
func (p *Pipeline) SpecialTokenID(token api.SpecialToken) (int, error) {
	id := -1
	switch token {
	case api.TokClassification, api.TokBeginningOfSentence:
		id = p.cls
	case api.TokEndOfSentence:
		id = p.sep
	case api.TokUnknown:
		if tok, ok := p.model.unknown(); ok {
			id, _ = p.id(tok)
		}
	case api.TokPad:
		id = p.first("[PAD]", "<pad>")
	case api.TokMask:
		id = p.first("[MASK]", "<mask>")
	}
	if id < 0 {
		return 0, errors.Errorf("special token %s not defined", token)
	}
	return id, nil
}

func (p *Pipeline) first(names ...string) int {
	for _, name := range names {
		if id, ok := p.id(name); ok {
			return id
		}
	}
	return -1
}

// SpecialIDs lists the ids of every special added token
func (p *Pipeline) SpecialIDs() []int {
	var ids []int
	for _, a := range p.added {
		if a.Special {
			ids = append(ids, a.ID)
		}
	}
	return ids
}
