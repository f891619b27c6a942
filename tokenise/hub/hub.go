// Package hub loads pretrained tokenizers from the Hugging Face hub.
//
// Downloads are cached under the given cache directory, a cache that already holds
// the files is used without network access. Gated repositories need an access token.
//
// A repository's tokenizer.json is run by Pipeline, which covers the WordPiece, BPE,
// Unigram and WordLevel models. Repositories without one are read from vocab.txt, or
// from vocab.json and merges.txt, and SentencePiece only repositories are left to
// go-huggingface.
package hub

import (
	"github.com/gomlx/go-huggingface/hub"
	"github.com/gomlx/go-huggingface/tokenizers"
	"github.com/gomlx/go-huggingface/tokenizers/api"
	"github.com/sirupsen/logrus"

	"github.com/neurlang/intent/tokenise"
)

// Tokeniser adds the classification and separator tokens around the encoded text,
// when the pretrained tokenizer defines them
type Tokeniser struct {
	id  string
	tok api.Tokenizer

	cls, sep int
	special  map[int]bool
}

// New fetches the tokenizer of the model id. Errors from the hub are returned unmodified.
func New(id, cacheDir, token string) (*Tokeniser, error) {
	repo := hub.New(id)
	if cacheDir != "" {
		repo = repo.WithCacheDir(cacheDir)
	}
	if token != "" {
		repo = repo.WithAuth(token)
	}
	tok, err := load(repo)
	if err != nil {
		return nil, err
	}
	logrus.WithField("model", id).Debugf("tokenizer %T loaded", tok)
	return wrap(id, tok), nil
}

// load picks the richest tokenizer description the repository has
func load(repo *hub.Repo) (api.Tokenizer, error) {
	if err := repo.DownloadInfo(false); err != nil {
		return nil, err
	}
	switch {
	case repo.HasFile(TokenizerFile):
		path, err := repo.DownloadFile(TokenizerFile)
		if err != nil {
			return nil, err
		}
		return LoadPipeline(path)
	case repo.HasFile(VocabText):
		c, err := config(repo)
		if err != nil {
			return nil, err
		}
		path, err := repo.DownloadFile(VocabText)
		if err != nil {
			return nil, err
		}
		return wordPieceVocab(path, c)
	case repo.HasFile(VocabJSON) && repo.HasFile(MergesFile):
		c, err := config(repo)
		if err != nil {
			return nil, err
		}
		paths, err := repo.DownloadFiles(VocabJSON, MergesFile)
		if err != nil {
			return nil, err
		}
		return byteLevelVocab(paths[0], paths[1], c)
	}
	return tokenizers.New(repo)
}

// config reads tokenizer_config.json, a repository without one gets the defaults
func config(repo *hub.Repo) (tokenizerConfig, error) {
	if !repo.HasFile(ConfigFile) {
		return tokenizerConfig{}, nil
	}
	path, err := repo.DownloadFile(ConfigFile)
	if err != nil {
		return tokenizerConfig{}, err
	}
	return readTokenizerConfig(path)
}

func wrap(id string, tok api.Tokenizer) *Tokeniser {
	t := &Tokeniser{id: id, tok: tok, cls: -1, sep: -1, special: make(map[int]bool)}
	if n, err := tok.SpecialTokenID(api.TokClassification); err == nil {
		t.cls = n
	} else if n, err := tok.SpecialTokenID(api.TokBeginningOfSentence); err == nil {
		t.cls = n
	}
	if n, err := tok.SpecialTokenID(api.TokEndOfSentence); err == nil {
		t.sep = n
	}
	for s := api.SpecialToken(0); s < api.TokSpecialTokensCount; s++ {
		if n, err := tok.SpecialTokenID(s); err == nil {
			t.special[n] = true
		}
	}
	if l, ok := tok.(interface{ SpecialIDs() []int }); ok {
		for _, n := range l.SpecialIDs() {
			t.special[n] = true
		}
	}
	return t
}

// ID reports the model id the tokenizer was loaded from
func (t *Tokeniser) ID() string {
	return t.id
}

func (t *Tokeniser) Encode(text string) (tokenise.Encoding, error) {
	body := t.tok.Encode(text)
	ids := make([]int, 0, len(body)+2)
	if t.cls >= 0 {
		ids = append(ids, t.cls)
	}
	ids = append(ids, body...)
	if t.sep >= 0 {
		ids = append(ids, t.sep)
	}
	mask := make([]int, len(ids))
	for i := range mask {
		mask[i] = 1
	}
	return tokenise.Encoding{InputIDs: ids, AttentionMask: mask}, nil
}

func (t *Tokeniser) Decode(ids []int, skipSpecialTokens bool) string {
	if skipSpecialTokens {
		kept := make([]int, 0, len(ids))
		for _, id := range ids {
			if !t.special[id] {
				kept = append(kept, id)
			}
		}
		ids = kept
	}
	return t.tok.Decode(ids)
}

// SaveDir records the model id, the tokenizer is fetched from the cache on reload
func (t *Tokeniser) SaveDir(dir string) error {
	return tokenise.WriteConfig(dir, tokenise.Config{Type: tokenise.TypeHub, Name: t.id})
}
