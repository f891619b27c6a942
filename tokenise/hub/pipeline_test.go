package hub

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/gomlx/go-huggingface/tokenizers/api"
	"github.com/pkg/errors"
)

const wordPieceJSON = `{
  "version": "1.0",
  "added_tokens": [
    {"id": 0, "content": "[PAD]", "special": true},
    {"id": 1, "content": "[UNK]", "special": true},
    {"id": 2, "content": "[CLS]", "special": true},
    {"id": 3, "content": "[SEP]", "special": true},
    {"id": 4, "content": "[MASK]", "special": true}
  ],
  "normalizer": {"type": "BertNormalizer", "clean_text": true, "handle_chinese_chars": true, "strip_accents": null, "lowercase": true},
  "pre_tokenizer": {"type": "BertPreTokenizer"},
  "post_processor": {
    "type": "TemplateProcessing",
    "single": [
      {"SpecialToken": {"id": "[CLS]", "type_id": 0}},
      {"Sequence": {"id": "A", "type_id": 0}},
      {"SpecialToken": {"id": "[SEP]", "type_id": 0}}
    ],
    "special_tokens": {
      "[CLS]": {"id": "[CLS]", "ids": [2], "tokens": ["[CLS]"]},
      "[SEP]": {"id": "[SEP]", "ids": [3], "tokens": ["[SEP]"]}
    }
  },
  "decoder": {"type": "WordPiece", "prefix": "##", "cleanup": true},
  "model": {
    "type": "WordPiece",
    "unk_token": "[UNK]",
    "continuing_subword_prefix": "##",
    "max_input_chars_per_word": 100,
    "vocab": {
      "[PAD]": 0, "[UNK]": 1, "[CLS]": 2, "[SEP]": 3, "[MASK]": 4,
      "cancel": 5, "my": 6, "card": 7, "!": 8, "##lation": 9,
      "top": 10, "##up": 11, "cafe": 12
    }
  }
}`

const byteLevelJSON = `{
  "added_tokens": [
    {"id": 0, "content": "<s>", "special": true},
    {"id": 1, "content": "<pad>", "special": true},
    {"id": 2, "content": "</s>", "special": true},
    {"id": 3, "content": "<unk>", "special": true}
  ],
  "normalizer": null,
  "pre_tokenizer": {"type": "ByteLevel", "add_prefix_space": false, "trim_offsets": true, "use_regex": true},
  "post_processor": {"type": "RobertaProcessing", "sep": ["</s>", 2], "cls": ["<s>", 0], "trim_offsets": true, "add_prefix_space": false},
  "decoder": {"type": "ByteLevel", "add_prefix_space": true, "trim_offsets": true, "use_regex": true},
  "model": {
    "type": "BPE",
    "dropout": null,
    "unk_token": "<unk>",
    "continuing_subword_prefix": "",
    "end_of_word_suffix": "",
    "fuse_unk": false,
    "vocab": {
      "<s>": 0, "<pad>": 1, "</s>": 2, "<unk>": 3,
      "c": 4, "a": 5, "r": 6, "d": 7, "Ġ": 8, "m": 9, "y": 10,
      "ca": 11, "car": 12, "card": 13, "Ġm": 14, "Ġmy": 15
    },
    "merges": ["c a", ["ca", "r"], "car d", "Ġ m", "Ġm y"]
  }
}`

const unigramJSON = `{
  "added_tokens": [
    {"id": 0, "content": "<pad>", "special": true},
    {"id": 1, "content": "</s>", "special": true},
    {"id": 2, "content": "<unk>", "special": true}
  ],
  "normalizer": {"type": "Sequence", "normalizers": [
    {"type": "Replace", "pattern": {"String": "''"}, "content": "\""},
    {"type": "Precompiled", "precompiled_charsmap": ""}
  ]},
  "pre_tokenizer": {"type": "Metaspace", "replacement": "▁", "prepend_scheme": "always", "split": true},
  "post_processor": {
    "type": "TemplateProcessing",
    "single": [
      {"Sequence": {"id": "A", "type_id": 0}},
      {"SpecialToken": {"id": "</s>", "type_id": 0}}
    ],
    "special_tokens": {"</s>": {"id": "</s>", "ids": [1], "tokens": ["</s>"]}}
  },
  "decoder": {"type": "Metaspace", "replacement": "▁", "prepend_scheme": "always", "split": true},
  "model": {
    "type": "Unigram",
    "unk_id": 2,
    "vocab": [
      ["<pad>", 0.0], ["</s>", 0.0], ["<unk>", 0.0],
      ["▁", -2.0], ["▁card", -1.0], ["▁my", -1.5],
      ["car", -3.0], ["d", -3.0], ["▁c", -4.0], ["a", -4.0], ["r", -4.0]
    ]
  }
}`

func TestPipelineWordPiece(t *testing.T) {
	p, err := ParsePipeline([]byte(wordPieceJSON))
	if err != nil {
		t.Fatal(err)
	}
	ids := p.Encode("Cancellation my CARD topup Café zzz!")
	if want := []int{5, 9, 6, 7, 10, 11, 12, 1, 8}; !reflect.DeepEqual(ids, want) {
		t.Fatalf("ids %v want %v", ids, want)
	}
	if n, err := p.SpecialTokenID(api.TokClassification); err != nil || n != 2 {
		t.Fatalf("cls %d %v", n, err)
	}
	if n, err := p.SpecialTokenID(api.TokEndOfSentence); err != nil || n != 3 {
		t.Fatalf("sep %d %v", n, err)
	}
	if n, err := p.SpecialTokenID(api.TokUnknown); err != nil || n != 1 {
		t.Fatalf("unk %d %v", n, err)
	}

	tok := wrap("tiny-bert", p)
	enc, err := tok.Encode("my card!")
	if err != nil {
		t.Fatal(err)
	}
	if want := []int{2, 6, 7, 8, 3}; !reflect.DeepEqual(enc.InputIDs, want) {
		t.Fatalf("wrapped ids %v want %v", enc.InputIDs, want)
	}
	if got := tok.Decode(append([]int{2}, append(ids, 3)...), true); got != "cancellation my card topup cafe!" {
		t.Fatalf("decode %q", got)
	}
}

func TestPipelineAddedTokensInText(t *testing.T) {
	p, err := ParsePipeline([]byte(wordPieceJSON))
	if err != nil {
		t.Fatal(err)
	}
	if ids := p.Encode("my [MASK] card"); !reflect.DeepEqual(ids, []int{6, 4, 7}) {
		t.Fatalf("ids %v", ids)
	}
}

func TestPipelineByteLevelBPE(t *testing.T) {
	p, err := ParsePipeline([]byte(byteLevelJSON))
	if err != nil {
		t.Fatal(err)
	}
	tok := wrap("tiny-roberta", p)
	enc, err := tok.Encode("card my")
	if err != nil {
		t.Fatal(err)
	}
	if want := []int{0, 13, 15, 2}; !reflect.DeepEqual(enc.InputIDs, want) {
		t.Fatalf("ids %v want %v", enc.InputIDs, want)
	}
	if got := tok.Decode(enc.InputIDs, true); got != "card my" {
		t.Fatalf("decode %q", got)
	}
	if got := tok.Decode(enc.InputIDs, false); got != "<s>card my</s>" {
		t.Fatalf("decode %q", got)
	}
	// z has no byte level token
	if ids := p.Encode("card z"); !reflect.DeepEqual(ids, []int{13, 8, 3}) {
		t.Fatalf("ids %v", ids)
	}
}

func TestPipelineUnigram(t *testing.T) {
	p, err := ParsePipeline([]byte(unigramJSON))
	if err != nil {
		t.Fatal(err)
	}
	tok := wrap("tiny-t5", p)
	enc, err := tok.Encode("my card")
	if err != nil {
		t.Fatal(err)
	}
	if want := []int{5, 4, 1}; !reflect.DeepEqual(enc.InputIDs, want) {
		t.Fatalf("ids %v want %v", enc.InputIDs, want)
	}
	if got := tok.Decode(enc.InputIDs, true); got != "my card" {
		t.Fatalf("decode %q", got)
	}
	if ids := p.Encode("cards"); !reflect.DeepEqual(ids, []int{4, 2}) {
		t.Fatalf("ids %v", ids)
	}
}

func TestPipelineUnsupported(t *testing.T) {
	_, err := ParsePipeline([]byte(`{"model": {"type": "Magic"}}`))
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("err %v", err)
	}
	if _, err = ParsePipeline([]byte(`{"added_tokens": []}`)); err == nil {
		t.Fatal("no error for a tokenizer without a model")
	}
}

func TestLoadPipelineMissing(t *testing.T) {
	_, err := LoadPipeline(filepath.Join(t.TempDir(), TokenizerFile))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err %v", err)
	}
}
