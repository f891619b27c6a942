package tokenise_test

import (
	"context"
	"reflect"
	"strconv"
	"testing"

	"github.com/pkg/errors"

	"github.com/neurlang/intent/datasets"
	"github.com/neurlang/intent/tokenise"
	"github.com/neurlang/intent/tokenise/wordlevel"
)

func split(name string, texts ...string) *datasets.Dataset {
	classes := datasets.NewClassLabel([]string{"a", "b"})
	examples := make([]datasets.Example, len(texts))
	for i, text := range texts {
		examples[i] = datasets.Example{ID: strconv.Itoa(i), Text: text, Label: i % 2}
	}
	return datasets.FromExamples(name, classes, examples)
}

func TestDatasetAddsColumns(t *testing.T) {
	ds := split(datasets.Train, "hello world", "", "world")
	tok := wordlevel.Fit(ds.Text)

	out, err := tokenise.Dataset(context.Background(), tok, ds, false)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"id", "text", "label", "input_ids", "attention_mask"}
	if got := out.ColumnNames(); !reflect.DeepEqual(got, want) {
		t.Fatalf("columns %v want %v", got, want)
	}
	if ds.HasColumn(datasets.ColumnInputIDs) {
		t.Fatal("input dataset modified")
	}
	if !reflect.DeepEqual(out.InputIDs[1], []int{wordlevel.ClsID, wordlevel.SepID}) {
		t.Fatalf("empty text ids %v", out.InputIDs[1])
	}
	for i := range out.InputIDs {
		if len(out.InputIDs[i]) != len(out.AttentionMask[i]) {
			t.Fatalf("row %d mask length", i)
		}
	}
}

func TestMissingField(t *testing.T) {
	tok := wordlevel.Fit(nil)
	for _, tc := range []struct {
		name  string
		drop  func(*datasets.Dataset)
		field string
	}{
		{"text", func(d *datasets.Dataset) { d.Text = nil }, datasets.ColumnText},
		{"label", func(d *datasets.Dataset) { d.Label = nil }, datasets.ColumnLabel},
		{"both", func(d *datasets.Dataset) { d.Text, d.Label = nil, nil }, datasets.ColumnText},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ds := split(datasets.Train, "x", "y")
			tc.drop(ds)
			_, err := tokenise.Dataset(context.Background(), tok, ds, false)
			if !errors.Is(err, tokenise.ErrMissingField) {
				t.Fatalf("got %v", err)
			}
			var mf *tokenise.MissingFieldError
			if !errors.As(err, &mf) || mf.Field != tc.field {
				t.Fatalf("field %v want %s", err, tc.field)
			}
		})
	}
}

func TestDictNilSplit(t *testing.T) {
	dd := datasets.DatasetDict{
		datasets.Train: split(datasets.Train, "x"),
		datasets.Test:  nil,
	}
	_, err := tokenise.Dict(context.Background(), wordlevel.Fit([]string{"x"}), dd, false)
	if !errors.Is(err, tokenise.ErrMissingField) {
		t.Fatalf("got %v", err)
	}
	var mf *tokenise.MissingFieldError
	if !errors.As(err, &mf) || mf.Split != datasets.Test || mf.Field != datasets.ColumnText {
		t.Fatalf("got %v", err)
	}
	if _, err = tokenise.Dataset(context.Background(), wordlevel.Fit(nil), nil, false); !errors.Is(err, tokenise.ErrMissingField) {
		t.Fatalf("nil dataset: %v", err)
	}
}

func TestUncased(t *testing.T) {
	text := "MiXeD CaSe tExT"
	tok := wordlevel.Fit([]string{text, "mixed case text"})
	ds := split(datasets.Test, text)

	out, err := tokenise.Dataset(context.Background(), tok, ds, true)
	if err != nil {
		t.Fatal(err)
	}
	if got := tok.Decode(out.InputIDs[0], true); got != "mixed case text" {
		t.Fatalf("uncased decode %q", got)
	}

	out, err = tokenise.Dataset(context.Background(), tok, ds, false)
	if err != nil {
		t.Fatal(err)
	}
	if got := tok.Decode(out.InputIDs[0], true); got != text {
		t.Fatalf("cased decode %q", got)
	}
	if ds.Text[0] != text {
		t.Fatal("input text modified")
	}
}

func TestDictOrder(t *testing.T) {
	// more rows than one batch so several workers write results
	texts := make([]string, tokenise.BatchSize*2+7)
	for i := range texts {
		texts[i] = "w" + strconv.Itoa(i)
	}
	dd := datasets.DatasetDict{
		datasets.Train:      split(datasets.Train, texts...),
		datasets.Validation: split(datasets.Validation, texts[:3]...),
		datasets.Test:       split(datasets.Test, texts[5:]...),
	}
	tok := wordlevel.Fit(texts)

	out, err := tokenise.Dict(context.Background(), tok, dd, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 3 {
		t.Fatalf("%d splits", len(out))
	}
	for i, text := range texts {
		if got := tok.Decode(out[datasets.Train].InputIDs[i], true); got != text {
			t.Fatalf("row %d: %q want %q", i, got, text)
		}
	}
	if got := tok.Decode(out[datasets.Test].InputIDs[0], true); got != texts[5] {
		t.Fatalf("test row 0: %q", got)
	}
}

type failing struct{ err error }

func (f failing) Encode(string) (tokenise.Encoding, error) { return tokenise.Encoding{}, f.err }
func (failing) Decode([]int, bool) string                  { return "" }

func TestTokeniserErrorUnmodified(t *testing.T) {
	boom := errors.New("boom")
	_, err := tokenise.Dataset(context.Background(), failing{boom}, split(datasets.Train, "x"), false)
	if err != boom {
		t.Fatalf("got %v", err)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	c := tokenise.Config{Type: tokenise.TypeHub, Name: "bert-base-uncased"}
	if err := tokenise.WriteConfig(dir, c); err != nil {
		t.Fatal(err)
	}
	back, err := tokenise.ReadConfig(dir)
	if err != nil {
		t.Fatal(err)
	}
	if back != c {
		t.Fatalf("got %+v", back)
	}
}
