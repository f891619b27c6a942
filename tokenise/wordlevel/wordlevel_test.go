package wordlevel

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestEncodeDecode(t *testing.T) {
	tok := Fit([]string{"book a flight", "cancel my flight"})
	if tok.Len() != numSpecial+5 {
		t.Fatalf("vocab size %d", tok.Len())
	}
	enc, err := tok.Encode("cancel a  train")
	if err != nil {
		t.Fatal(err)
	}
	want := []int{ClsID, 7, 5, UnkID, SepID}
	if !reflect.DeepEqual(enc.InputIDs, want) {
		t.Fatalf("ids %v want %v", enc.InputIDs, want)
	}
	if !reflect.DeepEqual(enc.AttentionMask, []int{1, 1, 1, 1, 1}) {
		t.Fatalf("mask %v", enc.AttentionMask)
	}
	// [UNK] is special too
	if got := tok.Decode(enc.InputIDs, true); got != "cancel a" {
		t.Fatalf("decode %q", got)
	}
	if got := tok.Decode(enc.InputIDs, false); got != "[CLS] cancel a [UNK] [SEP]" {
		t.Fatalf("decode %q", got)
	}
}

func TestCasePreserved(t *testing.T) {
	tok := Fit([]string{"Hello hello"})
	a, _ := tok.Encode("Hello")
	b, _ := tok.Encode("hello")
	if a.InputIDs[1] == b.InputIDs[1] {
		t.Fatal("case folded")
	}
}

func TestSaveLoad(t *testing.T) {
	tok := Fit([]string{"what is my balance", "top up"})
	dir := t.TempDir()
	if err := tok.SaveDir(dir); err != nil {
		t.Fatal(err)
	}
	back, err := LoadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(back.words, tok.words) {
		t.Fatalf("words %v want %v", back.words, tok.words)
	}
	if _, err := Load(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatal("expected error")
	}
}
