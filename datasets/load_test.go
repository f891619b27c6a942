package datasets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func writeCorpus(t *testing.T, dir string, categories string, train, test string) {
	t.Helper()
	if categories != "" {
		if err := os.WriteFile(filepath.Join(dir, CategoriesFile), []byte(categories), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if train != "" {
		if err := os.WriteFile(filepath.Join(dir, TrainFile), []byte(train), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if test != "" {
		if err := os.WriteFile(filepath.Join(dir, TestFile), []byte(test), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func makeCSV(rows ...[2]string) string {
	var b strings.Builder
	b.WriteString("text,category\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "%q,%s\n", r[0], r[1])
	}
	return b.String()
}

func TestLoadSplits(t *testing.T) {
	dir := t.TempDir()
	var train [][2]string
	for i := 0; i < 10; i++ {
		train = append(train, [2]string{fmt.Sprintf("card %d arrived", i), "card_arrival"})
		train = append(train, [2]string{fmt.Sprintf("top up %d failed", i), "top_up_failed"})
	}
	writeCorpus(t, dir, `["card_arrival", "top_up_failed"]`,
		makeCSV(train...),
		makeCSV([2]string{"where is my card", "card_arrival"}, [2]string{"top up, declined", "top_up_failed"}))

	dd, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, split := range []string{Train, Validation, Test} {
		d, ok := dd[split]
		if !ok {
			t.Fatalf("split %s missing", split)
		}
		if !d.HasColumn(ColumnText) || !d.HasColumn(ColumnLabel) {
			t.Errorf("split %s columns %v", split, d.ColumnNames())
		}
		if d.Len() == 0 {
			t.Errorf("split %s is empty", split)
		}
		for i := 0; i < d.Len(); i++ {
			if d.Text[i] == "" {
				t.Errorf("split %s row %d has empty text", split, i)
			}
		}
		if err := d.Validate(); err != nil {
			t.Error(err)
		}
	}
	if dd[Train].Len() != 16 || dd[Validation].Len() != 4 || dd[Test].Len() != 2 {
		t.Errorf("sizes %d/%d/%d", dd[Train].Len(), dd[Validation].Len(), dd[Test].Len())
	}
	if got := dd[Validation].Text[0]; got != "card 0 arrived" {
		t.Errorf("first validation text %q", got)
	}
	if got := dd[Validation].Text[2]; got != "top up 0 failed" {
		t.Errorf("third validation text %q", got)
	}
	if got := dd[Test].Text[1]; got != "top up, declined" {
		t.Errorf("quoted text %q", got)
	}
	if got := dd[Test].Label; got[0] != 0 || got[1] != 1 {
		t.Errorf("test labels %v", got)
	}
	if dd[Test].IDs[1] != "1" {
		t.Errorf("test id %q", dd[Test].IDs[1])
	}
	// selected splits are numbered from zero again
	for _, split := range []string{Train, Validation} {
		for i, id := range dd[split].IDs {
			if id != strconv.Itoa(i) {
				t.Errorf("split %s row %d has id %q", split, i, id)
			}
		}
	}
	if eg := dd[Validation].Example(2); eg != (Example{ID: "2", Text: "top up 0 failed", Label: 1}) {
		t.Errorf("validation example %+v", eg)
	}
	// every class appears in every split
	for _, split := range dd.Splits() {
		seen := make(map[int]bool)
		for _, l := range dd[split].Label {
			seen[l] = true
		}
		if len(seen) != dd.Classes().Len() {
			t.Errorf("split %s has %d of %d classes", split, len(seen), dd.Classes().Len())
		}
	}
}

func TestLoadInvalidDataDir(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "invalid", "data_dir"))
	if !errors.Is(err, ErrResourceNotFound) {
		t.Fatalf("err = %v, want ErrResourceNotFound", err)
	}
}

func TestLoadMissingFiles(t *testing.T) {
	csv := makeCSV([2]string{"hello", "greet"})
	tests := []struct {
		name                    string
		categories, train, test string
	}{
		{"no categories", "", csv, csv},
		{"no train", `["greet"]`, "", csv},
		{"no test", `["greet"]`, csv, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			writeCorpus(t, dir, tc.categories, tc.train, tc.test)
			_, err := Load(dir)
			if !errors.Is(err, ErrResourceNotFound) {
				t.Fatalf("err = %v, want ErrResourceNotFound", err)
			}
		})
	}
}

func TestLoadUnknownCategory(t *testing.T) {
	dir := t.TempDir()
	csv := makeCSV([2]string{"hello", "greet"})
	writeCorpus(t, dir, `["greet"]`, csv, makeCSV([2]string{"bye", "farewell"}))
	_, err := Load(dir)
	if !errors.Is(err, ErrUnknownLabel) {
		t.Fatalf("err = %v, want ErrUnknownLabel", err)
	}
}

func TestLoadMissingColumn(t *testing.T) {
	dir := t.TempDir()
	writeCorpus(t, dir, `["greet"]`, "text,intent\nhello,greet\n", makeCSV([2]string{"hi", "greet"}))
	_, err := Load(dir)
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("err = %v, want ErrMissingColumn", err)
	}
}

func TestDatasetDictSplits(t *testing.T) {
	dd := DatasetDict{"test": {}, "extra": {}, "train": {}, "validation": {}}
	got := strings.Join(dd.Splits(), ",")
	if got != "train,validation,test,extra" {
		t.Errorf("Splits() = %s", got)
	}
}
