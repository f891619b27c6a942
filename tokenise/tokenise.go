package tokenise

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/neurlang/intent/datasets"
	"github.com/neurlang/intent/parallel"
)

// BatchSize is the number of examples handed to a worker at once
const BatchSize = 1000

// Dataset returns a copy of ds with input_ids and attention_mask columns attached.
// The text column is lowercased first when uncased is set. ds is left untouched.
func Dataset(ctx context.Context, tok Tokeniser, ds *datasets.Dataset, uncased bool) (*datasets.Dataset, error) {
	if err := check("", ds); err != nil {
		return nil, err
	}
	return apply(ctx, tok, ds, uncased, parallel.Workers(ds.Len()))
}

// Dict tokenises every split of dd. The worker pool is sized by the smallest split.
func Dict(ctx context.Context, tok Tokeniser, dd datasets.DatasetDict, uncased bool) (datasets.DatasetDict, error) {
	for _, name := range dd.Splits() {
		if err := check(name, dd[name]); err != nil {
			return nil, err
		}
	}
	workers := parallel.Workers(dd.MinLen())
	out := make(datasets.DatasetDict, len(dd))
	for _, name := range dd.Splits() {
		ds, err := apply(ctx, tok, dd[name], uncased, workers)
		if err != nil {
			return nil, err
		}
		out[name] = ds
	}
	return out, nil
}

// check reports the first absent column, a nil split has none of them
func check(name string, ds *datasets.Dataset) error {
	if ds == nil {
		return &MissingFieldError{Split: name, Field: datasets.ColumnText}
	}
	if !ds.HasColumn(datasets.ColumnText) {
		return &MissingFieldError{Split: ds.Name, Field: datasets.ColumnText}
	}
	if !ds.HasColumn(datasets.ColumnLabel) {
		return &MissingFieldError{Split: ds.Name, Field: datasets.ColumnLabel}
	}
	return nil
}

func apply(ctx context.Context, tok Tokeniser, ds *datasets.Dataset, uncased bool, workers int) (*datasets.Dataset, error) {
	n := ds.Len()
	out := *ds
	out.InputIDs = make([][]int, n)
	out.AttentionMask = make([][]int, n)

	batches := (n + BatchSize - 1) / BatchSize
	logrus.WithFields(logrus.Fields{
		"split":   ds.Name,
		"rows":    n,
		"batches": batches,
		"workers": workers,
	}).Debug("tokenising")

	err := parallel.ForEachErr(ctx, batches, workers, func(ctx context.Context, b int) error {
		// cases.Caser keeps state, one per batch
		var lower cases.Caser
		if uncased {
			lower = cases.Lower(language.Und)
		}
		end := (b + 1) * BatchSize
		if end > n {
			end = n
		}
		for i := b * BatchSize; i < end; i++ {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			text := ds.Text[i]
			if uncased {
				text = lower.String(text)
			}
			enc, err := tok.Encode(text)
			if err != nil {
				return err
			}
			out.InputIDs[i] = enc.InputIDs
			out.AttentionMask[i] = enc.AttentionMask
			if out.AttentionMask[i] == nil {
				out.AttentionMask[i] = ones(len(enc.InputIDs))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func ones(n int) []int {
	mask := make([]int, n)
	for i := range mask {
		mask[i] = 1
	}
	return mask
}
