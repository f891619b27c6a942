// Package corpora registers the intent corpora by their command line key.
package corpora

import (
	"sort"

	"github.com/neurlang/intent/datasets"
	"github.com/neurlang/intent/datasets/banking77"
	"github.com/neurlang/intent/datasets/clinc150"
	"github.com/neurlang/intent/datasets/hwu64sub"
)

var byKey = map[string]datasets.Corpus{
	banking77.Corpus.Key: banking77.Corpus,
	clinc150.Corpus.Key:  clinc150.Corpus,
	hwu64sub.Corpus.Key:  hwu64sub.Corpus,
}

// Get returns the corpus of a key such as "bank"
func Get(key string) (datasets.Corpus, bool) {
	c, ok := byKey[key]
	return c, ok
}

// Keys lists the registered keys, sorted
func Keys() []string {
	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
