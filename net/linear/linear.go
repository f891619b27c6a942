// Package linear implements a hashed bag of token ids softmax classifier.
//
// Each token and each adjacent token pair is hashed into one of Buckets rows of the
// weight matrix; the logits of an example are the bias plus the sum of its rows.
package linear

import (
	"math"
	"math/rand"

	"github.com/neurlang/intent/hash"
	"github.com/neurlang/intent/parallel"
)

// DefaultBuckets is the size of the feature space when none is configured
const DefaultBuckets = 1 << 14

// InitStd is the standard deviation of the initial weights
const InitStd = 0.02

// Config describes the shape of a network and is saved as config.json
type Config struct {
	ModelType string   `json:"model_type"`
	Buckets   uint32   `json:"buckets"`
	Labels    []string `json:"id2label"`
	Seed      int64    `json:"seed"`

	// Tokeniser is the name or path the model was created from
	Tokeniser string `json:"tokeniser,omitempty"`

	// Uncased tells that text is lowercased before tokenisation
	Uncased bool `json:"uncased,omitempty"`
}

// ModelType is recorded in Config
const ModelType = "hashed-linear"

// Network is the classification head
type Network struct {
	Config

	w []float32 // Buckets rows of len(Labels)
	b []float32
}

// New creates a network with seeded normal initial weights and zero biases
func New(c Config) *Network {
	if c.Buckets == 0 {
		c.Buckets = DefaultBuckets
	}
	c.ModelType = ModelType
	n := &Network{
		Config: c,
		w:      make([]float32, int(c.Buckets)*len(c.Labels)),
		b:      make([]float32, len(c.Labels)),
	}
	rng := rand.New(rand.NewSource(c.Seed))
	for i := range n.w {
		n.w[i] = float32(rng.NormFloat64() * InitStd)
	}
	return n
}

// Classes reports the number of output classes
func (n *Network) Classes() int {
	return len(n.Labels)
}

// Len reports the number of trainable parameters
func (n *Network) Len() int {
	return len(n.w) + len(n.b)
}

// Features hashes a token id sequence into rows of the weight matrix
func (n *Network) Features(ids, mask []int) []uint32 {
	return hash.Tokens(ids, mask, n.Buckets)
}

// Logits computes the class scores of one feature set
func (n *Network) Logits(features []uint32) []float64 {
	k := len(n.b)
	out := make([]float64, k)
	for c := range out {
		out[c] = float64(n.b[c])
	}
	for _, f := range features {
		row := n.w[int(f)*k : int(f)*k+k]
		for c := range out {
			out[c] += float64(row[c])
		}
	}
	return out
}

// Forward computes the logits of a batch using up to workers goroutines
func (n *Network) Forward(inputIDs, mask [][]int, workers int) [][]float64 {
	out := make([][]float64, len(inputIDs))
	parallel.ForEach(len(inputIDs), workers, func(i int) {
		var m []int
		if mask != nil {
			m = mask[i]
		}
		out[i] = n.Logits(n.Features(inputIDs[i], m))
	})
	return out
}

// Softmax returns the probabilities of logits
func Softmax(logits []float64) []float64 {
	out := make([]float64, len(logits))
	if len(logits) == 0 {
		return out
	}
	max := logits[0]
	for _, v := range logits[1:] {
		if v > max {
			max = v
		}
	}
	var sum float64
	for i, v := range logits {
		out[i] = math.Exp(v - max)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

// Loss is the cross entropy of logits against the true label
func Loss(logits []float64, label int) float64 {
	max := logits[0]
	for _, v := range logits[1:] {
		if v > max {
			max = v
		}
	}
	var sum float64
	for _, v := range logits {
		sum += math.Exp(v - max)
	}
	return max + math.Log(sum) - logits[label]
}
