package linear

import (
	"math"

	"github.com/neurlang/intent/parallel"
)

// AdamW is the Adam optimiser with decoupled weight decay. Biases are not decayed.
type AdamW struct {
	Beta1, Beta2 float64
	Epsilon      float64
	WeightDecay  float64

	mw, vw []float64
	mb, vb []float64
	t      int
}

// NewAdamW creates an optimiser for n with the usual betas and epsilon
func NewAdamW(n *Network, weightDecay float64) *AdamW {
	return &AdamW{
		Beta1:       0.9,
		Beta2:       0.999,
		Epsilon:     1e-8,
		WeightDecay: weightDecay,
		mw:          make([]float64, len(n.w)),
		vw:          make([]float64, len(n.w)),
		mb:          make([]float64, len(n.b)),
		vb:          make([]float64, len(n.b)),
	}
}

// Steps reports the number of updates done
func (o *AdamW) Steps() int {
	return o.t
}

// chunk of weights updated by one goroutine
const chunk = 1 << 16

// Step updates n from g with learning rate lr
func (o *AdamW) Step(n *Network, g *Gradient, lr float64) {
	o.t++
	c1 := 1 - math.Pow(o.Beta1, float64(o.t))
	c2 := 1 - math.Pow(o.Beta2, float64(o.t))

	update := func(p []float32, grad, m, v []float64, decay float64) {
		for i := range p {
			m[i] = o.Beta1*m[i] + (1-o.Beta1)*grad[i]
			v[i] = o.Beta2*v[i] + (1-o.Beta2)*grad[i]*grad[i]
			x := float64(p[i])
			x -= lr * decay * x
			x -= lr * (m[i] / c1) / (math.Sqrt(v[i]/c2) + o.Epsilon)
			p[i] = float32(x)
		}
	}

	chunks := (len(n.w) + chunk - 1) / chunk
	parallel.ForEach(chunks, parallel.Workers(chunks), func(j int) {
		lo, hi := j*chunk, (j+1)*chunk
		if hi > len(n.w) {
			hi = len(n.w)
		}
		update(n.w[lo:hi], g.w[lo:hi], o.mw[lo:hi], o.vw[lo:hi], o.WeightDecay)
	})
	update(n.b, g.b, o.mb, o.vb, 0)
}

// LinearDecay is the learning rate at step of total, decaying linearly to zero
func LinearDecay(lr float64, step, total int) float64 {
	if total <= 0 || step >= total {
		return 0
	}
	return lr * float64(total-step) / float64(total)
}
