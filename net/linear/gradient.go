package linear

// Gradient accumulates the derivative of the loss by every parameter
type Gradient struct {
	w, b []float64

	// touched rows since the last Zero
	rows map[uint32]struct{}
}

// NewGradient allocates a gradient shaped like n
func NewGradient(n *Network) *Gradient {
	return &Gradient{
		w:    make([]float64, len(n.w)),
		b:    make([]float64, len(n.b)),
		rows: make(map[uint32]struct{}),
	}
}

// Zero clears the gradient
func (g *Gradient) Zero() {
	k := len(g.b)
	for f := range g.rows {
		row := g.w[int(f)*k : int(f)*k+k]
		for c := range row {
			row[c] = 0
		}
	}
	for c := range g.b {
		g.b[c] = 0
	}
	clear(g.rows)
}

// Backward accumulates the mean cross entropy gradient of a batch and returns the mean loss.
// logits must come from Logits of the same features.
func (n *Network) Backward(features [][]uint32, logits [][]float64, labels []int, g *Gradient) float64 {
	if len(features) == 0 {
		return 0
	}
	k := len(n.b)
	scale := 1 / float64(len(features))
	var loss float64
	for i, feats := range features {
		loss += Loss(logits[i], labels[i])
		delta := Softmax(logits[i])
		delta[labels[i]]--
		for c := range delta {
			delta[c] *= scale
			g.b[c] += delta[c]
		}
		for _, f := range feats {
			g.rows[f] = struct{}{}
			row := g.w[int(f)*k : int(f)*k+k]
			for c := range row {
				row[c] += delta[c]
			}
		}
	}
	return loss * scale
}
