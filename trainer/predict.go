package trainer

import (
	"context"
	"encoding/hex"

	"github.com/pkg/errors"

	"github.com/neurlang/intent/datasets"
	"github.com/neurlang/intent/metrics"
	"github.com/neurlang/intent/net/linear"
	"github.com/neurlang/intent/parallel"
)

// Metrics of a prediction run
type Metrics struct {
	Loss float64

	// Result is nil when no metrics function is set or the split has no labels
	Result *metrics.Result

	// Digest is the hex sha256 of the predicted labels in dataset order
	Digest string
}

// Accuracy reports the accuracy, 0 without a result
func (m Metrics) Accuracy() float64 {
	if m.Result == nil {
		return 0
	}
	return m.Result.Accuracy
}

func (m Metrics) value(name string) (float64, bool) {
	switch name {
	case MetricLoss:
		return m.Loss, true
	case MetricAccuracy:
		if m.Result != nil {
			return m.Result.Accuracy, true
		}
	}
	return 0, false
}

// PredictionOutput holds the scores of every example
type PredictionOutput struct {
	Predictions [][]float64
	LabelIDs    []int
	Metrics     Metrics
}

// Predict scores a tokenised split in batches
func (t *Trainer) Predict(ctx context.Context, ds *datasets.Dataset) (PredictionOutput, error) {
	if !ds.HasColumn(datasets.ColumnInputIDs) {
		return PredictionOutput{}, errors.Wrapf(ErrNotTokenised, "split %s", ds.Name)
	}
	batch := t.Args.EvalBatchSize
	if batch <= 0 {
		batch = t.Args.TrainBatchSize
	}
	if batch <= 0 {
		batch = 1
	}

	n := ds.Len()
	out := PredictionOutput{
		Predictions: make([][]float64, 0, n),
		LabelIDs:    ds.Label,
	}
	for lo := 0; lo < n; lo += batch {
		if err := ctx.Err(); err != nil {
			return PredictionOutput{}, err
		}
		hi := lo + batch
		if hi > n {
			hi = n
		}
		var mask [][]int
		if ds.AttentionMask != nil {
			mask = ds.AttentionMask[lo:hi]
		}
		out.Predictions = append(out.Predictions, t.Model.Forward(ds.InputIDs[lo:hi], mask, t.workers(hi-lo))...)
	}

	h := parallel.NewUint16Hasher(n)
	parallel.ForEach(n, t.workers(n), func(i int) {
		h.MustPutUint16(i, uint16(metrics.ArgMax(out.Predictions[i])))
	})
	sum := h.Sum()
	out.Metrics.Digest = hex.EncodeToString(sum[:])

	if ds.Label == nil || n == 0 {
		return out, nil
	}
	if t.ComputeMetrics != nil {
		res, err := t.ComputeMetrics(out.Predictions, ds.Label)
		if err != nil {
			return PredictionOutput{}, err
		}
		out.Metrics.Result = &res
	}
	for i, logits := range out.Predictions {
		if label := ds.Label[i]; label < 0 || label >= len(logits) {
			return PredictionOutput{}, errors.Wrapf(metrics.ErrShapeMismatch, "row %d label %d outside %d classes", i, label, len(logits))
		}
		out.Metrics.Loss += linear.Loss(logits, ds.Label[i])
	}
	out.Metrics.Loss /= float64(n)
	return out, nil
}
