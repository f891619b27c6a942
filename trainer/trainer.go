package trainer

import (
	"context"
	"math/rand"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/neurlang/intent/datasets"
	"github.com/neurlang/intent/metrics"
	"github.com/neurlang/intent/net/linear"
	"github.com/neurlang/intent/parallel"
	"github.com/neurlang/intent/tokenise"
)

// ErrNotTokenised is returned when a dataset lacks the input_ids column
var ErrNotTokenised = errors.New("dataset not tokenised")

// Trainer fits a network on a tokenised training split
type Trainer struct {
	Args      Arguments
	Model     *linear.Network
	Tokeniser tokenise.Tokeniser

	ComputeMetrics metrics.ComputeFunc
	TrainDataset   *datasets.Dataset
	EvalDataset    *datasets.Dataset

	State State

	// best is a copy of the network at the best checkpoint
	best *linear.Network

	log logrus.FieldLogger
}

// New creates a trainer. computeMetrics, train and eval may be nil when only predicting.
func New(args Arguments, model *linear.Network, tok tokenise.Tokeniser, computeMetrics metrics.ComputeFunc,
	train, eval *datasets.Dataset) *Trainer {
	return &Trainer{
		Args:           args,
		Model:          model,
		Tokeniser:      tok,
		ComputeMetrics: computeMetrics,
		TrainDataset:   train,
		EvalDataset:    eval,
		State: State{
			NumTrainEpochs: args.NumTrainEpochs,
			TrainBatchSize: args.TrainBatchSize,
			RunID:          args.RunID,
		},
		log: logrus.WithField("run_id", args.RunID),
	}
}

func (t *Trainer) workers(batch int) int {
	if t.Args.Workers > 0 {
		return t.Args.Workers
	}
	return parallel.Workers(batch)
}

// Train runs the configured number of epochs
func (t *Trainer) Train(ctx context.Context) error {
	train := t.TrainDataset
	if !train.HasColumn(datasets.ColumnInputIDs) {
		return errors.Wrapf(ErrNotTokenised, "split %s", train.Name)
	}
	if !train.HasColumn(datasets.ColumnLabel) {
		return &tokenise.MissingFieldError{Split: train.Name, Field: datasets.ColumnLabel}
	}
	batch := t.Args.TrainBatchSize
	if batch <= 0 {
		batch = 1
	}
	n := train.Len()
	features := make([][]uint32, n)
	parallel.ForEach(n, t.workers(n), func(i int) {
		features[i] = t.Model.Features(train.InputIDs[i], maskOf(train, i))
	})

	perEpoch := (n + batch - 1) / batch
	total := perEpoch * t.Args.NumTrainEpochs
	t.State.MaxSteps = total

	opt := linear.NewAdamW(t.Model, t.Args.WeightDecay)
	grad := linear.NewGradient(t.Model)
	rng := rand.New(rand.NewSource(t.Args.Seed))

	t.log.WithFields(logrus.Fields{
		"examples":   n,
		"epochs":     t.Args.NumTrainEpochs,
		"batch":      batch,
		"steps":      total,
		"parameters": t.Model.Len(),
	}).Info("training")

	for epoch := 1; epoch <= t.Args.NumTrainEpochs; epoch++ {
		order := rng.Perm(n)
		var epochLoss float64
		for lo := 0; lo < n; lo += batch {
			if err := ctx.Err(); err != nil {
				return err
			}
			hi := lo + batch
			if hi > n {
				hi = n
			}
			feats := make([][]uint32, hi-lo)
			labels := make([]int, hi-lo)
			for j, i := range order[lo:hi] {
				feats[j] = features[i]
				labels[j] = train.Label[i]
			}
			logits := make([][]float64, len(feats))
			parallel.ForEach(len(feats), t.workers(len(feats)), func(j int) {
				logits[j] = t.Model.Logits(feats[j])
			})

			lr := linear.LinearDecay(t.Args.LearningRate, t.State.GlobalStep, total)
			epochLoss += t.Model.Backward(feats, logits, labels, grad) * float64(len(feats))
			opt.Step(t.Model, grad, lr)
			grad.Zero()
			t.State.GlobalStep++
		}
		t.State.Epoch = float64(epoch)

		loss := epochLoss / float64(max(n, 1))
		t.State.LogHistory = append(t.State.LogHistory, LogEntry{
			Epoch:        t.State.Epoch,
			Step:         t.State.GlobalStep,
			Loss:         ptr(loss),
			LearningRate: ptr(linear.LinearDecay(t.Args.LearningRate, t.State.GlobalStep, total)),
		})
		t.log.WithFields(logrus.Fields{
			"epoch":           epoch,
			"step":            t.State.GlobalStep,
			"optimizer_steps": opt.Steps(),
			"loss":            loss,
		}).Info("epoch done")

		if err := t.evaluate(ctx); err != nil {
			return err
		}
	}

	if t.Args.LoadBestModelAtEnd && t.best != nil {
		t.Model = t.best
		t.log.WithField("checkpoint", t.State.BestModelCheckpoint).Info("loaded best model")
	}
	return nil
}

// evaluate scores the evaluation split and saves a checkpoint
func (t *Trainer) evaluate(ctx context.Context) error {
	if t.EvalDataset == nil {
		return t.checkpoint(nil)
	}
	out, err := t.Predict(ctx, t.EvalDataset)
	if err != nil {
		return err
	}
	entry := LogEntry{
		Epoch:      t.State.Epoch,
		Step:       t.State.GlobalStep,
		EvalLoss:   ptr(out.Metrics.Loss),
		EvalDigest: out.Metrics.Digest,
	}
	if out.Metrics.Result != nil {
		entry.EvalAccuracy = ptr(out.Metrics.Result.Accuracy)
	}
	t.State.LogHistory = append(t.State.LogHistory, entry)
	t.log.WithFields(logrus.Fields{
		"epoch":    t.State.Epoch,
		"step":     t.State.GlobalStep,
		"loss":     out.Metrics.Loss,
		"accuracy": out.Metrics.Accuracy(),
	}).Info("evaluated")
	return t.checkpoint(&out.Metrics)
}

// SaveModel writes the network and the tokeniser into dir, the output directory when dir is empty
func (t *Trainer) SaveModel(dir string) error {
	if dir == "" {
		dir = t.Args.OutputDir
	}
	if err := t.Model.Save(dir); err != nil {
		return errors.Wrapf(err, "save model to %s", dir)
	}
	if s, ok := t.Tokeniser.(tokenise.Saver); ok {
		if err := s.SaveDir(dir); err != nil {
			return err
		}
	}
	return nil
}

// SaveState writes trainer_state.json into the output directory
func (t *Trainer) SaveState() error {
	if err := os.MkdirAll(t.Args.OutputDir, 0755); err != nil {
		return err
	}
	return t.State.SaveToJSON(stateFile(t.Args.OutputDir))
}

func maskOf(ds *datasets.Dataset, i int) []int {
	if ds.AttentionMask == nil {
		return nil
	}
	return ds.AttentionMask[i]
}
