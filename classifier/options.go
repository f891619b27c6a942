package classifier

import (
	"fmt"
	"path/filepath"

	"github.com/neurlang/intent/trainer"
)

// ModelsDir is the parent of derived output directories
const ModelsDir = "models"

// Options of a classifier run, assembled once before Create
type Options struct {
	TrainBatch   int
	EvalBatch    int
	LearningRate float64
	WeightDecay  float64
	Epochs       int
	Seed         int64

	// OutputDir defaults to models/<base name of the model>
	OutputDir string

	Uncased  bool
	CacheDir string
	HubToken string

	// Buckets is the hashed feature space of a new network
	Buckets uint32
	Workers int
	RunID   string
}

// DefaultOptions are the options used when nothing is configured
func DefaultOptions() Options {
	args := trainer.DefaultArguments("")
	return Options{
		TrainBatch:   args.TrainBatchSize,
		EvalBatch:    args.EvalBatchSize,
		LearningRate: args.LearningRate,
		Epochs:       args.NumTrainEpochs,
		Seed:         args.Seed,
	}
}

// BaseOutputDir is models/<base name of the model>
func BaseOutputDir(model string) string {
	return filepath.Join(ModelsDir, filepath.Base(model))
}

// DefaultOutputDir names the output of training model on a dataset for a number of epochs
func DefaultOutputDir(model, dataset string, epochs int) string {
	return fmt.Sprintf("%s_%s_%depochs", BaseOutputDir(model), dataset, epochs)
}

// Arguments translates the options into trainer arguments
func (o Options) Arguments() trainer.Arguments {
	args := trainer.DefaultArguments(o.OutputDir)
	args.TrainBatchSize = o.TrainBatch
	args.EvalBatchSize = o.EvalBatch
	args.LearningRate = o.LearningRate
	args.WeightDecay = o.WeightDecay
	args.NumTrainEpochs = o.Epochs
	args.Seed = o.Seed
	args.Workers = o.Workers
	args.RunID = o.RunID
	return args
}
