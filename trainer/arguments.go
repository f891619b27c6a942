package trainer

// Best model metrics
const (
	MetricAccuracy = "accuracy"
	MetricLoss     = "loss"
)

// Arguments configure a training run, they are not changed once the trainer is created
type Arguments struct {
	OutputDir string

	LearningRate   float64
	WeightDecay    float64
	NumTrainEpochs int
	TrainBatchSize int
	EvalBatchSize  int
	Seed           int64

	MetricForBestModel string
	LoadBestModelAtEnd bool

	// SaveTotalLimit bounds the number of checkpoints kept, the best one is never removed.
	// 0 keeps all of them.
	SaveTotalLimit int

	// Workers bounds forward pass concurrency, 0 sizes it from the cores
	Workers int

	RunID string
}

// DefaultArguments evaluates every epoch and keeps the most accurate model
func DefaultArguments(outputDir string) Arguments {
	return Arguments{
		OutputDir:          outputDir,
		LearningRate:       1e-4,
		NumTrainEpochs:     10,
		TrainBatchSize:     128,
		EvalBatchSize:      128,
		Seed:               42,
		MetricForBestModel: MetricAccuracy,
		LoadBestModelAtEnd: true,
		SaveTotalLimit:     1,
	}
}

// greaterIsBetter tells the direction of the best model metric
func (a Arguments) greaterIsBetter() bool {
	return a.MetricForBestModel != MetricLoss
}
