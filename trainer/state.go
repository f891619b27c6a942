package trainer

import (
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// StateFile is the name of the saved state
const StateFile = "trainer_state.json"

// LogEntry is one line of the training history, either a training loss or an evaluation
type LogEntry struct {
	Epoch float64 `json:"epoch"`
	Step  int     `json:"step"`

	Loss         *float64 `json:"loss,omitempty"`
	LearningRate *float64 `json:"learning_rate,omitempty"`

	EvalLoss     *float64 `json:"eval_loss,omitempty"`
	EvalAccuracy *float64 `json:"eval_accuracy,omitempty"`

	// EvalDigest is the sha256 of the predicted labels in dataset order
	EvalDigest string `json:"eval_digest,omitempty"`
}

// State is the progress of a run
type State struct {
	BestMetric          *float64   `json:"best_metric"`
	BestModelCheckpoint string     `json:"best_model_checkpoint,omitempty"`
	Epoch               float64    `json:"epoch"`
	GlobalStep          int        `json:"global_step"`
	MaxSteps            int        `json:"max_steps"`
	NumTrainEpochs      int        `json:"num_train_epochs"`
	TrainBatchSize      int        `json:"train_batch_size"`
	LogHistory          []LogEntry `json:"log_history"`
	RunID               string     `json:"run_id,omitempty"`
}

// SaveToJSON writes the state to path
func (s State) SaveToJSON(path string) error {
	if s.LogHistory == nil {
		s.LogHistory = []LogEntry{}
	}
	buf, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return errors.Wrapf(os.WriteFile(path, append(buf, '\n'), 0644), "write %s", path)
}

// LoadState reads a state written by SaveToJSON
func LoadState(path string) (s State, err error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return s, errors.Wrapf(err, "read %s", path)
	}
	err = errors.Wrapf(json.Unmarshal(buf, &s), "parse %s", path)
	return
}

func ptr(v float64) *float64 {
	return &v
}
