package classifier

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/neurlang/intent/datasets"
	"github.com/neurlang/intent/metrics"
	"github.com/neurlang/intent/net/linear"
	"github.com/neurlang/intent/tokenise"
	"github.com/neurlang/intent/trainer"
)

// ErrClassMismatch is returned when a saved model was trained on other classes
var ErrClassMismatch = errors.New("class mismatch")

// Result file names
const (
	ResultsPrefix   = "test_results"
	PredictionsFile = "test_predictions.txt"
)

// Classifier is a tokenised corpus together with the model trained on it
type Classifier struct {
	ModelNameOrPath string
	Options         Options
	Classes         []string

	Tokeniser tokenise.Tokeniser
	Model     *linear.Network

	// Data holds the tokenised splits
	Data datasets.DatasetDict
}

// Create resolves the model, loads its tokeniser and tokenises every split of data.
// A path to a saved model directory reloads its weights; any other name starts a new network.
func Create(ctx context.Context, modelNameOrPath string, data datasets.DatasetDict, opts Options) (*Classifier, error) {
	classes := data.Classes()
	if classes == nil || classes.Len() == 0 {
		return nil, errors.Errorf("corpus has no classes")
	}
	if opts.OutputDir == "" {
		opts.OutputDir = BaseOutputDir(modelNameOrPath)
	}
	id := Resolve(modelNameOrPath)
	log := logrus.WithFields(logrus.Fields{"run_id": opts.RunID, "model": id})

	var tok tokenise.Tokeniser
	var net *linear.Network
	var err error
	if isSavedModel(id) {
		if net, err = trainer.Resume(id); err != nil {
			return nil, err
		}
		if !slices.Equal(net.Labels, classes.Names) {
			return nil, errors.Wrapf(ErrClassMismatch, "%s has %d classes, corpus %d", id, len(net.Labels), classes.Len())
		}
		if tok, err = loadTokeniser(id, opts); err != nil {
			return nil, err
		}
		opts.Uncased = opts.Uncased || net.Uncased
		log.Info("loaded saved model")
	} else {
		if tok, err = newTokeniser(id, data[datasets.Train], opts); err != nil {
			return nil, err
		}
		net = linear.New(linear.Config{
			Buckets:   opts.Buckets,
			Labels:    classes.Names,
			Seed:      opts.Seed,
			Tokeniser: id,
			Uncased:   opts.Uncased,
		})
		log.WithField("buckets", net.Buckets).Info("created network")
	}

	tokenised, err := tokenise.Dict(ctx, tok, data, opts.Uncased)
	if err != nil {
		return nil, err
	}
	return &Classifier{
		ModelNameOrPath: id,
		Options:         opts,
		Classes:         classes.Names,
		Tokeniser:       tok,
		Model:           net,
		Data:            tokenised,
	}, nil
}

// Train fits the model on the train split, selecting the best epoch on the validation split.
// The model and trainer_state.json are saved into the output directory and test, when not nil,
// is evaluated with the -train suffix.
func (c *Classifier) Train(ctx context.Context, test *datasets.Dataset) error {
	tr := trainer.New(c.Options.Arguments(), c.Model, c.Tokeniser,
		metrics.ComputeMetrics(c.Classes, false), c.Data[datasets.Train], c.Data[datasets.Validation])
	if err := tr.Train(ctx); err != nil {
		return err
	}
	c.Model = tr.Model
	if err := tr.SaveModel(""); err != nil {
		return err
	}
	if err := tr.SaveState(); err != nil {
		return err
	}
	if test != nil {
		return c.Eval(ctx, test, "-train", tr, false)
	}
	return nil
}

// Eval scores test and writes test_results<suffix>.txt, and test_predictions.txt when
// savePredictions is set. A nil trainer predicts with the current model.
func (c *Classifier) Eval(ctx context.Context, test *datasets.Dataset, suffix string, tr *trainer.Trainer, savePredictions bool) error {
	if tr == nil {
		tr = trainer.New(c.Options.Arguments(), c.Model, c.Tokeniser,
			metrics.ComputeMetrics(c.Classes, savePredictions), nil, nil)
	}
	out, err := tr.Predict(ctx, test)
	if err != nil {
		return err
	}
	res, err := metrics.Evaluate(out.Predictions, out.LabelIDs, c.Classes, savePredictions)
	if err != nil {
		return err
	}
	fmt.Printf("\naccuracy = %.3f\n", res.Accuracy)

	dir := c.Options.OutputDir
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	var b strings.Builder
	b.WriteString(res.Report)
	b.WriteString("\n")
	fmt.Fprintf(&b, "accuracy = %s\n", formatFloat(res.Accuracy))
	fmt.Fprintf(&b, "loss = %s\n", formatFloat(out.Metrics.Loss))
	path := filepath.Join(dir, ResultsPrefix+suffix+".txt")
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}

	if savePredictions {
		path := filepath.Join(dir, PredictionsFile)
		line := strings.Join(res.Predictions, " ") + "\n"
		if err := os.WriteFile(path, []byte(line), 0644); err != nil {
			return errors.Wrapf(err, "write %s", path)
		}
	}
	logrus.WithFields(logrus.Fields{
		"run_id":   c.Options.RunID,
		"split":    test.Name,
		"accuracy": res.Accuracy,
		"loss":     out.Metrics.Loss,
	}).Info("evaluated")
	return nil
}
