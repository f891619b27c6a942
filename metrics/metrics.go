package metrics

import "github.com/pkg/errors"

var (
	// ErrShapeMismatch is returned when scores, labels and classes disagree in size
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrEmpty is returned when there is nothing to evaluate
	ErrEmpty = errors.New("no predictions")
)

// ClassScore holds the report row of one class
type ClassScore struct {
	Name      string
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Result of an evaluation
type Result struct {
	Accuracy float64
	Report   string
	Classes  []ClassScore

	// MacroAvg and WeightedAvg average the class rows, Support is the total
	MacroAvg    ClassScore
	WeightedAvg ClassScore

	// Predictions holds predicted class names, only when requested
	Predictions []string
}

// ArgMax returns the index of the highest score, the lowest index on ties
func ArgMax(row []float64) (best int) {
	for i := 1; i < len(row); i++ {
		if row[i] > row[best] {
			best = i
		}
	}
	return
}

// Evaluate scores one row per example against the true labels
func Evaluate(scores [][]float64, labels []int, classes []string, savePredictions bool) (Result, error) {
	if len(scores) == 0 {
		return Result{}, ErrEmpty
	}
	if len(scores) != len(labels) {
		return Result{}, errors.Wrapf(ErrShapeMismatch, "%d score rows, %d labels", len(scores), len(labels))
	}
	preds := make([]int, len(scores))
	for i, row := range scores {
		if len(row) != len(classes) {
			return Result{}, errors.Wrapf(ErrShapeMismatch, "row %d has %d scores for %d classes", i, len(row), len(classes))
		}
		if labels[i] < 0 || labels[i] >= len(classes) {
			return Result{}, errors.Wrapf(ErrShapeMismatch, "row %d label %d outside %d classes", i, labels[i], len(classes))
		}
		preds[i] = ArgMax(row)
	}

	var res Result
	var correct int
	for i := range preds {
		if preds[i] == labels[i] {
			correct++
		}
	}
	res.Accuracy = float64(correct) / float64(len(preds))
	res.Classes, res.MacroAvg, res.WeightedAvg = score(preds, labels, classes)
	res.Report = report(res)

	if savePredictions {
		res.Predictions = make([]string, len(preds))
		for i, p := range preds {
			res.Predictions[i] = classes[p]
		}
	}
	return res, nil
}

// EvaluateOutputs evaluates models that return several outputs, only the first holds the class scores
func EvaluateOutputs(outputs [][][]float64, labels []int, classes []string, savePredictions bool) (Result, error) {
	if len(outputs) == 0 {
		return Result{}, ErrEmpty
	}
	return Evaluate(outputs[0], labels, classes, savePredictions)
}

// ComputeFunc evaluates scores against labels
type ComputeFunc func(scores [][]float64, labels []int) (Result, error)

// ComputeMetrics binds the class names for use by a trainer
func ComputeMetrics(classes []string, savePredictions bool) ComputeFunc {
	return func(scores [][]float64, labels []int) (Result, error) {
		return Evaluate(scores, labels, classes, savePredictions)
	}
}

func score(preds, labels []int, classes []string) (rows []ClassScore, macro, weighted ClassScore) {
	tp := make([]int, len(classes))
	predicted := make([]int, len(classes))
	support := make([]int, len(classes))
	for i := range preds {
		predicted[preds[i]]++
		support[labels[i]]++
		if preds[i] == labels[i] {
			tp[preds[i]]++
		}
	}

	rows = make([]ClassScore, len(classes))
	var total int
	for c, name := range classes {
		r := ClassScore{
			Name:      name,
			Precision: ratio(tp[c], predicted[c]),
			Recall:    ratio(tp[c], support[c]),
			Support:   support[c],
		}
		if r.Precision+r.Recall > 0 {
			r.F1 = 2 * r.Precision * r.Recall / (r.Precision + r.Recall)
		}
		rows[c] = r
		total += r.Support

		macro.Precision += r.Precision
		macro.Recall += r.Recall
		macro.F1 += r.F1
		weighted.Precision += r.Precision * float64(r.Support)
		weighted.Recall += r.Recall * float64(r.Support)
		weighted.F1 += r.F1 * float64(r.Support)
	}

	macro.Name, macro.Support = "macro avg", total
	weighted.Name, weighted.Support = "weighted avg", total
	if n := float64(len(classes)); n > 0 {
		macro.Precision /= n
		macro.Recall /= n
		macro.F1 /= n
	}
	if total > 0 {
		weighted.Precision /= float64(total)
		weighted.Recall /= float64(total)
		weighted.F1 /= float64(total)
	}
	return
}

func ratio(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}
