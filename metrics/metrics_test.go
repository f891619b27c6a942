package metrics

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func sp(n int) string {
	return strings.Repeat(" ", n)
}

func TestEvaluatePerfect(t *testing.T) {
	res, err := Evaluate([][]float64{{0.1, 0.9}, {0.8, 0.2}}, []int{1, 0}, []string{"a", "b"}, true)
	if err != nil {
		t.Fatal(err)
	}
	if res.Accuracy != 1.0 {
		t.Fatalf("accuracy %v", res.Accuracy)
	}
	if !reflect.DeepEqual(res.Predictions, []string{"b", "a"}) {
		t.Fatalf("predictions %v", res.Predictions)
	}

	row := func(name string, support string) string {
		return sp(12-len(name)) + name + sp(6) + "1.000" + sp(5) + "1.000" + sp(5) + "1.000" + sp(9) + support + "\n"
	}
	want := sp(14) + "precision" + sp(4) + "recall" + sp(2) + "f1-score" + sp(3) + "support\n" +
		"\n" +
		row("a", "1") +
		row("b", "1") +
		"\n" +
		sp(4) + "accuracy" + sp(26) + "1.000" + sp(9) + "2\n" +
		row("macro avg", "2") +
		row("weighted avg", "2")
	if res.Report != want {
		t.Fatalf("report\n%s\nwant\n%s", res.Report, want)
	}
}

func TestEvaluateNoPredictions(t *testing.T) {
	res, err := Evaluate([][]float64{{1, 0}}, []int{0}, []string{"a", "b"}, false)
	if err != nil {
		t.Fatal(err)
	}
	if res.Predictions != nil {
		t.Fatalf("predictions %v", res.Predictions)
	}
}

func TestEvaluateZeroDivision(t *testing.T) {
	scores := [][]float64{{1, 0, 0}, {1, 0, 0}}
	res, err := Evaluate(scores, []int{0, 1}, []string{"a", "b", "c"}, false)
	if err != nil {
		t.Fatal(err)
	}
	near := func(what string, got, want float64) {
		t.Helper()
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("%s = %v, want %v", what, got, want)
		}
	}
	near("accuracy", res.Accuracy, 0.5)
	near("a precision", res.Classes[0].Precision, 0.5)
	near("a recall", res.Classes[0].Recall, 1)
	near("a f1", res.Classes[0].F1, 2.0/3)
	near("b f1", res.Classes[1].F1, 0)
	near("c precision", res.Classes[2].Precision, 0)
	near("macro precision", res.MacroAvg.Precision, 0.5/3)
	near("weighted precision", res.WeightedAvg.Precision, 0.25)
	near("weighted recall", res.WeightedAvg.Recall, 0.5)
	if res.Classes[2].Support != 0 || res.WeightedAvg.Support != 2 {
		t.Errorf("support %d %d", res.Classes[2].Support, res.WeightedAvg.Support)
	}
	if !strings.Contains(res.Report, "           c      0.000     0.000     0.000         0\n") {
		t.Errorf("report misses class c\n%s", res.Report)
	}
}

func TestArgMaxTies(t *testing.T) {
	for _, tc := range []struct {
		row  []float64
		want int
	}{
		{[]float64{0.5, 0.5}, 0},
		{[]float64{0, 1, 1}, 1},
		{[]float64{-3}, 0},
		{[]float64{-2, -1, -1.5}, 1},
	} {
		if got := ArgMax(tc.row); got != tc.want {
			t.Errorf("ArgMax(%v) = %d, want %d", tc.row, got, tc.want)
		}
	}
}

func TestEvaluateErrors(t *testing.T) {
	classes := []string{"a", "b"}
	for _, tc := range []struct {
		name   string
		scores [][]float64
		labels []int
		want   error
	}{
		{"empty", nil, nil, ErrEmpty},
		{"length", [][]float64{{1, 0}}, []int{0, 1}, ErrShapeMismatch},
		{"ragged", [][]float64{{1, 0}, {1}}, []int{0, 1}, ErrShapeMismatch},
		{"label", [][]float64{{1, 0}}, []int{2}, ErrShapeMismatch},
		{"negative", [][]float64{{1, 0}}, []int{-1}, ErrShapeMismatch},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Evaluate(tc.scores, tc.labels, classes, false); !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestEvaluateOutputs(t *testing.T) {
	outputs := [][][]float64{
		{{0.1, 0.9}, {0.8, 0.2}},
		{{1, 0}, {1, 0}},
	}
	res, err := EvaluateOutputs(outputs, []int{1, 0}, []string{"a", "b"}, false)
	if err != nil {
		t.Fatal(err)
	}
	if res.Accuracy != 1 {
		t.Fatalf("accuracy %v", res.Accuracy)
	}
	if _, err := EvaluateOutputs(nil, nil, nil, false); !errors.Is(err, ErrEmpty) {
		t.Fatalf("got %v", err)
	}
}

func TestComputeMetrics(t *testing.T) {
	compute := ComputeMetrics([]string{"x", "y"}, true)
	res, err := compute([][]float64{{0, 1}}, []int{0})
	if err != nil {
		t.Fatal(err)
	}
	if res.Accuracy != 0 || res.Predictions[0] != "y" {
		t.Fatalf("got %+v", res)
	}
}
