package datasets

import "reflect"
import "testing"

func TestBalancedSplit(t *testing.T) {
	tests := []struct {
		name       string
		labels     []string
		train      []int
		validation []int
	}{
		{
			name:       "empty",
			labels:     nil,
			train:      []int{},
			validation: []int{},
		},
		{
			name:       "single class of ten",
			labels:     []string{"a", "a", "a", "a", "a", "a", "a", "a", "a", "a"},
			train:      []int{2, 3, 4, 5, 6, 7, 8, 9},
			validation: []int{0, 1},
		},
		{
			name:       "interleaved classes keep encounter order",
			labels:     []string{"b", "a", "b", "a", "b", "a", "b", "a", "b", "a"},
			train:      []int{2, 3, 4, 5, 6, 7, 8, 9},
			validation: []int{0, 1},
		},
		{
			name: "validation grouped by first occurrence, not sorted",
			labels: []string{
				"z", "y", "y", "y", "y", "y",
				"z", "z", "z", "z", "z", "z", "z", "z", "z",
				"y", "y", "y", "y", "y",
			},
			train:      []int{3, 4, 5, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19},
			validation: []int{0, 6, 1, 2},
		},
		{
			name:       "small class contributes nothing",
			labels:     []string{"a", "b", "a", "a", "a", "a", "b", "b", "b"},
			train:      []int{1, 2, 3, 4, 5, 6, 7, 8},
			validation: []int{0},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			train, validation := BalancedSplit(tc.labels)
			if !reflect.DeepEqual(train, tc.train) {
				t.Errorf("train = %v, want %v", train, tc.train)
			}
			if !reflect.DeepEqual(validation, tc.validation) {
				t.Errorf("validation = %v, want %v", validation, tc.validation)
			}
		})
	}
}

func TestBalancedSplitCounts(t *testing.T) {
	var labels []string
	counts := map[string]int{"a": 23, "b": 5, "c": 4, "d": 1, "e": 11}
	// round robin so that classes are interleaved
	for remaining := true; remaining; {
		remaining = false
		for _, c := range []string{"a", "b", "c", "d", "e"} {
			if counts[c] > 0 {
				labels = append(labels, c)
				counts[c]--
				remaining = true
			}
		}
	}
	total := make(map[string]int)
	for _, l := range labels {
		total[l]++
	}

	train, validation := BalancedSplit(labels)
	if len(train)+len(validation) != len(labels) {
		t.Fatalf("lost rows: %d + %d != %d", len(train), len(validation), len(labels))
	}
	inTrain := make(map[string]int)
	inVal := make(map[string]int)
	for _, i := range train {
		inTrain[labels[i]]++
	}
	for _, i := range validation {
		inVal[labels[i]]++
	}
	for label, count := range total {
		if inVal[label] != count/5 {
			t.Errorf("class %s: validation %d, want %d", label, inVal[label], count/5)
		}
		if inTrain[label] != count-count/5 {
			t.Errorf("class %s: train %d, want %d", label, inTrain[label], count-count/5)
		}
	}
	for i := 1; i < len(train); i++ {
		if train[i-1] >= train[i] {
			t.Fatalf("train not in original order at %d", i)
		}
	}
}

func TestBalancedSplitDeterministic(t *testing.T) {
	labels := []string{"x", "y", "x", "x", "y", "x", "x", "y", "y", "y", "x"}
	train1, val1 := BalancedSplit(labels)
	for i := 0; i < 10; i++ {
		train2, val2 := BalancedSplit(labels)
		if !reflect.DeepEqual(train1, train2) || !reflect.DeepEqual(val1, val2) {
			t.Fatal("split differs between runs")
		}
	}
}
