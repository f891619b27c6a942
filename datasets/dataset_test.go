package datasets

import (
	"errors"
	"reflect"
	"testing"
)

func TestClassLabel(t *testing.T) {
	c := NewClassLabel([]string{"card_arrival", "top_up", "card_arrival"})
	if c.Len() != 3 {
		t.Fatalf("len %d", c.Len())
	}
	if i, ok := c.Index("card_arrival"); !ok || i != 0 {
		t.Fatalf("index %d %v", i, ok)
	}
	if _, ok := c.Index("refund"); ok {
		t.Fatal("unknown class found")
	}
	if c.Name(1) != "top_up" || c.Name(3) != "" || c.Name(-1) != "" {
		t.Fatal("name lookup")
	}
	var none *ClassLabel
	if none.Len() != 0 || none.Name(0) != "" {
		t.Fatal("nil class label")
	}
}

func TestSelect(t *testing.T) {
	classes := NewClassLabel([]string{"a", "b"})
	d := FromExamples(Train, classes, []Example{
		{ID: "0", Text: "x", Label: 0},
		{ID: "1", Text: "y", Label: 1},
		{ID: "2", Text: "z", Label: 1},
	})
	d.InputIDs = [][]int{{1}, {2}, {3}}

	s := d.Select(Validation, []int{2, 0})
	if s.Name != Validation || s.Classes != classes {
		t.Fatalf("select %+v", s)
	}
	if !reflect.DeepEqual(s.Text, []string{"z", "x"}) || !reflect.DeepEqual(s.InputIDs, [][]int{{3}, {1}}) {
		t.Fatalf("rows %v %v", s.Text, s.InputIDs)
	}
	if s.HasColumn(ColumnAttentionMask) {
		t.Fatal("absent column created")
	}
	if eg := s.Example(0); eg != (Example{ID: "2", Text: "z", Label: 1}) {
		t.Fatalf("example %+v", eg)
	}
}

func TestValidate(t *testing.T) {
	classes := NewClassLabel([]string{"a", "b"})
	d := FromExamples(Test, classes, []Example{{Label: 0}, {Label: 1}})
	if err := d.Validate(); err != nil {
		t.Fatal(err)
	}
	d.Label[1] = 2
	if err := d.Validate(); !errors.Is(err, ErrUnknownLabel) {
		t.Fatalf("got %v", err)
	}
}

func TestDatasetDictMinLen(t *testing.T) {
	classes := NewClassLabel([]string{"a"})
	dd := DatasetDict{
		Train:      FromExamples(Train, classes, make([]Example, 5)),
		Validation: FromExamples(Validation, nil, make([]Example, 1)),
		Test:       FromExamples(Test, classes, make([]Example, 3)),
	}
	if dd.MinLen() != 1 {
		t.Fatalf("min %d", dd.MinLen())
	}
	if dd.Classes() != classes {
		t.Fatal("classes")
	}
	if (DatasetDict{}).MinLen() != 0 {
		t.Fatal("empty dict")
	}
	if (DatasetDict{Train: nil, Test: dd[Test]}).Classes() != classes {
		t.Fatal("classes past a nil split")
	}
}
