// Package datasets implements the intent corpus dataset types and the loader shared by
// the BANKING77, CLINC150 and HWU64 corpora.
package datasets

import "sort"

// Split names
const (
	Train      = "train"
	Validation = "validation"
	Test       = "test"
)

// Column names, as exposed by ColumnNames
const (
	ColumnID            = "id"
	ColumnText          = "text"
	ColumnLabel         = "label"
	ColumnInputIDs      = "input_ids"
	ColumnAttentionMask = "attention_mask"
)

// Example is a single labelled utterance
type Example struct {
	ID    string
	Text  string
	Label int
}

// ClassLabel is the ordered set of class names, the position of a name is its label
type ClassLabel struct {
	Names []string

	index map[string]int
}

// NewClassLabel creates the class label set from ordered names
func NewClassLabel(names []string) *ClassLabel {
	c := &ClassLabel{
		Names: names,
		index: make(map[string]int, len(names)),
	}
	for i, name := range names {
		if _, ok := c.index[name]; !ok {
			c.index[name] = i
		}
	}
	return c
}

// Len reports the number of classes
func (c *ClassLabel) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Names)
}

// Index returns the label of the class name
func (c *ClassLabel) Index(name string) (int, bool) {
	if c == nil {
		return 0, false
	}
	i, ok := c.index[name]
	return i, ok
}

// Name returns the class name of the label, or "" when out of range
func (c *ClassLabel) Name(label int) string {
	if c == nil || label < 0 || label >= len(c.Names) {
		return ""
	}
	return c.Names[label]
}

// Dataset is one named split stored column by column.
// A nil column means the field is absent.
type Dataset struct {
	Name    string
	Classes *ClassLabel

	IDs   []string
	Text  []string
	Label []int

	// token columns, attached by tokenisation
	InputIDs      [][]int
	AttentionMask [][]int
}

// FromExamples builds a dataset holding the id, text and label columns
func FromExamples(name string, classes *ClassLabel, examples []Example) *Dataset {
	d := &Dataset{
		Name:    name,
		Classes: classes,
		IDs:     make([]string, len(examples)),
		Text:    make([]string, len(examples)),
		Label:   make([]int, len(examples)),
	}
	for i, eg := range examples {
		d.IDs[i] = eg.ID
		d.Text[i] = eg.Text
		d.Label[i] = eg.Label
	}
	return d
}

// Len reports the number of rows
func (d *Dataset) Len() int {
	switch {
	case d == nil:
		return 0
	case d.Text != nil:
		return len(d.Text)
	case d.Label != nil:
		return len(d.Label)
	case d.IDs != nil:
		return len(d.IDs)
	case d.InputIDs != nil:
		return len(d.InputIDs)
	}
	return 0
}

// HasColumn reports whether the named column is present
func (d *Dataset) HasColumn(name string) bool {
	if d == nil {
		return false
	}
	switch name {
	case ColumnID:
		return d.IDs != nil
	case ColumnText:
		return d.Text != nil
	case ColumnLabel:
		return d.Label != nil
	case ColumnInputIDs:
		return d.InputIDs != nil
	case ColumnAttentionMask:
		return d.AttentionMask != nil
	}
	return false
}

// ColumnNames lists the present columns
func (d *Dataset) ColumnNames() (out []string) {
	for _, name := range []string{ColumnID, ColumnText, ColumnLabel, ColumnInputIDs, ColumnAttentionMask} {
		if d.HasColumn(name) {
			out = append(out, name)
		}
	}
	return
}

// Example returns row i, absent columns give zero values
func (d *Dataset) Example(i int) (eg Example) {
	if d.IDs != nil {
		eg.ID = d.IDs[i]
	}
	if d.Text != nil {
		eg.Text = d.Text[i]
	}
	if d.Label != nil {
		eg.Label = d.Label[i]
	}
	return
}

// Select returns a new dataset made of the rows at indices, in the order given
func (d *Dataset) Select(name string, indices []int) *Dataset {
	out := &Dataset{Name: name, Classes: d.Classes}
	if d.IDs != nil {
		out.IDs = make([]string, len(indices))
	}
	if d.Text != nil {
		out.Text = make([]string, len(indices))
	}
	if d.Label != nil {
		out.Label = make([]int, len(indices))
	}
	if d.InputIDs != nil {
		out.InputIDs = make([][]int, len(indices))
	}
	if d.AttentionMask != nil {
		out.AttentionMask = make([][]int, len(indices))
	}
	for j, i := range indices {
		if d.IDs != nil {
			out.IDs[j] = d.IDs[i]
		}
		if d.Text != nil {
			out.Text[j] = d.Text[i]
		}
		if d.Label != nil {
			out.Label[j] = d.Label[i]
		}
		if d.InputIDs != nil {
			out.InputIDs[j] = d.InputIDs[i]
		}
		if d.AttentionMask != nil {
			out.AttentionMask[j] = d.AttentionMask[i]
		}
	}
	return out
}

// Validate checks that every label is a valid class index
func (d *Dataset) Validate() error {
	if d.Classes == nil {
		return nil
	}
	for i, label := range d.Label {
		if label < 0 || label >= d.Classes.Len() {
			return errorf(ErrUnknownLabel, "split %s row %d: label %d outside %d classes", d.Name, i, label, d.Classes.Len())
		}
	}
	return nil
}

// DatasetDict holds the splits of a corpus by name
type DatasetDict map[string]*Dataset

var canonical = map[string]int{Train: 0, Validation: 1, Test: 2}

// Splits lists split names, train validation test first, then the rest sorted
func (dd DatasetDict) Splits() []string {
	names := make([]string, 0, len(dd))
	for name := range dd {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		oi, iok := canonical[names[i]]
		oj, jok := canonical[names[j]]
		switch {
		case iok && jok:
			return oi < oj
		case iok != jok:
			return iok
		}
		return names[i] < names[j]
	})
	return names
}

// MinLen reports the size of the smallest split
func (dd DatasetDict) MinLen() int {
	var min = -1
	for _, d := range dd {
		if min < 0 || d.Len() < min {
			min = d.Len()
		}
	}
	if min < 0 {
		return 0
	}
	return min
}

// Classes returns the class label set of the training split, or of any split
func (dd DatasetDict) Classes() *ClassLabel {
	if d := dd[Train]; d != nil && d.Classes != nil {
		return d.Classes
	}
	for _, name := range dd.Splits() {
		if d := dd[name]; d != nil && d.Classes != nil {
			return d.Classes
		}
	}
	return nil
}
