package datasets

import (
	"encoding/csv"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Resource file names inside a corpus directory
const (
	CategoriesFile = "categories.json"
	TrainFile      = "train.csv"
	TestFile       = "test.csv"
)

// csv columns
const (
	textColumn     = "text"
	categoryColumn = "category"
)

type row struct {
	text     string
	category string
}

// Load reads a corpus directory holding categories.json, train.csv and test.csv.
// The validation split is carved out of train.csv by BalancedSplit.
func Load(dir string) (DatasetDict, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, errorf(ErrResourceNotFound, "data directory %q", dir)
	}

	classes, err := ReadClassLabel(filepath.Join(dir, CategoriesFile))
	if err != nil {
		return nil, err
	}
	allTrain, err := readRows(filepath.Join(dir, TrainFile))
	if err != nil {
		return nil, err
	}
	test, err := readRows(filepath.Join(dir, TestFile))
	if err != nil {
		return nil, err
	}

	labels := make([]string, len(allTrain))
	for i := range allTrain {
		labels[i] = allTrain[i].category
	}
	trainIdx, valIdx := BalancedSplit(labels)

	all, err := build(Train, classes, allTrain)
	if err != nil {
		return nil, err
	}
	dd := make(DatasetDict, 3)
	dd[Train] = renumber(all.Select(Train, trainIdx))
	dd[Validation] = renumber(all.Select(Validation, valIdx))
	if dd[Test], err = build(Test, classes, test); err != nil {
		return nil, err
	}
	for _, name := range dd.Splits() {
		if err = dd[name].Validate(); err != nil {
			return nil, err
		}
	}

	logrus.WithFields(logrus.Fields{
		"dir":        dir,
		"classes":    classes.Len(),
		"train":      dd[Train].Len(),
		"validation": dd[Validation].Len(),
		"test":       dd[Test].Len(),
	}).Debug("corpus loaded")
	if dd[Train].Len() > 0 {
		eg := dd[Train].Example(0)
		logrus.WithFields(logrus.Fields{
			"id":    eg.ID,
			"text":  eg.Text,
			"label": classes.Name(eg.Label),
		}).Trace("first training example")
	}
	return dd, nil
}

// ReadClassLabel reads the ordered class names from a json array file
func ReadClassLabel(path string) (*ClassLabel, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, notFound(err, path)
	}
	var names []string
	if err := json.Unmarshal(buf, &names); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return NewClassLabel(names), nil
}

// build makes a split of all rows, ids count rows from zero
func build(name string, classes *ClassLabel, rows []row) (*Dataset, error) {
	examples := make([]Example, len(rows))
	for i, r := range rows {
		label, ok := classes.Index(r.category)
		if !ok {
			return nil, errorf(ErrUnknownLabel, "split %s: category %q", name, r.category)
		}
		examples[i] = Example{
			ID:    strconv.Itoa(i),
			Text:  r.text,
			Label: label,
		}
	}
	return FromExamples(name, classes, examples), nil
}

// renumber gives the rows of a selected split their own ids
func renumber(d *Dataset) *Dataset {
	for i := range d.IDs {
		d.IDs[i] = strconv.Itoa(i)
	}
	return d
}

// readRows reads the text and category columns of a csv file with a header row
func readRows(path string) ([]row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, notFound(err, path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	var text, category = -1, -1
	for i, column := range header {
		switch strings.TrimPrefix(column, "\ufeff") {
		case textColumn:
			text = i
		case categoryColumn:
			category = i
		}
	}
	if text < 0 {
		return nil, errorf(ErrMissingColumn, "%s: %s", path, textColumn)
	}
	if category < 0 {
		return nil, errorf(ErrMissingColumn, "%s: %s", path, categoryColumn)
	}

	var rows []row
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", path)
		}
		rows = append(rows, row{
			text:     field(record, text),
			category: field(record, category),
		})
	}
	return rows, nil
}

func field(record []string, i int) string {
	if i < len(record) {
		return record[i]
	}
	return ""
}

func notFound(err error, path string) error {
	if errors.Is(err, fs.ErrNotExist) {
		return errorf(ErrResourceNotFound, "%s", path)
	}
	return errors.Wrapf(err, "open %s", path)
}
