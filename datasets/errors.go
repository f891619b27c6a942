package datasets

import "github.com/pkg/errors"

var (
	// ErrResourceNotFound is returned when a corpus directory or one of its files is absent
	ErrResourceNotFound = errors.New("resource not found")

	// ErrMissingColumn is returned when a csv resource lacks a required column
	ErrMissingColumn = errors.New("missing column")

	// ErrUnknownLabel is returned when a category is not part of the class label set
	ErrUnknownLabel = errors.New("unknown label")
)

func errorf(sentinel error, format string, args ...interface{}) error {
	return errors.Wrapf(sentinel, format, args...)
}
