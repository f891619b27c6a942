package tokenise

import "github.com/pkg/errors"

// Encoding is the output of a tokeniser for one text
type Encoding struct {
	InputIDs []int

	// AttentionMask is 1 for real tokens, 0 for padding; nil when the tokeniser has none
	AttentionMask []int
}

// Tokeniser converts text into token ids and back.
// Implementations must be safe for concurrent use.
type Tokeniser interface {
	Encode(text string) (Encoding, error)
	Decode(ids []int, skipSpecialTokens bool) string
}

// ErrMissingField is returned when a dataset lacks the text or label column
var ErrMissingField = errors.New("missing field")

// MissingFieldError names the absent column
type MissingFieldError struct {
	Split string
	Field string
}

func (e *MissingFieldError) Error() string {
	if e.Split == "" {
		return "missing field " + e.Field
	}
	return "split " + e.Split + ": missing field " + e.Field
}

// Is makes errors.Is(err, ErrMissingField) hold
func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}
