package input

import (
	"errors"
	"fmt"
)

// ErrInvalidFormat is matched by every format error below.
var ErrInvalidFormat = errors.New("invalid file format")

// Sentinel kinds for input errors. These allow errors.Is/As from callers.
var (
	ErrEmptyFile        = formatKind("file is empty")
	ErrInvalidHeader    = formatKind("invalid header")
	ErrColumnCount      = formatKind("invalid column count")
	ErrEmptyPlayerID    = formatKind("player_id is empty")
	ErrInvalidTimestamp = formatKind("invalid create_timestamp format")
	ErrNonNumericScore  = formatKind("score is not a number")
	ErrNegativeScore    = formatKind("score is negative")
	ErrScoreOutOfRange  = formatKind("score is out of range")
	ErrMalformedCSV     = formatKind("malformed csv")
	ErrUnknownEncoding  = errors.New("unknown input encoding")
)

// kindError is a format error kind that also matches ErrInvalidFormat.
type kindError struct{ msg string }

func formatKind(msg string) error { return &kindError{msg: msg} }

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Is(target error) bool { return target == ErrInvalidFormat }

// RowError reports the input line a format error was found on.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }

func (e *RowError) Unwrap() error { return e.Err }

// Reason returns a short label for a format error, suitable for metrics.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrEmptyFile):
		return "empty_file"
	case errors.Is(err, ErrInvalidHeader):
		return "invalid_header"
	case errors.Is(err, ErrColumnCount):
		return "column_count"
	case errors.Is(err, ErrEmptyPlayerID):
		return "empty_player_id"
	case errors.Is(err, ErrInvalidTimestamp):
		return "invalid_timestamp"
	case errors.Is(err, ErrNonNumericScore):
		return "non_numeric_score"
	case errors.Is(err, ErrNegativeScore):
		return "negative_score"
	case errors.Is(err, ErrScoreOutOfRange):
		return "score_out_of_range"
	case errors.Is(err, ErrInvalidFormat):
		return "malformed_csv"
	case errors.Is(err, ErrUnknownEncoding):
		return "unknown_encoding"
	default:
		return "other"
	}
}
