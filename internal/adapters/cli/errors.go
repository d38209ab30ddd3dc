package cli

import "errors"

var (
	// ErrArgCount is returned when the number of positional arguments is not two.
	ErrArgCount = errors.New("invalid number of arguments")
	// ErrFileNotFound is returned when an input path does not exist.
	ErrFileNotFound = errors.New("file not found")
)
