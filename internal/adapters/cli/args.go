// Package cli processes the command line of the ranking binary.
package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Usage describes the expected command line.
const Usage = "usage: ranking <entry-file> <score-file>"

// Paths are the validated input file paths.
type Paths struct {
	Entry string
	Score string
}

// ParseArgs validates the positional arguments, program name excluded.
// Exactly two paths are required and both must exist.
func ParseArgs(args []string) (Paths, error) {
	if len(args) != 2 {
		return Paths{}, ErrArgCount
	}
	p := Paths{Entry: args[0], Score: args[1]}
	if err := mustExist("entry", p.Entry); err != nil {
		return Paths{}, err
	}
	if err := mustExist("score", p.Score); err != nil {
		return Paths{}, err
	}
	return p, nil
}

func mustExist(kind, path string) error {
	_, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s %w: %s", kind, ErrFileNotFound, path)
	}
	if err != nil {
		return fmt.Errorf("stat %s file: %w", kind, err)
	}
	return nil
}

// IsUsageError reports whether err is one of the argument errors whose
// message is shown to the user unchanged.
func IsUsageError(err error) bool {
	return errors.Is(err, ErrArgCount) || errors.Is(err, ErrFileNotFound)
}
