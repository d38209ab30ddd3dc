package fixtures

import (
	"fmt"

	"github.com/okian/hiscore/internal/domain/types"
)

// Compare checks remote against local row by row and reports the first
// difference.
func Compare(local, remote []types.Entry) error {
	if len(local) != len(remote) {
		return fmt.Errorf("%w: %d local rows, %d remote rows", ErrMismatch, len(local), len(remote))
	}
	for i := range local {
		if local[i] != remote[i] {
			return fmt.Errorf("%w: row %d: local %+v, remote %+v", ErrMismatch, i+1, local[i], remote[i])
		}
	}
	return nil
}
