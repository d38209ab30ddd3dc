package input

import (
	"context"
	"io"
	"os"

	"github.com/okian/hiscore/internal/domain/model"
)

// EntryHeader is the required header of an entry file.
var EntryHeader = []string{"player_id", "handle_name"}

// ReadEntries parses an entry file into a roster. Blank lines are skipped
// and a repeated player id keeps the last handle name.
func ReadEntries(ctx context.Context, r io.Reader, opts ...Option) (model.Roster, error) {
	cr, err := newCSVReader(r, newSettings(opts))
	if err != nil {
		return nil, err
	}
	if err := checkHeader(cr, EntryHeader); err != nil {
		return nil, err
	}

	roster := make(model.Roster)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, line, err := readRecord(cr)
		if err == io.EOF {
			return roster, nil
		}
		if err != nil {
			return nil, err
		}
		if len(rec) != len(EntryHeader) {
			return nil, &RowError{Line: line, Err: ErrColumnCount}
		}
		if rec[0] == "" {
			return nil, &RowError{Line: line, Err: ErrEmptyPlayerID}
		}
		roster[rec[0]] = rec[1]
	}
}

// ReadEntriesFile opens path and reads it with ReadEntries. An open
// failure is returned as the *fs.PathError, which names path.
func ReadEntriesFile(ctx context.Context, path string, opts ...Option) (model.Roster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return ReadEntries(ctx, f, opts...)
}
