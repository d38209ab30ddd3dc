package input

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// LookupEncoding resolves a WHATWG encoding label.
func LookupEncoding(name string) (encoding.Encoding, error) {
	label := strings.ToLower(strings.TrimSpace(name))
	if label == "" || label == DefaultEncoding || label == "utf8" {
		return unicode.UTF8BOM, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
	return enc, nil
}

// newCSVReader wraps r with the configured decoder. UTF-8 input has a
// leading byte order mark stripped.
func newCSVReader(r io.Reader, s *settings) (*csv.Reader, error) {
	enc, err := LookupEncoding(s.encoding)
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(transform.NewReader(r, enc.NewDecoder()))
	cr.FieldsPerRecord = -1 // column count is checked per row
	cr.LazyQuotes = true
	cr.ReuseRecord = true
	return cr, nil
}

// readRecord returns the next record and its line number. Blank lines are
// skipped by encoding/csv itself.
func readRecord(cr *csv.Reader) ([]string, int, error) {
	rec, err := cr.Read()
	if err != nil {
		if pe, ok := err.(*csv.ParseError); ok {
			return nil, pe.StartLine, &RowError{Line: pe.StartLine, Err: fmt.Errorf("%w: %v", ErrMalformedCSV, pe.Err)}
		}
		return nil, 0, err
	}
	line, _ := cr.FieldPos(0)
	return rec, line, nil
}

// checkHeader validates the header row against want.
func checkHeader(cr *csv.Reader, want []string) error {
	rec, line, err := readRecord(cr)
	if err == io.EOF {
		return ErrEmptyFile
	}
	if err != nil {
		return err
	}
	if len(rec) != len(want) {
		return &RowError{Line: line, Err: ErrInvalidHeader}
	}
	for i := range want {
		if rec[i] != want[i] {
			return &RowError{Line: line, Err: ErrInvalidHeader}
		}
	}
	return nil
}
