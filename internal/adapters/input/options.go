// Package input reads the entry (roster) and score CSV files.
package input

// DefaultEncoding is used when no encoding option is given.
const DefaultEncoding = "utf-8"

// settings holds reader configuration.
type settings struct {
	encoding string
}

// Option applies a configuration option to a reader.
type Option func(*settings)

// WithEncoding selects the character encoding of the input by its WHATWG
// label, e.g. "utf-8", "shift_jis" or "euc-jp". Empty keeps the default.
func WithEncoding(name string) Option {
	return func(s *settings) {
		if name != "" {
			s.encoding = name
		}
	}
}

func newSettings(opts []Option) *settings {
	s := &settings{encoding: DefaultEncoding}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
