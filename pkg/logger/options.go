package logger

import "io"

type options struct {
	output io.Writer
	json   bool
}

// Option configures New and Init.
type Option func(*options)

// WithOutput sets the destination of log records. Nil is ignored.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.output = w
		}
	}
}

// WithJSON switches from text to JSON records.
func WithJSON() Option {
	return func(o *options) { o.json = true }
}
