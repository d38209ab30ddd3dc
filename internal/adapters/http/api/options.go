package api

import "github.com/okian/hiscore/pkg/logger"

type options struct {
	maxUploadBytes int64
	tempDir        string
	logger         logger.Logger
}

// Option configures NewServer.
type Option func(*options)

// WithMaxUploadBytes caps the size of an upload request body.
func WithMaxUploadBytes(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxUploadBytes = n
		}
	}
}

// WithTempDir sets where uploads are staged. Empty keeps os.TempDir().
func WithTempDir(dir string) Option {
	return func(o *options) {
		if dir != "" {
			o.tempDir = dir
		}
	}
}

// WithLogger sets the handler logger.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
