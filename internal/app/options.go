package service

import "github.com/okian/hiscore/pkg/logger"

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCutoff sets the ranking cutoff. Values below 1 are ignored.
func WithCutoff(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.cutoff = n
		}
	}
}

// WithEncoding sets the input encoding label. Empty keeps utf-8.
func WithEncoding(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.encoding = name
		}
	}
}
