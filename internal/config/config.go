// Package config defines service configuration structures and loading hooks.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"omitempty,oneof=debug info warn warning error DEBUG INFO WARN WARNING ERROR"`

	// Addr configures the HTTP listen address, e.g. ":9080". Server only.
	Addr string `koanf:"addr" validate:"required"`

	// RankingCutoff is the number of rank positions reported before ties
	// at the boundary are appended.
	RankingCutoff int `koanf:"ranking_cutoff" validate:"min=1"`

	// MaxUploadBytes caps the size of an upload request body. Server only.
	MaxUploadBytes int64 `koanf:"max_upload_bytes" validate:"min=1"`

	// TempDir is where uploads are staged. Empty means the OS temp dir.
	// Server only.
	TempDir string `koanf:"temp_dir" validate:"omitempty,dir"`

	// InputEncoding is the WHATWG label of the CSV input encoding.
	InputEncoding string `koanf:"input_encoding" validate:"required"`
}

// Defaults.
const (
	DefaultAddr           = ":9080"
	DefaultRankingCutoff  = 10
	DefaultMaxUploadBytes = 32 << 20
	DefaultInputEncoding  = "utf-8"
)

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		Addr:           DefaultAddr,
		RankingCutoff:  DefaultRankingCutoff,
		MaxUploadBytes: DefaultMaxUploadBytes,
		InputEncoding:  DefaultInputEncoding,
	}
}
