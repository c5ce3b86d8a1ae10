package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue/token"

	"github.com/roach88/valobs/internal/config"
	"github.com/roach88/valobs/internal/store"
)

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeConfig      = "E002" // Config file invalid or unreadable
	ErrCodeLoadFailed  = "E003" // Package loading failed
	ErrCodeNotFound    = "E004" // Path not found
	ErrCodeCache       = "E005" // Cache unavailable
	ErrCodeWriteFailed = "E006" // Output could not be written
	ErrCodeBadFlag     = "E007" // Flag value out of range

	ErrCodeDiagnostics = "E_DIAGNOSTICS"
	ErrCodeTestFailed  = "E_TEST_FAILED"
)

// LoadError represents an error that occurred before generation started.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// loadConfig reads the configuration for opts.Dir.
func loadConfig(opts *RootOptions) (config.Config, error) {
	info, err := os.Stat(opts.Dir)
	if err != nil || !info.IsDir() {
		return config.Config{}, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("directory not found: %s", opts.Dir)}
	}

	cfg, err := config.Load(opts.Dir, opts.ConfigPath)
	if err != nil {
		var cfgErr *config.Error
		if errors.As(err, &cfgErr) && cfgErr.Pos.IsValid() {
			return config.Config{}, &LoadError{Code: ErrCodeConfig, Message: cfgErr.Message, Pos: cfgErr.Pos}
		}
		return config.Config{}, &LoadError{Code: ErrCodeConfig, Message: err.Error()}
	}
	if cfg.Source != "" {
		opts.Logger.Debug().Str("config", cfg.Source).Msg("loaded configuration")
	}
	return cfg, nil
}

// openCache opens the cache at path, resolved against dir.
func openCache(dir, path string) (*store.Store, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeCache, Message: err.Error()}
	}
	return st, nil
}

// commandError reports err through the formatter and returns the exit error
// for it.
func commandError(f *OutputFormatter, err error) error {
	code := ErrCodeGeneric
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		code = loadErr.Code
	}
	if outErr := f.Error(code, err.Error(), nil); outErr != nil {
		return outErr
	}
	return WrapExitError(ExitCommandError, "command failed", err)
}
