// Package errors defines the error taxonomy shared across the linkhash
// library. It provides sentinel error values for the hash and URL domains
// and small wrapping utilities for adding context while preserving errors.Is
// comparability.
package errors

import "fmt"

// Common error types used throughout the library.
// Errors are grouped by their domain.
var (
	// Hash errors cover algorithm resolution and digest validation.

	// ErrUnknownAlgorithm is returned when a hash type label does not resolve
	// to any supported algorithm.
	ErrUnknownAlgorithm = fmt.Errorf("unknown hash algorithm")

	// ErrInvalidHash is returned when a digest is malformed: wrong length for
	// its algorithm, non-hexadecimal characters, or an unresolvable type.
	ErrInvalidHash = fmt.Errorf("invalid hash")

	// ErrInvalidCollection is returned when a hash collection is missing its
	// full hash or a record being loaded contains a malformed entry.
	ErrInvalidCollection = fmt.Errorf("invalid hash collection")

	// URL errors cover canonical URL construction.

	// ErrUnsupportedURL is returned when a URL's scheme is outside the
	// supported set (http, https, ftp, data) or the URL cannot be parsed.
	ErrUnsupportedURL = fmt.Errorf("unsupported URL")

	// ErrUnknownCharset is returned when a declared charset label does not
	// resolve to any known encoding.
	ErrUnknownCharset = fmt.Errorf("unknown charset")

	// Config errors are related to configuration file operations.

	// ErrConfigParse is returned when a config file cannot be parsed.
	ErrConfigParse = fmt.Errorf("failed to parse config")

	// ErrConfigValidation is returned when configuration values fail validation.
	ErrConfigValidation = fmt.Errorf("invalid configuration")

	// ErrConfigFileExists is returned when attempting to create a configuration
	// file that already exists (use --force to overwrite).
	ErrConfigFileExists = fmt.Errorf("configuration file already exists (use --force to overwrite)")
)

// Wrap wraps an error with additional context.
// If the error is nil, Wrap returns nil.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
// If the error is nil, Wrapf returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
