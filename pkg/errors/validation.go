package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateDirection checks that s names one of the four axis orientations.
// Direction is the one configuration value that must fail fast: every
// geometry formula depends on it.
func ValidateDirection(s string) error {
	switch s {
	case "up", "down", "left", "right":
		return nil
	case "":
		return New(ErrCodeInvalidDirection, "direction cannot be empty")
	default:
		return New(ErrCodeInvalidDirection, "unknown direction %q (must be one of: up, down, left, right)", s)
	}
}

// ValidateDomain checks an explicit scale domain override.
// A nil domain means "derive from data" and is valid. A descending pair
// is valid and draws a reversed axis.
func ValidateDomain(domain []float64) error {
	if domain == nil {
		return nil
	}
	if len(domain) != 2 {
		return New(ErrCodeInvalidDomain, "domain must have exactly 2 values, got %d", len(domain))
	}
	for _, v := range domain {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return New(ErrCodeInvalidDomain, "domain values must be finite, got %v", domain)
		}
	}
	return nil
}

// ValidateKey validates an event key used for render reconciliation.
//
// Validation rules:
//   - Key cannot be empty
//   - Maximum length of 256 characters
//   - No control characters
func ValidateKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidEvent, "event key cannot be empty")
	}
	if len(key) > 256 {
		return New(ErrCodeInvalidEvent, "event key too long (max 256 characters)")
	}
	for _, r := range key {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidEvent, "event key contains invalid control characters")
		}
	}
	return nil
}

// ValidatePath validates an input file path given to the loaders.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid control characters")
		}
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL uses one of the allowed schemes.
func ValidateURL(rawURL string, schemes ...string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	if len(schemes) == 0 {
		schemes = []string{"http", "https"}
	}
	for _, s := range schemes {
		if strings.HasPrefix(rawURL, s+"://") {
			return nil
		}
	}
	return New(ErrCodeInvalidInput, "URL must use one of the schemes: %s", strings.Join(schemes, ", "))
}

// ValidateFormat checks that format is one of allowed. Matching is exact;
// callers lower-case user input first.
func ValidateFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unsupported format %q (must be one of: %s)", format, strings.Join(allowed, ", "))
}
