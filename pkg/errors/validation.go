package errors

import (
	"strings"
	"unicode/utf8"
)

// ValidateTurtleInput validates raw Turtle text before parsing.
//
// The checks are intentionally cheap and run before any lexing:
//   - No empty or whitespace-only input
//   - Valid UTF-8
//   - No NUL bytes
//   - At most maxBytes bytes (0 disables the check)
func ValidateTurtleInput(text string, maxBytes int) error {
	if strings.TrimSpace(text) == "" {
		return New(ErrCodeInvalidInput, "no Turtle content provided")
	}
	if maxBytes > 0 && len(text) > maxBytes {
		return &SizeLimitError{Kind: LimitInput, Limit: maxBytes, Actual: len(text)}
	}
	if !utf8.ValidString(text) {
		return New(ErrCodeInvalidInput, "Turtle content is not valid UTF-8")
	}
	if strings.IndexByte(text, 0) >= 0 {
		return New(ErrCodeInvalidInput, "Turtle content contains NUL bytes")
	}
	return nil
}

// ValidateFilename validates an output filename for safety.
// It ensures the name is a simple basename without path components.
func ValidateFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidInput, "filename cannot be empty")
	}
	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidInput, "filename cannot contain path separators")
	}
	if strings.Contains(filename, "..") {
		return New(ErrCodeInvalidInput, "filename cannot contain path traversal sequences (..)")
	}
	return nil
}
