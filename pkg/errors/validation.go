package errors

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxFieldLength is the longest accepted declaration field value, in runes.
const MaxFieldLength = 512

// ValidateFieldValue checks a single declaration field value for safety.
// Empty values are accepted here; completeness is checked separately.
//
// The validation rules are intentionally conservative:
//   - Must be valid UTF-8
//   - No control characters other than newline and tab (addresses span lines)
//   - Maximum length of MaxFieldLength runes
func ValidateFieldValue(name, value string) error {
	if !utf8.ValidString(value) {
		return New(ErrCodeInvalidInput, "%s is not valid UTF-8", name)
	}
	if n := utf8.RuneCountInString(value); n > MaxFieldLength {
		return New(ErrCodeInvalidInput, "%s too long (%d characters, max %d)", name, n, MaxFieldLength)
	}
	for _, r := range value {
		if r == '\n' || r == '\t' || r == '\r' {
			continue
		}
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "%s contains invalid control characters", name)
		}
	}
	return nil
}

// ValidateFileName validates an output file name for safety.
// It ensures the name is a simple basename without path components.
func ValidateFileName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPath, "file name cannot be empty")
	}

	const maxNameLength = 255
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidPath, "file name too long (max %d bytes)", maxNameLength)
	}

	for _, r := range name {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "file name contains invalid characters")
		}
	}

	// Must be a simple filename, not a path
	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidPath, "file name cannot contain path separators")
	}
	if name == "." || name == ".." {
		return New(ErrCodeInvalidPath, "file name cannot be %q", name)
	}

	return nil
}
