package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxNameLength bounds point, unit and placement names.
const maxNameLength = 256

// ValidateName validates a point or placement name from a layout file.
// Names become map keys, breadcrumb segments and DOT node labels, so the
// rules are conservative:
//   - No empty names
//   - No control characters or whitespace
//   - No '@' (reserved for placement results) and no '.' (breadcrumb separator)
//   - Maximum length of 256 characters
func ValidateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "name cannot be empty")
	}

	if len(name) > maxNameLength {
		return New(ErrCodeInvalidName, "name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidName, "name %q contains whitespace or control characters", name)
		}
	}

	if strings.ContainsAny(name, "@.") {
		return New(ErrCodeInvalidName, "name %q contains reserved characters ('@' or '.')", name)
	}

	return nil
}

// unitNameRegex matches names usable inside expressions.
var unitNameRegex = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// ValidateUnitName validates a units/variables key. Keys that are not valid
// identifiers could never be referenced from an expression.
func ValidateUnitName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "unit name cannot be empty")
	}
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidName, "unit name too long (max %d characters)", maxNameLength)
	}
	if !unitNameRegex.MatchString(name) {
		return New(ErrCodeInvalidName, "invalid unit name: %q", name)
	}
	return nil
}

// ValidatePath validates a file path given on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}

	return nil
}
