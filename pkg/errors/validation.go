package errors

import (
	"strings"
	"unicode"
)

// ValidateColumnName validates a feature column name for safety and
// correctness before it reaches the container or a plot request.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - Maximum length of 256 characters
//
// Structural rules (uniqueness, presence in the grid) are enforced by the
// explain package; this only rejects names that could never be valid.
func ValidateColumnName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidColumn, "column name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidColumn, "column name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidColumn, "column name contains invalid control characters")
		}
	}

	return nil
}

// ValidateExplanationID validates a stored-explanation identifier as used
// in API routes and store keys. IDs are UUID-shaped: hex digits and
// hyphens only. The exact UUID layout is not enforced here since file
// stores accept caller-chosen IDs.
func ValidateExplanationID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "explanation ID cannot be empty")
	}

	if len(id) > 64 {
		return New(ErrCodeInvalidInput, "explanation ID too long (max 64 characters)")
	}

	for _, r := range id {
		ok := r == '-' ||
			(r >= '0' && r <= '9') ||
			(r >= 'a' && r <= 'f') ||
			(r >= 'A' && r <= 'F')
		if !ok {
			return New(ErrCodeInvalidInput, "explanation ID contains invalid characters")
		}
	}

	return nil
}

// ValidateOutputPath validates a user-supplied output file path.
// It prevents path traversal out of the working tree and rejects
// unreasonable paths.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No parent-directory traversal sequences (..)
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "output path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "output path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "output path contains invalid characters")
		}
	}

	for _, part := range strings.Split(strings.ReplaceAll(path, "\\", "/"), "/") {
		if part == ".." {
			return New(ErrCodeInvalidInput, "output path cannot contain path traversal sequences")
		}
	}

	return nil
}
