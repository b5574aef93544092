package errors

import (
	"strings"
	"unicode"
)

// maxIdentifierLength bounds entity, attribute, and table names.
const maxIdentifierLength = 256

// ValidateIdentifier validates an entity or attribute name.
// kind is used in the error message ("entity", "attribute").
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters or null bytes
//   - Maximum length of 256 characters
func ValidateIdentifier(kind, name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidSchema, "%s name cannot be empty", kind)
	}

	if len(name) > maxIdentifierLength {
		return New(ErrCodeInvalidSchema, "%s name too long (max %d characters)", kind, maxIdentifierLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidSchema, "%s name %q contains invalid control characters", kind, name)
		}
	}

	return nil
}

// ValidateRelativePath validates a project-relative file path used as an
// ownership key. It rejects absolute paths and traversal sequences.
func ValidateRelativePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidInput, "path must be relative (cannot start with /): %s", path)
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidInput, "path cannot contain path traversal sequences (..): %s", path)
	}

	return nil
}
