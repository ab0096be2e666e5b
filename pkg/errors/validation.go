package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateShapeName validates a shape name before it enters a registry.
//
// Shape names end up as map keys in the host's renderer tables and as
// lookup keys in graph files, so the rules are conservative:
//   - No empty names
//   - Maximum length of 64 characters
//   - Letters, digits, '-', '_' and '.' only
func ValidateShapeName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidShape, "shape name cannot be empty")
	}

	const maxShapeNameLength = 64
	if len(name) > maxShapeNameLength {
		return New(ErrCodeInvalidShape, "shape name too long (max %d characters)", maxShapeNameLength)
	}

	if !shapeNameRegex.MatchString(name) {
		return New(ErrCodeInvalidShape, "invalid shape name: %q", name)
	}

	return nil
}

var shapeNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateNodeID validates a node identifier.
//
// Node ids are embedded in generated element ids (clip paths are namespaced
// by node id) and in data attributes, so whitespace and control characters
// are rejected.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidGraph, "node id cannot be empty")
	}

	const maxNodeIDLength = 256
	if len(id) > maxNodeIDLength {
		return New(ErrCodeInvalidGraph, "node id too long (max %d characters)", maxNodeIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidGraph, "node id %q contains whitespace or control characters", id)
		}
	}

	if strings.ContainsAny(id, `"'<>#`) {
		return New(ErrCodeInvalidGraph, "node id %q contains reserved characters", id)
	}

	return nil
}

// ValidateImageURL validates an overlay image reference.
// Accepted forms are http(s) URLs, file:// URLs and plain relative or
// absolute file paths.
func ValidateImageURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "image URL cannot be empty")
	}

	for _, r := range rawURL {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "image URL contains invalid characters")
		}
	}

	if i := strings.Index(rawURL, "://"); i >= 0 {
		switch strings.ToLower(rawURL[:i]) {
		case "http", "https", "file":
		default:
			return New(ErrCodeInvalidInput, "image URL must use http, https or file scheme: %q", rawURL)
		}
	}

	return nil
}
