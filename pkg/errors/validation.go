package errors

import (
	"strings"
	"unicode"
)

// maxIDLength bounds node IDs so they stay usable as SVG element IDs and cache key parts.
const maxIDLength = 256

// ValidateID validates a node ID. IDs are optional on nodes, but when present
// they must be addressable from a link reference.
//
// The validation rules:
//   - No empty IDs
//   - Maximum length of 256 characters
//   - No whitespace or control characters
//   - No leading or trailing '.', which would make "<id>.<position>" ambiguous
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "id cannot be empty")
	}

	if len(id) > maxIDLength {
		return New(ErrCodeInvalidID, "id too long (max %d characters)", maxIDLength).At(id[:32]+"...", "")
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidID, "id contains whitespace or control characters").At(id, "")
		}
	}

	if strings.HasPrefix(id, ".") || strings.HasSuffix(id, ".") {
		return New(ErrCodeInvalidID, "id cannot start or end with '.'").At(id, "")
	}

	return nil
}

// ValidateReference validates the syntax of a link endpoint reference
// ("<item-id>.<position>" or "<anchor-id>"). Whether the reference resolves
// is checked later against the schematic.
func ValidateReference(ref string) error {
	if ref == "" {
		return New(ErrCodeInvalidAnchorReference, "anchor reference cannot be empty")
	}
	for _, r := range ref {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidAnchorReference, "anchor reference %q contains whitespace or control characters", ref)
		}
	}
	return nil
}
