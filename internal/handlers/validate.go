package handlers

import (
	"strings"
	"unicode/utf8"

	"njora/internal/models"
)

// Validation limits for category and image fields.
const (
	maxCategoryLen = 100

	// maxContextBytes keeps the packed context inside the media service's
	// metadata size limit (2 KB per object on S3).
	maxContextBytes = 1800
)

// validateCategory checks a trimmed category name and returns the first
// error found. missing is the message used for an empty name.
func validateCategory(name, missing string) string {
	if name == "" {
		return missing
	}
	if utf8.RuneCountInString(name) > maxCategoryLen {
		return "Category name is too long (max 100 characters)"
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "Category name must not contain path separators"
	}
	return ""
}

// validateContext checks that the packed name and description fit the
// media service's metadata limit.
func validateContext(c models.Context) string {
	if len(c.Pack()) > maxContextBytes {
		return "Picture name and description are too long"
	}
	return ""
}
