package model

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// ValidationError reports malformed user input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

var strict = bluemonday.StrictPolicy()

// Sanitize strips all markup from user-supplied text and trims whitespace.
// The policy escapes entities; they are decoded again because templates
// escape on output.
func Sanitize(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
