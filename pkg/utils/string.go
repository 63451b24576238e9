// Package utils provides common utility functions.
package utils

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// StringHelper provides string utility functions.
type StringHelper struct{}

// NewStringHelper creates a new string helper.
func NewStringHelper() *StringHelper {
	return &StringHelper{}
}

// NormalizeWhitespace trims the string and collapses internal whitespace runs to one space.
func (s *StringHelper) NormalizeWhitespace(str string) string {
	return strings.Join(strings.Fields(str), " ")
}

// TruncateWidth shortens str to at most maxWidth display columns, marking the cut with "…".
// A non-positive maxWidth disables truncation.
func (s *StringHelper) TruncateWidth(str string, maxWidth int) string {
	if maxWidth <= 0 || runewidth.StringWidth(str) <= maxWidth {
		return str
	}

	return runewidth.Truncate(str, maxWidth, "…")
}

// Pad right-pads str with spaces to width display columns.
func (s *StringHelper) Pad(str string, width int) string {
	return runewidth.FillRight(str, width)
}

// PadLeft left-pads str with spaces to width display columns.
func (s *StringHelper) PadLeft(str string, width int) string {
	return runewidth.FillLeft(str, width)
}
