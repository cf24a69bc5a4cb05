package service

import (
	"regexp"
	"strings"
)

// Keeps letters, digits, underscore, whitespace and the question marks used in
// Spanish. Everything else is stripped.
var disallowedChars = regexp.MustCompile(`[^\p{L}\p{N}_\s¿?]`)

// TextNormalizer sanitizes raw question text and bounds its length.
type TextNormalizer struct {
	maxLength int
}

func NewTextNormalizer(maxLength int) *TextNormalizer {
	if maxLength <= 0 {
		maxLength = 500
	}
	return &TextNormalizer{maxLength: maxLength}
}

// Normalize strips surrounding whitespace, removes disallowed characters and
// hard-truncates to the configured rune count. An input reduced to nothing
// comes back as the empty string; the orchestrator treats that as invalid.
func (n *TextNormalizer) Normalize(raw string) string {
	cleaned := disallowedChars.ReplaceAllString(strings.TrimSpace(raw), "")
	runes := []rune(cleaned)
	if len(runes) > n.maxLength {
		return string(runes[:n.maxLength])
	}
	return cleaned
}
