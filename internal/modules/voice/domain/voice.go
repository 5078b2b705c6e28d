package domain

import (
	"fmt"
	"strings"

	apperrors "qrnav/internal/platform/errors"
)

const MaxTextLength = 500

type Metadata struct {
	Engine  string
	Name    string
	Version string
}

// NormalizeText collapses whitespace and bounds the announcement length.
func NormalizeText(text string) (string, error) {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return "", fmt.Errorf("speech text is empty: %w", apperrors.ErrInvalidInput)
	}
	if r := []rune(text); len(r) > MaxTextLength {
		text = string(r[:MaxTextLength])
	}
	return text, nil
}
