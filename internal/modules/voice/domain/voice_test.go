package domain_test

import (
	"errors"
	"strings"
	"testing"

	"qrnav/internal/modules/voice/domain"
	apperrors "qrnav/internal/platform/errors"
)

func TestNormalizeText(t *testing.T) {
	t.Parallel()
	got, err := domain.NormalizeText("  Direction to Hall:\n Go straight ")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if got != "Direction to Hall: Go straight" {
		t.Fatalf("unexpected text %q", got)
	}
	if _, err := domain.NormalizeText(" \t "); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("blank text should be invalid, got %v", err)
	}
	long, _ := domain.NormalizeText(strings.Repeat("a", domain.MaxTextLength+20))
	if len(long) != domain.MaxTextLength {
		t.Fatalf("text should be capped, got %d", len(long))
	}
}
