package middleware

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/bryanwahyu/drcalm/internal/domain/analysis"
)

// Input validation and sanitization utilities

const (
	MaxTextRunes    = 4000
	MaxSymptoms     = 20
	MaxSymptomRunes = 100
	MaxNotesRunes   = 2000
)

// ErrInvalidInput marks client input that is present but unacceptable.
var ErrInvalidInput = errors.New("invalid input")

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")

	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

// ValidateText checks a free-text symptom description after sanitizing.
func ValidateText(text string) error {
	if n := utf8.RuneCountInString(text); n > MaxTextRunes {
		return fmt.Errorf("%w: text too long (%d > %d characters)", ErrInvalidInput, n, MaxTextRunes)
	}
	return nil
}

// ValidateGuidedQuery sanitizes q in place and canonicalises the body part.
func ValidateGuidedQuery(q *analysis.GuidedQuery) error {
	if q.BodyPart != "" {
		part, ok := analysis.ParseBodyPart(SanitizeString(q.BodyPart))
		if !ok {
			return fmt.Errorf("%w: unknown body part %q", ErrInvalidInput, q.BodyPart)
		}
		q.BodyPart = string(part)
	}

	if len(q.Symptoms) > MaxSymptoms {
		return fmt.Errorf("%w: too many symptoms (%d > %d)", ErrInvalidInput, len(q.Symptoms), MaxSymptoms)
	}
	for i, s := range q.Symptoms {
		s = SanitizeString(s)
		if utf8.RuneCountInString(s) > MaxSymptomRunes {
			return fmt.Errorf("%w: symptom %d too long", ErrInvalidInput, i)
		}
		q.Symptoms[i] = s
	}

	q.Notes = SanitizeString(q.Notes)
	if n := utf8.RuneCountInString(q.Notes); n > MaxNotesRunes {
		return fmt.Errorf("%w: notes too long (%d > %d characters)", ErrInvalidInput, n, MaxNotesRunes)
	}
	return nil
}
