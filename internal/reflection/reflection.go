// Package reflection turns raw reflection text into events and hands them to
// the engine.
package reflection

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/julianstephens/reflekt/internal/constants"
	apperrors "github.com/julianstephens/reflekt/internal/errors"
)

var (
	labelledMood = regexp.MustCompile(`(?i)moodScore:\s*(\d+)`)
	bareNumber   = regexp.MustCompile(`\d+`)
)

// Sanitize trims the text, collapses runs of whitespace into single spaces
// and truncates it to the maximum reflection length.
func Sanitize(text string) string {
	s := strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(s) > constants.MaxReflectionLength {
		s = string([]rune(s)[:constants.MaxReflectionLength])
	}
	return s
}

// Validate checks the length bounds and returns the sanitized text.
func Validate(text string) (string, error) {
	collapsed := strings.Join(strings.Fields(text), " ")
	n := utf8.RuneCountInString(collapsed)

	switch {
	case n < constants.MinReflectionLength:
		return "", apperrors.Invalid("reflection is too short, write at least %d characters", constants.MinReflectionLength)
	case n > constants.MaxReflectionLength:
		return "", apperrors.Invalid("reflection is too long, keep it under %d characters", constants.MaxReflectionLength)
	}
	return Sanitize(collapsed), nil
}

// WordCount counts whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// ParseMoodScore extracts a mood score from feedback text. A "moodScore: N"
// label wins; otherwise the first number in the text is used. Scores outside
// 1..100 are treated as absent, never clamped. The returned text has the
// label removed.
func ParseMoodScore(analysis string) (*int, string) {
	if m := labelledMood.FindStringSubmatch(analysis); m != nil {
		cleaned := strings.TrimSpace(labelledMood.ReplaceAllString(analysis, ""))
		return validMood(m[1]), cleaned
	}
	if m := bareNumber.FindString(analysis); m != "" {
		return validMood(m), strings.TrimSpace(analysis)
	}
	return nil, strings.TrimSpace(analysis)
}

func validMood(digits string) *int {
	v, err := strconv.Atoi(digits)
	if err != nil || v < constants.MinMoodScore || v > constants.MaxMoodScore {
		return nil
	}
	return &v
}
