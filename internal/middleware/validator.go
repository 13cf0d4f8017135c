package middleware

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/bryanwahyu/boardroom-ai/internal/domain/ai"
)

// Input validation and sanitization utilities

const (
	MaxPromptLength = 8000
	MaxDocuments    = 20
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ErrInvalidInput is wrapped by every validation failure.
var ErrInvalidInput = errors.New("invalid input")

var tenantPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

// ValidatePrompt sanitizes the prompt and checks its length.
func ValidatePrompt(prompt string) (string, error) {
	p := SanitizeString(prompt)
	if p == "" {
		return "", invalid("prompt cannot be empty")
	}
	if n := utf8.RuneCountInString(p); n > MaxPromptLength {
		return "", invalid("prompt too long (%d chars, max %d)", n, MaxPromptLength)
	}
	return p, nil
}

// ValidateDocuments checks the document list and sanitizes names.
func ValidateDocuments(docs []ai.Document) ([]ai.Document, error) {
	if len(docs) > MaxDocuments {
		return nil, invalid("too many documents (%d, max %d)", len(docs), MaxDocuments)
	}
	out := make([]ai.Document, 0, len(docs))
	for i, d := range docs {
		name := SanitizeString(d.Name)
		if name == "" {
			return nil, invalid("document %d: name is required", i)
		}
		out = append(out, ai.Document{Name: name, ExtractedText: strings.ReplaceAll(d.ExtractedText, "\x00", "")})
	}
	return out, nil
}

// ValidateAction accepts an empty action or a predefined one.
func ValidateAction(action string) (ai.Action, error) {
	a, ok := ai.ParseAction(action)
	if !ok {
		return "", invalid("unknown action %q", action)
	}
	return a, nil
}

// ValidateTenantID validates tenant ID format
func ValidateTenantID(tenant string) error {
	if tenant == "" {
		return invalid("tenant ID cannot be empty")
	}

	// Allow alphanumeric, dash, underscore (max 64 chars)
	if !tenantPattern.MatchString(tenant) {
		return invalid("invalid tenant ID format (alphanumeric, dash, underscore only, max 64 chars)")
	}

	return nil
}

// ValidateAnalysisID accepts the ids produced by the service.
func ValidateAnalysisID(id string) error {
	if id == "" {
		return invalid("analysis ID cannot be empty")
	}
	if len(id) > 64 || strings.ContainsAny(id, "/\\ \t\n") {
		return invalid("invalid analysis ID format")
	}
	return nil
}

// ValidatePage clamps the page number
func ValidatePage(page int) int {
	if page <= 0 {
		return 1
	}
	return page
}

// ValidateLimit validates pagination limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return DefaultPageSize
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}
