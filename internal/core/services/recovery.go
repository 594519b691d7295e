package services

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/procflow-labs/procflow-cli/internal/core/domain"
)

// Repair patterns. lineComment deliberately stops at end of line because
// the Go regexp dot does not match newlines.
var (
	lineComment   = regexp.MustCompile(`//.*`)
	trailingComma = regexp.MustCompile(`,(\s*[\]}])`)
)

// RecoverObject converts raw model output into a keyed object, repairing
// common defects on the way: prose wrapped around the JSON, // line
// comments, trailing commas, and a single missing closing brace/bracket.
//
// The ladder, each rung attempted only if the previous fails:
//
//  1. parse the raw text directly
//  2. take the greedy span from the first '{' to the last '}'
//  3. strip // line comments from the span
//  4. drop trailing commas before ']' or '}'
//  5. re-parse; on failure append one '}' (if missing) and one ']' (if
//     brackets are unbalanced) and parse once more
//
// This is a best-effort heuristic, not a parser: nested unbalanced braces
// beyond one closing pass still fail, with *domain.MalformedOutputError
// carrying the original text for inspection.
func RecoverObject(rawText string) (map[string]any, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(rawText), &obj); err == nil {
		return obj, nil
	}

	first := strings.Index(rawText, "{")
	last := strings.LastIndex(rawText, "}")
	if first < 0 || last <= first {
		return nil, domain.NewMalformedOutputError(rawText)
	}
	candidate := rawText[first : last+1]

	cleaned := lineComment.ReplaceAllString(candidate, "")
	cleaned = trailingComma.ReplaceAllString(cleaned, "$1")

	if err := json.Unmarshal([]byte(cleaned), &obj); err == nil {
		return obj, nil
	}

	// Best-effort auto-close for truncated output. One pass only.
	if !strings.HasSuffix(strings.TrimSpace(cleaned), "}") {
		cleaned += "}"
	}
	if strings.Count(cleaned, "[") > strings.Count(cleaned, "]") {
		cleaned += "]"
	}

	if err := json.Unmarshal([]byte(cleaned), &obj); err == nil {
		return obj, nil
	}

	return nil, domain.NewMalformedOutputError(rawText)
}
