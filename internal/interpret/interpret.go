// Package interpret turns untrusted free-text oracle replies into typed
// decision records.
//
// The oracle is instructed to answer with a single JSON object, but nothing
// enforces that: replies arrive wrapped in prose, markdown fences, with
// camelCase instead of snake_case keys, or not as JSON at all. Extraction is
// best effort and a parse failure degrades to a deterministic fallback
// instead of an error, so the interview always makes progress. Liveness over
// accuracy.
package interpret

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Decision is the oracle's verdict on one submitted answer.
type Decision struct {
	IsValid         bool
	NextQuestion    string
	Clarification   string
	IsRootFound     bool
	RootCause       string
	Recommendations []string
}

// Placeholder summary used when even the summary round trip came back
// unparsable.
const (
	fallbackRootCause      = "نیاز به بررسی بیشتر"
	fallbackRecommendation = "تحلیل را با جزئیات بیشتر تکرار کنید"
)

// Interpret parses a decision out of raw oracle text. fallbackAnswer is the
// user's submitted answer, used to synthesize the next question when the
// reply is unusable. Never fails.
func Interpret(raw, fallbackAnswer string) Decision {
	obj, err := extractObject(raw)
	if err != nil {
		return Decision{
			IsValid:         true,
			NextQuestion:    fmt.Sprintf("چرا %s?", fallbackAnswer),
			Recommendations: []string{},
		}
	}

	return Decision{
		IsValid:         boolField(obj, true, "is_valid", "isValid"),
		NextQuestion:    stringField(obj, "next_question", "nextQuestion"),
		Clarification:   stringField(obj, "clarification_message", "clarification", "clarificationMessage"),
		IsRootFound:     boolField(obj, false, "is_root_found", "isRootFound"),
		RootCause:       stringField(obj, "root_cause", "rootCause"),
		Recommendations: stringListField(obj, "recommendations"),
	}
}

// InterpretSummary parses the final {root_cause, recommendations} object out
// of raw oracle text. On failure it returns fixed placeholders. Never fails.
func InterpretSummary(raw string) (string, []string) {
	obj, err := extractObject(raw)
	if err != nil {
		return fallbackRootCause, []string{fallbackRecommendation}
	}

	rootCause := stringField(obj, "root_cause", "rootCause")
	if rootCause == "" {
		return fallbackRootCause, []string{fallbackRecommendation}
	}
	recs := stringListField(obj, "recommendations")
	if len(recs) == 0 {
		recs = []string{fallbackRecommendation}
	}
	return rootCause, recs
}

// extractObject locates a JSON object embedded in free text. The first/last
// brace substring is tried first; if braces inside string values break that
// heuristic, a balanced scan from the first brace is tried before giving up.
func extractObject(raw string) (map[string]json.RawMessage, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in text")
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw[start:end+1]), &obj); err == nil {
		return obj, nil
	}

	candidate, ok := scanObject(raw[start:])
	if !ok {
		return nil, fmt.Errorf("unbalanced JSON object in text")
	}
	if err := json.Unmarshal([]byte(candidate), &obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// scanObject walks s (which must start at '{') tracking brace depth and
// string/escape state, returning the first complete object.
func scanObject(s string) (string, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[:i+1], true
			}
		}
	}
	return "", false
}

// boolField returns the first key that decodes as a bool, else def.
func boolField(obj map[string]json.RawMessage, def bool, keys ...string) bool {
	for _, k := range keys {
		if raw, ok := obj[k]; ok {
			var v bool
			if err := json.Unmarshal(raw, &v); err == nil {
				return v
			}
		}
	}
	return def
}

// stringField returns the first key that decodes as a non-null string.
func stringField(obj map[string]json.RawMessage, keys ...string) string {
	for _, k := range keys {
		if raw, ok := obj[k]; ok {
			var v string
			if err := json.Unmarshal(raw, &v); err == nil {
				return v
			}
		}
	}
	return ""
}

// stringListField returns the first key that decodes as a string list, else
// an empty list. Null and absent both mean "no entries".
func stringListField(obj map[string]json.RawMessage, keys ...string) []string {
	for _, k := range keys {
		if raw, ok := obj[k]; ok {
			var v []string
			if err := json.Unmarshal(raw, &v); err == nil && v != nil {
				return v
			}
		}
	}
	return []string{}
}
