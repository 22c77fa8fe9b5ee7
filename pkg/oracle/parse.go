package oracle

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/stefanpenner/unfold/pkg/store"
)

// FallbackReflection replaces an empty reflection answer.
const FallbackReflection = "No reflection available at this time."

var codeFenceRegex = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?```")

// ErrMalformed is returned when a response holds no usable JSON object.
var ErrMalformed = errors.New("malformed oracle response")

// DecodeProposal extracts a proposal from a model answer. Code fences and
// surrounding prose are tolerated. Each field is checked on its own: a missing
// or wrong-typed field stays empty and the rest of the proposal survives.
func DecodeProposal(text string) (store.Proposal, error) {
	raw, ok := extractObject(text)
	if !ok {
		return store.Proposal{}, fmt.Errorf("%w: no JSON object found", ErrMalformed)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return store.Proposal{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	p := store.Proposal{
		Title:       stringField(fields["title"]),
		Description: stringField(fields["description"]),
		Milestones:  milestoneTexts(fields["milestones"]),
	}
	if t, ok := store.ParseGoalType(stringField(fields["type"])); ok {
		p.Type = t
	}
	return p, nil
}

// stringField returns the trimmed string in raw, or "" for anything else.
func stringField(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// milestoneTexts keeps every entry that is a string or {"text": string}.
// Anything that is not an array yields no milestones.
func milestoneTexts(raw json.RawMessage) []string {
	var items []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &items) != nil {
		return nil
	}

	var out []string
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			out = append(out, s)
			continue
		}
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(item, &obj); err != nil {
			continue
		}
		text, ok := obj["text"]
		if !ok || json.Unmarshal(text, &s) != nil {
			continue
		}
		out = append(out, s)
	}
	return out
}

// ReflectionText cleans a reflection answer.
func ReflectionText(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return FallbackReflection
	}
	return text
}

func extractObject(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if m := codeFenceRegex.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}
	if json.Valid([]byte(text)) && strings.HasPrefix(text, "{") {
		return text, true
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}
