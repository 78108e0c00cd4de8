// Package tools implements the assistant-facing tools: argument validation,
// the closed tool registry and the batch dispatcher.
package tools

import (
	"strconv"
	"strings"

	"github.com/hireloop/concierge/domain"
)

// VocabularyMode selects how untrusted skill lists are validated.
type VocabularyMode string

const (
	// VocabularyOpen accepts any nonempty skill list verbatim and treats
	// absent or malformed fields as "no filter".
	VocabularyOpen VocabularyMode = "open"
	// VocabularyClosed substitutes system defaults for absent or malformed
	// fields and replaces skill lists that miss the known vocabulary
	// entirely.
	VocabularyClosed VocabularyMode = "closed"
)

// DefaultBudget is the budget substituted in closed mode when the assistant
// supplies none.
const DefaultBudget = 10_000_000

// Validator normalizes untrusted tool-call arguments. It never fails:
// malformed values degrade to defaults (closed mode) or to an absent filter
// (open mode).
type Validator struct {
	mode       VocabularyMode
	vocabulary map[string]struct{}
	fallback   []string
}

// NewValidator creates a validator for the given mode and known-skill set.
func NewValidator(mode VocabularyMode, vocabulary []string) *Validator {
	known := make(map[string]struct{}, len(vocabulary))
	for _, skill := range vocabulary {
		known[strings.ToLower(skill)] = struct{}{}
	}
	return &Validator{
		mode:       mode,
		vocabulary: known,
		fallback:   vocabulary,
	}
}

// Validate derives query arguments from the raw payload.
func (v *Validator) Validate(args map[string]any) domain.QueryArgs {
	out := domain.QueryArgs{
		FullTime: v.jobType(args["jobType"]),
		Budget:   v.budget(args["budget"]),
		Skills:   v.skills(args["skills"]),
	}
	return out
}

func (v *Validator) jobType(raw any) *bool {
	if s, ok := raw.(string); ok {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "full time":
			fullTime := true
			return &fullTime
		case "part time":
			fullTime := false
			return &fullTime
		}
	}
	if v.mode == VocabularyClosed {
		fullTime := true
		return &fullTime
	}
	return nil
}

func (v *Validator) budget(raw any) *float64 {
	switch b := raw.(type) {
	case float64:
		if b > 0 {
			return &b
		}
	case string:
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(b), 64); err == nil && parsed > 0 {
			return &parsed
		}
	}
	if v.mode == VocabularyClosed {
		budget := float64(DefaultBudget)
		return &budget
	}
	return nil
}

func (v *Validator) skills(raw any) []string {
	var tokens []string
	if s, ok := raw.(string); ok {
		for _, token := range strings.Split(strings.ToLower(s), ",") {
			if token = strings.TrimSpace(token); token != "" {
				tokens = append(tokens, token)
			}
		}
	}

	if v.mode == VocabularyOpen {
		return tokens
	}

	// Closed mode: a list that misses the vocabulary entirely is replaced by
	// the full known-skill set, trading user intent for nonempty results.
	for _, token := range tokens {
		if _, known := v.vocabulary[token]; known {
			return tokens
		}
	}
	return v.fallback
}
