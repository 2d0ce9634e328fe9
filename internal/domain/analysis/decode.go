package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ActionCaptionCount is the number of panels in the action plan triptych.
const ActionCaptionCount = 3

var codeFence = regexp.MustCompile("```json\\n?|```")

// StripCodeFence removes markdown code fences the model may wrap around JSON.
func StripCodeFence(s string) string {
	return strings.TrimSpace(codeFence.ReplaceAllString(s, ""))
}

// Decode parses raw model output into a validated Result.
// Any failure wraps ErrEmptyResponse or ErrInvalidResponse.
func Decode(raw string) (*Result, error) {
	text := StripCodeFence(raw)
	if text == "" {
		return nil, ErrEmptyResponse
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	var missing []string
	for _, k := range RequiredFields {
		if _, ok := fields[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing fields %s", ErrInvalidResponse, strings.Join(missing, ", "))
	}

	var res Result
	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	if err := dec.Decode(&res); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	// image fields belong to the second phase, never to the model
	res.ImageURL = ""
	res.ActionImageURL = ""

	if err := res.Validate(); err != nil {
		return nil, err
	}
	return &res, nil
}

// Validate checks the shape guarantees of a decoded result and canonicalises
// enum values. Nil lists become empty lists.
func (r *Result) Validate() error {
	required := []struct {
		name, val string
	}{
		{"summary", r.Summary},
		{"professionalExplanation", r.ProfessionalExplanation},
		{"explanation", r.Explanation},
		{"cardSummary", r.CardSummary},
		{"visualConcept", r.VisualConcept},
		{"visualLabel", r.VisualLabel},
		{"visualExplanation", r.VisualExplanation},
		{"anxietyRelief", r.AnxietyRelief},
	}
	var empty []string
	for _, f := range required {
		if strings.TrimSpace(f.val) == "" {
			empty = append(empty, f.name)
		}
	}
	if len(empty) > 0 {
		return fmt.Errorf("%w: empty fields %s", ErrInvalidResponse, strings.Join(empty, ", "))
	}

	risk, ok := ParseRiskLevel(string(r.RiskLevel))
	if !ok {
		return fmt.Errorf("%w: riskLevel %q", ErrInvalidResponse, r.RiskLevel)
	}
	r.RiskLevel = risk

	sys, ok := ParseBodySystem(string(r.AffectedSystem))
	if !ok {
		return fmt.Errorf("%w: affectedSystem %q", ErrInvalidResponse, r.AffectedSystem)
	}
	r.AffectedSystem = sys

	if n := len(r.ActionVisualCaptions); n != 0 && n != ActionCaptionCount {
		return fmt.Errorf("%w: actionVisualCaptions has %d entries, want %d", ErrInvalidResponse, n, ActionCaptionCount)
	}

	for i, step := range r.ActionPlan {
		if strings.TrimSpace(step.Title) == "" {
			return fmt.Errorf("%w: actionPlan[%d] has no title", ErrInvalidResponse, i)
		}
	}

	r.StandardIllustrationID = strings.TrimSpace(r.StandardIllustrationID)
	if r.PotentialCauses == nil {
		r.PotentialCauses = []string{}
	}
	if r.ActionPlan == nil {
		r.ActionPlan = []ActionStep{}
	}
	if r.RedFlags == nil {
		r.RedFlags = []string{}
	}
	if r.References == nil {
		r.References = []string{}
	}
	return nil
}
