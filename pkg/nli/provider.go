// Package nli abstracts natural-language-inference classification: given a
// premise/hypothesis pair, a provider returns one of the three standard
// labels plus the per-label scores.
package nli

import "context"

// Labels every provider must normalize its output to.
const (
	LabelContradiction = "contradiction"
	LabelEntailment    = "entailment"
	LabelNeutral       = "neutral"
)

// Result is the classification of one premise/hypothesis pair.
type Result struct {
	Label  string             `json:"label"`
	Scores map[string]float64 `json:"scores"`
}

// Provider defines the contract for any NLI backend
type Provider interface {
	// Classify returns the arg-max label over the three NLI classes for the
	// pair, premise first.
	Classify(ctx context.Context, premise, hypothesis string) (*Result, error)
}
