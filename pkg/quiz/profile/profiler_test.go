package profile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trulearn-be/internal/pkg/logger"
	"trulearn-be/pkg/llm"
	"trulearn-be/pkg/quiz"
)

// fakeLLM returns a canned response or error.
type fakeLLM struct {
	response string
	err      error
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	return f.response, f.err
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return f.response, f.err
}

func TestSplitCounts(t *testing.T) {
	tests := []struct {
		name     string
		mcRatio  float64
		wantMC   int
		wantOpen int
	}{
		{"balanced", 0.5, 5, 5},
		{"factual skew", 0.7, 7, 3},
		{"extreme open skew floors mc", 0.05, 2, 8},
		{"all open floors mc", 0.0, 2, 8},
		{"extreme mc skew floors open", 0.95, 8, 2},
		{"all mc floors open", 1.0, 8, 2},
		{"rounds up", 0.65, 7, 3},
		{"rounds down", 0.24, 2, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := quiz.ContentProfile{MCRatio: tt.mcRatio, OpenRatio: 1 - tt.mcRatio}
			numMC, numOpen := SplitCounts(p)

			assert.Equal(t, tt.wantMC, numMC)
			assert.Equal(t, tt.wantOpen, numOpen)
			assert.Equal(t, quiz.BatchSize, numMC+numOpen)
			assert.GreaterOrEqual(t, numMC, quiz.MinPerKind)
			assert.GreaterOrEqual(t, numOpen, quiz.MinPerKind)
		})
	}
}

func TestSplitCountsInvariantAcrossRange(t *testing.T) {
	for ratio := 0.0; ratio <= 1.0; ratio += 0.01 {
		p := quiz.ContentProfile{MCRatio: ratio, OpenRatio: 1 - ratio}
		numMC, numOpen := SplitCounts(p)
		require.Equal(t, quiz.BatchSize, numMC+numOpen, "ratio %v", ratio)
		require.GreaterOrEqual(t, numMC, quiz.MinPerKind, "ratio %v", ratio)
		require.GreaterOrEqual(t, numOpen, quiz.MinPerKind, "ratio %v", ratio)
	}
}

func TestProfileParsesModelResponse(t *testing.T) {
	provider := &fakeLLM{
		response: `{"multiple_choice_ratio": 0.7, "open_ended_ratio": 0.3, "reasoning": "mostly dates and names"}`,
	}
	p := NewProfiler(provider, logger.NewNopLogger())

	got := p.Profile(context.Background(), "some summary")

	assert.InDelta(t, 0.7, got.MCRatio, 1e-9)
	assert.InDelta(t, 0.3, got.OpenRatio, 1e-9)
	assert.Equal(t, "mostly dates and names", got.Reasoning)
}

func TestProfileToleratesCodeFencesAndProse(t *testing.T) {
	provider := &fakeLLM{
		response: "Here you go:\n```json\n{\"multiple_choice_ratio\": 0.6, \"open_ended_ratio\": 0.4, \"reasoning\": \"x\"}\n```",
	}
	p := NewProfiler(provider, logger.NewNopLogger())

	got := p.Profile(context.Background(), "summary")

	assert.InDelta(t, 0.6, got.MCRatio, 1e-9)
}

func TestProfileFallsBackOnCapabilityError(t *testing.T) {
	provider := &fakeLLM{err: errors.New("upstream unavailable")}
	p := NewProfiler(provider, logger.NewNopLogger())

	got := p.Profile(context.Background(), "summary")

	assert.Equal(t, DefaultProfile(), got)
}

func TestProfileFallsBackOnMalformedResponse(t *testing.T) {
	provider := &fakeLLM{response: "I cannot produce JSON today"}
	p := NewProfiler(provider, logger.NewNopLogger())

	got := p.Profile(context.Background(), "summary")

	assert.Equal(t, DefaultProfile(), got)
}

func TestProfileRenormalizesDriftingRatios(t *testing.T) {
	// Ratios summing to 1.5 must be scaled back so downstream counts can
	// never go negative
	provider := &fakeLLM{
		response: `{"multiple_choice_ratio": 0.9, "open_ended_ratio": 0.6, "reasoning": "drifted"}`,
	}
	p := NewProfiler(provider, logger.NewNopLogger())

	got := p.Profile(context.Background(), "summary")

	assert.InDelta(t, 1.0, got.MCRatio+got.OpenRatio, 0.001)
	assert.InDelta(t, 0.6, got.MCRatio, 0.001)
}

func TestProfileRejectsNegativeRatios(t *testing.T) {
	provider := &fakeLLM{
		response: `{"multiple_choice_ratio": -0.2, "open_ended_ratio": 1.2, "reasoning": "nonsense"}`,
	}
	p := NewProfiler(provider, logger.NewNopLogger())

	got := p.Profile(context.Background(), "summary")

	assert.Equal(t, DefaultProfile(), got)
}
