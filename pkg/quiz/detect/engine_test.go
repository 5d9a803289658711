package detect

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trulearn-be/internal/pkg/apperror"
	"trulearn-be/internal/pkg/logger"
	"trulearn-be/pkg/embedding"
	"trulearn-be/pkg/nli"
	"trulearn-be/pkg/quiz"
)

// fakeEmbedder returns a fixed vector per input text.
type fakeEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (f *fakeEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: f.vectors[text]},
	}, nil
}

// fakeNLI returns a fixed classification.
type fakeNLI struct {
	label string
	err   error
	calls int
}

func (f *fakeNLI) Classify(ctx context.Context, premise, hypothesis string) (*nli.Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &nli.Result{
		Label: f.label,
		Scores: map[string]float64{
			nli.LabelContradiction: 0.1,
			nli.LabelEntailment:    0.1,
			nli.LabelNeutral:       0.1,
		},
	}, nil
}

// vectorsWithSimilarity builds two unit vectors whose cosine similarity is
// the given value.
func vectorsWithSimilarity(sim float64) ([]float32, []float32) {
	a := []float32{1, 0}
	b := []float32{float32(sim), float32(math.Sqrt(1 - sim*sim))}
	return a, b
}

func newEngine(sim float64, label string) *Engine {
	a, b := vectorsWithSimilarity(sim)
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"the answer":  a,
		"the summary": b,
	}}
	return NewEngine(embedder, &fakeNLI{label: label}, logger.NewNopLogger())
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1.0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0.0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1.0},
		{"empty", nil, nil, 0.0},
		{"mismatched length", []float32{1}, []float32{1, 2}, 0.0},
		{"zero magnitude", []float32{0, 0}, []float32{1, 2}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CosineSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestMemorizationDominatesCorrectness(t *testing.T) {
	// score 0.90 > threshold: memorization wins even over entailment
	engine := newEngine(0.90, quiz.LabelEntailment)

	result, err := engine.Detect(context.Background(), DetectInput{
		AnswerText:      "the answer",
		ItemType:        quiz.ItemOpenEnded,
		CorrectOrSample: "sample answer",
		Summary:         "the summary",
	})

	require.NoError(t, err)
	assert.True(t, result.IsMemorized)
	assert.Equal(t, quiz.DetectionMemorization, result.DetectionType)
	assert.True(t, result.NeedsMorePractice)
	assert.Equal(t, quiz.LabelEntailment, result.CorrectnessLabel)
}

func TestGenuineWhenNotMemorizedAndEntailed(t *testing.T) {
	engine := newEngine(0.40, quiz.LabelEntailment)

	result, err := engine.Detect(context.Background(), DetectInput{
		AnswerText:      "the answer",
		ItemType:        quiz.ItemOpenEnded,
		CorrectOrSample: "sample answer",
		Summary:         "the summary",
	})

	require.NoError(t, err)
	assert.False(t, result.IsMemorized)
	assert.InDelta(t, 0.40, result.SimilarityScore, 0.0001)
	assert.Equal(t, quiz.DetectionGenuine, result.DetectionType)
	assert.False(t, result.NeedsMorePractice)
}

func TestThresholdIsStrictlyGreaterThan(t *testing.T) {
	// A score of exactly 0.85 is not memorization
	engine := newEngine(quiz.MemorizationThreshold, quiz.LabelNeutral)

	result, err := engine.Detect(context.Background(), DetectInput{
		AnswerText:      "the answer",
		ItemType:        quiz.ItemOpenEnded,
		CorrectOrSample: "sample answer",
		Summary:         "the summary",
	})

	require.NoError(t, err)
	assert.False(t, result.IsMemorized)
	assert.Equal(t, quiz.DetectionSurface, result.DetectionType)
}

func TestClassificationIsTotal(t *testing.T) {
	labels := []string{quiz.LabelEntailment, quiz.LabelContradiction, quiz.LabelNeutral}
	similarities := map[bool]float64{true: 0.95, false: 0.30}

	for memorized, sim := range similarities {
		for _, label := range labels {
			engine := newEngine(sim, label)
			result, err := engine.Detect(context.Background(), DetectInput{
				AnswerText:      "the answer",
				ItemType:        quiz.ItemOpenEnded,
				CorrectOrSample: "sample answer",
				Summary:         "the summary",
			})
			require.NoError(t, err)

			switch {
			case memorized:
				assert.Equal(t, quiz.DetectionMemorization, result.DetectionType)
				assert.True(t, result.NeedsMorePractice)
			case label == quiz.LabelEntailment:
				assert.Equal(t, quiz.DetectionGenuine, result.DetectionType)
				assert.False(t, result.NeedsMorePractice)
			default:
				assert.Equal(t, quiz.DetectionSurface, result.DetectionType)
				assert.True(t, result.NeedsMorePractice)
			}
		}
	}
}

func TestMultipleChoiceMatchIsCaseInsensitiveAndTrimmed(t *testing.T) {
	nliProvider := &fakeNLI{label: quiz.LabelContradiction}
	engine := NewEngine(
		&fakeEmbedder{vectors: map[string][]float32{}},
		nliProvider,
		logger.NewNopLogger(),
	)

	result, err := engine.Detect(context.Background(), DetectInput{
		AnswerText:      " b ",
		ItemType:        quiz.ItemMultipleChoice,
		CorrectOrSample: "B",
		Summary:         "", // skip similarity
	})

	require.NoError(t, err)
	assert.Equal(t, quiz.LabelEntailment, result.CorrectnessLabel)
	assert.Equal(t, quiz.DetectionGenuine, result.DetectionType)
	// MC never consults the entailment capability
	assert.Zero(t, nliProvider.calls)
}

func TestMultipleChoiceMismatchIsContradiction(t *testing.T) {
	engine := NewEngine(
		&fakeEmbedder{vectors: map[string][]float32{}},
		&fakeNLI{label: quiz.LabelEntailment},
		logger.NewNopLogger(),
	)

	result, err := engine.Detect(context.Background(), DetectInput{
		AnswerText:      "C",
		ItemType:        quiz.ItemMultipleChoice,
		CorrectOrSample: "B",
		Summary:         "",
	})

	require.NoError(t, err)
	assert.Equal(t, quiz.LabelContradiction, result.CorrectnessLabel)
	assert.Equal(t, quiz.DetectionSurface, result.DetectionType)
	assert.True(t, result.NeedsMorePractice)
}

func TestEmptySummarySkipsSimilarity(t *testing.T) {
	embedder := &fakeEmbedder{err: errors.New("must not be called")}
	engine := NewEngine(embedder, &fakeNLI{label: quiz.LabelNeutral}, logger.NewNopLogger())

	result, err := engine.Detect(context.Background(), DetectInput{
		AnswerText:      "anything",
		ItemType:        quiz.ItemOpenEnded,
		CorrectOrSample: "sample",
		Summary:         "",
	})

	require.NoError(t, err)
	assert.Zero(t, result.SimilarityScore)
	assert.False(t, result.IsMemorized)
}

func TestMissingSampleAnswerDefaultsToNeutral(t *testing.T) {
	nliProvider := &fakeNLI{label: quiz.LabelEntailment}
	engine := NewEngine(
		&fakeEmbedder{vectors: map[string][]float32{}},
		nliProvider,
		logger.NewNopLogger(),
	)

	result, err := engine.Detect(context.Background(), DetectInput{
		AnswerText:      "an answer",
		ItemType:        quiz.ItemOpenEnded,
		CorrectOrSample: "",
		Summary:         "",
	})

	require.NoError(t, err)
	assert.Equal(t, quiz.LabelNeutral, result.CorrectnessLabel)
	assert.Zero(t, nliProvider.calls)
}

func TestEmbeddingFailureIsHardError(t *testing.T) {
	engine := NewEngine(
		&fakeEmbedder{err: errors.New("embedding down")},
		&fakeNLI{label: quiz.LabelEntailment},
		logger.NewNopLogger(),
	)

	_, err := engine.Detect(context.Background(), DetectInput{
		AnswerText:      "the answer",
		ItemType:        quiz.ItemOpenEnded,
		CorrectOrSample: "sample",
		Summary:         "the summary",
	})

	require.Error(t, err)
	var capErr *apperror.ExternalCapabilityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, "embedding", capErr.Capability)
}

func TestNLIFailureIsHardError(t *testing.T) {
	engine := NewEngine(
		&fakeEmbedder{vectors: map[string][]float32{}},
		&fakeNLI{err: errors.New("nli down")},
		logger.NewNopLogger(),
	)

	_, err := engine.Detect(context.Background(), DetectInput{
		AnswerText:      "the answer",
		ItemType:        quiz.ItemOpenEnded,
		CorrectOrSample: "sample",
		Summary:         "",
	})

	require.Error(t, err)
	var capErr *apperror.ExternalCapabilityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, "entailment", capErr.Capability)
}

func TestNLIMalformedResponseKeepsItsType(t *testing.T) {
	engine := NewEngine(
		&fakeEmbedder{vectors: map[string][]float32{}},
		&fakeNLI{err: apperror.NewMalformedResponseError("entailment", errors.New("garbled payload"))},
		logger.NewNopLogger(),
	)

	_, err := engine.Detect(context.Background(), DetectInput{
		AnswerText:      "the answer",
		ItemType:        quiz.ItemOpenEnded,
		CorrectOrSample: "sample",
		Summary:         "",
	})

	require.Error(t, err)
	var malformedErr *apperror.MalformedResponseError
	require.ErrorAs(t, err, &malformedErr)
	var capErr *apperror.ExternalCapabilityError
	assert.False(t, errors.As(err, &capErr))
}
