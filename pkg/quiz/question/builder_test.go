package question

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trulearn-be/internal/pkg/logger"
	"trulearn-be/pkg/llm"
	"trulearn-be/pkg/quiz"
	"trulearn-be/pkg/quiz/concept"
	"trulearn-be/pkg/quiz/profile"
)

// fakeLLM maps prompt substrings to canned responses so one fake can serve
// the profiler and the generator in a single Build call.
type fakeLLM struct {
	responses map[string]string
	err       error
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	return f.Generate(ctx, history[len(history)-1].Content, opts...)
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	for needle, response := range f.responses {
		if needle == "" || strings.Contains(prompt, needle) {
			return response, nil
		}
	}
	return "", errors.New("no canned response for prompt")
}

func newBuilder(provider llm.LLMProvider) *Builder {
	log := logger.NewNopLogger()
	return NewBuilder(
		provider,
		concept.NewExtractor(provider, log),
		profile.NewProfiler(provider, log),
		log,
	)
}

const profileResponse = `{"multiple_choice_ratio": 0.5, "open_ended_ratio": 0.5, "reasoning": "balanced"}`

const generatedBatch = `[
	{"number": 1, "type": "multiple_choice", "question": "What is photosynthesis?",
	 "options": {"A": "Energy conversion", "B": "Cell division", "C": "Osmosis", "D": "Respiration"},
	 "correct_answer": "a"},
	{"number": 2, "type": "multiple_choice", "question": "Where does it occur?",
	 "options": {"A": "Nucleus", "B": "Chloroplast", "C": "Mitochondria", "D": "Ribosome"},
	 "correct_answer": "B"},
	{"number": 3, "type": "open_ended", "question": "Explain the light reactions.",
	 "sample_answer": "They convert light energy into chemical energy."}
]`

func TestTemplateBatchIsDeterministic(t *testing.T) {
	a := GenerateTemplateBatch("Photosynthesis", quiz.DifficultyMedium, 6, 4)
	b := GenerateTemplateBatch("Photosynthesis", quiz.DifficultyMedium, 6, 4)

	assert.Equal(t, a, b)
}

func TestTemplateBatchShapeContract(t *testing.T) {
	items := GenerateTemplateBatch("Cell Biology", quiz.DifficultyEasy, 7, 3)

	require.Len(t, items, 10)

	letters := []string{"A", "B", "C", "D"}
	for i, item := range items {
		require.NoError(t, item.Validate())
		assert.Equal(t, i+1, item.ID)
		assert.Equal(t, "Cell Biology", item.Concept)
		assert.Equal(t, quiz.DifficultyEasy, item.Difficulty)

		if i < 7 {
			assert.Equal(t, quiz.ItemMultipleChoice, item.Type)
			assert.Equal(t, letters[i%4], item.CorrectAnswer)
			assert.Len(t, item.Options, 4)
		} else {
			assert.Equal(t, quiz.ItemOpenEnded, item.Type)
			assert.NotEmpty(t, item.SampleAnswer)
		}
	}
}

func TestBuildUsesGenerativePath(t *testing.T) {
	provider := &fakeLLM{responses: map[string]string{
		"multiple-choice questions": profileResponse,
		"quiz questions":            generatedBatch,
	}}
	b := newBuilder(provider)

	batch := b.Build(context.Background(), "a summary about photosynthesis", "Photosynthesis", quiz.DifficultyMedium)

	assert.Equal(t, quiz.SourceGenerated, batch.Source)
	// Count mismatch (3 instead of 10) is tolerated, not fatal
	assert.Len(t, batch.Items, 3)
	// Correct answers are normalized to upper case
	assert.Equal(t, "A", batch.Items[0].CorrectAnswer)
	// Missing metadata is repaired from the build inputs
	assert.Equal(t, "Photosynthesis", batch.Items[2].Concept)
	assert.Equal(t, quiz.DifficultyMedium, batch.Items[2].Difficulty)
	// Distribution metadata is attached to every item
	for _, item := range batch.Items {
		require.NotNil(t, item.Distribution)
		assert.Equal(t, 5, item.Distribution.TotalMC)
		assert.Equal(t, 5, item.Distribution.TotalOpen)
	}
}

func TestBuildFallsBackToTemplatesOnCapabilityError(t *testing.T) {
	provider := &fakeLLM{err: errors.New("model offline")}
	b := newBuilder(provider)

	batch := b.Build(context.Background(), "summary", "Photosynthesis", quiz.DifficultyHard)

	assert.Equal(t, quiz.SourceTemplate, batch.Source)
	// Profiler also failed, so the balanced default drives the split
	assert.Equal(t, 5, batch.NumMC)
	assert.Equal(t, 5, batch.NumOpen)
	require.Len(t, batch.Items, 10)
	for _, item := range batch.Items {
		require.NoError(t, item.Validate())
	}
}

func TestBuildFallsBackOnMalformedOutput(t *testing.T) {
	provider := &fakeLLM{responses: map[string]string{
		"multiple-choice questions": profileResponse,
		"quiz questions":            "sorry, not today",
	}}
	b := newBuilder(provider)

	batch := b.Build(context.Background(), "summary", "Photosynthesis", quiz.DifficultyMedium)

	assert.Equal(t, quiz.SourceTemplate, batch.Source)
	assert.Len(t, batch.Items, 10)
}

func TestBuildDropsInvalidItemsAndRenumbers(t *testing.T) {
	malformedMixed := `[
		{"number": 1, "type": "multiple_choice", "question": "Bad option set", "options": {}, "correct_answer": "A"},
		{"number": 2, "type": "open_ended", "question": "Valid one", "sample_answer": "An answer."}
	]`
	provider := &fakeLLM{responses: map[string]string{
		"multiple-choice questions": profileResponse,
		"quiz questions":            malformedMixed,
	}}
	b := newBuilder(provider)

	batch := b.Build(context.Background(), "summary", "Topic", quiz.DifficultyMedium)

	require.Equal(t, quiz.SourceGenerated, batch.Source)
	require.Len(t, batch.Items, 1)
	assert.Equal(t, 1, batch.Items[0].ID)
	assert.Equal(t, "Valid one", batch.Items[0].Question)
}

func TestBuildReordersInterleavedTypesToPrefix(t *testing.T) {
	interleaved := `[
		{"number": 1, "type": "open_ended", "question": "First open", "sample_answer": "A."},
		{"number": 2, "type": "multiple_choice", "question": "First MC",
		 "options": {"A": "1", "B": "2", "C": "3", "D": "4"}, "correct_answer": "A"},
		{"number": 3, "type": "open_ended", "question": "Second open", "sample_answer": "B."},
		{"number": 4, "type": "multiple_choice", "question": "Second MC",
		 "options": {"A": "1", "B": "2", "C": "3", "D": "4"}, "correct_answer": "B"}
	]`
	provider := &fakeLLM{responses: map[string]string{
		"multiple-choice questions": profileResponse,
		"quiz questions":            interleaved,
	}}
	b := newBuilder(provider)

	batch := b.Build(context.Background(), "summary", "Topic", quiz.DifficultyMedium)

	require.Equal(t, quiz.SourceGenerated, batch.Source)
	require.Len(t, batch.Items, 4)

	wantQuestions := []string{"First MC", "Second MC", "First open", "Second open"}
	for i, item := range batch.Items {
		assert.Equal(t, i+1, item.ID)
		assert.Equal(t, wantQuestions[i], item.Question)
		if i < 2 {
			assert.Equal(t, quiz.ItemMultipleChoice, item.Type)
		} else {
			assert.Equal(t, quiz.ItemOpenEnded, item.Type)
		}
	}
}

func TestBuildResolvesConceptWhenAbsent(t *testing.T) {
	provider := &fakeLLM{responses: map[string]string{
		"main topic":                "\"Cell Biology\"",
		"multiple-choice questions": profileResponse,
		"quiz questions":            generatedBatch,
	}}
	b := newBuilder(provider)

	batch := b.Build(context.Background(), "summary about cells", "", quiz.DifficultyMedium)

	require.NotEmpty(t, batch.Items)
	assert.Equal(t, "What is photosynthesis?", batch.Items[0].Question)
}

func TestBatchPromptEmbedsSplitAndDifficulty(t *testing.T) {
	prompt := buildBatchPrompt("THE SUMMARY", "Photosynthesis", quiz.DifficultyHard, 7, 3)

	assert.Contains(t, prompt, "Questions 1-7: Multiple choice")
	assert.Contains(t, prompt, "Questions 8-10: Open-ended")
	assert.Contains(t, prompt, "hard difficulty")
	assert.Contains(t, prompt, "using ONLY the provided summary")
	assert.Contains(t, prompt, "THE SUMMARY")
	assert.Contains(t, prompt, "Photosynthesis")
}
