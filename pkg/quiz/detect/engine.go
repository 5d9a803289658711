// Package detect fuses an embedding-similarity signal and an NLI verdict
// into one of three pedagogical classifications and a retry decision.
package detect

import (
	"context"
	"strings"

	"trulearn-be/internal/pkg/apperror"
	"trulearn-be/internal/pkg/logger"
	"trulearn-be/pkg/embedding"
	"trulearn-be/pkg/nli"
	"trulearn-be/pkg/quiz"
)

// DetectInput is one answer submission to classify.
type DetectInput struct {
	AnswerText string
	ItemType   quiz.ItemType
	// CorrectOrSample is the correct option letter for multiple choice, or
	// the sample answer for open-ended items (may be empty).
	CorrectOrSample string
	Summary         string
}

type Engine struct {
	embeddingProvider embedding.EmbeddingProvider
	nliProvider       nli.Provider
	log               logger.ILogger
}

func NewEngine(embeddingProvider embedding.EmbeddingProvider, nliProvider nli.Provider, log logger.ILogger) *Engine {
	return &Engine{
		embeddingProvider: embeddingProvider,
		nliProvider:       nliProvider,
		log:               log,
	}
}

// SimilarityResult is the memorization signal for one answer.
type SimilarityResult struct {
	Score       float64
	IsMemorized bool
}

// Detect runs both sub-checks and applies the priority policy:
//
//  1. memorized (similarity above threshold): memorization, practice.
//     High similarity dominates regardless of correctness; a correct but
//     copied answer is still flagged.
//  2. entailment: genuine, no practice.
//  3. anything else: surface, practice.
//
// Capability failures in either sub-check are hard errors: there is no safe
// default classification.
func (e *Engine) Detect(ctx context.Context, input DetectInput) (*quiz.DetectionResult, error) {
	similarity, err := e.checkSimilarity(input.AnswerText, input.Summary)
	if err != nil {
		return nil, err
	}

	correctness, err := e.checkCorrectness(ctx, input.AnswerText, input.ItemType, input.CorrectOrSample)
	if err != nil {
		return nil, err
	}

	result := &quiz.DetectionResult{
		SimilarityScore:  similarity.Score,
		IsMemorized:      similarity.IsMemorized,
		CorrectnessLabel: correctness.Label,
		NLIScores:        correctness.Scores,
	}

	switch {
	case similarity.IsMemorized:
		result.DetectionType = quiz.DetectionMemorization
		result.NeedsMorePractice = true
	case correctness.Label == quiz.LabelEntailment:
		result.DetectionType = quiz.DetectionGenuine
		result.NeedsMorePractice = false
	default:
		result.DetectionType = quiz.DetectionSurface
		result.NeedsMorePractice = true
	}

	e.log.Info("detect", "answer classified", map[string]interface{}{
		"similarity_score": result.SimilarityScore,
		"correctness":      result.CorrectnessLabel,
		"detection_type":   string(result.DetectionType),
	})

	return result, nil
}

// checkSimilarity embeds both strings and compares them. An empty summary
// skips the check entirely and reports a zero, non-memorized score.
func (e *Engine) checkSimilarity(answerText, summary string) (SimilarityResult, error) {
	if strings.TrimSpace(summary) == "" {
		return SimilarityResult{Score: 0.0, IsMemorized: false}, nil
	}

	answerVec, err := e.embeddingProvider.Generate(answerText, embedding.TaskSemanticSimilarity)
	if err != nil {
		return SimilarityResult{}, apperror.NewExternalCapabilityError("embedding", err)
	}

	summaryVec, err := e.embeddingProvider.Generate(summary, embedding.TaskSemanticSimilarity)
	if err != nil {
		return SimilarityResult{}, apperror.NewExternalCapabilityError("embedding", err)
	}

	score := roundScore(CosineSimilarity(answerVec.Embedding.Values, summaryVec.Embedding.Values))

	return SimilarityResult{
		Score:       score,
		IsMemorized: score > quiz.MemorizationThreshold,
	}, nil
}
