package detect

import (
	"context"
	"errors"
	"strings"

	"trulearn-be/internal/pkg/apperror"
	"trulearn-be/pkg/quiz"
)

// CorrectnessResult carries the label plus the raw per-label scores when an
// NLI call was made (empty for the multiple-choice exact-match path).
type CorrectnessResult struct {
	Label  string
	Scores map[string]float64
}

// checkCorrectness decides the entailment label for one answer.
//
// Multiple choice is a trimmed, case-insensitive exact match against the
// correct option letter, with no NLI call. Open-ended answers are classified by
// the entailment capability with the sample answer as premise and the
// student answer as hypothesis; without a sample answer the label defaults
// to neutral.
func (e *Engine) checkCorrectness(ctx context.Context, answerText string, itemType quiz.ItemType, correctOrSample string) (CorrectnessResult, error) {
	if itemType == quiz.ItemMultipleChoice {
		if strings.EqualFold(strings.TrimSpace(answerText), strings.TrimSpace(correctOrSample)) {
			return CorrectnessResult{Label: quiz.LabelEntailment}, nil
		}
		return CorrectnessResult{Label: quiz.LabelContradiction}, nil
	}

	if strings.TrimSpace(correctOrSample) == "" {
		return CorrectnessResult{Label: quiz.LabelNeutral, Scores: map[string]float64{}}, nil
	}

	result, err := e.nliProvider.Classify(ctx, correctOrSample, answerText)
	if err != nil {
		// No safe default classification exists: surface the failure.
		// A provider that answered but unparseably already carries the
		// malformed-response type; keep it instead of re-wrapping.
		var malformed *apperror.MalformedResponseError
		if errors.As(err, &malformed) {
			return CorrectnessResult{}, err
		}
		return CorrectnessResult{}, apperror.NewExternalCapabilityError("entailment", err)
	}

	scores := make(map[string]float64, len(result.Scores))
	for label, score := range result.Scores {
		scores[label] = roundScore(score)
	}

	return CorrectnessResult{
		Label:  result.Label,
		Scores: scores,
	}, nil
}
