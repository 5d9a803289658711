// Package profile estimates how factual vs conceptual the material is and
// turns that into the multiple-choice/open-ended split of a batch.
package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"trulearn-be/internal/pkg/logger"
	"trulearn-be/pkg/llm"
	"trulearn-be/pkg/quiz"
	"trulearn-be/pkg/utils"
)

// MaxSummaryChars is the prefix of the summary sent for profiling.
const MaxSummaryChars = 2000

type Profiler struct {
	llmProvider llm.LLMProvider
	log         logger.ILogger
}

func NewProfiler(llmProvider llm.LLMProvider, log logger.ILogger) *Profiler {
	return &Profiler{
		llmProvider: llmProvider,
		log:         log,
	}
}

// Profile asks the model for the multiple_choice/open_ended ratio pair.
// This path never fails: any capability or parse error degrades to the
// balanced default. Ratios that do not sum to ~1.0 are re-normalized so the
// split computation downstream can never go negative.
func (p *Profiler) Profile(ctx context.Context, summary string) quiz.ContentProfile {
	var prompt strings.Builder
	prompt.WriteString("Analyze the following study material and estimate how suitable it is for ")
	prompt.WriteString("multiple-choice questions (discrete facts, definitions, names, numbers) versus ")
	prompt.WriteString("open-ended questions (concepts, processes, reasoning, explanation).\n\n")
	prompt.WriteString("Return ONLY a JSON object with this exact structure:\n")
	prompt.WriteString(`{"multiple_choice_ratio": 0.6, "open_ended_ratio": 0.4, "reasoning": "..."}` + "\n")
	prompt.WriteString("The two ratios must sum to 1.0.\n\n")
	prompt.WriteString("Material:\n")
	prompt.WriteString(utils.TruncateText(summary, MaxSummaryChars))

	response, err := p.llmProvider.Generate(ctx, prompt.String(),
		llm.WithTemperature(0.2),
		llm.WithJSONResponse(),
	)
	if err != nil {
		p.log.Warn("profile", "profiling failed, using balanced default", map[string]interface{}{
			"error": err.Error(),
		})
		return DefaultProfile()
	}

	parsed, err := parseProfile(response)
	if err != nil {
		p.log.Warn("profile", "profiling returned malformed output, using balanced default", map[string]interface{}{
			"error": err.Error(),
		})
		return DefaultProfile()
	}

	return parsed
}

// DefaultProfile is the balanced split used when profiling fails.
func DefaultProfile() quiz.ContentProfile {
	return quiz.ContentProfile{
		MCRatio:   0.5,
		OpenRatio: 0.5,
		Reasoning: "default",
	}
}

func parseProfile(response string) (quiz.ContentProfile, error) {
	var profile quiz.ContentProfile
	jsonContent := extractJSON(response)

	if err := json.Unmarshal([]byte(jsonContent), &profile); err != nil {
		return quiz.ContentProfile{}, fmt.Errorf("json unmarshal failed: %w", err)
	}

	return normalize(profile)
}

// normalize rejects unusable ratios and re-scales pairs that drift from
// summing to 1.0.
func normalize(profile quiz.ContentProfile) (quiz.ContentProfile, error) {
	if profile.MCRatio < 0 || profile.OpenRatio < 0 {
		return quiz.ContentProfile{}, fmt.Errorf("negative ratio: mc=%v open=%v", profile.MCRatio, profile.OpenRatio)
	}

	sum := profile.MCRatio + profile.OpenRatio
	if sum == 0 {
		return quiz.ContentProfile{}, fmt.Errorf("both ratios zero")
	}
	if math.Abs(sum-1.0) > 0.01 {
		profile.MCRatio /= sum
		profile.OpenRatio /= sum
	}
	if profile.Reasoning == "" {
		profile.Reasoning = "unspecified"
	}
	return profile, nil
}

// SplitCounts converts a profile into the (numMC, numOpen) pair for one
// batch. Both sides are floored at quiz.MinPerKind even when the profile
// suggests an extreme skew; the two counts always sum to quiz.BatchSize.
func SplitCounts(profile quiz.ContentProfile) (numMC, numOpen int) {
	numMC = int(math.Round(profile.MCRatio * quiz.BatchSize))
	numOpen = quiz.BatchSize - numMC

	if numMC < quiz.MinPerKind {
		numMC = quiz.MinPerKind
		numOpen = quiz.BatchSize - numMC
	}
	if numOpen < quiz.MinPerKind {
		numOpen = quiz.MinPerKind
		numMC = quiz.BatchSize - numOpen
	}
	return numMC, numOpen
}

// extractJSON isolates JSON content from response
func extractJSON(response string) string {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return response
	}

	return response[startIdx : endIdx+1]
}
