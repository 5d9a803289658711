// Package concept derives the short topic label used as the session key.
package concept

import (
	"context"
	"strings"

	"trulearn-be/internal/pkg/logger"
	"trulearn-be/pkg/llm"
	"trulearn-be/pkg/quiz"
	"trulearn-be/pkg/utils"
)

// MaxSummaryChars is the prefix of the summary sent for extraction; the
// full text is never needed for this step.
const MaxSummaryChars = 1000

type Extractor struct {
	llmProvider llm.LLMProvider
	log         logger.ILogger
}

func NewExtractor(llmProvider llm.LLMProvider, log logger.ILogger) *Extractor {
	return &Extractor{
		llmProvider: llmProvider,
		log:         log,
	}
}

// Extract asks the model for a 2-5 word topic label. This path never fails:
// any capability error or unusable reply degrades to quiz.DefaultConcept.
func (e *Extractor) Extract(ctx context.Context, summary string) string {
	var prompt strings.Builder
	prompt.WriteString("Identify the main topic of the following study material.\n")
	prompt.WriteString("Reply with ONLY a short topic label of 2-5 words. No punctuation, no explanation.\n\n")
	prompt.WriteString("Material:\n")
	prompt.WriteString(utils.TruncateText(summary, MaxSummaryChars))

	response, err := e.llmProvider.Generate(ctx, prompt.String(), llm.WithTemperature(0.2))
	if err != nil {
		e.log.Warn("concept", "extraction failed, using default concept", map[string]interface{}{
			"error": err.Error(),
		})
		return quiz.DefaultConcept
	}

	label := cleanLabel(response)
	if label == "" {
		e.log.Warn("concept", "extraction returned empty label, using default concept", nil)
		return quiz.DefaultConcept
	}

	return label
}

// cleanLabel strips surrounding quotes and whitespace from the model reply.
func cleanLabel(raw string) string {
	label := strings.TrimSpace(raw)
	label = strings.Trim(label, "\"'`")
	label = strings.TrimSpace(label)
	// Models occasionally return multi-line answers; keep the first line only
	if idx := strings.IndexByte(label, '\n'); idx != -1 {
		label = strings.TrimSpace(label[:idx])
	}
	return label
}
