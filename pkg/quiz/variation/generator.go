// Package variation re-phrases an item after an unsatisfactory answer so
// memorized phrasing does not transfer to the re-test.
package variation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"trulearn-be/internal/pkg/logger"
	"trulearn-be/pkg/llm"
	"trulearn-be/pkg/quiz"
	"trulearn-be/pkg/utils"
)

// MaxSummaryChars is the grounding prefix of the summary included in the
// variation prompt.
const MaxSummaryChars = 1500

// FallbackPrefix marks the degraded copy returned when generation fails.
const FallbackPrefix = "[Variation] "

type Generator struct {
	llmProvider llm.LLMProvider
	log         logger.ILogger
}

func NewGenerator(llmProvider llm.LLMProvider, log logger.ILogger) *Generator {
	return &Generator{
		llmProvider: llmProvider,
		log:         log,
	}
}

// Generate produces a re-phrased item testing the same concept as the
// original. This path never fails: on any error it returns a labeled copy
// of the original, with the chosen path reported in the Source.
func (g *Generator) Generate(ctx context.Context, original quiz.Item, previousAnswer, summary string) (quiz.Item, quiz.Source) {
	prompt := g.buildPrompt(original, previousAnswer, summary)

	response, err := g.llmProvider.Generate(ctx, prompt,
		llm.WithTemperature(0.8),
		llm.WithJSONResponse(),
	)
	if err != nil {
		g.log.Warn("variation", "generation failed, returning labeled copy", map[string]interface{}{
			"original_id": original.ID,
			"error":       err.Error(),
		})
		return fallbackCopy(original), quiz.SourceFallback
	}

	item, err := g.parseVariation(response, original)
	if err != nil {
		g.log.Warn("variation", "malformed variation, returning labeled copy", map[string]interface{}{
			"original_id": original.ID,
			"error":       err.Error(),
		})
		return fallbackCopy(original), quiz.SourceFallback
	}

	return item, quiz.SourceGenerated
}

func (g *Generator) buildPrompt(original quiz.Item, previousAnswer, summary string) string {
	var prompt strings.Builder
	prompt.WriteString("A student answered the following quiz question unsatisfactorily and needs a re-test.\n\n")
	prompt.WriteString("Original question:\n")

	originalJson, _ := json.Marshal(original)
	prompt.Write(originalJson)
	prompt.WriteString("\n\nStudent's previous answer:\n")
	prompt.WriteString(previousAnswer)

	prompt.WriteString("\n\nGenerate ONE new question that:\n")
	prompt.WriteString(fmt.Sprintf("- Tests the same concept (%s) at the same difficulty.\n", original.Concept))
	prompt.WriteString(fmt.Sprintf("- Keeps the same type (%s).\n", original.Type))
	prompt.WriteString("- Changes the surface form enough that memorized phrasing from the source does not transfer.\n")
	prompt.WriteString("- Is answerable using only the provided summary.\n\n")
	prompt.WriteString("Return ONLY a JSON object with the same structure as the original question.\n\n")
	prompt.WriteString("Summary:\n")
	prompt.WriteString(utils.TruncateText(summary, MaxSummaryChars))

	return prompt.String()
}

func (g *Generator) parseVariation(response string, original quiz.Item) (quiz.Item, error) {
	cleaned := strings.TrimSpace(response)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = extractJSON(cleaned)

	var item quiz.Item
	if err := json.Unmarshal([]byte(cleaned), &item); err != nil {
		return quiz.Item{}, fmt.Errorf("json unmarshal failed: %w", err)
	}

	// The variation must stay the same variant as the original
	item.Type = original.Type
	item.ID = original.ID
	item.Concept = original.Concept
	item.Difficulty = original.Difficulty
	item.IsVariation = true
	item.OriginalQuestionID = original.ID
	item.CorrectAnswer = strings.ToUpper(strings.TrimSpace(item.CorrectAnswer))

	if err := item.Validate(); err != nil {
		return quiz.Item{}, err
	}
	return item, nil
}

// fallbackCopy returns the degraded-but-always-available variation: the
// original item with a visible marker on the question text.
func fallbackCopy(original quiz.Item) quiz.Item {
	item := original
	item.IsVariation = true
	item.OriginalQuestionID = original.ID
	item.Question = FallbackPrefix + original.Question
	if original.Options != nil {
		item.Options = make(map[string]string, len(original.Options))
		for k, v := range original.Options {
			item.Options[k] = v
		}
	}
	return item
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
