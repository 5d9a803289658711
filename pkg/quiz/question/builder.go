// Package question builds the 10-item batch for one concept/difficulty,
// falling back to deterministic templates when generation fails.
package question

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"trulearn-be/internal/pkg/logger"
	"trulearn-be/pkg/llm"
	"trulearn-be/pkg/quiz"
	"trulearn-be/pkg/quiz/concept"
	"trulearn-be/pkg/quiz/profile"
)

type Builder struct {
	llmProvider llm.LLMProvider
	extractor   *concept.Extractor
	profiler    *profile.Profiler
	log         logger.ILogger
}

func NewBuilder(
	llmProvider llm.LLMProvider,
	extractor *concept.Extractor,
	profiler *profile.Profiler,
	log logger.ILogger,
) *Builder {
	return &Builder{
		llmProvider: llmProvider,
		extractor:   extractor,
		profiler:    profiler,
		log:         log,
	}
}

// Build produces the batch for one summary/concept/difficulty. Generation
// and parse failures never surface: they degrade to the template fallback,
// with the chosen path recorded in Batch.Source.
func (b *Builder) Build(ctx context.Context, summary, conceptLabel, difficulty string) *quiz.Batch {
	if conceptLabel == "" {
		conceptLabel = b.extractor.Extract(ctx, summary)
	}
	if !validDifficulty(difficulty) {
		difficulty = quiz.DifficultyMedium
	}

	contentProfile := b.profiler.Profile(ctx, summary)
	numMC, numOpen := profile.SplitCounts(contentProfile)

	items, err := b.generate(ctx, summary, conceptLabel, difficulty, numMC, numOpen)
	source := quiz.SourceGenerated
	if err != nil {
		b.log.Warn("question", "generation failed, using template fallback", map[string]interface{}{
			"concept": conceptLabel,
			"error":   err.Error(),
		})
		items = GenerateTemplateBatch(conceptLabel, difficulty, numMC, numOpen)
		source = quiz.SourceTemplate
	}

	distribution := &quiz.DistributionInfo{
		TotalMC:          numMC,
		TotalOpen:        numOpen,
		ContentReasoning: contentProfile.Reasoning,
	}
	for i := range items {
		items[i].Distribution = distribution
	}

	return &quiz.Batch{
		Items:   items,
		NumMC:   numMC,
		NumOpen: numOpen,
		Source:  source,
		Profile: contentProfile,
	}
}

func (b *Builder) generate(ctx context.Context, summary, conceptLabel, difficulty string, numMC, numOpen int) ([]quiz.Item, error) {
	prompt := buildBatchPrompt(summary, conceptLabel, difficulty, numMC, numOpen)

	response, err := b.llmProvider.Generate(ctx, prompt,
		llm.WithTemperature(0.7),
		llm.WithJSONResponse(),
	)
	if err != nil {
		return nil, fmt.Errorf("generative call failed: %w", err)
	}

	items, err := parseItems(response)
	if err != nil {
		return nil, err
	}

	if len(items) != quiz.BatchSize {
		// Count mismatch is tolerated: proceed with whatever was returned
		b.log.Warn("question", "generated item count differs from batch size", map[string]interface{}{
			"concept": conceptLabel,
			"got":     len(items),
			"want":    quiz.BatchSize,
		})
	}

	return b.repair(items, conceptLabel, difficulty)
}

// parseItems decodes the model reply into items, tolerating code fences and
// surrounding prose around the JSON array.
func parseItems(response string) ([]quiz.Item, error) {
	cleaned := strings.TrimSpace(response)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = extractJSONArray(cleaned)

	var items []quiz.Item
	if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
		return nil, fmt.Errorf("json unmarshal failed: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("empty question array")
	}
	return items, nil
}

// repair fills missing metadata, drops items that fail the shape contract,
// then restores the batch ordering contract: multiple-choice items form the
// prefix, open-ended the suffix, ids sequential from 1. Relative order
// within each kind is preserved. An all-invalid batch is an error so the
// caller falls back to templates.
func (b *Builder) repair(items []quiz.Item, conceptLabel, difficulty string) ([]quiz.Item, error) {
	var mc, open []quiz.Item
	for i := range items {
		item := items[i]
		if item.Concept == "" {
			item.Concept = conceptLabel
		}
		if !validDifficulty(item.Difficulty) {
			item.Difficulty = difficulty
		}
		item.CorrectAnswer = strings.ToUpper(strings.TrimSpace(item.CorrectAnswer))

		if err := item.Validate(); err != nil {
			b.log.Warn("question", "dropping malformed generated item", map[string]interface{}{
				"error": err.Error(),
			})
			continue
		}
		if item.Type == quiz.ItemMultipleChoice {
			mc = append(mc, item)
		} else {
			open = append(open, item)
		}
	}

	repaired := append(mc, open...)
	if len(repaired) == 0 {
		return nil, fmt.Errorf("no valid items in generated batch")
	}
	for i := range repaired {
		repaired[i].ID = i + 1
	}
	return repaired, nil
}

func validDifficulty(difficulty string) bool {
	switch difficulty {
	case quiz.DifficultyEasy, quiz.DifficultyMedium, quiz.DifficultyHard:
		return true
	}
	return false
}

// extractJSONArray isolates the outermost JSON array from the response
func extractJSONArray(response string) string {
	startIdx := strings.Index(response, "[")
	endIdx := strings.LastIndex(response, "]")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return response
	}

	return response[startIdx : endIdx+1]
}
