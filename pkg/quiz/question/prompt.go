package question

import (
	"fmt"
	"strings"
)

// difficultyInstructions are the three fixed instruction blocks controlling
// recall depth and answer length.
var difficultyInstructions = map[string]string{
	"easy": "Target easy difficulty: test direct recall of facts and definitions " +
		"stated verbatim in the summary. Multiple-choice distractors may be " +
		"clearly distinguishable. Open-ended sample answers should be 1-2 short sentences.",
	"medium": "Target medium difficulty: test understanding of the key concepts, " +
		"requiring the student to connect related facts. Multiple-choice distractors " +
		"should be plausible. Open-ended sample answers should be 2-3 sentences.",
	"hard": "Target hard difficulty: test application and synthesis of the concepts, " +
		"requiring reasoning beyond single statements. Multiple-choice distractors " +
		"must be subtly wrong. Open-ended sample answers should be 3-4 detailed sentences.",
}

// buildBatchPrompt embeds the concept, the exact required split, the
// difficulty block, the closed-world constraint and the full summary.
func buildBatchPrompt(summary, conceptLabel, difficulty string, numMC, numOpen int) string {
	instruction, ok := difficultyInstructions[difficulty]
	if !ok {
		instruction = difficultyInstructions["medium"]
	}

	var prompt strings.Builder
	prompt.WriteString(fmt.Sprintf(
		"Based on the following summary of a document about \"%s\", generate exactly %d quiz questions.\n\n",
		conceptLabel, numMC+numOpen,
	))

	prompt.WriteString("Requirements:\n")
	prompt.WriteString(fmt.Sprintf(
		"- Questions 1-%d: Multiple choice with exactly 4 options (A, B, C, D) and one correct answer.\n",
		numMC,
	))
	prompt.WriteString(fmt.Sprintf(
		"- Questions %d-%d: Open-ended questions that require a short written answer.\n",
		numMC+1, numMC+numOpen,
	))
	prompt.WriteString("- " + instruction + "\n")
	prompt.WriteString("- Every question must be answerable using ONLY the provided summary. ")
	prompt.WriteString("Do not rely on outside knowledge.\n")
	prompt.WriteString("- For multiple choice, make the distractors plausible but clearly wrong.\n\n")

	prompt.WriteString("Return your response as a JSON array with this exact structure:\n")
	prompt.WriteString(`[
  {
    "number": 1,
    "type": "multiple_choice",
    "question": "...",
    "options": {"A": "...", "B": "...", "C": "...", "D": "..."},
    "correct_answer": "B"
  },
  {
    "number": ` + fmt.Sprintf("%d", numMC+1) + `,
    "type": "open_ended",
    "question": "...",
    "sample_answer": "..."
  }
]
`)
	prompt.WriteString("\nSummary:\n")
	prompt.WriteString(summary)

	return prompt.String()
}
