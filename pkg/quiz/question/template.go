package question

import (
	"fmt"

	"trulearn-be/pkg/quiz"
)

// Fixed phrasings for the deterministic fallback generator. The concept
// string is substituted into each.
var mcTemplates = [8]string{
	"Which of the following best describes %s?",
	"What is the primary purpose of %s?",
	"Which statement about %s is correct?",
	"What is a key characteristic of %s?",
	"Which of the following is most closely associated with %s?",
	"What does %s primarily involve?",
	"Which option correctly identifies an aspect of %s?",
	"What is an important fact about %s?",
}

var openTemplates = [8]string{
	"Explain the main idea of %s in your own words.",
	"Describe how %s works and why it matters.",
	"What are the key components of %s? Explain each briefly.",
	"Compare and contrast two important aspects of %s.",
	"Summarize what you have learned about %s.",
	"Give an example that illustrates %s and explain it.",
	"Why is %s significant? Support your answer.",
	"Describe a situation where %s would be applied.",
}

var optionLetters = [4]string{"A", "B", "C", "D"}

// GenerateTemplateBatch is the deterministic fallback used when the
// generative path fails or returns malformed output. It is a pure function:
// identical inputs always yield identical batches, with the same shape
// contract as the generative path so callers never special-case it.
func GenerateTemplateBatch(conceptLabel, difficulty string, numMC, numOpen int) []quiz.Item {
	items := make([]quiz.Item, 0, numMC+numOpen)

	for i := 0; i < numMC; i++ {
		correct := optionLetters[i%4]
		options := make(map[string]string, 4)
		for j, letter := range optionLetters {
			if letter == correct {
				options[letter] = fmt.Sprintf("The accurate description of %s", conceptLabel)
			} else {
				options[letter] = fmt.Sprintf("A common misconception about %s (#%d)", conceptLabel, j+1)
			}
		}
		items = append(items, quiz.Item{
			ID:            i + 1,
			Type:          quiz.ItemMultipleChoice,
			Question:      fmt.Sprintf(mcTemplates[i%len(mcTemplates)], conceptLabel),
			Options:       options,
			CorrectAnswer: correct,
			Concept:       conceptLabel,
			Difficulty:    difficulty,
		})
	}

	for i := 0; i < numOpen; i++ {
		items = append(items, quiz.Item{
			ID:       numMC + i + 1,
			Type:     quiz.ItemOpenEnded,
			Question: fmt.Sprintf(openTemplates[i%len(openTemplates)], conceptLabel),
			SampleAnswer: fmt.Sprintf(
				"A complete answer covers the definition of %s, its key characteristics, and a concrete example.",
				conceptLabel,
			),
			Concept:    conceptLabel,
			Difficulty: difficulty,
		})
	}

	return items
}
