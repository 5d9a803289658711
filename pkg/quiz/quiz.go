// Package quiz holds the core study-loop domain types shared by the
// concept, profile, question, variation and detect components.
package quiz

import "fmt"

// ItemType discriminates the two question variants.
type ItemType string

const (
	ItemMultipleChoice ItemType = "multiple_choice"
	ItemOpenEnded      ItemType = "open_ended"
)

// Difficulty levels accepted by the question builder.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// NLI labels produced by the correctness check.
const (
	LabelEntailment    = "entailment"
	LabelContradiction = "contradiction"
	LabelNeutral       = "neutral"
)

// DetectionType is the pedagogical classification of a student answer.
type DetectionType string

const (
	DetectionGenuine      DetectionType = "genuine"
	DetectionSurface      DetectionType = "surface"
	DetectionMemorization DetectionType = "memorization"
)

const (
	// BatchSize is the fixed number of items in one generated batch.
	BatchSize = 10

	// MinPerKind is the floor enforced on each side of the MC/open split,
	// even when the content profile suggests an extreme skew.
	MinPerKind = 2

	// MemorizationThreshold is the cosine-similarity cutoff above which an
	// answer is flagged as copied from the source. Strictly greater-than:
	// a score of exactly 0.85 is not memorization.
	MemorizationThreshold = 0.85

	// DefaultConcept is the sentinel topic label used when extraction fails.
	DefaultConcept = "General Study Material"
)

// Source reports which path produced a batch or variation, so callers and
// tests can assert whether the generative path or the deterministic
// fallback fired.
type Source string

const (
	SourceGenerated Source = "generated"
	SourceTemplate  Source = "template"
	SourceFallback  Source = "fallback"
)

// DistributionInfo is attached to every item of a batch so clients can see
// how the content profile shaped the MC/open split.
type DistributionInfo struct {
	TotalMC          int    `json:"total_mc"`
	TotalOpen        int    `json:"total_open"`
	ContentReasoning string `json:"content_reasoning"`
}

// Item is a single quiz question. It is a closed tagged union over the two
// variants: Options/CorrectAnswer are only meaningful for multiple_choice,
// SampleAnswer only for open_ended. Consumers switch on Type exhaustively.
type Item struct {
	ID                 int               `json:"number"`
	Type               ItemType          `json:"type"`
	Question           string            `json:"question"`
	Options            map[string]string `json:"options,omitempty"`
	CorrectAnswer      string            `json:"correct_answer,omitempty"`
	SampleAnswer       string            `json:"sample_answer,omitempty"`
	Concept            string            `json:"concept"`
	Difficulty         string            `json:"difficulty"`
	IsVariation        bool              `json:"is_variation,omitempty"`
	OriginalQuestionID int               `json:"original_question_id,omitempty"`
	Distribution       *DistributionInfo `json:"distribution_info,omitempty"`
}

// Validate checks the variant-specific shape contract.
func (it *Item) Validate() error {
	if it.Question == "" {
		return fmt.Errorf("item %d: empty question", it.ID)
	}
	switch it.Type {
	case ItemMultipleChoice:
		if len(it.Options) == 0 {
			return fmt.Errorf("item %d: multiple choice without options", it.ID)
		}
		switch it.CorrectAnswer {
		case "A", "B", "C", "D":
		default:
			return fmt.Errorf("item %d: invalid correct answer %q", it.ID, it.CorrectAnswer)
		}
	case ItemOpenEnded:
		if it.SampleAnswer == "" {
			return fmt.Errorf("item %d: open ended without sample answer", it.ID)
		}
	default:
		return fmt.Errorf("item %d: unknown type %q", it.ID, it.Type)
	}
	return nil
}

// ContentProfile is the profiler's estimate of how factual vs conceptual
// the material is, expressed as a multiple-choice/open-ended ratio.
type ContentProfile struct {
	MCRatio   float64 `json:"multiple_choice_ratio"`
	OpenRatio float64 `json:"open_ended_ratio"`
	Reasoning string  `json:"reasoning"`
}

// Batch is the ordered 10-item question set for one concept/difficulty.
// Multiple-choice items occupy the prefix (ids 1..NumMC), open-ended items
// the suffix.
type Batch struct {
	Items   []Item         `json:"questions"`
	NumMC   int            `json:"num_multiple_choice"`
	NumOpen int            `json:"num_open_ended"`
	Source  Source         `json:"source"`
	Profile ContentProfile `json:"content_profile"`
}

// DetectionResult fuses the similarity and correctness signals into one of
// three classifications plus a retry decision. Derived per answer
// submission, never persisted.
type DetectionResult struct {
	SimilarityScore   float64            `json:"similarity_score"`
	IsMemorized       bool               `json:"is_memorized"`
	CorrectnessLabel  string             `json:"correctness_label"`
	NLIScores         map[string]float64 `json:"nli_scores,omitempty"`
	DetectionType     DetectionType      `json:"detection_type"`
	NeedsMorePractice bool               `json:"needs_more_practice"`
}
