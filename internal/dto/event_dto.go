package dto

import "time"

// Study activity event types published on the in-process bus.
const (
	EventReferenceUploaded  = "REFERENCE_UPLOADED"
	EventQuestionsGenerated = "QUESTIONS_GENERATED"
	EventDetectionCompleted = "DETECTION_COMPLETED"
)

// StudyEventMessage is the payload for every study activity event; the
// consumer service writes these to the activity log.
type StudyEventMessage struct {
	Type       string                 `json:"type"`
	Concept    string                 `json:"concept,omitempty"`
	Filename   string                 `json:"filename,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}
