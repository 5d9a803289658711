package dto

import (
	"time"

	"trulearn-be/pkg/quiz"
)

type UploadReferenceResponse struct {
	Filename       string `json:"filename"`
	Concept        string `json:"concept"`
	SummaryPreview string `json:"summary_preview"`
	Summary        string `json:"summary"`
}

type GenerateQuestionsRequest struct {
	Concept       string `json:"concept"`
	Difficulty    string `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	ReferenceText string `json:"reference_text"`
}

type GenerateQuestionsResponse struct {
	Concept    string              `json:"concept"`
	Difficulty string              `json:"difficulty"`
	Batch      *quiz.Batch         `json:"batch"`
	Profile    quiz.ContentProfile `json:"content_profile"`
}

type GenerateVariationRequest struct {
	Original       quiz.Item `json:"original" validate:"required"`
	PreviousAnswer string    `json:"previous_answer" validate:"required"`
	Concept        string    `json:"concept"`
}

type GenerateVariationResponse struct {
	Item   quiz.Item   `json:"question"`
	Source quiz.Source `json:"source"`
}

type SubmitAnswerRequest struct {
	QuestionID          int    `json:"question_id" validate:"required"`
	AnswerText          string `json:"answer_text" validate:"required"`
	ResponseTimeSeconds int    `json:"response_time_seconds"`
	ReferenceFilename   string `json:"reference_filename"`
	Concept             string `json:"concept"`
}

type SubmitAnswerResponse struct {
	AnswerID string `json:"answer_id"`
	Status   string `json:"status"`
}

type DetectAnswerRequest struct {
	AnswerText        string        `json:"answer_text" validate:"required"`
	ItemType          quiz.ItemType `json:"item_type" validate:"required,oneof=multiple_choice open_ended"`
	CorrectAnswer     string        `json:"correct_answer"`
	SampleAnswer      string        `json:"sample_answer"`
	ReferenceFilename string        `json:"reference_filename"`
	Concept           string        `json:"concept"`
}

type DetectAnswerResponse struct {
	AnswerID   string                `json:"answer_id"`
	Result     *quiz.DetectionResult `json:"result"`
	DetectedAt time.Time             `json:"detected_at"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}
