package service

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"trulearn-be/internal/dto"
	"trulearn-be/internal/pkg/apperror"
	"trulearn-be/internal/pkg/logger"
	"trulearn-be/internal/repository/memory"
	"trulearn-be/pkg/llm"
	"trulearn-be/pkg/quiz"
	"trulearn-be/pkg/quiz/concept"
	"trulearn-be/pkg/quiz/detect"
	"trulearn-be/pkg/quiz/question"
	"trulearn-be/pkg/quiz/variation"
	"trulearn-be/pkg/utils"
)

// summaryPreviewChars is how much of the summary the upload response echoes
// back for display; the full text stays in the session store.
const summaryPreviewChars = 1000

const summarizeInstruction = "Read this entire document carefully. " +
	"Provide a detailed summary of the key concepts, main ideas, " +
	"important facts, definitions, and any formulas or processes described. " +
	"Be thorough -- this summary will be used to generate quiz questions."

var errEmptySummary = errors.New("model returned an empty summary")

// IStudyService is the orchestration surface the HTTP layer drives.
type IStudyService interface {
	UploadReference(ctx context.Context, filename string, data []byte) (*dto.UploadReferenceResponse, error)
	GenerateBatch(ctx context.Context, req *dto.GenerateQuestionsRequest) (*dto.GenerateQuestionsResponse, error)
	GenerateVariation(ctx context.Context, req *dto.GenerateVariationRequest) (*dto.GenerateVariationResponse, error)
	SubmitAnswer(ctx context.Context, req *dto.SubmitAnswerRequest) (*dto.SubmitAnswerResponse, error)
	DetectAnswer(ctx context.Context, answerID string, req *dto.DetectAnswerRequest) (*dto.DetectAnswerResponse, error)
}

type studyService struct {
	docProvider      llm.DocumentProvider
	extractor        *concept.Extractor
	builder          *question.Builder
	variationGen     *variation.Generator
	detectionEngine  *detect.Engine
	sessionRepo      *memory.SessionRepository
	publisherService IPublisherService
	log              logger.ILogger
}

func NewStudyService(
	docProvider llm.DocumentProvider,
	extractor *concept.Extractor,
	builder *question.Builder,
	variationGen *variation.Generator,
	detectionEngine *detect.Engine,
	sessionRepo *memory.SessionRepository,
	publisherService IPublisherService,
	log logger.ILogger,
) IStudyService {
	return &studyService{
		docProvider:      docProvider,
		extractor:        extractor,
		builder:          builder,
		variationGen:     variationGen,
		detectionEngine:  detectionEngine,
		sessionRepo:      sessionRepo,
		publisherService: publisherService,
		log:              log,
	}
}

// UploadReference summarizes the uploaded PDF, derives its concept and
// stores the session. Summarization has no fallback: without a summary
// nothing downstream works.
func (s *studyService) UploadReference(ctx context.Context, filename string, data []byte) (*dto.UploadReferenceResponse, error) {
	if filename == "" {
		return nil, apperror.NewValidationError("pdf", "no file selected")
	}
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return nil, apperror.NewValidationError("pdf", "only PDF files are allowed")
	}
	if len(data) == 0 {
		return nil, apperror.NewValidationError("pdf", "uploaded file is empty")
	}

	summary, err := s.docProvider.GenerateFromDocument(ctx, llm.Document{
		MIMEType: "application/pdf",
		Data:     data,
	}, summarizeInstruction)
	if err != nil {
		return nil, apperror.NewExternalCapabilityError("generative", err)
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return nil, apperror.NewExternalCapabilityError("generative", errEmptySummary)
	}

	conceptLabel := s.extractor.Extract(ctx, summary)

	s.sessionRepo.Save(&memory.StudySession{
		Filename:   filename,
		Concept:    conceptLabel,
		Summary:    summary,
		UploadedAt: time.Now(),
	})

	s.publisherService.PublishEvent(ctx, dto.EventReferenceUploaded, conceptLabel, filename, map[string]interface{}{
		"summary_chars": len(summary),
	})

	return &dto.UploadReferenceResponse{
		Filename:       filename,
		Concept:        conceptLabel,
		SummaryPreview: utils.TruncateText(summary, summaryPreviewChars),
		Summary:        summary,
	}, nil
}

// GenerateBatch resolves the source summary, delegates to the question
// builder and attaches the fresh items to the session.
func (s *studyService) GenerateBatch(ctx context.Context, req *dto.GenerateQuestionsRequest) (*dto.GenerateQuestionsResponse, error) {
	summary := req.ReferenceText
	conceptLabel := req.Concept

	if summary == "" {
		if conceptLabel == "" {
			return nil, apperror.NewValidationError("concept", "concept or reference_text is required")
		}
		session, found := s.sessionRepo.Get(conceptLabel)
		if !found {
			return nil, apperror.NewValidationError("concept", "no uploaded reference for this concept")
		}
		summary = session.Summary
	}

	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = quiz.DifficultyMedium
	}

	batch := s.builder.Build(ctx, summary, conceptLabel, difficulty)
	if conceptLabel == "" && len(batch.Items) > 0 {
		conceptLabel = batch.Items[0].Concept
	}

	if session, found := s.sessionRepo.Get(conceptLabel); found {
		session.Items = batch.Items
		s.sessionRepo.Save(session)
	}

	s.publisherService.PublishEvent(ctx, dto.EventQuestionsGenerated, conceptLabel, "", map[string]interface{}{
		"source":     string(batch.Source),
		"num_items":  len(batch.Items),
		"difficulty": difficulty,
	})

	return &dto.GenerateQuestionsResponse{
		Concept:    conceptLabel,
		Difficulty: difficulty,
		Batch:      batch,
		Profile:    batch.Profile,
	}, nil
}

// GenerateVariation re-phrases an item after an unsatisfactory answer.
func (s *studyService) GenerateVariation(ctx context.Context, req *dto.GenerateVariationRequest) (*dto.GenerateVariationResponse, error) {
	if err := req.Original.Validate(); err != nil {
		return nil, apperror.NewValidationError("original", err.Error())
	}

	conceptLabel := req.Concept
	if conceptLabel == "" {
		conceptLabel = req.Original.Concept
	}

	summary := ""
	if session, found := s.sessionRepo.Get(conceptLabel); found {
		summary = session.Summary
	}

	item, source := s.variationGen.Generate(ctx, req.Original, req.PreviousAnswer, summary)

	return &dto.GenerateVariationResponse{
		Item:   item,
		Source: source,
	}, nil
}

// SubmitAnswer registers a submission and hands back its identifier;
// classification happens in the separate detect step.
func (s *studyService) SubmitAnswer(ctx context.Context, req *dto.SubmitAnswerRequest) (*dto.SubmitAnswerResponse, error) {
	if strings.TrimSpace(req.AnswerText) == "" {
		return nil, apperror.NewValidationError("answer_text", "is required")
	}

	return &dto.SubmitAnswerResponse{
		AnswerID: uuid.New().String(),
		Status:   "submitted",
	}, nil
}

// DetectAnswer classifies one submitted answer. A missing session summary
// is not an error: the similarity check is skipped per the engine contract.
func (s *studyService) DetectAnswer(ctx context.Context, answerID string, req *dto.DetectAnswerRequest) (*dto.DetectAnswerResponse, error) {
	if strings.TrimSpace(req.AnswerText) == "" {
		return nil, apperror.NewValidationError("answer_text", "is required")
	}

	summary := ""
	for _, key := range []string{req.ReferenceFilename, req.Concept} {
		if key == "" {
			continue
		}
		if session, found := s.sessionRepo.Get(key); found {
			summary = session.Summary
			break
		}
	}

	correctOrSample := req.SampleAnswer
	if req.ItemType == quiz.ItemMultipleChoice {
		correctOrSample = req.CorrectAnswer
	}

	result, err := s.detectionEngine.Detect(ctx, detect.DetectInput{
		AnswerText:      req.AnswerText,
		ItemType:        req.ItemType,
		CorrectOrSample: correctOrSample,
		Summary:         summary,
	})
	if err != nil {
		return nil, err
	}

	s.publisherService.PublishEvent(ctx, dto.EventDetectionCompleted, req.Concept, req.ReferenceFilename, map[string]interface{}{
		"answer_id":      answerID,
		"detection_type": string(result.DetectionType),
		"needs_practice": result.NeedsMorePractice,
	})

	return &dto.DetectAnswerResponse{
		AnswerID:   answerID,
		Result:     result,
		DetectedAt: time.Now().UTC(),
	}, nil
}
