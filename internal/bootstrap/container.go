package bootstrap

import (
	"log"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"trulearn-be/internal/config"
	"trulearn-be/internal/controller"
	"trulearn-be/internal/pkg/logger"
	"trulearn-be/internal/repository/memory"
	"trulearn-be/internal/service"
	"trulearn-be/pkg/embedding"
	"trulearn-be/pkg/embedding/jina"
	"trulearn-be/pkg/llm"
	"trulearn-be/pkg/llm/factory"
	"trulearn-be/pkg/llm/gemini"
	nlihf "trulearn-be/pkg/nli/huggingface"
	"trulearn-be/pkg/quiz/concept"
	"trulearn-be/pkg/quiz/detect"
	"trulearn-be/pkg/quiz/profile"
	"trulearn-be/pkg/quiz/question"
	"trulearn-be/pkg/quiz/variation"
)

type Container struct {
	// Controllers
	StudyController controller.IStudyController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	activityLogger := logger.NewIsolatedLogger(cfg.App.ActivityLogPath)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Capability Providers
	// Embedding Provider based on Config
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else if cfg.Ai.EmbeddingProvider == "jina" {
		embeddingProvider = jina.NewJinaProvider(cfg.Keys.Jina)
		log.Printf("[INFO] Using Embedding Provider: JINA AI")
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	// LLM Provider based on Config
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.GoogleGemini,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// Document summarization always runs on Gemini: it is the only backend
	// that accepts raw PDF bytes
	var docProvider llm.DocumentProvider
	if geminiProvider, ok := llmProvider.(llm.DocumentProvider); ok {
		docProvider = geminiProvider
	} else {
		docProvider = gemini.NewGeminiProvider(cfg.Keys.GoogleGemini, "")
		log.Printf("[INFO] Using GEMINI for document summarization")
	}

	// NLI Provider (entailment checks for open-ended answers)
	nliProvider := nlihf.NewHuggingFaceProvider(cfg.Keys.HuggingFace, "", cfg.Ai.NLIModel)

	// 4. Session Store
	sessionRepo := memory.NewSessionRepository(time.Duration(cfg.App.SessionTTLMinutes) * time.Minute)

	// 5. Domain Components
	extractor := concept.NewExtractor(llmProvider, sysLogger)
	profiler := profile.NewProfiler(llmProvider, sysLogger)
	builder := question.NewBuilder(llmProvider, extractor, profiler, sysLogger)
	variationGen := variation.NewGenerator(llmProvider, sysLogger)
	detectionEngine := detect.NewEngine(embeddingProvider, nliProvider, sysLogger)

	// 6. Services
	publisherService := service.NewPublisherService(cfg.App.EventTopic, pubSub)
	consumerService := service.NewConsumerService(pubSub, cfg.App.EventTopic, activityLogger)

	studyService := service.NewStudyService(
		docProvider,
		extractor,
		builder,
		variationGen,
		detectionEngine,
		sessionRepo,
		publisherService,
		sysLogger,
	)

	// 7. Controllers
	return &Container{
		StudyController: controller.NewStudyController(studyService),
		ConsumerService: consumerService,
	}
}
