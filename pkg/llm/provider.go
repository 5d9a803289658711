package llm

import (
	"context"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// Document is a raw source document handed to a document-capable provider
// together with an instruction (e.g. a PDF to summarize).
type Document struct {
	MIMEType string
	Data     []byte
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
	JSONOnly    bool   // Constrain the response to JSON where the provider supports it
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// WithJSONResponse asks the provider for a JSON-constrained response.
// Gemini maps this to response_mime_type, Ollama to format "json". Callers
// must still parse defensively because not every provider honors it.
func WithJSONResponse() Option {
	return func(o *Options) {
		o.JSONOnly = true
	}
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}

// DocumentProvider is implemented by backends that can read raw document
// bytes (PDF upload path). Only the Gemini provider supports this today.
type DocumentProvider interface {
	// GenerateFromDocument sends a document plus an instruction and returns
	// the model's text response.
	GenerateFromDocument(ctx context.Context, doc Document, instruction string, options ...Option) (string, error)
}
