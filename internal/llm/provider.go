package llm

import (
	"context"
	"encoding/json"
)

// Provider abstracts the hosted language model behind a single call.
// Every generative step in Teachback (student, evaluator, scorer, QA pool
// seeding) goes through Generate with a schema attached, so consumers only
// ever see validated JSON or an error, never a partially shaped object.
type Provider interface {
	// Generate sends one request to the model. When the request carries a
	// Schema, the returned Content is JSON that has passed validation
	// against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID reports the configured model identifier.
	ModelID() string
}

// Request is a single prompt to the model.
type Request struct {
	// System sets the model's role and constraints.
	System string

	// Messages is the conversation. Teachback steps are single-turn, so
	// this is normally one user message.
	Messages []Message

	// Schema, when set, requests structured output conforming to the
	// definition. The provider uses its native structured-output mechanism
	// where one exists and validates the result either way.
	Schema *Schema

	// MaxTokens caps the response length.
	MaxTokens int

	// Temperature in [0,1]; zero value means deterministic.
	Temperature float64
}

// Message is one entry in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role identifies the message sender.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema names a JSON Schema the response must satisfy.
type Schema struct {
	// Name identifies the schema, kebab-case (e.g. "student-reply").
	Name string

	// Description tells the model what the object represents.
	Description string

	// Definition is the JSON Schema document.
	Definition map[string]any
}

// Response is the model's output.
type Response struct {
	// Content is validated JSON when the request had a Schema, otherwise
	// the raw text wrapped as a JSON message.
	Content json.RawMessage

	// Usage reports token counts for the call.
	Usage Usage

	// Model is the model that actually served the request.
	Model string

	// StopReason is normalized to "end" or "max_tokens".
	StopReason string
}

// Usage tracks token consumption.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
