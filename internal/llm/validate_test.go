package llm

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func replySchema() *Schema {
	return &Schema{
		Name:        "test-reply",
		Description: "test schema",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"rating": map[string]any{
					"type": "string",
					"enum": []any{"understood", "needs work", "confused"},
				},
				"score": map[string]any{
					"type":    "number",
					"minimum": 0,
					"maximum": 1,
				},
			},
			"required":             []any{"rating"},
			"additionalProperties": false,
		},
	}
}

func TestValidateResponse_Valid(t *testing.T) {
	raw := json.RawMessage(`{"rating": "understood", "score": 0.8}`)
	if err := validateResponse(replySchema(), raw); err != nil {
		t.Errorf("expected valid, got %v", err)
	}
}

func TestValidateResponse_MissingRequired(t *testing.T) {
	raw := json.RawMessage(`{"score": 0.8}`)
	err := validateResponse(replySchema(), raw)

	var invErr *ErrInvalidResponse
	if !errors.As(err, &invErr) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
	if string(invErr.Content) != string(raw) {
		t.Error("expected offending content to be retained")
	}
}

func TestValidateResponse_BadEnum(t *testing.T) {
	raw := json.RawMessage(`{"rating": "perfect"}`)
	var invErr *ErrInvalidResponse
	if !errors.As(validateResponse(replySchema(), raw), &invErr) {
		t.Fatal("expected ErrInvalidResponse for out-of-enum value")
	}
}

func TestValidateResponse_OutOfRange(t *testing.T) {
	raw := json.RawMessage(`{"rating": "understood", "score": 1.4}`)
	var invErr *ErrInvalidResponse
	if !errors.As(validateResponse(replySchema(), raw), &invErr) {
		t.Fatal("expected ErrInvalidResponse for score above maximum")
	}
}

func TestValidateResponse_NotJSON(t *testing.T) {
	raw := json.RawMessage(`I think the answer is recursion`)
	var invErr *ErrInvalidResponse
	if !errors.As(validateResponse(replySchema(), raw), &invErr) {
		t.Fatal("expected ErrInvalidResponse for non-JSON content")
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`not json`)); err != nil {
		t.Errorf("nil schema should skip validation, got %v", err)
	}
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "fenced json",
			in:   "```json\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "bare fences",
			in:   "```\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "unfenced passthrough",
			in:   `{"a": 1}`,
			want: `{"a": 1}`,
		},
		{
			name: "leading whitespace",
			in:   "  ```json\n{\"a\": 1}\n```  ",
			want: `{"a": 1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := strings.TrimSpace(string(StripFences(json.RawMessage(tt.in))))
			if got != tt.want {
				t.Errorf("StripFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
