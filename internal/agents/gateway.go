package agents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/radnus321/learning-by-teaching/internal/llm"
)

// Config tunes generation for all three roles.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the generation settings of the reference
// deployment.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   1024,
		Temperature: 0.4,
	}
}

// Gateway dispatches the three generative roles through one provider.
// It owns parsing and validation; it does not retry. Transient-failure
// policy lives in the provider middleware, and turn-level policy in the
// orchestrator.
type Gateway struct {
	provider llm.Provider
	cfg      Config
}

// New creates a Gateway on the given provider.
func New(provider llm.Provider, cfg Config) *Gateway {
	return &Gateway{provider: provider, cfg: cfg}
}

// StudentInputs is the student role's input contract.
type StudentInputs struct {
	TeacherExplanation string
	Memory             []StudentResult
}

// EvaluatorInputs is the evaluator role's input contract.
type EvaluatorInputs struct {
	ExpectedAnswer     string
	TeacherExplanation string
	Question           string
	Student            StudentResult
}

// ScorerInputs is the scorer role's input contract.
type ScorerInputs struct {
	TeacherExplanation string
	Question           string
	Student            StudentResult
	Evaluation         EvaluatorResult
}

type studentOutput struct {
	Message       string   `json:"message"`
	Rating        string   `json:"rating"`
	Reflection    string   `json:"reflection"`
	MissingPoints []string `json:"missing_points"`
}

// Student invokes the student role with the teacher's explanation and the
// accumulated session memory.
func (g *Gateway) Student(ctx context.Context, in StudentInputs) (*StudentResult, error) {
	var out studentOutput
	if _, err := g.invoke(ctx, RoleStudent, studentSystemPrompt, buildStudentUserMessage(in), StudentSchema, &out); err != nil {
		return nil, err
	}

	return &StudentResult{
		FollowUp:      FollowUpQuestion(out.Message),
		Rating:        StudentRating(out.Rating),
		Reflection:    out.Reflection,
		MissingPoints: out.MissingPoints,
	}, nil
}

type evaluatorOutput struct {
	Rating           string   `json:"rating"`
	MissingPoints    []string `json:"missing_points"`
	IncorrectPoints  []string `json:"incorrect_points"`
	Feedback         string   `json:"feedback"`
	ReferencedPoints []string `json:"referenced_points"`
}

// Evaluate invokes the evaluator role against the expected answer.
func (g *Gateway) Evaluate(ctx context.Context, in EvaluatorInputs) (*EvaluatorResult, error) {
	var out evaluatorOutput
	_, err := g.invoke(ctx, RoleEvaluator, evaluatorSystemPrompt, buildEvaluatorUserMessage(in), EvaluatorSchema, &out)
	if err != nil {
		return nil, err
	}

	return &EvaluatorResult{
		Rating:           EvaluatorRating(out.Rating),
		MissingPoints:    out.MissingPoints,
		IncorrectPoints:  out.IncorrectPoints,
		Feedback:         out.Feedback,
		ReferencedPoints: out.ReferencedPoints,
	}, nil
}

type scorerOutput struct {
	OverallScore         *float64 `json:"overall_score"`
	TeacherClarity       *float64 `json:"teacher_clarity"`
	TeacherCompleteness  *float64 `json:"teacher_completeness"`
	StudentUnderstanding *float64 `json:"student_understanding"`
	StudentEngagement    *float64 `json:"student_engagement"`
	Comments             []string `json:"comments"`
}

// Score invokes the scorer role over the whole interaction record.
func (g *Gateway) Score(ctx context.Context, in ScorerInputs) (*ScorerResult, error) {
	var out scorerOutput
	raw, err := g.invoke(ctx, RoleScorer, scorerSystemPrompt, buildScorerUserMessage(in), ScorerSchema, &out)
	if err != nil {
		return nil, err
	}

	fields := []*float64{
		out.OverallScore, out.TeacherClarity, out.TeacherCompleteness,
		out.StudentUnderstanding, out.StudentEngagement,
	}
	for _, f := range fields {
		if f == nil {
			return nil, &AgentError{Role: RoleScorer, Raw: raw, Err: fmt.Errorf("score field absent")}
		}
	}

	result := &ScorerResult{
		OverallScore:         *out.OverallScore,
		TeacherClarity:       *out.TeacherClarity,
		TeacherCompleteness:  *out.TeacherCompleteness,
		StudentUnderstanding: *out.StudentUnderstanding,
		StudentEngagement:    *out.StudentEngagement,
		Comments:             out.Comments,
	}
	if err := result.validateScores(); err != nil {
		return nil, &AgentError{Role: RoleScorer, Raw: raw, Err: err}
	}
	return result, nil
}

// invoke runs one role: template in, schema-valid JSON out, decoded into
// target. Any failure becomes an *AgentError for that role.
func (g *Gateway) invoke(ctx context.Context, role AgentRole, system, user string, schema *llm.Schema, target any) (json.RawMessage, error) {
	ctx = llm.WithPurpose(ctx, string(role))

	req := llm.Request{
		System:      system,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: user}},
		Schema:      schema,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		var invErr *llm.ErrInvalidResponse
		if errors.As(err, &invErr) {
			return nil, &AgentError{Role: role, Raw: invErr.Content, Err: err}
		}
		return nil, &AgentError{Role: role, Err: err}
	}

	raw := llm.StripFences(resp.Content)
	if err := json.Unmarshal(raw, target); err != nil {
		return nil, &AgentError{Role: role, Raw: raw, Err: fmt.Errorf("decode %s output: %w", role, err)}
	}
	return raw, nil
}
