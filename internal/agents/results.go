// Package agents wraps the three generative roles (student, evaluator,
// scorer) behind typed invocations. Each role pairs a prompt with a JSON
// schema; callers get a validated result or an AgentError, never a
// partially parsed object.
package agents

import (
	"encoding/json"
	"fmt"
)

// AgentRole identifies one of the closed set of generative roles.
type AgentRole string

const (
	RoleStudent   AgentRole = "student"
	RoleEvaluator AgentRole = "evaluator"
	RoleScorer    AgentRole = "scorer"
)

// AgentError reports a role invocation that failed to produce a
// schema-valid result. Raw retains the model output for diagnostics.
type AgentError struct {
	Role AgentRole
	Raw  json.RawMessage
	Err  error
}

func (e *AgentError) Error() string {
	return fmt.Sprintf("%s agent: %v", e.Role, e.Err)
}

func (e *AgentError) Unwrap() error { return e.Err }

// StudentRating is the student's self-assessment of understanding.
type StudentRating string

const (
	StudentUnderstood StudentRating = "understood"
	StudentNeedsWork  StudentRating = "needs work"
	StudentConfused   StudentRating = "confused"
)

// FollowUp is either absent (the student understood) or a question. The
// conversation branch in the orchestrator keys on this, not on the rating.
type FollowUp struct {
	text string
	ok   bool
}

// NoFollowUp is the absent case.
func NoFollowUp() FollowUp {
	return FollowUp{}
}

// FollowUpQuestion wraps a question; empty text collapses to absent.
func FollowUpQuestion(text string) FollowUp {
	if text == "" {
		return FollowUp{}
	}
	return FollowUp{text: text, ok: true}
}

// Question returns the question text and whether one is present.
func (f FollowUp) Question() (string, bool) {
	return f.text, f.ok
}

// Present reports whether the student asked a follow-up.
func (f FollowUp) Present() bool {
	return f.ok
}

// StudentResult is the student agent's reaction to a teacher explanation.
// The agent should only ask a follow-up when the rating is not
// "understood", but that is a soft contract: any combination is accepted.
type StudentResult struct {
	FollowUp      FollowUp
	Rating        StudentRating
	Reflection    string
	MissingPoints []string
}

// EvaluatorRating is the evaluator's qualitative judgment.
type EvaluatorRating string

const (
	EvalExcellent EvaluatorRating = "excellent"
	EvalGood      EvaluatorRating = "good"
	EvalPartial   EvaluatorRating = "partial"
	EvalNeedsWork EvaluatorRating = "needs work"
	EvalIncorrect EvaluatorRating = "incorrect"
)

// EvaluatorResult is the evaluator agent's assessment of the teacher's
// explanation against the expected answer.
type EvaluatorResult struct {
	Rating           EvaluatorRating
	MissingPoints    []string
	IncorrectPoints  []string
	Feedback         string
	ReferencedPoints []string
}

// ScorerResult is the scorer agent's quantitative metrics. Every score is
// in the closed unit interval; results outside it are rejected at
// validation, never clamped.
type ScorerResult struct {
	OverallScore         float64
	TeacherClarity       float64
	TeacherCompleteness  float64
	StudentUnderstanding float64
	StudentEngagement    float64
	Comments             []string
}

// validateScores rejects any score outside [0,1].
func (r ScorerResult) validateScores() error {
	checks := []struct {
		name  string
		value float64
	}{
		{"overall_score", r.OverallScore},
		{"teacher_clarity", r.TeacherClarity},
		{"teacher_completeness", r.TeacherCompleteness},
		{"student_understanding", r.StudentUnderstanding},
		{"student_engagement", r.StudentEngagement},
	}
	for _, c := range checks {
		if c.value < 0.0 || c.value > 1.0 {
			return fmt.Errorf("%s %.3f outside [0,1]", c.name, c.value)
		}
	}
	return nil
}
