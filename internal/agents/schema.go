package agents

import "github.com/radnus321/learning-by-teaching/internal/llm"

// StudentSchema is the JSON schema for the student agent's reply. The
// message field is optional: absence (or empty) means the student has no
// remaining doubts.
var StudentSchema = &llm.Schema{
	Name:        "student-reply",
	Description: "A simulated student's reaction to a teacher explanation",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"message": map[string]any{
				"type":        "string",
				"description": "Follow-up question for the teacher; empty when everything is understood",
			},
			"rating": map[string]any{
				"type":        "string",
				"enum":        []any{"understood", "needs work", "confused"},
				"description": "Self-assessment of understanding after this explanation",
			},
			"reflection": map[string]any{
				"type":        "string",
				"description": "The student's meta-understanding, e.g. what still feels unclear and why",
			},
			"missing_points": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Gaps the student noticed in the explanation",
			},
		},
		"required":             []any{"rating", "reflection", "missing_points"},
		"additionalProperties": false,
	},
}

// EvaluatorSchema is the JSON schema for the evaluator agent's assessment.
var EvaluatorSchema = &llm.Schema{
	Name:        "explanation-evaluation",
	Description: "Qualitative assessment of a teacher explanation against ground truth",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"rating": map[string]any{
				"type": "string",
				"enum": []any{"excellent", "good", "partial", "needs work", "incorrect"},
			},
			"missing_points": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Key points the explanation missed",
			},
			"incorrect_points": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Factual errors or misconceptions",
			},
			"feedback": map[string]any{
				"type":        "string",
				"description": "Concise, constructive feedback for the teacher",
			},
			"referenced_points": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "References from the context or question pool",
			},
		},
		"required":             []any{"rating", "missing_points", "incorrect_points", "feedback"},
		"additionalProperties": false,
	},
}

// ScorerSchema is the JSON schema for the scorer agent's metrics. Bounds
// are part of the schema so out-of-range values fail validation instead of
// being silently accepted.
var ScorerSchema = &llm.Schema{
	Name:        "interaction-score",
	Description: "Quantitative evaluation of one teaching interaction",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"overall_score":         unitScoreProperty("Overall quality of the interaction"),
			"teacher_clarity":       unitScoreProperty("How clear the teacher's explanation was"),
			"teacher_completeness":  unitScoreProperty("How completely the explanation covered the topic"),
			"student_understanding": unitScoreProperty("How well the student understood afterwards"),
			"student_engagement":    unitScoreProperty("How engaged the student was"),
			"comments": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Qualitative insights worth keeping",
			},
		},
		"required": []any{
			"overall_score", "teacher_clarity", "teacher_completeness",
			"student_understanding", "student_engagement", "comments",
		},
		"additionalProperties": false,
	},
}

func unitScoreProperty(description string) map[string]any {
	return map[string]any{
		"type":        "number",
		"minimum":     0,
		"maximum":     1,
		"description": description,
	}
}
