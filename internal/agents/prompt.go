package agents

import (
	"fmt"
	"strings"
)

const studentSystemPrompt = `You are a curious student in a learning-by-teaching session. The user is your teacher, explaining a concept to you. React the way an engaged novice would: probe what you did not understand, notice what was left out, and be honest about your level of understanding.`

func buildStudentUserMessage(in StudentInputs) string {
	var b strings.Builder

	b.WriteString("Teacher just said:\n")
	fmt.Fprintf(&b, "%q\n", in.TeacherExplanation)

	b.WriteString("\nYour memory of earlier turns in this session:\n")
	if len(in.Memory) == 0 {
		b.WriteString("None yet — this is the first explanation.\n")
	} else {
		for _, m := range in.Memory {
			fmt.Fprintf(&b, "- rating: %s; reflection: %s", m.Rating, m.Reflection)
			if q, ok := m.FollowUp.Question(); ok {
				fmt.Fprintf(&b, "; you asked: %s", q)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString(`
Instructions:
1. If anything is unclear or incomplete, put ONE clarifying follow-up question in "message". If the explanation fully answered your question, leave "message" empty.
2. Rate your understanding: "understood" only when you have no remaining doubts, otherwise "needs work" or "confused".
3. In "reflection", say in one or two sentences what you now understand and what still feels shaky.
4. List concrete gaps in the explanation in "missing_points" (empty list if none).`)

	return b.String()
}

const evaluatorSystemPrompt = `You are an expert evaluator in a learning-by-teaching session. You compare a teacher's explanation against a pre-determined ground-truth answer and assess it qualitatively. Be fair and specific; your output is an audit record, it does not steer the conversation.`

func buildEvaluatorUserMessage(in EvaluatorInputs) string {
	var b strings.Builder

	b.WriteString("Ground truth (expected answer):\n")
	if in.ExpectedAnswer == "" {
		b.WriteString("(none available — judge on internal consistency and correctness alone)\n")
	} else {
		fmt.Fprintf(&b, "%s\n", in.ExpectedAnswer)
	}

	fmt.Fprintf(&b, "\nStudent's original question:\n%s\n", in.Question)
	fmt.Fprintf(&b, "\nTeacher's explanation:\n%q\n", in.TeacherExplanation)

	b.WriteString("\nStudent's follow-up question (empty if the student was satisfied):\n")
	if q, ok := in.Student.FollowUp.Question(); ok {
		fmt.Fprintf(&b, "%s\n", q)
	} else {
		b.WriteString("(none)\n")
	}

	fmt.Fprintf(&b, "\nStudent's self-assessment: rating=%s, reflection=%s\n",
		in.Student.Rating, in.Student.Reflection)

	b.WriteString(`
Instructions:
1. Rate the teacher's explanation: "excellent", "good", "partial", "needs work", or "incorrect".
2. List key points the explanation missed in "missing_points".
3. List factual errors or misconceptions in "incorrect_points".
4. Give concise feedback that would help the teacher improve, in "feedback".
5. Optionally cite supporting material in "referenced_points".`)

	return b.String()
}

const scorerSystemPrompt = `You are an automated scorer for teaching-learning interactions. Given the full record of one interaction you produce quantitative metrics, each a number between 0.0 and 1.0 inclusive. Provide every score; never leave a field out.`

func buildScorerUserMessage(in ScorerInputs) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Student's original question:\n%s\n", in.Question)
	fmt.Fprintf(&b, "\nTeacher's explanation:\n%q\n", in.TeacherExplanation)

	b.WriteString("\nStudent's follow-up question:\n")
	if q, ok := in.Student.FollowUp.Question(); ok {
		fmt.Fprintf(&b, "%s\n", q)
	} else {
		b.WriteString("(none)\n")
	}

	fmt.Fprintf(&b, "\nStudent's response: rating=%s, reflection=%s, missing_points=%s\n",
		in.Student.Rating, in.Student.Reflection, strings.Join(in.Student.MissingPoints, "; "))

	fmt.Fprintf(&b, "\nEvaluator's assessment: rating=%s, feedback=%s\n",
		in.Evaluation.Rating, in.Evaluation.Feedback)
	if len(in.Evaluation.MissingPoints) > 0 {
		fmt.Fprintf(&b, "Evaluator's missing points: %s\n", strings.Join(in.Evaluation.MissingPoints, "; "))
	}
	if len(in.Evaluation.IncorrectPoints) > 0 {
		fmt.Fprintf(&b, "Evaluator's incorrect points: %s\n", strings.Join(in.Evaluation.IncorrectPoints, "; "))
	}

	b.WriteString(`
Instructions:
1. Score overall_score, teacher_clarity, teacher_completeness, student_understanding, and student_engagement, each between 0.0 and 1.0 inclusive.
2. Summarize any important qualitative insights in "comments".`)

	return b.String()
}
