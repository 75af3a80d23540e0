// Package tutor runs the teaching loop: the user explains, the simulated
// student reacts, an evaluator judges the explanation, and a scorer turns
// the exchange into metrics. Every artifact is persisted under a single
// interaction id as it is produced, so a failed turn still leaves a
// truthful partial record.
package tutor

import (
	"context"
	"fmt"

	"github.com/radnus321/learning-by-teaching/internal/agents"
	"github.com/radnus321/learning-by-teaching/internal/pool"
	"github.com/radnus321/learning-by-teaching/internal/store"
)

// TurnResult is everything one completed turn produced.
type TurnResult struct {
	InteractionID string

	// Question is the QA pair the explanation was judged against. Zero
	// when the pool was already exhausted.
	Question pool.QAPair

	Student    *agents.StudentResult
	Evaluation *agents.EvaluatorResult
	Scores     *agents.ScorerResult

	// Reply is what the simulated student says back: a follow-up
	// question, the next question from the pool, or a wrap-up when the
	// pool ran out.
	Reply string

	// Advanced reports whether the cursor moved this turn. It stays
	// false when the student asked a follow-up.
	Advanced bool

	// TopicComplete is set on the turn that exhausts the pool.
	TopicComplete bool
}

// Orchestrator wires the agent gateway to the store and drives turns.
type Orchestrator struct {
	store   *store.Store
	gateway *agents.Gateway
}

// New builds an orchestrator over a store and an agent gateway.
func New(st *store.Store, gw *agents.Gateway) *Orchestrator {
	return &Orchestrator{store: st, gateway: gw}
}

// RunTurn processes one teacher explanation end to end. Turns for the same
// session are serialized on the session's mutex. Whether the student asks a
// follow-up is decided solely by the presence of its message: a follow-up
// keeps the session on the current question, its absence advances the pool.
func (o *Orchestrator) RunTurn(ctx context.Context, sess *Session, explanation string) (*TurnResult, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := o.store.EnsureUser(ctx, sess.UserID, sess.Email, sess.Name); err != nil {
		return nil, stageErr(StagePersistTeacher, err)
	}
	interactionID, err := o.store.CreateInteraction(ctx, sess.UserID)
	if err != nil {
		return nil, stageErr(StagePersistTeacher, err)
	}
	if err := o.store.PutTeacher(ctx, store.TeacherRecord{
		InteractionID: interactionID,
		Text:          explanation,
	}); err != nil {
		return nil, stageErr(StagePersistTeacher, err)
	}

	// An exhausted pool is not an error: the turn runs with no reference
	// question, and the evaluator judges on correctness alone.
	question, _ := sess.Pool.Current()

	memory, err := o.studentMemory(ctx, sess.UserID)
	if err != nil {
		return nil, stageErr(StageStudent, err)
	}

	result := &TurnResult{InteractionID: interactionID, Question: question}

	studentRes, err := o.gateway.Student(ctx, agents.StudentInputs{
		TeacherExplanation: explanation,
		Memory:             memory,
	})
	if err != nil {
		return nil, stageErr(StageStudent, err)
	}
	result.Student = studentRes
	if err := o.store.PutStudent(ctx, studentRecord(interactionID, studentRes)); err != nil {
		return nil, stageErr(StagePersistStudent, err)
	}

	evalRes, err := o.gateway.Evaluate(ctx, agents.EvaluatorInputs{
		ExpectedAnswer:     question.Answer,
		TeacherExplanation: explanation,
		Question:           question.Question,
		Student:            *studentRes,
	})
	if err != nil {
		return nil, stageErr(StageEvaluate, err)
	}
	result.Evaluation = evalRes
	if err := o.store.PutEvaluator(ctx, store.EvaluatorRecord{
		InteractionID:    interactionID,
		Rating:           string(evalRes.Rating),
		MissingPoints:    store.StringList(evalRes.MissingPoints),
		IncorrectPoints:  store.StringList(evalRes.IncorrectPoints),
		Feedback:         evalRes.Feedback,
		ReferencedPoints: store.StringList(evalRes.ReferencedPoints),
	}); err != nil {
		return nil, stageErr(StagePersistEvaluator, err)
	}

	scoreRes, err := o.gateway.Score(ctx, agents.ScorerInputs{
		TeacherExplanation: explanation,
		Question:           question.Question,
		Student:            *studentRes,
		Evaluation:         *evalRes,
	})
	if err != nil {
		return nil, stageErr(StageScore, err)
	}
	result.Scores = scoreRes
	if err := o.store.PutScorer(ctx, store.ScorerRecord{
		InteractionID:        interactionID,
		OverallScore:         scoreRes.OverallScore,
		TeacherClarity:       scoreRes.TeacherClarity,
		TeacherCompleteness:  scoreRes.TeacherCompleteness,
		StudentUnderstanding: scoreRes.StudentUnderstanding,
		StudentEngagement:    scoreRes.StudentEngagement,
		Comments:             store.StringList(scoreRes.Comments),
	}); err != nil {
		return nil, stageErr(StagePersistScorer, err)
	}

	if q, ok := studentRes.FollowUp.Question(); ok {
		result.Reply = q
		return result, nil
	}

	sess.Pool.Advance()
	result.Advanced = true
	if next, ok := sess.Pool.Current(); ok {
		result.Reply = fmt.Sprintf("Got it, thanks! Next one: %s", next.Question)
	} else {
		result.TopicComplete = true
		result.Reply = "That covers everything I wanted to learn on this topic. Thanks for teaching me!"
	}
	return result, nil
}

// ScoreHistory returns the session user's scored turns, oldest first, for
// the end-of-topic summary.
func (o *Orchestrator) ScoreHistory(ctx context.Context, sess *Session) ([]store.ScorerRecord, error) {
	return o.store.ScoreHistory(ctx, sess.UserID)
}

// studentMemory rebuilds the simulated student's prior reactions for a
// user, oldest first, so the student stays in character across turns.
func (o *Orchestrator) studentMemory(ctx context.Context, userID string) ([]agents.StudentResult, error) {
	ids, err := o.store.InteractionIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	records, err := o.store.StudentRecords(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]store.StudentRecord, len(records))
	for _, r := range records {
		byID[r.InteractionID] = r
	}

	memory := make([]agents.StudentResult, 0, len(records))
	for _, id := range ids {
		r, ok := byID[id]
		if !ok {
			// A turn that failed before the student stage leaves no
			// student record; skip it rather than invent one.
			continue
		}
		followUp := agents.NoFollowUp()
		if r.FollowUp != nil {
			followUp = agents.FollowUpQuestion(*r.FollowUp)
		}
		memory = append(memory, agents.StudentResult{
			FollowUp:      followUp,
			Rating:        agents.StudentRating(r.Rating),
			Reflection:    r.Reflection,
			MissingPoints: r.MissingPoints,
		})
	}
	return memory, nil
}

func studentRecord(interactionID string, res *agents.StudentResult) store.StudentRecord {
	rec := store.StudentRecord{
		InteractionID: interactionID,
		Rating:        string(res.Rating),
		Reflection:    res.Reflection,
		MissingPoints: store.StringList(res.MissingPoints),
	}
	if q, ok := res.FollowUp.Question(); ok {
		rec.FollowUp = &q
	}
	return rec
}
