package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/gorm/clause"

	"github.com/radnus321/learning-by-teaching/internal/llm"
)

// EnsureUser creates the user row on first contact; an existing row is left
// untouched.
func (s *Store) EnsureUser(ctx context.Context, id, email, name string) error {
	user := User{ID: id, Email: email, Name: name, CreatedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&user).Error
	return wrapErr("ensure user", err)
}

// CreateInteraction writes a new Interaction for the user and returns its
// id. The id is a random 128-bit token; it is the correlation key for every
// artifact of the turn.
func (s *Store) CreateInteraction(ctx context.Context, userID string) (string, error) {
	interaction := Interaction{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&interaction).Error; err != nil {
		return "", wrapErr("create interaction", err)
	}
	return interaction.ID, nil
}

// upsert on the interaction id: re-delivery of the same artifact overwrites,
// last write wins.
func conflictOnInteraction() clause.OnConflict {
	return clause.OnConflict{
		Columns:   []clause.Column{{Name: "interaction_id"}},
		UpdateAll: true,
	}
}

// PutTeacher persists the teacher's explanation for an interaction.
func (s *Store) PutTeacher(ctx context.Context, rec TeacherRecord) error {
	rec.CreatedAt = time.Now().UTC()
	err := s.db.WithContext(ctx).Clauses(conflictOnInteraction()).Create(&rec).Error
	return wrapErr("put teacher", err)
}

// PutStudent persists the student result for an interaction.
func (s *Store) PutStudent(ctx context.Context, rec StudentRecord) error {
	rec.CreatedAt = time.Now().UTC()
	err := s.db.WithContext(ctx).Clauses(conflictOnInteraction()).Create(&rec).Error
	return wrapErr("put student", err)
}

// PutEvaluator persists the evaluator result for an interaction.
func (s *Store) PutEvaluator(ctx context.Context, rec EvaluatorRecord) error {
	rec.CreatedAt = time.Now().UTC()
	err := s.db.WithContext(ctx).Clauses(conflictOnInteraction()).Create(&rec).Error
	return wrapErr("put evaluator", err)
}

// PutScorer persists the scorer result for an interaction.
func (s *Store) PutScorer(ctx context.Context, rec ScorerRecord) error {
	rec.CreatedAt = time.Now().UTC()
	err := s.db.WithContext(ctx).Clauses(conflictOnInteraction()).Create(&rec).Error
	return wrapErr("put scorer", err)
}

// InteractionIDs returns the ids of all interactions owned by the user,
// oldest first.
func (s *Store) InteractionIDs(ctx context.Context, userID string) ([]string, error) {
	var interactions []Interaction
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at").
		Find(&interactions).Error
	if err != nil {
		return nil, wrapErr("list interactions", err)
	}
	return lo.Map(interactions, func(i Interaction, _ int) string { return i.ID }), nil
}

// StudentRecords returns the student results for the given interaction id
// set. Order is not guaranteed.
func (s *Store) StudentRecords(ctx context.Context, ids []string) ([]StudentRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var records []StudentRecord
	err := s.db.WithContext(ctx).
		Where("interaction_id IN ?", ids).
		Find(&records).Error
	if err != nil {
		return nil, wrapErr("fetch student records", err)
	}
	return records, nil
}

// ScoreHistory returns the user's scorer records, oldest first.
func (s *Store) ScoreHistory(ctx context.Context, userID string) ([]ScorerRecord, error) {
	ids, err := s.InteractionIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	var records []ScorerRecord
	err = s.db.WithContext(ctx).
		Where("interaction_id IN ?", ids).
		Order("created_at").
		Find(&records).Error
	if err != nil {
		return nil, wrapErr("fetch score history", err)
	}
	return records, nil
}

// AppendLLMCall implements llm.CallLog.
func (s *Store) AppendLLMCall(ctx context.Context, rec llm.CallRecord) error {
	call := LLMCall{
		Provider:     rec.Provider,
		Model:        rec.Model,
		Purpose:      rec.Purpose,
		InputTokens:  rec.InputTokens,
		OutputTokens: rec.OutputTokens,
		LatencyMs:    rec.LatencyMs,
		Success:      rec.Success,
		ErrorMessage: rec.ErrorMessage,
		Request:      rec.Request,
		Response:     rec.Response,
		CreatedAt:    time.Now().UTC(),
	}
	return wrapErr("append llm call", s.db.WithContext(ctx).Create(&call).Error)
}

// RecentLLMCalls returns the newest audit rows, most recent first.
func (s *Store) RecentLLMCalls(ctx context.Context, limit int) ([]LLMCall, error) {
	var calls []LLMCall
	q := s.db.WithContext(ctx).Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&calls).Error; err != nil {
		return nil, wrapErr("list llm calls", err)
	}
	return calls, nil
}

// LLMCallByID fetches one audit row, or nil when the id is unknown.
func (s *Store) LLMCallByID(ctx context.Context, id uint) (*LLMCall, error) {
	var calls []LLMCall
	if err := s.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&calls).Error; err != nil {
		return nil, wrapErr("get llm call", err)
	}
	if len(calls) == 0 {
		return nil, nil
	}
	return &calls[0], nil
}

// PurposeUsage aggregates audit rows by call purpose.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int
}

// LLMUsageByPurpose sums token usage per purpose across the audit log.
func (s *Store) LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error) {
	var usage []PurposeUsage
	err := s.db.WithContext(ctx).
		Model(&LLMCall{}).
		Select("purpose, COUNT(*) AS calls, SUM(input_tokens) AS input_tokens, SUM(output_tokens) AS output_tokens, CAST(AVG(latency_ms) AS INTEGER) AS avg_latency_ms").
		Group("purpose").
		Order("purpose").
		Scan(&usage).Error
	if err != nil {
		return nil, wrapErr("aggregate llm usage", err)
	}
	return usage, nil
}

// ResetUser deletes a user and every artifact of their turns. The audit log
// is kept; it records model usage, not learner data.
func (s *Store) ResetUser(ctx context.Context, userID string) error {
	ids, err := s.InteractionIDs(ctx, userID)
	if err != nil {
		return err
	}
	db := s.db.WithContext(ctx)
	if len(ids) > 0 {
		for _, model := range []any{&TeacherRecord{}, &StudentRecord{}, &EvaluatorRecord{}, &ScorerRecord{}} {
			if err := db.Where("interaction_id IN ?", ids).Delete(model).Error; err != nil {
				return wrapErr("reset user", err)
			}
		}
		if err := db.Where("user_id = ?", userID).Delete(&Interaction{}).Error; err != nil {
			return wrapErr("reset user", err)
		}
	}
	if err := db.Where("id = ?", userID).Delete(&User{}).Error; err != nil {
		return wrapErr("reset user", err)
	}
	return nil
}
