package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/radnus321/learning-by-teaching/internal/llm"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateInteraction(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.EnsureUser(ctx, "alice", "alice@example.com", "Alice"); err != nil {
		t.Fatalf("ensure user: %v", err)
	}

	id1, err := s.CreateInteraction(ctx, "alice")
	if err != nil {
		t.Fatalf("create interaction: %v", err)
	}
	id2, err := s.CreateInteraction(ctx, "alice")
	if err != nil {
		t.Fatalf("create interaction: %v", err)
	}
	if id1 == id2 {
		t.Error("expected distinct interaction ids")
	}

	ids, err := s.InteractionIDs(ctx, "alice")
	if err != nil {
		t.Fatalf("list ids: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("expected 2 interactions, got %d", len(ids))
	}
}

func TestEnsureUser_Idempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.EnsureUser(ctx, "bob", "bob@example.com", "Bob"); err != nil {
		t.Fatalf("first ensure: %v", err)
	}
	if err := s.EnsureUser(ctx, "bob", "other@example.com", "Robert"); err != nil {
		t.Fatalf("second ensure: %v", err)
	}

	var user User
	if err := s.DB().First(&user, "id = ?", "bob").Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	// First write wins; re-contact does not rewrite the user row.
	if user.Email != "bob@example.com" {
		t.Errorf("expected original email kept, got %q", user.Email)
	}
}

func TestPutStudent_UpsertLastWriteWins(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.CreateInteraction(ctx, "alice")
	if err != nil {
		t.Fatalf("create interaction: %v", err)
	}

	followUp := "what about base cases?"
	first := StudentRecord{
		InteractionID: id,
		FollowUp:      &followUp,
		Rating:        "needs work",
		Reflection:    "I am unsure about termination.",
		MissingPoints: StringList{"base case"},
	}
	if err := s.PutStudent(ctx, first); err != nil {
		t.Fatalf("first put: %v", err)
	}

	second := StudentRecord{
		InteractionID: id,
		Rating:        "understood",
		Reflection:    "Now it is clear.",
	}
	if err := s.PutStudent(ctx, second); err != nil {
		t.Fatalf("second put: %v", err)
	}

	records, err := s.StudentRecords(ctx, []string{id})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record after re-delivery, got %d", len(records))
	}
	if records[0].Rating != "understood" {
		t.Errorf("expected last write to win, got rating %q", records[0].Rating)
	}
	if records[0].FollowUp != nil {
		t.Errorf("expected follow-up cleared by last write, got %q", *records[0].FollowUp)
	}
}

func TestStudentRecords_EmptyIDSet(t *testing.T) {
	s := openTestStore(t)

	records, err := s.StudentRecords(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}

func TestScoreHistory_OnlyOwnUser(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	aliceID, _ := s.CreateInteraction(ctx, "alice")
	bobID, _ := s.CreateInteraction(ctx, "bob")

	if err := s.PutScorer(ctx, ScorerRecord{InteractionID: aliceID, OverallScore: 0.9}); err != nil {
		t.Fatalf("put alice scorer: %v", err)
	}
	if err := s.PutScorer(ctx, ScorerRecord{InteractionID: bobID, OverallScore: 0.2}); err != nil {
		t.Fatalf("put bob scorer: %v", err)
	}

	history, err := s.ScoreHistory(ctx, "alice")
	if err != nil {
		t.Fatalf("score history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 record, got %d", len(history))
	}
	if history[0].OverallScore != 0.9 {
		t.Errorf("expected alice's score, got %f", history[0].OverallScore)
	}
}

func TestResetUser(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.EnsureUser(ctx, "alice", "", ""); err != nil {
		t.Fatalf("ensure user: %v", err)
	}
	id, _ := s.CreateInteraction(ctx, "alice")
	if err := s.PutTeacher(ctx, TeacherRecord{InteractionID: id, Text: "an explanation"}); err != nil {
		t.Fatalf("put teacher: %v", err)
	}
	if err := s.PutStudent(ctx, StudentRecord{InteractionID: id, Rating: "understood"}); err != nil {
		t.Fatalf("put student: %v", err)
	}

	if err := s.ResetUser(ctx, "alice"); err != nil {
		t.Fatalf("reset: %v", err)
	}

	ids, err := s.InteractionIDs(ctx, "alice")
	if err != nil {
		t.Fatalf("list ids: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("expected no interactions after reset, got %d", len(ids))
	}
	var count int64
	s.DB().Model(&StudentRecord{}).Count(&count)
	if count != 0 {
		t.Errorf("expected student records gone, got %d", count)
	}
}

func TestLLMCallLog(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, purpose := range []string{"student", "student", "scorer"} {
		err := s.AppendLLMCall(ctx, llm.CallRecord{
			Provider:     "mock",
			Model:        "mock",
			Purpose:      purpose,
			InputTokens:  100,
			OutputTokens: 50,
			LatencyMs:    10,
			Success:      true,
		})
		if err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	calls, err := s.RecentLLMCalls(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(calls) != 2 {
		t.Fatalf("expected limit respected, got %d", len(calls))
	}

	got, err := s.LLMCallByID(ctx, calls[0].ID)
	if err != nil {
		t.Fatalf("by id: %v", err)
	}
	if got == nil || got.ID != calls[0].ID {
		t.Error("expected the row back by id")
	}
	if missing, err := s.LLMCallByID(ctx, 9999); err != nil || missing != nil {
		t.Errorf("expected nil for unknown id, got %v (err %v)", missing, err)
	}

	usage, err := s.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	if len(usage) != 2 {
		t.Fatalf("expected 2 purposes, got %d", len(usage))
	}
	for _, u := range usage {
		if u.Purpose == "student" && u.Calls != 2 {
			t.Errorf("expected 2 student calls, got %d", u.Calls)
		}
		if u.Purpose == "student" && u.InputTokens != 200 {
			t.Errorf("expected summed input tokens, got %d", u.InputTokens)
		}
	}
}

func TestStringList_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, _ := s.CreateInteraction(ctx, "alice")
	rec := EvaluatorRecord{
		InteractionID:   id,
		Rating:          "partial",
		MissingPoints:   StringList{"termination", "stack depth"},
		IncorrectPoints: StringList{},
		Feedback:        "Cover the base case.",
	}
	if err := s.PutEvaluator(ctx, rec); err != nil {
		t.Fatalf("put evaluator: %v", err)
	}

	var loaded EvaluatorRecord
	if err := s.DB().First(&loaded, "interaction_id = ?", id).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.MissingPoints) != 2 || loaded.MissingPoints[0] != "termination" {
		t.Errorf("missing points did not round-trip: %v", loaded.MissingPoints)
	}
}
