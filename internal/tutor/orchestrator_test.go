package tutor

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/radnus321/learning-by-teaching/internal/agents"
	"github.com/radnus321/learning-by-teaching/internal/llm"
	"github.com/radnus321/learning-by-teaching/internal/pool"
	"github.com/radnus321/learning-by-teaching/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testPool() *pool.Pool {
	return pool.New([]pool.QAPair{
		{Question: "What is recursion?", Answer: "A function calling itself."},
		{Question: "What is a base case?", Answer: "The condition that stops recursion."},
	})
}

func studentReply(message string) llm.MockResponse {
	var msgField string
	if message != "" {
		msgField = `"message": ` + mustJSON(message) + `,`
	} else {
		msgField = `"message": "",`
	}
	return llm.MockResponse{Content: json.RawMessage(`{` + msgField + `
		"rating": "needs work",
		"reflection": "Mostly follows.",
		"missing_points": []
	}`)}
}

func evaluatorReply() llm.MockResponse {
	return llm.MockResponse{Content: json.RawMessage(`{
		"rating": "good",
		"missing_points": [],
		"incorrect_points": [],
		"feedback": "Solid explanation.",
		"referenced_points": []
	}`)}
}

func scorerReply() llm.MockResponse {
	return llm.MockResponse{Content: json.RawMessage(`{
		"overall_score": 0.8,
		"teacher_clarity": 0.8,
		"teacher_completeness": 0.7,
		"student_understanding": 0.75,
		"student_engagement": 0.9,
		"comments": []
	}`)}
}

func mustJSON(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

// fullTurn queues one complete turn's worth of agent replies.
func fullTurn(mock *llm.MockProvider, followUp string) {
	mock.AddResponse(studentReply(followUp))
	mock.AddResponse(evaluatorReply())
	mock.AddResponse(scorerReply())
}

func TestRunTurn_NoFollowUpAdvancesPool(t *testing.T) {
	st := openTestStore(t)
	mock := llm.NewMockProvider()
	fullTurn(mock, "")
	o := New(st, agents.New(mock, agents.DefaultConfig()))
	sess := NewSession("u1", "u1@example.com", "Uma", "recursion", testPool())

	res, err := o.RunTurn(context.Background(), sess, "Recursion is a function calling itself with a stopping condition.")
	if err != nil {
		t.Fatalf("run turn: %v", err)
	}
	if !res.Advanced {
		t.Error("expected cursor advance without a follow-up")
	}
	if res.TopicComplete {
		t.Error("pool should not be complete yet")
	}
	if !strings.Contains(res.Reply, "What is a base case?") {
		t.Errorf("expected next question in reply, got %q", res.Reply)
	}
	if sess.Pool.Position() != 1 {
		t.Errorf("cursor should be 1, got %d", sess.Pool.Position())
	}

	// The second no-follow-up turn exhausts the pool.
	fullTurn(mock, "")
	res, err = o.RunTurn(context.Background(), sess, "A base case stops the recursion.")
	if err != nil {
		t.Fatalf("second turn: %v", err)
	}
	if !res.TopicComplete {
		t.Error("expected topic completion on the last pair")
	}
	if !sess.Pool.Exhausted() {
		t.Error("pool should be exhausted")
	}
}

func TestRunTurn_FollowUpKeepsCursor(t *testing.T) {
	st := openTestStore(t)
	mock := llm.NewMockProvider()
	fullTurn(mock, "But how does the stack not overflow?")
	o := New(st, agents.New(mock, agents.DefaultConfig()))
	sess := NewSession("u1", "", "", "recursion", testPool())

	res, err := o.RunTurn(context.Background(), sess, "Recursion is a function calling itself.")
	if err != nil {
		t.Fatalf("run turn: %v", err)
	}
	if res.Advanced {
		t.Error("follow-up must not advance the cursor")
	}
	if res.Reply != "But how does the stack not overflow?" {
		t.Errorf("expected the follow-up as the reply, got %q", res.Reply)
	}
	if sess.Pool.Position() != 0 {
		t.Errorf("cursor moved on follow-up: %d", sess.Pool.Position())
	}

	// All four artifacts persisted under one interaction id.
	ids, err := st.InteractionIDs(context.Background(), "u1")
	if err != nil || len(ids) != 1 {
		t.Fatalf("expected 1 interaction, got %d (err %v)", len(ids), err)
	}
	records, err := st.StudentRecords(context.Background(), ids)
	if err != nil || len(records) != 1 {
		t.Fatalf("expected 1 student record, got %d (err %v)", len(records), err)
	}
	if records[0].FollowUp == nil || *records[0].FollowUp != "But how does the stack not overflow?" {
		t.Error("follow-up not persisted")
	}
}

func TestRunTurn_StudentFailureKeepsTeacherRecord(t *testing.T) {
	st := openTestStore(t)
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`not json at all`),
	})
	o := New(st, agents.New(mock, agents.DefaultConfig()))
	sess := NewSession("u1", "", "", "recursion", testPool())

	_, err := o.RunTurn(context.Background(), sess, "Recursion is...")
	var turnErr *TurnError
	if !errors.As(err, &turnErr) {
		t.Fatalf("expected TurnError, got %v", err)
	}
	if turnErr.Stage != StageStudent {
		t.Errorf("expected failure at student stage, got %s", turnErr.Stage)
	}
	var agentErr *agents.AgentError
	if !errors.As(err, &agentErr) {
		t.Error("expected the agent error to be unwrappable")
	}

	// Teacher text made it to disk; no student record exists.
	ids, _ := st.InteractionIDs(context.Background(), "u1")
	if len(ids) != 1 {
		t.Fatalf("expected the interaction persisted, got %d", len(ids))
	}
	records, _ := st.StudentRecords(context.Background(), ids)
	if len(records) != 0 {
		t.Errorf("expected no student record, got %d", len(records))
	}
	if sess.Pool.Position() != 0 {
		t.Error("failed turn must not advance the cursor")
	}
}

func TestRunTurn_MemoryCarriesAcrossTurns(t *testing.T) {
	st := openTestStore(t)
	mock := llm.NewMockProvider()
	fullTurn(mock, "What about mutual recursion?")
	fullTurn(mock, "")
	o := New(st, agents.New(mock, agents.DefaultConfig()))
	sess := NewSession("u1", "", "", "recursion", testPool())

	if _, err := o.RunTurn(context.Background(), sess, "First explanation."); err != nil {
		t.Fatalf("first turn: %v", err)
	}
	if _, err := o.RunTurn(context.Background(), sess, "Second explanation."); err != nil {
		t.Fatalf("second turn: %v", err)
	}

	// Calls 3..5 belong to the second turn; the student call is first.
	secondStudentPrompt := mock.Calls[3].Messages[0].Content
	if !strings.Contains(secondStudentPrompt, "What about mutual recursion?") {
		t.Error("expected the first turn's follow-up in the second turn's student prompt")
	}
}

func TestRunTurn_ExhaustedPoolStillRuns(t *testing.T) {
	st := openTestStore(t)
	mock := llm.NewMockProvider()
	fullTurn(mock, "")
	o := New(st, agents.New(mock, agents.DefaultConfig()))
	sess := NewSession("u1", "", "", "recursion", pool.New(nil))

	res, err := o.RunTurn(context.Background(), sess, "An unprompted explanation.")
	if err != nil {
		t.Fatalf("turn on exhausted pool must still run: %v", err)
	}
	if res.Question.Question != "" {
		t.Error("expected an empty question on an exhausted pool")
	}
	if !res.TopicComplete {
		t.Error("exhausted pool reports topic complete")
	}
}

func TestRunTurn_SerializedPerSession(t *testing.T) {
	st := openTestStore(t)
	mock := llm.NewMockProvider()
	for range 4 {
		fullTurn(mock, "")
	}
	o := New(st, agents.New(mock, agents.DefaultConfig()))
	sess := NewSession("u1", "", "", "recursion", pool.New([]pool.QAPair{
		{Question: "q1"}, {Question: "q2"}, {Question: "q3"}, {Question: "q4"},
	}))

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := o.RunTurn(context.Background(), sess, "explanation"); err != nil {
				t.Errorf("turn: %v", err)
			}
		}()
	}
	wg.Wait()

	if sess.Pool.Position() != 4 {
		t.Errorf("expected exactly 4 advances, got %d", sess.Pool.Position())
	}
	ids, err := st.InteractionIDs(context.Background(), "u1")
	if err != nil || len(ids) != 4 {
		t.Errorf("expected 4 interactions, got %d (err %v)", len(ids), err)
	}
}

func TestManager(t *testing.T) {
	m := NewManager()
	if _, ok := m.Get("u1"); ok {
		t.Error("no session expected before Start")
	}
	s := m.Start("u1", "", "", "recursion", testPool())
	got, ok := m.Get("u1")
	if !ok || got != s {
		t.Error("Start must register the session")
	}
	s2 := m.Start("u1", "", "", "recursion", testPool())
	if got, _ := m.Get("u1"); got != s2 {
		t.Error("Start must replace the prior session")
	}
	m.End("u1")
	if _, ok := m.Get("u1"); ok {
		t.Error("End must drop the session")
	}
}
