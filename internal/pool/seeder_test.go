package pool

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/radnus321/learning-by-teaching/internal/catalog"
	"github.com/radnus321/learning-by-teaching/internal/llm"
	"github.com/radnus321/learning-by-teaching/internal/retrieval"
)

func testSearcher() *retrieval.StaticSearcher {
	return retrieval.NewStaticSearcher(map[string][]string{
		"recursion": {
			"Recursion is a technique where a function calls itself.",
			"Every recursive function needs a base case to terminate.",
		},
	})
}

func TestSeed(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{
		"pairs": [
			{"question": "What is recursion?", "answer": "A function calling itself."},
			{"question": "Why is a base case needed?", "answer": "Without it the recursion never terminates."}
		]
	}`)})
	s := NewSeeder(testSearcher(), mock)

	p, err := s.Seed(context.Background(), "recursion basics", 4)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if p.Len() != 2 {
		t.Fatalf("expected 2 pairs, got %d", p.Len())
	}
	pair, _ := p.Current()
	if pair.Question != "What is recursion?" {
		t.Errorf("unexpected first question %q", pair.Question)
	}
}

func TestSeed_NoMaterialYieldsEmptyPool(t *testing.T) {
	mock := llm.NewMockProvider() // would fail if invoked
	s := NewSeeder(testSearcher(), mock)

	p, err := s.Seed(context.Background(), "completely unrelated query", 4)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if !p.Exhausted() {
		t.Error("expected an empty pool when nothing was retrieved")
	}
	if mock.CallCount() != 0 {
		t.Error("model must not be invoked without material")
	}
}

func TestSeed_UnparseableReplyYieldsEmptyPool(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`sorry, I cannot produce JSON today`),
	})
	s := NewSeeder(testSearcher(), mock)

	p, err := s.Seed(context.Background(), "recursion", 4)
	if err != nil {
		t.Fatalf("parse failure must not be an error: %v", err)
	}
	if p.Len() != 0 {
		t.Errorf("expected empty pool, got %d pairs", p.Len())
	}
}

func TestSeed_BlankQuestionsDropped(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{
		"pairs": [
			{"question": "  ", "answer": "orphan answer"},
			{"question": "What is recursion?", "answer": "A function calling itself."}
		]
	}`)})
	s := NewSeeder(testSearcher(), mock)

	p, err := s.Seed(context.Background(), "recursion", 4)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if p.Len() != 1 {
		t.Errorf("expected blank question dropped, got %d pairs", p.Len())
	}
}

func TestTopicSeeder(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{
		"pairs": [{"question": "What is recursion?", "answer": "A function calling itself."}]
	}`)})
	var resolved catalog.Topic
	s := NewTopicSeeder(func(topic catalog.Topic) (retrieval.Searcher, error) {
		resolved = topic
		return testSearcher(), nil
	}, mock)

	topic := catalog.Topic{Name: "recursion", SeedQuery: "recursion fundamentals"}
	p, err := s.SeedTopic(context.Background(), topic)
	if err != nil {
		t.Fatalf("seed topic: %v", err)
	}
	if p.Len() != 1 {
		t.Errorf("expected 1 pair, got %d", p.Len())
	}
	if resolved.Name != "recursion" {
		t.Errorf("searcher resolved for wrong topic %q", resolved.Name)
	}
}

func TestTopicSeeder_SearcherErrorPropagates(t *testing.T) {
	s := NewTopicSeeder(func(catalog.Topic) (retrieval.Searcher, error) {
		return nil, errors.New("index offline")
	}, llm.NewMockProvider())

	if _, err := s.SeedTopic(context.Background(), catalog.Topic{Name: "x"}); err == nil {
		t.Fatal("expected searcher error to propagate")
	}
}

func TestSeed_ProviderErrorPropagates(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: errors.New("boom")})
	s := NewSeeder(testSearcher(), mock)

	if _, err := s.Seed(context.Background(), "recursion", 4); err == nil {
		t.Fatal("expected provider error to propagate")
	}
}
