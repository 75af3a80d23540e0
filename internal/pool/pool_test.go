package pool

import "testing"

func samplePairs() []QAPair {
	return []QAPair{
		{Question: "What is recursion?", Answer: "A function calling itself."},
		{Question: "What is a base case?", Answer: "The condition that stops recursion."},
	}
}

func TestCurrentAndAdvance(t *testing.T) {
	p := New(samplePairs())

	pair, ok := p.Current()
	if !ok {
		t.Fatal("expected a current pair")
	}
	if pair.Question != "What is recursion?" {
		t.Errorf("unexpected first question %q", pair.Question)
	}

	if got := p.Advance(); got != 1 {
		t.Errorf("Advance should return the new cursor, got %d", got)
	}
	pair, ok = p.Current()
	if !ok || pair.Question != "What is a base case?" {
		t.Errorf("expected second question, got %q, %v", pair.Question, ok)
	}

	if got := p.Advance(); got != 2 {
		t.Errorf("Advance should return the new cursor, got %d", got)
	}
	if _, ok := p.Current(); ok {
		t.Error("expected exhaustion after last pair")
	}
	if !p.Exhausted() {
		t.Error("Exhausted should report true")
	}
}

func TestAdvancePastEndIsIdempotent(t *testing.T) {
	p := New(samplePairs())
	for range 10 {
		if got := p.Advance(); got > 2 {
			t.Fatalf("cursor must clamp at pool length, Advance returned %d", got)
		}
	}
	if p.Position() != 2 {
		t.Errorf("cursor must clamp at pool length, got %d", p.Position())
	}
	if p.Remaining() != 0 {
		t.Errorf("expected 0 remaining, got %d", p.Remaining())
	}
}

func TestEmptyPool(t *testing.T) {
	p := New(nil)
	if _, ok := p.Current(); ok {
		t.Error("empty pool has no current pair")
	}
	if !p.Exhausted() {
		t.Error("empty pool is exhausted from the start")
	}
	if got := p.Advance(); got != 0 {
		t.Errorf("cursor moved on empty pool: %d", got)
	}
}

func TestRemaining(t *testing.T) {
	p := New(samplePairs())
	if p.Remaining() != 2 {
		t.Errorf("expected 2 remaining, got %d", p.Remaining())
	}
	p.Advance()
	if p.Remaining() != 1 {
		t.Errorf("expected 1 remaining, got %d", p.Remaining())
	}
}
