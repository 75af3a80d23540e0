package retrieval

import (
	"context"
	"strings"
)

// StaticSearcher serves canned chunks keyed by substring match on the
// query. It backs offline demos and tests, and doubles as the fallback when
// no vector index is configured.
type StaticSearcher struct {
	chunks map[string][]string
	// Fallback is returned when no key matches the query.
	Fallback []string
}

// NewStaticSearcher builds a StaticSearcher over the given keyed chunks.
func NewStaticSearcher(chunks map[string][]string) *StaticSearcher {
	return &StaticSearcher{chunks: chunks}
}

// DefaultStaticSearcher carries a small built-in corpus on the default
// topic, for running without any index at all.
func DefaultStaticSearcher() *StaticSearcher {
	return &StaticSearcher{
		chunks: map[string][]string{
			"learning by teaching": {
				"Learning by teaching, sometimes called the protégé effect, is the finding that students who prepare to teach material to others learn it more deeply than students who prepare to be tested on it.",
				"Explaining a concept to a novice forces the explainer to organize their knowledge, detect gaps, and generate examples, all of which strengthen retention.",
				"Teachable-agent systems pair a human learner with a simulated student; the human teaches, and the agent asks clarifying questions that surface weaknesses in the explanation.",
				"Feedback loops matter: when the simulated student rates its own understanding, the human teacher learns which parts of an explanation landed and which need rework.",
			},
		},
	}
}

// Search returns up to k chunks whose key appears in the query.
func (s *StaticSearcher) Search(_ context.Context, query string, k int) ([]string, error) {
	queryLower := strings.ToLower(query)

	var matched []string
	for key, chunks := range s.chunks {
		if strings.Contains(queryLower, strings.ToLower(key)) {
			matched = append(matched, chunks...)
		}
	}
	if matched == nil {
		matched = s.Fallback
	}
	if k > 0 && len(matched) > k {
		matched = matched[:k]
	}
	return matched, nil
}
