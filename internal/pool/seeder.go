package pool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/radnus321/learning-by-teaching/internal/catalog"
	"github.com/radnus321/learning-by-teaching/internal/llm"
	"github.com/radnus321/learning-by-teaching/internal/retrieval"
)

// qaListSchema shapes the seeding model's output: a list of question/answer
// pairs grounded in the retrieved material.
var qaListSchema = &llm.Schema{
	Name:        "qa-list",
	Description: "Question and answer pairs derived from source material",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"pairs": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{
							"type":        "string",
							"description": "A question the learner should be able to teach",
						},
						"answer": map[string]any{
							"type":        "string",
							"description": "The reference answer, grounded in the material",
						},
					},
					"required": []string{"question", "answer"},
				},
			},
		},
		"required": []string{"pairs"},
	},
}

const seederSystemPrompt = `You generate teaching prompts from reference material.

Given excerpts from study material, produce question/answer pairs that a
learner could be asked to explain aloud. Questions should be conceptual
("what is", "how does", "why") rather than trivia. Answers are the reference
the learner's explanation will be judged against, so keep them complete but
brief, a few sentences each.

Only use what the excerpts support. Respond with JSON matching the schema.`

// Seeder turns retrieved material into a question pool.
type Seeder struct {
	searcher retrieval.Searcher
	provider llm.Provider

	// MaxPairs caps how many pairs a single seeding asks for.
	MaxPairs int
}

// NewSeeder builds a seeder over a searcher and a model provider.
func NewSeeder(searcher retrieval.Searcher, provider llm.Provider) *Seeder {
	return &Seeder{searcher: searcher, provider: provider, MaxPairs: 5}
}

// Seed retrieves material for the query and asks the model for QA pairs.
// A model reply that fails to parse yields an empty pool, not an error:
// the session still starts, it just has nothing to ask.
func (s *Seeder) Seed(ctx context.Context, query string, k int) (*Pool, error) {
	chunks, err := s.searcher.Search(ctx, query, k)
	if err != nil {
		return nil, fmt.Errorf("seed pool: %w", err)
	}
	if len(chunks) == 0 {
		return New(nil), nil
	}

	resp, err := s.provider.Generate(llm.WithPurpose(ctx, "qa-pool"), llm.Request{
		System: seederSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildSeedMessage(chunks, s.MaxPairs)},
		},
		Schema:      qaListSchema,
		MaxTokens:   2048,
		Temperature: 0.3,
	})
	if err != nil {
		return nil, fmt.Errorf("seed pool: %w", err)
	}

	var out struct {
		Pairs []struct {
			Question string `json:"question"`
			Answer   string `json:"answer"`
		} `json:"pairs"`
	}
	if err := json.Unmarshal(llm.StripFences(resp.Content), &out); err != nil {
		return New(nil), nil
	}

	pairs := make([]QAPair, 0, len(out.Pairs))
	for _, p := range out.Pairs {
		if strings.TrimSpace(p.Question) == "" {
			continue
		}
		pairs = append(pairs, QAPair{Question: p.Question, Answer: p.Answer})
	}
	return New(pairs), nil
}

// SearcherFor picks the retrieval backend for a topic, usually the topic's
// own vector index.
type SearcherFor func(topic catalog.Topic) (retrieval.Searcher, error)

// TopicSeeder seeds a pool from a topic's seed query, resolving the
// searcher per topic.
type TopicSeeder struct {
	searcherFor SearcherFor
	provider    llm.Provider

	// Questions is how many QA pairs to ask for per topic.
	Questions int
}

// NewTopicSeeder builds a topic seeder.
func NewTopicSeeder(searcherFor SearcherFor, provider llm.Provider) *TopicSeeder {
	return &TopicSeeder{searcherFor: searcherFor, provider: provider, Questions: 5}
}

// SeedTopic retrieves the topic's material and builds its question pool.
func (s *TopicSeeder) SeedTopic(ctx context.Context, topic catalog.Topic) (*Pool, error) {
	searcher, err := s.searcherFor(topic)
	if err != nil {
		return nil, fmt.Errorf("seed topic %s: %w", topic.Name, err)
	}
	inner := NewSeeder(searcher, s.provider)
	inner.MaxPairs = s.Questions
	return inner.Seed(ctx, topic.SeedQuery, 8)
}

func buildSeedMessage(chunks []string, maxPairs int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Produce at most %d question/answer pairs from the material below.\n\n", maxPairs)
	for i, c := range chunks {
		fmt.Fprintf(&b, "=== Excerpt %d ===\n%s\n\n", i+1, c)
	}
	return b.String()
}
