package retrieval

import (
	"context"
	"fmt"

	"github.com/pinecone-io/go-pinecone/v3/pinecone"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/radnus321/learning-by-teaching/internal/catalog"
)

// PineconeSearcher implements Searcher over a Pinecone index populated by
// the ingest command. Chunk text travels in vector metadata under "content".
type PineconeSearcher struct {
	client    *pinecone.Client
	embedder  embeddings.Embedder
	indexName string
	namespace string
}

// PineconeConfig holds keys for the index and the embedding model.
type PineconeConfig struct {
	APIKey       string
	OpenAIAPIKey string
}

// NewPineconeSearcher connects to the topic's index.
func NewPineconeSearcher(cfg PineconeConfig, topic catalog.Topic) (*PineconeSearcher, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("pinecone API key is required")
	}

	pc, err := pinecone.NewClient(pinecone.NewClientParams{ApiKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("create pinecone client: %w", err)
	}

	llm, err := openai.New(
		openai.WithModel("gpt-4o-mini"),
		openai.WithToken(cfg.OpenAIAPIKey),
	)
	if err != nil {
		return nil, fmt.Errorf("create embedding client: %w", err)
	}
	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}

	return &PineconeSearcher{
		client:    pc,
		embedder:  embedder,
		indexName: topic.Index,
		namespace: topic.Namespace,
	}, nil
}

// Search embeds the query and returns the text of the top-k matches.
func (s *PineconeSearcher) Search(ctx context.Context, query string, k int) ([]string, error) {
	idxDesc, err := s.client.DescribeIndex(ctx, s.indexName)
	if err != nil {
		return nil, fmt.Errorf("describe index %s: %w", s.indexName, err)
	}

	idxConn, err := s.client.Index(pinecone.NewIndexConnParams{
		Host:      idxDesc.Host,
		Namespace: s.namespace,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to index %s: %w", s.indexName, err)
	}

	vectors, err := s.embedder.EmbedDocuments(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	result, err := idxConn.QueryByVectorValues(ctx, &pinecone.QueryByVectorValuesRequest{
		Vector:          vectors[0],
		TopK:            uint32(k),
		IncludeMetadata: true,
	})
	if err != nil {
		return nil, fmt.Errorf("query vectors: %w", err)
	}

	var chunks []string
	for _, match := range result.Matches {
		if match.Vector.Metadata == nil {
			continue
		}
		metadata := match.Vector.Metadata.AsMap()
		if content, ok := metadata["content"].(string); ok && content != "" {
			chunks = append(chunks, content)
		}
	}
	return chunks, nil
}
