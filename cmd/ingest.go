package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pinecone-io/go-pinecone/v3/pinecone"
	"github.com/spf13/cobra"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/textsplitter"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ingestChunkSize    = 1000
	ingestChunkOverlap = 200
	upsertBatchSize    = 10
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <topic> <file-or-dir>...",
	Short: "Index study material into a topic's question source",
	Long: "Reads .md and .txt files, splits them into chunks, embeds each chunk,\n" +
		"and upserts the vectors into the topic's Pinecone index. Chat sessions on\n" +
		"that topic then seed their questions from this material.",
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog(cmd)
		if err != nil {
			return err
		}
		topic, err := cat.Resolve(args[0])
		if err != nil {
			return err
		}
		if topic.Index == "" {
			return fmt.Errorf("topic %q has no index configured", topic.Name)
		}

		apiKey := os.Getenv("PINECONE_API_KEY")
		if apiKey == "" {
			return fmt.Errorf("PINECONE_API_KEY is required for ingest")
		}

		chunks, err := collectChunks(args[1:])
		if err != nil {
			return err
		}
		if len(chunks) == 0 {
			return fmt.Errorf("no ingestable content found (looked for .md and .txt files)")
		}
		fmt.Printf("Split %d file argument(s) into %d chunks\n", len(args)-1, len(chunks))

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return upsertChunks(ctx, apiKey, topic.Index, topic.Namespace, chunks)
	},
}

// collectChunks reads the given files or directories and splits their text.
func collectChunks(paths []string) ([]string, error) {
	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(ingestChunkSize),
		textsplitter.WithChunkOverlap(ingestChunkOverlap),
	)

	var chunks []string
	for _, p := range paths {
		files, err := listTextFiles(p)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			data, err := os.ReadFile(f)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", f, err)
			}
			split, err := splitter.SplitText(string(data))
			if err != nil {
				return nil, fmt.Errorf("split %s: %w", f, err)
			}
			for _, c := range split {
				if strings.TrimSpace(c) != "" {
					chunks = append(chunks, c)
				}
			}
		}
	}
	return chunks, nil
}

func listTextFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(p)) {
		case ".md", ".txt":
			files = append(files, p)
		}
		return nil
	})
	return files, err
}

// upsertChunks embeds each chunk and writes the vectors in batches. Chunk
// text rides in metadata under "content"; retrieval reads it back from there.
func upsertChunks(ctx context.Context, apiKey, indexName, namespace string, chunks []string) error {
	pc, err := pinecone.NewClient(pinecone.NewClientParams{ApiKey: apiKey})
	if err != nil {
		return fmt.Errorf("create pinecone client: %w", err)
	}

	llm, err := openai.New(
		openai.WithModel("gpt-4o-mini"),
		openai.WithToken(os.Getenv("OPENAI_API_KEY")),
	)
	if err != nil {
		return fmt.Errorf("create embedding client: %w", err)
	}
	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return fmt.Errorf("create embedder: %w", err)
	}

	idxDesc, err := pc.DescribeIndex(ctx, indexName)
	if err != nil {
		return fmt.Errorf("describe index %s: %w", indexName, err)
	}
	idxConn, err := pc.Index(pinecone.NewIndexConnParams{
		Host:      idxDesc.Host,
		Namespace: namespace,
	})
	if err != nil {
		return fmt.Errorf("connect to index %s: %w", indexName, err)
	}

	vectors, err := embedder.EmbedDocuments(ctx, chunks)
	if err != nil {
		return fmt.Errorf("embed chunks: %w", err)
	}

	pineconeVectors := make([]*pinecone.Vector, 0, len(chunks))
	for i, chunk := range chunks {
		metadata, err := structpb.NewStruct(map[string]any{"content": chunk})
		if err != nil {
			return fmt.Errorf("build metadata: %w", err)
		}
		pineconeVectors = append(pineconeVectors, &pinecone.Vector{
			Id:       uuid.NewString(),
			Values:   &vectors[i],
			Metadata: metadata,
		})
	}

	for i := 0; i < len(pineconeVectors); i += upsertBatchSize {
		end := i + upsertBatchSize
		if end > len(pineconeVectors) {
			end = len(pineconeVectors)
		}
		count, err := idxConn.UpsertVectors(ctx, pineconeVectors[i:end])
		if err != nil {
			return fmt.Errorf("upsert batch at %d: %w", i, err)
		}
		fmt.Printf("Upserted %d vectors (%d/%d)\n", count, end, len(pineconeVectors))
	}

	fmt.Println("Done.")
	return nil
}
