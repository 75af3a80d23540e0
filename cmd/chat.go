package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/radnus321/learning-by-teaching/internal/agents"
	"github.com/radnus321/learning-by-teaching/internal/app"
	"github.com/radnus321/learning-by-teaching/internal/catalog"
	"github.com/radnus321/learning-by-teaching/internal/llm"
	"github.com/radnus321/learning-by-teaching/internal/pool"
	"github.com/radnus321/learning-by-teaching/internal/retrieval"
	"github.com/radnus321/learning-by-teaching/internal/store"
	"github.com/radnus321/learning-by-teaching/internal/tutor"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start a teaching session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd)
	},
}

// runChat opens the store, builds dependencies, and launches the TUI.
func runChat(cmd *cobra.Command) error {
	ctx := cmd.Context()

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	provider, err := llm.NewProviderFromEnv(ctx, st)
	if err != nil {
		return fmt.Errorf("no model provider configured: %w\nSet GEMINI_API_KEY, OPENAI_API_KEY, or ANTHROPIC_API_KEY", err)
	}

	cat, err := loadCatalog(cmd)
	if err != nil {
		return err
	}

	opts := app.Options{
		Store:    st,
		Gateway:  agents.New(provider, agents.DefaultConfig()),
		Seeder:   pool.NewTopicSeeder(searcherFor(), provider),
		Catalog:  cat,
		Sessions: tutor.NewManager(),
		UserID:   localUserID(),
	}
	return app.Run(opts)
}

// loadCatalog reads the topics file named by --topics or TEACHBACK_TOPICS,
// falling back to the built-in catalog.
func loadCatalog(cmd *cobra.Command) (*catalog.Catalog, error) {
	path, _ := cmd.Flags().GetString("topics")
	if path == "" {
		path = os.Getenv("TEACHBACK_TOPICS")
	}
	if path == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load topics: %w", err)
	}
	return cat, nil
}

// searcherFor prefers the topic's Pinecone index when keys are present and
// falls back to the built-in offline corpus.
func searcherFor() pool.SearcherFor {
	apiKey := os.Getenv("PINECONE_API_KEY")
	return func(topic catalog.Topic) (retrieval.Searcher, error) {
		if apiKey == "" || topic.Index == "" {
			return retrieval.DefaultStaticSearcher(), nil
		}
		return retrieval.NewPineconeSearcher(retrieval.PineconeConfig{
			APIKey:       apiKey,
			OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		}, topic)
	}
}

func localUserID() string {
	if id := os.Getenv("TEACHBACK_USER"); id != "" {
		return id
	}
	if id := os.Getenv("USER"); id != "" {
		return id
	}
	return "local"
}
