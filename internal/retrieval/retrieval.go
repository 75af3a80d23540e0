// Package retrieval exposes the document corpus behind a single Search
// call. The core uses it once per session to seed the question pool; index
// construction lives in the ingest command.
package retrieval

import "context"

// Searcher returns the k most relevant text chunks for a query. An empty
// result is normal, not an error.
type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]string, error)
}
