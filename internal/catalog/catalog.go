// Package catalog is the read-only registry mapping topic names to their
// retrieval indexes. An external ingestion run refreshes the underlying
// file; the core only reads it.
package catalog

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Topic describes one teachable topic and where its document corpus lives.
type Topic struct {
	// Name is the key users select by.
	Name string `yaml:"name"`

	// Description is a short human-readable summary.
	Description string `yaml:"description"`

	// Index is the vector index holding the topic's corpus.
	Index string `yaml:"index"`

	// Namespace partitions the index when several topics share one.
	Namespace string `yaml:"namespace"`

	// SeedQuery is the retrieval query used to pull context for the
	// initial question pool. Defaults to the topic name.
	SeedQuery string `yaml:"seed_query"`
}

// ErrTopicNotFound reports a topic key absent from the catalog. It aborts
// session setup before any generative work.
type ErrTopicNotFound struct {
	Name string
}

func (e *ErrTopicNotFound) Error() string {
	return fmt.Sprintf("topic %q not found in catalog", e.Name)
}

// Catalog holds the loaded registry.
type Catalog struct {
	topics map[string]Topic
}

type catalogFile struct {
	Topics []Topic `yaml:"topics"`
}

// Load reads the catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse builds a catalog from YAML bytes.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	topics := make(map[string]Topic, len(file.Topics))
	for _, t := range file.Topics {
		if t.Name == "" {
			return nil, fmt.Errorf("catalog entry missing name")
		}
		if t.SeedQuery == "" {
			t.SeedQuery = t.Name
		}
		topics[t.Name] = t
	}

	return &Catalog{topics: topics}, nil
}

// Default returns the built-in single-topic catalog used when no file is
// configured.
func Default() *Catalog {
	return &Catalog{topics: map[string]Topic{
		"learning-by-teaching": {
			Name:        "learning-by-teaching",
			Description: "The protégé effect and teaching as a learning strategy",
			Index:       "teachback-docs",
			Namespace:   "learning-by-teaching",
			SeedQuery:   "learning by teaching",
		},
	}}
}

// Resolve looks up a topic by name.
func (c *Catalog) Resolve(name string) (Topic, error) {
	t, ok := c.topics[name]
	if !ok {
		return Topic{}, &ErrTopicNotFound{Name: name}
	}
	return t, nil
}

// List returns all topics sorted by name.
func (c *Catalog) List() []Topic {
	out := make([]Topic, 0, len(c.topics))
	for _, t := range c.topics {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
