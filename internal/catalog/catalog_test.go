package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleYAML = `
topics:
  - name: recursion
    description: Recursive functions and termination
    index: teachback-docs
    namespace: recursion
  - name: sorting
    description: Comparison sorts
    index: teachback-docs
    namespace: sorting
    seed_query: sorting algorithms
`

func TestParse(t *testing.T) {
	c, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	topic, err := c.Resolve("recursion")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if topic.Namespace != "recursion" {
		t.Errorf("unexpected namespace %q", topic.Namespace)
	}
	if topic.SeedQuery != "recursion" {
		t.Errorf("expected seed query to default to name, got %q", topic.SeedQuery)
	}

	sorting, _ := c.Resolve("sorting")
	if sorting.SeedQuery != "sorting algorithms" {
		t.Errorf("expected explicit seed query kept, got %q", sorting.SeedQuery)
	}
}

func TestResolve_NotFound(t *testing.T) {
	c, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	_, err = c.Resolve("quantum-chromodynamics")
	var notFound *ErrTopicNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ErrTopicNotFound, got %v", err)
	}
	if notFound.Name != "quantum-chromodynamics" {
		t.Errorf("error should carry the missing name, got %q", notFound.Name)
	}
}

func TestParse_MissingName(t *testing.T) {
	_, err := Parse([]byte("topics:\n  - description: nameless\n"))
	if err == nil {
		t.Error("expected error for entry without name")
	}
}

func TestList_Sorted(t *testing.T) {
	c, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	list := c.List()
	require.Len(t, list, 2)
	require.Equal(t, "recursion", list[0].Name)
	require.Equal(t, "sorting", list[1].Name)
}

func TestDefault(t *testing.T) {
	c := Default()
	if _, err := c.Resolve("learning-by-teaching"); err != nil {
		t.Errorf("default catalog should contain learning-by-teaching: %v", err)
	}
}
