package manifest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/neardup/internal/core/domain"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestSource_Type(t *testing.T) {
	source := New("docs.yaml")

	assert.Equal(t, "manifest", source.Type())
	assert.Equal(t, "docs.yaml", source.Path())
	assert.NoError(t, source.Close())
}

func TestSource_Load_List(t *testing.T) {
	path := writeManifest(t, `
documents:
  - id: b
    text: the quick brown fox
  - id: a
    text: jumps over the lazy dog
    uri: https://example.com/a
`)

	docs, err := New(path).Load(context.Background())
	require.NoError(t, err)

	require.Len(t, docs, 2)
	assert.Equal(t, "b", docs[0].ID, "list order is preserved")
	assert.Equal(t, "the quick brown fox", docs[0].Text)
	assert.Equal(t, path+"#b", docs[0].URI)
	assert.Equal(t, "https://example.com/a", docs[1].URI)
}

func TestSource_Load_Mapping(t *testing.T) {
	path := writeManifest(t, `
documents:
  zulu: last
  alpha: first
  mike: middle
`)

	docs, err := New(path).Load(context.Background())
	require.NoError(t, err)

	require.Len(t, docs, 3)
	assert.Equal(t, "alpha", docs[0].ID)
	assert.Equal(t, "mike", docs[1].ID)
	assert.Equal(t, "zulu", docs[2].ID)
	assert.Equal(t, "first", docs[0].Text)
}

func TestSource_Load_KeepsRepeatedIDs(t *testing.T) {
	path := writeManifest(t, `
documents:
  - id: a
    text: one
  - id: a
    text: two
`)

	docs, err := New(path).Load(context.Background())
	require.NoError(t, err)

	require.Len(t, docs, 2)
	assert.Equal(t, "one", docs[0].Text)
	assert.Equal(t, "two", docs[1].Text)
}

func TestSource_Load_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed yaml", "documents: [unclosed"},
		{"scalar documents", "documents: just text"},
		{"list of scalars", "documents:\n  - one\n  - two\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(writeManifest(t, tt.content)).Load(context.Background())
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestSource_Load_MissingFile(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing.yaml")).Load(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSource_Load_NoDocuments(t *testing.T) {
	docs, err := New(writeManifest(t, "other: value\n")).Load(context.Background())

	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestSource_Load_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New("docs.yaml").Load(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestParse_EmptyBase(t *testing.T) {
	docs, err := Parse([]byte("documents:\n  a: text\n"), "")

	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Empty(t, docs[0].URI)
}

func TestWrite_RoundTripsThroughLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	in := []domain.Document{
		{ID: "first", Text: "multi\nline text"},
		{ID: "second", Text: "plain"},
	}

	require.NoError(t, Write(path, in))

	docs, err := New(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "first", docs[0].ID)
	assert.Equal(t, "multi\nline text", docs[0].Text)
	assert.Equal(t, "second", docs[1].ID)
}
