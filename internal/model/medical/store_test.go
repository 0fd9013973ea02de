package medical

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFileJSON(t *testing.T) {
	path := writeFile(t, "dataset.json", `[
		{"id": 1, "title": "Flu", "content": "Influenza.", "keywords": ["flu", "fever"]},
		{"id": "cold", "title": "Cold", "content": "Common cold."}
	]`)

	docs, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "1", string(docs[0].ID))
	assert.Equal(t, []string{"flu", "fever"}, docs[0].Keywords)
	assert.Equal(t, "Common cold.", docs[1].Content)
}

func TestLoadFileYAML(t *testing.T) {
	path := writeFile(t, "dataset.yaml", `
- id: asthma
  title: Asthma
  content: Airways narrow.
  keywords: [asthma, wheezing]
`)

	docs, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Asthma", docs[0].Title)
	assert.Equal(t, []string{"asthma", "wheezing"}, docs[0].Keywords)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadFile(writeFile(t, "dataset.csv", "id,title"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = LoadFile(writeFile(t, "broken.json", "{"))
	assert.Error(t, err)
}

func TestMemoryStoreFindByID(t *testing.T) {
	store := NewMemoryStore(Seed())

	doc, ok := store.FindByID("migraine")
	require.True(t, ok)
	assert.Equal(t, "Migraine", doc.Title)

	_, ok = store.FindByID("missing")
	assert.False(t, ok)
	assert.Equal(t, len(Seed()), store.Len())
}

func TestMemoryStoreListIsACopy(t *testing.T) {
	store := NewMemoryStore(Seed())
	list := store.List()
	list[0].Title = "changed"

	assert.NotEqual(t, "changed", store.List()[0].Title)
}
