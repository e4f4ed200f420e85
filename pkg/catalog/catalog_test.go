// pkg/catalog/catalog_test.go
package catalog

import (
	"path/filepath"
	"testing"
	"time"

	"farm-analysis-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCoversAllAnalysisTypes(t *testing.T) {
	c := Build()

	types := models.AllAnalysisTypes()
	require.Len(t, c.Entries, len(types))

	for i, analysisType := range types {
		entry := c.Entries[i]
		assert.Equal(t, string(analysisType), entry.ID)
		assert.Equal(t, analysisType.DisplayName(), entry.DisplayName)
		assert.NotEmpty(t, entry.Description, "entry %s needs a description", entry.ID)
		assert.NotEmpty(t, entry.Category)
	}

	assert.Equal(t, Version, c.Version)
	_, err := time.Parse(time.RFC3339, c.GeneratedAt)
	assert.NoError(t, err)
}

func TestSaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")

	built := Build()
	require.NoError(t, built.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, built, loaded)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestLookup(t *testing.T) {
	c := Build()

	entry, ok := c.Lookup("swine_farrowing")
	require.True(t, ok)
	assert.Equal(t, "Swine Farrowing", entry.DisplayName)
	assert.Equal(t, "swine", entry.Category)

	_, ok = c.Lookup("llama_grooming")
	assert.False(t, ok)
}
