package retrieval

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDictionaryMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dictionary.yaml")
	content := `synonyms:
  designer: [ux designer, product designer]
  tech: [technical]
ambiguous:
  ruby: [programming language, gemstone]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	synonyms, ambiguous, err := LoadDictionary(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"ux designer", "product designer"}, synonyms["designer"])
	assert.Equal(t, []string{"technical"}, synonyms["tech"], "file entries override defaults")
	assert.Equal(t, []string{"new delhi", "delhi ncr"}, synonyms["delhi"], "defaults survive the merge")
	assert.Contains(t, ambiguous, "ruby")
	assert.Contains(t, ambiguous, "python")
}

func TestLoadDictionaryMissingFile(t *testing.T) {
	_, _, err := LoadDictionary(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
