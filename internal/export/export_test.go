package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.json")
	require.NoError(t, WriteJSON(path, map[string]interface{}{"coins": 10}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"coins\": 10\n}", string(data))
}

func TestWriteJSONUnmarshalable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.json")
	err := WriteJSON(path, map[string]interface{}{"bad": func() {}})
	require.Error(t, err)
	assert.NoFileExists(t, path)
}
