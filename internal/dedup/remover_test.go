package dedup

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestContainsURL(t *testing.T) {
	urls := []string{"https://cdn/1.pdf", "https://cdn/2.pdf"}
	assert.True(t, containsURL(urls, "https://cdn/2.pdf"))
	assert.False(t, containsURL(urls, "https://cdn/3.pdf"))
	assert.False(t, containsURL(nil, "https://cdn/1.pdf"))
}

func TestWriteRestorePoint(t *testing.T) {
	dir := t.TempDir()
	r := NewRemover(nil, 50*time.Millisecond,
		filepath.Join(dir, "pitr_restore_point.txt"),
		filepath.Join(dir, "removed_duplicates.txt"),
		zap.NewNop())

	require.NoError(t, r.writeRestorePoint())

	data, err := os.ReadFile(r.restorePointFile)
	require.NoError(t, err)
	line := strings.TrimSuffix(string(data), "\n")

	const prefix = "Firestore restore point before deletion: "
	require.True(t, strings.HasPrefix(line, prefix))
	_, err = time.Parse(time.RFC3339, strings.TrimPrefix(line, prefix))
	assert.NoError(t, err)
}

func TestLogRemovedAppends(t *testing.T) {
	dir := t.TempDir()
	r := NewRemover(nil, 0,
		filepath.Join(dir, "pitr.txt"),
		filepath.Join(dir, "removed.txt"),
		zap.NewNop())

	r.logRemoved("dup1")
	r.logRemoved("dup2")

	data, err := os.ReadFile(r.removedLogFile)
	require.NoError(t, err)
	assert.Equal(t, "dup1\ndup2\n", string(data))
}
