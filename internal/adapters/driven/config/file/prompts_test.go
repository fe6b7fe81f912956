package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidymark-labs/tidymark-cli/internal/core/ports/driven"
)

func TestPromptStore_LoadDefault(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewPromptStore(tmpDir)
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptStructurePlan)
	require.NoError(t, err)
	assert.NotEmpty(t, prompt)
	assert.Contains(t, prompt, "%d")
}

func TestPromptStore_ConstructorDoesNoIO(t *testing.T) {
	tmpDir := filepath.Join(t.TempDir(), "prompts")

	_, err := NewPromptStore(tmpDir)
	require.NoError(t, err)

	// Directory should not exist until first Load.
	_, err = os.Stat(tmpDir)
	assert.True(t, os.IsNotExist(err))
}

func TestPromptStore_MaterializesDefaultFiles(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewPromptStore(tmpDir)
	require.NoError(t, err)

	_, err = store.Load(driven.PromptSystem)
	require.NoError(t, err)

	for _, name := range []string{
		driven.PromptStructurePlan,
		driven.PromptBatchClassify,
		driven.PromptOptimize,
		driven.PromptSinglePass,
		driven.PromptSystem,
	} {
		_, err := os.Stat(filepath.Join(tmpDir, name+".txt"))
		assert.NoError(t, err, "expected %s.txt to exist", name)
	}

	_, err = os.Stat(filepath.Join(tmpDir, "README.md"))
	assert.NoError(t, err)
}

func TestPromptStore_UserFileOverridesDefault(t *testing.T) {
	tmpDir := t.TempDir()
	custom := "my custom structure prompt %d %s %d"
	require.NoError(t, os.WriteFile(
		filepath.Join(tmpDir, driven.PromptStructurePlan+".txt"),
		[]byte(custom), 0600))

	store, err := NewPromptStore(tmpDir)
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptStructurePlan)
	require.NoError(t, err)
	assert.Equal(t, custom, prompt)
}

func TestPromptStore_ReloadPicksUpEdits(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewPromptStore(tmpDir)
	require.NoError(t, err)

	// Prime the cache with the default.
	first, err := store.Load(driven.PromptSystem)
	require.NoError(t, err)

	edited := "edited system prompt"
	require.NoError(t, os.WriteFile(
		filepath.Join(tmpDir, driven.PromptSystem+".txt"),
		[]byte(edited), 0600))

	// Cached value until Reload.
	cached, err := store.Load(driven.PromptSystem)
	require.NoError(t, err)
	assert.Equal(t, first, cached)

	store.Reload()

	fresh, err := store.Load(driven.PromptSystem)
	require.NoError(t, err)
	assert.Equal(t, edited, fresh)
}

func TestPromptStore_WatchInvalidatesCacheOnEdit(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewPromptStore(tmpDir)
	require.NoError(t, err)

	// Prime the cache with the default.
	_, err = store.Load(driven.PromptSystem)
	require.NoError(t, err)

	require.NoError(t, store.Watch())
	defer store.Close()

	edited := "watched system prompt"
	require.NoError(t, os.WriteFile(
		filepath.Join(tmpDir, driven.PromptSystem+".txt"),
		[]byte(edited), 0600))

	// The watcher clears the cache asynchronously; a subsequent Load
	// must pick up the on-disk edit without an explicit Reload.
	require.Eventually(t, func() bool {
		prompt, err := store.Load(driven.PromptSystem)
		return err == nil && prompt == edited
	}, 2*time.Second, 10*time.Millisecond)
}

func TestPromptStore_CloseWithoutWatch(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Close())
}

func TestPromptStore_UnknownNameFails(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load("does_not_exist")
	require.Error(t, err)
}
