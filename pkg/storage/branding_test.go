package storage

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBrandingStore(t *testing.T) (*BrandingStore, string) {
	t.Helper()
	dir := t.TempDir()
	files, err := NewLocalStorage(dir)
	require.NoError(t, err)
	return NewBrandingStore(files), dir
}

func TestBrandingStoreSaveAndLoadRoundTrip(t *testing.T) {
	store, dir := newBrandingStore(t)
	data := base64.StdEncoding.EncodeToString([]byte("\x89PNG fake image bytes"))

	for _, name := range []string{"logo.png", "my_school_logo.png", "favicon.ico"} {
		ref, err := store.Save(name, data)
		require.NoError(t, err)
		assert.Regexp(t, `^[0-9a-f-]{36}_`, ref)
		assert.FileExists(t, filepath.Join(dir, ref))

		loaded, err := store.Load(ref)
		require.NoError(t, err)
		assert.Equal(t, name, loaded.Fname)
		assert.Equal(t, data, loaded.Data)
	}
}

func TestBrandingStoreSaveStripsDirectories(t *testing.T) {
	store, dir := newBrandingStore(t)
	ref, err := store.Save("../../etc/passwd", base64.StdEncoding.EncodeToString([]byte("x")))
	require.NoError(t, err)
	assert.Equal(t, "passwd", DisplayName(ref))
	assert.FileExists(t, filepath.Join(dir, ref))
}

func TestBrandingStoreSaveRejectsInvalidBase64(t *testing.T) {
	store, dir := newBrandingStore(t)
	_, err := store.Save("logo.png", "%%% not base64 %%%")
	require.Error(t, err)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestBrandingStoreLoadMissing(t *testing.T) {
	store, _ := newBrandingStore(t)
	_, err := store.Load("0b7c4c1e-8d0c-4a55-9a53-6a2a3f2b9d10_logo.png")
	require.ErrorIs(t, err, ErrAssetNotFound)
}

func TestBrandingStoreDelete(t *testing.T) {
	store, dir := newBrandingStore(t)
	ref, err := store.Save("style.css", base64.StdEncoding.EncodeToString([]byte("body{}")))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ref))
	assert.NoFileExists(t, filepath.Join(dir, ref))
	require.NoError(t, store.Delete(ref))
}

func TestBrandingStoreConcurrentSameNameNeverCollides(t *testing.T) {
	store, _ := newBrandingStore(t)
	const workers = 16

	refs := make([]string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			payload := base64.StdEncoding.EncodeToString([]byte(fmt.Sprintf("org-%d", i)))
			ref, err := store.Save("logo.png", payload)
			assert.NoError(t, err)
			refs[i] = ref
		}(i)
	}
	wg.Wait()

	seen := map[string]struct{}{}
	for _, ref := range refs {
		_, dup := seen[ref]
		require.False(t, dup, "duplicate reference %s", ref)
		seen[ref] = struct{}{}
	}

	// deleting half the references concurrently leaves the others intact
	for i := 0; i < workers; i += 2 {
		wg.Add(1)
		go func(ref string) {
			defer wg.Done()
			assert.NoError(t, store.Delete(ref))
		}(refs[i])
	}
	wg.Wait()
	for i := 1; i < workers; i += 2 {
		loaded, err := store.Load(refs[i])
		require.NoError(t, err)
		assert.Equal(t, base64.StdEncoding.EncodeToString([]byte(fmt.Sprintf("org-%d", i))), loaded.Data)
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "logo.png", DisplayName("0b7c4c1e-8d0c-4a55-9a53-6a2a3f2b9d10_logo.png"))
	assert.Equal(t, "my_school_logo.png", DisplayName("0b7c4c1e-8d0c-4a55-9a53-6a2a3f2b9d10_my_school_logo.png"))
	assert.Equal(t, "logo.png", DisplayName("legacy_prefix_logo.png"))
	assert.Equal(t, "logo.png", DisplayName("logo.png"))
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	files, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	_, err = files.Save("../escape", []byte("x"))
	require.ErrorIs(t, err, ErrInvalidName)
	_, err = files.Read("../escape")
	require.ErrorIs(t, err, ErrInvalidName)
	require.ErrorIs(t, files.Delete(`..\escape`), ErrInvalidName)
}
