package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileStore_Save(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	assert.NoError(t, err)

	ref, err := store.Save(7, "chair.png", strings.NewReader("image-bytes"))
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, URLPrefix+"/"))
	assert.True(t, strings.HasSuffix(ref, "_7_chair.png"))

	stored := filepath.Join(store.Dir(), filepath.Base(ref))
	data, err := os.ReadFile(stored)
	assert.NoError(t, err)
	assert.Equal(t, "image-bytes", string(data))
}

func TestFileStore_Save_ExtensionCaseInsensitive(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	assert.NoError(t, err)

	ref, err := store.Save(1, "photo.JPEG", strings.NewReader("x"))
	assert.NoError(t, err)
	assert.True(t, strings.HasSuffix(ref, "_1_photo.JPEG"))
}

func TestFileStore_Save_RejectsDisallowedType(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	assert.NoError(t, err)

	for _, name := range []string{"x.exe", "script.sh", "noext", "archive.tar.gz"} {
		t.Run(name, func(t *testing.T) {
			_, err := store.Save(1, name, strings.NewReader("payload"))
			assert.ErrorIs(t, err, ErrFileTypeNotAllowed)
		})
	}

	// Nothing may be written on rejection.
	entries, err := os.ReadDir(dir)
	assert.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFileStore_Save_SanitizesFilename(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	assert.NoError(t, err)

	ref, err := store.Save(3, "../../etc/my photo;.png", strings.NewReader("x"))
	assert.NoError(t, err)

	name := filepath.Base(ref)
	assert.NotContains(t, name, "..")
	assert.NotContains(t, name, "/")
	assert.NotContains(t, name, ";")
	assert.NotContains(t, name, " ")
	assert.True(t, strings.HasSuffix(name, "my_photo.png"))
}
