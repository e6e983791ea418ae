package artifact

import (
	"archive/zip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MilthmLang/LanguageCollector/manifest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeOutput(t *testing.T, withMaster bool) string {
	t.Helper()
	dir := t.TempDir()

	m := manifest.New()
	m.Add("main", manifest.Record{LastID: 4242, LastModifiedAt: manifest.Timestamp{Time: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}})
	if !withMaster {
		delete(m, manifest.MasterKey)
	}
	require.NoError(t, m.Write(dir))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "zh_Hans.json"), []byte(`{"a":"甲"}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.json"), []byte(`{"a":"A"}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.json.asc"), []byte("sig"), 0644))
	return dir
}

func TestName(t *testing.T) {
	assert.Equal(t, "milthm-translations-4242.zip", Name(4242))
}

func TestPackage(t *testing.T) {
	out := writeOutput(t, true)
	dest := filepath.Join(t.TempDir(), "distributions")

	mtime := time.Date(2023, 1, 2, 3, 4, 6, 0, time.UTC)
	require.NoError(t, os.Chtimes(filepath.Join(out, "en.json"), mtime, mtime))

	path, err := Package(out, dest, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dest, "milthm-translations-4242.zip"), path)

	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"__meta.json", "en.json", "en.json.asc", "zh_Hans.json"}, names)

	en := zr.File[1]
	assert.True(t, en.Modified.Equal(mtime), "modification time preserved, got %v", en.Modified)
	rc, err := en.Open()
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, `{"a":"A"}`, string(body))
}

func TestPackageWithoutMaster(t *testing.T) {
	out := writeOutput(t, false)
	_, err := Package(out, t.TempDir(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, manifest.ErrNoMaster))
}

func TestPackageWithoutManifest(t *testing.T) {
	_, err := Package(t.TempDir(), t.TempDir(), nil)
	require.Error(t, err)
}

func TestZipSkipsItself(t *testing.T) {
	out := writeOutput(t, true)
	n, err := Zip(out, filepath.Join(out, "self.zip"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestCopyUnity(t *testing.T) {
	out := writeOutput(t, true)
	require.NoError(t, os.MkdirAll(filepath.Join(out, "nested"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(out, "nested", "x.json"), []byte("{}"), 0644))

	dest := filepath.Join(t.TempDir(), "unity_format")
	n, err := CopyUnity(out, dest)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	data, err := os.ReadFile(filepath.Join(dest, "zh_Hans.json.bytes"))
	require.NoError(t, err)
	assert.Equal(t, `{"a":"甲"}`, string(data))
	assert.FileExists(t, filepath.Join(dest, "__meta.json.bytes"))
	assert.FileExists(t, filepath.Join(dest, "nested", "x.json.bytes"))
}
