package archiver

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/american-embedded/pcmgen/internal/models"
	"github.com/american-embedded/pcmgen/internal/utils"
)

// writeTree materializes a package directory from path -> content
func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for path, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(path))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}
}

func themePackage(t *testing.T) *models.PackageDescriptor {
	t.Helper()
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"metadata.json":      `{"identifier":"com.github.american-embedded.dark"}`,
		"colors/dark.json":   `{"board":"#1e1e1e"}`,
		"resources/icon.png": "icon-bytes",
		"stray.txt":          "not packaged",
	})
	return &models.PackageDescriptor{
		Identifier: "com.github.american-embedded.dark",
		Dir:        dir,
	}
}

func TestArchiveRecord(t *testing.T) {
	desc := themePackage(t)
	destDir := t.TempDir()

	record, err := Archive(desc, "1.0.0", destDir)
	require.NoError(t, err)

	assert.Equal(t, "com.github.american-embedded.dark-1.0.0.zip", record.ZipName)
	assert.Equal(t, desc.Identifier, record.Identifier)

	zipPath := filepath.Join(destDir, record.ZipName)
	sum, err := utils.CalculateChecksum(zipPath)
	require.NoError(t, err)
	assert.Equal(t, sum.SHA256, record.SHA256)
	assert.Equal(t, sum.Size, record.Size)

	// Install size is the sum of uncompressed entry sizes.
	wantInstall := int64(len(`{"identifier":"com.github.american-embedded.dark"}`) +
		len(`{"board":"#1e1e1e"}`) + len("icon-bytes"))
	assert.Equal(t, wantInstall, record.InstallSize)
}

func TestArchiveEntries(t *testing.T) {
	desc := themePackage(t)
	destDir := t.TempDir()

	record, err := Archive(desc, "1.0.0", destDir)
	require.NoError(t, err)

	r, err := zip.OpenReader(filepath.Join(destDir, record.ZipName))
	require.NoError(t, err)
	defer r.Close()

	var names []string
	for _, f := range r.File {
		names = append(names, f.Name)
		assert.Equal(t, zipEpoch.Unix(), f.Modified.Unix(), "entry %s must carry the fixed epoch", f.Name)
	}

	// Sorted by archive path; files at the package root other than the
	// descriptor are excluded.
	assert.Equal(t, []string{"colors/dark.json", "metadata.json", "resources/icon.png"}, names)
}

func TestArchiveIdempotent(t *testing.T) {
	desc := themePackage(t)

	destA := t.TempDir()
	recordA, err := Archive(desc, "1.0.0", destA)
	require.NoError(t, err)

	destB := t.TempDir()
	recordB, err := Archive(desc, "1.0.0", destB)
	require.NoError(t, err)

	assert.Equal(t, recordA.SHA256, recordB.SHA256)

	bytesA, err := os.ReadFile(filepath.Join(destA, recordA.ZipName))
	require.NoError(t, err)
	bytesB, err := os.ReadFile(filepath.Join(destB, recordB.ZipName))
	require.NoError(t, err)
	assert.Equal(t, bytesA, bytesB, "rebuild of unchanged content must be byte-identical")
}

func TestBuildResources(t *testing.T) {
	dirB := t.TempDir()
	writeTree(t, dirB, map[string]string{"resources/icon.png": "icon-b"})
	dirA := t.TempDir()
	writeTree(t, dirA, map[string]string{"resources/icon.png": "icon-a"})

	packages := []*models.PackageDescriptor{
		{Identifier: "com.example.bravo", IconPath: filepath.Join(dirB, "resources", "icon.png")},
		{Identifier: "com.example.alpha", IconPath: filepath.Join(dirA, "resources", "icon.png")},
		{Identifier: "com.example.noicon"},
	}

	destPath := filepath.Join(t.TempDir(), "resources.zip")
	require.NoError(t, BuildResources(packages, destPath))

	r, err := zip.OpenReader(destPath)
	require.NoError(t, err)
	defer r.Close()

	var names []string
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"com.example.alpha/icon.png", "com.example.bravo/icon.png"}, names)
}
