package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/american-embedded/pcmgen/internal/models"
	"github.com/american-embedded/pcmgen/internal/utils"
)

const darkDescriptor = `{
  "$schema": "https://go.kicad.org/pcm/schemas/v1",
  "name": "American Embedded Dark",
  "description": "A dark color theme",
  "identifier": "com.github.american-embedded.dark",
  "type": "colortheme",
  "author": {"name": "American Embedded", "contact": {"email": "build@amemb.com"}},
  "license": "MIT",
  "versions": [{"version": "1.0.0", "status": "stable", "kicad_version": "8.0"}]
}`

func writeThemePackage(t *testing.T, root, dirName, identifier string, withColors bool) {
	t.Helper()
	pkgDir := filepath.Join(root, "packages", "themes", dirName)
	require.NoError(t, os.MkdirAll(pkgDir, 0755))

	var desc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(darkDescriptor), &desc))
	desc["identifier"] = identifier
	raw, err := json.Marshal(desc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(pkgDir, "metadata.json"), raw, 0644))

	if withColors {
		colorsDir := filepath.Join(pkgDir, "colors")
		require.NoError(t, os.MkdirAll(colorsDir, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(colorsDir, "theme.json"), []byte(`{"board":"#1e1e1e"}`), 0644))
	}

	resourcesDir := filepath.Join(pkgDir, "resources")
	require.NoError(t, os.MkdirAll(resourcesDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(resourcesDir, "icon.png"), []byte("icon-bytes"), 0644))
}

func testBuildConfig(t *testing.T, root string) *models.BuildConfig {
	t.Helper()
	config := &models.BuildConfig{
		RepoRoot:   root,
		OutputDir:  filepath.Join(t.TempDir(), "output"),
		BaseURL:    "https://host/releases/v1",
		RepoName:   "Test Repository",
		Maintainer: models.Author{Name: "Tester"},
	}
	require.NoError(t, validateConfig(config))
	return config
}

func TestBuildSinglePackage(t *testing.T) {
	root := t.TempDir()
	writeThemePackage(t, root, "american-embedded-dark", "com.github.american-embedded.dark", true)

	config := testBuildConfig(t, root)
	require.NoError(t, runBuild(context.Background(), config))

	// Repository index lists exactly one package.
	indexRaw, err := os.ReadFile(filepath.Join(config.OutputDir, "repository.json"))
	require.NoError(t, err)
	var index models.RepositoryIndex
	require.NoError(t, json.Unmarshal(indexRaw, &index))
	require.Len(t, index.PackageIndex, 1)
	assert.Equal(t, "com.github.american-embedded.dark", index.PackageIndex[0].Identifier)
	assert.Equal(t, "1.0.0", index.PackageIndex[0].LatestVersion)
	assert.Equal(t, "colortheme", index.PackageIndex[0].Type)

	// Catalog carries one version record whose hash matches the ZIP.
	catalogRaw, err := os.ReadFile(filepath.Join(config.OutputDir, "packages.json"))
	require.NoError(t, err)
	var catalog models.PackageCatalog
	require.NoError(t, json.Unmarshal(catalogRaw, &catalog))
	require.Len(t, catalog.Packages, 1)
	require.Len(t, catalog.Packages[0].Versions, 1)

	ver := catalog.Packages[0].Versions[0]
	zipName := "com.github.american-embedded.dark-1.0.0.zip"
	assert.Equal(t, "https://host/releases/v1/"+zipName, ver.DownloadURL)

	zipSum, err := utils.CalculateChecksum(filepath.Join(config.OutputDir, "releases", zipName))
	require.NoError(t, err)
	assert.Equal(t, zipSum.SHA256, ver.DownloadSHA256)
	assert.Equal(t, zipSum.Size, ver.DownloadSize)

	// Index checksums match the emitted artifacts.
	catalogSum, err := utils.CalculateChecksum(filepath.Join(config.OutputDir, "packages.json"))
	require.NoError(t, err)
	assert.Equal(t, catalogSum.SHA256, index.Packages.SHA256)

	resourcesSum, err := utils.CalculateChecksum(filepath.Join(config.OutputDir, "resources.zip"))
	require.NoError(t, err)
	assert.Equal(t, resourcesSum.SHA256, index.Resources.SHA256)
}

func TestBuildPartialFailure(t *testing.T) {
	root := t.TempDir()
	writeThemePackage(t, root, "alpha", "com.example.alpha", true)
	writeThemePackage(t, root, "bravo", "com.example.bravo", false) // missing colors/
	writeThemePackage(t, root, "charlie", "com.example.charlie", true)

	config := testBuildConfig(t, root)
	require.NoError(t, runBuild(context.Background(), config), "per-package failure must not fail the run")

	catalogRaw, err := os.ReadFile(filepath.Join(config.OutputDir, "packages.json"))
	require.NoError(t, err)
	var catalog models.PackageCatalog
	require.NoError(t, json.Unmarshal(catalogRaw, &catalog))

	var ids []string
	for _, pkg := range catalog.Packages {
		ids = append(ids, pkg.Identifier)
	}
	assert.Equal(t, []string{"com.example.alpha", "com.example.charlie"}, ids)
}

func TestBuildStrictMode(t *testing.T) {
	root := t.TempDir()
	writeThemePackage(t, root, "alpha", "com.example.alpha", true)
	writeThemePackage(t, root, "bravo", "com.example.bravo", false)

	config := testBuildConfig(t, root)
	config.Strict = true

	err := runBuild(context.Background(), config)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strict mode")
}

func TestBuildDuplicateIdentifier(t *testing.T) {
	root := t.TempDir()
	writeThemePackage(t, root, "alpha", "com.example.same", true)
	writeThemePackage(t, root, "bravo", "com.example.same", true)

	config := testBuildConfig(t, root)
	require.NoError(t, runBuild(context.Background(), config))

	catalogRaw, err := os.ReadFile(filepath.Join(config.OutputDir, "packages.json"))
	require.NoError(t, err)
	var catalog models.PackageCatalog
	require.NoError(t, json.Unmarshal(catalogRaw, &catalog))
	assert.Len(t, catalog.Packages, 1, "duplicate identifier must be excluded")
}

func TestBuildNoPackages(t *testing.T) {
	config := testBuildConfig(t, t.TempDir())
	err := runBuild(context.Background(), config)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no packages found")
}

func TestValidateConfig(t *testing.T) {
	t.Run("bad base URL", func(t *testing.T) {
		config := &models.BuildConfig{
			RepoRoot:  t.TempDir(),
			OutputDir: "out",
			BaseURL:   "not a url",
		}
		err := validateConfig(config)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "base-url")
	})

	t.Run("nonexistent repo root", func(t *testing.T) {
		config := &models.BuildConfig{
			RepoRoot:  filepath.Join(t.TempDir(), "nope"),
			OutputDir: "out",
			BaseURL:   "https://host/releases",
		}
		err := validateConfig(config)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "repo-root")
	})

	t.Run("metadata URL defaults to base URL", func(t *testing.T) {
		config := &models.BuildConfig{
			RepoRoot:  t.TempDir(),
			OutputDir: "out",
			BaseURL:   "https://host/releases",
		}
		require.NoError(t, validateConfig(config))
		assert.Equal(t, config.BaseURL, config.MetadataURL)
	})
}
