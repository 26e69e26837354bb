package builder

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/american-embedded/pcmgen/internal/models"
	"github.com/american-embedded/pcmgen/internal/utils"
)

// SchemaURL identifies the repository index schema version
const SchemaURL = "https://go.kicad.org/pcm/schemas/v1"

// Builder aggregates validated packages and archive records into the
// published repository documents. Output is a pure function of the
// inputs and the injected clock: identical inputs produce identical
// bytes.
type Builder struct {
	baseURL     string
	metadataURL string
	repoName    string
	maintainer  models.Author
	now         func() time.Time
}

// New creates a Builder from the build configuration
func New(config *models.BuildConfig) *Builder {
	return &Builder{
		baseURL:     config.BaseURL,
		metadataURL: config.MetadataURL,
		repoName:    config.RepoName,
		maintainer:  config.Maintainer,
		now:         time.Now,
	}
}

// WithClock overrides the timestamp source, keeping output reproducible
// in tests.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// Stamp fills every version entry of a package with the download
// information of its archive record.
func (b *Builder) Stamp(desc *models.PackageDescriptor, record *models.ArchiveRecord) {
	for i := range desc.Versions {
		ver := &desc.Versions[i]
		ver.DownloadURL = utils.JoinURL(b.baseURL, record.ZipName)
		ver.DownloadSHA256 = record.SHA256
		ver.DownloadSize = record.Size
		ver.InstallSize = record.InstallSize
	}
}

// BuildCatalog serializes the package catalog (packages.json). Packages
// are sorted by identifier so repeated builds stay diffable regardless
// of discovery order.
func (b *Builder) BuildCatalog(packages []*models.PackageDescriptor) ([]byte, error) {
	sorted := sortPackages(packages)

	catalog := models.PackageCatalog{
		Packages: make([]models.PackageDescriptor, 0, len(sorted)),
	}
	for _, pkg := range sorted {
		catalog.Packages = append(catalog.Packages, *pkg)
	}

	return marshalIndented(catalog)
}

// BuildIndex serializes the repository index (repository.json) from the
// already-written catalog and resource archive checksums.
func (b *Builder) BuildIndex(packages []*models.PackageDescriptor, catalogSum, resourcesSum *utils.Checksum) ([]byte, error) {
	now := b.now().UTC()
	timestamp := now.Unix()
	timeUTC := now.Format("2006-01-02 15:04:05")

	index := models.RepositoryIndex{
		Schema:     SchemaURL,
		Name:       b.repoName,
		Maintainer: b.maintainer,
		Packages: models.ResourceRef{
			URL:             utils.JoinURL(b.metadataURL, "packages.json"),
			SHA256:          catalogSum.SHA256,
			UpdateTimestamp: timestamp,
			UpdateTimeUTC:   timeUTC,
		},
		Resources: models.ResourceRef{
			URL:             utils.JoinURL(b.metadataURL, "resources.zip"),
			SHA256:          resourcesSum.SHA256,
			UpdateTimestamp: timestamp,
			UpdateTimeUTC:   timeUTC,
		},
	}

	for _, pkg := range sortPackages(packages) {
		summary := models.PackageSummary{
			Identifier:    pkg.Identifier,
			Name:          pkg.Name,
			Type:          pkg.Type,
			LatestVersion: Latest(pkg.Versions).Version,
		}
		if pkg.HasIcon() {
			summary.IconURL = utils.JoinURL(b.metadataURL, "resources", pkg.Identifier, "icon.png")
		}
		index.PackageIndex = append(index.PackageIndex, summary)
	}

	return marshalIndented(index)
}

func sortPackages(packages []*models.PackageDescriptor) []*models.PackageDescriptor {
	sorted := make([]*models.PackageDescriptor, len(packages))
	copy(sorted, packages)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Identifier < sorted[j].Identifier
	})
	return sorted
}

func marshalIndented(v interface{}) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize document: %w", err)
	}
	return append(data, '\n'), nil
}
