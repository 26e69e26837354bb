package models

// BuildConfig contains configuration for a repository build
type BuildConfig struct {
	// Input/Output
	RepoRoot  string
	OutputDir string

	// Published URLs
	BaseURL     string // package ZIP downloads (e.g. GitHub Releases)
	MetadataURL string // packages.json / resources.zip (defaults to BaseURL)

	// Repository identity
	RepoName   string
	Maintainer Author

	// Policy
	Strict      bool // escalate per-package validation failures
	CreateIcons bool // generate placeholder icons before building

	// Signing
	GPGKeyPath    string
	GPGPassphrase string
}

// ArchiveRecord identifies one packaged artifact
type ArchiveRecord struct {
	Identifier  string
	ZipName     string
	SHA256      string
	Size        int64 // compressed archive bytes
	InstallSize int64 // sum of uncompressed entry sizes
}

// ResourceRef points at a published metadata artifact from the
// repository index
type ResourceRef struct {
	URL             string `json:"url"`
	SHA256          string `json:"sha256"`
	UpdateTimestamp int64  `json:"update_timestamp"`
	UpdateTimeUTC   string `json:"update_time_utc"`
}

// PackageSummary is the per-package entry of the repository index
type PackageSummary struct {
	Identifier    string `json:"identifier"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	LatestVersion string `json:"latest_version"`
	IconURL       string `json:"icon_url,omitempty"`
}

// RepositoryIndex is the top-level repository.json document polled by
// the content manager
type RepositoryIndex struct {
	Schema       string           `json:"$schema"`
	Name         string           `json:"name"`
	Maintainer   Author           `json:"maintainer"`
	Packages     ResourceRef      `json:"packages"`
	Resources    ResourceRef      `json:"resources"`
	PackageIndex []PackageSummary `json:"package_index"`
}

// PackageCatalog is the flattened packages.json document with full
// per-version metadata
type PackageCatalog struct {
	Packages []PackageDescriptor `json:"packages"`
}
