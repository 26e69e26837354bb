package models

// PackageType represents the declared type of a package
type PackageType int

const (
	TypeUnknown PackageType = iota
	TypeColorTheme
	TypeLibrary
	TypePlugin
	TypeFab
	TypeDataSource
)

// String returns the string representation of PackageType
func (pt PackageType) String() string {
	switch pt {
	case TypeColorTheme:
		return "colortheme"
	case TypeLibrary:
		return "library"
	case TypePlugin:
		return "plugin"
	case TypeFab:
		return "fab"
	case TypeDataSource:
		return "datasource"
	default:
		return "unknown"
	}
}

// ParsePackageType maps a descriptor "type" value to a PackageType
func ParsePackageType(s string) PackageType {
	switch s {
	case "colortheme":
		return TypeColorTheme
	case "library":
		return TypeLibrary
	case "plugin":
		return TypePlugin
	case "fab":
		return TypeFab
	case "datasource":
		return TypeDataSource
	default:
		return TypeUnknown
	}
}

// ContentRule describes the content subtree a package type must carry.
// RequiredDirs must all exist; if AnyOfDirs is non-empty, at least one of
// them must exist as well. The resources directory is optional for every
// type.
type ContentRule struct {
	RequiredDirs []string
	AnyOfDirs    []string
}

// ContentRule returns the content-structure rule for the package type
func (pt PackageType) ContentRule() ContentRule {
	switch pt {
	case TypeColorTheme:
		return ContentRule{RequiredDirs: []string{"colors"}}
	case TypeLibrary:
		return ContentRule{AnyOfDirs: []string{"symbols", "footprints", "3dmodels"}}
	case TypePlugin:
		return ContentRule{RequiredDirs: []string{"plugins"}}
	case TypeFab:
		return ContentRule{RequiredDirs: []string{"fab"}}
	case TypeDataSource:
		return ContentRule{RequiredDirs: []string{"datasource"}}
	default:
		return ContentRule{}
	}
}

// VersionEntry is one entry of a descriptor's version list. The
// download_* and install_size fields are filled in by the index builder
// from the archive record; they are absent in source descriptors.
type VersionEntry struct {
	Version         string `json:"version"`
	Status          string `json:"status"`
	KicadVersion    string `json:"kicad_version"`
	KicadVersionMax string `json:"kicad_version_max,omitempty"`
	DownloadURL     string `json:"download_url,omitempty"`
	DownloadSHA256  string `json:"download_sha256,omitempty"`
	DownloadSize    int64  `json:"download_size,omitempty"`
	InstallSize     int64  `json:"install_size,omitempty"`
}

// Contact holds author contact channels
type Contact struct {
	Email  string `json:"email,omitempty"`
	Github string `json:"github,omitempty"`
}

// Author identifies a package author or maintainer
type Author struct {
	Name    string   `json:"name"`
	Contact *Contact `json:"contact,omitempty"`
}

// PackageResources holds external resource links declared by a package
type PackageResources struct {
	Homepage string `json:"homepage,omitempty"`
}

// PackageDescriptor is a validated metadata.json descriptor
type PackageDescriptor struct {
	Schema          string            `json:"$schema,omitempty"`
	Name            string            `json:"name"`
	Description     string            `json:"description"`
	DescriptionFull string            `json:"description_full,omitempty"`
	Identifier      string            `json:"identifier"`
	Type            string            `json:"type"`
	Author          *Author           `json:"author,omitempty"`
	Maintainer      *Author           `json:"maintainer,omitempty"`
	License         string            `json:"license,omitempty"`
	Resources       *PackageResources `json:"resources,omitempty"`
	Versions        []VersionEntry    `json:"versions"`

	// Filled in during the build, never serialized into the catalog.
	Dir      string      `json:"-"`
	Category string      `json:"-"`
	PkgType  PackageType `json:"-"`
	IconPath string      `json:"-"`
}

// HasIcon reports whether the package ships a resources/icon.png
func (p *PackageDescriptor) HasIcon() bool {
	return p.IconPath != ""
}
