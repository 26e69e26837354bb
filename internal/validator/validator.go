package validator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/american-embedded/pcmgen/internal/models"
	"github.com/american-embedded/pcmgen/internal/scanner"
	"github.com/sirupsen/logrus"
)

const maxDescriptionLen = 500

// identifierRe enforces the reverse-domain identifier convention,
// e.g. com.github.american-embedded.dark
var identifierRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9-]*(\.[a-zA-Z0-9_-]+)+$`)

var validStatuses = map[string]bool{
	"stable":      true,
	"testing":     true,
	"development": true,
	"deprecated":  true,
}

// FieldError reports a descriptor field that failed validation
type FieldError struct {
	Field string
	Msg   string
}

// Error implements the error interface
func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q: %s", e.Field, e.Msg)
}

// Validator validates package descriptors and content trees
type Validator struct {
	schema *schemaValidator
}

// New creates a Validator. If <repoRoot>/pcm.v1.schema.json exists, the
// descriptor is additionally validated against its Package definition.
func New(repoRoot string) (*Validator, error) {
	schemaPath := filepath.Join(repoRoot, "pcm.v1.schema.json")
	if _, err := os.Stat(schemaPath); os.IsNotExist(err) {
		logrus.Debug("No schema file found, using field validation only")
		return &Validator{}, nil
	}

	sv, err := newSchemaValidator(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema %s: %w", schemaPath, err)
	}
	logrus.Debugf("Loaded descriptor schema from %s", schemaPath)
	return &Validator{schema: sv}, nil
}

// Validate reads and validates a scanned package's descriptor and
// content tree. On success the returned descriptor carries its build
// context (directory, category, resolved type, icon path).
func (v *Validator) Validate(scanned scanner.ScannedPackage) (*models.PackageDescriptor, error) {
	raw, err := os.ReadFile(scanned.DescriptorPath)
	if err != nil {
		return nil, &models.BuildError{
			Type: models.ErrFileOp,
			Err:  fmt.Errorf("failed to read %s: %w", scanned.DescriptorPath, err),
		}
	}

	var desc models.PackageDescriptor
	if err := json.Unmarshal(raw, &desc); err != nil {
		return nil, &models.BuildError{
			Type: models.ErrSchema,
			Err:  fmt.Errorf("invalid JSON in %s: %w", scanned.DescriptorPath, err),
		}
	}

	if v.schema != nil {
		if err := v.schema.Validate(raw); err != nil {
			return nil, &models.BuildError{
				Type:    models.ErrSchema,
				Package: desc.Identifier,
				Err:     err,
			}
		}
	}

	if err := checkFields(&desc); err != nil {
		return nil, &models.BuildError{
			Type:    models.ErrSchema,
			Package: desc.Identifier,
			Err:     err,
		}
	}

	desc.Dir = scanned.Dir
	desc.Category = scanned.Category
	desc.PkgType = models.ParsePackageType(desc.Type)

	if err := checkContent(&desc); err != nil {
		return nil, &models.BuildError{
			Type:    models.ErrStructure,
			Package: desc.Identifier,
			Err:     err,
		}
	}

	return &desc, nil
}

// checkFields runs the descriptor field checks; each failure names the
// offending field.
func checkFields(desc *models.PackageDescriptor) error {
	if desc.Identifier == "" {
		return &FieldError{Field: "identifier", Msg: "is required"}
	}
	if len(desc.Identifier) > 150 {
		return &FieldError{Field: "identifier", Msg: "exceeds 150 characters"}
	}
	if !identifierRe.MatchString(desc.Identifier) {
		return &FieldError{Field: "identifier", Msg: "must be a reverse-domain identifier (e.g. com.example.pkg)"}
	}

	if desc.Type == "" {
		return &FieldError{Field: "type", Msg: "is required"}
	}
	if models.ParsePackageType(desc.Type) == models.TypeUnknown {
		return &FieldError{Field: "type", Msg: fmt.Sprintf("unsupported package type %q", desc.Type)}
	}

	if desc.Name == "" {
		return &FieldError{Field: "name", Msg: "is required"}
	}

	if desc.Description == "" {
		return &FieldError{Field: "description", Msg: "is required"}
	}
	if len(desc.Description) > maxDescriptionLen {
		return &FieldError{Field: "description", Msg: fmt.Sprintf("exceeds %d characters", maxDescriptionLen)}
	}

	if len(desc.Versions) == 0 {
		return &FieldError{Field: "versions", Msg: "must contain at least one entry"}
	}
	for i, ver := range desc.Versions {
		if ver.Version == "" {
			return &FieldError{Field: fmt.Sprintf("versions[%d].version", i), Msg: "is required"}
		}
		if !validStatuses[ver.Status] {
			return &FieldError{
				Field: fmt.Sprintf("versions[%d].status", i),
				Msg:   fmt.Sprintf("unrecognized status %q (expected stable, testing, development or deprecated)", ver.Status),
			}
		}
	}

	return nil
}

// checkContent verifies the type-specific content subtree and resolves
// the package icon. A resources directory is optional, but when present
// it must carry an icon.png.
func checkContent(desc *models.PackageDescriptor) error {
	rule := desc.PkgType.ContentRule()

	for _, dir := range rule.RequiredDirs {
		if !isDir(filepath.Join(desc.Dir, dir)) {
			return fmt.Errorf("missing required %s/ directory for type %s", dir, desc.PkgType)
		}
	}

	if len(rule.AnyOfDirs) > 0 {
		found := false
		for _, dir := range rule.AnyOfDirs {
			if isDir(filepath.Join(desc.Dir, dir)) {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("type %s requires at least one of: %v", desc.PkgType, rule.AnyOfDirs)
		}
	}

	resourcesDir := filepath.Join(desc.Dir, "resources")
	if isDir(resourcesDir) {
		iconPath := filepath.Join(resourcesDir, "icon.png")
		if _, err := os.Stat(iconPath); err != nil {
			return fmt.Errorf("resources/ directory present but icon.png is missing")
		}
		desc.IconPath = iconPath
	}

	return nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
