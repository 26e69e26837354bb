package archiver

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/american-embedded/pcmgen/internal/models"
	"github.com/american-embedded/pcmgen/internal/utils"
	"github.com/sirupsen/logrus"
)

// BuildResources bundles every package icon into a single deterministic
// resources archive at destPath. Each icon is stored as
// <identifier>/icon.png; entries are sorted by identifier. Packages
// without an icon are skipped.
func BuildResources(packages []*models.PackageDescriptor, destPath string) error {
	withIcons := make([]*models.PackageDescriptor, 0, len(packages))
	for _, pkg := range packages {
		if pkg.HasIcon() {
			withIcons = append(withIcons, pkg)
		}
	}
	sort.Slice(withIcons, func(i, j int) bool {
		return withIcons[i].Identifier < withIcons[j].Identifier
	})

	var buf bytes.Buffer
	zw := newDeterministicWriter(&buf)

	for _, pkg := range withIcons {
		f, err := os.Open(pkg.IconPath)
		if err != nil {
			return &models.BuildError{
				Type:    models.ErrFileOp,
				Package: pkg.Identifier,
				Err:     fmt.Errorf("failed to open icon %s: %w", pkg.IconPath, err),
			}
		}

		w, err := newEntryWriter(zw, pkg.Identifier+"/icon.png")
		if err == nil {
			_, err = io.Copy(w, f)
		}
		f.Close()
		if err != nil {
			return &models.BuildError{
				Type:    models.ErrArchive,
				Package: pkg.Identifier,
				Err:     fmt.Errorf("failed to archive icon: %w", err),
			}
		}
	}

	if err := zw.Close(); err != nil {
		return &models.BuildError{Type: models.ErrArchive, Err: err}
	}

	if err := utils.WriteFile(destPath, buf.Bytes(), 0644); err != nil {
		return &models.BuildError{
			Type: models.ErrFileOp,
			Err:  fmt.Errorf("failed to write %s: %w", destPath, err),
		}
	}

	logrus.Debugf("Bundled %d icons into %s", len(withIcons), destPath)
	return nil
}
