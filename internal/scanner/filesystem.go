package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// FileSystemScanner implements Scanner for local directory trees
type FileSystemScanner struct{}

// NewFileSystemScanner creates a new filesystem scanner
func NewFileSystemScanner() *FileSystemScanner {
	return &FileSystemScanner{}
}

// Scan walks the fixed category subtrees under <root>/packages looking
// for package directories. Each immediate child directory of a category
// must contain a metadata.json; children without one are skipped with a
// warning. The returned order is filesystem traversal order — callers
// that need stable output must sort downstream.
func (s *FileSystemScanner) Scan(ctx context.Context, root string) ([]ScannedPackage, error) {
	var packages []ScannedPackage

	packagesDir := filepath.Join(root, "packages")
	if _, err := os.Stat(packagesDir); os.IsNotExist(err) {
		logrus.Warnf("No packages directory at %s", packagesDir)
		return nil, nil
	}

	for _, category := range CategoryDirs {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		categoryDir := filepath.Join(packagesDir, category)
		entries, err := os.ReadDir(categoryDir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read category %s: %w", category, err)
		}

		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}

			pkgDir := filepath.Join(categoryDir, entry.Name())
			descriptorPath := filepath.Join(pkgDir, DescriptorFile)
			if _, err := os.Stat(descriptorPath); err != nil {
				if os.IsNotExist(err) {
					logrus.Warnf("Skipping %s: no %s", pkgDir, DescriptorFile)
					continue
				}
				return nil, fmt.Errorf("failed to stat %s: %w", descriptorPath, err)
			}

			logrus.Debugf("Found %s package: %s", category, pkgDir)

			packages = append(packages, ScannedPackage{
				Category:       category,
				Dir:            pkgDir,
				DescriptorPath: descriptorPath,
			})
		}
	}

	logrus.Infof("Found %d packages in %s", len(packages), packagesDir)
	return packages, nil
}
