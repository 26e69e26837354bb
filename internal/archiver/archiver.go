package archiver

import (
	"archive/zip"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/american-embedded/pcmgen/internal/models"
	"github.com/american-embedded/pcmgen/internal/utils"
	"github.com/sirupsen/logrus"
)

// zipEpoch is the fixed modification time stamped on every archive
// entry. A constant timestamp keeps rebuilds of unchanged content
// byte-identical, so content hashes are stable.
var zipEpoch = time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)

// Archive deterministically packages a validated package directory into
// <destDir>/<identifier>-<version>.zip. Entries are sorted by archive
// path, carry the fixed epoch timestamp and a fixed mode, and are
// compressed at a fixed level, so unchanged content always produces the
// same bytes.
func Archive(desc *models.PackageDescriptor, version, destDir string) (*models.ArchiveRecord, error) {
	entries, err := collectEntries(desc.Dir)
	if err != nil {
		return nil, &models.BuildError{
			Type:    models.ErrArchive,
			Package: desc.Identifier,
			Err:     err,
		}
	}

	var buf bytes.Buffer
	zw := newDeterministicWriter(&buf)

	var installSize int64
	for _, entry := range entries {
		f, err := os.Open(entry.path)
		if err != nil {
			return nil, &models.BuildError{
				Type:    models.ErrFileOp,
				Package: desc.Identifier,
				Err:     fmt.Errorf("failed to open %s: %w", entry.path, err),
			}
		}

		w, err := newEntryWriter(zw, entry.arcname)
		if err == nil {
			var n int64
			n, err = io.Copy(w, f)
			installSize += n
		}
		f.Close()
		if err != nil {
			return nil, &models.BuildError{
				Type:    models.ErrArchive,
				Package: desc.Identifier,
				Err:     fmt.Errorf("failed to archive %s: %w", entry.arcname, err),
			}
		}
	}

	if err := zw.Close(); err != nil {
		return nil, &models.BuildError{
			Type:    models.ErrArchive,
			Package: desc.Identifier,
			Err:     err,
		}
	}

	zipName := fmt.Sprintf("%s-%s.zip", desc.Identifier, version)
	zipPath := filepath.Join(destDir, zipName)
	if err := utils.WriteFile(zipPath, buf.Bytes(), 0644); err != nil {
		return nil, &models.BuildError{
			Type:    models.ErrFileOp,
			Package: desc.Identifier,
			Err:     fmt.Errorf("failed to write %s: %w", zipPath, err),
		}
	}

	sum := sha256.Sum256(buf.Bytes())
	record := &models.ArchiveRecord{
		Identifier:  desc.Identifier,
		ZipName:     zipName,
		SHA256:      hex.EncodeToString(sum[:]),
		Size:        int64(buf.Len()),
		InstallSize: installSize,
	}

	logrus.Debugf("Archived %s (%d bytes, sha256 %s)", zipName, record.Size, record.SHA256[:16])
	return record, nil
}

// zipEntry pairs a source file with its path inside the archive
type zipEntry struct {
	path    string
	arcname string
}

// collectEntries lists the files to package: metadata.json at the
// archive root plus every file under the package's content
// subdirectories, sorted by archive path.
func collectEntries(pkgDir string) ([]zipEntry, error) {
	var entries []zipEntry

	children, err := os.ReadDir(pkgDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", pkgDir, err)
	}

	for _, child := range children {
		if !child.IsDir() {
			// Only the descriptor travels from the package root.
			if child.Name() == "metadata.json" {
				entries = append(entries, zipEntry{
					path:    filepath.Join(pkgDir, child.Name()),
					arcname: "metadata.json",
				})
			}
			continue
		}

		subDir := filepath.Join(pkgDir, child.Name())
		err := filepath.Walk(subDir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(pkgDir, path)
			if err != nil {
				return err
			}
			entries = append(entries, zipEntry{
				path:    path,
				arcname: filepath.ToSlash(rel),
			})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", subDir, err)
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].arcname < entries[j].arcname
	})

	return entries, nil
}

// newEntryWriter adds one deterministic entry to the archive
func newEntryWriter(zw *zip.Writer, arcname string) (io.Writer, error) {
	header := &zip.FileHeader{
		Name:     arcname,
		Method:   zip.Deflate,
		Modified: zipEpoch,
	}
	header.SetMode(0644)
	return zw.CreateHeader(header)
}
