package scanner

import "context"

// CategoryDirs are the category subtrees scanned under packages/.
// A category directory that does not exist is simply skipped.
var CategoryDirs = []string{"themes", "libraries", "plugins", "fab", "datasource"}

// DescriptorFile is the metadata descriptor every package must carry
const DescriptorFile = "metadata.json"

// ScannedPackage represents a package directory found during scanning
type ScannedPackage struct {
	Category       string // category subtree the package was found under
	Dir            string // package directory
	DescriptorPath string // path to the metadata.json inside Dir
}

// Scanner interface for discovering package directories
type Scanner interface {
	// Scan walks the category subtrees under root and returns every
	// package directory carrying a descriptor, in traversal order.
	Scan(ctx context.Context, root string) ([]ScannedPackage, error)
}
