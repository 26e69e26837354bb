package archiver

import (
	"archive/zip"
	"io"

	"github.com/klauspost/compress/flate"
)

// compressionLevel is fixed so that identical input always deflates to
// identical bytes.
const compressionLevel = flate.BestCompression

// newDeterministicWriter returns a zip.Writer whose Deflate entries are
// compressed with klauspost's flate at a fixed level.
func newDeterministicWriter(w io.Writer) *zip.Writer {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, compressionLevel)
	})
	return zw
}
