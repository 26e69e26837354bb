package icons

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/american-embedded/pcmgen/internal/scanner"
	"github.com/sirupsen/logrus"
)

const iconSize = 64

type palette struct {
	bg     color.RGBA
	accent color.RGBA
}

// Per-package palettes; anything unlisted gets the gray default.
var palettes = map[string]palette{
	"american-embedded-dark": {
		bg:     color.RGBA{30, 30, 30, 255},
		accent: color.RGBA{224, 122, 95, 255},
	},
	"american-embedded-light": {
		bg:     color.RGBA{245, 245, 245, 255},
		accent: color.RGBA{191, 10, 48, 255},
	},
}

var defaultPalette = palette{
	bg:     color.RGBA{128, 128, 128, 255},
	accent: color.RGBA{200, 200, 200, 255},
}

// CreatePlaceholders generates a resources/icon.png for every package
// directory under the category subtrees that does not already have one.
func CreatePlaceholders(repoRoot string) error {
	packagesDir := filepath.Join(repoRoot, "packages")

	for _, category := range scanner.CategoryDirs {
		entries, err := os.ReadDir(filepath.Join(packagesDir, category))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("failed to read category %s: %w", category, err)
		}

		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}

			pkgDir := filepath.Join(packagesDir, category, entry.Name())
			iconPath := filepath.Join(pkgDir, "resources", "icon.png")
			if _, err := os.Stat(iconPath); err == nil {
				continue
			}

			if err := writePlaceholder(iconPath, entry.Name()); err != nil {
				return fmt.Errorf("failed to create icon for %s: %w", pkgDir, err)
			}
			logrus.Infof("Created placeholder icon: %s", iconPath)
		}
	}

	return nil
}

// writePlaceholder renders a 64x64 icon: background, diagonal accent
// stripes and a border.
func writePlaceholder(iconPath, pkgName string) error {
	p, ok := palettes[pkgName]
	if !ok {
		p = defaultPalette
	}

	img := image.NewRGBA(image.Rect(0, 0, iconSize, iconSize))
	for y := 0; y < iconSize; y++ {
		for x := 0; x < iconSize; x++ {
			img.SetRGBA(x, y, p.bg)
		}
	}

	// Diagonal stripes, two pixels wide.
	for start := -iconSize; start <= iconSize; start += 4 {
		for t := 0; t < iconSize; t++ {
			setIfInside(img, start+t, t, p.accent)
			setIfInside(img, start+t+1, t, p.accent)
		}
	}

	// Border, two pixels wide.
	for i := 0; i < iconSize; i++ {
		for w := 0; w < 2; w++ {
			img.SetRGBA(i, w, p.accent)
			img.SetRGBA(i, iconSize-1-w, p.accent)
			img.SetRGBA(w, i, p.accent)
			img.SetRGBA(iconSize-1-w, i, p.accent)
		}
	}

	if err := os.MkdirAll(filepath.Dir(iconPath), 0755); err != nil {
		return err
	}

	f, err := os.Create(iconPath)
	if err != nil {
		return err
	}
	defer f.Close()

	return png.Encode(f, img)
}

func setIfInside(img *image.RGBA, x, y int, c color.RGBA) {
	if x >= 0 && x < iconSize && y >= 0 && y < iconSize {
		img.SetRGBA(x, y, c)
	}
}
