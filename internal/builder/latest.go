package builder

import (
	"github.com/Masterminds/semver/v3"

	"github.com/american-embedded/pcmgen/internal/models"
)

// Latest selects a package's latest version. Policy: the highest valid
// semantic version among non-deprecated entries wins; when two entries
// carry the same version the later-listed one is kept. If no candidate
// parses as a semantic version the last-listed candidate wins. Entries
// with deprecated status are only considered when every entry is
// deprecated.
func Latest(versions []models.VersionEntry) models.VersionEntry {
	candidates := make([]models.VersionEntry, 0, len(versions))
	for _, v := range versions {
		if v.Status != "deprecated" {
			candidates = append(candidates, v)
		}
	}
	if len(candidates) == 0 {
		candidates = versions
	}

	var best models.VersionEntry
	var bestVer *semver.Version
	for _, entry := range candidates {
		ver, err := semver.NewVersion(entry.Version)
		if err != nil {
			continue
		}
		if bestVer == nil || !ver.LessThan(bestVer) {
			best = entry
			bestVer = ver
		}
	}
	if bestVer != nil {
		return best
	}

	return candidates[len(candidates)-1]
}
