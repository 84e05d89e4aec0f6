// Package suggest produces "did you mean" hints for filesystem paths that
// do not exist, by fuzzy-matching each missing path segment against the
// entries of the nearest existing ancestor directory.
package suggest

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/agext/levenshtein"
)

// threshold is the minimum normalized similarity for a segment match.
// Below it, no suggestion is produced at all.
const threshold = 0.5

var simParams = levenshtein.NewParams()

// SimilarPath returns the closest existing path to target, or "" when no
// convincing candidate exists. target is expected to be a file path that
// does not exist. The walk is deterministic: directory entries are visited
// in lexical order and ties keep the first candidate seen.
func SimilarPath(target string) string {
	missing, base := climbToExisting(filepath.Clean(target))
	if base == "" || len(missing) == 0 {
		return ""
	}

	// Walk back down: intermediate segments must match directories, the
	// final segment must match a file.
	current := base
	for i, segment := range missing {
		wantDir := i < len(missing)-1
		match := closestEntry(current, segment, wantDir)
		if match == "" {
			return ""
		}
		current = filepath.Join(current, match)
	}
	return current
}

// climbToExisting strips trailing segments off target until an existing
// directory remains. It returns the stripped segments in path order and the
// existing ancestor, or "" when the walk hits the filesystem root without
// finding one.
func climbToExisting(target string) ([]string, string) {
	var missing []string
	dir := target
	for {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return missing, dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, ""
		}
		missing = append([]string{filepath.Base(dir)}, missing...)
		dir = parent
	}
}

// closestEntry returns the entry of dir most similar to name
// (case-insensitive), or "" when nothing reaches the threshold.
func closestEntry(dir, name string, wantDir bool) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	best := ""
	bestScore := 0.0
	for _, e := range entries {
		if e.IsDir() != wantDir {
			continue
		}
		score := levenshtein.Similarity(strings.ToLower(name), strings.ToLower(e.Name()), simParams)
		if score > bestScore {
			best = e.Name()
			bestScore = score
		}
	}
	if bestScore < threshold {
		return ""
	}
	return best
}
