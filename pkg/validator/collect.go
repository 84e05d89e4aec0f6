package validator

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// collectedSegments are the directory names that mark a file as belonging
// to the launch/config ecosystem. Anything outside them is ignored even
// when named explicitly.
var collectedSegments = map[string]bool{
	"launch":  true,
	"test":    true,
	"config":  true,
	"configs": true,
}

func inCollectedSegment(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if collectedSegments[part] {
			return true
		}
	}
	return false
}

func hasYAMLExt(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// CollectFiles expands the given files and directories into the sorted,
// deduplicated list of YAML files to validate. Directories are scanned
// recursively; paths that do not exist are skipped.
func CollectFiles(paths []string) []string {
	seen := make(map[string]bool)
	var files []string

	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		if !info.IsDir() {
			if hasYAMLExt(p) && inCollectedSegment(p) {
				add(p)
			}
			continue
		}
		filepath.WalkDir(p, func(sub string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			if hasYAMLExt(sub) && inCollectedSegment(sub) {
				add(sub)
			}
			return nil
		})
	}

	sort.Strings(files)
	return files
}
