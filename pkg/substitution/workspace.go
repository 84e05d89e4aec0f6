package substitution

import (
	"encoding/xml"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// packageManifest is the slice of package.xml we care about.
type packageManifest struct {
	XMLName xml.Name `xml:"package"`
	Name    string   `xml:"name"`
}

// FindPackageInWorkspace locates a source checkout of pkg starting from the
// file currently being processed. It walks up to the enclosing package
// manifest, finds the workspace root (the nearest ancestor whose src
// subtree contains that package), then searches the root's src tree for a
// manifest declaring pkg, skipping build and install output directories.
func FindPackageInWorkspace(startFile, pkg string) (string, bool) {
	abs, err := filepath.Abs(startFile)
	if err != nil {
		return "", false
	}

	pkgDir, ok := enclosingPackageDir(filepath.Dir(abs))
	if !ok {
		return "", false
	}
	root, ok := workspaceRoot(pkgDir)
	if !ok {
		return "", false
	}
	return searchSrcTree(filepath.Join(root, "src"), pkg)
}

// enclosingPackageDir walks upward until it finds a directory containing
// package.xml.
func enclosingPackageDir(dir string) (string, bool) {
	for {
		if _, err := os.Stat(filepath.Join(dir, "package.xml")); err == nil {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// workspaceRoot finds the nearest ancestor of pkgDir that has a src
// subdirectory whose subtree contains pkgDir.
func workspaceRoot(pkgDir string) (string, bool) {
	dir := pkgDir
	for {
		src := filepath.Join(dir, "src")
		if info, err := os.Stat(src); err == nil && info.IsDir() {
			rel, err := filepath.Rel(src, pkgDir)
			if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
				return dir, true
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// searchSrcTree walks the workspace source tree for a package.xml whose
// declared name matches pkg. Colcon output directories are skipped.
func searchSrcTree(src, pkg string) (string, bool) {
	var found string
	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are not fatal to discovery
		}
		if d.IsDir() {
			switch d.Name() {
			case "build", "install", "log":
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() != "package.xml" {
			return nil
		}
		if manifestName(path) == pkg {
			found = filepath.Dir(path)
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil || found == "" {
		return "", false
	}
	return found, true
}

// manifestName extracts the <name> element from a package.xml, or "" when
// the manifest is unreadable.
func manifestName(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	var m packageManifest
	if err := xml.Unmarshal(data, &m); err != nil {
		return ""
	}
	return m.Name
}
