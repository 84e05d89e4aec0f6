package substitution

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrIndexUnavailable means no package index is present in the environment
// (typically: the ROS environment was never sourced).
var ErrIndexUnavailable = errors.New("package index not available (ROS environment not sourced?)")

// PackageIndex is the injected lookup capability for installed packages.
// Absence is tolerated: NoIndex satisfies the interface and always fails,
// which routes resolution through local workspace discovery.
type PackageIndex interface {
	// ShareDirectory returns the package's installed share directory.
	ShareDirectory(pkg string) (string, error)
	// PrefixDirectory returns the package's install prefix.
	PrefixDirectory(pkg string) (string, error)
}

// NoIndex is the always-absent index.
type NoIndex struct{}

func (NoIndex) ShareDirectory(string) (string, error)  { return "", ErrIndexUnavailable }
func (NoIndex) PrefixDirectory(string) (string, error) { return "", ErrIndexUnavailable }

// AmentIndex resolves packages through the ament resource index layout:
// a package pkg installed under prefix is marked by
// <prefix>/share/ament_index/resource_index/packages/<pkg>, and its share
// directory is <prefix>/share/<pkg>.
type AmentIndex struct {
	prefixes []string
}

// NewAmentIndex builds an index over a list-separated prefix path
// (the AMENT_PREFIX_PATH format).
func NewAmentIndex(prefixPath string) *AmentIndex {
	var prefixes []string
	for _, p := range strings.Split(prefixPath, string(os.PathListSeparator)) {
		if p != "" {
			prefixes = append(prefixes, p)
		}
	}
	return &AmentIndex{prefixes: prefixes}
}

// DetectIndex returns an AmentIndex when AMENT_PREFIX_PATH is set and
// NoIndex otherwise.
func DetectIndex() PackageIndex {
	if pp := os.Getenv("AMENT_PREFIX_PATH"); pp != "" {
		return NewAmentIndex(pp)
	}
	return NoIndex{}
}

func (a *AmentIndex) find(pkg string) (string, error) {
	for _, prefix := range a.prefixes {
		marker := filepath.Join(prefix, "share", "ament_index", "resource_index", "packages", pkg)
		if _, err := os.Stat(marker); err == nil {
			return prefix, nil
		}
	}
	return "", fmt.Errorf("package %q not found in ament index", pkg)
}

func (a *AmentIndex) ShareDirectory(pkg string) (string, error) {
	prefix, err := a.find(pkg)
	if err != nil {
		return "", err
	}
	return filepath.Join(prefix, "share", pkg), nil
}

func (a *AmentIndex) PrefixDirectory(pkg string) (string, error) {
	return a.find(pkg)
}
