package validator

import (
	"path/filepath"
	"strings"

	"github.com/ormasoftchile/launchlint/pkg/document"
)

// parameterBlockKey marks a sub-tree as ROS node parameters.
const parameterBlockKey = "ros__parameters"

// IsLaunchData reports whether the parsed root is a mapping with a launch
// key.
func IsLaunchData(root any) bool {
	m, ok := root.(*document.Mapping)
	return ok && m.Has("launch")
}

// IsLaunchFile is the authoritative launch classifier: the file name
// containing "launch" wins without inspecting content, otherwise the root
// mapping decides.
func IsLaunchFile(path string, root any) bool {
	if strings.Contains(filepath.Base(path), "launch") {
		return true
	}
	return IsLaunchData(root)
}

// IsConfigFile treats any YAML that is not a launch file as config-like.
func IsConfigFile(path string, root any) bool {
	return !IsLaunchFile(path, root)
}

// InConfigDir reports whether any path segment is literally config or
// configs.
func InConfigDir(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "config" || part == "configs" {
			return true
		}
	}
	return false
}

// ContainsParameterBlock reports whether any mapping at any depth carries a
// ros__parameters key.
func ContainsParameterBlock(root any) bool {
	return document.ContainsKey(root, parameterBlockKey)
}

// isParameterConfig encodes the config-directory rule: a file under
// config/ or configs/ is a strict parameter config when it either declares
// a parameter block itself or is pulled in by some launch file. Everything
// else is exempt from the config schema (it may be unrelated auxiliary
// YAML).
func isParameterConfig(rec *fileRecord, referenced map[string]struct{}) bool {
	if !InConfigDir(rec.path) {
		return false
	}
	if rec.hasParamBlock {
		return true
	}
	_, ok := referenced[rec.abs]
	return ok
}
