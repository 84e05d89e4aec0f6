// Package substitution expands the $(verb arg) expressions embedded in
// launch and config string values. Only a fixed verb set is understood:
// find-pkg-share, find-pkg-prefix and dirname are resolved; var, env,
// command, eval and anon are recognized but deliberately left unexpanded
// (their values exist only at launch time).
package substitution

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ormasoftchile/launchlint/pkg/document"
)

// Resolved verbs.
const (
	VerbFindPkgShare  = "find-pkg-share"
	VerbFindPkgPrefix = "find-pkg-prefix"
	VerbDirname       = "dirname"
)

// exprRe matches a single $(verb arg...) expression. The argument part
// stops at the first closing parenthesis, which is what keeps nested
// substitutions visibly unresolved.
var exprRe = regexp.MustCompile(`\$\(\s*([A-Za-z][A-Za-z0-9_-]*)\s*([^)]*?)\s*\)`)

// passthrough verbs are valid launch substitutions that this tool cannot
// evaluate statically.
var passthrough = map[string]bool{
	"var":     true,
	"env":     true,
	"command": true,
	"eval":    true,
	"anon":    true,
}

// KnownVerb reports whether name is part of the recognized grammar, either
// resolved or pass-through.
func KnownVerb(name string) bool {
	switch name {
	case VerbFindPkgShare, VerbFindPkgPrefix, VerbDirname:
		return true
	}
	return passthrough[name]
}

// HasPathMarker reports whether value contains a substitution verb that
// produces a filesystem path when resolved.
func HasPathMarker(value string) bool {
	return strings.Contains(value, "$("+VerbFindPkgShare) ||
		strings.Contains(value, "$("+VerbFindPkgPrefix) ||
		strings.Contains(value, "$("+VerbDirname)
}

// Unresolved reports whether value still contains any substitution
// expression. Callers skip existence checks on such values.
func Unresolved(value string) bool {
	return strings.Contains(value, "$(")
}

// Resolver expands substitution expressions using a package index with a
// local source-workspace fallback.
type Resolver struct {
	// Index is the injected package-lookup capability. Nil means absent;
	// local workspace discovery is then the only resolution path.
	Index PackageIndex
}

// Resolve expands the substitutions in value. file is the document being
// processed; $(dirname) resolves to its parent directory. Unresolvable
// package references are left textually unchanged and reported as one
// problem message per occurrence. Pass-through and unknown verbs are left
// in place without a message (unknown verbs are reported separately by
// CheckSubstitutions).
func (r *Resolver) Resolve(value, file string) (string, []string) {
	var problems []string
	resolved := exprRe.ReplaceAllStringFunc(value, func(match string) string {
		sub := exprRe.FindStringSubmatch(match)
		verb, arg := sub[1], strings.TrimSpace(sub[2])
		switch verb {
		case VerbDirname:
			return dirnameOf(file)
		case VerbFindPkgShare, VerbFindPkgPrefix:
			if strings.Contains(arg, "$") {
				// Nested substitution inside the package name: defer,
				// no lookup, no problem report.
				return match
			}
			dir, err := r.lookup(verb, arg, file)
			if err != nil {
				problems = append(problems, fmt.Sprintf("cannot resolve package %q in %s: %v", arg, verb, err))
				return match
			}
			return dir
		default:
			return match
		}
	})
	return resolved, problems
}

// lookup tries the injected index first and falls back to searching the
// enclosing source workspace. The index error is surfaced when neither
// succeeds.
func (r *Resolver) lookup(verb, pkg, file string) (string, error) {
	idx := r.Index
	if idx == nil {
		idx = NoIndex{}
	}

	var dir string
	var err error
	switch verb {
	case VerbFindPkgShare:
		dir, err = idx.ShareDirectory(pkg)
	case VerbFindPkgPrefix:
		dir, err = idx.PrefixDirectory(pkg)
	}
	if err == nil {
		return dir, nil
	}

	if local, ok := FindPackageInWorkspace(file, pkg); ok {
		return local, nil
	}
	return "", err
}

// CheckSubstitutions scans every string value in the tree for substitution
// verbs outside the recognized grammar. One message per occurrence,
// regardless of run mode.
func CheckSubstitutions(root any) []string {
	var msgs []string
	for _, s := range document.Strings(root) {
		for _, m := range exprRe.FindAllStringSubmatch(s, -1) {
			if !KnownVerb(m[1]) {
				msgs = append(msgs, fmt.Sprintf("unknown substitution $(%s)", m[1]))
			}
		}
	}
	return msgs
}

// dirnameOf returns the absolute directory containing file, so the
// expansion composes cleanly with later path joins.
func dirnameOf(file string) string {
	abs, err := filepath.Abs(file)
	if err != nil {
		return filepath.Dir(file)
	}
	return filepath.Dir(abs)
}

// MakeAbsolute resolves a (possibly relative) path against the directory of
// the file that referenced it and normalizes the result.
func MakeAbsolute(resolved, file string) string {
	if filepath.IsAbs(resolved) {
		return filepath.Clean(resolved)
	}
	abs, err := filepath.Abs(filepath.Join(filepath.Dir(file), resolved))
	if err != nil {
		return filepath.Clean(filepath.Join(filepath.Dir(file), resolved))
	}
	return abs
}
