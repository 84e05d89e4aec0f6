// Package validator runs the two-pass validation pipeline over a set of
// launch and config YAML files.
package validator

// Severity classifies an issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one finding against one file. Immutable once created.
type Issue struct {
	Path    string
	Message string
	Kind    Severity
}

// Result aggregates everything found in one validation run. Issues are in
// file-processing order and, within a file, in check-execution order.
type Result struct {
	Issues      []Issue
	LaunchFiles int
	ConfigFiles int
}

func (r *Result) add(i Issue) {
	r.Issues = append(r.Issues, i)
}

// ErrorCount returns the number of error-severity issues.
func (r *Result) ErrorCount() int {
	n := 0
	for _, i := range r.Issues {
		if i.Kind == SeverityError {
			n++
		}
	}
	return n
}

// HasErrors reports whether any error-severity issue exists.
func (r *Result) HasErrors() bool {
	return r.ErrorCount() > 0
}

// FilesWithErrors returns the distinct files carrying at least one
// error-severity issue, in order of first appearance.
func (r *Result) FilesWithErrors() []string {
	seen := make(map[string]bool)
	var files []string
	for _, i := range r.Issues {
		if i.Kind != SeverityError || seen[i.Path] {
			continue
		}
		seen[i.Path] = true
		files = append(files, i.Path)
	}
	return files
}
