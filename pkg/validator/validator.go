package validator

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/ormasoftchile/launchlint/pkg/document"
	"github.com/ormasoftchile/launchlint/pkg/schemas"
	"github.com/ormasoftchile/launchlint/pkg/substitution"
	"github.com/ormasoftchile/launchlint/pkg/suggest"
)

// Options configures a validation run.
type Options struct {
	// Isolated suppresses existence-check and environment-resolution
	// failures, for checkouts without the package ecosystem on disk.
	// Schema and unknown-substitution issues are never suppressed.
	Isolated bool

	// Index overrides the package-lookup capability. Nil selects
	// substitution.DetectIndex.
	Index substitution.PackageIndex

	// Logger receives per-file progress. Nil discards it.
	Logger *log.Logger
}

// Runner executes the two-pass pipeline: pass 1 loads and classifies every
// file and gathers launch→config references; pass 2 runs schema and
// semantic checks per file against the finalized reference set.
type Runner struct {
	opts     Options
	checker  *schemas.Checker
	resolver *substitution.Resolver
	logger   *log.Logger
}

// fileRecord is the per-file state produced by pass 1.
type fileRecord struct {
	path          string
	abs           string
	doc           any
	isLaunch      bool
	hasParamBlock bool
	isParamConfig bool
}

// New builds a Runner. Schema compilation failure is fatal: no file can be
// processed without the shape contracts.
func New(opts Options) (*Runner, error) {
	checker, err := schemas.NewChecker()
	if err != nil {
		return nil, err
	}

	idx := opts.Index
	if idx == nil {
		idx = substitution.DetectIndex()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Runner{
		opts:     opts,
		checker:  checker,
		resolver: &substitution.Resolver{Index: idx},
		logger:   logger,
	}, nil
}

// Run validates files, a list produced by CollectFiles, and returns the
// aggregated result. Collection happens once, in the caller; Run trusts the
// list it is given. Individual file problems never abort the run.
func (r *Runner) Run(files []string) *Result {
	result := &Result{}

	for _, f := range files {
		r.logger.Debug("collected", "file", f)
	}

	// Pass 1: load, classify, gather references.
	var records []*fileRecord
	referenced := make(map[string]struct{})
	for _, path := range files {
		doc, err := document.ParseFile(path)
		if err != nil {
			if errors.Is(err, document.ErrEmptyDocument) {
				result.add(Issue{Path: path, Message: "YAML file is empty", Kind: SeverityError})
			} else {
				result.add(Issue{Path: path, Message: fmt.Sprintf("YAML syntax error: %v", err), Kind: SeverityError})
			}
			continue
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			abs = filepath.Clean(path)
		}
		rec := &fileRecord{
			path:          path,
			abs:           abs,
			doc:           doc,
			isLaunch:      IsLaunchFile(path, doc),
			hasParamBlock: ContainsParameterBlock(doc),
		}
		records = append(records, rec)

		if rec.isLaunch {
			for ref := range r.collectConfigReferences(path, doc) {
				referenced[ref] = struct{}{}
			}
		}
	}

	// Pass 2: schema + semantics, with the reference set finalized.
	for _, rec := range records {
		if rec.isLaunch {
			result.LaunchFiles++
			r.checkLaunch(rec, result)
			continue
		}
		result.ConfigFiles++
		rec.isParamConfig = isParameterConfig(rec, referenced)
		if rec.isParamConfig {
			r.checkConfig(rec, result)
		}
	}

	return result
}

// collectConfigReferences harvests the parameter files a launch document
// pulls in via node.param[].from. Resolution failures are tolerated
// silently: this feeds a classification signal, not a required check, so it
// must not depend on environment availability and must never fail.
func (r *Runner) collectConfigReferences(path string, root any) map[string]struct{} {
	refs := make(map[string]struct{})
	for _, entry := range launchEntries(root) {
		node, ok := childMapping(entry, "node")
		if !ok {
			continue
		}
		for _, from := range paramFromValues(node) {
			resolved, _ := r.resolver.Resolve(from, path)
			if substitution.Unresolved(resolved) {
				continue
			}
			refs[substitution.MakeAbsolute(resolved, path)] = struct{}{}
		}
	}
	return refs
}

// checkLaunch runs the launch-file checks: schema shape, substitution-name
// scan, then include-file and param-file existence.
func (r *Runner) checkLaunch(rec *fileRecord, result *Result) {
	for _, msg := range r.checker.ValidateLaunch(document.Interface(rec.doc)) {
		result.add(Issue{Path: rec.path, Message: msg, Kind: SeverityError})
	}
	for _, msg := range substitution.CheckSubstitutions(rec.doc) {
		result.add(Issue{Path: rec.path, Message: msg, Kind: SeverityError})
	}

	for _, entry := range launchEntries(rec.doc) {
		if include, ok := childMapping(entry, "include"); ok {
			if file, ok := stringValue(include, "file"); ok {
				r.checkReference(rec, file, "Included launch file does not exist", result)
			}
		}
		if node, ok := childMapping(entry, "node"); ok {
			for _, from := range paramFromValues(node) {
				r.checkReference(rec, from, "Parameter file does not exist", result)
			}
		}
	}
}

// checkConfig runs the strict parameter-config checks: config schema plus
// existence of every path-like string value.
func (r *Runner) checkConfig(rec *fileRecord, result *Result) {
	for _, msg := range r.checker.ValidateConfig(document.Interface(rec.doc)) {
		result.add(Issue{Path: rec.path, Message: msg, Kind: SeverityError})
	}

	for _, value := range document.Strings(rec.doc) {
		if !looksLikePath(value) {
			continue
		}
		r.checkReference(rec, value, "Referenced file does not exist", result)
	}
}

// checkReference resolves value and verifies the target file exists,
// attaching a fuzzy suggestion when it does not. Isolated mode suppresses
// both the resolution failures and the existence failure.
func (r *Runner) checkReference(rec *fileRecord, value, what string, result *Result) {
	resolved, problems := r.resolver.Resolve(value, rec.path)
	if !r.opts.Isolated {
		for _, p := range problems {
			result.add(Issue{Path: rec.path, Message: p, Kind: SeverityError})
		}
	}

	// Anything still carrying a substitution cannot be existence-checked.
	if substitution.Unresolved(resolved) {
		return
	}

	target := substitution.MakeAbsolute(resolved, rec.path)
	if isFile(target) || r.opts.Isolated {
		return
	}

	msg := fmt.Sprintf("%s: %s", what, target)
	if s := suggest.SimilarPath(target); s != "" {
		msg += fmt.Sprintf(" (did you mean %s?)", s)
	}
	result.add(Issue{Path: rec.path, Message: msg, Kind: SeverityError})
}

func looksLikePath(value string) bool {
	if substitution.HasPathMarker(value) {
		return true
	}
	return strings.HasSuffix(value, ".yaml") || strings.HasSuffix(value, ".yml")
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// launchEntries returns the mapping entries of the root launch list, or nil
// when the document does not have that shape (the schema reports that
// separately).
func launchEntries(root any) []*document.Mapping {
	m, ok := root.(*document.Mapping)
	if !ok {
		return nil
	}
	list, ok := m.Get("launch")
	if !ok {
		return nil
	}
	seq, ok := list.([]any)
	if !ok {
		return nil
	}
	var entries []*document.Mapping
	for _, e := range seq {
		if em, ok := e.(*document.Mapping); ok {
			entries = append(entries, em)
		}
	}
	return entries
}

func childMapping(m *document.Mapping, key string) (*document.Mapping, bool) {
	v, ok := m.Get(key)
	if !ok {
		return nil, false
	}
	child, ok := v.(*document.Mapping)
	return child, ok
}

func stringValue(m *document.Mapping, key string) (string, bool) {
	v, ok := m.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// paramFromValues returns the string from fields of a node's param list.
func paramFromValues(node *document.Mapping) []string {
	params, ok := node.Get("param")
	if !ok {
		return nil
	}
	seq, ok := params.([]any)
	if !ok {
		return nil
	}
	var froms []string
	for _, p := range seq {
		pm, ok := p.(*document.Mapping)
		if !ok {
			continue
		}
		if from, ok := stringValue(pm, "from"); ok {
			froms = append(froms, from)
		}
	}
	return froms
}
