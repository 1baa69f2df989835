// Package buckfile evaluates build-definition files. A build file is a
// Risor script; one host builtin per registered rule type collects attribute
// maps as the script runs, so declarations read the way they always have:
//
//	java_library({
//	    "name": "core",
//	    "srcs": glob(["*.java"]),
//	    "deps": ["//lib:base"],
//	})
//
// The evaluator also exposes glob() for matching sources relative to the
// build file and include_defs() for pulling in shared rule fragments.
package buckfile

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/risor-io/risor"

	"github.com/chrisrhoden/buck/internal/fsutil"
	"github.com/chrisrhoden/buck/internal/rules"
)

// Evaluator is the default RawRuleLoader: it turns a build file into the
// ordered list of raw rules it declares.
type Evaluator struct {
	fs       *fsutil.ProjectFilesystem
	registry *rules.Registry
}

// NewEvaluator returns an evaluator reading through fs and accepting the
// registry's rule types.
func NewEvaluator(fs *fsutil.ProjectFilesystem, registry *rules.Registry) *Evaluator {
	return &Evaluator{fs: fs, registry: registry}
}

// evalState accumulates rules across the build file and everything it
// includes.
type evalState struct {
	basePath string
	rules    []rules.RawRule
	included map[string]bool
}

// GetAllRules evaluates the build file at the root-relative path buildFile,
// with every defaultIncludes fragment prepended to the script so helper
// definitions are in scope. Returned rules carry their declaration order.
func (e *Evaluator) GetAllRules(ctx context.Context, buildFile string, defaultIncludes []string) ([]rules.RawRule, error) {
	basePath := path.Dir(buildFile)
	if basePath == "." {
		basePath = ""
	}

	var source strings.Builder
	for _, include := range defaultIncludes {
		rel := includePath(include)
		data, err := e.fs.ReadFile(rel)
		if err != nil {
			return nil, fmt.Errorf("buckfile: default include %s: %w", include, err)
		}
		source.Write(data)
		source.WriteString("\n")
	}
	data, err := e.fs.ReadFile(buildFile)
	if err != nil {
		return nil, fmt.Errorf("buckfile: %w", err)
	}
	source.Write(data)

	state := &evalState{basePath: basePath, included: make(map[string]bool)}
	if err := e.eval(ctx, source.String(), buildFile, state); err != nil {
		return nil, err
	}
	return state.rules, nil
}

// eval runs one script with the rule-collection globals installed.
func (e *Evaluator) eval(ctx context.Context, source, label string, state *evalState) error {
	var opts []risor.Option
	for name, builtin := range e.globals(state) {
		opts = append(opts, risor.WithGlobal(name, builtin))
	}
	if _, err := risor.Eval(ctx, source, opts...); err != nil {
		return fmt.Errorf("buckfile: evaluating %s: %w", label, err)
	}
	return nil
}

// globals builds the host functions exposed to build files: one collector
// per rule type, glob, and include_defs.
func (e *Evaluator) globals(state *evalState) map[string]any {
	globals := make(map[string]any)
	for _, typ := range e.registry.Types() {
		globals[string(typ)] = makeRuleFn(typ, state)
	}
	globals["glob"] = makeGlobFn(e.fs, state.basePath)
	globals["include_defs"] = makeIncludeDefsFn(e, state)
	return globals
}

// includeDefs evaluates an included fragment with the same collector, so
// rules it declares land in the including file's rule list. Fragments are
// evaluated at most once per build file.
func (e *Evaluator) includeDefs(ctx context.Context, include string, state *evalState) error {
	rel := includePath(include)
	if state.included[rel] {
		return nil
	}
	state.included[rel] = true

	data, err := e.fs.ReadFile(rel)
	if err != nil {
		return fmt.Errorf("buckfile: include_defs %s: %w", include, err)
	}
	return e.eval(ctx, string(data), rel, state)
}

// includePath maps an include reference ("//tools/defs" or a plain
// root-relative path) to a root-relative path.
func includePath(include string) string {
	return strings.TrimPrefix(include, "//")
}
