// Package rules defines the build-rule contracts of the parser core: raw
// attribute maps, half-constructed rule builders, fully materialized rules,
// and the closed registry dispatching rule-type tags to factories.
package rules

import (
	"fmt"
	"path"
	"sort"

	"github.com/chrisrhoden/buck/internal/model"
)

// Type is a rule-type tag, always lower case.
type Type string

// The closed set of rule types known to the registry.
const (
	AndroidBinary  Type = "android_binary"
	AndroidLibrary Type = "android_library"
	ExportFile     Type = "export_file"
	Genrule        Type = "genrule"
	JavaBinary     Type = "java_binary"
	JavaLibrary    Type = "java_library"
	JavaTest       Type = "java_test"
	PrebuiltJar    Type = "prebuilt_jar"
	PythonLibrary  Type = "python_library"
	ShTest         Type = "sh_test"
)

// Rule is a fully materialized build rule: its dependencies are resolved to
// other Rule values that are identity-equal to the entries of the rule index
// they were built through.
type Rule interface {
	Target() model.BuildTarget
	FullyQualifiedName() string
	Type() Type
	// Inputs are the files the rule reads, as paths under the project root,
	// sorted.
	Inputs() []string
	Deps() []Rule
}

// Builder is a half-constructed rule. Deps returns the dep strings exactly
// as written in the build file; Build may only be called once every dep's
// fully qualified name is present in index.
type Builder interface {
	Target() model.BuildTarget
	Deps() []string
	Build(index map[string]Rule) (Rule, error)
}

// core carries the capability set shared by every rule variant.
type core struct {
	target   model.BuildTarget
	ruleType Type
	inputs   []string
	deps     []Rule
}

func (c *core) Target() model.BuildTarget  { return c.target }
func (c *core) FullyQualifiedName() string { return c.target.FullyQualifiedName() }
func (c *core) Type() Type                 { return c.ruleType }
func (c *core) Inputs() []string           { return c.inputs }
func (c *core) Deps() []Rule               { return c.deps }

// coreBuilder implements the Builder bookkeeping shared by every factory:
// it remembers the raw dep strings and resolves them against the rule index
// at build time.
type coreBuilder struct {
	target   model.BuildTarget
	ruleType Type
	deps     []string
	inputs   []string
	parser   *model.TargetParser
}

func (b *coreBuilder) Target() model.BuildTarget { return b.target }
func (b *coreBuilder) Deps() []string            { return b.deps }

// buildCore resolves the builder's dep strings through index. A dep missing
// from the index is an internal invariant violation: the resolver guarantees
// post-order construction.
func (b *coreBuilder) buildCore(index map[string]Rule) (core, error) {
	ctx := model.ForBaseName(b.target.BaseName())
	deps := make([]Rule, 0, len(b.deps))
	for _, depString := range b.deps {
		depTarget, err := b.parser.Parse(depString, ctx)
		if err != nil {
			return core{}, err
		}
		dep, ok := index[depTarget.FullyQualifiedName()]
		if !ok {
			return core{}, fmt.Errorf(
				"internal error: dep %s of %s not built yet",
				depTarget.FullyQualifiedName(), b.target.FullyQualifiedName())
		}
		deps = append(deps, dep)
	}

	inputs := append([]string(nil), b.inputs...)
	sort.Strings(inputs)
	return core{
		target:   b.target,
		ruleType: b.ruleType,
		inputs:   inputs,
		deps:     deps,
	}, nil
}

// resolveInputs turns build-file-relative source paths into
// project-root-relative ones.
func resolveInputs(target model.BuildTarget, srcs []string) []string {
	out := make([]string, len(srcs))
	for i, src := range srcs {
		out[i] = path.Join(target.BasePath(), src)
	}
	return out
}
