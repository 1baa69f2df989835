package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/chrisrhoden/buck/internal/config"
	"github.com/chrisrhoden/buck/internal/fsutil"
	"github.com/chrisrhoden/buck/internal/model"
)

// UnknownRuleTypeError reports a raw rule whose type tag has no registered
// factory. This is a misconfiguration of the build file, fatal to the parse.
type UnknownRuleTypeError struct {
	Tag string
}

func (e *UnknownRuleTypeError) Error() string {
	return fmt.Sprintf("unrecognized rule type %q", e.Tag)
}

// FactoryParams is everything a factory may consult while decoding a raw
// rule into a builder.
type FactoryParams struct {
	Raw           RawRule
	Config        config.Config
	Filesystem    *fsutil.ProjectFilesystem
	BuildFileTree *model.BuildFileTree
	TargetParser  *model.TargetParser
	Target        model.BuildTarget
}

// Factory decodes a raw rule of one type into a Builder.
type Factory func(params FactoryParams) (Builder, error)

// Registry is the closed table from rule-type tag to factory, fixed at
// construction.
type Registry struct {
	factories map[Type]Factory
}

// NewRegistry returns the registry with every built-in rule type.
func NewRegistry() *Registry {
	return &Registry{factories: map[Type]Factory{
		AndroidBinary:  newAndroidBinaryBuilder,
		AndroidLibrary: newAndroidLibraryBuilder,
		ExportFile:     newExportFileBuilder,
		Genrule:        newGenruleBuilder,
		JavaBinary:     newJavaBinaryBuilder,
		JavaLibrary:    newJavaLibraryBuilder,
		JavaTest:       newJavaTestBuilder,
		PrebuiltJar:    newPrebuiltJarBuilder,
		PythonLibrary:  newPythonLibraryBuilder,
		ShTest:         newShTestBuilder,
	}}
}

// Factory resolves a type tag, case-insensitively, to its factory and
// canonical Type.
func (r *Registry) Factory(tag string) (Factory, Type, error) {
	typ := Type(strings.ToLower(tag))
	factory, ok := r.factories[typ]
	if !ok {
		return nil, "", &UnknownRuleTypeError{Tag: tag}
	}
	return factory, typ, nil
}

// IsValidType reports whether tag names a registered rule type,
// case-insensitively.
func (r *Registry) IsValidType(tag string) bool {
	_, ok := r.factories[Type(strings.ToLower(tag))]
	return ok
}

// Types returns every registered type tag, sorted.
func (r *Registry) Types() []Type {
	types := make([]Type, 0, len(r.factories))
	for t := range r.factories {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
