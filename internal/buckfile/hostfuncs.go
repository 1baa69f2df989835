package buckfile

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/risor-io/risor/object"

	"github.com/chrisrhoden/buck/internal/fsutil"
	"github.com/chrisrhoden/buck/internal/rules"
)

// makeRuleFn creates the host builtin for one rule type. Risor scripts pass
// a single map of attributes; the builtin stamps the type tag and the build
// file's base path onto it and appends it to the collector.
func makeRuleFn(typ rules.Type, state *evalState) *object.Builtin {
	name := string(typ)
	return object.NewBuiltin(name, func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError(name, 1, len(args))
		}
		attrs, err := extractAttrs(args[0])
		if err != nil {
			return object.Errorf("%s: %v", name, err)
		}
		if attrs.String(rules.NameKey) == "" {
			return object.Errorf("%s: missing required attribute %q", name, rules.NameKey)
		}

		attrs[rules.TypeKey] = name
		attrs[rules.BasePathKey] = state.basePath
		state.rules = append(state.rules, attrs)
		return object.Nil
	})
}

// makeGlobFn creates the glob builtin. Patterns are doublestar patterns
// matched relative to the build file's directory; the result is the sorted,
// deduplicated union of all matches.
func makeGlobFn(fs *fsutil.ProjectFilesystem, basePath string) *object.Builtin {
	return object.NewBuiltin("glob", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("glob", 1, len(args))
		}
		patterns, err := extractStrings(args[0])
		if err != nil {
			return object.Errorf("glob: %v", err)
		}

		dir := os.DirFS(fs.Resolve(basePath))
		seen := make(map[string]bool)
		var matches []string
		for _, pattern := range patterns {
			found, err := doublestar.Glob(dir, pattern)
			if err != nil {
				return object.Errorf("glob: pattern %q: %v", pattern, err)
			}
			for _, m := range found {
				if !seen[m] {
					seen[m] = true
					matches = append(matches, m)
				}
			}
		}
		sort.Strings(matches)

		items := make([]object.Object, len(matches))
		for i, m := range matches {
			items[i] = object.NewString(m)
		}
		return object.NewList(items)
	})
}

// makeIncludeDefsFn creates the include_defs builtin.
func makeIncludeDefsFn(e *Evaluator, state *evalState) *object.Builtin {
	return object.NewBuiltin("include_defs", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("include_defs", 1, len(args))
		}
		include, ok := args[0].(*object.String)
		if !ok {
			return object.Errorf("include_defs: expected string, got %s", args[0].Type())
		}
		if err := e.includeDefs(ctx, include.Value(), state); err != nil {
			return object.Errorf("include_defs: %v", err)
		}
		return object.Nil
	})
}

// extractAttrs converts a Risor map into a raw attribute map with native Go
// values.
func extractAttrs(obj object.Object) (rules.RawRule, error) {
	m, ok := obj.(*object.Map)
	if !ok {
		return nil, typeError("map", obj)
	}
	attrs, ok := m.Interface().(map[string]any)
	if !ok {
		return nil, typeError("map", obj)
	}
	return rules.RawRule(attrs), nil
}

// extractStrings converts a Risor list of strings to a Go slice.
func extractStrings(obj object.Object) ([]string, error) {
	list, ok := obj.(*object.List)
	if !ok {
		return nil, typeError("list", obj)
	}
	items := list.Value()
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(*object.String)
		if !ok {
			return nil, typeError("string", item)
		}
		out = append(out, s.Value())
	}
	return out, nil
}

func typeError(want string, got object.Object) error {
	return fmt.Errorf("expected %s, got %s", want, got.Type())
}
