package buck

import (
	"bytes"
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisrhoden/buck/internal/buckfile"
	"github.com/chrisrhoden/buck/internal/config"
	"github.com/chrisrhoden/buck/internal/fsutil"
	"github.com/chrisrhoden/buck/internal/model"
	"github.com/chrisrhoden/buck/internal/rules"
)

// countingLoader wraps a real loader and records every build file it
// evaluates.
type countingLoader struct {
	inner RawRuleLoader
	calls []string
}

func (l *countingLoader) GetAllRules(ctx context.Context, buildFile string, defaultIncludes []string) ([]rules.RawRule, error) {
	l.calls = append(l.calls, buildFile)
	return l.inner.GetAllRules(ctx, buildFile, defaultIncludes)
}

// newIntegrationProject writes a real project tree, loads its config, and
// wires the full parser stack over it: filesystem walk, risor evaluator,
// build file tree.
//
//	//:LICENSE (export_file)
//	//app:bin (java_binary) -> //lib:core
//	//lib:core (java_library, srcs from glob)
//	//tests:core-test (java_test via config-include macro) -> //lib:core
//	third_party/guava/BUCK exists but is ignored by config
func newIntegrationProject(t *testing.T) (*Parser, *countingLoader, config.Config) {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		".buckconfig.yaml": `
default_includes:
  - //tools/defs
ignore:
  - third_party
  - third_party/**
aliases:
  app: //app:bin
`,
		"tools/defs": `
func acme_test(name, deps) {
    java_test({"name": name, "deps": deps})
}
`,
		"BUCK":          `export_file({"name": "LICENSE"})`,
		"LICENSE":       "",
		"lib/BUCK":      `java_library({"name": "core", "srcs": glob(["*.java"])})`,
		"lib/Core.java": "",
		"lib/Util.java": "",
		"app/BUCK": `
java_binary({
    "name": "bin",
    "main_class": "com.acme.Main",
    "deps": ["//lib:core"]
})
`,
		"tests/BUCK":             `acme_test("core-test", ["//lib:core"])`,
		"third_party/guava/BUCK": `java_library({"name": "guava"})`,
	}
	for rel, contents := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(contents), 0o644))
	}

	cfg, err := config.Load(root)
	require.NoError(t, err)

	fs := fsutil.NewProjectFilesystem(root, cfg.Ignore)
	buildFiles, err := fs.WalkBuildFiles(cfg.BuildFileName)
	require.NoError(t, err)
	basePaths := make([]string, len(buildFiles))
	for i, f := range buildFiles {
		dir := path.Dir(f)
		if dir == "." {
			dir = ""
		}
		basePaths[i] = dir
	}
	tree := model.NewBuildFileTreeFromBasePaths(basePaths)

	loader := &countingLoader{inner: buckfile.NewEvaluator(fs, rules.NewRegistry())}
	return NewParser(fs, tree, loader, cfg), loader, cfg
}

func TestIntegration_CreateFullGraph(t *testing.T) {
	t.Parallel()
	p, loader, cfg := newIntegrationProject(t)

	pg, err := CreateFullGraph(context.Background(), p, cfg.DefaultIncludes)
	require.NoError(t, err)

	// Discovery finds every build file except the ignored ones, in sorted
	// order, and evaluates each exactly once.
	assert.Equal(t, []string{"BUCK", "app/BUCK", "lib/BUCK", "tests/BUCK"}, loader.calls)

	assert.Equal(t, []string{"//:LICENSE", "//app:bin", "//lib:core", "//tests:core-test"},
		targetNames(pg.Targets()))

	g := pg.DependencyGraph()
	assert.Equal(t, 4, g.Size())
	assert.Equal(t, 2, g.EdgeCount())

	core, ok := g.RuleByName("//lib:core")
	require.True(t, ok)
	assert.Equal(t, []string{"lib/Core.java", "lib/Util.java"}, core.Inputs())

	bin, ok := g.RuleByName("//app:bin")
	require.True(t, ok)
	require.Len(t, bin.Deps(), 1)
	assert.Same(t, core, bin.Deps()[0])

	// The macro from the config's default includes produced a typed rule.
	test, ok := g.RuleByName("//tests:core-test")
	require.True(t, ok)
	assert.Equal(t, rules.JavaTest, test.Type())

	_, ignored := g.RuleByName("//third_party/guava:guava")
	assert.False(t, ignored)
}

func TestIntegration_LazyLoadingFollowsDeps(t *testing.T) {
	t.Parallel()
	p, loader, cfg := newIntegrationProject(t)

	seed := mustTarget(t, p, "//app:bin")
	graph, err := p.ParseForTargets(context.Background(), []BuildTarget{seed}, cfg.DefaultIncludes)
	require.NoError(t, err)

	// Only the seed's build file and its dep's are touched; the rest of
	// the project stays unparsed.
	assert.Equal(t, []string{"app/BUCK", "lib/BUCK"}, loader.calls)
	assert.Equal(t, 2, graph.Size())
	assert.Equal(t, 1, graph.EdgeCount())
}

func TestIntegration_ReferencedFilesQuery(t *testing.T) {
	t.Parallel()
	p, _, cfg := newIntegrationProject(t)

	pg, err := CreateFullGraph(context.Background(), p, cfg.DefaultIncludes)
	require.NoError(t, err)

	matching := MatchingTargets(pg, nil, []string{"lib/Core.java"})
	assert.Equal(t, []string{"//app:bin", "//lib:core", "//tests:core-test"},
		targetNames(matching))
}

func TestIntegration_AliasAndJSONRoundTrip(t *testing.T) {
	t.Parallel()
	p, _, cfg := newIntegrationProject(t)

	pg, err := CreateFullGraph(context.Background(), p, cfg.DefaultIncludes)
	require.NoError(t, err)

	resolved, err := p.ResolveAliases(context.Background(), []string{"app", "//lib:core"}, cfg.Aliases, cfg.DefaultIncludes)
	require.NoError(t, err)
	assert.Equal(t, []string{"//app:bin", "//lib:core"}, resolved)

	var buf bytes.Buffer
	matching := MatchingTargets(pg, map[rules.Type]bool{rules.JavaLibrary: true}, nil)
	require.NoError(t, p.PrintJSONForTargets(context.Background(), &buf, matching, cfg.DefaultIncludes))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "[\n"))
	assert.Contains(t, out, `"name": "core"`)
	assert.Contains(t, out, `"buck_base_path": "lib"`)
	// glob results were captured into the raw attributes at evaluation.
	assert.Contains(t, out, `"Core.java"`)
}

func TestIntegration_CreateFullGraphIsIdempotentPerParser(t *testing.T) {
	t.Parallel()
	p, loader, cfg := newIntegrationProject(t)

	first, err := CreateFullGraph(context.Background(), p, cfg.DefaultIncludes)
	require.NoError(t, err)
	second, err := CreateFullGraph(context.Background(), p, cfg.DefaultIncludes)
	require.NoError(t, err)

	// The second pass finds every build file already parsed: no new loads,
	// same targets.
	assert.Equal(t, []string{"BUCK", "app/BUCK", "lib/BUCK", "tests/BUCK"}, loader.calls)
	assert.Equal(t, targetNames(first.Targets()), targetNames(second.Targets()))
	assert.Equal(t, first.DependencyGraph().Size(), second.DependencyGraph().Size())
}
