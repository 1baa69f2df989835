package main

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/chrisrhoden/buck"
	"github.com/chrisrhoden/buck/internal/buckfile"
	"github.com/chrisrhoden/buck/internal/config"
	"github.com/chrisrhoden/buck/internal/fsutil"
	"github.com/chrisrhoden/buck/internal/model"
	"github.com/chrisrhoden/buck/internal/rules"
)

var (
	flagTypes           []string
	flagReferencedFiles []string
	flagJSON            bool
	flagResolveAlias    bool
)

var targetsCmd = &cobra.Command{
	Use:   "targets [aliases-or-targets...]",
	Short: "prints the list of buildable targets",
	RunE:  runTargets,
}

func init() {
	targetsCmd.Flags().StringSliceVar(&flagTypes, "type", nil, "restrict output to these rule types")
	targetsCmd.Flags().StringSliceVar(&flagReferencedFiles, "referenced_files", nil, "restrict output to rules affected by these files")
	targetsCmd.Flags().BoolVar(&flagJSON, "json", false, "print JSON representation of each target")
	targetsCmd.Flags().BoolVar(&flagResolveAlias, "resolvealias", false, "print the fully qualified name each argument resolves to")
}

// project bundles everything a command needs to parse the tree it was
// invoked in.
type project struct {
	cfg    config.Config
	fs     *fsutil.ProjectFilesystem
	parser *buck.Parser
}

// openProject loads configuration from the working directory and wires up
// the parser stack.
func openProject() (*project, error) {
	root, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}

	fs := fsutil.NewProjectFilesystem(root, cfg.Ignore)
	buildFiles, err := fs.WalkBuildFiles(cfg.BuildFileName)
	if err != nil {
		return nil, err
	}
	basePaths := make([]string, len(buildFiles))
	for i, f := range buildFiles {
		dir := path.Dir(f)
		if dir == "." {
			dir = ""
		}
		basePaths[i] = dir
	}
	tree := model.NewBuildFileTreeFromBasePaths(basePaths)

	loader := buckfile.NewEvaluator(fs, rules.NewRegistry())
	parser := buck.NewParser(fs, tree, loader, cfg)
	return &project{cfg: cfg, fs: fs, parser: parser}, nil
}

func runTargets(cmd *cobra.Command, args []string) error {
	proj, err := openProject()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	// Exit early on --resolvealias: no need to parse the whole project.
	if flagResolveAlias {
		resolved, err := proj.parser.ResolveAliases(ctx, args, proj.cfg.Aliases, proj.cfg.DefaultIncludes)
		if err != nil {
			return err
		}
		for _, fqn := range resolved {
			fmt.Fprintln(cmd.OutOrStdout(), fqn)
		}
		return nil
	}

	if len(args) > 0 {
		return buck.UserErrorf("positional arguments are only supported with --resolvealias")
	}

	types := make(map[rules.Type]bool, len(flagTypes))
	registry := proj.parser.Registry()
	for _, tag := range flagTypes {
		if !registry.IsValidType(tag) {
			return buck.UserErrorf("invalid build rule type: %s", tag)
		}
		_, typ, err := registry.Factory(tag)
		if err != nil {
			return err
		}
		types[typ] = true
	}

	referenced, err := normalizeReferencedFiles(proj.fs.Root(), flagReferencedFiles)
	if err != nil {
		return err
	}

	graph, err := buck.CreateFullGraph(ctx, proj.parser, proj.cfg.DefaultIncludes)
	if err != nil {
		return err
	}

	matching := buck.MatchingTargets(graph, types, referenced)

	if flagJSON {
		return proj.parser.PrintJSONForTargets(ctx, cmd.OutOrStdout(), matching, proj.cfg.DefaultIncludes)
	}
	for _, target := range matching {
		fmt.Fprintln(cmd.OutOrStdout(), target.FullyQualifiedName())
	}
	return nil
}

// normalizeReferencedFiles rewrites the --referenced_files arguments as
// slash-separated paths relative to the project root.
func normalizeReferencedFiles(root string, files []string) ([]string, error) {
	out := make([]string, 0, len(files))
	for _, f := range files {
		if filepath.IsAbs(f) {
			rel, err := filepath.Rel(root, f)
			if err != nil {
				return nil, buck.UserErrorf("%s is not under the project root", f)
			}
			f = rel
		}
		out = append(out, filepath.ToSlash(filepath.Clean(f)))
	}
	return out, nil
}
