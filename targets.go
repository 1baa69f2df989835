package buck

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/chrisrhoden/buck/internal/graph"
	"github.com/chrisrhoden/buck/internal/model"
	"github.com/chrisrhoden/buck/internal/rules"
)

// MatchingTargets filters the graph by rule type and by referenced files
// and returns the matches sorted by fully qualified name.
//
// An empty types set admits every rule type. With referencedFiles set, a
// rule matches only when it is affected by one of the files: it directly
// lists the file as an input and its base path is the nearest base path
// owning the file's directory, or it transitively depends on a rule that
// does. The graph is walked
// bottom-up so each rule's deps are classified before the rule itself.
func MatchingTargets(pg *PartialGraph, types map[rules.Type]bool, referencedFiles []string) []BuildTarget {
	referenced := make(map[string]bool, len(referencedFiles))
	basePathOfTargets := make(map[string]bool)
	if len(referencedFiles) > 0 {
		tree := model.NewBuildFileTree(pg.Targets())
		for _, file := range referencedFiles {
			referenced[file] = true
			dir := path.Dir(file)
			if dir == "." {
				dir = ""
			}
			if owner, ok := tree.BasePathOfAncestor(dir); ok {
				basePathOfTargets[owner] = true
			}
		}
	}

	affected := make(map[rules.Rule]bool)
	var matching []BuildTarget

	g := pg.DependencyGraph()
	graph.BottomUp(g.graph, func(r rules.Rule) string { return r.FullyQualifiedName() }, func(r rules.Rule) {
		isDependent := true
		if len(referenced) > 0 {
			// Affected transitively, through any dep.
			isDependent = false
			for _, dep := range g.Deps(r) {
				if affected[dep] {
					isDependent = true
					break
				}
			}

			// Affected directly: only the rule whose build file is nearest
			// to a referenced file can list it as an input.
			if !isDependent && basePathOfTargets[r.Target().BasePath()] {
				for _, input := range r.Inputs() {
					if referenced[input] {
						isDependent = true
						break
					}
				}
			}

			if isDependent {
				affected[r] = true
			}
		}

		if isDependent && (len(types) == 0 || types[r.Type()]) {
			matching = append(matching, r.Target())
		}
	})

	sort.Slice(matching, func(i, j int) bool {
		return matching[i].FullyQualifiedName() < matching[j].FullyQualifiedName()
	})
	return matching
}

// ResolveAliases maps each argument to a fully qualified target name. An
// argument starting with "//" must name a target its build file actually
// declares; anything else must be a configured alias.
func (p *Parser) ResolveAliases(ctx context.Context, args []string, aliases map[string]string, defaultIncludes []string) ([]string, error) {
	var resolved []string
	for _, arg := range args {
		if strings.HasPrefix(arg, "//") {
			fqn, err := p.validateFullyQualified(ctx, arg, defaultIncludes)
			if err != nil {
				return nil, err
			}
			if fqn == "" {
				return nil, UserErrorf("%s is not a valid target", arg)
			}
			resolved = append(resolved, fqn)
			continue
		}

		fqn, ok := aliases[arg]
		if !ok {
			return nil, UserErrorf("%s is not an alias", arg)
		}
		resolved = append(resolved, fqn)
	}
	return resolved, nil
}

// validateFullyQualified confirms that a fully qualified argument names a
// declared target by reading its build file. It returns "" when the target
// does not parse or is not declared.
func (p *Parser) validateFullyQualified(ctx context.Context, arg string, defaultIncludes []string) (string, error) {
	target, err := p.targetParser.Parse(arg, model.FullyQualified())
	if err != nil {
		if IsUserError(err) {
			return "", nil
		}
		return "", err
	}

	raw, err := p.loader.GetAllRules(ctx, target.BuildFile(), defaultIncludes)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// No build file, so nothing declares the target.
			return "", nil
		}
		return "", err
	}
	for _, rawRule := range raw {
		if rawRule.String(rules.NameKey) == target.ShortName() {
			return target.FullyQualifiedName(), nil
		}
	}
	return "", nil
}

// PrintJSONForTargets writes the raw attribute maps of the given targets as
// a JSON array, keys sorted, pretty-printed, elements comma-separated. The
// raw maps are re-read from each target's build file; a parser primed from
// raw rules has no build files to read.
func (p *Parser) PrintJSONForTargets(ctx context.Context, w io.Writer, targets []BuildTarget, defaultIncludes []string) error {
	if p.populatedFromRaw {
		return UserErrorf("cannot print JSON for a parser populated from raw rules: the original build files are not available")
	}

	fmt.Fprintln(w, "[")
	for i, target := range targets {
		raw, err := p.loader.GetAllRules(ctx, target.BuildFile(), defaultIncludes)
		if err != nil {
			return err
		}

		var targetRule RawRule
		for _, rawRule := range raw {
			if rawRule.String(rules.NameKey) == target.ShortName() {
				targetRule = rawRule
				break
			}
		}
		if targetRule == nil {
			p.logger.Warn("unable to find rule for target", "target", target.FullyQualifiedName())
			continue
		}

		// encoding/json writes map keys in sorted order, which keeps the
		// output stable.
		out, err := json.MarshalIndent(targetRule, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding %s: %w", target.FullyQualifiedName(), err)
		}
		if i < len(targets)-1 {
			out = append(out, ',')
		}
		fmt.Fprintln(w, string(out))
	}
	fmt.Fprintln(w, "]")
	return nil
}
