package buck

import (
	"context"

	"github.com/chrisrhoden/buck/internal/graph"
	"github.com/chrisrhoden/buck/internal/model"
	"github.com/chrisrhoden/buck/internal/rules"
)

// DependencyGraph is the acyclic graph of fully constructed rules, with an
// edge from each rule to each of its deps. Every dep of a rule in the graph
// is itself in the graph, and is the same value the rule index holds.
type DependencyGraph struct {
	graph *graph.Directed[rules.Rule]
	index map[string]rules.Rule
}

// Rules returns every rule in the graph in post-order of construction.
func (g *DependencyGraph) Rules() []rules.Rule { return g.graph.Nodes() }

// RuleByName looks a rule up by fully qualified name.
func (g *DependencyGraph) RuleByName(fqn string) (rules.Rule, bool) {
	r, ok := g.index[fqn]
	return r, ok
}

// Deps returns the rules r has edges to.
func (g *DependencyGraph) Deps(r rules.Rule) []rules.Rule { return g.graph.Outgoing(r) }

// Size returns the number of rules in the graph.
func (g *DependencyGraph) Size() int { return g.graph.NodeCount() }

// EdgeCount returns the number of dependency edges in the graph.
func (g *DependencyGraph) EdgeCount() int { return g.graph.EdgeCount() }

// findAllTransitiveDependencies walks the known builders depth-first from
// toExplore, loading the build file of any dep that is not yet known, and
// materializes each builder in post-order so a rule is only ever built
// after all of its deps.
func (p *Parser) findAllTransitiveDependencies(ctx context.Context, toExplore []BuildTarget, defaultIncludes []string) (*DependencyGraph, error) {
	ruleIndex := make(map[string]rules.Rule)
	g := graph.NewDirected[rules.Rule]()

	children := func(target BuildTarget) ([]BuildTarget, error) {
		builder, ok := p.knownBuilders[target.FullyQualifiedName()]
		if !ok {
			if err := p.parseBuildFileContainingTarget(ctx, target, defaultIncludes); err != nil {
				return nil, err
			}
			builder, ok = p.knownBuilders[target.FullyQualifiedName()]
			if !ok {
				return nil, &model.NoSuchBuildTargetError{Target: target.FullyQualifiedName()}
			}
		}

		parseCtx := model.ForBaseName(target.BaseName())
		seen := make(map[string]bool)
		var deps []BuildTarget
		for _, depString := range builder.Deps() {
			dep, err := p.targetParser.Parse(depString, parseCtx)
			if err != nil {
				return nil, err
			}
			depFQN := dep.FullyQualifiedName()
			if seen[depFQN] {
				continue
			}
			seen[depFQN] = true

			if _, known := p.knownBuilders[depFQN]; !known {
				if err := p.parseBuildFileContainingTarget(ctx, dep, defaultIncludes); err != nil {
					return nil, err
				}
				if _, known := p.knownBuilders[depFQN]; !known {
					return nil, &model.NoSuchBuildTargetError{Target: depFQN}
				}
			}
			deps = append(deps, dep)
		}
		return deps, nil
	}

	onExplored := func(target BuildTarget) error {
		fqn := target.FullyQualifiedName()
		rule, err := p.knownBuilders[fqn].Build(ruleIndex)
		if err != nil {
			return err
		}

		if len(rule.Deps()) == 0 {
			// A rule with no deps would otherwise never appear as an edge
			// endpoint, so insert it explicitly.
			g.AddNode(rule)
		} else {
			for _, dep := range rule.Deps() {
				g.AddEdge(rule, dep)
			}
		}

		ruleIndex[fqn] = rule
		return nil
	}

	describe := func(target BuildTarget) string { return target.FullyQualifiedName() }

	if err := graph.DepthFirstPostOrder(toExplore, children, onExplored, describe); err != nil {
		return nil, err
	}

	p.logger.Debug("dependency graph constructed",
		"rules", g.NodeCount(), "edges", g.EdgeCount())
	return &DependencyGraph{graph: g, index: ruleIndex}, nil
}
