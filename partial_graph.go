package buck

import "context"

// PartialGraph pairs a dependency graph with the targets it was built
// from. A full graph is the special case seeded with every target declared
// anywhere in the project.
type PartialGraph struct {
	graph   *DependencyGraph
	targets []BuildTarget
}

// DependencyGraph returns the resolved graph.
func (pg *PartialGraph) DependencyGraph() *DependencyGraph { return pg.graph }

// Targets returns the seed targets in registration order.
func (pg *PartialGraph) Targets() []BuildTarget { return pg.targets }

// CreateFullGraph enumerates every build-definition file in the project,
// parses each, and resolves every declared target, producing the full
// project graph.
func CreateFullGraph(ctx context.Context, p *Parser, defaultIncludes []string) (*PartialGraph, error) {
	buildFiles, err := p.fs.WalkBuildFiles(p.cfg.BuildFileName)
	if err != nil {
		return nil, err
	}
	for _, buildFile := range buildFiles {
		if err := p.parseBuildFileIfNeeded(ctx, buildFile, defaultIncludes); err != nil {
			return nil, err
		}
	}

	targets := append([]BuildTarget(nil), p.registered...)
	graph, err := p.findAllTransitiveDependencies(ctx, targets, defaultIncludes)
	if err != nil {
		return nil, err
	}
	return &PartialGraph{graph: graph, targets: targets}, nil
}

// CreatePartialGraph parses the build files backing seeds and resolves
// their transitive closure.
func CreatePartialGraph(ctx context.Context, p *Parser, seeds []BuildTarget, defaultIncludes []string) (*PartialGraph, error) {
	graph, err := p.ParseForTargets(ctx, seeds, defaultIncludes)
	if err != nil {
		return nil, err
	}
	return &PartialGraph{graph: graph, targets: seeds}, nil
}
