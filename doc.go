// Package buck is the parsing and dependency-resolution core of a
// monorepo build tool. Given a set of requested build targets it discovers
// the build-definition files that declare them, materializes each
// declaration into a typed build rule, recursively discovers the build
// files of every transitive dependency, and produces an acyclic dependency
// graph ready for a downstream builder.
//
// # Pipeline
//
// Parsing happens in two phases:
//
//  1. Register: a build file is evaluated into raw attribute maps, and the
//     rule registry dispatches each map to a factory producing a rule
//     builder. Builders hold their dep strings exactly as written. Build
//     files are evaluated lazily, only when a target declared in them is
//     first referenced, and at most once.
//
//  2. Resolve: a depth-first post-order walk over the builders parses each
//     dep string, loads the build file of any dep not yet known, detects
//     cycles, and builds every rule after all of its deps, threading a
//     fully-qualified-name index through construction.
//
// # Usage
//
// Create a Parser over a project filesystem and a raw-rule loader, then
// parse seeds into a graph:
//
//	fs := fsutil.NewProjectFilesystem(root, cfg.Ignore)
//	loader := buckfile.NewEvaluator(fs, rules.NewRegistry())
//	p := buck.NewParser(fs, tree, loader, cfg)
//
//	target, err := p.TargetParser().Parse("//java/com/acme:lib", model.FullyQualified())
//	graph, err := p.ParseForTargets(ctx, []buck.BuildTarget{target}, cfg.DefaultIncludes)
//
// # Queries
//
// CreateFullGraph parses every build file in the project; MatchingTargets
// filters the result by rule type and by "transitively depends on file F"
// semantics. See cmd/buck for the targets command built on top.
//
// Build files are Risor scripts; see the internal/buckfile package for the
// builtins they are evaluated with.
package buck
