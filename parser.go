package buck

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/chrisrhoden/buck/internal/config"
	"github.com/chrisrhoden/buck/internal/fsutil"
	"github.com/chrisrhoden/buck/internal/model"
	"github.com/chrisrhoden/buck/internal/rules"
)

// RawRuleLoader evaluates one build-definition file into the list of raw
// attribute maps it declares, in declaration order. The default
// implementation is buckfile.Evaluator; tests substitute in-memory loaders.
type RawRuleLoader interface {
	GetAllRules(ctx context.Context, buildFile string, defaultIncludes []string) ([]rules.RawRule, error)
}

// RawRulePredicate selects raw rules during ParseRawRules.
type RawRulePredicate func(raw RawRule, ruleType rules.Type, target BuildTarget) bool

// Parser loads build files on demand and registers the rule builders they
// declare. A build file is parsed at most once; each fully qualified name
// maps to exactly one builder. A Parser owns all of its state and is not
// safe for concurrent use.
type Parser struct {
	fs            *fsutil.ProjectFilesystem
	buildFileTree *model.BuildFileTree
	targetParser  *model.TargetParser
	registry      *rules.Registry
	loader        RawRuleLoader
	cfg           config.Config
	logger        *slog.Logger

	// knownBuilders holds every builder registered so far, keyed by fully
	// qualified name. We parse a build file in search of one particular
	// rule, but keep every rule it declares.
	knownBuilders map[string]rules.Builder

	// registered remembers registration order for full-graph enumeration.
	registered []BuildTarget

	// parsedBuildFiles contains exactly the build files that were loaded and
	// had all their rules registered in knownBuilders. Rules supplied through
	// ParseRawRules add no entry here.
	parsedBuildFiles map[string]bool

	// populatedFromRaw latches once ParseRawRules primes the parser from an
	// in-memory rule list. From then on no file is ever loaded; a miss in
	// knownBuilders is an error.
	populatedFromRaw bool
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithLogger sets the logger the parser emits debug records to.
func WithLogger(logger *slog.Logger) ParserOption {
	return func(p *Parser) {
		p.logger = logger
	}
}

// NewParser constructs a parser over the given project filesystem, build
// file tree and raw-rule loader.
func NewParser(
	fs *fsutil.ProjectFilesystem,
	buildFileTree *model.BuildFileTree,
	loader RawRuleLoader,
	cfg config.Config,
	opts ...ParserOption,
) *Parser {
	p := &Parser{
		fs:               fs,
		buildFileTree:    buildFileTree,
		targetParser:     model.NewTargetParser(cfg.BuildFileName),
		registry:         rules.NewRegistry(),
		loader:           loader,
		cfg:              cfg,
		logger:           slog.Default(),
		knownBuilders:    make(map[string]rules.Builder),
		parsedBuildFiles: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// TargetParser returns the target parser the Parser resolves dep strings
// with.
func (p *Parser) TargetParser() *model.TargetParser { return p.targetParser }

// Registry returns the rule-type registry.
func (p *Parser) Registry() *rules.Registry { return p.registry }

// ParseForTargets parses the build files backing the given seed targets,
// recursively discovers the build files of every transitive dependency, and
// returns the acyclic dependency graph of fully constructed rules.
func (p *Parser) ParseForTargets(ctx context.Context, targets []BuildTarget, defaultIncludes []string) (*DependencyGraph, error) {
	// Make sure knownBuilders starts out with builders for the seeds. When
	// the parser was primed from raw rules everything is registered
	// already, and loading files is forbidden besides.
	if !p.populatedFromRaw {
		for _, target := range targets {
			if err := p.parseBuildFileIfNeeded(ctx, target.BuildFile(), defaultIncludes); err != nil {
				return nil, missingTargetFromLoadError(err, target)
			}
		}
	}
	return p.findAllTransitiveDependencies(ctx, targets, defaultIncludes)
}

// ParseRawRules primes the parser from an in-memory rule list instead of
// the filesystem and latches the parser into raw mode. When filter is
// non-nil the targets matching it are returned in input order.
func (p *Parser) ParseRawRules(raw []RawRule, filter RawRulePredicate) ([]BuildTarget, error) {
	p.populatedFromRaw = true
	return p.registerRawRules(raw, filter, "")
}

// parseBuildFileIfNeeded is a no-op when the build file was already parsed.
func (p *Parser) parseBuildFileIfNeeded(ctx context.Context, buildFile string, defaultIncludes []string) error {
	if p.parsedBuildFiles[buildFile] {
		return nil
	}
	return p.parseBuildFile(ctx, buildFile, defaultIncludes)
}

// parseBuildFile loads one build file and registers every rule it declares.
func (p *Parser) parseBuildFile(ctx context.Context, buildFile string, defaultIncludes []string) error {
	p.logger.Debug("parsing build file", "path", buildFile)
	raw, err := p.loader.GetAllRules(ctx, buildFile, defaultIncludes)
	if err != nil {
		return err
	}
	if _, err := p.registerRawRules(raw, nil, buildFile); err != nil {
		return err
	}
	p.parsedBuildFiles[buildFile] = true
	return nil
}

// parseBuildFileContainingTarget loads the build file predicted to declare
// target, applying the missing-target policies: in raw mode nothing may be
// loaded, and a file that was already parsed without declaring the target
// cannot declare it now.
func (p *Parser) parseBuildFileContainingTarget(ctx context.Context, target BuildTarget, defaultIncludes []string) error {
	if p.populatedFromRaw {
		// Every rule was registered up front, so this dep simply does not
		// exist. The build file that referenced it is unknown at this
		// point, which is why the message cannot name it.
		return &model.NoSuchBuildTargetError{Target: target.FullyQualifiedName()}
	}

	if p.parsedBuildFiles[target.BuildFile()] {
		return &model.NoSuchBuildTargetError{
			Target: target.FullyQualifiedName(),
			Message: fmt.Sprintf(
				"the build file that should contain %s has already been parsed (%s), but %s was not found; please make sure %s is defined in %s",
				target, target.BuildFile(), target, target, target.BuildFile()),
		}
	}

	if err := p.parseBuildFile(ctx, target.BuildFile(), defaultIncludes); err != nil {
		return missingTargetFromLoadError(err, target)
	}
	return nil
}

// missingTargetFromLoadError converts a missing-build-file load failure
// into the user-facing missing-target error. Every other failure (a read
// error, a script error) stays fatal and propagates as-is.
func missingTargetFromLoadError(err error, target BuildTarget) error {
	if errors.Is(err, fs.ErrNotExist) {
		return &model.NoSuchBuildTargetError{
			Target: target.FullyQualifiedName(),
			Message: fmt.Sprintf("no such build target: %s (no build file at %s)",
				target, target.BuildFile()),
		}
	}
	return err
}

// registerRawRules converts raw rules to builders and inserts them into
// knownBuilders. source is the build file the rules came from, or "" when
// they were supplied in memory and the path must be derived from each
// rule's base path.
func (p *Parser) registerRawRules(raw []RawRule, filter RawRulePredicate, source string) ([]BuildTarget, error) {
	var matching []BuildTarget

	for _, rawRule := range raw {
		typeName, err := rawRule.TypeName()
		if err != nil {
			return nil, err
		}
		factory, ruleType, err := p.registry.Factory(typeName)
		if err != nil {
			return nil, err
		}

		name, err := rawRule.ShortName()
		if err != nil {
			return nil, err
		}
		basePath, err := rawRule.BasePath()
		if err != nil {
			return nil, err
		}

		buildFile := source
		if buildFile == "" {
			buildFile = model.BuildFileForBasePath(basePath, p.cfg.BuildFileName)
		}
		target := model.NewBuildTarget(buildFile, "//"+basePath, name)

		if filter != nil && filter(rawRule, ruleType, target) {
			matching = append(matching, target)
		}

		builder, err := factory(rules.FactoryParams{
			Raw:           rawRule,
			Config:        p.cfg,
			Filesystem:    p.fs,
			BuildFileTree: p.buildFileTree,
			TargetParser:  p.targetParser,
			Target:        target,
		})
		if err != nil {
			return nil, fmt.Errorf("constructing %s: %w", target.FullyQualifiedName(), err)
		}

		fqn := target.FullyQualifiedName()
		if _, exists := p.knownBuilders[fqn]; exists {
			return nil, &DuplicateTargetError{FQN: fqn}
		}
		p.knownBuilders[fqn] = builder
		p.registered = append(p.registered, target)
	}

	if filter == nil {
		return nil, nil
	}
	return matching, nil
}
