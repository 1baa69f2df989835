package rules

import "path"

// GenruleRule runs an arbitrary command producing one output file under the
// gen directory.
type GenruleRule struct {
	core
	cmd    string
	output string
}

// Cmd returns the shell command the rule runs.
func (r *GenruleRule) Cmd() string { return r.cmd }

// OutputPath returns the project-root-relative path of the generated file.
func (r *GenruleRule) OutputPath() string { return r.output }

// ShTestRule runs a shell script as a test.
type ShTestRule struct {
	core
	labels []string
}

// Labels returns the user-supplied test labels.
func (r *ShTestRule) Labels() []string { return r.labels }

// ExportFileRule makes a single checked-in file addressable as a target.
type ExportFileRule struct {
	core
	src string
}

// Src returns the project-root-relative path of the exported file.
func (r *ExportFileRule) Src() string { return r.src }

type genruleBuilder struct {
	coreBuilder
	cmd    string
	output string
}

func newGenruleBuilder(params FactoryParams) (Builder, error) {
	target := params.Target
	inputs := resolveInputs(target, params.Raw.Strings("srcs"))
	return &genruleBuilder{
		coreBuilder: newCoreBuilder(Genrule, params, inputs),
		cmd:         params.Raw.String("cmd"),
		output:      path.Join(params.Config.GenDir, target.BasePath(), params.Raw.String("out")),
	}, nil
}

func (b *genruleBuilder) Build(index map[string]Rule) (Rule, error) {
	c, err := b.buildCore(index)
	if err != nil {
		return nil, err
	}
	return &GenruleRule{core: c, cmd: b.cmd, output: b.output}, nil
}

type shTestBuilder struct {
	coreBuilder
	labels []string
}

func newShTestBuilder(params FactoryParams) (Builder, error) {
	// The script defaults to the rule name when the test attribute is
	// omitted.
	script := params.Raw.String("test")
	if script == "" {
		script = params.Target.ShortName()
	}
	return &shTestBuilder{
		coreBuilder: newCoreBuilder(ShTest, params, resolveInputs(params.Target, []string{script})),
		labels:      params.Raw.Strings("labels"),
	}, nil
}

func (b *shTestBuilder) Build(index map[string]Rule) (Rule, error) {
	c, err := b.buildCore(index)
	if err != nil {
		return nil, err
	}
	return &ShTestRule{core: c, labels: b.labels}, nil
}

type exportFileBuilder struct {
	coreBuilder
	src string
}

func newExportFileBuilder(params FactoryParams) (Builder, error) {
	src := params.Raw.String("src")
	if src == "" {
		src = params.Target.ShortName()
	}
	return &exportFileBuilder{
		coreBuilder: newCoreBuilder(ExportFile, params, resolveInputs(params.Target, []string{src})),
		src:         path.Join(params.Target.BasePath(), src),
	}, nil
}

func (b *exportFileBuilder) Build(index map[string]Rule) (Rule, error) {
	c, err := b.buildCore(index)
	if err != nil {
		return nil, err
	}
	return &ExportFileRule{core: c, src: b.src}, nil
}
