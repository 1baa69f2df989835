package rules

import "path"

// JavaLibraryRule compiles Java sources against its deps.
type JavaLibraryRule struct {
	core
}

// JavaBinaryRule packages a library closure into an executable jar.
type JavaBinaryRule struct {
	core
	mainClass string
	outputJar string
}

// MainClass returns the entry point class, or "" for a plain fat jar.
func (r *JavaBinaryRule) MainClass() string { return r.mainClass }

// OutputJar returns the project-root-relative path of the jar the rule
// produces.
func (r *JavaBinaryRule) OutputJar() string { return r.outputJar }

// JavaTestRule compiles and runs JUnit sources.
type JavaTestRule struct {
	core
	labels []string
}

// Labels returns the user-supplied test labels.
func (r *JavaTestRule) Labels() []string { return r.labels }

// PrebuiltJarRule wraps a checked-in jar so other rules can depend on it.
type PrebuiltJarRule struct {
	core
	binaryJar string
}

// BinaryJar returns the project-root-relative path of the wrapped jar.
func (r *PrebuiltJarRule) BinaryJar() string { return r.binaryJar }

func newCoreBuilder(typ Type, params FactoryParams, inputs []string) coreBuilder {
	return coreBuilder{
		target:   params.Target,
		ruleType: typ,
		deps:     params.Raw.Strings(DepsKey),
		inputs:   inputs,
		parser:   params.TargetParser,
	}
}

type javaLibraryBuilder struct {
	coreBuilder
}

func newJavaLibraryBuilder(params FactoryParams) (Builder, error) {
	srcs := params.Raw.Strings("srcs")
	resources := params.Raw.Strings("resources")
	inputs := resolveInputs(params.Target, append(append([]string(nil), srcs...), resources...))
	return &javaLibraryBuilder{newCoreBuilder(JavaLibrary, params, inputs)}, nil
}

func (b *javaLibraryBuilder) Build(index map[string]Rule) (Rule, error) {
	c, err := b.buildCore(index)
	if err != nil {
		return nil, err
	}
	return &JavaLibraryRule{core: c}, nil
}

type javaBinaryBuilder struct {
	coreBuilder
	mainClass string
	outputJar string
}

func newJavaBinaryBuilder(params FactoryParams) (Builder, error) {
	target := params.Target
	return &javaBinaryBuilder{
		coreBuilder: newCoreBuilder(JavaBinary, params, nil),
		mainClass:   params.Raw.String("main_class"),
		outputJar:   path.Join(params.Config.BinDir, target.BasePath(), target.ShortName()+".jar"),
	}, nil
}

func (b *javaBinaryBuilder) Build(index map[string]Rule) (Rule, error) {
	c, err := b.buildCore(index)
	if err != nil {
		return nil, err
	}
	return &JavaBinaryRule{core: c, mainClass: b.mainClass, outputJar: b.outputJar}, nil
}

type javaTestBuilder struct {
	coreBuilder
	labels []string
}

func newJavaTestBuilder(params FactoryParams) (Builder, error) {
	inputs := resolveInputs(params.Target, params.Raw.Strings("srcs"))
	return &javaTestBuilder{
		coreBuilder: newCoreBuilder(JavaTest, params, inputs),
		labels:      params.Raw.Strings("labels"),
	}, nil
}

func (b *javaTestBuilder) Build(index map[string]Rule) (Rule, error) {
	c, err := b.buildCore(index)
	if err != nil {
		return nil, err
	}
	return &JavaTestRule{core: c, labels: b.labels}, nil
}

type prebuiltJarBuilder struct {
	coreBuilder
	binaryJar string
}

func newPrebuiltJarBuilder(params FactoryParams) (Builder, error) {
	binaryJar := params.Raw.String("binary_jar")
	var inputs []string
	if binaryJar != "" {
		inputs = resolveInputs(params.Target, []string{binaryJar})
	}
	b := &prebuiltJarBuilder{coreBuilder: newCoreBuilder(PrebuiltJar, params, inputs)}
	if binaryJar != "" {
		b.binaryJar = path.Join(params.Target.BasePath(), binaryJar)
	}
	return b, nil
}

func (b *prebuiltJarBuilder) Build(index map[string]Rule) (Rule, error) {
	c, err := b.buildCore(index)
	if err != nil {
		return nil, err
	}
	return &PrebuiltJarRule{core: c, binaryJar: b.binaryJar}, nil
}
