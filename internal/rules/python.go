package rules

// PythonLibraryRule groups Python sources for downstream binaries.
type PythonLibraryRule struct {
	core
}

type pythonLibraryBuilder struct {
	coreBuilder
}

func newPythonLibraryBuilder(params FactoryParams) (Builder, error) {
	inputs := resolveInputs(params.Target, params.Raw.Strings("srcs"))
	return &pythonLibraryBuilder{newCoreBuilder(PythonLibrary, params, inputs)}, nil
}

func (b *pythonLibraryBuilder) Build(index map[string]Rule) (Rule, error) {
	c, err := b.buildCore(index)
	if err != nil {
		return nil, err
	}
	return &PythonLibraryRule{core: c}, nil
}
