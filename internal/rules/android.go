package rules

import "path"

// AndroidLibraryRule compiles Java sources against the Android SDK.
type AndroidLibraryRule struct {
	core
	manifest string
}

// Manifest returns the project-root-relative AndroidManifest.xml path, or
// "" when the library has none.
func (r *AndroidLibraryRule) Manifest() string { return r.manifest }

// AndroidBinaryRule packages its dep closure into an apk.
type AndroidBinaryRule struct {
	core
	manifest string
	apk      string
}

// Manifest returns the project-root-relative AndroidManifest.xml path.
func (r *AndroidBinaryRule) Manifest() string { return r.manifest }

// ApkPath returns the project-root-relative path of the apk the rule
// produces.
func (r *AndroidBinaryRule) ApkPath() string { return r.apk }

type androidLibraryBuilder struct {
	coreBuilder
	manifest string
}

func newAndroidLibraryBuilder(params FactoryParams) (Builder, error) {
	target := params.Target
	srcs := params.Raw.Strings("srcs")
	manifest := params.Raw.String("manifest")
	files := append([]string(nil), srcs...)
	if manifest != "" {
		files = append(files, manifest)
	}
	b := &androidLibraryBuilder{
		coreBuilder: newCoreBuilder(AndroidLibrary, params, resolveInputs(target, files)),
	}
	if manifest != "" {
		b.manifest = path.Join(target.BasePath(), manifest)
	}
	return b, nil
}

func (b *androidLibraryBuilder) Build(index map[string]Rule) (Rule, error) {
	c, err := b.buildCore(index)
	if err != nil {
		return nil, err
	}
	return &AndroidLibraryRule{core: c, manifest: b.manifest}, nil
}

type androidBinaryBuilder struct {
	coreBuilder
	manifest string
	apk      string
}

func newAndroidBinaryBuilder(params FactoryParams) (Builder, error) {
	target := params.Target
	manifest := params.Raw.String("manifest")
	var inputs []string
	if manifest != "" {
		inputs = resolveInputs(target, []string{manifest})
	}
	b := &androidBinaryBuilder{
		coreBuilder: newCoreBuilder(AndroidBinary, params, inputs),
		apk:         path.Join(params.Config.GenDir, target.BasePath(), target.ShortName()+".apk"),
	}
	if manifest != "" {
		b.manifest = path.Join(target.BasePath(), manifest)
	}
	return b, nil
}

func (b *androidBinaryBuilder) Build(index map[string]Rule) (Rule, error) {
	c, err := b.buildCore(index)
	if err != nil {
		return nil, err
	}
	return &AndroidBinaryRule{core: c, manifest: b.manifest, apk: b.apk}, nil
}
