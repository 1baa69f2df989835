// Package config holds the process-wide build configuration: the name of the
// build-definition file, the output directory layout, default includes,
// ignore patterns, and the alias map. Configuration is loaded once at startup
// and threaded through construction as a value; nothing in this package is a
// mutable singleton.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFile is the name of the per-project configuration file, looked up at
// the project root.
const ConfigFile = ".buckconfig.yaml"

// DefaultBuildFileName is the name of the build-definition file unless the
// project configuration overrides it.
const DefaultBuildFileName = "BUCK"

// OutputDirectory is the root of everything the build writes.
const OutputDirectory = "buck-out"

// Environment keys that override the output subdirectories.
const (
	androidDirKey    = "buck.buck_android_dir"
	genDirKey        = "buck.buck_gen_dir"
	binDirKey        = "buck.buck_bin_dir"
	annotationDirKey = "buck.buck_annotation_dir"
)

// Config is the immutable build configuration for one process invocation.
type Config struct {
	// BuildFileName is the file name that declares build rules, e.g. "BUCK".
	BuildFileName string `yaml:"build_file_name"`

	// DefaultIncludes are build-definition fragments evaluated ahead of
	// every build file, named as project-root-relative file paths with an
	// optional leading "//" ("//tools/defs").
	DefaultIncludes []string `yaml:"default_includes"`

	// Ignore lists doublestar patterns for directories and files that build
	// file discovery must not descend into.
	Ignore []string `yaml:"ignore"`

	// Aliases maps short names to fully qualified targets.
	Aliases map[string]string `yaml:"aliases"`

	// Output directory layout, all relative to the project root.
	AndroidDir    string `yaml:"android_dir"`
	GenDir        string `yaml:"gen_dir"`
	BinDir        string `yaml:"bin_dir"`
	AnnotationDir string `yaml:"annotation_dir"`
}

// Default returns the configuration used when no config file is present.
func Default() Config {
	return Config{
		BuildFileName: DefaultBuildFileName,
		AndroidDir:    OutputDirectory + "/android",
		GenDir:        OutputDirectory + "/gen",
		BinDir:        OutputDirectory + "/bin",
		AnnotationDir: OutputDirectory + "/annotation",
	}
}

// Load reads the project configuration from projectRoot, layering file
// settings and then environment overrides on top of the defaults. A missing
// config file is not an error.
func Load(projectRoot string) (Config, error) {
	cfg := Default()

	path := filepath.Join(projectRoot, ConfigFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
		}
	} else {
		var file Config
		if err := yaml.Unmarshal(data, &file); err != nil {
			return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
		}
		cfg.merge(file)
	}

	cfg.applyEnv()
	return cfg, nil
}

// merge layers non-zero fields from other onto c.
func (c *Config) merge(other Config) {
	if other.BuildFileName != "" {
		c.BuildFileName = other.BuildFileName
	}
	if len(other.DefaultIncludes) > 0 {
		c.DefaultIncludes = other.DefaultIncludes
	}
	if len(other.Ignore) > 0 {
		c.Ignore = other.Ignore
	}
	if len(other.Aliases) > 0 {
		c.Aliases = other.Aliases
	}
	if other.AndroidDir != "" {
		c.AndroidDir = other.AndroidDir
	}
	if other.GenDir != "" {
		c.GenDir = other.GenDir
	}
	if other.BinDir != "" {
		c.BinDir = other.BinDir
	}
	if other.AnnotationDir != "" {
		c.AnnotationDir = other.AnnotationDir
	}
}

// applyEnv applies per-directory environment overrides.
func (c *Config) applyEnv() {
	if v := os.Getenv(androidDirKey); v != "" {
		c.AndroidDir = v
	}
	if v := os.Getenv(genDirKey); v != "" {
		c.GenDir = v
	}
	if v := os.Getenv(binDirKey); v != "" {
		c.BinDir = v
	}
	if v := os.Getenv(annotationDirKey); v != "" {
		c.AnnotationDir = v
	}
}
