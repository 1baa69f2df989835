// Package model defines build target naming: the canonical target
// representation, the parser that turns dep strings into targets, and the
// tree that maps arbitrary project paths to the base path of the nearest
// build file.
package model

import "path"

// BuildTarget is the canonical, immutable representation of one build rule
// reference. A target //java/com/acme:lib has base name "//java/com/acme",
// short name "lib", and is declared by the build file
// "java/com/acme/<build file name>" relative to the project root.
type BuildTarget struct {
	buildFile string
	baseName  string
	shortName string
}

// NewBuildTarget constructs a target. buildFile is the project-root-relative
// path of the build-definition file that must declare the target; baseName
// begins with "//".
func NewBuildTarget(buildFile, baseName, shortName string) BuildTarget {
	return BuildTarget{
		buildFile: buildFile,
		baseName:  baseName,
		shortName: shortName,
	}
}

// BuildFile returns the project-root-relative path of the build-definition
// file that declares this target.
func (t BuildTarget) BuildFile() string { return t.buildFile }

// BaseName returns the "//path/to/pkg" prefix of the target.
func (t BuildTarget) BaseName() string { return t.baseName }

// BasePath returns the base name without its leading "//", i.e. the path
// from the project root to the directory holding the build file. Empty for
// targets declared at the project root.
func (t BuildTarget) BasePath() string { return t.baseName[2:] }

// ShortName returns the rule's name attribute.
func (t BuildTarget) ShortName() string { return t.shortName }

// FullyQualifiedName returns "//path/to/pkg:name".
func (t BuildTarget) FullyQualifiedName() string {
	return t.baseName + ":" + t.shortName
}

func (t BuildTarget) String() string { return t.FullyQualifiedName() }

// BuildFileForBasePath derives the build-file path that legally declares
// targets under basePath ("" for the project root).
func BuildFileForBasePath(basePath, buildFileName string) string {
	if basePath == "" {
		return buildFileName
	}
	return path.Join(basePath, buildFileName)
}
