package model

import (
	"fmt"
	"strings"
)

// ParseContext supplies the base name used to resolve relative dep strings.
// The zero value only accepts fully qualified targets.
type ParseContext struct {
	baseName string
}

// ForBaseName returns a context that resolves ":name" relative to baseName.
func ForBaseName(baseName string) ParseContext {
	return ParseContext{baseName: baseName}
}

// FullyQualified is the context for user-supplied arguments, where relative
// references have nothing to be relative to.
func FullyQualified() ParseContext {
	return ParseContext{}
}

// BadlyFormattedTargetError reports a target string that violates the
// target grammar.
type BadlyFormattedTargetError struct {
	Input string
}

func (e *BadlyFormattedTargetError) Error() string {
	return fmt.Sprintf("badly formatted target %q: expected //path/to/pkg:name", e.Input)
}

// UserFacing marks this error as a user mistake rather than an internal one.
func (e *BadlyFormattedTargetError) UserFacing() bool { return true }

// NoSuchBuildTargetError reports a reference to a target that its predicted
// build file does not declare.
type NoSuchBuildTargetError struct {
	Target  string
	Message string
}

func (e *NoSuchBuildTargetError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("no such build target: %s", e.Target)
}

// UserFacing marks this error as a user mistake rather than an internal one.
func (e *NoSuchBuildTargetError) UserFacing() bool { return true }

// TargetParser parses dep strings and command-line arguments into
// BuildTargets. It performs no filesystem checks; a parsed target may turn
// out not to exist once its build file is loaded.
type TargetParser struct {
	buildFileName string
}

// NewTargetParser returns a parser deriving build-file paths with the given
// build-definition file name.
func NewTargetParser(buildFileName string) *TargetParser {
	return &TargetParser{buildFileName: buildFileName}
}

// Parse resolves s under ctx. A leading ":" is resolved against the
// context's base name; a leading "//" is absolute; anything else is badly
// formatted.
func (p *TargetParser) Parse(s string, ctx ParseContext) (BuildTarget, error) {
	if !strings.HasPrefix(s, "//") {
		if !strings.HasPrefix(s, ":") {
			return BuildTarget{}, &BadlyFormattedTargetError{Input: s}
		}
		if ctx.baseName == "" {
			return BuildTarget{}, &NoSuchBuildTargetError{
				Target:  s,
				Message: fmt.Sprintf("%s is a relative target, but a fully qualified //path:name is required here", s),
			}
		}
		s = ctx.baseName + s
	}

	colon := strings.LastIndex(s, ":")
	if colon < 0 || colon == len(s)-1 {
		return BuildTarget{}, &BadlyFormattedTargetError{Input: s}
	}
	baseName := s[:colon]
	shortName := s[colon+1:]
	if !strings.HasPrefix(baseName, "//") {
		return BuildTarget{}, &BadlyFormattedTargetError{Input: s}
	}

	buildFile := BuildFileForBasePath(baseName[2:], p.buildFileName)
	return NewBuildTarget(buildFile, baseName, shortName), nil
}
