// Package fsutil provides the project-root filesystem abstraction the
// parser core works against. All paths exchanged with the rest of the
// system are relative to the project root and slash-separated.
package fsutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/chrisrhoden/buck/internal/config"
)

// ProjectFilesystem anchors all file access at a project root and applies
// the configured ignore patterns.
type ProjectFilesystem struct {
	root   string
	ignore []string
}

// NewProjectFilesystem returns a filesystem rooted at root. ignore holds
// doublestar patterns matched against root-relative paths; the output
// directory is always ignored.
func NewProjectFilesystem(root string, ignore []string) *ProjectFilesystem {
	patterns := append([]string{config.OutputDirectory}, ignore...)
	return &ProjectFilesystem{root: root, ignore: patterns}
}

// Root returns the absolute project root.
func (f *ProjectFilesystem) Root() string { return f.root }

// Resolve turns a root-relative path into an absolute one.
func (f *ProjectFilesystem) Resolve(rel string) string {
	return filepath.Join(f.root, filepath.FromSlash(rel))
}

// Exists reports whether a root-relative path names an existing file or
// directory.
func (f *ProjectFilesystem) Exists(rel string) bool {
	_, err := os.Stat(f.Resolve(rel))
	return err == nil
}

// ReadFile reads a root-relative file.
func (f *ProjectFilesystem) ReadFile(rel string) ([]byte, error) {
	data, err := os.ReadFile(f.Resolve(rel))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rel, err)
	}
	return data, nil
}

// IsIgnored reports whether a root-relative path matches an ignore pattern.
func (f *ProjectFilesystem) IsIgnored(rel string) bool {
	for _, pattern := range f.ignore {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// WalkBuildFiles enumerates every build-definition file in the project,
// skipping ignored directories, and returns their root-relative paths
// sorted.
func (f *ProjectFilesystem) WalkBuildFiles(buildFileName string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(f.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(f.root, p)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}
		if f.IsIgnored(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && d.Name() == buildFileName {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s for %s files: %w", f.root, buildFileName, err)
	}
	sort.Strings(files)
	return files, nil
}
