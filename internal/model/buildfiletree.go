package model

import "path"

// BuildFileTree answers "which build file owns this path": given a path
// under the project root it returns the base path of the nearest ancestor
// directory (including the path's own directory) that declares targets.
type BuildFileTree struct {
	basePaths map[string]bool
}

// NewBuildFileTree builds the tree from the targets of a parsed graph.
func NewBuildFileTree(targets []BuildTarget) *BuildFileTree {
	paths := make([]string, len(targets))
	for i, t := range targets {
		paths[i] = t.BasePath()
	}
	return NewBuildFileTreeFromBasePaths(paths)
}

// NewBuildFileTreeFromBasePaths builds the tree from raw base paths ("" is
// the project root).
func NewBuildFileTreeFromBasePaths(basePaths []string) *BuildFileTree {
	t := &BuildFileTree{basePaths: make(map[string]bool, len(basePaths))}
	for _, p := range basePaths {
		t.basePaths[p] = true
	}
	return t
}

// BasePathOfAncestor returns the longest known base path that is a prefix
// (by path component) of p, and whether one exists. p itself may be a base
// path.
func (t *BuildFileTree) BasePathOfAncestor(p string) (string, bool) {
	for {
		if t.basePaths[p] {
			return p, true
		}
		if p == "" || p == "." {
			return "", t.basePaths[""]
		}
		parent := path.Dir(p)
		if parent == "." || parent == "/" {
			parent = ""
		}
		p = parent
	}
}
