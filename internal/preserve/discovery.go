package preserve

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"github.com/mvp-joe/typekeep/internal/config"
	"github.com/spf13/afero"
)

// compiledPattern holds both the pattern string and compiled glob
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// Discovery finds artifact directories with glob patterns and ignore rules.
type Discovery struct {
	fs              afero.Fs
	rootDir         string
	includePatterns []compiledPattern
	ignorePatterns  []compiledPattern
}

// NewDiscovery creates a new discovery instance rooted at rootDir.
func NewDiscovery(fsys afero.Fs, rootDir string, includePatterns, ignorePatterns []string) (*Discovery, error) {
	d := &Discovery{
		fs:      fsys,
		rootDir: rootDir,
	}

	var err error
	if d.includePatterns, err = compilePatterns(includePatterns); err != nil {
		return nil, err
	}
	if d.ignorePatterns, err = compilePatterns(ignorePatterns); err != nil {
		return nil, err
	}

	return d, nil
}

func compilePatterns(patterns []string) ([]compiledPattern, error) {
	compiled := make([]compiledPattern, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, compiledPattern{pattern: pattern, glob: g})
	}
	return compiled, nil
}

// Discover walks the directory tree and returns matching artifact
// directories, sorted.
func (d *Discovery) Discover() ([]string, error) {
	dirs := []string{}

	err := afero.Walk(d.fs, d.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(d.rootDir, path)
		if err != nil {
			return err
		}
		if relPath == "." {
			return nil
		}

		// Normalize path separators for glob matching
		relPath = filepath.ToSlash(relPath)

		if d.shouldIgnore(relPath) {
			return filepath.SkipDir
		}

		if d.matchesAnyPattern(relPath, d.includePatterns) {
			dirs = append(dirs, path)
		}

		return nil
	})

	sort.Strings(dirs)
	return dirs, err
}

// shouldIgnore checks if a directory matches any ignore pattern.
func (d *Discovery) shouldIgnore(relPath string) bool {
	if relPath == config.DirName || strings.HasPrefix(relPath, config.DirName+"/") {
		return true
	}

	if d.matchesAnyPattern(relPath, d.ignorePatterns) {
		return true
	}

	// "node_modules" should match pattern "node_modules/**"
	return d.matchesAnyPattern(relPath+"/**", d.ignorePatterns)
}

// matchesAnyPattern checks if a path matches any of the given patterns.
func (d *Discovery) matchesAnyPattern(path string, patterns []compiledPattern) bool {
	for _, cp := range patterns {
		if cp.glob.Match(path) {
			return true
		}
	}

	// A root-level path also matches patterns with the **/ prefix removed,
	// so "**/_generated" matches "_generated" as well as "convex/_generated".
	if !strings.Contains(path, "/") {
		for _, cp := range patterns {
			if !strings.HasPrefix(cp.pattern, "**/") {
				continue
			}
			simplified := strings.TrimPrefix(cp.pattern, "**/")
			if g, err := glob.Compile(simplified, '/'); err == nil && g.Match(path) {
				return true
			}
		}
	}

	return false
}
