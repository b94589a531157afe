package scan

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"github.com/si-23/py-import-cycles/internal/errors"
)

// Scanner discovers the Python files of a project snapshot. Exclusion
// patterns are matched against directory and file base names.
type Scanner struct {
	excludeDirs  []glob.Glob
	excludeFiles []glob.Glob
}

func New(excludeDirs, excludeFiles []string) (*Scanner, error) {
	s := &Scanner{}

	for _, pattern := range excludeDirs {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeValidationError, "invalid exclude dir pattern")
		}
		s.excludeDirs = append(s.excludeDirs, g)
	}

	for _, pattern := range excludeFiles {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeValidationError, "invalid exclude file pattern")
		}
		s.excludeFiles = append(s.excludeFiles, g)
	}

	return s, nil
}

// PythonFiles collects every .py file below the given roots, sorted for a
// deterministic pipeline regardless of filesystem iteration order.
func (s *Scanner) PythonFiles(roots []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && s.excludeDir(path) {
					return filepath.SkipDir
				}
				return nil
			}
			if !strings.HasSuffix(path, ".py") || s.excludeFile(path) {
				return nil
			}
			if abs, err := filepath.Abs(path); err == nil {
				path = abs
			}
			if !seen[path] {
				seen[path] = true
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "walk project files")
		}
	}

	sort.Strings(files)
	return files, nil
}

func (s *Scanner) excludeDir(path string) bool {
	base := filepath.Base(path)
	for _, g := range s.excludeDirs {
		if g.Match(base) {
			return true
		}
	}
	return false
}

func (s *Scanner) excludeFile(path string) bool {
	base := filepath.Base(path)
	for _, g := range s.excludeFiles {
		if g.Match(base) {
			return true
		}
	}
	return false
}
