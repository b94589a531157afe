package pymodule

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/si-23/py-import-cycles/internal/errors"
)

// Factory resolves Modules in both directions: dotted name -> Module when
// following an import statement, and file path -> Module when registering a
// discovered file.
//
// The package-root table maps a top-level package's short name to its
// absolute directory. It is computed once: every configured package root is
// registered under its own folder name, together with each ancestor directory
// up to the nearest package-init boundary, so a package nested several
// directories deep stays addressable by its folder name. The legacy remap
// table (relocated or symlinked packages) is layered on top.
type Factory struct {
	projectRoot  string
	packageRoots map[string]string
}

func NewFactory(projectRoot string, packages []string, mapping map[string]string) (*Factory, error) {
	abs, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeValidationError, "resolve project root")
	}
	abs = filepath.Clean(abs)
	if info, err := os.Stat(abs); err != nil || !info.IsDir() {
		return nil, errors.Newf(errors.CodeValidationError, "no such directory: %s", projectRoot)
	}

	f := &Factory{
		projectRoot:  abs,
		packageRoots: make(map[string]string),
	}

	for _, pkg := range packages {
		root := filepath.Join(abs, filepath.FromSlash(pkg))
		if info, err := os.Stat(root); err != nil || !info.IsDir() {
			return nil, errors.Newf(errors.CodeValidationError, "no such package directory: %s", pkg)
		}
		f.register(filepath.Base(root), root)

		for dir := filepath.Dir(root); dir != abs && f.Contains(dir); dir = filepath.Dir(dir) {
			if hasInitFile(dir) {
				break
			}
			f.register(filepath.Base(dir), dir)
		}
	}

	for short, rel := range mapping {
		if err := checkPart(short); err != nil {
			return nil, errors.Wrap(err, errors.CodeValidationError, "invalid remap short name")
		}
		f.packageRoots[short] = filepath.Join(abs, filepath.FromSlash(rel))
	}

	return f, nil
}

func (f *Factory) register(short, dir string) {
	if _, taken := f.packageRoots[short]; !taken {
		f.packageRoots[short] = dir
	}
}

func (f *Factory) ProjectRoot() string { return f.projectRoot }

// PackageRoots returns the registered roots, sorted by short name.
func (f *Factory) PackageRoots() []string {
	roots := make([]string, 0, len(f.packageRoots))
	for _, dir := range f.packageRoots {
		roots = append(roots, dir)
	}
	sort.Strings(roots)
	return roots
}

// FromName locates the Module an absolute import refers to. A name that does
// not land on a project file or directory fails with UNRESOLVED_MODULE, which
// callers treat as "not part of this project" rather than as an error to
// surface.
func (f *Factory) FromName(name Name) (Module, error) {
	name = name.StripWildcard()
	if name.Empty() {
		return Module{}, errors.New(errors.CodeUnresolvedModule, "empty module name")
	}

	parts := name.Parts()
	var candidate string
	if root, ok := f.packageRoots[parts[0]]; ok {
		candidate = filepath.Join(append([]string{root}, parts[1:]...)...)
	} else {
		candidate = filepath.Join(append([]string{f.projectRoot}, parts...)...)
	}

	if info, err := os.Stat(candidate); err == nil && info.IsDir() {
		if init := filepath.Join(candidate, InitFile); fileExists(init) {
			return NewRegularPackage(init, name)
		}
		return NewNamespacePackage(candidate, name)
	}
	if file := candidate + ".py"; fileExists(file) {
		return NewPlainModule(file, name)
	}

	return Module{}, errors.Newf(errors.CodeUnresolvedModule, "no project module named %q", name)
}

// FromPath is the inverse direction: classify a discovered path and compute
// its dotted name relative to the best-matching package root. Paths outside
// the project root violate the caller contract.
func (f *Factory) FromPath(path string) (Module, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Module{}, errors.AddContext(
			errors.Wrap(err, errors.CodeContractViolation, "resolve path"),
			errors.CtxPath, path)
	}
	abs = filepath.Clean(abs)
	if !f.Contains(abs) {
		return Module{}, errors.Newf(errors.CodeContractViolation, "path %q is outside the project root %q", path, f.projectRoot)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return Module{}, errors.AddContext(
			errors.Wrap(err, errors.CodeUnresolvedModule, "stat module path"),
			errors.CtxPath, path)
	}

	if info.IsDir() {
		name, err := f.nameForPath(abs)
		if err != nil {
			return Module{}, err
		}
		return NewNamespacePackage(abs, name)
	}

	if filepath.Base(abs) == InitFile {
		// The init file names its directory; the init segment is not part
		// of the module name.
		name, err := f.nameForPath(filepath.Dir(abs))
		if err != nil {
			return Module{}, err
		}
		return NewRegularPackage(abs, name)
	}

	if strings.HasSuffix(abs, ".py") {
		name, err := f.nameForPath(strings.TrimSuffix(abs, ".py"))
		if err != nil {
			return Module{}, err
		}
		return NewPlainModule(abs, name)
	}

	return Module{}, errors.Newf(errors.CodeContractViolation, "path %q is not a python module", path)
}

// ParentsOf walks the filesystem ancestry of module's path up to the project
// or package boundary and yields every ancestor directory that is itself a
// regular package, nearest first. Namespace directories along the way are
// skipped.
func (f *Factory) ParentsOf(m Module) []Module {
	start := filepath.Dir(m.Path())
	if m.Kind() == KindRegularPackage {
		// The init file's own directory is the package itself.
		start = filepath.Dir(start)
	}

	var parents []Module
	for dir := start; dir != f.projectRoot && f.Contains(dir); dir = filepath.Dir(dir) {
		if !hasInitFile(dir) {
			continue
		}
		pkg, err := f.FromPath(filepath.Join(dir, InitFile))
		if err != nil {
			continue
		}
		parents = append(parents, pkg)
	}
	return parents
}

// nameForPath computes the dotted name of an extension-free reference path:
// longest package-root prefix match first, falling back to a name relative to
// the project root.
func (f *Factory) nameForPath(ref string) (Name, error) {
	bestShort, bestRoot := "", ""
	for short, root := range f.packageRoots {
		if (ref == root || strings.HasPrefix(ref, root+string(filepath.Separator))) && len(root) > len(bestRoot) {
			bestShort, bestRoot = short, root
		}
	}

	var parts []string
	if bestRoot != "" {
		parts = append(parts, bestShort)
		if ref != bestRoot {
			rel, err := filepath.Rel(bestRoot, ref)
			if err != nil {
				return "", errors.Wrap(err, errors.CodeInternal, "relativize module path")
			}
			parts = append(parts, strings.Split(rel, string(filepath.Separator))...)
		}
	} else {
		rel, err := filepath.Rel(f.projectRoot, ref)
		if err != nil {
			return "", errors.Wrap(err, errors.CodeInternal, "relativize module path")
		}
		if rel != "." {
			parts = strings.Split(rel, string(filepath.Separator))
		}
	}

	return ParseName(strings.Join(parts, "."))
}

// Contains reports whether path lies at or below the project root.
func (f *Factory) Contains(path string) bool {
	return path == f.projectRoot || strings.HasPrefix(path, f.projectRoot+string(filepath.Separator))
}

func hasInitFile(dir string) bool {
	return fileExists(filepath.Join(dir, InitFile))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
