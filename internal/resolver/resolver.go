package resolver

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/si-23/py-import-cycles/internal/errors"
	"github.com/si-23/py-import-cycles/internal/parser"
	"github.com/si-23/py-import-cycles/internal/pymodule"
)

// Resolver interprets one module's raw import records against the project
// tree. Failed resolutions are expected outcomes (third-party import,
// attribute rather than submodule, dangling reference) and are skipped with a
// debug log, never surfaced.
type Resolver struct {
	factory *pymodule.Factory
}

func New(factory *pymodule.Factory) *Resolver {
	return &Resolver{factory: factory}
}

// Imports returns the distinct project modules base depends on, in
// first-seen order. The result always starts with base's ancestor regular
// packages: importing any submodule triggers its ancestor packages'
// initialization, so those edges are real even without an explicit import
// statement naming them.
func (r *Resolver) Imports(base pymodule.Module, records []parser.ImportRecord) []pymodule.Module {
	var out []pymodule.Module
	seen := make(map[pymodule.Name]bool)

	keep := func(m pymodule.Module) {
		if m.IsZero() || seen[m.Name()] {
			return
		}
		seen[m.Name()] = true
		out = append(out, m)
	}
	keepCandidate := func(m pymodule.Module) {
		if m.IsZero() || !r.crossesModule(base, m) {
			return
		}
		keep(m)
	}

	for _, pkg := range r.factory.ParentsOf(base) {
		keep(pkg)
	}

	for _, rec := range records {
		switch rec.Kind {
		case parser.AbsoluteImport:
			// import a.b.c: the whole dotted path is the target, not each
			// prefix; prefixes are covered by the ancestor rule on the
			// target's side.
			for _, name := range rec.Names {
				keepCandidate(r.byName(name))
			}

		case parser.AbsoluteFrom:
			anchor, err := pymodule.ParseName(rec.Module)
			if err != nil {
				slog.Debug("skipping unparsable import anchor", "module", rec.Module, "file", rec.Location.File, "error", err)
				continue
			}
			keepCandidate(r.lookup(anchor))
			for _, name := range rec.Names {
				child, err := anchor.Join(name)
				if err != nil {
					slog.Debug("skipping unparsable imported name", "name", name, "file", rec.Location.File, "error", err)
					continue
				}
				// The name may be a submodule or merely an attribute of the
				// anchor; only real submodules produce an edge.
				keepCandidate(r.lookup(child))
			}

		case parser.RelativeFrom:
			r.relativeFrom(base, rec, keepCandidate)
		}
	}

	return out
}

// crossesModule rules out the degenerate candidates: the module itself, and
// the module's own enclosing regular package reached via a sibling-submodule
// import (not a structural cross-package dependency).
func (r *Resolver) crossesModule(base, candidate pymodule.Module) bool {
	if candidate.Name() == base.Name() {
		return false
	}
	if base.Kind() == pymodule.KindPlainModule &&
		candidate.Kind() == pymodule.KindRegularPackage &&
		filepath.Dir(candidate.Path()) == filepath.Dir(base.Path()) {
		return false
	}
	return true
}

func (r *Resolver) byName(text string) pymodule.Module {
	name, err := pymodule.ParseName(text)
	if err != nil {
		slog.Debug("skipping unparsable import", "name", text, "error", err)
		return pymodule.Module{}
	}
	return r.lookup(name)
}

func (r *Resolver) lookup(name pymodule.Name) pymodule.Module {
	if name.Empty() || IsStdlib(name.Head()) {
		return pymodule.Module{}
	}
	m, err := r.factory.FromName(name)
	if err != nil {
		if !errors.Recoverable(err) {
			slog.Warn("module resolution failed", "name", name, "error", err)
		}
		return pymodule.Module{}
	}
	return m
}

func (r *Resolver) relativeFrom(base pymodule.Module, rec parser.ImportRecord, keep func(pymodule.Module)) {
	refDir, ok := relativeBase(base, rec.Level)
	if !ok || !r.factory.Contains(refDir) {
		slog.Debug("relative import climbs out of the project", "file", rec.Location.File, "level", rec.Level)
		return
	}

	refPath := refDir
	if rec.Module != "" {
		anchor, err := pymodule.ParseName(rec.Module)
		if err != nil {
			slog.Debug("skipping unparsable relative anchor", "module", rec.Module, "file", rec.Location.File, "error", err)
			return
		}
		refPath = filepath.Join(append([]string{refDir}, anchor.Parts()...)...)
		keep(r.byPath(refPath))
	}

	for _, name := range rec.Names {
		if name == pymodule.Wildcard {
			// "from .sub import *" loads .sub itself.
			keep(r.byPath(refPath))
			continue
		}
		keep(r.byPath(filepath.Join(refPath, name)))
	}
}

// byPath resolves a candidate reference path directly against the
// filesystem: package-init file, plain source file, bare directory, in that
// priority.
func (r *Resolver) byPath(path string) pymodule.Module {
	target := ""
	switch {
	case isFile(filepath.Join(path, pymodule.InitFile)):
		target = filepath.Join(path, pymodule.InitFile)
	case isFile(path + ".py"):
		target = path + ".py"
	case isDir(path):
		target = path
	default:
		slog.Debug("relative import target does not exist", "path", path)
		return pymodule.Module{}
	}

	m, err := r.factory.FromPath(target)
	if err != nil {
		if !errors.Recoverable(err) {
			slog.Warn("module resolution failed", "path", target, "error", err)
		}
		return pymodule.Module{}
	}
	return m
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// relativeBase resolves the directory a level-N relative import is anchored
// at. Level 1 is the module's own package directory; each further level
// climbs one ancestor. A regular package climbs one level less than a plain
// module at the same level value: its own directory already counts as a
// level, so levels 1 and 2 both anchor at the package directory itself.
func relativeBase(base pymodule.Module, level int) (string, bool) {
	if level < 1 {
		return "", false
	}
	dir := filepath.Dir(base.Path())
	climbs := level - 1
	switch base.Kind() {
	case pymodule.KindNamespacePackage:
		dir = base.Path()
	case pymodule.KindRegularPackage:
		if climbs > 0 {
			climbs--
		}
	}
	for i := 0; i < climbs; i++ {
		dir = filepath.Dir(dir)
	}
	return dir, true
}
