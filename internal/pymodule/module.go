package pymodule

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/si-23/py-import-cycles/internal/errors"
)

// InitFile marks a directory as a regular package.
const InitFile = "__init__.py"

type Kind int

const (
	KindRegularPackage Kind = iota
	KindNamespacePackage
	KindPlainModule
)

func (k Kind) String() string {
	switch k {
	case KindRegularPackage:
		return "regular-package"
	case KindNamespacePackage:
		return "namespace-package"
	case KindPlainModule:
		return "module"
	}
	return "unknown"
}

// Module is one unit of the dependency graph: a regular package (its
// __init__.py), a namespace package (a bare directory) or a plain module (a
// leaf .py file). Two Modules are equal, ordered and hashed solely by Name.
type Module struct {
	kind Kind
	name Name
	path string
}

func (m Module) Kind() Kind { return m.kind }
func (m Module) Name() Name { return m.name }
func (m Module) Path() string { return m.path }

func (m Module) IsZero() bool { return m == Module{} }

// String renders the module for diagnostics: regular packages carry an
// explicit init marker, namespace packages a trailing separator.
func (m Module) String() string {
	switch m.kind {
	case KindRegularPackage:
		return m.name.String() + ".__init__"
	case KindNamespacePackage:
		return m.name.String() + "/"
	default:
		return m.name.String()
	}
}

// NewRegularPackage builds a Module for a package-init file. The path must
// point at an existing __init__.py and the name must not carry the init
// marker; anything else is a caller bug.
func NewRegularPackage(path string, name Name) (Module, error) {
	if filepath.Base(path) != InitFile {
		return Module{}, errors.Newf(errors.CodeContractViolation, "regular package path %q is not an %s file", path, InitFile)
	}
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return Module{}, errors.Newf(errors.CodeContractViolation, "regular package init file %q does not exist", path)
	}
	if parts := name.Parts(); len(parts) > 0 && parts[len(parts)-1] == "__init__" {
		return Module{}, errors.Newf(errors.CodeContractViolation, "regular package name %q carries the init marker", name)
	}
	return Module{kind: KindRegularPackage, name: name, path: path}, nil
}

// NewNamespacePackage builds a Module for a directory that has no
// package-init file.
func NewNamespacePackage(path string, name Name) (Module, error) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return Module{}, errors.Newf(errors.CodeContractViolation, "namespace package path %q is not a directory", path)
	}
	if _, err := os.Stat(filepath.Join(path, InitFile)); err == nil {
		return Module{}, errors.Newf(errors.CodeContractViolation, "directory %q has an init file, construct a regular package", path)
	}
	return Module{kind: KindNamespacePackage, name: name, path: path}, nil
}

// NewPlainModule builds a Module for a leaf source file that is not a
// package-init file.
func NewPlainModule(path string, name Name) (Module, error) {
	base := filepath.Base(path)
	if base == InitFile {
		return Module{}, errors.Newf(errors.CodeContractViolation, "init file %q must be a regular package", path)
	}
	if !strings.HasSuffix(base, ".py") {
		return Module{}, errors.Newf(errors.CodeContractViolation, "plain module path %q is not a python file", path)
	}
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return Module{}, errors.Newf(errors.CodeContractViolation, "plain module file %q does not exist", path)
	}
	return Module{kind: KindPlainModule, name: name, path: path}, nil
}
