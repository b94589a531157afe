package pymodule

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/si-23/py-import-cycles/internal/errors"
)

// buildProject lays out:
//
//	top.py
//	pkg/__init__.py
//	pkg/mod.py
//	pkg/sub/__init__.py
//	pkg/sub/leaf.py
//	ns/tool.py          (namespace: no init file)
func buildProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	for _, rel := range []string{
		"top.py",
		"pkg/__init__.py",
		"pkg/mod.py",
		"pkg/sub/__init__.py",
		"pkg/sub/leaf.py",
		"ns/tool.py",
	} {
		writeFile(t, filepath.Join(root, filepath.FromSlash(rel)))
	}
	return root
}

func TestNewFactory_Validation(t *testing.T) {
	root := buildProject(t)

	if _, err := NewFactory(root, nil, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFactory(filepath.Join(root, "does-not-exist"), nil, nil); !errors.IsCode(err, errors.CodeValidationError) {
		t.Errorf("missing project root: error = %v, want VALIDATION_ERROR", err)
	}
	if _, err := NewFactory(root, []string{"missing-pkg"}, nil); !errors.IsCode(err, errors.CodeValidationError) {
		t.Errorf("missing package: error = %v, want VALIDATION_ERROR", err)
	}
	if _, err := NewFactory(root, nil, map[string]string{"bad-name": "pkg"}); !errors.IsCode(err, errors.CodeValidationError) {
		t.Errorf("invalid remap short name: error = %v, want VALIDATION_ERROR", err)
	}
}

func TestFactory_FromName(t *testing.T) {
	root := buildProject(t)
	f, err := NewFactory(root, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name Name
		kind Kind
	}{
		{"top", KindPlainModule},
		{"pkg", KindRegularPackage},
		{"pkg.mod", KindPlainModule},
		{"pkg.sub", KindRegularPackage},
		{"pkg.sub.leaf", KindPlainModule},
		{"ns", KindNamespacePackage},
	}
	for _, c := range cases {
		m, err := f.FromName(c.name)
		if err != nil {
			t.Errorf("FromName(%q): %v", c.name, err)
			continue
		}
		if m.Kind() != c.kind {
			t.Errorf("FromName(%q).Kind() = %v, want %v", c.name, m.Kind(), c.kind)
		}
		if m.Name() != c.name {
			t.Errorf("FromName(%q).Name() = %q", c.name, m.Name())
		}
	}

	if _, err := f.FromName("nothing.here"); !errors.IsCode(err, errors.CodeUnresolvedModule) {
		t.Errorf("unknown name: error = %v, want UNRESOLVED_MODULE", err)
	}
}

func TestFactory_FromName_Wildcard(t *testing.T) {
	root := buildProject(t)
	f, err := NewFactory(root, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	// pkg.sub.* refers to pkg.sub itself.
	m, err := f.FromName("pkg.sub.*")
	if err != nil {
		t.Fatal(err)
	}
	if m.Name() != "pkg.sub" {
		t.Errorf("FromName(pkg.sub.*).Name() = %q, want pkg.sub", m.Name())
	}
}

func TestFactory_FromPath(t *testing.T) {
	root := buildProject(t)
	f, err := NewFactory(root, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		rel  string
		name Name
		kind Kind
	}{
		{"top.py", "top", KindPlainModule},
		{"pkg/__init__.py", "pkg", KindRegularPackage},
		{"pkg/sub/leaf.py", "pkg.sub.leaf", KindPlainModule},
		{"ns", "ns", KindNamespacePackage},
	}
	for _, c := range cases {
		m, err := f.FromPath(filepath.Join(root, filepath.FromSlash(c.rel)))
		if err != nil {
			t.Errorf("FromPath(%q): %v", c.rel, err)
			continue
		}
		if m.Name() != c.name || m.Kind() != c.kind {
			t.Errorf("FromPath(%q) = (%q, %v), want (%q, %v)", c.rel, m.Name(), m.Kind(), c.name, c.kind)
		}
	}

	if _, err := f.FromPath(filepath.Join(os.TempDir(), "elsewhere.py")); !errors.IsCode(err, errors.CodeContractViolation) {
		t.Errorf("path outside root: error = %v, want CONTRACT_VIOLATION", err)
	}
}

// Round trip: every module found by path must resolve back to itself by name.
func TestFactory_RoundTrip(t *testing.T) {
	root := buildProject(t)
	f, err := NewFactory(root, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	for _, rel := range []string{"top.py", "pkg/__init__.py", "pkg/mod.py", "pkg/sub/leaf.py"} {
		byPath, err := f.FromPath(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			t.Fatal(err)
		}
		byName, err := f.FromName(byPath.Name())
		if err != nil {
			t.Fatal(err)
		}
		if byPath != byName {
			t.Errorf("round trip for %q: %v != %v", rel, byPath, byName)
		}
	}
}

func TestFactory_PackageRoots(t *testing.T) {
	root := t.TempDir()
	for _, rel := range []string{
		"src/mylib/__init__.py",
		"src/mylib/core.py",
	} {
		writeFile(t, filepath.Join(root, filepath.FromSlash(rel)))
	}

	f, err := NewFactory(root, []string{"src/mylib"}, nil)
	if err != nil {
		t.Fatal(err)
	}

	// The package is addressable by its folder name, without the src prefix.
	m, err := f.FromName("mylib.core")
	if err != nil {
		t.Fatal(err)
	}
	if m.Name() != "mylib.core" {
		t.Errorf("Name() = %q, want mylib.core", m.Name())
	}

	// And the path direction produces the same short name.
	byPath, err := f.FromPath(filepath.Join(root, "src", "mylib", "core.py"))
	if err != nil {
		t.Fatal(err)
	}
	if byPath.Name() != "mylib.core" {
		t.Errorf("FromPath Name() = %q, want mylib.core", byPath.Name())
	}
}

func TestFactory_Mapping(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "vendored", "lib", "__init__.py"))

	f, err := NewFactory(root, nil, map[string]string{"lib": "vendored/lib"})
	if err != nil {
		t.Fatal(err)
	}

	m, err := f.FromName("lib")
	if err != nil {
		t.Fatal(err)
	}
	if m.Kind() != KindRegularPackage || m.Name() != "lib" {
		t.Errorf("FromName(lib) = (%q, %v)", m.Name(), m.Kind())
	}
}

func TestFactory_ParentsOf(t *testing.T) {
	root := buildProject(t)
	f, err := NewFactory(root, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	leaf, err := f.FromName("pkg.sub.leaf")
	if err != nil {
		t.Fatal(err)
	}
	parents := f.ParentsOf(leaf)
	if len(parents) != 2 || parents[0].Name() != "pkg.sub" || parents[1].Name() != "pkg" {
		t.Errorf("ParentsOf(pkg.sub.leaf) = %v, want [pkg.sub.__init__ pkg.__init__]", parents)
	}

	// A regular package's first parent is its enclosing package, not itself.
	sub, err := f.FromName("pkg.sub")
	if err != nil {
		t.Fatal(err)
	}
	parents = f.ParentsOf(sub)
	if len(parents) != 1 || parents[0].Name() != "pkg" {
		t.Errorf("ParentsOf(pkg.sub) = %v, want [pkg.__init__]", parents)
	}

	// Top-level modules have no ancestor packages.
	top, err := f.FromName("top")
	if err != nil {
		t.Fatal(err)
	}
	if parents := f.ParentsOf(top); len(parents) != 0 {
		t.Errorf("ParentsOf(top) = %v, want none", parents)
	}

	// Namespace directories do not contribute ancestor edges.
	tool, err := f.FromName("ns.tool")
	if err != nil {
		t.Fatal(err)
	}
	if parents := f.ParentsOf(tool); len(parents) != 0 {
		t.Errorf("ParentsOf(ns.tool) = %v, want none", parents)
	}
}
