package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"github.com/si-23/py-import-cycles/internal/errors"
)

// DefaultIgnoreMarker suppresses an import statement when it appears in a
// comment trailing the statement or on the line directly above it.
const DefaultIgnoreMarker = "import-cycles: ignore"

type Options struct {
	// IgnoreMarker overrides DefaultIgnoreMarker; empty keeps the default.
	IgnoreMarker string
	// IncludeTypeChecking keeps imports nested inside an
	// `if TYPE_CHECKING:` guard. They never run at import time, so they are
	// dropped unless explicitly requested.
	IncludeTypeChecking bool
}

// Parser extracts raw import records from Python sources via tree-sitter.
// It is safe for reuse across files but not for concurrent use.
type Parser struct {
	language *sitter.Language
	opts     Options
}

func New(opts Options) *Parser {
	if opts.IgnoreMarker == "" {
		opts.IgnoreMarker = DefaultIgnoreMarker
	}
	return &Parser{
		language: sitter.NewLanguage(tree_sitter_python.Language()),
		opts:     opts,
	}
}

// ParseFile returns the file's import records in source order, already
// filtered for the ignore marker and (unless configured otherwise) the
// type-checking guard.
func (p *Parser) ParseFile(path string, content []byte) ([]ImportRecord, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(p.language)

	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, errors.Newf(errors.CodeInternal, "cannot parse python file %s", path)
	}
	defer tree.Close()

	w := &walker{
		path:        path,
		source:      content,
		marker:      p.opts.IgnoreMarker,
		ignoredRows: make(map[uint]bool),
	}
	w.collectMarkers(tree.RootNode())
	w.walk(tree.RootNode(), false)

	records := make([]ImportRecord, 0, len(w.records))
	for _, rec := range w.records {
		if w.ignored(rec) {
			continue
		}
		if rec.typeChecking && !p.opts.IncludeTypeChecking {
			continue
		}
		records = append(records, rec.ImportRecord)
	}
	return records, nil
}

type taggedRecord struct {
	ImportRecord
	row          uint
	typeChecking bool
}

type walker struct {
	path        string
	source      []byte
	marker      string
	ignoredRows map[uint]bool
	records     []taggedRecord
}

func (w *walker) collectMarkers(node *sitter.Node) {
	if node.Kind() == "comment" && strings.Contains(w.text(node), w.marker) {
		w.ignoredRows[node.StartPosition().Row] = true
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		w.collectMarkers(node.Child(i))
	}
}

// ignored drops a statement carrying the marker on its own line or on the
// line directly above.
func (w *walker) ignored(rec taggedRecord) bool {
	if w.ignoredRows[rec.row] {
		return true
	}
	return rec.row > 0 && w.ignoredRows[rec.row-1]
}

func (w *walker) walk(node *sitter.Node, typeChecking bool) {
	switch node.Kind() {
	case "import_statement":
		w.extractImport(node, typeChecking)
		return
	case "import_from_statement":
		w.extractFromImport(node, typeChecking)
		return
	case "if_statement":
		if w.isTypeCheckingGuard(node) {
			typeChecking = true
		}
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		w.walk(node.Child(i), typeChecking)
	}
}

func (w *walker) isTypeCheckingGuard(node *sitter.Node) bool {
	cond := node.ChildByFieldName("condition")
	if cond == nil {
		return false
	}
	text := w.text(cond)
	return text == "TYPE_CHECKING" || strings.HasSuffix(text, ".TYPE_CHECKING")
}

func (w *walker) extractImport(node *sitter.Node, typeChecking bool) {
	var names []string
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "dotted_name", "identifier":
			names = append(names, w.text(child))
		case "aliased_import":
			if name := child.ChildByFieldName("name"); name != nil {
				names = append(names, w.text(name))
			}
		}
	}
	if len(names) == 0 {
		return
	}
	w.records = append(w.records, taggedRecord{
		ImportRecord: ImportRecord{
			Kind:     AbsoluteImport,
			Names:    names,
			Location: w.location(node),
		},
		row:          node.StartPosition().Row,
		typeChecking: typeChecking,
	})
}

func (w *walker) extractFromImport(node *sitter.Node, typeChecking bool) {
	rec := taggedRecord{
		ImportRecord: ImportRecord{
			Kind:     AbsoluteFrom,
			Location: w.location(node),
		},
		row:          node.StartPosition().Row,
		typeChecking: typeChecking,
	}

	sawImportKeyword := false
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "relative_import":
			rec.Kind = RelativeFrom
			text := w.text(child)
			trimmed := strings.TrimLeft(text, ".")
			rec.Level = len(text) - len(trimmed)
			rec.Module = trimmed
		case "dotted_name", "identifier":
			if !sawImportKeyword {
				rec.Module = w.text(child)
			} else {
				rec.Names = append(rec.Names, w.text(child))
			}
		case "import":
			sawImportKeyword = true
		case "wildcard_import":
			rec.Names = append(rec.Names, "*")
		case "aliased_import":
			if name := child.ChildByFieldName("name"); name != nil {
				rec.Names = append(rec.Names, w.text(name))
			}
		}
	}

	if rec.Kind == AbsoluteFrom && rec.Module == "" {
		// Malformed statement; nothing to resolve.
		return
	}
	w.records = append(w.records, rec)
}

func (w *walker) location(node *sitter.Node) Location {
	return Location{
		File:   w.path,
		Line:   int(node.StartPosition().Row) + 1,
		Column: int(node.StartPosition().Column) + 1,
	}
}

func (w *walker) text(node *sitter.Node) string {
	return string(w.source[node.StartByte():node.EndByte()])
}
