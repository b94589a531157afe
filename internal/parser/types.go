package parser

type RecordKind int

const (
	// AbsoluteImport covers "import a.b.c[, d.e]"; each dotted name is a
	// full target on its own.
	AbsoluteImport RecordKind = iota
	// AbsoluteFrom covers "from a.b import c, d"; the anchor and each
	// anchor.name are resolution candidates.
	AbsoluteFrom
	// RelativeFrom covers "from .[.]mod import c"; resolved against the
	// importing file's own directory.
	RelativeFrom
)

func (k RecordKind) String() string {
	switch k {
	case AbsoluteImport:
		return "import"
	case AbsoluteFrom:
		return "from-import"
	case RelativeFrom:
		return "relative-from-import"
	}
	return "unknown"
}

// ImportRecord is one raw import statement, untangled from syntax but not yet
// resolved against the project tree.
type ImportRecord struct {
	Kind     RecordKind
	Level    int      // RelativeFrom: number of leading dots, >= 1
	Module   string   // anchor dotted name; empty for AbsoluteImport and "from . import x"
	Names    []string // imported dotted names or identifiers; "*" for star imports
	Location Location
}

type Location struct {
	File   string
	Line   int
	Column int
}
