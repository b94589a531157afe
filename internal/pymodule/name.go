package pymodule

import (
	"strings"

	"github.com/si-23/py-import-cycles/internal/errors"
)

// Wildcard is the sentinel part of a star import target ("pkg.sub.*").
// It may only appear as the last part of a Name and must be stripped via
// StripWildcard before any filesystem lookup.
const Wildcard = "*"

// Name is a dotted module identifier such as "pkg.sub.mod". The empty Name
// is valid and denotes "no module". Because every legal part character sorts
// above '.', plain string ordering on Name equals lexicographic ordering on
// the part sequence.
type Name string

// ParseName splits text on "." and validates every part: a part must match
// [A-Za-z_][A-Za-z0-9_]* or be the wildcard sentinel, and the sentinel may
// only close the name.
func ParseName(text string) (Name, error) {
	if text == "" {
		return "", nil
	}
	parts := strings.Split(text, ".")
	for i, part := range parts {
		if err := checkPart(part); err != nil {
			return "", err
		}
		if part == Wildcard && i != len(parts)-1 {
			return "", errors.Newf(errors.CodeInvalidName, "wildcard must be the last name part: %q", text)
		}
	}
	return Name(text), nil
}

func checkPart(part string) error {
	if part == "" {
		return errors.New(errors.CodeInvalidName, "empty name part")
	}
	if part == Wildcard {
		return nil
	}
	for i, r := range part {
		switch {
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		case r >= '0' && r <= '9':
			if i == 0 {
				return errors.Newf(errors.CodeInvalidName, "name part starts with digit: %q", part)
			}
		default:
			return errors.Newf(errors.CodeInvalidName, "invalid character %q in name part %q", r, part)
		}
	}
	return nil
}

func (n Name) String() string { return string(n) }

func (n Name) Empty() bool { return n == "" }

func (n Name) Parts() []string {
	if n == "" {
		return nil
	}
	return strings.Split(string(n), ".")
}

// Join appends further parts, validating each of them.
func (n Name) Join(parts ...string) (Name, error) {
	joined := n
	for _, part := range parts {
		sub, err := ParseName(part)
		if err != nil {
			return "", err
		}
		if sub == "" {
			continue
		}
		if joined == "" {
			joined = sub
		} else {
			joined = joined + "." + sub
		}
	}
	return joined, nil
}

// Parent drops the last part; the parent of a single-part name is the empty
// Name.
func (n Name) Parent() Name {
	idx := strings.LastIndexByte(string(n), '.')
	if idx < 0 {
		return ""
	}
	return n[:idx]
}

// Parents returns all non-empty ancestors, nearest first:
// "a.b.c" -> ["a.b", "a"].
func (n Name) Parents() []Name {
	var parents []Name
	for p := n.Parent(); p != ""; p = p.Parent() {
		parents = append(parents, p)
	}
	return parents
}

func (n Name) HasWildcard() bool {
	return n == Wildcard || strings.HasSuffix(string(n), "."+Wildcard)
}

// StripWildcard replaces a trailing wildcard sentinel with the parent name.
func (n Name) StripWildcard() Name {
	if n.HasWildcard() {
		return n.Parent()
	}
	return n
}

// Head returns the first part, the key into the package-root table.
func (n Name) Head() string {
	idx := strings.IndexByte(string(n), '.')
	if idx < 0 {
		return string(n)
	}
	return string(n[:idx])
}
