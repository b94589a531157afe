package pymodule

import "testing"

func TestParseName(t *testing.T) {
	cases := []struct {
		input   string
		wantErr bool
	}{
		{"a", false},
		{"a.b.c", false},
		{"_private.mod2", false},
		{"pkg.*", false},
		{".", true},
		{"a..b", true},
		{"a.b.", true},
		{"1abc", true},
		{"a.2b", true},
		{"a-b", true},
		{"a.*.b", true},
		{"*", false},
	}

	for _, c := range cases {
		_, err := ParseName(c.input)
		if (err != nil) != c.wantErr {
			t.Errorf("ParseName(%q) error = %v, wantErr %v", c.input, err, c.wantErr)
		}
	}

	// The empty string is the valid empty Name, not an error.
	name, err := ParseName("")
	if err != nil || !name.Empty() {
		t.Errorf("ParseName(\"\") = (%q, %v), want empty name", name, err)
	}
}

func TestName_Parts(t *testing.T) {
	name, err := ParseName("a.b.c")
	if err != nil {
		t.Fatal(err)
	}

	parts := name.Parts()
	if len(parts) != 3 || parts[0] != "a" || parts[1] != "b" || parts[2] != "c" {
		t.Errorf("Parts() = %v, want [a b c]", parts)
	}
	if name.Head() != "a" {
		t.Errorf("Head() = %q, want a", name.Head())
	}
}

func TestName_Parent(t *testing.T) {
	name := Name("a.b.c")
	if got := name.Parent(); got != "a.b" {
		t.Errorf("Parent() = %q, want a.b", got)
	}
	if got := Name("a").Parent(); !got.Empty() {
		t.Errorf("Parent() of top-level = %q, want empty", got)
	}
}

func TestName_Parents(t *testing.T) {
	parents := Name("a.b.c.d").Parents()
	want := []Name{"a.b.c", "a.b", "a"}
	if len(parents) != len(want) {
		t.Fatalf("Parents() = %v, want %v", parents, want)
	}
	for i := range want {
		if parents[i] != want[i] {
			t.Errorf("Parents()[%d] = %q, want %q", i, parents[i], want[i])
		}
	}
}

func TestName_Join(t *testing.T) {
	name := Name("pkg")
	joined, err := name.Join("sub", "leaf")
	if err != nil {
		t.Fatal(err)
	}
	if joined != "pkg.sub.leaf" {
		t.Errorf("Join() = %q, want pkg.sub.leaf", joined)
	}

	if _, err := name.Join("not-valid"); err == nil {
		t.Error("Join() with invalid part should fail")
	}
}

func TestName_Wildcard(t *testing.T) {
	name, err := ParseName("pkg.sub.*")
	if err != nil {
		t.Fatal(err)
	}
	if !name.HasWildcard() {
		t.Error("HasWildcard() = false, want true")
	}
	if got := name.StripWildcard(); got != "pkg.sub" {
		t.Errorf("StripWildcard() = %q, want pkg.sub", got)
	}
	if Name("pkg.sub").HasWildcard() {
		t.Error("HasWildcard() on plain name = true, want false")
	}
}

// Name ordering must agree with part-sequence ordering so that sorted
// member lists are stable. The dot sorts below every identifier character,
// which makes plain string comparison sufficient.
func TestName_Ordering(t *testing.T) {
	if !(Name("a.b") < Name("ab")) {
		t.Error("expected a.b < ab")
	}
	if !(Name("a") < Name("a.b")) {
		t.Error("expected a < a.b")
	}
}
