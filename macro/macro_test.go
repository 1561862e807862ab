package macro

import "testing"

// TestLookupAliases verifies that long names and short aliases resolve to
// the same definition.
func TestLookupAliases(t *testing.T) {
	for _, d := range Defs() {
		long, ok := Lookup(d.Name)
		if !ok {
			t.Errorf("Lookup(%q) missing", d.Name)
			continue
		}
		if long != d {
			t.Errorf("Lookup(%q) returned a different definition", d.Name)
		}
		if d.Short == "" {
			continue
		}
		short, ok := Lookup(d.Short)
		if !ok {
			t.Errorf("Lookup(%q) missing", d.Short)
			continue
		}
		if short != long {
			t.Errorf("Lookup(%q) != Lookup(%q)", d.Short, d.Name)
		}
	}
}

func TestLookupUnknown(t *testing.T) {
	if _, ok := Lookup("no_such_macro"); ok {
		t.Error("Lookup(no_such_macro) unexpectedly succeeded")
	}
}

// TestTableComplete pins the table contents so a row cannot silently
// disappear.
func TestTableComplete(t *testing.T) {
	want := []string{
		"any",
		"carriage_return",
		"digit",
		"double_quote",
		"end_line",
		"end_string",
		"formfeed",
		"hex_digit",
		"integer",
		"left_brace",
		"letter",
		"linefeed",
		"lowercase",
		"newline",
		"not_digit",
		"not_letter",
		"not_space",
		"not_token_character",
		"not_word_boundary",
		"quote",
		"real",
		"right_brace",
		"space",
		"start_line",
		"start_string",
		"tab",
		"token",
		"token_character",
		"unsigned_integer",
		"uppercase",
		"vertical_tab",
		"windows_newline",
		"word_boundary",
	}
	defs := Defs()
	if len(defs) != len(want) {
		t.Fatalf("table has %d definitions, want %d", len(defs), len(want))
	}
	for i, d := range defs {
		if d.Name != want[i] {
			t.Errorf("Defs()[%d] = %q, want %q", i, d.Name, want[i])
		}
	}
}

// TestKEBodiesParsed verifies every KE-bodied built-in carries its
// pre-parsed tree.
func TestKEBodiesParsed(t *testing.T) {
	for _, d := range Defs() {
		if d.Kind == KE && d.Tree() == nil {
			t.Errorf("#%s has no parsed body", d.Name)
		}
		if d.Kind != KE && d.Tree() != nil {
			t.Errorf("#%s has a parsed body but is not a KE definition", d.Name)
		}
	}
}
