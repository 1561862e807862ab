package syntax

import (
	"errors"
	"strings"
	"testing"
)

// TestParse checks the shapes the parser builds, rendered through
// FormatTree.
func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"abc", "abc"},
		{"[]", "[]"},
		{"[ ]", "[]"},
		{"['a']", "[{'a'}]"},
		{"['a' 'b']", "[{'a' 'b'}]"},
		{"['a' | 'b']", "[(or {'a'} {'b'})]"},
		{"['a' | 'b' | 'c']", "[(or {'a'} {'b'} {'c'})]"},
		{"[1+ #d]", "[(1+ {#d})]"},
		{"[capture 1+ #d]", "[(capture 1+ {#d})]"},
		{"[capture:year 4 #digit]", "[(capture:year 4 {#digit})]"},
		{"[1+:fewest #d]", "[(1+:fewest {#d})]"},
		{"[comment 'x']", "[(comment {'x'})]"},
		{"[#a..f]", "[{#a..f}]"},
		{"[#h=[#digit] #h]", "[{(def #h [{#digit}]) #h}]"},
		{"[#a=#b]", "[{(def #a #b)}]"},
		{"[#q='x']", "[{(def #q 'x')}]"},
		{"a[#d]b", "a[{#d}]b"},
		{"[1+ #d][#letter]", "[(1+ {#d})][{#letter}]"},
		{"[0-1 ['-' | '+']]", "[(0-1 {[(or {'-'} {'+'})]})]"},
		{"[not ['a' | 'b']]", "[(not {[(or {'a'} {'b'})]})]"},
	}

	for _, tt := range tests {
		tree, err := Parse(tt.input)
		if err != nil {
			t.Errorf("Parse(%q) failed: %v", tt.input, err)
			continue
		}
		if got := FormatTree(tree); got != tt.want {
			t.Errorf("Parse(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

// TestParseErrors checks that malformed inputs fail with a syntax error and
// a source offset.
func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty pattern", ""},
		{"unmatched close", "]"},
		{"unmatched open", "["},
		{"unmatched quote", "['a"},
		{"unknown operator", "[bogus 'a']"},
		{"descending bounds", "[5-3 'a']"},
		{"huge bound", "[99999999999999999999 'a']"},
		{"bound above host limit", "[1001 'a']"},
		{"fewest on exact", "[3:fewest 'a']"},
		{"fewest misspelled", "[1+:fewer 'a']"},
		{"ops mixed with pipe", "[1+ 'a' | 'b']"},
		{"pipe before ops", "['a' | 1+ 'b']"},
		{"empty branch right", "['a' | ]"},
		{"empty branch left", "[ | 'a']"},
		{"missing whitespace", "['a''b']"},
		{"missing whitespace before op", "[1+'a']"},
		{"argument not bareword", "[capture:'x']"},
		{"argument on not", "[not:x 'a']"},
		{"bad capture name", "[c:1bad 'a']"},
		{"definition without body", "[#x=]"},
		{"stray colon", "['a' : 'b']"},
		{"stray equals", "['a' = 'b']"},
		{"invalid utf-8", "a\xffb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want error", tt.input)
			}
			var serr *Error
			if !errors.As(err, &serr) {
				t.Fatalf("Parse(%q) error = %T, want *Error", tt.input, err)
			}
			if serr.Kind != KindSyntax {
				t.Errorf("Parse(%q) kind = %v, want %v", tt.input, serr.Kind, KindSyntax)
			}
			if !strings.Contains(serr.Error(), "offset") {
				t.Errorf("Parse(%q) error %q does not report an offset", tt.input, serr)
			}
		})
	}
}

// TestParseSpans spot-checks that errors point at the offending construct.
func TestParseSpans(t *testing.T) {
	_, err := Parse("['ok' bogus]")
	var serr *Error
	if !errors.As(err, &serr) {
		t.Fatalf("error = %T, want *Error", err)
	}
	if want := strings.Index("['ok' bogus]", "bogus"); serr.Pos.Begin != want {
		t.Errorf("error offset = %d, want %d", serr.Pos.Begin, want)
	}
}

// TestParserReuse checks that one Parser can parse several inputs.
func TestParserReuse(t *testing.T) {
	p := NewParser()
	for _, input := range []string{"['a']", "bad[", "['b' | 'c']"} {
		tree, err := p.Parse(input)
		if input == "bad[" {
			if err == nil {
				t.Errorf("Parse(%q) succeeded, want error", input)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q) failed: %v", input, err)
		} else if tree.Source != input {
			t.Errorf("tree.Source = %q, want %q", tree.Source, input)
		}
	}
}
