package ast

import (
	"errors"
	"testing"

	"github.com/coregx/kleenexp/syntax"
)

func lower(t *testing.T, source string, cfg Config) Node {
	t.Helper()
	tree, err := syntax.Parse(source)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", source, err)
	}
	n, err := Lower(tree, cfg)
	if err != nil {
		t.Fatalf("Lower(%q) failed: %v", source, err)
	}
	return n
}

func lowerErr(t *testing.T, source string, cfg Config) *syntax.Error {
	t.Helper()
	tree, err := syntax.Parse(source)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", source, err)
	}
	_, err = Lower(tree, cfg)
	if err == nil {
		t.Fatalf("Lower(%q) succeeded, want error", source)
	}
	var serr *syntax.Error
	if !errors.As(err, &serr) {
		t.Fatalf("Lower(%q) error = %T, want *syntax.Error", source, err)
	}
	return serr
}

// TestLower checks lowered shapes through Format.
func TestLower(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"x", `"x"`},
		{"['x']", `"x"`},
		{"x[]y", `"xy"`},
		{"[]", "{}"},
		{"[#d]", `(raw \d)`},
		{"['a' 'b']", `"ab"`},
		{"['a' | 'b']", "[ab]"},
		{"['ab' | 'c']", `(or "ab" "c")`},
		{"[1+ #d]", `(repeat (raw \d) 1 -1)`},
		{"[0-1 'a']", `(repeat "a" 0 1)`},
		{"[1 'a']", `(repeat "a" 1 1)`},
		{"[1+:fewest #d]", `(repeat (raw \d) 1 -1 fewest)`},
		{"[c 1+ #d]", `(capture (repeat (raw \d) 1 -1))`},
		{"[capture:y 2 #d]", `(capture (repeat (raw \d) 2 2) y)`},
		{"[ci 'a']", `(flags i "a")`},
		{"[comment 'secret']", "{}"},
		{"[not 'a']", "[^a]"},
		{"[not ['a' | 'b']]", "[^ab]"},
		{"[not [not ['a' | 'b']]]", "[ab]"},
		{"[not #d]", "[^0-9]"},
		{"[#digit | #a..f]", "[0-9a-f]"},
		{"[#a..f]", "[a-f]"},
		{"[#letter]", "[a-zA-Z]"},
		{"[#start_line]", "(anchor start-line)"},
		{"[#end_string]", "(anchor end-string)"},
		{"[#lb]", `"["`},
		{"[#newline]", `(or (raw \r\n) (raw \n) (raw \r))`},
		{"[#hex_digit]", "[0-9a-fA-F]"},
		{"['#' [6 #h] #h=[#digit | #a..f]]", `{"#" (repeat [0-9a-f] 6 6)}`},
		{"[#d=['x'] #d]", `"x"`},
		{"[#x=['out'] [#x=['in'] #x] #x]", `"inout"`},
		{"[#a=['A'] [#a=['B'] #b] #b=[#a]]", `"A"`},
	}

	for _, tt := range tests {
		got := Format(lower(t, tt.input, DefaultConfig()))
		if got != tt.want {
			t.Errorf("Lower(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

// TestLowerUnicode checks the Unicode switch for the letter-class macros.
func TestLowerUnicode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Unicode = true
	tests := []struct {
		input string
		want  string
	}{
		{"[#letter]", `(raw \p{L})`},
		{"[#not_letter]", `(raw \P{L})`},
		{"[#lowercase]", `(raw \p{Ll})`},
		{"[#uppercase]", `(raw \p{Lu})`},
		{"[not #letter]", `[^\p{L}]`},
		{"[#digit]", `(raw \d)`},
	}
	for _, tt := range tests {
		got := Format(lower(t, tt.input, cfg))
		if got != tt.want {
			t.Errorf("Lower(%q) unicode = %s, want %s", tt.input, got, tt.want)
		}
	}
}

// TestLowerIdempotent checks that wrapping an expression in braces does not
// change its lowered form.
func TestLowerIdempotent(t *testing.T) {
	pairs := [][2]string{
		{"['x']", "[['x']]"},
		{"[1+ #d]", "[[1+ #d]]"},
		{"['a' | 'b']", "[['a' | 'b']]"},
	}
	for _, pair := range pairs {
		a := Format(lower(t, pair[0], DefaultConfig()))
		b := Format(lower(t, pair[1], DefaultConfig()))
		if a != b {
			t.Errorf("Lower(%q) = %s but Lower(%q) = %s", pair[0], a, pair[1], b)
		}
	}
}

func TestLowerErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  syntax.ErrorKind
	}{
		{"unknown macro", "[#unknown]", syntax.KindUnknownMacro},
		{"unknown in unused def", "[#x=[#nope] 'a']", syntax.KindUnknownMacro},
		{"cyclic defs", "[#a=#b #b=#a]", syntax.KindCyclicMacro},
		{"self cycle", "[#a=[#a]]", syntax.KindCyclicMacro},
		{"duplicate def", "[#x=['a'] #x=['b']]", syntax.KindDuplicateDefinition},
		{"descending range", "[#b..a]", syntax.KindInvalidRange},
		{"equal range", "[#a..a]", syntax.KindInvalidRange},
		{"mixed range", "[#a..Z]", syntax.KindInvalidRange},
		{"negated literal run", "[not 'ab']", syntax.KindInvalidNegation},
		{"negated repeat", "[not [1+ #d]]", syntax.KindInvalidNegation},
		{"negated anchor", "[not #start_line]", syntax.KindInvalidNegation},
		{"capture without body", "[capture]", syntax.KindSyntax},
		{"repeat without body", "[1+]", syntax.KindSyntax},
		{"duplicate capture name", "[c:x 'a'][c:x 'b']", syntax.KindSyntax},
		{"duplicate capture via macro", "[[#p] [#p] #p=[c:n #d]]", syntax.KindSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serr := lowerErr(t, tt.input, DefaultConfig())
			if serr.Kind != tt.kind {
				t.Errorf("Lower(%q) kind = %v, want %v", tt.input, serr.Kind, tt.kind)
			}
		})
	}
}

// TestLowerExpansionDepth checks the configurable recursion bound.
func TestLowerExpansionDepth(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxExpansionDepth = 2
	serr := lowerErr(t, "[#a=[#b] #b=[#c] #c=['x'] #a]", cfg)
	if serr.Kind != syntax.KindExpansionDepth {
		t.Errorf("kind = %v, want %v", serr.Kind, syntax.KindExpansionDepth)
	}

	// the same chain fits under the default limit
	got := Format(lower(t, "[#a=[#b] #b=[#c] #c=['x'] #a]", DefaultConfig()))
	if got != `"x"` {
		t.Errorf("Lower = %s, want %q", got, `"x"`)
	}
}

// TestLowerCaptureReuseAcrossValidation verifies that validating unused
// definitions does not poison capture-name tracking.
func TestLowerCaptureReuseAcrossValidation(t *testing.T) {
	got := Format(lower(t, "[#p=[c:n #d] #p]", DefaultConfig()))
	if want := `(capture (raw \d) n)`; got != want {
		t.Errorf("Lower = %s, want %s", got, want)
	}
}
