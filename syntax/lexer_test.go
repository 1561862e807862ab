package syntax

import (
	"strings"
	"testing"
)

// TestLexerTokens checks token classification for representative inputs.
func TestLexerTokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"outer literal", "abc def", "literal"},
		{"outer around braces", "a[]b", "literal '[' ']' literal"},
		{"quoted", "['a' \"b\"]", "'[' quoted literal quoted literal ']'"},
		{"operator and macro", "[1+ #d]", "'[' operator macro ']'"},
		{"range macro", "[#a..f]", "'[' range macro ']'"},
		{"op argument", "[capture:year 'x']", "'[' operator ':' operator quoted literal ']'"},
		{"definition", "[#h=['x']]", "'[' macro '=' '[' quoted literal ']' ']'"},
		{"pipe", "['a' | 'b']", "'[' quoted literal '|' quoted literal ']'"},
		{"adjacent braces", "[#d][#l]", "'[' macro ']' '[' macro ']'"},
		{"quotes outside are literal", "it's", "literal"},
		{"hash outside is literal", "#d", "literal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l lexer
			if err := l.Init(tt.input); err != nil {
				t.Fatalf("Init(%q) failed: %v", tt.input, err)
			}
			var kinds []string
			for l.HasMoreTokens() {
				kinds = append(kinds, l.NextToken().kind.String())
			}
			if got := strings.Join(kinds, " "); got != tt.want {
				t.Errorf("Init(%q) tokens = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

// TestLexerPadding checks the whitespace rule: the boundary before '[' and
// after ']' counts as whitespace, nothing else does.
func TestLexerPadding(t *testing.T) {
	var l lexer
	if err := l.Init("[#d][#l]"); err != nil {
		t.Fatal(err)
	}
	if !l.tokens[3].padded {
		t.Error("'[' after ']' should count as padded")
	}

	if err := l.Init("['a''b']"); err != nil {
		t.Fatal(err)
	}
	if l.tokens[2].padded {
		t.Error("adjacent quoted literals should not count as padded")
	}

	if err := l.Init("['a' 'b']"); err != nil {
		t.Fatal(err)
	}
	if !l.tokens[2].padded {
		t.Error("whitespace-separated literals should count as padded")
	}
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		input   string
		wantSub string
	}{
		{"]", "unmatched ']'"},
		{"a]b", "unmatched ']'"},
		{"[", "unmatched '['"},
		{"[['a']", "unmatched '['"},
		{"['abc]", "unmatched"},
		{"[\"abc]", "unmatched"},
		{"[#]", "macro name"},
		{"[é]", "unexpected character"},
	}

	for _, tt := range tests {
		var l lexer
		err := l.Init(tt.input)
		if err == nil {
			t.Errorf("Init(%q) succeeded, want error containing %q", tt.input, tt.wantSub)
			continue
		}
		if !strings.Contains(err.Error(), tt.wantSub) {
			t.Errorf("Init(%q) error = %q, want substring %q", tt.input, err, tt.wantSub)
		}
	}
}

func TestLexerUnmatchedOpenPosition(t *testing.T) {
	var l lexer
	err := l.Init("ab[cd")
	serr, ok := err.(*Error)
	if !ok {
		t.Fatalf("Init error = %T, want *Error", err)
	}
	if serr.Pos.Begin != 2 {
		t.Errorf("error offset = %d, want 2 (the opening bracket)", serr.Pos.Begin)
	}
}
