// Package macro holds the built-in macro table of the KE compiler.
//
// The table is initialized once at package load and never mutated; all
// compilations share it by reference. Long names and short aliases live in
// a single namespace, so a user definition may shadow either form.
package macro

import (
	"sort"

	"github.com/coregx/kleenexp/syntax"
)

// Kind discriminates how a built-in macro expands.
type Kind int

const (
	// Raw expands to a regex fragment emitted verbatim.
	Raw Kind = iota
	// Literal expands to text matched literally.
	Literal
	// Anchor expands to a flavor-dependent anchor.
	Anchor
	// KE expands to a definition written in KE itself.
	KE
)

// AnchorKind names the anchors built-in macros can expand to.
type AnchorKind int

const (
	StartString AnchorKind = iota
	EndString
	StartLine
	EndLine
)

// Definition is one row of the built-in macro table.
type Definition struct {
	Name  string
	Short string
	Kind  Kind

	// Frag is the top-level regex fragment for Raw definitions. ClassFrag
	// is the equivalent form legal inside a character class; empty means
	// the macro cannot participate in one.
	Frag      string
	ClassFrag string

	// UnicodeFrag, when non-empty, replaces the expansion with a Unicode
	// property fragment when Unicode translation is enabled.
	UnicodeFrag      string
	UnicodeClassFrag string

	// Text is the literal text for Literal definitions.
	Text string

	// Anchor is the anchor kind for Anchor definitions.
	Anchor AnchorKind

	// Source is the KE body for KE definitions.
	Source string

	tree *syntax.Tree
}

// Tree returns the pre-parsed body of a KE definition.
func (d *Definition) Tree() *syntax.Tree { return d.tree }

var table = make(map[string]*Definition)

// Lookup returns the built-in definition registered under name, which may
// be either the long name or the short alias.
func Lookup(name string) (*Definition, bool) {
	d, ok := table[name]
	return d, ok
}

// Defs returns every built-in definition once, sorted by long name.
func Defs() []*Definition {
	seen := make(map[string]bool, len(table))
	defs := make([]*Definition, 0, len(table))
	for _, d := range table {
		if !seen[d.Name] {
			seen[d.Name] = true
			defs = append(defs, d)
		}
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

func register(d *Definition) {
	if d.Kind == KE {
		t, err := syntax.Parse(d.Source)
		if err != nil {
			panic("macro: built-in #" + d.Name + ": " + err.Error())
		}
		d.tree = t
	}
	if _, ok := table[d.Name]; ok {
		panic("macro: duplicate built-in #" + d.Name)
	}
	table[d.Name] = d
	if d.Short != "" {
		if _, ok := table[d.Short]; ok {
			panic("macro: duplicate built-in #" + d.Short)
		}
		table[d.Short] = d
	}
}

func init() {
	register(&Definition{Name: "any", Kind: Raw, Frag: `.`})

	// Control characters and newlines.
	register(&Definition{Name: "linefeed", Short: "lf", Kind: Raw, Frag: `\n`, ClassFrag: `\n`})
	register(&Definition{Name: "carriage_return", Short: "cr", Kind: Raw, Frag: `\r`, ClassFrag: `\r`})
	register(&Definition{Name: "windows_newline", Short: "crlf", Kind: Raw, Frag: `\r\n`})
	register(&Definition{Name: "tab", Short: "t", Kind: Raw, Frag: `\t`, ClassFrag: `\t`})
	register(&Definition{Name: "formfeed", Short: "ff", Kind: Raw, Frag: `\f`, ClassFrag: `\f`})
	register(&Definition{Name: "vertical_tab", Short: "vt", Kind: Raw, Frag: `\v`, ClassFrag: `\v`})
	register(&Definition{Name: "newline", Short: "n", Kind: KE, Source: `[#crlf | #lf | #cr]`})

	// Character classes. The digit class carries a plain 0-9 range for use
	// inside character classes so combined classes read [0-9a-f] rather
	// than [\da-f].
	register(&Definition{Name: "digit", Short: "d", Kind: Raw, Frag: `\d`, ClassFrag: `0-9`})
	register(&Definition{Name: "not_digit", Short: "nd", Kind: Raw, Frag: `\D`, ClassFrag: `\D`})
	register(&Definition{Name: "space", Short: "sp", Kind: Raw, Frag: `\s`, ClassFrag: `\s`})
	register(&Definition{Name: "not_space", Short: "nsp", Kind: Raw, Frag: `\S`, ClassFrag: `\S`})
	register(&Definition{Name: "token_character", Short: "tc", Kind: Raw, Frag: `\w`, ClassFrag: `\w`})
	register(&Definition{Name: "not_token_character", Short: "ntc", Kind: Raw, Frag: `\W`, ClassFrag: `\W`})
	register(&Definition{
		Name: "letter", Short: "l", Kind: KE,
		Source:      `[#a..z | #A..Z]`,
		UnicodeFrag: `\p{L}`, UnicodeClassFrag: `\p{L}`,
	})
	register(&Definition{
		Name: "not_letter", Short: "nl", Kind: KE,
		Source:      `[not #letter]`,
		UnicodeFrag: `\P{L}`, UnicodeClassFrag: `\P{L}`,
	})
	register(&Definition{
		Name: "lowercase", Short: "lc", Kind: KE,
		Source:      `[#a..z]`,
		UnicodeFrag: `\p{Ll}`, UnicodeClassFrag: `\p{Ll}`,
	})
	register(&Definition{
		Name: "uppercase", Short: "uc", Kind: KE,
		Source:      `[#A..Z]`,
		UnicodeFrag: `\p{Lu}`, UnicodeClassFrag: `\p{Lu}`,
	})

	// Word boundaries.
	register(&Definition{Name: "word_boundary", Short: "wb", Kind: Raw, Frag: `\b`})
	register(&Definition{Name: "not_word_boundary", Short: "nwb", Kind: Raw, Frag: `\B`})

	// Characters KE syntax reserves.
	register(&Definition{Name: "quote", Short: "q", Kind: Literal, Text: `'`})
	register(&Definition{Name: "double_quote", Short: "dq", Kind: Literal, Text: `"`})
	register(&Definition{Name: "left_brace", Short: "lb", Kind: Literal, Text: `[`})
	register(&Definition{Name: "right_brace", Short: "rb", Kind: Literal, Text: `]`})

	// Anchors.
	register(&Definition{Name: "start_string", Short: "ss", Kind: Anchor, Anchor: StartString})
	register(&Definition{Name: "end_string", Short: "es", Kind: Anchor, Anchor: EndString})
	register(&Definition{Name: "start_line", Short: "sl", Kind: Anchor, Anchor: StartLine})
	register(&Definition{Name: "end_line", Short: "el", Kind: Anchor, Anchor: EndLine})

	// Composite definitions written in KE.
	register(&Definition{Name: "hex_digit", Short: "hexd", Kind: KE, Source: `[#digit | #a..f | #A..F]`})
	register(&Definition{Name: "token", Kind: KE, Source: `[[#letter | '_'] [0+ #token_character]]`})
	register(&Definition{Name: "integer", Short: "int", Kind: KE, Source: `[[0-1 ['-' | '+']] [1+ #digit]]`})
	register(&Definition{Name: "unsigned_integer", Short: "uint", Kind: KE, Source: `[1+ #digit]`})
	register(&Definition{Name: "real", Kind: KE, Source: `[#integer [0-1 ['.' [1+ #digit]]]]`})
}
