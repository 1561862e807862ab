// Package ast defines the normalized KE syntax tree and the lowering pass
// that produces it from a parse tree.
//
// The node set is a small closed union; consumers switch exhaustively over
// the implementations instead of dispatching through methods. Macros are
// inlined during lowering, so the normalized tree contains no references.
package ast

import "github.com/coregx/kleenexp/syntax"

// Node is a normalized AST node. The set of implementations is fixed.
type Node interface {
	node()
}

// Literal is text matched verbatim.
type Literal struct {
	Text string
}

// Concat matches its children in sequence. A Concat with no children
// matches the empty string.
type Concat struct {
	Children []Node
}

// Alt matches any one of its children.
type Alt struct {
	Children []Node
}

// Repeat matches Child between Min and Max times. Max < 0 means unbounded.
type Repeat struct {
	Child  Node
	Min    int
	Max    int
	Greedy bool
}

// Capture is a capturing group, optionally named.
type Capture struct {
	Child Node
	Name  string
}

// InlineFlags wraps Child in an inline flag group such as (?i:...).
type InlineFlags struct {
	Child Node
	Flags string
	Pos   syntax.Position
}

// ClassItemKind discriminates character class members.
type ClassItemKind int

const (
	// ClassChar is a single character; Lo holds it.
	ClassChar ClassItemKind = iota
	// ClassRange is an inclusive Lo-Hi range.
	ClassRange
	// ClassRaw is a fragment inlined verbatim, such as 0-9 or \s.
	ClassRaw
)

// ClassItem is one member of a character class.
type ClassItem struct {
	Kind ClassItemKind
	Lo   rune
	Hi   rune
	Frag string
}

// CharClass is a character class. Negation produced by the 'not' operator
// is normalized into the Negated flag during lowering, so no separate
// negation node survives to emission.
type CharClass struct {
	Items   []ClassItem
	Negated bool
}

// AnchorKind names the zero-width positions anchors assert.
type AnchorKind int

const (
	StartString AnchorKind = iota
	EndString
	StartLine
	EndLine
)

// Anchor asserts a position; its emitted form depends on the flavor and the
// multiline mode.
type Anchor struct {
	Kind AnchorKind
	Pos  syntax.Position
}

// Raw is a regex fragment authored for the target flavor, such as \d.
// ClassFrag, when non-empty, is the equivalent fragment legal inside a
// character class.
type Raw struct {
	Frag      string
	ClassFrag string
}

func (*Literal) node()     {}
func (*Concat) node()      {}
func (*Alt) node()         {}
func (*Repeat) node()      {}
func (*Capture) node()     {}
func (*InlineFlags) node() {}
func (*CharClass) node()   {}
func (*Anchor) node()      {}
func (*Raw) node()         {}
