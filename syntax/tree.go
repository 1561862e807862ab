package syntax

// Node is a node of the concrete KE parse tree.
type Node interface {
	Span() Position
}

// Tree is the parse result for one KE source string. The top level is a
// sequence of outer literals and braces.
type Tree struct {
	Source string
	Nodes  []Node
}

// OuterLiteral is a maximal run of characters outside any brackets. It is
// matched verbatim; whitespace and quotes inside it are literal.
type OuterLiteral struct {
	Pos  Position
	Text string
}

// InnerLiteral is the contents of a quoted string inside braces, without the
// quotes. There are no escape sequences; the alternate quote character is
// available for literals containing the other.
type InnerLiteral struct {
	Pos  Position
	Text string
}

// Braces is a bracketed [...] form. Body is nil for the empty form, or one
// of *MatchesSeq, *Either, *OpsMatches.
type Braces struct {
	Pos  Position
	Body Node
}

// MatchesSeq is a whitespace-separated sequence of matches, concatenated in
// the output.
type MatchesSeq struct {
	Pos  Position
	List []Node
}

// Either is a pipe-separated alternation of two or more match sequences.
type Either struct {
	Pos      Position
	Branches []*MatchesSeq
}

// OpsMatches is a non-empty operator chain followed by an optional match
// sequence. Operators fold outside-in: the left operator wraps the result
// of the right.
type OpsMatches struct {
	Pos     Position
	Ops     []*Op
	Matches *MatchesSeq
}

// OpKind discriminates the operator forms recognized inside braces.
type OpKind int

const (
	// OpRepeat covers the numeric forms N, N+ and N-M.
	OpRepeat OpKind = iota
	// OpCapture is capture / c, optionally with a group name.
	OpCapture
	// OpNot negates a single-character subexpression.
	OpNot
	// OpComment discards the following matches from emission.
	OpComment
	// OpCaseInsensitive wraps the following matches in an inline
	// case-insensitivity group.
	OpCaseInsensitive
)

// Op is a single operator of an OpsMatches chain. For OpRepeat, Min and Max
// carry the bounds (Max < 0 means unbounded) and Fewest marks the
// non-greedy ":fewest" form. For OpCapture, Capture holds the group name,
// if any.
type Op struct {
	Pos     Position
	Name    string
	Kind    OpKind
	Min     int
	Max     int
	Fewest  bool
	Capture string
}

// MacroRef is a #name reference, without the '#'.
type MacroRef struct {
	Pos  Position
	Name string
}

// RangeMacro is the #a..b form. Both endpoints must belong to the same
// character class and be strictly ordered; the resolver validates that.
type RangeMacro struct {
	Pos Position
	Lo  byte
	Hi  byte
}

// Def is a user macro definition #name=body. Its scope is the whole
// enclosing braces; definitions and uses may appear in any order there.
type Def struct {
	Pos  Position
	Name string
	Body Node
}

func (n *OuterLiteral) Span() Position { return n.Pos }
func (n *InnerLiteral) Span() Position { return n.Pos }
func (n *Braces) Span() Position       { return n.Pos }
func (n *MatchesSeq) Span() Position   { return n.Pos }
func (n *Either) Span() Position       { return n.Pos }
func (n *OpsMatches) Span() Position   { return n.Pos }
func (n *Op) Span() Position           { return n.Pos }
func (n *MacroRef) Span() Position     { return n.Pos }
func (n *RangeMacro) Span() Position   { return n.Pos }
func (n *Def) Span() Position          { return n.Pos }
