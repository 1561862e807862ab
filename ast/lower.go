package ast

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/coregx/kleenexp/internal/chartype"
	"github.com/coregx/kleenexp/macro"
	"github.com/coregx/kleenexp/syntax"
)

// DefaultMaxExpansionDepth bounds recursive macro expansion unless the
// caller configures another limit.
const DefaultMaxExpansionDepth = 100

// Config controls lowering.
type Config struct {
	// Unicode maps the letter-class macros to Unicode property classes.
	Unicode bool

	// MaxExpansionDepth bounds recursive macro expansion. Zero selects
	// DefaultMaxExpansionDepth.
	MaxExpansionDepth int
}

// DefaultConfig returns the default lowering configuration.
func DefaultConfig() Config {
	return Config{MaxExpansionDepth: DefaultMaxExpansionDepth}
}

// Lower transforms a parse tree into the normalized AST. Macro references
// are resolved and inlined, operators are folded onto their operands, and
// negation is combined into character classes. Errors carry the source span
// of the construct that caused them.
func Lower(tree *syntax.Tree, cfg Config) (n Node, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if e, ok := r.(*syntax.Error); ok {
			n, err = nil, e
			return
		}
		panic(r)
	}()

	if cfg.MaxExpansionDepth <= 0 {
		cfg.MaxExpansionDepth = DefaultMaxExpansionDepth
	}
	l := &lowerer{cfg: cfg}
	return l.nodes(tree.Nodes), nil
}

type scope map[string]*syntax.Def

type lowerer struct {
	cfg       Config
	scopes    []scope
	expanding []string
	captures  map[string]bool

	// validating suppresses capture-name bookkeeping while definition
	// bodies are expanded for validation only.
	validating bool
}

func throwf(kind syntax.ErrorKind, pos syntax.Position, format string, args ...any) {
	panic(syntax.Errorf(kind, pos, format, args...))
}

// nodes lowers a sequence of parse nodes to a single AST node, merging
// adjacent literals and collapsing trivial shapes. It serves both the top
// level of the pattern and match sequences inside braces.
func (l *lowerer) nodes(list []syntax.Node) Node {
	seq := make([]Node, 0, len(list))
	for _, n := range list {
		if _, ok := n.(*syntax.Def); ok {
			// definitions contribute nothing to the output
			continue
		}
		seq = appendNode(seq, l.match(n))
	}
	return collapse(seq)
}

// appendNode appends n to seq, splicing nested concatenations and merging
// adjacent literals.
func appendNode(seq []Node, n Node) []Node {
	switch v := n.(type) {
	case *Concat:
		for _, c := range v.Children {
			seq = appendNode(seq, c)
		}
		return seq
	case *Literal:
		if len(seq) > 0 {
			if last, ok := seq[len(seq)-1].(*Literal); ok {
				seq[len(seq)-1] = &Literal{Text: last.Text + v.Text}
				return seq
			}
		}
	}
	return append(seq, n)
}

func collapse(seq []Node) Node {
	switch len(seq) {
	case 0:
		return &Concat{}
	case 1:
		return seq[0]
	}
	return &Concat{Children: seq}
}

func (l *lowerer) match(n syntax.Node) Node {
	switch v := n.(type) {
	case *syntax.OuterLiteral:
		return &Literal{Text: v.Text}
	case *syntax.InnerLiteral:
		return &Literal{Text: v.Text}
	case *syntax.MacroRef:
		return l.expandRef(v)
	case *syntax.RangeMacro:
		return l.rangeClass(v)
	case *syntax.Braces:
		return l.braces(v)
	}
	throwf(syntax.KindSyntax, n.Span(), "unexpected node in match position")
	return nil
}

func (l *lowerer) braces(b *syntax.Braces) Node {
	defs := collectDefs(b)
	l.scopes = append(l.scopes, defs)
	l.validateDefs(defs)

	var result Node
	switch body := b.Body.(type) {
	case nil:
		result = &Concat{}
	case *syntax.MatchesSeq:
		result = l.nodes(body.List)
	case *syntax.Either:
		result = l.either(body)
	case *syntax.OpsMatches:
		result = l.ops(body)
	default:
		throwf(syntax.KindSyntax, b.Pos, "unexpected braces body")
	}

	l.scopes = l.scopes[:len(l.scopes)-1]
	return result
}

// collectDefs gathers the user definitions whose scope is braces b: the
// definitions appearing directly in its body, including inside alternation
// branches, but not inside nested braces.
func collectDefs(b *syntax.Braces) scope {
	s := scope{}
	add := func(list []syntax.Node) {
		for _, n := range list {
			d, ok := n.(*syntax.Def)
			if !ok {
				continue
			}
			if _, dup := s[d.Name]; dup {
				throwf(syntax.KindDuplicateDefinition, d.Pos, "macro #%s defined twice in the same braces", d.Name)
			}
			s[d.Name] = d
		}
	}
	switch body := b.Body.(type) {
	case *syntax.MatchesSeq:
		add(body.List)
	case *syntax.Either:
		for _, br := range body.Branches {
			add(br.List)
		}
	case *syntax.OpsMatches:
		if body.Matches != nil {
			add(body.Matches.List)
		}
	}
	return s
}

// validateDefs expands every definition of the scope once with the result
// discarded, so unused definitions still surface unknown references and
// cycles. Expansion at use sites repeats the work; lowering is cheap enough
// that caching is not worth carrying state for.
func (l *lowerer) validateDefs(defs scope) {
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)
	saved := l.validating
	l.validating = true
	for _, name := range names {
		l.enter(name, defs[name].Pos)
		l.match(defs[name].Body)
		l.leave()
	}
	l.validating = saved
}

func (l *lowerer) either(e *syntax.Either) Node {
	children := make([]Node, 0, len(e.Branches))
	for _, br := range e.Branches {
		children = append(children, l.nodes(br.List))
	}
	return makeAlt(children)
}

// makeAlt folds an alternation whose branches all denote single characters
// into a positive character class; the language is identical and the
// emitted form shorter.
func makeAlt(children []Node) Node {
	if items, ok := classItems(children); ok {
		return &CharClass{Items: items}
	}
	return &Alt{Children: children}
}

// classItems flattens nodes into character class members. It fails when any
// node denotes something other than a single character, a positive class or
// a class-legal raw fragment.
func classItems(nodes []Node) ([]ClassItem, bool) {
	var items []ClassItem
	for _, n := range nodes {
		switch v := n.(type) {
		case *Literal:
			r, size := utf8.DecodeRuneInString(v.Text)
			if size == 0 || size != len(v.Text) {
				return nil, false
			}
			items = append(items, ClassItem{Kind: ClassChar, Lo: r})
		case *CharClass:
			if v.Negated {
				return nil, false
			}
			items = append(items, v.Items...)
		case *Raw:
			if v.ClassFrag == "" {
				return nil, false
			}
			items = append(items, ClassItem{Kind: ClassRaw, Frag: v.ClassFrag})
		default:
			return nil, false
		}
	}
	return items, true
}

// ops folds an operator chain onto its lowered matches, rightmost operator
// first so the leftmost ends up outermost.
func (l *lowerer) ops(om *syntax.OpsMatches) Node {
	var result Node
	hasBody := om.Matches != nil
	if hasBody {
		result = l.nodes(om.Matches.List)
	}

	for i := len(om.Ops) - 1; i >= 0; i-- {
		op := om.Ops[i]
		if op.Kind == syntax.OpComment {
			result = &Concat{}
			hasBody = true
			continue
		}
		if !hasBody {
			throwf(syntax.KindSyntax, op.Pos, "operator %q requires a body", op.Name)
		}
		switch op.Kind {
		case syntax.OpRepeat:
			result = &Repeat{Child: result, Min: op.Min, Max: op.Max, Greedy: !op.Fewest}
		case syntax.OpCapture:
			l.recordCapture(op)
			result = &Capture{Child: result, Name: op.Capture}
		case syntax.OpNot:
			result = negate(result, op.Pos)
		case syntax.OpCaseInsensitive:
			result = &InlineFlags{Child: result, Flags: "i", Pos: op.Pos}
		}
	}
	return result
}

// recordCapture rejects a group name used twice; host engines refuse such
// patterns, so translation must too.
func (l *lowerer) recordCapture(op *syntax.Op) {
	if op.Capture == "" || l.validating {
		return
	}
	if l.captures == nil {
		l.captures = make(map[string]bool)
	}
	if l.captures[op.Capture] {
		throwf(syntax.KindSyntax, op.Pos, "duplicate capture name %q", op.Capture)
	}
	l.captures[op.Capture] = true
}

// negate builds the negated character class for n. Nested negation cancels
// by toggling the flag.
func negate(n Node, pos syntax.Position) Node {
	switch v := n.(type) {
	case *CharClass:
		return &CharClass{Items: v.Items, Negated: !v.Negated}
	case *Alt:
		if items, ok := classItems(v.Children); ok {
			return &CharClass{Items: items, Negated: true}
		}
	default:
		if items, ok := classItems([]Node{n}); ok {
			return &CharClass{Items: items, Negated: true}
		}
	}
	throwf(syntax.KindInvalidNegation, pos, "'not' applies only to single characters and character classes")
	return nil
}

func (l *lowerer) rangeClass(v *syntax.RangeMacro) Node {
	cl, ch := chartype.Of(v.Lo), chartype.Of(v.Hi)
	if cl == chartype.None || cl != ch {
		throwf(syntax.KindInvalidRange, v.Pos, "range endpoints %q and %q must come from the same character class", v.Lo, v.Hi)
	}
	if v.Lo >= v.Hi {
		throwf(syntax.KindInvalidRange, v.Pos, "range endpoints %q and %q must be strictly increasing", v.Lo, v.Hi)
	}
	return &CharClass{Items: []ClassItem{{Kind: ClassRange, Lo: rune(v.Lo), Hi: rune(v.Hi)}}}
}

// expandRef resolves a macro reference against the nearest enclosing scope
// that defines it, walking outward, and falls back to the built-in table.
func (l *lowerer) expandRef(ref *syntax.MacroRef) Node {
	for i := len(l.scopes) - 1; i >= 0; i-- {
		if def, ok := l.scopes[i][ref.Name]; ok {
			return l.expandUser(ref, def, i)
		}
	}
	d, ok := macro.Lookup(ref.Name)
	if !ok {
		throwf(syntax.KindUnknownMacro, ref.Pos, "unknown macro #%s", ref.Name)
	}
	return l.expandBuiltin(ref, d)
}

// expandUser lowers a user definition body in the lexical scope chain of
// its definition site, so inner shadowing at the use site cannot leak in.
func (l *lowerer) expandUser(ref *syntax.MacroRef, def *syntax.Def, scopeIdx int) Node {
	l.enter(ref.Name, ref.Pos)
	saved := l.scopes
	l.scopes = append([]scope(nil), saved[:scopeIdx+1]...)
	n := l.match(def.Body)
	l.scopes = saved
	l.leave()
	return n
}

func (l *lowerer) expandBuiltin(ref *syntax.MacroRef, d *macro.Definition) Node {
	if l.cfg.Unicode && d.UnicodeFrag != "" {
		return &Raw{Frag: d.UnicodeFrag, ClassFrag: d.UnicodeClassFrag}
	}
	switch d.Kind {
	case macro.Raw:
		return &Raw{Frag: d.Frag, ClassFrag: d.ClassFrag}
	case macro.Literal:
		return &Literal{Text: d.Text}
	case macro.Anchor:
		return &Anchor{Kind: anchorKind(d.Anchor), Pos: ref.Pos}
	case macro.KE:
		l.enter(d.Name, ref.Pos)
		saved := l.scopes
		l.scopes = nil // built-in bodies see only other built-ins
		n := l.nodes(d.Tree().Nodes)
		l.scopes = saved
		l.leave()
		return n
	}
	throwf(syntax.KindUnknownMacro, ref.Pos, "unknown macro #%s", ref.Name)
	return nil
}

func anchorKind(k macro.AnchorKind) AnchorKind {
	switch k {
	case macro.StartString:
		return StartString
	case macro.EndString:
		return EndString
	case macro.StartLine:
		return StartLine
	}
	return EndLine
}

// enter pushes name onto the expansion stack, failing on cycles and on the
// configured depth limit.
func (l *lowerer) enter(name string, pos syntax.Position) {
	for _, active := range l.expanding {
		if active == name {
			chain := strings.Join(append(l.expanding, name), " -> ")
			throwf(syntax.KindCyclicMacro, pos, "cyclic macro definition: %s", chain)
		}
	}
	if len(l.expanding) >= l.cfg.MaxExpansionDepth {
		throwf(syntax.KindExpansionDepth, pos, "macro expansion exceeds %d levels", l.cfg.MaxExpansionDepth)
	}
	l.expanding = append(l.expanding, name)
}

func (l *lowerer) leave() {
	l.expanding = l.expanding[:len(l.expanding)-1]
}
