package syntax

import (
	"strconv"
	"unicode/utf8"
)

// Parser parses KE source strings into parse trees. The zero value is ready
// to use. A Parser may be reused across inputs but not shared between
// goroutines.
type Parser struct {
	lexer lexer
}

// NewParser returns a fresh Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse parses a KE source string with a one-off Parser.
func Parse(source string) (*Tree, error) {
	return NewParser().Parse(source)
}

// Parse parses source and returns the concrete tree, or an *Error carrying
// the offending source span.
func (p *Parser) Parse(source string) (tree *Tree, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if e, ok := r.(*Error); ok {
			tree, err = nil, e
			return
		}
		panic(r)
	}()

	if !utf8.ValidString(source) {
		return nil, Errorf(KindSyntax, Position{0, len(source)}, "pattern is not valid UTF-8")
	}
	if err := p.lexer.Init(source); err != nil {
		return nil, err
	}
	if !p.lexer.HasMoreTokens() {
		return nil, Errorf(KindSyntax, Position{0, 0}, "empty pattern")
	}

	t := &Tree{Source: source}
	for p.lexer.HasMoreTokens() {
		tok := p.lexer.NextToken()
		switch tok.kind {
		case tokOuterLiteral:
			t.Nodes = append(t.Nodes, &OuterLiteral{Pos: tok.pos, Text: p.lexer.text(tok)})
		case tokLBracket:
			t.Nodes = append(t.Nodes, p.parseBraces(tok))
		default:
			throwf(KindSyntax, tok.pos, "unexpected %s", tok.kind)
		}
	}
	return t, nil
}

func (p *Parser) expect(kind tokenKind) token {
	tok := p.lexer.NextToken()
	if tok.kind != kind {
		throwf(KindSyntax, tok.pos, "expected %s, found %s", kind, tok.kind)
	}
	return tok
}

// parseBraces parses the body after a consumed '['. The first token decides
// the body form: a bareword starts an operator chain, anything else starts a
// match sequence that a '|' may promote to an alternation.
func (p *Parser) parseBraces(lb token) *Braces {
	var body Node
	switch p.lexer.Peek().kind {
	case tokRBracket:
		// the explicit empty form []
	case tokBareword:
		body = p.parseOpsMatches()
	default:
		body = p.parseAlternation()
	}
	rb := p.expect(tokRBracket)
	return &Braces{Pos: Position{lb.pos.Begin, rb.pos.End}, Body: body}
}

func (p *Parser) parseOpsMatches() *OpsMatches {
	ops := []*Op{p.parseOp(p.lexer.NextToken())}
	for p.lexer.Peek().kind == tokBareword {
		tok := p.lexer.NextToken()
		if !tok.padded {
			throwf(KindSyntax, tok.pos, "whitespace required before operator")
		}
		ops = append(ops, p.parseOp(tok))
	}

	var matches *MatchesSeq
	if first := p.lexer.Peek(); isMatchStart(first.kind) {
		if !first.padded {
			throwf(KindSyntax, first.pos, "whitespace required between operator and matches")
		}
		matches = p.parseMatches()
	}
	if pipe := p.lexer.Peek(); pipe.kind == tokPipe {
		throwf(KindSyntax, pipe.pos, "operators cannot be combined with '|' in the same braces")
	}

	pos := Position{ops[0].Pos.Begin, ops[len(ops)-1].Pos.End}
	if matches != nil {
		pos.End = matches.Pos.End
	}
	return &OpsMatches{Pos: pos, Ops: ops, Matches: matches}
}

func (p *Parser) parseAlternation() Node {
	first := p.parseMatches()
	if p.lexer.Peek().kind != tokPipe {
		return first
	}
	if len(first.List) == 0 {
		throwf(KindSyntax, p.lexer.Peek().pos, "empty alternation branch")
	}

	branches := []*MatchesSeq{first}
	for p.lexer.Peek().kind == tokPipe {
		pipe := p.lexer.NextToken()
		m := p.parseMatches()
		if len(m.List) == 0 {
			throwf(KindSyntax, pipe.pos, "empty alternation branch")
		}
		branches = append(branches, m)
	}
	last := branches[len(branches)-1]
	return &Either{Pos: Position{first.Pos.Begin, last.Pos.End}, Branches: branches}
}

func (p *Parser) parseMatches() *MatchesSeq {
	seq := &MatchesSeq{Pos: Position{p.lexer.Peek().pos.Begin, p.lexer.Peek().pos.Begin}}
	for {
		tok := p.lexer.Peek()
		if !isMatchStart(tok.kind) {
			break
		}
		if len(seq.List) > 0 && !tok.padded {
			throwf(KindSyntax, tok.pos, "whitespace required between matches")
		}
		seq.List = append(seq.List, p.parseMatch())
	}
	if n := len(seq.List); n > 0 {
		seq.Pos = Position{seq.List[0].Span().Begin, seq.List[n-1].Span().End}
	}
	return seq
}

func isMatchStart(kind tokenKind) bool {
	switch kind {
	case tokQuoted, tokMacro, tokRangeMacro, tokLBracket:
		return true
	}
	return false
}

func (p *Parser) parseMatch() Node {
	tok := p.lexer.NextToken()
	switch tok.kind {
	case tokQuoted:
		text := p.lexer.text(tok)
		return &InnerLiteral{Pos: tok.pos, Text: text[1 : len(text)-1]}
	case tokRangeMacro:
		text := p.lexer.text(tok) // "#a..b"
		return &RangeMacro{Pos: tok.pos, Lo: text[1], Hi: text[4]}
	case tokMacro:
		if p.lexer.Peek().kind == tokEq {
			return p.parseDef(tok)
		}
		return &MacroRef{Pos: tok.pos, Name: p.lexer.text(tok)[1:]}
	case tokLBracket:
		return p.parseBraces(tok)
	}
	throwf(KindSyntax, tok.pos, "unexpected %s", tok.kind)
	return nil
}

func (p *Parser) parseDef(macroTok token) *Def {
	eq := p.expect(tokEq)
	name := p.lexer.text(macroTok)[1:]

	var body Node
	switch p.lexer.Peek().kind {
	case tokLBracket:
		body = p.parseBraces(p.lexer.NextToken())
	case tokMacro:
		tok := p.lexer.NextToken()
		body = &MacroRef{Pos: tok.pos, Name: p.lexer.text(tok)[1:]}
	case tokQuoted:
		tok := p.lexer.NextToken()
		text := p.lexer.text(tok)
		body = &InnerLiteral{Pos: tok.pos, Text: text[1 : len(text)-1]}
	case tokRangeMacro:
		tok := p.lexer.NextToken()
		text := p.lexer.text(tok)
		body = &RangeMacro{Pos: tok.pos, Lo: text[1], Hi: text[4]}
	default:
		throwf(KindSyntax, Position{macroTok.pos.Begin, eq.pos.End}, "macro definition requires a body")
	}
	return &Def{Pos: Position{macroTok.pos.Begin, body.Span().End}, Name: name, Body: body}
}

// parseOp classifies a bareword operator token, including the numeric
// quantifier forms, and consumes an optional ':argument'.
func (p *Parser) parseOp(tok token) *Op {
	name := p.lexer.text(tok)
	op := &Op{Pos: tok.pos, Name: name}

	var arg string
	if p.lexer.Peek().kind == tokColon {
		colon := p.lexer.NextToken()
		argTok := p.lexer.Peek()
		if argTok.kind != tokBareword || argTok.padded {
			throwf(KindSyntax, colon.pos, "':' must be followed by an operator argument")
		}
		p.lexer.NextToken()
		arg = p.lexer.text(argTok)
		op.Pos.End = argTok.pos.End
	}

	if name[0] >= '0' && name[0] <= '9' {
		op.Kind = OpRepeat
		op.Min, op.Max = parseRepeatBounds(name, op.Pos)
		switch arg {
		case "":
		case "fewest":
			if op.Min == op.Max {
				throwf(KindSyntax, op.Pos, "':fewest' requires an open repetition, not %q", name)
			}
			op.Fewest = true
		default:
			throwf(KindSyntax, op.Pos, "unknown repetition modifier %q", arg)
		}
		return op
	}

	switch name {
	case "capture", "c":
		op.Kind = OpCapture
		if arg != "" {
			if !isCaptureName(arg) {
				throwf(KindSyntax, op.Pos, "invalid capture name %q", arg)
			}
			op.Capture = arg
		}
		return op
	case "not":
		op.Kind = OpNot
	case "comment":
		op.Kind = OpComment
	case "case_insensitive", "ci":
		op.Kind = OpCaseInsensitive
	default:
		throwf(KindSyntax, tok.pos, "unknown operator %q", name)
	}
	if arg != "" {
		throwf(KindSyntax, op.Pos, "operator %q takes no argument", name)
	}
	return op
}

// maxRepeat is the largest representable repetition count. Host engines
// reject larger bounds, so the parser does too.
const maxRepeat = 1000

// parseRepeatBounds parses "N", "N+" or "N-M". Max -1 means unbounded.
func parseRepeatBounds(s string, pos Position) (min, max int) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil || n > maxRepeat {
		throwf(KindSyntax, pos, "malformed quantifier %q", s)
	}
	switch {
	case i == len(s):
		return n, n
	case s[i] == '+' && i == len(s)-1:
		return n, -1
	case s[i] == '-':
		m, err := strconv.Atoi(s[i+1:])
		if err != nil || m > maxRepeat {
			throwf(KindSyntax, pos, "malformed quantifier %q", s)
		}
		if m < n {
			throwf(KindSyntax, pos, "malformed quantifier %q: %d exceeds %d", s, n, m)
		}
		return n, m
	}
	throwf(KindSyntax, pos, "malformed quantifier %q", s)
	return 0, 0
}

func isCaptureName(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return len(s) > 0
}
