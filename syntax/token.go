package syntax

import (
	"strings"
	"unicode/utf8"

	"github.com/coregx/kleenexp/internal/chartype"
)

type tokenKind uint8

const (
	tokNone tokenKind = iota

	tokOuterLiteral // text outside any brackets
	tokLBracket     // [
	tokRBracket     // ]
	tokPipe         // |
	tokQuoted       // 'text' or "text", including the quotes
	tokBareword     // operator token
	tokMacro        // #name
	tokRangeMacro   // #a..b
	tokEq           // =
	tokColon        // :
)

// String renders the kind the way parser diagnostics spell it.
func (k tokenKind) String() string {
	switch k {
	case tokOuterLiteral:
		return "literal"
	case tokLBracket:
		return "'['"
	case tokRBracket:
		return "']'"
	case tokPipe:
		return "'|'"
	case tokQuoted:
		return "quoted literal"
	case tokBareword:
		return "operator"
	case tokMacro:
		return "macro"
	case tokRangeMacro:
		return "range macro"
	case tokEq:
		return "'='"
	case tokColon:
		return "':'"
	}
	return "end of pattern"
}

type token struct {
	kind tokenKind
	pos  Position

	// padded records that the token was preceded by whitespace or by one of
	// the boundaries that count as whitespace: the position before '[' and
	// the position after ']'.
	padded bool
}

// opChar marks the bytes that may appear in an operator or macro name token.
// '=' and ':' carry syntactic meaning and are excluded.
var opChar = [256]bool{}

func init() {
	for _, c := range []byte("!$%&()*+,./;<>?@\\^_`{}~-") {
		opChar[c] = true
	}
	for c := byte('0'); c <= '9'; c++ {
		opChar[c] = true
	}
	for c := byte('a'); c <= 'z'; c++ {
		opChar[c] = true
	}
	for c := byte('A'); c <= 'Z'; c++ {
		opChar[c] = true
	}
}

type lexer struct {
	input  string
	tokens []token
	pos    int
}

func (l *lexer) HasMoreTokens() bool {
	return l.pos < len(l.tokens)
}

func (l *lexer) NextToken() token {
	if l.pos < len(l.tokens) {
		tok := l.tokens[l.pos]
		l.pos++
		return tok
	}
	return l.eof()
}

func (l *lexer) Peek() token {
	if l.pos < len(l.tokens) {
		return l.tokens[l.pos]
	}
	return l.eof()
}

// PeekAt looks n tokens past the cursor; PeekAt(0) == Peek().
func (l *lexer) PeekAt(n int) token {
	if l.pos+n < len(l.tokens) {
		return l.tokens[l.pos+n]
	}
	return l.eof()
}

func (l *lexer) eof() token {
	return token{kind: tokNone, pos: Position{Begin: len(l.input), End: len(l.input)}}
}

func (l *lexer) text(tok token) string {
	return l.input[tok.pos.Begin:tok.pos.End]
}

// Init tokenizes src. Outside brackets the input is a plain literal split
// only by '[' and ']'; inside brackets the token grammar applies.
func (l *lexer) Init(src string) error {
	l.input = src
	l.tokens = l.tokens[:0]
	l.pos = 0

	var opens []int
	depth := 0
	pending := false

	push := func(kind tokenKind, begin, end int) {
		l.tokens = append(l.tokens, token{
			kind:   kind,
			pos:    Position{Begin: begin, End: end},
			padded: pending || kind == tokLBracket,
		})
		pending = kind == tokRBracket
	}

	i := 0
	for i < len(src) {
		c := src[i]

		if depth == 0 {
			switch c {
			case '[':
				push(tokLBracket, i, i+1)
				opens = append(opens, i)
				depth++
				i++
			case ']':
				return Errorf(KindSyntax, Position{i, i + 1}, "unmatched ']'")
			default:
				j := i
				for j < len(src) && src[j] != '[' && src[j] != ']' {
					j++
				}
				push(tokOuterLiteral, i, j)
				i = j
			}
			continue
		}

		switch {
		case chartype.IsSpace(c):
			for i < len(src) && chartype.IsSpace(src[i]) {
				i++
			}
			pending = true
		case c == '[':
			push(tokLBracket, i, i+1)
			opens = append(opens, i)
			depth++
			i++
		case c == ']':
			push(tokRBracket, i, i+1)
			opens = opens[:len(opens)-1]
			depth--
			i++
		case c == '|':
			push(tokPipe, i, i+1)
			i++
		case c == '=':
			push(tokEq, i, i+1)
			i++
		case c == ':':
			push(tokColon, i, i+1)
			i++
		case c == '\'' || c == '"':
			j := strings.IndexByte(src[i+1:], c)
			if j < 0 {
				return Errorf(KindSyntax, Position{i, len(src)}, "unmatched %q", rune(c))
			}
			end := i + 1 + j + 1
			push(tokQuoted, i, end)
			i = end
		case c == '#':
			j := i + 1
			for j < len(src) && opChar[src[j]] {
				j++
			}
			if j == i+1 {
				return Errorf(KindSyntax, Position{i, i + 1}, "'#' must be followed by a macro name")
			}
			if isRangeName(src[i+1 : j]) {
				push(tokRangeMacro, i, j)
			} else {
				push(tokMacro, i, j)
			}
			i = j
		case opChar[c]:
			j := i
			for j < len(src) && opChar[src[j]] {
				j++
			}
			push(tokBareword, i, j)
			i = j
		default:
			r, size := utf8.DecodeRuneInString(src[i:])
			return Errorf(KindSyntax, Position{i, i + size}, "unexpected character %q", r)
		}
	}

	if depth > 0 {
		at := opens[len(opens)-1]
		return Errorf(KindSyntax, Position{at, at + 1}, "unmatched '['")
	}
	return nil
}

// isRangeName reports whether a macro name spells the #a..b range form.
func isRangeName(name string) bool {
	return len(name) == 4 && name[1] == '.' && name[2] == '.' &&
		chartype.Of(name[0]) != chartype.None && chartype.Of(name[3]) != chartype.None
}
