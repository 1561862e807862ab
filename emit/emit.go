// Package emit renders the normalized KE syntax tree to a regex string for
// a target flavor.
//
// Emission is a recursive walk tracking whether output lands at the top
// level or inside a character class, because the two contexts escape
// different sets of metacharacters. The walk is pure and deterministic: the
// same tree and configuration always produce the same string, and once
// lowering has succeeded the only failures left are flavor gaps such as
// inline flags under ECMAScript.
package emit

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/coregx/kleenexp/ast"
	"github.com/coregx/kleenexp/syntax"
)

// Flavor selects the regex dialect to emit.
type Flavor int

const (
	// FlavorGo targets Go's regexp package (RE2, PCRE-like syntax).
	FlavorGo Flavor = iota
	// FlavorECMAScript targets ECMAScript RegExp source syntax.
	FlavorECMAScript
)

// String implements fmt.Stringer.
func (f Flavor) String() string {
	if f == FlavorECMAScript {
		return "ecmascript"
	}
	return "go"
}

// Config controls emission.
type Config struct {
	Flavor Flavor

	// Multiline selects the multiline column of the anchor mapping. The
	// host engine must be put in multiline mode separately; translation
	// only chooses anchor spellings that stay correct there.
	Multiline bool
}

// Emit renders n for the configured flavor.
func Emit(n ast.Node, cfg Config) (out string, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if e, ok := r.(*syntax.Error); ok {
			out, err = "", e
			return
		}
		panic(r)
	}()

	e := &emitter{cfg: cfg}
	e.node(n, true)
	return e.buf.String(), nil
}

type emitter struct {
	buf strings.Builder
	cfg Config
}

// topMeta is the metacharacter set escaped at the top level.
var topMeta = [256]bool{
	'\\': true,
	'.':  true,
	'+':  true,
	'*':  true,
	'?':  true,
	'(':  true,
	')':  true,
	'|':  true,
	'[':  true,
	']':  true,
	'{':  true,
	'}':  true,
	'^':  true,
	'$':  true,
}

// classMeta is the metacharacter set escaped inside a character class.
var classMeta = [256]bool{
	'\\': true,
	']':  true,
	'^':  true,
	'-':  true,
}

// node emits n. bare is true when the surrounding construct already
// delimits n (the whole pattern, a capture body, a flag group body), so an
// alternation needs no extra non-capturing group.
func (e *emitter) node(n ast.Node, bare bool) {
	switch v := n.(type) {
	case *ast.Literal:
		e.literal(v.Text)
	case *ast.Concat:
		for _, c := range v.Children {
			e.node(c, false)
		}
	case *ast.Alt:
		if !bare {
			e.buf.WriteString("(?:")
		}
		for i, c := range v.Children {
			if i > 0 {
				e.buf.WriteByte('|')
			}
			e.node(c, false)
		}
		if !bare {
			e.buf.WriteByte(')')
		}
	case *ast.Repeat:
		e.repeat(v)
	case *ast.Capture:
		e.buf.WriteString(e.captureOpen(v.Name))
		e.node(v.Child, true)
		e.buf.WriteByte(')')
	case *ast.InlineFlags:
		if e.cfg.Flavor == FlavorECMAScript {
			panic(syntax.Errorf(syntax.KindUnsupportedOperator, v.Pos,
				"inline flag groups are not available in the ECMAScript flavor"))
		}
		e.buf.WriteString("(?" + v.Flags + ":")
		e.node(v.Child, true)
		e.buf.WriteByte(')')
	case *ast.CharClass:
		e.class(v)
	case *ast.Anchor:
		e.anchor(v)
	case *ast.Raw:
		e.buf.WriteString(v.Frag)
	}
}

func (e *emitter) repeat(v *ast.Repeat) {
	if v.Min == 1 && v.Max == 1 {
		e.node(v.Child, false)
		return
	}
	if isAtomic(v.Child) {
		e.node(v.Child, false)
	} else {
		e.buf.WriteString("(?:")
		e.node(v.Child, true)
		e.buf.WriteByte(')')
	}
	e.buf.WriteString(quantifier(v.Min, v.Max))
	if !v.Greedy {
		e.buf.WriteByte('?')
	}
}

// quantifier prefers the shorthand forms where they are equivalent.
func quantifier(min, max int) string {
	switch {
	case min == 0 && max == 1:
		return "?"
	case min == 0 && max < 0:
		return "*"
	case min == 1 && max < 0:
		return "+"
	case max < 0:
		return fmt.Sprintf("{%d,}", min)
	case min == max:
		return fmt.Sprintf("{%d}", min)
	}
	return fmt.Sprintf("{%d,%d}", min, max)
}

// isAtomic reports whether a quantifier may follow n without grouping.
func isAtomic(n ast.Node) bool {
	switch v := n.(type) {
	case *ast.Literal:
		_, size := utf8.DecodeRuneInString(v.Text)
		return size > 0 && size == len(v.Text)
	case *ast.CharClass, *ast.Capture, *ast.InlineFlags, *ast.Anchor:
		return true
	case *ast.Raw:
		return atomicFrag(v.Frag)
	}
	return false
}

// atomicFrag recognizes the raw fragments that quantify as a unit: a single
// character, a single escape like \d, or a property class like \p{L}.
func atomicFrag(s string) bool {
	if utf8.RuneCountInString(s) == 1 {
		return true
	}
	if len(s) == 2 && s[0] == '\\' {
		return true
	}
	if strings.HasPrefix(s, `\p{`) || strings.HasPrefix(s, `\P{`) {
		return strings.IndexByte(s, '}') == len(s)-1
	}
	return false
}

func (e *emitter) captureOpen(name string) string {
	if name == "" {
		return "("
	}
	if e.cfg.Flavor == FlavorECMAScript {
		return "(?<" + name + ">"
	}
	return "(?P<" + name + ">"
}

func (e *emitter) literal(s string) {
	for _, r := range s {
		if r < utf8.RuneSelf && topMeta[byte(r)] {
			e.buf.WriteByte('\\')
		}
		e.buf.WriteRune(r)
	}
}

func (e *emitter) class(v *ast.CharClass) {
	e.buf.WriteByte('[')
	if v.Negated {
		e.buf.WriteByte('^')
	}
	for _, it := range v.Items {
		switch it.Kind {
		case ast.ClassChar:
			e.classChar(it.Lo)
		case ast.ClassRange:
			e.classChar(it.Lo)
			e.buf.WriteByte('-')
			e.classChar(it.Hi)
		case ast.ClassRaw:
			e.buf.WriteString(it.Frag)
		}
	}
	e.buf.WriteByte(']')
}

func (e *emitter) classChar(r rune) {
	if r < utf8.RuneSelf && classMeta[byte(r)] {
		e.buf.WriteByte('\\')
	}
	e.buf.WriteRune(r)
}

func (e *emitter) anchor(v *ast.Anchor) {
	if e.cfg.Flavor == FlavorECMAScript {
		if e.cfg.Multiline && (v.Kind == ast.StartString || v.Kind == ast.EndString) {
			panic(syntax.Errorf(syntax.KindUnsupportedOperator, v.Pos,
				"string anchors have no multiline form in the ECMAScript flavor"))
		}
		switch v.Kind {
		case ast.StartString, ast.StartLine:
			e.buf.WriteByte('^')
		default:
			e.buf.WriteByte('$')
		}
		return
	}
	switch v.Kind {
	case ast.StartString:
		e.buf.WriteString(`\A`)
	case ast.EndString:
		e.buf.WriteString(`\z`)
	case ast.StartLine:
		e.buf.WriteByte('^')
	case ast.EndLine:
		e.buf.WriteByte('$')
	}
}
