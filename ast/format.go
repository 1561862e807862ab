package ast

import (
	"fmt"
	"strings"
)

// Format renders a node in a compact s-expression form for tests and
// debugging.
func Format(n Node) string {
	switch v := n.(type) {
	case *Literal:
		return fmt.Sprintf("%q", v.Text)
	case *Concat:
		return "{" + formatChildren(v.Children) + "}"
	case *Alt:
		return "(or " + formatChildren(v.Children) + ")"
	case *Repeat:
		suffix := ""
		if !v.Greedy {
			suffix = " fewest"
		}
		return fmt.Sprintf("(repeat %s %d %d%s)", Format(v.Child), v.Min, v.Max, suffix)
	case *Capture:
		if v.Name != "" {
			return fmt.Sprintf("(capture %s %s)", Format(v.Child), v.Name)
		}
		return fmt.Sprintf("(capture %s)", Format(v.Child))
	case *InlineFlags:
		return fmt.Sprintf("(flags %s %s)", v.Flags, Format(v.Child))
	case *CharClass:
		var b strings.Builder
		b.WriteByte('[')
		if v.Negated {
			b.WriteByte('^')
		}
		for _, it := range v.Items {
			switch it.Kind {
			case ClassChar:
				b.WriteRune(it.Lo)
			case ClassRange:
				fmt.Fprintf(&b, "%c-%c", it.Lo, it.Hi)
			case ClassRaw:
				b.WriteString(it.Frag)
			}
		}
		b.WriteByte(']')
		return b.String()
	case *Anchor:
		return "(anchor " + anchorName(v.Kind) + ")"
	case *Raw:
		return "(raw " + v.Frag + ")"
	}
	return fmt.Sprintf("<%T>", n)
}

func formatChildren(children []Node) string {
	parts := make([]string, len(children))
	for i, c := range children {
		parts[i] = Format(c)
	}
	return strings.Join(parts, " ")
}

func anchorName(k AnchorKind) string {
	switch k {
	case StartString:
		return "start-string"
	case EndString:
		return "end-string"
	case StartLine:
		return "start-line"
	}
	return "end-line"
}
