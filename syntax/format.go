package syntax

import (
	"fmt"
	"strings"
)

// FormatTree renders the parse tree in a compact s-expression form. It is
// meant for tests and debugging, not for round-tripping source.
func FormatTree(t *Tree) string {
	parts := make([]string, len(t.Nodes))
	for i, n := range t.Nodes {
		parts[i] = formatNode(n)
	}
	return strings.Join(parts, "")
}

func formatNode(n Node) string {
	switch v := n.(type) {
	case *OuterLiteral:
		return v.Text
	case *InnerLiteral:
		return fmt.Sprintf("'%s'", v.Text)
	case *Braces:
		if v.Body == nil {
			return "[]"
		}
		return "[" + formatNode(v.Body) + "]"
	case *MatchesSeq:
		return formatSeq(v)
	case *Either:
		parts := make([]string, len(v.Branches))
		for i, br := range v.Branches {
			parts[i] = formatSeq(br)
		}
		return "(or " + strings.Join(parts, " ") + ")"
	case *OpsMatches:
		parts := make([]string, 0, len(v.Ops)+1)
		for _, op := range v.Ops {
			parts = append(parts, formatOp(op))
		}
		if v.Matches != nil {
			parts = append(parts, formatSeq(v.Matches))
		}
		return "(" + strings.Join(parts, " ") + ")"
	case *MacroRef:
		return "#" + v.Name
	case *RangeMacro:
		return fmt.Sprintf("#%c..%c", v.Lo, v.Hi)
	case *Def:
		return fmt.Sprintf("(def #%s %s)", v.Name, formatNode(v.Body))
	}
	return fmt.Sprintf("<%T>", n)
}

func formatSeq(seq *MatchesSeq) string {
	parts := make([]string, len(seq.List))
	for i, m := range seq.List {
		parts[i] = formatNode(m)
	}
	return "{" + strings.Join(parts, " ") + "}"
}

func formatOp(op *Op) string {
	if op.Kind == OpCapture && op.Capture != "" {
		return op.Name + ":" + op.Capture
	}
	if op.Fewest {
		return op.Name + ":fewest"
	}
	return op.Name
}
