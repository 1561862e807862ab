package literal

import (
	"github.com/coregx/kleenexp/ast"
)

// Extract computes the literal alternatives of a lowered pattern. The
// result is complete only when the pattern's language is exactly the
// returned set: repeats, anchors, raw fragments and negated classes all
// disqualify it. Capture groups are transparent here; callers that need
// submatches must use the host engine regardless.
func Extract(n ast.Node, cfg Config) Seq {
	x := &extractor{cfg: cfg}
	lits, ok := x.node(n)
	if !ok {
		return Seq{}
	}
	lits = dedupe(lits)
	for _, lit := range lits {
		if lit == "" {
			// an empty needle would match everywhere; leave it to the engine
			return Seq{}
		}
	}
	return Seq{lits: lits, complete: true}
}

type extractor struct {
	cfg Config
}

func (x *extractor) node(n ast.Node) ([]string, bool) {
	switch v := n.(type) {
	case *ast.Literal:
		if len(v.Text) > x.cfg.MaxLiteralLen {
			return nil, false
		}
		return []string{v.Text}, true
	case *ast.Concat:
		return x.concat(v.Children)
	case *ast.Alt:
		var out []string
		for _, c := range v.Children {
			lits, ok := x.node(c)
			if !ok {
				return nil, false
			}
			out = append(out, lits...)
			if len(out) > x.cfg.MaxLiterals {
				return nil, false
			}
		}
		return out, true
	case *ast.Capture:
		return x.node(v.Child)
	case *ast.CharClass:
		return x.class(v)
	}
	return nil, false
}

// concat computes the cross product of its children's alternatives.
func (x *extractor) concat(children []ast.Node) ([]string, bool) {
	out := []string{""}
	for _, c := range children {
		lits, ok := x.node(c)
		if !ok {
			return nil, false
		}
		if len(out)*len(lits) > x.cfg.MaxLiterals {
			return nil, false
		}
		next := make([]string, 0, len(out)*len(lits))
		for _, prefix := range out {
			for _, lit := range lits {
				combined := prefix + lit
				if len(combined) > x.cfg.MaxLiteralLen {
					return nil, false
				}
				next = append(next, combined)
			}
		}
		out = next
	}
	return out, true
}

func (x *extractor) class(v *ast.CharClass) ([]string, bool) {
	if v.Negated {
		return nil, false
	}
	var out []string
	for _, it := range v.Items {
		switch it.Kind {
		case ast.ClassChar:
			out = append(out, string(it.Lo))
		case ast.ClassRange:
			if int(it.Hi-it.Lo)+1 > x.cfg.MaxClassSize {
				return nil, false
			}
			for r := it.Lo; r <= it.Hi; r++ {
				out = append(out, string(r))
			}
		default:
			return nil, false
		}
		if len(out) > x.cfg.MaxClassSize || len(out) > x.cfg.MaxLiterals {
			return nil, false
		}
	}
	return out, true
}

func dedupe(lits []string) []string {
	seen := make(map[string]bool, len(lits))
	out := lits[:0]
	for _, lit := range lits {
		if !seen[lit] {
			seen[lit] = true
			out = append(out, lit)
		}
	}
	return out
}
