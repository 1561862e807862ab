// Package literal extracts the finite set of literal alternatives a lowered
// KE pattern matches, when such a set exists.
//
// A pattern that is nothing but literal text, alternations of literal text
// and small character classes matches a fixed, enumerable set of strings.
// The wrapper layer uses that set to serve matching through a multi-pattern
// string searcher instead of the host regex engine.
package literal

// Config bounds extraction so pathological patterns cannot explode it.
type Config struct {
	// MaxLiterals caps the number of alternatives extracted. Alternations
	// and class expansions whose cross product exceeds it abort extraction.
	MaxLiterals int

	// MaxLiteralLen caps the byte length of each alternative.
	MaxLiteralLen int

	// MaxClassSize caps the number of characters a single character class
	// may contribute. Classes like [abc] expand; [a-z] does not.
	MaxClassSize int
}

// DefaultConfig returns limits suitable for typical patterns.
func DefaultConfig() Config {
	return Config{
		MaxLiterals:   64,
		MaxLiteralLen: 64,
		MaxClassSize:  10,
	}
}

// Seq is a set of alternative literals. Complete reports whether the set is
// exactly the language of the pattern it was extracted from; an incomplete
// Seq is empty and unusable.
type Seq struct {
	lits     []string
	complete bool
}

// Len returns the number of alternatives.
func (s Seq) Len() int { return len(s.lits) }

// Get returns the i-th alternative, in pattern order.
func (s Seq) Get(i int) string { return s.lits[i] }

// Strings returns a copy of the alternatives.
func (s Seq) Strings() []string {
	out := make([]string, len(s.lits))
	copy(out, s.lits)
	return out
}

// Complete reports whether the set covers the pattern's whole language.
func (s Seq) Complete() bool { return s.complete }

// IsEmpty reports whether the set has no alternatives.
func (s Seq) IsEmpty() bool { return len(s.lits) == 0 }
