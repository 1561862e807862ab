package kleenexp

import (
	"regexp"
	"strconv"

	"github.com/coregx/ahocorasick"
	"github.com/dlclark/regexp2"

	"github.com/coregx/kleenexp/literal"
)

// Regex is a compiled Kleene Expression bound to a host engine.
//
// A Regex is safe for concurrent use by multiple goroutines.
//
// The default flavor is hosted by Go's regexp package; the ECMAScript
// flavor by regexp2. When the pattern matches a fixed set of literal
// strings, the Match and Find families are served by an Aho-Corasick
// automaton instead of the host engine; results are identical.
//
// Example:
//
//	re := kleenexp.MustCompile("[1+ #digit]")
//	re.FindString("age: 42") // "42"
type Regex struct {
	source  string
	pattern string
	opts    Options

	std  *regexp.Regexp
	ecma *regexp2.Regexp
	ac   *ahocorasick.Automaton
}

// Compile translates a KE source string and binds it to the default host
// engine.
//
// Example:
//
//	re, err := kleenexp.Compile("['cat' | 'dog']")
//	if err != nil {
//	    log.Fatal(err)
//	}
func Compile(source string) (*Regex, error) {
	return CompileWithOptions(source, DefaultOptions())
}

// MustCompile is like Compile but panics on error. It is intended for
// patterns known to be valid at program start.
//
// Example:
//
//	var hexColor = kleenexp.MustCompile("['#' [6 #hex_digit]]")
func MustCompile(source string) *Regex {
	re, err := Compile(source)
	if err != nil {
		panic("kleenexp: Compile(" + strconv.Quote(source) + "): " + err.Error())
	}
	return re
}

// CompileWithOptions translates source with opts and binds it to the host
// engine of the chosen flavor.
func CompileWithOptions(source string, opts Options) (*Regex, error) {
	node, pattern, err := translate(source, opts)
	if err != nil {
		return nil, err
	}

	r := &Regex{source: source, pattern: pattern, opts: opts}
	switch opts.Flavor {
	case FlavorECMAScript:
		var ropts regexp2.RegexOptions
		if opts.Multiline {
			ropts |= regexp2.Multiline
		}
		re, err := regexp2.Compile(pattern, ropts)
		if err != nil {
			return nil, &TranslateError{Source: source, Err: err}
		}
		r.ecma = re
	default:
		host := pattern
		if opts.Multiline {
			host = "(?m)" + host
		}
		re, err := regexp.Compile(host)
		if err != nil {
			return nil, &TranslateError{Source: source, Err: err}
		}
		r.std = re
	}

	if seq := literal.Extract(node, literal.DefaultConfig()); seq.Complete() && !seq.IsEmpty() {
		builder := ahocorasick.NewBuilder()
		for i := 0; i < seq.Len(); i++ {
			builder.AddPattern([]byte(seq.Get(i)))
		}
		if auto, err := builder.Build(); err == nil {
			r.ac = auto
		}
	}
	return r, nil
}

// String returns the KE source the expression was compiled from.
func (r *Regex) String() string { return r.source }

// Pattern returns the regex string the expression translated to.
func (r *Regex) Pattern() string { return r.pattern }

// Flavor returns the flavor the expression was compiled for.
func (r *Regex) Flavor() Flavor { return r.opts.Flavor }

// Match reports whether b contains any match of the expression.
func (r *Regex) Match(b []byte) bool {
	if r.ac != nil {
		return r.ac.Find(b, 0) != nil
	}
	if r.std != nil {
		return r.std.Match(b)
	}
	ok, _ := r.ecma.MatchString(string(b))
	return ok
}

// MatchString reports whether s contains any match of the expression.
func (r *Regex) MatchString(s string) bool {
	return r.Match([]byte(s))
}

// Find returns the leftmost match in b, or nil.
func (r *Regex) Find(b []byte) []byte {
	if r.ac != nil {
		m := r.ac.Find(b, 0)
		if m == nil {
			return nil
		}
		return b[m.Start:m.End]
	}
	if r.std != nil {
		return r.std.Find(b)
	}
	m, _ := r.ecma.FindStringMatch(string(b))
	if m == nil {
		return nil
	}
	return []byte(m.String())
}

// FindString returns the leftmost match in s, or the empty string.
func (r *Regex) FindString(s string) string {
	return string(r.Find([]byte(s)))
}

// FindIndex returns the location of the leftmost match in b, or nil. The
// match is at b[loc[0]:loc[1]]. Under the ECMAScript flavor the offsets are
// rune indices, following regexp2.
func (r *Regex) FindIndex(b []byte) []int {
	if r.ac != nil {
		m := r.ac.Find(b, 0)
		if m == nil {
			return nil
		}
		if r.ecma != nil {
			return []int{len([]rune(string(b[:m.Start]))), len([]rune(string(b[:m.End])))}
		}
		return []int{m.Start, m.End}
	}
	if r.std != nil {
		return r.std.FindIndex(b)
	}
	m, _ := r.ecma.FindStringMatch(string(b))
	if m == nil {
		return nil
	}
	return []int{m.Index, m.Index + m.Length}
}

// FindStringIndex returns the location of the leftmost match in s, or nil.
func (r *Regex) FindStringIndex(s string) []int {
	return r.FindIndex([]byte(s))
}

// FindAll returns all successive non-overlapping matches in b. If n > 0 it
// returns at most n matches; if n <= 0, all of them.
func (r *Regex) FindAll(b []byte, n int) [][]byte {
	if n == 0 {
		return nil
	}
	if r.ac != nil {
		var matches [][]byte
		pos := 0
		for pos < len(b) {
			m := r.ac.Find(b, pos)
			if m == nil {
				break
			}
			matches = append(matches, b[m.Start:m.End])
			pos = m.End
			if n > 0 && len(matches) >= n {
				break
			}
		}
		return matches
	}
	if r.std != nil {
		return r.std.FindAll(b, n)
	}
	var matches [][]byte
	m, _ := r.ecma.FindStringMatch(string(b))
	for m != nil {
		matches = append(matches, []byte(m.String()))
		if n > 0 && len(matches) >= n {
			break
		}
		m, _ = r.ecma.FindNextMatch(m)
	}
	return matches
}

// FindAllString returns all successive non-overlapping matches in s. If
// n > 0 it returns at most n matches; if n <= 0, all of them.
func (r *Regex) FindAllString(s string, n int) []string {
	matches := r.FindAll([]byte(s), n)
	if matches == nil {
		return nil
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = string(m)
	}
	return out
}

// FindStringSubmatch returns the leftmost match and the text of its capture
// groups, or nil. Result[0] is the entire match.
func (r *Regex) FindStringSubmatch(s string) []string {
	if r.std != nil {
		return r.std.FindStringSubmatch(s)
	}
	m, _ := r.ecma.FindStringMatch(s)
	if m == nil {
		return nil
	}
	groups := m.Groups()
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.String()
	}
	return out
}

// ReplaceAllString returns s with every match replaced by repl. The
// replacement syntax is the host engine's.
func (r *Regex) ReplaceAllString(s, repl string) string {
	if r.std != nil {
		return r.std.ReplaceAllString(s, repl)
	}
	out, err := r.ecma.Replace(s, repl, -1, -1)
	if err != nil {
		return s
	}
	return out
}

// NumSubexp returns the number of capture groups in the expression.
func (r *Regex) NumSubexp() int {
	if r.std != nil {
		return r.std.NumSubexp()
	}
	return len(r.ecma.GetGroupNumbers()) - 1
}

// SubexpNames returns the names of the capture groups, with an empty string
// for unnamed groups. The first entry corresponds to the whole expression
// and is always empty, matching regexp.
func (r *Regex) SubexpNames() []string {
	if r.std != nil {
		return r.std.SubexpNames()
	}
	nums := r.ecma.GetGroupNumbers()
	names := make([]string, len(nums))
	for i, num := range nums {
		name := r.ecma.GroupNameFromNumber(num)
		if name != strconv.Itoa(num) {
			names[i] = name
		}
	}
	return names
}
