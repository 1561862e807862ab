// Package kleenexp compiles Kleene Expressions (KE), a modern surface
// syntax for regular expressions, into classic regex strings and wraps the
// host engines so KE patterns can be matched directly.
//
// KE keeps literal text literal and moves every regex construct into
// brackets:
//
//	pattern, err := kleenexp.Translate("[capture 1+ #digit] files")
//	// pattern == `(\d+) files`
//
// Inside brackets, quoted strings match themselves, #macros name common
// classes and anchors, and operators quantify, capture or negate what
// follows:
//
//	kleenexp.Translate("[#start_line]articles/[capture:year 4 #digit]/")
//	// `^articles/(?P<year>\d{4})/`
//
// Users may define macros inline; definitions are visible anywhere in the
// braces that contain them:
//
//	kleenexp.Translate("['#' [6 #h] #h=[#digit | #a..f]]")
//	// `#[0-9a-f]{6}`
//
// Translation never executes a regex. The Compile family additionally binds
// the translated pattern to a host engine - Go's regexp for the default
// flavor, regexp2 for the ECMAScript flavor - and serves a stdlib-shaped
// matching API. When a pattern turns out to match a fixed set of literal
// strings, matching is served by an Aho-Corasick automaton without
// involving the regex engine at all.
//
// Basic usage:
//
//	re, err := kleenexp.Compile("['cat' | 'dog']")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	re.MatchString("hot dog") // true
package kleenexp

import (
	"errors"
	"fmt"

	"github.com/coregx/kleenexp/ast"
	"github.com/coregx/kleenexp/emit"
	"github.com/coregx/kleenexp/syntax"
)

// Flavor selects the regex dialect produced by translation.
type Flavor = emit.Flavor

const (
	// FlavorGo emits Go regexp (RE2, PCRE-like) syntax. This is the
	// default.
	FlavorGo = emit.FlavorGo
	// FlavorECMAScript emits ECMAScript RegExp source syntax.
	FlavorECMAScript = emit.FlavorECMAScript
)

// DefaultMaxExpansionDepth is the default bound on recursive macro
// expansion.
const DefaultMaxExpansionDepth = ast.DefaultMaxExpansionDepth

// Options configures translation.
//
// Example:
//
//	opts := kleenexp.DefaultOptions()
//	opts.Flavor = kleenexp.FlavorECMAScript
//	pattern, err := kleenexp.TranslateWithOptions("[1+ #letter]", opts)
type Options struct {
	// Flavor selects the output dialect.
	Flavor Flavor

	// Multiline selects the multiline column of the anchor mapping and
	// puts the host engine in multiline mode when compiling.
	Multiline bool

	// Unicode maps the letter-class macros (#letter, #not_letter,
	// #lowercase and #uppercase) to Unicode property classes instead of
	// ASCII ranges.
	Unicode bool

	// MaxExpansionDepth bounds recursive macro expansion. Zero selects
	// DefaultMaxExpansionDepth.
	MaxExpansionDepth int
}

// DefaultOptions returns the default translation options.
func DefaultOptions() Options {
	return Options{Flavor: FlavorGo, MaxExpansionDepth: DefaultMaxExpansionDepth}
}

// Validate checks the options for consistency.
func (o Options) Validate() error {
	if o.Flavor != FlavorGo && o.Flavor != FlavorECMAScript {
		return errors.New("kleenexp: unknown flavor")
	}
	if o.MaxExpansionDepth < 0 {
		return errors.New("kleenexp: MaxExpansionDepth must not be negative")
	}
	return nil
}

// TranslateError wraps a translation failure with the KE source that caused
// it. The wrapped error is a *syntax.Error carrying the error kind and the
// byte span of the offending construct.
type TranslateError struct {
	Source string
	Err    error
}

// Error implements the error interface.
func (e *TranslateError) Error() string {
	return fmt.Sprintf("kleenexp: translate %q: %v", e.Source, e.Err)
}

// Unwrap returns the underlying error.
func (e *TranslateError) Unwrap() error { return e.Err }

// Translate compiles a KE source string into a regex string for the default
// flavor.
//
// Example:
//
//	pattern, err := kleenexp.Translate("[#digit | #a..f]")
//	// pattern == `[0-9a-f]`
func Translate(source string) (string, error) {
	return TranslateWithOptions(source, DefaultOptions())
}

// Re is a shorthand alias for Translate.
func Re(source string) (string, error) {
	return Translate(source)
}

// TranslateWithOptions compiles a KE source string into a regex string for
// the configured flavor.
func TranslateWithOptions(source string, opts Options) (string, error) {
	_, pattern, err := translate(source, opts)
	return pattern, err
}

// translate runs the full pipeline and also returns the lowered tree so
// Compile can inspect it for the literal fast path.
func translate(source string, opts Options) (ast.Node, string, error) {
	if err := opts.Validate(); err != nil {
		return nil, "", err
	}
	tree, err := syntax.Parse(source)
	if err != nil {
		return nil, "", &TranslateError{Source: source, Err: err}
	}
	node, err := ast.Lower(tree, ast.Config{
		Unicode:           opts.Unicode,
		MaxExpansionDepth: opts.MaxExpansionDepth,
	})
	if err != nil {
		return nil, "", &TranslateError{Source: source, Err: err}
	}
	pattern, err := emit.Emit(node, emit.Config{
		Flavor:    opts.Flavor,
		Multiline: opts.Multiline,
	})
	if err != nil {
		return nil, "", &TranslateError{Source: source, Err: err}
	}
	return node, pattern, nil
}
