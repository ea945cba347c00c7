package match

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/gobwas/glob"
)

// ErrInvalidPattern is returned when an exclusion rule cannot be compiled.
var ErrInvalidPattern = errors.New("invalid pattern")

type Kind int

const (
	ExactPath Kind = iota
	ExactName
	GlobName
	RegexName
)

func (k Kind) String() string {
	switch k {
	case ExactPath:
		return "path"
	case ExactName:
		return "name"
	case GlobName:
		return "glob"
	case RegexName:
		return "regex"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

const globMeta = "*?["

// Rule is a single exclusion rule. The zero value matches nothing.
type Rule struct {
	kind    Kind
	literal string
	glob    glob.Glob
	re      *regexp.Regexp
}

// Literal classifies s as an exact path, a glob over the base name, or an
// exact base name, in that order of precedence.
func Literal(s string) (Rule, error) {
	if s == "" {
		return Rule{}, fmt.Errorf("%w: empty pattern", ErrInvalidPattern)
	}

	if strings.Contains(s, "/") {
		return Rule{kind: ExactPath, literal: s}, nil
	}

	if strings.ContainsAny(s, globMeta) {
		g, err := glob.Compile(s)
		if err != nil {
			return Rule{}, fmt.Errorf("%w: glob %q: %v", ErrInvalidPattern, s, err)
		}
		return Rule{kind: GlobName, literal: s, glob: g}, nil
	}

	return Rule{kind: ExactName, literal: s}, nil
}

// Regexp wraps an already compiled expression. It is searched for anywhere
// in the base name. A nil re yields the zero Rule, which matches nothing.
func Regexp(re *regexp.Regexp) Rule {
	if re == nil {
		return Rule{}
	}
	return Rule{kind: RegexName, literal: re.String(), re: re}
}

// CompileRegexp compiles expr into a RegexName rule.
func CompileRegexp(expr string) (Rule, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return Rule{}, fmt.Errorf("%w: regex %q: %v", ErrInvalidPattern, expr, err)
	}
	return Regexp(re), nil
}

func (r Rule) Kind() Kind { return r.kind }

func (r Rule) String() string {
	if r.kind == RegexName {
		return "/" + r.literal + "/"
	}
	return r.literal
}

// Match reports whether the rule excludes an entry with the given base name
// and root-relative path.
func (r Rule) Match(baseName, relPath string) bool {
	switch r.kind {
	case ExactPath:
		return r.literal != "" && relPath == r.literal
	case ExactName:
		return r.literal != "" && baseName == r.literal
	case GlobName:
		return r.glob != nil && r.glob.Match(baseName)
	case RegexName:
		return r.re != nil && r.re.MatchString(baseName)
	}
	return false
}
