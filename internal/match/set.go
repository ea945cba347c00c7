package match

import (
	"fmt"
	"regexp"
)

// Set is an unordered collection of exclusion rules.
type Set []Rule

// Compile builds a Set from literal patterns and regular expressions. The
// first malformed pattern aborts compilation.
func Compile(literals []string, regexps []string) (Set, error) {
	set := make(Set, 0, len(literals)+len(regexps))

	for _, s := range literals {
		r, err := Literal(s)
		if err != nil {
			return nil, err
		}
		set = append(set, r)
	}

	for _, expr := range regexps {
		r, err := CompileRegexp(expr)
		if err != nil {
			return nil, err
		}
		set = append(set, r)
	}

	return set, nil
}

// MustCompile is like Compile but panics on error. Intended for tests and
// package-level defaults.
func MustCompile(literals []string, regexps ...*regexp.Regexp) Set {
	set, err := Compile(literals, nil)
	if err != nil {
		panic(fmt.Sprintf("match: %v", err))
	}
	for _, re := range regexps {
		set = append(set, Regexp(re))
	}
	return set
}

// Excludes reports whether any rule matches the entry.
func (s Set) Excludes(baseName, relPath string) bool {
	for _, r := range s {
		if r.Match(baseName, relPath) {
			return true
		}
	}
	return false
}
