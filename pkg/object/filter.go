package object

import (
	"fmt"
	"iter"

	"github.com/dlclark/regexp2"
)

// MatchingNames yields the visible names of o that match pattern. Patterns
// use ECMAScript regular expression syntax. A pattern that fails to compile
// is reported before any iteration happens.
func MatchingNames(o *Object, pattern string) (iter.Seq[string], error) {
	re, err := regexp2.Compile(pattern, regexp2.ECMAScript)
	if err != nil {
		return nil, fmt.Errorf("invalid name pattern %q: %w", pattern, err)
	}
	return func(yield func(string) bool) {
		for name := range VisibleNames(o) {
			matched, err := re.MatchString(name)
			if err != nil || !matched {
				continue
			}
			if !yield(name) {
				return
			}
		}
	}, nil
}
