package object

import (
	"iter"

	"protowalk/pkg/value"
)

// VisibleNames yields every name visible on o: o's own names in insertion
// order, then each delegate's own names that no nearer object already
// produced. Ranging again restarts the walk.
func VisibleNames(o *Object) iter.Seq[string] {
	return func(yield func(string) bool) {
		seen := make(map[string]bool)
		for current := range Chain(o) {
			for name := range current.own.Names() {
				if seen[name] {
					continue
				}
				seen[name] = true
				if !yield(name) {
					return
				}
			}
		}
	}
}

// VisibleProperties yields each visible name with the value Resolve returns
// for it.
func VisibleProperties(o *Object) iter.Seq2[string, value.Value] {
	return func(yield func(string, value.Value) bool) {
		for name := range VisibleNames(o) {
			v, _ := Resolve(o, name)
			if !yield(name, v) {
				return
			}
		}
	}
}

// Keys collects VisibleNames into a slice.
func Keys(o *Object) []string {
	var keys []string
	for name := range VisibleNames(o) {
		keys = append(keys, name)
	}
	return keys
}
