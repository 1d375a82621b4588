package object

import (
	"iter"

	"protowalk/pkg/value"
)

// Resolve looks name up on o, then on each delegate in turn, and returns the
// value from the nearest object that owns it. ok is false when no object in
// the chain defines name. Property reads through Object.Get use this walk.
func Resolve(o *Object, name string) (value.Value, bool) {
	if owner := DefinedOn(o, name); owner != nil {
		return owner.own.Get(name)
	}
	return value.Undefined(), false
}

// DefinedOn returns the nearest object in o's chain (o included) whose own
// store has name, or nil.
func DefinedOn(o *Object, name string) *Object {
	for current := o; current != nil; current = current.delegate {
		if current.own.Has(name) {
			return current
		}
	}
	return nil
}

// Chain yields o followed by each of its delegates, nearest first.
func Chain(o *Object) iter.Seq[*Object] {
	return func(yield func(*Object) bool) {
		for current := o; current != nil; current = current.delegate {
			if !yield(current) {
				return
			}
		}
	}
}

// IsDelegateOf reports whether proto appears in o's chain, o excluded.
func IsDelegateOf(proto, o *Object) bool {
	if o == nil || proto == nil {
		return false
	}
	for current := o.delegate; current != nil; current = current.delegate {
		if current == proto {
			return true
		}
	}
	return false
}
