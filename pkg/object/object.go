package object

import (
	"fmt"
	"sync/atomic"

	"protowalk/pkg/errors"
	"protowalk/pkg/value"
)

const debugObject = false

func debugPrintf(format string, args ...interface{}) {
	if debugObject {
		fmt.Printf(format, args...)
	}
}

var nextID atomic.Uint64

// Object is a node of the delegation model: an own PropertyStore plus an
// optional delegate consulted when a lookup misses locally.
type Object struct {
	id       uint64
	own      *PropertyStore
	delegate *Object
}

func newObject(delegate *Object) *Object {
	return &Object{id: nextID.Add(1), own: newPropertyStore(), delegate: delegate}
}

// NewRoot creates an empty object with no delegate.
func NewRoot() *Object {
	return newObject(nil)
}

// NewObject creates an empty object delegating to ObjectPrototype, the way
// an object literal does.
func NewObject() *Object {
	return newObject(ObjectPrototype)
}

// ID returns the object's display identity. IDs are unique per process.
func (o *Object) ID() uint64 { return o.id }

// Own returns the object's own property store.
func (o *Object) Own() *PropertyStore { return o.own }

// Delegate returns the next object in the chain, or nil for a root object.
func (o *Object) Delegate() *Object { return o.delegate }

// SetDelegate rebinds the delegate link. A nil delegate makes o a root.
// Assignments that would make o reachable from itself fail with a
// *errors.CycleError and leave the previous link in place.
func (o *Object) SetDelegate(d *Object) error {
	if d == o.delegate {
		return nil
	}
	for p := d; p != nil; p = p.delegate {
		if p == o {
			debugPrintf("// [object] rejected delegate %s for %s\n", d.name(), o.name())
			return &errors.CycleError{Object: o.name(), Delegate: d.name()}
		}
	}
	o.delegate = d
	return nil
}

// Value wraps the object as a property value.
func (o *Object) Value() value.Value {
	if o == nil {
		return value.Null()
	}
	return value.NewObject(o)
}

// --- Own property shorthands ---

// SetOwn sets an own property.
func (o *Object) SetOwn(name string, v value.Value) { o.own.Set(name, v) }

// GetOwn looks up a direct (own) property by name.
func (o *Object) GetOwn(name string) (value.Value, bool) { return o.own.Get(name) }

// HasOwn reports whether an own property with the given name exists.
func (o *Object) HasOwn(name string) bool { return o.own.Has(name) }

// DeleteOwn removes an own property if present.
func (o *Object) DeleteOwn(name string) { o.own.Delete(name) }

// OwnKeys returns the own property names in insertion order.
func (o *Object) OwnKeys() []string { return o.own.Keys() }

// --- Chain reads ---

// Get looks up a property by name, walking the delegate chain if necessary.
func (o *Object) Get(name string) (value.Value, bool) {
	return Resolve(o, name)
}

// Has reports whether a property is visible on o, own or delegated.
func (o *Object) Has(name string) bool {
	_, ok := Resolve(o, name)
	return ok
}

func (o *Object) name() string {
	if o == nil {
		return "null"
	}
	switch o {
	case Global:
		return "global"
	case ObjectPrototype:
		return "Object.prototype"
	}
	return fmt.Sprintf("#%d", o.id)
}

// AsObject extracts an object from a value. ok is false for non-objects.
func AsObject(v value.Value) (*Object, bool) {
	if !v.IsObject() {
		return nil, false
	}
	o, ok := v.AsRef().(*Object)
	return o, ok
}
