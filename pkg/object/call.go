package object

import (
	"fmt"

	"protowalk/pkg/errors"
	"protowalk/pkg/value"
)

// NativeFunc is the body of a callable. this is the bound receiver.
type NativeFunc func(this *Object, args []value.Value) value.Value

// Function is a callable property value. Calls receive their receiver from
// BindReceiver, so a nil receiver means Global.
type Function struct {
	Name  string
	Arity int
	fn    NativeFunc
}

// NewFunction creates a named callable.
func NewFunction(name string, arity int, fn NativeFunc) *Function {
	return &Function{Name: name, Arity: arity, fn: fn}
}

// BindReceiver picks the receiver for an invocation: the explicit receiver
// when given, Global otherwise.
func BindReceiver(explicit *Object) *Object {
	if explicit != nil {
		return explicit
	}
	return Global
}

// Call invokes f with receiver as this.
func (f *Function) Call(receiver *Object, args ...value.Value) value.Value {
	return f.Apply(receiver, args)
}

// Apply is Call with the arguments passed as a slice.
func (f *Function) Apply(receiver *Object, args []value.Value) value.Value {
	this := BindReceiver(receiver)
	if f.fn == nil {
		return value.Undefined()
	}
	return f.fn(this, args)
}

// Value wraps f as a property value.
func (f *Function) Value() value.Value { return value.NewFunction(f) }

// Inspect renders the function the way a console does.
func (f *Function) Inspect() string {
	if f.Name != "" {
		return fmt.Sprintf("[Function: %s]", f.Name)
	}
	return "[Function (anonymous)]"
}

// AsFunction extracts a Function from a value.
func AsFunction(v value.Value) (*Function, bool) {
	if !v.IsFunction() {
		return nil, false
	}
	f, ok := v.AsRef().(*Function)
	return f, ok
}

// Invoke performs a method call o.name(args...): name is resolved on o and
// the function found is called with o as receiver.
func Invoke(o *Object, name string, args ...value.Value) (value.Value, error) {
	v, ok := Resolve(o, name)
	if !ok {
		return value.Undefined(), &errors.TypeError{Msg: fmt.Sprintf("%s.%s is not a function (undefined)", o.name(), name)}
	}
	f, ok := AsFunction(v)
	if !ok {
		return value.Undefined(), &errors.TypeError{Msg: fmt.Sprintf("%s.%s is not a function (%s)", o.name(), name, v.Type)}
	}
	return f.Apply(o, args), nil
}
