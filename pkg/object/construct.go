package object

import "protowalk/pkg/value"

// Constructor pairs an initializer with the prototype shared by every
// object it constructs.
type Constructor struct {
	Name      string
	Prototype *Object
	init      NativeFunc
}

// NewConstructor creates a constructor whose prototype is a fresh object
// delegating to ObjectPrototype.
func NewConstructor(name string, init NativeFunc) *Constructor {
	return NewConstructorWithPrototype(name, NewObject(), init)
}

// NewConstructorWithPrototype creates a constructor sharing the given
// prototype. A nil prototype is replaced by a fresh one.
func NewConstructorWithPrototype(name string, proto *Object, init NativeFunc) *Constructor {
	if proto == nil {
		proto = NewObject()
	}
	return &Constructor{Name: name, Prototype: proto, init: init}
}

// Construct creates an object delegating to c.Prototype and runs the
// initializer with it as receiver. The initializer's return value is
// discarded; the new object is always the result.
func (c *Constructor) Construct(args ...value.Value) *Object {
	obj := newObject(c.Prototype)
	if c.init != nil {
		_ = c.init(obj, args)
	}
	debugPrintf("// [object] constructed %s via %s\n", obj.name(), c.Name)
	return obj
}

// Call runs the initializer as a plain function, without creating an
// object. With a nil receiver the initializer writes onto Global.
func (c *Constructor) Call(receiver *Object, args ...value.Value) value.Value {
	this := BindReceiver(receiver)
	if c.init == nil {
		return value.Undefined()
	}
	return c.init(this, args)
}

// InstanceOf reports whether c.Prototype is a delegate of o.
func InstanceOf(o *Object, c *Constructor) bool {
	return IsDelegateOf(c.Prototype, o)
}
