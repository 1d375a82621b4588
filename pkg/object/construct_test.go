package object

import (
	"testing"

	"protowalk/pkg/value"
)

func newFoo() *Constructor {
	return NewConstructor("Foo", func(this *Object, args []value.Value) value.Value {
		this.SetOwn("foo", value.String("foo"))
		return value.Undefined()
	})
}

func TestConstructReturnsObject(t *testing.T) {
	foo := newFoo()
	f := foo.Construct()
	if f == nil || !f.Value().Truthy() {
		t.Fatalf("expected Construct to return an object")
	}
	if !f.HasOwn("foo") {
		t.Errorf("expected properties set on this to be own properties")
	}
	if f.Delegate() != foo.Prototype {
		t.Errorf("expected the object's delegate to be the constructor prototype")
	}
}

func TestConstructSharesPrototype(t *testing.T) {
	foo := newFoo()
	f1 := foo.Construct()
	f2 := foo.Construct()
	if f1 == f2 {
		t.Errorf("expected distinct objects")
	}
	if f1.Delegate() != f2.Delegate() {
		t.Errorf("expected identical delegates")
	}

	shared := NewObject()
	shared.SetOwn("someKey", value.String("someVal"))
	foo.Prototype.SetOwn("bar", shared.Value())
	b1, ok1 := f1.Get("bar")
	b2, ok2 := f2.Get("bar")
	if !ok1 || !ok2 || !value.Is(b1, b2) {
		t.Errorf("expected f1.bar and f2.bar to be identical")
	}
	if got, _ := AsObject(b1); got != shared {
		t.Errorf("expected bar to be the shared object")
	}
}

func TestConstructorPrototypeDelegatesToObjectPrototype(t *testing.T) {
	foo := newFoo()
	obj := NewObject()
	if foo.Prototype.Delegate() != obj.Delegate() {
		t.Errorf("expected Foo.prototype's delegate to be the default delegate")
	}
	if foo.Prototype.Delegate() != ObjectPrototype {
		t.Errorf("expected Foo.prototype's delegate to be ObjectPrototype")
	}
}

func TestConstructDiscardsInitializerResult(t *testing.T) {
	other := NewObject()
	ctor := NewConstructor("Test", func(this *Object, args []value.Value) value.Value {
		return other.Value()
	})
	got := ctor.Construct()
	if got == other {
		t.Errorf("expected the initializer's return value to be discarded")
	}
	if got.Delegate() != ctor.Prototype {
		t.Errorf("expected the constructed object")
	}
}

func TestConstructPassesArguments(t *testing.T) {
	point := NewConstructor("Point", func(this *Object, args []value.Value) value.Value {
		this.SetOwn("x", args[0])
		this.SetOwn("y", args[1])
		return value.Undefined()
	})
	p := point.Construct(value.Number(1), value.Number(2))
	x, _ := p.GetOwn("x")
	y, _ := p.GetOwn("y")
	if x.AsNumber() != 1 || y.AsNumber() != 2 {
		t.Errorf("expected {x: 1, y: 2}, got %s", p.Inspect())
	}
}

func TestConstructorWithExplicitPrototype(t *testing.T) {
	proto := NewRoot()
	ctor := NewConstructorWithPrototype("Bare", proto, nil)
	obj := ctor.Construct()
	if obj.Delegate() != proto {
		t.Errorf("expected the explicit prototype to be used")
	}
	if obj.Own().Len() != 0 {
		t.Errorf("expected a nil initializer to leave the object empty")
	}
	if NewConstructorWithPrototype("Fresh", nil, nil).Prototype == nil {
		t.Errorf("expected a nil prototype to be replaced")
	}
}

func TestBareCallWritesToGlobal(t *testing.T) {
	foo := newFoo()
	defer Global.DeleteOwn("foo")

	result := foo.Call(nil)
	if !result.IsUndefined() {
		t.Errorf("expected a bare call to return undefined, got %s", result.Inspect())
	}
	v, ok := Global.GetOwn("foo")
	if !ok || v.AsString() != "foo" {
		t.Errorf("expected foo to land on the global object, got %s", v.Inspect())
	}
}

func TestBareCallWithReceiver(t *testing.T) {
	foo := newFoo()
	target := NewObject()
	foo.Call(target)
	if !target.HasOwn("foo") {
		t.Errorf("expected the explicit receiver to be initialized")
	}
	if target.Delegate() != ObjectPrototype {
		t.Errorf("expected a bare call not to rebind the receiver's delegate")
	}
}

func TestInstanceOf(t *testing.T) {
	foo := newFoo()
	bar := newFoo()
	f := foo.Construct()
	if !InstanceOf(f, foo) {
		t.Errorf("expected f to be an instance of Foo")
	}
	if InstanceOf(f, bar) {
		t.Errorf("expected f not to be an instance of another constructor")
	}
	if InstanceOf(foo.Prototype, foo) {
		t.Errorf("expected the prototype not to be an instance of its own constructor")
	}
}
