package object

import (
	"testing"

	"protowalk/pkg/value"
)

func TestResolveOwnProperty(t *testing.T) {
	obj := NewObject()
	obj.SetOwn("foo", value.String("foo"))
	if !obj.HasOwn("foo") {
		t.Errorf("expected foo to be an own property")
	}
	v, ok := Resolve(obj, "foo")
	if !ok || v.AsString() != "foo" {
		t.Errorf("expected \"foo\", got %s (ok=%v)", v.Inspect(), ok)
	}
}

func TestResolveRootMissIsNotFound(t *testing.T) {
	obj := NewObject()
	mustSetDelegate(t, obj, nil)
	v, ok := Resolve(obj, "foo")
	if ok {
		t.Errorf("expected not found, got %s", v.Inspect())
	}
	if !v.IsUndefined() {
		t.Errorf("expected undefined alongside not found, got %s", v.Inspect())
	}
}

func TestResolveThroughDelegate(t *testing.T) {
	obj := NewObject()
	proto := NewObject()
	proto.SetOwn("foo", value.String("foo"))
	mustSetDelegate(t, obj, proto)

	if obj.HasOwn("foo") {
		t.Errorf("expected foo not to be own")
	}
	if !obj.Delegate().HasOwn("foo") {
		t.Errorf("expected foo to be own on the delegate")
	}
	if v, ok := obj.Get("foo"); !ok || v.AsString() != "foo" {
		t.Errorf("expected \"foo\" through the delegate, got %s", v.Inspect())
	}
}

func TestResolveUpTheChain(t *testing.T) {
	obj, a, b, c := NewObject(), NewObject(), NewObject(), NewObject()
	a.SetOwn("alligator", value.String("alligator"))
	b.SetOwn("bicycle", value.String("bicycle"))
	c.SetOwn("cat", value.String("cat"))
	mustSetDelegate(t, obj, a)
	mustSetDelegate(t, a, b)
	mustSetDelegate(t, b, c)

	tests := []struct {
		from     *Object
		name     string
		expected string
	}{
		{obj, "alligator", "alligator"},
		{obj, "bicycle", "bicycle"},
		{a, "bicycle", "bicycle"},
		{obj, "cat", "cat"},
		{a, "cat", "cat"},
		{b, "cat", "cat"},
	}
	for _, tt := range tests {
		v, ok := Resolve(tt.from, tt.name)
		if !ok || v.AsString() != tt.expected {
			t.Errorf("Resolve(%s, %q): expected %q, got %s (ok=%v)", tt.from.name(), tt.name, tt.expected, v.Inspect(), ok)
		}
	}
	if _, ok := Resolve(c, "alligator"); ok {
		t.Errorf("expected delegates not to see properties of their delegators")
	}
}

func TestResolveNearestWins(t *testing.T) {
	obj, near, far := NewRoot(), NewRoot(), NewRoot()
	mustSetDelegate(t, obj, near)
	mustSetDelegate(t, near, far)
	far.SetOwn("x", value.String("far"))
	near.SetOwn("x", value.String("near"))

	if v, _ := Resolve(obj, "x"); v.AsString() != "near" {
		t.Errorf("expected nearer delegate to win, got %s", v.Inspect())
	}
	obj.SetOwn("x", value.String("own"))
	if v, _ := Resolve(obj, "x"); v.AsString() != "own" {
		t.Errorf("expected own property to win, got %s", v.Inspect())
	}
	if DefinedOn(obj, "x") != obj {
		t.Errorf("expected DefinedOn to report obj")
	}
	obj.DeleteOwn("x")
	near.DeleteOwn("x")
	if DefinedOn(obj, "x") != far {
		t.Errorf("expected DefinedOn to report far")
	}
	if DefinedOn(obj, "missing") != nil {
		t.Errorf("expected DefinedOn to report nil for a missing name")
	}
}

func TestResolveHoldsUndefinedValue(t *testing.T) {
	obj, proto := NewRoot(), NewRoot()
	mustSetDelegate(t, obj, proto)
	proto.SetOwn("x", value.String("proto"))
	obj.SetOwn("x", value.Undefined())
	v, ok := Resolve(obj, "x")
	if !ok || !v.IsUndefined() {
		t.Errorf("expected an own undefined to shadow the delegate, got %s (ok=%v)", v.Inspect(), ok)
	}
}

func TestResolveSeesLaterDelegateMutation(t *testing.T) {
	obj, proto := NewRoot(), NewRoot()
	mustSetDelegate(t, obj, proto)
	if obj.Has("late") {
		t.Errorf("expected late to be absent")
	}
	proto.SetOwn("late", value.Bool(true))
	if !obj.Has("late") {
		t.Errorf("expected late to be visible after mutating the delegate")
	}
}

func TestChainAndIsDelegateOf(t *testing.T) {
	obj, a, b := NewRoot(), NewRoot(), NewRoot()
	mustSetDelegate(t, obj, a)
	mustSetDelegate(t, a, b)
	var got []*Object
	for o := range Chain(obj) {
		got = append(got, o)
	}
	if len(got) != 3 || got[0] != obj || got[1] != a || got[2] != b {
		t.Errorf("expected chain [obj a b], got %d objects", len(got))
	}
	if !IsDelegateOf(b, obj) || !IsDelegateOf(a, obj) {
		t.Errorf("expected a and b to be delegates of obj")
	}
	if IsDelegateOf(obj, obj) {
		t.Errorf("expected an object not to be its own delegate")
	}
	if IsDelegateOf(obj, b) {
		t.Errorf("expected obj not to be a delegate of b")
	}
}
