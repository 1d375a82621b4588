package value

import (
	"math"
	"testing"
)

type fakeRef struct{ name string }

func (f *fakeRef) Inspect() string { return "<" + f.name + ">" }

func TestIs(t *testing.T) {
	a := &fakeRef{name: "a"}
	b := &fakeRef{name: "a"}

	tests := []struct {
		name     string
		x, y     Value
		expected bool
	}{
		{"undefined", Undefined(), Undefined(), true},
		{"null vs undefined", Null(), Undefined(), false},
		{"same string", String("foo"), String("foo"), true},
		{"different string", String("foo"), String("bar"), false},
		{"number", Number(42), Number(42), true},
		{"NaN", Number(math.NaN()), Number(math.NaN()), false},
		{"bool", Bool(true), Bool(true), true},
		{"number vs string", Number(1), String("1"), false},
		{"same ref", NewObject(a), NewObject(a), true},
		{"equal but distinct refs", NewObject(a), NewObject(b), false},
		{"object vs function of same ref", NewObject(a), NewFunction(a), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.x, tt.y); got != tt.expected {
				t.Errorf("Is(%s, %s): expected %v, got %v", tt.x.Inspect(), tt.y.Inspect(), tt.expected, got)
			}
		})
	}
}

func TestNilRefIsNull(t *testing.T) {
	if v := NewObject(nil); !v.IsNull() {
		t.Errorf("expected NewObject(nil) to be null, got %s", v.Type)
	}
	if v := NewFunction(nil); !v.IsNull() {
		t.Errorf("expected NewFunction(nil) to be null, got %s", v.Type)
	}
}

func TestStringAndInspect(t *testing.T) {
	tests := []struct {
		v       Value
		str     string
		inspect string
	}{
		{Undefined(), "undefined", "undefined"},
		{Null(), "null", "null"},
		{Bool(false), "false", "false"},
		{Number(1.5), "1.5", "1.5"},
		{Number(3), "3", "3"},
		{String("cat"), "cat", `"cat"`},
		{NewObject(&fakeRef{name: "obj"}), "<obj>", "<obj>"},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.str {
			t.Errorf("String(): expected %q, got %q", tt.str, got)
		}
		if got := tt.v.Inspect(); got != tt.inspect {
			t.Errorf("Inspect(): expected %q, got %q", tt.inspect, got)
		}
	}
}

func TestTruthy(t *testing.T) {
	falsy := []Value{Undefined(), Null(), Bool(false), Number(0), Number(math.NaN()), String("")}
	for _, v := range falsy {
		if v.Truthy() {
			t.Errorf("expected %s to be falsy", v.Inspect())
		}
	}
	truthy := []Value{Bool(true), Number(-1), String("0"), NewObject(&fakeRef{name: "x"})}
	for _, v := range truthy {
		if !v.Truthy() {
			t.Errorf("expected %s to be truthy", v.Inspect())
		}
	}
}

func TestAccessorPanicsOnWrongType(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected AsString on a number to panic")
		}
	}()
	_ = Number(1).AsString()
}
