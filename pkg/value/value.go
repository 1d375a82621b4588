package value

import (
	"fmt"
	"math"
	"strconv"
)

// ValueType represents the type of a Value.
type ValueType uint8

const (
	TypeUndefined ValueType = iota // Default/uninitialized/implicit return
	TypeNull                       // Explicit null value
	TypeBool
	TypeNumber
	TypeString
	TypeObject   // Reference to an object node
	TypeFunction // Reference to a callable
)

// Ref is implemented by reference payloads (objects and functions).
// Keeping it an interface lets pkg/object store Values without value
// importing object.
type Ref interface {
	Inspect() string
}

// Value represents a property value held by an object node.
// We use a tagged union approach; references compare by identity.
type Value struct {
	Type ValueType
	as   struct {
		boolean bool
		number  float64
		str     string
		ref     Ref
	}
}

// Constructors

func Undefined() Value {
	return Value{Type: TypeUndefined}
}

func Null() Value {
	return Value{Type: TypeNull}
}

func Bool(value bool) Value {
	v := Value{Type: TypeBool}
	v.as.boolean = value
	return v
}

func Number(value float64) Value {
	v := Value{Type: TypeNumber}
	v.as.number = value
	return v
}

func String(value string) Value {
	v := Value{Type: TypeString}
	v.as.str = value
	return v
}

// NewObject wraps an object reference. A nil ref yields Null.
func NewObject(ref Ref) Value {
	if ref == nil {
		return Null()
	}
	v := Value{Type: TypeObject}
	v.as.ref = ref
	return v
}

// NewFunction wraps a callable reference. A nil ref yields Null.
func NewFunction(ref Ref) Value {
	if ref == nil {
		return Null()
	}
	v := Value{Type: TypeFunction}
	v.as.ref = ref
	return v
}

// Type Checkers

func (v Value) IsUndefined() bool { return v.Type == TypeUndefined }
func (v Value) IsNull() bool      { return v.Type == TypeNull }
func (v Value) IsBool() bool      { return v.Type == TypeBool }
func (v Value) IsNumber() bool    { return v.Type == TypeNumber }
func (v Value) IsString() bool    { return v.Type == TypeString }
func (v Value) IsObject() bool    { return v.Type == TypeObject }
func (v Value) IsFunction() bool  { return v.Type == TypeFunction }

// Accessors (with type checking)

func (v Value) AsBool() bool {
	if !v.IsBool() {
		panic("value is not a bool")
	}
	return v.as.boolean
}

func (v Value) AsNumber() float64 {
	if !v.IsNumber() {
		panic("value is not a number")
	}
	return v.as.number
}

func (v Value) AsString() string {
	if !v.IsString() {
		panic("value is not a string")
	}
	return v.as.str
}

// AsRef returns the reference payload of an object or function value.
// The caller asserts the concrete type.
func (v Value) AsRef() Ref {
	if v.Type != TypeObject && v.Type != TypeFunction {
		panic("value is not a reference")
	}
	return v.as.ref
}

// Truthy follows the usual truthiness rules: undefined, null, false, 0, NaN
// and "" are falsy; every reference is truthy.
func (v Value) Truthy() bool {
	switch v.Type {
	case TypeUndefined, TypeNull:
		return false
	case TypeBool:
		return v.as.boolean
	case TypeNumber:
		return v.as.number != 0 && !math.IsNaN(v.as.number)
	case TypeString:
		return v.as.str != ""
	default:
		return true
	}
}

// --- Equality ---

// Is reports strict identity (===). Primitives compare by type and payload,
// references by pointer. NaN is not identical to itself.
func Is(a, b Value) bool {
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case TypeUndefined, TypeNull:
		return true
	case TypeBool:
		return a.as.boolean == b.as.boolean
	case TypeNumber:
		return a.as.number == b.as.number
	case TypeString:
		return a.as.str == b.as.str
	case TypeObject, TypeFunction:
		return a.as.ref == b.as.ref
	default:
		return false
	}
}

// String representation for debugging/printing

func (v Value) String() string {
	switch v.Type {
	case TypeUndefined:
		return "undefined"
	case TypeNull:
		return "null"
	case TypeBool:
		return strconv.FormatBool(v.as.boolean)
	case TypeNumber:
		return strconv.FormatFloat(v.as.number, 'f', -1, 64)
	case TypeString:
		return v.as.str
	case TypeObject, TypeFunction:
		return v.as.ref.Inspect()
	default:
		return fmt.Sprintf("Unknown ValueType: %d", v.Type)
	}
}

// Inspect is like String but quotes strings, for use inside object listings.
func (v Value) Inspect() string {
	if v.Type == TypeString {
		return strconv.Quote(v.as.str)
	}
	return v.String()
}

func (t ValueType) String() string {
	switch t {
	case TypeUndefined:
		return "undefined"
	case TypeNull:
		return "null"
	case TypeBool:
		return "boolean"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeObject:
		return "object"
	case TypeFunction:
		return "function"
	default:
		return "unknown"
	}
}
