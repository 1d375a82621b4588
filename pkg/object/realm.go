package object

import "protowalk/pkg/value"

// The ambient objects exist once per process.
var (
	// ObjectPrototype is the default delegate of NewObject objects and of
	// constructor prototypes. It is a root.
	ObjectPrototype *Object
	// Global is the receiver of calls made without one.
	Global *Object
)

func init() {
	ObjectPrototype = newObject(nil)
	Global = newObject(ObjectPrototype)
}

// LookupName is the property under which InstallLookup places the lookup
// function.
const LookupName = "lookup"

// lookupFunction resolves its first argument against the receiver.
var lookupFunction = NewFunction(LookupName, 1, func(this *Object, args []value.Value) value.Value {
	if len(args) == 0 {
		return value.Undefined()
	}
	v, _ := Resolve(this, args[0].String())
	return v
})

// InstallLookup gives target an own "lookup" function. Every object
// delegating to target can then call it through ordinary resolution.
func InstallLookup(target *Object) {
	target.own.Set(LookupName, lookupFunction.Value())
}

// RemoveLookup deletes the function installed by InstallLookup.
func RemoveLookup(target *Object) {
	target.own.Delete(LookupName)
}
