package object

// Extend copies every visible property of each source, in order, onto
// target as own properties and returns target. Delegated properties of a
// source become own properties of target; a source's value replaces any
// value target already owns. Target's delegate is left untouched.
func Extend(target *Object, sources ...*Object) *Object {
	for _, source := range sources {
		if source == nil {
			continue
		}
		// Snapshot first: target may sit on source's chain.
		names := Keys(source)
		for _, name := range names {
			v, _ := Resolve(source, name)
			target.own.Set(name, v)
		}
		debugPrintf("// [object] extend %s from %s: %d names\n", target.name(), source.name(), len(names))
	}
	return target
}
