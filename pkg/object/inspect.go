package object

import "strings"

const maxInspectDepth = 4

// Inspect renders o's own properties in insertion order, e.g.
// {foo: "foo", bar: {x: 1}}. Delegated properties are not shown.
func (o *Object) Inspect() string {
	return o.inspectWithDepth(0)
}

func (o *Object) inspectWithDepth(depth int) string {
	if depth >= maxInspectDepth {
		return "[Object]"
	}
	var b strings.Builder
	b.WriteString("{")
	i := 0
	for name := range o.own.Names() {
		if i > 0 {
			b.WriteString(", ")
		}
		i++
		v, _ := o.own.Get(name)
		b.WriteString(name)
		b.WriteString(": ")
		if nested, ok := AsObject(v); ok {
			b.WriteString(nested.inspectWithDepth(depth + 1))
		} else {
			b.WriteString(v.Inspect())
		}
	}
	b.WriteString("}")
	return b.String()
}
