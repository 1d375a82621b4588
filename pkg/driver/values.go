package driver

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"protowalk/pkg/object"
	"protowalk/pkg/value"
)

// Custom YAML tags understood in value positions.
const (
	tagRef       = "!ref"       // !ref a: the named object a
	tagFn        = "!fn"        // !fn returnThis: a builtin function
	tagArg       = "!arg"       // !arg 0: the first argument of the current call
	tagUndefined = "!undefined" // !undefined ~: the undefined value
)

// builtinFunctions are the callables a scenario can place in properties or
// call directly.
var builtinFunctions = map[string]*object.Function{
	"returnThis": object.NewFunction("returnThis", 0, func(this *object.Object, args []value.Value) value.Value {
		return this.Value()
	}),
	"returnArgs": object.NewFunction("returnArgs", 0, func(this *object.Object, args []value.Value) value.Value {
		if len(args) == 0 {
			return value.Undefined()
		}
		return args[0]
	}),
}

// materialize turns a YAML node into a value. Mappings become fresh objects
// delegating to Object.prototype, with their entries as own properties in
// document order. args supplies !arg references.
func (s *Session) materialize(n *yaml.Node, args []value.Value) (value.Value, error) {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	switch n.Kind {
	case yaml.MappingNode:
		obj := object.NewObject()
		if err := s.assignProps(obj, n, args); err != nil {
			return value.Undefined(), err
		}
		return obj.Value(), nil
	case yaml.ScalarNode:
		return s.scalar(n, args)
	case yaml.SequenceNode:
		return value.Undefined(), fmt.Errorf("line %d: sequences are not values", n.Line)
	default:
		return value.Undefined(), fmt.Errorf("line %d: missing value", n.Line)
	}
}

func (s *Session) scalar(n *yaml.Node, args []value.Value) (value.Value, error) {
	switch n.ShortTag() {
	case "!!str":
		return value.String(n.Value), nil
	case "!!int", "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return value.Undefined(), fmt.Errorf("line %d: %w", n.Line, err)
		}
		return value.Number(f), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return value.Undefined(), fmt.Errorf("line %d: %w", n.Line, err)
		}
		return value.Bool(b), nil
	case "!!null":
		return value.Null(), nil
	case tagUndefined:
		return value.Undefined(), nil
	case tagRef:
		obj, err := s.ref(n.Value)
		if err != nil {
			return value.Undefined(), fmt.Errorf("line %d: %w", n.Line, err)
		}
		return obj.Value(), nil
	case tagFn:
		fn, ok := builtinFunctions[n.Value]
		if !ok {
			return value.Undefined(), fmt.Errorf("line %d: unknown function %q", n.Line, n.Value)
		}
		return fn.Value(), nil
	case tagArg:
		i, err := strconv.Atoi(n.Value)
		if err != nil || i < 0 {
			return value.Undefined(), fmt.Errorf("line %d: bad argument index %q", n.Line, n.Value)
		}
		if i >= len(args) {
			return value.Undefined(), nil
		}
		return args[i], nil
	default:
		return value.Undefined(), fmt.Errorf("line %d: unsupported tag %s", n.Line, n.ShortTag())
	}
}

// assignProps sets each entry of mapping n as an own property of obj.
func (s *Session) assignProps(obj *object.Object, n *yaml.Node, args []value.Value) error {
	if n.Kind == 0 {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		name := normalizeName(n.Content[i].Value)
		v, err := s.materialize(n.Content[i+1], args)
		if err != nil {
			return fmt.Errorf("property %s: %w", name, err)
		}
		obj.SetOwn(name, v)
	}
	return nil
}

// matches compares an actual value with an expectation node. Mapping
// expectations compare by rendering, everything else by identity.
func (s *Session) matches(actual value.Value, expect *yaml.Node) (bool, string, error) {
	if expect.Kind == yaml.MappingNode {
		want, err := s.materialize(expect, nil)
		if err != nil {
			return false, "", err
		}
		got := actual.String()
		return got == want.String(), want.String(), nil
	}
	want, err := s.materialize(expect, nil)
	if err != nil {
		return false, "", err
	}
	return value.Is(actual, want), want.Inspect(), nil
}

func (s *Session) args(nodes []yaml.Node) ([]value.Value, error) {
	args := make([]value.Value, 0, len(nodes))
	for i := range nodes {
		v, err := s.materialize(&nodes[i], nil)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return args, nil
}
