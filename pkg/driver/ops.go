package driver

import (
	goerrors "errors"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"protowalk/pkg/errors"
	"protowalk/pkg/object"
	"protowalk/pkg/value"
)

type stepFunc func(s *Session, st *Step) error

// stepOps maps each op to its implementation. Actions mutate objects;
// checks record a Result.
var stepOps = map[string]stepFunc{
	// actions
	"set":            (*Session).opSet,
	"delete":         (*Session).opDelete,
	"set_delegate":   (*Session).opSetDelegate,
	"extend":         (*Session).opExtend,
	"construct":      (*Session).opConstruct,
	"call":           (*Session).opCall,
	"invoke":         (*Session).opInvoke,
	"install_lookup": (*Session).opInstallLookup,
	"remove_lookup":  (*Session).opRemoveLookup,
	// checks
	"resolve":     (*Session).opResolve,
	"lookup":      (*Session).opLookup,
	"own":         (*Session).opOwn,
	"visible":     (*Session).opVisible,
	"delegate":    (*Session).opDelegate,
	"same":        (*Session).opSame,
	"instance_of": (*Session).opInstanceOf,
}

func (s *Session) opSet(st *Step) error {
	obj, err := s.ref(st.Object)
	if err != nil {
		return err
	}
	if st.Name == "" {
		return fmt.Errorf("set: missing name")
	}
	v, err := s.materialize(&st.Value, nil)
	if err != nil {
		return err
	}
	obj.SetOwn(st.Name, v)
	return nil
}

func (s *Session) opDelete(st *Step) error {
	obj, err := s.ref(st.Object)
	if err != nil {
		return err
	}
	if st.Name == "" {
		return fmt.Errorf("delete: missing name")
	}
	obj.DeleteOwn(st.Name)
	return nil
}

func (s *Session) opSetDelegate(st *Step) error {
	obj, err := s.ref(st.Object)
	if err != nil {
		return err
	}
	d, err := s.receiver(st.Delegate)
	if err != nil {
		return err
	}
	prior := obj.Delegate()
	err = obj.SetDelegate(d)
	if st.ExpectError == "" {
		return err
	}
	desc := fmt.Sprintf("set_delegate %s fails with %s", st.Object, st.ExpectError)
	var cycleErr *errors.CycleError
	switch {
	case err == nil:
		s.record(st, desc, false, "assignment succeeded")
	case st.ExpectError != "cycle" || !goerrors.As(err, &cycleErr):
		s.record(st, desc, false, "got "+err.Error())
	case obj.Delegate() != prior:
		s.record(st, desc, false, "previous delegate was replaced")
	default:
		s.record(st, desc, true, "")
	}
	return nil
}

func (s *Session) opExtend(st *Step) error {
	target, err := s.ref(st.Target)
	if err != nil {
		return err
	}
	names := st.Sources
	if st.Source != "" {
		names = append([]string{st.Source}, names...)
	}
	if len(names) == 0 {
		return fmt.Errorf("extend: missing source")
	}
	sources := make([]*object.Object, 0, len(names))
	for _, name := range names {
		src, err := s.ref(name)
		if err != nil {
			return err
		}
		sources = append(sources, src)
	}
	object.Extend(target, sources...)
	return nil
}

func (s *Session) opConstruct(st *Step) error {
	ctor, err := s.ctor(st.Constructor)
	if err != nil {
		return err
	}
	args, err := s.args(st.Args)
	if err != nil {
		return err
	}
	obj := ctor.Construct(args...)
	if st.As != "" {
		s.bind(st.As, obj)
	}
	return nil
}

// opCall is a bare call of a constructor's initializer or of a builtin
// function. The receiver defaults to global.
func (s *Session) opCall(st *Step) error {
	receiver, err := s.receiver(st.Receiver)
	if err != nil {
		return err
	}
	args, err := s.args(st.Args)
	if err != nil {
		return err
	}
	var result value.Value
	var callee string
	switch {
	case st.Constructor != "":
		ctor, err := s.ctor(st.Constructor)
		if err != nil {
			return err
		}
		callee = st.Constructor
		result = ctor.Call(receiver, args...)
	case st.Function != "":
		fn, ok := builtinFunctions[st.Function]
		if !ok {
			return fmt.Errorf("unknown function %q", st.Function)
		}
		callee = st.Function
		result = fn.Apply(receiver, args)
	default:
		return fmt.Errorf("call: missing constructor or function")
	}
	return s.expectValue(st, "call "+callee, result, true)
}

func (s *Session) opInvoke(st *Step) error {
	obj, err := s.ref(st.Object)
	if err != nil {
		return err
	}
	args, err := s.args(st.Args)
	if err != nil {
		return err
	}
	desc := fmt.Sprintf("invoke %s.%s", st.Object, st.Name)
	result, err := object.Invoke(obj, st.Name, args...)
	if err != nil {
		var typeErr *errors.TypeError
		passed := st.ExpectError == "type" && goerrors.As(err, &typeErr)
		s.record(st, desc, passed, err.Error())
		return nil
	}
	if st.ExpectError != "" {
		s.record(st, desc, false, "call succeeded")
		return nil
	}
	return s.expectValue(st, desc, result, true)
}

func (s *Session) opInstallLookup(st *Step) error {
	target, err := s.lookupTarget(st)
	if err != nil {
		return err
	}
	object.InstallLookup(target)
	return nil
}

func (s *Session) opRemoveLookup(st *Step) error {
	target, err := s.lookupTarget(st)
	if err != nil {
		return err
	}
	object.RemoveLookup(target)
	return nil
}

func (s *Session) lookupTarget(st *Step) (*object.Object, error) {
	if st.Object == "" {
		return object.ObjectPrototype, nil
	}
	return s.ref(st.Object)
}

func (s *Session) opResolve(st *Step) error {
	obj, err := s.ref(st.Object)
	if err != nil {
		return err
	}
	desc := fmt.Sprintf("resolve %s.%s", st.Object, st.Name)
	v, ok := object.Resolve(obj, st.Name)
	if st.Missing {
		s.record(st, desc+" is missing", !ok, "found "+v.Inspect())
		return nil
	}
	if !ok {
		s.record(st, desc, false, "not found")
		return nil
	}
	return s.expectValue(st, desc, v, false)
}

// opLookup calls the installed lookup function, as obj.lookup(name).
func (s *Session) opLookup(st *Step) error {
	obj, err := s.ref(st.Object)
	if err != nil {
		return err
	}
	desc := fmt.Sprintf("%s.lookup(%q)", st.Object, st.Name)
	v, err := object.Invoke(obj, object.LookupName, value.String(st.Name))
	if err != nil {
		s.record(st, desc, false, err.Error())
		return nil
	}
	if st.Missing {
		s.record(st, desc+" is undefined", v.IsUndefined(), "got "+v.Inspect())
		return nil
	}
	return s.expectValue(st, desc, v, false)
}

func (s *Session) opOwn(st *Step) error {
	obj, err := s.ref(st.Object)
	if err != nil {
		return err
	}
	want, err := expectBool(&st.Expect)
	if err != nil {
		return err
	}
	got := obj.HasOwn(st.Name)
	s.record(st, fmt.Sprintf("own %s.%s is %v", st.Object, st.Name, want), got == want, fmt.Sprintf("got %v", got))
	return nil
}

func (s *Session) opVisible(st *Step) error {
	obj, err := s.ref(st.Object)
	if err != nil {
		return err
	}
	var want []string
	if st.Expect.Kind != yaml.SequenceNode {
		return fmt.Errorf("visible: expect must be a list of names")
	}
	if err := st.Expect.Decode(&want); err != nil {
		return fmt.Errorf("visible: %w", err)
	}
	for i := range want {
		want[i] = normalizeName(want[i])
	}
	var got []string
	if st.Match != "" {
		seq, err := object.MatchingNames(obj, st.Match)
		if err != nil {
			return err
		}
		got = slices.Collect(seq)
	} else {
		got = object.Keys(obj)
	}
	desc := fmt.Sprintf("visible %s", st.Object)
	if st.Match != "" {
		desc += fmt.Sprintf(" matching %q", st.Match)
	}
	s.record(st, desc, slices.Equal(got, want), fmt.Sprintf("expected [%s], got [%s]", strings.Join(want, ", "), strings.Join(got, ", ")))
	return nil
}

func (s *Session) opDelegate(st *Step) error {
	obj, err := s.ref(st.Object)
	if err != nil {
		return err
	}
	var want *object.Object
	wantName := "null"
	if st.Expect.Kind == 0 {
		return fmt.Errorf("delegate: missing expect")
	}
	if st.Expect.ShortTag() != "!!null" {
		wantName = st.Expect.Value
		if want, err = s.ref(wantName); err != nil {
			return err
		}
	}
	got := obj.Delegate()
	s.record(st, fmt.Sprintf("delegate of %s is %s", st.Object, wantName), got == want, "got "+s.describe(got))
	return nil
}

func (s *Session) opSame(st *Step) error {
	left, err := s.operand(st.Object, st.Name)
	if err != nil {
		return err
	}
	right, err := s.operand(st.Other, st.OtherName)
	if err != nil {
		return err
	}
	want, err := expectBool(&st.Expect)
	if err != nil {
		return err
	}
	desc := fmt.Sprintf("%s === %s is %v", joinPath(st.Object, st.Name), joinPath(st.Other, st.OtherName), want)
	s.record(st, desc, value.Is(left, right) == want, fmt.Sprintf("got %s and %s", left.Inspect(), right.Inspect()))
	return nil
}

func (s *Session) opInstanceOf(st *Step) error {
	obj, err := s.ref(st.Object)
	if err != nil {
		return err
	}
	ctor, err := s.ctor(st.Constructor)
	if err != nil {
		return err
	}
	want, err := expectBool(&st.Expect)
	if err != nil {
		return err
	}
	got := object.InstanceOf(obj, ctor)
	s.record(st, fmt.Sprintf("%s instanceof %s is %v", st.Object, st.Constructor, want), got == want, fmt.Sprintf("got %v", got))
	return nil
}

// expectValue records a comparison of v against st.Expect. When the step
// has no expectation and optional is set, nothing is recorded.
func (s *Session) expectValue(st *Step, desc string, v value.Value, optional bool) error {
	if st.Missing {
		s.record(st, desc+" is undefined", v.IsUndefined(), "got "+v.Inspect())
		return nil
	}
	if st.Expect.Kind == 0 {
		if optional {
			return nil
		}
		return fmt.Errorf("%s: missing expect", st.Op)
	}
	ok, want, err := s.matches(v, &st.Expect)
	if err != nil {
		return err
	}
	s.record(st, fmt.Sprintf("%s is %s", desc, want), ok, "got "+v.Inspect())
	return nil
}

// operand is the object named ref, or its property name when given.
func (s *Session) operand(ref, name string) (value.Value, error) {
	obj, err := s.ref(ref)
	if err != nil {
		return value.Undefined(), err
	}
	if name == "" {
		return obj.Value(), nil
	}
	v, _ := object.Resolve(obj, name)
	return v, nil
}

// describe names an object by its scenario reference when it has one.
func (s *Session) describe(obj *object.Object) string {
	switch obj {
	case nil:
		return "null"
	case object.Global:
		return globalRef
	case object.ObjectPrototype:
		return objectPrototypeRef
	}
	for _, name := range s.order {
		if s.objects[name] == obj {
			return name
		}
	}
	for name, ctor := range s.ctors {
		if ctor.Prototype == obj {
			return name + prototypeSuffix
		}
	}
	return obj.Inspect()
}

func joinPath(ref, name string) string {
	if name == "" {
		return ref
	}
	return ref + "." + name
}
