package driver

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"protowalk/pkg/errors"
	"protowalk/pkg/object"
	"protowalk/pkg/value"
)

const debugDriver = false

func debugPrintf(format string, args ...interface{}) {
	if debugDriver {
		fmt.Printf(format, args...)
	}
}

// Reserved object references.
const (
	globalRef          = "global"
	objectPrototypeRef = "Object.prototype"
	prototypeSuffix    = ".prototype"
)

// RunOptions configures a session.
type RunOptions struct {
	// Verbose writes each step to Log as it runs.
	Verbose bool
	Log     io.Writer
}

// Result is the outcome of one step that carries an expectation.
type Result struct {
	Pos    errors.Position
	Op     string
	Desc   string
	Passed bool
	Detail string
}

// Report collects the results of one scenario run.
type Report struct {
	Path        string
	Description string
	Results     []Result
}

// Failed counts failed results.
func (r *Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if !res.Passed {
			n++
		}
	}
	return n
}

// Session runs one scenario. The ambient objects (global and
// Object.prototype) are restored by Close.
type Session struct {
	scenario *Scenario
	opts     RunOptions

	objects map[string]*object.Object
	order   []string
	ctors   map[string]*object.Constructor

	snapshots []storeSnapshot
	report    *Report
	errs      []errors.ModelError
}

// NewSession prepares a session for sc. Nothing runs until Run.
func NewSession(sc *Scenario, opts RunOptions) *Session {
	return &Session{
		scenario: sc,
		opts:     opts,
		objects:  make(map[string]*object.Object),
		ctors:    make(map[string]*object.Constructor),
		report:   &Report{Path: sc.Path, Description: sc.Description},
	}
}

// Run builds the scenario's objects and runs its steps in order. Setup
// failures stop the run and are returned as errors; failed expectations
// are recorded in the report.
func (s *Session) Run() (*Report, []errors.ModelError) {
	s.snapshots = []storeSnapshot{snapshot(object.Global), snapshot(object.ObjectPrototype)}
	if err := s.setup(); err != nil {
		s.errs = append(s.errs, err)
		return s.report, s.errs
	}
	for i := range s.scenario.Steps {
		st := &s.scenario.Steps[i]
		if s.opts.Verbose && s.opts.Log != nil {
			fmt.Fprintf(s.opts.Log, "step %d (line %d): %s\n", i+1, st.pos.Line, st.Op)
		}
		debugPrintf("// [driver] step %d: %s\n", i+1, st.Op)
		if err := stepOps[st.Op](s, st); err != nil {
			s.errs = append(s.errs, s.errorAt(st.pos, err))
			break
		}
	}
	return s.report, s.errs
}

// RunFile loads the scenario at path, runs it and restores the ambient
// objects.
func RunFile(path string, opts RunOptions) (*Report, []errors.ModelError) {
	sc, err := LoadScenario(path)
	if err != nil {
		return &Report{Path: path}, []errors.ModelError{asModelError(err)}
	}
	s := NewSession(sc, opts)
	defer s.Close()
	return s.Run()
}

func asModelError(err error) errors.ModelError {
	if me, ok := err.(errors.ModelError); ok {
		return me
	}
	return (&errors.ScenarioError{Msg: err.Error()}).CausedBy(err)
}

// Close restores the ambient objects' delegates and own properties to
// their state when Run started.
func (s *Session) Close() {
	restoreSnapshots(s.snapshots)
	s.snapshots = nil
}

// Names returns the scenario's named objects in declaration order,
// including objects bound by construct steps.
func (s *Session) Names() []string {
	return slices.Clone(s.order)
}

// Object returns an object by reference: a scenario name, "global",
// "Object.prototype" or "<Constructor>.prototype".
func (s *Session) Object(ref string) (*object.Object, bool) {
	obj, err := s.ref(ref)
	return obj, err == nil
}

// Dump writes each named object with its own properties and visible names.
// When match is non-empty only matching names are listed.
func (s *Session) Dump(w io.Writer, match string) error {
	for _, name := range s.order {
		obj := s.objects[name]
		var names []string
		if match != "" {
			seq, err := object.MatchingNames(obj, match)
			if err != nil {
				return err
			}
			names = slices.Collect(seq)
		} else {
			names = object.Keys(obj)
		}
		fmt.Fprintf(w, "%s = %s\n", name, obj.Inspect())
		fmt.Fprintf(w, "  visible: %s\n", strings.Join(names, ", "))
	}
	return nil
}

func (s *Session) setup() errors.ModelError {
	sc := s.scenario
	for _, spec := range sc.Objects {
		if spec.Root {
			s.bind(spec.Name, object.NewRoot())
		} else {
			s.bind(spec.Name, object.NewObject())
		}
	}
	for i := range sc.Constructors {
		spec := &sc.Constructors[i]
		s.ctors[spec.Name] = object.NewConstructor(spec.Name, s.initializer(spec))
	}
	for i := range sc.Objects {
		spec := &sc.Objects[i]
		obj := s.objects[spec.Name]
		if err := s.assignProps(obj, &spec.Props, nil); err != nil {
			return s.errorAt(spec.pos, fmt.Errorf("object %s: %w", spec.Name, err))
		}
	}
	for i := range sc.Constructors {
		spec := &sc.Constructors[i]
		if err := s.assignProps(s.ctors[spec.Name].Prototype, &spec.Prototype, nil); err != nil {
			return s.errorAt(spec.pos, fmt.Errorf("constructor %s: %w", spec.Name, err))
		}
	}
	for i := range sc.Objects {
		spec := &sc.Objects[i]
		if spec.Delegate == "" {
			continue
		}
		d, err := s.ref(spec.Delegate)
		if err != nil {
			return s.errorAt(spec.pos, err)
		}
		if err := s.objects[spec.Name].SetDelegate(d); err != nil {
			return s.errorAt(spec.pos, err)
		}
	}
	return nil
}

// initializer builds the constructor body: it sets spec.This on the
// receiver and returns spec.Returns.
func (s *Session) initializer(spec *ConstructorSpec) object.NativeFunc {
	return func(this *object.Object, args []value.Value) value.Value {
		if err := s.assignProps(this, &spec.This, args); err != nil {
			s.errs = append(s.errs, s.errorAt(spec.pos, fmt.Errorf("constructor %s: %w", spec.Name, err)))
		}
		if spec.Returns.Kind == 0 {
			return value.Undefined()
		}
		v, err := s.materialize(&spec.Returns, args)
		if err != nil {
			s.errs = append(s.errs, s.errorAt(spec.pos, fmt.Errorf("constructor %s: %w", spec.Name, err)))
		}
		return v
	}
}

func (s *Session) bind(name string, obj *object.Object) {
	s.objects[name] = obj
	s.order = append(s.order, name)
}

func (s *Session) ref(name string) (*object.Object, error) {
	switch name {
	case globalRef:
		return object.Global, nil
	case objectPrototypeRef:
		return object.ObjectPrototype, nil
	}
	if obj, ok := s.objects[name]; ok {
		return obj, nil
	}
	if ctorName, ok := strings.CutSuffix(name, prototypeSuffix); ok {
		if ctor, ok := s.ctors[ctorName]; ok {
			return ctor.Prototype, nil
		}
	}
	return nil, fmt.Errorf("unknown object %q", name)
}

func (s *Session) ctor(name string) (*object.Constructor, error) {
	if ctor, ok := s.ctors[name]; ok {
		return ctor, nil
	}
	return nil, fmt.Errorf("unknown constructor %q", name)
}

// receiver resolves an optional receiver reference; "null" and absence
// both leave the choice to object.BindReceiver.
func (s *Session) receiver(ref *string) (*object.Object, error) {
	if ref == nil || *ref == "null" {
		return nil, nil
	}
	return s.ref(*ref)
}

func (s *Session) errorAt(pos errors.Position, err error) errors.ModelError {
	if se, ok := err.(*errors.ScenarioError); ok {
		if se.File == "" {
			se.File = s.scenario.Path
		}
		return se
	}
	pos.File = s.scenario.Path
	return (&errors.ScenarioError{Position: pos, Msg: err.Error()}).CausedBy(err)
}

func (s *Session) record(st *Step, desc string, passed bool, detail string) {
	pos := st.pos
	pos.File = s.scenario.Path
	s.report.Results = append(s.report.Results, Result{Pos: pos, Op: st.Op, Desc: desc, Passed: passed, Detail: detail})
}

// expectBool reads an optional boolean expectation, defaulting to true.
func expectBool(n *yaml.Node) (bool, error) {
	if n.Kind == 0 {
		return true, nil
	}
	var b bool
	if err := n.Decode(&b); err != nil {
		return false, fmt.Errorf("line %d: expect must be a boolean", n.Line)
	}
	return b, nil
}

// storeSnapshot remembers an object's delegate and own properties.
type storeSnapshot struct {
	obj      *object.Object
	delegate *object.Object
	names    []string
	values   []value.Value
}

func snapshot(obj *object.Object) storeSnapshot {
	snap := storeSnapshot{obj: obj, delegate: obj.Delegate()}
	for name := range obj.Own().Names() {
		v, _ := obj.Own().Get(name)
		snap.names = append(snap.names, name)
		snap.values = append(snap.values, v)
	}
	return snap
}

// restoreSnapshots puts every snapshot back. All delegates are cleared
// before any is reassigned.
func restoreSnapshots(snaps []storeSnapshot) {
	for _, snap := range snaps {
		_ = snap.obj.SetDelegate(nil)
	}
	for _, snap := range snaps {
		if err := snap.obj.SetDelegate(snap.delegate); err != nil {
			debugPrintf("// [driver] restoring delegate: %v\n", err)
		}
		snap.restoreStore()
	}
}

func (snap storeSnapshot) restoreStore() {
	for _, name := range snap.obj.OwnKeys() {
		snap.obj.DeleteOwn(name)
	}
	for i, name := range snap.names {
		snap.obj.SetOwn(name, snap.values[i])
	}
}
