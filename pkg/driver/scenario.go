package driver

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"protowalk/pkg/errors"
)

// Scenario is a parsed scenario file: named objects and constructors plus
// an ordered list of steps run against them.
type Scenario struct {
	Path         string            `yaml:"-"`
	Description  string            `yaml:"description"`
	Objects      []ObjectSpec      `yaml:"objects"`
	Constructors []ConstructorSpec `yaml:"constructors"`
	Steps        []Step            `yaml:"steps"`
}

// ObjectSpec declares a named object. Unless Root is set the object
// delegates to Object.prototype, like an object literal.
type ObjectSpec struct {
	Name     string    `yaml:"name"`
	Root     bool      `yaml:"root"`
	Delegate string    `yaml:"delegate"`
	Props    yaml.Node `yaml:"props"`

	pos errors.Position
}

// ConstructorSpec declares a constructor. This lists the properties the
// initializer sets on its receiver; Returns is what the initializer returns.
type ConstructorSpec struct {
	Name      string    `yaml:"name"`
	This      yaml.Node `yaml:"this"`
	Prototype yaml.Node `yaml:"prototype"`
	Returns   yaml.Node `yaml:"returns"`

	pos errors.Position
}

// Step is one action or check. Which fields apply depends on Op.
type Step struct {
	Op          string      `yaml:"op"`
	Object      string      `yaml:"object"`
	Name        string      `yaml:"name"`
	Value       yaml.Node   `yaml:"value"`
	Delegate    *string     `yaml:"delegate"`
	Target      string      `yaml:"target"`
	Source      string      `yaml:"source"`
	Sources     []string    `yaml:"sources"`
	Constructor string      `yaml:"constructor"`
	Function    string      `yaml:"function"`
	Receiver    *string     `yaml:"receiver"`
	Args        []yaml.Node `yaml:"args"`
	As          string      `yaml:"as"`
	Other       string      `yaml:"other"`
	OtherName   string      `yaml:"other_name"`
	Match       string      `yaml:"match"`
	Expect      yaml.Node   `yaml:"expect"`
	Missing     bool        `yaml:"missing"`
	ExpectError string      `yaml:"expect_error"`

	pos errors.Position
}

var (
	objectKeys      = []string{"name", "root", "delegate", "props"}
	constructorKeys = []string{"name", "this", "prototype", "returns"}
	stepKeys        = []string{
		"op", "object", "name", "value", "delegate", "target", "source", "sources",
		"constructor", "function", "receiver", "args", "as", "other", "other_name",
		"match", "expect", "missing", "expect_error",
	}
)

func (o *ObjectSpec) UnmarshalYAML(n *yaml.Node) error {
	if err := checkKeys(n, objectKeys); err != nil {
		return err
	}
	type plain ObjectSpec
	if err := n.Decode((*plain)(o)); err != nil {
		return err
	}
	o.pos = errors.Position{Line: n.Line, Column: n.Column}
	return nil
}

func (c *ConstructorSpec) UnmarshalYAML(n *yaml.Node) error {
	if err := checkKeys(n, constructorKeys); err != nil {
		return err
	}
	type plain ConstructorSpec
	if err := n.Decode((*plain)(c)); err != nil {
		return err
	}
	c.pos = errors.Position{Line: n.Line, Column: n.Column}
	return nil
}

func (s *Step) UnmarshalYAML(n *yaml.Node) error {
	if err := checkKeys(n, stepKeys); err != nil {
		return err
	}
	type plain Step
	if err := n.Decode((*plain)(s)); err != nil {
		return err
	}
	s.Name = normalizeName(s.Name)
	s.OtherName = normalizeName(s.OtherName)
	s.pos = errors.Position{Line: n.Line, Column: n.Column}
	return nil
}

// checkKeys rejects mapping keys outside allowed.
func checkKeys(n *yaml.Node, allowed []string) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", n.Line)
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i]
		found := false
		for _, a := range allowed {
			if key.Value == a {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("line %d: field %s not found", key.Line, key.Value)
		}
	}
	return nil
}

// normalizeName brings a property name to Unicode NFC so that names typed
// in different normal forms denote one property.
func normalizeName(name string) string {
	return norm.NFC.String(name)
}

// LoadScenario reads and parses a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, (&errors.ScenarioError{Position: errors.Position{File: path}, Msg: "cannot read file"}).CausedBy(err)
	}
	sc, err := ParseScenario(data)
	if err != nil {
		if se, ok := err.(*errors.ScenarioError); ok {
			se.File = path
		}
		return nil, err
	}
	sc.Path = path
	return sc, nil
}

// ParseScenario parses scenario YAML. Unknown fields are errors.
func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return nil, (&errors.ScenarioError{Msg: "parse: " + firstLine(err.Error())}).CausedBy(err)
	}
	if err := sc.validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (sc *Scenario) validate() error {
	seen := make(map[string]bool)
	for _, o := range sc.Objects {
		if err := checkName(o.Name, o.pos, seen); err != nil {
			return err
		}
		if o.Props.Kind != 0 && o.Props.Kind != yaml.MappingNode {
			return &errors.ScenarioError{Position: o.pos, Msg: fmt.Sprintf("object %s: props must be a mapping", o.Name)}
		}
	}
	for _, c := range sc.Constructors {
		if err := checkName(c.Name, c.pos, seen); err != nil {
			return err
		}
		for _, n := range []yaml.Node{c.This, c.Prototype} {
			if n.Kind != 0 && n.Kind != yaml.MappingNode {
				return &errors.ScenarioError{Position: c.pos, Msg: fmt.Sprintf("constructor %s: this and prototype must be mappings", c.Name)}
			}
		}
	}
	for _, st := range sc.Steps {
		if _, ok := stepOps[st.Op]; !ok {
			return &errors.ScenarioError{Position: st.pos, Msg: fmt.Sprintf("unknown op %q (known: %s)", st.Op, strings.Join(knownOps(), ", "))}
		}
		if st.As != "" {
			if err := checkName(st.As, st.pos, seen); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkName(name string, pos errors.Position, seen map[string]bool) error {
	if name == "" {
		return &errors.ScenarioError{Position: pos, Msg: "missing name"}
	}
	if isReservedName(name) {
		return &errors.ScenarioError{Position: pos, Msg: fmt.Sprintf("name %s is reserved", name)}
	}
	if seen[name] {
		return &errors.ScenarioError{Position: pos, Msg: fmt.Sprintf("duplicate name %s", name)}
	}
	seen[name] = true
	return nil
}

func isReservedName(name string) bool {
	return name == globalRef || name == objectPrototypeRef || strings.HasSuffix(name, prototypeSuffix)
}

func knownOps() []string {
	ops := make([]string, 0, len(stepOps))
	for op := range stepOps {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// ScenarioFiles lists the .yaml and .yml files of dir in name order.
func ScenarioFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".yaml", ".yml":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}
