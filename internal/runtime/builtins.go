package runtime

import (
	"fmt"
	"sort"

	"github.com/xirelogy/go-exprvm/internal/bytecode"
)

// Spec describes a built-in function: its script-visible name, the opcode it
// compiles to and how many arguments it takes.
type Spec struct {
	Name  string
	Op    bytecode.OpCode
	Arity int
}

var (
	byName = map[string]Spec{}
	byOp   = map[bytecode.OpCode]Spec{}
)

// Register installs a built-in. It is meant to be called from init functions.
func Register(spec Spec) {
	if spec.Name == "" {
		panic(fmt.Sprintf("builtin opcode %s has no name", spec.Op))
	}
	if spec.Arity < 1 || spec.Arity > 2 {
		panic(fmt.Sprintf("builtin %s has unsupported arity %d", spec.Name, spec.Arity))
	}
	if info := spec.Op.Info(); info.Unary != (spec.Arity == 1) {
		panic(fmt.Sprintf("builtin %s arity %d does not match opcode %s", spec.Name, spec.Arity, spec.Op))
	}
	if _, exists := byName[spec.Name]; exists {
		panic(fmt.Sprintf("builtin %s already registered", spec.Name))
	}
	if _, exists := byOp[spec.Op]; exists {
		panic(fmt.Sprintf("builtin opcode %s already registered", spec.Op))
	}
	byName[spec.Name] = spec
	byOp[spec.Op] = spec
}

// LookupByName finds a builtin by its script-visible name.
func LookupByName(name string) (Spec, bool) {
	spec, ok := byName[name]
	return spec, ok
}

// LookupByOp finds a builtin by opcode.
func LookupByOp(op bytecode.OpCode) (Spec, bool) {
	spec, ok := byOp[op]
	return spec, ok
}

// All returns all registered builtins sorted by name.
func All() []Spec {
	out := make([]Spec, 0, len(byName))
	for _, spec := range byName {
		out = append(out, spec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
