package mathfn

import (
	"github.com/xirelogy/go-exprvm/internal/bytecode"
	"github.com/xirelogy/go-exprvm/internal/runtime"
)

func init() {
	for _, spec := range []runtime.Spec{
		{Name: "abs", Op: bytecode.OP_ABS, Arity: 1},
		{Name: "floor", Op: bytecode.OP_FLOOR, Arity: 1},
		{Name: "ceil", Op: bytecode.OP_CEIL, Arity: 1},
		{Name: "fract", Op: bytecode.OP_FRACT, Arity: 1},
		{Name: "sqrt", Op: bytecode.OP_SQRT, Arity: 1},
		{Name: "invsqrt", Op: bytecode.OP_INVSQRT, Arity: 1},
		{Name: "exp", Op: bytecode.OP_EXP, Arity: 1},
		{Name: "log", Op: bytecode.OP_LOG, Arity: 1},
		{Name: "min", Op: bytecode.OP_MIN, Arity: 2},
		{Name: "max", Op: bytecode.OP_MAX, Arity: 2},
		{Name: "pow", Op: bytecode.OP_POW, Arity: 2},
	} {
		runtime.Register(spec)
	}
}
