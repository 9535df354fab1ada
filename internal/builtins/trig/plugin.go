package trig

import (
	"github.com/xirelogy/go-exprvm/internal/bytecode"
	"github.com/xirelogy/go-exprvm/internal/runtime"
)

// sin, cos and tan take degrees; the inverse functions return radians.
func init() {
	runtime.Register(runtime.Spec{Name: "sin", Op: bytecode.OP_SIN, Arity: 1})
	runtime.Register(runtime.Spec{Name: "cos", Op: bytecode.OP_COS, Arity: 1})
	runtime.Register(runtime.Spec{Name: "tan", Op: bytecode.OP_TAN, Arity: 1})
	runtime.Register(runtime.Spec{Name: "asin", Op: bytecode.OP_ASIN, Arity: 1})
	runtime.Register(runtime.Spec{Name: "acos", Op: bytecode.OP_ACOS, Arity: 1})
	runtime.Register(runtime.Spec{Name: "atan", Op: bytecode.OP_ATAN, Arity: 1})
}
