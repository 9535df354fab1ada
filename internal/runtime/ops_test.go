package runtime_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/xirelogy/go-exprvm/internal/builtins"
	"github.com/xirelogy/go-exprvm/internal/bytecode"
	"github.com/xirelogy/go-exprvm/internal/runtime"
)

func unary(t *testing.T, op bytecode.OpCode, a float32) float32 {
	t.Helper()
	v, ok := runtime.Unary(op, a)
	require.True(t, ok, "opcode %s should be unary", op)
	return v
}

func binary(t *testing.T, op bytecode.OpCode, a, b float32) float32 {
	t.Helper()
	v, ok := runtime.Binary(op, a, b)
	require.True(t, ok, "opcode %s should be binary", op)
	return v
}

func TestAngleNormalize360(t *testing.T) {
	assert.Equal(t, float32(90), runtime.AngleNormalize360(90))
	assert.Equal(t, float32(0), runtime.AngleNormalize360(360))
	assert.Equal(t, float32(270), runtime.AngleNormalize360(-90))
	assert.Equal(t, float32(10), runtime.AngleNormalize360(730))
}

func TestTrigUsesDegrees(t *testing.T) {
	assert.InDelta(t, 1.0, unary(t, bytecode.OP_SIN, 90), 1e-5)
	assert.InDelta(t, 1.0, unary(t, bytecode.OP_COS, 0), 1e-5)
	assert.InDelta(t, -1.0, unary(t, bytecode.OP_SIN, -90), 1e-5)
	assert.InDelta(t, 1.0, unary(t, bytecode.OP_TAN, 45), 1e-5)
	assert.InDelta(t, math.Pi/2, unary(t, bytecode.OP_ASIN, 1), 1e-5)
}

func TestUnaryOps(t *testing.T) {
	assert.Equal(t, float32(1), unary(t, bytecode.OP_NOT, 0))
	assert.Equal(t, float32(1), unary(t, bytecode.OP_NOT, 0.5))
	assert.Equal(t, float32(0), unary(t, bytecode.OP_NOT, 2))
	assert.Equal(t, float32(-3), unary(t, bytecode.OP_MINUS, 3))
	assert.Equal(t, float32(3), unary(t, bytecode.OP_ABS, -3))
	assert.Equal(t, float32(-2), unary(t, bytecode.OP_FLOOR, -1.5))
	assert.Equal(t, float32(-1), unary(t, bytecode.OP_CEIL, -1.5))
	assert.InDelta(t, 0.25, unary(t, bytecode.OP_FRACT, 2.25), 1e-6)
	assert.InDelta(t, 0.75, unary(t, bytecode.OP_FRACT, -1.25), 1e-6)
	assert.Equal(t, float32(0.5), unary(t, bytecode.OP_INVSQRT, 4))
	assert.Equal(t, float32(3), unary(t, bytecode.OP_SQRT, 9))

	_, ok := runtime.Unary(bytecode.OP_ADD, 1)
	assert.False(t, ok)
}

func TestBinaryOps(t *testing.T) {
	assert.Equal(t, float32(1), binary(t, bytecode.OP_MOD, 7.9, 3.2))
	assert.Equal(t, float32(-1), binary(t, bytecode.OP_MOD, -7, 3))
	assert.Equal(t, float32(0), binary(t, bytecode.OP_MOD, 5, 0.5))
	assert.Equal(t, float32(1), binary(t, bytecode.OP_MIN, 1, 2))
	assert.Equal(t, float32(2), binary(t, bytecode.OP_MAX, 1, 2))
	assert.Equal(t, float32(8), binary(t, bytecode.OP_POW, 2, 3))
	assert.Equal(t, float32(1), binary(t, bytecode.OP_GTE, 2, 2))
	assert.Equal(t, float32(0), binary(t, bytecode.OP_LT, 2, 2))
	assert.Equal(t, float32(1), binary(t, bytecode.OP_AND, 0.5, -1))
	assert.Equal(t, float32(0), binary(t, bytecode.OP_AND, 0, 1))
	assert.Equal(t, float32(1), binary(t, bytecode.OP_OR, 0, 1))
	assert.True(t, math.IsInf(float64(binary(t, bytecode.OP_DIV, 1, 0)), 1))

	_, ok := runtime.Binary(bytecode.OP_TABLE, 1, 2)
	assert.False(t, ok)
}

func TestBuiltinRegistry(t *testing.T) {
	names := []string{"abs", "floor", "ceil", "fract", "sqrt", "invsqrt", "min", "max", "pow",
		"exp", "log", "sin", "cos", "tan", "asin", "acos", "atan"}
	for _, name := range names {
		spec, ok := runtime.LookupByName(name)
		require.True(t, ok, name)
		assert.Equal(t, bytecode.PrecUnary, spec.Op.Info().Precedence, name)
		back, ok := runtime.LookupByOp(spec.Op)
		require.True(t, ok, name)
		assert.Equal(t, name, back.Name)
	}
	assert.Len(t, runtime.All(), len(names))

	pow, _ := runtime.LookupByName("pow")
	assert.Equal(t, 2, pow.Arity)

	_, ok := runtime.LookupByName("time")
	assert.False(t, ok)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	assert.Panics(t, func() {
		runtime.Register(runtime.Spec{Name: "sin", Op: bytecode.OP_SIN, Arity: 1})
	})
	assert.Panics(t, func() {
		runtime.Register(runtime.Spec{Name: "bogus", Op: bytecode.OP_MINUS, Arity: 2})
	})
}
