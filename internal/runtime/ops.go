package runtime

import (
	"math"

	"github.com/xirelogy/go-exprvm/internal/bytecode"
)

const degToRad = math.Pi / 180

// AngleNormalize360 maps an angle in degrees into [0, 360).
func AngleNormalize360(angle float32) float32 {
	if angle >= 360 || angle < 0 {
		angle -= float32(math.Floor(float64(angle)/360)) * 360
	}
	return angle
}

func boolValue(b bool) float32 {
	if b {
		return 1
	}
	return 0
}

// Unary applies a one-operand opcode. Constant folding and evaluation both
// go through it.
func Unary(op bytecode.OpCode, a float32) (float32, bool) {
	x := float64(a)
	switch op {
	case bytecode.OP_NOT:
		return boolValue(math.Trunc(x) == 0), true
	case bytecode.OP_PLUS, bytecode.OP_MOV:
		return a, true
	case bytecode.OP_MINUS:
		return -a, true
	case bytecode.OP_ABS:
		return float32(math.Abs(x)), true
	case bytecode.OP_FLOOR:
		return float32(math.Floor(x)), true
	case bytecode.OP_CEIL:
		return float32(math.Ceil(x)), true
	case bytecode.OP_FRACT:
		return a - float32(math.Floor(x)), true
	case bytecode.OP_SQRT:
		return float32(math.Sqrt(x)), true
	case bytecode.OP_INVSQRT:
		return float32(1 / math.Sqrt(x)), true
	case bytecode.OP_EXP:
		return float32(math.Exp(x)), true
	case bytecode.OP_LOG:
		return float32(math.Log(x)), true
	case bytecode.OP_SIN:
		return float32(math.Sin(float64(AngleNormalize360(a)) * degToRad)), true
	case bytecode.OP_COS:
		return float32(math.Cos(float64(AngleNormalize360(a)) * degToRad)), true
	case bytecode.OP_TAN:
		return float32(math.Tan(float64(AngleNormalize360(a)) * degToRad)), true
	case bytecode.OP_ASIN:
		return float32(math.Asin(x)), true
	case bytecode.OP_ACOS:
		return float32(math.Acos(x)), true
	case bytecode.OP_ATAN:
		return float32(math.Atan(x)), true
	default:
		return 0, false
	}
}

// Binary applies a two-operand opcode other than OP_TABLE.
func Binary(op bytecode.OpCode, a, b float32) (float32, bool) {
	switch op {
	case bytecode.OP_ADD:
		return a + b, true
	case bytecode.OP_SUB:
		return a - b, true
	case bytecode.OP_MUL:
		return a * b, true
	case bytecode.OP_DIV:
		return a / b, true
	case bytecode.OP_MOD:
		ia, ib := math.Trunc(float64(a)), math.Trunc(float64(b))
		if ib == 0 {
			return 0, true
		}
		return float32(math.Mod(ia, ib)), true
	case bytecode.OP_MIN:
		if b < a {
			return b, true
		}
		return a, true
	case bytecode.OP_MAX:
		if b > a {
			return b, true
		}
		return a, true
	case bytecode.OP_POW:
		return float32(math.Pow(float64(a), float64(b))), true
	case bytecode.OP_GT:
		return boolValue(a > b), true
	case bytecode.OP_GTE:
		return boolValue(a >= b), true
	case bytecode.OP_LT:
		return boolValue(a < b), true
	case bytecode.OP_LTE:
		return boolValue(a <= b), true
	case bytecode.OP_EQ:
		return boolValue(a == b), true
	case bytecode.OP_NEQ:
		return boolValue(a != b), true
	case bytecode.OP_AND:
		return boolValue(a != 0 && b != 0), true
	case bytecode.OP_OR:
		return boolValue(a != 0 || b != 0), true
	default:
		return 0, false
	}
}
