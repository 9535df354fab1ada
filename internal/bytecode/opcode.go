package bytecode

import "fmt"

// OpCode enumerates register-machine operations.
// Keep the order in sync with opInfo below.
type OpCode byte

const (
	OP_INVALID OpCode = iota

	// compile-time markers; only OP_TABLE survives into a chunk
	OP_LPAREN
	OP_BUILTIN_LPAREN
	OP_TABLE

	// unary
	OP_NOT
	OP_PLUS
	OP_MINUS
	OP_ABS
	OP_FLOOR
	OP_CEIL
	OP_FRACT
	OP_SQRT
	OP_INVSQRT
	OP_EXP
	OP_LOG
	OP_SIN
	OP_COS
	OP_TAN
	OP_ASIN
	OP_ACOS
	OP_ATAN

	// binary builtins
	OP_MIN
	OP_MAX
	OP_POW

	// binary arithmetic
	OP_MUL
	OP_DIV
	OP_MOD
	OP_ADD
	OP_SUB

	// comparison and logical
	OP_GT
	OP_GTE
	OP_LT
	OP_LTE
	OP_EQ
	OP_NEQ
	OP_AND
	OP_OR

	OP_MOV

	numOpCodes
)

// Precedence levels used by the expression compiler.
const (
	PrecMarker   = 0
	PrecLogical  = 1
	PrecCompare  = 2
	PrecAdditive = 3
	PrecMultiply = 4
	PrecUnary    = 5
)

// OpInfo describes an opcode for the compiler and disassembler.
type OpInfo struct {
	Name       string
	Unary      bool
	Precedence int
}

var opInfo = [numOpCodes]OpInfo{
	OP_INVALID:        {"INVALID", false, -1},
	OP_LPAREN:         {"LPAREN", false, PrecMarker},
	OP_BUILTIN_LPAREN: {"BUILTIN_LPAREN", false, PrecMarker},
	OP_TABLE:          {"TABLE", false, PrecMarker},
	OP_NOT:            {"NOT", true, PrecUnary},
	OP_PLUS:           {"PLUS", true, PrecUnary},
	OP_MINUS:          {"MINUS", true, PrecUnary},
	OP_ABS:            {"ABS", true, PrecUnary},
	OP_FLOOR:          {"FLOOR", true, PrecUnary},
	OP_CEIL:           {"CEIL", true, PrecUnary},
	OP_FRACT:          {"FRACT", true, PrecUnary},
	OP_SQRT:           {"SQRT", true, PrecUnary},
	OP_INVSQRT:        {"INVSQRT", true, PrecUnary},
	OP_EXP:            {"EXP", true, PrecUnary},
	OP_LOG:            {"LOG", true, PrecUnary},
	OP_SIN:            {"SIN", true, PrecUnary},
	OP_COS:            {"COS", true, PrecUnary},
	OP_TAN:            {"TAN", true, PrecUnary},
	OP_ASIN:           {"ASIN", true, PrecUnary},
	OP_ACOS:           {"ACOS", true, PrecUnary},
	OP_ATAN:           {"ATAN", true, PrecUnary},
	OP_MIN:            {"MIN", false, PrecUnary},
	OP_MAX:            {"MAX", false, PrecUnary},
	OP_POW:            {"POW", false, PrecUnary},
	OP_MUL:            {"MUL", false, PrecMultiply},
	OP_DIV:            {"DIV", false, PrecMultiply},
	OP_MOD:            {"MOD", false, PrecMultiply},
	OP_ADD:            {"ADD", false, PrecAdditive},
	OP_SUB:            {"SUB", false, PrecAdditive},
	OP_GT:             {"GT", false, PrecCompare},
	OP_GTE:            {"GTE", false, PrecCompare},
	OP_LT:             {"LT", false, PrecCompare},
	OP_LTE:            {"LTE", false, PrecCompare},
	OP_EQ:             {"EQ", false, PrecCompare},
	OP_NEQ:            {"NEQ", false, PrecCompare},
	OP_AND:            {"AND", false, PrecLogical},
	OP_OR:             {"OR", false, PrecLogical},
	OP_MOV:            {"MOV", true, PrecMarker},
}

// Info returns the static description of op.
func (op OpCode) Info() OpInfo {
	if op < numOpCodes {
		return opInfo[op]
	}
	return OpInfo{Name: fmt.Sprintf("OP_0x%02X", byte(op)), Precedence: -1}
}

// Valid reports whether op is a known opcode other than OP_INVALID.
func (op OpCode) Valid() bool {
	return op > OP_INVALID && op < numOpCodes
}

// IsMarker reports whether op only exists on the compiler's operator stack.
func (op OpCode) IsMarker() bool {
	return op == OP_LPAREN || op == OP_BUILTIN_LPAREN
}

func (op OpCode) String() string {
	return op.Info().Name
}
