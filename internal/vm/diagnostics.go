package vm

import (
	"fmt"

	"github.com/xirelogy/go-exprvm/internal/bytecode"
)

// TraceInfo describes one executed instruction and the value it wrote.
type TraceInfo struct {
	Index       int
	Instruction bytecode.Instruction
	Value       float32
}

// TraceHook observes instruction dispatch for debugging/profiling.
type TraceHook func(TraceInfo)

// ContractError is the panic value raised when a chunk and its inputs do not
// fit together: a register out of range, a write to a read-only space, an
// output buffer that is too short or an unknown opcode. Index is -1 when the
// violation is detected before the first instruction.
type ContractError struct {
	Index       int
	Instruction bytecode.Instruction
	Message     string
}

func (e *ContractError) Error() string {
	if e.Index < 0 {
		return "vm: " + e.Message
	}
	return fmt.Sprintf("vm: instruction %d (%s): %s", e.Index, e.Instruction, e.Message)
}

func violation(pc int, in bytecode.Instruction, format string, args ...any) *ContractError {
	return &ContractError{Index: pc, Instruction: in, Message: fmt.Sprintf(format, args...)}
}
