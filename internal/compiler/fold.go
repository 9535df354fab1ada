package compiler

import (
	"github.com/xirelogy/go-exprvm/internal/bytecode"
	"github.com/xirelogy/go-exprvm/internal/runtime"
)

// reduceTo applies pending operators until marker is on top of the stack.
func (ps *parseState) reduceTo(marker bytecode.OpCode) error {
	for ps.topOp() != marker {
		if len(ps.ops) == 0 {
			return newError(ErrUnbalanced, ps.tok, "unmatched %s", describe(ps.tok))
		}
		if err := ps.reduce(); err != nil {
			return err
		}
	}
	return nil
}

// reduce pops one operator and its operands, folding constants in place or
// emitting an instruction whose destination becomes the new operand.
func (ps *parseState) reduce() error {
	op := ps.popOp()
	if op.IsMarker() {
		return newError(ErrUnbalanced, ps.tok, "unmatched '('")
	}

	if op.Info().Unary {
		if len(ps.operands) < 1 {
			return newError(ErrMissingOperand, ps.tok, "%s has no operand", op)
		}
		src := ps.popOperand()
		switch src.Space {
		case bytecode.Constant:
			v, _ := runtime.Unary(op, ps.c.chunk.Constants[src.Index])
			ps.c.chunk.Constants[src.Index] = v
			return ps.pushOperand(src)
		case bytecode.GlobalParm, bytecode.LocalParm:
			if op == bytecode.OP_PLUS {
				return ps.pushOperand(src)
			}
		case bytecode.Table:
			if op == bytecode.OP_PLUS {
				return ps.pushOperand(src)
			}
			return newError(ErrTableUse, ps.tok, "table %s used as a value", ps.c.tableName(src))
		}
		return ps.emitOp(op, src, bytecode.Register{})
	}

	if len(ps.operands) < 2 {
		return newError(ErrMissingOperand, ps.tok, "%s needs two operands", op)
	}
	src1 := ps.popOperand()
	src0 := ps.popOperand()

	if op == bytecode.OP_TABLE {
		if src0.Space != bytecode.Table {
			return newError(ErrTableUse, ps.tok, "subscript applied to %s, which is not a table", src0)
		}
		if src1.Space == bytecode.Table {
			return newError(ErrTableUse, ps.tok, "table %s used as a subscript", ps.c.tableName(src1))
		}
		return ps.emitOp(op, src0, src1)
	}
	for _, src := range []bytecode.Register{src0, src1} {
		if src.Space == bytecode.Table {
			return newError(ErrTableUse, ps.tok, "table %s used as a value", ps.c.tableName(src))
		}
	}
	if src0.Space == bytecode.Constant && src1.Space == bytecode.Constant {
		consts := ps.c.chunk.Constants
		v, _ := runtime.Binary(op, consts[src0.Index], consts[src1.Index])
		consts[src0.Index] = v
		return ps.pushOperand(src0)
	}
	return ps.emitOp(op, src0, src1)
}

// emitOp writes the result into src0 when it is already a temp, otherwise
// into a fresh temp.
func (ps *parseState) emitOp(op bytecode.OpCode, src0, src1 bytecode.Register) error {
	dest := src0
	if dest.Space != bytecode.Temp {
		if ps.temps >= bytecode.MaxTempRegisters {
			return newError(ErrLimit, ps.tok, "expression needs more than %d temp registers", bytecode.MaxTempRegisters)
		}
		dest = bytecode.TempReg(ps.temps)
		ps.temps++
	}
	in := bytecode.Instruction{Op: op, Dest: dest, Src0: src0, Src1: src1}
	if err := ps.c.emit(ps.tok, in); err != nil {
		return err
	}
	return ps.pushOperand(dest)
}
