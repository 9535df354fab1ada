package vm

import (
	"github.com/xirelogy/go-exprvm/internal/bytecode"
	"github.com/xirelogy/go-exprvm/internal/exprdata"
	"github.com/xirelogy/go-exprvm/internal/runtime"
)

// LocalParms are the per-evaluation inputs: slot 0 is time, slot N+1 is parmN.
type LocalParms = [bytecode.MaxLocalParms]float32

// Evaluator runs compiled chunks. The zero value is ready to use and, without
// a trace hook, may be shared by concurrent evaluations.
type Evaluator struct {
	traceHook TraceHook
}

// NewEvaluator constructs an evaluator without tracing.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// SetTraceHook registers a callback for instruction-level tracing.
func (e *Evaluator) SetTraceHook(h TraceHook) {
	e.traceHook = h
}

// Evaluate runs chunk with a default evaluator.
func Evaluate(chunk *bytecode.Chunk, data *exprdata.Data, locals *LocalParms, out []float32) {
	var e Evaluator
	e.Evaluate(chunk, data, locals, out)
}

// Evaluate executes every instruction of chunk in order, writing output N to
// out[N]. locals may be nil, in which case local parms read as zero. Temps
// live on the stack of this call, so concurrent evaluations of one chunk only
// need distinct out buffers. A chunk that does not fit its inputs panics with
// *ContractError.
func (e *Evaluator) Evaluate(chunk *bytecode.Chunk, data *exprdata.Data, locals *LocalParms, out []float32) {
	if chunk == nil {
		panic(violation(-1, bytecode.Instruction{}, "nil chunk"))
	}
	if len(out) < int(chunk.NumOutputs) {
		panic(violation(-1, bytecode.Instruction{}, "output buffer holds %d values, chunk writes %d", len(out), chunk.NumOutputs))
	}
	if chunk.NumTemps > bytecode.MaxTempRegisters {
		panic(violation(-1, bytecode.Instruction{}, "chunk uses %d temp registers, limit is %d", chunk.NumTemps, bytecode.MaxTempRegisters))
	}
	f := frame{chunk: chunk, data: data, locals: locals, out: out}
	for pc, in := range chunk.Instructions {
		f.pc, f.in = pc, in
		var (
			v  float32
			ok bool
		)
		switch {
		case in.Op == bytecode.OP_TABLE:
			if in.Src0.Space != bytecode.Table {
				panic(violation(pc, in, "table lookup on %s", in.Src0))
			}
			if data == nil {
				panic(violation(pc, in, "table lookup without data"))
			}
			v, ok = data.TableValue(in.Src0.Index, f.read(in.Src1)), true
		case in.Op.IsMarker() || !in.Op.Valid():
			ok = false
		case in.Op.Info().Unary:
			v, ok = runtime.Unary(in.Op, f.read(in.Src0))
		default:
			v, ok = runtime.Binary(in.Op, f.read(in.Src0), f.read(in.Src1))
		}
		if !ok {
			panic(violation(pc, in, "unknown opcode %s", in.Op))
		}
		f.write(in.Dest, v)
		if e.traceHook != nil {
			e.traceHook(TraceInfo{Index: pc, Instruction: in, Value: v})
		}
	}
}

type frame struct {
	chunk  *bytecode.Chunk
	data   *exprdata.Data
	locals *LocalParms
	out    []float32
	temps  [bytecode.MaxTempRegisters]float32
	pc     int
	in     bytecode.Instruction
}

func (f *frame) read(r bytecode.Register) float32 {
	switch r.Space {
	case bytecode.Output:
		if r.Index >= f.chunk.NumOutputs {
			panic(violation(f.pc, f.in, "read of %s beyond %d outputs", r, f.chunk.NumOutputs))
		}
		return f.out[r.Index]
	case bytecode.Temp:
		if r.Index >= f.chunk.NumTemps {
			panic(violation(f.pc, f.in, "read of %s beyond %d temps", r, f.chunk.NumTemps))
		}
		return f.temps[r.Index]
	case bytecode.Constant:
		if int(r.Index) >= len(f.chunk.Constants) {
			panic(violation(f.pc, f.in, "constant %s out of range (%d constants)", r, len(f.chunk.Constants)))
		}
		return f.chunk.Constants[r.Index]
	case bytecode.LocalParm:
		if r.Index >= bytecode.MaxLocalParms {
			panic(violation(f.pc, f.in, "local parm %s out of range", r))
		}
		if f.locals == nil {
			return 0
		}
		return f.locals[r.Index]
	case bytecode.GlobalParm:
		if f.data == nil {
			panic(violation(f.pc, f.in, "global parm %s read without data", r))
		}
		return f.data.ParmValue(r.Index)
	case bytecode.Table:
		panic(violation(f.pc, f.in, "table register %s read as a value", r))
	default:
		panic(violation(f.pc, f.in, "unknown register space in %s", r))
	}
}

func (f *frame) write(r bytecode.Register, v float32) {
	switch r.Space {
	case bytecode.Output:
		if r.Index >= f.chunk.NumOutputs {
			panic(violation(f.pc, f.in, "write of %s beyond %d outputs", r, f.chunk.NumOutputs))
		}
		f.out[r.Index] = v
	case bytecode.Temp:
		if r.Index >= f.chunk.NumTemps {
			panic(violation(f.pc, f.in, "write of %s beyond %d temps", r, f.chunk.NumTemps))
		}
		f.temps[r.Index] = v
	default:
		panic(violation(f.pc, f.in, "write to read-only register %s", r))
	}
}
