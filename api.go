// Package exprvm compiles small arithmetic expression lists into register
// bytecode and evaluates them against host supplied parms and tables.
package exprvm

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/xirelogy/go-exprvm/internal/bytecode"
	"github.com/xirelogy/go-exprvm/internal/compiler"
	"github.com/xirelogy/go-exprvm/internal/exprdata"
	"github.com/xirelogy/go-exprvm/internal/vm"
)

type (
	// Data holds the named global parms and tables expressions refer to.
	Data = exprdata.Data
	// Register names a value slot: rN outputs, tN temps, cN constants and so on.
	Register = bytecode.Register
	// LocalParms are per-evaluation inputs; slot 0 is time, slot N+1 is parmN.
	LocalParms = vm.LocalParms
	// TraceInfo describes one executed instruction.
	TraceInfo = vm.TraceInfo
	// TraceHook observes instruction dispatch.
	TraceHook = vm.TraceHook
	// CompileError is returned for every compile failure.
	CompileError = compiler.Error
	// ContractError is the panic value for chunks that do not fit their inputs.
	ContractError = vm.ContractError
	// Limits bounds the resources one chunk may consume.
	Limits = compiler.Limits
	// Source is one expression list for CompileAll.
	Source = compiler.Source
)

// AnyCount accepts however many expressions a list holds.
const AnyCount = compiler.AnyCount

// Compile error kinds, testable with errors.Is.
var (
	ErrSyntax         = compiler.ErrSyntax
	ErrUnbalanced     = compiler.ErrUnbalanced
	ErrMissingOperand = compiler.ErrMissingOperand
	ErrUndefined      = compiler.ErrUndefined
	ErrCount          = compiler.ErrCount
	ErrNumber         = compiler.ErrNumber
	ErrArity          = compiler.ErrArity
	ErrLimit          = compiler.ErrLimit
	ErrTableUse       = compiler.ErrTableUse
)

// NewData returns an empty data set.
func NewData() *Data {
	return exprdata.New()
}

// LoadData reads a YAML or JSON declaration file into a new data set.
func LoadData(path string) (*Data, error) {
	return exprdata.LoadFile(path)
}

// DefaultLimits returns the standard compiler limits.
func DefaultLimits() Limits {
	return compiler.DefaultLimits()
}

// Chunk is a compiled, immutable expression program.
type Chunk struct {
	code *bytecode.Chunk
}

// NumOutputs reports how many output values an evaluation writes.
func (c *Chunk) NumOutputs() int { return int(c.code.NumOutputs) }

// NumInstructions reports the instruction count after constant folding.
func (c *Chunk) NumInstructions() int { return len(c.code.Instructions) }

// Evaluate runs the chunk, writing output N to out[N]. out must hold at least
// NumOutputs values.
func (c *Chunk) Evaluate(data *Data, locals *LocalParms, out []float32) {
	vm.Evaluate(c.code, data, locals, out)
}

// Validate checks that the chunk only refers to registers data provides.
func (c *Chunk) Validate(data *Data) error {
	numParms, numTables := 0, 0
	if data != nil {
		numParms, numTables = data.NumParms(), data.NumTables()
	}
	return c.code.Validate(numParms, numTables)
}

// Disassemble writes a listing of the chunk to w, annotating parm and table
// operands with their names in data when data is not nil.
func (c *Chunk) Disassemble(w io.Writer, label string, data *Data) error {
	d := bytecode.NewDisassembler(w)
	if data != nil {
		d.SetNames(data.ParmNames(), data.TableNames())
	}
	return d.DisassembleChunk(label, c.code)
}

// Compiler builds one chunk incrementally: each Compile call appends outputs,
// and later expressions may read earlier ones as rN.
type Compiler struct {
	c *compiler.Compiler
}

// NewCompiler returns a compiler resolving names against data.
func NewCompiler(data *Data) *Compiler {
	return &Compiler{c: compiler.New(data)}
}

// SetLogger routes compile diagnostics to logger.
func (c *Compiler) SetLogger(logger zerolog.Logger) {
	c.c.SetLogger(logger)
}

// SetLimits replaces the resource limits.
func (c *Compiler) SetLimits(limits Limits) {
	c.c.SetLimits(limits)
}

// Compile appends the n expressions in src (any number for AnyCount) and
// returns their output registers. A failed call leaves the chunk unchanged.
func (c *Compiler) Compile(src string, n int) ([]Register, error) {
	return c.c.ParseExpressions(src, n)
}

// CompileFile compiles the expression list stored at path.
func (c *Compiler) CompileFile(path string, n int) ([]Register, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	regs, err := c.Compile(string(src), n)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return regs, nil
}

// Chunk returns a snapshot of everything compiled so far.
func (c *Compiler) Chunk() *Chunk {
	return &Chunk{code: c.c.Chunk()}
}

// Compile compiles src into a fresh chunk expecting n expressions.
func Compile(data *Data, src string, n int) (*Chunk, []Register, error) {
	c := NewCompiler(data)
	regs, err := c.Compile(src, n)
	if err != nil {
		return nil, nil, err
	}
	return c.Chunk(), regs, nil
}

// CompileAll compiles independent sources concurrently into one chunk each,
// in input order.
func CompileAll(ctx context.Context, data *Data, sources []Source) ([]*Chunk, error) {
	results, err := compiler.CompileAll(ctx, data, sources, compiler.Options{})
	if err != nil {
		return nil, err
	}
	chunks := make([]*Chunk, len(results))
	for i, res := range results {
		chunks[i] = &Chunk{code: res.Chunk}
	}
	return chunks, nil
}

// Evaluator runs chunks with optional tracing.
type Evaluator struct {
	e *vm.Evaluator
}

// NewEvaluator constructs an evaluator without tracing.
func NewEvaluator() *Evaluator {
	return &Evaluator{e: vm.NewEvaluator()}
}

// SetTraceHook registers a callback invoked after every instruction.
func (e *Evaluator) SetTraceHook(h TraceHook) {
	e.e.SetTraceHook(h)
}

// Evaluate runs chunk, writing output N to out[N].
func (e *Evaluator) Evaluate(chunk *Chunk, data *Data, locals *LocalParms, out []float32) {
	e.e.Evaluate(chunk.code, data, locals, out)
}
