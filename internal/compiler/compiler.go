package compiler

import (
	"github.com/rs/zerolog"

	"github.com/xirelogy/go-exprvm/internal/bytecode"
	"github.com/xirelogy/go-exprvm/internal/exprdata"
	"github.com/xirelogy/go-exprvm/internal/lexer"
	"github.com/xirelogy/go-exprvm/internal/token"
)

// AnyCount accepts however many expressions the list holds.
const AnyCount = 0

// Compiler accumulates compiled expressions into one chunk. Successive Parse
// calls append outputs, and later expressions may read earlier outputs as rN.
// A Compiler is not safe for concurrent use; separate compilers are
// independent.
type Compiler struct {
	data   *exprdata.Data
	chunk  *bytecode.Chunk
	limits Limits
	logger zerolog.Logger
}

// New returns a compiler resolving names against data. data may be nil, in
// which case only rN, time and parmN resolve.
func New(data *exprdata.Data) *Compiler {
	return &Compiler{
		data:   data,
		chunk:  &bytecode.Chunk{},
		limits: DefaultLimits(),
		logger: zerolog.Nop(),
	}
}

// SetLogger routes compile diagnostics to logger.
func (c *Compiler) SetLogger(logger zerolog.Logger) {
	c.logger = logger
}

// SetLimits replaces the resource limits. Zero fields keep their default.
func (c *Compiler) SetLimits(limits Limits) {
	c.limits = limits.withDefaults()
}

// Chunk returns a snapshot of the chunk compiled so far.
func (c *Compiler) Chunk() *bytecode.Chunk {
	return c.chunk.Clone()
}

// NumOutputs reports how many output registers have been allocated.
func (c *Compiler) NumOutputs() int {
	return int(c.chunk.NumOutputs)
}

// ParseExpressions compiles src, expecting n expressions (or any number when
// n is AnyCount).
func (c *Compiler) ParseExpressions(src string, n int) ([]bytecode.Register, error) {
	return c.Parse(lexer.New(src), n)
}

// Parse compiles a comma separated expression list read from ts and returns
// the output register of each expression. On error the chunk is left as it
// was before the call.
func (c *Compiler) Parse(ts token.Stream, n int) ([]bytecode.Register, error) {
	saved := c.checkpoint()
	outputs, err := c.parseList(ts, n)
	if err != nil {
		c.restore(saved)
		c.logError(err)
		return nil, err
	}
	c.logger.Debug().
		Int("expressions", len(outputs)).
		Int("instructions", len(c.chunk.Instructions)).
		Int("constants", len(c.chunk.Constants)).
		Msg("compiled expression list")
	return outputs, nil
}

func (c *Compiler) parseList(ts token.Stream, n int) ([]bytecode.Register, error) {
	var outputs []bytecode.Register
	for {
		ps := newParseState(c)
		more, err := ps.parseExpression(ts)
		if err != nil {
			return nil, err
		}
		out, err := ps.finish()
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, out)

		if n > 0 {
			if more && len(outputs) == n {
				return nil, newError(ErrCount, ps.tok, "expected %d expressions, found more", n)
			}
			if !more && len(outputs) < n {
				return nil, newError(ErrCount, ps.tok, "expected %d expressions, found %d", n, len(outputs))
			}
		}
		if !more {
			return outputs, nil
		}
	}
}

type checkpoint struct {
	instructions int
	constants    int
	outputs      uint32
	temps        uint32
}

func (c *Compiler) checkpoint() checkpoint {
	return checkpoint{
		instructions: len(c.chunk.Instructions),
		constants:    len(c.chunk.Constants),
		outputs:      c.chunk.NumOutputs,
		temps:        c.chunk.NumTemps,
	}
}

func (c *Compiler) restore(cp checkpoint) {
	c.chunk.Instructions = c.chunk.Instructions[:cp.instructions]
	c.chunk.Constants = c.chunk.Constants[:cp.constants]
	c.chunk.NumOutputs = cp.outputs
	c.chunk.NumTemps = cp.temps
}

func (c *Compiler) logError(err error) {
	ev := c.logger.Error()
	if ce, ok := err.(*Error); ok {
		ev = ev.Str("kind", ce.Kind.Error()).
			Str("token", ce.Token.Literal).
			Int("line", ce.Token.Pos.Line).
			Int("column", ce.Token.Pos.Column).
			Str("detail", ce.Message)
	}
	ev.Err(err).Msg("expression compile failed")
}

func (c *Compiler) emit(tok token.Token, in bytecode.Instruction) error {
	if len(c.chunk.Instructions) >= c.limits.MaxInstructions {
		return newError(ErrLimit, tok, "more than %d instructions", c.limits.MaxInstructions)
	}
	c.chunk.Instructions = append(c.chunk.Instructions, in)
	return nil
}

func (c *Compiler) addConstant(tok token.Token, v float32) (bytecode.Register, error) {
	if len(c.chunk.Constants) >= c.limits.MaxConstants {
		return bytecode.Register{}, newError(ErrLimit, tok, "more than %d constants", c.limits.MaxConstants)
	}
	c.chunk.Constants = append(c.chunk.Constants, v)
	return bytecode.ConstantReg(uint32(len(c.chunk.Constants) - 1)), nil
}
