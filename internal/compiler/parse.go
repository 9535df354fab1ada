package compiler

import (
	"strconv"
	"strings"

	"github.com/xirelogy/go-exprvm/internal/bytecode"
	"github.com/xirelogy/go-exprvm/internal/token"
)

type parseMode int

const (
	modeEmpty parseMode = iota
	modeLParen
	modeOp
	modeBuiltinOp
	modeOperand
)

// group is an open '(' or '[' awaiting its closing token.
type group struct {
	marker bytecode.OpCode // OP_LPAREN, OP_BUILTIN_LPAREN or OP_TABLE
	args   int             // separators seen inside a builtin call
	open   token.Token
}

// parseState is the scratch state for one expression. It never outlives a
// Parse call.
type parseState struct {
	c        *Compiler
	ops      []bytecode.OpCode
	operands []bytecode.Register
	groups   []group
	mode     parseMode
	temps    uint32
	tok      token.Token

	// builtin whose call the previous token closed, else OP_INVALID
	closedCall bytecode.OpCode
}

func newParseState(c *Compiler) *parseState {
	return &parseState{c: c, mode: modeEmpty}
}

// parseExpression consumes tokens up to the end of one expression. more
// reports whether a top-level ',' announced another expression.
func (ps *parseState) parseExpression(ts token.Stream) (more bool, err error) {
	for {
		tok := ts.NextToken()
		ps.tok = tok
		closedCall := ps.closedCall
		ps.closedCall = bytecode.OP_INVALID

		if ps.mode == modeBuiltinOp && tok.Type != token.LParen {
			if spec, ok := builtinFor(ps.topOp()); ok && spec.Arity > 1 {
				return false, newError(ErrSyntax, tok, "builtin %s needs parenthesized arguments", spec.Name)
			}
		}

		switch tok.Type {
		case token.EOF, token.Semicolon:
			return false, nil
		case token.Newline:
			ts.UnreadToken(tok)
			return false, nil
		case token.Comma:
			g := ps.topGroup()
			if g == nil {
				return true, nil
			}
			if err := ps.separator(g); err != nil {
				return false, err
			}
		case token.LParen:
			err = ps.openParen()
		case token.RParen:
			err = ps.closeParen()
		case token.LBracket:
			err = ps.openBracket(closedCall)
		case token.RBracket:
			err = ps.closeBracket()
		case token.Ident:
			err = ps.identifier()
		case token.Number:
			err = ps.number()
		case token.Illegal:
			err = newError(ErrSyntax, tok, "unexpected character %s", describe(tok))
		default:
			if token.IsOperator(tok.Type) {
				err = ps.operator()
			} else {
				err = newError(ErrSyntax, tok, "unexpected %s", describe(tok))
			}
		}
		if err != nil {
			return false, err
		}
	}
}

// finish closes the expression and moves its value into a new output register.
func (ps *parseState) finish() (bytecode.Register, error) {
	switch ps.mode {
	case modeEmpty:
		return bytecode.Register{}, newError(ErrMissingOperand, ps.tok, "empty expression before %s", describe(ps.tok))
	case modeOp, modeBuiltinOp:
		return bytecode.Register{}, newError(ErrMissingOperand, ps.tok, "missing operand before %s", describe(ps.tok))
	}
	if g := ps.topGroup(); g != nil {
		return bytecode.Register{}, newError(ErrUnbalanced, g.open, "%s is never closed", describe(g.open))
	}
	for len(ps.ops) > 0 {
		if err := ps.reduce(); err != nil {
			return bytecode.Register{}, err
		}
	}
	if len(ps.operands) != 1 {
		return bytecode.Register{}, newError(ErrSyntax, ps.tok, "malformed expression")
	}
	src := ps.operands[0]
	if src.Space == bytecode.Table {
		return bytecode.Register{}, newError(ErrTableUse, ps.tok, "table %s used without a subscript", ps.c.tableName(src))
	}

	chunk := ps.c.chunk
	if chunk.NumOutputs >= bytecode.MaxOutputRegisters {
		return bytecode.Register{}, newError(ErrLimit, ps.tok, "more than %d outputs", bytecode.MaxOutputRegisters)
	}
	dest := bytecode.OutputReg(chunk.NumOutputs)
	if err := ps.c.emit(ps.tok, bytecode.Instruction{Op: bytecode.OP_MOV, Dest: dest, Src0: src}); err != nil {
		return bytecode.Register{}, err
	}
	chunk.NumOutputs++
	if ps.temps > chunk.NumTemps {
		chunk.NumTemps = ps.temps
	}
	return dest, nil
}

func (ps *parseState) expectsOperand() bool {
	return ps.mode != modeOperand
}

func (ps *parseState) separator(g *group) error {
	if g.marker != bytecode.OP_BUILTIN_LPAREN {
		return newError(ErrUnbalanced, ps.tok, "',' inside %s", describe(g.open))
	}
	if ps.expectsOperand() {
		return newError(ErrMissingOperand, ps.tok, "missing operand before ','")
	}
	if err := ps.reduceTo(bytecode.OP_BUILTIN_LPAREN); err != nil {
		return err
	}
	g.args++
	ps.mode = modeOp
	return nil
}

func (ps *parseState) openParen() error {
	marker := bytecode.OP_LPAREN
	switch ps.mode {
	case modeBuiltinOp:
		marker = bytecode.OP_BUILTIN_LPAREN
	case modeOperand:
		return newError(ErrSyntax, ps.tok, "unexpected '(' after operand")
	}
	if err := ps.pushOp(marker); err != nil {
		return err
	}
	ps.groups = append(ps.groups, group{marker: marker, open: ps.tok})
	ps.mode = modeLParen
	return nil
}

func (ps *parseState) closeParen() error {
	g := ps.topGroup()
	if g == nil {
		return newError(ErrUnbalanced, ps.tok, "unexpected ')'")
	}
	if g.marker == bytecode.OP_TABLE {
		return newError(ErrUnbalanced, ps.tok, "missing ']' before ')'")
	}
	if ps.mode == modeLParen {
		return newError(ErrMissingOperand, ps.tok, "empty parentheses")
	}
	if ps.expectsOperand() {
		return newError(ErrMissingOperand, ps.tok, "missing operand before ')'")
	}
	if err := ps.reduceTo(g.marker); err != nil {
		return err
	}
	ps.popOp()
	if g.marker == bytecode.OP_BUILTIN_LPAREN {
		if spec, ok := builtinFor(ps.topOp()); ok {
			if err := checkArity(ps.tok, spec, g.args+1); err != nil {
				return err
			}
			ps.closedCall = spec.Op
		}
	}
	ps.groups = ps.groups[:len(ps.groups)-1]
	ps.mode = modeOperand
	return nil
}

func (ps *parseState) openBracket(closedCall bytecode.OpCode) error {
	if ps.expectsOperand() {
		return newError(ErrSyntax, ps.tok, "'[' must follow a table name")
	}
	if spec, ok := builtinFor(closedCall); ok {
		return newError(ErrTableUse, ps.tok, "result of %s(...) cannot be subscripted", spec.Name)
	}
	if top := ps.operands[len(ps.operands)-1]; top.Space != bytecode.Table {
		return newError(ErrTableUse, ps.tok, "subscript applied to %s, which is not a table", top)
	}
	if err := ps.pushOp(bytecode.OP_TABLE); err != nil {
		return err
	}
	ps.groups = append(ps.groups, group{marker: bytecode.OP_TABLE, open: ps.tok})
	ps.mode = modeOp
	return nil
}

func (ps *parseState) closeBracket() error {
	g := ps.topGroup()
	if g == nil {
		return newError(ErrUnbalanced, ps.tok, "unexpected ']'")
	}
	if g.marker != bytecode.OP_TABLE {
		return newError(ErrUnbalanced, ps.tok, "missing ')' before ']'")
	}
	if ps.expectsOperand() {
		return newError(ErrMissingOperand, ps.tok, "missing subscript before ']'")
	}
	if err := ps.reduceTo(bytecode.OP_TABLE); err != nil {
		return err
	}
	if err := ps.reduce(); err != nil {
		return err
	}
	ps.groups = ps.groups[:len(ps.groups)-1]
	ps.mode = modeOperand
	return nil
}

func (ps *parseState) operator() error {
	unary := ps.expectsOperand()
	op := operatorFor(ps.tok.Type, unary)
	if op == bytecode.OP_INVALID {
		if unary {
			return newError(ErrMissingOperand, ps.tok, "missing operand before %s", describe(ps.tok))
		}
		return newError(ErrSyntax, ps.tok, "unexpected %s after operand", describe(ps.tok))
	}
	if !unary {
		prec := op.Info().Precedence
		for len(ps.ops) > 0 && ps.topOp().Info().Precedence >= prec {
			if err := ps.reduce(); err != nil {
				return err
			}
		}
	}
	if err := ps.pushOp(op); err != nil {
		return err
	}
	ps.mode = modeOp
	return nil
}

func (ps *parseState) identifier() error {
	if !ps.expectsOperand() {
		return newError(ErrSyntax, ps.tok, "unexpected %s after operand", describe(ps.tok))
	}
	if spec, ok := lookupBuiltin(ps.tok.Literal); ok {
		if err := ps.pushOp(spec.Op); err != nil {
			return err
		}
		ps.mode = modeBuiltinOp
		return nil
	}
	reg, err := ps.c.resolve(ps.tok)
	if err != nil {
		return err
	}
	return ps.pushOperand(reg)
}

func (ps *parseState) number() error {
	if !ps.expectsOperand() {
		return newError(ErrSyntax, ps.tok, "unexpected %s after operand", describe(ps.tok))
	}
	v, err := parseNumber(ps.tok.Literal)
	if err != nil {
		return newError(ErrNumber, ps.tok, "%s is not a valid number", describe(ps.tok))
	}
	reg, err := ps.c.addConstant(ps.tok, v)
	if err != nil {
		return err
	}
	return ps.pushOperand(reg)
}

// parseNumber accepts decimal literals with an optional fraction, exponent and
// trailing 'f'.
func parseNumber(lit string) (float32, error) {
	s := strings.TrimSuffix(lit, "f")
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if (ch < '0' || ch > '9') && ch != '.' && ch != 'e' && ch != 'E' && ch != '+' && ch != '-' {
			return 0, strconv.ErrSyntax
		}
	}
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, err
	}
	return float32(v), nil
}

// resolve maps an identifier to a register: rN, time, parmN, then named
// global parms and tables.
func (c *Compiler) resolve(tok token.Token) (bytecode.Register, error) {
	name := tok.Literal
	if n, ok := indexSuffix(name, "r"); ok {
		if n >= c.chunk.NumOutputs {
			return bytecode.Register{}, newError(ErrUndefined, tok, "%s refers to an output not yet compiled (%d so far)", name, c.chunk.NumOutputs)
		}
		return bytecode.OutputReg(n), nil
	}
	if name == "time" {
		return bytecode.LocalParmReg(0), nil
	}
	if n, ok := indexSuffix(name, "parm"); ok {
		if uint64(n)+1 >= bytecode.MaxLocalParms {
			return bytecode.Register{}, newError(ErrLimit, tok, "%s exceeds the %d local parms", name, bytecode.MaxLocalParms-1)
		}
		return bytecode.LocalParmReg(n + 1), nil
	}
	if c.data != nil {
		if i := c.data.FindParm(name); i >= 0 {
			return bytecode.GlobalParmReg(uint32(i)), nil
		}
		if i := c.data.FindTable(name); i >= 0 {
			return bytecode.TableReg(uint32(i)), nil
		}
	}
	return bytecode.Register{}, newError(ErrUndefined, tok, "unknown identifier %s", describe(tok))
}

func (c *Compiler) tableName(r bytecode.Register) string {
	if c.data != nil && int(r.Index) < c.data.NumTables() {
		return "'" + c.data.Table(int(r.Index)).Name + "'"
	}
	return r.String()
}

// indexSuffix matches prefix followed by one or more decimal digits.
func indexSuffix(name, prefix string) (uint32, bool) {
	rest, ok := strings.CutPrefix(name, prefix)
	if !ok || rest == "" {
		return 0, false
	}
	for i := 0; i < len(rest); i++ {
		if rest[i] < '0' || rest[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseUint(rest, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(n), true
}

func operatorFor(t token.Type, unary bool) bytecode.OpCode {
	if unary {
		switch t {
		case token.Plus:
			return bytecode.OP_PLUS
		case token.Minus:
			return bytecode.OP_MINUS
		case token.Bang:
			return bytecode.OP_NOT
		}
		return bytecode.OP_INVALID
	}
	switch t {
	case token.Plus:
		return bytecode.OP_ADD
	case token.Minus:
		return bytecode.OP_SUB
	case token.Star:
		return bytecode.OP_MUL
	case token.Slash:
		return bytecode.OP_DIV
	case token.Percent:
		return bytecode.OP_MOD
	case token.Greater:
		return bytecode.OP_GT
	case token.GreaterEqual:
		return bytecode.OP_GTE
	case token.Less:
		return bytecode.OP_LT
	case token.LessEqual:
		return bytecode.OP_LTE
	case token.Equal:
		return bytecode.OP_EQ
	case token.NotEqual:
		return bytecode.OP_NEQ
	case token.AndAnd:
		return bytecode.OP_AND
	case token.OrOr:
		return bytecode.OP_OR
	}
	return bytecode.OP_INVALID
}

func (ps *parseState) topGroup() *group {
	if len(ps.groups) == 0 {
		return nil
	}
	return &ps.groups[len(ps.groups)-1]
}

func (ps *parseState) topOp() bytecode.OpCode {
	if len(ps.ops) == 0 {
		return bytecode.OP_INVALID
	}
	return ps.ops[len(ps.ops)-1]
}

func (ps *parseState) popOp() bytecode.OpCode {
	op := ps.ops[len(ps.ops)-1]
	ps.ops = ps.ops[:len(ps.ops)-1]
	return op
}

func (ps *parseState) pushOp(op bytecode.OpCode) error {
	if len(ps.ops) >= ps.c.limits.MaxStackDepth {
		return newError(ErrLimit, ps.tok, "expression nests deeper than %d operators", ps.c.limits.MaxStackDepth)
	}
	ps.ops = append(ps.ops, op)
	return nil
}

func (ps *parseState) pushOperand(r bytecode.Register) error {
	if len(ps.operands) >= ps.c.limits.MaxStackDepth {
		return newError(ErrLimit, ps.tok, "expression holds more than %d pending operands", ps.c.limits.MaxStackDepth)
	}
	ps.operands = append(ps.operands, r)
	ps.mode = modeOperand
	return nil
}

func (ps *parseState) popOperand() bytecode.Register {
	r := ps.operands[len(ps.operands)-1]
	ps.operands = ps.operands[:len(ps.operands)-1]
	return r
}
