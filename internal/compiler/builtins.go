package compiler

import (
	_ "github.com/xirelogy/go-exprvm/internal/builtins"
	"github.com/xirelogy/go-exprvm/internal/bytecode"
	"github.com/xirelogy/go-exprvm/internal/runtime"
	"github.com/xirelogy/go-exprvm/internal/token"
)

func lookupBuiltin(name string) (runtime.Spec, bool) {
	return runtime.LookupByName(name)
}

func builtinFor(op bytecode.OpCode) (runtime.Spec, bool) {
	return runtime.LookupByOp(op)
}

func checkArity(tok token.Token, spec runtime.Spec, argc int) error {
	if argc != spec.Arity {
		return newError(ErrArity, tok, "builtin %s expects %d args, got %d", spec.Name, spec.Arity, argc)
	}
	return nil
}
