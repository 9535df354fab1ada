// Package builtins links every built-in function plugin into the binary.
// Import it for side effects before compiling expressions.
package builtins

import (
	_ "github.com/xirelogy/go-exprvm/internal/builtins/mathfn"
	_ "github.com/xirelogy/go-exprvm/internal/builtins/trig"
)
