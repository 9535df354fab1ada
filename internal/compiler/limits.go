package compiler

import "github.com/xirelogy/go-exprvm/internal/bytecode"

// Limits bounds the resources one chunk may consume. Zero fields take the
// default value.
type Limits struct {
	MaxConstants    int `yaml:"max_constants" json:"max_constants"`
	MaxInstructions int `yaml:"max_instructions" json:"max_instructions"`
	MaxStackDepth   int `yaml:"max_stack_depth" json:"max_stack_depth"`
}

// DefaultLimits returns the standard compiler limits.
func DefaultLimits() Limits {
	return Limits{
		MaxConstants:    bytecode.MaxConstantRegisters,
		MaxInstructions: bytecode.MaxInstructions,
		MaxStackDepth:   16,
	}
}

func (l Limits) withDefaults() Limits {
	def := DefaultLimits()
	if l.MaxConstants <= 0 {
		l.MaxConstants = def.MaxConstants
	}
	if l.MaxInstructions <= 0 {
		l.MaxInstructions = def.MaxInstructions
	}
	if l.MaxStackDepth <= 0 {
		l.MaxStackDepth = def.MaxStackDepth
	}
	return l
}
