package bytecode

import "fmt"

// Instruction is one straight-line register operation.
// Src1 is the zero register for unary operations and OP_MOV.
type Instruction struct {
	Op   OpCode
	Dest Register
	Src0 Register
	Src1 Register
}

func (in Instruction) String() string {
	if in.Op.Info().Unary {
		return fmt.Sprintf("%s %s, %s", in.Op, in.Dest, in.Src0)
	}
	return fmt.Sprintf("%s %s, %s, %s", in.Op, in.Dest, in.Src0, in.Src1)
}

// Chunk is a compiled instruction list with its constant pool.
type Chunk struct {
	Instructions []Instruction
	Constants    []float32
	NumOutputs   uint32
	NumTemps     uint32
}

// Clone returns a deep copy of the chunk.
func (c *Chunk) Clone() *Chunk {
	if c == nil {
		return nil
	}
	return &Chunk{
		Instructions: append([]Instruction(nil), c.Instructions...),
		Constants:    append([]float32(nil), c.Constants...),
		NumOutputs:   c.NumOutputs,
		NumTemps:     c.NumTemps,
	}
}

// Validate checks that every register reference is in range for a data set
// holding numParms global parms and numTables tables, that only writable spaces
// are written and that table registers are only read by OP_TABLE.
func (c *Chunk) Validate(numParms, numTables int) error {
	if c == nil {
		return fmt.Errorf("nil chunk")
	}
	if c.NumTemps > MaxTempRegisters {
		return fmt.Errorf("chunk uses %d temp registers, limit is %d", c.NumTemps, MaxTempRegisters)
	}
	check := func(pc int, r Register) error {
		var limit uint64
		switch r.Space {
		case Output:
			limit = uint64(c.NumOutputs)
		case Temp:
			limit = uint64(c.NumTemps)
		case Constant:
			limit = uint64(len(c.Constants))
		case Table:
			limit = uint64(numTables)
		case GlobalParm:
			limit = uint64(numParms)
		case LocalParm:
			limit = MaxLocalParms
		default:
			return fmt.Errorf("instruction %d: unknown register space %d", pc, r.Space)
		}
		if uint64(r.Index) >= limit {
			return fmt.Errorf("instruction %d: register %s out of range (%s count %d)", pc, r, r.Space, limit)
		}
		return nil
	}
	for pc, in := range c.Instructions {
		if !in.Op.Valid() || in.Op.IsMarker() {
			return fmt.Errorf("instruction %d: invalid opcode %s", pc, in.Op)
		}
		if !in.Dest.Space.Writable() {
			return fmt.Errorf("instruction %d: destination %s is read-only", pc, in.Dest)
		}
		if err := check(pc, in.Dest); err != nil {
			return err
		}
		if err := check(pc, in.Src0); err != nil {
			return err
		}
		if in.Op == OP_TABLE {
			if in.Src0.Space != Table {
				return fmt.Errorf("instruction %d: table lookup on non-table register %s", pc, in.Src0)
			}
		} else if in.Src0.Space == Table {
			return fmt.Errorf("instruction %d: table register %s read as a value", pc, in.Src0)
		}
		if in.Op.Info().Unary {
			continue
		}
		if err := check(pc, in.Src1); err != nil {
			return err
		}
		if in.Src1.Space == Table {
			return fmt.Errorf("instruction %d: table register %s read as a value", pc, in.Src1)
		}
	}
	return nil
}
