package bytecode

import "fmt"

// Space is one of the disjoint register address spaces.
type Space uint8

const (
	Output Space = iota
	Temp
	Constant
	Table
	GlobalParm
	LocalParm
)

const (
	MaxTempRegisters     = 32
	MaxConstantRegisters = 256
	MaxInstructions      = 65536
	MaxLocalParms        = 16
	MaxOutputRegisters   = 0xFFFF
)

var spaceNames = [...]string{
	Output:     "output",
	Temp:       "temp",
	Constant:   "constant",
	Table:      "table",
	GlobalParm: "global parm",
	LocalParm:  "local parm",
}

var spacePrefixes = [...]string{
	Output:     "r",
	Temp:       "t",
	Constant:   "c",
	Table:      "tbl",
	GlobalParm: "g",
	LocalParm:  "l",
}

func (s Space) String() string {
	if int(s) < len(spaceNames) {
		return spaceNames[s]
	}
	return fmt.Sprintf("space(%d)", uint8(s))
}

// Writable reports whether the evaluator may store into registers of this space.
func (s Space) Writable() bool {
	return s == Output || s == Temp
}

// Register addresses one value slot by space and index.
type Register struct {
	Space Space
	Index uint32
}

func OutputReg(i uint32) Register     { return Register{Space: Output, Index: i} }
func TempReg(i uint32) Register       { return Register{Space: Temp, Index: i} }
func ConstantReg(i uint32) Register   { return Register{Space: Constant, Index: i} }
func TableReg(i uint32) Register      { return Register{Space: Table, Index: i} }
func GlobalParmReg(i uint32) Register { return Register{Space: GlobalParm, Index: i} }
func LocalParmReg(i uint32) Register  { return Register{Space: LocalParm, Index: i} }

// String renders the register in disassembly form, e.g. "r2", "c0", "tbl1".
func (r Register) String() string {
	if int(r.Space) < len(spacePrefixes) {
		return fmt.Sprintf("%s%d", spacePrefixes[r.Space], r.Index)
	}
	return fmt.Sprintf("?%d:%d", uint8(r.Space), r.Index)
}
