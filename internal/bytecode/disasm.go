package bytecode

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Disassembler formats chunks as a readable assembly-style dump.
type Disassembler struct {
	w          io.Writer
	parmNames  []string
	tableNames []string
	printed    bool
}

// NewDisassembler constructs a disassembler that writes to w.
func NewDisassembler(w io.Writer) *Disassembler {
	return &Disassembler{w: w}
}

// SetNames lets operand comments show global parm and table names by index.
func (d *Disassembler) SetNames(parms, tables []string) {
	d.parmNames = parms
	d.tableNames = tables
}

// DisassembleChunk emits a header followed by one line per instruction.
func (d *Disassembler) DisassembleChunk(label string, chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("nil chunk")
	}
	d.startSection()
	if label == "" {
		label = "<chunk>"
	}
	fmt.Fprintf(d.w, "chunk %s (outputs=%d, temps=%d, constants=%d, instructions=%d)\n",
		label, chunk.NumOutputs, chunk.NumTemps, len(chunk.Constants), len(chunk.Instructions))
	for pc, in := range chunk.Instructions {
		operands := []Register{in.Dest, in.Src0}
		if !in.Op.Info().Unary {
			operands = append(operands, in.Src1)
		}
		names := make([]string, len(operands))
		comments := []string{}
		for i, r := range operands {
			names[i] = r.String()
			if i == 0 {
				continue
			}
			if c := d.describe(chunk, r); c != "" {
				comments = append(comments, c)
			}
		}
		fmt.Fprintf(d.w, "%04d %-8s %s", pc, in.Op, strings.Join(names, ", "))
		if len(comments) > 0 {
			fmt.Fprintf(d.w, " ; %s", strings.Join(comments, " "))
		}
		fmt.Fprintln(d.w)
	}
	return nil
}

func (d *Disassembler) startSection() {
	if d.printed {
		fmt.Fprintln(d.w)
	}
	d.printed = true
}

func (d *Disassembler) describe(chunk *Chunk, r Register) string {
	switch r.Space {
	case Constant:
		if int(r.Index) >= len(chunk.Constants) {
			return r.String() + "=<invalid>"
		}
		return r.String() + "=" + formatConst(chunk.Constants[r.Index])
	case GlobalParm:
		if int(r.Index) < len(d.parmNames) {
			return r.String() + "=" + d.parmNames[r.Index]
		}
	case Table:
		if int(r.Index) < len(d.tableNames) {
			return r.String() + "=" + d.tableNames[r.Index]
		}
	case LocalParm:
		if r.Index == 0 {
			return r.String() + "=time"
		}
		return fmt.Sprintf("%s=parm%d", r, r.Index-1)
	}
	return ""
}

func formatConst(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}
