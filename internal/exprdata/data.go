package exprdata

import (
	"fmt"
	"math"
)

// Parm is a named global parameter updated by the host, typically once per frame.
type Parm struct {
	Name  string
	Value float32
}

// Table is a named sampled curve. Snap selects step lookup instead of linear
// interpolation; Wrap selects wrapping instead of clamping out-of-range indices.
type Table struct {
	Name    string
	Samples []float32
	Snap    bool
	Wrap    bool
}

// Data holds the parms and tables that compiled chunks reference by index.
// It is not synchronized: mutate it between evaluations, never during one.
type Data struct {
	parms      []Parm
	parmIndex  map[string]int
	tables     []Table
	tableIndex map[string]int
}

// New returns an empty data set.
func New() *Data {
	return &Data{
		parmIndex:  make(map[string]int),
		tableIndex: make(map[string]int),
	}
}

// Clear removes every parm and table. Chunks compiled against the old
// contents must be recompiled.
func (d *Data) Clear() {
	d.parms = d.parms[:0]
	d.tables = d.tables[:0]
	clear(d.parmIndex)
	clear(d.tableIndex)
}

// SetParm creates or updates a named parm and returns its index.
func (d *Data) SetParm(name string, value float32) int {
	if i, ok := d.parmIndex[name]; ok {
		d.parms[i].Value = value
		return i
	}
	d.parms = append(d.parms, Parm{Name: name, Value: value})
	i := len(d.parms) - 1
	d.parmIndex[name] = i
	return i
}

// SetParmValue updates a parm by index, skipping the name lookup.
func (d *Data) SetParmValue(i int, value float32) {
	if i < 0 || i >= len(d.parms) {
		panic(fmt.Errorf("exprdata: parm index %d out of range (%d parms)", i, len(d.parms)))
	}
	d.parms[i].Value = value
}

// FindParm returns the index of a named parm, or -1.
func (d *Data) FindParm(name string) int {
	if i, ok := d.parmIndex[name]; ok {
		return i
	}
	return -1
}

// ParmValue returns the current value of parm i. An out-of-range index means
// the chunk was compiled against different data and panics.
func (d *Data) ParmValue(i uint32) float32 {
	if int(i) >= len(d.parms) {
		panic(fmt.Errorf("exprdata: parm index %d out of range (%d parms)", i, len(d.parms)))
	}
	return d.parms[i].Value
}

// NumParms returns the number of parms.
func (d *Data) NumParms() int { return len(d.parms) }

// Parm returns a copy of parm i.
func (d *Data) Parm(i int) Parm { return d.parms[i] }

// SetTable creates or replaces a named table and returns its index. The
// samples are copied. Replacing a table with a different sample count is
// rejected because compiled content may depend on its length.
func (d *Data) SetTable(name string, samples []float32, snap, wrap bool) (int, error) {
	if name == "" {
		return -1, fmt.Errorf("table name must not be empty")
	}
	if len(samples) == 0 {
		return -1, fmt.Errorf("table %q has no samples", name)
	}
	if i, ok := d.tableIndex[name]; ok {
		t := &d.tables[i]
		if len(t.Samples) != len(samples) {
			return -1, fmt.Errorf("table %q has %d samples, cannot replace with %d", name, len(t.Samples), len(samples))
		}
		copy(t.Samples, samples)
		t.Snap = snap
		t.Wrap = wrap
		return i, nil
	}
	d.tables = append(d.tables, Table{
		Name:    name,
		Samples: append([]float32(nil), samples...),
		Snap:    snap,
		Wrap:    wrap,
	})
	i := len(d.tables) - 1
	d.tableIndex[name] = i
	return i, nil
}

// FindTable returns the index of a named table, or -1.
func (d *Data) FindTable(name string) int {
	if i, ok := d.tableIndex[name]; ok {
		return i
	}
	return -1
}

// NumTables returns the number of tables.
func (d *Data) NumTables() int { return len(d.tables) }

// Table returns table i. The samples slice is shared with the data set.
func (d *Data) Table(i int) Table { return d.tables[i] }

// ParmNames returns parm names in index order.
func (d *Data) ParmNames() []string {
	names := make([]string, len(d.parms))
	for i, p := range d.parms {
		names[i] = p.Name
	}
	return names
}

// TableNames returns table names in index order.
func (d *Data) TableNames() []string {
	names := make([]string, len(d.tables))
	for i, t := range d.tables {
		names[i] = t.Name
	}
	return names
}

// TableValue samples table i at a fractional index.
func (d *Data) TableValue(i uint32, findex float32) float32 {
	if int(i) >= len(d.tables) {
		panic(fmt.Errorf("exprdata: table index %d out of range (%d tables)", i, len(d.tables)))
	}
	return d.tables[i].Sample(findex)
}

// Sample reads the table at findex using its snap and wrap policy.
func (t *Table) Sample(findex float32) float32 {
	n := len(t.Samples)
	fl := math.Floor(float64(findex))
	i0 := t.index(fl, n)
	if t.Snap {
		return t.Samples[i0]
	}
	fraction := findex - float32(fl)
	i1 := t.index(fl+1, n)
	a, b := t.Samples[i0], t.Samples[i1]
	return a + (b-a)*fraction
}

func (t *Table) index(f float64, n int) int {
	if t.Wrap {
		m := math.Mod(f, float64(n))
		if m < 0 {
			m += float64(n)
		}
		if m >= float64(n) || m != m {
			return 0
		}
		return int(m)
	}
	if !(f > 0) {
		return 0
	}
	if f >= float64(n-1) {
		return n - 1
	}
	return int(f)
}
