package exprdata

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTable(t *testing.T, d *Data, name string, samples []float32, snap, wrap bool) uint32 {
	t.Helper()
	i, err := d.SetTable(name, samples, snap, wrap)
	require.NoError(t, err)
	return uint32(i)
}

func TestTableInterpolatedClamp(t *testing.T) {
	d := New()
	i := mustTable(t, d, "ramp", []float32{0, 10, 20}, false, false)

	assert.Equal(t, float32(5), d.TableValue(i, 0.5))
	assert.Equal(t, float32(0), d.TableValue(i, -1))
	assert.Equal(t, float32(15), d.TableValue(i, 1.5))
	assert.Equal(t, float32(20), d.TableValue(i, 2))
	assert.Equal(t, float32(20), d.TableValue(i, 7.25))
}

func TestTableInterpolatedWrap(t *testing.T) {
	d := New()
	i := mustTable(t, d, "ramp", []float32{0, 10, 20}, false, true)

	assert.Equal(t, float32(0), d.TableValue(i, 3))
	assert.Equal(t, float32(10), d.TableValue(i, 2.5))
	assert.Equal(t, float32(20), d.TableValue(i, -1))
	assert.Equal(t, float32(5), d.TableValue(i, 6.5))
}

func TestTableSnap(t *testing.T) {
	d := New()
	clamp := mustTable(t, d, "steps", []float32{1, 2, 3}, true, false)
	wrap := mustTable(t, d, "cycle", []float32{1, 2, 3}, true, true)

	assert.Equal(t, float32(1), d.TableValue(clamp, 0.9))
	assert.Equal(t, float32(2), d.TableValue(clamp, 1.99))
	assert.Equal(t, float32(3), d.TableValue(clamp, 100))
	assert.Equal(t, float32(1), d.TableValue(clamp, -5))
	assert.Equal(t, float32(1), d.TableValue(wrap, 3.5))
	assert.Equal(t, float32(3), d.TableValue(wrap, -0.5))
}

func TestSetTableReplace(t *testing.T) {
	d := New()
	i := mustTable(t, d, "t", []float32{1, 2}, false, false)
	j := mustTable(t, d, "t", []float32{3, 4}, true, true)
	assert.Equal(t, i, j)
	assert.Equal(t, float32(4), d.TableValue(i, 1))

	_, err := d.SetTable("t", []float32{1, 2, 3}, false, false)
	assert.Error(t, err)
	_, err = d.SetTable("empty", nil, false, false)
	assert.Error(t, err)
	_, err = d.SetTable("", []float32{1}, false, false)
	assert.Error(t, err)
}

func TestSetTableCopiesSamples(t *testing.T) {
	d := New()
	samples := []float32{1, 2}
	i := mustTable(t, d, "t", samples, true, false)
	samples[0] = 9
	assert.Equal(t, float32(1), d.TableValue(i, 0))
}

func TestParms(t *testing.T) {
	d := New()
	a := d.SetParm("speed", 1)
	b := d.SetParm("phase", 2)
	assert.Equal(t, 0, a)
	assert.Equal(t, 1, b)
	assert.Equal(t, a, d.SetParm("speed", 3))
	assert.Equal(t, float32(3), d.ParmValue(uint32(a)))

	d.SetParmValue(b, 7)
	assert.Equal(t, float32(7), d.ParmValue(uint32(b)))
	assert.Equal(t, 1, d.FindParm("phase"))
	assert.Equal(t, -1, d.FindParm("missing"))
	assert.Equal(t, []string{"speed", "phase"}, d.ParmNames())

	assert.Panics(t, func() { d.ParmValue(2) })
	assert.Panics(t, func() { d.SetParmValue(-1, 0) })
	assert.Panics(t, func() { d.TableValue(0, 0) })

	d.Clear()
	assert.Equal(t, 0, d.NumParms())
	assert.Equal(t, -1, d.FindParm("speed"))
}

func TestLoadYAML(t *testing.T) {
	src := `
parms:
  parm10: 1
  parm2: 2
  alpha: 0.5
tables:
  - name: pulse
    wrap: true
    values: [0, 1, 0]
  - name: steps
    snap: true
    values: [1, 2]
`
	d, err := Load(strings.NewReader(src), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "parm2", "parm10"}, d.ParmNames())
	assert.Equal(t, []string{"pulse", "steps"}, d.TableNames())
	assert.True(t, d.Table(0).Wrap)
	assert.True(t, d.Table(1).Snap)
	assert.Equal(t, float32(0.5), d.TableValue(0, 0.5))
}

func TestLoadJSON(t *testing.T) {
	src := `{"parms": {"speed": 2}, "tables": [{"name": "ramp", "values": [0, 10]}]}`
	d, err := Load(strings.NewReader(src), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, float32(2), d.ParmValue(0))
	assert.Equal(t, float32(5), d.TableValue(0, 0.5))
}

func TestLoadRejectsBadDocuments(t *testing.T) {
	_, err := Load(strings.NewReader("parms: {a: 1}\nbogus: true\n"), FormatYAML)
	assert.Error(t, err)

	_, err = Load(strings.NewReader(`{"tables": [{"name": "t", "values": []}]}`), FormatJSON)
	assert.Error(t, err)

	d, err := Load(strings.NewReader(""), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, 0, d.NumParms())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.yml")
	require.NoError(t, os.WriteFile(path, []byte("parms: {time_scale: 0.001}\n"), 0o644))

	d, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 0, d.FindParm("time_scale"))

	_, err = LoadFile(filepath.Join(dir, "data.toml"))
	assert.Error(t, err)

	_, err = FormatForPath("x.JSON")
	assert.NoError(t, err)
}
