package exprvm

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDeclarations = `
parms:
  speed: 2
tables:
  - name: pulse
    wrap: true
    values: [0, 1, 0]
`

func loadTestData(t *testing.T) *Data {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testDeclarations), 0o644))
	data, err := LoadData(path)
	require.NoError(t, err)
	return data
}

func TestAPICompileAndEvaluate(t *testing.T) {
	data := loadTestData(t)
	chunk, regs, err := Compile(data, "speed * time + pulse[time], 2 + 3 * 4", 2)
	require.NoError(t, err)
	require.Len(t, regs, 2)
	assert.Equal(t, 2, chunk.NumOutputs())
	require.NoError(t, chunk.Validate(data))

	out := make([]float32, chunk.NumOutputs())
	chunk.Evaluate(data, &LocalParms{0.5}, out)
	assert.Equal(t, []float32{1.5, 14}, out)
}

func TestAPIIncrementalCompiler(t *testing.T) {
	data := NewData()
	data.SetParm("gain", 4)

	c := NewCompiler(data)
	_, err := c.Compile("gain * parm0", 1)
	require.NoError(t, err)
	_, err = c.Compile("r0 + bogus", 1)
	require.ErrorIs(t, err, ErrUndefined)
	regs, err := c.Compile("-r0\nignored", AnyCount)
	require.NoError(t, err)
	assert.Equal(t, "r1", regs[0].String())

	chunk := c.Chunk()
	out := make([]float32, chunk.NumOutputs())
	chunk.Evaluate(data, &LocalParms{0, 3}, out)
	assert.Equal(t, []float32{12, -12}, out)
}

func TestAPICompileFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exprs.txt")
	require.NoError(t, os.WriteFile(path, []byte("time * 2, /* half */ time / 2"), 0o644))

	c := NewCompiler(nil)
	regs, err := c.CompileFile(path, 2)
	require.NoError(t, err)
	assert.Len(t, regs, 2)

	_, err = c.CompileFile(path, 3)
	require.ErrorIs(t, err, ErrCount)
	assert.Contains(t, err.Error(), "exprs.txt")

	_, err = c.CompileFile(filepath.Join(t.TempDir(), "missing.txt"), 1)
	assert.Error(t, err)
}

func TestAPICompileErrors(t *testing.T) {
	cases := map[string]error{
		"2 +":           ErrMissingOperand,
		"(2 + 3":        ErrUnbalanced,
		"undefinedName": ErrUndefined,
		"min(1)":        ErrArity,
		"pulse":         ErrTableUse,
	}
	data := loadTestData(t)
	for src, kind := range cases {
		_, _, err := Compile(data, src, 1)
		require.ErrorIs(t, err, kind, src)
		var ce *CompileError
		require.True(t, errors.As(err, &ce), src)
	}
}

func TestAPIDisassemble(t *testing.T) {
	data := loadTestData(t)
	chunk, _, err := Compile(data, "speed * time + pulse[time]", 1)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, chunk.Disassemble(&buf, "demo", data))
	want := strings.Join([]string{
		"chunk demo (outputs=1, temps=2, constants=0, instructions=4)",
		"0000 MUL      t0, g0, l0 ; g0=speed l0=time",
		"0001 TABLE    t1, tbl0, l0 ; tbl0=pulse l0=time",
		"0002 ADD      t0, t0, t1",
		"0003 MOV      r0, t0",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestAPICompileAll(t *testing.T) {
	data := loadTestData(t)
	chunks, err := CompileAll(context.Background(), data, []Source{
		{Name: "a", Text: "speed + 1", Count: 1},
		{Name: "b", Text: "time, time * speed", Count: 2},
	})
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, 1, chunks[0].NumOutputs())
	assert.Equal(t, 2, chunks[1].NumOutputs())

	out := make([]float32, 2)
	chunks[1].Evaluate(data, &LocalParms{3}, out)
	assert.Equal(t, []float32{3, 6}, out)
}

func TestAPIEvaluatorTrace(t *testing.T) {
	chunk, _, err := Compile(nil, "time * 2 + 1", 1)
	require.NoError(t, err)

	var values []float32
	e := NewEvaluator()
	e.SetTraceHook(func(info TraceInfo) {
		values = append(values, info.Value)
	})
	out := make([]float32, 1)
	e.Evaluate(chunk, nil, &LocalParms{2}, out)
	assert.Equal(t, []float32{4, 5, 5}, values)
}

func TestAPIEvaluatePanicsOnShortOutput(t *testing.T) {
	chunk, _, err := Compile(nil, "1, 2", 2)
	require.NoError(t, err)
	assert.PanicsWithError(t, "vm: output buffer holds 1 values, chunk writes 2", func() {
		chunk.Evaluate(nil, nil, make([]float32, 1))
	})
}

func TestAPICompilerLogging(t *testing.T) {
	var buf bytes.Buffer
	c := NewCompiler(nil)
	c.SetLogger(zerolog.New(&buf).Level(zerolog.ErrorLevel))
	c.SetLimits(Limits{MaxConstants: 1})

	_, err := c.Compile("1 + 2", 1)
	require.ErrorIs(t, err, ErrLimit)
	assert.Contains(t, buf.String(), "expression compile failed")
	assert.Equal(t, 256, DefaultLimits().MaxConstants)
}
