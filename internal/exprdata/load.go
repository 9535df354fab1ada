package exprdata

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/maruel/natural"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Format selects the encoding of a declaration document.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// FormatForPath picks a format from a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return 0, fmt.Errorf("unsupported declaration file extension %q", filepath.Ext(path))
	}
}

// Declarations is the on-disk form of a data set:
//
//	parms:
//	  speed: 2
//	tables:
//	  - name: pulse
//	    wrap: true
//	    values: [0, 1, 0]
type Declarations struct {
	Parms  map[string]float32 `yaml:"parms" json:"parms"`
	Tables []TableDecl        `yaml:"tables" json:"tables"`
}

// TableDecl declares one table.
type TableDecl struct {
	Name   string    `yaml:"name" json:"name"`
	Snap   bool      `yaml:"snap" json:"snap"`
	Wrap   bool      `yaml:"wrap" json:"wrap"`
	Values []float32 `yaml:"values" json:"values"`
}

// Loader decodes declaration documents into a Data.
type Loader struct {
	logger zerolog.Logger
}

// NewLoader returns a loader reporting through logger.
func NewLoader(logger zerolog.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load decodes r with a silent loader into a fresh Data.
func Load(r io.Reader, format Format) (*Data, error) {
	d := New()
	if err := NewLoader(zerolog.Nop()).Load(r, format, d); err != nil {
		return nil, err
	}
	return d, nil
}

// LoadFile reads path with a silent loader into a fresh Data.
func LoadFile(path string) (*Data, error) {
	d := New()
	if err := NewLoader(zerolog.Nop()).LoadFile(path, d); err != nil {
		return nil, err
	}
	return d, nil
}

// LoadFile reads the declaration file at path into d.
func (l *Loader) LoadFile(path string, d *Data) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := l.Load(f, format, d); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Load decodes one document from r and applies it to d.
func (l *Loader) Load(r io.Reader, format Format, d *Data) error {
	var decl Declarations
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&decl); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("decode yaml declarations: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&decl); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("decode json declarations: %w", err)
		}
	default:
		return fmt.Errorf("unsupported declaration format %s", format)
	}
	if err := l.Apply(decl, d); err != nil {
		return err
	}
	l.logger.Debug().
		Str("format", format.String()).
		Int("parms", len(decl.Parms)).
		Int("tables", len(decl.Tables)).
		Msg("loaded expression data declarations")
	return nil
}

// Apply registers the declared parms, in natural name order, and tables, in
// document order.
func (l *Loader) Apply(decl Declarations, d *Data) error {
	names := make([]string, 0, len(decl.Parms))
	for name := range decl.Parms {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return natural.Less(names[i], names[j]) })
	for _, name := range names {
		if name == "" {
			return fmt.Errorf("parm name must not be empty")
		}
		d.SetParm(name, decl.Parms[name])
	}
	for i, t := range decl.Tables {
		if _, err := d.SetTable(t.Name, t.Values, t.Snap, t.Wrap); err != nil {
			l.logger.Error().Err(err).Int("table", i).Msg("rejected table declaration")
			return fmt.Errorf("table %d: %w", i, err)
		}
	}
	return nil
}
