// Package trace writes the per-tick particle log. Records are buffered and
// flushed once per tick, never per record.
package trace

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/opd-ai/go-particlesim/pkg/physics"
)

// Format selects the on-disk layout of a trace
type Format string

const (
	// FormatCSV is the comma separated log with a header row and a blank
	// line after every tick.
	FormatCSV Format = "csv"
	// FormatTable is a whitespace separated table with a leading tick
	// column and '#' comment headers, readable by table.ReadTable.
	FormatTable Format = "table"
)

// ParseFormat validates a format name
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatCSV, FormatTable:
		return f, nil
	default:
		return "", fmt.Errorf("unknown trace format %q", name)
	}
}

var (
	baseColumns = []string{
		"particle_id", "mass", "charge",
		"x_momenta", "y_momenta", "z_momenta",
		"x_pos", "y_pos", "z_pos",
	}
	spinColumns = []string{
		"pitch_momenta", "roll_momenta", "yaw_momenta",
		"pitch", "roll", "yaw",
	}
)

// Columns returns the record columns in log order
func Columns(spin bool) []string {
	cols := append([]string(nil), baseColumns...)
	if spin {
		cols = append(cols, spinColumns...)
	}
	return cols
}

// Record is one particle's state at the end of a tick
type Record struct {
	ParticleID      uint64
	Mass            float64
	Charge          float64
	Momentum        physics.Vector3D
	Position        physics.Vector3D
	AngularMomentum physics.Vector3D
	Orientation     physics.Vector3D
}

func (r Record) values(spin bool) []float64 {
	vals := []float64{
		r.Mass, r.Charge,
		r.Momentum.X, r.Momentum.Y, r.Momentum.Z,
		r.Position.X, r.Position.Y, r.Position.Z,
	}
	if spin {
		vals = append(vals,
			r.AngularMomentum.X, r.AngularMomentum.Y, r.AngularMomentum.Z,
			r.Orientation.X, r.Orientation.Y, r.Orientation.Z,
		)
	}
	return vals
}

// Sink receives one batch of records per tick
type Sink interface {
	WriteTick(tick uint64, records []Record) error
}

// Writer is a buffered Sink
type Writer struct {
	buf    *bufio.Writer
	csv    *csv.Writer
	closer io.Closer
	format Format
	spin   bool
	header bool
}

// NewWriter creates a Writer on w. spin adds the angular columns.
func NewWriter(w io.Writer, format Format, spin bool) (*Writer, error) {
	if _, err := ParseFormat(string(format)); err != nil {
		return nil, err
	}

	buf := bufio.NewWriter(w)
	tw := &Writer{buf: buf, format: format, spin: spin}
	if format == FormatCSV {
		tw.csv = csv.NewWriter(buf)
	}
	return tw, nil
}

// Create opens path for writing and returns a Writer that closes it
func Create(path string, format Format, spin bool) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating trace %s: %w", path, err)
	}

	tw, err := NewWriter(f, format, spin)
	if err != nil {
		f.Close()
		return nil, err
	}
	tw.closer = f
	return tw, nil
}

// WriteTick appends the records of one tick and flushes the buffer
func (w *Writer) WriteTick(tick uint64, records []Record) error {
	if !w.header {
		if err := w.writeHeader(); err != nil {
			return err
		}
		w.header = true
	}

	var err error
	switch w.format {
	case FormatCSV:
		err = w.writeCSV(records)
	case FormatTable:
		err = w.writeTable(tick, records)
	}
	if err != nil {
		return fmt.Errorf("writing tick %d: %w", tick, err)
	}
	return w.buf.Flush()
}

func (w *Writer) writeHeader() error {
	cols := Columns(w.spin)
	if w.format == FormatCSV {
		if err := w.csv.Write(cols); err != nil {
			return err
		}
		w.csv.Flush()
		return w.csv.Error()
	}

	_, err := fmt.Fprintf(w.buf, "# %s\n# %s\n",
		"Per-tick particle trace. Units: grams, coulombs, metres, seconds.",
		strings.Join(append([]string{"tick"}, cols...), " "))
	return err
}

func (w *Writer) writeCSV(records []Record) error {
	for _, r := range records {
		vals := r.values(w.spin)
		row := make([]string, 0, len(vals)+1)
		row = append(row, strconv.FormatUint(r.ParticleID, 10))
		for _, v := range vals {
			row = append(row, strconv.FormatFloat(v, 'E', 6, 64))
		}
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return err
	}
	// Blank line separates ticks
	return w.buf.WriteByte('\n')
}

func (w *Writer) writeTable(tick uint64, records []Record) error {
	for _, r := range records {
		line := make([]byte, 0, 256)
		line = strconv.AppendUint(line, tick, 10)
		line = append(line, ' ')
		line = strconv.AppendUint(line, r.ParticleID, 10)
		for _, v := range r.values(w.spin) {
			line = append(line, ' ')
			line = strconv.AppendFloat(line, v, 'e', -1, 64)
		}
		line = append(line, '\n')
		if _, err := w.buf.Write(line); err != nil {
			return err
		}
	}
	return nil
}

// Flush writes any buffered data
func (w *Writer) Flush() error {
	if w.csv != nil {
		w.csv.Flush()
		if err := w.csv.Error(); err != nil {
			return err
		}
	}
	return w.buf.Flush()
}

// Close flushes and closes the underlying file when Create opened it
func (w *Writer) Close() error {
	err := w.Flush()
	if w.closer != nil {
		if cerr := w.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
