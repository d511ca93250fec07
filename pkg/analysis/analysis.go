// Package analysis reads particle traces back into per-particle time series
// and the ensemble totals derived from them.
package analysis

import (
	"bufio"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/phil-mansfield/table"

	"github.com/opd-ai/go-particlesim/pkg/physics"
	"github.com/opd-ai/go-particlesim/pkg/trace"
)

// ErrEmptyTrace is returned for traces without a single record
var ErrEmptyTrace = errors.New("trace contains no records")

// Series is the history of one particle
type Series struct {
	ID     uint64
	Mass   float64
	Charge float64

	Ticks           []uint64
	Momentum        []physics.Vector3D
	Position        []physics.Vector3D
	AngularMomentum []physics.Vector3D
	Orientation     []physics.Vector3D
}

// Len returns the number of samples
func (s *Series) Len() int {
	return len(s.Ticks)
}

// Trace holds every particle's series
type Trace struct {
	Spin      bool
	Particles []*Series

	byID map[uint64]*Series
}

// Totals are the ensemble sums at one tick
type Totals struct {
	Tick            uint64
	Momentum        physics.Vector3D
	KineticEnergy   float64
	AngularMomentum physics.Vector3D
}

func newTrace(spin bool) *Trace {
	return &Trace{Spin: spin, byID: make(map[uint64]*Series)}
}

// Particle returns the series for an id, or nil
func (t *Trace) Particle(id uint64) *Series {
	return t.byID[id]
}

func (t *Trace) add(tick uint64, r trace.Record) {
	s, ok := t.byID[r.ParticleID]
	if !ok {
		s = &Series{ID: r.ParticleID, Mass: r.Mass, Charge: r.Charge}
		t.byID[r.ParticleID] = s
		t.Particles = append(t.Particles, s)
	}
	s.Ticks = append(s.Ticks, tick)
	s.Momentum = append(s.Momentum, r.Momentum)
	s.Position = append(s.Position, r.Position)
	if t.Spin {
		s.AngularMomentum = append(s.AngularMomentum, r.AngularMomentum)
		s.Orientation = append(s.Orientation, r.Orientation)
	}
}

func (t *Trace) finish() error {
	if len(t.Particles) == 0 {
		return ErrEmptyTrace
	}
	sort.Slice(t.Particles, func(i, j int) bool { return t.Particles[i].ID < t.Particles[j].ID })
	return nil
}

// ReadTrace reads a trace file written in either format. Table traces start
// with a '#' comment header.
func ReadTrace(path string) (*Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening trace: %w", err)
	}
	defer f.Close()

	first, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && first == "" {
		return nil, ErrEmptyTrace
	}
	if strings.HasPrefix(first, "#") {
		return ReadTable(path)
	}
	if _, err := f.Seek(0, 0); err != nil {
		return nil, err
	}
	return ReadCSV(bufio.NewScanner(f))
}

// ReadTable reads a table format trace. Spin columns are used when present.
func ReadTable(path string) (*Trace, error) {
	header, err := tableHeader(path)
	if err != nil {
		return nil, err
	}
	spin := len(header) == len(trace.Columns(true))+1

	idxs := make([]int, len(header))
	for i := range idxs {
		idxs[i] = i
	}
	cols, err := table.ReadTable(path, idxs, nil)
	if err != nil {
		return nil, fmt.Errorf("reading trace table: %w", err)
	}
	return FromColumns(cols, spin)
}

// tableHeader returns the column names from the second comment line
func tableHeader(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening trace: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, "#") {
			break
		}
		fields := strings.Fields(strings.TrimPrefix(line, "#"))
		if len(fields) > 0 && fields[0] == "tick" {
			if n := len(fields); n != len(trace.Columns(false))+1 && n != len(trace.Columns(true))+1 {
				return nil, fmt.Errorf("unexpected trace header with %d columns", n)
			}
			return fields, nil
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return nil, errors.New("trace table has no column header")
}

// FromColumns builds a trace from table columns laid out as tick, then the
// record columns
func FromColumns(cols [][]float64, spin bool) (*Trace, error) {
	want := len(trace.Columns(spin)) + 1
	if len(cols) != want {
		return nil, fmt.Errorf("expected %d columns, got %d", want, len(cols))
	}

	t := newTrace(spin)
	for row := range cols[0] {
		vals := make([]float64, want)
		for c := range cols {
			if len(cols[c]) != len(cols[0]) {
				return nil, fmt.Errorf("column %d has %d rows, want %d", c, len(cols[c]), len(cols[0]))
			}
			vals[c] = cols[c][row]
		}
		t.add(uint64(vals[0]), recordFromValues(vals[1:], spin))
	}
	return t, t.finish()
}

// ReadCSV reads a CSV trace. Ticks are counted from the blank lines ending
// each tick, starting at one.
func ReadCSV(sc *bufio.Scanner) (*Trace, error) {
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, ErrEmptyTrace
	}
	header := strings.Split(strings.TrimSpace(sc.Text()), ",")
	var spin bool
	switch len(header) {
	case len(trace.Columns(false)):
	case len(trace.Columns(true)):
		spin = true
	default:
		return nil, fmt.Errorf("unexpected trace header with %d columns", len(header))
	}

	t := newTrace(spin)
	tick, line := uint64(1), 1
	pending := false
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			if pending {
				tick++
				pending = false
			}
			continue
		}

		fields := strings.Split(text, ",")
		if len(fields) != len(header) {
			return nil, fmt.Errorf("line %d: expected %d fields, got %d", line, len(header), len(fields))
		}
		vals := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			vals[i] = v
		}
		t.add(tick, recordFromValues(vals, spin))
		pending = true
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return t, t.finish()
}

func recordFromValues(v []float64, spin bool) trace.Record {
	r := trace.Record{
		ParticleID: uint64(v[0]),
		Mass:       v[1],
		Charge:     v[2],
		Momentum:   physics.Vector3D{X: v[3], Y: v[4], Z: v[5]},
		Position:   physics.Vector3D{X: v[6], Y: v[7], Z: v[8]},
	}
	if spin {
		r.AngularMomentum = physics.Vector3D{X: v[9], Y: v[10], Z: v[11]}
		r.Orientation = physics.Vector3D{X: v[12], Y: v[13], Z: v[14]}
	}
	return r
}

// Totals sums momentum, kinetic energy and angular momentum over every
// particle present at each tick, in tick order
func (t *Trace) Totals() []Totals {
	byTick := make(map[uint64]*Totals)
	for _, s := range t.Particles {
		for i, tick := range s.Ticks {
			tot, ok := byTick[tick]
			if !ok {
				tot = &Totals{Tick: tick}
				byTick[tick] = tot
			}
			p := s.Momentum[i]
			tot.Momentum = tot.Momentum.Add(p)
			tot.KineticEnergy += p.LengthSquared() / (2 * s.Mass)
			if t.Spin {
				tot.AngularMomentum = tot.AngularMomentum.Add(s.AngularMomentum[i])
			}
		}
	}

	out := make([]Totals, 0, len(byTick))
	for _, tot := range byTick {
		out = append(out, *tot)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tick < out[j].Tick })
	return out
}

// Drift is the largest change of a conserved total relative to its first
// sample
type Drift struct {
	Momentum      float64
	KineticEnergy float64
}

// ConservationDrift measures how far the totals wander from the first tick.
// Kinetic energy drift is relative; momentum drift is absolute since the
// total momentum is often zero.
func ConservationDrift(totals []Totals) Drift {
	var d Drift
	if len(totals) == 0 {
		return d
	}
	p0, e0 := totals[0].Momentum, totals[0].KineticEnergy
	for _, tot := range totals[1:] {
		d.Momentum = math.Max(d.Momentum, tot.Momentum.Sub(p0).Length())
		de := math.Abs(tot.KineticEnergy - e0)
		if e0 != 0 {
			de /= math.Abs(e0)
		}
		d.KineticEnergy = math.Max(d.KineticEnergy, de)
	}
	return d
}
