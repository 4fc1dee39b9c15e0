// Package field samples noise functions over a normalized tile space.
//
// A Field maps tile coordinates (u, v) to lattice space by scaling with its
// frequency. When the field carries a period equal to its frequency, the unit
// square tiles seamlessly.
package field

import (
	"errors"
	"fmt"

	"github.com/pthm-cable/latnoise/config"
	"github.com/pthm-cable/latnoise/noise"
)

// ErrUnknownKind is returned by ParseKind for unrecognized names.
var ErrUnknownKind = errors.New("unknown field kind")

// Kind selects the noise function and the channel of its result.
type Kind uint8

const (
	Gradient Kind = iota
	GradientHQ
	Gradient3D
	CellularF1   // Distance to the closest point
	CellularF2   // Distance to the second-closest point
	CellularEdge // F2 - F1, zero on cell borders
	CellularID   // Per-cell random value
)

// kindNames doubles as config.Kinds; keep both lists in the same order.
var kindNames = [...]string{
	Gradient:     "gradient",
	GradientHQ:   "gradient_hq",
	Gradient3D:   "gradient_3d",
	CellularF1:   "cellular_f1",
	CellularF2:   "cellular_f2",
	CellularEdge: "cellular_edge",
	CellularID:   "cellular_id",
}

// AllKinds lists every kind in declaration order.
var AllKinds = []Kind{Gradient, GradientHQ, Gradient3D, CellularF1, CellularF2, CellularEdge, CellularID}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// ParseKind returns the kind with the given config name.
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Signed reports whether the kind produces values in [-1, 1] rather than [0, 1].
func (k Kind) Signed() bool {
	return k == Gradient || k == GradientHQ || k == Gradient3D
}

// Periodic reports whether the kind has a periodic evaluator.
// gradient_hq rotates the domain, so no axis-aligned period survives.
func (k Kind) Periodic() bool {
	return k != GradientHQ
}

// Field is a configured noise function.
type Field struct {
	Kind      Kind
	Frequency float32 // Lattice cells per tile unit
	Seed      int32
	Period    noise.Period
	Z         float32 // Slice for Gradient3D
	OffsetX   float32 // Lattice cells
	OffsetY   float32
}

// New builds a Field from a validated config.
func New(cfg *config.Config) (*Field, error) {
	kind, err := ParseKind(cfg.Field.Kind)
	if err != nil {
		return nil, err
	}
	return &Field{
		Kind:      kind,
		Frequency: cfg.Derived.Frequency32,
		Seed:      cfg.Field.Seed,
		Period:    cfg.Derived.Period,
		Z:         cfg.Derived.Z32,
		OffsetX:   cfg.Derived.OffsetX32,
		OffsetY:   cfg.Derived.OffsetY32,
	}, nil
}

// Sample evaluates the field at tile coordinates (u, v).
func (f *Field) Sample(u, v float32) float32 {
	x := u*f.Frequency + f.OffsetX
	y := v*f.Frequency + f.OffsetY
	return f.SampleLattice(x, y)
}

// SampleLattice evaluates the field at lattice coordinates.
func (f *Field) SampleLattice(x, y float32) float32 {
	periodic := !f.Period.IsNull()

	switch f.Kind {
	case Gradient:
		if periodic {
			return noise.GradientNoisePeriodic(x, y, f.Period, f.Seed)
		}
		return noise.GradientNoise(x, y, f.Seed)
	case GradientHQ:
		return noise.GradientNoiseHQ(x, y, f.Seed)
	case Gradient3D:
		if periodic {
			return noise.GradientNoise3DPeriodic(x, y, f.Z, f.Period, f.Seed)
		}
		return noise.GradientNoise3D(x, y, f.Z, f.Seed)
	}

	var c noise.CellularResult
	if periodic {
		c = noise.CellularNoisePeriodic(x, y, f.Period, f.Seed)
	} else {
		c = noise.CellularNoise(x, y, f.Seed)
	}
	switch f.Kind {
	case CellularF1:
		return c.D0
	case CellularF2:
		return c.D1
	case CellularEdge:
		return c.D1 - c.D0
	default:
		return c.R
	}
}

// Normalize maps a sample of this field's kind to [0, 1] for display.
func (f *Field) Normalize(v float32) float32 {
	if f.Kind.Signed() {
		v = v*0.5 + 0.5
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Region is a rectangle in tile space.
type Region struct {
	X0, Y0, X1, Y1 float32
}

// UnitTile covers one tile.
var UnitTile = Region{X0: 0, Y0: 0, X1: 1, Y1: 1}

// Fill samples the unit tile into dst on the calling goroutine.
func (f *Field) Fill(dst []float32, w, h int) error {
	return f.FillRegion(dst, w, h, UnitTile)
}

// FillRegion samples pixel centers of a w x h grid covering r into dst.
func (f *Field) FillRegion(dst []float32, w, h int, r Region) error {
	if err := checkGrid(dst, w, h); err != nil {
		return err
	}
	f.fillRows(dst, w, h, r, 0, h)
	return nil
}

func checkGrid(dst []float32, w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("grid %dx%d: dimensions must be positive", w, h)
	}
	if len(dst) != w*h {
		return fmt.Errorf("grid %dx%d: buffer holds %d samples, want %d", w, h, len(dst), w*h)
	}
	return nil
}

// fillRows samples rows [y0, y1).
func (f *Field) fillRows(dst []float32, w, h int, r Region, y0, y1 int) {
	sx := (r.X1 - r.X0) / float32(w)
	sy := (r.Y1 - r.Y0) / float32(h)
	for y := y0; y < y1; y++ {
		v := r.Y0 + (float32(y)+0.5)*sy
		row := dst[y*w : (y+1)*w]
		for x := range row {
			u := r.X0 + (float32(x)+0.5)*sx
			row[x] = f.Sample(u, v)
		}
	}
}
