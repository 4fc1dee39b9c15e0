// Package tiles serves rendered noise tiles over HTTP.
//
// A tile (tx, ty) covers [tx, tx+1) x [ty, ty+1) in tile space. Tileable
// requests wrap the lattice at the frequency, so every tile is identical and
// neighbors join without seams.
package tiles

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pthm-cable/latnoise/field"
	"github.com/pthm-cable/latnoise/noise"
)

// ErrBadRequest marks request parameters that cannot be rendered.
var ErrBadRequest = errors.New("bad tile request")

// maxFrequency bounds lattice cells per tile.
const maxFrequency = 1 << 16

// Format is the encoding of a rendered tile.
type Format uint8

const (
	FormatPNG Format = iota // 8-bit grayscale, normalized to [0, 1]
	FormatRaw               // Little-endian float32 samples, row major
)

func (f Format) String() string {
	if f == FormatRaw {
		return "f32"
	}
	return "png"
}

// ContentType returns the HTTP content type of the format.
func (f Format) ContentType() string {
	if f == FormatRaw {
		return "application/octet-stream"
	}
	return "image/png"
}

// ParseFormat accepts "png" and "f32". An empty name selects PNG.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "png":
		return FormatPNG, nil
	case "f32", "raw":
		return FormatRaw, nil
	}
	return 0, fmt.Errorf("%w: unknown format %q", ErrBadRequest, s)
}

// Request identifies one tile.
type Request struct {
	Kind      field.Kind
	Seed      int32
	Frequency float32
	Tileable  bool
	TX, TY    int
	Size      int
	Format    Format
}

// Key is the cache key of the request. Equal keys render identical bytes.
func (r Request) Key() string {
	return fmt.Sprintf("tile/%s/%d/%s/%t/%d/%d/%d.%s",
		r.Kind, r.Seed, strconv.FormatFloat(float64(r.Frequency), 'g', -1, 32),
		r.Tileable, r.TX, r.TY, r.Size, r.Format)
}

// Region returns the tile-space rectangle covered by the tile.
func (r Request) Region() field.Region {
	return field.Region{
		X0: float32(r.TX),
		Y0: float32(r.TY),
		X1: float32(r.TX + 1),
		Y1: float32(r.TY + 1),
	}
}

// Field builds the noise field for the request.
func (r Request) Field() (*field.Field, error) {
	f := r.Frequency
	if !(f > 0) || f > maxFrequency || math.IsInf(float64(f), 0) {
		return nil, fmt.Errorf("%w: frequency %v outside (0, %d]", ErrBadRequest, f, maxFrequency)
	}
	fld := &field.Field{Kind: r.Kind, Frequency: f, Seed: r.Seed}
	if !r.Tileable {
		return fld, nil
	}
	if !r.Kind.Periodic() {
		return nil, fmt.Errorf("%w: %s cannot tile", ErrBadRequest, r.Kind)
	}
	p := int32(f)
	if float32(p) != f {
		return nil, fmt.Errorf("%w: tileable frequency must be an integer, got %v", ErrBadRequest, f)
	}
	period, err := noise.NewPeriod(p, p)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	fld.Period = period
	return fld, nil
}

// splitTileName parses "12" or "12.png" into the coordinate and extension.
func splitTileName(s string) (int, string, error) {
	name, ext, _ := strings.Cut(s, ".")
	v, err := strconv.Atoi(name)
	if err != nil {
		return 0, "", fmt.Errorf("%w: tile coordinate %q", ErrBadRequest, s)
	}
	return v, ext, nil
}
