package tiles

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/pthm-cable/latnoise/field"
)

// Encode serializes a size x size grid of samples from f.
func Encode(values []float32, size int, f *field.Field, format Format) ([]byte, error) {
	if len(values) != size*size {
		return nil, fmt.Errorf("encoding %dx%d tile: got %d samples", size, size, len(values))
	}
	if format == FormatRaw {
		return encodeRaw(values), nil
	}

	img := image.NewGray(image.Rect(0, 0, size, size))
	for i, v := range values {
		img.Pix[i] = uint8(f.Normalize(v)*255 + 0.5)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), nil
}

func encodeRaw(values []float32) []byte {
	out := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(out[4*i:], math.Float32bits(v))
	}
	return out
}

// DecodeRaw is the inverse of the f32 encoding.
func DecodeRaw(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("decoding f32 tile: %d bytes is not a multiple of 4", len(data))
	}
	out := make([]float32, len(data)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[4*i:]))
	}
	return out, nil
}
