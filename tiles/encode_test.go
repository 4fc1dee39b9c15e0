package tiles

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/latnoise/field"
)

func TestEncodePNG(t *testing.T) {
	f := &field.Field{Kind: field.Gradient, Frequency: 4}
	values := []float32{-1, -0.5, 0, 1}

	data, err := Encode(values, 2, f, FormatPNG)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	gray, ok := img.(*image.Gray)
	require.True(t, ok, "expected grayscale image, got %T", img)
	assert.Equal(t, image.Rect(0, 0, 2, 2), gray.Bounds())
	assert.Equal(t, []uint8{0, 64, 128, 255}, gray.Pix)
}

func TestEncodeRawPreservesSamples(t *testing.T) {
	f := &field.Field{Kind: field.CellularF1, Frequency: 4}
	values := []float32{0, 0.125, -3.5, 1e-7}

	data, err := Encode(values, 2, f, FormatRaw)
	require.NoError(t, err)
	assert.Len(t, data, 16)

	got, err := DecodeRaw(data)
	require.NoError(t, err)
	assert.Equal(t, values, got)

	_, err = DecodeRaw(data[:5])
	assert.Error(t, err)
}

func TestEncodeRejectsWrongSize(t *testing.T) {
	f := &field.Field{Kind: field.Gradient, Frequency: 4}
	_, err := Encode(make([]float32, 3), 2, f, FormatPNG)
	assert.Error(t, err)
}
