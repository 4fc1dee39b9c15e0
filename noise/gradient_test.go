package noise

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

// samplePoint spreads n sample points over a few hundred cells.
func samplePoint(i int) (x, y, z float32) {
	f := float32(i)
	return f*0.37 - 500, f*0.73 + 100, f * 0.11
}

func TestGradientNoiseKnownValues(t *testing.T) {
	tests := []struct {
		name string
		x, y float32
		seed int32
		want float32
	}{
		{"cell center", 0.5, 0.5, 0, 0.0156555474},
		{"negative y", 1.25, -2.75, 0, 0.0640338659},
		{"negative x", -7.125, 4.0625, 0, -0.150609508},
		{"seeded", 0.5, 0.5, 7, -0.202972174},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, GradientNoise(tt.x, tt.y, tt.seed), 1e-6)
		})
	}
}

func TestGradientNoise3DKnownValues(t *testing.T) {
	tests := []struct {
		name    string
		x, y, z float32
		seed    int32
		want    float32
	}{
		{"cell center", 0.5, 0.5, 0.5, 0, -0.0390472114},
		{"mixed signs", 1.25, -2.75, 3.5, 0, 0.04766801},
		{"z layer zero", -7.125, 4.0625, 0, 0, -0.128921643},
		{"seeded", 0.5, 0.5, 0.5, 7, -0.148185641},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, GradientNoise3D(tt.x, tt.y, tt.z, tt.seed), 1e-6)
		})
	}
}

func TestGradientNoiseHQKnownValues(t *testing.T) {
	assert.InDelta(t, -0.0724285617, GradientNoiseHQ(0.5, 0.5, 0), 1e-5)
	assert.InDelta(t, -0.42407757, GradientNoiseHQ(1.25, -2.75, 0), 1e-5)
	assert.InDelta(t, -0.268588424, GradientNoiseHQ(-7.125, 4.0625, 0), 1e-5)
}

func TestGradientNoiseDeterministic(t *testing.T) {
	for i := 0; i < 200; i++ {
		x, y, z := samplePoint(i)
		require.Equal(t, GradientNoise(x, y, 3), GradientNoise(x, y, 3))
		require.Equal(t, GradientNoise3D(x, y, z, 3), GradientNoise3D(x, y, z, 3))
		require.Equal(t, GradientNoiseHQ(x, y, 3), GradientNoiseHQ(x, y, 3))
	}
}

func TestGradientNoiseZeroAtLatticePoints(t *testing.T) {
	for _, c := range [][2]float32{{0, 0}, {3, -4}, {-17, 250}} {
		assert.Zero(t, GradientNoise(c[0], c[1], 0), "at %v", c)
		assert.Zero(t, GradientNoise3D(c[0], c[1], 5, 0), "at %v", c)
	}
}

func TestGradientNoiseRange(t *testing.T) {
	for i := 0; i < 4000; i++ {
		x, y, z := samplePoint(i)
		require.InDelta(t, 0, GradientNoise(x, y, 0), 1, "2D at (%v, %v)", x, y)
		require.InDelta(t, 0, GradientNoise3D(x, y, z, 0), 1, "3D at (%v, %v, %v)", x, y, z)
		require.InDelta(t, 0, GradientNoiseHQ(x, y, 0), 1, "HQ at (%v, %v)", x, y)
	}
}

func TestGradientNoiseContinuousAcrossCells(t *testing.T) {
	const eps = float32(1.0 / 1024)
	for k := float32(-20); k <= 20; k++ {
		for _, y := range []float32{0.3, 1.7} {
			fns := map[string]func(float32) float32{
				"2D":       func(x float32) float32 { return GradientNoise(x, y, 0) },
				"3D x":     func(x float32) float32 { return GradientNoise3D(x, y, 0.4, 0) },
				"3D z":     func(z float32) float32 { return GradientNoise3D(y, 0.4, z, 0) },
				"HQ":       func(x float32) float32 { return GradientNoiseHQ(x, y, 0) },
				"seeded 2": func(x float32) float32 { return GradientNoise(x, y, 9) },
			}
			for name, f := range fns {
				left, mid, right := f(k-eps), f(k), f(k+eps)
				assert.InDelta(t, mid, left, 0.01, "%s value jump below %v", name, k)
				assert.InDelta(t, mid, right, 0.01, "%s value jump above %v", name, k)
				// Smoothstep has zero slope at the boundary, so one-sided
				// slopes agree too.
				assert.InDelta(t, (mid-left)/eps, (right-mid)/eps, 0.05, "%s slope jump at %v", name, k)
			}
		}
	}
}

func TestGradientNoiseSeedTranslatesX(t *testing.T) {
	for _, seed := range []int32{1, 7, -3} {
		shift := float32(seed * SeedPrime)
		for _, p := range [][2]float32{{0.5, 0.5}, {2.25, -1.75}, {-3.125, 6.5}} {
			assert.Equal(t, GradientNoise(p[0]+shift, p[1], 0), GradientNoise(p[0], p[1], seed))
			assert.Equal(t, GradientNoise3D(p[0]+shift, p[1], 0.75, 0), GradientNoise3D(p[0], p[1], 0.75, seed))
		}
	}
}

func TestGradientNoiseSeedsUncorrelated(t *testing.T) {
	const n = 4000
	type eval func(x, y, z float32, seed int32) float32
	evals := map[string]eval{
		"2D": func(x, y, _ float32, s int32) float32 { return GradientNoise(x, y, s) },
		"3D": GradientNoise3D,
		"HQ": func(x, y, _ float32, s int32) float32 { return GradientNoiseHQ(x, y, s) },
	}
	for name, f := range evals {
		a := make([]float64, n)
		b := make([]float64, n)
		for i := 0; i < n; i++ {
			x, y, z := samplePoint(i)
			a[i] = float64(f(x, y, z, 0))
			b[i] = float64(f(x, y, z, 1))
		}
		corr := stat.Correlation(a, b, nil)
		assert.Less(t, math.Abs(corr), 0.25, "%s seed correlation", name)
	}
}

func TestGradientNoisePeriodicTiles(t *testing.T) {
	for _, n := range []int32{2, 3, 5, 8, 10, 100} {
		p, err := NewPeriod3D(n, n, n)
		require.NoError(t, err)
		pf := float32(n)
		for _, seed := range []int32{0, 7} {
			for i := -8; i < 24; i++ {
				x := float32(i) / 4
				for _, y := range []float32{0.125, 1.625, 3.375} {
					v := GradientNoisePeriodic(x, y, p, seed)
					require.Equal(t, v, GradientNoisePeriodic(x+pf, y, p, seed), "x tile, period %d", n)
					require.Equal(t, v, GradientNoisePeriodic(x, y+pf, p, seed), "y tile, period %d", n)
					require.Equal(t, v, GradientNoisePeriodic(x-pf, y-pf, p, seed), "diagonal tile, period %d", n)

					w := GradientNoise3DPeriodic(x, y, 0.375, p, seed)
					require.Equal(t, w, GradientNoise3DPeriodic(x+pf, y, 0.375, p, seed))
					require.Equal(t, w, GradientNoise3DPeriodic(x, y, 0.375+pf, p, seed))
				}
			}
		}
	}
}

func TestGradientNoisePeriodicTilesLargePeriods(t *testing.T) {
	for _, n := range []int32{46508, 65535, 1 << 16} {
		p, err := NewPeriod3D(n, n, n)
		require.NoError(t, err)
		pf := float32(n)
		for _, seed := range []int32{0, 7} {
			for i := -8; i < 24; i++ {
				x := float32(i)/4 + 0.125
				v := GradientNoisePeriodic(x, 0.5, p, seed)
				require.Equal(t, v, GradientNoisePeriodic(x+pf, 0.5, p, seed), "x tile, period %d", n)
				require.Equal(t, v, GradientNoisePeriodic(x, 0.5-pf, p, seed), "y tile, period %d", n)
				require.Equal(t, GradientNoise3DPeriodic(x, 0.5, 1.25, p, seed),
					GradientNoise3DPeriodic(x, 0.5, 1.25+pf, p, seed), "z tile, period %d", n)
			}
		}
	}
}

func TestGradientNoisePeriodicSingleAxis(t *testing.T) {
	p, err := NewPeriod(4, 0)
	require.NoError(t, err)
	for i := 0; i < 16; i++ {
		x := float32(i)/4 + 0.0625
		assert.Equal(t, GradientNoisePeriodic(x, 2.5, p, 0), GradientNoisePeriodic(x+4, 2.5, p, 0))
	}
	// y is unwrapped, so shifting by the x period changes the value.
	assert.NotEqual(t, GradientNoisePeriodic(0.5, 0.5, p, 0), GradientNoisePeriodic(0.5, 4.5, p, 0))
}

func TestGradientNoisePeriodicZeroMatchesAperiodic(t *testing.T) {
	for i := 0; i < 500; i++ {
		x, y, z := samplePoint(i)
		require.Equal(t, GradientNoise(x, y, 2), GradientNoisePeriodic(x, y, NoPeriod, 2))
		require.Equal(t, GradientNoise3D(x, y, z, 2), GradientNoise3DPeriodic(x, y, z, NoPeriod, 2))
	}
}

func TestGradientNoisePeriodicMatchesInsideFirstTile(t *testing.T) {
	p, err := NewPeriod3D(4, 6, 3)
	require.NoError(t, err)
	// Cells whose upper neighbor is still inside the tile hash the same
	// coordinates as the aperiodic evaluator.
	for _, c := range [][3]float32{{0.5, 0.5, 0.5}, {2.25, 4.75, 1.125}, {1, 3, 0}} {
		assert.Equal(t, GradientNoise(c[0], c[1], 0), GradientNoisePeriodic(c[0], c[1], p, 0))
		assert.Equal(t, GradientNoise3D(c[0], c[1], c[2], 0), GradientNoise3DPeriodic(c[0], c[1], c[2], p, 0))
	}
}

func TestGradientNoiseNonFiniteInput(t *testing.T) {
	nan := float32(math.NaN())
	assert.True(t, math.IsNaN(float64(GradientNoise(nan, 0.5, 0))))
	assert.True(t, math.IsNaN(float64(GradientNoise3D(0.5, nan, 0.5, 0))))

	inf := float32(math.Inf(1))
	v := float64(GradientNoise(inf, 0.5, 0))
	assert.True(t, math.IsNaN(v) || math.IsInf(v, 0), "got %v", v)
}
