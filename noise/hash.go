package noise

import "math"

// Hashing relies on wrapping int32 arithmetic. Overflow is the mixing step,
// not an error.

// hash2 combines two lattice coordinates into a pseudo-random 32-bit value.
func hash2(a, b int32) int32 {
	return (a*xPrime1 + b*yPrime1) * (a*xPrime2 + b*yPrime2)
}

// hash3 combines three lattice coordinates into a pseudo-random 32-bit value.
func hash3(a, b, c int32) int32 {
	return (a*xPrime1 + b*yPrime1 + c*zPrime1) * (a*xPrime2 + b*yPrime2 + c*zPrime2)
}

// lattice splits a coordinate into its floored cell and the offset within it.
func lattice(x float32) (int32, float32) {
	i := int32(x)
	if float32(i) > x {
		i--
	}
	return i, x - float32(i)
}

// gradient2 decodes the first two gradient components from a hash.
func gradient2(h int32) (gx, gy float32) {
	bits := uint32(h)&gradAndMask | gradOrMask
	return math.Float32frombits(bits), math.Float32frombits(bits << gradShift1)
}

// gradient3 decodes a full 3D gradient from a hash.
func gradient3(h int32) (gx, gy, gz float32) {
	bits := uint32(h)&gradAndMask | gradOrMask
	return math.Float32frombits(bits),
		math.Float32frombits(bits << gradShift1),
		math.Float32frombits(bits << gradShift2)
}

// jitter decodes a cell's feature point, each axis in [1, 2).
func jitter(h int32) (jx, jy float32) {
	bits := uint32(h)&worleyAndMask | worleyOrMask
	return math.Float32frombits(bits), math.Float32frombits(bits << worleyShift)
}

// portion maps a hash to [0, 1).
func portion(h int32) float32 {
	return math.Float32frombits(uint32(h)&portionAndMask|portionOrMask) - 1
}

// smoothstep is t²(3−2t).
func smoothstep(t float32) float32 {
	return t * t * (3 - 2*t)
}
