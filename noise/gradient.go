// Package noise evaluates deterministic gradient and cellular noise from
// hashed lattice coordinates.
//
// Every evaluator is a pure function: no allocation, no tables, no shared
// state. Gradients and feature points are decoded straight from hash bits, so
// identical inputs always produce bit-identical outputs and all functions are
// safe for concurrent use.
package noise

// GradientNoise returns 2D gradient noise in roughly [-1, 1].
func GradientNoise(x, y float32, seed int32) float32 {
	ix, fx := lattice(x)
	iy, fy := lattice(y)

	ix += seed * SeedPrime

	ix += offset
	iy += offset
	p1 := ix*xPrime1 + iy*yPrime1
	p2 := ix*xPrime2 + iy*yPrime2
	llHash := p1 * p2
	lrHash := (p1 + xPrime1) * (p2 + xPrime2)
	ulHash := (p1 + yPrime1) * (p2 + yPrime2)
	urHash := (p1 + xPlusYPrime1) * (p2 + xPlusYPrime2)
	return interpolateGradients2D(llHash, lrHash, ulHash, urHash, fx, fy)
}

// GradientNoisePeriodic is GradientNoise wrapped on the axes enabled in period.
func GradientNoisePeriodic(x, y float32, period Period, seed int32) float32 {
	ix, fx := lattice(x)
	iy, fy := lattice(y)

	ix += seed * SeedPrime

	x0, x1 := wrap(ix, period.x)
	y0, y1 := wrap(iy, period.y)
	x0 += offset
	x1 += offset
	y0 += offset
	y1 += offset
	return interpolateGradients2D(
		hash2(x0, y0), hash2(x1, y0),
		hash2(x0, y1), hash2(x1, y1),
		fx, fy)
}

// GradientNoiseHQ returns a rotated slice of 3D gradient noise. It costs more
// than GradientNoise but hides the square lattice.
func GradientNoiseHQ(x, y float32, seed int32) float32 {
	// Calibrated rotation; treat the constants as opaque.
	xz := x
	s2 := xz * -0.21132487
	yy := y * 0.5773502692
	x += s2 + yy
	z := s2 + yy
	y = xz*-0.57735027 + yy
	return GradientNoise3D(x, y, z, seed)
}

// GradientNoise3D returns 3D gradient noise in roughly [-1, 1].
func GradientNoise3D(x, y, z float32, seed int32) float32 {
	ix, fx := lattice(x)
	iy, fy := lattice(y)
	iz, fz := lattice(z)

	ix += seed * SeedPrime

	ix += offset
	iy += offset
	iz += offset
	p1 := ix*xPrime1 + iy*yPrime1 + iz*zPrime1
	p2 := ix*xPrime2 + iy*yPrime2 + iz*zPrime2
	llHash := p1 * p2
	lrHash := (p1 + xPrime1) * (p2 + xPrime2)
	ulHash := (p1 + yPrime1) * (p2 + yPrime2)
	urHash := (p1 + xPlusYPrime1) * (p2 + xPlusYPrime2)
	zLowBlend := interpolateGradients3D(llHash, lrHash, ulHash, urHash, fx, fy, fz)
	llHash = (p1 + zPrime1) * (p2 + zPrime2)
	lrHash = (p1 + xPlusZPrime1) * (p2 + xPlusZPrime2)
	ulHash = (p1 + yPlusZPrime1) * (p2 + yPlusZPrime2)
	urHash = (p1 + xPlusYPlusZPrime1) * (p2 + xPlusYPlusZPrime2)
	zHighBlend := interpolateGradients3D(llHash, lrHash, ulHash, urHash, fx, fy, fz-1)
	sz := smoothstep(fz)
	return zLowBlend + (zHighBlend-zLowBlend)*sz
}

// GradientNoise3DPeriodic is GradientNoise3D wrapped on the axes enabled in period.
func GradientNoise3DPeriodic(x, y, z float32, period Period, seed int32) float32 {
	ix, fx := lattice(x)
	iy, fy := lattice(y)
	iz, fz := lattice(z)

	ix += seed * SeedPrime

	x0, x1 := wrap(ix, period.x)
	y0, y1 := wrap(iy, period.y)
	z0, z1 := wrap(iz, period.z)
	x0 += offset
	x1 += offset
	y0 += offset
	y1 += offset
	z0 += offset
	z1 += offset
	zLowBlend := interpolateGradients3D(
		hash3(x0, y0, z0), hash3(x1, y0, z0),
		hash3(x0, y1, z0), hash3(x1, y1, z0),
		fx, fy, fz)
	zHighBlend := interpolateGradients3D(
		hash3(x0, y0, z1), hash3(x1, y0, z1),
		hash3(x0, y1, z1), hash3(x1, y1, z1),
		fx, fy, fz-1)
	sz := smoothstep(fz)
	return zLowBlend + (zHighBlend-zLowBlend)*sz
}

// interpolateGradients2D dots each corner gradient with the offset from that
// corner and blends the four results.
func interpolateGradients2D(llHash, lrHash, ulHash, urHash int32, fx, fy float32) float32 {
	gx, gy := gradient2(llHash)
	llGrad := fx*gx + fy*gy
	gx, gy = gradient2(lrHash)
	lrGrad := (fx-1)*gx + fy*gy
	gx, gy = gradient2(ulHash)
	ulGrad := fx*gx + (fy-1)*gy
	gx, gy = gradient2(urHash)
	urGrad := (fx-1)*gx + (fy-1)*gy

	sx := smoothstep(fx)
	sy := smoothstep(fy)
	lowerBlend := llGrad + (lrGrad-llGrad)*sx
	upperBlend := ulGrad + (urGrad-ulGrad)*sx
	return lowerBlend + (upperBlend-lowerBlend)*sy
}

// interpolateGradients3D blends one z-layer of four corners. fz is the offset
// from that layer.
func interpolateGradients3D(llHash, lrHash, ulHash, urHash int32, fx, fy, fz float32) float32 {
	gx, gy, gz := gradient3(llHash)
	llGrad := fx*gx + fy*gy + fz*gz
	gx, gy, gz = gradient3(lrHash)
	lrGrad := (fx-1)*gx + fy*gy + fz*gz
	gx, gy, gz = gradient3(ulHash)
	ulGrad := fx*gx + (fy-1)*gy + fz*gz
	gx, gy, gz = gradient3(urHash)
	urGrad := (fx-1)*gx + (fy-1)*gy + fz*gz

	sx := smoothstep(fx)
	sy := smoothstep(fy)
	lowerBlend := llGrad + (lrGrad-llGrad)*sx
	upperBlend := ulGrad + (urGrad-ulGrad)*sx
	return lowerBlend + (upperBlend-lowerBlend)*sy
}
