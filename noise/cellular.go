package noise

import "math"

// CellularResult holds the outcome of a cellular noise evaluation.
type CellularResult struct {
	// D0 is the distance to the closest feature point.
	D0 float32
	// D1 is the distance to the second-closest feature point.
	D1 float32
	// R is a random value in [0, 1) identifying the closest cell.
	R float32
}

// CellularNoise returns Worley noise: the distances to the two nearest jittered
// cell points and an identifier for the nearest cell. Distances saturate at 1.
func CellularNoise(x, y float32, seed int32) CellularResult {
	ix, fx := lattice(x)
	iy, fy := lattice(y)

	ix += seed * SeedPrime

	ix += offset
	iy += offset
	p1 := ix*xPrime1 + iy*yPrime1
	p2 := ix*xPrime2 + iy*yPrime2

	// rows: lower/center/upper, columns: left/center/right
	return searchNeighborhood(fx, fy,
		(p1-xPlusYPrime1)*(p2-xPlusYPrime2), (p1-yPrime1)*(p2-yPrime2), (p1+xPrime1-yPrime1)*(p2+xPrime2-yPrime2),
		(p1-xPrime1)*(p2-xPrime2), p1*p2, (p1+xPrime1)*(p2+xPrime2),
		(p1-xPrime1+yPrime1)*(p2-xPrime2+yPrime2), (p1+yPrime1)*(p2+yPrime2), (p1+xPlusYPrime1)*(p2+xPlusYPrime2))
}

// CellularNoisePeriodic is CellularNoise wrapped on the axes enabled in period.
func CellularNoisePeriodic(x, y float32, period Period, seed int32) CellularResult {
	ix, fx := lattice(x)
	iy, fy := lattice(y)

	ix += seed * SeedPrime

	// l: left/lower c: center r: right u: upper
	lx, cx, rx := wrap3(ix, period.x)
	ly, cy, uy := wrap3(iy, period.y)
	lx += offset
	cx += offset
	rx += offset
	ly += offset
	cy += offset
	uy += offset

	return searchNeighborhood(fx, fy,
		hash2(lx, ly), hash2(cx, ly), hash2(rx, ly),
		hash2(lx, cy), hash2(cx, cy), hash2(rx, cy),
		hash2(lx, uy), hash2(cx, uy), hash2(rx, uy))
}

// searchNeighborhood scans the 3x3 cells around the sample, bottom row to top
// row and left to right, keeping the two smallest squared distances. Ties keep
// the earlier cell.
func searchNeighborhood(fx, fy float32, llh, lch, lrh, clh, cch, crh, ulh, uch, urh int32) CellularResult {
	var (
		dx, dy, sqDist, temp float32
		jx, jy               float32
	)
	r := int32(0)
	d0, d1 := float32(1), float32(1)

	// Jitter decodes to [1, 2), so the column offsets are 2, 1, 0 instead of
	// -1, 0, 1 and fy starts two rows up.
	fy += 2

	// bottom row
	jx, jy = jitter(llh)
	dx = fx - jx + 2
	dy = fy - jy
	sqDist = dx*dx + dy*dy
	r = pick(sqDist < d0, llh, r)
	d1 = minf(sqDist, d1)
	temp = maxf(d0, d1)
	d0 = minf(d0, d1)
	d1 = temp

	jx, jy = jitter(lch)
	dx = fx - jx + 1
	dy = fy - jy
	sqDist = dx*dx + dy*dy
	r = pick(sqDist < d0, lch, r)
	d1 = minf(sqDist, d1)
	temp = maxf(d0, d1)
	d0 = minf(d0, d1)
	d1 = temp

	jx, jy = jitter(lrh)
	dx = fx - jx
	dy = fy - jy
	sqDist = dx*dx + dy*dy
	r = pick(sqDist < d0, lrh, r)
	d1 = minf(sqDist, d1)
	temp = maxf(d0, d1)
	d0 = minf(d0, d1)
	d1 = temp

	fy--

	// middle row
	jx, jy = jitter(clh)
	dx = fx - jx + 2
	dy = fy - jy
	sqDist = dx*dx + dy*dy
	r = pick(sqDist < d0, clh, r)
	d1 = minf(sqDist, d1)
	temp = maxf(d0, d1)
	d0 = minf(d0, d1)
	d1 = temp

	jx, jy = jitter(cch)
	dx = fx - jx + 1
	dy = fy - jy
	sqDist = dx*dx + dy*dy
	r = pick(sqDist < d0, cch, r)
	d1 = minf(sqDist, d1)
	temp = maxf(d0, d1)
	d0 = minf(d0, d1)
	d1 = temp

	jx, jy = jitter(crh)
	dx = fx - jx
	dy = fy - jy
	sqDist = dx*dx + dy*dy
	r = pick(sqDist < d0, crh, r)
	d1 = minf(sqDist, d1)
	temp = maxf(d0, d1)
	d0 = minf(d0, d1)
	d1 = temp

	fy--

	// top row
	jx, jy = jitter(ulh)
	dx = fx - jx + 2
	dy = fy - jy
	sqDist = dx*dx + dy*dy
	r = pick(sqDist < d0, ulh, r)
	d1 = minf(sqDist, d1)
	temp = maxf(d0, d1)
	d0 = minf(d0, d1)
	d1 = temp

	jx, jy = jitter(uch)
	dx = fx - jx + 1
	dy = fy - jy
	sqDist = dx*dx + dy*dy
	r = pick(sqDist < d0, uch, r)
	d1 = minf(sqDist, d1)
	temp = maxf(d0, d1)
	d0 = minf(d0, d1)
	d1 = temp

	jx, jy = jitter(urh)
	dx = fx - jx
	dy = fy - jy
	sqDist = dx*dx + dy*dy
	r = pick(sqDist < d0, urh, r)
	d1 = minf(sqDist, d1)
	temp = maxf(d0, d1)
	d0 = minf(d0, d1)
	d1 = temp

	return CellularResult{
		D0: float32(math.Sqrt(float64(d0))),
		D1: float32(math.Sqrt(float64(d1))),
		R:  portion(r * zPrime1),
	}
}

// pick, minf and maxf keep the exact ternary semantics of the reduction: a
// NaN distance never replaces a slot. The builtin min and max propagate NaN.

func pick(cond bool, a, b int32) int32 {
	if cond {
		return a
	}
	return b
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
