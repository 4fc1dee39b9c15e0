package noise

// SeedPrime scales the seed before it is added to the x lattice coordinate.
// Evaluating at (x, y, seed) is the same as evaluating at (x+seed*SeedPrime, y, 0)
// whenever both coordinates are exactly representable.
const SeedPrime int32 = 1619

// Hash primes, masks and shifts shared by every evaluator.
const (
	// offset moves lattice coordinates away from zero before hashing so the
	// origin cell does not hash to zero.
	offset int32 = 1289

	xPrime1 int32 = 501125321
	yPrime1 int32 = 1136930381
	zPrime1 int32 = 1720413743
	xPrime2 int32 = 1066037191
	yPrime2 int32 = 1330863529
	zPrime2 int32 = 1917665777

	// Corner increments, pre-wrapped to int32 (Go rejects overflowing
	// constant expressions).
	xPlusYPrime1      int32 = 1638055702  // xPrime1 + yPrime1
	xPlusYPrime2      int32 = -1898066576 // xPrime2 + yPrime2
	xPlusZPrime1      int32 = -2073428232 // xPrime1 + zPrime1
	xPlusZPrime2      int32 = -1311264328 // xPrime2 + zPrime2
	yPlusZPrime1      int32 = -1437623172 // yPrime1 + zPrime1
	yPlusZPrime2      int32 = -1046437990 // yPrime2 + zPrime2
	xPlusYPlusZPrime1 int32 = -936497851  // xPrime1 + yPrime1 + zPrime1
	xPlusYPlusZPrime2 int32 = 19599201    // xPrime2 + yPrime2 + zPrime2
)

// Gradient bit layout. One masked hash yields three float32 components:
// x is the word itself, y and z are the word shifted left by gradShift1 and
// gradShift2. Each sign bit is random and each exponent field is pinned to
// 126, so every component lies in ±[0.5, 1).
//
//	bit 31      x sign      bit 21      y sign      bit 11      z sign
//	bits 30..23 x exponent  bits 20..13 y exponent  bits 10..3  z exponent
const (
	gradAndMask uint32 = 0x80601807
	gradOrMask  uint32 = 0x3F0FC3F0
	gradShift1         = 10
	gradShift2         = 20
)

// Cellular jitter layout. The masked word and the word shifted left by
// worleyShift both decode to a float32 in [1, 2).
const (
	worleyAndMask uint32 = 0x007803FF
	worleyOrMask  uint32 = 0x3F81FC00
	worleyShift          = 13
)

// Portion masks decode a hash to a float32 in [1, 2).
const (
	portionAndMask uint32 = 0x007FFFFF
	portionOrMask  uint32 = 0x3F800000
)
