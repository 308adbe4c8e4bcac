package int256

import "math/bits"

// Limbs is the raw 256-bit storage shared by Uint256 and Int256: four 64-bit
// words in little-endian order (word 0 is least significant). All 256 bits are
// always present; there is no normalized or variable-length form.
type Limbs [4]uint64

// AddLimbs returns a+b mod 2^256 and the carry out of the top limb (0 or 1).
func AddLimbs(a, b Limbs) (Limbs, uint64) {
	var z Limbs
	var carry uint64
	z[0], carry = bits.Add64(a[0], b[0], 0)
	z[1], carry = bits.Add64(a[1], b[1], carry)
	z[2], carry = bits.Add64(a[2], b[2], carry)
	z[3], carry = bits.Add64(a[3], b[3], carry)
	return z, carry
}

// SubLimbs returns a-b mod 2^256 and the borrow out of the top limb (0 or 1).
// A borrow of 1 means a < b and the difference wrapped to a-b+2^256.
func SubLimbs(a, b Limbs) (Limbs, uint64) {
	var z Limbs
	var borrow uint64
	z[0], borrow = bits.Sub64(a[0], b[0], 0)
	z[1], borrow = bits.Sub64(a[1], b[1], borrow)
	z[2], borrow = bits.Sub64(a[2], b[2], borrow)
	z[3], borrow = bits.Sub64(a[3], b[3], borrow)
	return z, borrow
}

// MulWide computes the full 512-bit product a*b as eight little-endian words
// using schoolbook limb-pair multiplication with 128-bit partial products.
func MulWide(a, b Limbs) [8]uint64 {
	var p [8]uint64
	for j := 0; j < 4; j++ {
		var carry uint64
		for i := 0; i < 4; i++ {
			carry, p[i+j] = mulStep(p[i+j], a[i], b[j], carry)
		}
		p[j+4] = carry
	}
	return p
}

// mulLow returns the low 256 bits of a*b. Partial products that land above
// word 3 are never formed.
func mulLow(a, b Limbs) Limbs {
	var z Limbs
	for j := 0; j < 4; j++ {
		var carry uint64
		for i := 0; i+j < 4; i++ {
			carry, z[i+j] = mulStep(z[i+j], a[i], b[j], carry)
		}
	}
	return z
}

// mulStep computes (hi * 2^64 + lo) = z + (x * y) + carry.
// The sum cannot exceed 2^128-1, so no carry escapes hi.
func mulStep(z, x, y, carry uint64) (hi, lo uint64) {
	hi, lo = bits.Mul64(x, y)
	lo, c := bits.Add64(lo, carry, 0)
	hi += c
	lo, c = bits.Add64(lo, z, 0)
	hi += c
	return hi, lo
}

// CmpLimbs compares a and b as unsigned values, most significant limb first.
// It returns -1 if a < b, 0 if a == b and +1 if a > b.
func CmpLimbs(a, b Limbs) int {
	for i := 3; i >= 0; i-- {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}

// ShlLimbs shifts a left by n bits, filling with zeros from the low end.
// Shifts of 256 or more yield zero.
func ShlLimbs(a Limbs, n uint) Limbs {
	var z Limbs
	if n >= 256 {
		return z
	}
	words, s := int(n/64), n%64
	for i := 3; i >= words; i-- {
		src := i - words
		z[i] = a[src] << s
		if s != 0 && src > 0 {
			z[i] |= a[src-1] >> (64 - s)
		}
	}
	return z
}

// ShrLimbs shifts a right by n bits, filling with zeros from the high end.
// Shifts of 256 or more yield zero.
func ShrLimbs(a Limbs, n uint) Limbs {
	var z Limbs
	if n >= 256 {
		return z
	}
	words, s := int(n/64), n%64
	for i := 0; i < 4-words; i++ {
		src := i + words
		z[i] = a[src] >> s
		if s != 0 && src < 3 {
			z[i] |= a[src+1] << (64 - s)
		}
	}
	return z
}

// sarLimbs is the arithmetic right shift of a read as two's complement.
// For negative a it relies on ^(^a >> n) being the sign-extended shift.
func sarLimbs(a Limbs, n uint) Limbs {
	if !isNegative(a) {
		return ShrLimbs(a, n)
	}
	return notLimbs(ShrLimbs(notLimbs(a), n))
}

func isZero(a Limbs) bool {
	return a[0]|a[1]|a[2]|a[3] == 0
}

func isNegative(a Limbs) bool {
	return a[3]>>63 == 1
}

// negLimbs returns the two's complement negation ^a + 1.
func negLimbs(a Limbs) Limbs {
	z, _ := AddLimbs(notLimbs(a), Limbs{1})
	return z
}

// absLimbs returns the magnitude of a read as two's complement. The
// magnitude of -2^255 is 2^255, which is representable as an unsigned value.
func absLimbs(a Limbs) Limbs {
	if isNegative(a) {
		return negLimbs(a)
	}
	return a
}

func notLimbs(a Limbs) Limbs {
	return Limbs{^a[0], ^a[1], ^a[2], ^a[3]}
}

func andLimbs(a, b Limbs) Limbs {
	return Limbs{a[0] & b[0], a[1] & b[1], a[2] & b[2], a[3] & b[3]}
}

func orLimbs(a, b Limbs) Limbs {
	return Limbs{a[0] | b[0], a[1] | b[1], a[2] | b[2], a[3] | b[3]}
}

func xorLimbs(a, b Limbs) Limbs {
	return Limbs{a[0] ^ b[0], a[1] ^ b[1], a[2] ^ b[2], a[3] ^ b[3]}
}

// bitLen returns the number of bits needed to represent a as unsigned.
func bitLen(a Limbs) int {
	for i := 3; i >= 0; i-- {
		if a[i] != 0 {
			return i*64 + bits.Len64(a[i])
		}
	}
	return 0
}

// bit reports whether bit i (0 = least significant) of a is set.
func bit(a Limbs, i int) bool {
	return (a[i/64]>>(uint(i)%64))&1 == 1
}

// signExtend widens a signed machine integer to 256 bits.
func signExtend(x int64) Limbs {
	if x >= 0 {
		return Limbs{uint64(x)}
	}
	fill := ^uint64(0)
	return Limbs{uint64(x), fill, fill, fill}
}
