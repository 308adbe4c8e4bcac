package int256

import (
	"encoding/binary"
	"math/big"
	"math/bits"
	"strconv"
	"strings"

	apperrors "github.com/agbru/wideint/internal/errors"
)

// maxDecimalDigits is the length of the decimal form of 2^256 - 1.
const maxDecimalDigits = 78

// Uint256FromBig reduces b modulo 2^256. Negative inputs become their two's
// complement. The boolean reports whether b was outside [0, 2^256).
func Uint256FromBig(b *big.Int) (Uint256, bool) {
	z := limbsFromBig(b)
	overflow := b.Sign() < 0 || b.BitLen() > 256
	return Uint256(z), overflow
}

// Int256FromBig reduces b to 32-byte two's complement. The boolean reports
// whether b was outside [-2^255, 2^255).
func Int256FromBig(b *big.Int) (Int256, bool) {
	z := limbsFromBig(b)
	n := b.BitLen()
	var overflow bool
	if b.Sign() >= 0 {
		overflow = n > 255
	} else {
		// -2^255 is the only 256-bit magnitude that fits.
		overflow = n > 256 || (n == 256 && b.TrailingZeroBits() != 255)
	}
	return Int256(z), overflow
}

// limbsFromBig keeps the low 256 bits of |b| and negates them for negative b.
func limbsFromBig(b *big.Int) Limbs {
	var z Limbs
	words := b.Bits()
	if bits.UintSize == 64 {
		for i := 0; i < len(words) && i < 4; i++ {
			z[i] = uint64(words[i])
		}
	} else {
		for i := 0; i < len(words) && i < 8; i++ {
			z[i/2] |= uint64(words[i]) << (32 * uint(i%2))
		}
	}
	if b.Sign() < 0 {
		z = negLimbs(z)
	}
	return z
}

func limbsToBig(l Limbs) *big.Int {
	b := Uint256(l).Bytes32()
	return new(big.Int).SetBytes(b[:])
}

// decimalString renders l as an unsigned decimal. Limbs are peeled off in
// chunks of 10^19, the largest power of ten that fits a word.
func decimalString(l Limbs) string {
	if isZero(l) {
		return "0"
	}
	const chunk = 10_000_000_000_000_000_000
	var buf [maxDecimalDigits]byte
	pos := len(buf)
	for !isZero(l) {
		var r uint64
		l, r = divWord(l, chunk)
		for i := 0; i < 19; i++ {
			if isZero(l) && r == 0 {
				break
			}
			pos--
			buf[pos] = byte('0' + r%10)
			r /= 10
		}
	}
	return string(buf[pos:])
}

func hexString(l Limbs) string {
	if isZero(l) {
		return "0x0"
	}
	var sb strings.Builder
	sb.WriteString("0x")
	i := 3
	for l[i] == 0 {
		i--
	}
	sb.WriteString(strconv.FormatUint(l[i], 16))
	for i--; i >= 0; i-- {
		s := strconv.FormatUint(l[i], 16)
		sb.WriteString(strings.Repeat("0", 16-len(s)))
		sb.WriteString(s)
	}
	return sb.String()
}

// Bytes32 returns the 32-byte big-endian encoding of x.
func (x Uint256) Bytes32() [32]byte {
	var b [32]byte
	binary.BigEndian.PutUint64(b[0:8], x[3])
	binary.BigEndian.PutUint64(b[8:16], x[2])
	binary.BigEndian.PutUint64(b[16:24], x[1])
	binary.BigEndian.PutUint64(b[24:32], x[0])
	return b
}

// Uint256FromBytes interprets b as a big-endian unsigned integer. Inputs
// longer than 32 bytes keep their low-order 32 bytes.
func Uint256FromBytes(b []byte) Uint256 {
	if len(b) > 32 {
		b = b[len(b)-32:]
	}
	var buf [32]byte
	copy(buf[32-len(b):], b)
	return Uint256{
		binary.BigEndian.Uint64(buf[24:32]),
		binary.BigEndian.Uint64(buf[16:24]),
		binary.BigEndian.Uint64(buf[8:16]),
		binary.BigEndian.Uint64(buf[0:8]),
	}
}

// parseMagnitude parses an unsigned decimal or 0x-prefixed hexadecimal
// string into a big.Int.
func parseMagnitude(field, s string) (*big.Int, error) {
	if s == "" {
		return nil, apperrors.ValidationError{Field: field, Message: "empty number"}
	}
	base := 10
	digits := s
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		base = 16
		digits = s[2:]
	}
	if digits == "" || digits[0] == '+' || digits[0] == '-' {
		return nil, apperrors.ValidationError{Field: field, Message: "invalid number " + strconv.Quote(s)}
	}
	b, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return nil, apperrors.ValidationError{Field: field, Message: "invalid number " + strconv.Quote(s)}
	}
	return b, nil
}

// ParseUint256 parses a decimal or 0x-prefixed hexadecimal string. Unlike
// Uint256FromBig it rejects values outside [0, 2^256) instead of wrapping.
func ParseUint256(s string) (Uint256, error) {
	b, err := parseMagnitude("uint256", s)
	if err != nil {
		return Uint256{}, err
	}
	z, overflow := Uint256FromBig(b)
	if overflow {
		return Uint256{}, apperrors.ValidationError{Field: "uint256", Message: "value " + s + " exceeds 256 bits"}
	}
	return z, nil
}

// ParseInt256 parses an optionally signed decimal or 0x-prefixed hexadecimal
// string. Values outside [-2^255, 2^255) are rejected.
func ParseInt256(s string) (Int256, error) {
	neg := false
	digits := s
	if digits != "" && (digits[0] == '-' || digits[0] == '+') {
		neg = digits[0] == '-'
		digits = digits[1:]
	}
	b, err := parseMagnitude("int256", digits)
	if err != nil {
		return Int256{}, err
	}
	if neg {
		b.Neg(b)
	}
	z, overflow := Int256FromBig(b)
	if overflow {
		return Int256{}, apperrors.ValidationError{Field: "int256", Message: "value " + s + " is outside the signed 256-bit range"}
	}
	return z, nil
}

// MarshalText implements encoding.TextMarshaler with the decimal form.
func (x Uint256) MarshalText() ([]byte, error) {
	return []byte(x.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (x *Uint256) UnmarshalText(text []byte) error {
	z, err := ParseUint256(string(text))
	if err != nil {
		return err
	}
	*x = z
	return nil
}

// MarshalText implements encoding.TextMarshaler with the signed decimal form.
func (x Int256) MarshalText() ([]byte, error) {
	return []byte(x.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (x *Int256) UnmarshalText(text []byte) error {
	z, err := ParseInt256(string(text))
	if err != nil {
		return err
	}
	*x = z
	return nil
}
