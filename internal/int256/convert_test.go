package int256

import (
	"encoding/json"
	"errors"
	"math/big"
	"strings"
	"testing"

	apperrors "github.com/agbru/wideint/internal/errors"
)

func TestFromBigWraps(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		in        *big.Int
		wantU     string
		wantS     string
		overflowU bool
		overflowS bool
	}{
		{"zero", big.NewInt(0), "0", "0", false, false},
		{"minus one", big.NewInt(-1), maxUint.String(), "-1", true, false},
		{"2^255", new(big.Int).Set(two255), two255.String(), minSigned.String(), false, true},
		{"-2^255", new(big.Int).Set(minSigned), two255.String(), minSigned.String(), true, false},
		{"2^256", new(big.Int).Set(two256), "0", "0", true, true},
		{"2^256 + 5", new(big.Int).Add(two256, big.NewInt(5)), "5", "5", true, true},
		{"-(2^256 + 5)", new(big.Int).Neg(new(big.Int).Add(two256, big.NewInt(5))), new(big.Int).Sub(two256, big.NewInt(5)).String(), "-5", true, true},
		{"-2^255 - 1", new(big.Int).Sub(minSigned, big.NewInt(1)), new(big.Int).Sub(two255, big.NewInt(1)).String(), new(big.Int).Sub(two255, big.NewInt(1)).String(), true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			u, overflowU := Uint256FromBig(tt.in)
			s, overflowS := Int256FromBig(tt.in)
			if u.String() != tt.wantU || overflowU != tt.overflowU {
				t.Errorf("Uint256FromBig = %s, %v; want %s, %v", u, overflowU, tt.wantU, tt.overflowU)
			}
			if s.String() != tt.wantS || overflowS != tt.overflowS {
				t.Errorf("Int256FromBig = %s, %v; want %s, %v", s, overflowS, tt.wantS, tt.overflowS)
			}
			if u.Limbs() != s.Limbs() {
				t.Error("both conversions must produce the same bit pattern")
			}
		})
	}
}

func TestToBigDoesNotAlias(t *testing.T) {
	t.Parallel()
	x := NewUint256(7)
	b := x.ToBig()
	b.SetInt64(99)
	if x != NewUint256(7) {
		t.Error("mutating the big.Int must not affect the value")
	}
}

func TestDecimalString(t *testing.T) {
	t.Parallel()
	var u Uint256
	var i Int256
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"zero", u.Zero().String(), "0"},
		{"signed zero", i.Zero().String(), "0"},
		{"one chunk", NewUint256(1234567890123456789).String(), "1234567890123456789"},
		{"chunk boundary", NewUint256(10_000_000_000_000_000_000).String(), "10000000000000000000"},
		{"interior zeros", mustParse(t, "100000000000000000000000000000000000001").String(), "100000000000000000000000000000000000001"},
		{"max", u.Max().String(), "115792089237316195423570985008687907853269984665640564039457584007913129639935"},
		{"signed min", i.Min().String(), "-57896044618658097711785492504343953926634992332820282019728792003956564819968"},
		{"signed max", i.Max().String(), "57896044618658097711785492504343953926634992332820282019728792003956564819967"},
		{"minus one", NewInt256(-1).String(), "-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.got != tt.want {
				t.Errorf("got %s, want %s", tt.got, tt.want)
			}
		})
	}
}

func mustParse(t *testing.T, s string) Uint256 {
	t.Helper()
	x, err := ParseUint256(s)
	if err != nil {
		t.Fatal(err)
	}
	return x
}

func TestHex(t *testing.T) {
	t.Parallel()
	var u Uint256
	tests := []struct {
		got, want string
	}{
		{u.Zero().Hex(), "0x0"},
		{NewUint256(255).Hex(), "0xff"},
		{Uint256{0, 1}.Hex(), "0x10000000000000000"},
		{Uint256{0xabc, 0, 0, 1}.Hex(), "0x1" + strings.Repeat("0", 45) + "abc"},
		{u.Max().Hex(), "0x" + strings.Repeat("f", 64)},
		{NewInt256(-255).Hex(), "-0xff"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %s, want %s", tt.got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		in      string
		signed  bool
		want    string
		wantErr bool
	}{
		{"decimal", "12345", false, "12345", false},
		{"hex", "0xff", false, "255", false},
		{"hex upper prefix", "0XFF", false, "255", false},
		{"max", maxUint.String(), false, maxUint.String(), false},
		{"too large", two256.String(), false, "", true},
		{"negative unsigned", "-1", false, "", true},
		{"empty", "", false, "", true},
		{"garbage", "12a", false, "", true},
		{"bare prefix", "0x", false, "", true},
		{"signed negative", "-42", true, "-42", false},
		{"signed plus", "+42", true, "42", false},
		{"signed hex", "-0x10", true, "-16", false},
		{"signed min", minSigned.String(), true, minSigned.String(), false},
		{"signed too small", new(big.Int).Sub(minSigned, big.NewInt(1)).String(), true, "", true},
		{"signed too large", two255.String(), true, "", true},
		{"double sign", "--1", true, "", true},
		{"octal prefix is decimal", "010", false, "10", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var got string
			var err error
			if tt.signed {
				var x Int256
				x, err = ParseInt256(tt.in)
				got = x.String()
			} else {
				var x Uint256
				x, err = ParseUint256(tt.in)
				got = x.String()
			}
			if tt.wantErr {
				var validationErr apperrors.ValidationError
				if !errors.As(err, &validationErr) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestBytes32RoundTrip(t *testing.T) {
	t.Parallel()
	x := Uint256{0x0102030405060708, 0x1112131415161718, 0x2122232425262728, 0x3132333435363738}
	b := x.Bytes32()
	if b[0] != 0x31 || b[31] != 0x08 {
		t.Errorf("Bytes32 is not big-endian: %x", b)
	}
	if Uint256FromBytes(b[:]) != x {
		t.Error("Uint256FromBytes(Bytes32(x)) != x")
	}
	if Uint256FromBytes([]byte{0x01, 0x00}) != NewUint256(256) {
		t.Error("short input should be left-padded")
	}
	long := append([]byte{0xff}, b[:]...)
	if Uint256FromBytes(long) != x {
		t.Error("long input should keep the low 32 bytes")
	}
}

func TestTextMarshaling(t *testing.T) {
	t.Parallel()
	type payload struct {
		U Uint256 `json:"u"`
		S Int256  `json:"s"`
	}
	in := payload{U: Uint256{}.Max(), S: NewInt256(-17)}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"u":"` + maxUint.String() + `","s":"-17"}`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}
	var out payload
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out != in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
	if err := json.Unmarshal([]byte(`{"u":"-3"}`), &out); err == nil {
		t.Error("negative text should not unmarshal into Uint256")
	}
}
