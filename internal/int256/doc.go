// Package int256 implements fixed-width 256-bit integer arithmetic.
//
// Two value types share one storage layout, Limbs (four little-endian 64-bit
// words):
//
//   - Uint256 covers [0, 2^256).
//   - Int256 covers [-2^255, 2^255) in two's complement.
//
// Add, Subtract, Multiply and Exp wrap modulo 2^256 and never fail. Division
// and modular operations return an apperrors.DomainError wrapping
// ErrDivisionByZero when the divisor or modulus is zero, so a zero result is
// never confused with an invalid input. Shift amounts are machine integers;
// negative amounts are rejected with ErrNegativeShift.
//
// Signed division truncates toward zero and Min / -1 wraps to Min. Signed
// AddMod, SubtractMod and MultiplyMod reduce the exact mathematical result
// by |m| and keep the sign of that result.
//
// Values are immutable. All operations are pure functions of their inputs
// and are safe to call from any number of goroutines.
package int256
