// Package evmtypes provides EVM-word-shaped bounded integers. Arithmetic
// overflow is always an error, never a silent wrap, and division truncates
// toward zero — the same convention as Go's own integer division and
// unlike Python's floor division — matching the EVM's SDIV/DIV opcodes.
//
// Unsigned words are backed by github.com/holiman/uint256, the same
// fixed-width 256-bit integer type go-ethereum's EVM interpreter uses
// internally. Signed 24-bit ticks are plain int32 with explicit range
// checks, since the EVM's int24 has no Go stdlib or ecosystem equivalent
// narrow enough to be worth wrapping.
package evmtypes

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/johnayoung/go-defi-engine/pkg/errkinds"
)

// Address is a 20-byte EVM account/contract address. It is a plain alias
// over go-ethereum's common.Address; this module never formats or verifies
// EIP-55 checksums (checksumming is an explicit non-goal).
type Address = common.Address

const (
	// MinTick and MaxTick bound Uniswap V3/V4-style signed 24-bit ticks.
	MinTick int32 = -887272
	MaxTick int32 = 887272
)

var (
	maxUint24  = uint256.NewInt(1<<24 - 1)
	maxUint128 = new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 128), uint256.NewInt(1))
	maxUint160 = new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 160), uint256.NewInt(1))
)

// Uint256 is an unsigned 256-bit EVM word.
type Uint256 struct{ v uint256.Int }

// NewUint256FromUint64 builds a Uint256 from a uint64 literal.
func NewUint256FromUint64(x uint64) Uint256 {
	return Uint256{v: *uint256.NewInt(x)}
}

// NewUint256FromBig builds a Uint256 from a *big.Int, failing if it is
// negative or exceeds 2^256-1.
func NewUint256FromBig(x *big.Int) (Uint256, error) {
	if x.Sign() < 0 {
		return Uint256{}, &errkinds.Overflow{Op: "NewUint256FromBig", Bits: 256, Operands: []string{x.String()}}
	}
	v, overflow := uint256.FromBig(x)
	if overflow {
		return Uint256{}, &errkinds.Overflow{Op: "NewUint256FromBig", Bits: 256, Operands: []string{x.String()}}
	}
	return Uint256{v: *v}, nil
}

// Big returns x as a *big.Int.
func (x Uint256) Big() *big.Int { return x.v.ToBig() }

// String renders x in base 10.
func (x Uint256) String() string { return x.v.Dec() }

// IsZero reports whether x is zero.
func (x Uint256) IsZero() bool { return x.v.IsZero() }

// Cmp compares x and y, returning -1, 0, or 1.
func (x Uint256) Cmp(y Uint256) int { return x.v.Cmp(&y.v) }

// Add returns x+y, failing on overflow past 2^256-1.
func Add(x, y Uint256) (Uint256, error) {
	var out uint256.Int
	_, overflow := out.AddOverflow(&x.v, &y.v)
	if out.Lt(&x.v) {
		overflow = true
	}
	if overflow {
		return Uint256{}, &errkinds.Overflow{Op: "Add", Bits: 256, Operands: []string{x.String(), y.String()}}
	}
	return Uint256{v: out}, nil
}

// Sub returns x-y, failing if y > x (EVM words never go negative).
func Sub(x, y Uint256) (Uint256, error) {
	if x.Cmp(y) < 0 {
		return Uint256{}, &errkinds.Overflow{Op: "Sub", Bits: 256, Operands: []string{x.String(), y.String()}}
	}
	var out uint256.Int
	out.Sub(&x.v, &y.v)
	return Uint256{v: out}, nil
}

// Mul returns x*y, failing on overflow past 2^256-1.
func Mul(x, y Uint256) (Uint256, error) {
	if x.IsZero() || y.IsZero() {
		return Uint256{}, nil
	}
	var out, check uint256.Int
	out.Mul(&x.v, &y.v)
	check.Div(&out, &x.v)
	if check.Cmp(&y.v) != 0 {
		return Uint256{}, &errkinds.Overflow{Op: "Mul", Bits: 256, Operands: []string{x.String(), y.String()}}
	}
	return Uint256{v: out}, nil
}

// Div returns floor(x/y) truncated toward zero (identical to floor for
// unsigned operands); fails on division by zero.
func Div(x, y Uint256) (Uint256, error) {
	if y.IsZero() {
		return Uint256{}, &errkinds.ZeroDivision{Op: "Div"}
	}
	var out uint256.Int
	out.Div(&x.v, &y.v)
	return Uint256{v: out}, nil
}

// Mod returns x%y; fails on division by zero.
func Mod(x, y Uint256) (Uint256, error) {
	if y.IsZero() {
		return Uint256{}, &errkinds.ZeroDivision{Op: "Mod"}
	}
	var out uint256.Int
	out.Mod(&x.v, &y.v)
	return Uint256{v: out}, nil
}

// Uint128 is an unsigned word bounded to [0, 2^128-1], used for
// concentrated-liquidity pool liquidity amounts.
type Uint128 struct{ Uint256 }

// NewUint128FromUint64 builds a Uint128 from a uint64 literal.
func NewUint128FromUint64(x uint64) Uint128 {
	return Uint128{Uint256: NewUint256FromUint64(x)}
}

// NewUint128FromBig range-checks x against [0, 2^128-1].
func NewUint128FromBig(x *big.Int) (Uint128, error) {
	u, err := NewUint256FromBig(x)
	if err != nil {
		return Uint128{}, err
	}
	if u.v.Cmp(maxUint128) > 0 {
		return Uint128{}, &errkinds.Overflow{Op: "NewUint128FromBig", Bits: 128, Operands: []string{x.String()}}
	}
	return Uint128{Uint256: u}, nil
}

// Uint160 is an unsigned word bounded to [0, 2^160-1], used for Q64.96
// sqrt-price encoding.
type Uint160 struct{ Uint256 }

// NewUint160FromBig range-checks x against [0, 2^160-1].
func NewUint160FromBig(x *big.Int) (Uint160, error) {
	u, err := NewUint256FromBig(x)
	if err != nil {
		return Uint160{}, err
	}
	if u.v.Cmp(maxUint160) > 0 {
		return Uint160{}, &errkinds.Overflow{Op: "NewUint160FromBig", Bits: 160, Operands: []string{x.String()}}
	}
	return Uint160{Uint256: u}, nil
}

// Uint24 is an unsigned word bounded to [0, 2^24-1], used for pip-scale fee
// tiers and tick spacings.
type Uint24 struct{ Uint256 }

// NewUint24FromUint64 range-checks x against [0, 2^24-1].
func NewUint24FromUint64(x uint64) (Uint24, error) {
	u := NewUint256FromUint64(x)
	if u.v.Cmp(maxUint24) > 0 {
		return Uint24{}, &errkinds.Overflow{Op: "NewUint24FromUint64", Bits: 24, Operands: []string{u.String()}}
	}
	return Uint24{Uint256: u}, nil
}

// Int24 is a signed 24-bit integer, used for ticks.
type Int24 int32

// NewInt24 range-checks x against [-2^23, 2^23-1].
func NewInt24(x int32) (Int24, error) {
	const min, max = -(1 << 23), 1<<23 - 1
	if x < min || x > max {
		return 0, &errkinds.Overflow{Op: "NewInt24", Bits: 24, Operands: []string{big.NewInt(int64(x)).String()}}
	}
	return Int24(x), nil
}

// TruncDivInt truncates toward zero, matching the EVM's SDIV opcode and
// differing from Go's own integer division only for mixed-sign operands
// (Go already truncates toward zero, but callers migrating from
// floor-division languages should not assume floor semantics here).
func TruncDivInt(a, b int64) (int64, error) {
	if b == 0 {
		return 0, &errkinds.ZeroDivision{Op: "TruncDivInt"}
	}
	return a / b, nil
}

// FloorDivInt performs floor division (toward negative infinity), the
// complement of TruncDivInt, needed by tick-bitmap position decomposition
// (§4.C.1), which the EVM computes via arithmetic shift, not truncated
// division.
func FloorDivInt(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
