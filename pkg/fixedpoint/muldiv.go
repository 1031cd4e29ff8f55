package fixedpoint

import (
	"math/big"

	"github.com/johnayoung/go-defi-engine/pkg/errkinds"
	"github.com/johnayoung/go-defi-engine/pkg/evmtypes"
)

var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// MulDiv computes floor(a*b/d) over the full 512-bit intermediate product,
// failing if d is zero or the quotient exceeds 2^256-1. This is the only
// permitted high-precision multiply-divide primitive in the math kernel;
// every caller below routes through it rather than taking a 256-bit
// intermediate shortcut that could silently overflow.
func MulDiv(a, b, d evmtypes.Uint256) (evmtypes.Uint256, error) {
	if d.IsZero() {
		return evmtypes.Uint256{}, &errkinds.ZeroDivision{Op: "MulDiv"}
	}
	product := new(big.Int).Mul(a.Big(), b.Big())
	quotient := new(big.Int).Div(product, d.Big())
	if quotient.Cmp(maxUint256) > 0 {
		return evmtypes.Uint256{}, &errkinds.Overflow{Op: "MulDiv", Bits: 256, Operands: []string{a.String(), b.String(), d.String()}}
	}
	return evmtypes.NewUint256FromBig(quotient)
}

// MulDivRoundingUp returns MulDiv(a,b,d) + 1 if a*b is not an exact
// multiple of d, failing if that +1 would overflow 2^256-1.
func MulDivRoundingUp(a, b, d evmtypes.Uint256) (evmtypes.Uint256, error) {
	if d.IsZero() {
		return evmtypes.Uint256{}, &errkinds.ZeroDivision{Op: "MulDivRoundingUp"}
	}
	product := new(big.Int).Mul(a.Big(), b.Big())
	quotient, remainder := new(big.Int).DivMod(product, d.Big(), new(big.Int))
	if remainder.Sign() != 0 {
		quotient.Add(quotient, big.NewInt(1))
	}
	if quotient.Cmp(maxUint256) > 0 {
		return evmtypes.Uint256{}, &errkinds.Overflow{Op: "MulDivRoundingUp", Bits: 256, Operands: []string{a.String(), b.String(), d.String()}}
	}
	return evmtypes.NewUint256FromBig(quotient)
}

// MulDivBigPublic exposes mulDivBig to other packages in this module that
// already hold *big.Int operands (the concentrated-liquidity swap-step
// engine) and want MulDiv's exactness without round-tripping through
// evmtypes.Uint256.
func MulDivBigPublic(a, b, d *big.Int) (*big.Int, error) {
	if d.Sign() == 0 {
		return nil, &errkinds.ZeroDivision{Op: "MulDivBigPublic"}
	}
	return mulDivBig(a, b, d), nil
}

// MulDivBigRoundingUpPublic is the rounding-up counterpart of
// MulDivBigPublic.
func MulDivBigRoundingUpPublic(a, b, d *big.Int) (*big.Int, error) {
	if d.Sign() == 0 {
		return nil, &errkinds.ZeroDivision{Op: "MulDivBigRoundingUpPublic"}
	}
	return mulDivBigRoundingUp(a, b, d), nil
}

// mulDivBig is an internal helper used by callers that already hold
// *big.Int operands (sqrt-price math, the floor-rounding Ray helpers) and want MulDiv's exactness
// without round-tripping through evmtypes.Uint256 twice.
func mulDivBig(a, b, d *big.Int) *big.Int {
	product := new(big.Int).Mul(a, b)
	return new(big.Int).Div(product, d)
}

func mulDivBigRoundingUp(a, b, d *big.Int) *big.Int {
	product := new(big.Int).Mul(a, b)
	q, r := new(big.Int).DivMod(product, d, new(big.Int))
	if r.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	return q
}
