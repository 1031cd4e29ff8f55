// Package weighted implements Balancer-style weighted-pool math (spec §4.F):
// invariant calculation and out_given_in/in_given_out swaps, built on the
// fixed-point pow/log/exp kernel of pkg/fixedpoint, grounded on degenbot's
// balancer/libraries/weighted_math.py.
package weighted

import (
	"math/big"

	"github.com/johnayoung/go-defi-engine/pkg/errkinds"
	"github.com/johnayoung/go-defi-engine/pkg/fixedpoint"
)

var (
	one = big.NewInt(1_000_000_000_000_000_000)

	maxInRatio  = mulByFraction(3, 10) // 0.3e18
	maxOutRatio = mulByFraction(3, 10)

	maxInvariantRatio = big.NewInt(3_000_000_000_000_000_000)
	minInvariantRatio = mulByFraction(7, 10)

	maxPowRelativeError = big.NewInt(10000)
)

func mulByFraction(num, den int64) *big.Int {
	v := new(big.Int).Mul(one, big.NewInt(num))
	return v.Div(v, big.NewInt(den))
}

func mulDown(a, b *big.Int) *big.Int {
	return new(big.Int).Div(new(big.Int).Mul(a, b), one)
}

func mulUp(a, b *big.Int) *big.Int {
	prod := new(big.Int).Mul(a, b)
	q, r := new(big.Int).QuoRem(prod, one, new(big.Int))
	if r.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	return q
}

func divDown(a, b *big.Int) *big.Int {
	num := new(big.Int).Mul(a, one)
	return num.Div(num, b)
}

func divUp(a, b *big.Int) *big.Int {
	num := new(big.Int).Mul(a, one)
	q, r := new(big.Int).QuoRem(num, b, new(big.Int))
	if r.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	return q
}

func complement(x *big.Int) *big.Int {
	if x.Cmp(one) < 0 {
		return new(big.Int).Sub(one, x)
	}
	return big.NewInt(0)
}

func powDown(x, y *big.Int) (*big.Int, error) {
	raw, err := fixedpoint.Pow(x, y)
	if err != nil {
		return nil, err
	}
	maxErr := new(big.Int).Add(mulUp(raw, maxPowRelativeError), big.NewInt(1))
	if raw.Cmp(maxErr) < 0 {
		return big.NewInt(0), nil
	}
	return new(big.Int).Sub(raw, maxErr), nil
}

func powUp(x, y *big.Int) (*big.Int, error) {
	raw, err := fixedpoint.Pow(x, y)
	if err != nil {
		return nil, err
	}
	maxErr := new(big.Int).Add(mulUp(raw, maxPowRelativeError), big.NewInt(1))
	return new(big.Int).Add(raw, maxErr), nil
}

// CalculateInvariant computes Π(balance_i ^ weight_i), rounding each term
// down, failing if the product collapses to zero.
func CalculateInvariant(normalizedWeights, balances []*big.Int) (*big.Int, error) {
	invariant := new(big.Int).Set(one)
	for i := range normalizedWeights {
		term, err := powDown(balances[i], normalizedWeights[i])
		if err != nil {
			return nil, err
		}
		invariant = mulDown(invariant, term)
	}
	if invariant.Sign() <= 0 {
		return nil, &errkinds.Overflow{Op: "CalculateInvariant:ZERO_INVARIANT", Bits: 256}
	}
	return invariant, nil
}

// OutGivenIn computes the weighted-pool swap output for amountIn, rounding
// down overall (spec §4.F), failing if amountIn exceeds 0.3x balanceIn.
func OutGivenIn(balanceIn, weightIn, balanceOut, weightOut, amountIn *big.Int) (*big.Int, error) {
	if amountIn.Cmp(mulDown(balanceIn, maxInRatio)) > 0 {
		return nil, &errkinds.Overflow{Op: "OutGivenIn:MAX_IN_RATIO", Bits: 256, Operands: []string{amountIn.String()}}
	}
	denominator := new(big.Int).Add(balanceIn, amountIn)
	base := divUp(balanceIn, denominator)
	exponent := divDown(weightIn, weightOut)
	power, err := powUp(base, exponent)
	if err != nil {
		return nil, err
	}
	return mulDown(balanceOut, complement(power)), nil
}

// InGivenOut computes the weighted-pool swap input required for amountOut,
// rounding up overall (spec §4.F), failing if amountOut exceeds 0.3x
// balanceOut.
func InGivenOut(balanceIn, weightIn, balanceOut, weightOut, amountOut *big.Int) (*big.Int, error) {
	if amountOut.Cmp(mulDown(balanceOut, maxOutRatio)) > 0 {
		return nil, &errkinds.Overflow{Op: "InGivenOut:MAX_OUT_RATIO", Bits: 256, Operands: []string{amountOut.String()}}
	}
	base := divUp(balanceOut, new(big.Int).Sub(balanceOut, amountOut))
	exponent := divUp(weightOut, weightIn)
	power, err := powUp(base, exponent)
	if err != nil {
		return nil, err
	}
	ratio := new(big.Int).Sub(power, one)
	return mulUp(balanceIn, ratio), nil
}

// SubtractSwapFeeAmount returns amount minus its swap fee, rounding the fee
// up (favoring the pool).
func SubtractSwapFeeAmount(amount, feePercentage *big.Int) *big.Int {
	fee := mulUp(amount, feePercentage)
	return new(big.Int).Sub(amount, fee)
}

// MaxInvariantRatio and MinInvariantRatio bound non-proportional join/exit
// invariant growth (spec §4.F caps).
var (
	MaxInvariantRatio = maxInvariantRatio
	MinInvariantRatio = minInvariantRatio
)
