// Package constantproduct implements Uniswap V2-style constant-product swap
// math (spec §4.D): out_given_in, in_given_out, and the analytical
// derivative/Hessian used by the arbitrage solver's gradient mode, grounded
// on degenbot's V2 pool math and
// uniswap/v3_libraries/v2_derivatives.py.
package constantproduct

import (
	"math/big"

	"github.com/johnayoung/go-defi-engine/pkg/errkinds"
)

// Reserves is a constant-product pool's state: two reserves and a fee
// expressed as fee_num/fee_den (e.g. 3/1000 for 30bps).
type Reserves struct {
	Reserve0 *big.Int
	Reserve1 *big.Int
	FeeNum   *big.Int
	FeeDen   *big.Int
}

// OutGivenIn computes floor((amountIn*(feeDen-feeNum)*reserveOut) /
// (reserveIn*feeDen + amountIn*(feeDen-feeNum))), failing on a zero input.
func OutGivenIn(reserveIn, reserveOut, amountIn, feeNum, feeDen *big.Int) (*big.Int, error) {
	if amountIn.Sign() <= 0 {
		return nil, &errkinds.Overflow{Op: "OutGivenIn:InvalidSwapInputAmount", Bits: 256, Operands: []string{amountIn.String()}}
	}
	feeComplement := new(big.Int).Sub(feeDen, feeNum)
	amountInWithFee := new(big.Int).Mul(amountIn, feeComplement)
	numerator := new(big.Int).Mul(amountInWithFee, reserveOut)
	denominator := new(big.Int).Add(new(big.Int).Mul(reserveIn, feeDen), amountInWithFee)
	out := new(big.Int).Div(numerator, denominator)
	if out.Cmp(reserveOut) >= 0 {
		out = new(big.Int).Sub(reserveOut, big.NewInt(1))
	}
	return out, nil
}

// InGivenOut computes the input required to receive amountOut, failing if
// amountOut >= reserveOut (cannot drain the pool).
func InGivenOut(reserveIn, reserveOut, amountOut, feeNum, feeDen *big.Int) (*big.Int, error) {
	if amountOut.Cmp(reserveOut) >= 0 {
		return nil, &errkinds.Overflow{Op: "InGivenOut:NotEnoughLiquidity", Bits: 256, Operands: []string{amountOut.String(), reserveOut.String()}}
	}
	feeComplement := new(big.Int).Sub(feeDen, feeNum)
	numerator := new(big.Int).Mul(new(big.Int).Mul(reserveIn, amountOut), feeDen)
	denominator := new(big.Int).Mul(new(big.Int).Sub(reserveOut, amountOut), feeComplement)
	in := new(big.Int).Div(numerator, denominator)
	in.Add(in, big.NewInt(1))
	return in, nil
}

// Derivative computes d(out)/d(amountIn) at amountIn analytically:
// reserveOut*(1-f)*reserveIn / (reserveIn + amountIn*(1-f))^2, as a float64
// ratio. f = feeNum/feeDen.
func Derivative(reserveIn, reserveOut, amountIn, feeNum, feeDen *big.Int) float64 {
	x, _ := new(big.Float).SetInt(reserveIn).Float64()
	y, _ := new(big.Float).SetInt(reserveOut).Float64()
	dx, _ := new(big.Float).SetInt(amountIn).Float64()
	fn, _ := new(big.Float).SetInt(feeNum).Float64()
	fd, _ := new(big.Float).SetInt(feeDen).Float64()
	f := fn / fd
	denom := x + dx*(1-f)
	return y * (1 - f) * x / (denom * denom)
}

// Hessian computes the second derivative d^2(out)/d(amountIn)^2 at
// amountIn, used by the solver's curvature-aware refinement step.
func Hessian(reserveIn, reserveOut, amountIn, feeNum, feeDen *big.Int) float64 {
	x, _ := new(big.Float).SetInt(reserveIn).Float64()
	y, _ := new(big.Float).SetInt(reserveOut).Float64()
	dx, _ := new(big.Float).SetInt(amountIn).Float64()
	fn, _ := new(big.Float).SetInt(feeNum).Float64()
	fd, _ := new(big.Float).SetInt(feeDen).Float64()
	f := fn / fd
	denom := x + dx*(1-f)
	return -2 * y * (1 - f) * (1 - f) * x / (denom * denom * denom)
}

// Leg binds a swap direction through one constant-product pool — which
// reserve is in, which is out, and the fee — so it can be passed directly
// to pkg/arb/solver.Solve as an AnalyticalLeg: its OutGivenIn/Derivative/
// Hessian methods are the same package functions above, just fixed to one
// direction.
type Leg struct {
	ReserveIn  *big.Int
	ReserveOut *big.Int
	FeeNum     *big.Int
	FeeDen     *big.Int
}

func (l Leg) OutGivenIn(amountIn *big.Int) (*big.Int, error) {
	return OutGivenIn(l.ReserveIn, l.ReserveOut, amountIn, l.FeeNum, l.FeeDen)
}

func (l Leg) Derivative(amountIn *big.Int) float64 {
	return Derivative(l.ReserveIn, l.ReserveOut, amountIn, l.FeeNum, l.FeeDen)
}

func (l Leg) Hessian(amountIn *big.Int) float64 {
	return Hessian(l.ReserveIn, l.ReserveOut, amountIn, l.FeeNum, l.FeeDen)
}
