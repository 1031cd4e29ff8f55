// Package solver finds the input amount that maximizes profit through a
// two-pool arbitrage cycle, grounded on
// original_source/.../uniswap/v2_derivatives.py. It fast-paths an
// analytical Newton step via the chain-rule derivatives that file derives
// for constant-product pools (calculate_arbitrage_derivatives_2pool), and
// falls back to a central-finite-difference Newton step — the same
// technique v2_derivatives.py's verify_derivative_numerically uses to check
// the analytical formula — bounded by a golden-section bracket search when
// a pool in the path has no closed-form derivative (concentrated liquidity,
// weighted, or stable-swap legs).
package solver

import (
	"math"
	"math/big"

	"github.com/johnayoung/go-defi-engine/pkg/errkinds"
)

// Leg is one hop of a two-pool cycle: given an input amount, the exact
// integer output the pool would return.
type Leg interface {
	OutGivenIn(amountIn *big.Int) (*big.Int, error)
}

// AnalyticalLeg is a Leg that can also report its closed-form first and
// second derivative at a given input, which only constant-product pools
// provide (pkg/ammath/constantproduct.Derivative/Hessian).
type AnalyticalLeg interface {
	Leg
	Derivative(amountIn *big.Int) float64
	Hessian(amountIn *big.Int) float64
}

// Result is the solver's verdict for one cycle.
type Result struct {
	OptimalAmountIn *big.Int
	ProfitAmount    *big.Int
	Iterations      int
	UsedAnalytical  bool
}

const (
	maxNewtonIterations       = 64
	maxGoldenSectionIterations = 128
	newtonConvergenceEpsilon  = 1e-9
	goldenSectionRatio        = 0.6180339887498949
)

// profit computes exit.OutGivenIn(entry.OutGivenIn(amountIn)) - amountIn,
// the integer profit of routing amountIn through the cycle.
func profit(entry, exit Leg, amountIn *big.Int) (*big.Int, error) {
	intermediate, err := entry.OutGivenIn(amountIn)
	if err != nil {
		return nil, err
	}
	out, err := exit.OutGivenIn(intermediate)
	if err != nil {
		return nil, err
	}
	return new(big.Int).Sub(out, amountIn), nil
}

// Solve finds the amountIn in [1, maxAmountIn] that maximizes profit routing
// through entry then exit. It uses the analytical Newton path when both
// legs are constant-product pools, otherwise a finite-difference Newton
// search bounded by a golden-section bracket. It returns
// *errkinds.NoArbitrageSolution when the best input found yields no positive
// profit or the cycle cannot be evaluated there.
func Solve(entry, exit Leg, maxAmountIn *big.Int) (Result, error) {
	if maxAmountIn.Sign() <= 0 {
		return Result{}, &errkinds.Overflow{Op: "solver.Solve:InvalidBound", Bits: 256, Operands: []string{maxAmountIn.String()}}
	}

	aEntry, okEntry := entry.(AnalyticalLeg)
	aExit, okExit := exit.(AnalyticalLeg)
	maxF, _ := new(big.Float).SetInt(maxAmountIn).Float64()

	if okEntry && okExit {
		if amountIn, iterations, ok := newtonSolveAnalytical(aEntry, aExit, maxF); ok {
			return finalize(entry, exit, amountIn, maxAmountIn, iterations, true)
		}
	}

	amountIn, iterations := newtonSolveFiniteDifference(entry, exit, maxF)
	if amountIn <= 0 || amountIn > maxF {
		amountIn, iterations = goldenSectionSolve(entry, exit, maxF)
	}
	return finalize(entry, exit, amountIn, maxAmountIn, iterations, false)
}

func finalize(entry, exit Leg, amountInF float64, maxAmountIn *big.Int, iterations int, analytical bool) (Result, error) {
	amountIn := clampToBig(amountInF, maxAmountIn)
	p, err := profit(entry, exit, amountIn)
	if err != nil {
		return Result{}, &errkinds.NoArbitrageSolution{Reason: err.Error()}
	}
	if p.Sign() <= 0 {
		return Result{}, &errkinds.NoArbitrageSolution{Reason: "best input " + amountIn.String() + " yields profit " + p.String()}
	}
	return Result{OptimalAmountIn: amountIn, ProfitAmount: p, Iterations: iterations, UsedAnalytical: analytical}, nil
}

func clampToBig(x float64, max *big.Int) *big.Int {
	if x < 1 {
		return big.NewInt(1)
	}
	bx, _ := big.NewFloat(x).Int(nil)
	if bx.Cmp(max) > 0 {
		return new(big.Int).Set(max)
	}
	if bx.Sign() < 1 {
		return big.NewInt(1)
	}
	return bx
}

// newtonSolveAnalytical applies the chain rule from v2_derivatives.py's
// calculate_arbitrage_derivatives_2pool: d(profit)/dx = d(exit)/d(mid) *
// d(entry)/dx - 1, seeking the root of the first derivative via Newton's
// method using the second derivative (also chain-rule composed) as the
// step denominator.
func newtonSolveAnalytical(entry, exit AnalyticalLeg, maxAmountIn float64) (float64, int, bool) {
	x := maxAmountIn / 2
	for i := 0; i < maxNewtonIterations; i++ {
		amountIn := bigFloor(x)
		intermediate, err := entry.OutGivenIn(amountIn)
		if err != nil {
			return 0, i, false
		}

		d1Entry := entry.Derivative(amountIn)
		d2Entry := entry.Hessian(amountIn)
		d1Exit := exit.Derivative(intermediate)
		d2Exit := exit.Hessian(intermediate)

		firstDerivative := d1Exit*d1Entry - 1
		secondDerivative := d2Exit*d1Entry*d1Entry + d1Exit*d2Entry
		if secondDerivative == 0 || math.IsNaN(secondDerivative) {
			return 0, i, false
		}

		step := firstDerivative / secondDerivative
		next := x - step
		if next < 1 {
			next = 1
		}
		if next > maxAmountIn {
			next = maxAmountIn
		}
		if math.Abs(next-x) < newtonConvergenceEpsilon*maxAmountIn+1 {
			return next, i + 1, true
		}
		x = next
	}
	return x, maxNewtonIterations, true
}

// centralDifference estimates the first derivative of profit(entry, exit,
// ·) at x, mirroring v2_derivatives.py's verify_derivative_numerically:
// central difference away from the boundary, forward difference near it.
func centralDifference(entry, exit Leg, x, maxAmountIn float64) (float64, error) {
	epsilon := math.Max(1, x/1000)
	if x > epsilon {
		plus, err := profit(entry, exit, bigFloor(math.Min(x+epsilon, maxAmountIn)))
		if err != nil {
			return 0, err
		}
		minus, err := profit(entry, exit, bigFloor(x-epsilon))
		if err != nil {
			return 0, err
		}
		plusF, _ := new(big.Float).SetInt(plus).Float64()
		minusF, _ := new(big.Float).SetInt(minus).Float64()
		return (plusF - minusF) / (2 * epsilon), nil
	}
	plus, err := profit(entry, exit, bigFloor(math.Min(x+epsilon, maxAmountIn)))
	if err != nil {
		return 0, err
	}
	zero, err := profit(entry, exit, big.NewInt(1))
	if err != nil {
		return 0, err
	}
	plusF, _ := new(big.Float).SetInt(plus).Float64()
	zeroF, _ := new(big.Float).SetInt(zero).Float64()
	return (plusF - zeroF) / epsilon, nil
}

// newtonSolveFiniteDifference drives Newton's method with a first
// derivative from centralDifference and a second derivative estimated the
// same way one step further out, for paths mixing pool families that have
// no closed-form derivative.
func newtonSolveFiniteDifference(entry, exit Leg, maxAmountIn float64) (float64, int) {
	x := maxAmountIn / 2
	for i := 0; i < maxNewtonIterations; i++ {
		d1, err := centralDifference(entry, exit, x, maxAmountIn)
		if err != nil {
			return -1, i
		}
		h := math.Max(1, x/1000)
		d1Plus, err := centralDifference(entry, exit, math.Min(x+h, maxAmountIn), maxAmountIn)
		if err != nil {
			return -1, i
		}
		d2 := (d1Plus - d1) / h
		if d2 == 0 || math.IsNaN(d2) {
			return -1, i
		}
		step := d1 / d2
		next := x - step
		if next < 1 || next > maxAmountIn || math.IsNaN(next) {
			return -1, i
		}
		if math.Abs(next-x) < newtonConvergenceEpsilon*maxAmountIn+1 {
			return next, i + 1
		}
		x = next
	}
	return x, maxNewtonIterations
}

// goldenSectionSolve brackets [1, maxAmountIn] and narrows it by the golden
// ratio until it converges on the profit-maximizing input, used whenever
// the Newton paths above fail to converge within bounds (e.g. a profit
// function with a boundary optimum rather than an interior one).
func goldenSectionSolve(entry, exit Leg, maxAmountIn float64) (float64, int) {
	lo, hi := 1.0, maxAmountIn
	evalProfit := func(x float64) float64 {
		p, err := profit(entry, exit, bigFloor(x))
		if err != nil {
			return math.Inf(-1)
		}
		f, _ := new(big.Float).SetInt(p).Float64()
		return f
	}

	c := hi - goldenSectionRatio*(hi-lo)
	d := lo + goldenSectionRatio*(hi-lo)
	fc, fd := evalProfit(c), evalProfit(d)

	i := 0
	for ; i < maxGoldenSectionIterations && hi-lo > 1; i++ {
		if fc > fd {
			hi = d
			d, fd = c, fc
			c = hi - goldenSectionRatio*(hi-lo)
			fc = evalProfit(c)
		} else {
			lo = c
			c, fc = d, fd
			d = lo + goldenSectionRatio*(hi-lo)
			fd = evalProfit(d)
		}
	}

	if fc > fd {
		return c, i
	}
	return d, i
}

func bigFloor(x float64) *big.Int {
	if x < 1 {
		x = 1
	}
	bx, _ := big.NewFloat(math.Floor(x)).Int(nil)
	return bx
}
