package solver

import (
	"errors"
	"math/big"
	"testing"

	"github.com/johnayoung/go-defi-engine/pkg/ammath/constantproduct"
	"github.com/johnayoung/go-defi-engine/pkg/errkinds"
)

func ray(n int64) *big.Int { return big.NewInt(n) }

// asymmetricLegs returns two constant-product legs priced far enough apart
// that routing through both has an interior profit-maximizing input, not
// just a monotonically increasing or decreasing one.
func asymmetricLegs() (constantproduct.Leg, constantproduct.Leg) {
	fee := ray(3)
	feeDen := ray(1000)
	entry := constantproduct.Leg{ReserveIn: ray(1_000_000), ReserveOut: ray(2_000_000), FeeNum: fee, FeeDen: feeDen}
	exit := constantproduct.Leg{ReserveIn: ray(2_100_000), ReserveOut: ray(1_100_000), FeeNum: fee, FeeDen: feeDen}
	return entry, exit
}

func TestSolveAnalyticalFindsInteriorOptimumWithPositiveProfit(t *testing.T) {
	entry, exit := asymmetricLegs()
	result, err := Solve(entry, exit, big.NewInt(500_000))
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if !result.UsedAnalytical {
		t.Fatal("two constant-product legs must take the analytical path")
	}
	if result.ProfitAmount.Sign() <= 0 {
		t.Fatalf("expected a profitable cycle, got profit %s at amountIn %s", result.ProfitAmount, result.OptimalAmountIn)
	}
	if result.OptimalAmountIn.Sign() <= 0 || result.OptimalAmountIn.Cmp(big.NewInt(500_000)) > 0 {
		t.Fatalf("OptimalAmountIn = %s, want in (0, 500000]", result.OptimalAmountIn)
	}
}

func TestSolveRejectsNonPositiveBound(t *testing.T) {
	entry, exit := asymmetricLegs()
	if _, err := Solve(entry, exit, big.NewInt(0)); err == nil {
		t.Fatal("expected an error for a non-positive maxAmountIn bound")
	}
}

// nonAnalyticalLeg wraps a constant-product leg but hides its Derivative/
// Hessian methods, forcing Solve onto the finite-difference path the way a
// concentrated-liquidity or weighted-pool leg would.
type nonAnalyticalLeg struct {
	inner constantproduct.Leg
}

func (l nonAnalyticalLeg) OutGivenIn(amountIn *big.Int) (*big.Int, error) {
	return l.inner.OutGivenIn(amountIn)
}

func TestSolveFallsBackToFiniteDifferenceForMixedLegs(t *testing.T) {
	entryInner, exitInner := asymmetricLegs()
	entry := nonAnalyticalLeg{inner: entryInner}
	exit := nonAnalyticalLeg{inner: exitInner}

	result, err := Solve(entry, exit, big.NewInt(500_000))
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if result.UsedAnalytical {
		t.Fatal("a leg without closed-form derivatives must not take the analytical path")
	}
	if result.OptimalAmountIn.Sign() <= 0 {
		t.Fatalf("OptimalAmountIn must be positive, got %s", result.OptimalAmountIn)
	}
}

func TestSolveUnprofitableCycleReportsNoArbitrageSolution(t *testing.T) {
	fee := ray(3)
	feeDen := ray(1000)
	// Identical reserves both directions: routing through the fee twice can
	// never turn a profit, so the solver must report that no solution exists
	// rather than return a trade.
	entry := constantproduct.Leg{ReserveIn: ray(1_000_000), ReserveOut: ray(1_000_000), FeeNum: fee, FeeDen: feeDen}
	exit := constantproduct.Leg{ReserveIn: ray(1_000_000), ReserveOut: ray(1_000_000), FeeNum: fee, FeeDen: feeDen}

	result, err := Solve(entry, exit, big.NewInt(100_000))
	if err == nil {
		t.Fatalf("a symmetric fee-on-both-legs cycle must never be profitable, got profit %s at amountIn %s", result.ProfitAmount, result.OptimalAmountIn)
	}
	var noSolution *errkinds.NoArbitrageSolution
	if !errors.As(err, &noSolution) {
		t.Fatalf("Solve error = %v, want *errkinds.NoArbitrageSolution", err)
	}
	if noSolution.Reason == "" {
		t.Fatal("NoArbitrageSolution must carry a reason")
	}
}
