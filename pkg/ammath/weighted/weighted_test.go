package weighted

import (
	"math/big"
	"testing"
)

func wad(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad wad literal: " + s)
	}
	return v
}

func TestCalculateInvariantTwoEqualWeights(t *testing.T) {
	weights := []*big.Int{wad("500000000000000000"), wad("500000000000000000")}
	balances := []*big.Int{wad("100000000000000000000"), wad("100000000000000000000")}
	inv, err := CalculateInvariant(weights, balances)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// sqrt(100)*sqrt(100) == 100, in 18-decimal fixed point.
	want := wad("100000000000000000000")
	diff := new(big.Int).Sub(inv, want)
	diff.Abs(diff)
	if diff.Cmp(wad("1000000000000")) > 0 {
		t.Fatalf("invariant too far from expected: got %s want ~%s", inv, want)
	}
}

func TestOutGivenInRatioCap(t *testing.T) {
	balanceIn := wad("100000000000000000000")
	weightIn := wad("500000000000000000")
	balanceOut := wad("100000000000000000000")
	weightOut := wad("500000000000000000")
	tooMuch := wad("40000000000000000000") // > 0.3 * balanceIn

	if _, err := OutGivenIn(balanceIn, weightIn, balanceOut, weightOut, tooMuch); err == nil {
		t.Fatalf("expected MAX_IN_RATIO error")
	}

	amountIn := wad("1000000000000000000")
	out, err := OutGivenIn(balanceIn, weightIn, balanceOut, weightOut, amountIn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Sign() <= 0 || out.Cmp(amountIn) >= 0 {
		t.Fatalf("out_given_in result out of expected range: %s", out)
	}
}

func TestInGivenOutRoundTrip(t *testing.T) {
	balanceIn := wad("100000000000000000000")
	weightIn := wad("500000000000000000")
	balanceOut := wad("100000000000000000000")
	weightOut := wad("500000000000000000")
	amountOut := wad("1000000000000000000")

	in, err := InGivenOut(balanceIn, weightIn, balanceOut, weightOut, amountOut)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Sign() <= 0 {
		t.Fatalf("in_given_out must be positive, got %s", in)
	}

	outBack, err := OutGivenIn(balanceIn, weightIn, balanceOut, weightOut, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Rounding favors the pool both directions, so outBack may fall short of
	// amountOut but must never exceed it.
	if outBack.Cmp(amountOut) > 0 {
		t.Fatalf("round-trip output exceeds requested amount: got %s want <= %s", outBack, amountOut)
	}
}

func TestSubtractSwapFeeAmount(t *testing.T) {
	amount := wad("1000000000000000000")
	feePct := wad("3000000000000000") // 0.3%
	net := SubtractSwapFeeAmount(amount, feePct)
	if net.Cmp(amount) >= 0 {
		t.Fatalf("fee subtraction must reduce amount")
	}
}
