package stable

import (
	"math/big"
	"testing"
)

func TestOutGivenInBalancedPool(t *testing.T) {
	dec := big.NewInt(1_000_000_000_000_000_000)
	p := Pool{
		Reserve0:  new(big.Int).Mul(big.NewInt(1_000), dec),
		Reserve1:  new(big.Int).Mul(big.NewInt(1_000), dec),
		Decimals0: dec,
		Decimals1: dec,
		FeeNum:    big.NewInt(4),
		FeeDen:    big.NewInt(10_000),
	}
	amountIn := big.NewInt(1_000_000_000_000_000_000)
	out, err := p.OutGivenIn(true, amountIn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Sign() <= 0 {
		t.Fatalf("expected positive output, got %s", out)
	}
	// A balanced stable pool should return close to 1:1 for a small trade.
	diff := new(big.Int).Sub(amountIn, out)
	diff.Abs(diff)
	if diff.Cmp(big.NewInt(1_000_000_000_000_000)) > 0 { // within 0.1%
		t.Fatalf("stable swap diverged too far from 1:1: in=%s out=%s", amountIn, out)
	}
}

func TestVolatileOutGivenInDelegates(t *testing.T) {
	reserveIn := big.NewInt(1_000_000)
	reserveOut := big.NewInt(1_000_000)
	amountIn := big.NewInt(1_000)
	out, err := VolatileOutGivenIn(reserveIn, reserveOut, amountIn, big.NewInt(3), big.NewInt(1000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Sign() <= 0 {
		t.Fatalf("expected positive output, got %s", out)
	}
}
