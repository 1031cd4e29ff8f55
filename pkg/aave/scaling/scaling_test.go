package scaling

import (
	"math/big"
	"testing"
)

func ray(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad ray literal: " + s)
	}
	return v
}

const oneRay = "1000000000000000000000000000"

func TestPercentMulHalfUp(t *testing.T) {
	got, err := PercentMul(big.NewInt(10_000), big.NewInt(100)) // 1%
	if err != nil {
		t.Fatalf("PercentMul: %v", err)
	}
	if got.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("PercentMul(10000, 1%%) = %s, want 100", got)
	}
}

func TestPercentDivZeroPercentage(t *testing.T) {
	if _, err := PercentDiv(big.NewInt(1), big.NewInt(0)); err == nil {
		t.Fatal("expected ZeroDivision error")
	}
}

func TestCollateralV1SupplyRoundsHalfUp(t *testing.T) {
	p := CollateralV1Processor{}
	event := CollateralMintEvent{
		Value:           big.NewInt(1_000),
		BalanceIncrease: big.NewInt(0),
		Index:           ray(oneRay),
	}
	res, err := p.ProcessMintEvent(event, nil)
	if err != nil {
		t.Fatalf("ProcessMintEvent: %v", err)
	}
	if res.BalanceDelta.Cmp(big.NewInt(1_000)) != 0 {
		t.Fatalf("BalanceDelta = %s, want 1000 at unit index", res.BalanceDelta)
	}
	if res.IsRepay {
		t.Fatal("supply leg must not be flagged as repay")
	}
}

func TestCollateralV5PureInterestAccrualLeavesBalanceUnchanged(t *testing.T) {
	p := CollateralV5Processor{}
	event := CollateralMintEvent{
		Value:           big.NewInt(500),
		BalanceIncrease: big.NewInt(500),
		Index:           ray(oneRay),
	}
	res, err := p.ProcessMintEvent(event, nil)
	if err != nil {
		t.Fatalf("ProcessMintEvent: %v", err)
	}
	if res.BalanceDelta.Sign() != 0 {
		t.Fatalf("pure interest accrual leg must leave scaled balance untouched, got delta %s", res.BalanceDelta)
	}
}

func TestCollateralV5BurnPrefersCallerSuppliedScaledDelta(t *testing.T) {
	p := CollateralV5Processor{}
	event := CollateralBurnEvent{
		Value:           big.NewInt(1_000),
		BalanceIncrease: big.NewInt(0),
		Index:           ray(oneRay),
	}
	res, err := p.ProcessBurnEvent(event, big.NewInt(777))
	if err != nil {
		t.Fatalf("ProcessBurnEvent: %v", err)
	}
	if res.BalanceDelta.Cmp(big.NewInt(-777)) != 0 {
		t.Fatalf("BalanceDelta = %s, want -777 (caller-supplied scaledDelta)", res.BalanceDelta)
	}
}

func TestDebtV4BorrowRoundsCeil(t *testing.T) {
	p := DebtV4Processor{}
	// index slightly above 1 ray so a non-divisible requested amount forces
	// ceiling rounding to show a difference from floor (3 vs 2 scaled units).
	index := ray("1000000000000000000000000001")
	event := DebtMintEvent{
		Value:           big.NewInt(3),
		BalanceIncrease: big.NewInt(0),
		Index:           index,
	}
	res, err := p.ProcessMintEvent(event)
	if err != nil {
		t.Fatalf("ProcessMintEvent: %v", err)
	}
	if res.BalanceDelta.Cmp(big.NewInt(3)) != 0 {
		t.Fatalf("BORROW leg must round up to 3 scaled units, got %s", res.BalanceDelta)
	}
}

func TestGhoV1NoDiscountNetsToPlainBorrow(t *testing.T) {
	p := GhoV1Processor{}
	event := DebtMintEvent{
		Value:           big.NewInt(1_000),
		BalanceIncrease: big.NewInt(0),
		Index:           ray(oneRay),
	}
	res, err := p.ProcessMintEvent(event, big.NewInt(0), ray(oneRay), big.NewInt(0))
	if err != nil {
		t.Fatalf("ProcessMintEvent: %v", err)
	}
	if res.UserOperation != GhoBorrow {
		t.Fatalf("UserOperation = %v, want GhoBorrow", res.UserOperation)
	}
	if res.BalanceDelta.Cmp(big.NewInt(1_000)) != 0 {
		t.Fatalf("zero-discount borrow must net to the plain scaled amount, got %s", res.BalanceDelta)
	}
}

func TestGhoV4DiscountAlwaysZero(t *testing.T) {
	p := GhoV4Processor{}
	discount, err := p.AccrueDebtOnAction(big.NewInt(1_000), ray(oneRay), big.NewInt(5_000), ray(oneRay))
	if err != nil {
		t.Fatalf("AccrueDebtOnAction: %v", err)
	}
	if discount.Sign() != 0 {
		t.Fatalf("revision 4+ must never accrue a discount, got %s", discount)
	}
}

func TestGhoV2FullRepaymentBurnsEntireBalance(t *testing.T) {
	p := GhoV2Processor{}
	previousBalance := big.NewInt(1_000)
	previousIndex := ray(oneRay)
	currentIndex := ray(oneRay)
	event := DebtBurnEvent{
		Value:           big.NewInt(1_000),
		BalanceIncrease: big.NewInt(0),
		Index:           currentIndex,
	}
	res, err := p.ProcessBurnEvent(event, previousBalance, previousIndex, big.NewInt(0))
	if err != nil {
		t.Fatalf("ProcessBurnEvent: %v", err)
	}
	if res.BalanceDelta.Cmp(new(big.Int).Neg(previousBalance)) != 0 {
		t.Fatalf("full repayment must burn the entire previous scaled balance, got delta %s", res.BalanceDelta)
	}
}

func TestCalculateGhoDiscountRateBelowMinimumIsZero(t *testing.T) {
	belowMinDebt := new(big.Int).Sub(MinDebtTokenBalance, big.NewInt(1))
	got := CalculateGhoDiscountRate(belowMinDebt, new(big.Int).Add(MinDiscountTokenBalance, ray("1000000000000000000")))
	if got.Sign() != 0 {
		t.Fatalf("CalculateGhoDiscountRate below minimum debt balance = %s, want 0", got)
	}
}

func TestCalculateGhoDiscountRateFullCoverage(t *testing.T) {
	debt := new(big.Int).Mul(big.NewInt(100), ray("1000000000000000000"))       // 100 GHO
	discountToken := new(big.Int).Mul(big.NewInt(2), ray("1000000000000000000")) // 2 stkAAVE covers 200 GHO
	got := CalculateGhoDiscountRate(debt, discountToken)
	if got.Cmp(DiscountRateBps) != 0 {
		t.Fatalf("CalculateGhoDiscountRate full coverage = %s, want %s", got, DiscountRateBps)
	}
}

func TestCalculateGhoDiscountRatePartialCoverage(t *testing.T) {
	debt := new(big.Int).Mul(big.NewInt(100), ray("1000000000000000000"))
	discountToken := new(big.Int).Div(ray("1000000000000000000"), big.NewInt(2)) // 0.5 stkAAVE -> 50 GHO covered
	got := CalculateGhoDiscountRate(debt, discountToken)
	if got.Cmp(big.NewInt(1500)) != 0 {
		t.Fatalf("CalculateGhoDiscountRate 50%% coverage = %s, want 1500 (15%%)", got)
	}
}

func TestFactoryDispatchesKnownRevisions(t *testing.T) {
	if _, err := GetCollateralProcessor(3); err != nil {
		t.Fatalf("collateral revision 3 should resolve via TokenMathV1 grouping: %v", err)
	}
	if _, err := GetDebtProcessor(5); err != nil {
		t.Fatalf("debt revision 5 should resolve via TokenMathV5 grouping: %v", err)
	}
	if _, err := GetGhoProcessor(6); err != nil {
		t.Fatalf("gho revision 6 should resolve to the no-discount processor: %v", err)
	}
	if _, err := GetCollateralProcessor(2); err == nil {
		t.Fatal("collateral revision 2 was skipped on-chain and must be rejected")
	}
}
