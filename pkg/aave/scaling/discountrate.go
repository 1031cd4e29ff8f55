package scaling

import "math/big"

// GHO discount-rate strategy constants, grounded on
// original_source/tests/cli/test_aave_discount_rate.py (the strategy
// contract's Python wrapper, degenbot.cli.aave, was not itself retrieved —
// these values and the formula below are read off the test's fork-mainnet
// assertions against the live GhoDiscountRateStrategy contract).
var (
	MinDebtTokenBalance           = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	MinDiscountTokenBalance       = new(big.Int).Exp(big.NewInt(10), big.NewInt(15), nil)
	DiscountRateBps               = big.NewInt(3000)
	ghoDiscountedPerDiscountToken = new(big.Int).Mul(big.NewInt(100), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
	wad                           = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
)

// CalculateGhoDiscountRate computes the basis-point discount percent a GHO
// borrower earns from holding stkAAVE, mirroring GhoDiscountRateStrategy's
// on-chain calculateDiscountRate(uint256,uint256).
//
// Below the minimum debt or discount-token balance the discount is zero;
// once the discount token's coverage (at 100 GHO discounted per token)
// reaches or exceeds the debt balance the full DISCOUNT_RATE_BPS applies;
// otherwise the rate scales linearly with coverage.
func CalculateGhoDiscountRate(debtBalance, discountTokenBalance *big.Int) *big.Int {
	if debtBalance.Cmp(MinDebtTokenBalance) < 0 || discountTokenBalance.Cmp(MinDiscountTokenBalance) < 0 {
		return big.NewInt(0)
	}
	discountedBalance := new(big.Int).Mul(discountTokenBalance, ghoDiscountedPerDiscountToken)
	discountedBalance.Div(discountedBalance, wad)

	if discountedBalance.Cmp(debtBalance) >= 0 {
		return new(big.Int).Set(DiscountRateBps)
	}
	rate := new(big.Int).Mul(discountedBalance, DiscountRateBps)
	rate.Div(rate, debtBalance)
	return rate
}
