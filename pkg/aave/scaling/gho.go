package scaling

import "math/big"

// GhoProcessor extends DebtProcessor with the discount mechanism GHO's
// variable debt token applies on top of standard borrow/repay accounting.
type GhoProcessor interface {
	Revision() int
	SupportsDiscount() bool
	ProcessMintEvent(event DebtMintEvent, previousBalance, previousIndex, previousDiscount *big.Int) (GhoMintResult, error)
	ProcessBurnEvent(event DebtBurnEvent, previousBalance, previousIndex, previousDiscount *big.Int) (GhoBurnResult, error)
	AccrueDebtOnAction(previousScaledBalance, previousIndex, discountPercent, currentIndex *big.Int) (*big.Int, error)
	GetDiscountedBalance(scaledBalance, previousIndex, currentIndex, discountPercent *big.Int) (*big.Int, error)
}

// GhoV1Processor implements GHO revision 1's full discount mechanism,
// grounded on aave/processors/debt/gho/v1.py.
type GhoV1Processor struct{}

func (GhoV1Processor) Revision() int        { return 1 }
func (GhoV1Processor) SupportsDiscount() bool { return true }

// AccrueDebtOnAction computes the scaled discount owed on the interest
// accrued since previousIndex, stateless (spec §4.I "_accrueDebtOnAction").
func (GhoV1Processor) AccrueDebtOnAction(previousScaledBalance, previousIndex, discountPercent, currentIndex *big.Int) (*big.Int, error) {
	atCurrent, err := rayMulBig(previousScaledBalance, currentIndex)
	if err != nil {
		return nil, err
	}
	atPrevious, err := rayMulBig(previousScaledBalance, previousIndex)
	if err != nil {
		return nil, err
	}
	balanceIncrease := new(big.Int).Sub(atCurrent, atPrevious)

	if balanceIncrease.Sign() == 0 || discountPercent.Sign() == 0 {
		return big.NewInt(0), nil
	}
	discount, err := PercentMul(balanceIncrease, discountPercent)
	if err != nil {
		return nil, err
	}
	return rayDivBig(discount, currentIndex)
}

// ProcessMintEvent handles GHO_BORROW, GHO_REPAY, and the pure-interest-
// accrual leg, netting the raw scaled amount against the discount earned
// this action.
func (p GhoV1Processor) ProcessMintEvent(event DebtMintEvent, previousBalance, previousIndex, previousDiscount *big.Int) (GhoMintResult, error) {
	discountScaled, err := p.AccrueDebtOnAction(previousBalance, previousIndex, previousDiscount, event.Index)
	if err != nil {
		return GhoMintResult{}, err
	}

	var balanceDelta *big.Int
	var op GhoUserOperation
	switch {
	case event.Value.Cmp(event.BalanceIncrease) > 0:
		requested := new(big.Int).Sub(event.Value, event.BalanceIncrease)
		amountScaled, err := rayDivBig(requested, event.Index)
		if err != nil {
			return GhoMintResult{}, err
		}
		if amountScaled.Cmp(discountScaled) > 0 {
			balanceDelta = new(big.Int).Sub(amountScaled, discountScaled)
		} else {
			balanceDelta = new(big.Int).Neg(new(big.Int).Sub(discountScaled, amountScaled))
		}
		op = GhoBorrow
	case event.BalanceIncrease.Cmp(event.Value) > 0:
		requested := new(big.Int).Sub(event.BalanceIncrease, event.Value)
		amountScaled, err := rayDivBig(requested, event.Index)
		if err != nil {
			return GhoMintResult{}, err
		}
		balanceDelta = new(big.Int).Neg(new(big.Int).Add(amountScaled, discountScaled))
		op = GhoRepay
	default:
		balanceDelta = new(big.Int).Neg(discountScaled)
		op = GhoInterestAccrual
	}

	return GhoMintResult{
		BalanceDelta:          balanceDelta,
		NewIndex:              event.Index,
		UserOperation:         op,
		DiscountScaled:        discountScaled,
		ShouldRefreshDiscount: true,
	}, nil
}

// ProcessBurnEvent handles GHO_REPAY: the burned scaled amount is
// amount_scaled + discount_scaled, matching Solidity's
// `_burn(user, (amountScaled + discountScaled))`.
func (p GhoV1Processor) ProcessBurnEvent(event DebtBurnEvent, previousBalance, previousIndex, previousDiscount *big.Int) (GhoBurnResult, error) {
	requested := new(big.Int).Add(event.Value, event.BalanceIncrease)
	amountScaled, err := rayDivBig(requested, event.Index)
	if err != nil {
		return GhoBurnResult{}, err
	}
	discountScaled, err := p.AccrueDebtOnAction(previousBalance, previousIndex, previousDiscount, event.Index)
	if err != nil {
		return GhoBurnResult{}, err
	}
	balanceDelta := new(big.Int).Neg(new(big.Int).Add(amountScaled, discountScaled))
	return GhoBurnResult{
		BalanceDelta:          balanceDelta,
		NewIndex:              event.Index,
		DiscountScaled:        discountScaled,
		ShouldRefreshDiscount: true,
	}, nil
}

// GetDiscountedBalance applies discountPercent to the interest accrued
// between previousIndex and currentIndex.
func (GhoV1Processor) GetDiscountedBalance(scaledBalance, previousIndex, currentIndex, discountPercent *big.Int) (*big.Int, error) {
	if scaledBalance.Sign() == 0 {
		return big.NewInt(0), nil
	}
	balance, err := rayMulBig(scaledBalance, currentIndex)
	if err != nil {
		return nil, err
	}
	if currentIndex.Cmp(previousIndex) == 0 {
		return balance, nil
	}
	if discountPercent.Sign() != 0 {
		atPrevious, err := rayMulBig(scaledBalance, previousIndex)
		if err != nil {
			return nil, err
		}
		balanceIncrease := new(big.Int).Sub(balance, atPrevious)
		discount, err := PercentMul(balanceIncrease, discountPercent)
		if err != nil {
			return nil, err
		}
		balance.Sub(balance, discount)
	}
	return balance, nil
}

// GhoV2Processor implements GHO revisions 2-3, grounded on
// aave/processors/debt/gho/v2.py. It embeds GhoV1Processor's discount
// accrual but adds full-repayment detection: when the requested repay
// amount exactly matches the discounted balance, the entire scaled balance
// is burned directly rather than recomputed through amount_scaled +
// discount_scaled, avoiding a residual dust balance from rounding.
type GhoV2Processor struct {
	GhoV1Processor
}

func (GhoV2Processor) Revision() int { return 2 }

func (p GhoV2Processor) ProcessMintEvent(event DebtMintEvent, previousBalance, previousIndex, previousDiscount *big.Int) (GhoMintResult, error) {
	discountScaled, err := p.AccrueDebtOnAction(previousBalance, previousIndex, previousDiscount, event.Index)
	if err != nil {
		return GhoMintResult{}, err
	}

	var balanceDelta *big.Int
	var op GhoUserOperation
	switch {
	case event.Value.Cmp(event.BalanceIncrease) > 0:
		requested := new(big.Int).Sub(event.Value, event.BalanceIncrease)
		amountScaled, err := rayDivBig(requested, event.Index)
		if err != nil {
			return GhoMintResult{}, err
		}
		if amountScaled.Cmp(discountScaled) > 0 {
			balanceDelta = new(big.Int).Sub(amountScaled, discountScaled)
		} else {
			balanceDelta = new(big.Int).Neg(new(big.Int).Sub(discountScaled, amountScaled))
		}
		op = GhoBorrow
	case event.BalanceIncrease.Cmp(event.Value) > 0:
		requested := new(big.Int).Sub(event.BalanceIncrease, event.Value)
		amountScaled, err := rayDivBig(requested, event.Index)
		if err != nil {
			return GhoMintResult{}, err
		}
		balanceBeforeBurn, err := p.GetDiscountedBalance(previousBalance, previousIndex, event.Index, previousDiscount)
		if err != nil {
			return GhoMintResult{}, err
		}
		if requested.Cmp(balanceBeforeBurn) == 0 {
			balanceDelta = new(big.Int).Neg(previousBalance)
		} else {
			balanceDelta = new(big.Int).Neg(new(big.Int).Add(amountScaled, discountScaled))
		}
		op = GhoRepay
	default:
		balanceDelta = new(big.Int).Neg(discountScaled)
		op = GhoInterestAccrual
	}

	return GhoMintResult{
		BalanceDelta:          balanceDelta,
		NewIndex:              event.Index,
		UserOperation:         op,
		DiscountScaled:        discountScaled,
		ShouldRefreshDiscount: true,
	}, nil
}

func (p GhoV2Processor) ProcessBurnEvent(event DebtBurnEvent, previousBalance, previousIndex, previousDiscount *big.Int) (GhoBurnResult, error) {
	requested := new(big.Int).Add(event.Value, event.BalanceIncrease)
	amountScaled, err := rayDivBig(requested, event.Index)
	if err != nil {
		return GhoBurnResult{}, err
	}
	balanceBeforeBurn, err := p.GetDiscountedBalance(previousBalance, previousIndex, event.Index, previousDiscount)
	if err != nil {
		return GhoBurnResult{}, err
	}
	discountScaled, err := p.AccrueDebtOnAction(previousBalance, previousIndex, previousDiscount, event.Index)
	if err != nil {
		return GhoBurnResult{}, err
	}

	var balanceDelta *big.Int
	if requested.Cmp(balanceBeforeBurn) == 0 {
		balanceDelta = new(big.Int).Neg(previousBalance)
	} else {
		balanceDelta = new(big.Int).Neg(new(big.Int).Add(amountScaled, discountScaled))
	}

	return GhoBurnResult{
		BalanceDelta:          balanceDelta,
		NewIndex:              event.Index,
		DiscountScaled:        discountScaled,
		ShouldRefreshDiscount: true,
	}, nil
}

// GhoV4Processor implements GHO revisions 4+ with the discount mechanism
// deprecated, grounded on aave/processors/debt/gho/v4.py. Mints round up
// (ray_div_ceil) on borrow, burns round down (ray_div_floor).
type GhoV4Processor struct{}

func (GhoV4Processor) Revision() int          { return 4 }
func (GhoV4Processor) SupportsDiscount() bool { return false }

func (GhoV4Processor) AccrueDebtOnAction(*big.Int, *big.Int, *big.Int, *big.Int) (*big.Int, error) {
	return big.NewInt(0), nil
}

func (GhoV4Processor) ProcessMintEvent(event DebtMintEvent, previousBalance, previousIndex, _ *big.Int) (GhoMintResult, error) {
	var balanceDelta *big.Int
	var op GhoUserOperation
	switch {
	case event.Value.Cmp(event.BalanceIncrease) > 0:
		requested := new(big.Int).Sub(event.Value, event.BalanceIncrease)
		delta, err := rayDivCeilBig(requested, event.Index)
		if err != nil {
			return GhoMintResult{}, err
		}
		balanceDelta = delta
		op = GhoBorrow
	case event.BalanceIncrease.Cmp(event.Value) > 0:
		requested := new(big.Int).Sub(event.BalanceIncrease, event.Value)
		delta, err := rayDivFloorBig(requested, event.Index)
		if err != nil {
			return GhoMintResult{}, err
		}
		balanceDelta = new(big.Int).Neg(delta)
		op = GhoRepay
	default:
		atCurrent, err := rayMulBig(previousBalance, event.Index)
		if err != nil {
			return GhoMintResult{}, err
		}
		atPrevious, err := rayMulBig(previousBalance, previousIndex)
		if err != nil {
			return GhoMintResult{}, err
		}
		increase := new(big.Int).Sub(atCurrent, atPrevious)
		delta, err := rayDivBig(increase, event.Index)
		if err != nil {
			return GhoMintResult{}, err
		}
		balanceDelta = delta
		op = GhoInterestAccrual
	}

	return GhoMintResult{
		BalanceDelta:          balanceDelta,
		NewIndex:              event.Index,
		UserOperation:         op,
		DiscountScaled:        big.NewInt(0),
		ShouldRefreshDiscount: false,
	}, nil
}

func (GhoV4Processor) ProcessBurnEvent(event DebtBurnEvent, _, _, _ *big.Int) (GhoBurnResult, error) {
	requested := new(big.Int).Add(event.Value, event.BalanceIncrease)
	delta, err := rayDivFloorBig(requested, event.Index)
	if err != nil {
		return GhoBurnResult{}, err
	}
	return GhoBurnResult{
		BalanceDelta:          new(big.Int).Neg(delta),
		NewIndex:              event.Index,
		DiscountScaled:        big.NewInt(0),
		ShouldRefreshDiscount: false,
	}, nil
}

func (GhoV4Processor) GetDiscountedBalance(scaledBalance, _, currentIndex, _ *big.Int) (*big.Int, error) {
	if scaledBalance.Sign() == 0 {
		return big.NewInt(0), nil
	}
	return rayMulBig(scaledBalance, currentIndex)
}

// GhoV5Processor embeds GhoV4Processor (revisions 5+ share its mint/burn
// logic) and adds the explicit pre-computation helpers
// aave/processors/debt/gho/v5.py exposes for callers that need the scaled
// delta before constructing the event.
type GhoV5Processor struct {
	GhoV4Processor
}

func (GhoV5Processor) Revision() int { return 5 }

// CalculateMintScaledAmount mirrors TokenMath.getVTokenMintScaledAmount
// (ceiling division).
func (GhoV5Processor) CalculateMintScaledAmount(rawAmount, index *big.Int) (*big.Int, error) {
	return rayDivCeilBig(rawAmount, index)
}

// CalculateBurnScaledAmount mirrors TokenMath.getVTokenBurnScaledAmount
// (floor division).
func (GhoV5Processor) CalculateBurnScaledAmount(rawAmount, index *big.Int) (*big.Int, error) {
	return rayDivFloorBig(rawAmount, index)
}
