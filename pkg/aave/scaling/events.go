// Package scaling implements Aave's per-revision scaled-balance accounting
// (spec §4.I): collateral (aToken) and debt (vToken) mint/burn processors,
// and the GHO discount mechanism, grounded file-for-file on
// original_source/.../aave/processors/{collateral,debt,debt/gho}/*.py and
// the TokenMath factory in original_source/.../aave/libraries/token_math.py.
package scaling

import "math/big"

// CollateralMintEvent carries the raw Transfer/Mint log data for an aToken
// mint, grounded on aave/processors/base.py's CollateralMintEvent.
type CollateralMintEvent struct {
	Value           *big.Int
	BalanceIncrease *big.Int
	Index           *big.Int
}

// CollateralBurnEvent carries the raw log data for an aToken burn.
type CollateralBurnEvent struct {
	Value           *big.Int
	BalanceIncrease *big.Int
	Index           *big.Int
}

// DebtMintEvent carries the raw log data for a vToken mint (BORROW or the
// interest-accrual leg of REPAY).
type DebtMintEvent struct {
	Caller          string
	OnBehalfOf      string
	Value           *big.Int
	BalanceIncrease *big.Int
	Index           *big.Int
}

// DebtBurnEvent carries the raw log data for a vToken burn (REPAY).
type DebtBurnEvent struct {
	From            string
	Target          string
	Value           *big.Int
	BalanceIncrease *big.Int
	Index           *big.Int
}

// MintResult is a processor's verdict on a collateral or non-GHO debt mint
// event: the user's scaled-balance delta, the index it was computed at, and
// whether the event actually represents a repay/withdraw leg rather than a
// fresh supply/borrow.
type MintResult struct {
	BalanceDelta *big.Int
	NewIndex     *big.Int
	IsRepay      bool
}

// BurnResult is a processor's verdict on a collateral or non-GHO debt burn
// event.
type BurnResult struct {
	BalanceDelta *big.Int
	NewIndex     *big.Int
}

// GhoUserOperation classifies which on-chain action produced a GHO mint
// event, since GHO's discount bookkeeping branches on it.
type GhoUserOperation int

const (
	GhoBorrow GhoUserOperation = iota
	GhoRepay
	GhoInterestAccrual
)

// GhoMintResult extends MintResult with the discount bookkeeping GHO's
// variable debt token requires.
type GhoMintResult struct {
	BalanceDelta          *big.Int
	NewIndex              *big.Int
	UserOperation         GhoUserOperation
	DiscountScaled        *big.Int
	ShouldRefreshDiscount bool
}

// GhoBurnResult extends BurnResult with GHO's discount bookkeeping.
type GhoBurnResult struct {
	BalanceDelta          *big.Int
	NewIndex              *big.Int
	DiscountScaled        *big.Int
	ShouldRefreshDiscount bool
}
