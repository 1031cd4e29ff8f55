package scaling

import (
	"math/big"

	"github.com/johnayoung/go-defi-engine/pkg/evmtypes"
	"github.com/johnayoung/go-defi-engine/pkg/fixedpoint"
)

// CollateralProcessor computes scaled-balance deltas for aToken mint/burn
// events under one Aave revision's rounding discipline (spec §4.I).
type CollateralProcessor interface {
	Revision() int
	ProcessMintEvent(event CollateralMintEvent, scaledDelta *big.Int) (MintResult, error)
	ProcessBurnEvent(event CollateralBurnEvent, scaledDelta *big.Int) (BurnResult, error)
	CalculateScaledAmount(rawAmount, index *big.Int) (*big.Int, error)
}

func toRay(v *big.Int) (fixedpoint.Ray, error) {
	return evmtypes.NewUint256FromBig(v)
}

// CollateralV1Processor implements revisions 1 and 3's aToken scaling,
// grounded on aave/processors/collateral/v1.py. Mint/burn both use half-up
// ray_div throughout.
type CollateralV1Processor struct{}

func (CollateralV1Processor) Revision() int { return 1 }

// ProcessMintEvent distinguishes SUPPLY (value > balance_increase) from the
// interest-accrual leg emitted mid-WITHDRAW (balance_increase > value). When
// scaledDelta is non-nil it is used directly in the SUPPLY branch to avoid
// re-deriving a value the caller already computed more precisely.
func (CollateralV1Processor) ProcessMintEvent(event CollateralMintEvent, scaledDelta *big.Int) (MintResult, error) {
	if event.BalanceIncrease.Cmp(event.Value) > 0 {
		requested := new(big.Int).Sub(event.BalanceIncrease, event.Value)
		delta, err := rayDivBig(requested, event.Index)
		if err != nil {
			return MintResult{}, err
		}
		return MintResult{BalanceDelta: new(big.Int).Neg(delta), NewIndex: event.Index, IsRepay: true}, nil
	}
	requested := new(big.Int).Sub(event.Value, event.BalanceIncrease)
	delta := scaledDelta
	if delta == nil {
		d, err := rayDivBig(requested, event.Index)
		if err != nil {
			return MintResult{}, err
		}
		delta = d
	}
	return MintResult{BalanceDelta: delta, NewIndex: event.Index, IsRepay: false}, nil
}

// ProcessBurnEvent handles WITHDRAW: amount_to_burn = value +
// balance_increase, converted to scaled units via half-up ray_div.
func (CollateralV1Processor) ProcessBurnEvent(event CollateralBurnEvent, _ *big.Int) (BurnResult, error) {
	requested := new(big.Int).Add(event.Value, event.BalanceIncrease)
	delta, err := rayDivBig(requested, event.Index)
	if err != nil {
		return BurnResult{}, err
	}
	return BurnResult{BalanceDelta: new(big.Int).Neg(delta), NewIndex: event.Index}, nil
}

func (CollateralV1Processor) CalculateScaledAmount(rawAmount, index *big.Int) (*big.Int, error) {
	return rayDivBig(rawAmount, index)
}

// CollateralV5Processor implements revision 5+'s aToken scaling, grounded
// on aave/processors/collateral/v5.py: mints round down (ray_div_floor),
// burns round up (ray_div_ceil), and pure-interest-accrual mints (value ==
// balance_increase) leave the user's scaled balance untouched.
type CollateralV5Processor struct{}

func (CollateralV5Processor) Revision() int { return 5 }

func (CollateralV5Processor) ProcessMintEvent(event CollateralMintEvent, scaledDelta *big.Int) (MintResult, error) {
	switch {
	case event.BalanceIncrease.Cmp(event.Value) > 0:
		requested := new(big.Int).Sub(event.BalanceIncrease, event.Value)
		delta, err := rayDivBig(requested, event.Index)
		if err != nil {
			return MintResult{}, err
		}
		return MintResult{BalanceDelta: new(big.Int).Neg(delta), NewIndex: event.Index, IsRepay: true}, nil
	case event.Value.Cmp(event.BalanceIncrease) > 0:
		delta := scaledDelta
		if delta == nil {
			requested := new(big.Int).Sub(event.Value, event.BalanceIncrease)
			d, err := rayDivFloorBig(requested, event.Index)
			if err != nil {
				return MintResult{}, err
			}
			delta = d
		}
		return MintResult{BalanceDelta: delta, NewIndex: event.Index, IsRepay: false}, nil
	default:
		return MintResult{BalanceDelta: big.NewInt(0), NewIndex: event.Index, IsRepay: false}, nil
	}
}

// ProcessBurnEvent prefers a caller-supplied scaledDelta (pre-computed from
// the original WITHDRAW amount, since v5+ Burn events alone cannot recover
// the exact ceil-rounded scaled amount); falling back to event data is a
// best-effort approximation that may diverge by a wei.
func (CollateralV5Processor) ProcessBurnEvent(event CollateralBurnEvent, scaledDelta *big.Int) (BurnResult, error) {
	if scaledDelta != nil {
		return BurnResult{BalanceDelta: new(big.Int).Neg(scaledDelta), NewIndex: event.Index}, nil
	}
	requested := new(big.Int).Add(event.Value, event.BalanceIncrease)
	delta, err := rayDivCeilBig(requested, event.Index)
	if err != nil {
		return BurnResult{}, err
	}
	return BurnResult{BalanceDelta: new(big.Int).Neg(delta), NewIndex: event.Index}, nil
}

func (CollateralV5Processor) CalculateScaledAmount(rawAmount, index *big.Int) (*big.Int, error) {
	return rayDivFloorBig(rawAmount, index)
}

// CalculateBurnScaledAmount mirrors TokenMath.getATokenBurnScaledAmount's
// ceil rounding, used to pre-compute the scaledDelta a v5+ burn needs.
func (CollateralV5Processor) CalculateBurnScaledAmount(rawAmount, index *big.Int) (*big.Int, error) {
	return rayDivCeilBig(rawAmount, index)
}
