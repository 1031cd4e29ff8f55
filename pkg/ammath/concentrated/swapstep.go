// Package concentrated implements the Uniswap V3/V4-style concentrated
// liquidity swap engine: the single-step swap math of compute_swap_step and
// the pool-level tick-crossing loop built on top of it. Tick and sqrt-price
// conversions and the amount-delta primitives come from pkg/fixedpoint,
// grounded bit-for-bit on the degenbot v4_libraries. The package imports no
// third-party library; fee tiers are plain pips values and tokens are not
// represented here.
package concentrated

import (
	"math/big"

	"github.com/johnayoung/go-defi-engine/pkg/errkinds"
	"github.com/johnayoung/go-defi-engine/pkg/fixedpoint"
)

// MaxSwapFee is the fee denominator in hundredths of a basis point (pips).
const MaxSwapFee = 1_000_000

// SwapStepResult carries the outputs of a single compute_swap_step call.
type SwapStepResult struct {
	SqrtPriceNextX96 *big.Int
	AmountIn         *big.Int
	AmountOut        *big.Int
	FeeAmount        *big.Int
}

// ComputeSwapStep computes the result of swapping within a single tick's
// constant liquidity, targeting sqrtPriceTargetX96 or exhausting
// amountRemaining, whichever binds first. amountRemaining is signed:
// negative means exact-input, positive means exact-output (spec §4.E.1).
func ComputeSwapStep(
	sqrtPriceCurrentX96, sqrtPriceTargetX96 *big.Int,
	liquidity *big.Int,
	amountRemaining *big.Int,
	feePips int64,
) (SwapStepResult, error) {
	zeroForOne := sqrtPriceCurrentX96.Cmp(sqrtPriceTargetX96) >= 0
	exactIn := amountRemaining.Sign() < 0

	feePipsBig := big.NewInt(feePips)
	maxFeeBig := big.NewInt(MaxSwapFee)

	var res SwapStepResult

	if exactIn {
		absAmount := new(big.Int).Neg(amountRemaining)
		feeComplement := new(big.Int).Sub(maxFeeBig, feePipsBig)
		remainingLessFee, err := fixedpoint.MulDivBigPublic(absAmount, feeComplement, maxFeeBig)
		if err != nil {
			return res, err
		}

		var amountInToTarget *big.Int
		if zeroForOne {
			amountInToTarget, err = fixedpoint.GetAmount0Delta(sqrtPriceTargetX96, sqrtPriceCurrentX96, liquidity, true)
			if err != nil {
				return res, err
			}
		} else {
			amountInToTarget = fixedpoint.GetAmount1Delta(sqrtPriceCurrentX96, sqrtPriceTargetX96, liquidity, true)
		}

		if remainingLessFee.Cmp(amountInToTarget) >= 0 {
			res.SqrtPriceNextX96 = new(big.Int).Set(sqrtPriceTargetX96)
			if feePips == MaxSwapFee {
				res.FeeAmount = new(big.Int).Set(absAmount)
			} else {
				res.FeeAmount, err = fixedpoint.MulDivBigRoundingUpPublic(amountInToTarget, feePipsBig, feeComplement)
				if err != nil {
					return res, err
				}
			}
			res.AmountIn = amountInToTarget
		} else {
			res.AmountIn = remainingLessFee
			next, err := fixedpoint.GetNextSqrtPriceFromInput(sqrtPriceCurrentX96, liquidity, remainingLessFee, zeroForOne)
			if err != nil {
				return res, err
			}
			res.SqrtPriceNextX96 = next
			res.FeeAmount = new(big.Int).Sub(absAmount, remainingLessFee)
		}

		if zeroForOne {
			res.AmountOut = fixedpoint.GetAmount1Delta(sqrtPriceCurrentX96, res.SqrtPriceNextX96, liquidity, false)
		} else {
			res.AmountOut, err = fixedpoint.GetAmount0Delta(sqrtPriceCurrentX96, res.SqrtPriceNextX96, liquidity, false)
			if err != nil {
				return res, err
			}
		}
		return res, nil
	}

	// Exact-out path.
	if feePips == MaxSwapFee {
		return res, &errkinds.Overflow{Op: "ComputeSwapStep:exact-out disallows fee=MaxSwapFee", Bits: 24}
	}

	var amountOutOfTarget *big.Int
	var err error
	if zeroForOne {
		amountOutOfTarget = fixedpoint.GetAmount1Delta(sqrtPriceTargetX96, sqrtPriceCurrentX96, liquidity, false)
	} else {
		amountOutOfTarget, err = fixedpoint.GetAmount0Delta(sqrtPriceCurrentX96, sqrtPriceTargetX96, liquidity, false)
		if err != nil {
			return res, err
		}
	}
	if amountRemaining.Cmp(amountOutOfTarget) >= 0 {
		res.SqrtPriceNextX96 = new(big.Int).Set(sqrtPriceTargetX96)
		res.AmountOut = amountOutOfTarget
	} else {
		res.AmountOut = new(big.Int).Set(amountRemaining)
		next, err := fixedpoint.GetNextSqrtPriceFromOutput(sqrtPriceCurrentX96, liquidity, amountRemaining, zeroForOne)
		if err != nil {
			return res, err
		}
		res.SqrtPriceNextX96 = next
	}

	if zeroForOne {
		res.AmountIn, err = fixedpoint.GetAmount0Delta(res.SqrtPriceNextX96, sqrtPriceCurrentX96, liquidity, true)
	} else {
		res.AmountIn = fixedpoint.GetAmount1Delta(sqrtPriceCurrentX96, res.SqrtPriceNextX96, liquidity, true)
	}
	if err != nil {
		return res, err
	}

	feeComplement := new(big.Int).Sub(maxFeeBig, feePipsBig)
	res.FeeAmount, err = fixedpoint.MulDivBigRoundingUpPublic(res.AmountIn, feePipsBig, feeComplement)
	if err != nil {
		return res, err
	}
	return res, nil
}
