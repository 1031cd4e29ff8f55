package concentrated

import (
	"math/big"

	"github.com/johnayoung/go-defi-engine/pkg/errkinds"
	"github.com/johnayoung/go-defi-engine/pkg/fixedpoint"
	"github.com/johnayoung/go-defi-engine/pkg/tickmap"
)

// State is an immutable concentrated-liquidity pool snapshot (spec §3
// "Pool state — Concentrated"). Swap never mutates State in place; it
// returns a candidate next state, matching the "internal simulation never
// mutates" lifecycle rule (spec §3 "Lifecycle").
type State struct {
	SqrtPriceX96     *big.Int
	CurrentTick      int32
	Liquidity        *big.Int
	FeePips          int64
	TickSpacing      int32
	Ticks            *tickmap.Map
	ProtocolFeePips  int64
	HasHooks         bool
	BlockNumberState uint64
}

// SwapResult is the outcome of a pool-level swap.
type SwapResult struct {
	AmountIn                 *big.Int
	AmountOut                *big.Int
	NextState                State
	PossibleInaccurateResult bool
}

// Swap executes a tick-crossing loop over State starting at the given
// direction and amount, stopping at sqrtPriceLimitX96 or when
// amountSpecified is exhausted (spec §4.E.2). amountSpecified is positive
// for exact-in, negative for exact-out — opposite sign convention from
// ComputeSwapStep's amountRemaining, matching the pool-level API's own
// caller-facing sign (a positive "how much do I want to spend/receive").
func Swap(s State, zeroForOne bool, amountSpecified *big.Int, sqrtPriceLimitX96 *big.Int) (SwapResult, error) {
	exactInput := amountSpecified.Sign() > 0

	if sqrtPriceLimitX96 == nil {
		if zeroForOne {
			sqrtPriceLimitX96 = new(big.Int).Add(fixedpoint.MinSqrtPrice, big.NewInt(1))
		} else {
			sqrtPriceLimitX96 = new(big.Int).Sub(fixedpoint.MaxSqrtPrice, big.NewInt(1))
		}
	}
	if zeroForOne {
		if sqrtPriceLimitX96.Cmp(fixedpoint.MinSqrtPrice) <= 0 || sqrtPriceLimitX96.Cmp(s.SqrtPriceX96) >= 0 {
			return SwapResult{}, &errkinds.InvalidSqrtPrice{SqrtPriceX96: sqrtPriceLimitX96.String()}
		}
	} else {
		if sqrtPriceLimitX96.Cmp(fixedpoint.MaxSqrtPrice) >= 0 || sqrtPriceLimitX96.Cmp(s.SqrtPriceX96) <= 0 {
			return SwapResult{}, &errkinds.InvalidSqrtPrice{SqrtPriceX96: sqrtPriceLimitX96.String()}
		}
	}

	amountRemaining := new(big.Int).Set(amountSpecified)
	if !exactInput {
		amountRemaining.Neg(amountRemaining)
	}

	sqrtPrice := new(big.Int).Set(s.SqrtPriceX96)
	tick := s.CurrentTick
	liquidity := new(big.Int).Set(s.Liquidity)

	amountInTotal := new(big.Int)
	amountOutTotal := new(big.Int)

	for amountRemaining.Sign() != 0 && sqrtPrice.Cmp(sqrtPriceLimitX96) != 0 {
		nextTick, initialized, err := s.Ticks.NextInitializedTickWithinOneWord(tick, zeroForOne)
		if err != nil {
			return SwapResult{}, err
		}
		if nextTick < -887272 {
			nextTick = -887272
		}
		if nextTick > 887272 {
			nextTick = 887272
		}

		nextSqrtPrice, err := fixedpoint.SqrtPriceAtTick(nextTick)
		if err != nil {
			return SwapResult{}, err
		}
		nextSqrtPriceBig := nextSqrtPrice.Big()

		var target *big.Int
		if zeroForOne {
			if nextSqrtPriceBig.Cmp(sqrtPriceLimitX96) < 0 {
				target = sqrtPriceLimitX96
			} else {
				target = nextSqrtPriceBig
			}
		} else {
			if nextSqrtPriceBig.Cmp(sqrtPriceLimitX96) > 0 {
				target = sqrtPriceLimitX96
			} else {
				target = nextSqrtPriceBig
			}
		}

		signedRemaining := new(big.Int).Set(amountRemaining)
		if exactInput {
			signedRemaining.Neg(signedRemaining)
		}

		step, err := ComputeSwapStep(sqrtPrice, target, liquidity, signedRemaining, s.FeePips)
		if err != nil {
			return SwapResult{}, err
		}

		if exactInput {
			consumed := new(big.Int).Add(step.AmountIn, step.FeeAmount)
			amountRemaining.Sub(amountRemaining, consumed)
			amountInTotal.Add(amountInTotal, consumed)
			amountOutTotal.Add(amountOutTotal, step.AmountOut)
		} else {
			amountRemaining.Sub(amountRemaining, step.AmountOut)
			amountInTotal.Add(amountInTotal, new(big.Int).Add(step.AmountIn, step.FeeAmount))
			amountOutTotal.Add(amountOutTotal, step.AmountOut)
		}

		if step.SqrtPriceNextX96.Cmp(target) == 0 && target.Cmp(nextSqrtPriceBig) == 0 && initialized {
			data, _ := s.Ticks.Tick(nextTick)
			delta := data.LiquidityNet
			if zeroForOne {
				delta = -delta
			}
			liquidity = addSignedToUnsigned(liquidity, delta)
			if zeroForOne {
				tick = nextTick - 1
			} else {
				tick = nextTick
			}
		} else if step.SqrtPriceNextX96.Cmp(sqrtPrice) != 0 {
			recomputed, err := fixedpoint.TickAtSqrtPriceBig(step.SqrtPriceNextX96)
			if err != nil {
				return SwapResult{}, err
			}
			tick = recomputed
		}
		sqrtPrice = step.SqrtPriceNextX96
	}

	result := SwapResult{
		AmountIn:  amountInTotal,
		AmountOut: amountOutTotal,
		NextState: State{
			SqrtPriceX96:     sqrtPrice,
			CurrentTick:      tick,
			Liquidity:        liquidity,
			FeePips:          s.FeePips,
			TickSpacing:      s.TickSpacing,
			Ticks:            s.Ticks,
			ProtocolFeePips:  s.ProtocolFeePips,
			HasHooks:         s.HasHooks,
			BlockNumberState: s.BlockNumberState,
		},
		PossibleInaccurateResult: s.HasHooks,
	}

	if amountRemaining.Sign() != 0 && sqrtPrice.Cmp(sqrtPriceLimitX96) != 0 {
		return result, &errkinds.IncompleteSwap{AmountRemaining: amountRemaining.String(), AmountFilled: amountOutTotal.String()}
	}
	return result, nil
}

func addSignedToUnsigned(liquidity *big.Int, delta int64) *big.Int {
	out := new(big.Int).Set(liquidity)
	out.Add(out, big.NewInt(delta))
	if out.Sign() < 0 {
		out.SetInt64(0)
	}
	return out
}
