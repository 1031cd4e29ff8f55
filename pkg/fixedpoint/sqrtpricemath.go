package fixedpoint

import (
	"math/big"

	"github.com/johnayoung/go-defi-engine/pkg/errkinds"
	"github.com/johnayoung/go-defi-engine/pkg/evmtypes"
)

// Q96 is 2^96, the Q64.96 fixed-point denominator.
var Q96 = new(big.Int).Lsh(big.NewInt(1), 96)

var maxUint160Big = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 160), big.NewInt(1))

func divRoundingUp(x, y *big.Int) *big.Int {
	q, r := new(big.Int).QuoRem(x, y, new(big.Int))
	if r.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	return q
}

// GetAmount0Delta returns the amount of token0 required to move the price
// from sqrtPriceAX96 to sqrtPriceBX96 for the given liquidity, rounding per
// roundUp.
func GetAmount0Delta(sqrtPriceAX96, sqrtPriceBX96 *big.Int, liquidity *big.Int, roundUp bool) (*big.Int, error) {
	a, b := sqrtPriceAX96, sqrtPriceBX96
	if a.Cmp(b) > 0 {
		a, b = b, a
	}
	if a.Sign() == 0 {
		return nil, &errkinds.InvalidSqrtPrice{SqrtPriceX96: "0"}
	}
	numerator1 := new(big.Int).Lsh(liquidity, 96)
	numerator2 := new(big.Int).Sub(b, a)
	if roundUp {
		mdru := mulDivBigRoundingUp(numerator1, numerator2, b)
		return divRoundingUp(mdru, a), nil
	}
	return mulDivBig(numerator1, numerator2, b), nil
}

// GetAmount0DeltaSigned dispatches on the sign of a signed liquidity delta,
// matching the contract's signed overload used during tick-crossing.
func GetAmount0DeltaSigned(sqrtPriceAX96, sqrtPriceBX96 *big.Int, liquidity *big.Int) (*big.Int, error) {
	if liquidity.Sign() < 0 {
		d, err := GetAmount0Delta(sqrtPriceAX96, sqrtPriceBX96, new(big.Int).Neg(liquidity), false)
		if err != nil {
			return nil, err
		}
		return d, nil
	}
	d, err := GetAmount0Delta(sqrtPriceAX96, sqrtPriceBX96, liquidity, true)
	if err != nil {
		return nil, err
	}
	return new(big.Int).Neg(d), nil
}

// GetAmount1Delta returns the amount of token1 required to move the price
// from sqrtPriceAX96 to sqrtPriceBX96 for the given liquidity, rounding per
// roundUp.
func GetAmount1Delta(sqrtPriceAX96, sqrtPriceBX96 *big.Int, liquidity *big.Int, roundUp bool) *big.Int {
	numerator := new(big.Int).Abs(new(big.Int).Sub(sqrtPriceAX96, sqrtPriceBX96))
	result := mulDivBig(liquidity, numerator, Q96)
	if roundUp {
		prod := new(big.Int).Mul(liquidity, numerator)
		if new(big.Int).Mod(prod, Q96).Sign() != 0 {
			result.Add(result, big.NewInt(1))
		}
	}
	return result
}

// GetAmount1DeltaSigned dispatches on the sign of a signed liquidity delta.
func GetAmount1DeltaSigned(sqrtPriceAX96, sqrtPriceBX96 *big.Int, liquidity *big.Int) *big.Int {
	if liquidity.Sign() < 0 {
		return GetAmount1Delta(sqrtPriceAX96, sqrtPriceBX96, new(big.Int).Neg(liquidity), false)
	}
	return new(big.Int).Neg(GetAmount1Delta(sqrtPriceAX96, sqrtPriceBX96, liquidity, true))
}

// GetNextSqrtPriceFromAmount0RoundingUp computes the next sqrt price given a
// delta of token0, rounding up.
func GetNextSqrtPriceFromAmount0RoundingUp(sqrtPriceX96, liquidity, amount *big.Int, add bool) (*big.Int, error) {
	if amount.Sign() == 0 {
		return new(big.Int).Set(sqrtPriceX96), nil
	}
	numerator1 := new(big.Int).Lsh(liquidity, 96)
	product := new(big.Int).Mul(amount, sqrtPriceX96)

	if add {
		if product.Cmp(maxUint256) <= 0 {
			denominator := new(big.Int).Add(numerator1, product)
			if denominator.Cmp(numerator1) >= 0 {
				return mulDivBigRoundingUp(numerator1, sqrtPriceX96, denominator), nil
			}
		}
		denom := new(big.Int).Add(new(big.Int).Div(numerator1, sqrtPriceX96), amount)
		return divRoundingUp(numerator1, denom), nil
	}

	quotient := new(big.Int).Div(product, amount)
	if quotient.Cmp(sqrtPriceX96) != 0 || numerator1.Cmp(product) <= 0 {
		return nil, &errkinds.Overflow{Op: "GetNextSqrtPriceFromAmount0RoundingUp:PriceOverflow", Bits: 160}
	}
	result := mulDivBigRoundingUp(numerator1, sqrtPriceX96, new(big.Int).Sub(numerator1, product))
	if result.Cmp(maxUint160Big) > 0 {
		return nil, &errkinds.Overflow{Op: "GetNextSqrtPriceFromAmount0RoundingUp", Bits: 160}
	}
	return result, nil
}

// GetNextSqrtPriceFromAmount1RoundingDown computes the next sqrt price given
// a delta of token1, rounding down.
func GetNextSqrtPriceFromAmount1RoundingDown(sqrtPriceX96, liquidity, amount *big.Int, add bool) (*big.Int, error) {
	if add {
		var quotient *big.Int
		if amount.Cmp(maxUint160Big) <= 0 {
			quotient = new(big.Int).Div(new(big.Int).Lsh(amount, 96), liquidity)
		} else {
			quotient = mulDivBig(amount, Q96, liquidity)
		}
		result := new(big.Int).Add(sqrtPriceX96, quotient)
		if result.Cmp(maxUint160Big) > 0 {
			return nil, &errkinds.Overflow{Op: "GetNextSqrtPriceFromAmount1RoundingDown", Bits: 160}
		}
		return result, nil
	}

	var quotient *big.Int
	if amount.Cmp(maxUint160Big) <= 0 {
		quotient = divRoundingUp(new(big.Int).Lsh(amount, 96), liquidity)
	} else {
		quotient = mulDivBigRoundingUp(amount, Q96, liquidity)
	}
	if sqrtPriceX96.Cmp(quotient) <= 0 {
		return nil, &errkinds.Overflow{Op: "GetNextSqrtPriceFromAmount1RoundingDown:NotEnoughLiquidity", Bits: 160}
	}
	return new(big.Int).Sub(sqrtPriceX96, quotient), nil
}

// GetNextSqrtPriceFromInput computes the next sqrt price given an exact
// input amount, rounding to ensure the target price is never overshot.
func GetNextSqrtPriceFromInput(sqrtPriceX96, liquidity, amountIn *big.Int, zeroForOne bool) (*big.Int, error) {
	if sqrtPriceX96.Sign() == 0 || liquidity.Sign() == 0 {
		return nil, &errkinds.Overflow{Op: "GetNextSqrtPriceFromInput:InvalidPriceOrLiquidity", Bits: 160}
	}
	if zeroForOne {
		return GetNextSqrtPriceFromAmount0RoundingUp(sqrtPriceX96, liquidity, amountIn, true)
	}
	return GetNextSqrtPriceFromAmount1RoundingDown(sqrtPriceX96, liquidity, amountIn, true)
}

// GetNextSqrtPriceFromOutput computes the next sqrt price given an exact
// output amount, rounding to ensure the target price is never overshot.
func GetNextSqrtPriceFromOutput(sqrtPriceX96, liquidity, amountOut *big.Int, zeroForOne bool) (*big.Int, error) {
	if sqrtPriceX96.Sign() == 0 || liquidity.Sign() == 0 {
		return nil, &errkinds.Overflow{Op: "GetNextSqrtPriceFromOutput:InvalidPriceOrLiquidity", Bits: 160}
	}
	if zeroForOne {
		return GetNextSqrtPriceFromAmount1RoundingDown(sqrtPriceX96, liquidity, amountOut, false)
	}
	return GetNextSqrtPriceFromAmount0RoundingUp(sqrtPriceX96, liquidity, amountOut, false)
}

// bigFromUint256 is a convenience bridge for callers holding evmtypes words.
func bigFromUint256(x evmtypes.Uint256) *big.Int { return x.Big() }
