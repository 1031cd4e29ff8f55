package scaling

import (
	"math/big"

	"github.com/johnayoung/go-defi-engine/pkg/errkinds"
)

// PercentageFactor and HalfPercentageFactor are Aave's basis-point scale
// (10000 = 100%), grounded on
// original_source/.../aave/libraries/percentage_math.py.
var (
	PercentageFactor     = big.NewInt(10000)
	HalfPercentageFactor = big.NewInt(5000)
	maxUint256Percentage  = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
)

// PercentMul computes floor((value*percentage + HALF_PERCENTAGE_FACTOR) /
// PERCENTAGE_FACTOR), failing on overflow exactly as the Solidity library
// does (checked via the same `value > (MAX_UINT256-HALF)/percentage` guard).
func PercentMul(value, percentage *big.Int) (*big.Int, error) {
	if percentage.Sign() == 0 {
		return big.NewInt(0), nil
	}
	limit := new(big.Int).Sub(maxUint256Percentage, HalfPercentageFactor)
	limit.Div(limit, percentage)
	if value.Cmp(limit) > 0 {
		return nil, &errkinds.Overflow{Op: "PercentMul", Bits: 256, Operands: []string{value.String(), percentage.String()}}
	}
	result := new(big.Int).Mul(value, percentage)
	result.Add(result, HalfPercentageFactor)
	result.Div(result, PercentageFactor)
	return result, nil
}

// PercentDiv computes floor((value*PERCENTAGE_FACTOR + percentage/2) /
// percentage), failing on a zero percentage or overflow.
func PercentDiv(value, percentage *big.Int) (*big.Int, error) {
	if percentage.Sign() == 0 {
		return nil, &errkinds.ZeroDivision{Op: "PercentDiv"}
	}
	halfPercentage := new(big.Int).Div(percentage, big.NewInt(2))
	limit := new(big.Int).Sub(maxUint256Percentage, halfPercentage)
	limit.Div(limit, PercentageFactor)
	if value.Cmp(limit) > 0 {
		return nil, &errkinds.Overflow{Op: "PercentDiv", Bits: 256, Operands: []string{value.String(), percentage.String()}}
	}
	result := new(big.Int).Mul(value, PercentageFactor)
	result.Add(result, halfPercentage)
	result.Div(result, percentage)
	return result, nil
}
