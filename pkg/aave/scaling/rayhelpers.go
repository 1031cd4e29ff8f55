package scaling

import (
	"math/big"

	"github.com/johnayoung/go-defi-engine/pkg/fixedpoint"
)

// rayDivBig/rayDivFloorBig/rayDivCeilBig/rayMulBig adapt
// pkg/fixedpoint's Uint256-typed Ray operations to the plain *big.Int
// values event logs are decoded into, since every quantity flowing through
// the Aave processors (amounts, indices, balances) is already known
// non-negative at this layer.
func rayDivBig(a, b *big.Int) (*big.Int, error) {
	ra, err := toRay(a)
	if err != nil {
		return nil, err
	}
	rb, err := toRay(b)
	if err != nil {
		return nil, err
	}
	result, err := fixedpoint.RayDiv(ra, rb)
	if err != nil {
		return nil, err
	}
	return result.Big(), nil
}

func rayDivFloorBig(a, b *big.Int) (*big.Int, error) {
	ra, err := toRay(a)
	if err != nil {
		return nil, err
	}
	rb, err := toRay(b)
	if err != nil {
		return nil, err
	}
	result, err := fixedpoint.RayDivFloor(ra, rb)
	if err != nil {
		return nil, err
	}
	return result.Big(), nil
}

func rayDivCeilBig(a, b *big.Int) (*big.Int, error) {
	ra, err := toRay(a)
	if err != nil {
		return nil, err
	}
	rb, err := toRay(b)
	if err != nil {
		return nil, err
	}
	result, err := fixedpoint.RayDivCeil(ra, rb)
	if err != nil {
		return nil, err
	}
	return result.Big(), nil
}

func rayMulBig(a, b *big.Int) (*big.Int, error) {
	ra, err := toRay(a)
	if err != nil {
		return nil, err
	}
	rb, err := toRay(b)
	if err != nil {
		return nil, err
	}
	result, err := fixedpoint.RayMul(ra, rb)
	if err != nil {
		return nil, err
	}
	return result.Big(), nil
}
