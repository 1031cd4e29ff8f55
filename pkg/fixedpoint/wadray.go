package fixedpoint

import (
	"math/big"

	"github.com/johnayoung/go-defi-engine/pkg/errkinds"
	"github.com/johnayoung/go-defi-engine/pkg/evmtypes"
)

// Wad and Ray are unsigned fixed-point numbers with 18 and 27 decimal
// places respectively, matching Aave's WadRayMath library.
type (
	Wad = evmtypes.Uint256
	Ray = evmtypes.Uint256
)

var (
	WAD           = big.NewInt(1_000_000_000_000_000_000)
	HalfWad       = new(big.Int).Div(WAD, big.NewInt(2))
	RAY, _        = new(big.Int).SetString("1000000000000000000000000000", 10)
	HalfRay       = new(big.Int).Div(RAY, big.NewInt(2))
	WadRayRatio   = big.NewInt(1_000_000_000)
	halfWadRayRat = new(big.Int).Div(WadRayRatio, big.NewInt(2))
)

func checkFits256(x *big.Int, op string) error {
	if x.Cmp(maxUint256) > 0 {
		return &errkinds.Overflow{Op: op, Bits: 256}
	}
	return nil
}

// WadMul computes half-up (a*b + HALF_WAD) / WAD.
func WadMul(a, b Wad) (Wad, error) {
	ab := a.Big()
	bb := b.Big()
	if bb.Sign() != 0 {
		limit := new(big.Int).Div(new(big.Int).Sub(maxUint256, HalfWad), bb)
		if ab.Cmp(limit) > 0 {
			return Wad{}, &errkinds.Overflow{Op: "WadMul", Bits: 256, Operands: []string{a.String(), b.String()}}
		}
	}
	result := new(big.Int).Add(new(big.Int).Mul(ab, bb), HalfWad)
	result.Div(result, WAD)
	return evmtypes.NewUint256FromBig(result)
}

// WadDiv computes half-up (a*WAD + b/2) / b.
func WadDiv(a, b Wad) (Wad, error) {
	bb := b.Big()
	if bb.Sign() == 0 {
		return Wad{}, &errkinds.ZeroDivision{Op: "WadDiv"}
	}
	ab := a.Big()
	half := new(big.Int).Div(bb, big.NewInt(2))
	limit := new(big.Int).Div(new(big.Int).Sub(maxUint256, half), WAD)
	if ab.Cmp(limit) > 0 {
		return Wad{}, &errkinds.Overflow{Op: "WadDiv", Bits: 256, Operands: []string{a.String(), b.String()}}
	}
	result := new(big.Int).Add(new(big.Int).Mul(ab, WAD), half)
	result.Div(result, bb)
	return evmtypes.NewUint256FromBig(result)
}

// RayMul computes half-up (a*b + HALF_RAY) / RAY.
func RayMul(a, b Ray) (Ray, error) {
	ab, bb := a.Big(), b.Big()
	if bb.Sign() != 0 {
		limit := new(big.Int).Div(new(big.Int).Sub(maxUint256, HalfRay), bb)
		if ab.Cmp(limit) > 0 {
			return Ray{}, &errkinds.Overflow{Op: "RayMul", Bits: 256, Operands: []string{a.String(), b.String()}}
		}
	}
	result := new(big.Int).Add(new(big.Int).Mul(ab, bb), HalfRay)
	result.Div(result, RAY)
	return evmtypes.NewUint256FromBig(result)
}

// RayMulFloor computes (a*b) / RAY.
func RayMulFloor(a, b Ray) (Ray, error) {
	ab, bb := a.Big(), b.Big()
	if bb.Sign() != 0 && ab.Cmp(new(big.Int).Div(maxUint256, bb)) > 0 {
		return Ray{}, &errkinds.Overflow{Op: "RayMulFloor", Bits: 256, Operands: []string{a.String(), b.String()}}
	}
	return evmtypes.NewUint256FromBig(mulDivBig(ab, bb, RAY))
}

// RayMulCeil computes (a*b)/RAY + [a*b mod RAY != 0].
func RayMulCeil(a, b Ray) (Ray, error) {
	ab, bb := a.Big(), b.Big()
	if bb.Sign() != 0 && ab.Cmp(new(big.Int).Div(maxUint256, bb)) > 0 {
		return Ray{}, &errkinds.Overflow{Op: "RayMulCeil", Bits: 256, Operands: []string{a.String(), b.String()}}
	}
	return evmtypes.NewUint256FromBig(mulDivBigRoundingUp(ab, bb, RAY))
}

// RayDiv computes half-up (a*RAY + b/2) / b.
func RayDiv(a, b Ray) (Ray, error) {
	bb := b.Big()
	if bb.Sign() == 0 {
		return Ray{}, &errkinds.ZeroDivision{Op: "RayDiv"}
	}
	ab := a.Big()
	half := new(big.Int).Div(bb, big.NewInt(2))
	limit := new(big.Int).Div(new(big.Int).Sub(maxUint256, half), RAY)
	if ab.Cmp(limit) > 0 {
		return Ray{}, &errkinds.Overflow{Op: "RayDiv", Bits: 256, Operands: []string{a.String(), b.String()}}
	}
	result := new(big.Int).Add(new(big.Int).Mul(ab, RAY), half)
	result.Div(result, bb)
	return evmtypes.NewUint256FromBig(result)
}

// RayDivFloor computes (a*RAY) / b.
func RayDivFloor(a, b Ray) (Ray, error) {
	bb := b.Big()
	if bb.Sign() == 0 {
		return Ray{}, &errkinds.ZeroDivision{Op: "RayDivFloor"}
	}
	ab := a.Big()
	if ab.Cmp(new(big.Int).Div(maxUint256, RAY)) > 0 {
		return Ray{}, &errkinds.Overflow{Op: "RayDivFloor", Bits: 256}
	}
	return evmtypes.NewUint256FromBig(mulDivBig(ab, RAY, bb))
}

// RayDivCeil computes (a*RAY)/b + [a*RAY mod b != 0].
func RayDivCeil(a, b Ray) (Ray, error) {
	bb := b.Big()
	if bb.Sign() == 0 {
		return Ray{}, &errkinds.ZeroDivision{Op: "RayDivCeil"}
	}
	ab := a.Big()
	if ab.Cmp(new(big.Int).Div(maxUint256, RAY)) > 0 {
		return Ray{}, &errkinds.Overflow{Op: "RayDivCeil", Bits: 256}
	}
	return evmtypes.NewUint256FromBig(mulDivBigRoundingUp(ab, RAY, bb))
}

// RayToWad converts a Ray to a Wad, rounding half-up by WAD_RAY_RATIO.
func RayToWad(a Ray) (Wad, error) {
	ab := a.Big()
	result, remainder := new(big.Int).DivMod(ab, WadRayRatio, new(big.Int))
	if remainder.Cmp(halfWadRayRat) >= 0 {
		result.Add(result, big.NewInt(1))
	}
	return evmtypes.NewUint256FromBig(result)
}

// WadToRay converts a Wad to a Ray by an exact multiply.
func WadToRay(a Wad) (Ray, error) {
	ab := a.Big()
	if ab.Cmp(new(big.Int).Div(maxUint256, WadRayRatio)) > 0 {
		return Ray{}, &errkinds.Overflow{Op: "WadToRay", Bits: 256, Operands: []string{a.String()}}
	}
	return evmtypes.NewUint256FromBig(new(big.Int).Mul(ab, WadRayRatio))
}
