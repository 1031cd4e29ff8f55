package fixedpoint

import (
	"math/big"

	"github.com/johnayoung/go-defi-engine/pkg/errkinds"
	"github.com/johnayoung/go-defi-engine/pkg/evmtypes"
)

// Ranges and error bounds for the tick/sqrt-price bijection, preserved
// verbatim from the Uniswap V3/V4 TickMath library.
var (
	MinSqrtPrice, _ = new(big.Int).SetString("4295128739", 10)
	MaxSqrtPrice, _ = new(big.Int).SetString("1461446703485210103287273052203988822378723970342", 10)
	minError, _     = new(big.Int).SetString("291339464771989622907027621153398088495", 10)
	maxError, _     = new(big.Int).SetString("3402992956809132418596140100660247210", 10)
	logSqrt10001Mul, _ = new(big.Int).SetString("255738958999603826347141", 10)
)

// tickRatios are the 19 precomputed per-bit ratio multipliers used to
// decompose |tick| into a product of 1/sqrt(1.0001^(2^i)) factors in
// Q128.128, rounded to the nearest integer.
var tickRatios = []struct {
	mask  int32
	ratio string
}{
	{2, "340248342086729790484326174814286782778"},
	{4, "340214320654664324051920982716015181260"},
	{8, "340146287995602323631171512101879684304"},
	{16, "340010263488231146823593991679159461444"},
	{32, "339738377640345403697157401104375502016"},
	{64, "339195258003219555707034227454543997025"},
	{128, "338111622100601834656805679988414885971"},
	{256, "335954724994790223023589805789778977700"},
	{512, "331682121138379247127172139078559817300"},
	{1024, "323299236684853023288211250268160618739"},
	{2048, "307163716377032989948697243942600083929"},
	{4096, "277268403626896220162999269216087595045"},
	{8192, "225923453940442621947126027127485391333"},
	{16384, "149997214084966997727330242082538205943"},
	{32768, "66119101136024775622716233608466517926"},
	{65536, "12847376061809297530290974190478138313"},
	{131072, "485053260817066172746253684029974020"},
	{262144, "691415978906521570653435304214168"},
	{524288, "1404880482679654955896180642"},
}

var baseRatio, _ = new(big.Int).SetString("340265354078544963557816517032075149313", 10)

var one128 = new(big.Int).Lsh(big.NewInt(1), 128)

// SqrtPriceAtTick computes sqrt(1.0001^tick) * 2^96 as a Q64.96 fixed-point
// number, failing if |tick| exceeds MaxTick.
func SqrtPriceAtTick(tick int32) (evmtypes.Uint160, error) {
	absTick := tick
	if absTick < 0 {
		absTick = -absTick
	}
	if absTick > evmtypes.MaxTick {
		return evmtypes.Uint160{}, &errkinds.InvalidTick{Tick: tick}
	}

	var price *big.Int
	if absTick&1 != 0 {
		price = new(big.Int).Set(baseRatio)
	} else {
		price = new(big.Int).Set(one128)
	}

	for _, tr := range tickRatios {
		if absTick&tr.mask != 0 {
			ratio, _ := new(big.Int).SetString(tr.ratio, 10)
			price.Mul(price, ratio)
			price.Rsh(price, 128)
		}
	}

	if tick > 0 {
		price = new(big.Int).Div(maxUint256, price)
	}

	// Divide by 2^32 rounding up, Q128.128 -> Q128.96.
	price.Add(price, big.NewInt((1<<32)-1))
	price.Rsh(price, 32)

	return evmtypes.NewUint160FromBig(price)
}

// TickAtSqrtPrice computes the greatest tick such that
// SqrtPriceAtTick(tick) <= sqrtPriceX96, failing if sqrtPriceX96 is outside
// [MinSqrtPrice, MaxSqrtPrice].
func TickAtSqrtPrice(sqrtPriceX96 evmtypes.Uint160) (int32, error) {
	return TickAtSqrtPriceBig(sqrtPriceX96.Big())
}

// TickAtSqrtPriceBig is TickAtSqrtPrice for callers already holding a
// *big.Int Q64.96 price (the concentrated-liquidity swap engine, which
// works entirely in big.Int space to avoid repeated bounds-checked
// conversions mid-loop).
func TickAtSqrtPriceBig(p *big.Int) (int32, error) {
	if p.Cmp(MinSqrtPrice) < 0 || p.Cmp(MaxSqrtPrice) > 0 {
		return 0, &errkinds.InvalidSqrtPrice{SqrtPriceX96: p.String()}
	}

	price := new(big.Int).Lsh(p, 32)
	msb := mostSignificantBit(price)

	var r *big.Int
	if msb >= 128 {
		r = new(big.Int).Rsh(price, uint(msb-127))
	} else {
		r = new(big.Int).Lsh(price, uint(127-msb))
	}
	log2 := new(big.Int).Lsh(big.NewInt(int64(msb-128)), 64)

	for factor := 63; factor >= 51; factor-- {
		r.Mul(r, r)
		r.Rsh(r, 127)
		f := new(big.Int).Rsh(r, 128)
		log2.Or(log2, new(big.Int).Lsh(f, uint(factor)))
		r.Rsh(r, uint(f.Uint64()))
	}
	r.Mul(r, r)
	r.Rsh(r, 127)
	f := new(big.Int).Rsh(r, 128)
	log2.Or(log2, new(big.Int).Lsh(f, 50))

	// log2 can be negative when msb < 128 (sqrt price below 2^96, i.e. a
	// price below 1); big.Int's Rsh on a negative value shifts
	// arithmetically (floors, like Python's >>), so the sign is preserved
	// correctly through the shifts below.
	logSqrt10001 := new(big.Int).Mul(log2, logSqrt10001Mul)

	tickLow := new(big.Int).Sub(logSqrt10001, maxError)
	tickLow.Rsh(tickLow, 128)
	tickHigh := new(big.Int).Add(logSqrt10001, minError)
	tickHigh.Rsh(tickHigh, 128)

	tl := int32(tickLow.Int64())
	th := int32(tickHigh.Int64())
	if tl == th {
		return tl, nil
	}
	hiPrice, err := SqrtPriceAtTick(th)
	if err != nil {
		return 0, err
	}
	if hiPrice.Big().Cmp(p) <= 0 {
		return th, nil
	}
	return tl, nil
}

// mostSignificantBit returns the 0-indexed position of the highest set bit
// of x (x must be positive).
func mostSignificantBit(x *big.Int) int {
	return x.BitLen() - 1
}
