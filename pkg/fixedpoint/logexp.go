package fixedpoint

import (
	"math/big"

	"github.com/johnayoung/go-defi-engine/pkg/errkinds"
)

// Signed fixed-point logarithm/exponential kernel for weighted-pool math
// (§4.B.4, §4.F), translated from Balancer's LogExpMath library.
// Intermediates can be negative (ln36 and Pow work with signed logarithms);
// big.Int.Div is Euclidean division, which for a positive divisor floors
// like Python's // even when the dividend is negative.
var (
	one18 = big.NewInt(1_000_000_000_000_000_000)
	one20, _ = new(big.Int).SetString("100000000000000000000", 10)
	one36, _ = new(big.Int).SetString("1000000000000000000000000000000000000", 10)

	maxNaturalExponent = new(big.Int).Mul(big.NewInt(130), one18)
	minNaturalExponent = new(big.Int).Neg(new(big.Int).Mul(big.NewInt(41), one18))

	ln36Lower = new(big.Int).Sub(one18, big.NewInt(100_000_000_000_000_000))
	ln36Upper = new(big.Int).Add(one18, big.NewInt(100_000_000_000_000_000))

	mildExponentBound = func() *big.Int {
		v := new(big.Int).Lsh(big.NewInt(1), 254)
		return v.Div(v, one20)
	}()
)

type expTerm struct{ x, a *big.Int }

func mustBig(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("fixedpoint: invalid constant " + s)
	}
	return v
}

var expTerms = []expTerm{
	{mustBig("128000000000000000000"), mustBig("38877084059945950922200000000000000000000000000000000000")},
	{mustBig("64000000000000000000"), mustBig("6235149080811616882910000000")},
}

var expTerms20 = []expTerm{
	{mustBig("3200000000000000000000"), mustBig("7896296018268069516100000000000000")},
	{mustBig("1600000000000000000000"), mustBig("888611052050787263676000000")},
	{mustBig("800000000000000000000"), mustBig("298095798704172827474000")},
	{mustBig("400000000000000000000"), mustBig("5459815003314423907810")},
	{mustBig("200000000000000000000"), mustBig("738905609893065022723")},
	{mustBig("100000000000000000000"), mustBig("271828182845904523536")},
	{mustBig("50000000000000000000"), mustBig("164872127070012814685")},
	{mustBig("25000000000000000000"), mustBig("128402541668774148407")},
}

var lnTerms = []expTerm{
	{mustBig("3200000000000000000000"), mustBig("7896296018268069516100000000000000")},
	{mustBig("1600000000000000000000"), mustBig("888611052050787263676000000")},
	{mustBig("800000000000000000000"), mustBig("298095798704172827474000")},
	{mustBig("400000000000000000000"), mustBig("5459815003314423907810")},
	{mustBig("200000000000000000000"), mustBig("738905609893065022723")},
	{mustBig("100000000000000000000"), mustBig("271828182845904523536")},
	{mustBig("50000000000000000000"), mustBig("164872127070012814685")},
	{mustBig("25000000000000000000"), mustBig("128402541668774148407")},
	{mustBig("12500000000000000000"), mustBig("113314845306682631683")},
	{mustBig("6250000000000000000"), mustBig("106449445891785942956")},
}

// Pow computes x^y on 18-decimal signed fixed-point numbers via
// exp(y*ln(x)).
func Pow(x, y *big.Int) (*big.Int, error) {
	if y.Sign() == 0 {
		return new(big.Int).Set(one18), nil
	}
	if x.Sign() == 0 {
		return big.NewInt(0), nil
	}
	maxSigned255 := new(big.Int).Lsh(big.NewInt(1), 255)
	if x.Cmp(maxSigned255) >= 0 {
		return nil, &errkinds.Overflow{Op: "Pow:X_OUT_OF_BOUNDS", Bits: 255, Operands: []string{x.String()}}
	}
	if y.Cmp(mildExponentBound) >= 0 {
		return nil, &errkinds.Overflow{Op: "Pow:Y_OUT_OF_BOUNDS", Bits: 255, Operands: []string{y.String()}}
	}

	var logxTimesY *big.Int
	if ln36Lower.Cmp(x) < 0 && x.Cmp(ln36Upper) < 0 {
		ln36x := ln36(x)
		q, r := floorDivMod(ln36x, one18)
		t1 := new(big.Int).Mul(q, y)
		t2 := new(big.Int).Div(new(big.Int).Mul(r, y), one18)
		logxTimesY = new(big.Int).Add(t1, t2)
	} else {
		logxTimesY = new(big.Int).Mul(lnSigned(x), y)
	}
	logxTimesY = floorDiv(logxTimesY, one18)

	if logxTimesY.Cmp(minNaturalExponent) < 0 || logxTimesY.Cmp(maxNaturalExponent) > 0 {
		return nil, &errkinds.Overflow{Op: "Pow:PRODUCT_OUT_OF_BOUNDS", Bits: 255, Operands: []string{logxTimesY.String()}}
	}
	return Exp(logxTimesY)
}

// Exp computes e^x on 18-decimal signed fixed-point numbers.
func Exp(x *big.Int) (*big.Int, error) {
	if x.Cmp(minNaturalExponent) < 0 || x.Cmp(maxNaturalExponent) > 0 {
		return nil, &errkinds.Overflow{Op: "Exp:OUT_OF_BOUNDS", Bits: 255, Operands: []string{x.String()}}
	}
	if x.Sign() < 0 {
		neg, err := Exp(new(big.Int).Neg(x))
		if err != nil {
			return nil, err
		}
		return new(big.Int).Div(new(big.Int).Mul(one18, one18), neg), nil
	}

	rem := new(big.Int).Set(x)
	var firstAn *big.Int
	switch {
	case rem.Cmp(expTerms[0].x) >= 0:
		rem.Sub(rem, expTerms[0].x)
		firstAn = expTerms[0].a
	case rem.Cmp(expTerms[1].x) >= 0:
		rem.Sub(rem, expTerms[1].x)
		firstAn = expTerms[1].a
	default:
		firstAn = big.NewInt(1)
	}

	rem.Mul(rem, big.NewInt(100))
	product := new(big.Int).Set(one20)
	for _, t := range expTerms20 {
		if rem.Cmp(t.x) >= 0 {
			rem.Sub(rem, t.x)
			product.Div(product.Mul(product, t.a), one20)
		}
	}

	seriesSum := new(big.Int).Set(one20)
	term := new(big.Int).Set(rem)
	seriesSum.Add(seriesSum, term)
	for n := int64(2); n <= 12; n++ {
		term = new(big.Int).Div(new(big.Int).Mul(term, rem), one20)
		term.Div(term, big.NewInt(n))
		seriesSum.Add(seriesSum, term)
	}

	result := new(big.Int).Div(new(big.Int).Mul(product, seriesSum), one20)
	result.Mul(result, firstAn)
	result.Div(result, big.NewInt(100))
	return result, nil
}

// Log computes log base `base` of `arg`, both 18-decimal signed fixed-point.
func Log(arg, base *big.Int) *big.Int {
	logBase := lnSigned(base)
	if ln36Lower.Cmp(base) < 0 && base.Cmp(ln36Upper) < 0 {
		logBase = ln36(base)
	} else {
		logBase = new(big.Int).Mul(logBase, one18)
	}
	logArg := lnSigned(arg)
	if ln36Lower.Cmp(arg) < 0 && arg.Cmp(ln36Upper) < 0 {
		logArg = ln36(arg)
	} else {
		logArg = new(big.Int).Mul(logArg, one18)
	}
	return new(big.Int).Div(new(big.Int).Mul(logArg, one18), logBase)
}

// Ln computes the natural logarithm of an 18-decimal signed fixed-point
// number, failing for non-positive input.
func Ln(a *big.Int) (*big.Int, error) {
	if a.Sign() <= 0 {
		return nil, &errkinds.Overflow{Op: "Ln:OUT_OF_BOUNDS", Bits: 255, Operands: []string{a.String()}}
	}
	if ln36Lower.Cmp(a) < 0 && a.Cmp(ln36Upper) < 0 {
		return new(big.Int).Div(ln36(a), one18), nil
	}
	return lnSigned(a), nil
}

func lnSigned(a *big.Int) *big.Int {
	if a.Cmp(one18) < 0 {
		inv := new(big.Int).Div(new(big.Int).Mul(one18, one18), a)
		return new(big.Int).Neg(lnSigned(inv))
	}

	a = new(big.Int).Set(a)
	sum := big.NewInt(0)
	a0Scaled := new(big.Int).Mul(expTerms[0].a, one18)
	if a.Cmp(a0Scaled) >= 0 {
		a.Div(a, expTerms[0].a)
		sum.Add(sum, expTerms[0].x)
	}
	a1Scaled := new(big.Int).Mul(expTerms[1].a, one18)
	if a.Cmp(a1Scaled) >= 0 {
		a.Div(a, expTerms[1].a)
		sum.Add(sum, expTerms[1].x)
	}

	sum.Mul(sum, big.NewInt(100))
	a.Mul(a, big.NewInt(100))

	for _, t := range lnTerms {
		if a.Cmp(t.a) >= 0 {
			a = new(big.Int).Div(new(big.Int).Mul(a, one20), t.a)
			sum.Add(sum, t.x)
		}
	}

	z := new(big.Int).Div(new(big.Int).Mul(new(big.Int).Sub(a, one20), one20), new(big.Int).Add(a, one20))
	zSquared := new(big.Int).Div(new(big.Int).Mul(z, z), one20)

	num := new(big.Int).Set(z)
	seriesSum := new(big.Int).Set(num)

	for _, div := range []int64{3, 5, 7, 9, 11} {
		num = new(big.Int).Div(new(big.Int).Mul(num, zSquared), one20)
		seriesSum.Add(seriesSum, new(big.Int).Div(num, big.NewInt(div)))
	}

	seriesSum.Mul(seriesSum, big.NewInt(2))
	return new(big.Int).Div(new(big.Int).Add(sum, seriesSum), big.NewInt(100))
}

// floorDivMod mirrors Python's `//`/`%` for a signed numerator and a
// positive denominator: the quotient rounds toward negative infinity and
// the remainder keeps the denominator's (non-negative) sign, unlike Go's
// own truncating big.Int.QuoRem.
func floorDivMod(a, b *big.Int) (q, r *big.Int) {
	q, r = new(big.Int).QuoRem(a, b, new(big.Int))
	if r.Sign() != 0 && (r.Sign() < 0) != (b.Sign() < 0) {
		q.Sub(q, big.NewInt(1))
		r.Add(r, b)
	}
	return q, r
}

func floorDiv(a, b *big.Int) *big.Int {
	q, _ := floorDivMod(a, b)
	return q
}

func ln36(x *big.Int) *big.Int {
	x = new(big.Int).Mul(x, one18)

	z := new(big.Int).Div(new(big.Int).Mul(new(big.Int).Sub(x, one36), one36), new(big.Int).Add(x, one36))
	zSquared := new(big.Int).Div(new(big.Int).Mul(z, z), one36)

	num := new(big.Int).Set(z)
	seriesSum := new(big.Int).Set(num)

	for _, div := range []int64{3, 5, 7, 9, 11, 13, 15} {
		num = new(big.Int).Div(new(big.Int).Mul(num, zSquared), one36)
		seriesSum.Add(seriesSum, new(big.Int).Div(num, big.NewInt(div)))
	}

	return new(big.Int).Mul(seriesSum, big.NewInt(2))
}
