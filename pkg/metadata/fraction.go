package metadata

import (
	"math"
	"math/big"
)

// DefaultMaxDenominator bounds the fraction search used for floating point
// exposure times.
const DefaultMaxDenominator = 1000000

// ApproximateFraction finds the fraction closest to x whose denominator does
// not exceed maxDen, walking the continued fraction expansion of x's exact
// binary value.
func ApproximateFraction(x float64, maxDen int64) (num, den int64) {
	if maxDen < 1 {
		maxDen = 1
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, 1
	}
	if x < 0 {
		num, den = ApproximateFraction(-x, maxDen)
		return -num, den
	}

	exact := new(big.Rat).SetFloat64(x)
	limit := big.NewInt(maxDen)
	if exact.Denom().Cmp(limit) <= 0 {
		return exact.Num().Int64(), exact.Denom().Int64()
	}

	n := new(big.Int).Set(exact.Num())
	d := new(big.Int).Set(exact.Denom())

	p0, q0 := big.NewInt(0), big.NewInt(1)
	p1, q1 := big.NewInt(1), big.NewInt(0)

	a := new(big.Int)
	q2 := new(big.Int)
	for {
		a.Quo(n, d)
		q2.Mul(a, q1)
		q2.Add(q2, q0)
		if q2.Cmp(limit) > 0 {
			break
		}

		p2 := new(big.Int).Mul(a, p1)
		p2.Add(p2, p0)
		p0, q0, p1, q1 = p1, q1, p2, new(big.Int).Set(q2)

		r := new(big.Int).Mul(a, d)
		n, d = d, r.Sub(n, r)
	}

	// best semiconvergent below the limit
	k := new(big.Int).Sub(limit, q0)
	k.Quo(k, q1)

	lowNum := new(big.Int).Mul(k, p1)
	lowNum.Add(lowNum, p0)
	lowDen := new(big.Int).Mul(k, q1)
	lowDen.Add(lowDen, q0)

	low := new(big.Rat).SetFrac(lowNum, lowDen)
	high := new(big.Rat).SetFrac(p1, q1)

	lowErr := new(big.Rat).Sub(low, exact)
	lowErr.Abs(lowErr)
	highErr := new(big.Rat).Sub(high, exact)
	highErr.Abs(highErr)

	if highErr.Cmp(lowErr) <= 0 {
		return high.Num().Int64(), high.Denom().Int64()
	}
	return low.Num().Int64(), low.Denom().Int64()
}
