// Package rational holds the exact arithmetic helpers used for money.
//
// Amounts are carried as *big.Rat until they are rounded to whole pounds.
// RoundHalfUp sends exact halves towards positive infinity, matching the
// published on-cost tables. Banker's rounding differs by a pound on some rows.
package rational

import (
	"math/big"

	"github.com/shopspring/decimal"
)

var half = big.NewRat(1, 2)

// Int returns n as a rational.
func Int(n int64) *big.Rat {
	return new(big.Rat).SetInt64(n)
}

// Frac returns num/den.
func Frac(num, den int64) *big.Rat {
	return big.NewRat(num, den)
}

// Zero returns a fresh zero value.
func Zero() *big.Rat {
	return new(big.Rat)
}

// FromDecimal converts d exactly.
func FromDecimal(d decimal.Decimal) *big.Rat {
	return d.Rat()
}

// ToDecimal renders x with places digits after the point, rounding half away from zero.
func ToDecimal(x *big.Rat, places int32) decimal.Decimal {
	num := decimal.NewFromBigInt(x.Num(), 0)
	den := decimal.NewFromBigInt(x.Denom(), 0)
	return num.DivRound(den, places)
}

// Add returns the sum of xs.
func Add(xs ...*big.Rat) *big.Rat {
	sum := new(big.Rat)
	for _, x := range xs {
		sum.Add(sum, x)
	}
	return sum
}

// Sub returns a - b.
func Sub(a, b *big.Rat) *big.Rat {
	return new(big.Rat).Sub(a, b)
}

// Mul returns the product of xs.
func Mul(xs ...*big.Rat) *big.Rat {
	product := big.NewRat(1, 1)
	for _, x := range xs {
		product.Mul(product, x)
	}
	return product
}

// Quo returns a / b. It panics if b is zero, like big.Rat.Quo.
func Quo(a, b *big.Rat) *big.Rat {
	return new(big.Rat).Quo(a, b)
}

// Neg returns -x.
func Neg(x *big.Rat) *big.Rat {
	return new(big.Rat).Neg(x)
}

// Pow returns x raised to an integer power. x must be non-zero when n is negative.
func Pow(x *big.Rat, n int) *big.Rat {
	result := big.NewRat(1, 1)
	base := x
	if n < 0 {
		base = new(big.Rat).Inv(x)
		n = -n
	}
	for i := 0; i < n; i++ {
		result.Mul(result, base)
	}
	return result
}

// Floor returns the largest integer not greater than x.
func Floor(x *big.Rat) int64 {
	// Euclidean division with a positive denominator floors towards -inf.
	q := new(big.Int).Div(x.Num(), x.Denom())
	return q.Int64()
}

// RoundHalfUp returns floor(x + 1/2).
func RoundHalfUp(x *big.Rat) int64 {
	return Floor(new(big.Rat).Add(x, half))
}

// RoundHalfUpRat is RoundHalfUp returned as a rational.
func RoundHalfUpRat(x *big.Rat) *big.Rat {
	return Int(RoundHalfUp(x))
}

// Min returns the smaller of a and b.
func Min(a, b *big.Rat) *big.Rat {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

// Max returns the larger of a and b.
func Max(a, b *big.Rat) *big.Rat {
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}
