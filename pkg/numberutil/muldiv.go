package numberutil

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrDivisionByZero = errors.New("division by zero")
	ErrOverflow       = errors.New("result overflows int64")
)

// MulDiv returns floor(a * b / c) without overflowing the intermediate
// product.
func MulDiv(a, b, c int64) (int64, error) {
	return ProductDiv(c, a, b)
}

// ProductDiv returns floor(product(factors) / divisor). The intermediate
// product is arbitrary precision, only the result must fit in an int64.
func ProductDiv(divisor int64, factors ...int64) (int64, error) {
	if divisor == 0 {
		return 0, ErrDivisionByZero
	}

	product := decimal.NewFromInt(1)
	for _, f := range factors {
		product = product.Mul(decimal.NewFromInt(f))
	}

	d := decimal.NewFromInt(divisor)
	q, r := product.QuoRem(d, 0)

	// QuoRem truncates toward zero.
	if !r.IsZero() && r.Sign() != d.Sign() {
		q = q.Sub(decimal.NewFromInt(1))
	}

	if !q.BigInt().IsInt64() {
		return 0, ErrOverflow
	}

	return q.IntPart(), nil
}

// BasisPoints returns floor(amount * bps / 10000).
func BasisPoints(amount, bps int64) (int64, error) {
	return MulDiv(amount, bps, 10_000)
}
