// Package numeric holds the pure integer primitives behind the compute
// operations. Nothing here allocates shared state or mutates its arguments.
package numeric

import "math/big"

// Fibonacci returns the first n terms of 0, 1, 1, 2, 3, ...
// Terms are arbitrary precision; F(9999) has over 2000 decimal digits.
func Fibonacci(n int) []*big.Int {
	if n <= 0 {
		return []*big.Int{}
	}
	out := make([]*big.Int, n)
	a, b := big.NewInt(0), big.NewInt(1)
	for i := 0; i < n; i++ {
		out[i] = new(big.Int).Set(a)
		a.Add(a, b)
		a, b = b, a
	}
	return out
}
