package numeric

import "math/big"

// GCD returns the greatest common divisor of |a| and |b|. GCD(0, x) = |x|.
func GCD(a, b *big.Int) *big.Int {
	x := new(big.Int).Abs(a)
	y := new(big.Int).Abs(b)
	for y.Sign() != 0 {
		x.Rem(x, y)
		x, y = y, x
	}
	return x
}

// LCM returns 0 when either operand is 0, otherwise |a*b| / GCD(a, b).
func LCM(a, b *big.Int) *big.Int {
	if a.Sign() == 0 || b.Sign() == 0 {
		return new(big.Int)
	}
	g := GCD(a, b)
	out := new(big.Int).Quo(a, g)
	out.Mul(out, b)
	return out.Abs(out)
}

// LCMOf folds xs with LCM, seeded by the first element. xs must be non-empty.
func LCMOf(xs []int64) *big.Int {
	return fold(xs, LCM)
}

// HCFOf folds xs with GCD, seeded by the first element. xs must be non-empty.
// A single-element input yields that element unchanged, sign included.
func HCFOf(xs []int64) *big.Int {
	return fold(xs, GCD)
}

func fold(xs []int64, fn func(a, b *big.Int) *big.Int) *big.Int {
	acc := big.NewInt(xs[0])
	for _, x := range xs[1:] {
		acc = fn(acc, big.NewInt(x))
	}
	return acc
}
