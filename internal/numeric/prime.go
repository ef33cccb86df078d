package numeric

// IsPrime reports whether n is an integer >= 2 with no divisor in [2, sqrt(n)].
func IsPrime(n int64) bool {
	if n < 2 {
		return false
	}
	if n < 4 {
		return true
	}
	if n%2 == 0 {
		return false
	}
	// i <= n/i instead of i*i <= n keeps the bound check from overflowing.
	for i := int64(3); i <= n/i; i += 2 {
		if n%i == 0 {
			return false
		}
	}
	return true
}

// FilterPrimes keeps the prime elements of xs in order, duplicates included.
func FilterPrimes(xs []int64) []int64 {
	out := make([]int64, 0, len(xs))
	for _, x := range xs {
		if IsPrime(x) {
			out = append(out, x)
		}
	}
	return out
}
