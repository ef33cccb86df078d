package dispatch

import (
	"encoding/json"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/af-corp/bfhl-gateway/internal/types"
)

const (
	MaxFibonacci   = 10000
	MaxListLength  = 1000
	MaxQuestionLen = 1000
)

const (
	msgFibonacci   = "fibonacci must be an integer between 0 and 10000"
	msgQuestion    = "AI must be a non-empty string"
	msgQuestionLen = "AI question is too long"
)

// validateFibonacci accepts an integer n with 0 <= n <= MaxFibonacci.
func validateFibonacci(raw any) (int, error) {
	num, ok := raw.(json.Number)
	if !ok {
		return 0, types.NewValidationError(msgFibonacci)
	}
	n, ok := integer(num)
	if !ok || n < 0 || n > MaxFibonacci {
		return 0, types.NewValidationError(msgFibonacci)
	}
	return int(n), nil
}

// listValidator returns the validator shared by prime, lcm and hcf. Messages
// name the key that carried the list.
func listValidator(op types.Operation) func(any) ([]int64, error) {
	shapeMsg := string(op) + " must be a non-empty array of integers"
	elemMsg := string(op) + " must contain only integers"

	return func(raw any) ([]int64, error) {
		items, ok := raw.([]any)
		if !ok || len(items) == 0 || len(items) > MaxListLength {
			return nil, types.NewValidationError(shapeMsg)
		}
		out := make([]int64, len(items))
		for i, item := range items {
			num, ok := item.(json.Number)
			if !ok {
				return nil, types.NewValidationError(elemMsg)
			}
			v, ok := integer(num)
			if !ok {
				return nil, types.NewValidationError(elemMsg)
			}
			out[i] = v
		}
		return out, nil
	}
}

// validateQuestion returns the trimmed question. The length limit applies to
// the untrimmed string, counted in UTF-16 code units.
func validateQuestion(raw any) (string, error) {
	s, ok := raw.(string)
	if !ok {
		return "", types.NewValidationError(msgQuestion)
	}
	q := strings.TrimSpace(s)
	if q == "" {
		return "", types.NewValidationError(msgQuestion)
	}
	if utf16Len(s) > MaxQuestionLen {
		return "", types.NewValidationError(msgQuestionLen)
	}
	return q, nil
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// integer reports whether num denotes a whole number that fits in an int64.
// "5", "5.0" and "5e0" all qualify.
func integer(num json.Number) (int64, bool) {
	s := num.String()
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, true
	}
	f, _, err := big.ParseFloat(s, 10, 128, big.ToNearestEven)
	if err != nil || !f.IsInt() {
		return 0, false
	}
	v, acc := f.Int64()
	if acc != big.Exact {
		return 0, false
	}
	return v, true
}
