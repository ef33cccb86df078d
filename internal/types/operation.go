package types

// Operation names the single computation a request selects.
type Operation string

const (
	OpFibonacci Operation = "fibonacci"
	OpPrime     Operation = "prime"
	OpLCM       Operation = "lcm"
	OpHCF       Operation = "hcf"
	OpAI        Operation = "AI"
)

// Operations lists every recognized operation key in a fixed order.
func Operations() []Operation {
	return []Operation{OpFibonacci, OpPrime, OpLCM, OpHCF, OpAI}
}

// ParseOperation resolves a request key. Keys are case-sensitive: "ai" is not "AI".
func ParseOperation(s string) (Operation, bool) {
	switch Operation(s) {
	case OpFibonacci, OpPrime, OpLCM, OpHCF, OpAI:
		return Operation(s), true
	default:
		return "", false
	}
}
