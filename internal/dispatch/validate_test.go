package dispatch

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/af-corp/bfhl-gateway/internal/types"
)

func TestInteger(t *testing.T) {
	tests := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"5", 5, true},
		{"-12", -12, true},
		{"5.0", 5, true},
		{"5e0", 5, true},
		{"1E3", 1000, true},
		{"-0", 0, true},
		{"9223372036854775807", 9223372036854775807, true},
		{"-9223372036854775808", -9223372036854775808, true},
		{"5.5", 0, false},
		{"1e-1", 0, false},
		{"9223372036854775808", 0, false},
		{"1e30", 0, false},
		{"1e99999999999", 0, false},
	}
	for _, tt := range tests {
		got, ok := integer(json.Number(tt.in))
		if ok != tt.ok || got != tt.want {
			t.Errorf("integer(%s) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestValidateFibonacci(t *testing.T) {
	good := map[any]int{
		json.Number("0"):     0,
		json.Number("10"):    10,
		json.Number("10000"): 10000,
		json.Number("7.0"):   7,
	}
	for raw, want := range good {
		got, err := validateFibonacci(raw)
		if err != nil || got != want {
			t.Errorf("validateFibonacci(%v) = %d, %v", raw, got, err)
		}
	}

	bad := []any{json.Number("-1"), json.Number("10001"), json.Number("2.5"), "5", true, nil, []any{json.Number("1")}}
	for _, raw := range bad {
		_, err := validateFibonacci(raw)
		if types.MessageOf(err) != msgFibonacci {
			t.Errorf("validateFibonacci(%v): got %v", raw, err)
		}
		if types.StatusOf(err) != 400 {
			t.Errorf("status = %d, want 400", types.StatusOf(err))
		}
	}
}

func TestListValidator(t *testing.T) {
	v := listValidator(types.OpLCM)

	got, err := v([]any{json.Number("4"), json.Number("6.0"), json.Number("-2")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 || got[0] != 4 || got[1] != 6 || got[2] != -2 {
		t.Errorf("got %v", got)
	}

	tooLong := make([]any, MaxListLength+1)
	for i := range tooLong {
		tooLong[i] = json.Number("1")
	}
	atLimit := tooLong[:MaxListLength]
	if _, err := v(atLimit); err != nil {
		t.Errorf("list at limit rejected: %v", err)
	}

	tests := []struct {
		name string
		raw  any
		msg  string
	}{
		{"not array", json.Number("4"), "lcm must be a non-empty array of integers"},
		{"object", map[string]any{}, "lcm must be a non-empty array of integers"},
		{"empty", []any{}, "lcm must be a non-empty array of integers"},
		{"too long", tooLong, "lcm must be a non-empty array of integers"},
		{"fraction", []any{json.Number("1"), json.Number("1.5")}, "lcm must contain only integers"},
		{"string", []any{"3"}, "lcm must contain only integers"},
		{"null", []any{nil}, "lcm must contain only integers"},
		{"out of range", []any{json.Number("1e19")}, "lcm must contain only integers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v(tt.raw)
			if types.MessageOf(err) != tt.msg {
				t.Errorf("got %v, want %q", err, tt.msg)
			}
			if types.KindOf(err) != types.KindValidation {
				t.Errorf("kind = %s", types.KindOf(err))
			}
		})
	}
}

func TestValidateQuestion(t *testing.T) {
	got, err := validateQuestion("  What is the capital of France?\n")
	if err != nil || got != "What is the capital of France?" {
		t.Errorf("got %q, %v", got, err)
	}

	tests := []struct {
		name string
		raw  any
		msg  string
	}{
		{"empty", "", msgQuestion},
		{"blank", " \t\n ", msgQuestion},
		{"number", json.Number("1"), msgQuestion},
		{"null", nil, msgQuestion},
		{"too long", strings.Repeat("a", MaxQuestionLen+1), msgQuestionLen},
		{"too long with padding", " " + strings.Repeat("a", MaxQuestionLen), msgQuestionLen},
		{"surrogate pairs", strings.Repeat("😀", MaxQuestionLen/2+1), msgQuestionLen},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validateQuestion(tt.raw)
			if types.MessageOf(err) != tt.msg {
				t.Errorf("got %v, want %q", err, tt.msg)
			}
		})
	}

	if _, err := validateQuestion(strings.Repeat("é", MaxQuestionLen)); err != nil {
		t.Errorf("1000 BMP characters rejected: %v", err)
	}
}
