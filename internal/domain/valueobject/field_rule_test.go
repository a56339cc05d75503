package valueobject

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestFieldRuleCheck(t *testing.T) {
	tests := []struct {
		name      string
		rule      FieldRule
		value     interface{}
		expectErr bool
	}{
		{name: "required ok", rule: Required("name"), value: "Medical", expectErr: false},
		{name: "required empty", rule: Required("name"), value: "", expectErr: true},
		{name: "required wrong type", rule: Required("name"), value: 42, expectErr: true},
		{name: "max length ok", rule: MaxLength("name", 5), value: "abcde", expectErr: false},
		{name: "max length counts runes", rule: MaxLength("name", 2), value: "₹₹", expectErr: false},
		{name: "max length exceeded", rule: MaxLength("name", 100), value: strings.Repeat("a", 101), expectErr: true},
		{name: "positive ok", rule: PositiveAmount("amount"), value: decimal.NewFromInt(1), expectErr: false},
		{name: "positive zero", rule: PositiveAmount("amount"), value: decimal.Zero, expectErr: true},
		{name: "positive negative", rule: PositiveAmount("amount"), value: decimal.NewFromInt(-1), expectErr: true},
		{name: "non-negative zero", rule: NonNegativeAmount("initial_amount"), value: decimal.Zero, expectErr: false},
		{name: "non-negative negative", rule: NonNegativeAmount("initial_amount"), value: decimal.NewFromInt(-5), expectErr: true},
		{name: "one of ok", rule: OneOf("type", "goal", "loan"), value: "loan", expectErr: false},
		{name: "one of miss", rule: OneOf("type", "goal", "loan"), value: "stock", expectErr: true},
		{name: "uuid string", rule: UUID("id"), value: uuid.NewString(), expectErr: false},
		{name: "uuid value", rule: UUID("id"), value: uuid.New(), expectErr: false},
		{name: "uuid nil", rule: UUID("id"), value: uuid.Nil, expectErr: true},
		{name: "uuid garbage", rule: UUID("id"), value: "not-a-uuid", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := tt.rule.Check(tt.value)
			if tt.expectErr && v == nil {
				t.Fatalf("expected violation for %v", tt.value)
			}
			if !tt.expectErr && v != nil {
				t.Fatalf("unexpected violation: %v", v)
			}
			if v != nil && v.Field != tt.rule.Field {
				t.Errorf("violation field = %q, want %q", v.Field, tt.rule.Field)
			}
		})
	}
}

func TestValidateStopsAtFirstViolation(t *testing.T) {
	v := Validate(
		FieldCheck{Value: "", Rules: []FieldRule{Required("name"), MaxLength("name", 100)}},
		FieldCheck{Value: decimal.Zero, Rules: []FieldRule{PositiveAmount("target_amount")}},
	)
	if v == nil {
		t.Fatal("expected violation")
	}
	if v.Field != "name" {
		t.Errorf("expected name violation first, got %s", v.Field)
	}
}

func TestShieldPolicy(t *testing.T) {
	p := DefaultShieldPolicy()
	if err := p.Validate(); err != nil {
		t.Fatalf("default policy invalid: %v", err)
	}

	essentials := decimal.NewFromInt(40000)
	if got := p.Target(essentials); !got.Equal(decimal.NewFromInt(120000)) {
		t.Errorf("Target = %s, want 120000", got)
	}
	if got := p.Optimal(essentials); !got.Equal(decimal.NewFromInt(240000)) {
		t.Errorf("Optimal = %s, want 240000", got)
	}
	if p.IsHighInterest(decimal.NewFromInt(15)) {
		t.Error("15% should not be above the 15% threshold")
	}
	if !p.IsHighInterest(decimal.NewFromInt(18)) {
		t.Error("18% should be high interest")
	}

	p.OptimalMonths = decimal.NewFromInt(2)
	if err := p.Validate(); err == nil {
		t.Error("expected optimal below target to be rejected")
	}
}
