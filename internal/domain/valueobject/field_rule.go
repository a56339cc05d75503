package valueobject

import (
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RuleKind tags the check a FieldRule performs.
type RuleKind int

const (
	RuleRequired RuleKind = iota
	RuleMaxLength
	RulePositiveAmount
	RuleNonNegativeAmount
	RuleOneOf
	RuleUUID
)

// FieldRule describes one validation constraint on a request field.
type FieldRule struct {
	Field   string
	Kind    RuleKind
	Max     int      // RuleMaxLength
	Options []string // RuleOneOf
}

// FieldViolation is a failed FieldRule.
type FieldViolation struct {
	Field   string
	Message string
}

func (v FieldViolation) Error() string {
	return v.Field + ": " + v.Message
}

// Required builds a rule that rejects empty strings.
func Required(field string) FieldRule { return FieldRule{Field: field, Kind: RuleRequired} }

// MaxLength builds a rule that limits the rune count of a string.
func MaxLength(field string, max int) FieldRule {
	return FieldRule{Field: field, Kind: RuleMaxLength, Max: max}
}

// PositiveAmount builds a rule that requires a decimal > 0.
func PositiveAmount(field string) FieldRule { return FieldRule{Field: field, Kind: RulePositiveAmount} }

// NonNegativeAmount builds a rule that requires a decimal >= 0.
func NonNegativeAmount(field string) FieldRule {
	return FieldRule{Field: field, Kind: RuleNonNegativeAmount}
}

// OneOf builds a rule that restricts a string to a fixed set.
func OneOf(field string, options ...string) FieldRule {
	return FieldRule{Field: field, Kind: RuleOneOf, Options: options}
}

// UUID builds a rule that requires a parseable, non-nil UUID string.
func UUID(field string) FieldRule { return FieldRule{Field: field, Kind: RuleUUID} }

// Check applies the rule to a value. Unsupported value types fail the rule.
func (r FieldRule) Check(value interface{}) *FieldViolation {
	switch r.Kind {
	case RuleRequired:
		s, ok := value.(string)
		if !ok || s == "" {
			return r.violation("is required")
		}
	case RuleMaxLength:
		s, ok := value.(string)
		if !ok || utf8.RuneCountInString(s) > r.Max {
			return r.violation(fmt.Sprintf("must be at most %d characters", r.Max))
		}
	case RulePositiveAmount:
		d, ok := value.(decimal.Decimal)
		if !ok || !d.IsPositive() {
			return r.violation("must be greater than zero")
		}
	case RuleNonNegativeAmount:
		d, ok := value.(decimal.Decimal)
		if !ok || d.IsNegative() {
			return r.violation("must not be negative")
		}
	case RuleOneOf:
		s, _ := value.(string)
		for _, opt := range r.Options {
			if s == opt {
				return nil
			}
		}
		return r.violation(fmt.Sprintf("must be one of %v", r.Options))
	case RuleUUID:
		var id uuid.UUID
		switch v := value.(type) {
		case uuid.UUID:
			id = v
		case string:
			parsed, err := uuid.Parse(v)
			if err != nil {
				return r.violation("must be a valid UUID")
			}
			id = parsed
		default:
			return r.violation("must be a valid UUID")
		}
		if id == uuid.Nil {
			return r.violation("must be a valid UUID")
		}
	default:
		return r.violation("has an unknown rule")
	}
	return nil
}

func (r FieldRule) violation(msg string) *FieldViolation {
	return &FieldViolation{Field: r.Field, Message: msg}
}

// FieldCheck pairs a value with the rules it must satisfy.
type FieldCheck struct {
	Value interface{}
	Rules []FieldRule
}

// Validate runs each check in order and returns the first violation.
func Validate(checks ...FieldCheck) *FieldViolation {
	for _, c := range checks {
		for _, rule := range c.Rules {
			if v := rule.Check(c.Value); v != nil {
				return v
			}
		}
	}
	return nil
}
