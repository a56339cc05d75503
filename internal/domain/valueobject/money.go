package valueobject

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidPolicy is returned when shield policy values are inconsistent.
var ErrInvalidPolicy = errors.New("invalid shield policy")

// MoneyPlaces is the minor-unit precision of every stored amount.
const MoneyPlaces = 2

var hundred = decimal.NewFromInt(100)

// RoundMoney rounds half away from zero to the minor unit.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// FloorMoney truncates toward negative infinity at the minor unit.
func FloorMoney(d decimal.Decimal) decimal.Decimal {
	return d.RoundFloor(MoneyPlaces)
}

// Percent returns part/whole*100 capped at 100. A zero whole counts as fully covered.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return hundred
	}
	p := part.Div(whole).Mul(hundred)
	if p.GreaterThan(hundred) {
		p = hundred
	}
	return RoundMoney(p)
}

// FormatINR formats an amount with the rupee sign and Indian digit grouping,
// e.g. 1234567.89 becomes ₹12,34,567.89.
func FormatINR(amount decimal.Decimal) string {
	amount = RoundMoney(amount)
	negative := amount.IsNegative()
	fixed := amount.Abs().StringFixed(MoneyPlaces)

	intPart, fracPart, _ := strings.Cut(fixed, ".")

	grouped := intPart
	if len(intPart) > 3 {
		head := intPart[:len(intPart)-3]
		tail := intPart[len(intPart)-3:]
		var parts []string
		for len(head) > 2 {
			parts = append([]string{head[len(head)-2:]}, parts...)
			head = head[:len(head)-2]
		}
		if head != "" {
			parts = append([]string{head}, parts...)
		}
		grouped = strings.Join(append(parts, tail), ",")
	}

	sign := ""
	if negative {
		sign = "-"
	}
	return sign + "₹" + grouped + "." + fracPart
}
