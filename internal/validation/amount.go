package validation

import (
	"fmt"
	"strings"

	"vetopay/internal/models"

	"github.com/shopspring/decimal"
)

// Amount checks that amount is positive and carries no more fractional
// digits than currency allows.
func (v *Validator) Amount(field string, amount decimal.Decimal, currency string) {
	if !amount.IsPositive() {
		v.AddError(field, "amount must be positive")
		return
	}
	precision, ok := models.Precision(currency)
	if !ok {
		v.AddError("currency", fmt.Sprintf("unsupported currency %q", strings.ToUpper(currency)))
		return
	}
	v.Check(amount.Equal(amount.Truncate(precision)), field,
		fmt.Sprintf("amount must have at most %d decimal places for %s", precision, strings.ToUpper(currency)))
}

// ValidateAmount is the standalone form of Validator.Amount.
func ValidateAmount(amount decimal.Decimal, currency string) error {
	v := New()
	v.Amount("amount", amount, currency)
	return v.Err()
}
