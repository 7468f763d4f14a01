package payments

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrNonPositiveAmount indicates a zero or negative payment amount.
	ErrNonPositiveAmount = errors.New("payments: amount must be positive")
	// ErrExceedsBalance indicates the payment would push the running total
	// past the booking's locked sell price.
	ErrExceedsBalance = errors.New("payments: amount exceeds remaining balance")
)

// CheckLedger validates that adding amount to the running total of counted
// payments stays within the booking's locked sell total. Equality is
// allowed: the exact final payment goes through. The returned remaining
// balance is what the booking can still absorb before this payment.
// Callers must run this inside the same transaction as the insert, holding
// a lock on the booking row, or two concurrent payments could both pass.
func CheckLedger(totalSellEur, countedSum, amount decimal.Decimal) (decimal.Decimal, error) {
	remaining := totalSellEur.Sub(countedSum)
	if !amount.IsPositive() {
		return remaining, fmt.Errorf("%w: amount=%s", ErrNonPositiveAmount, amount)
	}
	if countedSum.Add(amount).GreaterThan(totalSellEur) {
		return remaining, fmt.Errorf("%w: remaining balance is %s EUR", ErrExceedsBalance, remaining)
	}
	return remaining, nil
}
