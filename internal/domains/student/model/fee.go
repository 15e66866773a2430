package model

import "github.com/shopspring/decimal"

type FeeStatus string

const (
	FeeDue      FeeStatus = "due"
	FeePartial  FeeStatus = "partial"
	FeePaid     FeeStatus = "paid"
	FeeAdvanced FeeStatus = "advanced"
)

// DeriveFeeLedger computes (feeStatus, amountDue) from the total fee and the
// running sum of non-reversed payments. This is the only fee derivation in
// the codebase: creation, edits, payment add, payment reversal and the
// repair utility all call it, so the ledger can never disagree with itself.
//
//	paid > total            -> advanced, due = total - paid (negative credit)
//	paid == total, total>0  -> paid, due = 0
//	0 < paid < total        -> partial, due = total - paid
//	paid == 0               -> due, due = total
func DeriveFeeLedger(totalFee, amountPaid decimal.Decimal) (FeeStatus, decimal.Decimal) {
	due := totalFee.Sub(amountPaid)
	switch {
	case amountPaid.GreaterThan(totalFee):
		return FeeAdvanced, due
	case amountPaid.Equal(totalFee) && totalFee.IsPositive():
		return FeePaid, decimal.Zero
	case amountPaid.IsPositive():
		return FeePartial, due
	default:
		return FeeDue, totalFee
	}
}
