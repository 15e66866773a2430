package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestDeriveFeeLedger(t *testing.T) {
	tests := []struct {
		name       string
		totalFee   string
		amountPaid string
		wantStatus FeeStatus
		wantDue    string
	}{
		{"nothing paid", "250", "0", FeeDue, "250"},
		{"partial payment", "250", "100", FeePartial, "150"},
		{"exact payment", "250", "250", FeePaid, "0"},
		{"overpayment becomes credit", "250", "300", FeeAdvanced, "-50"},
		{"zero fee zero paid", "0", "0", FeeDue, "0"},
		{"zero fee with payment", "0", "50", FeeAdvanced, "-50"},
		{"fractional amounts", "250.50", "250.50", FeePaid, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, due := DeriveFeeLedger(d(tt.totalFee), d(tt.amountPaid))
			assert.Equal(t, tt.wantStatus, status)
			assert.True(t, d(tt.wantDue).Equal(due), "want due %s, got %s", tt.wantDue, due)
		})
	}
}

func TestDeriveFeeLedgerIsIdempotent(t *testing.T) {
	total, paid := d("250"), d("100")

	status1, due1 := DeriveFeeLedger(total, paid)
	status2, due2 := DeriveFeeLedger(total, paid)

	assert.Equal(t, status1, status2)
	assert.True(t, due1.Equal(due2))
}

func TestDeriveFeeLedgerInvertsCleanly(t *testing.T) {
	// Adding then removing the same amount lands back on the original
	// derivation, whatever the starting point.
	total := d("250")
	for _, start := range []string{"0", "100", "250", "400"} {
		paid := d(start)
		beforeStatus, beforeDue := DeriveFeeLedger(total, paid)

		afterAdd := paid.Add(d("75"))
		afterReverse := afterAdd.Sub(d("75"))
		afterStatus, afterDue := DeriveFeeLedger(total, afterReverse)

		assert.Equal(t, beforeStatus, afterStatus, "start=%s", start)
		assert.True(t, beforeDue.Equal(afterDue), "start=%s", start)
	}
}
