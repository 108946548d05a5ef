package accounting

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/teddynyambe/luboss-vb-sub000/internal/core/domain"
)

// SignedAmount applies the correct sign to a line amount based on account type
// and line type. Services and repositories share this so derived balances use
// one convention:
//
//	DEBIT to ASSET/EXPENSE  -> positive
//	CREDIT to ASSET/EXPENSE -> negative
//	DEBIT to LIABILITY/EQUITY/INCOME  -> negative
//	CREDIT to LIABILITY/EQUITY/INCOME -> positive
func SignedAmount(amount decimal.Decimal, lineType domain.LineType, accountType domain.AccountType) (decimal.Decimal, error) {
	isDebit := lineType == domain.Debit
	switch accountType {
	case domain.Asset, domain.Expense:
		if !isDebit {
			return amount.Neg(), nil
		}
	case domain.Liability, domain.Equity, domain.Income:
		if isDebit {
			return amount.Neg(), nil
		}
	default:
		return decimal.Zero, fmt.Errorf("unknown account type %q", accountType)
	}
	return amount, nil
}

// IsMonetary reports whether the amount is a valid posting amount:
// non-negative with at most two decimal places.
func IsMonetary(amount decimal.Decimal) bool {
	return !amount.IsNegative() && amount.Equal(amount.Round(2))
}

// SumSides totals the debit and credit sides of a prospective entry.
func SumSides(lines []domain.LineSpec) (debits decimal.Decimal, credits decimal.Decimal) {
	debits, credits = decimal.Zero, decimal.Zero
	for _, l := range lines {
		if l.LineType == domain.Debit {
			debits = debits.Add(l.Amount)
		} else {
			credits = credits.Add(l.Amount)
		}
	}
	return debits, credits
}
