package extract

import "github.com/shopspring/decimal"

var incomeKeywords = []string{
	"salary",
	"deposit",
	"income",
	"refund",
	"credit",
	"payment received",
}

// InferType decides the direction of a statement line. An explicit sign
// wins; otherwise the description's wording decides, defaulting to expense.
func InferType(amount Amount, description string) Type {
	switch {
	case amount.Positive:
		return TypeIncome
	case amount.Negative:
		return TypeExpense
	case containsAny(fold(description), incomeKeywords):
		return TypeIncome
	}
	return TypeExpense
}

// InferReceiptType assumes a receipt documents a purchase whenever an amount
// was found. A receipt without an amount is reported as income.
// TODO: a missing amount is not evidence of income; revisit once callers can
// express "unknown".
func InferReceiptType(amount decimal.NullDecimal) Type {
	if amount.Valid && amount.Decimal.IsPositive() {
		return TypeExpense
	}
	return TypeIncome
}
