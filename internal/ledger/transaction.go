package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"

	"github.com/zombor/expense-tracker/internal/extract"
)

var (
	// ErrNotFound is returned when a transaction does not exist
	ErrNotFound = errors.New("transaction not found")
	// ErrInvalidTransaction is returned when a transaction fails validation
	ErrInvalidTransaction = errors.New("invalid transaction")
)

// maxDescriptionLength is measured in characters, not bytes
const maxDescriptionLength = 200

// Source records how a transaction entered the ledger
type Source string

const (
	SourceManual    Source = "manual"
	SourceReceipt   Source = "receipt"
	SourceStatement Source = "statement"
)

// Transaction is a persisted income or expense entry
type Transaction struct {
	ID            string          `json:"id"`
	Type          extract.Type    `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	Date          time.Time       `json:"date"`
	Source        Source          `json:"source"`
	SourceFile    string          `json:"source_file,omitempty"`  // archived upload the transaction came from
	ContentType   string          `json:"content_type,omitempty"` // of SourceFile
	DateDefaulted bool            `json:"date_defaulted,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// TransactionInput holds the user supplied fields of a new transaction.
// A nil Date means today.
type TransactionInput struct {
	Type        extract.Type
	Amount      decimal.Decimal
	Category    string
	Description string
	Date        *time.Time
}

// TransactionUpdate changes only the fields that are set
type TransactionUpdate struct {
	Type        *extract.Type
	Amount      *decimal.Decimal
	Category    *string
	Description *string
	Date        *time.Time
}

// apply copies the set fields onto t
func (u TransactionUpdate) apply(t *Transaction) {
	if u.Type != nil {
		t.Type = *u.Type
	}
	if u.Amount != nil {
		t.Amount = *u.Amount
	}
	if u.Category != nil {
		t.Category = *u.Category
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Date != nil {
		t.Date = *u.Date
		t.DateDefaulted = false
	}
}

// canonicalCategory returns the taxonomy spelling of name when it names a
// known category in any case. Other categories are kept as given.
func canonicalCategory(name string) string {
	folded := cases.Fold().String(name)
	for _, c := range extract.Categories {
		if cases.Fold().String(string(c)) == folded {
			return string(c)
		}
	}
	return name
}

// normalize trims text fields and checks the ledger's rules
func (t *Transaction) normalize() error {
	t.Category = canonicalCategory(strings.TrimSpace(t.Category))
	t.Description = strings.TrimSpace(t.Description)

	switch {
	case !t.Type.Valid():
		return fmt.Errorf("%w: type must be either income or expense", ErrInvalidTransaction)
	case !t.Amount.IsPositive():
		return fmt.Errorf("%w: amount must be greater than 0", ErrInvalidTransaction)
	case t.Category == "":
		return fmt.Errorf("%w: category is required", ErrInvalidTransaction)
	case t.Description == "":
		return fmt.Errorf("%w: description is required", ErrInvalidTransaction)
	case utf8.RuneCountInString(t.Description) > maxDescriptionLength:
		return fmt.Errorf("%w: description must be at most %d characters", ErrInvalidTransaction, maxDescriptionLength)
	}
	return nil
}

// Filter narrows ListTransactions. Zero values mean "no constraint"; Page
// and Limit default to 1 and 10, and Limit is capped at 100. End includes
// the whole of its day.
type Filter struct {
	Start    *time.Time
	End      *time.Time
	Type     extract.Type
	Category string // case-insensitive substring
	Page     int
	Limit    int
}

// Page is one page of a filtered listing
type Page struct {
	Transactions []*Transaction `json:"transactions"`
	Total        int            `json:"total"`
	TotalPages   int            `json:"totalPages"`
	CurrentPage  int            `json:"currentPage"`
}

// MonthlyTotals sums one calendar month
type MonthlyTotals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// Summary aggregates transactions for charts
type Summary struct {
	ExpensesByCategory map[string]decimal.Decimal `json:"expensesByCategory"`
	MonthlyData        map[string]*MonthlyTotals  `json:"monthlyData"` // keyed by YYYY-MM
	TotalIncome        decimal.Decimal            `json:"totalIncome"`
	TotalExpense       decimal.Decimal            `json:"totalExpense"`
}

// ReceiptResult is the outcome of processing one receipt upload. Created is
// nil when no amount was found or the transaction could not be saved.
type ReceiptResult struct {
	Text    string          `json:"text"`
	Receipt extract.Receipt `json:"transaction"`
	Created *Transaction    `json:"createdTransaction"`
}

// StatementResult is the outcome of processing one statement upload
type StatementResult struct {
	Text         string         `json:"text"`
	Found        int            `json:"found"`
	Transactions []*Transaction `json:"transactions"`
}
