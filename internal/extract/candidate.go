package extract

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category is a label from the fixed expense taxonomy
type Category string

const (
	CategoryFood           Category = "Food"
	CategoryTransportation Category = "Transportation"
	CategoryEntertainment  Category = "Entertainment"
	CategoryShopping       Category = "Shopping"
	CategoryUtilities      Category = "Utilities"
	CategoryHealthcare     Category = "Healthcare"
	CategoryEducation      Category = "Education"
	CategoryHousing        Category = "Housing"
	CategoryIncome         Category = "Income"
	CategoryOther          Category = "Other"
)

// Categories lists every label in the taxonomy
var Categories = []Category{
	CategoryFood,
	CategoryTransportation,
	CategoryEntertainment,
	CategoryShopping,
	CategoryUtilities,
	CategoryHealthcare,
	CategoryEducation,
	CategoryHousing,
	CategoryIncome,
	CategoryOther,
}

// Type tells whether money came in or went out
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// Valid reports whether t is income or expense
func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// ReceiptDescription is the placeholder description of every receipt candidate
const ReceiptDescription = "Extracted from receipt"

// Candidate is one transaction recovered from a statement line.
// Amount is always a non-negative magnitude; direction lives in Type.
type Candidate struct {
	Amount         decimal.Decimal `json:"amount"`
	Date           time.Time       `json:"date"`
	DateConfidence Confidence      `json:"date_confidence"`
	Description    string          `json:"description"`
	Category       Category        `json:"category"`
	Type           Type            `json:"type"`
	Line           int             `json:"line"` // 1-based line in the source text
}

// Receipt is the single candidate recovered from a receipt's OCR text.
// Amount is invalid when no amount could be parsed.
type Receipt struct {
	Amount         decimal.NullDecimal `json:"amount"`
	Date           time.Time           `json:"date"`
	DateConfidence Confidence          `json:"date_confidence"`
	Description    string              `json:"description"`
	Category       Category            `json:"category"`
	Type           Type                `json:"type"`
	Text           string              `json:"text"`
}
