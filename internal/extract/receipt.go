package extract

import (
	"regexp"

	"github.com/shopspring/decimal"
)

const currencySymbols = `$€£¥₹₩₪₺₴₦₲₡₵₸₿`

var (
	receiptAmountRE = regexp.MustCompile(`(?i)(?:total|amount|amt|balance|due|[` + currencySymbols + `]|\bRS|USD|EUR|GBP|JPY|KRW|CNY|CAD|AUD|CHF|NZD)` +
		`[\s:]*[` + currencySymbols + `]?\s*([0-9]+(?:[.,][0-9]+)*)`)
	receiptDateRE = regexp.MustCompile(`(?i)\d{1,2}[/-]\d{1,2}[/-]\d{2,4}|\d{4}[/-]\d{1,2}[/-]\d{1,2}|(?:date|on)[\s:]*\d{1,2}[/-]\d{1,2}[/-]\d{2,4}`)
)

// ParseReceipt extracts the single transaction a receipt documents. It always
// returns a Receipt; a missing amount is reported through Amount.Valid.
func (e *Extractor) ParseReceipt(text string) Receipt {
	var amount decimal.NullDecimal
	if m := receiptAmountRE.FindStringSubmatch(text); m != nil {
		if amt, ok := NormalizeAmount(m[1]); ok {
			amount = decimal.NewNullDecimal(amt.Value)
		}
	}

	date := e.NormalizeDate(receiptDateRE.FindString(text))

	r := Receipt{
		Amount:         amount,
		Date:           date.Time,
		DateConfidence: date.Confidence,
		Description:    ReceiptDescription,
		Category:       ReceiptClassifier.Classify(text),
		Type:           InferReceiptType(amount),
		Text:           text,
	}
	e.observer.Observe(Event{Kind: EventReceiptParsed, Text: text, Receipt: &r})
	return r
}
