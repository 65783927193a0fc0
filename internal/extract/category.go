package extract

import (
	"strings"

	"golang.org/x/text/cases"
)

// Rule maps a keyword set to a category
type Rule struct {
	Category Category
	Keywords []string
}

// Classifier picks a category with an ordered list of keyword rules.
// The first rule with any keyword in the text wins, so order matters
// wherever keyword sets overlap.
type Classifier struct {
	rules []Rule
}

// NewClassifier builds a Classifier; keywords are case-folded once here
func NewClassifier(rules []Rule) *Classifier {
	folded := make([]Rule, len(rules))
	for i, r := range rules {
		kws := make([]string, len(r.Keywords))
		for j, kw := range r.Keywords {
			kws[j] = fold(kw)
		}
		folded[i] = Rule{Category: r.Category, Keywords: kws}
	}
	return &Classifier{rules: folded}
}

// Classify returns the category of the first matching rule, or CategoryOther
func (c *Classifier) Classify(text string) Category {
	folded := fold(text)
	for _, r := range c.rules {
		if containsAny(folded, r.Keywords) {
			return r.Category
		}
	}
	return CategoryOther
}

// ReceiptClassifier is tuned for short OCR text from a single purchase
var ReceiptClassifier = NewClassifier([]Rule{
	{CategoryFood, []string{"grocery", "food", "restaurant"}},
	{CategoryTransportation, []string{"gas", "fuel", "transport"}},
	{CategoryHealthcare, []string{"medical", "health", "pharmacy"}},
	{CategoryUtilities, []string{"utility", "electric", "water"}},
})

// StatementClassifier knows the wider vocabulary of bank statement lines
var StatementClassifier = NewClassifier([]Rule{
	{CategoryFood, []string{"grocery", "food", "supermarket", "market"}},
	{CategoryTransportation, []string{"gas", "fuel", "petrol", "station"}},
	{CategoryFood, []string{"restaurant", "dining", "cafe", "eat"}},
	{CategoryShopping, []string{"shopping", "store", "mall", "shop"}},
	{CategoryUtilities, []string{"utility", "electric", "water", "bill"}},
	{CategoryHealthcare, []string{"medical", "health", "pharmacy", "doctor"}},
	{CategoryIncome, []string{"salary", "income", "deposit", "pay"}},
	{CategoryHousing, []string{"rent", "mortgage", "housing"}},
	{CategoryEntertainment, []string{"entertainment", "movie", "game"}},
	{CategoryEducation, []string{"tuition", "school", "university", "college", "course"}},
})

// fold case-folds s. Casers keep state, so one is built per call.
func fold(s string) string {
	return cases.Fold().String(s)
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
