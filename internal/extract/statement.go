package extract

import (
	"regexp"
	"strings"
)

const (
	dateToken   = `(\d{4}[/-]\d{1,2}[/-]\d{1,2}|\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`
	amountToken = `([-+]?\s*[$€£]?\s*[\d,]+\.\d{2})`
)

var headerRE = regexp.MustCompile(`(?i)date|description|amount|balance|total`)

// linePattern is one field order a statement export may use. The index
// fields say which capture group holds which field.
type linePattern struct {
	name        string
	re          *regexp.Regexp
	date        int
	description int
	amount      int
}

// linePatterns are tried in order; the first match decides the line
var linePatterns = []linePattern{
	{
		name:        "date-description-amount",
		re:          regexp.MustCompile(dateToken + `\s+([^0-9+$\-€£]+?)\s+` + amountToken),
		date:        1,
		description: 2,
		amount:      3,
	},
	{
		name:        "date-amount-description",
		re:          regexp.MustCompile(dateToken + `\s+` + amountToken + `\s+([^0-9]+)`),
		date:        1,
		amount:      2,
		description: 3,
	},
	{
		name:        "description-amount-date",
		re:          regexp.MustCompile(`([^0-9]+?)\s+` + amountToken + `\s+` + dateToken),
		description: 1,
		amount:      2,
		date:        3,
	},
}

// ParseStatement extracts one candidate per transaction line, in line order.
// Lines that are blank, look like headers, match no pattern or carry an
// unparseable amount are skipped without affecting the rest.
func (e *Extractor) ParseStatement(text string) []Candidate {
	candidates := make([]Candidate, 0)
	for i, line := range strings.Split(text, "\n") {
		lineNo := i + 1
		line = strings.TrimRight(line, "\r")

		if c, ok := e.parseLine(lineNo, line); ok {
			candidates = append(candidates, c)
		}
	}
	e.observer.Observe(Event{Kind: EventStatementParsed, Count: len(candidates)})
	return candidates
}

func (e *Extractor) parseLine(lineNo int, line string) (Candidate, bool) {
	skip := func(reason SkipReason, pattern string) (Candidate, bool) {
		e.observer.Observe(Event{Kind: EventLineSkipped, Line: lineNo, Text: line, Pattern: pattern, Reason: reason})
		return Candidate{}, false
	}

	if strings.TrimSpace(line) == "" {
		return skip(SkipBlank, "")
	}
	if headerRE.MatchString(line) {
		return skip(SkipHeader, "")
	}

	reason := SkipNoMatch
	for _, p := range linePatterns {
		m := p.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		description := strings.TrimSpace(m[p.description])
		if description == "" {
			reason = SkipNoDescription
			continue
		}

		amt, ok := NormalizeAmount(m[p.amount])
		if !ok {
			return skip(SkipBadAmount, p.name)
		}

		date := e.NormalizeDate(m[p.date])
		c := Candidate{
			Amount:         amt.Value,
			Date:           date.Time,
			DateConfidence: date.Confidence,
			Description:    description,
			Category:       StatementClassifier.Classify(description),
			Type:           InferType(amt, description),
			Line:           lineNo,
		}
		e.observer.Observe(Event{Kind: EventLineParsed, Line: lineNo, Text: line, Pattern: p.name, Candidate: &c})
		return c, true
	}
	return skip(reason, "")
}
