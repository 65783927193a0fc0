package extract

// EventKind identifies what an Event reports
type EventKind string

const (
	EventReceiptParsed   EventKind = "receipt_parsed"
	EventLineParsed      EventKind = "line_parsed"
	EventLineSkipped     EventKind = "line_skipped"
	EventStatementParsed EventKind = "statement_parsed"
)

// SkipReason explains why a statement line produced no candidate
type SkipReason string

const (
	SkipBlank         SkipReason = "blank"
	SkipHeader        SkipReason = "header"
	SkipNoMatch       SkipReason = "no_match"
	SkipBadAmount     SkipReason = "bad_amount"
	SkipNoDescription SkipReason = "no_description"
)

// Event is a structured record of a parsing step
type Event struct {
	Kind      EventKind
	Line      int
	Text      string
	Pattern   string
	Reason    SkipReason
	Candidate *Candidate
	Receipt   *Receipt
	Count     int
}

// Observer receives parsing events. Implementations must not block and
// must be safe for concurrent use if the Extractor is shared.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to the Observer interface
type ObserverFunc func(Event)

// Observe calls f(ev)
func (f ObserverFunc) Observe(ev Event) {
	f(ev)
}

type nopObserver struct{}

func (nopObserver) Observe(Event) {}
