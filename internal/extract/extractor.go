// Package extract turns raw receipt and bank statement text into transaction
// candidates. It does no I/O; callers supply text and decide what to keep.
package extract

import "time"

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Extractor parses receipt and statement text. It holds no mutable state and
// is safe for concurrent use.
type Extractor struct {
	timeSource TimeSource
	observer   Observer
}

// NewExtractor creates an Extractor using the wall clock and no observer
func NewExtractor() *Extractor {
	return &Extractor{
		timeSource: &defaultTimeSource{},
		observer:   nopObserver{},
	}
}

// NewExtractorWithDeps creates an Extractor with a custom clock and observer.
// A nil argument keeps the default.
func NewExtractorWithDeps(timeSrc TimeSource, observer Observer) *Extractor {
	e := NewExtractor()
	if timeSrc != nil {
		e.timeSource = timeSrc
	}
	if observer != nil {
		e.observer = observer
	}
	return e
}
