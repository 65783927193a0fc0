package logger

import (
	"github.com/rs/zerolog"

	"github.com/zombor/expense-tracker/internal/extract"
)

// ExtractObserver logs extraction events. Skipped and parsed lines go to
// debug; document totals go to info.
func ExtractObserver(log zerolog.Logger) extract.Observer {
	return extract.ObserverFunc(func(ev extract.Event) {
		switch ev.Kind {
		case extract.EventLineSkipped:
			log.Debug().
				Int("line", ev.Line).
				Str("reason", string(ev.Reason)).
				Str("pattern", ev.Pattern).
				Str("text", ev.Text).
				Msg("statement line skipped")
		case extract.EventLineParsed:
			e := log.Debug().Int("line", ev.Line).Str("pattern", ev.Pattern)
			if c := ev.Candidate; c != nil {
				e = e.Str("amount", c.Amount.StringFixed(2)).
					Str("type", string(c.Type)).
					Str("category", string(c.Category)).
					Str("date_confidence", string(c.DateConfidence))
			}
			e.Msg("statement line parsed")
		case extract.EventStatementParsed:
			log.Info().Int("candidates", ev.Count).Msg("statement parsed")
		case extract.EventReceiptParsed:
			e := log.Info()
			if r := ev.Receipt; r != nil {
				e = e.Bool("amount_found", r.Amount.Valid).
					Str("category", string(r.Category)).
					Str("type", string(r.Type)).
					Str("date_confidence", string(r.DateConfidence))
				if r.Amount.Valid {
					e = e.Str("amount", r.Amount.Decimal.StringFixed(2))
				}
			}
			e.Msg("receipt parsed")
		}
	})
}
