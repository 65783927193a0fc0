package extract

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Kind selects the parser for a document
type Kind string

const (
	KindReceipt   Kind = "receipt"
	KindStatement Kind = "statement"
)

// Document is raw text recovered from one uploaded file
type Document struct {
	Name string
	Kind Kind
	Text string
}

// Result holds the output for one Document. Exactly one of Receipt and
// Candidates is set, depending on the document kind.
type Result struct {
	Name       string      `json:"name"`
	Kind       Kind        `json:"kind"`
	Receipt    *Receipt    `json:"receipt,omitempty"`
	Candidates []Candidate `json:"candidates,omitempty"`
}

// ParseDocuments parses independent documents concurrently, at most limit at
// a time (limit <= 0 means no bound). Results are in input order. Cancelling
// ctx stops documents that have not started yet.
func (e *Extractor) ParseDocuments(ctx context.Context, docs []Document, limit int) ([]Result, error) {
	results := make([]Result, len(docs))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, doc := range docs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			res := Result{Name: doc.Name, Kind: doc.Kind}
			switch doc.Kind {
			case KindReceipt:
				r := e.ParseReceipt(doc.Text)
				res.Receipt = &r
			case KindStatement:
				res.Candidates = e.ParseStatement(doc.Text)
			default:
				return fmt.Errorf("document %q: unknown kind %q", doc.Name, doc.Kind)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
