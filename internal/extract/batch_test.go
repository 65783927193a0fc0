package extract

import (
	"context"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ParseDocuments", func() {
	var (
		extractor *Extractor
		ctx       context.Context
	)

	BeforeEach(func() {
		extractor = NewExtractorWithDeps(&mockTimeSource{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}, nil)
		ctx = context.Background()
	})

	It("returns one result per document in input order", func() {
		docs := make([]Document, 0, 20)
		for i := range 20 {
			if i%2 == 0 {
				docs = append(docs, Document{Name: fmt.Sprintf("doc-%d", i), Kind: KindReceipt, Text: fmt.Sprintf("TOTAL: $%d.00", i+1)})
			} else {
				docs = append(docs, Document{Name: fmt.Sprintf("doc-%d", i), Kind: KindStatement, Text: "03/14/2024 Grocery Store -45.20"})
			}
		}

		results, err := extractor.ParseDocuments(ctx, docs, 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(20))

		for i, res := range results {
			Expect(res.Name).To(Equal(fmt.Sprintf("doc-%d", i)))
			if i%2 == 0 {
				Expect(res.Kind).To(Equal(KindReceipt))
				Expect(res.Receipt).NotTo(BeNil())
				Expect(res.Receipt.Amount.Decimal.IntPart()).To(Equal(int64(i + 1)))
				Expect(res.Candidates).To(BeNil())
			} else {
				Expect(res.Kind).To(Equal(KindStatement))
				Expect(res.Receipt).To(BeNil())
				Expect(res.Candidates).To(HaveLen(1))
			}
		}
	})

	It("runs without a concurrency bound", func() {
		docs := []Document{
			{Name: "a", Kind: KindStatement, Text: "03/15/2024 +2500.00 Salary Payment"},
			{Name: "b", Kind: KindReceipt, Text: "pharmacy total 4.00"},
		}

		results, err := extractor.ParseDocuments(ctx, docs, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(results[0].Candidates[0].Type).To(Equal(TypeIncome))
		Expect(results[1].Receipt.Category).To(Equal(CategoryHealthcare))
	})

	It("handles an empty batch", func() {
		results, err := extractor.ParseDocuments(ctx, nil, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(BeEmpty())
	})

	It("fails on an unknown document kind", func() {
		docs := []Document{
			{Name: "ok", Kind: KindReceipt, Text: "total 1.00"},
			{Name: "bad", Kind: Kind("invoice"), Text: ""},
		}

		_, err := extractor.ParseDocuments(ctx, docs, 1)
		Expect(err).To(MatchError(ContainSubstring(`unknown kind "invoice"`)))
	})

	It("stops when the context is cancelled", func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := extractor.ParseDocuments(cctx, []Document{{Name: "a", Kind: KindReceipt}}, 1)
		Expect(err).To(MatchError(context.Canceled))
	})
})
