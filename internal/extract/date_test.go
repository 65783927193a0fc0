package extract

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("NormalizeDate", func() {
	var (
		now       time.Time
		extractor *Extractor
	)

	BeforeEach(func() {
		now = time.Date(2025, 6, 30, 15, 4, 5, 0, time.UTC)
		extractor = NewExtractorWithDeps(&mockTimeSource{now: now}, nil)
	})

	DescribeTable("recognized layouts",
		func(raw string, want time.Time) {
			res := extractor.NormalizeDate(raw)
			Expect(res.Confidence).To(Equal(DateParsed))
			Expect(res.Time).To(Equal(want))
		},
		Entry("month first slash", "03/14/2024", day(2024, time.March, 14)),
		Entry("month first dash", "03-14-2024", day(2024, time.March, 14)),
		Entry("ambiguous resolves month first", "04/01/2024", day(2024, time.April, 1)),
		Entry("day first when first field exceeds 12", "25/12/2023", day(2023, time.December, 25)),
		Entry("single digit fields", "1/2/2024", day(2024, time.January, 2)),
		Entry("two digit year below pivot", "07/04/24", day(2024, time.July, 4)),
		Entry("two digit year above pivot", "07/04/99", day(1999, time.July, 4)),
		Entry("year first dash", "2024-03-14", day(2024, time.March, 14)),
		Entry("year first slash", "2024/3/5", day(2024, time.March, 5)),
		Entry("date phrase", "Date: 03/14/2024", day(2024, time.March, 14)),
		Entry("on phrase", "on 03/14/2024", day(2024, time.March, 14)),
		Entry("surrounding whitespace", "  2024-01-31 ", day(2024, time.January, 31)),
	)

	DescribeTable("falls back to now",
		func(raw string) {
			var res DateResult
			Expect(func() { res = extractor.NormalizeDate(raw) }).NotTo(Panic())
			Expect(res.Confidence).To(Equal(DateDefaulted))
			Expect(res.Defaulted()).To(BeTrue())
			Expect(res.Time).To(Equal(now))
		},
		Entry("empty", ""),
		Entry("garbled", "3#/x4/20?4"),
		Entry("impossible day", "02/30/2024"),
		Entry("both fields above 12", "13/14/2024"),
		Entry("three digit year", "1/2/202"),
		Entry("month zero", "2024-00-10"),
	)

	When("the default clock is used", func() {
		It("returns the current time within tolerance", func() {
			res := NewExtractor().NormalizeDate("not a date")
			Expect(res.Defaulted()).To(BeTrue())
			Expect(res.Time).To(BeTemporally("~", time.Now(), 2*time.Second))
		})
	})
})
