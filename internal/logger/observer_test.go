package logger

import (
	"bytes"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"

	"github.com/zombor/expense-tracker/internal/extract"
)

type fixedClock struct{}

func (fixedClock) Now() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }

var _ = Describe("ExtractObserver", func() {
	var (
		buf       *bytes.Buffer
		extractor *extract.Extractor
	)

	BeforeEach(func() {
		buf = &bytes.Buffer{}
		log := NewWithWriter(buf).Level(zerolog.DebugLevel)
		extractor = extract.NewExtractorWithDeps(fixedClock{}, ExtractObserver(log))
	})

	It("logs statement lines and the total", func() {
		extractor.ParseStatement("Date Description Amount\n03/14/2024 Grocery Store -45.20")

		out := buf.String()
		Expect(out).To(ContainSubstring(`"message":"statement line skipped"`))
		Expect(out).To(ContainSubstring(`"reason":"header"`))
		Expect(out).To(ContainSubstring(`"message":"statement line parsed"`))
		Expect(out).To(ContainSubstring(`"amount":"45.20"`))
		Expect(out).To(ContainSubstring(`"category":"Food"`))
		Expect(out).To(ContainSubstring(`"candidates":1`))
	})

	It("logs receipts", func() {
		extractor.ParseReceipt("TOTAL: $23.47 grocery store 04/01/2024")

		out := buf.String()
		Expect(out).To(ContainSubstring(`"message":"receipt parsed"`))
		Expect(out).To(ContainSubstring(`"amount_found":true`))
		Expect(out).To(ContainSubstring(`"amount":"23.47"`))
	})

	It("omits the amount when none was found", func() {
		extractor.ParseReceipt("nothing useful")

		Expect(buf.String()).To(ContainSubstring(`"amount_found":false`))
		Expect(buf.String()).NotTo(ContainSubstring(`"amount":`))
	})
})
