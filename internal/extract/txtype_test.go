package extract

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

var _ = Describe("InferType", func() {
	DescribeTable("explicit signs win regardless of wording",
		func(amt Amount, description string, want Type) {
			Expect(InferType(amt, description)).To(Equal(want))
		},
		Entry("plus with expense wording", Amount{Positive: true}, "Grocery Store", TypeIncome),
		Entry("minus with income wording", Amount{Negative: true}, "Salary refund", TypeExpense),
		Entry("plus and minus both present", Amount{Positive: true, Negative: true}, "", TypeIncome),
	)

	DescribeTable("unsigned amounts use the description",
		func(description string, want Type) {
			Expect(InferType(Amount{}, description)).To(Equal(want))
		},
		Entry("salary", "ACME Corp SALARY", TypeIncome),
		Entry("deposit", "Mobile deposit", TypeIncome),
		Entry("refund", "Amazon refund", TypeIncome),
		Entry("credit", "Interest credit", TypeIncome),
		Entry("payment received", "Payment Received - thank you", TypeIncome),
		Entry("plain payment is not income", "Card payment", TypeExpense),
		Entry("default expense", "Coffee", TypeExpense),
	)
})

var _ = Describe("InferReceiptType", func() {
	It("is an expense when a positive amount was found", func() {
		Expect(InferReceiptType(decimal.NewNullDecimal(decimal.RequireFromString("9.99")))).To(Equal(TypeExpense))
	})

	It("is income when no amount was found", func() {
		Expect(InferReceiptType(decimal.NullDecimal{})).To(Equal(TypeIncome))
	})

	It("is income when the amount is zero", func() {
		Expect(InferReceiptType(decimal.NewNullDecimal(decimal.Zero))).To(Equal(TypeIncome))
	})
})
