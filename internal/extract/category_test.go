package extract

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Classifier", func() {
	Describe("StatementClassifier", func() {
		DescribeTable("keyword rules",
			func(text string, want Category) {
				Expect(StatementClassifier.Classify(text)).To(Equal(want))
			},
			Entry("grocery", "Grocery Store", CategoryFood),
			Entry("restaurant beats shop", "Restaurant and gift shop", CategoryFood),
			Entry("fuel", "Shell petrol", CategoryTransportation),
			Entry("station wins over food rules after it", "Station Cafe", CategoryTransportation),
			Entry("mall", "Westfield Mall", CategoryShopping),
			Entry("bill", "Phone bill", CategoryUtilities),
			Entry("doctor", "Dr visit doctor", CategoryHealthcare),
			Entry("salary", "Salary Payment", CategoryIncome),
			Entry("rent", "Monthly rent", CategoryHousing),
			Entry("movie", "Cinema movie night", CategoryEntertainment),
			Entry("tuition", "University tuition", CategoryEducation),
			Entry("case insensitive", "SUPERMARKET", CategoryFood),
			Entry("no keyword", "Transfer to savings", CategoryOther),
			Entry("empty", "", CategoryOther),
		)
	})

	Describe("ReceiptClassifier", func() {
		DescribeTable("keyword rules",
			func(text string, want Category) {
				Expect(ReceiptClassifier.Classify(text)).To(Equal(want))
			},
			Entry("grocery", "TOTAL 12.00 grocery store", CategoryFood),
			Entry("gas", "GAS STATION #12", CategoryTransportation),
			Entry("pharmacy", "CVS PHARMACY", CategoryHealthcare),
			Entry("water", "City water utility", CategoryUtilities),
			Entry("shop is not a receipt keyword", "Gift shop", CategoryOther),
			Entry("salary is not a receipt keyword", "salary", CategoryOther),
		)
	})

	Describe("NewClassifier", func() {
		It("evaluates rules in the order given", func() {
			c := NewClassifier([]Rule{
				{CategoryShopping, []string{"SHOP"}},
				{CategoryFood, []string{"restaurant"}},
			})
			Expect(c.Classify("restaurant shop")).To(Equal(CategoryShopping))
		})

		It("folds keyword case", func() {
			c := NewClassifier([]Rule{{CategoryHousing, []string{"Straße"}}})
			Expect(c.Classify("HAUPTSTRASSE 5")).To(Equal(CategoryHousing))
		})
	})
})
