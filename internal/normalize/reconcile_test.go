package normalize

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Reconcile", func() {
	var (
		items     []CanonicalItem
		declared  *float64
		breakdown Breakdown
		mismatch  bool
	)

	JustBeforeEach(func() {
		breakdown, mismatch = Reconcile(items, declared)
	})

	When("the receipt has items in every bucket", func() {
		BeforeEach(func() {
			items = []CanonicalItem{
				{Name: "SAMOSAS VEGETABLE", Quantity: 1, UnitPrice: 3.99, LineTotal: 3.99, Category: CategoryProduct},
				{Name: "MILK", Quantity: 2, UnitPrice: 2.50, LineTotal: 5.00, Category: CategoryProduct},
				{Name: "BAG FEE", Quantity: 4, UnitPrice: 0.10, LineTotal: 0.40, Category: CategoryFee},
				{Name: "BOTTLE DEPOSIT", Quantity: 1, UnitPrice: 0.05, LineTotal: 0.05, Category: CategoryDeposit},
				{Name: "TAX", Quantity: 1, UnitPrice: 0.56, LineTotal: 0.56, Category: CategoryTax},
			}
			declared = nil
		})

		It("sums each bucket", func() {
			Expect(breakdown.ProductSubtotal).To(Equal(8.99))
			Expect(breakdown.FeeTotal).To(Equal(0.45))
			Expect(breakdown.TaxTotal).To(Equal(0.56))
		})

		It("computes the receipt total", func() {
			Expect(breakdown.ComputedTotal).To(Equal(10.00))
		})

		It("does not flag a mismatch without a declared total", func() {
			Expect(mismatch).To(BeFalse())
		})
	})

	When("the declared total differs beyond the tolerance", func() {
		BeforeEach(func() {
			items = []CanonicalItem{
				{Name: "GROCERIES", Quantity: 1, UnitPrice: 75.94, LineTotal: 75.94, Category: CategoryProduct},
			}
			v := 75.00
			declared = &v
		})

		It("flags the mismatch", func() {
			Expect(mismatch).To(BeTrue())
		})
	})

	When("the declared total differs within the tolerance", func() {
		BeforeEach(func() {
			items = []CanonicalItem{
				{Name: "GROCERIES", Quantity: 1, UnitPrice: 75.94, LineTotal: 75.94, Category: CategoryProduct},
			}
			v := 75.90
			declared = &v
		})

		It("does not flag a mismatch", func() {
			Expect(mismatch).To(BeFalse())
		})
	})

	When("the difference is exactly the tolerance", func() {
		BeforeEach(func() {
			items = []CanonicalItem{
				{Name: "GROCERIES", Quantity: 1, UnitPrice: 10.10, LineTotal: 10.10, Category: CategoryProduct},
			}
			v := 10.00
			declared = &v
		})

		It("does not flag a mismatch", func() {
			Expect(mismatch).To(BeFalse())
		})
	})

	When("there are no items", func() {
		BeforeEach(func() {
			items = nil
			declared = nil
		})

		It("returns a zero breakdown", func() {
			Expect(breakdown).To(Equal(Breakdown{}))
			Expect(mismatch).To(BeFalse())
		})
	})
})
