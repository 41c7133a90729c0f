package normalize

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func rawItemFromJSON(s string) RawItem {
	var it RawItem
	Expect(json.Unmarshal([]byte(s), &it)).To(Succeed())
	return it
}

var _ = Describe("NormalizeItem", func() {
	var (
		raw  RawItem
		item CanonicalItem
		err  error
	)

	JustBeforeEach(func() {
		item, err = NormalizeItem(raw)
	})

	When("the item has a leading count and a line total", func() {
		BeforeEach(func() {
			raw = rawItemFromJSON(`{"name": "2 FS LAYS CHIPS", "quantity": 2, "line_total": 3.00}`)
		})

		It("does not drop the item", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("strips the count from the name", func() {
			Expect(item.Name).To(Equal("FS LAYS CHIPS"))
		})

		It("derives the unit price from the total", func() {
			Expect(item.Quantity).To(Equal(2))
			Expect(item.UnitPrice).To(Equal(1.50))
			Expect(item.LineTotal).To(Equal(3.00))
		})

		It("defaults the category to product", func() {
			Expect(item.Category).To(Equal(CategoryProduct))
		})
	})

	When("size tokens trail the item name", func() {
		BeforeEach(func() {
			raw = rawItemFromJSON(`{"name": "CVS PURFD WTR 24P 16.9", "unit_price": 5.99}`)
		})

		It("treats the line as a single unit", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(item.Quantity).To(Equal(1))
			Expect(item.UnitPrice).To(Equal(5.99))
			Expect(item.LineTotal).To(Equal(5.99))
		})
	})

	When("the item is sold by weight", func() {
		BeforeEach(func() {
			raw = rawItemFromJSON(`{"name": "WT 0.58 lb @ $1.99/lb"}`)
		})

		It("folds the weighed total into a single-unit line", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(item.Quantity).To(Equal(1))
			Expect(item.UnitPrice).To(Equal(1.15))
			Expect(item.LineTotal).To(Equal(1.15))
		})

		It("preserves the weighed amount", func() {
			Expect(item.Weight).To(Equal(0.58))
		})
	})

	When("the extractor printed a total for a weighed line", func() {
		BeforeEach(func() {
			raw = rawItemFromJSON(`{"name": "WT 0.58 lb @ $1.99/lb", "line_total": 1.15}`)
		})

		It("trusts the printed total", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(item.UnitPrice).To(Equal(1.15))
			Expect(item.LineTotal).To(Equal(1.15))
		})
	})

	When("the name is empty", func() {
		BeforeEach(func() {
			raw = rawItemFromJSON(`{"name": "   ", "line_total": 4.99}`)
		})

		It("drops the item", func() {
			Expect(err).To(MatchError(ErrEmptyName))
		})
	})

	When("the price is negative", func() {
		BeforeEach(func() {
			raw = rawItemFromJSON(`{"name": "COUPON", "line_total": -1.00}`)
		})

		It("drops the item", func() {
			Expect(err).To(MatchError(ErrInvalidPrice))
		})
	})

	When("a product line has a zero price", func() {
		BeforeEach(func() {
			raw = rawItemFromJSON(`{"name": "FREE SAMPLE", "line_total": 0, "category": "product"}`)
		})

		It("drops the item", func() {
			Expect(err).To(MatchError(ErrZeroPrice))
		})
	})

	When("a tax line has a zero price", func() {
		BeforeEach(func() {
			raw = rawItemFromJSON(`{"name": "TAX", "line_total": 0, "category": "tax"}`)
		})

		It("keeps the item", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(item.Category).To(Equal(CategoryTax))
			Expect(item.LineTotal).To(Equal(0.0))
		})
	})

	When("the category is unknown", func() {
		BeforeEach(func() {
			raw = rawItemFromJSON(`{"name": "MILK", "line_total": 4.29, "category": "grocery"}`)
		})

		It("defaults to product", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(item.Category).To(Equal(CategoryProduct))
		})
	})

	When("only a unit price and quantity are known", func() {
		BeforeEach(func() {
			raw = rawItemFromJSON(`{"name": "BAG FEE", "quantity": 4, "unit_price": 0.10, "category": "fee"}`)
		})

		It("computes the line total", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(item.LineTotal).To(Equal(0.40))
		})
	})

	When("the provided unit price disagrees with the printed total", func() {
		BeforeEach(func() {
			raw = rawItemFromJSON(`{"name": "YOGURT", "quantity": 3, "unit_price": 1.99, "line_total": 5.99}`)
		})

		It("re-derives the unit price from the total", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(item.LineTotal).To(Equal(5.99))
			Expect(item.UnitPrice).To(Equal(2.00))
		})
	})

	When("numeric fields arrive as strings", func() {
		BeforeEach(func() {
			raw = rawItemFromJSON(`{"name": "MILK", "quantity": "2", "line_total": "$4.58"}`)
		})

		It("coerces them", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(item.Quantity).To(Equal(2))
			Expect(item.UnitPrice).To(Equal(2.29))
			Expect(item.LineTotal).To(Equal(4.58))
		})
	})

	When("the quantity is garbage", func() {
		BeforeEach(func() {
			raw = rawItemFromJSON(`{"name": "MILK", "quantity": "a few", "line_total": 4.29}`)
		})

		It("falls back to a quantity of 1", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(item.Quantity).To(Equal(1))
			Expect(item.UnitPrice).To(Equal(4.29))
		})
	})
})
