package scanning

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Parser", func() {
	var (
		cfg    Config
		parser *Parser
		rec    *Recognition
		result *ScanResult
	)

	BeforeEach(func() {
		cfg = DefaultConfig()
	})

	JustBeforeEach(func() {
		var err error
		parser, err = NewParser(cfg)
		Expect(err).NotTo(HaveOccurred())
		result = parser.Parse(rec)
	})

	When("parsing a grocery receipt", func() {
		BeforeEach(func() {
			rec = recognitionOf(
				[]string{"SuperMart"},
				[]string{"Milk 1kg", "45.00"},
				[]string{"Bread", "30.00"},
				[]string{"Total", "75.00"},
			)
		})

		It("should extract the merchant", func() {
			Expect(result.Merchant).To(Equal(ptr("SuperMart")))
		})

		// names keep their measure unless StripUnitFromName is set
		It("should extract the items", func() {
			Expect(result.Items).To(Equal([]LineItem{
				{Name: "Milk 1kg", Amount: 45, Quantity: 1, Unit: "kg"},
				{Name: "Bread", Amount: 30, Quantity: 1},
			}))
		})

		It("should extract the total", func() {
			Expect(result.TotalAmount).To(Equal(ptr(75.0)))
			Expect(result.TaxAmount).To(BeNil())
		})

		It("should classify it", func() {
			Expect(result.Category).To(Equal(ptr("Groceries")))
		})

		It("should report no date", func() {
			Expect(result.Date).To(BeNil())
		})

		It("should keep both text renditions", func() {
			Expect(result.RawText).To(Equal("SuperMart\nMilk 1kg\n45.00\nBread\n30.00\nTotal\n75.00"))
			Expect(result.ReconstructedText).To(Equal("SuperMart\nMilk 1kg 45.00\nBread 30.00\nTotal 75.00"))
		})

		When("units are stripped from item names", func() {
			BeforeEach(func() {
				cfg.StripUnitFromName = true
			})

			It("should name the item without its measure", func() {
				Expect(result.Items[0]).To(Equal(LineItem{Name: "Milk", Amount: 45, Quantity: 1, Unit: "kg"}))
			})
		})
	})

	When("parsing a restaurant bill with tax and a date", func() {
		BeforeEach(func() {
			rec = recognitionOf(
				[]string{"Spice Kitchen"},
				[]string{"Date 14/02/2024"},
				[]string{"2 x Coffee", "80.00"},
				[]string{"Paneer Tikka", "90.00"},
				[]string{"Subtotal", "170.00"},
				[]string{"CGST 2.5%", "4.25"},
				[]string{"SGST 2.5%", "4.25"},
				[]string{"Grand Total", "178.50"},
				[]string{"Thank you"},
			)
		})

		It("should extract every field", func() {
			Expect(result.Merchant).To(Equal(ptr("Spice Kitchen")))
			Expect(result.Date).To(Equal(ptr("14/02/2024")))
			Expect(result.TotalAmount).To(Equal(ptr(178.5)))
			Expect(result.TaxAmount).To(Equal(ptr(8.5)))
			Expect(result.Category).To(Equal(ptr("Food")))
			Expect(result.Items).To(Equal([]LineItem{
				{Name: "Coffee", Amount: 80, Quantity: 2},
				{Name: "Paneer Tikka", Amount: 90, Quantity: 1},
			}))
		})
	})

	When("the recognition carries the collaborator's full text", func() {
		BeforeEach(func() {
			rec = recognitionOf([]string{"Corner Cafe"})
			rec.Text = "CORNER CAFE\nopen daily"
		})

		It("should use it as the raw text", func() {
			Expect(result.RawText).To(Equal("CORNER CAFE\nopen daily"))
			Expect(result.ReconstructedText).To(Equal("Corner Cafe"))
		})
	})

	When("the recognition is empty", func() {
		BeforeEach(func() {
			rec = &Recognition{}
		})

		It("should return a result with nothing found", func() {
			Expect(result.TotalAmount).To(BeNil())
			Expect(result.TaxAmount).To(BeNil())
			Expect(result.Date).To(BeNil())
			Expect(result.Merchant).To(BeNil())
			Expect(result.Category).To(BeNil())
			Expect(result.Items).NotTo(BeNil())
			Expect(result.Items).To(BeEmpty())
			Expect(result.RawText).To(BeEmpty())
			Expect(result.ReconstructedText).To(BeEmpty())
		})
	})

	When("the recognition is nil", func() {
		BeforeEach(func() {
			rec = nil
		})

		It("should not panic", func() {
			Expect(result).NotTo(BeNil())
			Expect(result.Items).To(BeEmpty())
		})
	})

	When("the config is invalid", func() {
		It("should refuse to build a parser", func() {
			bad := DefaultConfig()
			bad.RowTolerance = -1
			_, err := NewParser(bad)
			Expect(err).To(MatchError(ContainSubstring("validating config")))
		})
	})
})

var _ = Describe("NewParserWithTaxonomy", func() {
	It("should classify with the given categories", func() {
		parser, err := NewParserWithTaxonomy(DefaultConfig(), []Category{{Name: "Books", Keywords: []string{"novel"}}})
		Expect(err).NotTo(HaveOccurred())

		result := parser.Parse(recognitionOf([]string{"Book Nook"}, []string{"Novel", "12.00"}))
		Expect(result.Category).To(Equal(ptr("Books")))
	})
})
