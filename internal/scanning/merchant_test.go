package scanning

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("extractMerchant", func() {
	var (
		rows     []TextRow
		cfg      Config
		merchant *string
	)

	BeforeEach(func() {
		cfg = DefaultConfig()
	})

	JustBeforeEach(func() {
		merchant = extractMerchant(rows, cfg)
	})

	When("the first row is a name", func() {
		BeforeEach(func() {
			rows = textRows([]string{"SuperMart"}, []string{"Milk", "45.00"})
		})

		It("should return it", func() {
			Expect(merchant).To(Equal(ptr("SuperMart")))
		})
	})

	When("header rows are metadata", func() {
		BeforeEach(func() {
			rows = textRows(
				[]string{"12345"},
				[]string{"GSTIN 29ABCDE"},
				[]string{"Tax Invoice"},
				[]string{"Abc"},
				[]string{"Royal Bakery"},
			)
		})

		It("should skip numbers, short rows and noise", func() {
			Expect(merchant).To(Equal(ptr("Royal Bakery")))
		})
	})

	When("no leading row qualifies", func() {
		BeforeEach(func() {
			rows = textRows(
				[]string{"Date 01/02/24"},
				[]string{"Phone 5550101"},
				[]string{"Inv #12"},
				[]string{"42"},
				[]string{"ab"},
				[]string{"GST 18%"},
				[]string{"Late Name Shop"},
			)
		})

		It("should not look past the scan window", func() {
			Expect(merchant).To(BeNil())
		})
	})

	When("there are no rows", func() {
		BeforeEach(func() {
			rows = nil
		})

		It("should return nil", func() {
			Expect(merchant).To(BeNil())
		})
	})
})
