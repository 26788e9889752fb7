package receipt

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zombor/expense-scanner/internal/scanning"
)

var _ = Describe("Scan amounts", func() {
	var (
		result *scanning.ScanResult
		code   string
		scan   *Scan
	)

	BeforeEach(func() {
		code = "USD"
	})

	JustBeforeEach(func() {
		currency, err := lookupCurrency(code)
		Expect(err).NotTo(HaveOccurred())
		scan = &Scan{Result: result}
		scan.setAmounts(currency)
	})

	When("total and tax are present", func() {
		BeforeEach(func() {
			total, tax := 1234.5, 0.29
			result = &scanning.ScanResult{TotalAmount: &total, TaxAmount: &tax}
		})

		It("should convert to minor units without truncation", func() {
			Expect(*scan.TotalCents).To(Equal(int64(123450)))
			Expect(*scan.TaxCents).To(Equal(int64(29)))
		})

		It("should format display strings", func() {
			Expect(scan.Currency).To(Equal("USD"))
			Expect(scan.TotalDisplay).To(Equal("$1,234.50"))
			Expect(scan.TaxDisplay).To(Equal("$0.29"))
		})
	})

	When("amounts are missing", func() {
		BeforeEach(func() {
			result = &scanning.ScanResult{}
		})

		It("should leave the amount fields empty", func() {
			Expect(scan.TotalCents).To(BeNil())
			Expect(scan.TaxCents).To(BeNil())
			Expect(scan.TotalDisplay).To(BeEmpty())
			Expect(scan.Currency).To(Equal("USD"))
		})
	})

	When("the currency has no minor unit", func() {
		BeforeEach(func() {
			code = "jpy"
			total := 1500.0
			result = &scanning.ScanResult{TotalAmount: &total}
		})

		It("should not scale the amount", func() {
			Expect(scan.Currency).To(Equal("JPY"))
			Expect(*scan.TotalCents).To(Equal(int64(1500)))
		})
	})
})

var _ = Describe("lookupCurrency", func() {
	It("should reject unknown codes", func() {
		_, err := lookupCurrency("XXQ")
		Expect(err).To(MatchError(ContainSubstring("unknown currency")))
	})
})
