package scanning

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Config", func() {
	It("should accept the defaults", func() {
		Expect(DefaultConfig().Validate()).To(Succeed())
	})

	It("should report every invalid setting", func() {
		cfg := DefaultConfig()
		cfg.RowTolerance = 0
		cfg.TotalWindowFraction = 1.5
		cfg.MaxItemPrice = -1

		err := cfg.Validate()
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("row tolerance"))
		Expect(err.Error()).To(ContainSubstring("total window fraction"))
		Expect(err.Error()).To(ContainSubstring("max item price"))
	})

	It("should reject a quantity bound that admits nothing", func() {
		cfg := DefaultConfig()
		cfg.MaxQuantity = 1
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("max quantity")))
	})
})
