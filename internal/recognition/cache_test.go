package recognition

import (
	"context"
	"errors"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zombor/expense-scanner/internal/scanning"
)

type countingRecognizer struct {
	calls  int
	err    error
	closed bool
}

func (c *countingRecognizer) Recognize(_ context.Context, imageData []byte, _ string) (*scanning.Recognition, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	x, y := 0.0, float64(c.calls)
	return &scanning.Recognition{
		Text:   string(imageData),
		Blocks: []scanning.Block{{Lines: []scanning.Line{{Text: string(imageData), Frame: &scanning.Frame{X: &x, Y: &y}}}}},
	}, nil
}

func (c *countingRecognizer) Close() error {
	c.closed = true
	return nil
}

var _ = Describe("CachedRecognizer", func() {
	var (
		path  string
		inner *countingRecognizer
		cache *CachedRecognizer
	)

	BeforeEach(func() {
		path = filepath.Join(GinkgoT().TempDir(), "cache.db")
		inner = &countingRecognizer{}

		var err error
		cache, err = NewCachedRecognizer(path, inner)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if cache != nil {
			cache.Close()
		}
	})

	It("should call the backend once per image", func() {
		first, err := cache.Recognize(context.Background(), []byte("receipt-a"), "image/png")
		Expect(err).NotTo(HaveOccurred())
		second, err := cache.Recognize(context.Background(), []byte("receipt-a"), "image/png")
		Expect(err).NotTo(HaveOccurred())

		Expect(inner.calls).To(Equal(1))
		Expect(second).To(Equal(first))
	})

	It("should keep different images apart", func() {
		a, err := cache.Recognize(context.Background(), []byte("receipt-a"), "image/png")
		Expect(err).NotTo(HaveOccurred())
		b, err := cache.Recognize(context.Background(), []byte("receipt-b"), "image/png")
		Expect(err).NotTo(HaveOccurred())

		Expect(inner.calls).To(Equal(2))
		Expect(a.Text).To(Equal("receipt-a"))
		Expect(b.Text).To(Equal("receipt-b"))
	})

	It("should not cache failures", func() {
		inner.err = errors.New("backend down")
		_, err := cache.Recognize(context.Background(), []byte("receipt-a"), "image/png")
		Expect(err).To(MatchError("backend down"))

		inner.err = nil
		rec, err := cache.Recognize(context.Background(), []byte("receipt-a"), "image/png")
		Expect(err).NotTo(HaveOccurred())
		Expect(rec.Text).To(Equal("receipt-a"))
		Expect(inner.calls).To(Equal(2))
	})

	It("should persist across reopen", func() {
		_, err := cache.Recognize(context.Background(), []byte("receipt-a"), "image/png")
		Expect(err).NotTo(HaveOccurred())
		Expect(cache.Close()).To(Succeed())

		fresh := &countingRecognizer{}
		cache, err = NewCachedRecognizer(path, fresh)
		Expect(err).NotTo(HaveOccurred())

		rec, err := cache.Recognize(context.Background(), []byte("receipt-a"), "image/png")
		Expect(err).NotTo(HaveOccurred())
		Expect(fresh.calls).To(BeZero())
		Expect(rec.Text).To(Equal("receipt-a"))
		Expect(rec.Fragments()).To(HaveLen(1))
	})

	It("should close the wrapped recognizer", func() {
		Expect(cache.Close()).To(Succeed())
		Expect(inner.closed).To(BeTrue())
		cache = nil
	})
})
