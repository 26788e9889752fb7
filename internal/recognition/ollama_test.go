package recognition

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"

	"github.com/zombor/expense-scanner/internal/scanning"
)

var _ = Describe("Ollama", func() {
	var (
		server   *ghttp.Server
		ollama   *Ollama
		received ollamaChatRequest
	)

	BeforeEach(func() {
		server = ghttp.NewServer()
		var err error
		ollama, err = NewOllama(server.URL()+"/", "test-model")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		server.Close()
	})

	captureRequest := func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		Expect(err).NotTo(HaveOccurred())
		Expect(json.Unmarshal(body, &received)).To(Succeed())
	}

	When("the model answers with a transcription", func() {
		BeforeEach(func() {
			server.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest(http.MethodPost, "/api/chat"),
				ghttp.VerifyContentType("application/json"),
				captureRequest,
				ghttp.RespondWithJSONEncoded(http.StatusOK, ollamaChatResponse{
					Done: true,
					Message: ollamaMessage{
						Role:    "assistant",
						Content: "```json\n{\"blocks\":[{\"lines\":[{\"text\":\"SuperMart\",\"frame\":{\"x\":1,\"y\":2,\"width\":3,\"height\":4}}]}]}\n```",
					},
				}),
			))
		})

		It("should return the recognized lines", func() {
			rec, err := ollama.Recognize(context.Background(), pngBytes(64, 32), "image/png")
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.Fragments()).To(ConsistOf(scanning.TextFragment{
				Text:     "SuperMart",
				Position: scanning.Point{X: 1, Y: 2},
				Size:     scanning.Size{Width: 3, Height: 4},
			}))
			Expect(rec.FullText()).To(Equal("SuperMart"))
		})

		It("should send the image with the prompt", func() {
			_, err := ollama.Recognize(context.Background(), pngBytes(64, 32), "image/png")
			Expect(err).NotTo(HaveOccurred())

			Expect(received.Model).To(Equal("test-model"))
			Expect(received.Stream).To(BeFalse())
			Expect(received.Format).To(Equal("json"))
			Expect(received.Messages).To(HaveLen(2))
			Expect(received.Messages[0].Role).To(Equal("system"))
			Expect(received.Messages[1].Images).To(HaveLen(1))
			Expect(received.Messages[1].Content).To(ContainSubstring("64 pixels wide and 32 pixels tall"))
		})
	})

	When("the API returns an error status", func() {
		BeforeEach(func() {
			server.AppendHandlers(ghttp.RespondWith(http.StatusInternalServerError, "model not loaded"))
		})

		It("should return the status and body", func() {
			_, err := ollama.Recognize(context.Background(), pngBytes(8, 8), "image/png")
			Expect(err).To(MatchError(ContainSubstring("status 500")))
			Expect(err).To(MatchError(ContainSubstring("model not loaded")))
		})
	})

	When("the model answers with prose", func() {
		BeforeEach(func() {
			server.AppendHandlers(ghttp.RespondWithJSONEncoded(http.StatusOK, ollamaChatResponse{
				Message: ollamaMessage{Role: "assistant", Content: "I can't read that."},
			}))
		})

		It("should return a parse error", func() {
			_, err := ollama.Recognize(context.Background(), pngBytes(8, 8), "image/png")
			Expect(err).To(MatchError(ContainSubstring("parsing recognition")))
		})
	})

	When("the image cannot be prepared", func() {
		It("should not call the API", func() {
			_, err := ollama.Recognize(context.Background(), []byte("nope"), "image/gif")
			Expect(err).To(HaveOccurred())
			Expect(server.ReceivedRequests()).To(BeEmpty())
		})
	})

	When("the context is cancelled", func() {
		It("should return an error", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := ollama.Recognize(ctx, pngBytes(8, 8), "image/png")
			Expect(err).To(MatchError(ContainSubstring("calling ollama API")))
		})
	})

	Describe("defaults", func() {
		It("should fill in the base URL and model", func() {
			o, err := NewOllama("", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(o.baseURL).To(Equal(defaultOllamaURL))
			Expect(o.model).To(Equal(defaultOllamaModel))
			Expect(o.Close()).To(Succeed())
		})
	})
})

var _ = Describe("NewGemini", func() {
	It("should require an API key", func() {
		_, err := NewGemini(context.Background(), "", "")
		Expect(err).To(MatchError(ContainSubstring("api key is required")))
	})
})
