package scanning

import (
	"context"
	"encoding/json"
	"image/color"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"
)

var _ = Describe("Ollama", func() {
	var (
		server *ghttp.Server
		ollama *Ollama
		image  []byte
	)

	BeforeEach(func() {
		server = ghttp.NewServer()
		var err error
		ollama, err = NewOllama(server.URL()+"/", "qwen2-vl:7b")
		Expect(err).NotTo(HaveOccurred())
		image = pngFixture(120, 80, color.White)
	})

	AfterEach(func() {
		server.Close()
	})

	When("the model answers", func() {
		BeforeEach(func() {
			server.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest(http.MethodPost, "/api/chat"),
				ghttp.VerifyContentType("application/json"),
				func(w http.ResponseWriter, r *http.Request) {
					defer GinkgoRecover()
					var req ollamaChatRequest
					Expect(json.NewDecoder(r.Body).Decode(&req)).To(Succeed())
					Expect(req.Model).To(Equal("qwen2-vl:7b"))
					Expect(req.Stream).To(BeFalse())
					Expect(req.Messages).To(HaveLen(2))
					Expect(req.Messages[1].Content).To(Equal(transcriptionPrompt))
					Expect(req.Messages[1].Images).To(HaveLen(1))
					Expect(req.Messages[1].Images[0]).NotTo(BeEmpty())
				},
				ghttp.RespondWithJSONEncoded(http.StatusOK, ollamaChatResponse{
					Message: ollamaMessage{
						Role:    "assistant",
						Content: "```json\n{\"lines\": [\"TOTAL: $23.47 grocery store\", \"04/01/2024\"]}\n```",
					},
					Done: true,
				}),
			))
		})

		It("returns the transcription", func() {
			text, err := ollama.RecognizeText(context.Background(), image, "image/png")
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(Equal("TOTAL: $23.47 grocery store\n04/01/2024"))
			Expect(server.ReceivedRequests()).To(HaveLen(1))
		})
	})

	When("the API fails", func() {
		BeforeEach(func() {
			server.AppendHandlers(ghttp.RespondWith(http.StatusInternalServerError, "model not loaded"))
		})

		It("returns the status and body", func() {
			_, err := ollama.RecognizeText(context.Background(), image, "image/png")
			Expect(err).To(MatchError(ContainSubstring("status 500")))
			Expect(err).To(MatchError(ContainSubstring("model not loaded")))
		})
	})

	When("the upload is not an image", func() {
		It("fails before calling the API", func() {
			_, err := ollama.RecognizeText(context.Background(), []byte("nope"), "image/jpeg")
			Expect(err).To(MatchError(ErrUnsupportedDocument))
			Expect(server.ReceivedRequests()).To(BeEmpty())
		})
	})

	When("the context is already cancelled", func() {
		It("does not complete the request", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			_, err := ollama.RecognizeText(ctx, image, "image/png")
			Expect(err).To(MatchError(context.Canceled))
		})
	})

	It("closes without error", func() {
		Expect(ollama.Close()).To(Succeed())
	})
})

var _ = Describe("NewOllama", func() {
	It("applies defaults", func() {
		o, err := NewOllama("", "")
		Expect(err).NotTo(HaveOccurred())
		Expect(o.baseURL).To(Equal("http://localhost:11434"))
		Expect(o.model).To(Equal("llava"))
	})
})
