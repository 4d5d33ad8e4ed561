package document

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// VisionOCR implements OCRClient on top of a vision-capable chat model. Each
// call transcribes one page or image.
type VisionOCR struct {
	client    *openai.Client
	model     string
	maxTokens int
	timeout   time.Duration
	logger    *zap.Logger
}

// NewVisionOCR creates a vision-model backed OCR client.
func NewVisionOCR(apiKey, model string, maxTokens int, timeout time.Duration, logger *zap.Logger) *VisionOCR {
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &VisionOCR{
		client:    openai.NewClient(apiKey),
		model:     model,
		maxTokens: maxTokens,
		timeout:   timeout,
		logger:    logger,
	}
}

// Recognize transcribes the image content. lang selects the recognition hint
// (LangFrenchEnglish or LangEnglish).
func (v *VisionOCR) Recognize(ctx context.Context, image []byte, lang string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	instruction := "Transcribe every piece of text visible in this document image, in reading order. " +
		"Output plain text only, no commentary."
	if lang == LangFrenchEnglish {
		instruction += " The document may be in French or English; keep the original language and accents."
	} else {
		instruction += " The document is in English."
	}

	base64Img := base64.StdEncoding.EncodeToString(image)

	resp, err := v.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       v.model,
		MaxTokens:   v.maxTokens,
		Temperature: 0.1,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: instruction,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    fmt.Sprintf("data:image/jpeg;base64,%s", base64Img),
							Detail: openai.ImageURLDetailHigh,
						},
					},
				},
			},
		},
	})
	if err != nil {
		v.logger.Error("vision OCR call failed", zap.Error(err))
		return "", fmt.Errorf("vision OCR call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from vision OCR")
	}

	text := resp.Choices[0].Message.Content
	v.logger.Debug("vision OCR completed",
		zap.String("lang", lang),
		zap.Int("text_len", len(text)))
	return text, nil
}

var _ OCRClient = (*VisionOCR)(nil)
