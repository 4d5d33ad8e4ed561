package document

import (
	"context"

	"go.uber.org/zap"
)

// OCR language hints. French+English combined recognition is the primary
// model; English-only is the retry before giving up.
const (
	LangFrenchEnglish = "fra+eng"
	LangEnglish       = "eng"
)

// OCRClient is the external OCR capability, invoked once per page or image.
type OCRClient interface {
	Recognize(ctx context.Context, image []byte, lang string) (string, error)
}

// recognizeWithFallback runs the primary French+English recognition and
// retries with English-only on failure.
func (e *Extractor) recognizeWithFallback(ctx context.Context, image []byte) (string, error) {
	text, err := e.ocr.Recognize(ctx, image, LangFrenchEnglish)
	if err == nil {
		return text, nil
	}
	e.logger.Warn("ocr failed, retrying english-only", zap.Error(err))
	return e.ocr.Recognize(ctx, image, LangEnglish)
}
