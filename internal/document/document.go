// Package document turns uploaded files (PDF, image, spreadsheet, plain text)
// into a best-effort plain-text representation with a provenance tag. The
// cheapest reliable method is tried first; rasterization and OCR are an
// escalation, not the default. Extraction failure is a data condition, never
// an error returned to the caller.
package document

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Source tags where the extracted text came from.
const (
	SourceNative = "native"
	SourceOCR    = "ocr"
	SourceHybrid = "hybrid"
	SourceNone   = "none"
)

// File is the input boundary: anything with a name and binary content. No
// assumption is made about origin (upload, batch import, test fixture).
type File interface {
	Name() string
	Bytes() ([]byte, error)
}

// MemFile is an in-memory File.
type MemFile struct {
	FileName string
	Content  []byte
}

func (f MemFile) Name() string           { return f.FileName }
func (f MemFile) Bytes() ([]byte, error) { return f.Content, nil }

// Result is the outcome of text extraction. Matrix is populated for
// spreadsheet inputs so structured extraction can work on cells instead of
// flattened text.
type Result struct {
	Text        string
	CanReadText bool
	Source      string
	Matrix      [][]string
	Warnings    []string
}

// Extractor runs the extraction pipeline. OCR is an external capability
// injected through the OCRClient interface.
type Extractor struct {
	ocr    OCRClient
	logger *zap.Logger

	maxPDFTextPages int
	maxOCRPages     int
	minNativeLen    int
}

// NewExtractor creates a document extractor. ocr may be nil, in which case the
// OCR escalation paths degrade to unreadable results with a warning.
func NewExtractor(ocr OCRClient, logger *zap.Logger) *Extractor {
	return &Extractor{
		ocr:             ocr,
		logger:          logger,
		maxPDFTextPages: 10,
		maxOCRPages:     3,
		minNativeLen:    120,
	}
}

// Extract produces the best-effort text representation of the file. It never
// returns an error: any failing stage is converted into CanReadText=false
// plus a warning.
func (e *Extractor) Extract(ctx context.Context, f File) Result {
	ext := strings.ToLower(filepath.Ext(f.Name()))

	content, err := f.Bytes()
	if err != nil {
		return Result{
			Source:   SourceNone,
			Warnings: []string{fmt.Sprintf("lecture du fichier impossible: %v", err)},
		}
	}

	var res Result
	switch {
	case isTextExt(ext):
		res = extractPlainText(content)
	case isSpreadsheetExt(ext):
		res = e.extractSpreadsheet(content)
	case ext == ".pdf":
		res = e.extractPDF(ctx, content)
	case isImageExt(ext):
		res = e.extractImage(ctx, content)
	default:
		// Unknown extension: try a direct text read before giving up.
		res = extractPlainText(content)
		if !res.CanReadText {
			res.Warnings = append(res.Warnings, fmt.Sprintf("format non pris en charge: %s", ext))
		}
	}

	e.logger.Debug("document extracted",
		zap.String("file", f.Name()),
		zap.String("source", res.Source),
		zap.Bool("readable", res.CanReadText),
		zap.Int("text_len", len(res.Text)))

	return res
}

// extractPlainText reads the content directly as UTF-8 text.
func extractPlainText(content []byte) Result {
	text := strings.TrimSpace(string(content))
	if text == "" {
		return Result{
			Source:   SourceNone,
			Warnings: []string{"document vide ou illisible"},
		}
	}
	return Result{Text: text, CanReadText: true, Source: SourceNative}
}

func isTextExt(ext string) bool {
	switch ext {
	case ".txt", ".csv", ".tsv", ".md", ".json", ".xml", ".log":
		return true
	}
	return false
}

func isSpreadsheetExt(ext string) bool {
	switch ext {
	case ".xlsx", ".xlsm", ".xltx", ".xltm", ".xls", ".ods":
		return true
	}
	return false
}

func isImageExt(ext string) bool {
	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp", ".bmp", ".gif", ".tif", ".tiff":
		return true
	}
	return false
}
