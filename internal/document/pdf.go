package document

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// extractPDF tries the native text layer first, then escalates to page
// rasterization + OCR when the layer yields too little usable text. A raw
// byte-stream scan is the secondary fallback when structured parsing fails
// outright.
func (e *Extractor) extractPDF(ctx context.Context, content []byte) Result {
	doc, err := fitz.NewFromMemory(content)
	if err != nil {
		res := extractRawPDFText(content)
		res.Warnings = append(res.Warnings, fmt.Sprintf("analyse PDF impossible: %v", err))
		return res
	}
	defer doc.Close()

	nativeText := e.readTextLayer(doc)

	if len(strings.TrimSpace(nativeText)) >= e.minNativeLen {
		return Result{Text: nativeText, CanReadText: true, Source: SourceNative}
	}

	// Text layer too thin: likely a scanned document. Rasterize and OCR.
	ocrText, warnings := e.ocrPages(ctx, doc)

	switch {
	case ocrText == "" && strings.TrimSpace(nativeText) == "":
		res := extractRawPDFText(content)
		res.Warnings = append(res.Warnings, warnings...)
		return res
	case ocrText == "":
		return Result{Text: nativeText, CanReadText: true, Source: SourceNative, Warnings: warnings}
	case strings.TrimSpace(nativeText) == "":
		return Result{Text: ocrText, CanReadText: true, Source: SourceOCR, Warnings: warnings}
	default:
		// Both layers contributed something.
		combined := strings.TrimSpace(nativeText) + "\n" + ocrText
		return Result{Text: combined, CanReadText: true, Source: SourceHybrid, Warnings: warnings}
	}
}

// readTextLayer concatenates the native text layer over a capped number of
// pages.
func (e *Extractor) readTextLayer(doc *fitz.Document) string {
	pages := doc.NumPage()
	if pages > e.maxPDFTextPages {
		pages = e.maxPDFTextPages
	}

	var b strings.Builder
	for n := 0; n < pages; n++ {
		text, err := doc.Text(n)
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String()
}

// ocrPages renders a capped number of pages to raster images and runs OCR
// over each, concatenating recognized text.
func (e *Extractor) ocrPages(ctx context.Context, doc *fitz.Document) (string, []string) {
	if e.ocr == nil {
		return "", []string{"OCR indisponible pour ce document scanné"}
	}

	pages := doc.NumPage()
	if pages > e.maxOCRPages {
		pages = e.maxOCRPages
	}

	var b strings.Builder
	var warnings []string
	for n := 0; n < pages; n++ {
		img, err := doc.Image(n)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("rendu de la page %d impossible: %v", n+1, err))
			continue
		}

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
			warnings = append(warnings, fmt.Sprintf("encodage de la page %d impossible: %v", n+1, err))
			continue
		}

		text, err := e.recognizeWithFallback(ctx, buf.Bytes())
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("OCR de la page %d échoué: %v", n+1, err))
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(strings.TrimSpace(text))
	}

	return strings.TrimSpace(b.String()), warnings
}

// extractImage runs OCR directly over an image file.
func (e *Extractor) extractImage(ctx context.Context, content []byte) Result {
	if e.ocr == nil {
		return Result{Source: SourceNone, Warnings: []string{"OCR indisponible pour les images"}}
	}

	text, err := e.recognizeWithFallback(ctx, content)
	if err != nil {
		return Result{Source: SourceNone, Warnings: []string{fmt.Sprintf("OCR échoué: %v", err)}}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{Source: SourceNone, Warnings: []string{"OCR n'a produit aucun texte"}}
	}
	return Result{Text: text, CanReadText: true, Source: SourceOCR}
}
