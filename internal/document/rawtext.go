package document

import "strings"

// extractRawPDFText scans the raw byte stream with a single-byte-per-character
// decoding and keeps printable runs. Best-effort only: it is used when
// structured PDF parsing fails outright, and its output is rejected when it
// looks like PDF syntax noise rather than prose.
func extractRawPDFText(content []byte) Result {
	var runs []string
	var current strings.Builder

	flush := func() {
		if current.Len() >= 4 {
			runs = append(runs, current.String())
		}
		current.Reset()
	}

	for _, b := range content {
		if b >= 0x20 && b < 0x7f || b == '\n' || b == '\t' {
			if b == '\n' {
				flush()
			} else {
				current.WriteByte(b)
			}
		} else {
			flush()
		}
	}
	flush()

	text := strings.TrimSpace(strings.Join(runs, "\n"))
	if text == "" || looksLikePDFSyntax(text) {
		return Result{
			Source:   SourceNone,
			Warnings: []string{"document PDF illisible (aucun texte exploitable)"},
		}
	}

	return Result{
		Text:        text,
		CanReadText: true,
		Source:      SourceNative,
		Warnings:    []string{"texte extrait en mode dégradé, vérification recommandée"},
	}
}

// looksLikePDFSyntax detects structural marker density: a recovered stream
// dominated by object syntax is noise, not prose.
func looksLikePDFSyntax(text string) bool {
	if strings.Count(text, "endobj") > 2 || strings.Count(text, "/Type") > 3 {
		return true
	}
	if strings.Count(text, " obj") > 4 {
		return true
	}

	slashTokens := 0
	for _, word := range strings.Fields(text) {
		if strings.HasPrefix(word, "/") && len(word) > 1 {
			slashTokens++
		}
	}
	return slashTokens > 10
}
