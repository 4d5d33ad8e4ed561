package document

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// extractSpreadsheet reads the first sheet into a matrix of strings. The
// matrix is kept on the result for structured extraction; the flattened join
// serves the text-based paths.
func (e *Extractor) extractSpreadsheet(content []byte) Result {
	wb, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return Result{
			Source:   SourceNone,
			Warnings: []string{fmt.Sprintf("lecture du classeur impossible: %v", err)},
		}
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return Result{Source: SourceNone, Warnings: []string{"classeur sans feuille"}}
	}

	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return Result{
			Source:   SourceNone,
			Warnings: []string{fmt.Sprintf("lecture de la feuille impossible: %v", err)},
		}
	}

	text := flattenMatrix(rows)
	if strings.TrimSpace(text) == "" {
		return Result{Source: SourceNone, Matrix: rows, Warnings: []string{"feuille vide"}}
	}

	return Result{Text: text, CanReadText: true, Source: SourceNative, Matrix: rows}
}

// flattenMatrix joins cells with tabs and rows with newlines.
func flattenMatrix(rows [][]string) string {
	var b strings.Builder
	for _, row := range rows {
		b.WriteString(strings.Join(row, "\t"))
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}
