package extract

import (
	"context"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/CharbelKaf/asset-tracker/internal/amount"
	"github.com/CharbelKaf/asset-tracker/internal/document"
	"github.com/CharbelKaf/asset-tracker/internal/domain/entity"
	"github.com/CharbelKaf/asset-tracker/internal/patterns"
)

const (
	headerScanRows   = 20
	amountSampleRows = 40
	csvLineRatio     = 0.5
	capexThreshold   = 10000
)

// BudgetExtractor produces budget drafts: a fiscal year plus a list of
// (category, amount) lines.
type BudgetExtractor struct {
	docs   *document.Extractor
	logger *zap.Logger
	now    func() time.Time
}

// NewBudgetExtractor creates a budget draft extractor.
func NewBudgetExtractor(docs *document.Extractor, logger *zap.Logger) *BudgetExtractor {
	return &BudgetExtractor{docs: docs, logger: logger, now: time.Now}
}

// Extract builds a budget draft from the file. Spreadsheets and CSV-like text
// go through table-structure detection; unstructured text falls back to
// per-line heuristics.
func (x *BudgetExtractor) Extract(ctx context.Context, f document.File) entity.BudgetDraft {
	res := x.docs.Extract(ctx, f)

	draft := entity.BudgetDraft{
		Source:   res.Source,
		Warnings: append([]string{}, res.Warnings...),
	}

	var lines []entity.BudgetLine
	var year int
	structured := false

	switch {
	case res.Matrix != nil:
		lines, year = extractFromMatrix(res.Matrix)
		structured = true
	case res.CanReadText && isDelimited(res.Text):
		lines, year = extractFromMatrix(splitDelimited(res.Text))
		structured = true
	case res.CanReadText:
		lines = extractFromLines(res.Text)
		if len(lines) == 0 {
			lines = extractLabelNumberPairs(res.Text)
		}
	}

	if year == 0 {
		year = findFiscalYear(f.Name(), res.Text)
	}
	if year == 0 {
		year = x.now().Year()
	}

	draft.Year = year
	draft.Lines = lines

	switch {
	case !res.CanReadText || len(lines) == 0:
		draft.Confidence = entity.ConfidenceLow
	case len(lines) >= 3 && structured && res.Source == document.SourceNative:
		draft.Confidence = entity.ConfidenceHigh
	default:
		draft.Confidence = entity.ConfidenceMedium
	}

	if !res.CanReadText {
		draft.Warnings = append(draft.Warnings, "document illisible")
	} else if len(lines) == 0 {
		draft.Warnings = append(draft.Warnings, "aucune ligne budgétaire détectée")
	}

	x.logger.Debug("budget draft extracted",
		zap.String("file", f.Name()),
		zap.Int("lines", len(lines)),
		zap.Int("year", draft.Year),
		zap.String("confidence", draft.Confidence))

	return draft
}

// ClassifyBudgetLine assigns a CAPEX/OPEX classification to a budget line
// based on its amount. Deliberately independent of the ledger's
// expense-type-to-category mapping.
func ClassifyBudgetLine(amt float64) string {
	if amt >= capexThreshold {
		return "CAPEX"
	}
	return "OPEX"
}

// isDelimited reports whether a large fraction of the non-empty lines carry a
// delimiter character, in which case the text is retried as CSV-like.
func isDelimited(text string) bool {
	var total, delimited int
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		total++
		if strings.ContainsAny(line, ";,\t") {
			delimited++
		}
	}
	return total > 0 && float64(delimited)/float64(total) >= csvLineRatio
}

// splitDelimited turns delimited text into a matrix, using the first detected
// delimiter among semicolon, tab and comma.
func splitDelimited(text string) [][]string {
	delim := ","
	for _, d := range []string{";", "\t", ","} {
		if strings.Contains(text, d) {
			delim = d
			break
		}
	}

	var rows [][]string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		cells := strings.Split(line, delim)
		for i := range cells {
			cells[i] = strings.TrimSpace(cells[i])
		}
		rows = append(rows, cells)
	}
	return rows
}

// extractFromMatrix is the shared matrix routine: locate the best-scoring
// header row, resolve the category and amount columns, then walk the rows
// below it.
func extractFromMatrix(rows [][]string) ([]entity.BudgetLine, int) {
	if len(rows) == 0 {
		return nil, 0
	}

	headerIdx, catCol, amtCol, yearCol := findHeaderRow(rows)

	if amtCol < 0 {
		amtCol = guessAmountColumn(rows, headerIdx, catCol)
	}
	if amtCol < 0 {
		return nil, 0
	}

	var lines []entity.BudgetLine
	for _, row := range rows[headerIdx+1:] {
		if catCol >= len(row) || amtCol >= len(row) {
			continue
		}
		category := strings.TrimSpace(row[catCol])
		v, ok := amount.ParsePositive(row[amtCol])
		if !ok || isNoiseCategory(category) {
			continue
		}
		lines = append(lines, entity.BudgetLine{Category: category, Amount: amount.String(v)})
	}

	year := 0
	if yearCol >= 0 {
		for _, row := range rows {
			if yearCol < len(row) {
				if m := patterns.YearToken.FindString(row[yearCol]); m != "" {
					year, _ = strconv.Atoi(m)
					break
				}
			}
		}
	}

	return lines, year
}

// findHeaderRow scores the first rows on the presence of category-like,
// amount-like and year-like column names. Category and amount hits weigh 3,
// year hits 1, plus a small bonus per non-empty cell.
func findHeaderRow(rows [][]string) (headerIdx, catCol, amtCol, yearCol int) {
	catCol, amtCol, yearCol = 0, -1, -1

	limit := len(rows)
	if limit > headerScanRows {
		limit = headerScanRows
	}

	bestScore := 0.0
	for i := 0; i < limit; i++ {
		score := 0.0
		rowCat, rowAmt, rowYear := -1, -1, -1
		for j, cell := range rows[i] {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			score += 0.2
			switch {
			case rowCat < 0 && patterns.ContainsAny(cell, patterns.BudgetCategoryHeaders):
				rowCat = j
				score += 3
			case rowAmt < 0 && patterns.ContainsAny(cell, patterns.BudgetAmountHeaders):
				rowAmt = j
				score += 3
			case rowYear < 0 && patterns.ContainsAny(cell, patterns.BudgetYearHeaders):
				rowYear = j
				score += 1
			}
		}
		if score > bestScore {
			bestScore = score
			headerIdx = i
			if rowCat >= 0 {
				catCol = rowCat
			}
			amtCol = rowAmt
			yearCol = rowYear
		}
	}
	return headerIdx, catCol, amtCol, yearCol
}

// guessAmountColumn picks the column (excluding the category column) with the
// highest count of parseable positive numeric cells across a bounded sample,
// breaking ties by cumulative magnitude.
func guessAmountColumn(rows [][]string, headerIdx, catCol int) int {
	type colStats struct {
		count int
		sum   float64
	}
	stats := map[int]*colStats{}

	sampled := 0
	for _, row := range rows[headerIdx+1:] {
		if sampled >= amountSampleRows {
			break
		}
		sampled++
		for j, cell := range row {
			if j == catCol {
				continue
			}
			// Cells with letters are codes or labels, not amounts, even
			// though the numeric parser would strip the letters away.
			if strings.ContainsFunc(cell, isLetter) {
				continue
			}
			if v, ok := amount.ParsePositive(cell); ok {
				if stats[j] == nil {
					stats[j] = &colStats{}
				}
				stats[j].count++
				stats[j].sum += v
			}
		}
	}

	best := -1
	for j, s := range stats {
		if best < 0 || s.count > stats[best].count ||
			(s.count == stats[best].count && s.sum > stats[best].sum) {
			best = j
		}
	}
	return best
}

// extractFromLines runs the unstructured-text heuristic: per line, the token
// with the largest parsed magnitude is the amount and the remainder is the
// category, noise lines discarded.
func extractFromLines(text string) []entity.BudgetLine {
	var lines []entity.BudgetLine
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		bestTok := ""
		bestVal := 0.0
		for _, tok := range patterns.AmountToken.FindAllString(line, -1) {
			if v, ok := amount.ParsePositive(tok); ok && v > bestVal {
				bestVal = v
				bestTok = tok
			}
		}
		if bestTok == "" {
			continue
		}

		category := strings.Replace(line, bestTok, "", 1)
		category = stripCurrencySymbols(category)
		category = strings.Trim(category, " \t:;,-€$£")
		category = strings.Join(strings.Fields(category), " ")
		if isNoiseCategory(category) {
			continue
		}

		lines = append(lines, entity.BudgetLine{Category: category, Amount: amount.String(bestVal)})
	}
	return lines
}

var labelNumberRe = regexp.MustCompile(`([A-Za-zÀ-ÿ][A-Za-zÀ-ÿ'&/ .\-]{2,40})\s*[:\-]?\s*([\d][\d\s.,]*)`)

// extractLabelNumberPairs is the last-resort sweep for "label followed by
// number" pairs across the whole text.
func extractLabelNumberPairs(text string) []entity.BudgetLine {
	var lines []entity.BudgetLine
	for _, m := range labelNumberRe.FindAllStringSubmatch(text, -1) {
		category := strings.TrimSpace(m[1])
		v, ok := amount.ParsePositive(m[2])
		if !ok || isNoiseCategory(category) {
			continue
		}
		lines = append(lines, entity.BudgetLine{Category: category, Amount: amount.String(v)})
	}
	return lines
}

// isNoiseCategory discards categories that are too short, carry no letters or
// match known aggregate/header words.
func isNoiseCategory(category string) bool {
	if len(category) < 3 {
		return true
	}
	if !strings.ContainsFunc(category, isLetter) {
		return true
	}
	return patterns.ContainsAny(category, patterns.BudgetLineNoise)
}

func stripCurrencySymbols(s string) string {
	for _, sym := range []string{"€", "$", "£", "EUR", "USD", "FCFA", "MAD"} {
		s = strings.ReplaceAll(s, sym, "")
	}
	return s
}

// findFiscalYear looks for a plausible year token in the filename then the
// body text.
func findFiscalYear(filename, text string) int {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	if m := patterns.YearToken.FindString(base); m != "" {
		y, _ := strconv.Atoi(m)
		return y
	}
	if m := patterns.YearToken.FindString(text); m != "" {
		y, _ := strconv.Atoi(m)
		return y
	}
	return 0
}
