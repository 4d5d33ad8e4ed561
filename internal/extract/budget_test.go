package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/CharbelKaf/asset-tracker/internal/document"
	"github.com/CharbelKaf/asset-tracker/internal/domain/entity"
)

func newBudgetExtractor() *BudgetExtractor {
	docs := document.NewExtractor(nil, zap.NewNop())
	return NewBudgetExtractor(docs, zap.NewNop())
}

func TestBudgetExtract_CSVTwoLines(t *testing.T) {
	x := newBudgetExtractor()

	draft := x.Extract(context.Background(), document.MemFile{
		FileName: "budget.csv",
		Content:  []byte("Catégorie,Montant\nMatériel IT,15000\nLicences,3200\n"),
	})

	require.Len(t, draft.Lines, 2)
	assert.Equal(t, entity.BudgetLine{Category: "Matériel IT", Amount: "15000"}, draft.Lines[0])
	assert.Equal(t, entity.BudgetLine{Category: "Licences", Amount: "3200"}, draft.Lines[1])
	assert.Equal(t, entity.ConfidenceMedium, draft.Confidence)
	assert.Empty(t, draft.Warnings)
}

func TestBudgetExtract_SemicolonCSVWithYearColumn(t *testing.T) {
	x := newBudgetExtractor()

	content := "Poste;Montant alloué;Année\n" +
		"Matériel IT;15000;2025\n" +
		"Licences Logiciel;3200;2025\n" +
		"Cloud Infrastructure;8000;2025\n"

	draft := x.Extract(context.Background(), document.MemFile{
		FileName: "previsionnel.csv",
		Content:  []byte(content),
	})

	require.Len(t, draft.Lines, 3)
	assert.Equal(t, 2025, draft.Year)
	assert.Equal(t, entity.ConfidenceHigh, draft.Confidence)
}

func TestBudgetExtract_Spreadsheet(t *testing.T) {
	wb := excelize.NewFile()
	sheet := wb.GetSheetName(0)
	rows := [][]interface{}{
		{"Budget prévisionnel"},
		{"Catégorie", "Montant"},
		{"Matériel IT", 15000},
		{"Licences", 3200},
		{"Maintenance", 4500},
		{"Total", 22700},
	}
	for i, row := range rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, wb.SetCellValue(sheet, cell, v))
		}
	}
	buf, err := wb.WriteToBuffer()
	require.NoError(t, err)

	x := newBudgetExtractor()
	draft := x.Extract(context.Background(), document.MemFile{
		FileName: "budget_2025.xlsx",
		Content:  buf.Bytes(),
	})

	require.Len(t, draft.Lines, 3, "the Total aggregate row must be discarded")
	assert.Equal(t, "Matériel IT", draft.Lines[0].Category)
	assert.Equal(t, "15000", draft.Lines[0].Amount)
	assert.Equal(t, 2025, draft.Year, "year read from the filename")
	assert.Equal(t, entity.ConfidenceHigh, draft.Confidence)
}

func TestBudgetExtract_UnstructuredLines(t *testing.T) {
	x := newBudgetExtractor()

	content := "Budget informatique\n" +
		"Matériel IT 15 000 €\n" +
		"Licences logiciel 3 200 €\n" +
		"Total 18 200 €\n"

	draft := x.Extract(context.Background(), document.MemFile{
		FileName: "plan.txt",
		Content:  []byte(content),
	})

	require.Len(t, draft.Lines, 2)
	assert.Equal(t, "Matériel IT", draft.Lines[0].Category)
	assert.Equal(t, "15000", draft.Lines[0].Amount)
	assert.Equal(t, "Licences logiciel", draft.Lines[1].Category)
	assert.Equal(t, "3200", draft.Lines[1].Amount)
}

func TestBudgetExtract_Unreadable(t *testing.T) {
	x := newBudgetExtractor()

	draft := x.Extract(context.Background(), document.MemFile{FileName: "budget.txt", Content: []byte(" ")})

	assert.Empty(t, draft.Lines)
	assert.Equal(t, entity.ConfidenceLow, draft.Confidence)
	assert.Contains(t, draft.Warnings, "document illisible")
}

func TestGuessAmountColumn(t *testing.T) {
	rows := [][]string{
		{"Libellé", "Code", "Valeur"},
		{"Matériel", "A1", "15000"},
		{"Licences", "B2", "3200"},
		{"Divers", "C3", "abc"},
	}
	// Header matches "Libellé" only, so the amount column must be inferred.
	headerIdx, catCol, amtCol, _ := findHeaderRow(rows)
	assert.Equal(t, 0, headerIdx)
	assert.Equal(t, 0, catCol)
	assert.Equal(t, -1, amtCol)

	guessed := guessAmountColumn(rows, headerIdx, catCol)
	assert.Equal(t, 2, guessed)
}

func TestIsNoiseCategory(t *testing.T) {
	tests := []struct {
		category string
		want     bool
	}{
		{"Matériel IT", false},
		{"ab", true},
		{"1234", true},
		{"Total général", true},
		{"Sous-total", true},
		{"Budget 2024", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isNoiseCategory(tt.category), tt.category)
	}
}

func TestClassifyBudgetLine(t *testing.T) {
	assert.Equal(t, "CAPEX", ClassifyBudgetLine(15000))
	assert.Equal(t, "OPEX", ClassifyBudgetLine(3200))
}
