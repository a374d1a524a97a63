package converter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"tabsum/internal/config"
	"tabsum/internal/exporter"
)

// buildWorkbook writes a workbook with a single named sheet and returns
// its path.
func buildWorkbook(t *testing.T, sheetName string, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName(f.GetSheetName(0), sheetName))

	for i, row := range rows {
		for j, val := range row {
			col, err := excelize.ColumnNumberToName(j + 1)
			require.NoError(t, err)
			cell := fmt.Sprintf("%s%d", col, i+1)
			require.NoError(t, f.SetCellValue(sheetName, cell, val))
		}
	}

	path := filepath.Join(t.TempDir(), "source.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func setupConverter(t *testing.T) (*Converter, *config.Paths) {
	t.Helper()

	paths, err := config.NewPaths(config.PathsConfig{
		BaseDir:      t.TempDir(),
		DataDir:      "data",
		ArtifactsDir: "artifacts",
		SiteDir:      "site",
		LogsDir:      "logs",
	})
	require.NoError(t, err)
	require.NoError(t, paths.EnsureDirectories())

	return New(nil, exporter.NewCSVWriter(paths), ','), paths
}

// readOutput reads a converted file and splits it into lines, dropping
// the BOM the converter writes for spreadsheet apps.
func readOutput(t *testing.T, path string) []string {
	t.Helper()

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(content), "\xEF\xBB\xBF"), "converted output should carry a BOM")
	return strings.Split(strings.TrimSpace(string(content[3:])), "\n")
}

func TestConverter_ConvertWorkbook(t *testing.T) {
	conv, paths := setupConverter(t)

	workbook := buildWorkbook(t, "Data", [][]interface{}{
		{"Value1", "Value2", "Category"},
		{"1", "2", "A"},
		{"3", "4", "B"},
	})

	err := conv.ConvertWorkbook(context.Background(), workbook, "Data", "data.csv")
	require.NoError(t, err)

	lines := readOutput(t, paths.DataFile("data.csv"))
	require.Len(t, lines, 3)
	assert.Equal(t, "Value1,Value2,Category", lines[0])
	assert.Equal(t, "1,2,A", lines[1])
	assert.Equal(t, "3,4,B", lines[2])
}

func TestConverter_ConvertWorkbook_FirstSheetByDefault(t *testing.T) {
	conv, paths := setupConverter(t)

	workbook := buildWorkbook(t, "Quarterly", [][]interface{}{
		{"Value1", "Value2"},
		{"10", "20"},
	})

	err := conv.ConvertWorkbook(context.Background(), workbook, "", "data.csv")
	require.NoError(t, err)

	lines := readOutput(t, paths.DataFile("data.csv"))
	assert.Equal(t, "Value1,Value2", lines[0])
	assert.Equal(t, "10,20", lines[1])
}

func TestConverter_ConvertWorkbook_MissingSheet(t *testing.T) {
	conv, _ := setupConverter(t)

	workbook := buildWorkbook(t, "Data", [][]interface{}{
		{"Value1", "Value2"},
	})

	err := conv.ConvertWorkbook(context.Background(), workbook, "Nope", "data.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `sheet "Nope"`)
}

func TestConverter_ConvertWorkbook_RaggedRowsNormalized(t *testing.T) {
	conv, paths := setupConverter(t)

	// Workbook rows come back without trailing empty cells, and a row can
	// spill past the header.
	workbook := buildWorkbook(t, "Data", [][]interface{}{
		{"Value1", "Value2", "Category"},
		{"1"},
		{"2", "3", "A", "spillover"},
	})

	err := conv.ConvertWorkbook(context.Background(), workbook, "Data", "data.csv")
	require.NoError(t, err)

	lines := readOutput(t, paths.DataFile("data.csv"))
	require.Len(t, lines, 3)
	assert.Equal(t, "1,,", lines[1])
	assert.Equal(t, "2,3,A", lines[2])
}

func TestConverter_ConvertWorkbook_CellTextPassthrough(t *testing.T) {
	conv, paths := setupConverter(t)

	// Non-numeric text must survive conversion untouched; dropping it is
	// the cleaning stage's decision.
	workbook := buildWorkbook(t, "Data", [][]interface{}{
		{"Value1", "Value2"},
		{"x", "y"},
		{"1.5", "2.5"},
	})

	err := conv.ConvertWorkbook(context.Background(), workbook, "Data", "data.csv")
	require.NoError(t, err)

	lines := readOutput(t, paths.DataFile("data.csv"))
	assert.Equal(t, "x,y", lines[1])
	assert.Equal(t, "1.5,2.5", lines[2])
}

func TestConverter_ConvertWorkbook_RejectsNonWorkbook(t *testing.T) {
	conv, _ := setupConverter(t)

	notAWorkbook := filepath.Join(t.TempDir(), "data.txt")
	require.NoError(t, os.WriteFile(notAWorkbook, []byte("Value1,Value2\n1,2\n"), 0644))

	err := conv.ConvertWorkbook(context.Background(), notAWorkbook, "", "data.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not a workbook")
}

func TestConverter_ConvertWorkbook_MissingFile(t *testing.T) {
	conv, _ := setupConverter(t)

	err := conv.ConvertWorkbook(context.Background(), filepath.Join(t.TempDir(), "absent.xlsx"), "", "data.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestNormalizeRows(t *testing.T) {
	records := normalizeRows(2, [][]string{
		{"a"},
		{"b", "c"},
		{"d", "e", "f"},
		{},
	})

	assert.Equal(t, [][]string{
		{"a", ""},
		{"b", "c"},
		{"d", "e"},
		{"", ""},
	}, records)
}
