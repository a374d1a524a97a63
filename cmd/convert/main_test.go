package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversionMode(t *testing.T) {
	tests := []struct {
		name          string
		workbook      string
		spreadsheetID string
		expected      string
	}{
		{
			name:     "workbook only",
			workbook: "report.xlsx",
			expected: modeWorkbook,
		},
		{
			name:          "spreadsheet only",
			spreadsheetID: "1abc",
			expected:      modeRemote,
		},
		{
			name:          "workbook wins over spreadsheet",
			workbook:      "report.xlsx",
			spreadsheetID: "1abc",
			expected:      modeWorkbook,
		},
		{
			name:     "nothing configured",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, conversionMode(tt.workbook, tt.spreadsheetID))
		})
	}
}

func TestFirstRune(t *testing.T) {
	assert.Equal(t, ',', firstRune(""))
	assert.Equal(t, ';', firstRune(";"))
	assert.Equal(t, '\t', firstRune("\t"))
}
