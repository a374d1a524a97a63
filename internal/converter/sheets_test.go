package converter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"tabsum/internal/config"
)

// newSheetsServer serves a fixed values.get response so client tests run
// without network access.
func newSheetsServer(t *testing.T, body string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestNewSheetsClient_ConfigErrors(t *testing.T) {
	tests := []struct {
		name          string
		cfg           config.SheetsConfig
		errorContains string
	}{
		{
			name:          "missing spreadsheet id",
			cfg:           config.SheetsConfig{ReadRange: "Sheet1", APIKey: "key"},
			errorContains: "spreadsheet id is not configured",
		},
		{
			name:          "missing read range",
			cfg:           config.SheetsConfig{SpreadsheetID: "sheet-1", APIKey: "key"},
			errorContains: "read range is not configured",
		},
		{
			name:          "no credentials and no api key",
			cfg:           config.SheetsConfig{SpreadsheetID: "sheet-1", ReadRange: "Sheet1"},
			errorContains: "credentials file or an api key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewSheetsClient(context.Background(), tt.cfg, nil)
			require.Error(t, err)
			assert.Nil(t, client)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}

func TestSheetsClient_Fetch(t *testing.T) {
	server := newSheetsServer(t, `{
		"range": "Sheet1!A1:C4",
		"majorDimension": "ROWS",
		"values": [
			["Value1", "Value2", "Category"],
			["1", "2", "A"],
			["3", "4"],
			[null, 7.5, true]
		]
	}`)

	client, err := NewSheetsClient(context.Background(), config.SheetsConfig{
		SpreadsheetID: "sheet-1",
		ReadRange:     "Sheet1",
		APIKey:        "test-key",
	}, nil, option.WithEndpoint(server.URL))
	require.NoError(t, err)

	headers, rows, err := client.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Value1", "Value2", "Category"}, headers)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"1", "2", "A"}, rows[0])
	assert.Equal(t, []string{"3", "4"}, rows[1])
	assert.Equal(t, []string{"", "7.5", "true"}, rows[2])
}

func TestSheetsClient_Fetch_EmptyRange(t *testing.T) {
	server := newSheetsServer(t, `{"range": "Sheet1!A1:C1", "majorDimension": "ROWS"}`)

	client, err := NewSheetsClient(context.Background(), config.SheetsConfig{
		SpreadsheetID: "sheet-1",
		ReadRange:     "Sheet1",
		APIKey:        "test-key",
	}, nil, option.WithEndpoint(server.URL))
	require.NoError(t, err)

	_, _, err = client.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "returned no rows")
}

func TestConverter_ConvertRemote(t *testing.T) {
	server := newSheetsServer(t, `{
		"range": "Sheet1!A1:B3",
		"majorDimension": "ROWS",
		"values": [
			["Value1", "Value2"],
			["1", "2"],
			["3"]
		]
	}`)

	conv, paths := setupConverter(t)

	client, err := NewSheetsClient(context.Background(), config.SheetsConfig{
		SpreadsheetID: "sheet-1",
		ReadRange:     "Sheet1",
		APIKey:        "test-key",
	}, nil, option.WithEndpoint(server.URL))
	require.NoError(t, err)

	err = conv.ConvertRemote(context.Background(), client, "data.csv")
	require.NoError(t, err)

	lines := readOutput(t, paths.DataFile("data.csv"))
	require.Len(t, lines, 3)
	assert.Equal(t, "Value1,Value2", lines[0])
	assert.Equal(t, "1,2", lines[1])
	assert.Equal(t, "3,", lines[2])
}

func TestSheetsClient_Fetch_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"code": 403, "message": "forbidden"}}`, http.StatusForbidden)
	}))
	t.Cleanup(server.Close)

	client, err := NewSheetsClient(context.Background(), config.SheetsConfig{
		SpreadsheetID: "sheet-1",
		ReadRange:     "Sheet1",
		APIKey:        "test-key",
	}, nil, option.WithEndpoint(server.URL))
	require.NoError(t, err)

	_, _, err = client.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read from sheets")
}

func TestNewSheetsClient_CredentialsFile(t *testing.T) {
	// A credentials file that does not parse should fail service creation,
	// proving the file path option is actually applied.
	credFile := filepath.Join(t.TempDir(), "creds.json")
	require.NoError(t, os.WriteFile(credFile, []byte("not json"), 0600))

	_, err := NewSheetsClient(context.Background(), config.SheetsConfig{
		SpreadsheetID:   "sheet-1",
		ReadRange:       "Sheet1",
		CredentialsFile: credFile,
	}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create sheets service")
}

func TestCellsToText(t *testing.T) {
	assert.Equal(t,
		[]string{"plain", "", "7.5", "true", "10"},
		cellsToText([]interface{}{"plain", nil, 7.5, true, float64(10)}))
}
