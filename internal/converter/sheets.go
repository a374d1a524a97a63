package converter

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"tabsum/internal/config"
)

// SheetsClient fetches rows from a Google Sheets range.
type SheetsClient struct {
	logger        *slog.Logger
	service       *sheets.Service
	spreadsheetID string
	readRange     string
}

// NewSheetsClient creates a Sheets API client from configuration. Extra
// client options are appended after the auth option, which lets tests
// point the client at a local server.
func NewSheetsClient(ctx context.Context, cfg config.SheetsConfig, logger *slog.Logger, extra ...option.ClientOption) (*SheetsClient, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is not configured")
	}
	if cfg.ReadRange == "" {
		return nil, fmt.Errorf("read range is not configured")
	}

	var opts []option.ClientOption
	switch {
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	case cfg.APIKey != "":
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	default:
		return nil, fmt.Errorf("sheets access requires a credentials file or an api key")
	}
	opts = append(opts, extra...)

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &SheetsClient{
		logger:        logger,
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		readRange:     cfg.ReadRange,
	}, nil
}

// Fetch reads the configured range and returns the header row and the
// data rows, all as text.
func (sc *SheetsClient) Fetch(ctx context.Context) ([]string, [][]string, error) {
	resp, err := sc.service.Spreadsheets.Values.Get(sc.spreadsheetID, sc.readRange).Context(ctx).Do()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read from sheets: %w", err)
	}
	if len(resp.Values) == 0 {
		return nil, nil, fmt.Errorf("range %q of spreadsheet %s returned no rows", sc.readRange, sc.spreadsheetID)
	}

	sc.logger.InfoContext(ctx, "Fetched worksheet range",
		slog.String("spreadsheet_id", sc.spreadsheetID),
		slog.String("read_range", sc.readRange),
		slog.Int("rows", len(resp.Values)))

	headers := cellsToText(resp.Values[0])
	rows := make([][]string, 0, len(resp.Values)-1)
	for _, row := range resp.Values[1:] {
		rows = append(rows, cellsToText(row))
	}

	return headers, rows, nil
}

// ConvertRemote fetches the client's range and writes it as a delimited
// file at outPath.
func (c *Converter) ConvertRemote(ctx context.Context, client *SheetsClient, outPath string) error {
	headers, rows, err := client.Fetch(ctx)
	if err != nil {
		return err
	}
	return c.write(ctx, outPath, headers, rows)
}

// cellsToText renders API cell values as strings. The API delivers
// formatted values, so cells are normally strings already; numbers and
// bools from other render options print their plain form. Null cells
// become empty fields.
func cellsToText(cells []interface{}) []string {
	out := make([]string, len(cells))
	for i, cell := range cells {
		switch v := cell.(type) {
		case nil:
		case string:
			out[i] = v
		default:
			out[i] = fmt.Sprint(v)
		}
	}
	return out
}
