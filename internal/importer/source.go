package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tealeg/xlsx"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// ReadCSV reads every record of a CSV document. Rows may have differing
// widths; a UTF-8 BOM on the first header is dropped.
func ReadCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("import: read csv: %w", err)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return rows, nil
}

// ReadXLSX reads the first sheet of a workbook.
func ReadXLSX(data []byte) ([][]string, error) {
	f, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, fmt.Errorf("import: parse xlsx: %w", err)
	}
	if len(f.Sheets) == 0 {
		return nil, ErrEmptyTable
	}
	sheet := f.Sheets[0]
	out := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		if row == nil {
			out = append(out, nil)
			continue
		}
		cells := make([]string, len(row.Cells))
		for i, cell := range row.Cells {
			if cell != nil {
				cells[i] = cell.String()
			}
		}
		out = append(out, cells)
	}
	return out, nil
}

// Read picks the reader by file name extension.
func Read(filename string, data []byte) ([][]string, error) {
	switch ext := strings.ToLower(filename); {
	case strings.HasSuffix(ext, ".csv"):
		return ReadCSV(strings.NewReader(string(data)))
	case strings.HasSuffix(ext, ".xlsx"):
		return ReadXLSX(data)
	default:
		return nil, fmt.Errorf("%w %q (want .csv or .xlsx)", ErrUnsupportedFile, filename)
	}
}

var (
	ErrUnsupportedFile = errors.New("import: unsupported file type")
	ErrSheetsDisabled  = errors.New("import: google sheets api key not configured")
)

// SheetsSource reads menu tables from Google Sheets with an API key, so the
// spreadsheet must be shared for link viewing.
type SheetsSource struct {
	APIKey string
	// Range is the A1 range read when the caller passes none, e.g. "Products!A1:Z".
	Range string
	// Endpoint overrides the API base URL; used by tests.
	Endpoint string
}

func (s *SheetsSource) Read(ctx context.Context, spreadsheetID, readRange string) ([][]string, error) {
	if s == nil || s.APIKey == "" {
		return nil, ErrSheetsDisabled
	}
	if readRange == "" {
		readRange = s.Range
	}
	if readRange == "" {
		readRange = "Products!A1:Z"
	}
	opts := []option.ClientOption{option.WithAPIKey(s.APIKey)}
	if s.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(s.Endpoint))
	}
	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("import: sheets client: %w", err)
	}
	resp, err := srv.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("import: read spreadsheet %s: %w", spreadsheetID, err)
	}
	return stringifyValues(resp.Values), nil
}

func stringifyValues(values [][]interface{}) [][]string {
	out := make([][]string, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, v := range row {
			if v != nil {
				cells[j] = fmt.Sprint(v)
			}
		}
		out[i] = cells
	}
	return out
}
