// Package sheets reads product rows from and pushes metadata grids to a
// Google Sheets spreadsheet using service-account credentials.
package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Headroom added when the destination worksheet has to be created. The tab
// is resized to the exact grid size before every write anyway.
const (
	extraRows = 20
	extraCols = 5
)

// Client wraps the Sheets API for row reading and full-replace grid writes.
type Client struct {
	svc    *sheets.Service
	logger *slog.Logger
}

// New creates a Client authenticated with the service-account credentials
// file. A missing credentials file is a fatal pre-flight error; nothing is
// processed without it.
func New(ctx context.Context, credentialsFile string, logger *slog.Logger) (*Client, error) {
	if _, err := os.Stat(credentialsFile); err != nil {
		return nil, fmt.Errorf("credentials file missing: %s: %w", credentialsFile, err)
	}

	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Client{svc: svc, logger: logger}, nil
}

// newWithService is used by tests to inject a service bound to a fake
// endpoint.
func newWithService(svc *sheets.Service, logger *slog.Logger) *Client {
	return &Client{svc: svc, logger: logger}
}

// ReadRecords reads all rows of a worksheet. The first row is the header;
// every following row becomes a map keyed by header name. Headers are
// returned separately because column order matters to callers.
func (c *Client) ReadRecords(ctx context.Context, spreadsheetID, worksheet string) ([]string, []map[string]string, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(spreadsheetID, a1Range(worksheet)).Context(ctx).Do()
	if err != nil {
		return nil, nil, fmt.Errorf("read worksheet %q: %w", worksheet, err)
	}

	if len(resp.Values) == 0 {
		return nil, nil, nil
	}

	headers := make([]string, 0, len(resp.Values[0]))
	for _, cell := range resp.Values[0] {
		headers = append(headers, fmt.Sprint(cell))
	}

	records := make([]map[string]string, 0, len(resp.Values)-1)
	for _, rowCells := range resp.Values[1:] {
		record := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(rowCells) {
				record[h] = fmt.Sprint(rowCells[i])
			} else {
				record[h] = ""
			}
		}
		records = append(records, record)
	}

	c.logger.Debug("read worksheet",
		"worksheet", worksheet,
		"columns", len(headers),
		"records", len(records),
	)

	return headers, records, nil
}

// Push replaces the contents of the named worksheet with grid: the tab is
// created with headroom if absent, cleared, resized to exactly fit the
// grid, and written from A1. Prior content of the tab is destroyed. An
// empty grid is an error.
func (c *Client) Push(ctx context.Context, spreadsheetID, worksheet string, grid [][]string) error {
	if len(grid) == 0 {
		return fmt.Errorf("no data rows to push")
	}

	sheetID, err := c.ensureWorksheet(ctx, spreadsheetID, worksheet, len(grid), len(grid[0]))
	if err != nil {
		return err
	}

	if _, err := c.svc.Spreadsheets.Values.Clear(spreadsheetID, a1Range(worksheet), &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear worksheet %q: %w", worksheet, err)
	}

	resize := &sheets.Request{
		UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
			Properties: &sheets.SheetProperties{
				SheetId: sheetID,
				GridProperties: &sheets.GridProperties{
					RowCount:    int64(len(grid)),
					ColumnCount: int64(len(grid[0])),
				},
			},
			Fields: "gridProperties.rowCount,gridProperties.columnCount",
		},
	}
	_, err = c.svc.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{resize},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("resize worksheet %q: %w", worksheet, err)
	}

	vr := &sheets.ValueRange{Values: toValues(grid)}
	_, err = c.svc.Spreadsheets.Values.Update(spreadsheetID, a1Range(worksheet)+"!A1", vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("write worksheet %q: %w", worksheet, err)
	}

	c.logger.Info("pushed grid to worksheet",
		"worksheet", worksheet,
		"rows", len(grid),
		"columns", len(grid[0]),
	)

	return nil
}

// ensureWorksheet returns the sheet ID for the named tab, creating it with
// generous headroom when absent.
func (c *Client) ensureWorksheet(ctx context.Context, spreadsheetID, worksheet string, rows, cols int) (int64, error) {
	spreadsheet, err := c.svc.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("get spreadsheet: %w", err)
	}

	for _, s := range spreadsheet.Sheets {
		if s.Properties != nil && s.Properties.Title == worksheet {
			return s.Properties.SheetId, nil
		}
	}

	add := &sheets.Request{
		AddSheet: &sheets.AddSheetRequest{
			Properties: &sheets.SheetProperties{
				Title: worksheet,
				GridProperties: &sheets.GridProperties{
					RowCount:    int64(rows + extraRows),
					ColumnCount: int64(cols + extraCols),
				},
			},
		},
	}
	resp, err := c.svc.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{add},
	}).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("create worksheet %q: %w", worksheet, err)
	}

	if len(resp.Replies) == 0 || resp.Replies[0].AddSheet == nil || resp.Replies[0].AddSheet.Properties == nil {
		return 0, fmt.Errorf("create worksheet %q: malformed reply", worksheet)
	}

	c.logger.Info("created worksheet", "worksheet", worksheet)

	return resp.Replies[0].AddSheet.Properties.SheetId, nil
}

// a1Range quotes a worksheet title for use in an A1-notation range.
// Embedded single quotes are doubled per A1 escaping rules.
func a1Range(worksheet string) string {
	return "'" + strings.ReplaceAll(worksheet, "'", "''") + "'"
}

func toValues(grid [][]string) [][]interface{} {
	values := make([][]interface{}, len(grid))
	for i, row := range grid {
		cells := make([]interface{}, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		values[i] = cells
	}
	return values
}
