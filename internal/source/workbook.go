package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/JonMunkholm/hcl/internal/core"
	"github.com/xuri/excelize/v2"
)

// WorkbookSource reads sheets from a local .xlsx export of the spreadsheet.
// Each worksheet is one sheet; its first row holds the column headers.
type WorkbookSource struct {
	path string
}

// NewWorkbookSource creates a source backed by the workbook at path.
// The file is opened on every fetch so edits are picked up on refresh.
func NewWorkbookSource(path string) *WorkbookSource {
	return &WorkbookSource{path: path}
}

// FetchSheet implements core.RowSource.
func (s *WorkbookSource) FetchSheet(ctx context.Context, name string) ([]core.RawRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", s.path, err)
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex(name); err != nil || idx < 0 {
		return nil, fmt.Errorf("worksheet %q not found in %s", name, s.path)
	}

	grid, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("read worksheet %q: %w", name, err)
	}
	return RowsFromGrid(grid), nil
}

// RowsFromGrid converts a header row plus data rows into RawRows.
// Headers are trimmed; columns with a blank header are ignored and short
// rows simply lack the trailing keys.
func RowsFromGrid(grid [][]string) []core.RawRow {
	if len(grid) == 0 {
		return []core.RawRow{}
	}

	header := make([]string, len(grid[0]))
	for i, h := range grid[0] {
		header[i] = strings.TrimSpace(h)
	}

	rows := make([]core.RawRow, 0, len(grid)-1)
	for _, cells := range grid[1:] {
		row := make(core.RawRow, len(cells))
		for i, cell := range cells {
			if i >= len(header) || header[i] == "" {
				continue
			}
			row[header[i]] = cell
		}
		rows = append(rows, row)
	}
	return rows
}
