package core

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ExportHeader is the column layout of a group export.
var ExportHeader = []string{
	"Type", "Brand", "Model", "FW_Version", "Target_OS", "Driver_Version", "SWID", "Update_Command",
}

// utf8BOM lets spreadsheet applications detect the encoding.
const utf8BOM = "\ufeff"

// ExportRecords builds one CSV record per product with the driver version
// matching targetOS exactly, or N/A.
func ExportRecords(products []Product, targetOS string) [][]string {
	records := make([][]string, 0, len(products))
	for _, p := range products {
		ver := NotAvailable
		if d, ok := p.DriverFor(targetOS); ok {
			ver = d.Version
		}
		records = append(records, []string{
			p.Type,
			p.Brand,
			p.Model,
			p.FW,
			targetOS,
			ver,
			p.ID,
			strings.ReplaceAll(UpdateCommand(p), ",", " "),
		})
	}
	return records
}

// WriteGroupCSV writes the export of group g, resolved against catalog, to w.
func WriteGroupCSV(w io.Writer, g Group, catalog *Catalog) error {
	products := g.Resolve(catalog)
	if len(products) == 0 {
		return fmt.Errorf("export %s: %w", g.Name, ErrEmptyGroup)
	}

	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("write bom: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := cw.WriteAll(ExportRecords(products, g.OS)); err != nil {
		return fmt.Errorf("write records: %w", err)
	}
	return nil
}

// ExportFileName returns the download name for a group export.
func ExportFileName(g Group) string {
	return fmt.Sprintf("HCL_%s_%s.csv", g.Name, g.OS)
}
