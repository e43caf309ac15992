package core

import (
	"fmt"
	"io"
	"testing"
)

// ============================================================================
// Aggregation Benchmarks
// ============================================================================

// benchRows builds one sheet per OS plus a firmware sheet. Every fourth row
// has a blank vendor/component so fill-down is exercised.
func benchRows(models, osSheets int) ([]Sheet, [][]RawRow) {
	var sheets []Sheet
	var rows [][]RawRow
	for s := 0; s < osSheets; s++ {
		sheets = append(sheets, Sheet{Name: fmt.Sprintf("OS %d", s)})
		sheetRows := make([]RawRow, models)
		for m := 0; m < models; m++ {
			row := RawRow{
				"Description":      fmt.Sprintf("Model-%d", m),
				"Operating System": fmt.Sprintf("OS %d (x64)", s),
				"Driver":           "1.0",
			}
			if m%4 == 0 {
				row["Vendor"] = "Intel"
				row["Component"] = "NIC"
			}
			sheetRows[m] = row
		}
		rows = append(rows, sheetRows)
	}

	sheets = append(sheets, Sheet{Name: "FW", Firmware: true})
	fw := make([]RawRow, models)
	for m := 0; m < models; m++ {
		fw[m] = RawRow{"Description": fmt.Sprintf("Model-%d", m), "FW Version": "2.0", "SWID": fmt.Sprint(m)}
	}
	rows = append(rows, fw)
	return sheets, rows
}

// BenchmarkAggregate benchmarks a full load of a typical spreadsheet.
func BenchmarkAggregate(b *testing.B) {
	sheets, rows := benchRows(500, 5)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Aggregate(sheets, rows)
	}
}

// BenchmarkAggregate_Large benchmarks a spreadsheet far larger than usual.
func BenchmarkAggregate_Large(b *testing.B) {
	sheets, rows := benchRows(10000, 8)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Aggregate(sheets, rows)
	}
}

// BenchmarkResolve benchmarks alias lookup, the innermost hot path.
func BenchmarkResolve(b *testing.B) {
	row := RawRow{"Model": "X710", "OS": "RHEL 9", "Version": "2.0"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Resolve(row, FieldModel)
		Resolve(row, FieldDriverVersion)
	}
}

// BenchmarkSortOSLabels benchmarks collation of the OS list.
func BenchmarkSortOSLabels(b *testing.B) {
	labels := make([]string, 0, 40)
	for v := 40; v > 0; v-- {
		labels = append(labels, fmt.Sprintf("RHEL %d.%d", v/4, v%4))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		SortOSLabels(labels)
	}
}

// BenchmarkSearch benchmarks keyword search over the catalog.
func BenchmarkSearch(b *testing.B) {
	sheets, rows := benchRows(2000, 3)
	c := NewCatalog(Aggregate(sheets, rows).Products)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Search("model-19")
	}
}

// BenchmarkWriteGroupCSV benchmarks exporting a large group.
func BenchmarkWriteGroupCSV(b *testing.B) {
	sheets, rows := benchRows(1000, 3)
	c := NewCatalog(Aggregate(sheets, rows).Products)
	g := Group{Name: "Bench", OS: "OS 1"}
	for _, p := range c.Products() {
		g.Items = append(g.Items, p.Model)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := WriteGroupCSV(io.Discard, g, c); err != nil {
			b.Fatal(err)
		}
	}
}
