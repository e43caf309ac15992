// Package core provides the business logic for building the HCL catalog.
// This package has no UI dependencies and can be used by any frontend.
package core

import (
	"context"
	"time"
)

// Placeholder values used when a field is never supplied by any sheet.
const (
	NotAvailable     = "N/A"
	DefaultBrand     = "Generic"
	DefaultComponent = "Component"
)

// RawRow is one physical spreadsheet row keyed by column header.
// Keys vary by sheet and by revision of the sheet; nothing about its shape is guaranteed.
type RawRow map[string]string

// Sheet identifies one source table. Rows from a firmware sheet update a
// product's firmware version and id instead of its driver list.
type Sheet struct {
	Name     string `json:"name"`
	Firmware bool   `json:"firmware"`
}

// RowSource supplies the ordered rows of a named sheet.
type RowSource interface {
	FetchSheet(ctx context.Context, name string) ([]RawRow, error)
}

// DriverEntry is one operating system / driver version pair attached to a product.
type DriverEntry struct {
	OS      string `json:"os"`
	Version string `json:"ver"`
}

// Product is the aggregated record for one model across all sheets.
type Product struct {
	ID      string        `json:"id"`
	Model   string        `json:"model"`
	Brand   string        `json:"brand"`
	Type    string        `json:"type"`
	FW      string        `json:"fw"`
	Drivers []DriverEntry `json:"drivers"`
}

// DriverFor returns the first driver entry whose OS equals os exactly.
func (p Product) DriverFor(os string) (DriverEntry, bool) {
	for _, d := range p.Drivers {
		if d.OS == os {
			return d, true
		}
	}
	return DriverEntry{}, false
}

// clone returns a copy that shares no slice storage with p.
func (p Product) clone() Product {
	if p.Drivers != nil {
		p.Drivers = append([]DriverEntry(nil), p.Drivers...)
	}
	return p
}

// SheetStatus records the outcome of fetching one sheet during a load.
type SheetStatus struct {
	Name     string        `json:"name"`
	Rows     int           `json:"rows"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"` // Non-empty if the fetch failed
}

// Snapshot is an immutable, fully aggregated view of one load cycle.
type Snapshot struct {
	Catalog  *Catalog      `json:"-"`
	OSLabels []string      `json:"osLabels"`
	LoadedAt time.Time     `json:"loadedAt"`
	Sheets   []SheetStatus `json:"sheets"`
}

// Loaded reports whether the snapshot came from a completed load.
func (s *Snapshot) Loaded() bool {
	return s != nil && !s.LoadedAt.IsZero()
}

// SheetsFromNames builds the sheet list in the given order, marking the
// sheet named firmware as the firmware sheet.
func SheetsFromNames(names []string, firmware string) []Sheet {
	sheets := make([]Sheet, len(names))
	for i, n := range names {
		sheets[i] = Sheet{Name: n, Firmware: n == firmware}
	}
	return sheets
}
