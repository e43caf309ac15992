package source

import (
	"github.com/JonMunkholm/hcl/internal/config"
	"github.com/JonMunkholm/hcl/internal/core"
)

// New returns the RowSource selected by cfg: the local workbook when a path
// is set, otherwise the remote spreadsheet. It also returns a short
// description for logging.
func New(cfg config.SourceConfig) (core.RowSource, string) {
	if cfg.WorkbookPath != "" {
		return NewWorkbookSource(cfg.WorkbookPath), "workbook:" + cfg.WorkbookPath
	}
	return NewHTTPSource(cfg.BaseURL, cfg.SpreadsheetID, cfg.FetchTimeout), "http:" + cfg.SpreadsheetID
}

// NewService wires a core.Service from configuration.
func NewService(cfg *config.Config, observer core.LoadObserver) (*core.Service, error) {
	policy, err := core.ParseContinuationPolicy(cfg.Catalog.Continuation)
	if err != nil {
		return nil, err
	}
	src, _ := New(cfg.Source)
	return core.NewService(src, core.ServiceConfig{
		Sheets:       core.SheetsFromNames(cfg.Source.Sheets, cfg.Source.FirmwareSheet),
		Continuation: policy,
		DefaultOS:    cfg.Catalog.DefaultOS,
		Observer:     observer,
	})
}
