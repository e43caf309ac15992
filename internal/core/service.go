package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// LoadObserver receives load cycle events, typically for metrics.
type LoadObserver interface {
	SheetFetched(sheet string, rows int, d time.Duration, err error)
	Refreshed(products, osLabels int, d time.Duration, err error)
}

type nopObserver struct{}

func (nopObserver) SheetFetched(string, int, time.Duration, error) {}
func (nopObserver) Refreshed(int, int, time.Duration, error)       {}

// ServiceConfig configures a Service.
type ServiceConfig struct {
	Sheets       []Sheet            // Processing order
	Continuation ContinuationPolicy // Blank-model row handling
	DefaultOS    []string           // OS list used when no sheet supplies one
	Observer     LoadObserver       // Optional
}

// Service loads sheets from a RowSource and publishes catalog snapshots.
type Service struct {
	source RowSource
	cfg    ServiceConfig

	loadMu  sync.Mutex // serializes Refresh
	current atomic.Pointer[Snapshot]
}

// NewService creates a Service. No data is loaded until Refresh is called.
func NewService(source RowSource, cfg ServiceConfig) (*Service, error) {
	if source == nil {
		return nil, errors.New("new service: nil row source")
	}
	if len(cfg.Sheets) == 0 {
		return nil, errors.New("new service: no sheets configured")
	}
	if cfg.Continuation == "" {
		cfg.Continuation = ContinuationSkip
	}
	if cfg.Observer == nil {
		cfg.Observer = nopObserver{}
	}
	cfg.Sheets = append([]Sheet(nil), cfg.Sheets...)
	cfg.DefaultOS = append([]string(nil), cfg.DefaultOS...)

	s := &Service{source: source, cfg: cfg}
	s.current.Store(s.emptySnapshot())
	return s, nil
}

func (s *Service) emptySnapshot() *Snapshot {
	return &Snapshot{
		Catalog:  NewCatalog(nil),
		OSLabels: s.osLabels(nil),
		Sheets:   []SheetStatus{},
	}
}

func (s *Service) osLabels(observed []string) []string {
	if len(observed) > 0 {
		return observed
	}
	return append([]string(nil), s.cfg.DefaultOS...)
}

// Sheets returns the configured sheets in processing order.
func (s *Service) Sheets() []Sheet {
	return append([]Sheet(nil), s.cfg.Sheets...)
}

// Current returns the most recently published snapshot.
// Before the first successful load it is empty and not Loaded.
func (s *Service) Current() *Snapshot {
	return s.current.Load()
}

// Refresh fetches every sheet concurrently, aggregates the rows and publishes
// the resulting snapshot.
//
// A sheet that fails to load contributes no rows and is reported in
// Snapshot.Sheets. If every sheet fails, ErrAllSourcesFailed is returned and
// the previously published snapshot stays current.
func (s *Service) Refresh(ctx context.Context) (*Snapshot, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	start := time.Now()
	rows, statuses := s.fetchAll(ctx)

	failed := 0
	for _, st := range statuses {
		if st.Error != "" {
			failed++
		}
	}
	if failed == len(statuses) {
		err := fmt.Errorf("refresh: %w (%d of %d)", ErrAllSourcesFailed, failed, len(statuses))
		s.cfg.Observer.Refreshed(0, 0, time.Since(start), err)
		return s.Current(), err
	}

	result := Aggregate(s.cfg.Sheets, rows, WithContinuation(s.cfg.Continuation))
	snap := &Snapshot{
		Catalog:  NewCatalog(result.Products),
		OSLabels: s.osLabels(result.ObservedOS),
		LoadedAt: time.Now(),
		Sheets:   statuses,
	}
	s.current.Store(snap)

	s.cfg.Observer.Refreshed(snap.Catalog.Len(), len(snap.OSLabels), time.Since(start), nil)
	slog.Info("catalog refreshed",
		"products", snap.Catalog.Len(),
		"os_labels", len(snap.OSLabels),
		"failed_sheets", failed,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return snap, nil
}

// fetchAll fetches every sheet at once and waits for all of them to settle.
// Individual failures never cancel the other fetches.
func (s *Service) fetchAll(ctx context.Context) ([][]RawRow, []SheetStatus) {
	rows := make([][]RawRow, len(s.cfg.Sheets))
	statuses := make([]SheetStatus, len(s.cfg.Sheets))

	var g errgroup.Group
	for i, sheet := range s.cfg.Sheets {
		g.Go(func() error {
			start := time.Now()
			sheetRows, err := s.source.FetchSheet(ctx, sheet.Name)
			d := time.Since(start)

			statuses[i] = SheetStatus{Name: sheet.Name, Duration: d}
			if err != nil {
				err = fmt.Errorf("%w: %s: %w", ErrSheetUnavailable, sheet.Name, err)
				statuses[i].Error = err.Error()
				slog.Warn("sheet fetch failed", "sheet", sheet.Name, "error", err)
				s.cfg.Observer.SheetFetched(sheet.Name, 0, d, err)
				return nil
			}

			rows[i] = sheetRows
			statuses[i].Rows = len(sheetRows)
			s.cfg.Observer.SheetFetched(sheet.Name, len(sheetRows), d, nil)
			slog.Debug("sheet fetched", "sheet", sheet.Name, "rows", len(sheetRows))
			return nil
		})
	}
	_ = g.Wait() // goroutines never return errors

	return rows, statuses
}
