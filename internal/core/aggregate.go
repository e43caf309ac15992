package core

// Result is the output of one aggregation pass.
type Result struct {
	Products   []Product // First-seen model order
	ObservedOS []string  // Deduplicated, naturally sorted
}

type aggregateOptions struct {
	continuation ContinuationPolicy
}

// AggregateOption configures Aggregate.
type AggregateOption func(*aggregateOptions)

// WithContinuation sets the policy for rows whose model cell is blank.
func WithContinuation(p ContinuationPolicy) AggregateOption {
	return func(o *aggregateOptions) {
		o.continuation = p
	}
}

// Aggregate folds the rows of every sheet into one product per model.
//
// rows[i] holds the rows of sheets[i]; a nil or missing entry counts as a
// sheet with no rows. Sheets are processed in the given order, which only
// matters for firmware version and id, where the last write wins.
// Aggregate never fails: rows it cannot attribute to a model are dropped.
func Aggregate(sheets []Sheet, rows [][]RawRow, opts ...AggregateOption) Result {
	o := aggregateOptions{continuation: ContinuationSkip}
	for _, opt := range opts {
		opt(&o)
	}

	agg := &aggregator{
		index: make(map[string]int),
		seen:  make(map[string]struct{}),
		opts:  o,
	}

	for i, sheet := range sheets {
		var sheetRows []RawRow
		if i < len(rows) {
			sheetRows = rows[i]
		}
		agg.foldSheet(sheet, sheetRows)
	}

	observed := make([]string, 0, len(agg.seen))
	for os := range agg.seen {
		observed = append(observed, os)
	}

	return Result{
		Products:   agg.products,
		ObservedOS: SortOSLabels(observed),
	}
}

type aggregator struct {
	products []Product
	index    map[string]int // model -> position in products
	seen     map[string]struct{}
	opts     aggregateOptions
}

// foldSheet processes one sheet with its own fill-down state.
func (a *aggregator) foldSheet(sheet Sheet, rows []RawRow) {
	state := NewFillDown()
	for _, row := range rows {
		state = a.foldRow(state, sheet, row)
	}
}

func (a *aggregator) foldRow(state FillDown, sheet Sheet, row RawRow) FillDown {
	model, _ := Resolve(row, FieldModel)
	vendor, _ := Resolve(row, FieldVendor)
	component, _ := Resolve(row, FieldComponent)

	state, eff := state.Observe(model, vendor, component)
	if eff.Model == "" && a.opts.continuation == ContinuationAttach {
		eff.Model = state.LastModel()
	}
	if eff.Model == "" {
		return state
	}

	p := a.lookupOrCreate(eff, row)

	if sheet.Firmware {
		if fw, ok := Resolve(row, FieldFirmwareVersion); ok {
			p.FW = fw
		}
		if id, ok := Resolve(row, FieldID); ok {
			p.ID = id
		}
		return state
	}

	os := CleanOSLabel(ResolveOS(row, sheet))
	if os == "" {
		return state
	}
	ver, ok := Resolve(row, FieldDriverVersion)
	if !ok {
		ver = NotAvailable
	}
	a.seen[os] = struct{}{}
	p.Drivers = append(p.Drivers, DriverEntry{OS: os, Version: ver})
	return state
}

// lookupOrCreate returns the product for eff.Model, creating it from the
// current row when the model is new. Model, brand and type are fixed at creation.
func (a *aggregator) lookupOrCreate(eff Effective, row RawRow) *Product {
	if i, ok := a.index[eff.Model]; ok {
		return &a.products[i]
	}

	id, ok := Resolve(row, FieldID)
	if !ok {
		id = NotAvailable
	}

	a.products = append(a.products, Product{
		ID:      id,
		Model:   eff.Model,
		Brand:   eff.Vendor,
		Type:    eff.Component,
		FW:      NotAvailable,
		Drivers: []DriverEntry{},
	})
	a.index[eff.Model] = len(a.products) - 1
	return &a.products[len(a.products)-1]
}
