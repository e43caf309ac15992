package core

import (
	"fmt"
	"strings"
)

// FillDown carries the last valid model, vendor and component seen in one
// sheet pass. It is a value: Observe returns the next state rather than
// mutating the receiver, so a zero-cost copy is a checkpoint.
type FillDown struct {
	model     string
	vendor    string
	component string
}

// Effective is the model/vendor/component triple a row contributes after fill-down.
type Effective struct {
	Model     string
	Vendor    string
	Component string
}

// NewFillDown returns the state at the start of a sheet.
func NewFillDown() FillDown {
	return FillDown{vendor: DefaultBrand, component: DefaultComponent}
}

// Observe folds one row's resolved values into the tracker.
//
// A non-blank model becomes the last valid model, and the accompanying vendor
// and component replace the tracked ones only when they are non-blank too.
// A row with a blank model leaves the tracker untouched. The effective vendor
// and component are the row's own values when present, else the tracked ones.
// Effective.Model is always the row's own model; see ContinuationPolicy for
// rows whose model is blank.
func (f FillDown) Observe(model, vendor, component string) (FillDown, Effective) {
	model = strings.TrimSpace(model)
	vendor = strings.TrimSpace(vendor)
	component = strings.TrimSpace(component)

	if model != "" {
		f.model = model
		if vendor != "" {
			f.vendor = vendor
		}
		if component != "" {
			f.component = component
		}
	}

	eff := Effective{Model: model, Vendor: vendor, Component: component}
	if eff.Vendor == "" {
		eff.Vendor = f.vendor
	}
	if eff.Component == "" {
		eff.Component = f.component
	}
	return f, eff
}

// LastModel returns the most recent non-blank model seen, or "".
func (f FillDown) LastModel() string {
	return f.model
}

// ContinuationPolicy decides what happens to a row whose model is blank.
type ContinuationPolicy string

const (
	// ContinuationSkip drops blank-model rows.
	ContinuationSkip ContinuationPolicy = "skip"

	// ContinuationAttach attributes a blank-model row to the last valid model
	// of the same sheet, as a merged model cell would display it.
	ContinuationAttach ContinuationPolicy = "attach"
)

// ParseContinuationPolicy converts a config string into a policy.
func ParseContinuationPolicy(s string) (ContinuationPolicy, error) {
	switch p := ContinuationPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case ContinuationSkip, ContinuationAttach:
		return p, nil
	case "":
		return ContinuationSkip, nil
	default:
		return "", fmt.Errorf("unknown continuation policy %q", s)
	}
}
