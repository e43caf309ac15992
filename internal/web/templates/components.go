// Package templates holds the HTML components rendered by the web server.
package templates

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/JonMunkholm/hcl/internal/core"
	"github.com/a-h/templ"
)

// DashboardData is everything the landing page shows.
type DashboardData struct {
	Products   int
	OSLabels   []string
	SelectedOS string
	Menu       []core.MenuCategory
	Sheets     []core.SheetStatus
	Loaded     bool
}

// ProductCard is one product rendered against a target OS.
type ProductCard struct {
	Product core.Product
	Status  core.DriverStatus
	Command string
}

// SearchData is the search results page.
type SearchData struct {
	Query    string
	TargetOS string
	OSClass  core.OSClass
	Cards    []ProductCard
}

// QuickBrands are shortcut searches on the dashboard.
var QuickBrands = []string{"Intel", "Mellanox", "Broadcom"}

// writer stops at the first write error.
type writer struct {
	w   io.Writer
	err error
}

func (w *writer) raw(s string) {
	if w.err == nil {
		_, w.err = io.WriteString(w.w, s)
	}
}

func (w *writer) text(s string) {
	w.raw(templ.EscapeString(s))
}

func (w *writer) rawf(format string, args ...any) {
	w.raw(fmt.Sprintf(format, args...))
}

func page(title string, body func(w *writer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		w.raw(`<meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		w.text(title)
		w.raw(`</title></head><body>`)
		body(w)
		w.raw(`</body></html>`)
		return w.err
	})
}

// Dashboard renders the landing page with the browse menu.
func Dashboard(d DashboardData) templ.Component {
	return page("Firmware & Driver HCL Tool", func(w *writer) {
		w.raw(`<header><h1>Firmware &amp; Driver HCL Tool</h1><form action="/search" method="get">`)
		w.raw(`<input type="search" name="q" placeholder="Model or brand"><select name="os">`)
		for _, os := range d.OSLabels {
			w.raw(`<option value="`)
			w.text(os)
			w.raw(`"`)
			if os == d.SelectedOS {
				w.raw(` selected`)
			}
			w.raw(`>`)
			w.text(os)
			w.raw(`</option>`)
		}
		w.raw(`</select><button type="submit">Search</button></form>`)
		w.rawf(`<p class="status">Database: %d products</p></header>`, d.Products)

		if !d.Loaded {
			w.raw(`<div class="no-results">Loading compatibility data...</div>`)
		}

		w.raw(`<nav class="quick-links">`)
		for _, b := range QuickBrands {
			w.raw(`<a class="quick-card" href="/search?q=`)
			w.text(url.QueryEscape(b))
			w.raw(`">`)
			w.text(b)
			w.raw(`</a>`)
		}
		w.raw(`</nav>`)

		w.raw(`<ul class="sidebar-menu">`)
		for _, cat := range d.Menu {
			w.raw(`<li><div class="menu-category">`)
			w.text(cat.Component)
			w.raw(`</div><ul class="submenu">`)
			for _, v := range cat.Vendors {
				w.raw(`<li><div class="menu-vendor">`)
				w.text(v.Vendor)
				w.raw(`</div><ul class="submenu">`)
				for _, m := range v.Models {
					w.raw(`<li class="menu-model"><a href="/search?q=`)
					w.text(url.QueryEscape(m))
					w.raw(`">`)
					w.text(m)
					w.raw(`</a></li>`)
				}
				w.raw(`</ul></li>`)
			}
			w.raw(`</ul></li>`)
		}
		w.raw(`</ul>`)

		for _, st := range d.Sheets {
			if st.Error == "" {
				continue
			}
			w.raw(`<p class="sheet-warning">Sheet `)
			w.text(st.Name)
			w.raw(` could not be loaded.</p>`)
		}
	})
}

// SearchResults renders product cards for a query against one OS.
func SearchResults(d SearchData) templ.Component {
	return page("HCL search: "+d.Query, func(w *writer) {
		w.raw(`<p class="status">Showing OS: <strong>`)
		w.text(d.OSClass.Family)
		if d.OSClass.VersionTag != "" {
			w.raw(` <span class="os-badge badge-`)
			w.text(d.OSClass.Badge)
			w.raw(`">`)
			w.text(d.OSClass.VersionTag)
			w.raw(`</span>`)
		}
		w.raw(`</strong> | Results: `)
		w.text(strconv.Itoa(len(d.Cards)))
		w.raw(`</p>`)

		if len(d.Cards) == 0 {
			w.raw(`<div class="no-results">No matching products</div>`)
			return
		}
		for _, c := range d.Cards {
			renderCard(w, c, d.TargetOS)
		}
	})
}

func renderCard(w *writer, c ProductCard, targetOS string) {
	w.raw(`<div class="hw-row-card"><div class="row-header"><div class="row-model-title">`)
	w.text(c.Product.Model)
	w.raw(`</div><div class="row-brand-badge">`)
	w.text(c.Product.Brand)
	w.raw(`</div></div><div class="row-body"><div class="data-item"><span class="data-label">FW Version</span><span class="data-val val-fw">`)
	w.text(c.Product.FW)
	w.raw(`</span></div><div class="data-item"><span class="data-label">Driver for `)
	w.text(targetOS)
	w.raw(`</span><span class="data-val status-`)
	w.text(string(c.Status.Support))
	w.raw(`">`)
	w.text(c.Status.Display)
	w.raw(`</span></div></div><details class="row-details-panel"><summary>Details</summary><code class="cmd-code">`)
	w.text(c.Command)
	w.raw(`</code><div class="swid">SWID: `)
	w.text(c.Product.ID)
	w.raw(`</div></details></div>`)
}

// ErrorAlert renders an error message fragment.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<div class="error-alert" role="alert"><strong>`)
		w.text(message)
		w.raw(`</strong>`)
		if action != "" {
			w.raw(`<p>`)
			w.text(action)
			w.raw(`</p>`)
		}
		w.raw(`<small>Code: `)
		w.text(code)
		w.raw(`</small></div>`)
		return w.err
	})
}
