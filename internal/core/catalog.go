package core

import (
	"fmt"
	"sort"
	"strings"
)

// Catalog is an immutable collection of products from one load.
// Every accessor returns copies; callers cannot alter the catalog.
type Catalog struct {
	products []Product
	byModel  map[string]int
}

// NewCatalog builds a catalog over products. The slice is copied.
func NewCatalog(products []Product) *Catalog {
	c := &Catalog{
		products: make([]Product, len(products)),
		byModel:  make(map[string]int, len(products)),
	}
	for i, p := range products {
		c.products[i] = p.clone()
		if _, dup := c.byModel[p.Model]; !dup {
			c.byModel[p.Model] = i
		}
	}
	return c
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.products)
}

// Products returns all products in catalog order.
func (c *Catalog) Products() []Product {
	return c.Filter(nil)
}

// FindByModel returns the product whose model equals model exactly.
func (c *Catalog) FindByModel(model string) (Product, bool) {
	if c == nil {
		return Product{}, false
	}
	i, ok := c.byModel[model]
	if !ok {
		return Product{}, false
	}
	return c.products[i].clone(), true
}

// Filter returns the products for which keep returns true, in catalog order.
// A nil predicate keeps everything.
func (c *Catalog) Filter(keep func(Product) bool) []Product {
	if c == nil {
		return []Product{}
	}
	out := make([]Product, 0, len(c.products))
	for _, p := range c.products {
		if keep == nil || keep(p) {
			out = append(out, p.clone())
		}
	}
	return out
}

// Search returns products whose model or brand contains keyword, ignoring case.
func (c *Catalog) Search(keyword string) []Product {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	if kw == "" {
		return c.Products()
	}
	return c.Filter(func(p Product) bool {
		return strings.Contains(strings.ToLower(p.Model), kw) ||
			strings.Contains(strings.ToLower(p.Brand), kw)
	})
}

// ProductField names a scalar product attribute for ListDistinctValues.
type ProductField string

const (
	ProductModel ProductField = "model"
	ProductBrand ProductField = "brand"
	ProductType  ProductField = "type"
	ProductFW    ProductField = "fw"
	ProductID    ProductField = "id"
)

// ParseProductField validates a field name from a request.
func ParseProductField(s string) (ProductField, error) {
	switch f := ProductField(strings.ToLower(s)); f {
	case ProductModel, ProductBrand, ProductType, ProductFW, ProductID:
		return f, nil
	default:
		return "", fmt.Errorf("unknown product field %q", s)
	}
}

func (f ProductField) value(p Product) string {
	switch f {
	case ProductModel:
		return p.Model
	case ProductBrand:
		return p.Brand
	case ProductType:
		return p.Type
	case ProductFW:
		return p.FW
	case ProductID:
		return p.ID
	default:
		return ""
	}
}

// ListDistinctValues returns the sorted, non-empty distinct values of field.
func (c *Catalog) ListDistinctValues(field ProductField) []string {
	out := []string{}
	if c == nil {
		return out
	}
	seen := make(map[string]struct{})
	for _, p := range c.products {
		v := field.value(p)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// MenuVendor is one vendor node of the browse menu.
type MenuVendor struct {
	Vendor string   `json:"vendor"`
	Models []string `json:"models"`
}

// MenuCategory is one component node of the browse menu.
type MenuCategory struct {
	Component string       `json:"component"`
	Vendors   []MenuVendor `json:"vendors"`
}

// Menu builds the component -> vendor -> model browse tree.
// Components and vendors are sorted; models keep catalog order.
func (c *Catalog) Menu() []MenuCategory {
	menu := []MenuCategory{}
	for _, comp := range c.ListDistinctValues(ProductType) {
		products := c.Filter(func(p Product) bool { return p.Type == comp })

		vendorSet := make(map[string]struct{})
		var vendors []string
		for _, p := range products {
			if _, dup := vendorSet[p.Brand]; !dup {
				vendorSet[p.Brand] = struct{}{}
				vendors = append(vendors, p.Brand)
			}
		}
		sort.Strings(vendors)

		cat := MenuCategory{Component: comp}
		for _, v := range vendors {
			node := MenuVendor{Vendor: v}
			for _, p := range products {
				if p.Brand == v {
					node.Models = append(node.Models, p.Model)
				}
			}
			cat.Vendors = append(cat.Vendors, node)
		}
		menu = append(menu, cat)
	}
	return menu
}

// DriverSupport classifies the driver listed for a product on one OS.
type DriverSupport string

const (
	SupportSupported   DriverSupport = "supported"
	SupportUnsupported DriverSupport = "unsupported"
	SupportNotListed   DriverSupport = "not_listed"
	SupportUnknown     DriverSupport = "unknown"
)

// DriverStatus is the display form of a product's driver on one OS.
type DriverStatus struct {
	Support DriverSupport `json:"support"`
	Display string        `json:"display"`
}

// StatusFor reports the driver status of p on os.
func StatusFor(p Product, os string) DriverStatus {
	d, ok := p.DriverFor(os)
	if !ok {
		return DriverStatus{Support: SupportUnknown, Display: "Unknown"}
	}

	lower := strings.ToLower(d.Version)
	switch {
	case lower == "n/a" || lower == "":
		return DriverStatus{Support: SupportNotListed, Display: "Not Listed"}
	case strings.Contains(lower, "not support"):
		return DriverStatus{Support: SupportUnsupported, Display: d.Version}
	default:
		return DriverStatus{Support: SupportSupported, Display: d.Version}
	}
}
