// Package catalog filters and sorts product listings and fetches them from
// the upstream backend.
package catalog

import (
	"cmp"
	"fmt"
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/Madhav-Gupta-28/storefront-go/models"
)

type SortOrder string

const (
	SortNone      SortOrder = ""
	SortNameAsc   SortOrder = "name-asc"
	SortNameDesc  SortOrder = "name-desc"
	SortPriceAsc  SortOrder = "price-asc"
	SortPriceDesc SortOrder = "price-desc"
	SortStockAsc  SortOrder = "stock-asc"
	SortStockDesc SortOrder = "stock-desc"
	SortNewest    SortOrder = "newest"
)

func (s SortOrder) Valid() bool {
	switch s {
	case SortNone, SortNameAsc, SortNameDesc, SortPriceAsc, SortPriceDesc, SortStockAsc, SortStockDesc, SortNewest:
		return true
	}
	return false
}

// PriceRange is inclusive on both ends.
type PriceRange struct {
	Min models.Money `json:"min"`
	Max models.Money `json:"max"`
}

func (r PriceRange) contains(p models.Price) bool {
	return p.Valid && p.Amount >= r.Min && p.Amount <= r.Max
}

// Filter is a set of product filters. A zero field is inactive.
type Filter struct {
	Search      string      `json:"search,omitempty"`
	Gender      string      `json:"gender,omitempty"`
	Category    string      `json:"category,omitempty"`
	SubCategory string      `json:"subCategory,omitempty"`
	Collection  string      `json:"collection,omitempty"`
	PriceRange  *PriceRange `json:"priceRange,omitempty"`
	Size        string      `json:"size,omitempty"`
	Color       string      `json:"color,omitempty"`
	Fit         string      `json:"fit,omitempty"`
	Sort        SortOrder   `json:"sort,omitempty"`
}

type predicate func(models.Product) bool

func (f Filter) predicates() []predicate {
	var ps []predicate
	if q := strings.TrimSpace(f.Search); q != "" {
		q = strings.ToLower(q)
		ps = append(ps, func(p models.Product) bool {
			return strings.Contains(strings.ToLower(p.Name), q) ||
				strings.Contains(strings.ToLower(p.Category), q) ||
				strings.Contains(strings.ToLower(p.Description), q)
		})
	}
	if f.Gender != "" {
		ps = append(ps, func(p models.Product) bool { return strings.EqualFold(string(p.Gender), f.Gender) })
	}
	if f.Category != "" {
		ps = append(ps, func(p models.Product) bool { return strings.EqualFold(p.Category, f.Category) })
	}
	if f.SubCategory != "" {
		ps = append(ps, func(p models.Product) bool { return strings.EqualFold(p.SubCategory, f.SubCategory) })
	}
	if f.Collection != "" {
		ps = append(ps, func(p models.Product) bool { return strings.EqualFold(p.Collection, f.Collection) })
	}
	if f.PriceRange != nil {
		r := *f.PriceRange
		ps = append(ps, func(p models.Product) bool { return r.contains(p.Price) })
	}
	if f.Size != "" {
		ps = append(ps, func(p models.Product) bool { return containsFold(p.Sizes, f.Size) })
	}
	if f.Color != "" {
		ps = append(ps, func(p models.Product) bool { return containsFold(p.Colors, f.Color) })
	}
	if f.Fit != "" {
		ps = append(ps, func(p models.Product) bool { return strings.EqualFold(p.Fit, f.Fit) })
	}
	return ps
}

func containsFold(values []string, want string) bool {
	return slices.ContainsFunc(values, func(v string) bool { return strings.EqualFold(v, want) })
}

// Match reports whether p passes every active filter.
func (f Filter) Match(p models.Product) bool {
	for _, pred := range f.predicates() {
		if !pred(p) {
			return false
		}
	}
	return true
}

// Merge overlays the active fields of o onto f.
func (f Filter) Merge(o Filter) Filter {
	out := f
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&out.Search, o.Search)
	set(&out.Gender, o.Gender)
	set(&out.Category, o.Category)
	set(&out.SubCategory, o.SubCategory)
	set(&out.Collection, o.Collection)
	set(&out.Size, o.Size)
	set(&out.Color, o.Color)
	set(&out.Fit, o.Fit)
	if o.PriceRange != nil {
		r := *o.PriceRange
		out.PriceRange = &r
	}
	if o.Sort != SortNone {
		out.Sort = o.Sort
	}
	return out
}

// Apply returns the products that pass every active filter, ordered by
// f.Sort. The input slice is never modified.
func Apply(products []models.Product, f Filter) []models.Product {
	preds := f.predicates()
	out := make([]models.Product, 0, len(products))
next:
	for _, p := range products {
		for _, pred := range preds {
			if !pred(p) {
				continue next
			}
		}
		out = append(out, p)
	}
	if less := comparator(f.Sort); less != nil {
		slices.SortStableFunc(out, less)
	}
	return out
}

func comparator(s SortOrder) func(a, b models.Product) int {
	switch s {
	case SortNameAsc:
		return func(a, b models.Product) int { return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)) }
	case SortNameDesc:
		return func(a, b models.Product) int { return strings.Compare(strings.ToLower(b.Name), strings.ToLower(a.Name)) }
	case SortPriceAsc:
		return func(a, b models.Product) int { return cmp.Compare(priceKey(a), priceKey(b)) }
	case SortPriceDesc:
		return func(a, b models.Product) int { return cmp.Compare(priceKey(b), priceKey(a)) }
	case SortStockAsc:
		return func(a, b models.Product) int { return cmp.Compare(a.Stock, b.Stock) }
	case SortStockDesc:
		return func(a, b models.Product) int { return cmp.Compare(b.Stock, a.Stock) }
	case SortNewest:
		return func(a, b models.Product) int { return strings.Compare(b.ID, a.ID) }
	}
	return nil
}

// Unpriced products sort as zero.
func priceKey(p models.Product) models.Money {
	if !p.Price.Valid {
		return 0
	}
	return p.Price.Amount
}

// ParseFilter reads a filter from query parameters. priceRange is given as
// minPrice and maxPrice in rupees; a missing bound is open.
func ParseFilter(q url.Values) (Filter, error) {
	f := Filter{
		Search:      q.Get("search"),
		Gender:      q.Get("gender"),
		Category:    q.Get("category"),
		SubCategory: q.Get("subCategory"),
		Collection:  q.Get("collection"),
		Size:        q.Get("size"),
		Color:       q.Get("color"),
		Fit:         q.Get("fit"),
		Sort:        SortOrder(q.Get("sort")),
	}
	if !f.Sort.Valid() {
		return Filter{}, fmt.Errorf("unknown sort %q", f.Sort)
	}

	minRaw, maxRaw := q.Get("minPrice"), q.Get("maxPrice")
	if minRaw == "" && maxRaw == "" {
		return f, nil
	}
	r := PriceRange{Min: 0, Max: maxMoney}
	var err error
	if minRaw != "" {
		if r.Min, err = parseRupees("minPrice", minRaw); err != nil {
			return Filter{}, err
		}
	}
	if maxRaw != "" {
		if r.Max, err = parseRupees("maxPrice", maxRaw); err != nil {
			return Filter{}, err
		}
	}
	if r.Min > r.Max {
		return Filter{}, fmt.Errorf("minPrice exceeds maxPrice")
	}
	f.PriceRange = &r
	return f, nil
}

const maxMoney = models.Money(math.MaxInt64)

// parseRupees reads a non-negative rupee amount. Amounts beyond what paise
// can hold are clamped to maxMoney.
func parseRupees(name, raw string) (models.Money, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	if v*100 >= math.MaxInt64 {
		return maxMoney, nil
	}
	return models.FromRupees(v), nil
}
