package catalog

import (
	"context"
	"errors"
	"net/url"

	"github.com/Madhav-Gupta-28/storefront-go/models"
)

var ErrUnknownSection = errors.New("unknown product section")

// Sections are the curated listings served by the upstream under
// /products/<section>.
var Sections = map[string]bool{
	"t-shirts":      true,
	"shirts":        true,
	"polos":         true,
	"bottoms":       true,
	"best-sellers":  true,
	"new-arrivals":  true,
	"trending":      true,
	"featured":      true,
	"oversized":     true,
	"accessories":   true,
	"winter-wear":   true,
	"summer-edit":   true,
	"limited-drops": true,
}

type Source interface {
	ListProducts(ctx context.Context, query url.Values) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (models.Product, error)
	ProductSection(ctx context.Context, section string) ([]models.Product, error)
}

type Catalog struct {
	src Source
}

func New(src Source) *Catalog {
	return &Catalog{src: src}
}

// Browse fetches the full listing and runs the filter pipeline over it.
func (c *Catalog) Browse(ctx context.Context, f Filter) ([]models.Product, error) {
	products, err := c.src.ListProducts(ctx, nil)
	if err != nil {
		return nil, err
	}
	return Apply(products, f), nil
}

func (c *Catalog) Product(ctx context.Context, id string) (models.Product, error) {
	return c.src.GetProduct(ctx, id)
}

func (c *Catalog) Section(ctx context.Context, section string, f Filter) ([]models.Product, error) {
	if !Sections[section] {
		return nil, ErrUnknownSection
	}
	products, err := c.src.ProductSection(ctx, section)
	if err != nil {
		return nil, err
	}
	return Apply(products, f), nil
}
