package models

import "time"

type Gender string

const (
	GenderMen    Gender = "MEN"
	GenderWomen  Gender = "WOMEN"
	GenderUnisex Gender = "UNISEX"
)

// Product is a catalog product as served by the upstream backend.
type Product struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       Price     `json:"price"`
	Image       string    `json:"image,omitempty"`
	Images      []string  `json:"images,omitempty"`
	Gender      Gender    `json:"gender,omitempty"`
	Category    string    `json:"category,omitempty"`
	SubCategory string    `json:"subCategory,omitempty"`
	Collection  string    `json:"collection,omitempty"`
	Fit         string    `json:"fit,omitempty"`
	Colors      []string  `json:"colors,omitempty"`
	Sizes       []string  `json:"sizes,omitempty"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

// ProductRef is the snapshot of a product copied into cart and wishlist
// entries. It has no live link back to the catalog.
type ProductRef struct {
	ID       string   `json:"_id"`
	Name     string   `json:"name"`
	Price    Price    `json:"price"`
	Image    string   `json:"image,omitempty"`
	Category string   `json:"category,omitempty"`
	Colors   []string `json:"colors,omitempty"`
	Sizes    []string `json:"sizes,omitempty"`
}

// Ref copies the product into a ProductRef.
func (p Product) Ref() ProductRef {
	image := p.Image
	if image == "" && len(p.Images) > 0 {
		image = p.Images[0]
	}
	return ProductRef{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Image:    image,
		Category: p.Category,
		Colors:   append([]string(nil), p.Colors...),
		Sizes:    append([]string(nil), p.Sizes...),
	}
}
