package models

// LineKey identifies a cart line: product id, size and color.
type LineKey struct {
	ProductID string `json:"productId"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
}

// CartLineItem is one entry in a cart. Product may be nil in a malformed
// snapshot; such lines are kept but never priced.
type CartLineItem struct {
	Product  *ProductRef `json:"product"`
	Quantity int         `json:"quantity"`
	Size     *string     `json:"size"`
	Color    *string     `json:"color"`
}

// Key returns the uniqueness key of the line.
func (i CartLineItem) Key() LineKey {
	k := LineKey{}
	if i.Product != nil {
		k.ProductID = i.Product.ID
	}
	if i.Size != nil {
		k.Size = *i.Size
	}
	if i.Color != nil {
		k.Color = *i.Color
	}
	return k
}

// Priced reports whether the line contributes to a subtotal.
func (i CartLineItem) Priced() bool {
	return i.Product != nil && i.Product.Price.Valid
}

// LineTotal is price times quantity, zero for unpriced lines.
func (i CartLineItem) LineTotal() Money {
	if !i.Priced() {
		return 0
	}
	return i.Product.Price.Amount.Times(i.Quantity)
}

// WishlistItem is a wishlist entry.
type WishlistItem struct {
	Product ProductRef `json:"product"`
}

// OptionalString returns nil for an empty string.
func OptionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
