// Package cart holds the cart and wishlist of a session. Memory is the
// source of truth; every mutation writes a full snapshot to the session
// store and, for signed-in users, pushes the cart upstream on a best-effort
// basis.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Madhav-Gupta-28/storefront-go/database"
	"github.com/Madhav-Gupta-28/storefront-go/metrics"
	"github.com/Madhav-Gupta-28/storefront-go/models"
	"go.uber.org/zap"
)

const (
	KeyCart     = "cart"
	KeyWishlist = "wishlist"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrInvalidProduct  = errors.New("product is required")
	ErrItemNotFound    = errors.New("item not found in cart")
)

// Syncer pushes a cart snapshot to the upstream.
type Syncer interface {
	SaveCart(ctx context.Context, items []models.CartLineItem) error
}

// Presence reports whether the session has a signed-in user.
type Presence interface {
	Authenticated() bool
}

// Result is the outcome of a mutation. SyncErr is a soft error: the local
// change stands even when the upstream push failed.
type Result struct {
	Items   []models.CartLineItem
	SyncErr error
}

type Cart struct {
	mu       sync.Mutex
	items    []models.CartLineItem
	store    database.Store
	syncer   Syncer
	presence Presence
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

type Option func(*Cart)

func WithSync(s Syncer, p Presence) Option {
	return func(c *Cart) {
		c.syncer = s
		c.presence = p
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Cart) { c.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Cart) { c.metrics = m }
}

func New(store database.Store, opts ...Option) *Cart {
	c := &Cart{store: store, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Restore loads the persisted snapshot. An unreadable snapshot is dropped.
func (c *Cart) Restore(ctx context.Context) error {
	raw, err := c.store.Get(ctx, KeyCart)
	if errors.Is(err, database.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("restore cart: %w", err)
	}
	var items []models.CartLineItem
	if err := json.Unmarshal(raw, &items); err != nil {
		c.logger.Warn("discarding unreadable cart snapshot", zap.Error(err))
		return nil
	}
	c.mu.Lock()
	c.items = items
	c.mu.Unlock()
	return nil
}

func (c *Cart) Items() []models.CartLineItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneItems(c.items)
}

// Count is the number of units in the cart.
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, item := range c.items {
		n += item.Quantity
	}
	return n
}

// Add puts qty units of product into the cart. A line with the same
// product, size and color has its quantity increased instead.
func (c *Cart) Add(ctx context.Context, product models.ProductRef, qty int, size, color string) (Result, error) {
	if product.ID == "" {
		return Result{}, ErrInvalidProduct
	}
	if qty < 1 {
		return Result{}, ErrInvalidQuantity
	}
	item := models.CartLineItem{
		Product:  &product,
		Quantity: qty,
		Size:     models.OptionalString(strings.TrimSpace(size)),
		Color:    models.OptionalString(strings.TrimSpace(color)),
	}
	return c.mutate(ctx, func(items []models.CartLineItem) ([]models.CartLineItem, error) {
		key := item.Key()
		for i := range items {
			if items[i].Key() == key {
				items[i].Quantity += qty
				return items, nil
			}
		}
		return append(items, item), nil
	})
}

func (c *Cart) UpdateQuantity(ctx context.Context, key models.LineKey, qty int) (Result, error) {
	if qty < 1 {
		return Result{}, ErrInvalidQuantity
	}
	return c.mutate(ctx, func(items []models.CartLineItem) ([]models.CartLineItem, error) {
		for i := range items {
			if items[i].Key() == key {
				items[i].Quantity = qty
				return items, nil
			}
		}
		return nil, ErrItemNotFound
	})
}

func (c *Cart) Remove(ctx context.Context, key models.LineKey) (Result, error) {
	return c.mutate(ctx, func(items []models.CartLineItem) ([]models.CartLineItem, error) {
		out := items[:0]
		found := false
		for _, item := range items {
			if item.Key() == key {
				found = true
				continue
			}
			out = append(out, item)
		}
		if !found {
			return nil, ErrItemNotFound
		}
		return out, nil
	})
}

func (c *Cart) Clear(ctx context.Context) (Result, error) {
	return c.mutate(ctx, func([]models.CartLineItem) ([]models.CartLineItem, error) {
		return []models.CartLineItem{}, nil
	})
}

// Adopt replaces an empty cart with the cart saved upstream, typically right
// after sign-in. A non-empty local cart wins and is pushed upstream instead.
func (c *Cart) Adopt(ctx context.Context, saved []models.CartLineItem) (adopted bool, res Result, err error) {
	res, err = c.mutate(ctx, func(items []models.CartLineItem) ([]models.CartLineItem, error) {
		if len(items) == 0 && len(saved) > 0 {
			adopted = true
			return cloneItems(saved), nil
		}
		return items, nil
	})
	return adopted, res, err
}

// mutate applies fn to a copy of the items, then commits, persists and
// syncs the result. fn errors leave the cart untouched.
func (c *Cart) mutate(ctx context.Context, fn func([]models.CartLineItem) ([]models.CartLineItem, error)) (Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := fn(cloneItems(c.items))
	if err != nil {
		return Result{}, err
	}
	c.items = next
	snapshot := cloneItems(next)

	raw, err := json.Marshal(snapshot)
	if err != nil {
		return Result{}, fmt.Errorf("encode cart: %w", err)
	}
	if err := c.store.Set(ctx, KeyCart, raw); err != nil {
		return Result{Items: snapshot}, fmt.Errorf("persist cart: %w", err)
	}

	res := Result{Items: snapshot}
	if c.syncer != nil && c.presence != nil && c.presence.Authenticated() {
		if err := c.syncer.SaveCart(ctx, snapshot); err != nil {
			c.logger.Warn("cart sync failed; keeping local cart", zap.Error(err))
			c.metrics.CartSyncFailed()
			res.SyncErr = err
		}
	}
	return res, nil
}

func cloneItems(items []models.CartLineItem) []models.CartLineItem {
	if items == nil {
		return nil
	}
	out := make([]models.CartLineItem, len(items))
	for i, item := range items {
		out[i] = item
		if item.Product != nil {
			p := *item.Product
			p.Colors = append([]string(nil), p.Colors...)
			p.Sizes = append([]string(nil), p.Sizes...)
			out[i].Product = &p
		}
		if item.Size != nil {
			s := *item.Size
			out[i].Size = &s
		}
		if item.Color != nil {
			s := *item.Color
			out[i].Color = &s
		}
	}
	return out
}
