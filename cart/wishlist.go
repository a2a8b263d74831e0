package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/Madhav-Gupta-28/storefront-go/database"
	"github.com/Madhav-Gupta-28/storefront-go/models"
	"go.uber.org/zap"
)

// Wishlist is a set of products keyed by id. It is persisted locally only.
type Wishlist struct {
	mu     sync.Mutex
	items  []models.WishlistItem
	store  database.Store
	logger *zap.Logger
}

func NewWishlist(store database.Store, logger *zap.Logger) *Wishlist {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Wishlist{store: store, logger: logger}
}

func (w *Wishlist) Restore(ctx context.Context) error {
	raw, err := w.store.Get(ctx, KeyWishlist)
	if errors.Is(err, database.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("restore wishlist: %w", err)
	}
	var items []models.WishlistItem
	if err := json.Unmarshal(raw, &items); err != nil {
		w.logger.Warn("discarding unreadable wishlist snapshot", zap.Error(err))
		return nil
	}
	w.mu.Lock()
	w.items = items
	w.mu.Unlock()
	return nil
}

func (w *Wishlist) Items() []models.WishlistItem {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]models.WishlistItem(nil), w.items...)
}

func (w *Wishlist) Contains(productID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.indexOf(productID) >= 0
}

func (w *Wishlist) indexOf(productID string) int {
	for i, item := range w.items {
		if item.Product.ID == productID {
			return i
		}
	}
	return -1
}

// Add reports false when the product was already present.
func (w *Wishlist) Add(ctx context.Context, product models.ProductRef) (bool, error) {
	if product.ID == "" {
		return false, ErrInvalidProduct
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.indexOf(product.ID) >= 0 {
		return false, nil
	}
	w.items = append(w.items, models.WishlistItem{Product: product})
	return true, w.persist(ctx)
}

// Remove reports false when the product was not present.
func (w *Wishlist) Remove(ctx context.Context, productID string) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	i := w.indexOf(productID)
	if i < 0 {
		return false, nil
	}
	w.items = append(w.items[:i:i], w.items[i+1:]...)
	return true, w.persist(ctx)
}

// Toggle adds the product if absent, removes it otherwise, and reports
// whether it is now in the wishlist.
func (w *Wishlist) Toggle(ctx context.Context, product models.ProductRef) (bool, error) {
	if w.Contains(product.ID) {
		_, err := w.Remove(ctx, product.ID)
		return false, err
	}
	_, err := w.Add(ctx, product)
	return err == nil, err
}

func (w *Wishlist) Clear(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.items = nil
	return w.persist(ctx)
}

func (w *Wishlist) persist(ctx context.Context) error {
	items := w.items
	if items == nil {
		items = []models.WishlistItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode wishlist: %w", err)
	}
	if err := w.store.Set(ctx, KeyWishlist, raw); err != nil {
		return fmt.Errorf("persist wishlist: %w", err)
	}
	return nil
}
