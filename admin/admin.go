// Package admin implements the dashboard operations over products, orders
// and promotions.
package admin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/Madhav-Gupta-28/storefront-go/apiclient"
	"github.com/Madhav-Gupta-28/storefront-go/models"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNoIDs             = errors.New("no product ids given")
	ErrInvalidTransition = errors.New("order cannot move to that status")
	ErrInvalidProduct    = errors.New("product name and a non-negative price are required")
	ErrInvalidPromotion  = errors.New("promotion code and a discount between 1 and 100 are required")
	ErrUnsupportedImage  = errors.New("only jpg, png and webp images are accepted")
)

// Upstream is the set of upstream calls the dashboard makes.
type Upstream interface {
	CreateProduct(ctx context.Context, p models.Product) (models.Product, error)
	UpdateProduct(ctx context.Context, id string, p models.Product) (models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	BulkDeleteProducts(ctx context.Context, ids []string) error
	UploadImage(ctx context.Context, filename string, data io.Reader) (apiclient.UploadResult, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	GetOrder(ctx context.Context, id string) (models.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (models.Order, error)
	ListPromotions(ctx context.Context) ([]models.Coupon, error)
	CreatePromotion(ctx context.Context, p models.Coupon) (models.Coupon, error)
	UpdatePromotion(ctx context.Context, id string, p models.Coupon) (models.Coupon, error)
	DeletePromotion(ctx context.Context, id string) error
}

type Service struct {
	upstream Upstream
	products func(ctx context.Context) ([]models.Product, error)
}

// New builds the service. products lists the whole catalog; it is separate
// because the storefront and the dashboard share it.
func New(upstream Upstream, products func(ctx context.Context) ([]models.Product, error)) *Service {
	return &Service{upstream: upstream, products: products}
}

func (s *Service) Products(ctx context.Context) ([]models.Product, error) {
	return s.products(ctx)
}

func validateProduct(p models.Product) error {
	if strings.TrimSpace(p.Name) == "" || !p.Price.Valid || p.Price.Amount < 0 {
		return ErrInvalidProduct
	}
	return nil
}

func (s *Service) CreateProduct(ctx context.Context, p models.Product) (models.Product, error) {
	if err := validateProduct(p); err != nil {
		return models.Product{}, err
	}
	return s.upstream.CreateProduct(ctx, p)
}

func (s *Service) UpdateProduct(ctx context.Context, id string, p models.Product) (models.Product, error) {
	if err := validateProduct(p); err != nil {
		return models.Product{}, err
	}
	return s.upstream.UpdateProduct(ctx, id, p)
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	return s.upstream.DeleteProduct(ctx, id)
}

// BulkDelete removes duplicate and blank ids before sending.
func (s *Service) BulkDelete(ctx context.Context, ids []string) (int, error) {
	seen := make(map[string]bool, len(ids))
	var clean []string
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		clean = append(clean, id)
	}
	if len(clean) == 0 {
		return 0, ErrNoIDs
	}
	if err := s.upstream.BulkDeleteProducts(ctx, clean); err != nil {
		return 0, err
	}
	return len(clean), nil
}

func (s *Service) UploadImage(ctx context.Context, filename string, data io.Reader) (apiclient.UploadResult, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		return apiclient.UploadResult{}, ErrUnsupportedImage
	}
	return s.upstream.UploadImage(ctx, filename, data)
}

func (s *Service) Orders(ctx context.Context) ([]models.Order, error) {
	return s.upstream.ListOrders(ctx)
}

func (s *Service) Order(ctx context.Context, id string) (models.Order, error) {
	return s.upstream.GetOrder(ctx, id)
}

// UpdateOrderStatus checks the transition against the current status
// before asking the upstream to apply it.
func (s *Service) UpdateOrderStatus(ctx context.Context, id string, next models.OrderStatus) (models.Order, error) {
	current, err := s.upstream.GetOrder(ctx, id)
	if err != nil {
		return models.Order{}, err
	}
	if !current.Status.CanTransition(next) {
		return models.Order{}, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, current.Status, next)
	}
	return s.upstream.UpdateOrderStatus(ctx, id, next)
}

func validatePromotion(p models.Coupon) error {
	if strings.TrimSpace(p.Code) == "" || p.Discount < 1 || p.Discount > 100 {
		return ErrInvalidPromotion
	}
	if !p.ValidFrom.IsZero() && !p.ValidUntil.IsZero() && p.ValidUntil.Before(p.ValidFrom) {
		return fmt.Errorf("%w: validUntil is before validFrom", ErrInvalidPromotion)
	}
	return nil
}

func (s *Service) Promotions(ctx context.Context) ([]models.Coupon, error) {
	return s.upstream.ListPromotions(ctx)
}

func (s *Service) CreatePromotion(ctx context.Context, p models.Coupon) (models.Coupon, error) {
	p.Code = strings.ToUpper(strings.TrimSpace(p.Code))
	if err := validatePromotion(p); err != nil {
		return models.Coupon{}, err
	}
	return s.upstream.CreatePromotion(ctx, p)
}

func (s *Service) UpdatePromotion(ctx context.Context, id string, p models.Coupon) (models.Coupon, error) {
	p.Code = strings.ToUpper(strings.TrimSpace(p.Code))
	if err := validatePromotion(p); err != nil {
		return models.Coupon{}, err
	}
	return s.upstream.UpdatePromotion(ctx, id, p)
}

func (s *Service) DeletePromotion(ctx context.Context, id string) error {
	return s.upstream.DeletePromotion(ctx, id)
}

type Stats struct {
	Products         int                        `json:"products"`
	OutOfStock       int                        `json:"outOfStock"`
	Orders           int                        `json:"orders"`
	OrdersByStatus   map[models.OrderStatus]int `json:"ordersByStatus"`
	Revenue          models.Money               `json:"revenue"`
	ActivePromotions int                        `json:"activePromotions"`
}

// Dashboard fetches products, orders and promotions concurrently. Each
// fetch fills its own part of Stats; the first failure cancels the rest.
func (s *Service) Dashboard(ctx context.Context, now time.Time) (Stats, error) {
	var (
		products   []models.Product
		orders     []models.Order
		promotions []models.Coupon
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		products, err = s.products(ctx)
		return err
	})
	g.Go(func() (err error) {
		orders, err = s.upstream.ListOrders(ctx)
		return err
	})
	g.Go(func() (err error) {
		promotions, err = s.upstream.ListPromotions(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}

	st := Stats{
		Products:       len(products),
		Orders:         len(orders),
		OrdersByStatus: make(map[models.OrderStatus]int),
	}
	for _, p := range products {
		if p.Stock <= 0 {
			st.OutOfStock++
		}
	}
	for _, o := range orders {
		st.OrdersByStatus[o.Status]++
		if o.Status != models.OrderStatusCancelled {
			st.Revenue += o.TotalAmount
		}
	}
	for _, p := range promotions {
		if p.IsActive && (p.ValidUntil.IsZero() || p.ValidUntil.After(now)) {
			st.ActivePromotions++
		}
	}
	return st, nil
}
