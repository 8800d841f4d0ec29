package basket

import (
	"context"
	"errors"
	"math"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"Skyshop/internal/catalog"
	"Skyshop/pkg/kit"
)

var ErrTotalOverflow = errors.New("basket total overflow")

type ProductLookup interface {
	ProductByID(id uuid.UUID) (catalog.Product, bool)
}

type Item struct {
	Product    catalog.Product `json:"product"`
	Quantity   int             `json:"quantity"`
	TotalPrice int64           `json:"total_price"`
}

type UserBasket struct {
	Items      []Item `json:"items"`
	Total      int64  `json:"total"`
	ItemsCount int    `json:"items_count"`
}

// Service joins session baskets with the live catalog. It holds no basket
// state itself; every call names the session it works on.
type Service struct {
	Products ProductLookup
	Baskets  Store
	Log      *zap.Logger

	adds *prometheus.CounterVec
}

func NewService(products ProductLookup, baskets Store, log *zap.Logger, reg prometheus.Registerer) *Service {
	s := &Service{Products: products, Baskets: baskets, Log: kit.OrNop(log)}
	if reg != nil {
		s.adds = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "basket_adds_total",
				Help: "Basket add attempts by result",
			},
			[]string{"result"},
		)
		reg.MustRegister(s.adds)
	}
	return s
}

// AddProduct puts one unit of productID into the session's basket. The
// basket is left untouched when the product is not in the catalog.
func (s *Service) AddProduct(ctx context.Context, sessionID string, productID uuid.UUID) error {
	if _, ok := s.Products.ProductByID(productID); !ok {
		s.countAdd("not_found")
		return catalog.ProductNotFound(productID)
	}
	if err := s.Baskets.Add(ctx, sessionID, productID); err != nil {
		s.countAdd("error")
		return err
	}
	s.countAdd("added")
	return nil
}

func (s *Service) Clear(ctx context.Context, sessionID string) error {
	return s.Baskets.Clear(ctx, sessionID)
}

// View prices the session's basket against current catalog prices. Entries
// whose product has vanished from the catalog are skipped.
func (s *Service) View(ctx context.Context, sessionID string) (UserBasket, error) {
	entries, err := s.Baskets.Entries(ctx, sessionID)
	if err != nil {
		return UserBasket{}, err
	}

	ub := UserBasket{Items: make([]Item, 0, len(entries))}
	for _, e := range entries {
		p, ok := s.Products.ProductByID(e.ProductID)
		if !ok {
			kit.OrNop(s.Log).Warn("basket entry references missing product",
				zap.String("product_id", e.ProductID.String()),
				zap.Int("quantity", e.Quantity),
			)
			continue
		}

		line, err := lineTotal(p.Price(), e.Quantity)
		if err != nil {
			return UserBasket{}, err
		}
		if ub.Total > math.MaxInt64-line {
			return UserBasket{}, ErrTotalOverflow
		}

		ub.Items = append(ub.Items, Item{Product: p, Quantity: e.Quantity, TotalPrice: line})
		ub.Total += line
		ub.ItemsCount += e.Quantity
	}
	return ub, nil
}

func (s *Service) TotalItems(ctx context.Context, sessionID string) (int, error) {
	entries, err := s.Baskets.Entries(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range entries {
		n += e.Quantity
	}
	return n, nil
}

func lineTotal(price int64, qty int) (int64, error) {
	if qty <= 0 || price <= 0 {
		return 0, nil
	}
	if price > math.MaxInt64/int64(qty) {
		return 0, ErrTotalOverflow
	}
	return price * int64(qty), nil
}

func (s *Service) countAdd(result string) {
	if s.adds != nil {
		s.adds.WithLabelValues(result).Inc()
	}
}
