package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrProductNotFound = errors.New("product not found")
	ErrArticleNotFound = errors.New("article not found")
)

// DefaultFixedPrice is used for fixed-price products when no other value is configured.
const DefaultFixedPrice int64 = 100

type PricingKind int

const (
	PricingFlat PricingKind = iota
	PricingDiscounted
	PricingFixed
)

func (k PricingKind) String() string {
	switch k {
	case PricingFlat:
		return "flat"
	case PricingDiscounted:
		return "discounted"
	case PricingFixed:
		return "fixed"
	default:
		return fmt.Sprintf("PricingKind(%d)", int(k))
	}
}

// Pricing is fixed at construction. Price holds the flat or fixed value;
// BasePrice and DiscountPercent are only set for PricingDiscounted.
type Pricing struct {
	Kind            PricingKind
	Price           int64
	BasePrice       int64
	DiscountPercent int
}

type Product struct {
	ID      uuid.UUID
	Name    string
	Pricing Pricing
}

func NewFlatProduct(id uuid.UUID, name string, price int64) (Product, error) {
	name, err := validName(name)
	if err != nil {
		return Product{}, err
	}
	if price <= 0 {
		return Product{}, fmt.Errorf("%w: Цена должна быть больше 0, получено: %d", ErrInvalidInput, price)
	}
	return Product{ID: id, Name: name, Pricing: Pricing{Kind: PricingFlat, Price: price}}, nil
}

func NewDiscountedProduct(id uuid.UUID, name string, basePrice int64, discountPercent int) (Product, error) {
	name, err := validName(name)
	if err != nil {
		return Product{}, err
	}
	if basePrice <= 0 {
		return Product{}, fmt.Errorf("%w: Базовая цена должна быть больше 0, получено: %d", ErrInvalidInput, basePrice)
	}
	if discountPercent < 0 || discountPercent > 100 {
		return Product{}, fmt.Errorf("%w: Скидка должна быть в диапазоне от 0 до 100, получено: %d", ErrInvalidInput, discountPercent)
	}
	return Product{
		ID:   id,
		Name: name,
		Pricing: Pricing{
			Kind:            PricingDiscounted,
			BasePrice:       basePrice,
			DiscountPercent: discountPercent,
		},
	}, nil
}

func NewFixedPriceProduct(id uuid.UUID, name string, fixedPrice int64) (Product, error) {
	name, err := validName(name)
	if err != nil {
		return Product{}, err
	}
	if fixedPrice <= 0 {
		return Product{}, fmt.Errorf("%w: фиксированная цена должна быть больше 0, получено: %d", ErrInvalidInput, fixedPrice)
	}
	return Product{ID: id, Name: name, Pricing: Pricing{Kind: PricingFixed, Price: fixedPrice}}, nil
}

func validName(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("%w: Название продукта не может быть пустым", ErrInvalidInput)
	}
	return name, nil
}

// Price returns the unit price in minor currency units.
func (p Product) Price() int64 {
	switch p.Pricing.Kind {
	case PricingFlat, PricingFixed:
		return p.Pricing.Price
	case PricingDiscounted:
		return discounted(p.Pricing.BasePrice, int64(p.Pricing.DiscountPercent))
	default:
		return 0
	}
}

// discounted returns base - base*d/100 truncated, split so that no
// intermediate product exceeds int64 for any positive base.
func discounted(base, d int64) int64 {
	off := base/100*d + base%100*d/100
	return base - off
}

// Special reports whether the product is shown as a special offer.
func (p Product) Special() bool {
	return p.Pricing.Kind == PricingDiscounted
}

func (p Product) SearchTerm() string       { return p.Name }
func (p Product) ContentType() ContentType { return ContentTypeProduct }
func (p Product) ItemID() uuid.UUID        { return p.ID }

func (p Product) String() string {
	if p.Special() {
		return fmt.Sprintf("%s: %d руб. (скидка %d%%)", p.Name, p.Price(), p.Pricing.DiscountPercent)
	}
	return fmt.Sprintf("%s: %d руб.", p.Name, p.Price())
}

type productJSON struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Price   int64     `json:"price"`
	Special bool      `json:"special"`
}

func (p Product) MarshalJSON() ([]byte, error) {
	return json.Marshal(productJSON{ID: p.ID, Name: p.Name, Price: p.Price(), Special: p.Special()})
}

type ProductInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

func (p Product) Info() ProductInfo {
	return ProductInfo{ID: p.ID.String(), Name: p.Name, Price: p.Price()}
}
