package basket

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"Skyshop/internal/catalog"
)

type fixture struct {
	ctx     context.Context
	catalog *catalog.MemStore
	baskets *MemStore
	svc     *Service
}

func newFixture(t *testing.T, reg prometheus.Registerer) fixture {
	t.Helper()
	f := fixture{
		ctx:     context.Background(),
		catalog: catalog.NewMemStore(),
		baskets: NewMemStore(time.Hour),
	}
	f.svc = NewService(f.catalog, f.baskets, nil, reg)
	return f
}

func (f fixture) product(t *testing.T, id uuid.UUID, name string, price int64) catalog.Product {
	t.Helper()
	p, err := catalog.NewFlatProduct(id, name, price)
	assert.NoError(t, err)
	return f.catalog.AddProduct(p)
}

func TestViewEmptyBasket(t *testing.T) {
	f := newFixture(t, nil)

	ub, err := f.svc.View(f.ctx, "s1")
	assert.NoError(t, err)
	assert.Equal(t, 0, len(ub.Items))
	assert.Equal(t, int64(0), ub.Total)
	assert.Equal(t, 0, ub.ItemsCount)
}

func TestViewPricesEntries(t *testing.T) {
	f := newFixture(t, nil)
	p1 := f.product(t, uuid.MustParse("11111111-1111-1111-1111-111111111111"), "Тестовый продукт", 10000)
	p2 := f.product(t, uuid.MustParse("33333333-3333-3333-3333-333333333333"), "Другой продукт", 20000)

	assert.NoError(t, f.svc.AddProduct(f.ctx, "s1", p1.ID))
	assert.NoError(t, f.svc.AddProduct(f.ctx, "s1", p2.ID))
	assert.NoError(t, f.svc.AddProduct(f.ctx, "s1", p1.ID))

	ub, err := f.svc.View(f.ctx, "s1")
	assert.NoError(t, err)
	assert.Equal(t, int64(40000), ub.Total)
	assert.Equal(t, 3, ub.ItemsCount)
	assert.Equal(t, []Item{
		{Product: p1, Quantity: 2, TotalPrice: 20000},
		{Product: p2, Quantity: 1, TotalPrice: 20000},
	}, ub.Items)

	n, err := f.svc.TotalItems(f.ctx, "s1")
	assert.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestViewReflectsLivePrices(t *testing.T) {
	f := newFixture(t, nil)
	id := uuid.New()
	f.product(t, id, "Мышь", 5000)
	assert.NoError(t, f.svc.AddProduct(f.ctx, "s1", id))

	f.product(t, id, "Мышь", 7000)

	ub, err := f.svc.View(f.ctx, "s1")
	assert.NoError(t, err)
	assert.Equal(t, int64(7000), ub.Total)
}

func TestAddMissingProductLeavesBasketAlone(t *testing.T) {
	f := newFixture(t, nil)
	existing := f.product(t, uuid.New(), "Мышь", 5000)
	assert.NoError(t, f.svc.AddProduct(f.ctx, "s1", existing.ID))

	missing := uuid.MustParse("22222222-2222-2222-2222-222222222222")
	err := f.svc.AddProduct(f.ctx, "s1", missing)
	assert.IsError(t, err, catalog.ErrProductNotFound)
	assert.Contains(t, err.Error(), missing.String())
	assert.Equal(t, "Продукт с ID "+missing.String()+" не найден", catalog.Message(err))

	entries, err := f.baskets.Entries(f.ctx, "s1")
	assert.NoError(t, err)
	assert.Equal(t, []Entry{{ProductID: existing.ID, Quantity: 1}}, entries)
}

// stubStore lets a test inject entries for products the catalog never had.
type stubStore struct {
	entries []Entry
	err     error
}

func (s *stubStore) Add(context.Context, string, uuid.UUID) error { return s.err }
func (s *stubStore) Clear(context.Context, string) error          { return s.err }
func (s *stubStore) Ping(context.Context) error                   { return s.err }
func (s *stubStore) Entries(context.Context, string) ([]Entry, error) {
	return s.entries, s.err
}

func TestViewSkipsMissingProducts(t *testing.T) {
	cat := catalog.NewMemStore()
	p, _ := catalog.NewFlatProduct(uuid.New(), "Мышь", 5000)
	cat.AddProduct(p)

	svc := NewService(cat, &stubStore{entries: []Entry{
		{ProductID: uuid.New(), Quantity: 4},
		{ProductID: p.ID, Quantity: 2},
	}}, nil, nil)

	ub, err := svc.View(context.Background(), "s1")
	assert.NoError(t, err)
	assert.Equal(t, 1, len(ub.Items))
	assert.Equal(t, int64(10000), ub.Total)
	assert.Equal(t, 2, ub.ItemsCount)
}

func TestViewOverflow(t *testing.T) {
	cat := catalog.NewMemStore()
	p, _ := catalog.NewFlatProduct(uuid.New(), "Яхта", math.MaxInt64/2+1)
	cat.AddProduct(p)

	svc := NewService(cat, &stubStore{entries: []Entry{{ProductID: p.ID, Quantity: 2}}}, nil, nil)

	_, err := svc.View(context.Background(), "s1")
	assert.IsError(t, err, ErrTotalOverflow)
}

func TestStoreErrorsPropagate(t *testing.T) {
	boom := errors.New("boom")
	cat := catalog.NewMemStore()
	p, _ := catalog.NewFlatProduct(uuid.New(), "Мышь", 1)
	cat.AddProduct(p)

	svc := NewService(cat, &stubStore{err: boom}, nil, nil)

	assert.IsError(t, svc.AddProduct(context.Background(), "s1", p.ID), boom)
	assert.IsError(t, svc.Clear(context.Background(), "s1"), boom)
	_, err := svc.View(context.Background(), "s1")
	assert.IsError(t, err, boom)
}

func TestClearEmptiesSessionBasket(t *testing.T) {
	f := newFixture(t, nil)
	p := f.product(t, uuid.New(), "Мышь", 5000)
	assert.NoError(t, f.svc.AddProduct(f.ctx, "s1", p.ID))

	assert.NoError(t, f.svc.Clear(f.ctx, "s1"))

	ub, err := f.svc.View(f.ctx, "s1")
	assert.NoError(t, err)
	assert.Equal(t, 0, ub.ItemsCount)
}

func TestAddMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	f := newFixture(t, reg)
	p := f.product(t, uuid.New(), "Мышь", 5000)

	_ = f.svc.AddProduct(f.ctx, "s1", p.ID)
	_ = f.svc.AddProduct(f.ctx, "s1", uuid.New())

	assert.Equal(t, float64(1), testutil.ToFloat64(f.svc.adds.WithLabelValues("added")))
	assert.Equal(t, float64(1), testutil.ToFloat64(f.svc.adds.WithLabelValues("not_found")))

	expected := `
# HELP basket_adds_total Basket add attempts by result
# TYPE basket_adds_total counter
basket_adds_total{result="added"} 1
basket_adds_total{result="not_found"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "basket_adds_total"))
}
