package basket

import (
	"sync"

	"github.com/google/uuid"
)

type Entry struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// Basket counts product quantities for a single session. Entries keep the
// order in which products were first added.
type Basket struct {
	mu    sync.Mutex
	qty   map[uuid.UUID]int
	order []uuid.UUID
}

func New() *Basket {
	return &Basket{qty: map[uuid.UUID]int{}}
}

func (b *Basket) Add(id uuid.UUID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.qty[id]; !ok {
		b.order = append(b.order, id)
	}
	b.qty[id]++
}

func (b *Basket) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	clear(b.qty)
	b.order = b.order[:0]
}

func (b *Basket) QuantityOf(id uuid.UUID) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.qty[id]
}

// Entries returns a copy; callers may keep it after further mutation.
func (b *Basket) Entries() []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Entry, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, Entry{ProductID: id, Quantity: b.qty[id]})
	}
	return out
}

func (b *Basket) TotalCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := 0
	for _, q := range b.qty {
		n += q
	}
	return n
}
