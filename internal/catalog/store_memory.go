package catalog

import (
	"sync"

	"github.com/google/uuid"
)

// MemStore keeps products and articles in insertion order.
// Re-adding an existing id replaces the record in place.
type MemStore struct {
	mu sync.RWMutex

	products     map[uuid.UUID]Product
	productOrder []uuid.UUID

	articles     map[uuid.UUID]Article
	articleOrder []uuid.UUID
}

func NewMemStore() *MemStore {
	return &MemStore{
		products: map[uuid.UUID]Product{},
		articles: map[uuid.UUID]Article{},
	}
}

func (s *MemStore) AddProduct(p Product) Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[p.ID]; !ok {
		s.productOrder = append(s.productOrder, p.ID)
	}
	s.products[p.ID] = p
	return p
}

func (s *MemStore) AddArticle(a Article) Article {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.articles[a.ID]; !ok {
		s.articleOrder = append(s.articleOrder, a.ID)
	}
	s.articles[a.ID] = a
	return a
}

func (s *MemStore) ProductByID(id uuid.UUID) (Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	return p, ok
}

func (s *MemStore) ArticleByID(id uuid.UUID) (Article, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.articles[id]
	return a, ok
}

func (s *MemStore) Products() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.productsLocked()
}

func (s *MemStore) Articles() []Article {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.articlesLocked()
}

// Searchables returns products followed by articles, taken under one lock.
func (s *MemStore) Searchables() []Searchable {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Searchable, 0, len(s.productOrder)+len(s.articleOrder))
	for _, p := range s.productsLocked() {
		out = append(out, p)
	}
	for _, a := range s.articlesLocked() {
		out = append(out, a)
	}
	return out
}

func (s *MemStore) ProductCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}

func (s *MemStore) ArticleCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.articles)
}

func (s *MemStore) productsLocked() []Product {
	out := make([]Product, 0, len(s.productOrder))
	for _, id := range s.productOrder {
		out = append(out, s.products[id])
	}
	return out
}

func (s *MemStore) articlesLocked() []Article {
	out := make([]Article, 0, len(s.articleOrder))
	for _, id := range s.articleOrder {
		out = append(out, s.articles[id])
	}
	return out
}
