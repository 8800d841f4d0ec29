package catalog

import "github.com/google/uuid"

type Store interface {
	AddProduct(p Product) Product
	AddArticle(a Article) Article
	ProductByID(id uuid.UUID) (Product, bool)
	ArticleByID(id uuid.UUID) (Article, bool)
	Products() []Product
	Articles() []Article
	Searchables() []Searchable
	ProductCount() int
	ArticleCount() int
}

func NewStore() Store {
	return NewMemStore()
}
