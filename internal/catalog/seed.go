package catalog

import "github.com/google/uuid"

// Seed fills s with the demo catalog. fixedPrice is the price used for
// fixed-price products.
func Seed(s Store, fixedPrice int64) error {
	products := []func() (Product, error){
		func() (Product, error) { return NewFlatProduct(uuid.New(), "Игровой ноутбук", 50000) },
		func() (Product, error) { return NewFlatProduct(uuid.New(), "Игровой ноутбук", 45000) },
		func() (Product, error) { return NewFlatProduct(uuid.New(), "Игровая мышь", 5000) },
		func() (Product, error) { return NewDiscountedProduct(uuid.New(), "Механическая клавиатура", 7000, 30) },
		func() (Product, error) { return NewFixedPriceProduct(uuid.New(), "Фиксированный товар", fixedPrice) },
	}
	for _, mk := range products {
		p, err := mk()
		if err != nil {
			return err
		}
		s.AddProduct(p)
	}

	s.AddArticle(NewArticle(uuid.New(), "Обзор игровых ноутбуков", "Лучшие игровые ноутбуки 2025 года"))
	s.AddArticle(NewArticle(uuid.New(), "Выбор игровой мыши", "Как выбрать игровую мышь для компьютерных игр"))
	return nil
}
