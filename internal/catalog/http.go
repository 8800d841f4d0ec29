package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"Skyshop/pkg/kit"
)

const maxCreateBody = 1 << 20

type Server struct {
	Store  Store
	Search *Searcher
	Log    *zap.Logger

	// CreateLimiter throttles product creation per client IP. Nil disables it.
	CreateLimiter *kit.IPRateLimiter
}

func (s *Server) RegisterRoutes(r chi.Router) {
	r.Route("/products", func(pr chi.Router) {
		pr.Get("/", s.listProducts)
		pr.Get("/details", s.listProductDetails)
		pr.Get("/{id}", s.getProduct)

		if s.CreateLimiter != nil {
			pr.With(s.CreateLimiter.Middleware).Post("/", s.createProduct)
		} else {
			pr.Post("/", s.createProduct)
		}
	})

	r.Get("/articles", s.listArticles)
	r.Get("/articles/{id}", s.getArticle)
	r.Get("/search", s.search)
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.Store.Products())
}

func (s *Server) listProductDetails(w http.ResponseWriter, r *http.Request) {
	products := s.Store.Products()
	out := make([]ProductInfo, 0, len(products))
	for _, p := range products {
		out = append(out, p.Info())
	}
	kit.WriteJSON(w, http.StatusOK, out)
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, r, s.Log, err)
		return
	}

	p, ok := s.Store.ProductByID(id)
	if !ok {
		WriteError(w, r, s.Log, ProductNotFound(id))
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

type createProductReq struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCreateProduct(w, r)
	if err != nil {
		WriteError(w, r, s.Log, fmt.Errorf("%w: bad json: %v", ErrInvalidInput, err))
		return
	}

	p, err := NewFlatProduct(uuid.New(), strings.TrimSpace(req.Name), req.Price)
	if err != nil {
		WriteError(w, r, s.Log, err)
		return
	}

	created := s.Store.AddProduct(p)
	kit.OrNop(s.Log).Info("product created",
		zap.String("product_id", created.ID.String()),
		zap.Int64("price", created.Price()),
	)
	kit.WriteJSON(w, http.StatusOK, created)
}

func decodeCreateProduct(w http.ResponseWriter, r *http.Request) (createProductReq, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxCreateBody)
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req createProductReq
	if err := dec.Decode(&req); err != nil {
		return createProductReq{}, err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return createProductReq{}, errors.New("extra data after json object")
	}
	return req, nil
}

func (s *Server) listArticles(w http.ResponseWriter, r *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.Store.Articles())
}

func (s *Server) getArticle(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, r, s.Log, err)
		return
	}

	a, ok := s.Store.ArticleByID(id)
	if !ok {
		WriteError(w, r, s.Log, fmt.Errorf("%w: Статья с ID %s не найдена", ErrArticleNotFound, id))
		return
	}
	kit.WriteJSON(w, http.StatusOK, a)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.Search.Search(r.URL.Query().Get("pattern")))
}
