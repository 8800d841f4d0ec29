package basket

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"Skyshop/internal/catalog"
	"Skyshop/internal/session"
	"Skyshop/pkg/kit"
)

const (
	msgAdded   = "Продукт успешно добавлен"
	msgCleared = "Корзина очищена"
	errPrefix  = "Ошибка: "
)

type Server struct {
	Service *Service
	Log     *zap.Logger
}

func (s *Server) RegisterRoutes(r chi.Router) {
	r.Route("/basket", func(br chi.Router) {
		br.Get("/", s.view)
		br.Get("/clear", s.clear)
		br.Get("/{id}", s.add)
	})
}

func (s *Server) add(w http.ResponseWriter, r *http.Request) {
	sid, ok := session.IDFromContext(r.Context())
	if !ok {
		s.noSession(w, r)
		return
	}

	id, err := catalog.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		kit.WriteText(w, http.StatusBadRequest, errPrefix+catalog.Message(err))
		return
	}

	if err := s.Service.AddProduct(r.Context(), sid, id); err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			kit.WriteText(w, http.StatusBadRequest, errPrefix+catalog.Message(err))
			return
		}
		kit.OrNop(s.Log).Error("basket add failed", zap.Error(err), zap.String("product_id", id.String()))
		kit.WriteInternalError(w, r)
		return
	}

	kit.WriteText(w, http.StatusOK, msgAdded)
}

func (s *Server) view(w http.ResponseWriter, r *http.Request) {
	sid, ok := session.IDFromContext(r.Context())
	if !ok {
		s.noSession(w, r)
		return
	}

	ub, err := s.Service.View(r.Context(), sid)
	if err != nil {
		kit.OrNop(s.Log).Error("basket view failed", zap.Error(err))
		kit.WriteInternalError(w, r)
		return
	}
	kit.WriteJSON(w, http.StatusOK, ub)
}

func (s *Server) clear(w http.ResponseWriter, r *http.Request) {
	sid, ok := session.IDFromContext(r.Context())
	if !ok {
		s.noSession(w, r)
		return
	}

	if err := s.Service.Clear(r.Context(), sid); err != nil {
		kit.OrNop(s.Log).Error("basket clear failed", zap.Error(err))
		kit.WriteInternalError(w, r)
		return
	}
	kit.WriteText(w, http.StatusOK, msgCleared)
}

func (s *Server) noSession(w http.ResponseWriter, r *http.Request) {
	kit.OrNop(s.Log).Error("basket route reached without session middleware")
	kit.WriteInternalError(w, r)
}
