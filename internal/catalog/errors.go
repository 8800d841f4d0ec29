package catalog

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"Skyshop/pkg/kit"
)

func ParseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: Invalid UUID string: %s", ErrInvalidInput, raw)
	}
	return id, nil
}

func ProductNotFound(id uuid.UUID) error {
	return fmt.Errorf("%w: Продукт с ID %s не найден", ErrProductNotFound, id)
}

// Message strips the sentinel prefix so clients see only the human-readable part.
func Message(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{ErrInvalidInput, ErrProductNotFound, ErrArticleNotFound} {
		if rest, ok := strings.CutPrefix(msg, sentinel.Error()+": "); ok {
			return rest
		}
	}
	return msg
}

// WriteError maps catalog errors onto the shop error payload.
func WriteError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		kit.WriteError(w, r, http.StatusBadRequest, kit.CodeInvalidInput, Message(err), nil)
	case errors.Is(err, ErrProductNotFound):
		kit.WriteError(w, r, http.StatusNotFound, kit.CodeProductNotFound, Message(err), nil)
	case errors.Is(err, ErrArticleNotFound):
		kit.WriteError(w, r, http.StatusNotFound, kit.CodeArticleNotFound, Message(err), nil)
	default:
		kit.OrNop(log).Error("request failed", zap.Error(err), zap.String("path", r.URL.Path))
		kit.WriteInternalError(w, r)
	}
}
