package basket

import (
	"context"

	"github.com/google/uuid"
)

// Store holds one basket per session id.
type Store interface {
	Add(ctx context.Context, sessionID string, productID uuid.UUID) error
	Clear(ctx context.Context, sessionID string) error
	Entries(ctx context.Context, sessionID string) ([]Entry, error)
	Ping(ctx context.Context) error
}
