package domain

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by collaborators when a record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNoInventory means the destination resolved to no hotel candidates
	// (or the candidate lookup itself failed). The chat turn continues
	// without hotel context.
	ErrNoInventory = errors.New("no inventory for destination")

	// ErrLLMUnavailable means the language model call for the final reply
	// failed; surfaced to the caller as a generic error response.
	ErrLLMUnavailable = errors.New("language model unavailable")
)

// InventoryClient is the hotel inventory collaborator: city to candidates,
// candidate plus stay parameters to offers.
type InventoryClient interface {
	HotelsByCity(ctx context.Context, cityCode string) ([]HotelSummary, error)
	HotelOffers(ctx context.Context, hotelID string, p HotelSearchParams) (HotelOffer, error)
}

// LanguageModel is the text-completion collaborator. Extract constrains the
// output to JSON; Complete returns free text. Implementations must be safe
// for concurrent use.
type LanguageModel interface {
	Extract(ctx context.Context, system, prompt string) (string, error)
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// ConversationRepository is the append-only conversation store, keyed per
// user identity (or the anonymous bucket).
type ConversationRepository interface {
	FindOrCreate(ctx context.Context, key UserKey) (int64, error)
	Append(ctx context.Context, conversationID int64, role Role, content string) error
	ListMessages(ctx context.Context, key UserKey) ([]Message, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
