// Package storage persists chat lists and their items in Postgres.
package storage

import (
	"context"
	"errors"

	"github.com/eggcart/eggcart/internal/domain"
)

var (
	// ErrNotFound marks an absent row. Callers treat it as a normal
	// empty result, not a failure.
	ErrNotFound = errors.New("storage: not found")
	// ErrDuplicate marks a unique constraint conflict on insert.
	ErrDuplicate = errors.New("storage: duplicate")
)

// Repository is the persistence surface consumed by the list service.
type Repository interface {
	CreateChatList(ctx context.Context, chatID int64) (domain.ChatList, error)
	GetChatList(ctx context.Context, chatID int64) (domain.ChatList, error)

	CreateItem(ctx context.Context, chatListID int64, text string) (domain.ListItem, error)
	GetItem(ctx context.Context, itemID int64) (domain.ListItem, error)
	FindItem(ctx context.Context, chatListID int64, text string) (domain.ListItem, error)
	ListItems(ctx context.Context, chatListID int64) ([]domain.ListItem, error)
	DeleteItem(ctx context.Context, itemID int64) (int64, error)
	DeleteAllItems(ctx context.Context, chatListID int64) (int64, error)
}
