// Package service implements the chat-scoped grocery list operations.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/eggcart/eggcart/core/logger"
	"github.com/eggcart/eggcart/internal/domain"
	"github.com/eggcart/eggcart/internal/storage"
	"log/slog"
)

// Canonicalize normalizes an item name before storage and lookup: whitespace
// trimmed, up to two trailing periods stripped, first letter upper-cased.
// An input that trims to empty stays empty.
func Canonicalize(s string) string {
	for i := 0; i < 2; i++ {
		s = strings.TrimSpace(s)
		s = strings.TrimSuffix(s, ".")
	}
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// SplitItems splits a comma-separated command payload into raw item names.
// Empty segments are kept so batch replies stay aligned with user input.
func SplitItems(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// Lists owns the domain operations over chat lists and their items.
type Lists struct {
	repo storage.Repository
}

// NewLists builds the service on the given repository.
func NewLists(repo storage.Repository) *Lists {
	return &Lists{repo: repo}
}

// FindOrCreateChatList returns the chat's list, creating it on first use.
// Two concurrent first adds race on the chat_id unique constraint; the loser
// refetches the winner's row instead of failing.
func (l *Lists) FindOrCreateChatList(ctx context.Context, chatID int64) (domain.ChatList, error) {
	cl, err := l.repo.GetChatList(ctx, chatID)
	if err == nil {
		return cl, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return domain.ChatList{}, err
	}

	cl, err = l.repo.CreateChatList(ctx, chatID)
	if err == nil {
		logger.Info(ctx, "service.lists", "chat_list.created",
			slog.Int64("chat_id", chatID),
			slog.Int64("list_id", cl.ID),
		)
		return cl, nil
	}
	if !errors.Is(err, storage.ErrDuplicate) {
		return domain.ChatList{}, err
	}
	return l.repo.GetChatList(ctx, chatID)
}

// ChatList returns the chat's list without creating it. The second return
// is false when the chat has never added anything.
func (l *Lists) ChatList(ctx context.Context, chatID int64) (domain.ChatList, bool, error) {
	cl, err := l.repo.GetChatList(ctx, chatID)
	if errors.Is(err, storage.ErrNotFound) {
		return domain.ChatList{}, false, nil
	}
	if err != nil {
		return domain.ChatList{}, false, err
	}
	return cl, true, nil
}

// AddItem canonicalizes and inserts one item. The second return reports
// whether a row was created; a duplicate within the same list is not an error.
func (l *Lists) AddItem(ctx context.Context, chatListID int64, text string) (domain.ListItem, bool, error) {
	name := Canonicalize(text)
	if name == "" {
		return domain.ListItem{}, false, nil
	}

	it, err := l.repo.CreateItem(ctx, chatListID, name)
	if err == nil {
		logger.Debug(ctx, "service.lists", "item.added",
			slog.Int64("list_id", chatListID),
			slog.Int64("item_id", it.ID),
			slog.String("item", logger.Sanitize(name)),
		)
		return it, true, nil
	}
	if errors.Is(err, storage.ErrDuplicate) {
		existing, findErr := l.repo.FindItem(ctx, chatListID, name)
		if findErr != nil {
			return domain.ListItem{}, false, findErr
		}
		return existing, false, nil
	}
	return domain.ListItem{}, false, err
}

// FindItemByName looks up an item by canonicalized text within one list.
func (l *Lists) FindItemByName(ctx context.Context, chatListID int64, text string) (domain.ListItem, bool, error) {
	name := Canonicalize(text)
	if name == "" {
		return domain.ListItem{}, false, nil
	}
	it, err := l.repo.FindItem(ctx, chatListID, name)
	if errors.Is(err, storage.ErrNotFound) {
		return domain.ListItem{}, false, nil
	}
	if err != nil {
		return domain.ListItem{}, false, err
	}
	return it, true, nil
}

// FindItemByID looks up an item by surrogate key.
func (l *Lists) FindItemByID(ctx context.Context, itemID int64) (domain.ListItem, bool, error) {
	it, err := l.repo.GetItem(ctx, itemID)
	if errors.Is(err, storage.ErrNotFound) {
		return domain.ListItem{}, false, nil
	}
	if err != nil {
		return domain.ListItem{}, false, err
	}
	return it, true, nil
}

// RemoveItem deletes one item. Removing an id that no longer exists is a
// no-op, which makes double-taps on delete buttons harmless.
func (l *Lists) RemoveItem(ctx context.Context, itemID int64) error {
	n, err := l.repo.DeleteItem(ctx, itemID)
	if err != nil {
		return fmt.Errorf("remove item: %w", err)
	}
	if n > 0 {
		logger.Debug(ctx, "service.lists", "item.removed", slog.Int64("item_id", itemID))
	}
	return nil
}

// Items returns the list's items in insertion order.
func (l *Lists) Items(ctx context.Context, chatListID int64) ([]domain.ListItem, error) {
	return l.repo.ListItems(ctx, chatListID)
}

// Clear deletes every item of the list in one statement.
func (l *Lists) Clear(ctx context.Context, chatListID int64) (int64, error) {
	n, err := l.repo.DeleteAllItems(ctx, chatListID)
	if err != nil {
		return 0, fmt.Errorf("clear list: %w", err)
	}
	logger.Info(ctx, "service.lists", "list.cleared",
		slog.Int64("list_id", chatListID),
		slog.Int64("count", n),
	)
	return n, nil
}
