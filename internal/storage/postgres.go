package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/eggcart/eggcart/core/logger"
	"github.com/eggcart/eggcart/internal/domain"
	"log/slog"
)

const uniqueViolation = "23505"

// Postgres implements Repository on top of a shared sqlx pool.
type Postgres struct {
	db *sqlx.DB
}

// NewPostgres wraps the provided pool.
func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func (p *Postgres) logQuery(ctx context.Context, op string, start time.Time, err error, attrs ...slog.Attr) {
	attrs = append(attrs,
		slog.String("operation", op),
		slog.Int64("duration_ms", logger.RoundMS(time.Since(start)).Milliseconds()),
	)
	if err != nil && !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrDuplicate) {
		attrs = append(attrs, slog.String("err", logger.SanitizeLimit(err.Error(), 256)))
		logger.Error(ctx, "db", "query.fail", attrs...)
		return
	}
	logger.Debug(ctx, "db", "query.done", attrs...)
}

// CreateChatList inserts a list row for the chat. Returns ErrDuplicate when
// another creator won the race for the same chat id.
func (p *Postgres) CreateChatList(ctx context.Context, chatID int64) (domain.ChatList, error) {
	start := time.Now()
	var cl domain.ChatList
	err := p.db.GetContext(ctx, &cl,
		`INSERT INTO chat_lists (chat_id) VALUES ($1)
		 RETURNING id, chat_id, created_at, updated_at`, chatID)
	if isUniqueViolation(err) {
		err = ErrDuplicate
	}
	p.logQuery(ctx, "chat_list.create", start, err, slog.Int64("chat_id", chatID))
	if err != nil && !errors.Is(err, ErrDuplicate) {
		return domain.ChatList{}, fmt.Errorf("create chat list %d: %w", chatID, err)
	}
	return cl, err
}

// GetChatList fetches the list row for the chat, or ErrNotFound.
func (p *Postgres) GetChatList(ctx context.Context, chatID int64) (domain.ChatList, error) {
	start := time.Now()
	var cl domain.ChatList
	err := p.db.GetContext(ctx, &cl,
		`SELECT id, chat_id, created_at, updated_at FROM chat_lists WHERE chat_id = $1`, chatID)
	if errors.Is(err, sql.ErrNoRows) {
		err = ErrNotFound
	}
	p.logQuery(ctx, "chat_list.get", start, err, slog.Int64("chat_id", chatID))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return domain.ChatList{}, fmt.Errorf("get chat list %d: %w", chatID, err)
	}
	return cl, err
}

// CreateItem inserts an item into the given list. Returns ErrDuplicate when
// the canonicalized text already exists in that list.
func (p *Postgres) CreateItem(ctx context.Context, chatListID int64, text string) (domain.ListItem, error) {
	start := time.Now()
	var it domain.ListItem
	err := p.db.GetContext(ctx, &it,
		`INSERT INTO list_items (chat_list_id, item) VALUES ($1, $2)
		 RETURNING id, chat_list_id, item, created_at, updated_at`, chatListID, text)
	if isUniqueViolation(err) {
		err = ErrDuplicate
	}
	p.logQuery(ctx, "item.create", start, err,
		slog.Int64("list_id", chatListID),
		slog.String("item", logger.Sanitize(text)),
	)
	if err != nil && !errors.Is(err, ErrDuplicate) {
		return domain.ListItem{}, fmt.Errorf("create item in list %d: %w", chatListID, err)
	}
	return it, err
}

// GetItem fetches one item by id, or ErrNotFound.
func (p *Postgres) GetItem(ctx context.Context, itemID int64) (domain.ListItem, error) {
	start := time.Now()
	var it domain.ListItem
	err := p.db.GetContext(ctx, &it,
		`SELECT id, chat_list_id, item, created_at, updated_at FROM list_items WHERE id = $1`, itemID)
	if errors.Is(err, sql.ErrNoRows) {
		err = ErrNotFound
	}
	p.logQuery(ctx, "item.get", start, err, slog.Int64("item_id", itemID))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return domain.ListItem{}, fmt.Errorf("get item %d: %w", itemID, err)
	}
	return it, err
}

// FindItem fetches an item by exact text within one list, or ErrNotFound.
// Scoping by chat_list_id keeps identical names in other chats invisible.
func (p *Postgres) FindItem(ctx context.Context, chatListID int64, text string) (domain.ListItem, error) {
	start := time.Now()
	var it domain.ListItem
	err := p.db.GetContext(ctx, &it,
		`SELECT id, chat_list_id, item, created_at, updated_at
		 FROM list_items WHERE chat_list_id = $1 AND item = $2`, chatListID, text)
	if errors.Is(err, sql.ErrNoRows) {
		err = ErrNotFound
	}
	p.logQuery(ctx, "item.find", start, err,
		slog.Int64("list_id", chatListID),
		slog.String("item", logger.Sanitize(text)),
	)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return domain.ListItem{}, fmt.Errorf("find item in list %d: %w", chatListID, err)
	}
	return it, err
}

// ListItems returns all items of a list in insertion order.
func (p *Postgres) ListItems(ctx context.Context, chatListID int64) ([]domain.ListItem, error) {
	start := time.Now()
	items := []domain.ListItem{}
	err := p.db.SelectContext(ctx, &items,
		`SELECT id, chat_list_id, item, created_at, updated_at
		 FROM list_items WHERE chat_list_id = $1 ORDER BY id`, chatListID)
	p.logQuery(ctx, "item.list", start, err,
		slog.Int64("list_id", chatListID),
		slog.Int("count", len(items)),
	)
	if err != nil {
		return nil, fmt.Errorf("list items of list %d: %w", chatListID, err)
	}
	return items, nil
}

// DeleteItem removes one item and reports how many rows went away.
// Deleting an absent id is not an error.
func (p *Postgres) DeleteItem(ctx context.Context, itemID int64) (int64, error) {
	start := time.Now()
	res, err := p.db.ExecContext(ctx, `DELETE FROM list_items WHERE id = $1`, itemID)
	var affected int64
	if err == nil {
		affected, err = res.RowsAffected()
	}
	p.logQuery(ctx, "item.delete", start, err,
		slog.Int64("item_id", itemID),
		slog.Int64("count", affected),
	)
	if err != nil {
		return 0, fmt.Errorf("delete item %d: %w", itemID, err)
	}
	return affected, nil
}

// DeleteAllItems removes every item of a list in a single statement, so the
// clear is atomic and other lists stay untouched.
func (p *Postgres) DeleteAllItems(ctx context.Context, chatListID int64) (int64, error) {
	start := time.Now()
	res, err := p.db.ExecContext(ctx, `DELETE FROM list_items WHERE chat_list_id = $1`, chatListID)
	var affected int64
	if err == nil {
		affected, err = res.RowsAffected()
	}
	p.logQuery(ctx, "item.clear", start, err,
		slog.Int64("list_id", chatListID),
		slog.Int64("count", affected),
	)
	if err != nil {
		return 0, fmt.Errorf("clear list %d: %w", chatListID, err)
	}
	return affected, nil
}
