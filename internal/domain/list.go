// Package domain holds the persistent entities of the grocery list.
package domain

import "time"

// ChatList is the per-chat list root. At most one exists per Telegram chat;
// it is created lazily on the first successful add.
type ChatList struct {
	ID        int64     `db:"id"`
	ChatID    int64     `db:"chat_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// ListItem is a single grocery entry owned by exactly one ChatList.
// Item text is stored canonicalized and is unique within its list.
type ListItem struct {
	ID         int64     `db:"id"`
	ChatListID int64     `db:"chat_list_id"`
	Item       string    `db:"item"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}
