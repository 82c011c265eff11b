// Package bot wires the grocery list dialogs onto the Telegram runtime.
package bot

import (
	"fmt"
	"strconv"
	"strings"
)

// CallbackKind enumerates the inline-button actions of the list dialogs.
type CallbackKind int

const (
	// CallbackCheckItem opens the delete picker from the list view.
	CallbackCheckItem CallbackKind = iota
	// CallbackDeleteItem removes one item from the delete picker.
	CallbackDeleteItem
	// CallbackPrevPage pages the delete picker backwards.
	CallbackPrevPage
	// CallbackNextPage pages the delete picker forwards.
	CallbackNextPage
	// CallbackGoBack returns from any dialog to the list view.
	CallbackGoBack
	// CallbackOK strips the buttons off the list view.
	CallbackOK
	// CallbackClear opens the clear-confirmation dialog.
	CallbackClear
	// CallbackConfirmClear wipes the list.
	CallbackConfirmClear
	// CallbackCancelClear dismisses the clear-confirmation dialog.
	CallbackCancelClear
)

// Key returns the registry action key for the kind.
func (k CallbackKind) Key() string {
	switch k {
	case CallbackCheckItem:
		return "check_item"
	case CallbackDeleteItem:
		return "delete_item"
	case CallbackPrevPage:
		return "prev_page"
	case CallbackNextPage:
		return "next_page"
	case CallbackGoBack:
		return "go_back"
	case CallbackOK:
		return "ok"
	case CallbackClear:
		return "clear"
	case CallbackConfirmClear:
		return "confirm_clear"
	case CallbackCancelClear:
		return "cancel_clear"
	}
	return "unknown"
}

// Callback is the parsed form of an inline-button payload. Every payload
// carries the originating chat id; delete carries the item id and the page
// actions carry the picker page. The payload is the only dialog state.
type Callback struct {
	Kind   CallbackKind
	ChatID int64
	ItemID int64
	Page   int
}

// Encode renders the payload in its wire form.
func (cb Callback) Encode() string {
	switch cb.Kind {
	case CallbackDeleteItem:
		return fmt.Sprintf("delete_item_%d_%d", cb.ItemID, cb.ChatID)
	case CallbackPrevPage:
		return fmt.Sprintf("prev_page_%d_%d", cb.Page, cb.ChatID)
	case CallbackNextPage:
		return fmt.Sprintf("next_page_%d_%d", cb.Page, cb.ChatID)
	default:
		return fmt.Sprintf("%s_%d", cb.Kind.Key(), cb.ChatID)
	}
}

// ParseCallback parses a raw payload against the dialog grammar. The second
// return is false for anything that does not match exactly; chat ids may be
// negative (supergroups), item ids and pages may not.
func ParseCallback(data string) (Callback, bool) {
	type pattern struct {
		prefix string
		kind   CallbackKind
		args   int // int arguments before the trailing chat id
	}
	// confirm_clear and cancel_clear must match before clear.
	patterns := []pattern{
		{"confirm_clear_", CallbackConfirmClear, 0},
		{"cancel_clear_", CallbackCancelClear, 0},
		{"check_item_", CallbackCheckItem, 0},
		{"delete_item_", CallbackDeleteItem, 1},
		{"prev_page_", CallbackPrevPage, 1},
		{"next_page_", CallbackNextPage, 1},
		{"go_back_", CallbackGoBack, 0},
		{"ok_", CallbackOK, 0},
		{"clear_", CallbackClear, 0},
	}

	for _, p := range patterns {
		rest, ok := strings.CutPrefix(data, p.prefix)
		if !ok {
			continue
		}
		cb := Callback{Kind: p.kind}
		if p.args == 1 {
			arg, tail, found := strings.Cut(rest, "_")
			if !found {
				return Callback{}, false
			}
			n, err := strconv.ParseInt(arg, 10, 64)
			if err != nil || n < 0 {
				return Callback{}, false
			}
			switch p.kind {
			case CallbackDeleteItem:
				cb.ItemID = n
			default:
				cb.Page = int(n)
			}
			rest = tail
		}
		chatID, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return Callback{}, false
		}
		cb.ChatID = chatID
		return cb, true
	}
	return Callback{}, false
}

// ResolveAction maps a raw payload to its registry action key.
func ResolveAction(data string) (string, bool) {
	cb, ok := ParseCallback(data)
	if !ok {
		return "", false
	}
	return cb.Kind.Key(), true
}
