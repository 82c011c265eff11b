package bot

import (
	"github.com/eggcart/eggcart/core/telegram/keyboard"
	"github.com/eggcart/eggcart/internal/domain"

	tele "gopkg.in/telebot.v4"
)

// PageSize is the number of delete buttons rendered per picker page.
const PageSize = 9

// listViewKeyboard renders the [pick][ok][clear] row under the list view.
func listViewKeyboard(chatID int64) *tele.ReplyMarkup {
	return keyboard.Rows([]keyboard.InlineBtn{
		{Text: "✏️ Edit", Data: Callback{Kind: CallbackCheckItem, ChatID: chatID}.Encode()},
		{Text: "👍 OK", Data: Callback{Kind: CallbackOK, ChatID: chatID}.Encode()},
		{Text: "🗑 Clear", Data: Callback{Kind: CallbackClear, ChatID: chatID}.Encode()},
	})
}

// clearConfirmKeyboard renders the clear-confirmation dialog buttons.
func clearConfirmKeyboard(chatID int64) *tele.ReplyMarkup {
	return keyboard.Rows([]keyboard.InlineBtn{
		{Text: "✅ Yes, clear it", Data: Callback{Kind: CallbackConfirmClear, ChatID: chatID}.Encode()},
		{Text: "↩️ Cancel", Data: Callback{Kind: CallbackCancelClear, ChatID: chatID}.Encode()},
	})
}

// pickerColumns decides the button grid width for n items. Small counts use
// two columns where it divides evenly; nine or more always use three because
// pagination kicks in.
func pickerColumns(n int) int {
	if n >= PageSize {
		return 3
	}
	switch n {
	case 0, 1, 2, 4, 5:
		return 2
	default:
		return 3
	}
}

// BuildListKeyboard renders one page of the delete picker: a grid of
// per-item delete buttons for the slice [page*9, page*9+9), optional
// prev/next pagination, and an unconditional back button. Every payload
// embeds the chat id so ownership is re-checked on press. Deterministic for
// identical inputs.
func BuildListKeyboard(items []domain.ListItem, chatID int64, page int) *tele.ReplyMarkup {
	n := len(items)

	lo := page * PageSize
	if lo < 0 || lo > n {
		lo = 0
		page = 0
	}
	hi := lo + PageSize
	if hi > n {
		hi = n
	}

	btns := make([]keyboard.InlineBtn, 0, hi-lo)
	for _, it := range items[lo:hi] {
		btns = append(btns, keyboard.InlineBtn{
			Text: it.Item,
			Data: Callback{Kind: CallbackDeleteItem, ItemID: it.ID, ChatID: chatID}.Encode(),
		})
	}

	rows := keyboard.Chunk(btns, pickerColumns(n))

	var nav []keyboard.InlineBtn
	if page > 0 {
		nav = append(nav, keyboard.InlineBtn{
			Text: "⬅️ Prev",
			Data: Callback{Kind: CallbackPrevPage, Page: page, ChatID: chatID}.Encode(),
		})
	}
	if hi < n {
		nav = append(nav, keyboard.InlineBtn{
			Text: "Next ➡️",
			Data: Callback{Kind: CallbackNextPage, Page: page, ChatID: chatID}.Encode(),
		})
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}

	rows = append(rows, []keyboard.InlineBtn{{
		Text: "↩️ Back",
		Data: Callback{Kind: CallbackGoBack, ChatID: chatID}.Encode(),
	}})

	return keyboard.Rows(rows...)
}
