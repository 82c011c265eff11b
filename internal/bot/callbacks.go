package bot

import (
	"context"

	"github.com/eggcart/eggcart/core/logger"
	tghelpers "github.com/eggcart/eggcart/core/telegram/helpers"
	"github.com/eggcart/eggcart/internal/domain"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// parsedCallback re-parses the payload and validates that the chat id it
// carries matches the chat the button was pressed in. A mismatch means a
// replayed or forwarded button; the press is answered with a toast and
// dropped.
func (a *App) parsedCallback(c tele.Context) (Callback, context.Context, bool) {
	ctx := tghelpers.BuildContext(c)
	raw := c.Callback()
	if raw == nil {
		return Callback{}, ctx, false
	}
	cb, ok := ParseCallback(raw.Data)
	if !ok {
		logger.Warn(ctx, "bot", "callback.malformed",
			slog.String("payload", logger.SanitizeLimit(raw.Data, 64)),
		)
		_ = c.Respond(&tele.CallbackResponse{Text: msgBadCallback})
		return Callback{}, ctx, false
	}
	if chat := c.Chat(); chat == nil || chat.ID != cb.ChatID {
		logger.Warn(ctx, "bot", "callback.chat_mismatch",
			slog.Int64("chat_id", cb.ChatID),
			slog.String("payload", logger.SanitizeLimit(raw.Data, 64)),
		)
		_ = c.Respond(&tele.CallbackResponse{Text: msgBadCallback})
		return Callback{}, ctx, false
	}
	return cb, ctx, true
}

// chatItems loads the items of the current chat; a chat without a list yet
// reads as empty.
func (a *App) chatItems(c tele.Context) ([]domain.ListItem, error) {
	ctx := tghelpers.BuildContext(c)
	cl, ok, err := a.lists.ChatList(ctx, c.Chat().ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return a.lists.Items(ctx, cl.ID)
}

// cbCheckItem: list view -> delete picker, page 0.
func (a *App) cbCheckItem(c tele.Context) error {
	cb, ctx, ok := a.parsedCallback(c)
	if !ok {
		return nil
	}
	items, err := a.chatItems(c)
	if err != nil {
		logger.Error(ctx, "bot", "picker.load.failed", slog.String("err", err.Error()))
		return c.Respond(&tele.CallbackResponse{Text: msgGenericError})
	}
	if err := tghelpers.EditMDV2(c, renderPicker(items, 0), BuildListKeyboard(items, cb.ChatID, 0)); err != nil {
		return err
	}
	return c.Respond()
}

// cbDeleteItem: delete picker -> list view, removing the chosen item. The
// item's ownership is re-checked against the pressing chat before deletion.
func (a *App) cbDeleteItem(c tele.Context) error {
	cb, ctx, ok := a.parsedCallback(c)
	if !ok {
		return nil
	}

	cl, hasList, err := a.lists.ChatList(ctx, cb.ChatID)
	if err != nil {
		logger.Error(ctx, "bot", "delete.list_resolve.failed", slog.String("err", err.Error()))
		return c.Respond(&tele.CallbackResponse{Text: msgGenericError})
	}
	item, found, err := a.lists.FindItemByID(ctx, cb.ItemID)
	if err != nil {
		logger.Error(ctx, "bot", "delete.item.failed",
			slog.Int64("item_id", cb.ItemID),
			slog.String("err", err.Error()),
		)
		return c.Respond(&tele.CallbackResponse{Text: msgGenericError})
	}
	if !found {
		// Stale button: the item is already gone, e.g. a double-tap.
		return c.Respond(&tele.CallbackResponse{Text: msgStaleButton})
	}
	if !hasList || item.ChatListID != cl.ID {
		logger.Warn(ctx, "bot", "delete.ownership_mismatch",
			slog.Int64("item_id", cb.ItemID),
			slog.Int64("chat_id", cb.ChatID),
		)
		return c.Respond(&tele.CallbackResponse{Text: msgBadCallback})
	}

	if err := a.lists.RemoveItem(ctx, item.ID); err != nil {
		logger.Error(ctx, "bot", "delete.item.failed",
			slog.Int64("item_id", item.ID),
			slog.String("err", err.Error()),
		)
		return c.Respond(&tele.CallbackResponse{Text: msgGenericError})
	}

	if err := a.editListView(c, cb.ChatID); err != nil {
		return err
	}
	if err := tghelpers.SendMDV2(c, renderRemoved(item.Item)); err != nil {
		return err
	}
	return c.Respond()
}

// editListView rewrites the current dialog message into the list view.
func (a *App) editListView(c tele.Context, chatID int64) error {
	ctx := tghelpers.BuildContext(c)
	items, err := a.chatItems(c)
	if err != nil {
		logger.Error(ctx, "bot", "list.failed", slog.String("err", err.Error()))
		return tghelpers.EditMDV2(c, msgListError)
	}
	if len(items) == 0 {
		return tghelpers.EditMDV2(c, msgEmptyList)
	}
	return tghelpers.EditMDV2(c, renderList(items), listViewKeyboard(chatID))
}

// cbPrevPage and cbNextPage re-render the picker one page over; presses past
// either edge are answered but change nothing.
func (a *App) cbPrevPage(c tele.Context) error {
	return a.cbTurnPage(c, -1)
}

func (a *App) cbNextPage(c tele.Context) error {
	return a.cbTurnPage(c, +1)
}

func (a *App) cbTurnPage(c tele.Context, delta int) error {
	cb, ctx, ok := a.parsedCallback(c)
	if !ok {
		return nil
	}
	items, err := a.chatItems(c)
	if err != nil {
		logger.Error(ctx, "bot", "picker.load.failed", slog.String("err", err.Error()))
		return c.Respond(&tele.CallbackResponse{Text: msgGenericError})
	}

	page := cb.Page + delta
	if page < 0 || page*PageSize >= len(items) {
		return c.Respond()
	}
	if err := tghelpers.EditMDV2(c, renderPicker(items, page), BuildListKeyboard(items, cb.ChatID, page)); err != nil {
		return err
	}
	return c.Respond()
}

// cbGoBack: any dialog -> list view. The dialog message is deleted and the
// list is re-sent fresh.
func (a *App) cbGoBack(c tele.Context) error {
	cb, ctx, ok := a.parsedCallback(c)
	if !ok {
		return nil
	}
	if err := c.Delete(); err != nil {
		logger.Debug(ctx, "bot", "go_back.delete.failed", slog.String("err", err.Error()))
	}
	if err := a.refreshListView(c, cb.ChatID); err != nil {
		return err
	}
	return c.Respond()
}

// cbOK strips the buttons off the list view in place.
func (a *App) cbOK(c tele.Context) error {
	_, ctx, ok := a.parsedCallback(c)
	if !ok {
		return nil
	}
	if err := c.Edit(&tele.ReplyMarkup{}); err != nil {
		logger.Debug(ctx, "bot", "ok.strip_buttons.failed", slog.String("err", err.Error()))
	}
	return c.Respond()
}

// cbClear: list view -> clear confirmation.
func (a *App) cbClear(c tele.Context) error {
	cb, ctx, ok := a.parsedCallback(c)
	if !ok {
		return nil
	}
	if err := c.Delete(); err != nil {
		logger.Debug(ctx, "bot", "clear.delete.failed", slog.String("err", err.Error()))
	}
	if err := tghelpers.SendText(c, msgClearConfirm, &tele.SendOptions{
		ReplyMarkup: clearConfirmKeyboard(cb.ChatID),
	}); err != nil {
		return err
	}
	return c.Respond()
}

// cbConfirmClear wipes the list. A double-tap races two delete-alls, which
// is harmless.
func (a *App) cbConfirmClear(c tele.Context) error {
	cb, ctx, ok := a.parsedCallback(c)
	if !ok {
		return nil
	}
	cl, hasList, err := a.lists.ChatList(ctx, cb.ChatID)
	if err != nil {
		logger.Error(ctx, "bot", "clear.list_resolve.failed", slog.String("err", err.Error()))
		return c.Respond(&tele.CallbackResponse{Text: msgGenericError})
	}
	if hasList {
		if _, err := a.lists.Clear(ctx, cl.ID); err != nil {
			logger.Error(ctx, "bot", "clear.failed", slog.String("err", err.Error()))
			_ = c.Respond(&tele.CallbackResponse{Text: msgGenericError})
			return tghelpers.SendText(c, msgClearError)
		}
	}
	if err := c.Edit(msgCleared); err != nil {
		logger.Debug(ctx, "bot", "clear.edit.failed", slog.String("err", err.Error()))
		if err := tghelpers.SendText(c, msgCleared); err != nil {
			return err
		}
	}
	return c.Respond()
}

// cbCancelClear dismisses the confirmation and restores the list view.
func (a *App) cbCancelClear(c tele.Context) error {
	cb, ctx, ok := a.parsedCallback(c)
	if !ok {
		return nil
	}
	if err := c.Delete(); err != nil {
		logger.Debug(ctx, "bot", "cancel_clear.delete.failed", slog.String("err", err.Error()))
	}
	if err := a.refreshListView(c, cb.ChatID); err != nil {
		return err
	}
	return c.Respond()
}

// refreshListView sends a fresh list view message for the chat.
func (a *App) refreshListView(c tele.Context, chatID int64) error {
	ctx := tghelpers.BuildContext(c)
	items, err := a.chatItems(c)
	if err != nil {
		logger.Error(ctx, "bot", "list.failed", slog.String("err", err.Error()))
		return tghelpers.SendMDV2(c, msgListError)
	}
	if len(items) == 0 {
		return tghelpers.SendMDV2(c, msgEmptyList)
	}
	return tghelpers.SendMDV2(c, renderList(items), listViewKeyboard(chatID))
}
