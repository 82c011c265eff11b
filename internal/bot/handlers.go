package bot

import (
	"strings"

	"github.com/eggcart/eggcart/core/logger"
	tghelpers "github.com/eggcart/eggcart/core/telegram/helpers"
	"github.com/eggcart/eggcart/internal/service"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// authorized reports whether a command should be handled: the message either
// mentions the bot explicitly or arrives from a private or group chat.
// Channels and other chat types are ignored.
func (a *App) authorized(c tele.Context) bool {
	msg := c.Message()
	if msg == nil {
		return false
	}
	if name := a.BotName(); name != "" && strings.Contains(msg.Text, "@"+name) {
		return true
	}
	chat := c.Chat()
	return chat != nil && (chat.Type == tele.ChatPrivate || chat.Type == tele.ChatGroup)
}

func (a *App) handleStart(c tele.Context) error {
	if !a.authorized(c) {
		return nil
	}
	return tghelpers.SendText(c, msgStart)
}

func (a *App) handleHelp(c tele.Context) error {
	if !a.authorized(c) {
		return nil
	}
	return tghelpers.SendText(c, msgHelp)
}

// handleAdd processes "/add a, b, c": the chat list is created on first use
// and each comma-separated item is added best-effort. Per-item failures are
// logged and skipped so one bad item does not block the rest.
func (a *App) handleAdd(c tele.Context) error {
	if !a.authorized(c) {
		return nil
	}
	ctx := tghelpers.BuildContext(c)

	names := service.SplitItems(commandPayload(c))
	if len(names) == 0 {
		return tghelpers.SendMDV2(c, msgNoAddArgs)
	}

	cl, err := a.lists.FindOrCreateChatList(ctx, c.Chat().ID)
	if err != nil {
		logger.Error(ctx, "bot", "add.list_resolve.failed", slog.String("err", err.Error()))
		return tghelpers.SendMDV2(c, msgGenericError)
	}

	accepted := make([]string, 0, len(names))
	for _, raw := range names {
		it, _, err := a.lists.AddItem(ctx, cl.ID, raw)
		if err != nil {
			logger.Error(ctx, "bot", "add.item.failed",
				slog.String("item", logger.Sanitize(raw)),
				slog.String("err", err.Error()),
			)
			continue
		}
		if it.Item != "" {
			accepted = append(accepted, it.Item)
		}
	}
	if len(accepted) == 0 {
		return tghelpers.SendMDV2(c, msgNoAddArgs)
	}
	return tghelpers.SendMDV2(c, renderAdded(accepted))
}

// handleRemove processes "/remove a, b, c" with one reply line per item.
func (a *App) handleRemove(c tele.Context) error {
	if !a.authorized(c) {
		return nil
	}
	ctx := tghelpers.BuildContext(c)

	names := service.SplitItems(commandPayload(c))
	var b strings.Builder
	if len(names) > 0 {
		cl, ok, err := a.lists.ChatList(ctx, c.Chat().ID)
		if err != nil {
			logger.Error(ctx, "bot", "remove.list_resolve.failed", slog.String("err", err.Error()))
			return tghelpers.SendMDV2(c, msgGenericError)
		}
		for _, raw := range names {
			name := service.Canonicalize(raw)
			if name == "" {
				continue
			}
			if !ok {
				b.WriteString(renderNotFound(name))
				continue
			}
			item, found, err := a.lists.FindItemByName(ctx, cl.ID, name)
			if err != nil {
				logger.Error(ctx, "bot", "remove.item.failed",
					slog.String("item", logger.Sanitize(name)),
					slog.String("err", err.Error()),
				)
				b.WriteString(renderRemoveError(name))
				continue
			}
			if !found {
				b.WriteString(renderNotFound(name))
				continue
			}
			if err := a.lists.RemoveItem(ctx, item.ID); err != nil {
				logger.Error(ctx, "bot", "remove.item.failed",
					slog.Int64("item_id", item.ID),
					slog.String("err", err.Error()),
				)
				b.WriteString(renderRemoveError(name))
				continue
			}
			b.WriteString(renderRemoved(name))
		}
	}

	response := b.String()
	if response == "" {
		response = msgNoRemoveArgs
	}
	return tghelpers.SendMDV2(c, response)
}

// handleList renders the list view with its [edit][ok][clear] buttons, or the
// empty-list nudge without buttons.
func (a *App) handleList(c tele.Context) error {
	if !a.authorized(c) {
		return nil
	}
	ctx := tghelpers.BuildContext(c)

	items, err := a.chatItems(c)
	if err != nil {
		logger.Error(ctx, "bot", "list.failed", slog.String("err", err.Error()))
		return tghelpers.SendMDV2(c, msgListError)
	}
	if len(items) == 0 {
		return tghelpers.SendMDV2(c, msgEmptyList)
	}
	return tghelpers.SendMDV2(c, renderList(items), listViewKeyboard(c.Chat().ID))
}

// handleClear deletes the triggering message best-effort and asks for
// confirmation before wiping anything.
func (a *App) handleClear(c tele.Context) error {
	if !a.authorized(c) {
		return nil
	}
	ctx := tghelpers.BuildContext(c)

	if err := c.Delete(); err != nil {
		logger.Debug(ctx, "bot", "clear.delete_trigger.failed", slog.String("err", err.Error()))
	}
	return tghelpers.SendText(c, msgClearConfirm, &tele.SendOptions{
		ReplyMarkup: clearConfirmKeyboard(c.Chat().ID),
	})
}

// commandPayload returns the text after the command, with any @mention of
// the bot already stripped by telebot's payload parsing.
func commandPayload(c tele.Context) string {
	msg := c.Message()
	if msg == nil {
		return ""
	}
	return msg.Payload
}
