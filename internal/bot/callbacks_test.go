package bot

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/eggcart/eggcart/internal/domain"
	"github.com/eggcart/eggcart/internal/service"
	"github.com/eggcart/eggcart/internal/storage"

	tele "gopkg.in/telebot.v4"
)

// memRepo is an in-memory Repository mirroring the Postgres uniqueness rules.
type memRepo struct {
	nextList int64
	nextItem int64
	lists    map[int64]domain.ChatList
	items    []domain.ListItem
}

func newMemRepo() *memRepo {
	return &memRepo{nextList: 1, nextItem: 1, lists: make(map[int64]domain.ChatList)}
}

func (m *memRepo) CreateChatList(_ context.Context, chatID int64) (domain.ChatList, error) {
	if _, ok := m.lists[chatID]; ok {
		return domain.ChatList{}, storage.ErrDuplicate
	}
	cl := domain.ChatList{ID: m.nextList, ChatID: chatID}
	m.nextList++
	m.lists[chatID] = cl
	return cl, nil
}

func (m *memRepo) GetChatList(_ context.Context, chatID int64) (domain.ChatList, error) {
	cl, ok := m.lists[chatID]
	if !ok {
		return domain.ChatList{}, storage.ErrNotFound
	}
	return cl, nil
}

func (m *memRepo) CreateItem(_ context.Context, listID int64, text string) (domain.ListItem, error) {
	for _, it := range m.items {
		if it.ChatListID == listID && it.Item == text {
			return domain.ListItem{}, storage.ErrDuplicate
		}
	}
	it := domain.ListItem{ID: m.nextItem, ChatListID: listID, Item: text}
	m.nextItem++
	m.items = append(m.items, it)
	return it, nil
}

func (m *memRepo) GetItem(_ context.Context, itemID int64) (domain.ListItem, error) {
	for _, it := range m.items {
		if it.ID == itemID {
			return it, nil
		}
	}
	return domain.ListItem{}, storage.ErrNotFound
}

func (m *memRepo) FindItem(_ context.Context, listID int64, text string) (domain.ListItem, error) {
	for _, it := range m.items {
		if it.ChatListID == listID && it.Item == text {
			return it, nil
		}
	}
	return domain.ListItem{}, storage.ErrNotFound
}

func (m *memRepo) ListItems(_ context.Context, listID int64) ([]domain.ListItem, error) {
	var out []domain.ListItem
	for _, it := range m.items {
		if it.ChatListID == listID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *memRepo) DeleteItem(_ context.Context, itemID int64) (int64, error) {
	for i, it := range m.items {
		if it.ID == itemID {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (m *memRepo) DeleteAllItems(_ context.Context, listID int64) (int64, error) {
	var kept []domain.ListItem
	var n int64
	for _, it := range m.items {
		if it.ChatListID == listID {
			n++
			continue
		}
		kept = append(kept, it)
	}
	m.items = kept
	return n, nil
}

func (m *memRepo) seed(chatID int64, names ...string) []domain.ListItem {
	cl, err := m.CreateChatList(context.Background(), chatID)
	if err != nil {
		cl = m.lists[chatID]
	}
	var out []domain.ListItem
	for _, name := range names {
		it, _ := m.CreateItem(context.Background(), cl.ID, name)
		out = append(out, it)
	}
	return out
}

type sentMessage struct {
	what interface{}
	opts []interface{}
}

// dialogContext is a recording tele.Context for driving callback handlers.
// Unimplemented methods of the embedded interface panic when reached, which
// flags any handler touching transport surface the tests do not model.
type dialogContext struct {
	tele.Context

	chat     *tele.Chat
	user     *tele.User
	callback *tele.Callback
	update   tele.Update

	store    map[string]interface{}
	responds []*tele.CallbackResponse
	sent     []sentMessage
	edits    []sentMessage
	deleted  bool
}

func pressButton(chatID int64, data string) *dialogContext {
	chat := &tele.Chat{ID: chatID, Type: tele.ChatGroup}
	user := &tele.User{ID: 5}
	cb := &tele.Callback{
		Data:    data,
		Sender:  user,
		Message: &tele.Message{ID: 10, Chat: chat},
	}
	return &dialogContext{
		chat:     chat,
		user:     user,
		callback: cb,
		update:   tele.Update{ID: 1, Callback: cb},
		store:    make(map[string]interface{}),
	}
}

func (d *dialogContext) Update() tele.Update             { return d.update }
func (d *dialogContext) Chat() *tele.Chat                { return d.chat }
func (d *dialogContext) Sender() *tele.User              { return d.user }
func (d *dialogContext) Callback() *tele.Callback        { return d.callback }
func (d *dialogContext) Get(key string) interface{}      { return d.store[key] }
func (d *dialogContext) Set(key string, val interface{}) { d.store[key] = val }

func (d *dialogContext) Respond(resp ...*tele.CallbackResponse) error {
	if len(resp) == 0 {
		resp = []*tele.CallbackResponse{{}}
	}
	d.responds = append(d.responds, resp...)
	return nil
}

func (d *dialogContext) Send(what interface{}, opts ...interface{}) error {
	d.sent = append(d.sent, sentMessage{what: what, opts: opts})
	return nil
}

func (d *dialogContext) Edit(what interface{}, opts ...interface{}) error {
	d.edits = append(d.edits, sentMessage{what: what, opts: opts})
	return nil
}

func (d *dialogContext) Delete() error {
	d.deleted = true
	return nil
}

func (d *dialogContext) lastToast() string {
	if len(d.responds) == 0 {
		return "(no response)"
	}
	return d.responds[len(d.responds)-1].Text
}

func markupOf(t *testing.T, msg sentMessage) *tele.ReplyMarkup {
	t.Helper()
	for _, o := range msg.opts {
		if so, ok := o.(*tele.SendOptions); ok {
			return so.ReplyMarkup
		}
	}
	t.Fatal("message carried no send options")
	return nil
}

func newDialogApp(repo *memRepo) *App {
	return NewApp(nil, service.NewLists(repo))
}

func TestCallbackChatMismatchRefused(t *testing.T) {
	repo := newMemRepo()
	repo.seed(99, "Eggs", "Milk")
	app := newDialogApp(repo)

	// Button payload for chat 99 pressed from chat 42: replayed button.
	c := pressButton(42, Callback{Kind: CallbackConfirmClear, ChatID: 99}.Encode())
	if err := app.cbConfirmClear(c); err != nil {
		t.Fatalf("cbConfirmClear: %v", err)
	}

	if got := c.lastToast(); got != msgBadCallback {
		t.Errorf("toast = %q, want %q", got, msgBadCallback)
	}
	if len(repo.items) != 2 {
		t.Errorf("replayed confirm mutated the list: %d items left", len(repo.items))
	}
	if len(c.edits) != 0 || len(c.sent) != 0 || c.deleted {
		t.Error("refused press still touched messages")
	}
}

func TestCallbackMalformedPayloadRefused(t *testing.T) {
	repo := newMemRepo()
	app := newDialogApp(repo)

	c := pressButton(42, "gibberish_42x")
	if err := app.cbGoBack(c); err != nil {
		t.Fatalf("cbGoBack: %v", err)
	}

	if got := c.lastToast(); got != msgBadCallback {
		t.Errorf("toast = %q, want %q", got, msgBadCallback)
	}
	if c.deleted {
		t.Error("malformed payload deleted the message")
	}
}

func TestDeleteItemOwnershipRefused(t *testing.T) {
	repo := newMemRepo()
	foreign := repo.seed(1, "Eggs")
	repo.seed(2, "Milk")
	app := newDialogApp(repo)

	// Payload chat id matches the pressing chat, but the item id belongs to
	// another chat's list.
	c := pressButton(2, Callback{Kind: CallbackDeleteItem, ItemID: foreign[0].ID, ChatID: 2}.Encode())
	if err := app.cbDeleteItem(c); err != nil {
		t.Fatalf("cbDeleteItem: %v", err)
	}

	if got := c.lastToast(); got != msgBadCallback {
		t.Errorf("toast = %q, want %q", got, msgBadCallback)
	}
	if _, err := repo.GetItem(context.Background(), foreign[0].ID); err != nil {
		t.Error("foreign item was deleted")
	}
}

func TestDeleteItemRemovesAndRestoresListView(t *testing.T) {
	repo := newMemRepo()
	items := repo.seed(42, "Eggs", "Milk")
	app := newDialogApp(repo)

	c := pressButton(42, Callback{Kind: CallbackDeleteItem, ItemID: items[0].ID, ChatID: 42}.Encode())
	if err := app.cbDeleteItem(c); err != nil {
		t.Fatalf("cbDeleteItem: %v", err)
	}

	if len(repo.items) != 1 || repo.items[0].Item != "Milk" {
		t.Fatalf("repo after delete = %+v, want only Milk", repo.items)
	}
	if len(c.edits) != 1 {
		t.Fatalf("expected 1 edit, got %d", len(c.edits))
	}
	body, _ := c.edits[0].what.(string)
	if !strings.Contains(body, "Milk") || strings.Contains(body, "Eggs") {
		t.Errorf("edited list view = %q, want Milk without Eggs", body)
	}
	if len(c.sent) != 1 {
		t.Fatalf("expected 1 confirmation message, got %d", len(c.sent))
	}
	conf, _ := c.sent[0].what.(string)
	if !strings.Contains(conf, "removed from the shopping list") {
		t.Errorf("confirmation = %q", conf)
	}
}

func TestDeleteItemStaleButtonToast(t *testing.T) {
	repo := newMemRepo()
	repo.seed(42, "Eggs")
	app := newDialogApp(repo)

	c := pressButton(42, Callback{Kind: CallbackDeleteItem, ItemID: 999, ChatID: 42}.Encode())
	if err := app.cbDeleteItem(c); err != nil {
		t.Fatalf("cbDeleteItem: %v", err)
	}

	if got := c.lastToast(); got != msgStaleButton {
		t.Errorf("toast = %q, want %q", got, msgStaleButton)
	}
	if len(repo.items) != 1 {
		t.Errorf("stale press mutated the list: %d items", len(repo.items))
	}
}

func TestCheckItemOpensPicker(t *testing.T) {
	repo := newMemRepo()
	repo.seed(42, "A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L")
	app := newDialogApp(repo)

	c := pressButton(42, Callback{Kind: CallbackCheckItem, ChatID: 42}.Encode())
	if err := app.cbCheckItem(c); err != nil {
		t.Fatalf("cbCheckItem: %v", err)
	}

	if len(c.edits) != 1 {
		t.Fatalf("expected 1 edit, got %d", len(c.edits))
	}
	markup := markupOf(t, c.edits[0])
	if got := countByPrefix(markup, "delete_item_"); got != PageSize {
		t.Errorf("picker page 0 has %d delete buttons, want %d", got, PageSize)
	}
	if countByPrefix(markup, "next_page_") != 1 {
		t.Error("picker page 0 missing next button")
	}
	if countByPrefix(markup, "go_back_") != 1 {
		t.Error("picker missing back button")
	}
}

func TestTurnPageOutOfBoundsIsNoop(t *testing.T) {
	repo := newMemRepo()
	repo.seed(42, "A", "B", "C", "D", "E")
	app := newDialogApp(repo)

	next := pressButton(42, Callback{Kind: CallbackNextPage, Page: 0, ChatID: 42}.Encode())
	if err := app.cbNextPage(next); err != nil {
		t.Fatalf("cbNextPage: %v", err)
	}
	if len(next.edits) != 0 {
		t.Error("next past the last page re-rendered the picker")
	}
	if len(next.responds) != 1 {
		t.Error("out-of-bounds next left the press unanswered")
	}

	prev := pressButton(42, Callback{Kind: CallbackPrevPage, Page: 0, ChatID: 42}.Encode())
	if err := app.cbPrevPage(prev); err != nil {
		t.Fatalf("cbPrevPage: %v", err)
	}
	if len(prev.edits) != 0 {
		t.Error("prev before the first page re-rendered the picker")
	}
}

func TestTurnPageAdvances(t *testing.T) {
	repo := newMemRepo()
	names := make([]string, 20)
	for i := range names {
		names[i] = fmt.Sprintf("Item %d", i+1)
	}
	repo.seed(42, names...)
	app := newDialogApp(repo)

	c := pressButton(42, Callback{Kind: CallbackNextPage, Page: 0, ChatID: 42}.Encode())
	if err := app.cbNextPage(c); err != nil {
		t.Fatalf("cbNextPage: %v", err)
	}

	if len(c.edits) != 1 {
		t.Fatalf("expected 1 edit, got %d", len(c.edits))
	}
	markup := markupOf(t, c.edits[0])
	if got := countByPrefix(markup, "delete_item_"); got != PageSize {
		t.Errorf("page 1 has %d delete buttons, want %d", got, PageSize)
	}
	if countByPrefix(markup, "prev_page_") != 1 || countByPrefix(markup, "next_page_") != 1 {
		t.Error("middle page should offer both prev and next")
	}
}

func TestConfirmClearEmptiesOnlyOwnList(t *testing.T) {
	repo := newMemRepo()
	repo.seed(42, "Eggs", "Milk")
	repo.seed(7, "Bread")
	app := newDialogApp(repo)

	c := pressButton(42, Callback{Kind: CallbackConfirmClear, ChatID: 42}.Encode())
	if err := app.cbConfirmClear(c); err != nil {
		t.Fatalf("cbConfirmClear: %v", err)
	}

	own, _ := repo.ListItems(context.Background(), repo.lists[42].ID)
	if len(own) != 0 {
		t.Errorf("cleared list still has %d items", len(own))
	}
	other, _ := repo.ListItems(context.Background(), repo.lists[7].ID)
	if len(other) != 1 {
		t.Errorf("other chat's list affected: %d items", len(other))
	}
	if len(c.edits) != 1 {
		t.Fatalf("expected 1 edit, got %d", len(c.edits))
	}
	if body, _ := c.edits[0].what.(string); body != msgCleared {
		t.Errorf("edited body = %q, want %q", body, msgCleared)
	}
}

func TestCancelClearRestoresListView(t *testing.T) {
	repo := newMemRepo()
	repo.seed(42, "Eggs")
	app := newDialogApp(repo)

	c := pressButton(42, Callback{Kind: CallbackCancelClear, ChatID: 42}.Encode())
	if err := app.cbCancelClear(c); err != nil {
		t.Fatalf("cbCancelClear: %v", err)
	}

	if !c.deleted {
		t.Error("confirmation message was not deleted")
	}
	if len(c.sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(c.sent))
	}
	body, _ := c.sent[0].what.(string)
	if !strings.Contains(body, "Grocery List") {
		t.Errorf("restored view = %q, want the list", body)
	}
	if countByPrefix(markupOf(t, c.sent[0]), "check_item_") != 1 {
		t.Error("restored list view missing its buttons")
	}
}

func TestOKStripsButtons(t *testing.T) {
	repo := newMemRepo()
	app := newDialogApp(repo)

	c := pressButton(42, Callback{Kind: CallbackOK, ChatID: 42}.Encode())
	if err := app.cbOK(c); err != nil {
		t.Fatalf("cbOK: %v", err)
	}

	if len(c.edits) != 1 {
		t.Fatalf("expected 1 edit, got %d", len(c.edits))
	}
	markup, ok := c.edits[0].what.(*tele.ReplyMarkup)
	if !ok {
		t.Fatalf("ok edit payload = %T, want *tele.ReplyMarkup", c.edits[0].what)
	}
	if len(markup.InlineKeyboard) != 0 {
		t.Error("ok press left buttons behind")
	}
}
