package service

import (
	"context"
	"errors"
	"testing"

	"github.com/eggcart/eggcart/internal/domain"
	"github.com/eggcart/eggcart/internal/storage"
)

// fakeRepo is an in-memory Repository with the same uniqueness rules as the
// Postgres schema: chat_id unique, (chat_list_id, item) unique.
type fakeRepo struct {
	nextListID int64
	nextItemID int64
	lists      map[int64]domain.ChatList
	items      []domain.ListItem

	failCreateList bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		nextListID: 1,
		nextItemID: 1,
		lists:      make(map[int64]domain.ChatList),
	}
}

func (f *fakeRepo) CreateChatList(_ context.Context, chatID int64) (domain.ChatList, error) {
	if f.failCreateList {
		return domain.ChatList{}, errors.New("connection reset")
	}
	if _, ok := f.lists[chatID]; ok {
		return domain.ChatList{}, storage.ErrDuplicate
	}
	cl := domain.ChatList{ID: f.nextListID, ChatID: chatID}
	f.nextListID++
	f.lists[chatID] = cl
	return cl, nil
}

func (f *fakeRepo) GetChatList(_ context.Context, chatID int64) (domain.ChatList, error) {
	cl, ok := f.lists[chatID]
	if !ok {
		return domain.ChatList{}, storage.ErrNotFound
	}
	return cl, nil
}

func (f *fakeRepo) CreateItem(_ context.Context, chatListID int64, text string) (domain.ListItem, error) {
	for _, it := range f.items {
		if it.ChatListID == chatListID && it.Item == text {
			return domain.ListItem{}, storage.ErrDuplicate
		}
	}
	it := domain.ListItem{ID: f.nextItemID, ChatListID: chatListID, Item: text}
	f.nextItemID++
	f.items = append(f.items, it)
	return it, nil
}

func (f *fakeRepo) GetItem(_ context.Context, itemID int64) (domain.ListItem, error) {
	for _, it := range f.items {
		if it.ID == itemID {
			return it, nil
		}
	}
	return domain.ListItem{}, storage.ErrNotFound
}

func (f *fakeRepo) FindItem(_ context.Context, chatListID int64, text string) (domain.ListItem, error) {
	for _, it := range f.items {
		if it.ChatListID == chatListID && it.Item == text {
			return it, nil
		}
	}
	return domain.ListItem{}, storage.ErrNotFound
}

func (f *fakeRepo) ListItems(_ context.Context, chatListID int64) ([]domain.ListItem, error) {
	var out []domain.ListItem
	for _, it := range f.items {
		if it.ChatListID == chatListID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeRepo) DeleteItem(_ context.Context, itemID int64) (int64, error) {
	for i, it := range f.items {
		if it.ID == itemID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeRepo) DeleteAllItems(_ context.Context, chatListID int64) (int64, error) {
	var kept []domain.ListItem
	var n int64
	for _, it := range f.items {
		if it.ChatListID == chatListID {
			n++
			continue
		}
		kept = append(kept, it)
	}
	f.items = kept
	return n, nil
}

func TestCanonicalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"eggs", "Eggs"},
		{"  milk  ", "Milk"},
		{"bread.", "Bread"},
		{"bread..", "Bread"},
		{"bread. ", "Bread"},
		{"olive oil", "Olive oil"},
		{"ñoquis", "Ñoquis"},
		{"", ""},
		{"   ", ""},
		{".", ""},
		{"..", ""},
	}
	for _, tc := range cases {
		if got := Canonicalize(tc.in); got != tc.want {
			t.Errorf("Canonicalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCanonicalizeIdempotent(t *testing.T) {
	inputs := []string{"eggs", "  milk ", "Olive oil", "a b c", "Ñoquis"}
	for _, s := range inputs {
		once := Canonicalize(s)
		if twice := Canonicalize(once); twice != once {
			t.Errorf("Canonicalize not idempotent for %q: %q then %q", s, once, twice)
		}
	}
}

func TestSplitItems(t *testing.T) {
	got := SplitItems("eggs, milk ,bread")
	want := []string{"eggs", "milk", "bread"}
	if len(got) != len(want) {
		t.Fatalf("SplitItems returned %d parts, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("part %d = %q, want %q", i, got[i], want[i])
		}
	}
	if parts := SplitItems("   "); parts != nil {
		t.Errorf("SplitItems on blank input = %v, want nil", parts)
	}
}

func TestFindOrCreateChatList(t *testing.T) {
	repo := newFakeRepo()
	svc := NewLists(repo)
	ctx := context.Background()

	first, err := svc.FindOrCreateChatList(ctx, 42)
	if err != nil {
		t.Fatalf("first FindOrCreateChatList: %v", err)
	}
	second, err := svc.FindOrCreateChatList(ctx, 42)
	if err != nil {
		t.Fatalf("second FindOrCreateChatList: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("chat list ids diverged: %d vs %d", first.ID, second.ID)
	}
}

func TestFindOrCreateChatListLosesRace(t *testing.T) {
	repo := newFakeRepo()
	svc := NewLists(repo)
	ctx := context.Background()

	// Winner inserts between our existence check and create.
	winner, _ := repo.CreateChatList(ctx, 7)

	cl, err := svc.FindOrCreateChatList(ctx, 7)
	if err != nil {
		t.Fatalf("FindOrCreateChatList after race: %v", err)
	}
	if cl.ID != winner.ID {
		t.Errorf("loser got list %d, want winner's %d", cl.ID, winner.ID)
	}
}

func TestFindOrCreateChatListStorageError(t *testing.T) {
	repo := newFakeRepo()
	repo.failCreateList = true
	svc := NewLists(repo)

	if _, err := svc.FindOrCreateChatList(context.Background(), 9); err == nil {
		t.Fatal("expected storage error to propagate")
	}
}

func TestAddItemAndFindScopedByChat(t *testing.T) {
	repo := newFakeRepo()
	svc := NewLists(repo)
	ctx := context.Background()

	listA, _ := svc.FindOrCreateChatList(ctx, 1)
	listB, _ := svc.FindOrCreateChatList(ctx, 2)

	created, ok, err := svc.AddItem(ctx, listA.ID, "eggs.")
	if err != nil || !ok {
		t.Fatalf("AddItem = (%v, %v, %v)", created, ok, err)
	}
	if created.Item != "Eggs" {
		t.Errorf("stored item %q, want canonicalized Eggs", created.Item)
	}

	found, ok, err := svc.FindItemByName(ctx, listA.ID, "eggs")
	if err != nil || !ok {
		t.Fatalf("FindItemByName in own chat = (%v, %v)", ok, err)
	}
	if found.ID != created.ID {
		t.Errorf("found item %d, want %d", found.ID, created.ID)
	}

	if _, ok, _ := svc.FindItemByName(ctx, listB.ID, "eggs"); ok {
		t.Error("item leaked across chat lists")
	}
}

func TestAddItemDuplicateReturnsExisting(t *testing.T) {
	repo := newFakeRepo()
	svc := NewLists(repo)
	ctx := context.Background()

	cl, _ := svc.FindOrCreateChatList(ctx, 1)
	first, created, err := svc.AddItem(ctx, cl.ID, "milk")
	if err != nil || !created {
		t.Fatalf("first AddItem = (%v, %v)", created, err)
	}
	again, created, err := svc.AddItem(ctx, cl.ID, "Milk")
	if err != nil {
		t.Fatalf("duplicate AddItem: %v", err)
	}
	if created {
		t.Error("duplicate add reported as created")
	}
	if again.ID != first.ID {
		t.Errorf("duplicate add returned item %d, want existing %d", again.ID, first.ID)
	}
}

func TestAddItemEmptyAfterCanonicalize(t *testing.T) {
	repo := newFakeRepo()
	svc := NewLists(repo)
	ctx := context.Background()

	cl, _ := svc.FindOrCreateChatList(ctx, 1)
	_, created, err := svc.AddItem(ctx, cl.ID, " .. ")
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if created {
		t.Error("blank item reported as created")
	}
	items, _ := svc.Items(ctx, cl.ID)
	if len(items) != 0 {
		t.Errorf("blank add stored %d items", len(items))
	}
}

func TestRemoveItemMissingIDIsNoop(t *testing.T) {
	repo := newFakeRepo()
	svc := NewLists(repo)
	ctx := context.Background()

	cl, _ := svc.FindOrCreateChatList(ctx, 1)
	_, _, _ = svc.AddItem(ctx, cl.ID, "eggs")

	if err := svc.RemoveItem(ctx, 9999); err != nil {
		t.Fatalf("RemoveItem on missing id: %v", err)
	}
	items, _ := svc.Items(ctx, cl.ID)
	if len(items) != 1 {
		t.Errorf("list changed by missing-id removal: %d items", len(items))
	}
}

func TestItemsInsertionOrder(t *testing.T) {
	repo := newFakeRepo()
	svc := NewLists(repo)
	ctx := context.Background()

	cl, _ := svc.FindOrCreateChatList(ctx, 1)
	for _, name := range []string{"eggs", "milk", "bread"} {
		_, _, _ = svc.AddItem(ctx, cl.ID, name)
	}
	items, err := svc.Items(ctx, cl.ID)
	if err != nil {
		t.Fatalf("Items: %v", err)
	}
	want := []string{"Eggs", "Milk", "Bread"}
	if len(items) != len(want) {
		t.Fatalf("got %d items, want %d", len(items), len(want))
	}
	for i, it := range items {
		if it.Item != want[i] {
			t.Errorf("position %d = %q, want %q", i, it.Item, want[i])
		}
	}
}

func TestClearLeavesOtherListsAlone(t *testing.T) {
	repo := newFakeRepo()
	svc := NewLists(repo)
	ctx := context.Background()

	listA, _ := svc.FindOrCreateChatList(ctx, 1)
	listB, _ := svc.FindOrCreateChatList(ctx, 2)
	_, _, _ = svc.AddItem(ctx, listA.ID, "eggs")
	_, _, _ = svc.AddItem(ctx, listA.ID, "milk")
	_, _, _ = svc.AddItem(ctx, listB.ID, "eggs")

	n, err := svc.Clear(ctx, listA.ID)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 2 {
		t.Errorf("Clear removed %d items, want 2", n)
	}
	if items, _ := svc.Items(ctx, listA.ID); len(items) != 0 {
		t.Errorf("cleared list still has %d items", len(items))
	}
	if items, _ := svc.Items(ctx, listB.ID); len(items) != 1 {
		t.Errorf("other list affected by clear: %d items", len(items))
	}
}
