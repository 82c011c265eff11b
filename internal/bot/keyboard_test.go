package bot

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/eggcart/eggcart/internal/domain"

	tele "gopkg.in/telebot.v4"
)

func makeItems(n int) []domain.ListItem {
	items := make([]domain.ListItem, n)
	for i := range items {
		items[i] = domain.ListItem{ID: int64(i + 1), ChatListID: 1, Item: fmt.Sprintf("Item %d", i+1)}
	}
	return items
}

func flatten(m *tele.ReplyMarkup) []tele.InlineButton {
	var out []tele.InlineButton
	for _, row := range m.InlineKeyboard {
		out = append(out, row...)
	}
	return out
}

func countByPrefix(m *tele.ReplyMarkup, prefix string) int {
	n := 0
	for _, b := range flatten(m) {
		if strings.HasPrefix(b.Data, prefix) {
			n++
		}
	}
	return n
}

func TestBuildListKeyboardItemButtonCount(t *testing.T) {
	for n := 0; n <= 25; n++ {
		m := BuildListKeyboard(makeItems(n), 42, 0)
		want := n
		if want > PageSize {
			want = PageSize
		}
		if got := countByPrefix(m, "delete_item_"); got != want {
			t.Errorf("n=%d: %d delete buttons, want %d", n, got, want)
		}
		if got := countByPrefix(m, "go_back_"); got != 1 {
			t.Errorf("n=%d: %d back buttons, want 1", n, got)
		}
	}
}

func TestBuildListKeyboardColumns(t *testing.T) {
	twoCol := []int{1, 2, 4, 5}
	for _, n := range twoCol {
		m := BuildListKeyboard(makeItems(n), 42, 0)
		if w := len(m.InlineKeyboard[0]); w > 2 {
			t.Errorf("n=%d: first row has %d buttons, want <= 2", n, w)
		}
	}
	threeCol := []int{3, 6, 7, 8, 9, 12, 20}
	for _, n := range threeCol {
		m := BuildListKeyboard(makeItems(n), 42, 0)
		if w := len(m.InlineKeyboard[0]); w != 3 {
			t.Errorf("n=%d: first row has %d buttons, want 3", n, w)
		}
	}
}

func TestBuildListKeyboardPagination(t *testing.T) {
	items := makeItems(20) // 3 pages: 9, 9, 2

	page0 := BuildListKeyboard(items, 42, 0)
	if countByPrefix(page0, "prev_page_") != 0 {
		t.Error("page 0 has a prev button")
	}
	if countByPrefix(page0, "next_page_") != 1 {
		t.Error("page 0 missing next button")
	}

	page1 := BuildListKeyboard(items, 42, 1)
	if countByPrefix(page1, "prev_page_") != 1 || countByPrefix(page1, "next_page_") != 1 {
		t.Error("middle page should have both prev and next")
	}

	page2 := BuildListKeyboard(items, 42, 2)
	if countByPrefix(page2, "prev_page_") != 1 {
		t.Error("last page missing prev button")
	}
	if countByPrefix(page2, "next_page_") != 0 {
		t.Error("last page has a next button")
	}
	if got := countByPrefix(page2, "delete_item_"); got != 2 {
		t.Errorf("last page has %d delete buttons, want 2", got)
	}
}

func TestBuildListKeyboardPayloadsCarryChatID(t *testing.T) {
	m := BuildListKeyboard(makeItems(12), -100123, 1)
	for _, b := range flatten(m) {
		cb, ok := ParseCallback(b.Data)
		if !ok {
			t.Errorf("button payload %q does not parse", b.Data)
			continue
		}
		if cb.ChatID != -100123 {
			t.Errorf("payload %q carries chat %d, want -100123", b.Data, cb.ChatID)
		}
	}
}

func TestBuildListKeyboardDeterministic(t *testing.T) {
	items := makeItems(11)
	a := BuildListKeyboard(items, 42, 0)
	b := BuildListKeyboard(items, 42, 0)
	if !reflect.DeepEqual(a.InlineKeyboard, b.InlineKeyboard) {
		t.Error("identical inputs produced different keyboards")
	}
}

func TestBuildListKeyboardOutOfRangePageResets(t *testing.T) {
	m := BuildListKeyboard(makeItems(5), 42, 7)
	if got := countByPrefix(m, "delete_item_"); got != 5 {
		t.Errorf("out-of-range page rendered %d delete buttons, want 5", got)
	}
	if countByPrefix(m, "prev_page_") != 0 {
		t.Error("reset page should not render prev")
	}
}
