package bot

import "testing"

func TestParseCallback(t *testing.T) {
	cases := []struct {
		data string
		want Callback
	}{
		{"check_item_42", Callback{Kind: CallbackCheckItem, ChatID: 42}},
		{"check_item_-100123", Callback{Kind: CallbackCheckItem, ChatID: -100123}},
		{"delete_item_7_42", Callback{Kind: CallbackDeleteItem, ItemID: 7, ChatID: 42}},
		{"delete_item_7_-100123", Callback{Kind: CallbackDeleteItem, ItemID: 7, ChatID: -100123}},
		{"prev_page_2_42", Callback{Kind: CallbackPrevPage, Page: 2, ChatID: 42}},
		{"next_page_0_-5", Callback{Kind: CallbackNextPage, Page: 0, ChatID: -5}},
		{"go_back_42", Callback{Kind: CallbackGoBack, ChatID: 42}},
		{"ok_42", Callback{Kind: CallbackOK, ChatID: 42}},
		{"clear_42", Callback{Kind: CallbackClear, ChatID: 42}},
		{"confirm_clear_42", Callback{Kind: CallbackConfirmClear, ChatID: 42}},
		{"cancel_clear_-42", Callback{Kind: CallbackCancelClear, ChatID: -42}},
	}
	for _, tc := range cases {
		got, ok := ParseCallback(tc.data)
		if !ok {
			t.Errorf("ParseCallback(%q) rejected valid payload", tc.data)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseCallback(%q) = %+v, want %+v", tc.data, got, tc.want)
		}
	}
}

func TestParseCallbackRejectsMalformed(t *testing.T) {
	bad := []string{
		"",
		"frobnicate_42",
		"check_item_",
		"check_item_abc",
		"delete_item_42",
		"delete_item_-1_42",
		"delete_item_5_10_20",
		"prev_page_x_42",
		"next_page_1_",
		"ok_42_extra",
		"clear",
		"confirm_clear_",
	}
	for _, data := range bad {
		if cb, ok := ParseCallback(data); ok {
			t.Errorf("ParseCallback(%q) accepted malformed payload as %+v", data, cb)
		}
	}
}

func TestCallbackEncodeRoundTrip(t *testing.T) {
	payloads := []Callback{
		{Kind: CallbackCheckItem, ChatID: -100123},
		{Kind: CallbackDeleteItem, ItemID: 9, ChatID: 42},
		{Kind: CallbackPrevPage, Page: 3, ChatID: 42},
		{Kind: CallbackNextPage, Page: 0, ChatID: -7},
		{Kind: CallbackGoBack, ChatID: 1},
		{Kind: CallbackOK, ChatID: 1},
		{Kind: CallbackClear, ChatID: 1},
		{Kind: CallbackConfirmClear, ChatID: 1},
		{Kind: CallbackCancelClear, ChatID: 1},
	}
	for _, cb := range payloads {
		parsed, ok := ParseCallback(cb.Encode())
		if !ok {
			t.Errorf("encoded payload %q failed to parse", cb.Encode())
			continue
		}
		if parsed != cb {
			t.Errorf("round trip of %+v gave %+v", cb, parsed)
		}
	}
}

func TestResolveAction(t *testing.T) {
	key, ok := ResolveAction("delete_item_3_42")
	if !ok || key != "delete_item" {
		t.Errorf("ResolveAction = (%q, %v), want (delete_item, true)", key, ok)
	}
	if _, ok := ResolveAction("bogus"); ok {
		t.Error("ResolveAction accepted bogus payload")
	}
}
