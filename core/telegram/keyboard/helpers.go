package keyboard

import tele "gopkg.in/telebot.v4"

// InlineBtn describes an inline button carrying a raw callback payload.
type InlineBtn struct {
	Text string
	Data string
}

// RemoveKeyboard returns a markup that hides the reply keyboard.
func RemoveKeyboard() *tele.ReplyMarkup {
	return &tele.ReplyMarkup{RemoveKeyboard: true}
}

// Rows builds an inline keyboard from rows of InlineBtn. Button data is sent
// as-is in the callback query, without telebot's unique-handler encoding.
func Rows(rows ...[]InlineBtn) *tele.ReplyMarkup {
	inline := make([][]tele.InlineButton, len(rows))
	for i, row := range rows {
		r := make([]tele.InlineButton, len(row))
		for j, btn := range row {
			r[j] = tele.InlineButton{Text: btn.Text, Data: btn.Data}
		}
		inline[i] = r
	}
	return &tele.ReplyMarkup{InlineKeyboard: inline}
}

// Chunk splits a flat list of buttons into rows with up to n buttons per row.
func Chunk(buttons []InlineBtn, n int) [][]InlineBtn {
	if n <= 1 {
		out := make([][]InlineBtn, 0, len(buttons))
		for _, b := range buttons {
			out = append(out, []InlineBtn{b})
		}
		return out
	}
	var rows [][]InlineBtn
	for i := 0; i < len(buttons); i += n {
		end := i + n
		if end > len(buttons) {
			end = len(buttons)
		}
		rows = append(rows, buttons[i:end])
	}
	return rows
}

// Grid is shorthand for Chunk followed by Rows.
func Grid(buttons []InlineBtn, perRow int) *tele.ReplyMarkup {
	return Rows(Chunk(buttons, perRow)...)
}
