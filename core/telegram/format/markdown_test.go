package format

import "testing"

func TestEscapeMarkdownV2(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Eggs", "Eggs"},
		{"2% Milk", "2% Milk"},
		{"Olive oil (extra virgin)", `Olive oil \(extra virgin\)`},
		{"a.b", `a\.b`},
		{"x_y*z", `x\_y\*z`},
		{"[1]", `\[1\]`},
		{"a\\b", `a\\b`},
		{"done!", `done\!`},
		{"#1 > #2", `\#1 \> \#2`},
		{"", ""},
	}
	for _, tc := range cases {
		if got := EscapeMarkdownV2(tc.in); got != tc.want {
			t.Errorf("EscapeMarkdownV2(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
