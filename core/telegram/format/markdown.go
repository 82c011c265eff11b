package format

import "strings"

// escapeMDV2 covers every character the Bot API requires to be escaped in
// MarkdownV2 text, plus backslash itself so user input renders literally.
var escapeMDV2 = strings.NewReplacer(
	`\`, `\\`,
	"_", `\_`,
	"*", `\*`,
	"[", `\[`,
	"]", `\]`,
	"(", `\(`,
	")", `\)`,
	"~", `\~`,
	"`", "\\`",
	">", `\>`,
	"#", `\#`,
	"+", `\+`,
	"-", `\-`,
	"=", `\=`,
	"|", `\|`,
	"{", `\{`,
	"}", `\}`,
	".", `\.`,
	"!", `\!`,
)

// EscapeMarkdownV2 escapes user-provided text for safe interpolation into a
// MarkdownV2 message body.
func EscapeMarkdownV2(s string) string {
	return escapeMDV2.Replace(s)
}
