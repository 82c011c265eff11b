package bot

import (
	"fmt"
	"strings"

	"github.com/eggcart/eggcart/core/telegram/format"
	"github.com/eggcart/eggcart/internal/domain"
)

const (
	msgEmptyList    = "Nothing to shop for\\. \nTry adding eggs\\."
	msgCleared      = "The shopping list has been cleared!"
	msgClearConfirm = "Clear the whole shopping list?"
	msgNoRemoveArgs = "No items specified for removal\\."
	msgNoAddArgs    = "No items specified to add\\."
	msgListError    = "An error occurred while getting the list\\."
	msgClearError   = "An error occurred while clearing the list."
	msgGenericError = "An error occurred\\."
	msgBadCallback  = "Unsupported action"
	msgStaleButton  = "Already removed"

	msgStart = "Hi! I'm EggCart, your shopping list.\n" +
		"Add an item: /add eggs, milk\n" +
		"Show the list: /list"

	msgHelp = "Add an item: /add eggs, milk\n" +
		"Remove an item: /remove eggs, milk\n" +
		"Show the list: /list\n" +
		"Clear the list: /clear"
)

// renderAdded builds the /add confirmation from the item names that were
// accepted, already canonicalized.
func renderAdded(names []string) string {
	escaped := make([]string, 0, len(names))
	for _, n := range names {
		escaped = append(escaped, format.EscapeMarkdownV2(n))
	}
	return "Okay\\! \n" + strings.Join(escaped, ", ") + " are on the shopping list\\."
}

func renderRemoved(name string) string {
	return fmt.Sprintf("Okay\\!\n*%s* removed from the shopping list\\.\n", format.EscapeMarkdownV2(name))
}

func renderNotFound(name string) string {
	return fmt.Sprintf("Oh\\!\n*%s* not found in the shopping list\\.\n", format.EscapeMarkdownV2(name))
}

func renderRemoveError(name string) string {
	return fmt.Sprintf("Oh\\!\nError removing *%s*\\.\n", format.EscapeMarkdownV2(name))
}

// renderList enumerates the items as a MarkdownV2 message body. Empty lists
// render the empty-list nudge instead.
func renderList(items []domain.ListItem) string {
	if len(items) == 0 {
		return msgEmptyList
	}
	var b strings.Builder
	b.WriteString("*Grocery List*\n")
	for i, it := range items {
		fmt.Fprintf(&b, "%d\\. %s\n", i+1, format.EscapeMarkdownV2(it.Item))
	}
	return b.String()
}

// renderPicker is the delete-picker prompt shown above the item grid.
func renderPicker(items []domain.ListItem, page int) string {
	total := (len(items) + PageSize - 1) / PageSize
	if total > 1 {
		return fmt.Sprintf("*Grocery List*\nTap an item to remove it \\(page %d of %d\\)\\.", page+1, total)
	}
	return "*Grocery List*\nTap an item to remove it\\."
}
