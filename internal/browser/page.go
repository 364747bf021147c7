package browser

import "recipebrowser/internal/recipes"

// PlaceholderLabel labels the leading "no selection" option of the category dropdown.
const PlaceholderLabel = "No selection"

// The placeholder owns the empty option value, so recipes without a category
// are offered under this value instead.
const (
	UncategorizedValue = "(uncategorized)"
	UncategorizedLabel = "(no category)"
)

// Option is one entry of the category dropdown. Value is the category itself.
type Option struct {
	Value string
	Label string
}

// Page is everything the browser page shows after an operation.
type Page struct {
	Options  []Option
	Selected string
	Recipes  []recipes.Recipe // rows of the table, in render order
	Known    []recipes.Recipe // every recipe of the last fetch, for the delete control

	Status       string // list and create failures
	DeleteStatus string
}

// CategoryOptions returns the placeholder followed by one option per category, in the given order.
func CategoryOptions(categories []string) []Option {
	options := make([]Option, 0, len(categories)+1)
	options = append(options, Option{Value: "", Label: PlaceholderLabel})
	for _, c := range categories {
		if c == "" {
			options = append(options, Option{Value: UncategorizedValue, Label: UncategorizedLabel})
			continue
		}
		options = append(options, Option{Value: c, Label: c})
	}
	return options
}

// categoryForValue maps a submitted option value back to the category it stands for.
func categoryForValue(value string) string {
	if value == UncategorizedValue {
		return ""
	}
	return value
}

// HideAllRecipes empties the table without querying the API.
func (p *Page) HideAllRecipes() {
	p.Recipes = nil
}

// setStatus keeps the first failure; later ones are only logged.
func (p *Page) setStatus(err error) {
	if p.Status == "" {
		p.Status = errorText(err)
	}
}
