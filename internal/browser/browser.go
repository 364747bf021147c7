// Package browser implements the recipe browser: listing, filtering, creating
// and deleting recipes held by the remote API, rendered as an HTML page.
//
// Every operation reads fresh state from the API and returns a Page. Nothing
// is shared between operations; the category list is derived from the fetch
// that built the page.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"recipebrowser/internal/recipes"
)

type recipeAPI interface {
	List(ctx context.Context) ([]recipes.Recipe, error)
	Create(ctx context.Context, r recipes.Recipe) error
	Delete(ctx context.Context, id string) error
}

// NewRecipe holds the creation form fields.
type NewRecipe struct {
	Title    string
	Link     string
	Author   string
	Category string
}

type Browser struct {
	api   recipeAPI
	newID func() string
}

func New(api recipeAPI) *Browser {
	return &Browser{api: api, newID: recipes.NewID}
}

// FetchAllRecipes returns the whole collection.
func (b *Browser) FetchAllRecipes(ctx context.Context) ([]recipes.Recipe, error) {
	list, err := b.api.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch recipes: %w", err)
	}
	return list, nil
}

// ComputeCategories fetches the collection and returns its sorted distinct categories.
func (b *Browser) ComputeCategories(ctx context.Context) ([]string, error) {
	list, err := b.FetchAllRecipes(ctx)
	if err != nil {
		return nil, err
	}
	return recipes.Categories(list), nil
}

// RefreshCategoryOptions returns the placeholder option followed by one option per current category.
// On failure only the placeholder is returned, alongside the error.
func (b *Browser) RefreshCategoryOptions(ctx context.Context) ([]Option, error) {
	_, options, err := b.refreshCategoryOptions(ctx)
	return options, err
}

// refreshCategoryOptions also hands back the fetched collection so callers can
// render from the same snapshot the options came from.
func (b *Browser) refreshCategoryOptions(ctx context.Context) ([]recipes.Recipe, []Option, error) {
	list, err := b.FetchAllRecipes(ctx)
	if err != nil {
		return nil, CategoryOptions(nil), err
	}
	return list, CategoryOptions(recipes.Categories(list)), nil
}

// StartUp builds the initial page: dropdown populated, no rows.
func (b *Browser) StartUp(ctx context.Context) *Page {
	p := &Page{}
	b.refresh(ctx, p)
	return p
}

// GetAllRecipes renders every recipe, unfiltered.
func (b *Browser) GetAllRecipes(ctx context.Context) *Page {
	p := &Page{}
	if list, ok := b.refresh(ctx, p); ok {
		p.Recipes = list
	}
	return p
}

// GetFilteredRecipes renders the recipes whose category equals the selected option value.
// The empty value is the placeholder and behaves like GetAllRecipes; UncategorizedValue
// selects recipes with an empty category.
func (b *Browser) GetFilteredRecipes(ctx context.Context, selected string) *Page {
	if selected == "" {
		return b.GetAllRecipes(ctx)
	}
	p := &Page{Selected: selected}
	if list, ok := b.refresh(ctx, p); ok {
		p.Recipes = recipes.FilterByCategory(list, categoryForValue(selected))
	}
	return p
}

// PostRecipe creates a recipe with a generated id, then refreshes the categories.
func (b *Browser) PostRecipe(ctx context.Context, in NewRecipe) *Page {
	p := &Page{}
	r := recipes.Recipe{
		ID:       b.newID(),
		Title:    in.Title,
		Link:     in.Link,
		Author:   in.Author,
		Category: in.Category,
	}
	if err := b.api.Create(ctx, r); err != nil {
		slog.ErrorContext(ctx, "failed to create recipe", "id", r.ID, "error", err)
		p.setStatus(err)
	} else {
		slog.InfoContext(ctx, "created recipe", "id", r.ID, "category", r.Category)
	}
	b.refresh(ctx, p)
	return p
}

// DeleteRecipe deletes the recipe with id and reports the outcome in the delete status area.
// Categories are refreshed whatever the outcome.
func (b *Browser) DeleteRecipe(ctx context.Context, id string) *Page {
	p := &Page{}
	id = strings.TrimSpace(id)
	if err := b.api.Delete(ctx, id); err != nil {
		slog.ErrorContext(ctx, "failed to delete recipe", "id", id, "error", err)
		p.DeleteStatus = errorText(err)
	} else {
		slog.InfoContext(ctx, "deleted recipe", "id", id)
		p.DeleteStatus = fmt.Sprintf("Recipe #%s deleted.", id)
	}
	b.refresh(ctx, p)
	return p
}

// refresh fetches the collection once and fills the page's options and known recipes.
// On failure the page keeps only the placeholder option and shows the error.
func (b *Browser) refresh(ctx context.Context, p *Page) ([]recipes.Recipe, bool) {
	list, options, err := b.refreshCategoryOptions(ctx)
	p.Options = options
	if err != nil {
		slog.ErrorContext(ctx, "failed to refresh categories", "error", err)
		p.setStatus(err)
		return nil, false
	}
	p.Known = list
	return list, true
}

func errorText(err error) string {
	return "Error: " + recipes.Message(err)
}
