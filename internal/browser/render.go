package browser

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"recipebrowser/internal/recipes"
	"recipebrowser/internal/templates"
)

// pageView is what the page template sees: the page plus its pre-rendered table body.
type pageView struct {
	*Page
	Rows template.HTML
}

// RenderPage writes the full browser page.
func RenderPage(w io.Writer, p *Page) error {
	var rows bytes.Buffer
	if err := RenderRecipeList(&rows, p.Recipes); err != nil {
		return err
	}
	// rows were produced by the escaping row template
	view := pageView{Page: p, Rows: template.HTML(rows.String())}
	if err := templates.Home.Execute(w, view); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}

// RenderRecipeList writes a table body with one row per recipe in input order.
// Field values are escaped for HTML.
func RenderRecipeList(w io.Writer, list []recipes.Recipe) error {
	if _, err := io.WriteString(w, "<tbody>"); err != nil {
		return fmt.Errorf("render recipe list: %w", err)
	}
	for _, r := range list {
		if _, err := io.WriteString(w, "\n"); err != nil {
			return fmt.Errorf("render recipe list: %w", err)
		}
		if err := RenderRecipeRow(w, r); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, "\n</tbody>"); err != nil {
		return fmt.Errorf("render recipe list: %w", err)
	}
	return nil
}

// RenderRecipeRow writes one table row: title, link, author, category, id.
func RenderRecipeRow(w io.Writer, r recipes.Recipe) error {
	if err := templates.RecipeRow.Execute(w, r); err != nil {
		return fmt.Errorf("render recipe row: %w", err)
	}
	return nil
}
