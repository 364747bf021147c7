package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"recipebrowser/internal/browser"
)

func runList(ctx context.Context, out io.Writer, b *browser.Browser, category string) error {
	p := b.GetFilteredRecipes(ctx, category)
	if p.Status != "" {
		return errors.New(p.Status)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tCATEGORY\tLINK")
	for _, r := range p.Recipes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.Title, r.Author, r.Category, r.Link)
	}
	return tw.Flush()
}

func runCategories(ctx context.Context, out io.Writer, b *browser.Browser) error {
	categories, err := b.ComputeCategories(ctx)
	if err != nil {
		return err
	}
	for _, c := range categories {
		if _, err := fmt.Fprintln(out, c); err != nil {
			return err
		}
	}
	return nil
}

type deleter interface {
	Delete(ctx context.Context, id string) error
}

func runDelete(ctx context.Context, out io.Writer, api deleter, id string) error {
	if err := api.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete recipe %s: %w", id, err)
	}
	_, err := fmt.Fprintf(out, "Recipe #%s deleted.\n", id)
	return err
}
