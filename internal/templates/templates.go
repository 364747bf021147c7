package templates

import (
	"embed"
	"html/template"
)

//go:embed *.html
var htmlFiles embed.FS

var Home,
	RecipeRow *template.Template

// Init parses the embedded templates. styleAssetPath is the versioned stylesheet URL.
func Init(styleAssetPath string) error {
	funcs := template.FuncMap{
		"StyleAssetPath": func() string { return styleAssetPath },
		"LinkHref":       LinkHref,
	}
	tmpls, err := template.New("all").Funcs(funcs).ParseFS(htmlFiles, "*.html")
	if err != nil {
		return err
	}
	Home = ensure(tmpls, "home.html")
	RecipeRow = ensure(tmpls, "recipe-row")
	return nil
}

func ensure(templates *template.Template, name string) *template.Template {
	tmpl := templates.Lookup(name)
	if tmpl == nil {
		panic("template " + name + " not found")
	}
	return tmpl
}
