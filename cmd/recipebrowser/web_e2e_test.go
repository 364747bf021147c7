package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"recipebrowser/internal/config"
	"recipebrowser/internal/recipes"
	"recipebrowser/internal/recipes/recipestest"
	"recipebrowser/internal/static"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func newTestServer(t *testing.T, api *recipestest.Server) *httptest.Server {
	t.Helper()
	client, err := recipes.NewClient(config.APIConfig{BaseURL: api.CollectionURL(), HTTPClient: api.Client()})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	mux, err := newMux(client)
	if err != nil {
		t.Fatalf("failed to build mux: %v", err)
	}
	srv := httptest.NewServer(WithMiddleware(mux))
	t.Cleanup(srv.Close)
	return srv
}

func mustGetDoc(t *testing.T, target string) *goquery.Document {
	t.Helper()
	resp, err := http.Get(target)
	if err != nil {
		t.Fatalf("GET %s failed: %v", target, err)
	}
	return mustDoc(t, resp)
}

func mustPostDoc(t *testing.T, target string, form url.Values) *goquery.Document {
	t.Helper()
	resp, err := http.PostForm(target, form)
	if err != nil {
		t.Fatalf("POST %s failed: %v", target, err)
	}
	return mustDoc(t, resp)
}

func mustDoc(t *testing.T, resp *http.Response) *goquery.Document {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from %s, got %d", resp.Request.URL, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if _, err := html.Parse(strings.NewReader(string(body))); err != nil {
		t.Fatalf("invalid html from %s: %v", resp.Request.URL, err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

func rowTitles(doc *goquery.Document) []string {
	var titles []string
	doc.Find("#recipe-list tbody tr").Each(func(_ int, row *goquery.Selection) {
		titles = append(titles, row.Find("td").First().Text())
	})
	return titles
}

func TestWebEndToEndFlow(t *testing.T) {
	api := recipestest.NewServer(
		recipes.Recipe{ID: "r1", Title: "Brownies", Link: "http://b", Author: "Ann", Category: "Dessert"},
		recipes.Recipe{ID: "r2", Title: "Minestrone", Link: "http://m", Author: "Bo", Category: "Soup"},
		recipes.Recipe{ID: "r3", Title: "Tiramisu", Link: "http://t", Author: "Cy", Category: "Dessert"},
	)
	defer api.Close()
	srv := newTestServer(t, api)

	resp, err := http.Get(srv.URL + "/ready")
	if err != nil {
		t.Fatalf("GET /ready failed: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected /ready to return 200 OK, got %d", resp.StatusCode)
	}

	// Step 1: the start page has categories but no rows.
	doc := mustGetDoc(t, srv.URL+"/")
	if n := doc.Find("#recipe-list tbody tr").Length(); n != 0 {
		t.Fatalf("expected empty table on start, got %d rows", n)
	}
	if n := doc.Find("#category-select option").Length(); n != 3 {
		t.Fatalf("expected placeholder + 2 categories, got %d", n)
	}

	// Step 2: show all, then filter on Soup.
	if got := rowTitles(mustGetDoc(t, srv.URL+"/recipes")); len(got) != 3 {
		t.Fatalf("expected 3 rows, got %v", got)
	}
	if got := rowTitles(mustGetDoc(t, srv.URL+"/recipes?category=Soup")); len(got) != 1 || got[0] != "Minestrone" {
		t.Fatalf("expected only Minestrone, got %v", got)
	}

	// Step 3: add a recipe in a new category, it becomes filterable.
	doc = mustPostDoc(t, srv.URL+"/recipes", url.Values{
		"title": {"Tacos"}, "link": {"http://x"}, "author": {"Amy"}, "category": {"Mexican"},
	})
	if doc.Find(`#category-select option[value="Mexican"]`).Length() != 1 {
		t.Fatal("expected Mexican option after create")
	}
	created := api.Created()
	if len(created) != 1 {
		t.Fatalf("expected one created recipe, got %v", created)
	}
	if got := rowTitles(mustGetDoc(t, srv.URL+"/recipes?category=Mexican")); len(got) != 1 || got[0] != "Tacos" {
		t.Fatalf("expected Tacos, got %v", got)
	}

	// Step 4: delete it again, then delete something that does not exist.
	doc = mustPostDoc(t, srv.URL+"/recipes/delete", url.Values{"id": {created[0].ID}})
	if got := doc.Find("#response-delete").Text(); got != "Recipe #"+created[0].ID+" deleted." {
		t.Fatalf("unexpected delete status %q", got)
	}
	if doc.Find(`#category-select option[value="Mexican"]`).Length() != 0 {
		t.Fatal("Mexican option should be gone after delete")
	}
	doc = mustPostDoc(t, srv.URL+"/recipes/delete", url.Values{"id": {"99999"}})
	if got := doc.Find("#response-delete").Text(); got != "Error: Not Found" {
		t.Fatalf("unexpected delete status %q", got)
	}

	// Step 5: the stylesheet the page links to is served.
	href, _ := doc.Find(`link[rel="stylesheet"]`).Attr("href")
	if href != static.StyleAssetPath {
		t.Fatalf("stylesheet href %q, want %q", href, static.StyleAssetPath)
	}
	resp, err = http.Get(srv.URL + href)
	if err != nil {
		t.Fatalf("GET stylesheet failed: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected stylesheet 200, got %d", resp.StatusCode)
	}
}

func TestWebAPIDown(t *testing.T) {
	api := recipestest.NewServer()
	defer api.Close()
	api.Fail(http.MethodGet, http.StatusServiceUnavailable)
	srv := newTestServer(t, api)

	resp, err := http.Get(srv.URL + "/ready")
	if err != nil {
		t.Fatalf("GET /ready failed: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected /ready to fail while the api is down, got %d", resp.StatusCode)
	}

	doc := mustGetDoc(t, srv.URL+"/recipes")
	if got := doc.Find("#response-status").Text(); got != "Error: Service Unavailable" {
		t.Fatalf("unexpected status %q", got)
	}

	// readiness sticks once reached
	api.Fail(http.MethodGet, 0)
	for range 2 {
		resp, err = http.Get(srv.URL + "/ready")
		if err != nil {
			t.Fatalf("GET /ready failed: %v", err)
		}
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected ready, got %d", resp.StatusCode)
		}
		api.Fail(http.MethodGet, http.StatusServiceUnavailable)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	api := recipestest.NewServer()
	defer api.Close()
	srv := newTestServer(t, api)

	resp, err := http.Get(srv.URL + "/recipes")
	if err != nil {
		t.Fatalf("GET /recipes failed: %v", err)
	}
	_ = resp.Body.Close()

	resp, err = http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics failed: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	for _, name := range []string{
		`recipebrowser_http_request_duration_seconds_count{code="200",handler="/recipes",method="GET"`,
		`recipebrowser_api_requests_total{operation="list",outcome="success"}`,
	} {
		if !strings.Contains(string(body), name) {
			t.Errorf("metrics output missing %s", name)
		}
	}
}
