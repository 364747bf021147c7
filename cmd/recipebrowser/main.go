package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"recipebrowser/internal/browser"
	"recipebrowser/internal/config"
	"recipebrowser/internal/recipes"
	"recipebrowser/internal/telemetry"
)

func main() {
	var serve bool
	var addr string
	var list bool
	var category string
	var categories bool
	var deleteID string
	var help bool

	flag.BoolVar(&serve, "serve", false, "Run HTTP server mode (the default)")
	flag.StringVar(&addr, "addr", "", "Address to bind in server mode (overrides ADDR)")
	flag.BoolVar(&list, "list", false, "Print recipes and exit")
	flag.StringVar(&category, "category", "", "Only list recipes in this category")
	flag.StringVar(&category, "c", "", "Only list recipes in this category (short form)")
	flag.BoolVar(&categories, "categories", false, "Print the distinct categories and exit")
	flag.StringVar(&deleteID, "delete", "", "Delete the recipe with this id and exit")
	flag.BoolVar(&help, "help", false, "Show help message")
	flag.BoolVar(&help, "h", false, "Show help message")
	flag.Parse()

	if help {
		showHelp()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	ctx := context.Background()
	shutdownTelemetry, err := telemetry.Setup(ctx, cfg.Logging, os.Stderr)
	if err != nil {
		log.Fatalf("failed to set up logging: %v", err)
	}

	err = run(ctx, cfg, mode{serve: serve, list: list, category: category, categories: categories, deleteID: deleteID})

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if shutdownErr := shutdownTelemetry(flushCtx); shutdownErr != nil {
		fmt.Fprintf(os.Stderr, "telemetry shutdown: %v\n", shutdownErr)
	}

	if err != nil {
		slog.Error("recipebrowser failed", "error", err)
		os.Exit(1)
	}
}

type mode struct {
	serve      bool
	list       bool
	category   string
	categories bool
	deleteID   string
}

func run(ctx context.Context, cfg *config.Config, m mode) error {
	client, err := recipes.NewClient(cfg.API)
	if err != nil {
		return fmt.Errorf("failed to create recipe client: %w", err)
	}

	switch {
	case m.serve:
		return runServer(cfg, client)
	case m.list:
		return runList(ctx, os.Stdout, browser.New(client), m.category)
	case m.categories:
		return runCategories(ctx, os.Stdout, browser.New(client))
	case m.deleteID != "":
		return runDelete(ctx, os.Stdout, client, m.deleteID)
	default:
		return runServer(cfg, client)
	}
}

func showHelp() {
	fmt.Println("Recipe Browser - browse a remote recipe collection")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  recipebrowser [-serve] [-addr :8080]")
	fmt.Println("  recipebrowser -list [-category <name>]")
	fmt.Println("  recipebrowser -categories")
	fmt.Println("  recipebrowser -delete <id>")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -serve           Run the web UI (default when no other mode is given)")
	fmt.Println("  -addr            Address to bind in server mode")
	fmt.Println("  -list            Print recipes as a table")
	fmt.Println("  -category, -c    Only list recipes in this category")
	fmt.Println("  -categories      Print the distinct categories")
	fmt.Println("  -delete          Delete a recipe by id")
	fmt.Println("  -help, -h        Show this help message")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  RECIPES_API_URL, RECIPES_API_TIMEOUT, RECIPES_API_RETRIES, ADDR,")
	fmt.Println("  LOG_LEVEL, LOG_FORMAT, OTEL_EXPORTER_OTLP_ENDPOINT (a .env file is read too)")
}
