package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goliatone/go-blog/cmd/blog/internal/bootstrap"
	searchcmd "github.com/goliatone/go-blog/internal/commands/search"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runSearch(os.Args[1:]); err != nil {
		log.Fatalf("blog search: %v", err)
	}
}

func runSearch(args []string) error {
	fs := flag.NewFlagSet("blog-search", flag.ExitOnError)
	contentDir := fs.String("content-dir", "", "Path to the content root (default content, env BLOG_CONTENT_DIR)")
	indexPath := fs.String("index", "", "Path to the search index (default search.bluge, env BLOG_SEARCH_INDEX)")
	query := fs.String("query", "", "Query to run against the published archive")
	limit := fs.Int("limit", 10, "Maximum number of hits to print")
	skipSync := fs.Bool("skip-sync", false, "Query the current index without ingesting the content root first")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *query == "" {
		return fmt.Errorf("-query is required")
	}

	module, err := moduleBuilder(bootstrap.Options{
		ContentDir:   *contentDir,
		Recursive:    true,
		SearchIndex:  *indexPath,
		EnableSearch: true,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	if module == nil || module.Search == nil {
		return fmt.Errorf("search service not configured; ensure Features.Search is enabled")
	}
	defer module.Module.Close()

	ctx := context.Background()

	if !*skipSync {
		if _, err := module.Markdown.Sync(ctx, ".", interfaces.SyncOptions{}); err != nil {
			return fmt.Errorf("sync content root: %w", err)
		}
		handler := searchcmd.NewReindexSearchHandler(module.Search, module.Logger, searchcmd.FeatureGates{
			SearchEnabled: func() bool { return true },
		})
		if err := handler.Execute(ctx, searchcmd.ReindexSearchCommand{}); err != nil {
			return fmt.Errorf("execute reindex command: %w", err)
		}
	}

	hits, err := module.Search.Query(ctx, *query, *limit)
	if err != nil {
		return fmt.Errorf("query index: %w", err)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(hits); err != nil {
		return fmt.Errorf("encode hits: %w", err)
	}

	return nil
}
