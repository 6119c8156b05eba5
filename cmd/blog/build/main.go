package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goliatone/go-blog/cmd/blog/internal/bootstrap"
	sitecmd "github.com/goliatone/go-blog/internal/commands/site"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runBuild(os.Args[1:]); err != nil {
		log.Fatalf("blog build: %v", err)
	}
}

func runBuild(args []string) error {
	fs := flag.NewFlagSet("blog-build", flag.ExitOnError)
	contentDir := fs.String("content-dir", "", "Path to the content root (default content, env BLOG_CONTENT_DIR)")
	outputDir := fs.String("output-dir", "", "Directory receiving rendered artifacts (default dist, env BLOG_OUTPUT_DIR)")
	baseURL := fs.String("base-url", "", "Canonical base URL for links, feeds, and the sitemap (env BLOG_BASE_URL)")
	title := fs.String("title", "", "Site title used in rendered pages and feeds (env BLOG_SITE_TITLE)")
	skipSync := fs.Bool("skip-sync", false, "Build from the current archive without ingesting the content root first")
	dryRun := fs.Bool("dry-run", false, "Report what would be built without writing artifacts")

	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(bootstrap.Options{
		ContentDir: *contentDir,
		Recursive:  true,
		OutputDir:  *outputDir,
		BaseURL:    *baseURL,
		SiteTitle:  *title,
		EnableSite: true,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	if module == nil || module.Site == nil {
		return fmt.Errorf("site service not configured; ensure Features.Site is enabled")
	}

	ctx := context.Background()

	// The sync always runs for real so a dry-run build can still report the
	// pages the content root would produce; only the site build is previewed.
	if !*skipSync {
		if _, err := module.Markdown.Sync(ctx, ".", interfaces.SyncOptions{}); err != nil {
			return fmt.Errorf("sync content root: %w", err)
		}
	}

	handler := sitecmd.NewBuildSiteHandler(module.Site, module.Logger, sitecmd.FeatureGates{
		SiteEnabled: func() bool { return true },
	})
	if err := handler.Execute(ctx, sitecmd.BuildSiteCommand{DryRun: *dryRun}); err != nil {
		return fmt.Errorf("execute build command: %w", err)
	}
	fmt.Fprintln(os.Stdout, "blog build command executed successfully")

	return nil
}
