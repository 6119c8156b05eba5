package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goliatone/go-blog/cmd/blog/internal/bootstrap"
	markdowncmd "github.com/goliatone/go-blog/internal/commands/markdown"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runSync(os.Args[1:]); err != nil {
		log.Fatalf("blog sync: %v", err)
	}
}

func runSync(args []string) error {
	fs := flag.NewFlagSet("blog-sync", flag.ExitOnError)
	contentDir := fs.String("content-dir", "", "Path to the content root (default content, env BLOG_CONTENT_DIR)")
	pattern := fs.String("pattern", "", "Glob pattern applied when discovering envelope files (default *.md)")
	directory := fs.String("directory", ".", "Directory to sync, relative to the content root")
	dryRun := fs.Bool("dry-run", false, "Preview changes without touching the archive")
	deleteOrphaned := fs.Bool("delete-orphaned", false, "Remove archive entries whose source file disappeared")

	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(bootstrap.Options{
		ContentDir: *contentDir,
		Pattern:    *pattern,
		Recursive:  true,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	if module == nil || module.Markdown == nil {
		return fmt.Errorf("markdown service not configured; ensure Features.Markdown is enabled")
	}

	handler := markdowncmd.NewSyncDirectoryHandler(module.Markdown, module.Logger, markdowncmd.FeatureGates{
		MarkdownEnabled: func() bool { return true },
	})
	cmd := markdowncmd.SyncDirectoryCommand{
		Directory:      *directory,
		DryRun:         *dryRun,
		DeleteOrphaned: *deleteOrphaned,
	}
	if err := handler.Execute(context.Background(), cmd); err != nil {
		return fmt.Errorf("execute sync command: %w", err)
	}
	fmt.Fprintln(os.Stdout, "blog sync command executed successfully")

	return nil
}
