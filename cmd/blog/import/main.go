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
	if err := runImport(os.Args[1:]); err != nil {
		log.Fatalf("blog import: %v", err)
	}
}

func runImport(args []string) error {
	fs := flag.NewFlagSet("blog-import", flag.ExitOnError)
	contentDir := fs.String("content-dir", "", "Path to the content root (default content, env BLOG_CONTENT_DIR)")
	pattern := fs.String("pattern", "", "Glob pattern applied when discovering envelope files (default *.md)")
	directory := fs.String("directory", ".", "Directory to import, relative to the content root")
	dryRun := fs.Bool("dry-run", false, "Preview changes without touching the archive")

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

	handler := markdowncmd.NewImportDirectoryHandler(module.Markdown, module.Logger, markdowncmd.FeatureGates{
		MarkdownEnabled: func() bool { return true },
	})
	cmd := markdowncmd.ImportDirectoryCommand{
		Directory: *directory,
		DryRun:    *dryRun,
	}
	if err := handler.Execute(context.Background(), cmd); err != nil {
		return fmt.Errorf("execute import command: %w", err)
	}
	fmt.Fprintln(os.Stdout, "blog import command executed successfully")

	return nil
}
