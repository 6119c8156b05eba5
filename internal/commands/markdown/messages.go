package markdowncmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	importDirectoryMessageType = "blog.markdown.import_directory"
	syncDirectoryMessageType   = "blog.markdown.sync_directory"
)

// ImportDirectoryCommand triggers a filesystem walk for Markdown documents
// under the provided Directory. The command mirrors markdown.Service
// ImportDirectory semantics, mapping directly onto interfaces.ImportOptions.
type ImportDirectoryCommand struct {
	// Directory selects the filesystem path (relative or absolute) to load Markdown files from.
	Directory string `json:"directory"`
	// DryRun toggles preview mode to collect import diffs without persisting changes.
	DryRun bool `json:"dry_run,omitempty"`
}

// Type implements command.Message.
func (ImportDirectoryCommand) Type() string { return importDirectoryMessageType }

// Validate ensures directory input is present before handlers execute.
func (cmd ImportDirectoryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("blog.markdown.import_directory.directory_required", "directory is required")
			}
			return nil
		})),
	)
}

// SyncDirectoryCommand orchestrates a Markdown sync run for the provided
// Directory, applying deletion flags consistent with interfaces.SyncOptions.
type SyncDirectoryCommand struct {
	// Directory selects the filesystem path (relative or absolute) to load Markdown files from.
	Directory string `json:"directory"`
	// DryRun toggles preview mode to collect sync diffs without persisting changes.
	DryRun bool `json:"dry_run,omitempty"`
	// DeleteOrphaned removes archive entries without matching Markdown files when true.
	DeleteOrphaned bool `json:"delete_orphaned,omitempty"`
}

// Type implements command.Message.
func (SyncDirectoryCommand) Type() string { return syncDirectoryMessageType }

// Validate ensures directory input is present before handlers execute.
func (cmd SyncDirectoryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("blog.markdown.sync_directory.directory_required", "directory is required")
			}
			return nil
		})),
	)
}
