package blog

import "github.com/goliatone/go-blog/internal/runtimeconfig"

var (
	ErrContentDirRequired       = runtimeconfig.ErrContentDirRequired
	ErrMarkdownFeatureRequired  = runtimeconfig.ErrMarkdownFeatureRequired
	ErrSiteOutputDirRequired    = runtimeconfig.ErrSiteOutputDirRequired
	ErrSearchIndexPathRequired  = runtimeconfig.ErrSearchIndexPathRequired
	ErrCommandsCronRequiresSync = runtimeconfig.ErrCommandsCronRequiresSync
	ErrLoggingProviderRequired  = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown   = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid      = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid     = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config               = runtimeconfig.Config
	MarkdownConfig       = runtimeconfig.MarkdownConfig
	MarkdownParserConfig = runtimeconfig.MarkdownParserConfig
	SiteConfig           = runtimeconfig.SiteConfig
	SearchConfig         = runtimeconfig.SearchConfig
	PostsConfig          = runtimeconfig.PostsConfig
	StorageConfig        = runtimeconfig.StorageConfig
	CommandsConfig       = runtimeconfig.CommandsConfig
	LoggingConfig        = runtimeconfig.LoggingConfig
	Features             = runtimeconfig.Features
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
