// Package markdown implements the document envelope workflows for blog
// content: front matter parsing and encoding, filesystem discovery, Goldmark
// rendering, and synchronisation of documents into the post archive.
package markdown
