package posts

import (
	"errors"
	"fmt"
)

var (
	ErrTitleRequired   = errors.New("posts: title is required")
	ErrSlugRequired    = errors.New("posts: slug is required")
	ErrSlugInvalid     = errors.New("posts: slug contains invalid characters")
	ErrSlugExists      = errors.New("posts: slug already exists")
	ErrPostIDRequired  = errors.New("posts: post id required")
	ErrMetadataInvalid = errors.New("posts: metadata invalid")
)

// NotFoundError represents missing records from repository lookups.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// IsNotFound reports whether err represents a missing archive record.
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}
