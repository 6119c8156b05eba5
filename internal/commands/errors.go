package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to command errors so hosts can match failures without
// parsing message strings.
const (
	CodeCommandInvalid  = "BLOG_COMMAND_INVALID"
	CodeCommandCanceled = "BLOG_COMMAND_CANCELED"
	CodeCommandTimeout  = "BLOG_COMMAND_TIMEOUT"
	CodeCommandContext  = "BLOG_COMMAND_CONTEXT"
	CodeCommandFailed   = "BLOG_COMMAND_FAILED"
)

func wrapValidationError(err error) error {
	return wrapCommandError(err, goerrors.CategoryValidation, CodeCommandInvalid, "command message failed validation")
}

func wrapContextError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled):
		return wrapCommandError(err, goerrors.CategoryCommand, CodeCommandCanceled, "command canceled before completion")
	case errors.Is(err, context.DeadlineExceeded):
		return wrapCommandError(err, goerrors.CategoryCommand, CodeCommandTimeout, "command deadline exceeded")
	default:
		return wrapCommandError(err, goerrors.CategoryCommand, CodeCommandContext, "command context failed")
	}
}

func wrapExecuteError(err error) error {
	return wrapCommandError(err, goerrors.CategoryCommand, CodeCommandFailed, "command execution failed")
}

// wrapCommandError leaves already-wrapped errors untouched so the innermost
// failure keeps its original category and code.
func wrapCommandError(err error, category goerrors.Category, code, msg string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, category, msg).WithTextCode(code)
}
