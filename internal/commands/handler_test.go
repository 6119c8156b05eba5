package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

type testMessage struct{}

func (testMessage) Type() string { return "blog.test.message" }

func (testMessage) Validate() error { return nil }

type invalidMessage struct{}

func (invalidMessage) Type() string { return "blog.test.invalid" }

func (invalidMessage) Validate() error {
	return errors.New("invalid")
}

func TestHandlerExecuteSuccess(t *testing.T) {
	called := false
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		called = true
		return nil
	})

	if err := h.Execute(context.Background(), testMessage{}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !called {
		t.Fatal("expected handler to be invoked")
	}
}

func TestHandlerValidationShortCircuitsExecution(t *testing.T) {
	called := false
	h := NewHandler[invalidMessage](func(ctx context.Context, msg invalidMessage) error {
		called = true
		return nil
	})

	err := h.Execute(context.Background(), invalidMessage{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when validation fails")
	}
}

func TestWrapErrorsAttachTextCodes(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code string
	}{
		{"validation", wrapValidationError(errors.New("bad message")), CodeCommandInvalid},
		{"canceled", wrapContextError(context.Canceled), CodeCommandCanceled},
		{"timeout", wrapContextError(context.DeadlineExceeded), CodeCommandTimeout},
		{"context", wrapContextError(errors.New("ctx broke")), CodeCommandContext},
		{"execution", wrapExecuteError(errors.New("boom")), CodeCommandFailed},
	}

	for _, tc := range cases {
		var wrapped *goerrors.Error
		if !errors.As(tc.err, &wrapped) {
			t.Fatalf("%s: expected wrapped error, got %v", tc.name, tc.err)
		}
		if wrapped.TextCode != tc.code {
			t.Fatalf("%s: expected text code %q, got %q", tc.name, tc.code, wrapped.TextCode)
		}
	}
}

func TestWrapErrorsKeepInnerWrapping(t *testing.T) {
	inner := wrapValidationError(errors.New("bad message"))
	if outer := wrapExecuteError(inner); outer != inner {
		t.Fatalf("expected already-wrapped error returned as-is, got %v", outer)
	}
}

func TestHandlerContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		called = true
		return nil
	})

	err := h.Execute(ctx, testMessage{})
	if err == nil {
		t.Fatal("expected context cancellation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when context is cancelled")
	}
}

func TestHandlerWrapsExecutionError(t *testing.T) {
	execErr := errors.New("boom")
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return execErr
	})

	err := h.Execute(context.Background(), testMessage{})
	if err == nil {
		t.Fatal("expected wrapped execution error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}

func TestHandlerHonoursTimeoutOption(t *testing.T) {
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(20 * time.Millisecond):
			return nil
		}
	}, WithTimeout[testMessage](10*time.Millisecond))

	err := h.Execute(context.Background(), testMessage{})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category for timeout, got %v", err)
	}
}

func TestHandlerEmitsTelemetry(t *testing.T) {
	var info TelemetryInfo
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return nil
	},
		WithOperation[testMessage]("test.operation"),
		WithTelemetry[testMessage](func(_ context.Context, _ testMessage, outcome TelemetryInfo) {
			info = outcome
		}),
	)

	if err := h.Execute(context.Background(), testMessage{}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if info.Status != TelemetryStatusSuccess {
		t.Fatalf("expected success status, got %q", info.Status)
	}
	if info.Operation != "test.operation" {
		t.Fatalf("expected operation propagated, got %q", info.Operation)
	}
	if info.Command != "blog.test.message" {
		t.Fatalf("expected command type propagated, got %q", info.Command)
	}
}

func TestHandlerTelemetryReportsFailure(t *testing.T) {
	execErr := errors.New("boom")
	var info TelemetryInfo
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return execErr
	}, WithTelemetry[testMessage](func(_ context.Context, _ testMessage, outcome TelemetryInfo) {
		info = outcome
	}))

	if err := h.Execute(context.Background(), testMessage{}); err == nil {
		t.Fatal("expected execution error")
	}
	if info.Status != TelemetryStatusFailed {
		t.Fatalf("expected failed status, got %q", info.Status)
	}
	if !errors.Is(info.Error, execErr) {
		t.Fatalf("expected original error in telemetry, got %v", info.Error)
	}
}

func TestHandlerMessageFieldsAppearInTelemetry(t *testing.T) {
	var info TelemetryInfo
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return nil
	},
		WithMessageFields[testMessage](func(testMessage) map[string]any {
			return map[string]any{"directory": "content"}
		}),
		WithTelemetry[testMessage](func(_ context.Context, _ testMessage, outcome TelemetryInfo) {
			info = outcome
		}),
	)

	if err := h.Execute(context.Background(), testMessage{}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if info.Fields["directory"] != "content" {
		t.Fatalf("expected message fields in telemetry, got %#v", info.Fields)
	}
}
