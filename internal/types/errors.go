package types

import (
	"context"
	"errors"

	"github.com/GriffinCanCode/AgentOS/assistant/internal/apps"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/notify"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/reminder"
)

var (
	// ErrUnknownCommand means no service or method matches the command.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrMissingParameter means a required parameter is absent or empty.
	ErrMissingParameter = errors.New("missing parameter")
	// ErrInvalidParameter means a parameter has the wrong type or value.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// Kind classifies errors for clients.
type Kind string

const (
	KindResolutionNotFound Kind = "ResolutionNotFound"
	KindParseError         Kind = "ParseError"
	KindLaunchSpawnFailed  Kind = "LaunchSpawnFailed"
	KindTerminateFailed    Kind = "TerminateFailed"
	KindUnknownCommand     Kind = "UnknownCommand"
	KindMissingParameter   Kind = "MissingParameter"
	KindInvalidParameter   Kind = "InvalidParameter"
	KindNotFound           Kind = "NotFound"
	KindUnavailable        Kind = "Unavailable"
	KindTimeout            Kind = "Timeout"
	KindInternal           Kind = "Internal"
)

var kinds = []struct {
	err  error
	kind Kind
}{
	{apps.ErrNotFound, KindResolutionNotFound},
	{apps.ErrNotResolved, KindResolutionNotFound},
	{apps.ErrSpawnFailed, KindLaunchSpawnFailed},
	{apps.ErrTerminateFailed, KindTerminateFailed},
	{reminder.ErrParse, KindParseError},
	{reminder.ErrNotFound, KindNotFound},
	{reminder.ErrClosed, KindUnavailable},
	{notify.ErrQueueFull, KindUnavailable},
	{notify.ErrClosed, KindUnavailable},
	{ErrUnknownCommand, KindUnknownCommand},
	{ErrMissingParameter, KindMissingParameter},
	{ErrInvalidParameter, KindInvalidParameter},
	{context.DeadlineExceeded, KindTimeout},
	{context.Canceled, KindTimeout},
}

// KindOf maps err to its taxonomy kind; unknown errors are Internal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}
