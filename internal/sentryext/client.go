package sentryext

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
)

type Params struct {
	// Disabled turns off error reporting regardless of the DSN.
	Disabled bool
	// DSN is the Data Source Name for the sentry client. An empty DSN
	// also disables sending.
	DSN string
	// AttachStacktrace is a flag to attach stacktraces to sentry events.
	AttachStacktrace bool
	// Release is the version of the application.
	Release string
	// Environment is the environment the application is running in.
	Environment string
	// BeforeSend is a callback to modify events before sending them.
	BeforeSend func(*sentry.Event, *sentry.EventHint) *sentry.Event
	// LRUSize is the size of the cache of recently sent errors.
	LRUSize int
}

type Client struct {
	// Recent is the cache of recently sent errors, used to avoid
	// reporting the same error multiple times in a short window.
	Recent *cache
}

// New initializes the sentry client.
//
// With Disabled set or an empty DSN the client still accepts captures but
// never sends anything. If the cache cannot be created, New logs an error
// and returns nil.
func New(params Params) *Client {
	if params.Disabled {
		params.DSN = ""
	}
	if params.BeforeSend == nil {
		params.BeforeSend = RemoveBottomFrames
	}

	if err := sentry.Init(
		sentry.ClientOptions{
			Dsn:              params.DSN,
			AttachStacktrace: params.AttachStacktrace,
			Release:          params.Release,
			BeforeSend:       params.BeforeSend,
			Environment:      params.Environment,
		}); err != nil {
		slog.Error("sentryext: New: failed to initialize sentry", "err", err)
	}

	if params.DSN == "" {
		slog.Debug("sentryext: New: sentry is disabled, no DSN provided")
	} else {
		slog.Debug("sentryext: New: sentry is enabled", "dsn", params.DSN)
	}

	cache, err := newCache(params.LRUSize)
	if err != nil {
		slog.Error("sentryext: New: failed to create cache", "err", err)
		return nil
	}

	return &Client{
		Recent: cache,
	}
}

// CaptureException sends an error to sentry as an error level event,
// enriched with the given tags.
func (s *Client) CaptureException(err error, tags map[string]string) {
	if !s.Recent.shouldCapture(err) {
		return
	}

	localHub := sentry.CurrentHub().Clone()
	localHub.ConfigureScope(
		func(scope *sentry.Scope) {
			scope.SetTags(tags)
		},
	)
	localHub.CaptureException(err)
}

// CaptureMessage sends a non-error message to sentry as an info level
// event, enriched with the given tags.
func (s *Client) CaptureMessage(msg string, tags map[string]string) {
	if !s.Recent.shouldCapture(errors.New(msg)) {
		return
	}

	localHub := sentry.CurrentHub().Clone()
	localHub.ConfigureScope(
		func(scope *sentry.Scope) {
			scope.SetTags(tags)
		},
	)
	localHub.CaptureMessage(msg)
}

// Flush waits for buffered events to be sent, up to the given timeout.
func (s *Client) Flush(timeout time.Duration) bool {
	hub := sentry.CurrentHub()
	return hub.Flush(timeout)
}

// RemoveBottomFrames trims the bottom-most frames of each stacktrace when
// they come from this package or the logging wrapper, so that reported
// stacktraces end at the call site that captured the error.
func RemoveBottomFrames(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
	for i, exception := range event.Exception {
		if exception.Stacktrace == nil {
			continue
		}
		frames := exception.Stacktrace.Frames
		framesLen := len(frames)
		if framesLen < 3 {
			continue
		}
		for j := framesLen - 1; j >= framesLen-3; j-- {
			frame := frames[j]
			if strings.HasSuffix(frame.AbsPath, "client.go") || strings.HasSuffix(frame.AbsPath, "logging.go") {
				frames = frames[:j]
			} else {
				break
			}
		}
		event.Exception[i].Stacktrace.Frames = frames
	}
	return event
}
