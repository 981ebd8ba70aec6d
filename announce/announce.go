// Package announce carries crafting announcements and user notices to the
// host. Announcements go to a shared append-only log; notices are private
// warnings and errors shown to the acting user.
package announce

import (
	"context"
	"errors"
)

// Kind identifies which announcement was made.
type Kind string

const (
	KindStarted        Kind = "started"
	KindProgress       Kind = "progress"
	KindSetback        Kind = "setback"
	KindFinished       Kind = "finished"
	KindFinishDegraded Kind = "finish_degraded"
	KindFatalSetback   Kind = "fatal_setback"
)

// Announcement is a formatted message recorded under a speaker's name.
type Announcement struct {
	OwnerID string `json:"owner_id"`
	Speaker string `json:"speaker"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// Level is the severity of a notice.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is a message shown only to the user who acted.
type Notice struct {
	RecipientID string `json:"recipient_id"`
	Level       Level  `json:"level"`
	Key         string `json:"key"`
	Message     string `json:"message"`
}

// Sink records announcements.
type Sink interface {
	Announce(ctx context.Context, a Announcement) error
}

// Notifier delivers notices.
type Notifier interface {
	Notify(ctx context.Context, n Notice) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, a Announcement) error

// Announce calls f.
func (f SinkFunc) Announce(ctx context.Context, a Announcement) error { return f(ctx, a) }

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notice) error

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, n Notice) error { return f(ctx, n) }

// Discard drops every announcement and notice.
var Discard = discard{}

type discard struct{}

func (discard) Announce(context.Context, Announcement) error { return nil }
func (discard) Notify(context.Context, Notice) error         { return nil }

// Multi fans an announcement out to every sink and joins their errors.
func Multi(sinks ...Sink) Sink {
	return multiSink(sinks)
}

type multiSink []Sink

func (m multiSink) Announce(ctx context.Context, a Announcement) error {
	var errs []error
	for _, s := range m {
		if err := s.Announce(ctx, a); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
