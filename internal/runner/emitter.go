package runner

import (
	"context"
)

// RunEventType enumerates the events a background task can stream.
type RunEventType int

const (
	EventTypeUnspecified RunEventType = iota
	EventTypeLog
	EventTypeProgress
	EventTypeStatus // plan status transition
	EventTypeComplete
	EventTypeError
)

// RunEvent represents a streamable event from a background task.
type RunEvent struct {
	Type     RunEventType
	Message  string
	Progress int32 // 0-100
	Status   string
	Task     string // Current task name
}

// RunEventEmitter allows background tasks to emit events during execution.
type RunEventEmitter interface {
	Emit(event RunEvent)
	EmitLog(message string)
	EmitProgress(percent int32, message string)
	EmitStatus(status string, percent int32)
}

type emitterKey struct{}

// WithEmitter attaches an emitter to the context.
func WithEmitter(ctx context.Context, emitter RunEventEmitter) context.Context {
	return context.WithValue(ctx, emitterKey{}, emitter)
}

// EmitterFrom retrieves the emitter from context, or returns a no-op emitter.
func EmitterFrom(ctx context.Context) RunEventEmitter {
	if e, ok := ctx.Value(emitterKey{}).(RunEventEmitter); ok {
		return e
	}
	return noopEmitter{}
}

// noopEmitter discards all events.
type noopEmitter struct{}

func (noopEmitter) Emit(RunEvent)              {}
func (noopEmitter) EmitLog(string)             {}
func (noopEmitter) EmitProgress(int32, string) {}
func (noopEmitter) EmitStatus(string, int32)   {}

// ChannelEmitter sends events to a channel.
type ChannelEmitter struct {
	Ch   chan<- RunEvent
	Task string
}

func (e *ChannelEmitter) Emit(event RunEvent) {
	event.Task = e.Task
	select {
	case e.Ch <- event:
	default: // non-blocking
	}
}

func (e *ChannelEmitter) EmitLog(message string) {
	e.Emit(RunEvent{Type: EventTypeLog, Message: message})
}

func (e *ChannelEmitter) EmitProgress(percent int32, message string) {
	e.Emit(RunEvent{Type: EventTypeProgress, Progress: percent, Message: message})
}

func (e *ChannelEmitter) EmitStatus(status string, percent int32) {
	e.Emit(RunEvent{Type: EventTypeStatus, Status: status, Progress: percent})
}
