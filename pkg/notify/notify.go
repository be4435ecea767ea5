// Package notify carries the fire-and-forget "data changed" broadcast that
// lets other parts of the application refresh their view of the cache after a
// mutation. Notifiers never propagate delivery failures to the mutation path.
package notify

import (
	"context"
	"io"

	"github.com/illmade-knight/go-contentstore/pkg/content"
)

// Op names the mutation that triggered a notification.
type Op string

const (
	OpSave   Op = "save"
	OpDelete Op = "delete"
	OpUpdate Op = "update"
)

// Event describes one change to a content collection.
type Event struct {
	Kind content.Kind `json:"kind"`
	Op   Op           `json:"op"`
}

// Notifier broadcasts change events. DataChanged must not block the caller
// and must not fail it: delivery is best-effort by contract.
type Notifier interface {
	DataChanged(ctx context.Context, event Event)
	io.Closer
}

// NopNotifier discards every event.
type NopNotifier struct{}

func (NopNotifier) DataChanged(context.Context, Event) {}

func (NopNotifier) Close() error { return nil }
