package q3log

import "github.com/q3log/q3log-go/pkg/q3log/event"

// Event is one raw server event.
type Event = event.Event

// EventType is the kind of a raw server event.
type EventType = event.Type

// Event types, re-exported from the event package.
const (
	EventInitGame              = event.InitGame
	EventClientConnect         = event.ClientConnect
	EventClientUserinfoChanged = event.ClientUserinfoChanged
	EventClientDisconnect      = event.ClientDisconnect
	EventKill                  = event.Kill
	EventExit                  = event.Exit
	EventScore                 = event.Score
	EventShutdownGame          = event.ShutdownGame
	EventError                 = event.Error
)
