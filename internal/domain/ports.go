package domain

import "context"

// EventDispatcher receives every applied store mutation. It is registered
// once at the root of the state tree.
type EventDispatcher interface {
	Dispatch(event Event) error
}

// DispatcherFunc adapts a function to EventDispatcher.
type DispatcherFunc func(event Event) error

// Dispatch calls f(event).
func (f DispatcherFunc) Dispatch(event Event) error { return f(event) }

// IDGenerator produces opaque identifiers, unique within each collection.
type IDGenerator interface {
	NewID() string
}

// StateRepository loads and saves the whole state as one document.
// Implementations can be file-based or in-memory.
type StateRepository interface {
	// Load returns found=false with a nil error when nothing was saved yet.
	Load(ctx context.Context) (state *State, found bool, err error)
	Save(ctx context.Context, state *State) error
}

// Notifier delivers messages to the user. Implementations can write to
// stdout or to the terminal UI.
type Notifier interface {
	Notify(ctx context.Context, message string) error
	NotifyUrgent(ctx context.Context, message string) error
}

// CommandParser converts raw user input into structured commands.
type CommandParser interface {
	Parse(ctx context.Context, input string) (*Command, error)
}
