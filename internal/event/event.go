package event

// Handler lists are raised synchronously on the caller's goroutine, in
// registration order. Nothing here is safe for concurrent use; events are
// raised from the main loop only.

// ID identifies a registered handler so it can be removed again.
type ID int

// Void is a list of handlers that take no arguments.
type Void struct {
	next     ID
	handlers []voidEntry
}

type voidEntry struct {
	id ID
	fn func()
}

// Register adds fn to the list and returns its ID.
func (v *Void) Register(fn func()) ID {
	v.next++
	v.handlers = append(v.handlers, voidEntry{id: v.next, fn: fn})
	return v.next
}

// Unregister removes the handler with the given ID. Unknown IDs are ignored.
func (v *Void) Unregister(id ID) {
	for i, h := range v.handlers {
		if h.id == id {
			v.handlers = append(v.handlers[:i], v.handlers[i+1:]...)
			return
		}
	}
}

// Raise calls every handler.
func (v *Void) Raise() {
	for _, h := range v.handlers {
		h.fn()
	}
}

// Len returns the number of registered handlers.
func (v *Void) Len() int { return len(v.handlers) }

// Int is a list of handlers that take a single int argument.
type Int struct {
	next     ID
	handlers []intEntry
}

type intEntry struct {
	id ID
	fn func(int)
}

func (e *Int) Register(fn func(int)) ID {
	e.next++
	e.handlers = append(e.handlers, intEntry{id: e.next, fn: fn})
	return e.next
}

func (e *Int) Unregister(id ID) {
	for i, h := range e.handlers {
		if h.id == id {
			e.handlers = append(e.handlers[:i], e.handlers[i+1:]...)
			return
		}
	}
}

func (e *Int) Raise(arg int) {
	for _, h := range e.handlers {
		h.fn(arg)
	}
}

func (e *Int) Len() int { return len(e.handlers) }

// Block is a list of handlers notified about a changed block position.
type Block struct {
	next     ID
	handlers []blockEntry
}

type blockEntry struct {
	id ID
	fn func(x, y, z int)
}

func (e *Block) Register(fn func(x, y, z int)) ID {
	e.next++
	e.handlers = append(e.handlers, blockEntry{id: e.next, fn: fn})
	return e.next
}

func (e *Block) Unregister(id ID) {
	for i, h := range e.handlers {
		if h.id == id {
			e.handlers = append(e.handlers[:i], e.handlers[i+1:]...)
			return
		}
	}
}

func (e *Block) Raise(x, y, z int) {
	for _, h := range e.handlers {
		h.fn(x, y, z)
	}
}

func (e *Block) Len() int { return len(e.handlers) }

// Bus groups every notification exchanged between the world, the texture
// pipeline, the graphics context and the renderers.
type Bus struct {
	// Texture events
	AtlasChanged Void

	// Block definition / world events
	BlockDefChanged Void
	BlockChanged    Block
	EnvVarChanged   Int
	NewMap          Void
	NewMapLoaded    Void

	// Graphics events
	ViewDistanceChanged Void
	ProjectionChanged   Void
	ContextLost         Void
	ContextRecreated    Void
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{}
}
