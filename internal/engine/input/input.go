// Package input turns SDL2 events into viewer events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType identifies a processed input event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
)

// Event is one translated SDL event. Only the fields relevant to Type are
// set.
type Event struct {
	Type EventType

	Key    sdl.Scancode
	Shift  bool
	Repeat bool // key-down generated by auto-repeat

	Width, Height int

	MouseX, MouseY int
	Button         uint8
	Wheel          float32
}

// Input collects the events of one frame and tracks which keys and mouse
// buttons are held across frames.
type Input struct {
	events  []Event
	keys    map[sdl.Scancode]bool
	buttons map[uint8]bool
}

// New creates an input handler.
func New() *Input {
	return &Input{
		events:  make([]Event, 0, 16),
		keys:    make(map[sdl.Scancode]bool),
		buttons: make(map[uint8]bool),
	}
}

// Update drains the SDL queue. It returns true once a quit was requested.
func (i *Input) Update() bool {
	i.events = i.events[:0]
	shift := sdl.GetModState()&sdl.KMOD_SHIFT != 0

	for raw := sdl.PollEvent(); raw != nil; raw = sdl.PollEvent() {
		ev, ok := translate(raw, shift)
		if !ok {
			continue
		}
		i.track(ev)
		i.events = append(i.events, ev)
		if ev.Type == EventQuit {
			return true
		}
	}
	return false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// Held reports whether key is currently down.
func (i *Input) Held(key sdl.Scancode) bool {
	return i.keys[key]
}

// ButtonHeld reports whether mouse button b is currently down.
func (i *Input) ButtonHeld(b uint8) bool {
	return i.buttons[b]
}

func (i *Input) track(ev Event) {
	switch ev.Type {
	case EventKeyDown:
		i.keys[ev.Key] = true
	case EventKeyUp:
		delete(i.keys, ev.Key)
	case EventMouseDown:
		i.buttons[ev.Button] = true
	case EventMouseUp:
		delete(i.buttons, ev.Button)
	}
}

// translate maps a raw SDL event to an Event. Events the viewer has no use
// for report false.
func translate(raw sdl.Event, shift bool) (Event, bool) {
	switch e := raw.(type) {
	case *sdl.QuitEvent:
		return Event{Type: EventQuit}, true

	case *sdl.WindowEvent:
		if e.Event != sdl.WINDOWEVENT_RESIZED {
			return Event{}, false
		}
		return Event{Type: EventWindowResize, Width: int(e.Data1), Height: int(e.Data2)}, true

	case *sdl.KeyboardEvent:
		ev := Event{Key: e.Keysym.Scancode, Shift: shift, Repeat: e.Repeat != 0}
		switch e.Type {
		case sdl.KEYDOWN:
			ev.Type = EventKeyDown
		case sdl.KEYUP:
			ev.Type = EventKeyUp
		default:
			return Event{}, false
		}
		return ev, true

	case *sdl.MouseMotionEvent:
		return Event{Type: EventMouseMove, MouseX: int(e.X), MouseY: int(e.Y)}, true

	case *sdl.MouseWheelEvent:
		return Event{Type: EventMouseWheel, Wheel: float32(e.Y)}, true

	case *sdl.MouseButtonEvent:
		ev := Event{MouseX: int(e.X), MouseY: int(e.Y), Button: e.Button}
		switch e.Type {
		case sdl.MOUSEBUTTONDOWN:
			ev.Type = EventMouseDown
		case sdl.MOUSEBUTTONUP:
			ev.Type = EventMouseUp
		default:
			return Event{}, false
		}
		return ev, true
	}
	return Event{}, false
}
