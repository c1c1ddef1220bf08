package input

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"
)

func TestTranslateKeyboard(t *testing.T) {
	down := &sdl.KeyboardEvent{Type: sdl.KEYDOWN, Repeat: 1, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_TAB}}
	ev, ok := translate(down, true)
	if !ok {
		t.Fatal("key down not translated")
	}
	if ev.Type != EventKeyDown || ev.Key != sdl.SCANCODE_TAB || !ev.Shift || !ev.Repeat {
		t.Errorf("unexpected event %+v", ev)
	}

	up := &sdl.KeyboardEvent{Type: sdl.KEYUP, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_TAB}}
	ev, _ = translate(up, false)
	if ev.Type != EventKeyUp || ev.Repeat {
		t.Errorf("unexpected event %+v", ev)
	}
}

func TestTranslateIgnoresOtherWindowEvents(t *testing.T) {
	if _, ok := translate(&sdl.WindowEvent{Event: sdl.WINDOWEVENT_MOVED}, false); ok {
		t.Error("window move should be ignored")
	}
	ev, ok := translate(&sdl.WindowEvent{Event: sdl.WINDOWEVENT_RESIZED, Data1: 800, Data2: 600}, false)
	if !ok || ev.Width != 800 || ev.Height != 600 {
		t.Errorf("resize = %+v, %v", ev, ok)
	}
}

func TestTrackHeldState(t *testing.T) {
	in := New()

	in.track(Event{Type: EventKeyDown, Key: sdl.SCANCODE_LEFT})
	in.track(Event{Type: EventMouseDown, Button: sdl.BUTTON_LEFT})
	if !in.Held(sdl.SCANCODE_LEFT) || !in.ButtonHeld(sdl.BUTTON_LEFT) {
		t.Fatal("expected key and button held")
	}

	in.track(Event{Type: EventKeyUp, Key: sdl.SCANCODE_LEFT})
	in.track(Event{Type: EventMouseUp, Button: sdl.BUTTON_LEFT})
	if in.Held(sdl.SCANCODE_LEFT) || in.ButtonHeld(sdl.BUTTON_LEFT) {
		t.Error("expected key and button released")
	}
}
