package input_test

import (
	"testing"

	"github.com/bloeys/nfbo/input"
	"github.com/veandco/go-sdl2/sdl"
)

func keyEvent(kc sdl.Keycode, state uint8) *sdl.KeyboardEvent {
	return &sdl.KeyboardEvent{
		State:  state,
		Keysym: sdl.Keysym{Sym: kc},
	}
}

func TestKeyStates(t *testing.T) {

	input.ClearKeyboardState()
	input.EventLoopStart()

	input.HandleKeyboardEvent(keyEvent(sdl.K_SPACE, sdl.PRESSED))
	if !input.KeyClicked(sdl.K_SPACE) || !input.KeyDown(sdl.K_SPACE) || input.KeyReleased(sdl.K_SPACE) {
		t.Fatal("pressed key not clicked and down")
	}

	// Held over the next frame
	input.EventLoopStart()
	if input.KeyClicked(sdl.K_SPACE) || !input.KeyDown(sdl.K_SPACE) {
		t.Fatal("held key should be down without a click")
	}

	input.HandleKeyboardEvent(keyEvent(sdl.K_SPACE, sdl.RELEASED))
	if !input.KeyReleased(sdl.K_SPACE) || input.KeyDown(sdl.K_SPACE) {
		t.Fatal("released key not reported")
	}

	input.EventLoopStart()
	if input.KeyReleased(sdl.K_SPACE) {
		t.Fatal("release reported for two frames")
	}

	if input.KeyDown(sdl.K_m) || input.KeyClicked(sdl.K_m) || input.KeyReleased(sdl.K_m) {
		t.Fatal("unseen key reported")
	}
}

func TestClearKeyboardState(t *testing.T) {

	input.EventLoopStart()
	input.HandleKeyboardEvent(keyEvent(sdl.K_c, sdl.PRESSED))

	input.ClearKeyboardState()
	if input.KeyDown(sdl.K_c) || input.KeyClicked(sdl.K_c) {
		t.Fatal("key still down after clearing")
	}
}
