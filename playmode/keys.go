// This file is part of GopherAdvance.
//
// GopherAdvance is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// GopherAdvance is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with GopherAdvance.  If not, see <https://www.gnu.org/licenses/>.

package playmode

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/seliware/gopheradvance/emulation"
	"github.com/seliware/gopheradvance/hardware/input"
)

// keyboard mapping. arrows for the pad, z/x for B/A, a/s for L/R.
var keyMap = map[sdl.Scancode]input.Key{
	sdl.SCANCODE_UP:        input.KeyUp,
	sdl.SCANCODE_DOWN:      input.KeyDown,
	sdl.SCANCODE_LEFT:      input.KeyLeft,
	sdl.SCANCODE_RIGHT:     input.KeyRight,
	sdl.SCANCODE_X:         input.KeyA,
	sdl.SCANCODE_Z:         input.KeyB,
	sdl.SCANCODE_A:         input.KeyL,
	sdl.SCANCODE_S:         input.KeyR,
	sdl.SCANCODE_RETURN:    input.KeyStart,
	sdl.SCANCODE_BACKSPACE: input.KeySelect,
}

// handleKey translates a keyboard event into emulator commands.
// Returns true when the session should end.
func handleKey(emu *emulation.Emulator, ev *sdl.KeyboardEvent) bool {
	if ev.Repeat != 0 {
		return false
	}
	pressed := ev.Type == sdl.KEYDOWN

	if k, ok := keyMap[ev.Keysym.Scancode]; ok {
		emu.Queue.Push(emulation.Command{Type: emulation.CmdKeyInput, Key: k, Pressed: pressed})
		return false
	}

	if !pressed {
		return false
	}

	switch ev.Keysym.Scancode {
	case sdl.SCANCODE_ESCAPE:
		return true
	case sdl.SCANCODE_F2:
		emu.Queue.Push(emulation.Command{Type: emulation.CmdQuicksave, Path: "quicksave.gadv"})
	case sdl.SCANCODE_F4:
		emu.Queue.Push(emulation.Command{Type: emulation.CmdQuickload, Path: "quicksave.gadv"})
	case sdl.SCANCODE_P:
		emu.Queue.Push(emulation.Command{Type: emulation.CmdPause})
	case sdl.SCANCODE_R:
		emu.Queue.Push(emulation.Command{Type: emulation.CmdRun, Value: 1})
	}

	return false
}
