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

// Package input implements the keypad registers. Buttons are stored
// active low in KEYINPUT, the way the hardware wires them.
package input

import (
	"github.com/seliware/gopheradvance/hardware/irq"
	"github.com/seliware/gopheradvance/statefile"
)

// Key identifies one of the ten buttons, as a bit position in KEYINPUT.
type Key uint16

// List of valid Key values.
const (
	KeyA      Key = 0x0001
	KeyB      Key = 0x0002
	KeySelect Key = 0x0004
	KeyStart  Key = 0x0008
	KeyRight  Key = 0x0010
	KeyLeft   Key = 0x0020
	KeyUp     Key = 0x0040
	KeyDown   Key = 0x0080
	KeyR      Key = 0x0100
	KeyL      Key = 0x0200
)

// keycnt bits
const (
	keycntIRQ = 0x4000
	keycntAnd = 0x8000
)

// Input is the keypad state.
type Input struct {
	irq *irq.IRQ

	keyinput uint16
	keycnt   uint16
}

// NewInput is the preferred method of initialisation for the Input
// type.
func NewInput(ic *irq.IRQ) *Input {
	return &Input{
		irq:      ic,
		keyinput: 0x03ff,
	}
}

// Reset releases every button.
func (inp *Input) Reset() {
	inp.keyinput = 0x03ff
	inp.keycnt = 0
}

// Set presses or releases a button and re-evaluates the keypad
// interrupt condition.
func (inp *Input) Set(k Key, pressed bool) {
	if pressed {
		inp.keyinput &^= uint16(k)
	} else {
		inp.keyinput |= uint16(k)
	}
	inp.scanIRQ()
}

// KeyInput returns the KEYINPUT register.
func (inp *Input) KeyInput() uint16 {
	return inp.keyinput
}

// KeyControl returns the KEYCNT register.
func (inp *Input) KeyControl() uint16 {
	return inp.keycnt
}

// SetKeyControl writes the KEYCNT register.
func (inp *Input) SetKeyControl(data uint16, mask uint16) {
	inp.keycnt = (inp.keycnt &^ mask) | (data & mask)
	inp.scanIRQ()
}

// scanIRQ raises the keypad interrupt when the selected buttons are
// down, in either the OR or the AND sense selected by KEYCNT.
func (inp *Input) scanIRQ() {
	if inp.keycnt&keycntIRQ == 0 {
		return
	}

	selected := inp.keycnt & 0x03ff
	down := ^inp.keyinput & 0x03ff

	var hit bool
	if inp.keycnt&keycntAnd != 0 {
		hit = selected != 0 && down&selected == selected
	} else {
		hit = down&selected != 0
	}

	if hit {
		inp.irq.Raise(irq.Keypad)
	}
}

// SaveState serialises the keypad registers.
func (inp *Input) SaveState(w *statefile.Writer) {
	w.WriteUint16(inp.keyinput)
	w.WriteUint16(inp.keycnt)
}

// LoadState restores the keypad registers.
func (inp *Input) LoadState(r *statefile.Reader) error {
	inp.keyinput = r.ReadUint16()
	inp.keycnt = r.ReadUint16()
	return r.Err()
}
