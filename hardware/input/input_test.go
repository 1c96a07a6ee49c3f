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

package input_test

import (
	"testing"

	"github.com/seliware/gopheradvance/hardware/input"
	"github.com/seliware/gopheradvance/hardware/irq"
	"github.com/seliware/gopheradvance/test"
)

func TestActiveLow(t *testing.T) {
	inp := input.NewInput(irq.NewIRQ(nil))

	// all buttons released at power on
	test.Equate(t, inp.KeyInput(), uint16(0x03ff))

	inp.Set(input.KeyA, true)
	test.Equate(t, inp.KeyInput()&uint16(input.KeyA), uint16(0))

	inp.Set(input.KeyA, false)
	test.Equate(t, inp.KeyInput(), uint16(0x03ff))
}

func TestKeypadIRQOrMode(t *testing.T) {
	ic := irq.NewIRQ(nil)
	ic.SetEnable(uint16(irq.Keypad), 0xffff)
	inp := input.NewInput(ic)

	// interrupt on A or B
	inp.SetKeyControl(0x4000|uint16(input.KeyA)|uint16(input.KeyB), 0xffff)

	inp.Set(input.KeyB, true)
	test.Equate(t, ic.Flags()&uint16(irq.Keypad), uint16(irq.Keypad))
}

func TestKeypadIRQAndMode(t *testing.T) {
	ic := irq.NewIRQ(nil)
	ic.SetEnable(uint16(irq.Keypad), 0xffff)
	inp := input.NewInput(ic)

	// interrupt on A and B together
	inp.SetKeyControl(0xc000|uint16(input.KeyA)|uint16(input.KeyB), 0xffff)

	inp.Set(input.KeyA, true)
	test.Equate(t, ic.Flags(), uint16(0))

	inp.Set(input.KeyB, true)
	test.Equate(t, ic.Flags()&uint16(irq.Keypad), uint16(irq.Keypad))
}
