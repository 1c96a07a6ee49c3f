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

// Package irq implements the GBA interrupt controller: the IE, IF and
// IME registers and the waking of a halted CPU.
package irq

import "github.com/seliware/gopheradvance/statefile"

// Flag identifies one interrupt source, as a bit position shared by the
// IE and IF registers.
type Flag uint16

// List of valid Flag values.
const (
	VBlank  Flag = 0x0001
	HBlank  Flag = 0x0002
	VCount  Flag = 0x0004
	Timer0  Flag = 0x0008
	Timer1  Flag = 0x0010
	Timer2  Flag = 0x0020
	Timer3  Flag = 0x0040
	Serial  Flag = 0x0080
	DMA0    Flag = 0x0100
	DMA1    Flag = 0x0200
	DMA2    Flag = 0x0400
	DMA3    Flag = 0x0800
	Keypad  Flag = 0x1000
	GamePak Flag = 0x2000
)

// Waker is how the controller pulls the CPU out of its low power states.
// A halted CPU wakes on any enabled pending interrupt regardless of IME
// and of the CPSR I bit.
type Waker interface {
	Wake()
}

// IRQ is the interrupt controller state.
type IRQ struct {
	waker Waker

	enable  uint16 // IE
	pending uint16 // IF
	master  bool   // IME
}

// NewIRQ is the preferred method of initialisation for the IRQ type.
func NewIRQ(waker Waker) *IRQ {
	return &IRQ{waker: waker}
}

// Reset the controller to the power-on state.
func (ic *IRQ) Reset() {
	ic.enable = 0
	ic.pending = 0
	ic.master = false
}

// Raise latches an interrupt into IF. If the interrupt is enabled in IE
// the CPU is woken from halt.
func (ic *IRQ) Raise(f Flag) {
	ic.pending |= uint16(f)
	if ic.enable&uint16(f) != 0 && ic.waker != nil {
		ic.waker.Wake()
	}
}

// Pending implements the cpu.InterruptLine interface. True when an
// enabled interrupt is latched.
func (ic *IRQ) Pending() bool {
	return ic.enable&ic.pending != 0
}

// Master implements the cpu.InterruptLine interface.
func (ic *IRQ) Master() bool {
	return ic.master
}

// Enable returns the IE register.
func (ic *IRQ) Enable() uint16 {
	return ic.enable
}

// SetEnable writes the IE register. Newly enabled pending interrupts
// wake the CPU.
func (ic *IRQ) SetEnable(data uint16, mask uint16) {
	ic.enable = (ic.enable &^ mask) | (data & mask & 0x3fff)
	if ic.Pending() && ic.waker != nil {
		ic.waker.Wake()
	}
}

// Flags returns the IF register.
func (ic *IRQ) Flags() uint16 {
	return ic.pending
}

// Acknowledge clears the IF bits set in data. Writing a one to a bit
// clears it, which is how the register behaves on hardware.
func (ic *IRQ) Acknowledge(data uint16, mask uint16) {
	ic.pending &^= data & mask
}

// MasterEnable returns IME as a register value.
func (ic *IRQ) MasterEnable() uint16 {
	if ic.master {
		return 1
	}
	return 0
}

// SetMasterEnable writes the IME register.
func (ic *IRQ) SetMasterEnable(data uint16, mask uint16) {
	if mask&1 != 0 {
		ic.master = data&1 == 1
	}
}

// SaveState serialises the interrupt controller.
func (ic *IRQ) SaveState(w *statefile.Writer) {
	w.WriteUint16(ic.enable)
	w.WriteUint16(ic.pending)
	w.WriteBool(ic.master)
}

// LoadState restores the interrupt controller.
func (ic *IRQ) LoadState(r *statefile.Reader) error {
	ic.enable = r.ReadUint16()
	ic.pending = r.ReadUint16()
	ic.master = r.ReadBool()
	return r.Err()
}
