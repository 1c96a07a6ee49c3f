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

package cpu

// Mode is the processor mode field of the PSR.
type Mode uint32

// List of valid Mode values.
const (
	ModeUser       Mode = 0x10
	ModeFIQ        Mode = 0x11
	ModeIRQ        Mode = 0x12
	ModeSupervisor Mode = 0x13
	ModeAbort      Mode = 0x17
	ModeUndefined  Mode = 0x1b
	ModeSystem     Mode = 0x1f
)

func (m Mode) String() string {
	switch m {
	case ModeUser:
		return "usr"
	case ModeFIQ:
		return "fiq"
	case ModeIRQ:
		return "irq"
	case ModeSupervisor:
		return "svc"
	case ModeAbort:
		return "abt"
	case ModeUndefined:
		return "und"
	case ModeSystem:
		return "sys"
	}
	return "invalid"
}

// valid returns true for the seven defined processor modes.
func (m Mode) valid() bool {
	switch m {
	case ModeUser, ModeFIQ, ModeIRQ, ModeSupervisor, ModeAbort, ModeUndefined, ModeSystem:
		return true
	}
	return false
}

// Flag bits of the PSR.
const (
	FlagN uint32 = 1 << 31
	FlagZ uint32 = 1 << 30
	FlagC uint32 = 1 << 29
	FlagV uint32 = 1 << 28
	FlagI uint32 = 1 << 7
	FlagF uint32 = 1 << 6
	FlagT uint32 = 1 << 5
)

// PSR is a program status register, either the CPSR or one of the five
// banked SPSRs.
type PSR uint32

// Value returns the register as a plain 32 bit value.
func (p PSR) Value() uint32 {
	return uint32(p)
}

// Mode returns the processor mode field.
func (p PSR) Mode() Mode {
	return Mode(p & 0x1f)
}

// Thumb returns the state of the T bit.
func (p PSR) Thumb() bool {
	return uint32(p)&FlagT != 0
}

// N, Z, C and V return the state of the condition flags.
func (p PSR) N() bool { return uint32(p)&FlagN != 0 }
func (p PSR) Z() bool { return uint32(p)&FlagZ != 0 }
func (p PSR) C() bool { return uint32(p)&FlagC != 0 }
func (p PSR) V() bool { return uint32(p)&FlagV != 0 }

// IRQDisabled and FIQDisabled return the state of the interrupt disable
// bits.
func (p PSR) IRQDisabled() bool { return uint32(p)&FlagI != 0 }
func (p PSR) FIQDisabled() bool { return uint32(p)&FlagF != 0 }

func (p *PSR) set(flag uint32, on bool) {
	if on {
		*p |= PSR(flag)
	} else {
		*p &^= PSR(flag)
	}
}

// SetNZ sets the N and Z flags from a result value.
func (p *PSR) SetNZ(result uint32) {
	p.set(FlagN, result&0x80000000 != 0)
	p.set(FlagZ, result == 0)
}

// SetC sets the carry flag.
func (p *PSR) SetC(c bool) {
	p.set(FlagC, c)
}

// SetV sets the overflow flag.
func (p *PSR) SetV(v bool) {
	p.set(FlagV, v)
}

// SetThumb sets the T bit.
func (p *PSR) SetThumb(t bool) {
	p.set(FlagT, t)
}

// SetMode replaces the mode field.
func (p *PSR) SetMode(m Mode) {
	*p = (*p &^ 0x1f) | PSR(m&0x1f)
}
