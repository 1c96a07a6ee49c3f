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

func armBranch(mc *CPU, op uint32) {
	offset := op & 0x00ffffff
	// sign extend and convert to bytes
	offset = uint32(int32(offset<<8) >> 6)

	if op&(1<<24) != 0 { // BL
		mc.reg[14] = mc.reg[15] - 4
	}

	mc.SetRegister(15, mc.reg[15]+offset)
}

func armBranchExchange(mc *CPU, op uint32) {
	rm := op & 0xf
	target := mc.reg[rm]

	if target&1 != 0 {
		mc.cpsr.SetThumb(true)
		mc.SetRegister(15, target&^1)
	} else {
		mc.cpsr.SetThumb(false)
		mc.SetRegister(15, target&^3)
	}
}

func armMRS(mc *CPU, op uint32) {
	rd := (op >> 12) & 0xf
	if op&(1<<22) != 0 {
		mc.SetRegister(int(rd), mc.SPSR().Value())
	} else {
		mc.SetRegister(int(rd), mc.cpsr.Value())
	}
}

func armMSR(mc *CPU, op uint32) {
	var value uint32
	if op&(1<<25) != 0 {
		imm := op & 0xff
		rot := ((op >> 8) & 0xf) * 2
		value = ror(imm, rot)
	} else {
		value = mc.reg[op&0xf]
	}

	// the field mask selects which bytes of the PSR are written
	var mask uint32
	if op&(1<<19) != 0 {
		mask |= 0xff000000
	}
	if op&(1<<18) != 0 {
		mask |= 0x00ff0000
	}
	if op&(1<<17) != 0 {
		mask |= 0x0000ff00
	}
	if op&(1<<16) != 0 {
		mask |= 0x000000ff
	}

	if op&(1<<22) != 0 {
		// SPSR of the current mode
		if p := mc.spsrPtr(); p != nil {
			*p = PSR((p.Value() &^ mask) | (value & mask))
		}
		return
	}

	// the control field of the CPSR is privileged
	if mc.cpsr.Mode() == ModeUser {
		mask &= 0xff000000
	}

	// the T bit cannot be written this way. a mode change goes through
	// the bank projection
	mask &^= FlagT

	newValue := (mc.cpsr.Value() &^ mask) | (value & mask)
	newMode := Mode(newValue & 0x1f)
	if mask&0xff != 0 && newMode.valid() {
		mc.setMode(newMode)
	}
	mc.cpsr = PSR((mc.cpsr.Value() &^ mask) | (value & mask & 0xffffffe0)) | (mc.cpsr & 0x1f)
}

func armSoftwareInterrupt(mc *CPU, op uint32) {
	mc.Exception(ExceptionSWI)
}

func armUndefined(mc *CPU, op uint32) {
	mc.Exception(ExceptionUndefined)
}
