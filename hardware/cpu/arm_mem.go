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

import (
	"math/bits"

	"github.com/seliware/gopheradvance/hardware/memory"
)

func armSingleTransfer(mc *CPU, op uint32) {
	rn := (op >> 16) & 0xf
	rd := (op >> 12) & 0xf

	pre := op&(1<<24) != 0
	up := op&(1<<23) != 0
	byteWidth := op&(1<<22) != 0
	wb := op&(1<<21) != 0
	load := op&(1<<20) != 0

	var offset uint32
	if op&(1<<25) != 0 {
		// register offset with an immediate shift amount
		rm := op & 0xf
		typ := (op >> 5) & 0x3
		amount := (op >> 7) & 0x1f
		offset, _ = mc.shift(typ, mc.reg[rm], amount, false)
	} else {
		offset = op & 0xfff
	}

	base := mc.reg[rn]
	addr := base
	if pre {
		if up {
			addr += offset
		} else {
			addr -= offset
		}
	}

	writeback := func() {
		if pre && !wb {
			return
		}
		v := addr
		if !pre {
			if up {
				v = base + offset
			} else {
				v = base - offset
			}
		}
		mc.reg[rn] = v
	}

	if load {
		var v uint32
		if byteWidth {
			v = mc.read8(addr, memory.AccessNonSeq)
		} else {
			v = mc.read32(addr, memory.AccessNonSeq)
		}
		mc.internal(1)
		writeback()
		mc.SetRegister(int(rd), v)
	} else {
		v := mc.reg[rd]
		if rd == 15 {
			// a stored PC is a fetch further on than the value read by
			// other instructions
			v += 4
		}
		if byteWidth {
			mc.write8(addr, uint8(v), memory.AccessNonSeq)
		} else {
			mc.write32(addr, v, memory.AccessNonSeq)
		}
		writeback()
	}
}

func armHalfTransfer(mc *CPU, op uint32) {
	rn := (op >> 16) & 0xf
	rd := (op >> 12) & 0xf

	pre := op&(1<<24) != 0
	up := op&(1<<23) != 0
	wb := op&(1<<21) != 0
	load := op&(1<<20) != 0
	sh := (op >> 5) & 0x3

	var offset uint32
	if op&(1<<22) != 0 {
		offset = (op>>4)&0xf0 | op&0xf
	} else {
		offset = mc.reg[op&0xf]
	}

	base := mc.reg[rn]
	addr := base
	if pre {
		if up {
			addr += offset
		} else {
			addr -= offset
		}
	}

	writeback := func() {
		if pre && !wb {
			return
		}
		v := addr
		if !pre {
			if up {
				v = base + offset
			} else {
				v = base - offset
			}
		}
		mc.reg[rn] = v
	}

	if load {
		var v uint32
		switch sh {
		case 0x1: // LDRH. the bus rotates a halfword read from an odd address
			v = mc.read16(addr, memory.AccessNonSeq)
		case 0x2: // LDRSB
			v = uint32(int32(int8(mc.read8(addr, memory.AccessNonSeq))))
		case 0x3: // LDRSH. from an odd address the halfword degenerates
			// to a sign extended byte
			if addr&1 != 0 {
				v = uint32(int32(int8(mc.read8(addr, memory.AccessNonSeq))))
			} else {
				v = uint32(int32(int16(mc.read16(addr, memory.AccessNonSeq))))
			}
		}
		mc.internal(1)
		writeback()
		mc.SetRegister(int(rd), v)
	} else {
		// only STRH exists in the store direction
		v := mc.reg[rd]
		if rd == 15 {
			v += 4
		}
		mc.write16(addr, uint16(v), memory.AccessNonSeq)
		writeback()
	}
}

func armSwap(mc *CPU, op uint32) {
	rn := (op >> 16) & 0xf
	rd := (op >> 12) & 0xf
	rm := op & 0xf
	addr := mc.reg[rn]

	if op&(1<<22) != 0 { // SWPB
		v := mc.read8(addr, memory.AccessNonSeq)
		mc.write8(addr, uint8(mc.reg[rm]), memory.AccessNonSeq)
		mc.SetRegister(int(rd), v)
	} else {
		v := mc.read32(addr, memory.AccessNonSeq)
		mc.write32(addr, mc.reg[rm], memory.AccessNonSeq)
		mc.SetRegister(int(rd), v)
	}
	mc.internal(1)
}

func armBlockTransfer(mc *CPU, op uint32) {
	rn := (op >> 16) & 0xf
	pre := op&(1<<24) != 0
	up := op&(1<<23) != 0
	psr := op&(1<<22) != 0
	wb := op&(1<<21) != 0
	load := op&(1<<20) != 0

	rlist := op & 0xffff

	// an empty register list transfers R15 and moves the base by 0x40
	emptyList := rlist == 0
	if emptyList {
		rlist = 1 << 15
	}

	count := uint32(bits.OnesCount32(rlist))
	span := count * 4
	if emptyList {
		span = 0x40
	}

	// transfers always run from the lowest address upwards
	start := mc.reg[rn]
	final := start
	if up {
		final += span
		if pre {
			start += 4
		}
	} else {
		final -= span
		start = final
		if !pre {
			start += 4
		}
	}

	// the S bit selects the user register bank, except for an LDM that
	// includes the PC, where it requests a CPSR restore instead
	userBank := psr && !(load && rlist&(1<<15) != 0)

	first := bits.TrailingZeros32(rlist)

	addr := start
	acc := memory.AccessNonSeq

	if load {
		// writeback happens early in the instruction. when the base is
		// in the register list the loaded value lands later and wins
		if wb {
			mc.reg[rn] = final
		}

		for i := 0; i < 16; i++ {
			if rlist&(1<<i) == 0 {
				continue
			}
			v := mc.read32(addr, acc)
			acc = memory.AccessSeq
			addr += 4

			if userBank {
				mc.setRegUser(i, v)
			} else {
				if i == 15 && psr {
					mc.restoreCPSR()
				}
				mc.SetRegister(i, v)
			}
		}
		mc.internal(1)
	} else {
		for i := 0; i < 16; i++ {
			if rlist&(1<<i) == 0 {
				continue
			}

			var v uint32
			if userBank {
				v = mc.regUser(i)
			} else {
				v = mc.reg[i]
			}
			if i == 15 {
				v += 4
			}
			if uint32(i) == rn && wb && i != first {
				// a stored base that is not the first register in the
				// list stores the written back value
				v = final
			}

			mc.write32(addr, v, acc)
			acc = memory.AccessSeq
			addr += 4
		}
		if wb {
			mc.reg[rn] = final
		}
	}
}
