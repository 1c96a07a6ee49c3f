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
	"github.com/seliware/gopheradvance/hardware/memory"
)

// thumbHandler executes one Thumb instruction.
type thumbHandler func(mc *CPU, opcode uint16)

// thumbTable is indexed by bits 15-6 of the opcode.
var thumbTable [1024]thumbHandler

func buildThumbTable() {
	for i := uint32(0); i < 1024; i++ {
		thumbTable[i] = classifyThumb(i)
	}
}

func classifyThumb(i uint32) thumbHandler {
	switch {
	case i>>5 == 0x03: // 00011: add/subtract
		return thumbAddSub
	case i>>7 == 0x0: // 000: shift by immediate
		return thumbShift
	case i>>7 == 0x1: // 001: immediate operations
		return thumbImmediate
	case i>>4 == 0x10: // 010000: register ALU operations
		return thumbALU
	case i>>4 == 0x11: // 010001: high register operations and BX
		return thumbHiReg
	case i>>5 == 0x09: // 01001: PC relative load
		return thumbPCRelativeLoad
	case i>>6 == 0x5: // 0101: register offset load/store
		return thumbRegisterOffset
	case i>>7 == 0x3: // 011: immediate offset load/store
		return thumbImmediateOffset
	case i>>6 == 0x8: // 1000: halfword load/store
		return thumbHalfword
	case i>>6 == 0x9: // 1001: SP relative load/store
		return thumbSPRelative
	case i>>6 == 0xa: // 1010: load address
		return thumbLoadAddress
	case i>>2 == 0xb0: // 10110000: adjust stack pointer
		return thumbAdjustSP
	case i>>6 == 0xb && i&0x18 == 0x10: // 1011x10x: push/pop
		return thumbPushPop
	case i>>6 == 0xc: // 1100: multiple load/store
		return thumbMultiple
	case i>>6 == 0xd: // 1101: conditional branch, SWI
		switch (i >> 2) & 0xf {
		case 0xf:
			return thumbSoftwareInterrupt
		case 0xe:
			return thumbUndefined
		}
		return thumbCondBranch
	case i>>5 == 0x1c: // 11100: unconditional branch
		return thumbBranch
	case i>>6 == 0xf: // 1111: long branch and link
		if i&0x20 != 0 {
			return thumbBLSuffix
		}
		return thumbBLPrefix
	}
	return thumbUndefined
}

// format 1: LSL/LSR/ASR by immediate.
func thumbShift(mc *CPU, op uint16) {
	typ := uint32(op>>11) & 0x3
	amount := uint32(op>>6) & 0x1f
	rs := (op >> 3) & 0x7
	rd := op & 0x7

	v, carry := mc.shift(typ, mc.reg[rs], amount, false)
	mc.reg[rd] = v
	mc.cpsr.SetNZ(v)
	mc.cpsr.SetC(carry)
}

// format 2: three operand add/subtract, register or small immediate.
func thumbAddSub(mc *CPU, op uint16) {
	rd := op & 0x7
	rs := (op >> 3) & 0x7

	var op2 uint32
	if op&(1<<10) != 0 {
		op2 = uint32(op>>6) & 0x7
	} else {
		op2 = mc.reg[(op>>6)&0x7]
	}

	if op&(1<<9) != 0 {
		mc.reg[rd] = mc.addc(mc.reg[rs], ^op2, 1, true)
	} else {
		mc.reg[rd] = mc.addc(mc.reg[rs], op2, 0, true)
	}
}

// format 3: MOV/CMP/ADD/SUB with an 8 bit immediate.
func thumbImmediate(mc *CPU, op uint16) {
	rd := (op >> 8) & 0x7
	imm := uint32(op & 0xff)

	switch (op >> 11) & 0x3 {
	case 0x0: // MOV
		mc.reg[rd] = imm
		mc.cpsr.SetNZ(imm)
	case 0x1: // CMP
		mc.addc(mc.reg[rd], ^imm, 1, true)
	case 0x2: // ADD
		mc.reg[rd] = mc.addc(mc.reg[rd], imm, 0, true)
	case 0x3: // SUB
		mc.reg[rd] = mc.addc(mc.reg[rd], ^imm, 1, true)
	}
}

// format 4: the register to register ALU operations.
func thumbALU(mc *CPU, op uint16) {
	rs := (op >> 3) & 0x7
	rd := op & 0x7

	a := mc.reg[rd]
	b := mc.reg[rs]
	carry := boolToUint32(mc.cpsr.C())

	logical := func(v uint32) {
		mc.reg[rd] = v
		mc.cpsr.SetNZ(v)
	}

	shifted := func(typ uint32) {
		v, c := mc.shift(typ, a, b&0xff, true)
		mc.internal(1)
		mc.reg[rd] = v
		mc.cpsr.SetNZ(v)
		mc.cpsr.SetC(c)
	}

	switch (op >> 6) & 0xf {
	case 0x0: // AND
		logical(a & b)
	case 0x1: // EOR
		logical(a ^ b)
	case 0x2: // LSL
		shifted(0)
	case 0x3: // LSR
		shifted(1)
	case 0x4: // ASR
		shifted(2)
	case 0x5: // ADC
		mc.reg[rd] = mc.addc(a, b, carry, true)
	case 0x6: // SBC
		mc.reg[rd] = mc.addc(a, ^b, carry, true)
	case 0x7: // ROR
		shifted(3)
	case 0x8: // TST
		v := a & b
		mc.cpsr.SetNZ(v)
	case 0x9: // NEG
		mc.reg[rd] = mc.addc(0, ^b, 1, true)
	case 0xa: // CMP
		mc.addc(a, ^b, 1, true)
	case 0xb: // CMN
		mc.addc(a, b, 0, true)
	case 0xc: // ORR
		logical(a | b)
	case 0xd: // MUL
		mc.internal(multiplierCycles(a))
		logical(a * b)
	case 0xe: // BIC
		logical(a &^ b)
	case 0xf: // MVN
		logical(^b)
	}
}

// format 5: operations on the high registers, and BX.
func thumbHiReg(mc *CPU, op uint16) {
	rd := int(op&0x7) | int(op>>4)&0x8
	rs := int(op>>3) & 0xf

	switch (op >> 8) & 0x3 {
	case 0x0: // ADD
		mc.SetRegister(rd, mc.reg[rd]+mc.reg[rs])
		if rd == 15 {
			mc.reg[15] &^= 1
		}
	case 0x1: // CMP
		mc.addc(mc.reg[rd], ^mc.reg[rs], 1, true)
	case 0x2: // MOV
		mc.SetRegister(rd, mc.reg[rs])
		if rd == 15 {
			mc.reg[15] &^= 1
		}
	case 0x3: // BX
		target := mc.reg[rs]
		if target&1 != 0 {
			mc.SetRegister(15, target&^1)
		} else {
			// bit zero clear: return to ARM state
			mc.cpsr.SetThumb(false)
			mc.SetRegister(15, target&^3)
		}
	}
}

// format 6: PC relative load.
func thumbPCRelativeLoad(mc *CPU, op uint16) {
	rd := (op >> 8) & 0x7
	imm := uint32(op&0xff) * 4

	addr := (mc.reg[15] &^ 2) + imm
	mc.reg[rd] = mc.read32(addr, memory.AccessNonSeq)
	mc.internal(1)
}

// formats 7 and 8: load/store with register offset.
func thumbRegisterOffset(mc *CPU, op uint16) {
	rd := op & 0x7
	rb := (op >> 3) & 0x7
	ro := (op >> 6) & 0x7
	addr := mc.reg[rb] + mc.reg[ro]

	if op&(1<<9) == 0 {
		// format 7: word and byte
		switch (op >> 10) & 0x3 {
		case 0x0: // STR
			mc.write32(addr, mc.reg[rd], memory.AccessNonSeq)
		case 0x1: // STRB
			mc.write8(addr, uint8(mc.reg[rd]), memory.AccessNonSeq)
		case 0x2: // LDR
			mc.reg[rd] = mc.read32(addr, memory.AccessNonSeq)
			mc.internal(1)
		case 0x3: // LDRB
			mc.reg[rd] = mc.read8(addr, memory.AccessNonSeq)
			mc.internal(1)
		}
		return
	}

	// format 8: halfword and sign extended
	switch (op >> 10) & 0x3 {
	case 0x0: // STRH
		mc.write16(addr, uint16(mc.reg[rd]), memory.AccessNonSeq)
	case 0x1: // LDSB
		mc.reg[rd] = uint32(int32(int8(mc.read8(addr, memory.AccessNonSeq))))
		mc.internal(1)
	case 0x2: // LDRH
		mc.reg[rd] = mc.read16(addr, memory.AccessNonSeq)
		mc.internal(1)
	case 0x3: // LDSH
		if addr&1 != 0 {
			mc.reg[rd] = uint32(int32(int8(mc.read8(addr, memory.AccessNonSeq))))
		} else {
			mc.reg[rd] = uint32(int32(int16(mc.read16(addr, memory.AccessNonSeq))))
		}
		mc.internal(1)
	}
}

// format 9: load/store with 5 bit immediate offset.
func thumbImmediateOffset(mc *CPU, op uint16) {
	rd := op & 0x7
	rb := (op >> 3) & 0x7
	imm := uint32(op>>6) & 0x1f

	switch (op >> 11) & 0x3 {
	case 0x0: // STR
		mc.write32(mc.reg[rb]+imm*4, mc.reg[rd], memory.AccessNonSeq)
	case 0x1: // LDR
		mc.reg[rd] = mc.read32(mc.reg[rb]+imm*4, memory.AccessNonSeq)
		mc.internal(1)
	case 0x2: // STRB
		mc.write8(mc.reg[rb]+imm, uint8(mc.reg[rd]), memory.AccessNonSeq)
	case 0x3: // LDRB
		mc.reg[rd] = mc.read8(mc.reg[rb]+imm, memory.AccessNonSeq)
		mc.internal(1)
	}
}

// format 10: halfword load/store with immediate offset.
func thumbHalfword(mc *CPU, op uint16) {
	rd := op & 0x7
	rb := (op >> 3) & 0x7
	imm := (uint32(op>>6) & 0x1f) * 2
	addr := mc.reg[rb] + imm

	if op&(1<<11) != 0 { // LDRH
		mc.reg[rd] = mc.read16(addr, memory.AccessNonSeq)
		mc.internal(1)
	} else { // STRH
		mc.write16(addr, uint16(mc.reg[rd]), memory.AccessNonSeq)
	}
}

// format 11: SP relative load/store.
func thumbSPRelative(mc *CPU, op uint16) {
	rd := (op >> 8) & 0x7
	imm := uint32(op&0xff) * 4
	addr := mc.reg[13] + imm

	if op&(1<<11) != 0 { // LDR
		mc.reg[rd] = mc.read32(addr, memory.AccessNonSeq)
		mc.internal(1)
	} else { // STR
		mc.write32(addr, mc.reg[rd], memory.AccessNonSeq)
	}
}

// format 12: load address.
func thumbLoadAddress(mc *CPU, op uint16) {
	rd := (op >> 8) & 0x7
	imm := uint32(op&0xff) * 4

	if op&(1<<11) != 0 {
		mc.reg[rd] = mc.reg[13] + imm
	} else {
		mc.reg[rd] = (mc.reg[15] &^ 2) + imm
	}
}

// format 13: adjust stack pointer.
func thumbAdjustSP(mc *CPU, op uint16) {
	imm := uint32(op&0x7f) * 4
	if op&(1<<7) != 0 {
		mc.reg[13] -= imm
	} else {
		mc.reg[13] += imm
	}
}

// format 14: push/pop registers.
func thumbPushPop(mc *CPU, op uint16) {
	rlist := uint32(op & 0xff)
	pclr := op&(1<<8) != 0

	if op&(1<<11) != 0 {
		// POP, LDMIA sp!
		addr := mc.reg[13]
		acc := memory.AccessNonSeq
		for i := 0; i < 8; i++ {
			if rlist&(1<<i) == 0 {
				continue
			}
			mc.reg[i] = mc.read32(addr, acc)
			acc = memory.AccessSeq
			addr += 4
		}
		if pclr {
			// popping the PC does not change state on the ARMv4T
			mc.SetRegister(15, mc.read32(addr, acc)&^1)
			addr += 4
		}
		mc.reg[13] = addr
		mc.internal(1)
		return
	}

	// PUSH, STMDB sp!
	count := uint32(0)
	for i := 0; i < 8; i++ {
		if rlist&(1<<i) != 0 {
			count++
		}
	}
	if pclr {
		count++
	}

	addr := mc.reg[13] - count*4
	mc.reg[13] = addr

	acc := memory.AccessNonSeq
	for i := 0; i < 8; i++ {
		if rlist&(1<<i) == 0 {
			continue
		}
		mc.write32(addr, mc.reg[i], acc)
		acc = memory.AccessSeq
		addr += 4
	}
	if pclr {
		mc.write32(addr, mc.reg[14], acc)
	}
}

// format 15: multiple load/store.
func thumbMultiple(mc *CPU, op uint16) {
	rb := (op >> 8) & 0x7
	rlist := uint32(op & 0xff)

	base := mc.reg[rb]

	if rlist == 0 {
		// an empty list transfers the PC and moves the base by 0x40
		if op&(1<<11) != 0 {
			mc.SetRegister(15, mc.read32(base, memory.AccessNonSeq)&^1)
		} else {
			mc.write32(base, mc.reg[15]+2, memory.AccessNonSeq)
		}
		mc.reg[rb] = base + 0x40
		return
	}

	first := -1
	for i := 0; i < 8; i++ {
		if rlist&(1<<i) != 0 {
			first = i
			break
		}
	}

	count := uint32(0)
	for i := 0; i < 8; i++ {
		if rlist&(1<<i) != 0 {
			count++
		}
	}
	final := base + count*4

	addr := base
	acc := memory.AccessNonSeq

	if op&(1<<11) != 0 {
		// LDMIA. writeback first, a loaded base wins
		mc.reg[rb] = final
		for i := 0; i < 8; i++ {
			if rlist&(1<<i) == 0 {
				continue
			}
			mc.reg[i] = mc.read32(addr, acc)
			acc = memory.AccessSeq
			addr += 4
		}
		mc.internal(1)
		return
	}

	// STMIA
	for i := 0; i < 8; i++ {
		if rlist&(1<<i) == 0 {
			continue
		}
		v := mc.reg[i]
		if uint16(i) == rb && i != first {
			v = final
		}
		mc.write32(addr, v, acc)
		acc = memory.AccessSeq
		addr += 4
	}
	mc.reg[rb] = final
}

// format 16: conditional branch.
func thumbCondBranch(mc *CPU, op uint16) {
	if !mc.conditionMet(uint32(op>>8) & 0xf) {
		return
	}
	offset := uint32(int32(int8(op&0xff))) * 2
	mc.SetRegister(15, mc.reg[15]+offset)
}

// format 17: software interrupt.
func thumbSoftwareInterrupt(mc *CPU, op uint16) {
	mc.Exception(ExceptionSWI)
}

// format 18: unconditional branch.
func thumbBranch(mc *CPU, op uint16) {
	offset := uint32(int32(uint32(op&0x7ff)<<21) >> 20)
	mc.SetRegister(15, mc.reg[15]+offset)
}

// format 19: the two halves of the long branch with link.
func thumbBLPrefix(mc *CPU, op uint16) {
	offset := uint32(int32(uint32(op&0x7ff)<<21) >> 9)
	mc.reg[14] = mc.reg[15] + offset
}

func thumbBLSuffix(mc *CPU, op uint16) {
	target := mc.reg[14] + uint32(op&0x7ff)*2
	ret := (mc.reg[15] - 2) | 1
	mc.SetRegister(15, target&^1)
	mc.reg[14] = ret
}

func thumbUndefined(mc *CPU, op uint16) {
	mc.Exception(ExceptionUndefined)
}
