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

import "math/bits"

func ror(v uint32, n uint32) uint32 {
	n &= 31
	return v>>n | v<<(32-n)
}

// shift applies a barrel shifter operation, returning the result and the
// shifter carry out. byReg selects the register-specified semantics, in
// which an amount of zero leaves the value and carry untouched and
// amounts of 32 and over are meaningful.
func (mc *CPU) shift(typ uint32, value uint32, amount uint32, byReg bool) (uint32, bool) {
	carry := mc.cpsr.C()

	if byReg && amount == 0 {
		return value, carry
	}

	switch typ {
	case 0: // LSL
		switch {
		case amount == 0:
			return value, carry
		case amount < 32:
			return value << amount, value&(1<<(32-amount)) != 0
		case amount == 32:
			return 0, value&1 != 0
		default:
			return 0, false
		}

	case 1: // LSR
		switch {
		case amount == 0 && !byReg:
			// LSR #0 encodes LSR #32
			return 0, value&0x80000000 != 0
		case amount < 32:
			return value >> amount, value&(1<<(amount-1)) != 0
		case amount == 32:
			return 0, value&0x80000000 != 0
		default:
			return 0, false
		}

	case 2: // ASR
		if (amount == 0 && !byReg) || amount >= 32 {
			// ASR #0 encodes ASR #32
			if value&0x80000000 != 0 {
				return 0xffffffff, true
			}
			return 0, false
		}
		return uint32(int32(value) >> amount), value&(1<<(amount-1)) != 0

	case 3: // ROR
		if amount == 0 && !byReg {
			// ROR #0 encodes RRX
			out := value&1 != 0
			v := value >> 1
			if carry {
				v |= 0x80000000
			}
			return v, out
		}
		amount &= 31
		if amount == 0 {
			return value, value&0x80000000 != 0
		}
		v := ror(value, amount)
		return v, v&0x80000000 != 0
	}

	return value, carry
}

// operand2 decodes the shifter operand of a data processing instruction.
func (mc *CPU) operand2(op uint32) (uint32, bool) {
	if op&(1<<25) != 0 {
		// 8 bit immediate with even rotation
		imm := op & 0xff
		rot := ((op >> 8) & 0xf) * 2
		v := ror(imm, rot)
		if rot == 0 {
			return v, mc.cpsr.C()
		}
		return v, v&0x80000000 != 0
	}

	rm := op & 0xf
	typ := (op >> 5) & 0x3
	value := mc.reg[rm]

	if op&(1<<4) != 0 {
		// amount in a register. the extra register read costs an
		// internal cycle and moves the PC on by another fetch
		rs := (op >> 8) & 0xf
		amount := mc.reg[rs] & 0xff
		if rm == 15 {
			value += 4
		}
		mc.internal(1)
		return mc.shift(typ, value, amount, true)
	}

	amount := (op >> 7) & 0x1f
	return mc.shift(typ, value, amount, false)
}

// add with carry is the one arithmetic primitive. Subtractions go
// through it with the second operand inverted.
func (mc *CPU) addc(a, b uint32, carry uint32, setFlags bool) uint32 {
	r64 := uint64(a) + uint64(b) + uint64(carry)
	r := uint32(r64)
	if setFlags {
		mc.cpsr.SetNZ(r)
		mc.cpsr.SetC(r64 > 0xffffffff)
		mc.cpsr.SetV(^(a^b)&(a^r)&0x80000000 != 0)
	}
	return r
}

func boolToUint32(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

func armDataProcessing(mc *CPU, op uint32) {
	opcode := (op >> 21) & 0xf
	setFlags := op&(1<<20) != 0
	rn := (op >> 16) & 0xf
	rd := (op >> 12) & 0xf

	op2, shCarry := mc.operand2(op)

	op1 := mc.reg[rn]
	if rn == 15 && op&(1<<25) == 0 && op&(1<<4) != 0 {
		// with a register specified shift the PC has moved on another
		// fetch by the time it is read
		op1 += 4
	}

	carry := boolToUint32(mc.cpsr.C())

	var result uint32
	writeback := true

	switch opcode {
	case 0x0: // AND
		result = op1 & op2
	case 0x1: // EOR
		result = op1 ^ op2
	case 0x2: // SUB
		result = mc.addc(op1, ^op2, 1, setFlags)
	case 0x3: // RSB
		result = mc.addc(op2, ^op1, 1, setFlags)
	case 0x4: // ADD
		result = mc.addc(op1, op2, 0, setFlags)
	case 0x5: // ADC
		result = mc.addc(op1, op2, carry, setFlags)
	case 0x6: // SBC
		result = mc.addc(op1, ^op2, carry, setFlags)
	case 0x7: // RSC
		result = mc.addc(op2, ^op1, carry, setFlags)
	case 0x8: // TST
		result = op1 & op2
		writeback = false
	case 0x9: // TEQ
		result = op1 ^ op2
		writeback = false
	case 0xa: // CMP
		result = mc.addc(op1, ^op2, 1, setFlags)
		writeback = false
	case 0xb: // CMN
		result = mc.addc(op1, op2, 0, setFlags)
		writeback = false
	case 0xc: // ORR
		result = op1 | op2
	case 0xd: // MOV
		result = op2
	case 0xe: // BIC
		result = op1 &^ op2
	case 0xf: // MVN
		result = ^op2
	}

	// logical operations take their carry from the shifter
	if setFlags {
		switch opcode {
		case 0x0, 0x1, 0x8, 0x9, 0xc, 0xd, 0xe, 0xf:
			mc.cpsr.SetNZ(result)
			mc.cpsr.SetC(shCarry)
		}
	}

	if writeback {
		if rd == 15 && setFlags {
			// the exception return idiom: restore the SPSR along with
			// the jump
			mc.restoreCPSR()
		}
		mc.SetRegister(int(rd), result)
	} else if rd == 15 && setFlags {
		// TSTP and friends. rare but defined: restore the SPSR without
		// branching
		mc.restoreCPSR()
	}
}

// multiplierCycles returns the number of internal cycles the early
// termination multiplier spends on the given operand.
func multiplierCycles(v uint32) uint64 {
	switch {
	case v&0xffffff00 == 0 || v&0xffffff00 == 0xffffff00:
		return 1
	case v&0xffff0000 == 0 || v&0xffff0000 == 0xffff0000:
		return 2
	case v&0xff000000 == 0 || v&0xff000000 == 0xff000000:
		return 3
	}
	return 4
}

func armMultiply(mc *CPU, op uint32) {
	rd := (op >> 16) & 0xf
	rn := (op >> 12) & 0xf
	rs := (op >> 8) & 0xf
	rm := op & 0xf

	result := mc.reg[rm] * mc.reg[rs]
	mc.internal(multiplierCycles(mc.reg[rs]))

	if op&(1<<21) != 0 { // MLA
		result += mc.reg[rn]
		mc.internal(1)
	}

	mc.SetRegister(int(rd), result)

	if op&(1<<20) != 0 {
		mc.cpsr.SetNZ(result)
	}
}

func armMultiplyLong(mc *CPU, op uint32) {
	rdHi := (op >> 16) & 0xf
	rdLo := (op >> 12) & 0xf
	rs := (op >> 8) & 0xf
	rm := op & 0xf

	signed := op&(1<<22) != 0
	accumulate := op&(1<<21) != 0

	var hi, lo uint32
	if signed {
		hi, lo = bits.Mul32(mc.reg[rm], mc.reg[rs])
		// correct the high word for the signs of the operands
		if int32(mc.reg[rm]) < 0 {
			hi -= mc.reg[rs]
		}
		if int32(mc.reg[rs]) < 0 {
			hi -= mc.reg[rm]
		}
	} else {
		hi, lo = bits.Mul32(mc.reg[rm], mc.reg[rs])
	}

	mc.internal(multiplierCycles(mc.reg[rs]) + 1)

	if accumulate {
		var c uint32
		lo, c = bits.Add32(lo, mc.reg[rdLo], 0)
		hi, _ = bits.Add32(hi, mc.reg[rdHi], c)
		mc.internal(1)
	}

	mc.SetRegister(int(rdLo), lo)
	mc.SetRegister(int(rdHi), hi)

	if op&(1<<20) != 0 {
		mc.cpsr.set(FlagN, hi&0x80000000 != 0)
		mc.cpsr.set(FlagZ, hi == 0 && lo == 0)
	}
}
