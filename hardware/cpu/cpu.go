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
	"fmt"
	"strings"

	"github.com/seliware/gopheradvance/hardware/memory"
)

// Bus is the memory interface used by the CPU. Implemented by the memory
// package; tests substitute simpler implementations.
type Bus interface {
	Read8(addr uint32, acc memory.Access) (uint8, uint64)
	Read16(addr uint32, acc memory.Access) (uint32, uint64)
	Read32(addr uint32, acc memory.Access) (uint32, uint64)
	Write8(addr uint32, data uint8, acc memory.Access) uint64
	Write16(addr uint32, data uint16, acc memory.Access) uint64
	Write32(addr uint32, data uint32, acc memory.Access) uint64
	SetPrefetch(addr uint32, opcode uint32)
}

// InterruptLine is the view of the interrupt controller the CPU needs
// when deciding whether to take an interrupt at an instruction boundary.
type InterruptLine interface {
	// Pending is true when (IE & IF) != 0, regardless of IME
	Pending() bool

	// Master is the state of the IME register
	Master() bool
}

// CPU implements the ARM7TDMI.
type CPU struct {
	mem Bus
	irq InterruptLine

	// the active registers. a projection of the banked register files,
	// see registers.go
	reg    [16]uint32
	cpsr   PSR
	spsr   [numBanks]PSR
	bankLo [2][5]uint32         // R8-R12: user set and FIQ set
	bankHi [numBanks][2]uint32 // R13, R14 per bank

	// the two opcodes in the prefetch stages of the pipeline.
	// pipeline[1] executes on the next Step(), pipeline[0] follows
	pipeline [2]uint32

	// set by anything that writes to R15. the pipeline refills before
	// the next instruction
	flushed bool

	// Halted is set by a write to HALTCNT and cleared by the interrupt
	// controller when any enabled interrupt is raised. Stopped is the
	// deeper sleep entered by the STOP function
	Halted  bool
	Stopped bool

	// cycles consumed by the current Step()
	cycles uint64
}

// NewCPU is the preferred method of initialisation for the CPU type.
func NewCPU(mem Bus, irq InterruptLine) *CPU {
	mc := &CPU{
		mem: mem,
		irq: irq,
	}
	mc.cpsr = PSR(ModeSupervisor) | PSR(FlagI) | PSR(FlagF)
	return mc
}

// Plumb a new memory bus into the CPU, after restoring a quicksave.
func (mc *CPU) Plumb(mem Bus) {
	mc.mem = mem
}

// Reset puts the CPU through the reset exception: supervisor mode, IRQ
// and FIQ disabled, ARM state, execution from the reset vector.
func (mc *CPU) Reset() {
	mc.reg = [16]uint32{}
	mc.bankLo = [2][5]uint32{}
	mc.bankHi = [numBanks][2]uint32{}
	mc.spsr = [numBanks]PSR{}
	mc.cpsr = PSR(ModeSupervisor) | PSR(FlagI) | PSR(FlagF)
	mc.Halted = false
	mc.Stopped = false
	mc.reg[15] = vectorReset
	mc.flushed = true
}

func (mc *CPU) String() string {
	s := strings.Builder{}
	for i := 0; i < 16; i++ {
		s.WriteString(fmt.Sprintf("R%-2d=%08x ", i, mc.reg[i]))
		if i%8 == 7 {
			s.WriteString("\n")
		}
	}
	s.WriteString(fmt.Sprintf("CPSR=%08x (%s)", mc.cpsr.Value(), mc.cpsr.Mode()))
	if mc.cpsr.Thumb() {
		s.WriteString(" thumb")
	}
	return s.String()
}

// Exception identifies an entry in the vector table.
type Exception int

// List of valid Exception values.
const (
	ExceptionReset Exception = iota
	ExceptionUndefined
	ExceptionSWI
	ExceptionPrefetchAbort
	ExceptionDataAbort
	ExceptionIRQ
	ExceptionFIQ
)

// vector addresses
const (
	vectorReset         = 0x00
	vectorUndefined     = 0x04
	vectorSWI           = 0x08
	vectorPrefetchAbort = 0x0c
	vectorDataAbort     = 0x10
	vectorIRQ           = 0x18
	vectorFIQ           = 0x1c
)

// Exception makes the CPU take the given exception: the return address
// is written to the target mode's R14, the CPSR is saved to the target
// mode's SPSR, and execution continues in ARM state at the vector.
func (mc *CPU) Exception(e Exception) {
	var vector uint32
	var mode Mode
	var disableFIQ bool

	switch e {
	case ExceptionReset:
		vector = vectorReset
		mode = ModeSupervisor
		disableFIQ = true
	case ExceptionUndefined:
		vector = vectorUndefined
		mode = ModeUndefined
	case ExceptionSWI:
		vector = vectorSWI
		mode = ModeSupervisor
	case ExceptionPrefetchAbort:
		vector = vectorPrefetchAbort
		mode = ModeAbort
	case ExceptionDataAbort:
		vector = vectorDataAbort
		mode = ModeAbort
	case ExceptionIRQ:
		vector = vectorIRQ
		mode = ModeIRQ
	case ExceptionFIQ:
		vector = vectorFIQ
		mode = ModeFIQ
		disableFIQ = true
	}

	// return address, with the exception specific offset already
	// applied, such that the conventional return sequence resumes at
	// the right instruction
	var ret uint32
	if mc.cpsr.Thumb() {
		switch e {
		case ExceptionIRQ, ExceptionFIQ:
			ret = mc.reg[15]
		default:
			ret = mc.reg[15] - 2
		}
	} else {
		ret = mc.reg[15] - 4
	}

	saved := mc.cpsr
	mc.setMode(mode)
	mc.spsr[bankIndex(mode)] = saved
	mc.reg[14] = ret

	mc.cpsr.set(FlagI, true)
	if disableFIQ {
		mc.cpsr.set(FlagF, true)
	}
	mc.cpsr.SetThumb(false)

	mc.reg[15] = vector
	mc.flushed = true
}

// restoreCPSR copies the SPSR of the current mode into the CPSR,
// projecting the register bank of the restored mode. This is the second
// half of every exception return.
func (mc *CPU) restoreCPSR() {
	p := mc.spsrPtr()
	if p == nil {
		return
	}
	saved := *p
	mc.setMode(saved.Mode())
	mc.cpsr = saved
}

// fetch the opcode at the given address, at the width selected by the T
// bit, keeping the open bus value up to date.
func (mc *CPU) fetch(addr uint32, acc memory.Access) uint32 {
	if mc.cpsr.Thumb() {
		v, c := mc.mem.Read16(addr, acc)
		mc.cycles += c
		op := v & 0xffff
		mc.mem.SetPrefetch(addr, op|op<<16)
		return op
	}

	v, c := mc.mem.Read32(addr, acc)
	mc.cycles += c
	mc.mem.SetPrefetch(addr, v)
	return v
}

// refill the pipeline after a flush. R15 holds the branch target on
// entry and the target plus two fetch widths on exit.
func (mc *CPU) refill() {
	mc.flushed = false

	if mc.cpsr.Thumb() {
		pc := mc.reg[15] &^ 1
		mc.pipeline[1] = mc.fetch(pc, memory.AccessNonSeq)
		mc.pipeline[0] = mc.fetch(pc+2, memory.AccessSeq)
		mc.reg[15] = pc + 4
	} else {
		pc := mc.reg[15] &^ 3
		mc.pipeline[1] = mc.fetch(pc, memory.AccessNonSeq)
		mc.pipeline[0] = mc.fetch(pc+4, memory.AccessSeq)
		mc.reg[15] = pc + 8
	}
}

// advance the pipeline by one stage.
func (mc *CPU) advance() {
	mc.pipeline[1] = mc.pipeline[0]
	mc.pipeline[0] = mc.fetch(mc.reg[15], memory.AccessSeq)
	if mc.cpsr.Thumb() {
		mc.reg[15] += 2
	} else {
		mc.reg[15] += 4
	}
}

// BootPipeline primes the pipeline for the first instruction after a
// reset or a quickload.
func (mc *CPU) BootPipeline() {
	mc.refill()
}

// conditionMet evaluates an ARM condition code against the flags.
func (mc *CPU) conditionMet(cond uint32) bool {
	switch cond {
	case 0x0: // EQ
		return mc.cpsr.Z()
	case 0x1: // NE
		return !mc.cpsr.Z()
	case 0x2: // CS
		return mc.cpsr.C()
	case 0x3: // CC
		return !mc.cpsr.C()
	case 0x4: // MI
		return mc.cpsr.N()
	case 0x5: // PL
		return !mc.cpsr.N()
	case 0x6: // VS
		return mc.cpsr.V()
	case 0x7: // VC
		return !mc.cpsr.V()
	case 0x8: // HI
		return mc.cpsr.C() && !mc.cpsr.Z()
	case 0x9: // LS
		return !mc.cpsr.C() || mc.cpsr.Z()
	case 0xa: // GE
		return mc.cpsr.N() == mc.cpsr.V()
	case 0xb: // LT
		return mc.cpsr.N() != mc.cpsr.V()
	case 0xc: // GT
		return !mc.cpsr.Z() && mc.cpsr.N() == mc.cpsr.V()
	case 0xd: // LE
		return mc.cpsr.Z() || mc.cpsr.N() != mc.cpsr.V()
	case 0xe: // AL
		return true
	}
	// 0xf is never used by ARMv4 code. hardware executes it as AL
	return true
}

// Step fetches, decodes and executes one instruction, returning the
// number of cycles consumed, including memory waitstates and internal
// cycles. A pending interrupt is taken instead if the CPSR and IME
// permit it.
func (mc *CPU) Step() uint64 {
	mc.cycles = 0

	if mc.flushed {
		mc.refill()
	}

	if mc.irq != nil && mc.irq.Pending() && mc.irq.Master() && !mc.cpsr.IRQDisabled() {
		mc.Exception(ExceptionIRQ)
		mc.refill()
		return mc.cycles
	}

	opcode := mc.pipeline[1]

	if mc.cpsr.Thumb() {
		thumbTable[opcode>>6](mc, uint16(opcode))
	} else {
		if mc.conditionMet(opcode >> 28) {
			armTable[((opcode>>16)&0xff0)|((opcode>>4)&0xf)](mc, opcode)
		}
	}

	if mc.flushed {
		mc.refill()
	} else {
		mc.advance()
	}

	return mc.cycles
}

// internal adds internal cycles to the current step. Internal cycles are
// those the core spends without a memory access.
func (mc *CPU) internal(n uint64) {
	mc.cycles += n
}

// data access helpers. each adds the waitstate cost to the current step.

func (mc *CPU) read8(addr uint32, acc memory.Access) uint32 {
	v, c := mc.mem.Read8(addr, acc)
	mc.cycles += c
	return uint32(v)
}

func (mc *CPU) read16(addr uint32, acc memory.Access) uint32 {
	v, c := mc.mem.Read16(addr, acc)
	mc.cycles += c
	return v
}

func (mc *CPU) read32(addr uint32, acc memory.Access) uint32 {
	v, c := mc.mem.Read32(addr, acc)
	mc.cycles += c
	return v
}

func (mc *CPU) write8(addr uint32, data uint8, acc memory.Access) {
	mc.cycles += mc.mem.Write8(addr, data, acc)
}

func (mc *CPU) write16(addr uint32, data uint16, acc memory.Access) {
	mc.cycles += mc.mem.Write16(addr, data, acc)
}

func (mc *CPU) write32(addr uint32, data uint32, acc memory.Access) {
	mc.cycles += mc.mem.Write32(addr, data, acc)
}
