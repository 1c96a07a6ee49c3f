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

package memory

import (
	"encoding/binary"

	"github.com/seliware/gopheradvance/hardware/memory/cartridge"
)

// IODevice dispatches reads and writes in the I/O register region. The
// hardware package implements it, routing each register to the subsystem
// that owns it.
//
// Offsets are relative to 0x04000000 and aligned to halfword boundaries.
// The write mask selects which bits of the register are being written;
// byte writes arrive with a mask of 0x00ff or 0xff00.
type IODevice interface {
	ReadRegister(offset uint32) uint16
	WriteRegister(offset uint32, data uint16, mask uint16)
}

// Bus is the GBA memory bus. All reads and writes from the CPU, the DMA
// engine and the PPU come through here. Every access returns the number
// of cycles it consumed.
type Bus struct {
	BIOS  []byte
	EWRAM []byte
	IWRAM []byte
	Pal   []byte
	VRAM  []byte
	OAM   []byte

	Cart *cartridge.Cartridge
	IO   IODevice

	// the last opcode seen on the prefetch bus, and the address it was
	// fetched from. this is the value returned by unmapped reads
	prefetch     uint32
	prefetchAddr uint32

	// the last value successfully fetched from the BIOS. reads of the
	// BIOS while executing outside of it return this
	biosLatch uint32

	// waitstate control and the tables computed from it
	waitcnt    uint16
	sramCycles uint64
	rom16      [3][2]uint64
}

// NewBus is the preferred method of initialisation for the Bus type.
func NewBus(cart *cartridge.Cartridge, io IODevice) *Bus {
	bus := &Bus{
		BIOS:  make([]byte, BIOSSize),
		EWRAM: make([]byte, EWRAMSize),
		IWRAM: make([]byte, IWRAMSize),
		Pal:   make([]byte, PaletteSize),
		VRAM:  make([]byte, VRAMSize),
		OAM:   make([]byte, OAMSize),
		Cart:  cart,
		IO:    io,
	}
	bus.recomputeWaits()
	return bus
}

// Reset zeroes the volatile memory regions. BIOS and ROM contents
// survive a reset.
func (bus *Bus) Reset() {
	for _, m := range [][]byte{bus.EWRAM, bus.IWRAM, bus.Pal, bus.VRAM, bus.OAM} {
		for i := range m {
			m[i] = 0
		}
	}
	bus.prefetch = 0
	bus.prefetchAddr = 0
	bus.biosLatch = 0
	bus.waitcnt = 0
	bus.recomputeWaits()
}

// SetPrefetch records the opcode currently on the prefetch bus. The CPU
// calls this on every fetch. The value is what unmapped reads return.
func (bus *Bus) SetPrefetch(addr uint32, opcode uint32) {
	bus.prefetch = opcode
	bus.prefetchAddr = addr
	if addr < BIOSSize {
		bus.biosLatch = opcode
	}
}

// Prefetch returns the current open bus value.
func (bus *Bus) Prefetch() uint32 {
	return bus.prefetch
}

// WaitControl returns the value of the WAITCNT register.
func (bus *Bus) WaitControl() uint16 {
	return bus.waitcnt
}

// SetWaitControl writes the WAITCNT register and rebuilds the waitstate
// tables.
func (bus *Bus) SetWaitControl(data uint16, mask uint16) {
	bus.waitcnt = (bus.waitcnt &^ mask) | (data & mask)
	bus.recomputeWaits()
}

func ror(value uint32, rotate uint32) uint32 {
	rotate &= 31
	return value>>rotate | value<<(32-rotate)
}

// read16raw reads an aligned halfword with no rotation. The returned
// cycle count accounts for region waitstates.
func (bus *Bus) read16raw(addr uint32, acc Access) (uint16, uint64) {
	addr &^= 1

	switch reg := region(addr); reg {
	case RegionBIOS:
		offset := addr & 0x00ffffff
		if offset < BIOSSize {
			if bus.prefetchAddr < BIOSSize {
				return binary.LittleEndian.Uint16(bus.BIOS[offset:]), 1
			}
			return uint16(bus.biosLatch >> ((addr & 2) * 8)), 1
		}
		return uint16(bus.prefetch >> ((addr & 2) * 8)), 1

	case RegionEWRAM:
		return binary.LittleEndian.Uint16(bus.EWRAM[addr&0x3ffff:]), 3

	case RegionIWRAM:
		return binary.LittleEndian.Uint16(bus.IWRAM[addr&0x7fff:]), 1

	case RegionIO:
		offset := addr & 0x00ffffff
		if offset < 0x400 {
			return bus.IO.ReadRegister(offset), 1
		}
		return uint16(bus.prefetch >> ((addr & 2) * 8)), 1

	case RegionPalette:
		return binary.LittleEndian.Uint16(bus.Pal[addr&0x3ff:]), 1

	case RegionVRAM:
		return binary.LittleEndian.Uint16(bus.VRAM[mirrorVRAM(addr):]), 1

	case RegionOAM:
		return binary.LittleEndian.Uint16(bus.OAM[addr&0x3ff:]), 1

	case RegionROM0, RegionROM0B, RegionROM1, RegionROM1B, RegionROM2, RegionROM2B:
		ws := int(reg-RegionROM0) / 2
		cycles := bus.romCycles(ws, 2, acc)

		// the EEPROM shadows the top ROM mirror
		if reg == RegionROM2B {
			if eep := bus.Cart.EEPROM(); eep != nil {
				return eep.ReadBit(), cycles
			}
		}

		offset := addr & 0x01ffffff

		// cartridge GPIO sits in the ROM address space
		if bus.Cart.RTC != nil && offset >= GPIOBase && offset <= GPIOTop {
			if v, ok := bus.Cart.RTC.ReadRegister(offset); ok {
				return v, cycles
			}
		}

		if int(offset) < len(bus.Cart.ROM)-1 {
			return binary.LittleEndian.Uint16(bus.Cart.ROM[offset:]), cycles
		}

		// out of range ROM reads return the address bus value
		return uint16(addr / 2), cycles

	case RegionSRAM, RegionSRAMB:
		if bus.Cart.Backup != nil {
			// the backup chip is on an 8 bit bus. wider reads see the
			// byte replicated
			b := bus.Cart.Backup.Read8(addr & 0xffff)
			return uint16(b) | uint16(b)<<8, bus.sramCycles
		}
		return uint16(bus.prefetch >> ((addr & 2) * 8)), bus.sramCycles
	}

	return uint16(bus.prefetch >> ((addr & 2) * 8)), 1
}

// Read8 reads a byte.
func (bus *Bus) Read8(addr uint32, acc Access) (uint8, uint64) {
	v, c := bus.read16raw(addr, acc)
	return uint8(v >> ((addr & 1) * 8)), c
}

// Read16 reads a halfword. A read from an odd address reads the aligned
// halfword and rotates it right by eight bits, which is what the
// ARM7TDMI does in place of an unpredictable result.
func (bus *Bus) Read16(addr uint32, acc Access) (uint32, uint64) {
	v, c := bus.read16raw(addr, acc)
	return ror(uint32(v), (addr&1)*8), c
}

// Read16Raw reads an aligned halfword with no rotation. Used by the DMA
// engine and the PPU, whose addresses are always aligned.
func (bus *Bus) Read16Raw(addr uint32, acc Access) (uint16, uint64) {
	return bus.read16raw(addr, acc)
}

// Read32 reads a word. A read from an unaligned address reads the
// aligned word and rotates it right by eight bits per byte of
// misalignment.
func (bus *Bus) Read32(addr uint32, acc Access) (uint32, uint64) {
	a := addr &^ 3

	lo, c := bus.read16raw(a, acc)

	reg := region(a)
	var hi uint16
	var c2 uint64

	switch reg {
	case RegionBIOS, RegionIWRAM, RegionIO, RegionOAM:
		// 32 bit wide regions answer in a single access
		hi, _ = bus.read16raw(a+2, AccessSeq)
		c2 = 0
	default:
		hi, c2 = bus.read16raw(a+2, AccessSeq)
	}

	value := uint32(lo) | uint32(hi)<<16
	return ror(value, (addr&3)*8), c + c2
}

// Write8 writes a byte. In regions with a sixteen bit minimum write
// width the byte is replicated or the write dropped, per hardware rules.
func (bus *Bus) Write8(addr uint32, data uint8, acc Access) uint64 {
	switch reg := region(addr); reg {
	case RegionPalette:
		// byte writes to palette RAM write the byte to both halves of
		// the halfword
		offset := addr & 0x3fe
		bus.Pal[offset] = data
		bus.Pal[offset+1] = data
		return 1

	case RegionVRAM:
		offset := mirrorVRAM(addr)
		if offset < 0x10000 {
			// background VRAM replicates like palette RAM
			offset &^= 1
			bus.VRAM[offset] = data
			bus.VRAM[offset+1] = data
		}
		// byte writes to object VRAM are dropped
		return 1

	case RegionOAM:
		// byte writes to OAM are dropped
		return 1

	case RegionIO:
		offset := addr & 0x00ffffff
		if offset < 0x400 {
			mask := uint16(0x00ff) << ((addr & 1) * 8)
			bus.IO.WriteRegister(offset&^1, uint16(data)<<((addr&1)*8), mask)
		}
		return 1

	case RegionSRAM, RegionSRAMB:
		if bus.Cart.Backup != nil {
			bus.Cart.Backup.Write8(addr&0xffff, data)
		}
		return bus.sramCycles
	}

	// the remaining regions take byte writes at their natural width, or
	// ignore them entirely (BIOS, ROM)
	shift := (addr & 1) * 8
	return bus.write16ram(addr, uint16(data)<<shift, uint16(0x00ff)<<shift, 1, acc)
}

// write16ram writes to the byte addressed RAM regions, honouring the
// write mask. width is the access width for cycle costing.
func (bus *Bus) write16ram(addr uint32, data uint16, mask uint16, width uint32, acc Access) uint64 {
	switch reg := region(addr); reg {
	case RegionEWRAM:
		offset := addr & 0x3fffe
		old := binary.LittleEndian.Uint16(bus.EWRAM[offset:])
		binary.LittleEndian.PutUint16(bus.EWRAM[offset:], (old&^mask)|(data&mask))
		if width == 4 {
			return 6
		}
		return 3

	case RegionIWRAM:
		offset := addr & 0x7ffe
		old := binary.LittleEndian.Uint16(bus.IWRAM[offset:])
		binary.LittleEndian.PutUint16(bus.IWRAM[offset:], (old&^mask)|(data&mask))
		return 1
	}

	// BIOS, ROM and unmapped regions drop writes
	return ramCycles(region(addr), width)
}

// Write16 writes a halfword. Unaligned addresses are aligned down.
func (bus *Bus) Write16(addr uint32, data uint16, acc Access) uint64 {
	addr &^= 1

	switch reg := region(addr); reg {
	case RegionEWRAM, RegionIWRAM:
		return bus.write16ram(addr, data, 0xffff, 2, acc)

	case RegionIO:
		offset := addr & 0x00ffffff
		if offset < 0x400 {
			bus.IO.WriteRegister(offset, data, 0xffff)
		}
		return 1

	case RegionPalette:
		binary.LittleEndian.PutUint16(bus.Pal[addr&0x3fe:], data)
		return 1

	case RegionVRAM:
		binary.LittleEndian.PutUint16(bus.VRAM[mirrorVRAM(addr):], data)
		return 1

	case RegionOAM:
		binary.LittleEndian.PutUint16(bus.OAM[addr&0x3fe:], data)
		return 1

	case RegionROM0, RegionROM0B, RegionROM1, RegionROM1B, RegionROM2, RegionROM2B:
		ws := int(reg-RegionROM0) / 2
		cycles := bus.romCycles(ws, 2, acc)

		if reg == RegionROM2B {
			if eep := bus.Cart.EEPROM(); eep != nil {
				eep.WriteBit(data)
				return cycles
			}
		}

		offset := addr & 0x01ffffff
		if bus.Cart.RTC != nil && offset >= GPIOBase && offset <= GPIOTop {
			bus.Cart.RTC.WriteRegister(offset, data)
		}
		return cycles

	case RegionSRAM, RegionSRAMB:
		if bus.Cart.Backup != nil {
			// the 8 bit bus sees the half of the value selected by the
			// address line
			bus.Cart.Backup.Write8(addr&0xffff, uint8(data>>((addr&1)*8)))
		}
		return bus.sramCycles
	}

	return 1
}

// Write32 writes a word. Unaligned addresses are aligned down.
func (bus *Bus) Write32(addr uint32, data uint32, acc Access) uint64 {
	addr &^= 3

	c := bus.Write16(addr, uint16(data), acc)

	switch region(addr) {
	case RegionBIOS, RegionIWRAM, RegionIO, RegionOAM:
		bus.Write16(addr+2, uint16(data>>16), AccessSeq)
		return c
	}

	c2 := bus.Write16(addr+2, uint16(data>>16), AccessSeq)
	return c + c2
}

// GPIO register window in the ROM address space.
const (
	GPIOBase = cartridge.GPIOData
	GPIOTop  = cartridge.GPIOControl
)
