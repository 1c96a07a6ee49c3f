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

package memory_test

import (
	"testing"

	"github.com/seliware/gopheradvance/hardware/memory"
	"github.com/seliware/gopheradvance/hardware/memory/cartridge"
	"github.com/seliware/gopheradvance/test"
)

// stubIO records register traffic for inspection.
type stubIO struct {
	regs map[uint32]uint16
}

func newStubIO() *stubIO {
	return &stubIO{regs: make(map[uint32]uint16)}
}

func (io *stubIO) ReadRegister(offset uint32) uint16 {
	return io.regs[offset]
}

func (io *stubIO) WriteRegister(offset uint32, data uint16, mask uint16) {
	io.regs[offset] = (io.regs[offset] &^ mask) | (data & mask)
}

func newBus() *memory.Bus {
	return memory.NewBus(cartridge.NewCartridge(), newStubIO())
}

func TestReadWriteRegions(t *testing.T) {
	bus := newBus()

	bus.Write32(0x02000000, 0x11223344, memory.AccessNonSeq)
	v, _ := bus.Read32(0x02000000, memory.AccessNonSeq)
	test.Equate(t, v, uint32(0x11223344))

	bus.Write16(0x03000100, 0xabcd, memory.AccessNonSeq)
	h, _ := bus.Read16(0x03000100, memory.AccessNonSeq)
	test.Equate(t, h, uint32(0xabcd))

	b, _ := bus.Read8(0x03000101, memory.AccessNonSeq)
	test.Equate(t, b, 0xab)
}

func TestMirroring(t *testing.T) {
	bus := newBus()

	// EWRAM repeats every 256k
	bus.Write16(0x02000000, 0x1234, memory.AccessNonSeq)
	v, _ := bus.Read16(0x02040000, memory.AccessNonSeq)
	test.Equate(t, v, uint32(0x1234))

	// IWRAM repeats every 32k
	bus.Write16(0x03000000, 0x5678, memory.AccessNonSeq)
	v, _ = bus.Read16(0x03008000, memory.AccessNonSeq)
	test.Equate(t, v, uint32(0x5678))

	// the top 32k of the VRAM window mirrors the 64k-96k block
	bus.Write16(0x06010000, 0x9abc, memory.AccessNonSeq)
	v, _ = bus.Read16(0x06018000, memory.AccessNonSeq)
	test.Equate(t, v, uint32(0x9abc))
}

func TestUnalignedReadRotation(t *testing.T) {
	bus := newBus()

	bus.Write32(0x02000000, 0xdeadbeef, memory.AccessNonSeq)

	v, _ := bus.Read32(0x02000001, memory.AccessNonSeq)
	test.Equate(t, v, uint32(0xefdeadbe))

	v, _ = bus.Read32(0x02000002, memory.AccessNonSeq)
	test.Equate(t, v, uint32(0xbeefdead))

	v, _ = bus.Read32(0x02000003, memory.AccessNonSeq)
	test.Equate(t, v, uint32(0xadbeefde))

	// halfword from an odd address rotates by eight
	v, _ = bus.Read16(0x02000001, memory.AccessNonSeq)
	test.Equate(t, v, uint32(0xef0000be))

	// property: every unaligned word read equals the rotated aligned read
	aligned, _ := bus.Read32(0x02000000, memory.AccessNonSeq)
	for offset := uint32(0); offset < 4; offset++ {
		v, _ := bus.Read32(0x02000000+offset, memory.AccessNonSeq)
		want := aligned>>(offset*8) | aligned<<(32-offset*8)
		if offset == 0 {
			want = aligned
		}
		test.Equate(t, v, want)
	}
}

func TestUnalignedWriteAlignsDown(t *testing.T) {
	bus := newBus()

	bus.Write32(0x02000001, 0x55667788, memory.AccessNonSeq)
	v, _ := bus.Read32(0x02000000, memory.AccessNonSeq)
	test.Equate(t, v, uint32(0x55667788))

	bus.Write16(0x02000013, 0x99aa, memory.AccessNonSeq)
	h, _ := bus.Read16(0x02000012, memory.AccessNonSeq)
	test.Equate(t, h, uint32(0x99aa))
}

func TestROMIsReadOnly(t *testing.T) {
	cart := cartridge.NewCartridge()
	rom := make([]byte, 4096)
	rom[0] = 0x12
	rom[1] = 0x34
	test.ExpectSuccess(t, cart.Attach(rom))

	bus := memory.NewBus(cart, newStubIO())

	bus.Write16(0x08000000, 0xffff, memory.AccessNonSeq)
	v, _ := bus.Read16(0x08000000, memory.AccessNonSeq)
	test.Equate(t, v, uint32(0x3412))

	// the same image appears in every waitstate mirror
	v, _ = bus.Read16(0x0a000000, memory.AccessNonSeq)
	test.Equate(t, v, uint32(0x3412))
	v, _ = bus.Read16(0x0c000000, memory.AccessNonSeq)
	test.Equate(t, v, uint32(0x3412))
}

func TestROMOutOfRangeReads(t *testing.T) {
	cart := cartridge.NewCartridge()
	test.ExpectSuccess(t, cart.Attach(make([]byte, 4096)))

	bus := memory.NewBus(cart, newStubIO())

	// reads beyond the ROM image return the address bus value
	var addr uint32 = 0x08001000
	v, _ := bus.Read16(addr, memory.AccessNonSeq)
	test.Equate(t, v, uint32(uint16(addr/2)))
}

func TestOpenBus(t *testing.T) {
	bus := newBus()

	bus.SetPrefetch(0x02000000, 0xcafebabe)

	// region 0x01 is unmapped
	v, _ := bus.Read32(0x01000000, memory.AccessNonSeq)
	test.Equate(t, v, uint32(0xcafebabe))

	b, _ := bus.Read8(0x01000003, memory.AccessNonSeq)
	test.Equate(t, b, 0xca)

	// writes to unmapped addresses are dropped without effect
	bus.Write32(0x01000000, 0xffffffff, memory.AccessNonSeq)
	v, _ = bus.Read32(0x01000000, memory.AccessNonSeq)
	test.Equate(t, v, uint32(0xcafebabe))
}

func TestBIOSReadProtection(t *testing.T) {
	bus := newBus()
	bus.BIOS[0x100] = 0x42

	// executing inside the BIOS reads the real bytes
	bus.SetPrefetch(0x00000104, 0x11223344)
	b, _ := bus.Read8(0x00000100, memory.AccessNonSeq)
	test.Equate(t, b, 0x42)

	// executing outside the BIOS reads the last fetched BIOS opcode
	bus.SetPrefetch(0x08000000, 0x55667788)
	v, _ := bus.Read32(0x00000100, memory.AccessNonSeq)
	test.Equate(t, v, uint32(0x11223344))
}

func TestByteWritesToVideoMemory(t *testing.T) {
	bus := newBus()

	// palette RAM replicates byte writes across the halfword
	bus.Write8(0x05000000, 0x7f, memory.AccessNonSeq)
	v, _ := bus.Read16(0x05000000, memory.AccessNonSeq)
	test.Equate(t, v, uint32(0x7f7f))

	// background VRAM replicates
	bus.Write8(0x06000001, 0x3c, memory.AccessNonSeq)
	v, _ = bus.Read16(0x06000000, memory.AccessNonSeq)
	test.Equate(t, v, uint32(0x3c3c))

	// object VRAM drops byte writes
	bus.Write8(0x06010000, 0x99, memory.AccessNonSeq)
	v, _ = bus.Read16(0x06010000, memory.AccessNonSeq)
	test.Equate(t, v, uint32(0))

	// OAM drops byte writes
	bus.Write8(0x07000000, 0x99, memory.AccessNonSeq)
	v, _ = bus.Read16(0x07000000, memory.AccessNonSeq)
	test.Equate(t, v, uint32(0))
}

func TestAccessCycles(t *testing.T) {
	bus := newBus()

	// IWRAM answers in one cycle at every width
	_, c := bus.Read32(0x03000000, memory.AccessNonSeq)
	test.Equate(t, c, uint64(1))

	// EWRAM is on a 16 bit bus with two waitstates
	_, c = bus.Read16(0x02000000, memory.AccessNonSeq)
	test.Equate(t, c, uint64(3))
	_, c = bus.Read32(0x02000000, memory.AccessNonSeq)
	test.Equate(t, c, uint64(6))

	// ROM waitstate 0 default: 5 cycles nonsequential, 3 sequential
	cart := cartridge.NewCartridge()
	test.ExpectSuccess(t, cart.Attach(make([]byte, 4096)))
	bus = memory.NewBus(cart, newStubIO())

	_, c = bus.Read16(0x08000000, memory.AccessNonSeq)
	test.Equate(t, c, uint64(5))
	_, c = bus.Read16(0x08000002, memory.AccessSeq)
	test.Equate(t, c, uint64(3))
	_, c = bus.Read32(0x08000000, memory.AccessNonSeq)
	test.Equate(t, c, uint64(8))
}

func TestIODispatch(t *testing.T) {
	io := newStubIO()
	bus := memory.NewBus(cartridge.NewCartridge(), io)

	bus.Write16(0x04000000, 0x1234, memory.AccessNonSeq)
	test.Equate(t, io.regs[0x000], 0x1234)

	// byte write only affects the addressed byte
	bus.Write8(0x04000001, 0xff, memory.AccessNonSeq)
	test.Equate(t, io.regs[0x000], 0xff34)

	v, _ := bus.Read16(0x04000000, memory.AccessNonSeq)
	test.Equate(t, v, uint32(0xff34))
}
