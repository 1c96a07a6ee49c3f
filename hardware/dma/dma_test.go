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

package dma_test

import (
	"testing"

	"github.com/seliware/gopheradvance/hardware/dma"
	"github.com/seliware/gopheradvance/hardware/irq"
	"github.com/seliware/gopheradvance/hardware/memory"
	"github.com/seliware/gopheradvance/hardware/memory/cartridge"
	"github.com/seliware/gopheradvance/hardware/scheduler"
	"github.com/seliware/gopheradvance/test"
)

type nullIO struct{}

func (nullIO) ReadRegister(_ uint32) uint16        { return 0 }
func (nullIO) WriteRegister(_ uint32, _, _ uint16) {}

type harness struct {
	bus *memory.Bus
	sch *scheduler.Scheduler
	ic  *irq.IRQ
	dm  *dma.DMA
}

func newHarness() *harness {
	h := &harness{}
	h.bus = memory.NewBus(cartridge.NewCartridge(), nullIO{})
	h.sch = scheduler.New(func(id scheduler.EventID, data uint64) {
		if id == scheduler.EventDmaPending {
			h.dm.Pending(int(data))
		}
	})
	h.ic = irq.NewIRQ(nil)
	h.dm = dma.NewDMA(h.bus, h.sch, h.ic)
	return h
}

func (h *harness) settle() {
	// let the two cycle setup delay of an immediate transfer elapse
	h.sch.Advance(4)
	h.sch.ProcessDue()
}

// the immediate copy scenario: channel 3, 64 halfwords from EWRAM to
// VRAM. the copy lands and the channel disables itself.
func TestImmediateCopy(t *testing.T) {
	h := newHarness()

	for i := uint32(0); i < 64; i++ {
		h.bus.Write16(0x02000000+i*2, uint16(0x1000+i), memory.AccessNonSeq)
	}

	h.dm.SetSource(3, 0, 0x0000, 0xffff)
	h.dm.SetSource(3, 1, 0x0200, 0xffff)
	h.dm.SetDestination(3, 0, 0x0000, 0xffff)
	h.dm.SetDestination(3, 1, 0x0600, 0xffff)
	h.dm.SetCount(3, 64, 0xffff)
	h.dm.SetControl(3, 0x8000, 0xffff)

	h.settle()

	for i := uint32(0); i < 64; i++ {
		v, _ := h.bus.Read16(0x06000000+i*2, memory.AccessNonSeq)
		test.Equate(t, v, uint32(0x1000+i))
	}

	// the channel disabled itself: no repeat
	test.Equate(t, h.dm.Control(3)&0x8000, uint16(0))
}

func TestWordTransferAndDecrement(t *testing.T) {
	h := newHarness()

	h.bus.Write32(0x02000000, 0x11111111, memory.AccessNonSeq)
	h.bus.Write32(0x02000004, 0x22222222, memory.AccessNonSeq)

	// source increments, destination decrements
	h.dm.SetSource(0, 1, 0x0200, 0xffff)
	h.dm.SetDestination(0, 0, 0x0104, 0xffff)
	h.dm.SetDestination(0, 1, 0x0300, 0xffff)
	h.dm.SetCount(0, 2, 0xffff)
	h.dm.SetControl(0, 0x8400|0x0020, 0xffff) // enable, 32 bit, dst decrement

	h.settle()

	v, _ := h.bus.Read32(0x03000104, memory.AccessNonSeq)
	test.Equate(t, v, uint32(0x11111111))
	v, _ = h.bus.Read32(0x03000100, memory.AccessNonSeq)
	test.Equate(t, v, uint32(0x22222222))
}

func TestZeroCountMeansMax(t *testing.T) {
	h := newHarness()

	h.dm.SetSource(0, 1, 0x0200, 0xffff)
	h.dm.SetDestination(0, 1, 0x0300, 0xffff)
	h.dm.SetCount(0, 0, 0xffff)
	h.dm.SetControl(0, 0x8000, 0xffff)

	h.settle()

	// 0x4000 halfwords wrap the 32k of IWRAM; the whole region is
	// written
	v, _ := h.bus.Read16(0x03007ffe, memory.AccessNonSeq)
	_ = v // value is whatever EWRAM held; the point is no crash

	test.Equate(t, h.dm.Control(0)&0x8000, uint16(0))
}

func TestCompletionIRQ(t *testing.T) {
	h := newHarness()

	h.dm.SetSource(3, 1, 0x0200, 0xffff)
	h.dm.SetDestination(3, 1, 0x0300, 0xffff)
	h.dm.SetCount(3, 4, 0xffff)
	h.dm.SetControl(3, 0xc000, 0xffff) // enable + IRQ

	h.settle()

	test.Equate(t, h.ic.Flags()&uint16(irq.DMA3), uint16(irq.DMA3))
}

func TestVBlankTrigger(t *testing.T) {
	h := newHarness()

	h.bus.Write16(0x02000000, 0xbeef, memory.AccessNonSeq)

	h.dm.SetSource(1, 1, 0x0200, 0xffff)
	h.dm.SetDestination(1, 1, 0x0300, 0xffff)
	h.dm.SetCount(1, 1, 0xffff)
	h.dm.SetControl(1, 0x9000, 0xffff) // enable, vblank timing

	// nothing happens until the vblank trigger
	h.settle()
	v, _ := h.bus.Read16(0x03000000, memory.AccessNonSeq)
	test.Equate(t, v, uint32(0))

	h.dm.OnVBlank()
	v, _ = h.bus.Read16(0x03000000, memory.AccessNonSeq)
	test.Equate(t, v, uint32(0xbeef))
}

func TestRepeatReloadsCount(t *testing.T) {
	h := newHarness()

	h.bus.Write16(0x02000000, 0x1234, memory.AccessNonSeq)
	h.bus.Write16(0x02000002, 0x5678, memory.AccessNonSeq)

	h.dm.SetSource(2, 1, 0x0200, 0xffff)
	h.dm.SetDestination(2, 1, 0x0300, 0xffff)
	h.dm.SetCount(2, 1, 0xffff)
	h.dm.SetControl(2, 0x9200, 0xffff) // enable, vblank, repeat

	h.dm.OnVBlank()
	test.Equate(t, h.dm.Control(2)&0x8000, uint16(0x8000))

	// second trigger reads the next source address and writes the next
	// destination address
	h.dm.OnVBlank()
	v, _ := h.bus.Read16(0x03000002, memory.AccessNonSeq)
	test.Equate(t, v, uint32(0x5678))
}

func TestFIFOTransferIsFixedFormat(t *testing.T) {
	h := newHarness()

	for i := uint32(0); i < 8; i++ {
		h.bus.Write32(0x02000000+i*4, 0xa0a0a000+i, memory.AccessNonSeq)
	}

	h.dm.SetSource(1, 1, 0x0200, 0xffff)
	h.dm.SetDestination(1, 0, 0x00a0, 0xffff)
	h.dm.SetDestination(1, 1, 0x0400, 0xffff)
	h.dm.SetCount(1, 0xff, 0xffff) // ignored by the fifo transfer
	h.dm.SetControl(1, 0xb000, 0xffff) // enable, special timing

	h.dm.OnFIFO(dma.FIFOAAddr)

	// exactly four words were consumed from the source
	// (the destination is an IO register; we only check the source
	// latch advanced by 16 bytes via a second trigger reading on)
	h.dm.OnFIFO(dma.FIFOAAddr)

	// no way to observe the FIFO register through the null IO device,
	// but the channel must still be enabled and untouched by count
	test.Equate(t, h.dm.Control(1)&0x8000, uint16(0x8000))
}
