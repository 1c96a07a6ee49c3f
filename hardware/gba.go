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

// Package hardware holds the top level GBA struct, wiring every
// subsystem together and running the machine one frame at a time.
//
// Cyclic references between subsystems are broken in two ways: the
// scheduler dispatches events through a single table owned here, keyed
// by EventID rather than by callback, and the memory bus routes I/O
// register traffic back through the GBA's IODevice implementation.
package hardware

import (
	"github.com/seliware/gopheradvance/curated"
	"github.com/seliware/gopheradvance/hardware/apu"
	"github.com/seliware/gopheradvance/hardware/cpu"
	"github.com/seliware/gopheradvance/hardware/dma"
	"github.com/seliware/gopheradvance/hardware/input"
	"github.com/seliware/gopheradvance/hardware/irq"
	"github.com/seliware/gopheradvance/hardware/memory"
	"github.com/seliware/gopheradvance/hardware/memory/cartridge"
	"github.com/seliware/gopheradvance/hardware/memory/gamedb"
	"github.com/seliware/gopheradvance/hardware/ppu"
	"github.com/seliware/gopheradvance/hardware/scheduler"
	"github.com/seliware/gopheradvance/hardware/timer"
	"github.com/seliware/gopheradvance/logger"
)

// CyclesPerFrame is the length of one video field in system clock
// cycles: 228 lines of 1232 cycles.
const CyclesPerFrame = 280896

// GBA is the main container for the emulated components of the
// console.
type GBA struct {
	Sched  *scheduler.Scheduler
	Cart   *cartridge.Cartridge
	IRQ    *irq.IRQ
	Mem    *memory.Bus
	CPU    *cpu.CPU
	DMA    *dma.DMA
	APU    *apu.APU
	Timers *timer.Timers
	PPU    *ppu.PPU
	Input  *input.Input

	// whether the RTC should be attached when the database does not
	// know the title. set by the Rtc command before emulation starts
	RTCAutoDetect bool
	RTCForced     bool

	postflg uint8
	rcnt    uint16
	siocnt  uint16
}

// NewGBA creates a new GBA and everything associated with the
// hardware.
func NewGBA() *GBA {
	gba := &GBA{RTCAutoDetect: true}

	gba.Sched = scheduler.New(gba.dispatchEvent)
	gba.Cart = cartridge.NewCartridge()
	gba.IRQ = irq.NewIRQ(gba)
	gba.Mem = memory.NewBus(gba.Cart, gba)
	gba.CPU = cpu.NewCPU(gba.Mem, gba.IRQ)
	gba.DMA = dma.NewDMA(gba.Mem, gba.Sched, gba.IRQ)
	gba.APU = apu.NewAPU(gba.Sched, gba.DMA)
	gba.Timers = timer.NewTimers(gba.Sched, gba.IRQ, gba.APU)
	gba.PPU = ppu.NewPPU(gba.Mem, gba.Sched, gba.IRQ, gba.DMA)
	gba.Input = input.NewInput(gba.IRQ)

	return gba
}

// Wake implements the irq.Waker interface. Any enabled interrupt pulls
// the CPU out of both low power states.
func (gba *GBA) Wake() {
	gba.CPU.Halted = false
	gba.CPU.Stopped = false
}

// dispatchEvent routes a fired scheduler event to the subsystem that
// registered it.
func (gba *GBA) dispatchEvent(id scheduler.EventID, data uint64) {
	switch id {
	case scheduler.EventHBlankStart:
		gba.PPU.HBlankStart()
	case scheduler.EventLineEnd:
		gba.PPU.LineEnd()
	case scheduler.EventTimerOverflow0, scheduler.EventTimerOverflow1,
		scheduler.EventTimerOverflow2, scheduler.EventTimerOverflow3:
		gba.Timers.Overflow(int(data))
	case scheduler.EventApuSample:
		gba.APU.Sample()
	case scheduler.EventApuLength:
		gba.APU.LengthTick()
	case scheduler.EventApuEnvelope:
		gba.APU.EnvelopeTick()
	case scheduler.EventApuSweep:
		gba.APU.SweepTick()
	case scheduler.EventDmaPending:
		gba.DMA.Pending(int(data))
	default:
		logger.Logf(logger.Allow, "gba", "unhandled event %s", id)
	}
}

// Reset the console to its power-on state. BIOS and ROM contents are
// kept; everything else starts over.
func (gba *GBA) Reset() {
	gba.Sched.Reset()
	gba.Mem.Reset()
	gba.IRQ.Reset()
	gba.DMA.Reset()
	gba.Timers.Reset()
	gba.APU.Reset()
	gba.PPU.Reset()
	gba.Input.Reset()
	gba.CPU.Reset()
	gba.postflg = 0
	gba.rcnt = 0
	gba.siocnt = 0
}

// AttachBIOS copies a BIOS image into place. The image must be exactly
// 16KiB.
func (gba *GBA) AttachBIOS(data []byte) error {
	if len(data) != memory.BIOSSize {
		return curated.Errorf("gba: BIOS image must be 16384 bytes (got %d)", len(data))
	}
	copy(gba.Mem.BIOS, data)
	return nil
}

// AttachROM loads a ROM image, consults the game database and prepares
// the backup device and the RTC.
func (gba *GBA) AttachROM(data []byte) error {
	if err := gba.Cart.Attach(data); err != nil {
		return err
	}

	if entry, ok := gamedb.Lookup(gba.Cart.GameCode); ok {
		logger.Logf(logger.Allow, "gba", "database: %s", entry.Title)
		gba.Cart.SetBackupType(entry.Backup, cartridge.BackupSourceAuto)
		if entry.RTC && (gba.RTCAutoDetect || gba.RTCForced) {
			gba.Cart.AttachRTC()
		}
	} else {
		if bt := cartridge.DetectBackup(gba.Cart.ROM); bt != cartridge.BackupNone {
			gba.Cart.SetBackupType(bt, cartridge.BackupSourceAuto)
		}
		if gba.RTCForced {
			gba.Cart.AttachRTC()
		}
	}

	return nil
}

// RunFrame advances the emulation by one video frame. The scheduler
// clock is normalized afterwards so that the cycle counters can never
// overflow.
func (gba *GBA) RunFrame() {
	gba.Sched.RunFor(CyclesPerFrame, gba.runCPU)

	base := gba.Sched.Normalize()
	gba.Timers.Normalize(base)
}

// runCPU is the run function handed to the scheduler: execute
// instructions until the clock reaches the next event. A halted CPU
// skips straight there.
func (gba *GBA) runCPU(target uint64) {
	for gba.Sched.Cycles() < target {
		if gba.CPU.Halted || gba.CPU.Stopped {
			gba.Sched.Advance(target - gba.Sched.Cycles())
			return
		}
		gba.Sched.Advance(gba.CPU.Step())
	}
}
