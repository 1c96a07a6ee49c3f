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

package ppu

import (
	"github.com/seliware/gopheradvance/display"
	"github.com/seliware/gopheradvance/hardware/irq"
	"github.com/seliware/gopheradvance/hardware/memory"
	"github.com/seliware/gopheradvance/hardware/scheduler"
	"github.com/seliware/gopheradvance/logger"
	"github.com/seliware/gopheradvance/statefile"
)

// Timing of the line state machine, in system clock cycles.
const (
	CyclesVisible = 1006
	CyclesHBlank  = 226
	CyclesPerLine = CyclesVisible + CyclesHBlank

	VisibleLines = 160
	VBlankLines  = 68
	TotalLines   = VisibleLines + VBlankLines
)

// DMATrigger is the view of the DMA controller the PPU needs for the
// blanking and video capture triggers.
type DMATrigger interface {
	OnVBlank()
	OnHBlank()
	OnVideo()
}

type affineState struct {
	// PA, PB, PC, PD
	params [4]int16

	// 28 bit reference point registers
	refX int32
	refY int32

	// internal counters, advanced by PB/PD per line and reloaded from
	// the reference registers at the start of the vertical blank
	curX int32
	curY int32
}

// PPU is the video unit.
type PPU struct {
	bus *memory.Bus
	sch *scheduler.Scheduler
	irq *irq.IRQ
	dma DMATrigger

	renderers []display.PixelRenderer

	dispcnt  uint16
	dispstat uint16
	vcount   uint16

	bgcnt    [4]uint16
	bghofs   [4]uint16
	bgvofs   [4]uint16
	bgAffine [2]affineState

	mosaic   uint16
	bldcnt   uint16
	bldalpha uint16
	bldy     uint16
	winh     [2]uint16
	winv     [2]uint16
	winin    uint16
	winout   uint16

	// the frame being assembled, in native RGB555
	work [display.Width * display.Height]uint16

	// finished frame in RGBA, double buffered
	frames  [2]display.Frame
	flip    int
	ColorCorrection bool

	// scanline scratch buffers, see render.go
	bgLine  [4][display.Width]int32
	objLine [display.Width]objPixel
}

// NewPPU is the preferred method of initialisation for the PPU type.
func NewPPU(bus *memory.Bus, sch *scheduler.Scheduler, ic *irq.IRQ, dma DMATrigger) *PPU {
	return &PPU{
		bus: bus,
		sch: sch,
		irq: ic,
		dma: dma,
	}
}

// Plumb a new bus into the PPU.
func (pp *PPU) Plumb(bus *memory.Bus) {
	pp.bus = bus
}

// AddPixelRenderer registers an (additional) consumer of finished
// frames.
func (pp *PPU) AddPixelRenderer(r display.PixelRenderer) {
	pp.renderers = append(pp.renderers, r)
}

// Reset rewinds the state machine to the top of the frame and schedules
// the line events. Must be called after the scheduler's own reset.
func (pp *PPU) Reset() {
	pp.dispcnt = 0
	pp.dispstat = 0
	pp.vcount = 0
	pp.bgcnt = [4]uint16{}
	pp.bghofs = [4]uint16{}
	pp.bgvofs = [4]uint16{}
	pp.bgAffine = [2]affineState{}
	pp.mosaic = 0
	pp.bldcnt = 0
	pp.bldalpha = 0
	pp.bldy = 0
	pp.winh = [2]uint16{}
	pp.winv = [2]uint16{}
	pp.winin = 0
	pp.winout = 0

	// identity transform
	pp.bgAffine[0].params[0] = 0x100
	pp.bgAffine[0].params[3] = 0x100
	pp.bgAffine[1].params[0] = 0x100
	pp.bgAffine[1].params[3] = 0x100

	pp.sch.Schedule(scheduler.EventHBlankStart, 0, CyclesVisible)
	pp.sch.Schedule(scheduler.EventLineEnd, 0, CyclesPerLine)

	pp.checkVCountMatch()
}

// HBlankStart services the hblank event: the line that just finished
// drawing is rendered, the flag is raised and the hblank triggers fire.
// Called by the hardware dispatch table.
func (pp *PPU) HBlankStart() {
	// reschedule before anything else. a DMA transfer triggered below
	// advances the clock and must not push the line timing out
	pp.sch.Schedule(scheduler.EventHBlankStart, 0, CyclesPerLine)

	pp.dispstat |= dispstatHBlank

	if pp.dispstat&dispstatHBlankIRQ != 0 {
		pp.irq.Raise(irq.HBlank)
	}

	if pp.vcount < VisibleLines {
		pp.renderLine(int(pp.vcount))
		pp.dma.OnHBlank()

		// the affine counters step once per rendered line
		for i := range pp.bgAffine {
			pp.bgAffine[i].curX += int32(pp.bgAffine[i].params[1])
			pp.bgAffine[i].curY += int32(pp.bgAffine[i].params[3])
		}
	}

	// video capture DMA runs on lines 2 to 161
	if pp.vcount >= 2 && pp.vcount < 162 {
		pp.dma.OnVideo()
	}
}

// LineEnd services the end of line event: VCOUNT advances and the
// vertical blank bookkeeping happens.
func (pp *PPU) LineEnd() {
	pp.sch.Schedule(scheduler.EventLineEnd, 0, CyclesPerLine)

	pp.dispstat &^= dispstatHBlank

	pp.vcount++
	if pp.vcount == TotalLines {
		pp.vcount = 0
	}

	switch {
	case pp.vcount == VisibleLines:
		pp.dispstat |= dispstatVBlank
		if pp.dispstat&dispstatVBlankIRQ != 0 {
			pp.irq.Raise(irq.VBlank)
		}
		pp.dma.OnVBlank()
		pp.publishFrame()

		// the affine counters reload for the next frame
		for i := range pp.bgAffine {
			pp.bgAffine[i].curX = pp.bgAffine[i].refX
			pp.bgAffine[i].curY = pp.bgAffine[i].refY
		}

	case pp.vcount == TotalLines-1:
		// the flag clears one line before the frame wraps
		pp.dispstat &^= dispstatVBlank
	}

	pp.checkVCountMatch()
}

func (pp *PPU) checkVCountMatch() {
	if pp.vcount == pp.dispstat>>8 {
		was := pp.dispstat&dispstatVCount != 0
		pp.dispstat |= dispstatVCount
		if !was && pp.dispstat&dispstatVCountIRQ != 0 {
			pp.irq.Raise(irq.VCount)
		}
	} else {
		pp.dispstat &^= dispstatVCount
	}
}

// publishFrame converts the working frame to RGBA and hands it to every
// registered renderer.
func (pp *PPU) publishFrame() {
	frame := &pp.frames[pp.flip]
	pp.flip ^= 1

	for i, c := range pp.work {
		r := uint8(c & 0x1f)
		g := uint8((c >> 5) & 0x1f)
		b := uint8((c >> 10) & 0x1f)

		if pp.ColorCorrection {
			r, g, b = correctColor(r, g, b)
		} else {
			r = r<<3 | r>>2
			g = g<<3 | g>>2
			b = b<<3 | b>>2
		}

		frame.Pixels[i*4] = r
		frame.Pixels[i*4+1] = g
		frame.Pixels[i*4+2] = b
		frame.Pixels[i*4+3] = 0xff
	}

	for _, r := range pp.renderers {
		if err := r.NewFrame(frame); err != nil {
			logger.Logf(logger.Allow, "ppu", "renderer: %v", err)
		}
	}
}

// correctColor approximates the response of the AGB LCD, which mutes
// and crosstalks the pure RGB values considerably.
func correctColor(r, g, b uint8) (uint8, uint8, uint8) {
	rr := uint32(r)
	gg := uint32(g)
	bb := uint32(b)

	cr := (rr*26 + gg*4 + bb*2) * 255 / (31 * 32)
	cg := (gg*24 + bb*8) * 255 / (31 * 32)
	cb := (rr*6 + gg*4 + bb*22) * 255 / (31 * 32)

	return uint8(cr), uint8(cg), uint8(cb)
}

// SaveState serialises the PPU registers and internal counters. The
// working frame is not saved; the next frame redraws it.
func (pp *PPU) SaveState(w *statefile.Writer) {
	w.WriteUint16(pp.dispcnt)
	w.WriteUint16(pp.dispstat)
	w.WriteUint16(pp.vcount)
	for i := 0; i < 4; i++ {
		w.WriteUint16(pp.bgcnt[i])
		w.WriteUint16(pp.bghofs[i])
		w.WriteUint16(pp.bgvofs[i])
	}
	for i := 0; i < 2; i++ {
		for p := 0; p < 4; p++ {
			w.WriteUint16(uint16(pp.bgAffine[i].params[p]))
		}
		w.WriteInt32(pp.bgAffine[i].refX)
		w.WriteInt32(pp.bgAffine[i].refY)
		w.WriteInt32(pp.bgAffine[i].curX)
		w.WriteInt32(pp.bgAffine[i].curY)
	}
	w.WriteUint16(pp.mosaic)
	w.WriteUint16(pp.bldcnt)
	w.WriteUint16(pp.bldalpha)
	w.WriteUint16(pp.bldy)
	for i := 0; i < 2; i++ {
		w.WriteUint16(pp.winh[i])
		w.WriteUint16(pp.winv[i])
	}
	w.WriteUint16(pp.winin)
	w.WriteUint16(pp.winout)
	w.WriteBool(pp.ColorCorrection)
}

// LoadState restores the PPU registers and internal counters. The line
// events are restored with the scheduler queue, not here.
func (pp *PPU) LoadState(r *statefile.Reader) error {
	pp.dispcnt = r.ReadUint16()
	pp.dispstat = r.ReadUint16()
	pp.vcount = r.ReadUint16()
	for i := 0; i < 4; i++ {
		pp.bgcnt[i] = r.ReadUint16()
		pp.bghofs[i] = r.ReadUint16()
		pp.bgvofs[i] = r.ReadUint16()
	}
	for i := 0; i < 2; i++ {
		for p := 0; p < 4; p++ {
			pp.bgAffine[i].params[p] = int16(r.ReadUint16())
		}
		pp.bgAffine[i].refX = r.ReadInt32()
		pp.bgAffine[i].refY = r.ReadInt32()
		pp.bgAffine[i].curX = r.ReadInt32()
		pp.bgAffine[i].curY = r.ReadInt32()
	}
	pp.mosaic = r.ReadUint16()
	pp.bldcnt = r.ReadUint16()
	pp.bldalpha = r.ReadUint16()
	pp.bldy = r.ReadUint16()
	for i := 0; i < 2; i++ {
		pp.winh[i] = r.ReadUint16()
		pp.winv[i] = r.ReadUint16()
	}
	pp.winin = r.ReadUint16()
	pp.winout = r.ReadUint16()
	pp.ColorCorrection = r.ReadBool()
	return r.Err()
}
