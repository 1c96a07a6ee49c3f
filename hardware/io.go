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

package hardware

import (
	"github.com/seliware/gopheradvance/logger"
)

// I/O register offsets, relative to 0x04000000.
const (
	regDISPCNT  = 0x000
	regDISPSTAT = 0x004
	regVCOUNT   = 0x006
	regBG0CNT   = 0x008
	regBG0HOFS  = 0x010
	regBG2PA    = 0x020
	regBG2X     = 0x028
	regBG2Y     = 0x02c
	regBG3PA    = 0x030
	regBG3X     = 0x038
	regBG3Y     = 0x03c
	regWIN0H    = 0x040
	regWIN1H    = 0x042
	regWIN0V    = 0x044
	regWIN1V    = 0x046
	regWININ    = 0x048
	regWINOUT   = 0x04a
	regMOSAIC   = 0x04c
	regBLDCNT   = 0x050
	regBLDALPHA = 0x052
	regBLDY     = 0x054

	regSoundBase = 0x060
	regSoundTop  = 0x0a8

	regDMABase = 0x0b0
	regDMATop  = 0x0e0

	regTimerBase = 0x100
	regTimerTop  = 0x110

	regSIOCNT   = 0x128
	regKEYINPUT = 0x130
	regKEYCNT   = 0x132
	regRCNT     = 0x134

	regIE      = 0x200
	regIF      = 0x202
	regWAITCNT = 0x204
	regIME     = 0x208
	regPOSTFLG = 0x300
)

// ReadRegister implements the memory.IODevice interface, routing a
// register read to its subsystem.
func (gba *GBA) ReadRegister(offset uint32) uint16 {
	switch {
	case offset == regDISPCNT:
		return gba.PPU.DisplayControl()
	case offset == regDISPSTAT:
		return gba.PPU.DisplayStatus()
	case offset == regVCOUNT:
		return gba.PPU.VCount()
	case offset >= regBG0CNT && offset < regBG0HOFS:
		return gba.PPU.BGControl(int(offset-regBG0CNT) / 2)
	case offset == regWININ:
		return gba.PPU.WindowIn()
	case offset == regWINOUT:
		return gba.PPU.WindowOut()
	case offset == regBLDCNT:
		return gba.PPU.BlendControl()
	case offset == regBLDALPHA:
		return gba.PPU.BlendAlpha()

	case offset >= regSoundBase && offset < regSoundTop:
		return gba.APU.ReadRegister(offset)

	case offset >= regDMABase && offset < regDMATop:
		return gba.readDMARegister(offset)

	case offset >= regTimerBase && offset < regTimerTop:
		i := int(offset-regTimerBase) / 4
		if offset&0x2 == 0 {
			return gba.Timers.Counter(i)
		}
		return gba.Timers.Control(i)

	case offset == regSIOCNT:
		return gba.siocnt
	case offset == regKEYINPUT:
		return gba.Input.KeyInput()
	case offset == regKEYCNT:
		return gba.Input.KeyControl()
	case offset == regRCNT:
		return gba.rcnt

	case offset == regIE:
		return gba.IRQ.Enable()
	case offset == regIF:
		return gba.IRQ.Flags()
	case offset == regWAITCNT:
		return gba.Mem.WaitControl()
	case offset == regIME:
		return gba.IRQ.MasterEnable()
	case offset == regPOSTFLG:
		return uint16(gba.postflg)
	}

	return 0
}

// WriteRegister implements the memory.IODevice interface, routing a
// register write to its subsystem.
func (gba *GBA) WriteRegister(offset uint32, data uint16, mask uint16) {
	switch {
	case offset == regDISPCNT:
		gba.PPU.SetDisplayControl(data, mask)
	case offset == regDISPSTAT:
		gba.PPU.SetDisplayStatus(data, mask)
	case offset == regVCOUNT:
		// read only

	case offset >= regBG0CNT && offset < regBG0HOFS:
		gba.PPU.SetBGControl(int(offset-regBG0CNT)/2, data, mask)

	case offset >= regBG0HOFS && offset < regBG2PA:
		bg := int(offset-regBG0HOFS) / 4
		gba.PPU.SetBGScroll(bg, offset&0x2 != 0, data, mask)

	case offset >= regBG2PA && offset < regBG2X:
		gba.PPU.SetBGAffineParam(0, int(offset-regBG2PA)/2, data, mask)
	case offset >= regBG2X && offset < regBG3PA:
		vertical := offset >= regBG2Y
		gba.PPU.SetBGReference(0, vertical, (offset>>1)&1, data, mask)
	case offset >= regBG3PA && offset < regBG3X:
		gba.PPU.SetBGAffineParam(1, int(offset-regBG3PA)/2, data, mask)
	case offset >= regBG3X && offset < regWIN0H:
		vertical := offset >= regBG3Y
		gba.PPU.SetBGReference(1, vertical, (offset>>1)&1, data, mask)

	case offset == regWIN0H:
		gba.PPU.SetWindowH(0, data, mask)
	case offset == regWIN1H:
		gba.PPU.SetWindowH(1, data, mask)
	case offset == regWIN0V:
		gba.PPU.SetWindowV(0, data, mask)
	case offset == regWIN1V:
		gba.PPU.SetWindowV(1, data, mask)
	case offset == regWININ:
		gba.PPU.SetWindowIn(data, mask)
	case offset == regWINOUT:
		gba.PPU.SetWindowOut(data, mask)
	case offset == regMOSAIC:
		gba.PPU.SetMosaic(data, mask)
	case offset == regBLDCNT:
		gba.PPU.SetBlendControl(data, mask)
	case offset == regBLDALPHA:
		gba.PPU.SetBlendAlpha(data, mask)
	case offset == regBLDY:
		gba.PPU.SetBlendBrightness(data, mask)

	case offset >= regSoundBase && offset < regSoundTop:
		gba.APU.WriteRegister(offset, data, mask)

	case offset >= regDMABase && offset < regDMATop:
		gba.writeDMARegister(offset, data, mask)

	case offset >= regTimerBase && offset < regTimerTop:
		i := int(offset-regTimerBase) / 4
		if offset&0x2 == 0 {
			gba.Timers.SetReload(i, data, mask)
		} else {
			gba.Timers.SetControl(i, data, mask)
		}

	case offset == regSIOCNT:
		// the serial port is not emulated beyond remembering the
		// register value
		gba.siocnt = (gba.siocnt &^ mask) | (data & mask)
	case offset == regKEYCNT:
		gba.Input.SetKeyControl(data, mask)
	case offset == regRCNT:
		gba.rcnt = (gba.rcnt &^ mask) | (data & mask)

	case offset == regIE:
		gba.IRQ.SetEnable(data, mask)
	case offset == regIF:
		gba.IRQ.Acknowledge(data, mask)
	case offset == regWAITCNT:
		gba.Mem.SetWaitControl(data, mask)
	case offset == regIME:
		gba.IRQ.SetMasterEnable(data, mask)

	case offset == regPOSTFLG:
		if mask&0x00ff != 0 {
			gba.postflg = uint8(data)
		}
		if mask&0xff00 != 0 {
			// HALTCNT. bit 15 selects stop over halt
			if data&0x8000 != 0 {
				gba.CPU.Stopped = true
			} else {
				gba.CPU.Halted = true
			}
			// a pending enabled interrupt cancels the sleep
			// immediately
			if gba.IRQ.Pending() {
				gba.Wake()
			}
		}

	default:
		logger.Logf(logger.Allow, "io", "write to unhandled register %#03x", offset)
	}
}

// DMA register block: per channel, source (4), destination (4), count
// (2) and control (2).
func (gba *GBA) readDMARegister(offset uint32) uint16 {
	rel := offset - regDMABase
	i := int(rel / 12)
	switch rel % 12 {
	case 10:
		return gba.DMA.Control(i)
	}
	// the address and count registers are write only
	return 0
}

func (gba *GBA) writeDMARegister(offset uint32, data uint16, mask uint16) {
	rel := offset - regDMABase
	i := int(rel / 12)
	switch rel % 12 {
	case 0:
		gba.DMA.SetSource(i, 0, data, mask)
	case 2:
		gba.DMA.SetSource(i, 1, data, mask)
	case 4:
		gba.DMA.SetDestination(i, 0, data, mask)
	case 6:
		gba.DMA.SetDestination(i, 1, data, mask)
	case 8:
		gba.DMA.SetCount(i, data, mask)
	case 10:
		gba.DMA.SetControl(i, data, mask)
	}
}
