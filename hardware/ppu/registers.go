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

// DISPCNT bits.
const (
	dispcntModeMask    = 0x0007
	dispcntPage        = 0x0010
	dispcntObjMapping  = 0x0040
	dispcntForcedBlank = 0x0080
	dispcntBG0         = 0x0100
	dispcntObj         = 0x1000
	dispcntWin0        = 0x2000
	dispcntWin1        = 0x4000
	dispcntObjWin      = 0x8000
)

// DISPSTAT bits.
const (
	dispstatVBlank    = 0x0001
	dispstatHBlank    = 0x0002
	dispstatVCount    = 0x0004
	dispstatVBlankIRQ = 0x0008
	dispstatHBlankIRQ = 0x0010
	dispstatVCountIRQ = 0x0020
)

// DisplayControl returns the DISPCNT register.
func (pp *PPU) DisplayControl() uint16 {
	return pp.dispcnt
}

// SetDisplayControl writes the DISPCNT register.
func (pp *PPU) SetDisplayControl(data uint16, mask uint16) {
	pp.dispcnt = (pp.dispcnt &^ mask) | (data & mask)
}

// DisplayStatus returns the DISPSTAT register, with the live blanking
// and match flags.
func (pp *PPU) DisplayStatus() uint16 {
	return pp.dispstat
}

// SetDisplayStatus writes the writable bits of DISPSTAT: the interrupt
// enables and the VCOUNT match setting.
func (pp *PPU) SetDisplayStatus(data uint16, mask uint16) {
	mask &= 0xfff8
	pp.dispstat = (pp.dispstat &^ mask) | (data & mask)
}

// VCount returns the VCOUNT register.
func (pp *PPU) VCount() uint16 {
	return pp.vcount
}

// BGControl returns a background's BGxCNT register.
func (pp *PPU) BGControl(i int) uint16 {
	return pp.bgcnt[i]
}

// SetBGControl writes a background's BGxCNT register.
func (pp *PPU) SetBGControl(i int, data uint16, mask uint16) {
	pp.bgcnt[i] = (pp.bgcnt[i] &^ mask) | (data & mask)
}

// SetBGScroll writes a background's scroll registers. vertical selects
// BGxVOFS over BGxHOFS. The registers are write only.
func (pp *PPU) SetBGScroll(i int, vertical bool, data uint16, mask uint16) {
	if vertical {
		pp.bgvofs[i] = (pp.bgvofs[i] &^ mask) | (data & mask & 0x1ff)
	} else {
		pp.bghofs[i] = (pp.bghofs[i] &^ mask) | (data & mask & 0x1ff)
	}
}

// SetBGAffineParam writes one of the BG2/BG3 transform parameters
// PA/PB/PC/PD. bg is 0 for BG2 and 1 for BG3.
func (pp *PPU) SetBGAffineParam(bg int, param int, data uint16, mask uint16) {
	v := uint16(pp.bgAffine[bg].params[param])
	v = (v &^ mask) | (data & mask)
	pp.bgAffine[bg].params[param] = int16(v)
}

// SetBGReference writes half of one of the BG2/BG3 28 bit reference
// point registers. Writing during a frame also reloads the internal
// counters, which is how games move an affine layer mid-frame.
func (pp *PPU) SetBGReference(bg int, vertical bool, half uint32, data uint16, mask uint16) {
	p := &pp.bgAffine[bg].refX
	if vertical {
		p = &pp.bgAffine[bg].refY
	}

	shift := half * 16
	m := uint32(mask) << shift
	v := (uint32(*p) &^ m) | (uint32(data)<<shift)&m

	// sign extend from 28 bits
	*p = int32(v<<4) >> 4

	if vertical {
		pp.bgAffine[bg].curY = *p
	} else {
		pp.bgAffine[bg].curX = *p
	}
}

// SetMosaic writes the MOSAIC register.
func (pp *PPU) SetMosaic(data uint16, mask uint16) {
	pp.mosaic = (pp.mosaic &^ mask) | (data & mask)
}

// BlendControl returns the BLDCNT register.
func (pp *PPU) BlendControl() uint16 {
	return pp.bldcnt
}

// SetBlendControl writes the BLDCNT register.
func (pp *PPU) SetBlendControl(data uint16, mask uint16) {
	pp.bldcnt = (pp.bldcnt &^ mask) | (data & mask & 0x3fff)
}

// BlendAlpha returns the BLDALPHA register.
func (pp *PPU) BlendAlpha() uint16 {
	return pp.bldalpha
}

// SetBlendAlpha writes the BLDALPHA register.
func (pp *PPU) SetBlendAlpha(data uint16, mask uint16) {
	pp.bldalpha = (pp.bldalpha &^ mask) | (data & mask & 0x1f1f)
}

// SetBlendBrightness writes the BLDY register.
func (pp *PPU) SetBlendBrightness(data uint16, mask uint16) {
	pp.bldy = (pp.bldy &^ mask) | (data & mask & 0x001f)
}

// SetWindowH writes a window's horizontal bounds register.
func (pp *PPU) SetWindowH(i int, data uint16, mask uint16) {
	pp.winh[i] = (pp.winh[i] &^ mask) | (data & mask)
}

// SetWindowV writes a window's vertical bounds register.
func (pp *PPU) SetWindowV(i int, data uint16, mask uint16) {
	pp.winv[i] = (pp.winv[i] &^ mask) | (data & mask)
}

// WindowIn returns the WININ register.
func (pp *PPU) WindowIn() uint16 {
	return pp.winin
}

// SetWindowIn writes the WININ register.
func (pp *PPU) SetWindowIn(data uint16, mask uint16) {
	pp.winin = (pp.winin &^ mask) | (data & mask & 0x3f3f)
}

// WindowOut returns the WINOUT register.
func (pp *PPU) WindowOut() uint16 {
	return pp.winout
}

// SetWindowOut writes the WINOUT register.
func (pp *PPU) SetWindowOut(data uint16, mask uint16) {
	pp.winout = (pp.winout &^ mask) | (data & mask & 0x3f3f)
}
