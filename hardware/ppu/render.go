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
	"encoding/binary"

	"github.com/seliware/gopheradvance/display"
)

// transparent marks an empty pixel in the scanline scratch buffers.
const transparent = int32(-1)

func (pp *PPU) pal16(idx int) uint16 {
	return binary.LittleEndian.Uint16(pp.bus.Pal[idx*2:])
}

func (pp *PPU) objPal16(idx int) uint16 {
	return binary.LittleEndian.Uint16(pp.bus.Pal[0x200+idx*2:])
}

// renderLine draws one visible scanline into the working frame.
func (pp *PPU) renderLine(line int) {
	out := pp.work[line*display.Width : (line+1)*display.Width]

	if pp.dispcnt&dispcntForcedBlank != 0 {
		for x := range out {
			out[x] = 0x7fff
		}
		return
	}

	for bg := 0; bg < 4; bg++ {
		if pp.bgEnabled(bg) {
			for x := range pp.bgLine[bg] {
				pp.bgLine[bg][x] = transparent
			}
		}
	}
	for x := range pp.objLine {
		pp.objLine[x] = objPixel{color: transparent}
	}

	mode := pp.dispcnt & dispcntModeMask
	switch mode {
	case 0:
		for bg := 0; bg < 4; bg++ {
			if pp.bgEnabled(bg) {
				pp.renderTextBG(bg, line)
			}
		}
	case 1:
		if pp.bgEnabled(0) {
			pp.renderTextBG(0, line)
		}
		if pp.bgEnabled(1) {
			pp.renderTextBG(1, line)
		}
		if pp.bgEnabled(2) {
			pp.renderAffineBG(2)
		}
	case 2:
		if pp.bgEnabled(2) {
			pp.renderAffineBG(2)
		}
		if pp.bgEnabled(3) {
			pp.renderAffineBG(3)
		}
	case 3, 4, 5:
		if pp.bgEnabled(2) {
			pp.renderBitmap(int(mode))
		}
	}

	if pp.dispcnt&dispcntObj != 0 {
		pp.renderSprites(line)
	}

	pp.composeLine(line, out)
}

func (pp *PPU) bgEnabled(bg int) bool {
	return pp.dispcnt&(dispcntBG0<<uint(bg)) != 0
}

// renderTextBG draws one line of a tiled text background into its
// scratch buffer.
func (pp *PPU) renderTextBG(bg int, line int) {
	cnt := pp.bgcnt[bg]
	charBase := (uint32(cnt>>2) & 0x3) * 0x4000
	screenBase := (uint32(cnt>>8) & 0x1f) * 0x800
	eightBit := cnt&0x0080 != 0
	size := (cnt >> 14) & 0x3

	widthMask := uint32(255)
	if size == 1 || size == 3 {
		widthMask = 511
	}
	heightMask := uint32(255)
	if size == 2 || size == 3 {
		heightMask = 511
	}

	// vertical mosaic resamples an earlier line
	srcLine := uint32(line)
	if cnt&0x0040 != 0 {
		mv := uint32(pp.mosaic>>4) & 0xf
		srcLine -= srcLine % (mv + 1)
	}

	y := (srcLine + uint32(pp.bgvofs[bg])) & heightMask
	mh := uint32(0)
	if cnt&0x0040 != 0 {
		mh = uint32(pp.mosaic) & 0xf
	}

	for sx := uint32(0); sx < display.Width; sx++ {
		px := sx
		if mh != 0 {
			px -= px % (mh + 1)
		}
		x := (px + uint32(pp.bghofs[bg])) & widthMask

		// which of the up to four screenblocks holds this tile
		sbb := uint32(0)
		switch size {
		case 1:
			sbb = x >> 8
		case 2:
			sbb = y >> 8
		case 3:
			sbb = x>>8 + (y>>8)<<1
		}

		tx := (x & 255) >> 3
		ty := (y & 255) >> 3
		entry := binary.LittleEndian.Uint16(pp.bus.VRAM[screenBase+sbb*0x800+(ty*32+tx)*2:])

		tile := uint32(entry & 0x3ff)
		cx := x & 7
		cy := y & 7
		if entry&0x0400 != 0 {
			cx = 7 - cx
		}
		if entry&0x0800 != 0 {
			cy = 7 - cy
		}

		var idx int
		if eightBit {
			idx = int(pp.bus.VRAM[charBase+tile*64+cy*8+cx])
			if idx != 0 {
				pp.bgLine[bg][sx] = int32(pp.pal16(idx))
			}
		} else {
			b := pp.bus.VRAM[charBase+tile*32+cy*4+cx/2]
			if cx&1 != 0 {
				idx = int(b >> 4)
			} else {
				idx = int(b & 0xf)
			}
			if idx != 0 {
				pal := int(entry>>12) & 0xf
				pp.bgLine[bg][sx] = int32(pp.pal16(pal*16 + idx))
			}
		}
	}
}

// renderAffineBG draws one line of a rotation/scaling background. The
// internal counters have been stepped to this line by the hblank
// handler.
func (pp *PPU) renderAffineBG(bg int) {
	a := &pp.bgAffine[bg-2]
	cnt := pp.bgcnt[bg]

	charBase := (uint32(cnt>>2) & 0x3) * 0x4000
	screenBase := (uint32(cnt>>8) & 0x1f) * 0x800
	wrap := cnt&0x2000 != 0

	tiles := uint32(16) << ((cnt >> 14) & 0x3) // 128 to 1024 pixels
	sizeMask := tiles*8 - 1

	cx := a.curX
	cy := a.curY
	pa := int32(a.params[0])
	pc := int32(a.params[2])

	for sx := 0; sx < display.Width; sx++ {
		tx := cx >> 8
		ty := cy >> 8
		cx += pa
		cy += pc

		if wrap {
			tx &= int32(sizeMask)
			ty &= int32(sizeMask)
		} else if tx < 0 || ty < 0 || tx > int32(sizeMask) || ty > int32(sizeMask) {
			continue
		}

		tile := uint32(pp.bus.VRAM[screenBase+(uint32(ty)>>3)*tiles+(uint32(tx)>>3)])
		idx := int(pp.bus.VRAM[charBase+tile*64+(uint32(ty)&7)*8+(uint32(tx)&7)])
		if idx != 0 {
			pp.bgLine[bg][sx] = int32(pp.pal16(idx))
		}
	}
}

// renderBitmap draws one line of the single layer bitmap modes, sampled
// through the BG2 affine transform.
func (pp *PPU) renderBitmap(mode int) {
	a := &pp.bgAffine[0]

	var w, h int32
	var page uint32
	switch mode {
	case 3:
		w, h = 240, 160
	case 4:
		w, h = 240, 160
		if pp.dispcnt&dispcntPage != 0 {
			page = 0xa000
		}
	case 5:
		w, h = 160, 128
		if pp.dispcnt&dispcntPage != 0 {
			page = 0xa000
		}
	}

	cx := a.curX
	cy := a.curY
	pa := int32(a.params[0])
	pc := int32(a.params[2])

	for sx := 0; sx < display.Width; sx++ {
		px := cx >> 8
		py := cy >> 8
		cx += pa
		cy += pc

		if px < 0 || py < 0 || px >= w || py >= h {
			continue
		}

		switch mode {
		case 3:
			c := binary.LittleEndian.Uint16(pp.bus.VRAM[(py*240+px)*2:])
			pp.bgLine[2][sx] = int32(c & 0x7fff)
		case 4:
			idx := int(pp.bus.VRAM[page+uint32(py*240+px)])
			if idx != 0 {
				pp.bgLine[2][sx] = int32(pp.pal16(idx))
			}
		case 5:
			c := binary.LittleEndian.Uint16(pp.bus.VRAM[page+uint32(py*160+px)*2:])
			pp.bgLine[2][sx] = int32(c & 0x7fff)
		}
	}
}
