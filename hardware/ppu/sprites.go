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

// objPixel is one sprite layer pixel in the scanline scratch buffer.
type objPixel struct {
	color    int32
	priority uint8

	// the pixel came from a semi-transparent sprite
	semi bool

	// the pixel is inside the object window
	window bool
}

// object dimensions in pixels, indexed by shape then size.
var objDims = [3][4][2]int32{
	{{8, 8}, {16, 16}, {32, 32}, {64, 64}},  // square
	{{16, 8}, {32, 8}, {32, 16}, {64, 32}},  // horizontal
	{{8, 16}, {8, 32}, {16, 32}, {32, 64}},  // vertical
}

const objCharBase = 0x10000

// renderSprites draws the sprite layer for one scanline.
func (pp *PPU) renderSprites(line int) {
	bitmapMode := pp.dispcnt&dispcntModeMask >= 3
	oneDim := pp.dispcnt&dispcntObjMapping != 0

	for s := 0; s < 128; s++ {
		attr0 := binary.LittleEndian.Uint16(pp.bus.OAM[s*8:])
		attr1 := binary.LittleEndian.Uint16(pp.bus.OAM[s*8+2:])
		attr2 := binary.LittleEndian.Uint16(pp.bus.OAM[s*8+4:])

		affine := attr0&0x0100 != 0
		if !affine && attr0&0x0200 != 0 {
			// the double size bit doubles as the disable bit
			continue
		}

		objMode := (attr0 >> 10) & 0x3
		if objMode == 3 {
			continue
		}

		shape := (attr0 >> 14) & 0x3
		if shape == 3 {
			continue
		}
		size := (attr1 >> 14) & 0x3
		w := objDims[shape][size][0]
		h := objDims[shape][size][1]

		boxW, boxH := w, h
		if affine && attr0&0x0200 != 0 {
			boxW *= 2
			boxH *= 2
		}

		// y wraps at 256. the comparison is done in wrapped space
		y := int32(attr0 & 0xff)
		dy := (int32(line) - y) & 0xff
		if dy >= boxH {
			continue
		}

		x := int32(attr1 & 0x1ff)
		if x >= display.Width {
			x -= 512
		}

		eightBit := attr0&0x2000 != 0
		tile := uint32(attr2 & 0x3ff)
		priority := uint8((attr2 >> 10) & 0x3)
		pal := int(attr2>>12) & 0xf

		if bitmapMode && tile < 512 {
			// the lower character block is claimed by the bitmap
			continue
		}

		// tiles per row of the sprite sheet
		var rowStride uint32
		if oneDim {
			rowStride = uint32(w / 8)
			if eightBit {
				rowStride *= 2
			}
		} else {
			rowStride = 32
		}

		var pa, pb, pc, pd int32
		if affine {
			group := int((attr1 >> 9) & 0x1f)
			pa = int32(int16(binary.LittleEndian.Uint16(pp.bus.OAM[group*32+6:])))
			pb = int32(int16(binary.LittleEndian.Uint16(pp.bus.OAM[group*32+14:])))
			pc = int32(int16(binary.LittleEndian.Uint16(pp.bus.OAM[group*32+22:])))
			pd = int32(int16(binary.LittleEndian.Uint16(pp.bus.OAM[group*32+30:])))
		}

		for bx := int32(0); bx < boxW; bx++ {
			sx := x + bx
			if sx < 0 || sx >= display.Width {
				continue
			}

			var tx, ty int32
			if affine {
				// transform from screen space, relative to the box
				// centre, into texture space
				lx := bx - boxW/2
				ly := dy - boxH/2
				tx = (pa*lx+pb*ly)>>8 + w/2
				ty = (pc*lx+pd*ly)>>8 + h/2
				if tx < 0 || ty < 0 || tx >= w || ty >= h {
					continue
				}
			} else {
				tx = bx
				ty = dy
				if attr1&0x1000 != 0 {
					tx = w - 1 - tx
				}
				if attr1&0x2000 != 0 {
					ty = h - 1 - ty
				}
			}

			var idx int
			if eightBit {
				t := tile&^1 + uint32(ty/8)*rowStride + uint32(tx/8)*2
				addr := objCharBase + (t%1024)*32 + uint32(ty&7)*8 + uint32(tx&7)
				idx = int(pp.bus.VRAM[addr])
			} else {
				t := tile + uint32(ty/8)*rowStride + uint32(tx/8)
				addr := objCharBase + (t%1024)*32 + uint32(ty&7)*4 + uint32(tx&7)/2
				b := pp.bus.VRAM[addr]
				if tx&1 != 0 {
					idx = int(b >> 4)
				} else {
					idx = int(b & 0xf)
				}
			}

			if idx == 0 {
				continue
			}

			if objMode == 2 {
				pp.objLine[sx].window = true
				continue
			}

			p := &pp.objLine[sx]
			if p.color == transparent || priority < p.priority {
				var c uint16
				if eightBit {
					c = pp.objPal16(idx)
				} else {
					c = pp.objPal16(pal*16 + idx)
				}
				keepWindow := p.window
				*p = objPixel{
					color:    int32(c),
					priority: priority,
					semi:     objMode == 1,
					window:   keepWindow,
				}
			}
		}
	}
}
