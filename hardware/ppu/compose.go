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

import "github.com/seliware/gopheradvance/display"

// layer identifiers as used by BLDCNT target masks.
const (
	layerBG0      = 0
	layerBG1      = 1
	layerBG2      = 2
	layerBG3      = 3
	layerObj      = 4
	layerBackdrop = 5
)

// window layer enable bits, as found in WININ/WINOUT fields.
const (
	winEnableObj   = 0x10
	winEnableBlend = 0x20
)

// composeLine combines the scratch buffers into final colours.
func (pp *PPU) composeLine(line int, out []uint16) {
	backdrop := int32(pp.pal16(0))

	anyWindow := pp.dispcnt&(dispcntWin0|dispcntWin1|dispcntObjWin) != 0

	// vertical window activity for this line
	var winLineActive [2]bool
	for i := 0; i < 2; i++ {
		enabled := pp.dispcnt&(dispcntWin0<<uint(i)) != 0
		if !enabled {
			continue
		}
		y1 := int(pp.winv[i] >> 8)
		y2 := int(pp.winv[i] & 0xff)
		if y1 <= y2 {
			winLineActive[i] = line >= y1 && line < y2
		} else {
			winLineActive[i] = line >= y1 || line < y2
		}
	}

	// background draw order for this line: priority then index
	var order [4]int
	n := 0
	for prio := uint16(0); prio < 4; prio++ {
		for bg := 0; bg < 4; bg++ {
			if pp.bgEnabled(bg) && pp.bgcnt[bg]&0x3 == prio {
				order[n] = bg
				n++
			}
		}
	}

	effect := (pp.bldcnt >> 6) & 0x3
	eva := min16(uint32(pp.bldalpha) & 0x1f)
	evb := min16(uint32(pp.bldalpha>>8) & 0x1f)
	evy := min16(uint32(pp.bldy) & 0x1f)

	for x := 0; x < display.Width; x++ {
		enable := uint16(0x3f)
		if anyWindow {
			enable = pp.windowAt(x, winLineActive)
		}

		// find the top two visible pixels
		top := backdrop
		topLayer := layerBackdrop
		second := backdrop
		secondLayer := layerBackdrop
		topSemi := false

		objUsed := false
		obj := &pp.objLine[x]

		place := func(color int32, layer int, semi bool) bool {
			if topLayer == layerBackdrop {
				top = color
				topLayer = layer
				topSemi = semi
				return false
			}
			second = color
			secondLayer = layer
			return true
		}

		done := false
		for oi := 0; oi < n && !done; oi++ {
			bg := order[oi]

			// the sprite layer slots in above any background of the
			// same or lower priority
			if !objUsed && obj.color != transparent && enable&winEnableObj != 0 &&
				uint16(obj.priority) <= pp.bgcnt[bg]&0x3 {
				objUsed = true
				done = place(obj.color, layerObj, obj.semi)
				if done {
					break
				}
			}

			if enable&(1<<uint(bg)) != 0 && pp.bgLine[bg][x] != transparent {
				done = place(pp.bgLine[bg][x], bg, false)
			}
		}
		if !done && !objUsed && obj.color != transparent && enable&winEnableObj != 0 {
			place(obj.color, layerObj, obj.semi)
		}

		out[x] = pp.applyEffect(top, topLayer, topSemi, second, secondLayer,
			effect, eva, evb, evy, enable&winEnableBlend != 0)
	}
}

// windowAt returns the layer enable mask for a pixel, consulting the
// two rectangular windows and the object window in their priority
// order.
func (pp *PPU) windowAt(x int, winLineActive [2]bool) uint16 {
	for i := 0; i < 2; i++ {
		if !winLineActive[i] {
			continue
		}
		x1 := int(pp.winh[i] >> 8)
		x2 := int(pp.winh[i] & 0xff)
		var inside bool
		if x1 <= x2 {
			inside = x >= x1 && x < x2
		} else {
			inside = x >= x1 || x < x2
		}
		if inside {
			return (pp.winin >> uint(i*8)) & 0x3f
		}
	}

	if pp.dispcnt&dispcntObjWin != 0 && pp.objLine[x].window {
		return (pp.winout >> 8) & 0x3f
	}

	return pp.winout & 0x3f
}

func min16(v uint32) uint32 {
	if v > 16 {
		return 16
	}
	return v
}

// applyEffect applies the colour special effect selected by BLDCNT, or
// the forced alpha blend of a semi-transparent sprite pixel.
func (pp *PPU) applyEffect(top int32, topLayer int, topSemi bool, second int32, secondLayer int,
	effect uint16, eva, evb, evy uint32, blendOK bool) uint16 {

	firstTarget := pp.bldcnt&(1<<uint(topLayer)) != 0
	secondTarget := pp.bldcnt&(0x100<<uint(secondLayer)) != 0

	// a semi-transparent sprite pixel blends regardless of the selected
	// effect and of the window's blend enable
	if topSemi && secondTarget {
		return alphaBlend(uint16(top), uint16(second), eva, evb)
	}

	if !blendOK || effect == 0 || !firstTarget {
		return uint16(top)
	}

	switch effect {
	case 1:
		if secondTarget {
			return alphaBlend(uint16(top), uint16(second), eva, evb)
		}
		return uint16(top)
	case 2:
		return brighten(uint16(top), evy)
	case 3:
		return darken(uint16(top), evy)
	}
	return uint16(top)
}

func alphaBlend(a, b uint16, eva, evb uint32) uint16 {
	ra := uint32(a) & 0x1f
	ga := uint32(a>>5) & 0x1f
	ba := uint32(a>>10) & 0x1f
	rb := uint32(b) & 0x1f
	gb := uint32(b>>5) & 0x1f
	bb := uint32(b>>10) & 0x1f

	r := cap31((ra*eva + rb*evb) / 16)
	g := cap31((ga*eva + gb*evb) / 16)
	bl := cap31((ba*eva + bb*evb) / 16)

	return uint16(r | g<<5 | bl<<10)
}

func brighten(c uint16, evy uint32) uint16 {
	r := uint32(c) & 0x1f
	g := uint32(c>>5) & 0x1f
	b := uint32(c>>10) & 0x1f

	r += (31 - r) * evy / 16
	g += (31 - g) * evy / 16
	b += (31 - b) * evy / 16

	return uint16(r | g<<5 | b<<10)
}

func darken(c uint16, evy uint32) uint16 {
	r := uint32(c) & 0x1f
	g := uint32(c>>5) & 0x1f
	b := uint32(c>>10) & 0x1f

	r -= r * evy / 16
	g -= g * evy / 16
	b -= b * evy / 16

	return uint16(r | g<<5 | b<<10)
}

func cap31(v uint32) uint32 {
	if v > 31 {
		return 31
	}
	return v
}
