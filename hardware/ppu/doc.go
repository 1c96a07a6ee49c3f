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

// Package ppu implements the GBA video unit as a line based state
// machine. Two scheduler events drive it: the start of the horizontal
// blank, at which point the just-finished visible line is rendered into
// the frame buffer, and the end of the line, where VCOUNT advances and
// the blanking flags and interrupts are managed.
//
// Rendering composes, per scanline, up to four backgrounds (text or
// affine, or the three bitmap modes on BG2), the sprite layer with its
// own per-pixel priorities, the two rectangular windows and the object
// window, and the colour special effects.
//
// A finished frame is published to the registered PixelRenderers at the
// start of the vertical blank.
package ppu
