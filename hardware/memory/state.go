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

package memory

import "github.com/seliware/gopheradvance/statefile"

// SaveState serialises the volatile memory regions and the bus
// housekeeping. BIOS and ROM are not part of the quicksave; they are
// reattached by the front-end.
func (bus *Bus) SaveState(w *statefile.Writer) {
	w.WriteBytes(bus.EWRAM)
	w.WriteBytes(bus.IWRAM)
	w.WriteBytes(bus.Pal)
	w.WriteBytes(bus.VRAM)
	w.WriteBytes(bus.OAM)
	w.WriteUint32(bus.prefetch)
	w.WriteUint32(bus.prefetchAddr)
	w.WriteUint32(bus.biosLatch)
	w.WriteUint16(bus.waitcnt)
}

// LoadState restores the volatile memory regions and the bus
// housekeeping.
func (bus *Bus) LoadState(r *statefile.Reader) error {
	copy(bus.EWRAM, r.ReadBytes())
	copy(bus.IWRAM, r.ReadBytes())
	copy(bus.Pal, r.ReadBytes())
	copy(bus.VRAM, r.ReadBytes())
	copy(bus.OAM, r.ReadBytes())
	bus.prefetch = r.ReadUint32()
	bus.prefetchAddr = r.ReadUint32()
	bus.biosLatch = r.ReadUint32()
	bus.waitcnt = r.ReadUint16()
	bus.recomputeWaits()
	return r.Err()
}
