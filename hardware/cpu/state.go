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

package cpu

import "github.com/seliware/gopheradvance/statefile"

// SaveState serialises the CPU: active registers, every bank, the
// status registers and the pipeline.
func (mc *CPU) SaveState(w *statefile.Writer) {
	for i := 0; i < 16; i++ {
		w.WriteUint32(mc.reg[i])
	}
	w.WriteUint32(mc.cpsr.Value())
	for i := 0; i < numBanks; i++ {
		w.WriteUint32(mc.spsr[i].Value())
		w.WriteUint32(mc.bankHi[i][0])
		w.WriteUint32(mc.bankHi[i][1])
	}
	for s := 0; s < 2; s++ {
		for i := 0; i < 5; i++ {
			w.WriteUint32(mc.bankLo[s][i])
		}
	}
	w.WriteUint32(mc.pipeline[0])
	w.WriteUint32(mc.pipeline[1])
	w.WriteBool(mc.flushed)
	w.WriteBool(mc.Halted)
	w.WriteBool(mc.Stopped)
}

// LoadState restores the CPU.
func (mc *CPU) LoadState(r *statefile.Reader) error {
	for i := 0; i < 16; i++ {
		mc.reg[i] = r.ReadUint32()
	}
	mc.cpsr = PSR(r.ReadUint32())
	for i := 0; i < numBanks; i++ {
		mc.spsr[i] = PSR(r.ReadUint32())
		mc.bankHi[i][0] = r.ReadUint32()
		mc.bankHi[i][1] = r.ReadUint32()
	}
	for s := 0; s < 2; s++ {
		for i := 0; i < 5; i++ {
			mc.bankLo[s][i] = r.ReadUint32()
		}
	}
	mc.pipeline[0] = r.ReadUint32()
	mc.pipeline[1] = r.ReadUint32()
	mc.flushed = r.ReadBool()
	mc.Halted = r.ReadBool()
	mc.Stopped = r.ReadBool()
	return r.Err()
}
