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
	"github.com/seliware/gopheradvance/hardware/memory/cartridge"
	"github.com/seliware/gopheradvance/hardware/scheduler"
	"github.com/seliware/gopheradvance/statefile"
)

// Quicksave serialises the entire machine state into a single blob:
// CPU, memory regions, the scheduler clock and its pending events, and
// every peripheral, including the backup storage contents. BIOS and
// ROM are deliberately excluded; they belong to the front-end.
func (gba *GBA) Quicksave() []byte {
	w := statefile.NewWriter()

	// scheduler clock and queue
	w.WriteUint64(gba.Sched.Cycles())
	dump := gba.Sched.Dump()
	w.WriteUint32(uint32(len(dump)))
	for _, es := range dump {
		w.WriteInt32(int32(es.ID))
		w.WriteUint64(es.Data)
		w.WriteUint64(es.Remaining)
	}

	gba.CPU.SaveState(w)
	gba.Mem.SaveState(w)
	gba.IRQ.SaveState(w)
	gba.DMA.SaveState(w)
	gba.Timers.SaveState(w)
	gba.PPU.SaveState(w)
	gba.APU.SaveState(w)
	gba.Input.SaveState(w)

	w.WriteUint8(gba.postflg)
	w.WriteUint16(gba.rcnt)
	w.WriteUint16(gba.siocnt)

	// backup storage
	if gba.Cart.Backup != nil {
		w.WriteInt32(int32(gba.Cart.Backup.Type()))
		w.WriteBytes(gba.Cart.Backup.Data())
	} else {
		w.WriteInt32(int32(cartridge.BackupNone))
		w.WriteBytes(nil)
	}
	w.WriteBool(gba.Cart.RTC != nil)

	return w.Bytes()
}

// Quickload restores machine state from a quicksave blob. On any error,
// including a version mismatch, the machine is left untouched.
func (gba *GBA) Quickload(data []byte) error {
	r, err := statefile.NewReader(data)
	if err != nil {
		return err
	}

	// dry run the stream before touching the machine: decode onto a
	// scratch console and bail if the stream is short or corrupt
	scratch := NewGBA()
	scratch.Cart.ROM = gba.Cart.ROM
	if err := scratch.loadState(r); err != nil {
		return err
	}

	r2, err := statefile.NewReader(data)
	if err != nil {
		return err
	}
	return gba.loadState(r2)
}

func (gba *GBA) loadState(r *statefile.Reader) error {
	gba.Sched.Reset()
	cyc := r.ReadUint64()
	gba.Sched.Advance(cyc)

	n := int(r.ReadUint32())
	dump := make([]scheduler.EventState, 0, n)
	for i := 0; i < n; i++ {
		es := scheduler.EventState{}
		es.ID = scheduler.EventID(r.ReadInt32())
		es.Data = r.ReadUint64()
		es.Remaining = r.ReadUint64()
		dump = append(dump, es)
	}
	gba.Sched.Restore(dump)

	if err := gba.CPU.LoadState(r); err != nil {
		return err
	}
	if err := gba.Mem.LoadState(r); err != nil {
		return err
	}
	if err := gba.IRQ.LoadState(r); err != nil {
		return err
	}
	if err := gba.DMA.LoadState(r); err != nil {
		return err
	}
	if err := gba.Timers.LoadState(r); err != nil {
		return err
	}
	if err := gba.PPU.LoadState(r); err != nil {
		return err
	}
	if err := gba.APU.LoadState(r); err != nil {
		return err
	}
	if err := gba.Input.LoadState(r); err != nil {
		return err
	}

	gba.postflg = r.ReadUint8()
	gba.rcnt = r.ReadUint16()
	gba.siocnt = r.ReadUint16()

	bt := cartridge.BackupType(r.ReadInt32())
	backup := r.ReadBytes()
	if bt != cartridge.BackupNone {
		if gba.Cart.Backup == nil || gba.Cart.Backup.Type() != bt {
			gba.Cart.Backup = cartridge.NewBackup(bt, nil)
		}
		gba.Cart.LoadBackup(backup)
	}

	hasRTC := r.ReadBool()
	if hasRTC && gba.Cart.RTC == nil {
		gba.Cart.AttachRTC()
	} else if !hasRTC {
		gba.Cart.RTC = nil
	}

	return r.Err()
}
