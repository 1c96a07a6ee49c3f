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

package cartridge

import (
	"github.com/seliware/gopheradvance/logger"
)

// flash command sequence state. a command is introduced by writing 0xaa to
// 0x5555 and 0x55 to 0x2aaa, followed by the command byte at 0x5555.
type flashState int

const (
	flashReady flashState = iota
	flashCmd1
	flashCmd2
	flashWriteByte
	flashBankSwitch
)

// the two flash chips used by commercial cartridges and the IDs they
// answer to in chip identification mode.
const (
	flashManufacturerSST      = 0xbf // 64k
	flashDeviceSST            = 0xd4
	flashManufacturerMacronix = 0xc2 // 128k
	flashDeviceMacronix       = 0x09
)

type flash struct {
	typ   BackupType
	data  []byte
	dirty bool

	state     flashState
	idMode    bool
	eraseNext bool
	bank      uint32
}

func newFlash(bt BackupType, data []byte) *flash {
	f := &flash{
		typ:  bt,
		data: make([]byte, bt.Size()),
	}
	for i := range f.data {
		f.data[i] = 0xff
	}
	copy(f.data, data)
	return f
}

func (f *flash) Type() BackupType {
	return f.typ
}

// offset folds the bank number into a 64k window address.
func (f *flash) offset(addr uint32) uint32 {
	return (addr & 0xffff) + f.bank*0x10000
}

func (f *flash) Read8(addr uint32) uint8 {
	addr &= 0xffff

	if f.idMode {
		switch addr {
		case 0x0000:
			if f.typ == BackupFlash128 {
				return flashManufacturerMacronix
			}
			return flashManufacturerSST
		case 0x0001:
			if f.typ == BackupFlash128 {
				return flashDeviceMacronix
			}
			return flashDeviceSST
		}
	}

	return f.data[f.offset(addr)]
}

func (f *flash) Write8(addr uint32, data uint8) {
	addr &= 0xffff

	switch f.state {
	case flashReady:
		if addr == 0x5555 && data == 0xaa {
			f.state = flashCmd1
		}

	case flashCmd1:
		if addr == 0x2aaa && data == 0x55 {
			f.state = flashCmd2
		} else {
			f.state = flashReady
		}

	case flashCmd2:
		f.state = flashReady
		if addr != 0x5555 && data != 0x30 {
			return
		}

		switch data {
		case 0x90: // enter chip identification
			f.idMode = true
		case 0xf0: // leave chip identification
			f.idMode = false
		case 0x80: // erase mode. the next command selects what to erase
			f.eraseNext = true
		case 0x10: // chip erase
			if f.eraseNext {
				for i := range f.data {
					f.data[i] = 0xff
				}
				f.dirty = true
				f.eraseNext = false
			}
		case 0x30: // sector erase. the 4k sector is in the address
			if f.eraseNext {
				base := f.offset(addr &^ 0xfff)
				for i := uint32(0); i < 0x1000; i++ {
					f.data[base+i] = 0xff
				}
				f.dirty = true
				f.eraseNext = false
			}
		case 0xa0: // single byte program
			f.state = flashWriteByte
		case 0xb0: // bank switch (128k devices only)
			if f.typ == BackupFlash128 {
				f.state = flashBankSwitch
			}
		default:
			logger.Logf(logger.Allow, "cartridge", "unknown flash command %#02x", data)
		}

	case flashWriteByte:
		// programming can only clear bits, as in real NOR flash
		f.data[f.offset(addr)] &= data
		f.dirty = true
		f.state = flashReady

	case flashBankSwitch:
		if addr == 0x0000 {
			f.bank = uint32(data) & 0x1
		}
		f.state = flashReady
	}
}

func (f *flash) Data() []byte {
	return f.data
}

func (f *flash) Dirty() bool {
	return f.dirty
}

func (f *flash) Flushed() {
	f.dirty = false
}
