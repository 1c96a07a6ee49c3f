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

type eepromMode int

const (
	eepromIdle eepromMode = iota
	eepromCommand
	eepromAddress
	eepromWriteData
	eepromWriteStop
	eepromReadStop
	eepromReadout
)

// EEPROM is the serial backup device. The device sits on the cartridge bus
// at 0x0d000000 and is driven one bit at a time, in practice always by
// DMA channel 3. Data is addressed in blocks of eight bytes.
//
// The EEPROM is exposed as a concrete type, unlike the other backup
// devices, because the memory bus and the DMA engine need access to the
// serial interface.
type EEPROM struct {
	typ   BackupType
	data  []byte
	dirty bool

	// number of address bits in the serial protocol. 6 for the 512 byte
	// device and 14 for the 8k device
	addrWidth int

	// true until the first serial access. while true the address width
	// can still be revised by the DMA length heuristic
	widthTentative bool

	mode     eepromMode
	reading  bool
	buf      uint64
	bits     int
	block    uint32
	readBits int
}

// NewEEPROM creates an EEPROM device, initialised with the contents of
// data (which may be nil).
func NewEEPROM(bt BackupType, data []byte) *EEPROM {
	eep := &EEPROM{
		typ:  bt,
		data: make([]byte, bt.Size()),
	}
	for i := range eep.data {
		eep.data[i] = 0xff
	}
	copy(eep.data, data)

	if bt == BackupEEPROM512 {
		eep.addrWidth = 6
	} else {
		eep.addrWidth = 14
	}
	eep.widthTentative = true

	return eep
}

func (eep *EEPROM) Type() BackupType {
	return eep.typ
}

// HintDMACount revises the address width from the length of a DMA
// transfer into the device. A read request is 9 bits long and a write
// request 73 bits long on the small device; 17 and 81 bits on the large
// device. The hint is only honoured before the first serial access.
func (eep *EEPROM) HintDMACount(count int) {
	if !eep.widthTentative {
		return
	}

	switch count {
	case 9, 73:
		eep.typ = BackupEEPROM512
		eep.addrWidth = 6
		eep.data = eep.data[:BackupEEPROM512.Size()]
	case 17, 81:
		eep.typ = BackupEEPROM8K
		eep.addrWidth = 14
		if len(eep.data) < BackupEEPROM8K.Size() {
			grown := make([]byte, BackupEEPROM8K.Size())
			for i := range grown {
				grown[i] = 0xff
			}
			copy(grown, eep.data)
			eep.data = grown
		}
	}
}

// WriteBit clocks one bit into the device.
func (eep *EEPROM) WriteBit(bit uint16) {
	eep.widthTentative = false
	b := uint64(bit & 1)

	switch eep.mode {
	case eepromIdle:
		if b == 1 {
			eep.mode = eepromCommand
		}

	case eepromCommand:
		eep.reading = b == 1
		eep.mode = eepromAddress
		eep.buf = 0
		eep.bits = 0

	case eepromAddress:
		eep.buf = (eep.buf << 1) | b
		eep.bits++
		if eep.bits == eep.addrWidth {
			// only the low ten bits of the large device's address are
			// wired up
			eep.block = uint32(eep.buf) & 0x3ff

			if eep.reading {
				eep.mode = eepromReadStop
			} else {
				eep.mode = eepromWriteData
				eep.buf = 0
				eep.bits = 0
			}
		}

	case eepromWriteData:
		eep.buf = (eep.buf << 1) | b
		eep.bits++
		if eep.bits == 64 {
			eep.mode = eepromWriteStop
		}

	case eepromWriteStop:
		base := (eep.block * 8) % uint32(len(eep.data))
		for i := uint32(0); i < 8; i++ {
			eep.data[base+i] = uint8(eep.buf >> ((7 - i) * 8))
		}
		eep.dirty = true
		eep.mode = eepromIdle

	case eepromReadStop:
		base := (eep.block * 8) % uint32(len(eep.data))
		eep.buf = 0
		for i := uint32(0); i < 8; i++ {
			eep.buf = (eep.buf << 8) | uint64(eep.data[base+i])
		}
		eep.readBits = 0
		eep.mode = eepromReadout

	case eepromReadout:
		// writes while a read is in progress abandon the read
		eep.mode = eepromIdle
		if b == 1 {
			eep.mode = eepromCommand
		}
	}
}

// ReadBit clocks one bit out of the device. Outside of a read request the
// device answers with 1, which doubles as the "ready" status after a
// write.
func (eep *EEPROM) ReadBit() uint16 {
	if eep.mode != eepromReadout {
		return 1
	}

	eep.readBits++

	// four dummy bits preceed the data
	if eep.readBits <= 4 {
		return 0
	}

	bit := uint16((eep.buf >> (64 + 4 - eep.readBits)) & 1)
	if eep.readBits == 68 {
		eep.mode = eepromIdle
	}
	return bit
}

// Read8 implements the Backup interface. The EEPROM does not decode byte
// accesses; the bus level value is all ones.
func (eep *EEPROM) Read8(_ uint32) uint8 {
	return 0xff
}

// Write8 implements the Backup interface. Byte writes are ignored.
func (eep *EEPROM) Write8(_ uint32, _ uint8) {
}

func (eep *EEPROM) Data() []byte {
	return eep.data
}

func (eep *EEPROM) Dirty() bool {
	return eep.dirty
}

func (eep *EEPROM) Flushed() {
	eep.dirty = false
}
